package blockview

import (
	"math"
	"sort"
)

// selectRelevant picks the best cached block to render for the window:
// blocks overlapping it and ready, most recently touched first. During a
// scale transition several blocks overlap the view at once; recency favors
// the one the user is actively looking at over previously visited scales.
// Equal stamps break toward the block whose scale best matches the window's
// span, so the result is deterministic.
func selectRelevant(blocks []*Block, w TimeWindow, blockFactor float64) *Block {
	ideal := 0
	if key, err := ComputeKey(w, blockFactor); err == nil {
		ideal = key.Scale
	}

	candidates := blocks[:0:0]
	for _, b := range blocks {
		if b.Overlaps(w.TMin, w.TMax) && b.Ready() {
			candidates = append(candidates, b)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		ti, tj := candidates[i].LastTouched(), candidates[j].LastTouched()
		if ti != tj {
			return ti > tj
		}
		di := int(math.Abs(float64(candidates[i].key.Scale - ideal)))
		dj := int(math.Abs(float64(candidates[j].key.Scale - ideal)))
		if di != dj {
			return di < dj
		}
		return candidates[i].key.Index < candidates[j].key.Index
	})
	return candidates[0]
}
