package blockview

import (
	"fmt"
	"math"
)

// TimeWindow is a half-open interval [TMin, TMax) in seconds since epoch.
type TimeWindow struct {
	TMin float64
	TMax float64
}

// Span returns the window duration in seconds.
func (w TimeWindow) Span() float64 { return w.TMax - w.TMin }

// Valid reports whether the window is well-formed (TMin < TMax, both finite).
func (w TimeWindow) Valid() bool {
	return w.TMin < w.TMax && !math.IsInf(w.TMin, 0) && !math.IsInf(w.TMax, 0) &&
		!math.IsNaN(w.TMin) && !math.IsNaN(w.TMax)
}

// Overlaps reports strict interval overlap with [tmin, tmax). Windows that
// touch only at an endpoint do not overlap.
func (w TimeWindow) Overlaps(tmin, tmax float64) bool {
	return w.TMin < tmax && w.TMax > tmin
}

// FrequencyBand bounds the spectrogram query in Hz.
type FrequencyBand struct {
	FMin float64
	FMax float64
}

// BlockKey addresses one block of the dyadic time tiling. Scale selects the
// step 2^Scale; Index counts multiples of 2^Scale/2 along the time axis.
type BlockKey struct {
	Scale int
	Index int64
}

func (k BlockKey) String() string {
	return fmt.Sprintf("s%d:i%d", k.Scale, k.Index)
}

// TimeStep returns 2^Scale seconds.
func (k BlockKey) TimeStep() float64 { return math.Ldexp(1, k.Scale) }

// Window returns the block extent [(Index-2), (Index+2)) * TimeStep/2: an
// interval of length 2*TimeStep centered on Index*TimeStep/2. The extent is
// over-provisioned relative to the window the key was computed from, so
// small pans stay inside the same block.
func (k BlockKey) Window() TimeWindow {
	half := k.TimeStep() / 2
	return TimeWindow{
		TMin: float64(k.Index-2) * half,
		TMax: float64(k.Index+2) * half,
	}
}

// ComputeKey quantizes a requested window onto the tiling. blockFactor is
// the over-provisioning factor: the chosen TimeStep is the smallest power of
// two >= blockFactor * window span. Equal windows always map to equal keys.
func ComputeKey(w TimeWindow, blockFactor float64) (BlockKey, error) {
	if !w.Valid() {
		return BlockKey{}, &InvalidWindowError{TMin: w.TMin, TMax: w.TMax}
	}
	if blockFactor <= 0 {
		blockFactor = DefaultBlockFactor
	}
	x := blockFactor * w.Span()
	scale := int(math.Ceil(math.Log2(x)))
	// Exact powers of two must round up, never down; guard the float error
	// path where Log2 lands a hair below the integer.
	if math.Ldexp(1, scale) < x {
		scale++
	}
	return keyAtScale(w, scale), nil
}

// keyAtScale snaps the window center to the nearest multiple of 2^scale/2.
// Re-quantizing a block's own extent at its scale reproduces the key: the
// extent center is exactly Index*2^scale/2.
func keyAtScale(w TimeWindow, scale int) BlockKey {
	step := math.Ldexp(1, scale)
	return BlockKey{
		Scale: scale,
		Index: int64(math.Round((w.TMin + w.TMax) / step)),
	}
}
