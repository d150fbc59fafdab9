package blockview

import (
	"context"
	"sync"

	"github.com/openseis/blockview/channel"
)

// View orchestrates the visible time/frequency window over the block cache.
// Navigation quantizes the window, ensures a block exists for the key,
// stamps it with the logical clock and launches its async update. Rendering
// asks Relevant for the best ready block, independent of what is currently
// fetching.
type View struct {
	chn   channel.DataChannel
	cache *blockCache
	log   Logger
	hooks Hooks
	spawn func(func())

	blockFactor float64
	framePad    float64

	mu        sync.Mutex
	win       TimeWindow
	band      FrequencyBand
	clock     int64
	hasWindow bool
	framed    bool
	gates     []*Gate
}

// SetWindow moves the visible time window and triggers the owning block's
// async update. Returns InvalidWindowError when tmax <= tmin.
func (v *View) SetWindow(ctx context.Context, tmin, tmax float64) error {
	w := TimeWindow{TMin: tmin, TMax: tmax}
	if !w.Valid() {
		return &InvalidWindowError{TMin: tmin, TMax: tmax}
	}
	key, err := ComputeKey(w, v.blockFactor)
	if err != nil {
		return err
	}

	v.mu.Lock()
	v.win = w
	v.hasWindow = true
	stamp := v.clock
	v.clock++
	band := v.band
	v.mu.Unlock()

	b, _ := v.cache.getOrCreate(key)
	b.Touch(stamp)
	v.spawn(func() {
		_ = b.Update(ctx, band) // failures land on the block and in hooks
	})
	return nil
}

// PageBy shifts the window by fraction of its span: 0.5 is half a page
// forward, -1 a full page back.
func (v *View) PageBy(ctx context.Context, fraction float64) error {
	v.mu.Lock()
	w, ok := v.win, v.hasWindow
	v.mu.Unlock()
	if !ok {
		return &InvalidWindowError{}
	}
	shift := fraction * w.Span()
	return v.SetWindow(ctx, w.TMin+shift, w.TMax+shift)
}

// SetFrequencyBand changes the spectrogram band and re-updates the block
// for the current key only. Blocks cached under the old band keep their
// data and stay selectable; Block.Band tells consumers which band a block's
// imagery belongs to.
func (v *View) SetFrequencyBand(ctx context.Context, fmin, fmax float64) error {
	v.mu.Lock()
	v.band = FrequencyBand{FMin: fmin, FMax: fmax}
	band := v.band
	w, ok := v.win, v.hasWindow
	stamp := v.clock
	v.clock++
	v.mu.Unlock()

	if !ok {
		return nil // band takes effect with the first window
	}
	key, err := ComputeKey(w, v.blockFactor)
	if err != nil {
		return err
	}
	b, _ := v.cache.getOrCreate(key)
	b.Touch(stamp)
	v.spawn(func() {
		_ = b.Update(ctx, band)
	})
	return nil
}

// Window returns the current visible window; ok is false before the first
// SetWindow or auto-frame.
func (v *View) Window() (TimeWindow, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.win, v.hasWindow
}

// Band returns the current frequency band.
func (v *View) Band() FrequencyBand {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.band
}

// Clock returns the current logical clock value.
func (v *View) Clock() int64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.clock
}

// Relevant returns the best cached block for the current window: ready,
// overlapping, most recently touched. Nil when nothing qualifies yet.
func (v *View) Relevant() *Block {
	v.mu.Lock()
	w, ok := v.win, v.hasWindow
	v.mu.Unlock()
	if !ok {
		return nil
	}
	return selectRelevant(v.cache.snapshot(), w, v.blockFactor)
}

// Blocks returns a snapshot of all cached blocks, in unspecified order.
func (v *View) Blocks() []*Block { return v.cache.snapshot() }

// BlockCount reports the number of cached blocks.
func (v *View) BlockCount() int { return v.cache.len() }

// LoadGate fetches a gate's codes and extents over the view's channel and
// registers it.
func (v *View) LoadGate(ctx context.Context) (*Gate, error) {
	g, err := LoadGate(ctx, v.chn)
	if err != nil {
		return nil, err
	}
	v.AddGate(ctx, g)
	return g, nil
}

// AddGate registers a gate. Once the union of the gates' waveform extents
// is known and no window has been set explicitly, the view frames itself to
// that extent with a padding margin per side, exactly once.
func (v *View) AddGate(ctx context.Context, g *Gate) {
	v.mu.Lock()
	v.gates = append(v.gates, g)
	frame := !v.framed && !v.hasWindow
	var ext *TimeWindow
	if frame {
		ext = unionExtent(v.gates, channel.KindWaveform)
		frame = ext != nil && ext.Valid()
		if frame {
			v.framed = true
		}
	}
	v.mu.Unlock()

	if !frame {
		return
	}
	pad := v.framePad * ext.Span()
	framed := TimeWindow{TMin: ext.TMin - pad, TMax: ext.TMax + pad}
	v.log.Info("auto-framing view to gate extent", Fields{"tmin": framed.TMin, "tmax": framed.TMax})
	if err := v.SetWindow(ctx, framed.TMin, framed.TMax); err != nil {
		v.log.Warn("auto-frame rejected", Fields{"err": err})
		return
	}
	v.hooks.ViewFramed(framed)
}

// Codes returns the sorted union of all registered gates' code sets.
func (v *View) Codes() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return unionCodes(v.gates)
}

// Extent returns the union of the registered gates' extents for kind, or
// nil when unknown.
func (v *View) Extent(kind channel.Kind) *TimeWindow {
	v.mu.Lock()
	defer v.mu.Unlock()
	return unionExtent(v.gates, kind)
}
