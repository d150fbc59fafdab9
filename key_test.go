package blockview

import (
	"errors"
	"math"
	"testing"
)

// TestComputeKeyScenario pins the worked quantization example: a 1000s
// window with blockFactor 4 lands on scale 12, index 1, extent [-2048,6144).
func TestComputeKeyScenario(t *testing.T) {
	w := TimeWindow{TMin: 1000, TMax: 2000}
	key, err := ComputeKey(w, 4)
	if err != nil {
		t.Fatalf("ComputeKey: %v", err)
	}
	if key.Scale != 12 || key.Index != 1 {
		t.Fatalf("expected (12, 1), got (%d, %d)", key.Scale, key.Index)
	}
	if got := key.TimeStep(); got != 4096 {
		t.Fatalf("TimeStep expected 4096, got %g", got)
	}
	ext := key.Window()
	if ext.TMin != -2048 || ext.TMax != 6144 {
		t.Fatalf("extent expected [-2048, 6144), got [%g, %g)", ext.TMin, ext.TMax)
	}
	if !ext.Overlaps(1000, 2000) {
		t.Fatalf("block extent must overlap the requested window")
	}
}

// TestComputeKeyDeterministic verifies equal windows map to equal keys and
// nearby windows collapse onto the same key until the scale changes.
func TestComputeKeyDeterministic(t *testing.T) {
	w := TimeWindow{TMin: 1000, TMax: 2000}
	k1, err := ComputeKey(w, 4)
	if err != nil {
		t.Fatalf("ComputeKey: %v", err)
	}
	k2, err := ComputeKey(w, 4)
	if err != nil {
		t.Fatalf("ComputeKey: %v", err)
	}
	if k1 != k2 {
		t.Fatalf("equal windows produced different keys: %v vs %v", k1, k2)
	}

	// A small pan at the same zoom stays on the same key.
	panned := TimeWindow{TMin: 1100, TMax: 2100}
	k3, err := ComputeKey(panned, 4)
	if err != nil {
		t.Fatalf("ComputeKey: %v", err)
	}
	if k3 != k1 {
		t.Fatalf("small pan should reuse key %v, got %v", k1, k3)
	}

	// Zooming out far enough changes the scale.
	zoomed := TimeWindow{TMin: 0, TMax: 10000}
	k4, err := ComputeKey(zoomed, 4)
	if err != nil {
		t.Fatalf("ComputeKey: %v", err)
	}
	if k4.Scale <= k1.Scale {
		t.Fatalf("zoom out should raise scale above %d, got %d", k1.Scale, k4.Scale)
	}
}

// TestComputeKeyTimeStepBound checks timeStep is a power of two and at
// least blockFactor * span, including exact power-of-two products where the
// ceil must not round down.
func TestComputeKeyTimeStepBound(t *testing.T) {
	cases := []struct {
		tmin, tmax, bf float64
	}{
		{1000, 2000, 4},
		{0, 256, 4},     // 4*256 = 1024 = 2^10 exactly
		{0, 1, 4},       // 4*1 = 4 = 2^2 exactly
		{0, 0.001, 4},   // sub-second windows
		{-500, 300, 4},  // negative times
		{0, 3, 1},       // blockFactor 1
		{1e6, 2e6, 8},   // large spans
		{0, 1000, 0.25}, // fractional blockFactor
	}
	for _, tc := range cases {
		w := TimeWindow{TMin: tc.tmin, TMax: tc.tmax}
		key, err := ComputeKey(w, tc.bf)
		if err != nil {
			t.Fatalf("ComputeKey(%v, %g): %v", w, tc.bf, err)
		}
		step := key.TimeStep()
		if math.Ldexp(1, key.Scale) != step {
			t.Fatalf("timeStep %g is not 2^%d", step, key.Scale)
		}
		if step < tc.bf*w.Span() {
			t.Fatalf("timeStep %g < blockFactor*span %g for %v", step, tc.bf*w.Span(), w)
		}
		if !key.Window().Overlaps(tc.tmin, tc.tmax) {
			t.Fatalf("block extent %v does not overlap request %v", key.Window(), w)
		}
	}
}

// TestComputeKeyCoversRequest: the block extent must contain the requested
// window entirely, also for windows centered near tile boundaries.
func TestComputeKeyCoversRequest(t *testing.T) {
	for _, off := range []float64{0, 100, 500, 1000, 2000, 2047, 2049, 3000} {
		w := TimeWindow{TMin: off, TMax: off + 1000}
		key, err := ComputeKey(w, 4)
		if err != nil {
			t.Fatalf("ComputeKey: %v", err)
		}
		ext := key.Window()
		if ext.TMin > w.TMin || ext.TMax < w.TMax {
			t.Fatalf("extent [%g, %g) does not cover request [%g, %g)",
				ext.TMin, ext.TMax, w.TMin, w.TMax)
		}
	}
}

func TestComputeKeyInvalidWindow(t *testing.T) {
	for _, w := range []TimeWindow{
		{TMin: 2000, TMax: 1000},
		{TMin: 1000, TMax: 1000},
		{TMin: math.NaN(), TMax: 1000},
		{TMin: 0, TMax: math.Inf(1)},
	} {
		_, err := ComputeKey(w, 4)
		var iw *InvalidWindowError
		if !errors.As(err, &iw) {
			t.Fatalf("ComputeKey(%v) expected InvalidWindowError, got %v", w, err)
		}
	}
}

// TestKeyTilingStable: re-quantizing a block's own extent at the block's
// scale reproduces the key exactly. The extent center is a multiple of
// timeStep/2, so the tiling is a fixed grid per scale.
func TestKeyTilingStable(t *testing.T) {
	keys := []BlockKey{
		{Scale: 12, Index: 1},
		{Scale: 12, Index: -3},
		{Scale: 0, Index: 7},
		{Scale: 20, Index: 0},
		{Scale: 5, Index: 123456},
	}
	for _, k := range keys {
		if got := keyAtScale(k.Window(), k.Scale); got != k {
			t.Fatalf("re-quantizing extent of %v at its scale gave %v", k, got)
		}
	}
}

// TestWindowOverlapsBoundary: half-open semantics; windows touching only at
// an endpoint do not overlap.
func TestWindowOverlapsBoundary(t *testing.T) {
	w := TimeWindow{TMin: 0, TMax: 100}
	if w.Overlaps(100, 200) {
		t.Fatalf("touching at tmax must not overlap")
	}
	if w.Overlaps(-50, 0) {
		t.Fatalf("touching at tmin must not overlap")
	}
	if !w.Overlaps(99, 200) {
		t.Fatalf("one-sample intrusion must overlap")
	}
	if !w.Overlaps(-50, 150) {
		t.Fatalf("containing window must overlap")
	}
	if !w.Overlaps(40, 60) {
		t.Fatalf("contained window must overlap")
	}
}
