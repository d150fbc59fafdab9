package blockview

import (
	"fmt"
)

// InvalidWindowError reports a malformed time range (tmax <= tmin or
// non-finite bounds) passed to SetWindow or ComputeKey. It is a precondition
// violation and is returned to the caller immediately.
type InvalidWindowError struct {
	TMin float64
	TMax float64
}

func (e *InvalidWindowError) Error() string {
	return fmt.Sprintf("blockview: invalid time window [%g, %g)", e.TMin, e.TMax)
}

// FetchError records a failed fetch round for one block. At least one of
// CoverageErr and SpectrogramErr is non-nil. The block stays eligible for
// retry on its next update.
type FetchError struct {
	Key            BlockKey
	CoverageErr    error
	SpectrogramErr error
}

func (e *FetchError) Error() string {
	switch {
	case e.CoverageErr != nil && e.SpectrogramErr != nil:
		return fmt.Sprintf("block %s: coverage and spectrogram fetch failed: coverage=%v; spectrogram=%v",
			e.Key, e.CoverageErr, e.SpectrogramErr)
	case e.CoverageErr != nil:
		return fmt.Sprintf("block %s: coverage fetch failed: %v", e.Key, e.CoverageErr)
	case e.SpectrogramErr != nil:
		return fmt.Sprintf("block %s: spectrogram fetch failed: %v", e.Key, e.SpectrogramErr)
	default:
		return fmt.Sprintf("block %s: fetch failed", e.Key)
	}
}

func (e *FetchError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.CoverageErr != nil {
		errs = append(errs, e.CoverageErr)
	}
	if e.SpectrogramErr != nil {
		errs = append(errs, e.SpectrogramErr)
	}
	return errs
}
