// Package wiretime converts between wall-clock time as float64 seconds since
// epoch and the fixed textual timestamp format used on the wire.
package wiretime

import (
	"fmt"
	"math"
	"time"
)

// Layout is the wire timestamp format, always UTC with millisecond precision.
const Layout = "2006-01-02 15:04:05.000"

// Format renders t (seconds since epoch) as a wire time string.
func Format(t float64) string {
	sec := math.Floor(t)
	nsec := math.Round((t - sec) * 1e9)
	return time.Unix(int64(sec), int64(nsec)).UTC().Format(Layout)
}

// Parse converts a wire time string back to seconds since epoch.
func Parse(s string) (float64, error) {
	t, err := time.ParseInLocation(Layout, s, time.UTC)
	if err != nil {
		return 0, fmt.Errorf("wiretime: parse %q: %w", s, err)
	}
	return float64(t.UnixNano()) / 1e9, nil
}

// Now returns the current wall-clock time in seconds since epoch.
func Now() float64 {
	return float64(time.Now().UnixNano()) / 1e9
}

// ClampToNow caps t at the current time, so queries never ask for future
// data.
func ClampToNow(t float64) float64 {
	if now := Now(); t > now {
		return now
	}
	return t
}
