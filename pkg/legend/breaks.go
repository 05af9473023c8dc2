package legend

import (
	"math"

	"github.com/skoehler/geomap/pkg/errors"
)

// Breaks is an ordered sequence of N+1 strictly increasing bin boundaries
// defining N bins. The first and/or last boundary may be infinite, which
// marks the corresponding extreme bin as open-ended: it renders as a pointed
// triangle instead of a rectangle.
type Breaks []float64

// Validate checks the break-set invariants: at least two boundaries,
// strictly increasing values, no NaN, and infinities only at the two ends.
func (b Breaks) Validate() error {
	if len(b) < 2 {
		return errors.New(errors.ErrCodeInvalidBreaks, "need at least 2 boundaries, got %d", len(b))
	}
	for i, v := range b {
		if math.IsNaN(v) {
			return errors.New(errors.ErrCodeInvalidBreaks, "boundary %d is NaN", i)
		}
		if math.IsInf(v, 0) && i != 0 && i != len(b)-1 {
			return errors.New(errors.ErrCodeInvalidBreaks, "infinite boundary only permitted at the ends, found at index %d", i)
		}
	}
	if math.IsInf(b[0], 1) {
		return errors.New(errors.ErrCodeInvalidBreaks, "first boundary cannot be +Inf")
	}
	if math.IsInf(b[len(b)-1], -1) {
		return errors.New(errors.ErrCodeInvalidBreaks, "last boundary cannot be -Inf")
	}
	for i := 1; i < len(b); i++ {
		if b[i] <= b[i-1] {
			return errors.New(errors.ErrCodeInvalidBreaks, "boundaries must be strictly increasing: %v >= %v at index %d", b[i-1], b[i], i)
		}
	}
	return nil
}

// Strip removes infinite end boundaries and reports which extremes are open.
// The returned slice is the working break list whose gaps are the
// rectangle-drawn bins. Strip does not validate; call Validate first.
func (b Breaks) Strip() (working []float64, bottomOpen, topOpen bool) {
	working = b
	if len(working) > 0 && math.IsInf(working[0], -1) {
		working = working[1:]
		bottomOpen = true
	}
	if len(working) > 0 && math.IsInf(working[len(working)-1], 1) {
		working = working[:len(working)-1]
		topOpen = true
	}
	return working, bottomOpen, topOpen
}

// HasInfinite reports whether either end boundary is infinite.
func (b Breaks) HasInfinite() bool {
	if len(b) == 0 {
		return false
	}
	return math.IsInf(b[0], -1) || math.IsInf(b[len(b)-1], 1)
}

// Bins returns the number of finite, rectangle-drawn bins after stripping
// infinite ends. Returns 0 for break sets too short to form a bin.
func (b Breaks) Bins() int {
	working, _, _ := b.Strip()
	if len(working) < 2 {
		return 0
	}
	return len(working) - 1
}
