package grid

import (
	"math"

	"github.com/skoehler/geomap/pkg/errors"
	"github.com/skoehler/geomap/pkg/legend"
)

// Missing is the class index assigned to cells without a usable value.
const Missing = -1

// Classified pairs a grid with per-cell class indices. Classes[i] is the
// bin index of Values[i] among the finite bins, or Missing.
type Classified struct {
	Grid    *Grid
	Classes []int
	// NClasses is the number of finite bins, matching the color count the
	// legend expects.
	NClasses int
}

// Classify bins every grid value into the discrete classes defined by the
// break set. Bins are half-open [b[i], b[i+1]) with the last bin closed on
// both sides. An infinite first or last boundary opens the corresponding
// extreme: out-of-range values clamp into the extreme class instead of
// becoming missing.
func (g *Grid) Classify(breaks legend.Breaks) (*Classified, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if err := breaks.Validate(); err != nil {
		return nil, err
	}

	working, bottomOpen, topOpen := breaks.Strip()
	if len(working) < 2 {
		return nil, errors.New(errors.ErrCodeInvalidBreaks, "need at least one finite bin to classify")
	}
	n := len(working) - 1

	out := &Classified{
		Grid:     g,
		Classes:  make([]int, len(g.Values)),
		NClasses: n,
	}
	for i, v := range g.Values {
		out.Classes[i] = classOf(v, working, bottomOpen, topOpen)
	}
	return out, nil
}

// classOf places a single value. working has at least 2 entries.
func classOf(v float64, working []float64, bottomOpen, topOpen bool) int {
	if math.IsNaN(v) {
		return Missing
	}
	n := len(working) - 1
	if v < working[0] {
		if bottomOpen {
			return 0
		}
		return Missing
	}
	if v > working[n] {
		if topOpen {
			return n - 1
		}
		return Missing
	}
	if v == working[n] {
		return n - 1
	}
	// Linear scan: break sets are small (typically < 20 bins).
	for i := 0; i < n; i++ {
		if v < working[i+1] {
			return i
		}
	}
	return n - 1
}

// Counts returns the number of cells per class plus the missing count.
// Useful for logging class balance after classification.
func (c *Classified) Counts() (perClass []int, missing int) {
	perClass = make([]int, c.NClasses)
	for _, cls := range c.Classes {
		if cls == Missing {
			missing++
			continue
		}
		perClass[cls]++
	}
	return perClass, missing
}
