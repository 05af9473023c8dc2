package grid

import (
	"math"
	"testing"

	"github.com/skoehler/geomap/pkg/errors"
	"github.com/skoehler/geomap/pkg/geo"
)

// testGrid builds a small 4x4 grid with value = lat*10 + lon.
func testGrid() *Grid {
	g := &Grid{
		Lats: []float64{0, 1, 2, 3},
		Lons: []float64{10, 11, 12, 13},
	}
	for _, lat := range g.Lats {
		for _, lon := range g.Lons {
			g.Values = append(g.Values, lat*10+lon)
		}
	}
	return g
}

func TestGridValidate(t *testing.T) {
	if err := testGrid().Validate(); err != nil {
		t.Errorf("valid grid rejected: %v", err)
	}

	tests := []struct {
		name string
		grid *Grid
	}{
		{"empty", &Grid{}},
		{"shape mismatch", &Grid{Lats: []float64{0, 1}, Lons: []float64{0, 1}, Values: make([]float64, 3)}},
		{"descending lats", &Grid{Lats: []float64{1, 0}, Lons: []float64{0, 1}, Values: make([]float64, 4)}},
		{"duplicate lons", &Grid{Lats: []float64{0, 1}, Lons: []float64{5, 5}, Values: make([]float64, 4)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.grid.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidGrid) {
				t.Errorf("expected INVALID_GRID, got %s", errors.GetCode(err))
			}
		})
	}
}

func TestGridAt(t *testing.T) {
	g := testGrid()
	if got := g.At(0, 0); got != 10 {
		t.Errorf("At(0,0) = %v, want 10", got)
	}
	if got := g.At(2, 3); got != 33 {
		t.Errorf("At(2,3) = %v, want 33", got)
	}
}

func TestGridClip(t *testing.T) {
	g := testGrid()

	sub, err := g.Clip(geo.BBox{West: 11, East: 12, South: 1, North: 2})
	if err != nil {
		t.Fatalf("Clip: %v", err)
	}
	if sub.Rows() != 2 || sub.Cols() != 2 {
		t.Fatalf("clipped shape = %dx%d, want 2x2", sub.Rows(), sub.Cols())
	}
	if got := sub.At(0, 0); got != 21 {
		t.Errorf("sub.At(0,0) = %v, want 21", got)
	}
	if got := sub.At(1, 1); got != 32 {
		t.Errorf("sub.At(1,1) = %v, want 32", got)
	}

	// The clip must copy: mutating the clip leaves the source intact.
	sub.Values[0] = -1
	if g.At(1, 1) != 21 {
		t.Error("Clip shares storage with the source grid")
	}
}

func TestGridClipEmpty(t *testing.T) {
	g := testGrid()
	_, err := g.Clip(geo.BBox{West: 100, East: 110, South: 50, North: 60})
	if err == nil {
		t.Fatal("expected error for box outside the grid")
	}
	if !errors.Is(err, errors.ErrCodeInvalidRegion) {
		t.Errorf("expected INVALID_REGION, got %s", errors.GetCode(err))
	}
}

func TestGridClipInvalidBox(t *testing.T) {
	g := testGrid()
	if _, err := g.Clip(geo.BBox{West: 10, East: 5, South: 0, North: 1}); err == nil {
		t.Error("expected error for inverted box")
	}
}

func TestGridStats(t *testing.T) {
	g := &Grid{
		Lats:   []float64{0, 1},
		Lons:   []float64{0, 1},
		Values: []float64{1, 2, math.NaN(), 3},
	}
	min, max, mean := g.Stats()
	if min != 1 || max != 3 {
		t.Errorf("Stats min/max = %v/%v, want 1/3", min, max)
	}
	if math.Abs(mean-2) > 1e-12 {
		t.Errorf("Stats mean = %v, want 2", mean)
	}

	empty := &Grid{Lats: []float64{0}, Lons: []float64{0}, Values: []float64{math.NaN()}}
	min, max, mean = empty.Stats()
	if !math.IsNaN(min) || !math.IsNaN(max) || !math.IsNaN(mean) {
		t.Error("Stats of all-missing grid should be NaN")
	}
}

func TestNormalizeOrientationFlipsLats(t *testing.T) {
	g := &Grid{
		Lats:   []float64{60, 30, 0},
		Lons:   []float64{0, 10},
		Values: []float64{1, 2, 3, 4, 5, 6},
	}
	normalizeOrientation(g)

	if g.Lats[0] != 0 || g.Lats[2] != 60 {
		t.Errorf("lats not flipped: %v", g.Lats)
	}
	if g.At(0, 0) != 5 || g.At(2, 1) != 2 {
		t.Errorf("rows not flipped with lats: %v", g.Values)
	}
}

func TestNormalizeOrientationRotatesLons(t *testing.T) {
	// 0-360 grid: columns at 0, 90, 180, 270 become -180, -90, 0, 90.
	g := &Grid{
		Lats:   []float64{0},
		Lons:   []float64{0, 90, 180, 270},
		Values: []float64{1, 2, 3, 4},
	}
	normalizeOrientation(g)

	wantLons := []float64{-90, 0, 90, 180}
	for i, want := range wantLons {
		if g.Lons[i] != want {
			t.Fatalf("lons = %v, want %v", g.Lons, wantLons)
		}
	}
	wantVals := []float64{4, 1, 2, 3}
	for i, want := range wantVals {
		if g.Values[i] != want {
			t.Fatalf("values = %v, want %v", g.Values, wantVals)
		}
	}
	if err := g.Validate(); err != nil {
		t.Errorf("normalized grid invalid: %v", err)
	}
}
