package palette

import (
	"strings"
	"testing"

	"github.com/skoehler/geomap/pkg/errors"
)

func TestColors(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			for _, n := range []int{1, 2, 5, 9, 12} {
				colors, err := Colors(name, n)
				if err != nil {
					t.Fatalf("Colors(%s, %d): %v", name, n, err)
				}
				if len(colors) != n {
					t.Fatalf("got %d colors, want %d", len(colors), n)
				}
				for _, c := range colors {
					if err := errors.ValidateHexColor(c); err != nil {
						t.Errorf("invalid color %q: %v", c, err)
					}
				}
			}
		})
	}
}

func TestColorsEndpoints(t *testing.T) {
	colors, err := Colors("ylorrd", 9)
	if err != nil {
		t.Fatal(err)
	}
	if colors[0] != "#FFFFCC" {
		t.Errorf("first color = %s, want the ramp start #FFFFCC", colors[0])
	}
	if colors[8] != "#800026" {
		t.Errorf("last color = %s, want the ramp end #800026", colors[8])
	}
}

func TestMustHex(t *testing.T) {
	c := mustHex("#FFFFCC")
	if got := strings.ToUpper(c.Hex()); got != "#FFFFCC" {
		t.Errorf("mustHex round-trip = %s, want #FFFFCC", got)
	}
	defer func() {
		if recover() == nil {
			t.Error("expected panic for a malformed keypoint literal")
		}
	}()
	mustHex("not-a-color")
}

func TestColorsUnknownPalette(t *testing.T) {
	_, err := Colors("viridis99", 5)
	if err == nil {
		t.Fatal("expected error for unknown palette")
	}
	if !errors.Is(err, errors.ErrCodeInvalidPalette) {
		t.Errorf("expected INVALID_PALETTE, got %s", errors.GetCode(err))
	}
}

func TestColorsBadCount(t *testing.T) {
	if _, err := Colors("rdbu", 0); !errors.Is(err, errors.ErrCodeInvalidPalette) {
		t.Errorf("expected INVALID_PALETTE for n=0, got %v", err)
	}
	if _, err := Colors("rdbu", -3); err == nil {
		t.Error("expected error for negative count")
	}
}

func TestColorsCaseInsensitive(t *testing.T) {
	a, err := Colors("RdYlBu", 5)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Colors("rdylbu", 5)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("case-sensitive sampling mismatch at %d: %s vs %s", i, a[i], b[i])
		}
	}
}

func TestReverse(t *testing.T) {
	in := []string{"#111111", "#222222", "#333333"}
	out := Reverse(in)
	want := []string{"#333333", "#222222", "#111111"}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("Reverse()[%d] = %s, want %s", i, out[i], want[i])
		}
	}
	if in[0] != "#111111" {
		t.Error("Reverse mutated its input")
	}
}

func TestNamesSorted(t *testing.T) {
	names := Names()
	if len(names) == 0 {
		t.Fatal("no palettes registered")
	}
	for i := 1; i < len(names); i++ {
		if strings.Compare(names[i-1], names[i]) >= 0 {
			t.Errorf("names not sorted: %s before %s", names[i-1], names[i])
		}
	}
}
