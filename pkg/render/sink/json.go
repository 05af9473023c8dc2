package sink

import (
	"encoding/json"

	"github.com/skoehler/geomap/pkg/legend"
)

type jsonOutput struct {
	Width     float64        `json:"width"`
	Height    float64        `json:"height"`
	Direction string         `json:"direction"`
	Border    string         `json:"border_color,omitempty"`
	Bg        string         `json:"background,omitempty"`
	Rects     []jsonRect     `json:"rects"`
	Triangles []jsonTriangle `json:"triangles,omitempty"`
	Ticks     []jsonLabel    `json:"ticks"`
	Title     *jsonLabel     `json:"title,omitempty"`
}

type jsonRect struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	W    float64 `json:"width"`
	H    float64 `json:"height"`
	Fill string  `json:"fill"`
}

type jsonTriangle struct {
	Points [3][2]float64 `json:"points"`
	Fill   string        `json:"fill"`
}

type jsonLabel struct {
	Text     string  `json:"text"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation,omitempty"`
	Size     float64 `json:"size"`
}

// RenderJSON exports the legend scene as a pretty-printed JSON document.
// The dump is the primary interchange format for external tooling and for
// caching built scenes: it round-trips every primitive the scene holds, in
// the scene's own normalized y-up coordinates.
func RenderJSON(s *legend.Scene) ([]byte, error) {
	out := jsonOutput{
		Width:     s.W,
		Height:    s.H,
		Direction: s.Direction.String(),
		Border:    s.BorderColor,
		Bg:        s.Background,
		Rects:     make([]jsonRect, 0, len(s.Rects)),
		Ticks:     make([]jsonLabel, 0, len(s.Ticks)),
	}

	for _, r := range s.Rects {
		out.Rects = append(out.Rects, jsonRect{X: r.X, Y: r.Y, W: r.W, H: r.H, Fill: r.Fill})
	}
	for _, t := range s.Triangles {
		out.Triangles = append(out.Triangles, jsonTriangle{
			Points: [3][2]float64{{t.X1, t.Y1}, {t.X2, t.Y2}, {t.X3, t.Y3}},
			Fill:   t.Fill,
		})
	}
	for _, tick := range s.Ticks {
		out.Ticks = append(out.Ticks, jsonLabel(tick))
	}
	if s.Title != nil {
		title := jsonLabel(*s.Title)
		out.Title = &title
	}

	return json.MarshalIndent(out, "", "  ")
}
