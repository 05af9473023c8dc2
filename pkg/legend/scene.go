package legend

// Scene is the renderable output of [Build]: an ordered set of drawable
// primitives in normalized coordinates. The bar's long axis spans [0,1];
// the orthogonal axis holds the bar thickness plus the configured expansion
// margin. Origin is the bottom-left corner with y increasing upward;
// rasterizers flip to image space themselves.
//
// A Scene is never mutated after construction.
type Scene struct {
	Rects     []Rect      // one per finite bin, in break order
	Triangles []Triangle  // 0-2 entries for open-ended extreme bins
	Ticks     []TickLabel // one per junction between adjacent drawn bins
	Title     *TickLabel  // nil when the config has no title

	// W and H are the scene bounds. For a vertical bar H covers the long
	// axis; for a horizontal bar W does.
	W, H float64

	Direction   Direction
	BorderColor string // outline color for bar shapes; empty = no border
	Background  string // backdrop fill; empty = transparent
}

// Rect is an axis-aligned filled rectangle. X/Y is the bottom-left corner.
type Rect struct {
	X, Y, W, H float64
	Fill       string // hex color
}

// Triangle is a filled triangle for an open-ended bin. The third vertex
// (X3, Y3) is the apex, pointing outward away from the rectangle bins.
type Triangle struct {
	X1, Y1 float64
	X2, Y2 float64
	X3, Y3 float64
	Fill   string // hex color
}

// TickLabel is a text primitive: a boundary tick beside the bar or the
// legend title. Rotation is in degrees, counterclockwise.
type TickLabel struct {
	Text     string
	X, Y     float64
	Rotation float64
	Size     float64 // font size in points
}

// Apex returns the apex vertex of the triangle.
func (t Triangle) Apex() (x, y float64) { return t.X3, t.Y3 }

// swapAxes returns a copy of the scene with the x and y roles of every
// primitive exchanged. Used to derive the horizontal orientation from the
// vertical reference layout.
func (s *Scene) swapAxes() {
	for i, r := range s.Rects {
		s.Rects[i] = Rect{X: r.Y, Y: r.X, W: r.H, H: r.W, Fill: r.Fill}
	}
	for i, t := range s.Triangles {
		s.Triangles[i] = Triangle{
			X1: t.Y1, Y1: t.X1,
			X2: t.Y2, Y2: t.X2,
			X3: t.Y3, Y3: t.X3,
			Fill: t.Fill,
		}
	}
	for i, l := range s.Ticks {
		s.Ticks[i].X, s.Ticks[i].Y = l.Y, l.X
	}
	if s.Title != nil {
		s.Title.X, s.Title.Y = s.Title.Y, s.Title.X
	}
	s.W, s.H = s.H, s.W
}
