package domain

// Rect is an axis-aligned rectangle in CSS pixels.
type Rect struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Bottom returns the bottom edge.
func (r Rect) Bottom() float64 { return r.Top + r.Height }

// Right returns the right edge.
func (r Rect) Right() float64 { return r.Left + r.Width }

// Viewport describes the live visible area of the host surface.
type Viewport struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	ScrollX float64 `json:"scroll_x"`
	ScrollY float64 `json:"scroll_y"`
}

// Position is where the tooltip is drawn.
// When Centered is true, Top and Left are ignored and the tooltip is centered
// on both axes of the viewport with no relationship to any element.
type Position struct {
	Top       float64   `json:"top"`
	Left      float64   `json:"left"`
	Centered  bool      `json:"centered"`
	Placement Placement `json:"placement,omitempty"`
}

// Centered is the screen-centered fallback position.
func Centered() Position {
	return Position{Centered: true}
}
