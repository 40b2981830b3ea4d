package domain

// Scroll behaviors accepted by host surfaces.
const (
	ScrollSmooth  = "smooth"
	ScrollInstant = "instant"
)

// Scaffolding element names mounted by a session.
const (
	PartOverlay   = "overlay"
	PartTooltip   = "tooltip"
	PartSpotlight = "spotlight"
)

// TooltipView is the text and control state rendered into the tooltip for one step.
type TooltipView struct {
	Counter      string `json:"counter"`
	Title        string `json:"title"`
	Body         string `json:"body"`
	BackDisabled bool   `json:"back_disabled"`
	NextLabel    string `json:"next_label"`

	// Dots has one entry per step; the current step is true.
	Dots []bool `json:"dots"`
}

// Frame is everything a surface needs to draw the current step.
type Frame struct {
	Tooltip  TooltipView `json:"tooltip"`
	Position Position    `json:"position"`

	// Highlight is nil when the target could not be resolved.
	Highlight *Rect `json:"highlight,omitempty"`
}
