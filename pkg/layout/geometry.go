package layout

import "github.com/aretw0/tourflow/pkg/domain"

const (
	// DefaultGap is the distance between the element and the tooltip.
	DefaultGap = 20.0

	// ViewportMargin is the minimum distance kept between the tooltip and the viewport edges.
	ViewportMargin = 10.0
)

// ComputeHighlight inflates the element bounds by padding on every side and
// converts them to page coordinates so the spotlight survives scrolling.
func ComputeHighlight(bounds domain.Rect, padding, scrollY float64) domain.Rect {
	return domain.Rect{
		Top:    bounds.Top - padding + scrollY,
		Left:   bounds.Left - padding,
		Width:  bounds.Width + padding*2,
		Height: bounds.Height + padding*2,
	}
}

// ComputePlacement positions a tooltip of size tooltip next to element.
// element is viewport-relative; the returned Top is in page coordinates.
// Unknown or empty hints behave like auto.
func ComputePlacement(element, tooltip domain.Rect, hint domain.Placement, vp domain.Viewport, gap float64) domain.Position {
	var top, left float64

	switch hint {
	case domain.PlacementTop:
		top = element.Top - tooltip.Height - gap
		left = element.Left + element.Width/2 - tooltip.Width/2
	case domain.PlacementBottom:
		top = element.Bottom() + gap
		left = element.Left + element.Width/2 - tooltip.Width/2
	case domain.PlacementLeft:
		top = element.Top + element.Height/2 - tooltip.Height/2
		left = element.Left - tooltip.Width - gap
	case domain.PlacementRight:
		top = element.Top + element.Height/2 - tooltip.Height/2
		left = element.Right() + gap
	default:
		// Auto resolves into one concrete hint; the recursion depth is one.
		switch {
		case element.Bottom()+tooltip.Height+gap < vp.Height:
			return ComputePlacement(element, tooltip, domain.PlacementBottom, vp, gap)
		case element.Top-tooltip.Height-gap > 0:
			return ComputePlacement(element, tooltip, domain.PlacementTop, vp, gap)
		default:
			return domain.Centered()
		}
	}

	if left < ViewportMargin {
		left = ViewportMargin
	}
	if left+tooltip.Width > vp.Width-ViewportMargin {
		left = vp.Width - tooltip.Width - ViewportMargin
	}
	if top < ViewportMargin {
		top = ViewportMargin
	}

	return domain.Position{
		Top:       top + vp.ScrollY,
		Left:      left,
		Placement: hint,
	}
}
