package ports

import (
	"context"

	"github.com/aretw0/tourflow/pkg/domain"
)

// Element is an opaque handle to an element of the host surface.
// Only the surface that returned it knows how to interpret it.
type Element any

// HostSurface abstracts the page a tour plays on.
// Implementations own the concrete rendering; the core only decides what to draw and where.
type HostSurface interface {
	// QueryOne returns the first element matching selector, or nil when nothing matches.
	// A missing element is not an error.
	QueryOne(ctx context.Context, selector string) (Element, error)

	// Bounds returns the element rectangle relative to the viewport.
	Bounds(ctx context.Context, el Element) (domain.Rect, error)

	// ScrollIntoView brings the element to the vertical center of the viewport.
	ScrollIntoView(ctx context.Context, el Element, behavior string) error

	// Viewport returns the live viewport dimensions and scroll offsets.
	Viewport(ctx context.Context) (domain.Viewport, error)

	// Mount attaches a scaffolding part (overlay, tooltip, spotlight).
	Mount(ctx context.Context, part string) error

	// Unmount removes a scaffolding part. Removing an absent part is not an error.
	Unmount(ctx context.Context, part string) error

	// RenderTooltip writes text and control state into the mounted tooltip.
	RenderTooltip(ctx context.Context, view domain.TooltipView) error

	// TooltipBounds returns the current size of the rendered tooltip.
	TooltipBounds(ctx context.Context) (domain.Rect, error)

	// PlaceTooltip moves the tooltip. Top is in page coordinates unless pos.Centered.
	PlaceTooltip(ctx context.Context, pos domain.Position) error

	// Highlight draws the spotlight over rect (page coordinates). Nil hides it.
	Highlight(ctx context.Context, rect *domain.Rect) error
}
