// Package rod plays tours on a real Chromium page driven through the DevTools protocol.
package rod

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/aretw0/tourflow/pkg/domain"
	"github.com/aretw0/tourflow/pkg/ports"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/goccy/go-json"
)

// ErrNotElement is returned when an element handle did not come from this surface.
var ErrNotElement = errors.New("element handle is not a rod element")

// Surface implements ports.HostSurface on a rod page.
type Surface struct {
	page *rod.Page
}

// NewSurface wraps page. The page scaffolding is installed lazily on first use.
func NewSurface(page *rod.Page) *Surface {
	return &Surface{page: page}
}

var _ ports.HostSurface = (*Surface)(nil)

// QueryOne returns the first match or nil. It does not wait for the element to appear.
func (s *Surface) QueryOne(ctx context.Context, selector string) (ports.Element, error) {
	els, err := s.page.Context(ctx).Elements(selector)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", selector, err)
	}
	if len(els) == 0 {
		return nil, nil
	}
	return els.First(), nil
}

// Bounds returns the element's border box relative to the viewport.
func (s *Surface) Bounds(ctx context.Context, el ports.Element) (domain.Rect, error) {
	e, ok := el.(*rod.Element)
	if !ok {
		return domain.Rect{}, ErrNotElement
	}
	shape, err := e.Context(ctx).Shape()
	if err != nil {
		return domain.Rect{}, fmt.Errorf("element shape: %w", err)
	}
	if shape == nil || len(shape.Quads) == 0 {
		return domain.Rect{}, nil
	}
	return quadRect(shape.Quads[0]), nil
}

// quadRect converts a content quad (four x,y corners) into its bounding rectangle.
func quadRect(q proto.DOMQuad) domain.Rect {
	if len(q) < 8 {
		return domain.Rect{}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i := 0; i < 8; i += 2 {
		minX = math.Min(minX, q[i])
		maxX = math.Max(maxX, q[i])
		minY = math.Min(minY, q[i+1])
		maxY = math.Max(maxY, q[i+1])
	}
	return domain.Rect{Top: minY, Left: minX, Width: maxX - minX, Height: maxY - minY}
}

// ScrollIntoView centers the element vertically.
func (s *Surface) ScrollIntoView(ctx context.Context, el ports.Element, behavior string) error {
	e, ok := el.(*rod.Element)
	if !ok {
		return ErrNotElement
	}
	if behavior != domain.ScrollInstant {
		behavior = domain.ScrollSmooth
	}
	_, err := e.Context(ctx).Eval(`(b) => this.scrollIntoView({behavior: b, block: 'center'})`, behavior)
	if err != nil {
		return fmt.Errorf("scroll into view: %w", err)
	}
	// Smooth scrolling keeps animating after the call returns. Bounds and
	// Viewport are separate reads, so they only agree once the page is still.
	_, err = waitScrollSettled(ctx, s.Viewport, settlePoll, settleTimeout)
	return err
}

const (
	settlePoll    = 20 * time.Millisecond
	settleTimeout = 2 * time.Second
)

// waitScrollSettled polls read until two consecutive scroll offsets match, or
// until timeout passes, and returns the last viewport read.
func waitScrollSettled(ctx context.Context, read func(context.Context) (domain.Viewport, error), poll, timeout time.Duration) (domain.Viewport, error) {
	prev, err := read(ctx)
	if err != nil {
		return prev, err
	}
	ticker := time.NewTicker(poll)
	defer ticker.Stop()
	deadline := time.After(timeout)

	for {
		select {
		case <-ctx.Done():
			return prev, ctx.Err()
		case <-deadline:
			return prev, nil
		case <-ticker.C:
		}
		cur, err := read(ctx)
		if err != nil {
			return cur, err
		}
		if cur.ScrollX == prev.ScrollX && cur.ScrollY == prev.ScrollY {
			return cur, nil
		}
		prev = cur
	}
}

// Viewport reads the window size and scroll offsets.
func (s *Surface) Viewport(ctx context.Context) (domain.Viewport, error) {
	var vp domain.Viewport
	err := s.call(ctx, &vp, "viewport")
	return vp, err
}

// Mount attaches a scaffolding part. Mounting twice keeps the existing element.
func (s *Surface) Mount(ctx context.Context, part string) error {
	return s.call(ctx, nil, "mount", part)
}

// Unmount removes a scaffolding part.
func (s *Surface) Unmount(ctx context.Context, part string) error {
	return s.call(ctx, nil, "unmount", part)
}

// Mounted reports whether part is attached to the page.
func (s *Surface) Mounted(ctx context.Context, part string) (bool, error) {
	var ok bool
	err := s.call(ctx, &ok, "mounted", part)
	return ok, err
}

// RenderTooltip writes the step text and controls.
func (s *Surface) RenderTooltip(ctx context.Context, view domain.TooltipView) error {
	return s.call(ctx, nil, "render", view)
}

// TooltipBounds measures the rendered tooltip.
func (s *Surface) TooltipBounds(ctx context.Context) (domain.Rect, error) {
	var r domain.Rect
	err := s.call(ctx, &r, "tooltipBounds")
	return r, err
}

// PlaceTooltip moves the tooltip to pos.
func (s *Surface) PlaceTooltip(ctx context.Context, pos domain.Position) error {
	return s.call(ctx, nil, "place", pos)
}

// Highlight moves the spotlight, or hides it when rect is nil.
func (s *Surface) Highlight(ctx context.Context, rect *domain.Rect) error {
	return s.call(ctx, nil, "highlight", rect)
}

// Actions drains the clicks queued by the tooltip buttons:
// "next", "previous", "stop" or "goto:N".
func (s *Surface) Actions(ctx context.Context) ([]string, error) {
	var out []string
	err := s.call(ctx, &out, "drain")
	return out, err
}

// call installs the scaffolding if needed, invokes window.__tourflow[fn](args...)
// and decodes its JSON result into out.
func (s *Surface) call(ctx context.Context, out any, fn string, args ...any) error {
	if args == nil {
		args = []any{}
	}
	res, err := s.page.Context(ctx).Evaluate(&rod.EvalOptions{
		JS: `(fn, args) => {
			` + scaffoldJS + `
			return JSON.stringify(window.__tourflow[fn](...args) ?? null);
		}`,
		JSArgs:  []interface{}{fn, args},
		ByValue: true,
	})
	if err != nil {
		return fmt.Errorf("surface %s: %w", fn, err)
	}
	if out == nil || res == nil || res.Value.Nil() {
		return nil
	}
	if err := json.Unmarshal([]byte(res.Value.Str()), out); err != nil {
		return fmt.Errorf("decode %s result: %w", fn, err)
	}
	return nil
}
