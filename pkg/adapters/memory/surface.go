package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/aretw0/tourflow/pkg/domain"
	"github.com/aretw0/tourflow/pkg/ports"
)

// element is the handle returned by Surface.QueryOne.
type element struct {
	selector string
}

// Surface is a scripted ports.HostSurface.
// Elements are declared up front with page coordinates; the surface keeps a
// vertical scroll offset and records everything the session draws.
// It backs the terminal preview and the session tests.
type Surface struct {
	mu sync.Mutex

	viewport  domain.Viewport
	docHeight float64
	elements  map[string]domain.Rect
	queryErrs map[string]error
	tooltip   domain.Rect

	mounted   map[string]int
	view      *domain.TooltipView
	position  *domain.Position
	highlight *domain.Rect
	scrolls   []string
	renders   int
}

// SurfaceOption configures a Surface.
type SurfaceOption func(*Surface)

// WithViewport sets the visible area.
func WithViewport(width, height float64) SurfaceOption {
	return func(s *Surface) {
		s.viewport.Width = width
		s.viewport.Height = height
	}
}

// WithDocumentHeight sets the scrollable height. Scrolling is clamped to it.
func WithDocumentHeight(h float64) SurfaceOption {
	return func(s *Surface) {
		s.docHeight = h
	}
}

// WithElement declares an element at page coordinates.
func WithElement(selector string, page domain.Rect) SurfaceOption {
	return func(s *Surface) {
		s.elements[selector] = page
	}
}

// WithTooltipSize sets the size reported by TooltipBounds.
func WithTooltipSize(width, height float64) SurfaceOption {
	return func(s *Surface) {
		s.tooltip = domain.Rect{Width: width, Height: height}
	}
}

// WithQueryError makes lookups of selector fail with err.
func WithQueryError(selector string, err error) SurfaceOption {
	return func(s *Surface) {
		s.queryErrs[selector] = err
	}
}

// NewSurface creates a 1024x768 surface with a 300x150 tooltip.
func NewSurface(opts ...SurfaceOption) *Surface {
	s := &Surface{
		viewport:  domain.Viewport{Width: 1024, Height: 768},
		elements:  make(map[string]domain.Rect),
		queryErrs: make(map[string]error),
		tooltip:   domain.Rect{Width: 300, Height: 150},
		mounted:   make(map[string]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.docHeight < s.viewport.Height {
		s.docHeight = s.viewport.Height
	}
	return s
}

// QueryOne implements ports.HostSurface.
func (s *Surface) QueryOne(ctx context.Context, selector string) (ports.Element, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err, ok := s.queryErrs[selector]; ok {
		return nil, err
	}
	if _, ok := s.elements[selector]; !ok {
		return nil, nil
	}
	return element{selector: selector}, nil
}

// Bounds implements ports.HostSurface.
func (s *Surface) Bounds(ctx context.Context, el ports.Element) (domain.Rect, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.lookup(el)
	if err != nil {
		return domain.Rect{}, err
	}
	r.Top -= s.viewport.ScrollY
	return r, nil
}

// ScrollIntoView centers the element vertically, clamped to the document.
func (s *Surface) ScrollIntoView(ctx context.Context, el ports.Element, behavior string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.lookup(el)
	if err != nil {
		return err
	}
	y := r.Top + r.Height/2 - s.viewport.Height/2
	if limit := s.docHeight - s.viewport.Height; y > limit {
		y = limit
	}
	if y < 0 {
		y = 0
	}
	s.viewport.ScrollY = y
	s.scrolls = append(s.scrolls, behavior)
	return nil
}

// Viewport implements ports.HostSurface.
func (s *Surface) Viewport(ctx context.Context) (domain.Viewport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewport, nil
}

// Mount implements ports.HostSurface.
func (s *Surface) Mount(ctx context.Context, part string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mounted[part]++
	return nil
}

// Unmount implements ports.HostSurface.
func (s *Surface) Unmount(ctx context.Context, part string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.mounted, part)
	if part == domain.PartTooltip {
		s.view = nil
		s.position = nil
	}
	if part == domain.PartSpotlight {
		s.highlight = nil
	}
	return nil
}

// RenderTooltip implements ports.HostSurface.
func (s *Surface) RenderTooltip(ctx context.Context, view domain.TooltipView) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mounted[domain.PartTooltip] == 0 {
		return fmt.Errorf("render tooltip: %s not mounted", domain.PartTooltip)
	}
	v := view
	v.Dots = append([]bool(nil), view.Dots...)
	s.view = &v
	s.renders++
	return nil
}

// TooltipBounds implements ports.HostSurface.
func (s *Surface) TooltipBounds(ctx context.Context) (domain.Rect, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tooltip, nil
}

// PlaceTooltip implements ports.HostSurface.
func (s *Surface) PlaceTooltip(ctx context.Context, pos domain.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := pos
	s.position = &p
	return nil
}

// Highlight implements ports.HostSurface.
func (s *Surface) Highlight(ctx context.Context, rect *domain.Rect) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rect == nil {
		s.highlight = nil
		return nil
	}
	r := *rect
	s.highlight = &r
	return nil
}

// SetElement adds or moves an element after construction.
func (s *Surface) SetElement(selector string, page domain.Rect) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.elements[selector] = page
}

// SetScroll moves the viewport.
func (s *Surface) SetScroll(y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewport.ScrollY = y
}

// MountCount returns how many times part was mounted since it was last removed.
func (s *Surface) MountCount(part string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mounted[part]
}

// MountedParts returns the number of distinct parts currently attached.
func (s *Surface) MountedParts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.mounted)
}

// Frame returns what is currently drawn. ok is false when no tooltip is rendered.
func (s *Surface) Frame() (frame domain.Frame, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.view == nil {
		return domain.Frame{}, false
	}
	frame.Tooltip = *s.view
	if s.position != nil {
		frame.Position = *s.position
	}
	if s.highlight != nil {
		h := *s.highlight
		frame.Highlight = &h
	}
	return frame, true
}

// Scrolls returns the behaviors of every ScrollIntoView call.
func (s *Surface) Scrolls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.scrolls...)
}

// Renders returns the number of tooltip renders.
func (s *Surface) Renders() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renders
}

// Elements returns the declared elements in page coordinates.
func (s *Surface) Elements() map[string]domain.Rect {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]domain.Rect, len(s.elements))
	for k, v := range s.elements {
		out[k] = v
	}
	return out
}

func (s *Surface) lookup(el ports.Element) (domain.Rect, error) {
	e, ok := el.(element)
	if !ok {
		return domain.Rect{}, fmt.Errorf("foreign element handle %T", el)
	}
	r, ok := s.elements[e.selector]
	if !ok {
		return domain.Rect{}, fmt.Errorf("element %q detached", e.selector)
	}
	return r, nil
}
