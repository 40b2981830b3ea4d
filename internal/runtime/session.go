package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/tourflow/pkg/domain"
	"github.com/aretw0/tourflow/pkg/layout"
	"github.com/aretw0/tourflow/pkg/ports"
	"github.com/aretw0/tourflow/pkg/tracking"
)

var scaffolding = []string{domain.PartOverlay, domain.PartTooltip, domain.PartSpotlight}

// Session plays one tour on one host surface.
// Public methods are serialized; host callbacks run after the lock is released,
// so a callback may drive the session again.
type Session struct {
	surface ports.HostSurface
	source  ports.TourSource
	sink    ports.EventSink
	store   ports.KeyValueStore
	logger  *slog.Logger

	tracker     *tracking.Tracker
	completions *tracking.Completions

	mu      sync.Mutex
	cfg     Config
	tour    *domain.Tour
	status  domain.Status
	index   int
	mounted map[string]bool
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithTourSource sets where tours are fetched from when only an id is given.
func WithTourSource(source ports.TourSource) Option {
	return func(s *Session) {
		s.source = source
	}
}

// WithEventSink sets the analytics sink.
func WithEventSink(sink ports.EventSink) Option {
	return func(s *Session) {
		s.sink = sink
	}
}

// WithStore sets the client-side store for the completion record and user id.
func WithStore(store ports.KeyValueStore) Option {
	return func(s *Session) {
		s.store = store
	}
}

// NewSession creates an idle session bound to surface.
func NewSession(surface ports.HostSurface, opts ...Option) *Session {
	s := &Session{
		surface: surface,
		logger:  slog.New(slog.DiscardHandler),
		cfg:     DefaultConfig(),
		status:  domain.StatusIdle,
		mounted: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	identity := tracking.NewIdentity(s.store, s.logger)
	s.tracker = tracking.NewTracker(s.sink, identity, tracking.WithLogger(s.logger))
	s.completions = tracking.NewCompletions(s.store, s.cfg.StorageKey, s.logger)
	return s
}

// Init loads a tour. A tour already marked completed is skipped without error;
// Ready reports whether a tour was loaded.
func (s *Session) Init(ctx context.Context, cfg Config) error {
	var err error
	s.do(func() []func() {
		var pending []func()
		pending, err = s.init(ctx, cfg)
		return pending
	})
	return err
}

func (s *Session) init(ctx context.Context, cfg Config) ([]func(), error) {
	if s.status == domain.StatusActive {
		s.unmount(ctx)
	}
	s.tour = nil
	s.status = domain.StatusIdle
	s.index = 0
	s.tracker.SetTour("")

	s.cfg = cfg.normalize()
	s.completions = tracking.NewCompletions(s.store, s.cfg.StorageKey, s.logger)

	if s.cfg.TourID == "" && s.cfg.Tour == nil {
		s.logger.Error("Tour id or tour data is required")
		return nil, domain.ErrMissingTourSource
	}

	id := s.cfg.TourID
	if id == "" {
		id = s.cfg.Tour.ID
	}
	if s.completions.IsCompleted(ctx, id) {
		s.logger.Info("Tour already completed", "tour_id", id)
		return nil, nil
	}

	tour, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if err := tour.Validate(); err != nil {
		s.logger.Error("Tour cannot be played", "tour_id", tour.ID, "err", err)
		return nil, err
	}

	s.tour = tour
	s.tracker.SetTour(tour.ID)
	s.logger.Debug("Tour loaded", "tour_id", tour.ID, "steps", tour.Len())

	if s.cfg.AutoStart {
		return s.start(ctx), nil
	}
	return nil, nil
}

func (s *Session) load(ctx context.Context) (*domain.Tour, error) {
	if s.cfg.Tour != nil {
		tour := s.cfg.Tour.Clone()
		if tour.ID == "" {
			tour.ID = s.cfg.TourID
		}
		return tour, nil
	}

	if s.source == nil {
		s.logger.Error("No tour source configured", "tour_id", s.cfg.TourID)
		return nil, fmt.Errorf("%w: no tour source for %q", domain.ErrMissingTourSource, s.cfg.TourID)
	}

	tour, err := s.source.FetchTour(ctx, s.cfg.TourID)
	if err != nil {
		s.logger.Error("Failed to load tour", "tour_id", s.cfg.TourID, "err", err)
		return nil, fmt.Errorf("load tour %q: %w", s.cfg.TourID, err)
	}
	if tour == nil {
		return nil, domain.ErrEmptyTour
	}
	tour = tour.Clone()
	if tour.ID == "" {
		tour.ID = s.cfg.TourID
	}
	return tour, nil
}

// Start mounts the scaffolding and shows the first step.
// It does nothing while active or when no tour is loaded.
func (s *Session) Start(ctx context.Context) {
	s.do(func() []func() { return s.start(ctx) })
}

func (s *Session) start(ctx context.Context) []func() {
	if s.status == domain.StatusActive || s.tour == nil {
		return nil
	}
	s.status = domain.StatusActive
	s.index = 0
	s.mount(ctx)
	pending := s.show(ctx, 0)
	s.tracker.RecordEvent(domain.EventView, nil, nil)
	return pending
}

// Next advances, completing the tour when called on the last step.
func (s *Session) Next(ctx context.Context) {
	s.do(func() []func() {
		if s.status != domain.StatusActive {
			return nil
		}
		if s.index < s.tour.Len()-1 {
			return s.show(ctx, s.index+1)
		}
		return s.complete(ctx)
	})
}

// Previous goes back one step. It does nothing on the first step.
func (s *Session) Previous(ctx context.Context) {
	s.do(func() []func() {
		if s.status != domain.StatusActive || s.index == 0 {
			return nil
		}
		return s.show(ctx, s.index-1)
	})
}

// GoToStep jumps to step i. Out-of-range indexes are ignored.
func (s *Session) GoToStep(ctx context.Context, i int) {
	s.do(func() []func() {
		if s.status != domain.StatusActive || i < 0 || i >= s.tour.Len() {
			return nil
		}
		return s.show(ctx, i)
	})
}

// Stop skips the tour at the current step.
func (s *Session) Stop(ctx context.Context) {
	s.do(func() []func() {
		if s.status != domain.StatusActive {
			return nil
		}
		index := s.index
		s.tracker.RecordEvent(domain.EventSkip, &index, nil)
		s.unmount(ctx)
		s.status = domain.StatusSkipped
		s.logger.Debug("Tour skipped", "tour_id", s.tour.ID, "step_index", index)
		if cb := s.cfg.Callbacks.OnSkip; cb != nil {
			return []func(){func() { cb(index) }}
		}
		return nil
	})
}

func (s *Session) complete(ctx context.Context) []func() {
	s.tracker.RecordEvent(domain.EventComplete, nil, nil)
	s.completions.MarkCompleted(ctx, s.tour.ID)
	s.unmount(ctx)
	s.status = domain.StatusCompleted
	s.logger.Debug("Tour completed", "tour_id", s.tour.ID)
	if cb := s.cfg.Callbacks.OnComplete; cb != nil {
		return []func(){cb}
	}
	return nil
}

// Destroy removes every scaffolding part and returns the session to its initial state.
func (s *Session) Destroy(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, part := range scaffolding {
		if err := s.surface.Unmount(ctx, part); err != nil {
			s.logger.Debug("Failed to unmount", "part", part, "err", err)
		}
	}
	s.mounted = make(map[string]bool)
	s.cfg = DefaultConfig()
	s.completions = tracking.NewCompletions(s.store, s.cfg.StorageKey, s.logger)
	s.tour = nil
	s.status = domain.StatusIdle
	s.index = 0
	s.tracker.SetTour("")
}

// Reset forgets that the current tour was completed. Session state is untouched.
func (s *Session) Reset(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.cfg.TourID
	if s.tour != nil {
		id = s.tour.ID
	} else if id == "" && s.cfg.Tour != nil {
		id = s.cfg.Tour.ID
	}
	if id == "" {
		return
	}
	s.completions.Clear(ctx, id)
}

// State returns a snapshot.
func (s *Session) State() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := domain.SessionState{
		Status:  s.status,
		Active:  s.status == domain.StatusActive,
		Index:   s.index,
		Steps:   s.tour.Len(),
		Mounted: len(s.mounted) > 0,
	}
	if s.tour != nil {
		st.TourID = s.tour.ID
	}
	return st
}

// Ready reports whether a tour is loaded.
func (s *Session) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tour != nil
}

// Tour returns a copy of the loaded tour, or nil.
func (s *Session) Tour() *domain.Tour {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tour.Clone()
}

// Flush waits for pending event deliveries.
func (s *Session) Flush() {
	s.tracker.Flush()
}

func (s *Session) mount(ctx context.Context) {
	for _, part := range scaffolding {
		if part == domain.PartOverlay && !s.cfg.Overlay {
			continue
		}
		if s.mounted[part] {
			continue
		}
		if err := s.surface.Mount(ctx, part); err != nil {
			s.logger.Warn("Failed to mount", "part", part, "err", err)
			continue
		}
		s.mounted[part] = true
	}
}

func (s *Session) unmount(ctx context.Context) {
	for _, part := range scaffolding {
		if !s.mounted[part] {
			continue
		}
		if err := s.surface.Unmount(ctx, part); err != nil {
			s.logger.Warn("Failed to unmount", "part", part, "err", err)
		}
		delete(s.mounted, part)
	}
}

// show renders step i and returns the step-change notification.
func (s *Session) show(ctx context.Context, i int) []func() {
	step := s.tour.Steps[i]
	n := s.tour.Len()
	s.index = i

	idx := i
	s.tracker.RecordEvent(domain.EventStepView, &idx, map[string]any{"target": step.Target})

	if err := s.surface.RenderTooltip(ctx, TooltipFor(s.tour, i)); err != nil {
		s.logger.Warn("Failed to render tooltip", "step_index", i, "err", err)
	}

	if !s.position(ctx, step) {
		s.logger.Warn("Target not found, centering tooltip", "tour_id", s.tour.ID, "step_index", i, "target", step.Target)
		if err := s.surface.Highlight(ctx, nil); err != nil {
			s.logger.Debug("Failed to hide spotlight", "err", err)
		}
		if err := s.surface.PlaceTooltip(ctx, domain.Centered()); err != nil {
			s.logger.Warn("Failed to place tooltip", "step_index", i, "err", err)
		}
	}
	s.logger.Debug("Step shown", "tour_id", s.tour.ID, "step_index", i, "steps", n)

	if cb := s.cfg.Callbacks.OnStepChange; cb != nil {
		return []func(){func() { cb(step, idx) }}
	}
	return nil
}

// position scrolls to, highlights and anchors the tooltip to the step target.
// It reports false when the target cannot be used.
func (s *Session) position(ctx context.Context, step domain.Step) bool {
	el, ok := layout.Resolve(ctx, s.surface, step.Target, s.logger)
	if !ok {
		return false
	}
	if err := s.surface.ScrollIntoView(ctx, el, s.cfg.ScrollBehavior); err != nil {
		s.logger.Debug("Failed to scroll", "target", step.Target, "err", err)
	}

	bounds, err := s.surface.Bounds(ctx, el)
	if err != nil {
		s.logger.Warn("Failed to measure target", "target", step.Target, "err", err)
		return false
	}
	vp, err := s.surface.Viewport(ctx)
	if err != nil {
		s.logger.Warn("Failed to read viewport", "err", err)
		return false
	}

	spot := layout.ComputeHighlight(bounds, s.cfg.HighlightPadding, vp.ScrollY)
	if err := s.surface.Highlight(ctx, &spot); err != nil {
		s.logger.Warn("Failed to highlight", "target", step.Target, "err", err)
	}

	tip, err := s.surface.TooltipBounds(ctx)
	if err != nil {
		s.logger.Warn("Failed to measure tooltip", "err", err)
		return false
	}

	hint := step.Placement
	if hint == "" {
		hint = s.cfg.Placement
	}
	pos := layout.ComputePlacement(bounds, tip, hint, vp, layout.DefaultGap)
	if err := s.surface.PlaceTooltip(ctx, pos); err != nil {
		s.logger.Warn("Failed to place tooltip", "err", err)
	}
	return true
}

// do runs fn under the session lock, then invokes the callbacks it returns.
func (s *Session) do(fn func() []func()) {
	s.run(s.locked(fn))
}

func (s *Session) locked(fn func() []func()) []func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn()
}

// run invokes host callbacks. A panicking callback is logged and does not stop the others.
func (s *Session) run(pending []func()) {
	for _, fn := range pending {
		func() {
			defer func() {
				if r := recover(); r != nil {
					s.logger.Error("Callback panicked", "err", fmt.Sprint(r))
				}
			}()
			fn()
		}()
	}
}

// TooltipFor builds the tooltip text and controls for step i of tour.
func TooltipFor(tour *domain.Tour, i int) domain.TooltipView {
	n := tour.Len()
	step := tour.Steps[i]
	view := domain.TooltipView{
		Counter:      fmt.Sprintf("%d of %d", i+1, n),
		Title:        step.Title,
		Body:         step.Content,
		BackDisabled: i == 0,
		NextLabel:    "Next",
		Dots:         make([]bool, n),
	}
	if i == n-1 {
		view.NextLabel = "Done"
	}
	view.Dots[i] = true
	return view
}
