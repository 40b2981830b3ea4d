package tourflow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/tourflow/internal/runtime"
	"github.com/aretw0/tourflow/pkg/domain"
	"github.com/aretw0/tourflow/pkg/ports"
)

// Widget is the public control surface of a tour on one host surface.
// It wraps the internal session and guarantees that no panic from a
// surface or a host callback reaches the caller.
type Widget struct {
	session *runtime.Session
	logger  *slog.Logger

	source ports.TourSource
	sink   ports.EventSink
	store  ports.KeyValueStore
}

// Option defines a functional option for configuring the Widget.
type Option func(*Widget)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Widget) {
		w.logger = logger
	}
}

// WithTourSource sets the remote tour source used when only a tour id is configured.
func WithTourSource(source ports.TourSource) Option {
	return func(w *Widget) {
		w.source = source
	}
}

// WithEventSink sets where lifecycle events are sent.
func WithEventSink(sink ports.EventSink) Option {
	return func(w *Widget) {
		w.sink = sink
	}
}

// WithStore sets the client-side store for the completion record and the user id.
func WithStore(store ports.KeyValueStore) Option {
	return func(w *Widget) {
		w.store = store
	}
}

// New creates a Widget bound to surface.
func New(surface ports.HostSurface, opts ...Option) *Widget {
	w := &Widget{}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = slog.New(slog.DiscardHandler)
	}

	w.session = runtime.NewSession(surface,
		runtime.WithLogger(w.logger),
		runtime.WithTourSource(w.source),
		runtime.WithEventSink(w.sink),
		runtime.WithStore(w.store),
	)
	return w
}

// Init loads the configured tour. A tour the user already completed is
// skipped silently and leaves the widget not Ready.
func (w *Widget) Init(ctx context.Context, opts Options) (err error) {
	defer w.recover("init", &err)
	return w.session.Init(ctx, opts.config())
}

// Start shows the first step.
func (w *Widget) Start(ctx context.Context) {
	defer w.recover("start", nil)
	w.session.Start(ctx)
}

// Stop skips the tour at the current step.
func (w *Widget) Stop(ctx context.Context) {
	defer w.recover("stop", nil)
	w.session.Stop(ctx)
}

// Next advances, completing the tour after the last step.
func (w *Widget) Next(ctx context.Context) {
	defer w.recover("next", nil)
	w.session.Next(ctx)
}

// Previous goes back one step.
func (w *Widget) Previous(ctx context.Context) {
	defer w.recover("previous", nil)
	w.session.Previous(ctx)
}

// GoToStep jumps to step i when it exists.
func (w *Widget) GoToStep(ctx context.Context, i int) {
	defer w.recover("goto", nil)
	w.session.GoToStep(ctx, i)
}

// Destroy removes everything the widget drew and unloads the tour.
func (w *Widget) Destroy(ctx context.Context) {
	defer w.recover("destroy", nil)
	w.session.Destroy(ctx)
}

// Reset forgets that the current tour was completed.
func (w *Widget) Reset(ctx context.Context) {
	defer w.recover("reset", nil)
	w.session.Reset(ctx)
}

// State returns a snapshot of the playback state.
func (w *Widget) State() domain.SessionState {
	return w.session.State()
}

// Ready reports whether a tour is loaded.
func (w *Widget) Ready() bool {
	return w.session.Ready()
}

// Tour returns a copy of the loaded tour, or nil.
func (w *Widget) Tour() *domain.Tour {
	return w.session.Tour()
}

// Flush waits for pending event deliveries.
func (w *Widget) Flush() {
	w.session.Flush()
}

func (w *Widget) recover(op string, err *error) {
	r := recover()
	if r == nil {
		return
	}
	w.logger.Error("Tour operation panicked", "op", op, "err", fmt.Sprint(r))
	if err != nil {
		*err = fmt.Errorf("%s: panic: %v", op, r)
	}
}
