package tracking

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/tourflow/pkg/domain"
	"github.com/aretw0/tourflow/pkg/ports"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultSendTimeout bounds a single delivery to the sink.
	DefaultSendTimeout = 5 * time.Second

	// DefaultInFlight is the number of deliveries allowed at once.
	DefaultInFlight = 16
)

// Tracker records lifecycle events for the tour currently loaded in a session.
type Tracker struct {
	sink     ports.EventSink
	identity *Identity
	logger   *slog.Logger
	timeout  time.Duration

	mu     sync.Mutex
	tourID string
	group  *errgroup.Group
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithLogger sets the logger used for delivery failures.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracker) {
		t.logger = logger
	}
}

// WithSendTimeout bounds each delivery.
func WithSendTimeout(d time.Duration) Option {
	return func(t *Tracker) {
		t.timeout = d
	}
}

// WithInFlight caps concurrent deliveries. Events beyond the cap are dropped.
func WithInFlight(n int) Option {
	return func(t *Tracker) {
		t.group.SetLimit(n)
	}
}

// NewTracker creates a Tracker. A nil sink drops every event silently.
func NewTracker(sink ports.EventSink, identity *Identity, opts ...Option) *Tracker {
	t := &Tracker{
		sink:     sink,
		identity: identity,
		logger:   slog.New(slog.DiscardHandler),
		timeout:  DefaultSendTimeout,
		group:    new(errgroup.Group),
	}
	t.group.SetLimit(DefaultInFlight)
	for _, opt := range opts {
		opt(t)
	}
	if t.identity == nil {
		t.identity = NewIdentity(nil, t.logger)
	}
	return t
}

// SetTour sets the tour id attached to subsequent events. Empty disables recording.
func (t *Tracker) SetTour(tourID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tourID = tourID
}

// RecordEvent sends an event in the background and returns immediately.
// stepIndex is nil for tour-level events. Nil metadata is sent as an empty object.
func (t *Tracker) RecordEvent(kind domain.EventKind, stepIndex *int, metadata map[string]any) {
	t.mu.Lock()
	tourID := t.tourID
	t.mu.Unlock()

	if tourID == "" || t.sink == nil {
		return
	}
	if metadata == nil {
		metadata = map[string]any{}
	}

	event := domain.Event{
		TourID:         tourID,
		Kind:           kind,
		UserIdentifier: t.identity.UserID(context.Background()),
		Metadata:       metadata,
	}
	if stepIndex != nil {
		idx := *stepIndex
		event.StepIndex = &idx
	}

	started := t.group.TryGo(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
		defer cancel()
		if err := t.sink.Record(ctx, event); err != nil {
			t.logger.Warn("Failed to track event", "tour_id", event.TourID, "event", string(event.Kind), "err", err)
		}
		return nil
	})
	if !started {
		t.logger.Warn("Event dropped, too many deliveries in flight", "tour_id", tourID, "event", string(kind))
	}
}

// Flush waits for in-flight deliveries.
func (t *Tracker) Flush() {
	_ = t.group.Wait()
}
