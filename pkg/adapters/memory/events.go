package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/tourflow/pkg/domain"
)

// EventStore implements ports.EventStore in memory.
type EventStore struct {
	events []domain.RecordedEvent
	mu     sync.RWMutex
}

// NewEventStore creates an empty event store.
func NewEventStore() *EventStore {
	return &EventStore{}
}

// Append stores the event.
func (s *EventStore) Append(ctx context.Context, event domain.RecordedEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// ListByTour returns the tour's events, newest first.
func (s *EventStore) ListByTour(ctx context.Context, tourID string) ([]domain.RecordedEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.RecordedEvent, 0)
	for _, e := range s.events {
		if e.TourID == tourID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// DeleteByTour drops the tour's events.
func (s *EventStore) DeleteByTour(ctx context.Context, tourID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.events[:0]
	for _, e := range s.events {
		if e.TourID != tourID {
			kept = append(kept, e)
		}
	}
	s.events = kept
	return nil
}

// Sink implements ports.EventSink by keeping every event in order.
// Useful for embedding without a remote collector and for tests.
type Sink struct {
	events []domain.Event
	err    error
	mu     sync.Mutex
}

// NewSink creates a recording sink. When err is non-nil every Record call fails with it
// after recording the attempt.
func NewSink(err error) *Sink {
	return &Sink{err: err}
}

// Record keeps the event.
func (s *Sink) Record(ctx context.Context, event domain.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return s.err
}

// Events returns a copy of the recorded events.
func (s *Sink) Events() []domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Event, len(s.events))
	copy(out, s.events)
	return out
}

// Count returns the number of recorded events of the given kind.
func (s *Sink) Count(kind domain.EventKind) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}
