package ports

import (
	"context"

	"github.com/aretw0/tourflow/pkg/domain"
)

// TourRepository is the service-side store of authored tours.
type TourRepository interface {
	// Get returns the tour regardless of its active flag.
	// Returns domain.ErrTourNotFound if the tour does not exist.
	Get(ctx context.Context, tourID string) (*domain.Tour, error)

	// List returns every tour, newest first.
	List(ctx context.Context) ([]*domain.Tour, error)

	// Save creates or replaces the tour and its steps. Step order is the slice order.
	Save(ctx context.Context, tour *domain.Tour) error

	// Delete removes the tour. Deleting a missing tour is not an error.
	Delete(ctx context.Context, tourID string) error
}

// EventStore persists recorded analytics events.
type EventStore interface {
	Append(ctx context.Context, event domain.RecordedEvent) error

	// ListByTour returns the events of a tour, newest first.
	ListByTour(ctx context.Context, tourID string) ([]domain.RecordedEvent, error)

	// DeleteByTour removes every event of a tour. A tour without events is not an error.
	DeleteByTour(ctx context.Context, tourID string) error
}
