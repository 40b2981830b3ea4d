package ports

import (
	"context"

	"github.com/aretw0/tourflow/pkg/domain"
)

// TourSource retrieves tour definitions by id.
type TourSource interface {
	// FetchTour returns domain.ErrTourNotFound when the tour is absent or inactive.
	// Any other error is a transport or storage failure.
	FetchTour(ctx context.Context, tourID string) (*domain.Tour, error)
}

// EventSink receives lifecycle events. Callers never depend on the outcome.
type EventSink interface {
	Record(ctx context.Context, event domain.Event) error
}
