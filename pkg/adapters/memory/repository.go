package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/aretw0/tourflow/pkg/domain"
)

// Repository implements ports.TourRepository and ports.TourSource in memory.
// Safe for concurrent use.
type Repository struct {
	tours map[string]*domain.Tour
	mu    sync.RWMutex
}

// NewRepository creates a repository seeded with the given tours.
func NewRepository(tours ...*domain.Tour) *Repository {
	r := &Repository{
		tours: make(map[string]*domain.Tour),
	}
	for _, t := range tours {
		_ = r.Save(context.Background(), t)
	}
	return r
}

// Get returns a copy of the tour.
func (r *Repository) Get(ctx context.Context, tourID string) (*domain.Tour, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tours[tourID]
	if !ok {
		return nil, domain.ErrTourNotFound
	}
	return t.Clone(), nil
}

// List returns copies of every tour, newest first.
func (r *Repository) List(ctx context.Context) ([]*domain.Tour, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tours := make([]*domain.Tour, 0, len(r.tours))
	for _, t := range r.tours {
		tours = append(tours, t.Clone())
	}
	sort.SliceStable(tours, func(i, j int) bool {
		if tours[i].CreatedAt.Equal(tours[j].CreatedAt) {
			return tours[i].ID < tours[j].ID
		}
		return tours[i].CreatedAt.After(tours[j].CreatedAt)
	})
	return tours, nil
}

// Save stores a copy of the tour. A zero CreatedAt is stamped with the current time,
// and replacing an existing tour keeps its original creation time.
func (r *Repository) Save(ctx context.Context, tour *domain.Tour) error {
	c := tour.Clone()

	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.tours[c.ID]; ok && c.CreatedAt.IsZero() {
		c.CreatedAt = prev.CreatedAt
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	r.tours[c.ID] = c
	return nil
}

// Delete removes the tour.
func (r *Repository) Delete(ctx context.Context, tourID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tours, tourID)
	return nil
}

// FetchTour implements ports.TourSource: inactive tours are reported as not found.
func (r *Repository) FetchTour(ctx context.Context, tourID string) (*domain.Tour, error) {
	t, err := r.Get(ctx, tourID)
	if err != nil {
		return nil, err
	}
	if !t.Active {
		return nil, domain.ErrTourNotFound
	}
	return t, nil
}
