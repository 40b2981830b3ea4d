// Package loam serves tours from a directory of Markdown, JSON or YAML files
// through the Loam document library.
package loam

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/loam"
	"github.com/aretw0/tourflow/pkg/domain"
)

// ErrReadOnly is returned by Save and Delete: tour files are edited on disk, not through the service.
var ErrReadOnly = errors.New("loam tour library is read-only")

// Source adapts a Loam repository to ports.TourSource and ports.TourRepository.
type Source struct {
	Repo *loam.TypedRepository[TourMetadata]
}

// New wraps an existing typed repository.
func New(repo *loam.TypedRepository[TourMetadata]) *Source {
	return &Source{Repo: repo}
}

// Open initializes a read-only Loam repository rooted at dir.
func Open(dir string) (*Source, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	// Strict mode keeps numbers consistent across JSON, YAML and front matter.
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[TourMetadata](repo)), nil
}

// Get loads one tour by id (file name without extension).
func (s *Source) Get(ctx context.Context, tourID string) (*domain.Tour, error) {
	doc, err := s.Repo.Get(ctx, tourID)
	if err != nil {
		return nil, fmt.Errorf("%w: loam get failed for %s: %v", domain.ErrTourNotFound, tourID, err)
	}
	id := doc.Data.ID
	if id == "" {
		id = doc.ID
	}
	return doc.Data.toTour(trimExtension(id)), nil
}

// FetchTour implements ports.TourSource.
func (s *Source) FetchTour(ctx context.Context, tourID string) (*domain.Tour, error) {
	tour, err := s.Get(ctx, tourID)
	if err != nil {
		return nil, err
	}
	if !tour.Active {
		return nil, domain.ErrTourNotFound
	}
	return tour, nil
}

// List returns every tour in the library, sorted by id.
// Two files resolving to the same id are reported as an error.
func (s *Source) List(ctx context.Context) ([]*domain.Tour, error) {
	docs, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	tours := make([]*domain.Tour, 0, len(docs))
	for _, doc := range docs {
		rawID := doc.Data.ID
		if rawID == "" {
			rawID = doc.ID
		}
		id := trimExtension(rawID)
		if existingPath, ok := seen[id]; ok {
			return nil, fmt.Errorf("collision detected: tour '%s' is defined in both '%s' and '%s'", id, existingPath, doc.ID)
		}
		seen[id] = doc.ID
		tours = append(tours, doc.Data.toTour(id))
	}

	sort.Slice(tours, func(i, j int) bool { return tours[i].ID < tours[j].ID })
	return tours, nil
}

// Save implements ports.TourRepository and always fails.
func (s *Source) Save(ctx context.Context, tour *domain.Tour) error {
	return ErrReadOnly
}

// Delete implements ports.TourRepository and always fails.
func (s *Source) Delete(ctx context.Context, tourID string) error {
	return ErrReadOnly
}

// Watch emits the id of every tour file that changes until ctx is done.
func (s *Source) Watch(ctx context.Context) (<-chan string, error) {
	events, err := s.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan string, 1)
	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				select {
				case ch <- trimExtension(evt.ID):
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return ch, nil
}

func trimExtension(id string) string {
	if ext := filepath.Ext(id); ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
