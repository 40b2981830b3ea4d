package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/tourflow/pkg/adapters/sqlite"
	"github.com/aretw0/tourflow/pkg/domain"
	"github.com/aretw0/tourflow/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "data", "tourflow.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLite_Contracts(t *testing.T) {
	store := openStore(t)
	t.Run("Tours", func(t *testing.T) { ports.RunTourRepositoryContract(t, store.Tours()) })
	t.Run("Events", func(t *testing.T) { ports.RunEventStoreContract(t, store.Events(), store.Tours()) })
	t.Run("KV", func(t *testing.T) { ports.RunKeyValueStoreContract(t, store.KV()) })
}

func TestSQLite_DeleteCascadesSteps(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	repo := store.Tours()

	require.NoError(t, repo.Save(ctx, &domain.Tour{ID: "t", Steps: []domain.Step{{Title: "a"}, {Title: "b"}}}))
	require.NoError(t, repo.Delete(ctx, "t"))

	var n int
	require.NoError(t, store.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM tour_steps`).Scan(&n))
	assert.Zero(t, n)
}

func TestSQLite_DeleteCascadesAnalytics(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	repo, events := store.Tours(), store.Events()

	require.NoError(t, repo.Save(ctx, &domain.Tour{ID: "t", Active: true}))
	require.NoError(t, events.Append(ctx, domain.RecordedEvent{
		ID:        "e1",
		CreatedAt: time.Now(),
		Event:     domain.Event{TourID: "t", Kind: domain.EventView},
	}))
	require.NoError(t, repo.Delete(ctx, "t"))

	var n int
	require.NoError(t, store.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM tour_analytics`).Scan(&n))
	assert.Zero(t, n)
}

func TestSQLite_EventsRequireKnownTour(t *testing.T) {
	events := openStore(t).Events()
	err := events.Append(context.Background(), domain.RecordedEvent{
		ID:        "e1",
		CreatedAt: time.Now(),
		Event:     domain.Event{TourID: "ghost", Kind: domain.EventView},
	})
	assert.Error(t, err)
}

func TestSQLite_ExternalToursAcceptAnyTour(t *testing.T) {
	ctx := context.Background()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "tourflow.db"), sqlite.WithExternalTours())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	require.NoError(t, store.Events().Append(ctx, domain.RecordedEvent{
		ID:        "e1",
		CreatedAt: time.Now(),
		Event:     domain.Event{TourID: "from-files", Kind: domain.EventView},
	}))
	got, err := store.Events().ListByTour(ctx, "from-files")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestSQLite_SaveKeepsCreationTime(t *testing.T) {
	ctx := context.Background()
	repo := openStore(t).Tours()

	require.NoError(t, repo.Save(ctx, &domain.Tour{ID: "t", Name: "v1"}))
	first, err := repo.Get(ctx, "t")
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, &domain.Tour{ID: "t", Name: "v2", Active: true}))
	second, err := repo.Get(ctx, "t")
	require.NoError(t, err)
	assert.Equal(t, "v2", second.Name)
	assert.True(t, first.CreatedAt.Equal(second.CreatedAt))

	tour, err := repo.FetchTour(ctx, "t")
	require.NoError(t, err)
	assert.Empty(t, tour.Steps)
}

func TestSQLite_FetchTourHidesInactive(t *testing.T) {
	ctx := context.Background()
	repo := openStore(t).Tours()
	require.NoError(t, repo.Save(ctx, &domain.Tour{ID: "off", Steps: []domain.Step{{Title: "x"}}}))

	_, err := repo.FetchTour(ctx, "off")
	assert.ErrorIs(t, err, domain.ErrTourNotFound)
}
