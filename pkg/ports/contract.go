package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/tourflow/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunKeyValueStoreContract runs a suite of tests to verify that a KeyValueStore
// implementation adheres to the defined interface contract.
func RunKeyValueStoreContract(t *testing.T, store KeyValueStore) {
	ctx := context.Background()
	key := "contract-key-" + time.Now().Format("20060102150405.000000")

	t.Run("Get Missing", func(t *testing.T) {
		_, err := store.Get(ctx, key+"-missing")
		assert.ErrorIs(t, err, domain.ErrKeyNotFound)
	})

	t.Run("Set and Get", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, key, "t1,t2"))
		val, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "t1,t2", val)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, key, "t3"))
		val, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "t3", val)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, key))
		_, err := store.Get(ctx, key)
		assert.ErrorIs(t, err, domain.ErrKeyNotFound)

		// Deleting twice is fine
		assert.NoError(t, store.Delete(ctx, key))
	})
}

// RunTourRepositoryContract verifies a TourRepository implementation.
func RunTourRepositoryContract(t *testing.T, repo TourRepository) {
	ctx := context.Background()
	suffix := time.Now().Format("150405.000000")

	older := &domain.Tour{
		ID:        "contract-older-" + suffix,
		Name:      "Older",
		Active:    true,
		CreatedAt: time.Now().Add(-time.Hour).UTC().Truncate(time.Second),
		Steps: []domain.Step{
			{Title: "One", Content: "first", Target: "#one", Placement: domain.PlacementBottom},
			{Title: "Two", Content: "second", Target: "#two", Placement: domain.PlacementTop},
		},
	}
	newer := &domain.Tour{
		ID:        "contract-newer-" + suffix,
		Name:      "Newer",
		Active:    false,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		Steps:     []domain.Step{{Title: "Only", Target: "#only"}},
	}

	t.Run("Get Missing", func(t *testing.T) {
		_, err := repo.Get(ctx, "contract-missing-"+suffix)
		assert.ErrorIs(t, err, domain.ErrTourNotFound)
	})

	t.Run("Save and Get Preserves Step Order", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, older))
		got, err := repo.Get(ctx, older.ID)
		require.NoError(t, err)
		assert.Equal(t, older.Name, got.Name)
		assert.True(t, got.Active)
		require.Len(t, got.Steps, 2)
		assert.Equal(t, "One", got.Steps[0].Title)
		assert.Equal(t, "#two", got.Steps[1].Target)
		assert.Equal(t, domain.PlacementTop, got.Steps[1].Placement)
	})

	t.Run("Replace Steps", func(t *testing.T) {
		replaced := older.Clone()
		replaced.Name = "Older v2"
		replaced.Steps = []domain.Step{{Title: "Reordered", Target: "#two"}}
		require.NoError(t, repo.Save(ctx, replaced))

		got, err := repo.Get(ctx, older.ID)
		require.NoError(t, err)
		assert.Equal(t, "Older v2", got.Name)
		require.Len(t, got.Steps, 1)
		assert.Equal(t, "Reordered", got.Steps[0].Title)
	})

	t.Run("List Newest First", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, newer))
		tours, err := repo.List(ctx)
		require.NoError(t, err)

		idxNewer, idxOlder := -1, -1
		for i, tour := range tours {
			switch tour.ID {
			case newer.ID:
				idxNewer = i
			case older.ID:
				idxOlder = i
			}
		}
		require.NotEqual(t, -1, idxNewer)
		require.NotEqual(t, -1, idxOlder)
		assert.Less(t, idxNewer, idxOlder)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, newer.ID))
		_, err := repo.Get(ctx, newer.ID)
		assert.ErrorIs(t, err, domain.ErrTourNotFound)
		assert.NoError(t, repo.Delete(ctx, newer.ID))
		_ = repo.Delete(ctx, older.ID)
	})
}

// RunEventStoreContract verifies an EventStore implementation. The tours the
// events belong to are saved to tours first, since stores may require them.
func RunEventStoreContract(t *testing.T, store EventStore, tours TourRepository) {
	ctx := context.Background()
	tourID := "contract-events-" + time.Now().Format("150405.000000")
	otherID := "other-" + tourID
	step := 1
	base := time.Now().UTC().Truncate(time.Second)

	for _, id := range []string{tourID, otherID} {
		require.NoError(t, tours.Save(ctx, &domain.Tour{ID: id, Active: true, CreatedAt: base}))
	}
	t.Cleanup(func() {
		for _, id := range []string{tourID, otherID} {
			_ = tours.Delete(ctx, id)
			_ = store.DeleteByTour(ctx, id)
		}
	})

	events := []domain.RecordedEvent{
		{ID: tourID + "-1", CreatedAt: base, Event: domain.Event{TourID: tourID, Kind: domain.EventView, UserIdentifier: "u1", Metadata: map[string]any{}}},
		{ID: tourID + "-2", CreatedAt: base.Add(time.Second), Event: domain.Event{TourID: tourID, Kind: domain.EventStepView, StepIndex: &step, UserIdentifier: "u1", Metadata: map[string]any{"target": "#a"}}},
		{ID: tourID + "-3", CreatedAt: base.Add(2 * time.Second), Event: domain.Event{TourID: otherID, Kind: domain.EventView}},
	}

	t.Run("Append and List", func(t *testing.T) {
		for _, e := range events {
			require.NoError(t, store.Append(ctx, e))
		}

		got, err := store.ListByTour(ctx, tourID)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, domain.EventStepView, got[0].Kind, "newest first")
		require.NotNil(t, got[0].StepIndex)
		assert.Equal(t, 1, *got[0].StepIndex)
		assert.Equal(t, "#a", got[0].Metadata["target"])
		assert.Nil(t, got[1].StepIndex)

		none, err := store.ListByTour(ctx, "never-"+tourID)
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("DeleteByTour", func(t *testing.T) {
		require.NoError(t, store.DeleteByTour(ctx, tourID))

		got, err := store.ListByTour(ctx, tourID)
		require.NoError(t, err)
		assert.Empty(t, got)

		other, err := store.ListByTour(ctx, otherID)
		require.NoError(t, err)
		assert.Len(t, other, 1, "other tours keep their events")

		// Deleting twice is fine
		assert.NoError(t, store.DeleteByTour(ctx, tourID))
	})
}
