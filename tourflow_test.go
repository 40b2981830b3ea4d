package tourflow_test

import (
	"context"
	"testing"

	"github.com/aretw0/tourflow"
	"github.com/aretw0/tourflow/pkg/adapters/memory"
	"github.com/aretw0/tourflow/pkg/domain"
	"github.com/aretw0/tourflow/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type explodingSurface struct {
	*memory.Surface
}

func (explodingSurface) RenderTooltip(context.Context, domain.TooltipView) error {
	panic("renderer crashed")
}

var _ ports.HostSurface = explodingSurface{}

func TestDecodeOptions(t *testing.T) {
	opts, err := tourflow.DecodeOptions(map[string]any{
		"tourId":           "t1",
		"autoStart":        "true",
		"highlightPadding": 4,
		"placement":        "top",
		"tourData": map[string]any{
			"id":   "t1",
			"name": "Welcome",
			"steps": []any{
				map[string]any{"title": "A", "content": "x", "target": "#a", "placement": "left"},
				map[string]any{"title": "B", "target": "#b"},
			},
		},
		"unknownKey": "ignored",
	})
	require.NoError(t, err)

	assert.Equal(t, "t1", opts.TourID)
	assert.True(t, opts.AutoStart)
	require.NotNil(t, opts.HighlightPadding)
	assert.Equal(t, 4.0, *opts.HighlightPadding)
	assert.Equal(t, domain.PlacementTop, opts.Placement)
	require.NotNil(t, opts.Overlay)
	assert.True(t, *opts.Overlay, "defaults survive decoding")
	assert.Equal(t, "tourflow_completed", opts.StorageKey)
	assert.Equal(t, "smooth", opts.ScrollBehavior)
	require.NotNil(t, opts.Tour)
	require.Len(t, opts.Tour.Steps, 2)
	assert.Equal(t, domain.PlacementLeft, opts.Tour.Steps[0].Placement)
}

func TestDecodeOptions_Errors(t *testing.T) {
	_, err := tourflow.DecodeOptions(map[string]any{"placement": "sideways"})
	assert.ErrorIs(t, err, domain.ErrInvalidTour)

	_, err = tourflow.DecodeOptions(map[string]any{"tourData": map[string]any{"id": "x"}})
	assert.ErrorIs(t, err, domain.ErrEmptyTour)
}

func TestDefaultOptions(t *testing.T) {
	opts := tourflow.DefaultOptions()
	assert.False(t, opts.AutoStart)
	assert.Equal(t, tourflow.Ptr(true), opts.Overlay)
	assert.Equal(t, tourflow.Ptr(10.0), opts.HighlightPadding)
	assert.Equal(t, domain.PlacementAuto, opts.Placement)
}

func TestWidget_PartialOptionsUseDefaults(t *testing.T) {
	ctx := context.Background()
	tour := &domain.Tour{ID: "partial", Steps: []domain.Step{{Title: "A", Target: "#a"}}}

	surface := memory.NewSurface(memory.WithElement("#a", domain.Rect{Top: 100, Left: 200, Width: 120, Height: 40}))
	w := tourflow.New(surface, tourflow.WithStore(memory.NewStore()))
	require.NoError(t, w.Init(ctx, tourflow.Options{Tour: tour}))
	w.Start(ctx)

	assert.Equal(t, 1, surface.MountCount(domain.PartOverlay))
	frame, ok := surface.Frame()
	require.True(t, ok)
	require.NotNil(t, frame.Highlight)
	assert.Equal(t, domain.Rect{Top: 90, Left: 190, Width: 140, Height: 60}, *frame.Highlight)
}

func TestWidget_ExplicitZeroOptions(t *testing.T) {
	ctx := context.Background()
	tour := &domain.Tour{ID: "bare", Steps: []domain.Step{{Title: "A", Target: "#a"}}}

	surface := memory.NewSurface(memory.WithElement("#a", domain.Rect{Top: 100, Left: 200, Width: 120, Height: 40}))
	w := tourflow.New(surface, tourflow.WithStore(memory.NewStore()))
	opts := tourflow.Options{Tour: tour, Overlay: tourflow.Ptr(false), HighlightPadding: tourflow.Ptr(0.0)}
	require.NoError(t, w.Init(ctx, opts))
	w.Start(ctx)

	assert.Equal(t, 0, surface.MountCount(domain.PartOverlay))
	frame, _ := surface.Frame()
	require.NotNil(t, frame.Highlight)
	assert.Equal(t, domain.Rect{Top: 100, Left: 200, Width: 120, Height: 40}, *frame.Highlight)
}

func TestWidget_Lifecycle(t *testing.T) {
	ctx := context.Background()
	surface := memory.NewSurface(memory.WithElement("#a", domain.Rect{Top: 100, Left: 100, Width: 50, Height: 20}))
	sink := memory.NewSink(nil)
	store := memory.NewStore()
	w := tourflow.New(surface, tourflow.WithEventSink(sink), tourflow.WithStore(store))

	completed := false
	opts := tourflow.DefaultOptions()
	opts.Tour = &domain.Tour{ID: "w1", Steps: []domain.Step{{Title: "Hi", Target: "#a"}}}
	opts.AutoStart = true
	opts.OnComplete = func() { completed = true }

	require.NoError(t, w.Init(ctx, opts))
	assert.True(t, w.State().Active)

	w.Next(ctx)
	w.Flush()
	assert.True(t, completed)
	assert.Equal(t, domain.StatusCompleted, w.State().Status)

	// The next visit skips the completed tour until Reset.
	again := tourflow.New(surface, tourflow.WithStore(store))
	require.NoError(t, again.Init(ctx, opts))
	assert.False(t, again.Ready())

	w.Reset(ctx)
	require.NoError(t, again.Init(ctx, opts))
	assert.True(t, again.Ready())
}

func TestWidget_FetchesFromSource(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRepository(&domain.Tour{ID: "remote", Active: true, Steps: []domain.Step{{Title: "R"}}})
	w := tourflow.New(memory.NewSurface(), tourflow.WithTourSource(repo))

	opts := tourflow.DefaultOptions()
	opts.TourID = "remote"
	require.NoError(t, w.Init(ctx, opts))
	require.NotNil(t, w.Tour())
	assert.Equal(t, "R", w.Tour().Steps[0].Title)
}

func TestWidget_RecoversSurfacePanics(t *testing.T) {
	ctx := context.Background()
	w := tourflow.New(explodingSurface{memory.NewSurface()})

	opts := tourflow.DefaultOptions()
	opts.Tour = &domain.Tour{ID: "boom", Steps: []domain.Step{{Title: "x"}, {Title: "y"}}}
	require.NoError(t, w.Init(ctx, opts))

	assert.NotPanics(t, func() { w.Start(ctx) })
	// The session lock is released after a panic, so the widget keeps working.
	assert.NotPanics(t, func() { w.Stop(ctx) })
	assert.NotPanics(t, func() { w.Destroy(ctx) })
	assert.Equal(t, domain.StatusIdle, w.State().Status)
}

func TestWidget_InitWithoutSource(t *testing.T) {
	w := tourflow.New(memory.NewSurface())
	err := w.Init(context.Background(), tourflow.DefaultOptions())
	assert.ErrorIs(t, err, domain.ErrMissingTourSource)
}
