package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/tourflow/pkg/adapters/memory"
	"github.com/aretw0/tourflow/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSurface_QueryAndScroll(t *testing.T) {
	ctx := context.Background()
	s := memory.NewSurface(
		memory.WithViewport(800, 600),
		memory.WithDocumentHeight(3000),
		memory.WithElement("#deep", domain.Rect{Top: 2000, Left: 100, Width: 200, Height: 100}),
		memory.WithQueryError("#broken", errors.New("bad selector")),
	)

	missing, err := s.QueryOne(ctx, "#nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = s.QueryOne(ctx, "#broken")
	assert.Error(t, err)

	el, err := s.QueryOne(ctx, "#deep")
	require.NoError(t, err)
	require.NotNil(t, el)

	require.NoError(t, s.ScrollIntoView(ctx, el, domain.ScrollSmooth))
	vp, err := s.Viewport(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1750.0, vp.ScrollY)

	b, err := s.Bounds(ctx, el)
	require.NoError(t, err)
	assert.Equal(t, 250.0, b.Top)
	assert.Equal(t, []string{domain.ScrollSmooth}, s.Scrolls())
}

func TestSurface_ScrollClampsToDocument(t *testing.T) {
	ctx := context.Background()
	s := memory.NewSurface(
		memory.WithViewport(800, 600),
		memory.WithDocumentHeight(1000),
		memory.WithElement("#end", domain.Rect{Top: 950, Width: 10, Height: 10}),
		memory.WithElement("#start", domain.Rect{Top: 5, Width: 10, Height: 10}),
	)

	el, _ := s.QueryOne(ctx, "#end")
	require.NoError(t, s.ScrollIntoView(ctx, el, domain.ScrollInstant))
	vp, _ := s.Viewport(ctx)
	assert.Equal(t, 400.0, vp.ScrollY)

	el, _ = s.QueryOne(ctx, "#start")
	require.NoError(t, s.ScrollIntoView(ctx, el, domain.ScrollInstant))
	vp, _ = s.Viewport(ctx)
	assert.Equal(t, 0.0, vp.ScrollY)
}

func TestSurface_HostMovesElementsAndScroll(t *testing.T) {
	ctx := context.Background()
	s := memory.NewSurface(memory.WithDocumentHeight(3000))

	el, err := s.QueryOne(ctx, "#late")
	require.NoError(t, err)
	assert.Nil(t, el, "not declared yet")

	s.SetElement("#late", domain.Rect{Top: 2000, Left: 10, Width: 50, Height: 20})
	el, err = s.QueryOne(ctx, "#late")
	require.NoError(t, err)
	require.NotNil(t, el)

	s.SetScroll(500)
	vp, _ := s.Viewport(ctx)
	assert.Equal(t, 500.0, vp.ScrollY)
	b, err := s.Bounds(ctx, el)
	require.NoError(t, err)
	assert.Equal(t, 1500.0, b.Top, "bounds are viewport relative")

	s.SetElement("#late", domain.Rect{Top: 700, Left: 10, Width: 50, Height: 20})
	b, err = s.Bounds(ctx, el)
	require.NoError(t, err)
	assert.Equal(t, 200.0, b.Top, "existing handles follow the element")
	assert.Equal(t, 700.0, s.Elements()["#late"].Top)
}

func TestSurface_RenderRequiresTooltip(t *testing.T) {
	ctx := context.Background()
	s := memory.NewSurface()

	assert.Error(t, s.RenderTooltip(ctx, domain.TooltipView{Title: "x"}))

	require.NoError(t, s.Mount(ctx, domain.PartTooltip))
	require.NoError(t, s.RenderTooltip(ctx, domain.TooltipView{Title: "x", Dots: []bool{true}}))
	require.NoError(t, s.PlaceTooltip(ctx, domain.Centered()))

	frame, ok := s.Frame()
	require.True(t, ok)
	assert.Equal(t, "x", frame.Tooltip.Title)
	assert.True(t, frame.Position.Centered)
	assert.Nil(t, frame.Highlight)

	require.NoError(t, s.Unmount(ctx, domain.PartTooltip))
	_, ok = s.Frame()
	assert.False(t, ok)
	assert.Equal(t, 0, s.MountedParts())
}

func TestRepository_FetchTourHidesInactive(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRepository(
		&domain.Tour{ID: "on", Active: true, Steps: []domain.Step{{Title: "a"}}},
		&domain.Tour{ID: "off", Active: false, Steps: []domain.Step{{Title: "b"}}},
	)

	tour, err := repo.FetchTour(ctx, "on")
	require.NoError(t, err)
	assert.Equal(t, "on", tour.ID)

	_, err = repo.FetchTour(ctx, "off")
	assert.ErrorIs(t, err, domain.ErrTourNotFound)

	_, err = repo.FetchTour(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrTourNotFound)

	tour.Steps[0].Title = "mutated"
	again, _ := repo.Get(ctx, "on")
	assert.Equal(t, "a", again.Steps[0].Title)
}

func TestSink_RecordsAndFails(t *testing.T) {
	boom := errors.New("offline")
	s := memory.NewSink(boom)
	err := s.Record(context.Background(), domain.Event{TourID: "t", Kind: domain.EventView})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, s.Count(domain.EventView))
	assert.Len(t, s.Events(), 1)
}
