package mcp

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/tourflow/pkg/adapters/memory"
	"github.com/aretw0/tourflow/pkg/domain"
	"github.com/goccy/go-json"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	now := time.Now().UTC()
	repo := memory.NewRepository(
		&domain.Tour{ID: "old", Name: "Old", Active: true, CreatedAt: now.Add(-time.Hour),
			Steps: []domain.Step{{Title: "a", Target: "#a"}}},
		&domain.Tour{ID: "new", Name: "New", CreatedAt: now,
			Steps: []domain.Step{{Title: "a", Target: "#a"}, {Title: "b", Target: "#b"}}},
	)

	events := memory.NewEventStore()
	ctx := context.Background()
	zero := 0
	for i, kind := range []domain.EventKind{domain.EventView, domain.EventStepView, domain.EventComplete} {
		require.NoError(t, events.Append(ctx, domain.RecordedEvent{
			ID:        string(rune('a' + i)),
			Event:     domain.Event{TourID: "old", Kind: kind, StepIndex: &zero},
			CreatedAt: now,
		}))
	}
	return NewServer(repo, events)
}

func TestListTours(t *testing.T) {
	s := newTestServer(t)
	out, err := s.handleListTours(context.Background(), mcp.CallToolRequest{}, nil)
	require.NoError(t, err)
	assert.Equal(t, []TourInfo{
		{ID: "new", Name: "New", Steps: 2},
		{ID: "old", Name: "Old", Active: true, Steps: 1},
	}, out.Tours)
}

func TestGetTour(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	tour, err := s.handleGetTour(ctx, mcp.CallToolRequest{}, map[string]interface{}{"tour_id": "new"})
	require.NoError(t, err)
	assert.Len(t, tour.Steps, 2)

	_, err = s.handleGetTour(ctx, mcp.CallToolRequest{}, map[string]interface{}{"tour_id": "missing"})
	assert.ErrorIs(t, err, domain.ErrTourNotFound)

	_, err = s.handleGetTour(ctx, mcp.CallToolRequest{}, map[string]interface{}{})
	assert.Error(t, err)
}

func TestValidateTour(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	ok, err := s.handleValidateTour(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"document": "steps:\n  - title: Hi\n    target: '#a'\n",
		"format":   "yml",
	})
	require.NoError(t, err)
	assert.True(t, ok.Valid)
	assert.Equal(t, 1, ok.Steps)

	bad, err := s.handleValidateTour(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"document": `{"steps": [{"title": "no target", "placement": "middle"}]}`,
	})
	require.NoError(t, err)
	assert.False(t, bad.Valid)
	assert.NotEmpty(t, bad.Errors)
}

func TestTourStats(t *testing.T) {
	s := newTestServer(t)
	sum, err := s.handleTourStats(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{"tour_id": "old"})
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Views)
	assert.Equal(t, 1, sum.Completes)
	assert.Equal(t, 100.0, sum.CompletionRate)
}

func TestReadToursResource(t *testing.T) {
	s := newTestServer(t)
	contents, err := s.readTours(context.Background(), mcp.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)

	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, toursURI, text.URI)

	var tours []domain.Tour
	require.NoError(t, json.Unmarshal([]byte(text.Text), &tours))
	assert.Len(t, tours, 2)
}
