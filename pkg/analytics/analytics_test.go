package analytics_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aretw0/tourflow/pkg/adapters/memory"
	"github.com/aretw0/tourflow/pkg/analytics"
	"github.com/aretw0/tourflow/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ev(kind domain.EventKind, step *int) domain.RecordedEvent {
	return domain.RecordedEvent{Event: domain.Event{TourID: "t1", Kind: kind, StepIndex: step}}
}

func idx(i int) *int { return &i }

func TestSummarize(t *testing.T) {
	events := []domain.RecordedEvent{
		ev(domain.EventView, nil),
		ev(domain.EventView, nil),
		ev(domain.EventView, nil),
		ev(domain.EventStepView, idx(1)),
		ev(domain.EventStepView, idx(0)),
		ev(domain.EventStepView, idx(0)),
		ev(domain.EventStepView, nil),
		ev(domain.EventComplete, nil),
		ev(domain.EventSkip, idx(1)),
		{Event: domain.Event{TourID: "other", Kind: domain.EventView}},
	}

	s := analytics.Summarize("t1", events)
	assert.Equal(t, 3, s.Views)
	assert.Equal(t, 1, s.Completes)
	assert.Equal(t, 1, s.Skips)
	assert.Equal(t, 33.3, s.CompletionRate)
	require.Len(t, s.Steps, 2)
	assert.Equal(t, analytics.StepViews{Index: 0, Label: "Step 1", Views: 3}, s.Steps[0])
	assert.Equal(t, analytics.StepViews{Index: 1, Label: "Step 2", Views: 1}, s.Steps[1])
	assert.Equal(t, []float64{66.7}, s.DropOff())
}

func TestSummarize_NoViews(t *testing.T) {
	s := analytics.Summarize("t1", nil)
	assert.Zero(t, s.CompletionRate)
	assert.NotNil(t, s.Steps)
	assert.Nil(t, s.DropOff())
}

func TestCollector_Instrument(t *testing.T) {
	c := analytics.NewCollector()
	failing := c.Instrument(memory.NewSink(errors.New("offline")))

	step := 2
	_ = failing.Record(context.Background(), domain.Event{TourID: "t1", Kind: domain.EventStepView, StepIndex: &step})
	_ = failing.Record(context.Background(), domain.Event{TourID: "t1", Kind: domain.EventView})
	c.ObserveFetch("ok")

	families, err := c.Registry().Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == "tourflow_events_total" {
			assert.Len(t, mf.GetMetric(), 2)
		}
	}

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	assert.Contains(t, body, `tourflow_step_views_total{step="2",tour_id="t1"} 1`)
	assert.Contains(t, body, `tourflow_event_failures_total{event_type="view"} 1`)
	assert.Contains(t, body, `tourflow_tour_fetches_total{result="ok"} 1`)
}
