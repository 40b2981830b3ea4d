package analytics

import (
	"context"
	"net/http"
	"strconv"

	"github.com/aretw0/tourflow/pkg/domain"
	"github.com/aretw0/tourflow/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the Prometheus metrics of tour playback.
type Collector struct {
	registry *prometheus.Registry

	events    *prometheus.CounterVec
	stepViews *prometheus.CounterVec
	fetches   *prometheus.CounterVec
	failures  *prometheus.CounterVec
}

// NewCollector creates a collector on its own registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tourflow_events_total",
				Help: "Total number of tour lifecycle events",
			},
			[]string{"tour_id", "event_type"},
		),
		stepViews: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tourflow_step_views_total",
				Help: "Total number of step views by step index",
			},
			[]string{"tour_id", "step"},
		),
		fetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tourflow_tour_fetches_total",
				Help: "Total number of tour definition fetches by result",
			},
			[]string{"result"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tourflow_event_failures_total",
				Help: "Total number of events a sink failed to record",
			},
			[]string{"event_type"},
		),
	}
	c.registry.MustRegister(c.events, c.stepViews, c.fetches, c.failures)
	return c
}

// Observe counts one event.
func (c *Collector) Observe(e domain.Event) {
	c.events.WithLabelValues(e.TourID, string(e.Kind)).Inc()
	if e.Kind == domain.EventStepView && e.StepIndex != nil {
		c.stepViews.WithLabelValues(e.TourID, strconv.Itoa(*e.StepIndex)).Inc()
	}
}

// ObserveFetch counts a tour fetch; result is "ok", "not_found" or "error".
func (c *Collector) ObserveFetch(result string) {
	c.fetches.WithLabelValues(result).Inc()
}

// Registry exposes the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the metrics in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Instrument wraps sink so every event is counted before being forwarded.
func (c *Collector) Instrument(sink ports.EventSink) ports.EventSink {
	return &instrumentedSink{next: sink, c: c}
}

type instrumentedSink struct {
	next ports.EventSink
	c    *Collector
}

func (s *instrumentedSink) Record(ctx context.Context, e domain.Event) error {
	s.c.Observe(e)
	if s.next == nil {
		return nil
	}
	err := s.next.Record(ctx, e)
	if err != nil {
		s.c.failures.WithLabelValues(string(e.Kind)).Inc()
	}
	return err
}
