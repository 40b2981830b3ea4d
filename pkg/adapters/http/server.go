package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/tourflow"
	"github.com/aretw0/tourflow/pkg/analytics"
	"github.com/aretw0/tourflow/pkg/domain"
	"github.com/aretw0/tourflow/pkg/ports"
	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Server exposes tours and event collection over HTTP.
type Server struct {
	Tours   ports.TourRepository
	Events  ports.EventStore
	Streams *StreamManager

	metrics *analytics.Collector
	locker  ports.DistributedLocker
	logger  *slog.Logger
	now     func() time.Time
}

const editLockTTL = 10 * time.Second

// Option configures the Server.
type Option func(*Server)

// WithMetrics counts events and fetches and serves them on /metrics.
func WithMetrics(c *analytics.Collector) Option {
	return func(s *Server) {
		s.metrics = c
	}
}

// WithLocker serializes edits of the same tour across replicas.
func WithLocker(l ports.DistributedLocker) Option {
	return func(s *Server) {
		s.locker = l
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithClock overrides the time source used to stamp events and tours.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// NewHandler creates the HTTP handler of the tour service.
func NewHandler(tours ports.TourRepository, events ports.EventStore, opts ...Option) http.Handler {
	s := &Server{
		Tours:   tours,
		Events:  events,
		Streams: NewStreamManager(),
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec())
	})
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}

	// Playback endpoints used by the widget.
	r.Get("/get-tour", s.GetTour)
	r.Post("/track-event", s.TrackEvent)
	r.Get("/events", s.SubscribeEvents)

	// Authoring endpoints.
	r.Route("/tours", func(r chi.Router) {
		r.Get("/", s.ListTours)
		r.Post("/", s.CreateTour)
		r.Get("/{id}", s.GetTourByID)
		r.Put("/{id}", s.UpdateTour)
		r.Delete("/{id}", s.DeleteTour)
		r.Get("/{id}/analytics", s.TourAnalytics)
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// playbackTour is the wire shape served to the widget.
type playbackTour struct {
	ID    string        `json:"id"`
	Name  string        `json:"name"`
	Steps []domain.Step `json:"steps"`
}

// GetTour handles GET /get-tour?tourId=.
func (s *Server) GetTour(w http.ResponseWriter, r *http.Request) {
	tourID := r.URL.Query().Get("tourId")
	if tourID == "" {
		writeError(w, http.StatusBadRequest, "tourId is required")
		return
	}

	tour, err := s.Tours.Get(r.Context(), tourID)
	if err == nil && !tour.Active {
		err = domain.ErrTourNotFound
	}
	if err != nil {
		if errors.Is(err, domain.ErrTourNotFound) {
			s.observeFetch("not_found")
			writeError(w, http.StatusNotFound, "Tour not found or inactive")
			return
		}
		s.observeFetch("error")
		s.logger.Error("GetTour failed", "tour_id", tourID, "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.observeFetch("ok")
	w.Header().Set("Cache-Control", "public, max-age=300")
	writeJSON(w, http.StatusOK, playbackTour{ID: tour.ID, Name: tour.Name, Steps: tour.Steps})
}

// TrackEvent handles POST /track-event.
func (s *Server) TrackEvent(w http.ResponseWriter, r *http.Request) {
	var body domain.Event
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		s.logger.Warn("TrackEvent: Invalid request body", "err", err)
		return
	}
	if body.TourID == "" || body.Kind == "" {
		writeError(w, http.StatusBadRequest, "tourId and eventType are required")
		return
	}
	if !body.Kind.Valid() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown eventType %q", body.Kind))
		return
	}
	if body.Metadata == nil {
		body.Metadata = map[string]any{}
	}

	tour, err := s.Tours.Get(r.Context(), body.TourID)
	if err == nil && !tour.Active {
		err = domain.ErrTourNotFound
	}
	if err != nil {
		if errors.Is(err, domain.ErrTourNotFound) {
			s.logger.Debug("TrackEvent: unknown tour", "tour_id", body.TourID)
			writeError(w, http.StatusNotFound, "Tour not found or inactive")
			return
		}
		s.logger.Error("TrackEvent failed", "tour_id", body.TourID, "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	rec := domain.RecordedEvent{
		ID:        uuid.NewString(),
		Event:     body,
		CreatedAt: s.now().UTC(),
	}
	if err := s.Events.Append(r.Context(), rec); err != nil {
		s.logger.Error("TrackEvent failed", "tour_id", body.TourID, "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.logger.Debug("Tracking event", "tour_id", body.TourID, "event", string(body.Kind), "user", body.UserIdentifier)

	if s.metrics != nil {
		s.metrics.Observe(body)
	}
	if payload, err := json.Marshal(rec); err == nil {
		s.Streams.Broadcast(body.TourID, string(payload))
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// ListTours handles GET /tours.
func (s *Server) ListTours(w http.ResponseWriter, r *http.Request) {
	tours, err := s.Tours.List(r.Context())
	if err != nil {
		s.logger.Error("ListTours failed", "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if tours == nil {
		tours = []*domain.Tour{}
	}
	writeJSON(w, http.StatusOK, tours)
}

// CreateTour handles POST /tours.
func (s *Server) CreateTour(w http.ResponseWriter, r *http.Request) {
	tour, ok := s.decodeTour(w, r)
	if !ok {
		return
	}
	if tour.ID == "" {
		tour.ID = uuid.NewString()
	}
	if _, err := s.Tours.Get(r.Context(), tour.ID); err == nil {
		writeError(w, http.StatusConflict, fmt.Sprintf("tour %q already exists", tour.ID))
		return
	}
	tour.CreatedAt = s.now().UTC()

	if err := s.Tours.Save(r.Context(), tour); err != nil {
		s.logger.Error("CreateTour failed", "tour_id", tour.ID, "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, tour)
}

// GetTourByID handles GET /tours/{id}.
func (s *Server) GetTourByID(w http.ResponseWriter, r *http.Request) {
	tour, err := s.Tours.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tour)
}

// UpdateTour handles PUT /tours/{id}. Steps are replaced as a whole; their order is the new order.
func (s *Server) UpdateTour(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	unlock, ok := s.lock(w, r, id)
	if !ok {
		return
	}
	defer unlock()

	existing, err := s.Tours.Get(r.Context(), id)
	if err != nil {
		s.writeRepoError(w, err)
		return
	}

	tour, ok := s.decodeTour(w, r)
	if !ok {
		return
	}
	tour.ID = id
	tour.CreatedAt = existing.CreatedAt

	if err := s.Tours.Save(r.Context(), tour); err != nil {
		s.logger.Error("UpdateTour failed", "tour_id", id, "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, tour)
}

// DeleteTour handles DELETE /tours/{id}.
func (s *Server) DeleteTour(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	unlock, ok := s.lock(w, r, id)
	if !ok {
		return
	}
	defer unlock()

	if err := s.Tours.Delete(r.Context(), id); err != nil {
		s.logger.Error("DeleteTour failed", "tour_id", id, "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := s.Events.DeleteByTour(r.Context(), id); err != nil {
		s.logger.Error("DeleteTour: dropping analytics failed", "tour_id", id, "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// TourAnalytics handles GET /tours/{id}/analytics.
func (s *Server) TourAnalytics(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	events, err := s.Events.ListByTour(r.Context(), id)
	if err != nil {
		s.logger.Error("TourAnalytics failed", "tour_id", id, "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, analytics.Summarize(id, events))
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if swagger, err := GetSwagger(); err == nil && swagger.Info != nil {
		apiVersion = swagger.Info.Version
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"app":         "tourflow-http",
		"version":     strings.TrimSpace(tourflow.Version),
		"api_version": apiVersion,
	})
}

func (s *Server) decodeTour(w http.ResponseWriter, r *http.Request) (*domain.Tour, bool) {
	var tour domain.Tour
	if err := json.NewDecoder(r.Body).Decode(&tour); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		s.logger.Warn("Invalid tour body", "err", err)
		return nil, false
	}
	// Drafts may be saved without steps; placements must still be known.
	if err := tour.Validate(); err != nil && !errors.Is(err, domain.ErrEmptyTour) {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	if tour.Steps == nil {
		tour.Steps = []domain.Step{}
	}
	return &tour, true
}

// lock takes the edit lock of a tour when a locker is configured.
func (s *Server) lock(w http.ResponseWriter, r *http.Request, tourID string) (func(), bool) {
	if s.locker == nil {
		return func() {}, true
	}
	release, err := s.locker.Lock(r.Context(), "tour:"+tourID, editLockTTL)
	if err != nil {
		s.logger.Error("Tour lock failed", "tour_id", tourID, "err", err)
		writeError(w, http.StatusServiceUnavailable, "Tour is locked")
		return nil, false
	}
	return func() {
		if err := release(context.WithoutCancel(r.Context())); err != nil {
			s.logger.Warn("Tour unlock failed", "tour_id", tourID, "err", err)
		}
	}, true
}

func (s *Server) writeRepoError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrTourNotFound) {
		writeError(w, http.StatusNotFound, "Tour not found")
		return
	}
	s.logger.Error("Repository failure", "err", err)
	writeError(w, http.StatusInternalServerError, err.Error())
}

func (s *Server) observeFetch(result string) {
	if s.metrics != nil {
		s.metrics.ObserveFetch(result)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Response encode failed", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
