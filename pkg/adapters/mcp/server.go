// Package mcp exposes the tour library and its analytics to MCP clients,
// so assistants can read tours and funnel numbers while authoring.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/aretw0/tourflow"
	"github.com/aretw0/tourflow/pkg/analytics"
	"github.com/aretw0/tourflow/pkg/domain"
	"github.com/aretw0/tourflow/pkg/ports"
	"github.com/aretw0/tourflow/pkg/schema"
	"github.com/goccy/go-json"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const toursURI = "tourflow://tours"

// TourInfo is the list entry of a tour.
type TourInfo struct {
	ID     string `json:"id" jsonschema_description:"Tour identifier"`
	Name   string `json:"name" jsonschema_description:"Display name"`
	Active bool   `json:"active" jsonschema_description:"Whether the widget may play the tour"`
	Steps  int    `json:"steps" jsonschema_description:"Number of steps"`
}

// TourList is the output of list_tours.
type TourList struct {
	Tours []TourInfo `json:"tours" jsonschema_description:"Tours, newest first"`
}

// ValidationResult is the output of validate_tour.
type ValidationResult struct {
	Valid  bool     `json:"valid" jsonschema_description:"True when the document is a playable tour"`
	Steps  int      `json:"steps" jsonschema_description:"Number of steps when valid"`
	Errors []string `json:"errors,omitempty" jsonschema_description:"Problems found in the document"`
}

// Server exposes a tour repository as an MCP Server.
type Server struct {
	tours     ports.TourRepository
	events    ports.EventStore
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance. events may be nil, which disables tour_stats.
func NewServer(tours ports.TourRepository, events ports.EventStore) *Server {
	s := &Server{
		tours:     tours,
		events:    events,
		mcpServer: server.NewMCPServer("tourflow-mcp", strings.TrimSpace(tourflow.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	lifecycle.Go(ctx, func(ctx context.Context) error {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
		return nil
	})

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		slog.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_tours",
		mcp.WithDescription("List every tour with its step count and active flag."),
		mcp.WithOutputSchema[TourList](),
	), mcp.NewStructuredToolHandler(s.handleListTours))

	s.mcpServer.AddTool(mcp.NewTool("get_tour",
		mcp.WithDescription("Get the full definition of a tour, steps in playback order."),
		mcp.WithString("tour_id", mcp.Required(), mcp.Description("Tour identifier")),
		mcp.WithOutputSchema[domain.Tour](),
	), mcp.NewStructuredToolHandler(s.handleGetTour))

	s.mcpServer.AddTool(mcp.NewTool("validate_tour",
		mcp.WithDescription("Check a tour document (JSON or YAML) before saving it."),
		mcp.WithString("document", mcp.Required(), mcp.Description("Tour document text")),
		mcp.WithString("format", mcp.Description("json or yaml (default json)")),
		mcp.WithOutputSchema[ValidationResult](),
	), mcp.NewStructuredToolHandler(s.handleValidateTour))

	if s.events != nil {
		s.mcpServer.AddTool(mcp.NewTool("tour_stats",
			mcp.WithDescription("Views, completions, skips and per-step views of a tour."),
			mcp.WithString("tour_id", mcp.Required(), mcp.Description("Tour identifier")),
			mcp.WithOutputSchema[analytics.Summary](),
		), mcp.NewStructuredToolHandler(s.handleTourStats))
	}
}

func (s *Server) handleListTours(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (TourList, error) {
	tours, err := s.tours.List(ctx)
	if err != nil {
		return TourList{}, fmt.Errorf("list tours: %w", err)
	}
	out := TourList{Tours: make([]TourInfo, 0, len(tours))}
	for _, t := range tours {
		out.Tours = append(out.Tours, TourInfo{ID: t.ID, Name: t.Name, Active: t.Active, Steps: t.Len()})
	}
	return out, nil
}

func (s *Server) handleGetTour(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (domain.Tour, error) {
	id, _ := args["tour_id"].(string)
	if id == "" {
		return domain.Tour{}, errors.New("tour_id is required")
	}
	tour, err := s.tours.Get(ctx, id)
	if err != nil {
		return domain.Tour{}, fmt.Errorf("get tour %q: %w", id, err)
	}
	return *tour, nil
}

func (s *Server) handleValidateTour(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ValidationResult, error) {
	doc, _ := args["document"].(string)
	format := schema.FormatJSON
	if f, _ := args["format"].(string); f != "" {
		if parsed, err := schema.FormatFromPath("doc." + strings.ToLower(f)); err == nil {
			format = parsed
		}
	}

	tour, err := schema.Parse([]byte(doc), format)
	if err != nil {
		res := ValidationResult{}
		issues := schema.ValidationErrors(err)
		if len(issues) == 0 {
			issues = []error{err}
		}
		for _, e := range issues {
			res.Errors = append(res.Errors, e.Error())
		}
		return res, nil
	}
	return ValidationResult{Valid: true, Steps: tour.Len()}, nil
}

func (s *Server) handleTourStats(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (analytics.Summary, error) {
	id, _ := args["tour_id"].(string)
	if id == "" {
		return analytics.Summary{}, errors.New("tour_id is required")
	}
	events, err := s.events.ListByTour(ctx, id)
	if err != nil {
		return analytics.Summary{}, fmt.Errorf("list events: %w", err)
	}
	return analytics.Summarize(id, events), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(toursURI, "Tour Library",
		mcp.WithMIMEType("application/json"),
	), s.readTours)
}

func (s *Server) readTours(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	tours, err := s.tours.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tours: %w", err)
	}
	jsonBytes, err := json.Marshal(tours)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tours: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      toursURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
