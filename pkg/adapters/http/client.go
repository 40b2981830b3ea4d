package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aretw0/tourflow/pkg/domain"
	"github.com/goccy/go-json"
)

// Client talks to a tour service. It implements ports.TourSource and ports.EventSink.
type Client struct {
	baseURL string
	http    *http.Client
	headers map[string]string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default client (10s timeout).
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		cl.http = c
	}
}

// WithHeader adds a header to every request, e.g. an API key.
func WithHeader(key, value string) ClientOption {
	return func(cl *Client) {
		cl.headers[key] = value
	}
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		headers: make(map[string]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchTour implements ports.TourSource.
func (c *Client) FetchTour(ctx context.Context, tourID string) (*domain.Tour, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/get-tour?tourId="+url.QueryEscape(tourID), nil)
	if err != nil {
		return nil, fmt.Errorf("fetch tour: %w", err)
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch tour: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, domain.ErrTourNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("fetch tour: unexpected status %d: %s", resp.StatusCode, readError(resp.Body))
	}

	var body playbackTour
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("fetch tour: decode: %w", err)
	}
	return &domain.Tour{ID: body.ID, Name: body.Name, Active: true, Steps: body.Steps}, nil
}

// Record implements ports.EventSink.
func (c *Client) Record(ctx context.Context, event domain.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("track event: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/track-event", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("track event: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return fmt.Errorf("track event: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("track event: unexpected status %d: %s", resp.StatusCode, readError(resp.Body))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	return c.http.Do(req)
}

func readError(r io.Reader) string {
	var body struct {
		Error string `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(r, 4096))
	if json.Unmarshal(data, &body) == nil && body.Error != "" {
		return body.Error
	}
	return strings.TrimSpace(string(data))
}
