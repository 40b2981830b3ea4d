package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"
)

// allTours is the subscription key that receives events of every tour.
const allTours = "*"

// StreamManager handles active SSE connections
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{} // TourID -> Set of Channels
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
	}
}

// Subscribe registers a listener for tourID ("" for every tour).
// The returned func unsubscribes and closes the channel.
func (sm *StreamManager) Subscribe(tourID string) (chan string, func()) {
	if tourID == "" {
		tourID = allTours
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[tourID]; !ok {
		sm.subscribers[tourID] = make(map[chan<- string]struct{})
	}
	sm.subscribers[tourID][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[tourID]; ok {
			if _, ok := subs[ch]; !ok {
				return
			}
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, tourID)
			}
		}
	}
}

// Broadcast delivers msg to the subscribers of tourID and to global subscribers.
func (sm *StreamManager) Broadcast(tourID string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	slog.Debug("StreamManager: Broadcasting", "tour_id", tourID, "payload_size", len(msg))

	for _, key := range []string{tourID, allTours} {
		for ch := range sm.subscribers[key] {
			select {
			case ch <- msg:
			default:
				// Drop message if channel is full (slow client)
				slog.Warn("SSE: Client buffer full, dropping message", "tour_id", tourID)
			}
		}
	}
}

// SubscribeEvents handles the GET /events request (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	tourID := r.URL.Query().Get("tourId")
	s.logger.Info("SSE: Subscribing to tour events", "tour_id", tourID)

	ch, cancel := s.Streams.Subscribe(tourID)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE Client Disconnected", "tour_id", tourID)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
