package domain

// Status is the lifecycle state of a tour session.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusSkipped   Status = "skipped"
)

// SessionState is a read-only snapshot of a session.
type SessionState struct {
	Status Status `json:"status"`
	Active bool   `json:"active"`
	Index  int    `json:"index"`
	TourID string `json:"tour_id,omitempty"`
	Steps  int    `json:"steps"`

	// Mounted reports whether scaffolding is currently attached to the host surface.
	Mounted bool `json:"mounted"`
}
