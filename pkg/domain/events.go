package domain

import "time"

// EventKind defines the category of a lifecycle event.
type EventKind string

const (
	EventView     EventKind = "view"
	EventStepView EventKind = "step_view"
	EventSkip     EventKind = "skip"
	EventComplete EventKind = "complete"
)

// Valid reports whether k is a known event kind.
func (k EventKind) Valid() bool {
	switch k {
	case EventView, EventStepView, EventSkip, EventComplete:
		return true
	}
	return false
}

// Event is the payload sent to an event sink.
// Field names match the wire format of the remote event collector.
type Event struct {
	TourID         string         `json:"tourId"`
	Kind           EventKind      `json:"eventType"`
	StepIndex      *int           `json:"stepIndex"`
	UserIdentifier string         `json:"userIdentifier"`
	Metadata       map[string]any `json:"metadata"`
}

// RecordedEvent is an event as stored by an analytics backend.
type RecordedEvent struct {
	ID string `json:"id"`
	Event
	CreatedAt time.Time `json:"created_at"`
}

// Callbacks are the host notifications invoked synchronously at transition points.
// Nil fields are skipped.
type Callbacks struct {
	OnComplete   func()
	OnSkip       func(stepIndex int)
	OnStepChange func(step Step, index int)
}
