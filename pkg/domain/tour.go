package domain

import (
	"fmt"
	"time"
)

// Placement is the side of the target element where the tooltip is drawn.
type Placement string

const (
	PlacementTop    Placement = "top"
	PlacementBottom Placement = "bottom"
	PlacementLeft   Placement = "left"
	PlacementRight  Placement = "right"
	PlacementAuto   Placement = "auto"
)

// Valid reports whether p is one of the known placements.
func (p Placement) Valid() bool {
	switch p {
	case PlacementTop, PlacementBottom, PlacementLeft, PlacementRight, PlacementAuto:
		return true
	}
	return false
}

// ParsePlacement converts a loose string into a Placement.
// Empty input yields the empty placement, meaning "use the configured default".
func ParsePlacement(s string) (Placement, error) {
	if s == "" {
		return "", nil
	}
	p := Placement(s)
	if !p.Valid() {
		return "", fmt.Errorf("%w: unknown placement %q", ErrInvalidTour, s)
	}
	return p, nil
}

// Step is one stop in a tour.
type Step struct {
	ID      string `json:"id,omitempty" yaml:"id,omitempty" mapstructure:"id"`
	Title   string `json:"title" yaml:"title" mapstructure:"title"`
	Content string `json:"content" yaml:"content" mapstructure:"content"`

	// Target is an opaque selector identifying zero or one element on the host surface.
	Target string `json:"target" yaml:"target" mapstructure:"target"`

	// Placement is the hint for the tooltip side. Empty means the configured default.
	Placement Placement `json:"placement,omitempty" yaml:"placement,omitempty" mapstructure:"placement"`
}

// Tour is an ordered sequence of steps. The order defines traversal.
type Tour struct {
	ID     string `json:"id" yaml:"id" mapstructure:"id"`
	Name   string `json:"name" yaml:"name" mapstructure:"name"`
	Active bool   `json:"isActive,omitempty" yaml:"active,omitempty" mapstructure:"active"`
	Steps  []Step `json:"steps" yaml:"steps" mapstructure:"steps"`

	CreatedAt time.Time `json:"createdAt,omitzero" yaml:"created_at,omitempty" mapstructure:"created_at"`
}

// Len returns the number of steps.
func (t *Tour) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Steps)
}

// Validate checks the invariants a session relies on.
func (t *Tour) Validate() error {
	if t == nil || len(t.Steps) == 0 {
		return ErrEmptyTour
	}
	for i, s := range t.Steps {
		if s.Placement != "" && !s.Placement.Valid() {
			return fmt.Errorf("%w: step %d has unknown placement %q", ErrInvalidTour, i, s.Placement)
		}
	}
	return nil
}

// Clone returns a deep copy so a session can own an immutable definition.
func (t *Tour) Clone() *Tour {
	if t == nil {
		return nil
	}
	c := *t
	c.Steps = make([]Step, len(t.Steps))
	copy(c.Steps, t.Steps)
	return &c
}
