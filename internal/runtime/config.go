package runtime

import (
	"github.com/aretw0/tourflow/pkg/domain"
	"github.com/aretw0/tourflow/pkg/tracking"
)

// Config is the resolved configuration of a session.
type Config struct {
	// TourID selects a tour from the TourSource, or names the inline tour.
	TourID string

	// Tour is an inline definition. It wins over fetching by TourID.
	Tour *domain.Tour

	AutoStart        bool
	StorageKey       string
	Overlay          bool
	HighlightPadding float64
	ScrollBehavior   string
	Placement        domain.Placement

	Callbacks domain.Callbacks
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		AutoStart:        false,
		StorageKey:       tracking.DefaultStorageKey,
		Overlay:          true,
		HighlightPadding: 10,
		ScrollBehavior:   domain.ScrollSmooth,
		Placement:        domain.PlacementAuto,
	}
}

// normalize replaces empty or unknown settings with their defaults.
// Overlay is taken as given; a negative padding falls back to the default.
func (c Config) normalize() Config {
	def := DefaultConfig()
	if c.StorageKey == "" {
		c.StorageKey = def.StorageKey
	}
	if c.ScrollBehavior != domain.ScrollSmooth && c.ScrollBehavior != domain.ScrollInstant {
		c.ScrollBehavior = def.ScrollBehavior
	}
	if !c.Placement.Valid() {
		c.Placement = def.Placement
	}
	if c.HighlightPadding < 0 {
		c.HighlightPadding = def.HighlightPadding
	}
	return c
}
