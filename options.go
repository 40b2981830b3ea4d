package tourflow

import (
	"fmt"
	"time"

	"github.com/aretw0/tourflow/internal/runtime"
	"github.com/aretw0/tourflow/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// Options is the embed configuration of a tour.
// Unset fields take the values of DefaultOptions; Overlay and HighlightPadding
// are pointers so that an explicit false or 0 can be told apart from unset.
type Options struct {
	TourID           string           `mapstructure:"tourId"`
	Tour             *domain.Tour     `mapstructure:"tourData"`
	AutoStart        bool             `mapstructure:"autoStart"`
	StorageKey       string           `mapstructure:"storageKey"`
	Overlay          *bool            `mapstructure:"overlay"`
	HighlightPadding *float64         `mapstructure:"highlightPadding"`
	ScrollBehavior   string           `mapstructure:"scrollBehavior"`
	Placement        domain.Placement `mapstructure:"placement"`

	OnComplete   func()                            `mapstructure:"-"`
	OnSkip       func(stepIndex int)               `mapstructure:"-"`
	OnStepChange func(step domain.Step, index int) `mapstructure:"-"`
}

// DefaultOptions returns the embed defaults.
func DefaultOptions() Options {
	def := runtime.DefaultConfig()
	return Options{
		AutoStart:        def.AutoStart,
		StorageKey:       def.StorageKey,
		Overlay:          Ptr(def.Overlay),
		HighlightPadding: Ptr(def.HighlightPadding),
		ScrollBehavior:   def.ScrollBehavior,
		Placement:        def.Placement,
	}
}

// DecodeOptions merges a loose embed configuration over DefaultOptions.
// Unknown keys are ignored; numbers and booleans may be given as strings.
func DecodeOptions(raw map[string]any) (Options, error) {
	opts := DefaultOptions()
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &opts,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeHookFunc(time.RFC3339),
	})
	if err != nil {
		return Options{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return Options{}, fmt.Errorf("decode options: %w", err)
	}
	if _, err := domain.ParsePlacement(string(opts.Placement)); err != nil {
		return Options{}, err
	}
	if opts.Tour != nil {
		if err := opts.Tour.Validate(); err != nil {
			return Options{}, err
		}
	}
	return opts, nil
}

// Ptr returns a pointer to v, for setting Overlay and HighlightPadding inline.
func Ptr[T any](v T) *T {
	return &v
}

// config merges o over the defaults.
func (o Options) config() runtime.Config {
	cfg := runtime.DefaultConfig()
	cfg.TourID = o.TourID
	cfg.Tour = o.Tour
	cfg.AutoStart = o.AutoStart
	cfg.StorageKey = o.StorageKey
	cfg.ScrollBehavior = o.ScrollBehavior
	cfg.Placement = o.Placement
	if o.Overlay != nil {
		cfg.Overlay = *o.Overlay
	}
	if o.HighlightPadding != nil {
		cfg.HighlightPadding = *o.HighlightPadding
	}
	cfg.Callbacks = domain.Callbacks{
		OnComplete:   o.OnComplete,
		OnSkip:       o.OnSkip,
		OnStepChange: o.OnStepChange,
	}
	return cfg
}
