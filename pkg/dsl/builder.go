package dsl

import (
	"context"
	"fmt"

	"github.com/aretw0/tourflow/pkg/adapters/memory"
	"github.com/aretw0/tourflow/pkg/domain"
)

// Builder manages the tour construction.
type Builder struct {
	tour  domain.Tour
	steps []*StepBuilder
}

// New creates a builder for an active tour.
func New(id string) *Builder {
	return &Builder{tour: domain.Tour{ID: id, Active: true}}
}

// Name sets the display name.
func (b *Builder) Name(name string) *Builder {
	b.tour.Name = name
	return b
}

// Inactive marks the tour as hidden from playback.
func (b *Builder) Inactive() *Builder {
	b.tour.Active = false
	return b
}

// Step appends a step pointing at target.
func (b *Builder) Step(target string) *StepBuilder {
	sb := &StepBuilder{step: domain.Step{Target: target}, builder: b}
	b.steps = append(b.steps, sb)
	return sb
}

// Build returns the tour, validated the same way a session validates it.
func (b *Builder) Build() (*domain.Tour, error) {
	t := b.tour
	t.Steps = make([]domain.Step, len(b.steps))
	for i, sb := range b.steps {
		t.Steps[i] = sb.step
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("tour %q: %w", t.ID, err)
	}
	return &t, nil
}

// MustBuild is like Build but panics on error.
func (b *Builder) MustBuild() *domain.Tour {
	t, err := b.Build()
	if err != nil {
		panic(err)
	}
	return t
}

// Repository builds the given tours into an in-memory repository.
func Repository(builders ...*Builder) (*memory.Repository, error) {
	repo := memory.NewRepository()
	for _, b := range builders {
		t, err := b.Build()
		if err != nil {
			return nil, err
		}
		if err := repo.Save(context.Background(), t); err != nil {
			return nil, err
		}
	}
	return repo, nil
}

// StepBuilder provides a fluent API for configuring a step.
type StepBuilder struct {
	step    domain.Step
	builder *Builder
}

// ID sets the step id.
func (s *StepBuilder) ID(id string) *StepBuilder {
	s.step.ID = id
	return s
}

// Title sets the heading shown in the tooltip.
func (s *StepBuilder) Title(title string) *StepBuilder {
	s.step.Title = title
	return s
}

// Content sets the tooltip body.
func (s *StepBuilder) Content(content string) *StepBuilder {
	s.step.Content = content
	return s
}

// Place sets the placement hint.
func (s *StepBuilder) Place(p domain.Placement) *StepBuilder {
	s.step.Placement = p
	return s
}

func (s *StepBuilder) Top() *StepBuilder    { return s.Place(domain.PlacementTop) }
func (s *StepBuilder) Bottom() *StepBuilder { return s.Place(domain.PlacementBottom) }
func (s *StepBuilder) Left() *StepBuilder   { return s.Place(domain.PlacementLeft) }
func (s *StepBuilder) Right() *StepBuilder  { return s.Place(domain.PlacementRight) }

// Step ends this step and appends the next one.
func (s *StepBuilder) Step(target string) *StepBuilder {
	return s.builder.Step(target)
}

// Build builds the whole tour.
func (s *StepBuilder) Build() (*domain.Tour, error) {
	return s.builder.Build()
}

// MustBuild builds the whole tour and panics on error.
func (s *StepBuilder) MustBuild() *domain.Tour {
	return s.builder.MustBuild()
}
