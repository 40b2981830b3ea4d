package loam

import "github.com/aretw0/tourflow/pkg/domain"

// TourMetadata is the front matter (or whole document for JSON/YAML files) of a tour file.
type TourMetadata struct {
	ID     string         `json:"id" mapstructure:"id"`
	Name   string         `json:"name" mapstructure:"name"`
	Active *bool          `json:"active,omitempty" mapstructure:"active"`
	Steps  []StepMetadata `json:"steps" mapstructure:"steps"`
}

// StepMetadata is one step entry of a tour file.
type StepMetadata struct {
	ID        string `json:"id" mapstructure:"id"`
	Title     string `json:"title" mapstructure:"title"`
	Content   string `json:"content" mapstructure:"content"`
	Target    string `json:"target" mapstructure:"target"`
	Placement string `json:"placement" mapstructure:"placement"`
}

// toTour converts file metadata into a domain tour. Files are active unless they say otherwise.
func (m TourMetadata) toTour(id string) *domain.Tour {
	tour := &domain.Tour{
		ID:     id,
		Name:   m.Name,
		Active: m.Active == nil || *m.Active,
		Steps:  make([]domain.Step, 0, len(m.Steps)),
	}
	for _, s := range m.Steps {
		tour.Steps = append(tour.Steps, domain.Step{
			ID:        s.ID,
			Title:     s.Title,
			Content:   s.Content,
			Target:    s.Target,
			Placement: domain.Placement(s.Placement),
		})
	}
	return tour
}
