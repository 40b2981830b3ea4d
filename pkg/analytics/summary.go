package analytics

import (
	"fmt"
	"math"
	"sort"

	"github.com/aretw0/tourflow/pkg/domain"
)

// StepViews is how many times one step was shown.
type StepViews struct {
	Index int    `json:"index"`
	Label string `json:"step"`
	Views int    `json:"views"`
}

// Summary is the analytics view of one tour.
type Summary struct {
	TourID    string `json:"tourId"`
	Views     int    `json:"views"`
	Completes int    `json:"completes"`
	Skips     int    `json:"skips"`

	// CompletionRate is completes over views, in percent with one decimal.
	CompletionRate float64     `json:"completionRate"`
	Steps          []StepViews `json:"steps"`
}

// Summarize aggregates the events of tourID. Events of other tours are ignored.
// A step view without an index counts for the first step.
func Summarize(tourID string, events []domain.RecordedEvent) Summary {
	s := Summary{TourID: tourID, Steps: []StepViews{}}
	perStep := make(map[int]int)

	for _, e := range events {
		if e.TourID != tourID {
			continue
		}
		switch e.Kind {
		case domain.EventView:
			s.Views++
		case domain.EventComplete:
			s.Completes++
		case domain.EventSkip:
			s.Skips++
		case domain.EventStepView:
			idx := 0
			if e.StepIndex != nil {
				idx = *e.StepIndex
			}
			perStep[idx]++
		}
	}

	if s.Views > 0 {
		rate := float64(s.Completes) / float64(s.Views) * 100
		s.CompletionRate = math.Round(rate*10) / 10
	}

	for idx, n := range perStep {
		s.Steps = append(s.Steps, StepViews{Index: idx, Label: fmt.Sprintf("Step %d", idx+1), Views: n})
	}
	sort.Slice(s.Steps, func(i, j int) bool { return s.Steps[i].Index < s.Steps[j].Index })
	return s
}

// DropOff returns, for each step after the first, the share of viewers lost
// since the previous step, in percent with one decimal.
func (s Summary) DropOff() []float64 {
	if len(s.Steps) < 2 {
		return nil
	}
	out := make([]float64, 0, len(s.Steps)-1)
	for i := 1; i < len(s.Steps); i++ {
		prev := s.Steps[i-1].Views
		if prev == 0 {
			out = append(out, 0)
			continue
		}
		lost := float64(prev-s.Steps[i].Views) / float64(prev) * 100
		out = append(out, math.Round(lost*10)/10)
	}
	return out
}
