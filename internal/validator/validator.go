// Package validator checks a tour library for problems that would only show
// up at playback time.
package validator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/tourflow/pkg/domain"
	"github.com/aretw0/tourflow/pkg/ports"
)

// ErrInvalidLibrary is returned when at least one tour in the library has problems.
var ErrInvalidLibrary = errors.New("invalid tour library")

// Issue is one problem found in a tour.
type Issue struct {
	TourID string
	Step   int // -1 for tour-level issues
	Msg    string
}

func (i Issue) String() string {
	if i.Step < 0 {
		return fmt.Sprintf("%s: %s", i.TourID, i.Msg)
	}
	return fmt.Sprintf("%s step %d: %s", i.TourID, i.Step+1, i.Msg)
}

// CheckTour returns the issues of a single tour.
// Inactive tours are checked too; they may be activated later.
func CheckTour(t *domain.Tour) []Issue {
	var issues []Issue
	add := func(step int, format string, args ...any) {
		issues = append(issues, Issue{TourID: t.ID, Step: step, Msg: fmt.Sprintf(format, args...)})
	}

	if t.Len() == 0 {
		add(-1, "tour has no steps")
		return issues
	}

	ids := make(map[string]int)
	for i, s := range t.Steps {
		if strings.TrimSpace(s.Target) == "" {
			add(i, "target is empty")
		}
		if strings.TrimSpace(s.Title) == "" && strings.TrimSpace(s.Content) == "" {
			add(i, "step has neither title nor content")
		}
		if s.Placement != "" && !s.Placement.Valid() {
			add(i, "unknown placement %q", s.Placement)
		}
		if s.ID != "" {
			if prev, ok := ids[s.ID]; ok {
				add(i, "duplicate step id %q (also step %d)", s.ID, prev+1)
			}
			ids[s.ID] = i
		}
	}
	return issues
}

// ValidateLibrary checks every tour of repo.
func ValidateLibrary(ctx context.Context, repo ports.TourRepository) ([]Issue, error) {
	tours, err := repo.List(ctx)
	if err != nil {
		return nil, err
	}

	var issues []Issue
	for _, t := range tours {
		issues = append(issues, CheckTour(t)...)
	}
	if len(issues) > 0 {
		lines := make([]string, len(issues))
		for i, is := range issues {
			lines[i] = is.String()
		}
		return issues, fmt.Errorf("%w: found %d errors:\n- %s", ErrInvalidLibrary, len(issues), strings.Join(lines, "\n- "))
	}
	return nil, nil
}
