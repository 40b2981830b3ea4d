package tui

import (
	"strings"
	"testing"

	"github.com/aretw0/tourflow/pkg/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestCard(t *testing.T) {
	view := domain.TooltipView{
		Counter:      "1 of 3",
		Title:        "Welcome",
		Body:         "This is the **header**.",
		BackDisabled: true,
		NextLabel:    "Next",
		Dots:         []bool{true, false, false},
	}

	out := Card(view, 40, nil)
	assert.Contains(t, out, "1 of 3")
	assert.Contains(t, out, "Welcome")
	assert.Contains(t, out, "This is the **header**.")
	assert.Contains(t, out, "Next >")
	assert.Contains(t, out, "● ○ ○")
	assert.Contains(t, out, "╭")
}

func TestDots(t *testing.T) {
	assert.Equal(t, "○ ● ○", Dots([]bool{false, true, false}))
	assert.Empty(t, Dots(nil))
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "tooltip centered (target not found)", Describe(domain.Frame{Position: domain.Centered()}))

	got := Describe(domain.Frame{
		Position:  domain.Position{Top: 170, Left: 40, Placement: domain.PlacementBottom},
		Highlight: &domain.Rect{Top: 90, Left: 30, Width: 220, Height: 70},
	})
	assert.Equal(t, "tooltip bottom at top=170 left=40 · spotlight 220x70 at top=90 left=30", got)
}

func TestMinimap(t *testing.T) {
	vp := domain.Viewport{Width: 100, Height: 100}
	frame := domain.Frame{
		Position:  domain.Position{Top: 60, Left: 0},
		Highlight: &domain.Rect{Top: 0, Left: 0, Width: 50, Height: 20},
	}

	out := Minimap(vp, frame, domain.Rect{Width: 100, Height: 20}, 10, 10)
	lines := strings.Split(out, "\n")
	// Border adds one line above and below.
	assert.Len(t, lines, 12)
	assert.Equal(t, "│######····│", lines[1])
	assert.Equal(t, "│▒▒▒▒▒▒▒▒▒▒│", lines[7])
	assert.Equal(t, "│··········│", lines[10])
}

func TestMinimap_EmptyViewport(t *testing.T) {
	assert.Empty(t, Minimap(domain.Viewport{}, domain.Frame{}, domain.Rect{}, 10, 10))
}
