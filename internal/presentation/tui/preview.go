// Package tui draws tour steps in the terminal: the tooltip card,
// a scaled minimap of the viewport and the banner.
package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/tourflow/pkg/domain"
	"github.com/charmbracelet/lipgloss"
)

var (
	accent = lipgloss.Color("#6366f1")
	muted  = lipgloss.Color("#9ca3af")

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1)
	counterStyle = lipgloss.NewStyle().Foreground(muted)
	titleStyle   = lipgloss.NewStyle().Bold(true)
	primaryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Background(accent).Padding(0, 1)
	buttonStyle  = lipgloss.NewStyle().Padding(0, 1)
	disabled     = lipgloss.NewStyle().Foreground(muted).Padding(0, 1)
	hintStyle    = lipgloss.NewStyle().Foreground(muted).Italic(true)
)

// Card renders the tooltip view as a bordered card of the given inner width.
func Card(view domain.TooltipView, width int, render func(string) (string, error)) string {
	if render == nil {
		render = PlainRenderer
	}
	body, err := render(view.Body)
	if err != nil {
		body = view.Body
	}

	back := buttonStyle.Render("< Back")
	if view.BackDisabled {
		back = disabled.Render("< Back")
	}
	next := primaryStyle.Render(view.NextLabel + " >")
	dots := Dots(view.Dots)

	gap := max(1, width-cardStyle.GetHorizontalPadding()-lipgloss.Width(back)-lipgloss.Width(dots)-lipgloss.Width(next))
	left := gap / 2
	actions := back + strings.Repeat(" ", left) + dots + strings.Repeat(" ", gap-left) + next

	content := lipgloss.JoinVertical(lipgloss.Left,
		counterStyle.Render(view.Counter),
		titleStyle.Render(view.Title),
		body,
		"",
		actions,
	)
	return cardStyle.Width(width).Render(content)
}

// Dots renders the progress indicator: one dot per step, the current one filled.
func Dots(dots []bool) string {
	var sb strings.Builder
	for i, active := range dots {
		if i > 0 {
			sb.WriteByte(' ')
		}
		if active {
			sb.WriteString(lipgloss.NewStyle().Foreground(accent).Render("●"))
		} else {
			sb.WriteString(lipgloss.NewStyle().Foreground(muted).Render("○"))
		}
	}
	return sb.String()
}

// Describe summarizes where the frame puts the tooltip and spotlight.
func Describe(frame domain.Frame) string {
	var sb strings.Builder
	if frame.Position.Centered {
		sb.WriteString("tooltip centered (target not found)")
	} else {
		fmt.Fprintf(&sb, "tooltip %s at top=%.0f left=%.0f", frame.Position.Placement, frame.Position.Top, frame.Position.Left)
	}
	if frame.Highlight != nil {
		h := frame.Highlight
		fmt.Fprintf(&sb, " · spotlight %.0fx%.0f at top=%.0f left=%.0f", h.Width, h.Height, h.Top, h.Left)
	}
	return hintStyle.Render(sb.String())
}

// Minimap draws the viewport scaled into cols x rows cells.
// The spotlight is drawn with '#' and the tooltip with '▒'; both are in page coordinates.
func Minimap(vp domain.Viewport, frame domain.Frame, tooltip domain.Rect, cols, rows int) string {
	if cols <= 0 || rows <= 0 || vp.Width <= 0 || vp.Height <= 0 {
		return ""
	}
	grid := make([][]rune, rows)
	for r := range grid {
		grid[r] = []rune(strings.Repeat("·", cols))
	}

	sx := float64(cols) / vp.Width
	sy := float64(rows) / vp.Height
	fill := func(rect domain.Rect, ch rune) {
		top := int((rect.Top - vp.ScrollY) * sy)
		left := int((rect.Left - vp.ScrollX) * sx)
		bottom := int((rect.Bottom() - vp.ScrollY) * sy)
		right := int((rect.Right() - vp.ScrollX) * sx)
		for r := max(top, 0); r <= min(bottom, rows-1); r++ {
			for c := max(left, 0); c <= min(right, cols-1); c++ {
				grid[r][c] = ch
			}
		}
	}

	if frame.Highlight != nil {
		fill(*frame.Highlight, '#')
	}

	tip := domain.Rect{Width: tooltip.Width, Height: tooltip.Height}
	if frame.Position.Centered {
		tip.Top = vp.ScrollY + (vp.Height-tooltip.Height)/2
		tip.Left = vp.ScrollX + (vp.Width-tooltip.Width)/2
	} else {
		tip.Top = frame.Position.Top
		tip.Left = frame.Position.Left
	}
	fill(tip, '▒')

	lines := make([]string, rows)
	for r := range grid {
		lines[r] = string(grid[r])
	}
	return lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(muted).Render(strings.Join(lines, "\n"))
}
