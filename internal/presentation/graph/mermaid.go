package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/tourflow/pkg/domain"
)

// Overlay contains playback data to visualize on the graph.
type Overlay struct {
	// Views is how often each step index was shown.
	Views map[int]int
	// Current is the step being shown, or -1.
	Current int
}

// GenerateMermaid produces a Mermaid flowchart of a tour.
// Steps are chained in playback order between a start and a done node,
// each with a dotted skip edge. Step views, when given, label the edges.
func GenerateMermaid(tour *domain.Tour, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	name := tour.Name
	if name == "" {
		name = tour.ID
	}
	sb.WriteString(fmt.Sprintf("    start((\"%s\"))\n", escape(name)))

	prev := "start"
	for i, step := range tour.Steps {
		id := fmt.Sprintf("s%d", i)
		label := fmt.Sprintf("%d. %s", i+1, escape(step.Title))
		if step.Target != "" {
			label += fmt.Sprintf(" <br/> <code>%s</code>", escape(step.Target))
		}
		sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", id, label))

		arrow := "-->"
		if overlay != nil {
			if views, ok := overlay.Views[i]; ok {
				arrow = fmt.Sprintf("-- \"%d views\" -->", views)
			}
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", prev, arrow, id))
		sb.WriteString(fmt.Sprintf("    %s -. skip .-> skipped\n", id))
		prev = id
	}

	sb.WriteString("    skipped((\"Skipped\"))\n")
	sb.WriteString("    done((\"Done\"))\n")
	sb.WriteString(fmt.Sprintf("    %s --> done\n", prev))

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		for i := range tour.Steps {
			if overlay.Views[i] > 0 && i != overlay.Current {
				sb.WriteString(fmt.Sprintf("    class s%d visited;\n", i))
			}
		}
		if overlay.Current >= 0 && overlay.Current < len(tour.Steps) {
			sb.WriteString(fmt.Sprintf("    class s%d current;\n", overlay.Current))
		}
	}

	return sb.String()
}

// escape keeps labels inside Mermaid's double-quoted strings.
func escape(s string) string {
	s = strings.ReplaceAll(s, "\"", "#quot;")
	return strings.ReplaceAll(s, "\n", " ")
}
