package cli

import (
	"fmt"
	"os"

	"github.com/aretw0/tourflow/pkg/adapters/memory"
	"github.com/aretw0/tourflow/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Size is a width and height pair.
type Size struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// PageLayout describes a page for the terminal preview:
// where each target sits in page coordinates and how big the window is.
type PageLayout struct {
	Viewport       Size                   `yaml:"viewport"`
	DocumentHeight float64                `yaml:"document_height"`
	Tooltip        Size                   `yaml:"tooltip"`
	Elements       map[string]domain.Rect `yaml:"elements"`
}

// LoadLayout reads a YAML page layout. An empty path yields an empty page,
// on which every step falls back to the centered tooltip.
func LoadLayout(path string) (PageLayout, error) {
	var l PageLayout
	if path == "" {
		return l, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return l, fmt.Errorf("read layout: %w", err)
	}
	if err := yaml.Unmarshal(data, &l); err != nil {
		return l, fmt.Errorf("parse layout %s: %w", path, err)
	}
	return l, nil
}

// Surface builds the scripted surface for the layout.
func (l PageLayout) Surface() *memory.Surface {
	var opts []memory.SurfaceOption
	if l.Viewport.Width > 0 && l.Viewport.Height > 0 {
		opts = append(opts, memory.WithViewport(l.Viewport.Width, l.Viewport.Height))
	}
	if l.DocumentHeight > 0 {
		opts = append(opts, memory.WithDocumentHeight(l.DocumentHeight))
	}
	if l.Tooltip.Width > 0 && l.Tooltip.Height > 0 {
		opts = append(opts, memory.WithTooltipSize(l.Tooltip.Width, l.Tooltip.Height))
	}
	for selector, rect := range l.Elements {
		opts = append(opts, memory.WithElement(selector, rect))
	}
	return memory.NewSurface(opts...)
}
