package schema

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/tourflow/pkg/domain"
	"github.com/goccy/go-json"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

// Format is the serialization of a tour document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported tour file %q (want .json, .yaml or .yml)", path)
}

// ParseFile reads, validates and decodes a tour file.
// A tour without an id takes the file name without extension.
func ParseFile(path string) (*domain.Tour, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tour: %w", err)
	}
	tour, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if tour.ID == "" {
		tour.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return tour, nil
}

// Parse validates and decodes a tour document.
func Parse(data []byte, format Format) (*domain.Tour, error) {
	doc, err := toJSONValue(data, format)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidTour, err)
	}
	if err := Validate(doc); err != nil {
		return nil, err
	}

	tour := &domain.Tour{}
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, tour)
	default:
		err = json.Unmarshal(data, tour)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidTour, err)
	}
	if err := tour.Validate(); err != nil {
		return nil, err
	}
	return tour, nil
}

// toJSONValue normalizes either format into the value model the validator expects.
func toJSONValue(data []byte, format Format) (any, error) {
	raw := data
	if format == FormatYAML {
		var v any
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		raw = b
	}
	return jsonschema.UnmarshalJSON(bytes.NewReader(raw))
}
