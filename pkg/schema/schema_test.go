package schema_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/tourflow/pkg/domain"
	"github.com/aretw0/tourflow/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const welcomeYAML = `
id: welcome
name: Welcome
active: true
steps:
  - title: Sign up
    content: "**Start** here."
    target: "#signup"
    placement: bottom
  - title: Pricing
    target: ".pricing"
`

func TestParse_YAML(t *testing.T) {
	tour, err := schema.Parse([]byte(welcomeYAML), schema.FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, "welcome", tour.ID)
	assert.True(t, tour.Active)
	require.Len(t, tour.Steps, 2)
	assert.Equal(t, domain.PlacementBottom, tour.Steps[0].Placement)
	assert.Equal(t, domain.Placement(""), tour.Steps[1].Placement)
}

func TestParse_JSON(t *testing.T) {
	doc := `{"id":"t1","name":"T","isActive":true,"steps":[{"title":"A","content":"x","target":"#a","placement":"top"}]}`
	tour, err := schema.Parse([]byte(doc), schema.FormatJSON)
	require.NoError(t, err)
	assert.True(t, tour.Active)
	assert.Equal(t, "#a", tour.Steps[0].Target)
}

func TestParse_SchemaErrorsAreCollected(t *testing.T) {
	doc := `{"steps":[{"title":"A","placement":"diagonal"},{"target":42}]}`
	_, err := schema.Parse([]byte(doc), schema.FormatJSON)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidTour)

	errs := schema.ValidationErrors(err)
	assert.GreaterOrEqual(t, len(errs), 3, "missing target, bad enum and wrong type")

	var keys []string
	for _, e := range errs {
		keys = append(keys, e.(*schema.ValidationError).Key)
	}
	assert.Contains(t, keys, "/steps/0")
	assert.Contains(t, keys, "/steps/0/placement")
	assert.Contains(t, keys, "/steps/1/target")
}

func TestParse_EmptySteps(t *testing.T) {
	_, err := schema.Parse([]byte(`{"id":"e","steps":[]}`), schema.FormatJSON)
	assert.ErrorIs(t, err, domain.ErrEmptyTour)
}

func TestParse_Malformed(t *testing.T) {
	_, err := schema.Parse([]byte("steps: [unterminated"), schema.FormatYAML)
	assert.ErrorIs(t, err, domain.ErrInvalidTour)
}

func TestParseFile_DefaultsIDToFileName(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "onboarding.yml")
	require.NoError(t, os.WriteFile(path, []byte("steps:\n  - target: '#x'\n"), 0644))

	tour, err := schema.ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, "onboarding", tour.ID)

	_, err = schema.ParseFile(filepath.Join(dir, "tour.txt"))
	assert.Error(t, err)
}

func TestRaw(t *testing.T) {
	assert.Contains(t, string(schema.Raw()), `"placement"`)
}
