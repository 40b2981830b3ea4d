package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePlacement(t *testing.T) {
	tests := []struct {
		in      string
		want    Placement
		wantErr bool
	}{
		{"", "", false},
		{"top", PlacementTop, false},
		{"auto", PlacementAuto, false},
		{"middle", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePlacement(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTour)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTour_Validate(t *testing.T) {
	var nilTour *Tour
	assert.ErrorIs(t, nilTour.Validate(), ErrEmptyTour)
	assert.ErrorIs(t, (&Tour{ID: "t"}).Validate(), ErrEmptyTour)

	bad := &Tour{ID: "t", Steps: []Step{{Target: "#a", Placement: "diagonal"}}}
	assert.ErrorIs(t, bad.Validate(), ErrInvalidTour)

	ok := &Tour{ID: "t", Steps: []Step{{Target: "#a"}, {Target: "#b", Placement: PlacementLeft}}}
	assert.NoError(t, ok.Validate())
}

func TestTour_CloneIsIndependent(t *testing.T) {
	orig := &Tour{ID: "t", Steps: []Step{{Title: "one"}}}
	c := orig.Clone()
	c.Steps[0].Title = "changed"

	assert.Equal(t, "one", orig.Steps[0].Title)
	assert.Equal(t, 1, c.Len())
}

func TestRectEdges(t *testing.T) {
	r := Rect{Top: 10, Left: 20, Width: 30, Height: 40}
	assert.Equal(t, 50.0, r.Bottom())
	assert.Equal(t, 50.0, r.Right())
}
