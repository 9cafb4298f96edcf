package palette

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "options-dashboard/internal/errors"
)

func TestLookupDiscrete(t *testing.T) {
	tests := []struct {
		name string
		want []string
	}{
		{"Plotly", []string{"#636EFA", "#EF553B"}},
		{"pastel", []string{"#FFB6C1", "#87CEFA"}},
		{"DARK2", []string{"#1B9E77", "#D95F02"}},
		{"", []string{"#636EFA", "#EF553B"}},
	}
	for _, tt := range tests {
		d, err := LookupDiscrete(tt.name)
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.want, d.Colors(), tt.name)
	}

	_, err := LookupDiscrete("Neon")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestLookupScale(t *testing.T) {
	for _, name := range []string{"Hot", "reds", "VIRIDIS"} {
		s, err := LookupScale(name)
		require.NoError(t, err, name)
		assert.GreaterOrEqual(t, len(s.Stops), 2)
	}
	_, err := LookupScale("Jet")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestListingOrder(t *testing.T) {
	var names []string
	for _, d := range AllDiscrete() {
		names = append(names, d.Name)
	}
	assert.Equal(t, DiscreteNames(), names)

	names = nil
	for _, s := range AllScales() {
		names = append(names, s.Name)
	}
	assert.Equal(t, ScaleNames(), names)
}

func TestScaleAt(t *testing.T) {
	hot, err := LookupScale("Hot")
	require.NoError(t, err)

	assert.Equal(t, "#000000", hot.At(0))
	assert.Equal(t, "#000000", hot.At(-3))
	assert.Equal(t, "#000000", hot.At(math.NaN()))
	assert.Equal(t, "#FFFFFF", hot.At(1))
	assert.Equal(t, "#E60000", hot.At(1.0/3))
	assert.Equal(t, "#730000", hot.At(1.0/6))
}
