package solar

import (
	"math"
	"testing"

	"github.com/raterudder/rooftopsolar/pkg/catalog"
	"github.com/raterudder/rooftopsolar/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSizerSize(t *testing.T) {
	c := catalog.Default()
	s := NewSizer(c.Limits)
	mono := c.Panels[types.PanelTypeMonocrystalline]

	tests := []struct {
		name   string
		area   float64
		kw     float64
		panels int
	}{
		// 45 panels fit, 33 after spacing
		{"typical roof", 90, 13.2, 33},
		{"small roof", 10, 1.2, 3},
		// 3 panels fit, 2 after spacing, 0.8 kW
		{"tiny roof floors to minimum", 7, 1.0, 2},
		{"empty roof floors to minimum", 0, 1.0, 2},
		{"negative area floors to minimum", -5, 1.0, 2},
		{"large roof capped", 1000, 50.0, 125},
		{"odd area", 41, 6.0, 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kw, panels, err := s.Size(tt.area, mono)
			require.NoError(t, err)
			assert.InDelta(t, tt.kw, kw, 1e-9)
			assert.Equal(t, tt.panels, panels)
		})
	}

	t.Run("panel count follows size", func(t *testing.T) {
		poly := c.Panels[types.PanelTypePolycrystalline]
		// 124 panels fit, 93 after spacing
		kw, panels, err := s.Size(248, poly)
		require.NoError(t, err)
		assert.InDelta(t, 32.55, kw, 1e-9)
		assert.Equal(t, PanelCount(kw, poly), panels)
		assert.Equal(t, 92, panels)
	})

	t.Run("invalid panel spec", func(t *testing.T) {
		_, _, err := s.Size(90, types.PanelSpec{})
		assert.Error(t, err)
	})

	t.Run("non-finite area", func(t *testing.T) {
		_, _, err := s.Size(math.NaN(), mono)
		assert.Error(t, err)
		_, _, err = s.Size(math.Inf(1), mono)
		assert.Error(t, err)
	})
}

func TestSizerInvariants(t *testing.T) {
	c := catalog.Default()
	s := NewSizer(c.Limits)

	for _, info := range c.List() {
		prevKW := 0.0
		for area := 0.0; area <= 600; area += 0.5 {
			kw, panels, err := s.Size(area, info.PanelSpec)
			require.NoError(t, err)

			assert.GreaterOrEqual(t, kw, 1.0)
			assert.LessOrEqual(t, kw, 50.0)
			assert.Equal(t, int(math.Floor(kw*1000/float64(info.PowerWatts))), panels)
			assert.GreaterOrEqual(t, kw, prevKW, "size decreased at area %v for %s", area, info.Type)
			prevKW = kw
		}
	}
}
