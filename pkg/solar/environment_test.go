package solar

import (
	"testing"

	"github.com/raterudder/rooftopsolar/pkg/catalog"
	"github.com/stretchr/testify/assert"
)

func TestEnvironmentEstimate(t *testing.T) {
	c := catalog.Default()
	e := NewEnvironmentEstimator(c.Environment)

	m := e.Estimate(6000)
	assert.InDelta(t, 5100, m.AnnualCO2OffsetLbs, 1e-9)
	assert.InDelta(t, 2.55, m.AnnualCO2OffsetTons, 1e-9)
	assert.InDelta(t, 63.75, m.LifetimeCO2OffsetTons, 1e-9)
	assert.InDelta(t, 106.25, m.EquivalentTreesPlanted, 1e-9)
	assert.InDelta(t, 0.554348, m.EquivalentCarsRemoved, 1e-6)

	t.Run("horizon independent of financial years", func(t *testing.T) {
		c := catalog.Default()
		c.Financial.AnalysisYears = 10
		m := NewEnvironmentEstimator(c.Environment).Estimate(6000)
		assert.InDelta(t, 63.75, m.LifetimeCO2OffsetTons, 1e-9)
	})

	t.Run("zero production", func(t *testing.T) {
		m := e.Estimate(0)
		assert.Zero(t, m.AnnualCO2OffsetLbs)
		assert.Zero(t, m.EquivalentCarsRemoved)
	})
}
