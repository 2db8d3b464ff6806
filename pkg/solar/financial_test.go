package solar

import (
	"math"
	"testing"

	"github.com/raterudder/rooftopsolar/pkg/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinancialCompute(t *testing.T) {
	c := catalog.Default()
	f := NewFinancialEngine(c.Financial, c.Limits.MaxPaybackYears)

	t.Run("typical system", func(t *testing.T) {
		m, err := f.Compute(10, 12000, 0.15, 3.0)
		require.NoError(t, err)

		assert.InDelta(t, 30000, m.TotalCost, 1e-9)
		assert.InDelta(t, 9000, m.FederalIncentive, 1e-9)
		assert.InDelta(t, 21000, m.NetCost, 1e-9)
		assert.InDelta(t, 1800, m.AnnualSavings, 1e-9)
		assert.InDelta(t, 150, m.MonthlySavings, 1e-9)
		assert.Equal(t, 3.0, m.CostPerWatt)
		assert.Equal(t, 0.15, m.SavingsPerKWH)

		// 1800 * (1.03^25 - 1) / 0.03
		lifetime := 1800 * (math.Pow(1.03, 25) - 1) / 0.03
		assert.InDelta(t, lifetime, m.LifetimeSavings, 1e-6)
		assert.InDelta(t, (lifetime-21000)/21000*100, m.ROIPercent, 1e-6)

		// cumulative after 10 years is 20635.0, after 11 years 23054.0
		assert.Equal(t, 11.0, m.PaybackYears)
	})

	t.Run("zero rate", func(t *testing.T) {
		m, err := f.Compute(10, 12000, 0, 3.0)
		require.NoError(t, err)
		assert.Equal(t, 50.0, m.PaybackYears)
		assert.Equal(t, 0.0, m.LifetimeSavings)
		assert.LessOrEqual(t, m.ROIPercent, 0.0)
	})

	t.Run("zero cost", func(t *testing.T) {
		m, err := f.Compute(10, 12000, 0.15, 0)
		require.NoError(t, err)
		assert.Equal(t, 0.0, m.NetCost)
		assert.Equal(t, 0.0, m.ROIPercent)
		assert.Equal(t, 0.0, m.PaybackYears)
	})

	t.Run("non-finite input", func(t *testing.T) {
		_, err := f.Compute(10, 12000, math.NaN(), 3.0)
		assert.Error(t, err)
		_, err = f.Compute(10, math.Inf(1), 0.15, 3.0)
		assert.Error(t, err)
	})
}

func TestPaybackYears(t *testing.T) {
	c := catalog.Default()
	f := NewFinancialEngine(c.Financial, c.Limits.MaxPaybackYears)

	assert.Equal(t, 1.0, f.PaybackYears(100, 100))
	assert.Equal(t, 2.0, f.PaybackYears(150, 100))
	assert.Equal(t, 50.0, f.PaybackYears(100, 0))
	assert.Equal(t, 50.0, f.PaybackYears(100, -10))

	t.Run("cap reached", func(t *testing.T) {
		assert.Equal(t, 50.0, f.PaybackYears(1e9, 1))
	})

	t.Run("integer years", func(t *testing.T) {
		for _, cost := range []float64{1234, 5678, 10500, 33333} {
			p := f.PaybackYears(cost, 1000)
			assert.Equal(t, math.Trunc(p), p)
		}
	})
}

func TestLifetimeSavings(t *testing.T) {
	c := catalog.Default()
	f := NewFinancialEngine(c.Financial, c.Limits.MaxPaybackYears)
	assert.InDelta(t, 1000*(math.Pow(1.03, 25)-1)/0.03, f.LifetimeSavings(1000), 1e-6)
	assert.Equal(t, 0.0, f.LifetimeSavings(0))

	c.Financial.AnalysisYears = 1
	f = NewFinancialEngine(c.Financial, c.Limits.MaxPaybackYears)
	assert.Equal(t, 1000.0, f.LifetimeSavings(1000))
}
