package solar

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/raterudder/rooftopsolar/pkg/catalog"
	"github.com/raterudder/rooftopsolar/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioA() Request {
	return Request{
		Roof: types.RoofMetrics{
			TotalArea:     120,
			UsableArea:    90,
			Orientation:   types.OrientationSouth,
			Slope:         25,
			ShadingFactor: 0.15,
		},
		Solar:              types.SolarDataSeries{MonthlyIrradiance: flatMonths(4.5)},
		PanelType:          types.PanelTypeMonocrystalline,
		ElectricityRate:    0.20,
		InstallCostPerWatt: 3.0,
	}
}

func TestCalculate(t *testing.T) {
	ctx := context.Background()
	calc := NewCalculator(catalog.Default())

	t.Run("scenario A", func(t *testing.T) {
		res, err := calc.Calculate(ctx, scenarioA())
		require.NoError(t, err)

		assert.False(t, res.Fallback)
		assert.Equal(t, 33, res.PanelCount)
		assert.InDelta(t, 13.2, res.SystemSizeKW, 1e-9)

		expected := 13.2 * 4.5 * 0.85 * 0.8848224 * 365
		assert.InEpsilon(t, expected, res.AnnualEnergyKWH, 0.01)
		assert.InDelta(t, res.AnnualEnergyKWH/12, res.MonthlyEnergyKWH, 1e-9)
		assert.InDelta(t, res.AnnualEnergyKWH/365, res.DailyEnergyKWH, 1e-9)
		assert.InDelta(t, res.AnnualEnergyKWH/(13.2*8760), res.CapacityFactor, 1e-9)

		assert.InDelta(t, 39600, res.TotalCost, 1e-6)
		assert.InDelta(t, 11880, res.FederalIncentive, 1e-6)
		assert.InDelta(t, 27720, res.NetCost, 1e-6)
		assert.InDelta(t, res.AnnualEnergyKWH*0.20, res.AnnualSavings, 1e-9)
		assert.Greater(t, res.ROIPercent, 0.0)
		assert.Less(t, res.PaybackYears, 50.0)

		assert.InDelta(t, res.AnnualEnergyKWH*0.85, res.AnnualCO2OffsetLbs, 1e-9)

		assert.Equal(t, types.PanelTypeMonocrystalline, res.SystemSpecifications.PanelType)
		assert.Equal(t, 400, res.SystemSpecifications.PanelPower)
		assert.Equal(t, 0.20, res.SystemSpecifications.PanelEfficiency)
		assert.Equal(t, 0.96, res.SystemSpecifications.SystemLosses.InverterEfficiency)
	})

	t.Run("scenario B small roof", func(t *testing.T) {
		req := scenarioA()
		req.Roof.TotalArea = 10
		req.Roof.UsableArea = 10
		res, err := calc.Calculate(ctx, req)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, res.SystemSizeKW, 1.0)

		req.Roof.UsableArea = 4
		res, err = calc.Calculate(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, 1.0, res.SystemSizeKW)
		assert.Equal(t, 2, res.PanelCount)
	})

	t.Run("scenario C unknown panel", func(t *testing.T) {
		req := scenarioA()
		req.PanelType = "exotic"
		res, err := calc.Calculate(ctx, req)
		require.NoError(t, err)

		expected, err := calc.Calculate(ctx, scenarioA())
		require.NoError(t, err)
		assert.Equal(t, expected, res)
		assert.Equal(t, types.PanelTypeMonocrystalline, res.SystemSpecifications.PanelType)
	})

	t.Run("orientation is case insensitive", func(t *testing.T) {
		req := scenarioA()
		req.Roof.Orientation = "South"
		res, err := calc.Calculate(ctx, req)
		require.NoError(t, err)

		expected, err := calc.Calculate(ctx, scenarioA())
		require.NoError(t, err)
		assert.Equal(t, expected.AnnualEnergyKWH, res.AnnualEnergyKWH)
	})

	t.Run("panel type is case insensitive", func(t *testing.T) {
		req := scenarioA()
		req.PanelType = " Bifacial "
		res, err := calc.Calculate(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, types.PanelTypeBifacial, res.SystemSpecifications.PanelType)
		assert.Equal(t, 450, res.SystemSpecifications.PanelPower)
	})

	t.Run("zero rate", func(t *testing.T) {
		req := scenarioA()
		req.ElectricityRate = 0
		res, err := calc.Calculate(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, 50.0, res.PaybackYears)
		assert.LessOrEqual(t, res.ROIPercent, 0.0)
	})

	t.Run("zero cost", func(t *testing.T) {
		req := scenarioA()
		req.InstallCostPerWatt = 0
		res, err := calc.Calculate(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, 0.0, res.ROIPercent)
	})

	t.Run("malformed roof", func(t *testing.T) {
		req := scenarioA()
		req.Roof.ShadingFactor = 2
		_, err := calc.Calculate(ctx, req)
		require.Error(t, err)

		var calcErr *CalculationError
		require.True(t, errors.As(err, &calcErr))
		assert.Equal(t, StageRoof, calcErr.Stage)
		assert.ErrorIs(t, err, ErrMalformedRoof)
	})

	t.Run("non-finite rate", func(t *testing.T) {
		req := scenarioA()
		req.ElectricityRate = math.Inf(1)
		_, err := calc.Calculate(ctx, req)
		var calcErr *CalculationError
		require.True(t, errors.As(err, &calcErr))
		assert.Equal(t, StageFinancial, calcErr.Stage)
	})

	t.Run("non-finite irradiance", func(t *testing.T) {
		req := scenarioA()
		req.Solar = types.SolarDataSeries{AnnualIrradiance: types.Float64(math.NaN())}
		_, err := calc.Calculate(ctx, req)
		var calcErr *CalculationError
		require.True(t, errors.As(err, &calcErr))
		assert.Equal(t, StageEnergy, calcErr.Stage)
	})
}

func TestCalculateProperties(t *testing.T) {
	ctx := context.Background()
	calc := NewCalculator(catalog.Default())

	for _, info := range calc.Catalog().List() {
		for _, area := range []float64{0, 5, 10, 33.3, 90, 250, 800, 5000} {
			for _, slope := range []float64{0, 12, 20, 30, 40, 60} {
				req := scenarioA()
				req.PanelType = info.Type
				req.Roof.TotalArea = area
				req.Roof.UsableArea = area
				req.Roof.Slope = slope

				res, err := calc.Calculate(ctx, req)
				require.NoError(t, err)
				assert.GreaterOrEqual(t, res.SystemSizeKW, 1.0)
				assert.LessOrEqual(t, res.SystemSizeKW, 50.0)
				assert.Equal(t, int(math.Floor(res.SystemSizeKW*1000/float64(info.PowerWatts))), res.PanelCount)
				assert.GreaterOrEqual(t, res.CapacityFactor, 0.0)
				assert.LessOrEqual(t, res.CapacityFactor, 1.0)
			}
		}
	}

	t.Run("south dominates", func(t *testing.T) {
		south, err := calc.Calculate(ctx, scenarioA())
		require.NoError(t, err)
		for _, o := range types.Orientations {
			req := scenarioA()
			req.Roof.Orientation = o
			res, err := calc.Calculate(ctx, req)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, south.AnnualEnergyKWH, res.AnnualEnergyKWH)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		a := calc.CalculatePotential(ctx, scenarioA())
		b := calc.CalculatePotential(ctx, scenarioA())
		assert.Equal(t, a, b)
	})

	t.Run("concurrent", func(t *testing.T) {
		expected := calc.CalculatePotential(ctx, scenarioA())
		var wg sync.WaitGroup
		results := make([]types.SolarPotentialResult, 16)
		for i := range results {
			wg.Add(1)
			go func() {
				defer wg.Done()
				results[i] = calc.CalculatePotential(ctx, scenarioA())
			}()
		}
		wg.Wait()
		for _, res := range results {
			assert.Equal(t, expected, res)
		}
	})
}

func TestCalculatePotentialFallback(t *testing.T) {
	ctx := context.Background()
	calc := NewCalculator(catalog.Default())

	t.Run("missing usable area", func(t *testing.T) {
		var req Request
		err := json.Unmarshal([]byte(`{
			"roof_metrics": {"total_area": 120, "orientation": "south", "slope": 25, "shading_factor": 0.15},
			"solar_data": {"monthly_irradiance": [4.5,4.5,4.5,4.5,4.5,4.5,4.5,4.5,4.5,4.5,4.5,4.5]},
			"panel_type": "monocrystalline",
			"electricity_rate": 0.20,
			"installation_cost_per_watt": 3.0
		}`), &req)
		require.NoError(t, err)

		res := calc.CalculatePotential(ctx, req)
		assert.True(t, res.Fallback)
		assert.Equal(t, 5.0, res.SystemSizeKW)
		assert.Equal(t, 16, res.PanelCount)
		assert.Equal(t, Fallback(calc.Catalog().Losses), res)
	})

	t.Run("non-finite input", func(t *testing.T) {
		req := scenarioA()
		req.InstallCostPerWatt = math.NaN()
		res := calc.CalculatePotential(ctx, req)
		assert.True(t, res.Fallback)
		assert.Equal(t, 6000.0, res.AnnualEnergyKWH)
	})

	t.Run("panic is recovered", func(t *testing.T) {
		broken := &Calculator{}
		res := broken.CalculatePotential(ctx, scenarioA())
		assert.True(t, res.Fallback)
		assert.Equal(t, 8.8, res.PaybackYears)
	})

	t.Run("success is not fallback", func(t *testing.T) {
		res := calc.CalculatePotential(ctx, scenarioA())
		assert.False(t, res.Fallback)
		assert.Equal(t, 33, res.PanelCount)
	})
}

func TestFallback(t *testing.T) {
	res := Fallback(catalog.Default().Losses)
	assert.True(t, res.Fallback)
	assert.Equal(t, 5.0, res.SystemSizeKW)
	assert.Equal(t, 16, res.PanelCount)
	assert.Equal(t, 6000.0, res.AnnualEnergyKWH)
	assert.Equal(t, 500.0, res.MonthlyEnergyKWH)
	assert.Equal(t, 16.4, res.DailyEnergyKWH)
	assert.Equal(t, 0.14, res.CapacityFactor)
	assert.Equal(t, 15000.0, res.TotalCost)
	assert.Equal(t, 4500.0, res.FederalIncentive)
	assert.Equal(t, 10500.0, res.NetCost)
	assert.Equal(t, 1200.0, res.AnnualSavings)
	assert.Equal(t, 100.0, res.MonthlySavings)
	assert.Equal(t, 8.8, res.PaybackYears)
	assert.Equal(t, 30000.0, res.LifetimeSavings)
	assert.Equal(t, 185.7, res.ROIPercent)
	assert.Equal(t, 3.0, res.CostPerWatt)
	assert.Equal(t, 0.20, res.SavingsPerKWH)
	assert.Equal(t, 5100.0, res.AnnualCO2OffsetLbs)
	assert.Equal(t, 2.55, res.AnnualCO2OffsetTons)
	assert.Equal(t, 63.75, res.LifetimeCO2OffsetTons)
	assert.Equal(t, 106.0, res.EquivalentTreesPlanted)
	assert.Equal(t, 0.55, res.EquivalentCarsRemoved)
	assert.Equal(t, types.PanelTypeMonocrystalline, res.SystemSpecifications.PanelType)
	assert.Equal(t, 400, res.SystemSpecifications.PanelPower)
	assert.Equal(t, 0.20, res.SystemSpecifications.PanelEfficiency)
}

func TestCalculationError(t *testing.T) {
	inner := errors.New("boom")
	err := &CalculationError{Stage: StageEnergy, Err: inner}
	assert.Equal(t, "solar energy stage failed: boom", err.Error())
	assert.ErrorIs(t, err, inner)
}
