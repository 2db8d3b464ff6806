package solar

import "github.com/raterudder/rooftopsolar/pkg/types"

// Fallback returns the conservative canned estimate used when a calculation
// fails: a 5 kW monocrystalline system at $3/W and $0.20/kWh. The values are
// fixed and are not derived from each other, e.g. 16 panels is not 5 kW of
// 400 W panels.
func Fallback(losses types.SystemLossChain) types.SolarPotentialResult {
	return types.SolarPotentialResult{
		SystemSizeKW:     5.0,
		PanelCount:       16,
		AnnualEnergyKWH:  6000,
		MonthlyEnergyKWH: 500,
		DailyEnergyKWH:   16.4,
		CapacityFactor:   0.14,
		FinancialMetrics: types.FinancialMetrics{
			TotalCost:        15000,
			FederalIncentive: 4500,
			NetCost:          10500,
			AnnualSavings:    1200,
			MonthlySavings:   100,
			PaybackYears:     8.8,
			LifetimeSavings:  30000,
			ROIPercent:       185.7,
			CostPerWatt:      3.0,
			SavingsPerKWH:    0.20,
		},
		EnvironmentalMetrics: types.EnvironmentalMetrics{
			AnnualCO2OffsetLbs:     5100,
			AnnualCO2OffsetTons:    2.55,
			LifetimeCO2OffsetTons:  63.75,
			EquivalentTreesPlanted: 106,
			EquivalentCarsRemoved:  0.55,
		},
		SystemSpecifications: types.SystemSpecifications{
			PanelType:       types.PanelTypeMonocrystalline,
			PanelPower:      400,
			PanelEfficiency: 0.20,
			SystemLosses:    losses,
		},
		Fallback: true,
	}
}
