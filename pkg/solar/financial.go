package solar

import (
	"fmt"
	"math"

	"github.com/raterudder/rooftopsolar/pkg/types"
)

// FinancialEngine computes cost, savings, payback and ROI of a system.
type FinancialEngine struct {
	params          types.FinancialParameters
	maxPaybackYears int
}

// NewFinancialEngine returns an engine for the given parameters. Payback is
// searched for at most maxPaybackYears.
func NewFinancialEngine(params types.FinancialParameters, maxPaybackYears int) FinancialEngine {
	return FinancialEngine{
		params:          params,
		maxPaybackYears: maxPaybackYears,
	}
}

// Compute returns the financial metrics for a kw system producing annualKWH
// a year at the given electricity rate ($/kWh) and install cost ($/W).
func (f FinancialEngine) Compute(kw, annualKWH, electricityRate, costPerWatt float64) (types.FinancialMetrics, error) {
	for _, v := range []float64{kw, annualKWH, electricityRate, costPerWatt} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return types.FinancialMetrics{}, fmt.Errorf("financial input is not finite: %v", v)
		}
	}

	totalCost := kw * 1000 * costPerWatt
	incentive := totalCost * f.params.FederalTaxCredit
	netCost := totalCost - incentive
	annualSavings := annualKWH * electricityRate
	lifetime := f.LifetimeSavings(annualSavings)

	var roi float64
	if netCost > 0 {
		roi = (lifetime - netCost) / netCost * 100
	}

	return types.FinancialMetrics{
		TotalCost:        totalCost,
		FederalIncentive: incentive,
		NetCost:          netCost,
		AnnualSavings:    annualSavings,
		MonthlySavings:   annualSavings / 12,
		PaybackYears:     f.PaybackYears(netCost, annualSavings),
		LifetimeSavings:  lifetime,
		ROIPercent:       roi,
		CostPerWatt:      costPerWatt,
		SavingsPerKWH:    electricityRate,
	}, nil
}

// PaybackYears returns the first whole year in which cumulative escalating
// savings reach netCost. It returns the max payback years when savings are not
// positive or the cost isn't recovered in time.
func (f FinancialEngine) PaybackYears(netCost, annualSavings float64) float64 {
	if annualSavings <= 0 {
		return float64(f.maxPaybackYears)
	}

	var cumulative float64
	var year int
	savings := annualSavings
	for cumulative < netCost && year < f.maxPaybackYears {
		year++
		cumulative += savings
		savings *= 1 + f.params.ElectricityRateEscalation
	}
	return float64(year)
}

// LifetimeSavings sums escalating savings over the analysis horizon.
func (f FinancialEngine) LifetimeSavings(annualSavings float64) float64 {
	var total float64
	savings := annualSavings
	for range f.params.AnalysisYears {
		total += savings
		savings *= 1 + f.params.ElectricityRateEscalation
	}
	return total
}
