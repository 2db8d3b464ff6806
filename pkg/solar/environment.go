package solar

import "github.com/raterudder/rooftopsolar/pkg/types"

const lbsPerTon = 2000

// EnvironmentEstimator converts production into emissions offsets.
type EnvironmentEstimator struct {
	factors types.EnvironmentalFactors
}

// NewEnvironmentEstimator returns an estimator using factors.
func NewEnvironmentEstimator(factors types.EnvironmentalFactors) EnvironmentEstimator {
	return EnvironmentEstimator{factors: factors}
}

// Estimate returns the offsets of producing annualKWH a year. The lifetime
// horizon is its own setting and does not follow the financial analysis
// years.
func (e EnvironmentEstimator) Estimate(annualKWH float64) types.EnvironmentalMetrics {
	lbs := annualKWH * e.factors.CO2LbsPerKWH
	tons := lbs / lbsPerTon
	return types.EnvironmentalMetrics{
		AnnualCO2OffsetLbs:     lbs,
		AnnualCO2OffsetTons:    tons,
		LifetimeCO2OffsetTons:  tons * float64(e.factors.LifetimeHorizonYears),
		EquivalentTreesPlanted: lbs / e.factors.TreeLbsPerYear,
		EquivalentCarsRemoved:  tons / e.factors.CarTonsPerYear,
	}
}
