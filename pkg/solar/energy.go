package solar

import (
	"fmt"
	"math"

	"github.com/raterudder/rooftopsolar/pkg/types"
)

const hoursPerYear = 8760

var orientationFactors = map[types.Orientation]float64{
	types.OrientationSouth:     1.00,
	types.OrientationSoutheast: 0.95,
	types.OrientationSouthwest: 0.95,
	types.OrientationEast:      0.85,
	types.OrientationWest:      0.85,
	types.OrientationNortheast: 0.75,
	types.OrientationNorthwest: 0.75,
	types.OrientationNorth:     0.60,
}

// unknownOrientationFactor matches east/west.
const unknownOrientationFactor = 0.85

// OrientationFactor returns the production multiplier for a roof facing o.
// o is matched case-insensitively.
func OrientationFactor(o types.Orientation) float64 {
	if f, ok := orientationFactors[types.ParseOrientation(string(o))]; ok {
		return f
	}
	return unknownOrientationFactor
}

// TiltFactor returns the production multiplier for a roof slope in degrees.
// The upper bound of each band is inclusive.
func TiltFactor(slope float64) float64 {
	switch {
	case slope < 10:
		return 0.90
	case slope <= 15:
		return 0.95
	case slope <= 25:
		return 1.00
	case slope <= 35:
		return 0.98
	case slope <= 45:
		return 0.95
	default:
		return 0.85
	}
}

// EnergyEstimator estimates annual production from irradiance and roof
// geometry.
type EnergyEstimator struct {
	losses                 types.SystemLossChain
	defaultDailyIrradiance float64
}

// NewEnergyEstimator returns an estimator using the loss chain and the
// irradiance to assume when none is given.
func NewEnergyEstimator(losses types.SystemLossChain, defaultDailyIrradiance float64) EnergyEstimator {
	return EnergyEstimator{
		losses:                 losses,
		defaultDailyIrradiance: defaultDailyIrradiance,
	}
}

// DailyIrradiance returns the kWh/m²/day baseline for the series: the annual
// value over 365 days, else the mean of the monthly values, else the default.
func (e EnergyEstimator) DailyIrradiance(series types.SolarDataSeries) float64 {
	if series.AnnualIrradiance != nil {
		return *series.AnnualIrradiance / 365
	}
	if len(series.MonthlyIrradiance) > 0 {
		var sum float64
		for _, v := range series.MonthlyIrradiance {
			sum += v
		}
		return sum / float64(len(series.MonthlyIrradiance))
	}
	return e.defaultDailyIrradiance
}

// AnnualEnergy returns the estimated kWh produced in a year, never negative.
func (e EnergyEstimator) AnnualEnergy(kw float64, series types.SolarDataSeries, roof types.RoofMetrics) (float64, error) {
	daily := e.DailyIrradiance(series)
	if math.IsNaN(daily) || math.IsInf(daily, 0) {
		return 0, fmt.Errorf("irradiance is not finite: %v", daily)
	}

	annual := kw *
		daily *
		OrientationFactor(roof.Orientation) *
		TiltFactor(roof.Slope) *
		(1 - roof.ShadingFactor) *
		e.losses.PerformanceRatio() *
		365
	if math.IsNaN(annual) {
		return 0, fmt.Errorf("annual energy is not a number")
	}
	return math.Max(0, annual), nil
}

// CapacityFactor is the fraction of the nameplate maximum actually produced,
// clamped to [0,1].
func CapacityFactor(annualKWH, kw float64) float64 {
	if kw == 0 {
		return 0
	}
	cf := annualKWH / (kw * hoursPerYear)
	return math.Min(1, math.Max(0, cf))
}
