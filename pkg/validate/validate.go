// Package validate checks caller supplied values before a calculation and
// sanity checks results afterwards.
package validate

import (
	"errors"
	"fmt"
	"math"

	"github.com/raterudder/rooftopsolar/pkg/types"
)

// ErrOutOfRange is returned when a value is outside its allowed range.
var ErrOutOfRange = errors.New("value out of range")

// Range is an inclusive range of allowed values.
type Range struct {
	Min, Max float64
}

var (
	latitudeRange        = Range{-90, 90}
	longitudeRange       = Range{-180, 180}
	electricityRateRange = Range{0.01, 1.0} // $/kWh
	installCostRange     = Range{1.0, 10.0} // $/W
	roofAreaRange        = Range{10, 10000} // m²
	systemSizeRange      = Range{1, 100}    // kW
	specificYieldRange   = Range{500, 3000} // kWh/kW/yr
	costPerWattRange     = Range{0.5, 15}   // $/W
	paybackYearsRange    = Range{1, 50}     // years
)

// Ranges returns a copy of the allowed ranges keyed by the field name used in
// error messages. Input fields are checked against these directly; the
// specific_yield, cost_per_watt and payback_years ranges only produce
// warnings from CalculationResult.
func Ranges() map[string]Range {
	return map[string]Range{
		"latitude":                   latitudeRange,
		"longitude":                  longitudeRange,
		"electricity_rate":           electricityRateRange,
		"installation_cost_per_watt": installCostRange,
		"roof_area":                  roofAreaRange,
		"system_size_kw":             systemSizeRange,
		"specific_yield":             specificYieldRange,
		"cost_per_watt":              costPerWattRange,
		"payback_years":              paybackYearsRange,
	}
}

func (r Range) check(name string, v float64) error {
	if math.IsNaN(v) || v < r.Min || v > r.Max {
		return fmt.Errorf("%w: %s must be between %g and %g, got %g", ErrOutOfRange, name, r.Min, r.Max, v)
	}
	return nil
}

// Coordinates checks the latitude and longitude.
func Coordinates(latitude, longitude float64) error {
	if err := latitudeRange.check("latitude", latitude); err != nil {
		return err
	}
	return longitudeRange.check("longitude", longitude)
}

// Rate checks an electricity rate in $/kWh.
func Rate(rate float64) error {
	return electricityRateRange.check("electricity_rate", rate)
}

// Cost checks an installation cost in $/W.
func Cost(costPerWatt float64) error {
	return installCostRange.check("installation_cost_per_watt", costPerWatt)
}

// Area checks a roof area in m².
func Area(area float64) error {
	return roofAreaRange.check("roof_area", area)
}

// Size checks a system size in kW.
func Size(kw float64) error {
	return systemSizeRange.check("system_size_kw", kw)
}

// CalculationResult returns warnings for anything unusual in a result. An
// empty slice means the result looks reasonable.
func CalculationResult(res types.SolarPotentialResult) []string {
	var warnings []string
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"system_size_kw", res.SystemSizeKW},
		{"annual_energy_kwh", res.AnnualEnergyKWH},
		{"total_cost", res.TotalCost},
		{"annual_savings", res.AnnualSavings},
		{"payback_years", res.PaybackYears},
	} {
		if math.IsNaN(f.v) || f.v < 0 {
			warnings = append(warnings, fmt.Sprintf("%s is negative or not a number", f.name))
		}
	}
	if len(warnings) > 0 {
		return warnings
	}

	if err := Size(res.SystemSizeKW); err != nil {
		warnings = append(warnings, err.Error())
	}
	if res.SystemSizeKW > 0 {
		yield := res.AnnualEnergyKWH / res.SystemSizeKW
		if yield < specificYieldRange.Min || yield > specificYieldRange.Max {
			warnings = append(warnings, fmt.Sprintf("energy yield %.0f kWh/kW is outside the typical range", yield))
		}
		cpw := res.TotalCost / (res.SystemSizeKW * 1000)
		if cpw < costPerWattRange.Min || cpw > costPerWattRange.Max {
			warnings = append(warnings, fmt.Sprintf("cost of $%.2f/W is outside the typical range", cpw))
		}
	}
	if res.PaybackYears < paybackYearsRange.Min || res.PaybackYears > paybackYearsRange.Max {
		warnings = append(warnings, fmt.Sprintf("payback of %.0f years is outside the typical range", res.PaybackYears))
	}
	return warnings
}
