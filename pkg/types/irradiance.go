package types

// DataQuality rates how much of an irradiance series came from measurements.
type DataQuality string

const (
	DataQualityExcellent DataQuality = "excellent"
	DataQualityGood      DataQuality = "good"
	DataQualityFair      DataQuality = "fair"
	DataQualityEstimated DataQuality = "estimated"
)

// Location is a point on the globe.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// SolarDataSeries is the irradiance record produced by an irradiance
// provider. The calculator only reads AnnualIrradiance and
// MonthlyIrradiance; the rest is carried for display.
type SolarDataSeries struct {
	// AnnualIrradiance is in kWh/m²/year.
	AnnualIrradiance *float64 `json:"annual_irradiance,omitempty"`
	// MonthlyIrradiance is 12 values in kWh/m²/day, January first.
	MonthlyIrradiance []float64 `json:"monthly_irradiance,omitempty"`

	PeakSunHours      []float64   `json:"peak_sun_hours,omitempty"`
	SeasonalVariation float64     `json:"seasonal_variation,omitempty"`
	DataQuality       DataQuality `json:"data_quality,omitempty"`
	DataSource        string      `json:"data_source,omitempty"`
	Location          *Location   `json:"location,omitempty"`
}

// HasIrradiance returns true if either irradiance field is present.
func (s SolarDataSeries) HasIrradiance() bool {
	return s.AnnualIrradiance != nil || len(s.MonthlyIrradiance) > 0
}

// Float64 returns a pointer to v.
func Float64(v float64) *float64 {
	return &v
}
