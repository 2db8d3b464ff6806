package types

// FinancialMetrics is the output of the financial engine.
type FinancialMetrics struct {
	TotalCost        float64 `json:"total_cost"`
	FederalIncentive float64 `json:"federal_incentive"`
	NetCost          float64 `json:"net_cost"`
	AnnualSavings    float64 `json:"annual_savings"`  // year 1
	MonthlySavings   float64 `json:"monthly_savings"` // year 1
	PaybackYears     float64 `json:"payback_years"`
	LifetimeSavings  float64 `json:"lifetime_savings"`
	ROIPercent       float64 `json:"roi_percent"`
	CostPerWatt      float64 `json:"cost_per_watt"`
	SavingsPerKWH    float64 `json:"savings_per_kwh"`
}

// EnvironmentalMetrics is the output of the environmental impact estimator.
type EnvironmentalMetrics struct {
	AnnualCO2OffsetLbs     float64 `json:"annual_co2_offset_lbs"`
	AnnualCO2OffsetTons    float64 `json:"annual_co2_offset_tons"`
	LifetimeCO2OffsetTons  float64 `json:"lifetime_co2_offset_tons"`
	EquivalentTreesPlanted float64 `json:"equivalent_trees_planted"`
	EquivalentCarsRemoved  float64 `json:"equivalent_cars_removed"`
}

// SystemSpecifications records which panel and losses a result was computed
// with.
type SystemSpecifications struct {
	PanelType       PanelType       `json:"panel_type"`
	PanelPower      int             `json:"panel_power"`
	PanelEfficiency float64         `json:"panel_efficiency"`
	SystemLosses    SystemLossChain `json:"system_losses"`
}

// SolarPotentialResult is the full output of a potential calculation.
type SolarPotentialResult struct {
	SystemSizeKW     float64 `json:"system_size_kw"`
	PanelCount       int     `json:"panel_count"`
	AnnualEnergyKWH  float64 `json:"annual_energy_kwh"`
	MonthlyEnergyKWH float64 `json:"monthly_energy_kwh"`
	DailyEnergyKWH   float64 `json:"daily_energy_kwh"`
	CapacityFactor   float64 `json:"capacity_factor"`

	FinancialMetrics
	EnvironmentalMetrics

	SystemSpecifications SystemSpecifications `json:"system_specifications"`

	// Fallback is true when the calculation failed and the canned
	// conservative estimate was returned instead.
	Fallback bool `json:"fallback"`
}
