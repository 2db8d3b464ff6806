package types

// SystemLossChain holds the multiplicative efficiency factors of a solar
// installation. Only the first four make up the performance ratio; the rest
// are carried so reports can show them.
type SystemLossChain struct {
	InverterEfficiency float64 `json:"inverter_efficiency" yaml:"inverter_efficiency"`
	DCLosses           float64 `json:"dc_losses" yaml:"dc_losses"`
	ACLosses           float64 `json:"ac_losses" yaml:"ac_losses"`
	SoilingLosses      float64 `json:"soiling_losses" yaml:"soiling_losses"`

	TemperatureCoefficient float64 `json:"temperature_coefficient" yaml:"temperature_coefficient"` // power loss per °C above 25°C
	MismatchLosses         float64 `json:"mismatch_losses" yaml:"mismatch_losses"`
	SnowLosses             float64 `json:"snow_losses" yaml:"snow_losses"`
}

// PerformanceRatio is inverter × DC × AC × soiling.
func (l SystemLossChain) PerformanceRatio() float64 {
	return l.InverterEfficiency * l.DCLosses * l.ACLosses * l.SoilingLosses
}

// FinancialParameters configures the financial engine.
type FinancialParameters struct {
	FederalTaxCredit          float64 `json:"federal_tax_credit" yaml:"federal_tax_credit"`
	ElectricityRateEscalation float64 `json:"electricity_rate_escalation" yaml:"electricity_rate_escalation"`
	DiscountRate              float64 `json:"discount_rate" yaml:"discount_rate"`
	AnalysisYears             int     `json:"system_lifespan_years" yaml:"system_lifespan_years"`
	InverterReplacementYear   int     `json:"inverter_replacement_year" yaml:"inverter_replacement_year"`
	InverterReplacementCost   float64 `json:"inverter_replacement_cost" yaml:"inverter_replacement_cost"` // fraction of system cost
}

// SystemLimits bounds the sizing and search steps of the calculator.
type SystemLimits struct {
	MaxSystemSizeKW        float64 `json:"max_system_size_kw" yaml:"max_system_size_kw"`
	MinSystemSizeKW        float64 `json:"min_system_size_kw" yaml:"min_system_size_kw"`
	PackingFactor          float64 `json:"packing_factor" yaml:"packing_factor"`
	MaxPaybackYears        int     `json:"max_payback_years" yaml:"max_payback_years"`
	DefaultDailyIrradiance float64 `json:"default_daily_irradiance" yaml:"default_daily_irradiance"` // kWh/m²/day
}

// EnvironmentalFactors are the emissions conversion constants.
type EnvironmentalFactors struct {
	CO2LbsPerKWH         float64 `json:"co2_emissions_factor_lbs_per_kwh" yaml:"co2_emissions_factor_lbs_per_kwh"`
	TreeLbsPerYear       float64 `json:"co2_absorption_per_tree_lbs_per_year" yaml:"co2_absorption_per_tree_lbs_per_year"`
	CarTonsPerYear       float64 `json:"average_car_emissions_tons_per_year" yaml:"average_car_emissions_tons_per_year"`
	LifetimeHorizonYears int     `json:"lifetime_horizon_years" yaml:"lifetime_horizon_years"`
}
