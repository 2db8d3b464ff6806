package solar

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/raterudder/rooftopsolar/pkg/catalog"
	"github.com/raterudder/rooftopsolar/pkg/log"
	"github.com/raterudder/rooftopsolar/pkg/types"
)

// ErrMalformedRoof is returned when the roof metrics can't be used.
var ErrMalformedRoof = types.ErrMalformedRoof

// Stage names a step of the calculation pipeline.
type Stage string

const (
	StageRoof        Stage = "roof"
	StageSizing      Stage = "sizing"
	StageEnergy      Stage = "energy"
	StageFinancial   Stage = "financial"
	StageEnvironment Stage = "environment"
	StagePanic       Stage = "panic"
)

// CalculationError is returned by Calculate when a stage fails.
type CalculationError struct {
	Stage Stage
	Err   error
}

func (e *CalculationError) Error() string {
	return fmt.Sprintf("solar %s stage failed: %v", e.Stage, e.Err)
}

func (e *CalculationError) Unwrap() error {
	return e.Err
}

// Request holds everything needed to calculate the potential of one roof.
type Request struct {
	Roof               types.RoofMetrics     `json:"roof_metrics"`
	Solar              types.SolarDataSeries `json:"solar_data"`
	PanelType          types.PanelType       `json:"panel_type"`
	ElectricityRate    float64               `json:"electricity_rate"`
	InstallCostPerWatt float64               `json:"installation_cost_per_watt"`
}

// Calculator runs the sizing, energy, financial and environmental steps in
// order. It holds no mutable state and is safe for concurrent use.
type Calculator struct {
	catalog     *catalog.Catalog
	losses      types.SystemLossChain
	sizer       Sizer
	energy      EnergyEstimator
	financial   FinancialEngine
	environment EnvironmentEstimator
}

// NewCalculator returns a Calculator using the given catalog. The catalog
// must not be modified afterwards.
func NewCalculator(c *catalog.Catalog) *Calculator {
	return &Calculator{
		catalog:     c,
		losses:      c.Losses,
		sizer:       NewSizer(c.Limits),
		energy:      NewEnergyEstimator(c.Losses, c.Limits.DefaultDailyIrradiance),
		financial:   NewFinancialEngine(c.Financial, c.Limits.MaxPaybackYears),
		environment: NewEnvironmentEstimator(c.Environment),
	}
}

// Catalog returns the catalog the calculator was built with.
func (c *Calculator) Catalog() *catalog.Catalog {
	return c.catalog
}

// Calculate runs the full pipeline and returns a *CalculationError if any
// stage fails. Unknown panel types use the default panel.
func (c *Calculator) Calculate(ctx context.Context, req Request) (types.SolarPotentialResult, error) {
	if err := req.Roof.Validate(); err != nil {
		return types.SolarPotentialResult{}, &CalculationError{Stage: StageRoof, Err: err}
	}

	requested := types.NormalizePanelType(string(req.PanelType))
	spec, panelType, ok := c.catalog.Lookup(requested)
	if !ok {
		log.Ctx(ctx).DebugContext(
			ctx,
			"unknown panel type, using default",
			slog.String("requested", string(requested)),
			slog.String("panelType", string(panelType)),
		)
	}

	kw, panels, err := c.sizer.Size(req.Roof.UsableArea, spec)
	if err != nil {
		return types.SolarPotentialResult{}, &CalculationError{Stage: StageSizing, Err: err}
	}

	annual, err := c.energy.AnnualEnergy(kw, req.Solar, req.Roof)
	if err != nil {
		return types.SolarPotentialResult{}, &CalculationError{Stage: StageEnergy, Err: err}
	}

	fin, err := c.financial.Compute(kw, annual, req.ElectricityRate, req.InstallCostPerWatt)
	if err != nil {
		return types.SolarPotentialResult{}, &CalculationError{Stage: StageFinancial, Err: err}
	}

	env := c.environment.Estimate(annual)
	if !finite(env.AnnualCO2OffsetLbs, env.EquivalentTreesPlanted, env.EquivalentCarsRemoved) {
		return types.SolarPotentialResult{}, &CalculationError{
			Stage: StageEnvironment,
			Err:   fmt.Errorf("offsets are not finite"),
		}
	}

	log.Ctx(ctx).DebugContext(
		ctx,
		"calculated solar potential",
		slog.String("panelType", string(panelType)),
		slog.Float64("systemSizeKW", kw),
		slog.Int("panelCount", panels),
		slog.Float64("annualEnergyKWH", annual),
		slog.Float64("paybackYears", fin.PaybackYears),
	)

	return types.SolarPotentialResult{
		SystemSizeKW:         kw,
		PanelCount:           panels,
		AnnualEnergyKWH:      annual,
		MonthlyEnergyKWH:     annual / 12,
		DailyEnergyKWH:       annual / 365,
		CapacityFactor:       CapacityFactor(annual, kw),
		FinancialMetrics:     fin,
		EnvironmentalMetrics: env,
		SystemSpecifications: types.SystemSpecifications{
			PanelType:       panelType,
			PanelPower:      spec.PowerWatts,
			PanelEfficiency: spec.Efficiency,
			SystemLosses:    c.catalog.Losses,
		},
	}, nil
}

// CalculatePotential is like Calculate but never fails. Any error or panic is
// logged and the conservative fallback result is returned instead.
func (c *Calculator) CalculatePotential(ctx context.Context, req Request) (res types.SolarPotentialResult) {
	defer func() {
		if r := recover(); r != nil {
			err := &CalculationError{Stage: StagePanic, Err: fmt.Errorf("%v", r)}
			log.Ctx(ctx).ErrorContext(ctx, "solar potential calculation panicked", slog.Any("error", err))
			res = Fallback(c.losses)
		}
	}()

	res, err := c.Calculate(ctx, req)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "solar potential calculation failed", slog.Any("error", err))
		return Fallback(c.losses)
	}
	return res
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
