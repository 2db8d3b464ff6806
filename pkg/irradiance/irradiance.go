package irradiance

import (
	"context"
	"errors"
	"log/slog"
	"math"

	"github.com/raterudder/rooftopsolar/pkg/log"
	"github.com/raterudder/rooftopsolar/pkg/types"
)

// ErrNoData is returned when a provider has no usable irradiance for a
// location.
var ErrNoData = errors.New("no irradiance data")

// Provider returns the irradiance series for a location.
type Provider interface {
	GetSolarData(ctx context.Context, latitude, longitude float64) (types.SolarDataSeries, error)
}

// Configured returns the NASA POWER provider wrapped so that it falls back to
// a latitude estimate when the API can't be reached.
func Configured() Provider {
	return WithFallback(configuredNASAPower())
}

const estimatedSource = "Estimated (API unavailable)"

// monthlyDistribution spreads an annual total across the year, northern
// hemisphere shaped.
var monthlyDistribution = [12]float64{0.06, 0.07, 0.08, 0.09, 0.10, 0.11, 0.11, 0.10, 0.09, 0.08, 0.06, 0.05}

// AnnualByLatitude returns a rough kWh/m²/year for the latitude band.
func AnnualByLatitude(latitude float64) float64 {
	lat := math.Abs(latitude)
	switch {
	case lat <= 23.5:
		return 1800
	case lat <= 35:
		return 1600
	case lat <= 45:
		return 1400
	case lat <= 60:
		return 1100
	default:
		return 800
	}
}

// EstimateByLatitude returns a series built purely from the latitude band.
// Each month gets its share of the annual total as a daily mean, so the
// monthly values sum back to the annual one the same way NASA data does.
// It never fails.
func EstimateByLatitude(latitude, longitude float64) types.SolarDataSeries {
	annual := AnnualByLatitude(latitude)
	monthly := make([]float64, len(monthlyDistribution))
	for i, f := range monthlyDistribution {
		monthly[i] = annual * f / daysPerMonth
	}
	return types.SolarDataSeries{
		AnnualIrradiance:  types.Float64(annual),
		MonthlyIrradiance: monthly,
		PeakSunHours:      peakSunHours(monthly),
		SeasonalVariation: 0.5,
		DataQuality:       types.DataQualityEstimated,
		DataSource:        estimatedSource,
		Location:          &types.Location{Latitude: latitude, Longitude: longitude},
	}
}

type fallbackProvider struct {
	p Provider
}

// WithFallback wraps p so that errors are logged and replaced by
// EstimateByLatitude. The returned provider never returns an error.
func WithFallback(p Provider) Provider {
	return fallbackProvider{p: p}
}

func (f fallbackProvider) GetSolarData(ctx context.Context, latitude, longitude float64) (types.SolarDataSeries, error) {
	series, err := f.p.GetSolarData(ctx, latitude, longitude)
	if err == nil {
		return series, nil
	}
	log.Ctx(ctx).WarnContext(
		ctx,
		"irradiance provider failed, estimating by latitude",
		slog.Float64("latitude", latitude),
		slog.Float64("longitude", longitude),
		slog.Any("error", err),
	)
	return EstimateByLatitude(latitude, longitude), nil
}

// standardIrradiance is the 1 kW/m² a peak sun hour is measured against.
const standardIrradiance = 1.0

// peakSunHours converts kWh/m²/day values into hours of 1000 W/m² sun.
func peakSunHours(monthly []float64) []float64 {
	psh := make([]float64, len(monthly))
	for i, irr := range monthly {
		psh[i] = irr / standardIrradiance
	}
	return psh
}
