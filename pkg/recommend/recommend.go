package recommend

import (
	"context"
	"fmt"

	"github.com/levenlabs/go-lflag"
	"github.com/raterudder/rooftopsolar/pkg/types"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Input is what a narrator needs to describe an installation.
type Input struct {
	Roof      types.RoofMetrics
	Result    types.SolarPotentialResult
	Latitude  float64
	Longitude float64
}

// Recommendations are the narrative sections shown next to a result.
type Recommendations struct {
	InstallationPlan     string `json:"installation_plan"`
	OptimizationTips     string `json:"optimization_tips"`
	ComplianceInfo       string `json:"compliance_info"`
	MaintenancePlan      string `json:"maintenance_plan"`
	GenerationSuccessful bool   `json:"generation_successful"`
}

// Narrator turns a calculation into recommendations.
type Narrator interface {
	Recommend(ctx context.Context, in Input) (Recommendations, error)
}

type configuredNarrator struct {
	Narrator
}

// Configured returns the Anthropic narrator when an API key is given and the
// template narrator otherwise.
func Configured() Narrator {
	n := &configuredNarrator{}
	apiKey := lflag.String("anthropic-api-key", "", "Anthropic API key used to write recommendations (optional)")
	model := lflag.String("anthropic-model", defaultModel, "Anthropic model used to write recommendations")

	lflag.Do(func() {
		if *apiKey == "" {
			n.Narrator = Template{}
			return
		}
		n.Narrator = NewAnthropic(*apiKey, *model)
	})

	return n
}

// Region returns the broad regulatory region for the coordinates.
func Region(latitude, longitude float64) string {
	switch {
	case latitude >= 25 && latitude <= 49 && longitude >= -125 && longitude <= -66:
		return "United States"
	case latitude >= 42 && latitude <= 83 && longitude >= -141 && longitude <= -52:
		return "Canada"
	case latitude >= 35 && latitude <= 71 && longitude >= -10 && longitude <= 40:
		return "Europe"
	case latitude >= -44 && latitude <= -10 && longitude >= 113 && longitude <= 154:
		return "Australia"
	default:
		return "International"
	}
}

var printer = message.NewPrinter(language.AmericanEnglish)

// Summary describes the roof, result and location in a block of text that is
// shown to users and given to language models as context.
func Summary(in Input) string {
	r := in.Roof
	res := in.Result
	return printer.Sprintf(`ROOF
- Total area: %.1f m²
- Usable area: %.1f m²
- Orientation: %s
- Slope: %.1f°
- Shading factor: %.2f
- Obstructions: %d

SYSTEM
- Size: %.1f kW (%d panels, %s)
- Annual energy: %.0f kWh
- Annual savings: $%.0f
- Total cost: $%.0f
- Payback period: %.1f years
- ROI: %.1f%%

LOCATION
- Latitude: %.4f
- Longitude: %.4f
- Region: %s`,
		r.TotalArea, r.UsableArea, r.Orientation, r.Slope, r.ShadingFactor, r.ObstructionCount,
		res.SystemSizeKW, res.PanelCount, res.SystemSpecifications.PanelType,
		res.AnnualEnergyKWH, res.AnnualSavings, res.TotalCost, res.PaybackYears, res.ROIPercent,
		in.Latitude, in.Longitude, Region(in.Latitude, in.Longitude),
	)
}

// headline is a one line description of the system.
func headline(res types.SolarPotentialResult) string {
	s := printer.Sprintf(
		"A %.1f kW system of %d %s panels producing about %.0f kWh a year.",
		res.SystemSizeKW, res.PanelCount, res.SystemSpecifications.PanelType, res.AnnualEnergyKWH,
	)
	if res.Fallback {
		s += " These figures are a conservative estimate because the roof could not be fully analyzed."
	}
	return s
}

func formatSection(title, body string) string {
	return fmt.Sprintf("## %s\n\n%s\n", title, body)
}
