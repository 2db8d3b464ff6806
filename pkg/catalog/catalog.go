package catalog

import (
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/levenlabs/go-lflag"
	"github.com/raterudder/rooftopsolar/pkg/types"
	"gopkg.in/yaml.v3"
)

// Catalog holds the read-only configuration shared by every calculation:
// the panel specs, the system loss chain, financial parameters, sizing limits
// and environmental conversion factors.
type Catalog struct {
	Panels      map[types.PanelType]types.PanelSpec `yaml:"panels"`
	Losses      types.SystemLossChain               `yaml:"system_losses"`
	Financial   types.FinancialParameters           `yaml:"financial"`
	Limits      types.SystemLimits                  `yaml:"limits"`
	Environment types.EnvironmentalFactors          `yaml:"environment"`
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return &Catalog{
		Panels: map[types.PanelType]types.PanelSpec{
			types.PanelTypeMonocrystalline: {
				PowerWatts:      400,
				Efficiency:      0.20,
				AreaM2:          2.0,
				CostPremium:     1.0,
				LifespanYears:   25,
				DegradationRate: 0.005,
			},
			types.PanelTypePolycrystalline: {
				PowerWatts:      350,
				Efficiency:      0.17,
				AreaM2:          2.0,
				CostPremium:     0.85,
				LifespanYears:   25,
				DegradationRate: 0.006,
			},
			types.PanelTypeThinFilm: {
				PowerWatts:      250,
				Efficiency:      0.12,
				AreaM2:          2.0,
				CostPremium:     0.70,
				LifespanYears:   20,
				DegradationRate: 0.008,
			},
			types.PanelTypeBifacial: {
				PowerWatts:      450,
				Efficiency:      0.22,
				AreaM2:          2.0,
				CostPremium:     1.20,
				LifespanYears:   30,
				DegradationRate: 0.004,
			},
		},
		Losses: types.SystemLossChain{
			InverterEfficiency:     0.96,
			DCLosses:               0.98,
			ACLosses:               0.99,
			SoilingLosses:          0.95,
			TemperatureCoefficient: 0.004,
			MismatchLosses:         0.98,
			SnowLosses:             0.99,
		},
		Financial: types.FinancialParameters{
			FederalTaxCredit:          0.30,
			ElectricityRateEscalation: 0.03,
			DiscountRate:              0.04,
			AnalysisYears:             25,
			InverterReplacementYear:   15,
			InverterReplacementCost:   0.20,
		},
		Limits: types.SystemLimits{
			MaxSystemSizeKW:        50.0,
			MinSystemSizeKW:        1.0,
			PackingFactor:          0.75,
			MaxPaybackYears:        50,
			DefaultDailyIrradiance: 4.5,
		},
		Environment: types.EnvironmentalFactors{
			CO2LbsPerKWH:         0.85,
			TreeLbsPerYear:       48,
			CarTonsPerYear:       4.6,
			LifetimeHorizonYears: 25,
		},
	}
}

// Configured returns the catalog, optionally overridden by the YAML file
// passed in --catalog-file.
func Configured() *Catalog {
	c := Default()
	path := lflag.String("catalog-file", "", "YAML file overriding panel specs, losses, financial parameters and limits")

	lflag.Do(func() {
		if *path == "" {
			return
		}
		loaded, err := Load(*path)
		if err != nil {
			panic(fmt.Errorf("failed to load catalog: %w", err))
		}
		*c = *loaded
	})

	return c
}

// Load reads a YAML file on top of the default catalog. Anything the file
// doesn't mention keeps its default value.
func Load(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file (%s): %w", path, err)
	}
	return Parse(b)
}

// Parse decodes YAML on top of the default catalog and validates the result.
func Parse(b []byte) (*Catalog, error) {
	c := Default()
	var overrides struct {
		Panels      map[string]yaml.Node        `yaml:"panels"`
		Losses      *types.SystemLossChain      `yaml:"system_losses"`
		Financial   *types.FinancialParameters  `yaml:"financial"`
		Limits      *types.SystemLimits         `yaml:"limits"`
		Environment *types.EnvironmentalFactors `yaml:"environment"`
	}
	// the section pointers are pre-filled so a partial section only replaces
	// the keys it sets
	overrides.Losses = &c.Losses
	overrides.Financial = &c.Financial
	overrides.Limits = &c.Limits
	overrides.Environment = &c.Environment
	if err := yaml.Unmarshal(b, &overrides); err != nil {
		return nil, fmt.Errorf("failed to parse catalog yaml: %w", err)
	}
	for name, node := range overrides.Panels {
		pt := types.NormalizePanelType(name)
		spec := c.Panels[pt]
		if err := node.Decode(&spec); err != nil {
			return nil, fmt.Errorf("failed to parse panel %s: %w", name, err)
		}
		c.Panels[pt] = spec
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate ensures every value is usable by the calculator.
func (c *Catalog) Validate() error {
	if _, ok := c.Panels[types.DefaultPanelType]; !ok {
		return fmt.Errorf("catalog must contain the %s panel", types.DefaultPanelType)
	}
	for pt, spec := range c.Panels {
		if spec.PowerWatts <= 0 {
			return fmt.Errorf("panel %s: power_watts must be positive", pt)
		}
		if spec.AreaM2 <= 0 || math.IsNaN(spec.AreaM2) {
			return fmt.Errorf("panel %s: area_m2 must be positive", pt)
		}
		if spec.Efficiency <= 0 || spec.Efficiency > 1 {
			return fmt.Errorf("panel %s: efficiency must be in (0,1]", pt)
		}
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"inverter_efficiency", c.Losses.InverterEfficiency},
		{"dc_losses", c.Losses.DCLosses},
		{"ac_losses", c.Losses.ACLosses},
		{"soiling_losses", c.Losses.SoilingLosses},
	} {
		if f.v <= 0 || f.v > 1 {
			return fmt.Errorf("system_losses.%s must be in (0,1]", f.name)
		}
	}
	if c.Financial.FederalTaxCredit < 0 || c.Financial.FederalTaxCredit > 1 {
		return fmt.Errorf("financial.federal_tax_credit must be in [0,1]")
	}
	if c.Financial.AnalysisYears <= 0 {
		return fmt.Errorf("financial.system_lifespan_years must be positive")
	}
	if c.Limits.MinSystemSizeKW <= 0 || c.Limits.MaxSystemSizeKW < c.Limits.MinSystemSizeKW {
		return fmt.Errorf("limits: invalid system size range [%v, %v]", c.Limits.MinSystemSizeKW, c.Limits.MaxSystemSizeKW)
	}
	if c.Limits.PackingFactor <= 0 || c.Limits.PackingFactor > 1 {
		return fmt.Errorf("limits.packing_factor must be in (0,1]")
	}
	if c.Limits.MaxPaybackYears <= 0 {
		return fmt.Errorf("limits.max_payback_years must be positive")
	}
	if c.Environment.TreeLbsPerYear <= 0 || c.Environment.CarTonsPerYear <= 0 {
		return fmt.Errorf("environment: tree and car factors must be positive")
	}
	return nil
}

// Lookup returns the spec for the given panel type. Unknown types resolve to
// the default panel and ok is false.
func (c *Catalog) Lookup(pt types.PanelType) (types.PanelSpec, types.PanelType, bool) {
	if spec, ok := c.Panels[pt]; ok {
		return spec, pt, true
	}
	return c.Panels[types.DefaultPanelType], types.DefaultPanelType, false
}

// List returns every panel in the catalog sorted by type.
func (c *Catalog) List() []types.PanelInfo {
	list := make([]types.PanelInfo, 0, len(c.Panels))
	for pt, spec := range c.Panels {
		list = append(list, types.PanelInfo{Type: pt, PanelSpec: spec})
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Type < list[j].Type
	})
	return list
}
