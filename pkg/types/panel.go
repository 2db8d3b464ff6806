package types

import "strings"

// PanelType names an entry in the panel catalog.
type PanelType string

const (
	PanelTypeMonocrystalline PanelType = "monocrystalline"
	PanelTypePolycrystalline PanelType = "polycrystalline"
	PanelTypeThinFilm        PanelType = "thin_film"
	PanelTypeBifacial        PanelType = "bifacial"

	// DefaultPanelType is used whenever a requested type isn't in the catalog.
	DefaultPanelType = PanelTypeMonocrystalline
)

// NormalizePanelType lowercases and trims a user supplied panel type.
func NormalizePanelType(s string) PanelType {
	return PanelType(strings.ToLower(strings.TrimSpace(s)))
}

// PanelSpec describes the physical and economic properties of a panel.
type PanelSpec struct {
	PowerWatts      int     `json:"power_watts" yaml:"power_watts"`
	Efficiency      float64 `json:"efficiency" yaml:"efficiency"`
	AreaM2          float64 `json:"area_m2" yaml:"area_m2"`
	CostPremium     float64 `json:"cost_premium" yaml:"cost_premium"`
	LifespanYears   int     `json:"lifespan_years" yaml:"lifespan_years"`
	DegradationRate float64 `json:"degradation_rate" yaml:"degradation_rate"` // fraction per year
}

// PanelInfo is a catalog entry as listed to API clients.
type PanelInfo struct {
	Type PanelType `json:"type"`
	PanelSpec
}
