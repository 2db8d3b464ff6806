package solar

import (
	"fmt"
	"math"

	"github.com/raterudder/rooftopsolar/pkg/types"
)

// Sizer turns usable roof area into a system size.
type Sizer struct {
	limits types.SystemLimits
}

// NewSizer returns a Sizer bounded by the given limits.
func NewSizer(limits types.SystemLimits) Sizer {
	return Sizer{limits: limits}
}

// Size returns the system size in kW and the number of panels for the given
// usable area in m². The size is clamped to the configured min/max so a tiny
// or empty roof still reports the minimum system.
func (s Sizer) Size(usableArea float64, spec types.PanelSpec) (float64, int, error) {
	if spec.PowerWatts <= 0 || spec.AreaM2 <= 0 {
		return 0, 0, fmt.Errorf("invalid panel spec: %dW %.2fm²", spec.PowerWatts, spec.AreaM2)
	}
	if math.IsNaN(usableArea) || math.IsInf(usableArea, 0) {
		return 0, 0, fmt.Errorf("usable area is not finite: %v", usableArea)
	}

	maxPanels := math.Floor(math.Max(usableArea, 0) / spec.AreaM2)
	actualPanels := math.Floor(maxPanels * s.limits.PackingFactor)
	kw := actualPanels * float64(spec.PowerWatts) / 1000

	kw = math.Min(kw, s.limits.MaxSystemSizeKW)
	kw = math.Max(kw, s.limits.MinSystemSizeKW)

	// the count comes from the clamped kW, not actualPanels, so it always
	// equals floor(kw*1000/W) even when that rounds one panel down
	return kw, PanelCount(kw, spec), nil
}

// PanelCount is the number of whole panels that make up a system of kw.
func PanelCount(kw float64, spec types.PanelSpec) int {
	if spec.PowerWatts <= 0 {
		return 0
	}
	return int(math.Floor(kw * 1000 / float64(spec.PowerWatts)))
}
