package recommend

import (
	"context"
	"fmt"
	"strings"

	"github.com/raterudder/rooftopsolar/pkg/types"
)

// Template writes canned recommendations. It never fails and never calls out
// to a model so GenerationSuccessful is always false.
type Template struct{}

// Recommend implements Narrator.
func (Template) Recommend(ctx context.Context, in Input) (Recommendations, error) {
	return Recommendations{
		InstallationPlan: installationPlan(in),
		OptimizationTips: optimizationTips(in),
		ComplianceInfo:   complianceInfo(Region(in.Latitude, in.Longitude)),
		MaintenancePlan:  maintenancePlan(in.Result),
	}, nil
}

func installationPlan(in Input) string {
	var b strings.Builder
	b.WriteString(headline(in.Result))
	b.WriteString(`

### Panel Configuration
- Lay panels out in as few rows as the usable area allows, leaving access paths for maintenance
- Keep the array on the best facing plane and away from vents and chimneys
- Consider microinverters or optimizers if parts of the roof are shaded

### System Components
- Inverter: string inverter sized to the array, or panel-level electronics
- Mounting: rail system rated for the roof material and slope
- Monitoring: production monitoring with alerts
- Safety: rapid shutdown equipment where required

### Installation Steps
1. Obtain permits and approvals
2. Submit the utility interconnection application
3. Install mounting and electrical components
4. Mount panels and complete wiring
5. Commission and test the system
6. Pass final inspection and receive permission to operate

*This is a general plan. A certified installer should confirm the layout and equipment.*`)
	return formatSection("Installation Plan", b.String())
}

func optimizationTips(in Input) string {
	var tips []string
	switch o := types.ParseOrientation(string(in.Roof.Orientation)); o {
	case types.OrientationSouth:
		tips = append(tips, "- The roof faces south, which is the best orientation for production")
	case types.OrientationNorth, types.OrientationNortheast, types.OrientationNorthwest:
		tips = append(tips, "- The roof faces away from the sun; check whether another plane or a ground mount would produce more")
	default:
		tips = append(tips, fmt.Sprintf("- The roof faces %s; expect somewhat less production than a south facing roof", o))
	}
	if in.Roof.ShadingFactor >= 0.2 {
		tips = append(tips, printer.Sprintf("- Shading removes about %.0f%% of the sun; trimming trees or using panel-level electronics will help", in.Roof.ShadingFactor*100))
	}
	if in.Roof.ObstructionCount > 0 {
		tips = append(tips, printer.Sprintf("- Plan the layout around the %d obstructions on the roof", in.Roof.ObstructionCount))
	}
	if in.Roof.Slope < 10 {
		tips = append(tips, "- The roof is nearly flat; tilted racking will improve output and self cleaning")
	}
	tips = append(tips,
		"- Clean panels when dust or pollen builds up",
		"- Keep airflow under the panels to limit heat losses",
		"- Consider battery storage to use more of the production on site",
		"- Compare monthly production with the estimate to catch problems early",
	)
	return formatSection("Optimization Tips", strings.Join(tips, "\n"))
}

func complianceInfo(region string) string {
	body := `### Permits
- Building permit for the structural work
- Electrical permit for the installation
- Utility interconnection agreement
- HOA approval if applicable

### Codes and Safety
- Electrical code compliance, including rapid shutdown and arc fault protection
- Fire setbacks and access pathways
- Structural load calculations
- Listed equipment, grounding and bonding

### Utility
- Net metering application
- Production meter installation
- Inspection before interconnection

*Requirements vary by jurisdiction. Check with the local building department and utility.*`
	return formatSection(fmt.Sprintf("Regulatory Compliance (%s)", region), body)
}

func maintenancePlan(res types.SolarPotentialResult) string {
	body := printer.Sprintf(`### Monthly
- Check the inverter status and the monitoring app
- Expect roughly %.0f kWh a month; investigate large drops

### Quarterly
- Look for debris, damage and new shading
- Check that mounting hardware is tight and wiring is intact

### Yearly
- Clean the panels if rain hasn't kept them clear
- Have a professional inspect the system
- Compare annual production with the %.0f kWh estimate

### Long Term
- Panels typically last 25 years or more with slow degradation
- Plan on replacing the inverter after 10 to 15 years
- Keep warranty documents and service records`, res.MonthlyEnergyKWH, res.AnnualEnergyKWH)
	return formatSection("Maintenance Plan", body)
}
