package mcp

import (
	"fmt"

	"downtime-mcs/internal/simulation"

	"github.com/google/jsonschema-go/jsonschema"
)

type baseParamsArgs struct {
	RevenuePerHour    float64  `json:"revenuePerHour" jsonschema:"Mean revenue lost per hour of downtime"`
	AffectedEmployees float64  `json:"affectedEmployees" jsonschema:"Expected number of idle employees (rounded per trial)"`
	HourlyWage        *float64 `json:"hourlyWage,omitempty" jsonschema:"Mean hourly wage of affected employees. Default: 50"`
	EquipmentValue    float64  `json:"equipmentValue,omitempty" jsonschema:"Asset value used for prorated depreciation"`
}

func (a baseParamsArgs) costParameters() simulation.CostParameters {
	p := simulation.CostParameters{
		RevenuePerHour:    a.RevenuePerHour,
		AffectedEmployees: a.AffectedEmployees,
		EquipmentValue:    a.EquipmentValue,
	}
	if a.HourlyWage != nil {
		p.HourlyWage = *a.HourlyWage
	}
	return p
}

type runSimulationArgs struct {
	DowntimeHours float64               `json:"downtimeHours" jsonschema:"Outage duration in hours"`
	BaseParams    baseParamsArgs        `json:"baseParams" jsonschema:"Means of the normally distributed cost drivers"`
	Config        *simulation.Overrides `json:"config,omitempty" jsonschema:"Optional overrides of iterations, variation coefficients and seed"`
	IncludeTrials bool                  `json:"include_trials,omitempty" jsonschema:"Return every trial sorted by total cost. Default: false"`
}

type equipmentSimulationArgs struct {
	EquipmentID   string  `json:"equipmentId" jsonschema:"Equipment identifier"`
	DowntimeHours float64 `json:"downtimeHours" jsonschema:"Outage duration in hours"`
	IncludeTrials bool    `json:"include_trials,omitempty" jsonschema:"Return every trial sorted by total cost. Default: false"`
}

type riskReportArgs struct {
	EquipmentID   string  `json:"equipmentId" jsonschema:"Equipment identifier"`
	DowntimeHours float64 `json:"downtimeHours" jsonschema:"Outage duration in hours"`
}

type sensitivityArgs struct {
	EquipmentID       string                             `json:"equipmentId" jsonschema:"Equipment identifier"`
	DowntimeHours     float64                            `json:"downtimeHours" jsonschema:"Outage duration in hours"`
	SensitivityParams map[simulation.Parameter][]float64 `json:"sensitivityParams,omitempty" jsonschema:"Relative variations per driver (e.g. {\"hourlyWage\": [-0.3, 0.3]}); listed drivers replace the default sweep"`
}

// inputSchema derives the schema of T and applies per-field minimums given
// as dotted property paths.
func inputSchema[T any](minimums map[string]float64) (*jsonschema.Schema, error) {
	s, err := jsonschema.For[T](nil)
	if err != nil {
		return nil, err
	}
	for path, min := range minimums {
		prop, err := property(s, path)
		if err != nil {
			return nil, err
		}
		prop.Minimum = jsonschema.Ptr(min)
	}
	return s, nil
}

func setMaximum(s *jsonschema.Schema, path string, max float64) error {
	prop, err := property(s, path)
	if err != nil {
		return err
	}
	prop.Maximum = jsonschema.Ptr(max)
	return nil
}

func property(s *jsonschema.Schema, path string) (*jsonschema.Schema, error) {
	cur := s
	start := 0
	for i := 0; i <= len(path); i++ {
		if i < len(path) && path[i] != '.' {
			continue
		}
		name := path[start:i]
		next, ok := cur.Properties[name]
		if !ok {
			return nil, fmt.Errorf("schema has no property %q", path)
		}
		cur = next
		start = i + 1
	}
	return cur, nil
}

func restrictParameters(s *jsonschema.Schema) error {
	prop, err := property(s, "sensitivityParams")
	if err != nil {
		return err
	}
	names := make([]string, len(simulation.Parameters))
	for i, p := range simulation.Parameters {
		names[i] = string(p)
	}
	prop.PropertyNames = &jsonschema.Schema{Type: "string", Enum: toAny(names)}
	return nil
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

const (
	toolRunSimulation          = "run_simulation"
	toolRunEquipmentSimulation = "run_equipment_simulation"
	toolGenerateRiskReport     = "generate_risk_report"
	toolRunSensitivityAnalysis = "run_sensitivity_analysis"
)

const (
	descRunSimulation = "Run a Monte-Carlo simulation of the cost of an outage lasting 'downtimeHours' for explicit cost drivers.\n\n" +
		"Each trial draws revenue per hour, affected employees, hourly wage and equipment value from normal distributions " +
		"around 'baseParams' (standard deviation = mean x variation coefficient) and evaluates " +
		"revenue loss + labor cost + prorated depreciation.\n" +
		"Returns mean, median, min, max, population stdDev and the p10-p99 percentile table of total cost."

	descRunEquipmentSimulation = "Simulate the downtime cost of a known piece of equipment. Cost drivers are derived from the equipment record " +
		"(revenue from the owning department or 0.01% of asset value per hour, two affected employees per criticality point, wage 50).\n" +
		"Use 'generate_risk_report' instead when the user asks for a risk level or recommendations."

	descGenerateRiskReport = "Produce the full downtime risk report for a piece of equipment: cent-rounded simulation summary, " +
		"risk score and level (LOW/MEDIUM/HIGH/CRITICAL) derived from stdDev/mean, confidence band, value at risk, " +
		"default sensitivity sweep and rule-based recommendations.\n\n" +
		"NOTE: The confidence band is read from the tabulated percentiles; untabulated bounds fall back to p10/p90."

	descRunSensitivityAnalysis = "One-at-a-time sensitivity sweep for a piece of equipment. Each driver is scaled by (1 + variation) " +
		"while the others stay at their base values, and the mean total cost of a reduced simulation is recorded per point.\n" +
		"Default sweep: revenuePerHour, affectedEmployees and equipmentValue at -50%, -25%, +25%, +50%; hourlyWage at -20%, -10%, +10%, +20%."
)
