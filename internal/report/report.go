package report

import (
	"time"

	"downtime-mcs/internal/risk"
	"downtime-mcs/internal/simulation"
	"downtime-mcs/internal/stats"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// worstCaseFactor is the max/mean ratio above which worst-case budgeting is advised.
const worstCaseFactor = 3.0

// SimulationSummary is the cent-rounded headline of a simulation run.
type SimulationSummary struct {
	MeanCost     float64 `json:"mean_cost"`
	MedianCost   float64 `json:"median_cost"`
	MinCost      float64 `json:"min_cost"`
	MaxCost      float64 `json:"max_cost"`
	StdDeviation float64 `json:"std_deviation"`
}

// SensitivityAnalysis is the sweep of one equipment item together with the
// mean cost of its unperturbed baseline.
type SensitivityAnalysis struct {
	EquipmentID   string                       `json:"equipment_id"`
	DowntimeHours float64                      `json:"downtime_hours"`
	Results       simulation.SensitivityResult `json:"sensitivity_analysis"`
	BaseCase      float64                      `json:"base_case"`
	Timestamp     time.Time                    `json:"timestamp"`
}

// Report bundles everything known about the downtime risk of one item.
type Report struct {
	ReportID            string              `json:"report_id"`
	EquipmentID         string              `json:"equipment_id"`
	DowntimeHours       float64             `json:"downtime_hours"`
	SimulationSummary   SimulationSummary   `json:"simulation_summary"`
	RiskAssessment      risk.Assessment     `json:"risk_assessment"`
	SensitivityAnalysis SensitivityAnalysis `json:"sensitivity_analysis"`
	Recommendations     []string            `json:"recommendations"`
	Timestamp           time.Time           `json:"timestamp"`
}

// Cents rounds a money value to two decimal places.
func Cents(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// Summarize rounds the headline statistics of s to cents.
func Summarize(s stats.Summary) SimulationSummary {
	return SimulationSummary{
		MeanCost:     Cents(s.Mean),
		MedianCost:   Cents(s.Median),
		MinCost:      Cents(s.Min),
		MaxCost:      Cents(s.Max),
		StdDeviation: Cents(s.StdDev),
	}
}

// NewSensitivityAnalysis wraps a sweep result, rounding every mean and the
// base case to cents.
func NewSensitivityAnalysis(equipmentID string, downtimeHours float64, results simulation.SensitivityResult, baseCase float64) SensitivityAnalysis {
	rounded := make(simulation.SensitivityResult, len(results))
	for param, points := range results {
		rp := make(map[simulation.Variation]float64, len(points))
		for v, mean := range points {
			rp[v] = Cents(mean)
		}
		rounded[param] = rp
	}

	return SensitivityAnalysis{
		EquipmentID:   equipmentID,
		DowntimeHours: downtimeHours,
		Results:       rounded,
		BaseCase:      Cents(baseCase),
		Timestamp:     time.Now().UTC(),
	}
}

// Compose assembles the full risk report from a run's statistics, its risk
// assessment and the sensitivity sweep of the same equipment.
func Compose(s stats.Summary, a risk.Assessment, sa SensitivityAnalysis) Report {
	return Report{
		ReportID:            uuid.NewString(),
		EquipmentID:         sa.EquipmentID,
		DowntimeHours:       sa.DowntimeHours,
		SimulationSummary:   Summarize(s),
		RiskAssessment:      a,
		SensitivityAnalysis: sa,
		Recommendations:     Recommendations(a, s),
		Timestamp:           time.Now().UTC(),
	}
}

// Recommendations derives advice from the risk level, the relative spread
// and the tail of the cost distribution.
func Recommendations(a risk.Assessment, s stats.Summary) []string {
	recs := []string{}

	if a.RiskLevel == risk.High || a.RiskLevel == risk.Critical {
		recs = append(recs,
			"Implement immediate mitigation measures",
			"Consider equipment redundancy or backup systems",
			"Review and update maintenance schedules",
		)
	}

	if a.UncertaintyRatio > 0.5 {
		recs = append(recs,
			"Gather more data to reduce uncertainty in cost estimates",
			"Implement more frequent monitoring of this equipment",
		)
	}

	if s.Mean > 0 && s.Max/s.Mean > worstCaseFactor {
		recs = append(recs,
			"Plan for worst-case scenarios in budgeting",
			"Develop contingency plans for high-impact events",
		)
	}

	return recs
}
