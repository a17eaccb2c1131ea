package report

import (
	"encoding/json"
	"slices"
	"strings"
	"testing"

	"downtime-mcs/internal/risk"
	"downtime-mcs/internal/simulation"
	"downtime-mcs/internal/stats"
)

func TestRecommendations(t *testing.T) {
	mitigation := []string{
		"Implement immediate mitigation measures",
		"Consider equipment redundancy or backup systems",
		"Review and update maintenance schedules",
	}
	uncertainty := []string{
		"Gather more data to reduce uncertainty in cost estimates",
		"Implement more frequent monitoring of this equipment",
	}
	worstCase := []string{
		"Plan for worst-case scenarios in budgeting",
		"Develop contingency plans for high-impact events",
	}

	tests := []struct {
		name     string
		level    risk.Level
		ratio    float64
		mean     float64
		max      float64
		expected []string
	}{
		{"Quiet", risk.Low, 0.1, 1000, 1500, []string{}},
		{"Medium", risk.Medium, 0.4, 1000, 3000, []string{}},
		{"High", risk.High, 0.6, 1000, 2000, slices.Concat(mitigation, uncertainty)},
		{"HighAtRatioBoundary", risk.High, 0.5, 1000, 2000, mitigation},
		{"CriticalHeavyTail", risk.Critical, 0.9, 1000, 3500, slices.Concat(mitigation, uncertainty, worstCase)},
		{"HeavyTailOnly", risk.Low, 0.1, 1000, 3001, worstCase},
		{"ZeroMean", risk.Low, 0, 0, 0, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := risk.Assessment{RiskLevel: tt.level, UncertaintyRatio: tt.ratio}
			s := stats.Summary{Mean: tt.mean, Max: tt.max}
			got := Recommendations(a, s)
			if !slices.Equal(got, tt.expected) {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestCents(t *testing.T) {
	tests := []struct {
		in, expected float64
	}{
		{12500.114155, 12500.11},
		{0.005, 0.01},
		{-1.234, -1.23},
		{42, 42},
	}
	for _, tt := range tests {
		if got := Cents(tt.in); got != tt.expected {
			t.Errorf("Cents(%v): expected %v, got %v", tt.in, tt.expected, got)
		}
	}
}

func TestCompose(t *testing.T) {
	s := stats.Summary{Mean: 1234.5678, Median: 1200.004, Min: 800.111, Max: 5000.999, StdDev: 700.555}
	a, err := risk.Assess(s, risk.DefaultConfidenceLevel)
	if err != nil {
		t.Fatalf("Assess() unexpected error: %v", err)
	}
	sweep := simulation.SensitivityResult{
		simulation.HourlyWage: {-0.1: 1100.123, 0.1: 1300.987},
	}
	sa := NewSensitivityAnalysis("EQ-7", 10, sweep, 1234.5678)

	r := Compose(s, a, sa)

	if r.ReportID == "" {
		t.Error("Expected a report id")
	}
	if r.EquipmentID != "EQ-7" || r.DowntimeHours != 10 {
		t.Errorf("Expected EQ-7 / 10h, got %s / %v", r.EquipmentID, r.DowntimeHours)
	}
	want := SimulationSummary{MeanCost: 1234.57, MedianCost: 1200, MinCost: 800.11, MaxCost: 5001, StdDeviation: 700.56}
	if r.SimulationSummary != want {
		t.Errorf("Expected summary %+v, got %+v", want, r.SimulationSummary)
	}
	if r.SensitivityAnalysis.BaseCase != 1234.57 {
		t.Errorf("Expected base case 1234.57, got %v", r.SensitivityAnalysis.BaseCase)
	}
	if got := r.SensitivityAnalysis.Results[simulation.HourlyWage][0.1]; got != 1300.99 {
		t.Errorf("Expected rounded sweep point 1300.99, got %v", got)
	}
	if sweep[simulation.HourlyWage][0.1] != 1300.987 {
		t.Error("REGRESSION: NewSensitivityAnalysis mutated the input result")
	}
	// ratio 0.567 and max/mean > 3
	if len(r.Recommendations) != 7 {
		t.Errorf("Expected 7 recommendations, got %d: %q", len(r.Recommendations), r.Recommendations)
	}
}

func TestReportJSON(t *testing.T) {
	sa := NewSensitivityAnalysis("EQ-1", 4, simulation.SensitivityResult{
		simulation.RevenuePerHour: {-0.25: 10, 0.5: 20},
	}, 15)
	r := Compose(stats.Summary{Mean: 15, Max: 20, Min: 10}, risk.Assessment{RiskLevel: risk.Low}, sa)

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	out := string(data)
	for _, key := range []string{
		`"simulation_summary"`, `"risk_assessment"`, `"sensitivity_analysis":{"equipment_id":"EQ-1"`,
		`"revenuePerHour":{"-0.25":10,"0.5":20}`, `"recommendations":[]`, `"base_case":15`,
	} {
		if !strings.Contains(out, key) {
			t.Errorf("Expected JSON to contain %s, got %s", key, out)
		}
	}
}
