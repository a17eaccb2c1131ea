package risk

import (
	"fmt"
	"math"

	"downtime-mcs/internal/simulation"
	"downtime-mcs/internal/stats"

	"github.com/shopspring/decimal"
)

// DefaultConfidenceLevel is used when the caller does not pick one.
const DefaultConfidenceLevel = 0.95

// Level is a coarse risk bucket.
type Level string

const (
	Low      Level = "LOW"
	Medium   Level = "MEDIUM"
	High     Level = "HIGH"
	Critical Level = "CRITICAL"
)

// Rank orders levels from 0 (LOW) to 3 (CRITICAL). Unknown levels rank -1.
func (l Level) Rank() int {
	switch l {
	case Low:
		return 0
	case Medium:
		return 1
	case High:
		return 2
	case Critical:
		return 3
	}
	return -1
}

// Classify buckets a 0-100 risk score. Each bucket excludes its upper bound.
func Classify(score float64) Level {
	switch {
	case score < 20:
		return Low
	case score < 50:
		return Medium
	case score < 80:
		return High
	default:
		return Critical
	}
}

// ConfidenceInterval is a percentile band around the simulated cost.
type ConfidenceInterval struct {
	Lower           float64 `json:"lower"`
	Upper           float64 `json:"upper"`
	ConfidenceLevel float64 `json:"confidenceLevel"`
	Interval        float64 `json:"interval"`
}

// ValueAtRisk brackets the simulated cost between its extremes.
type ValueAtRisk struct {
	WorstCase float64 `json:"worst_case"`
	Expected  float64 `json:"expected"`
	BestCase  float64 `json:"best_case"`
}

// Assessment is the risk view of one simulation run.
type Assessment struct {
	RiskScore           float64            `json:"riskScore"`
	RiskLevel           Level              `json:"riskLevel"`
	UncertaintyRatio    float64            `json:"uncertaintyRatio"`
	ConfidenceIntervals ConfidenceInterval `json:"confidenceIntervals"`
	ValueAtRisk         ValueAtRisk        `json:"value_at_risk"`
}

// UncertaintyRatio is the coefficient of variation stdDev/mean. A run with a
// non-positive mean has no relative spread and yields 0.
func UncertaintyRatio(s stats.Summary) float64 {
	if s.Mean <= 0 {
		return 0
	}
	return s.StdDev / s.Mean
}

// Score maps an uncertainty ratio onto 0-100.
func Score(ratio float64) float64 {
	return math.Min(100, math.Max(0, ratio*100))
}

// Assess scores the spread of s and reports the confidence band at
// confidenceLevel, which must lie strictly between 0 and 1.
func Assess(s stats.Summary, confidenceLevel float64) (Assessment, error) {
	ci, err := Interval(s.Percentiles, confidenceLevel)
	if err != nil {
		return Assessment{}, err
	}

	ratio := UncertaintyRatio(s)
	score := Score(ratio)

	return Assessment{
		RiskScore:           round(score, 2),
		RiskLevel:           Classify(score),
		UncertaintyRatio:    round(ratio, 3),
		ConfidenceIntervals: ci,
		ValueAtRisk: ValueAtRisk{
			WorstCase: round(s.Max, 2),
			Expected:  round(s.Mean, 2),
			BestCase:  round(s.Min, 2),
		},
	}, nil
}

// Interval reads the two-sided band for confidenceLevel from the percentile
// table. Bounds whose rank is not tabulated fall back to p10 (lower) and p90
// (upper), so a 95% request reports the p10-p90 band.
func Interval(p stats.Percentiles, confidenceLevel float64) (ConfidenceInterval, error) {
	if math.IsNaN(confidenceLevel) || confidenceLevel <= 0 || confidenceLevel >= 1 {
		return ConfidenceInterval{}, fmt.Errorf("%w: confidence level must be in (0, 1), got %v",
			simulation.ErrInvalidConfiguration, confidenceLevel)
	}

	alpha := 1 - confidenceLevel
	lower, ok := p.Lookup(rank(alpha / 2))
	if !ok {
		lower = p.P10
	}
	upper, ok := p.Lookup(rank(1 - alpha/2))
	if !ok {
		upper = p.P90
	}

	return ConfidenceInterval{
		Lower:           round(lower, 2),
		Upper:           round(upper, 2),
		ConfidenceLevel: confidenceLevel,
		Interval:        round(upper-lower, 2),
	}, nil
}

// rank converts a quantile to its whole-percent key. The epsilon absorbs
// binary error such as 0.95*100 = 94.999...
func rank(q float64) int {
	return int(math.Floor(q*100 + 1e-9))
}

func round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}
