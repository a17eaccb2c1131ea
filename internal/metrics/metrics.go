package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "downtime_mcs"

	runsTotal       = "runs_total"
	runDuration     = "run_duration_seconds"
	trialsTotal     = "trials_total"
	equipmentLookup = "equipment_lookups_total"

	// Labels
	operationLabel = "operation"
	outcomeLabel   = "outcome"
)

// Outcomes recorded for every service operation.
const (
	OutcomeSuccess  = "success"
	OutcomeInvalid  = "invalid"
	OutcomeNotFound = "not_found"
	OutcomeTimeout  = "timeout"
	OutcomeError    = "error"
)

var runsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      runsTotal,
		Help:      "number of service operations by outcome",
	},
	[]string{operationLabel, outcomeLabel},
)

var runDurationMetric = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      runDuration,
		Help:      "wall time of service operations",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	},
	[]string{operationLabel},
)

var trialsTotalMetric = prometheus.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      trialsTotal,
		Help:      "number of Monte-Carlo trials drawn",
	},
)

var equipmentLookupMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      equipmentLookup,
		Help:      "number of equipment lookups by outcome",
	},
	[]string{outcomeLabel},
)

// ObserveRun records one finished operation.
func ObserveRun(operation, outcome string, elapsed time.Duration) {
	runsTotalMetric.With(prometheus.Labels{
		operationLabel: operation,
		outcomeLabel:   outcome,
	}).Inc()
	runDurationMetric.With(prometheus.Labels{
		operationLabel: operation,
	}).Observe(elapsed.Seconds())
}

// AddTrials counts drawn trials.
func AddTrials(n int) {
	if n > 0 {
		trialsTotalMetric.Add(float64(n))
	}
}

// IncreaseEquipmentLookup counts one equipment lookup.
func IncreaseEquipmentLookup(outcome string) {
	equipmentLookupMetric.With(prometheus.Labels{outcomeLabel: outcome}).Inc()
}

func init() {
	registerMetrics()
}

func registerMetrics() {
	prometheus.MustRegister(runsTotalMetric)
	prometheus.MustRegister(runDurationMetric)
	prometheus.MustRegister(trialsTotalMetric)
	prometheus.MustRegister(equipmentLookupMetric)
}
