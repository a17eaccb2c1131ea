package stats

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// ErrEmptyDataset is returned when there is nothing to aggregate.
var ErrEmptyDataset = errors.New("empty dataset")

// ErrNonFiniteValue is returned when a sample is NaN or infinite.
var ErrNonFiniteValue = errors.New("non-finite value")

// ErrUnsorted is returned by AggregateSorted for input out of order.
var ErrUnsorted = errors.New("values are not sorted ascending")

// PercentileRanks are the ranks tabulated in every Percentiles table.
var PercentileRanks = []int{10, 25, 50, 75, 90, 95, 99}

// Percentiles is the fixed nearest-rank percentile table of a sample.
type Percentiles struct {
	P10 float64 `json:"p10"`
	P25 float64 `json:"p25"`
	P50 float64 `json:"p50"`
	P75 float64 `json:"p75"`
	P90 float64 `json:"p90"`
	P95 float64 `json:"p95"`
	P99 float64 `json:"p99"`
}

// Lookup returns the tabulated percentile of rank k, if there is one.
func (p Percentiles) Lookup(k int) (float64, bool) {
	switch k {
	case 10:
		return p.P10, true
	case 25:
		return p.P25, true
	case 50:
		return p.P50, true
	case 75:
		return p.P75, true
	case 90:
		return p.P90, true
	case 95:
		return p.P95, true
	case 99:
		return p.P99, true
	}
	return 0, false
}

// Summary describes the distribution of a sample.
type Summary struct {
	Mean        float64     `json:"mean"`
	Median      float64     `json:"median"`
	Min         float64     `json:"min"`
	Max         float64     `json:"max"`
	StdDev      float64     `json:"stdDev"`
	Percentiles Percentiles `json:"percentiles"`
}

// Aggregate computes the summary of values. The input is not modified.
// StdDev is the population standard deviation and percentiles use the
// nearest-rank method without interpolation.
func Aggregate(values []float64) (Summary, error) {
	if err := checkValues(values); err != nil {
		return Summary{}, err
	}

	// Work on a copy to avoid mutating the original
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	return summarize(sorted), nil
}

// AggregateSorted is Aggregate for input already in ascending order. It
// skips the copy and sort.
func AggregateSorted(sorted []float64) (Summary, error) {
	if err := checkValues(sorted); err != nil {
		return Summary{}, err
	}
	if !slices.IsSorted(sorted) {
		return Summary{}, ErrUnsorted
	}
	return summarize(sorted), nil
}

func checkValues(values []float64) error {
	if len(values) == 0 {
		return ErrEmptyDataset
	}
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w at index %d: %v", ErrNonFiniteValue, i, v)
		}
	}
	return nil
}

func summarize(sorted []float64) Summary {
	mean, stdDev := stat.PopMeanStdDev(sorted, nil)

	p := Percentiles{
		P10: NearestRank(sorted, 10),
		P25: NearestRank(sorted, 25),
		P50: NearestRank(sorted, 50),
		P75: NearestRank(sorted, 75),
		P90: NearestRank(sorted, 90),
		P95: NearestRank(sorted, 95),
		P99: NearestRank(sorted, 99),
	}

	return Summary{
		Mean:        mean,
		Median:      p.P50,
		Min:         sorted[0],
		Max:         sorted[len(sorted)-1],
		StdDev:      stdDev,
		Percentiles: p,
	}
}

// NearestRank returns sorted[floor(n*k/100)], clamped to the last element.
// sorted must be ascending and non-empty.
func NearestRank(sorted []float64, k int) float64 {
	idx := len(sorted) * k / 100
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
