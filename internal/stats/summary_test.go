package stats

import (
	"errors"
	"math"
	"slices"
	"testing"
)

func TestAggregate(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected Summary
	}{
		{
			name:   "SingleItem",
			values: []float64{42},
			expected: Summary{
				Mean: 42, Median: 42, Min: 42, Max: 42, StdDev: 0,
				Percentiles: Percentiles{P10: 42, P25: 42, P50: 42, P75: 42, P90: 42, P95: 42, P99: 42},
			},
		},
		{
			name:   "OneToTenUnsorted",
			values: []float64{7, 3, 10, 1, 5, 9, 2, 8, 4, 6},
			expected: Summary{
				Mean: 5.5, Median: 6, Min: 1, Max: 10, StdDev: math.Sqrt(8.25),
				Percentiles: Percentiles{P10: 2, P25: 3, P50: 6, P75: 8, P90: 10, P95: 10, P99: 10},
			},
		},
		{
			name:   "Constant",
			values: []float64{3, 3, 3, 3},
			expected: Summary{
				Mean: 3, Median: 3, Min: 3, Max: 3, StdDev: 0,
				Percentiles: Percentiles{P10: 3, P25: 3, P50: 3, P75: 3, P90: 3, P95: 3, P99: 3},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Aggregate(tt.values)
			if err != nil {
				t.Fatalf("Aggregate() unexpected error: %v", err)
			}
			if got.Percentiles != tt.expected.Percentiles {
				t.Errorf("Expected percentiles %+v, got %+v", tt.expected.Percentiles, got.Percentiles)
			}
			if got.Median != tt.expected.Median || got.Min != tt.expected.Min || got.Max != tt.expected.Max {
				t.Errorf("Expected median/min/max %v/%v/%v, got %v/%v/%v",
					tt.expected.Median, tt.expected.Min, tt.expected.Max, got.Median, got.Min, got.Max)
			}
			if math.Abs(got.Mean-tt.expected.Mean) > 1e-9 {
				t.Errorf("Expected mean %v, got %v", tt.expected.Mean, got.Mean)
			}
			if math.Abs(got.StdDev-tt.expected.StdDev) > 1e-9 {
				t.Errorf("Expected stdDev %v, got %v", tt.expected.StdDev, got.StdDev)
			}
		})
	}
}

func TestAggregate_Errors(t *testing.T) {
	if _, err := Aggregate(nil); !errors.Is(err, ErrEmptyDataset) {
		t.Errorf("Expected ErrEmptyDataset, got %v", err)
	}
	if _, err := Aggregate([]float64{1, math.NaN()}); !errors.Is(err, ErrNonFiniteValue) {
		t.Errorf("Expected ErrNonFiniteValue for NaN, got %v", err)
	}
	if _, err := Aggregate([]float64{math.Inf(1)}); !errors.Is(err, ErrNonFiniteValue) {
		t.Errorf("Expected ErrNonFiniteValue for +Inf, got %v", err)
	}
}

func TestAggregate_SideEffectProtection(t *testing.T) {
	original := []float64{50, 10, 30, 5, 100}
	input := slices.Clone(original)

	if _, err := Aggregate(input); err != nil {
		t.Fatalf("Aggregate() unexpected error: %v", err)
	}
	if !slices.Equal(input, original) {
		t.Errorf("REGRESSION: Aggregate mutated the input slice!\nExpected: %v\nGot:      %v", original, input)
	}
}

func TestAggregate_Ordering(t *testing.T) {
	values := make([]float64, 0, 997)
	for i := range 997 {
		values = append(values, float64((i*7919)%997)*1.5)
	}

	s, err := Aggregate(values)
	if err != nil {
		t.Fatalf("Aggregate() unexpected error: %v", err)
	}

	ordered := []float64{s.Min, s.Percentiles.P10, s.Percentiles.P25, s.Percentiles.P50,
		s.Percentiles.P75, s.Percentiles.P90, s.Percentiles.P95, s.Percentiles.P99, s.Max}
	if !slices.IsSorted(ordered) {
		t.Errorf("Expected non-decreasing percentiles, got %v", ordered)
	}
	if s.Median != s.Percentiles.P50 {
		t.Errorf("Expected median %v to equal p50 %v", s.Median, s.Percentiles.P50)
	}
}

func TestPercentiles_Lookup(t *testing.T) {
	p := Percentiles{P10: 1, P25: 2, P50: 3, P75: 4, P90: 5, P95: 6, P99: 7}

	for i, k := range PercentileRanks {
		got, ok := p.Lookup(k)
		if !ok || got != float64(i+1) {
			t.Errorf("Lookup(%d) = %v, %v; want %v, true", k, got, ok, i+1)
		}
	}
	if _, ok := p.Lookup(33); ok {
		t.Error("Expected Lookup(33) to report a missing rank")
	}
}

func TestNearestRank(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}
	tests := []struct {
		k        int
		expected float64
	}{
		{0, 1}, {24, 1}, {25, 2}, {50, 3}, {99, 4}, {100, 4},
	}
	for _, tt := range tests {
		if got := NearestRank(sorted, tt.k); got != tt.expected {
			t.Errorf("NearestRank(k=%d) = %v, want %v", tt.k, got, tt.expected)
		}
	}
}

func TestAggregateSorted(t *testing.T) {
	values := []float64{5, 10, 30, 50, 100, 100, 250}
	want, err := Aggregate(values)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	got, err := AggregateSorted(values)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got != want {
		t.Errorf("Expected %+v, got %+v", want, got)
	}

	if _, err := AggregateSorted([]float64{3, 1, 2}); !errors.Is(err, ErrUnsorted) {
		t.Errorf("Expected ErrUnsorted, got %v", err)
	}
	if _, err := AggregateSorted(nil); !errors.Is(err, ErrEmptyDataset) {
		t.Errorf("Expected ErrEmptyDataset, got %v", err)
	}
	if _, err := AggregateSorted([]float64{1, math.Inf(1)}); !errors.Is(err, ErrNonFiniteValue) {
		t.Errorf("Expected ErrNonFiniteValue, got %v", err)
	}
}
