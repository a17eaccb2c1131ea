package simulation

import (
	"math"
	"testing"
)

// sequenceSource replays a fixed list of uniforms, cycling when exhausted.
type sequenceSource struct {
	values []float64
	draws  int
}

func (s *sequenceSource) Float64() float64 {
	v := s.values[s.draws%len(s.values)]
	s.draws++
	return v
}

func TestSampler_Normal(t *testing.T) {
	unitRadius := math.Exp(-0.5) // sqrt(-2 ln u) = 1

	tests := []struct {
		name     string
		values   []float64
		mean     float64
		stdDev   float64
		expected float64
		draws    int
	}{
		{"PlusOneSigma", []float64{unitRadius, 1.0 - 1e-12}, 100, 10, 110, 2},
		{"MinusOneSigma", []float64{unitRadius, 0.5}, 100, 10, 90, 2},
		{"QuarterTurn", []float64{unitRadius, 0.25}, 100, 10, 100, 2},
		{"ZerosAreRedrawn", []float64{0, 0, unitRadius, 0, 0.5}, 100, 10, 90, 5},
		{"DegenerateNoDraws", []float64{0.3}, 42, 0, 42, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &sequenceSource{values: tt.values}
			got := NewSampler(src).Normal(tt.mean, tt.stdDev)
			if math.Abs(got-tt.expected) > 1e-6 {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
			if src.draws != tt.draws {
				t.Errorf("Expected %d uniform draws, got %d", tt.draws, src.draws)
			}
		})
	}
}

func TestSampler_Moments(t *testing.T) {
	s := NewSampler(NewSource(2024, 0))
	const n = 200000

	var sum, sumSq float64
	for range n {
		x := s.Normal(10, 2)
		sum += x
		sumSq += x * x
	}
	mean := sum / n
	variance := sumSq/n - mean*mean

	if math.Abs(mean-10) > 0.05 {
		t.Errorf("Expected sample mean near 10, got %v", mean)
	}
	if math.Abs(math.Sqrt(variance)-2) > 0.05 {
		t.Errorf("Expected sample stdDev near 2, got %v", math.Sqrt(variance))
	}
}

func TestNewSource_Streams(t *testing.T) {
	a := NewSource(1, 0)
	b := NewSource(1, 0)
	c := NewSource(1, 1)

	same, differs := true, false
	for range 10 {
		x, y, z := a.Float64(), b.Float64(), c.Float64()
		if x != y {
			same = false
		}
		if x != z {
			differs = true
		}
	}
	if !same {
		t.Error("Expected identical sequences for the same seed and stream")
	}
	if !differs {
		t.Error("Expected a different sequence for another stream")
	}
}
