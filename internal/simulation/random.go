package simulation

import (
	"math"
	"math/rand/v2"
)

// UniformSource yields uniform variates in [0, 1).
// *rand.Rand from math/rand/v2 satisfies it.
type UniformSource interface {
	Float64() float64
}

// NewSource returns a PCG-backed source for the given seed and stream.
// Distinct streams of the same seed are independent.
func NewSource(seed, stream uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, stream))
}

// Sampler draws normally distributed variates from a uniform source using
// the Box-Muller transform. A Sampler is not safe for concurrent use.
type Sampler struct {
	src UniformSource
}

// NewSampler wraps src.
func NewSampler(src UniformSource) *Sampler {
	return &Sampler{src: src}
}

// Normal returns one sample from N(mean, stdDev²).
func (s *Sampler) Normal(mean, stdDev float64) float64 {
	if stdDev == 0 {
		return mean
	}
	u := s.openUnit()
	v := s.openUnit()
	z := math.Sqrt(-2.0*math.Log(u)) * math.Cos(2.0*math.Pi*v)
	return mean + z*stdDev
}

// openUnit maps the source's [0, 1) onto (0, 1) by redrawing zeros.
func (s *Sampler) openUnit() float64 {
	u := s.src.Float64()
	for u == 0 {
		u = s.src.Float64()
	}
	return u
}
