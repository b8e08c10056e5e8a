package kinetic

import "math/rand/v2"

// Source is the engine's deterministic noise source.
type Source struct {
	r *rand.Rand
}

// NewSource creates a deterministic source from seed.
func NewSource(seed int64) *Source {
	return &Source{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

// Normal returns a sample from N(0, sigma^2).
func (s *Source) Normal(sigma float64) float64 {
	return s.r.NormFloat64() * sigma
}

// Uniform returns a sample in [lo, hi).
func (s *Source) Uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*s.r.Float64()
}
