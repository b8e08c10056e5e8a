// Package histogram bins velocity samples into fixed edges and normalises the
// counts to a probability density.
package histogram

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrMalformedEdges indicates edges that cannot define a histogram.
var ErrMalformedEdges = errors.New("histogram: malformed bin edges")

// Edges is an immutable, strictly increasing sequence of bin boundaries.
// The zero value has no bins.
type Edges struct {
	v      []float64
	widths []float64
}

// Linspace returns n evenly spaced edges from lo to hi inclusive.
func Linspace(lo, hi float64, n int) (Edges, error) {
	if n < 2 {
		return Edges{}, fmt.Errorf("need at least 2 edges, got %d: %w", n, ErrMalformedEdges)
	}
	return NewEdges(floats.Span(make([]float64, n), lo, hi))
}

// NewEdges copies values after checking they are finite and strictly increasing.
func NewEdges(values []float64) (Edges, error) {
	if len(values) < 2 {
		return Edges{}, fmt.Errorf("need at least 2 edges, got %d: %w", len(values), ErrMalformedEdges)
	}
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Edges{}, fmt.Errorf("edge %d is %v: %w", i, v, ErrMalformedEdges)
		}
		if i > 0 && v <= values[i-1] {
			return Edges{}, fmt.Errorf("edge %d (%g) not above edge %d (%g): %w", i, v, i-1, values[i-1], ErrMalformedEdges)
		}
	}

	v := slices.Clone(values)
	widths := make([]float64, len(v)-1)
	for i := range widths {
		widths[i] = v[i+1] - v[i]
	}
	return Edges{v: v, widths: widths}, nil
}

// Bins is len(edges)-1.
func (e Edges) Bins() int { return len(e.widths) }

func (e Edges) Lo() float64 { return e.v[0] }
func (e Edges) Hi() float64 { return e.v[len(e.v)-1] }

func (e Edges) Values() []float64 { return slices.Clone(e.v) }
func (e Edges) Widths() []float64 { return slices.Clone(e.widths) }

// Count bins values. Bins are half-open [a, b) except the last, which also
// holds values equal to the highest edge. Values outside the edges and NaN are
// dropped.
func (e Edges) Count(values []float64) []float64 {
	counts := make([]float64, e.Bins())
	if len(counts) == 0 {
		return counts
	}

	lo, hi := e.Lo(), e.Hi()
	inRange := make([]float64, 0, len(values))
	top := 0.0
	for _, v := range values {
		switch {
		case math.IsNaN(v) || v < lo || v > hi:
		case v == hi:
			top++
		default:
			inRange = append(inRange, v)
		}
	}
	slices.Sort(inRange)

	stat.Histogram(counts, e.v, inRange, nil)
	counts[len(counts)-1] += top
	return counts
}

// Density converts counts to count/total/width so the bars integrate to 1.
// It reports false, and returns nil, when there is nothing to normalise.
func (e Edges) Density(counts []float64) ([]float64, bool) {
	if len(counts) != e.Bins() {
		return nil, false
	}
	total := floats.Sum(counts)
	if total <= 0 {
		return nil, false
	}
	density := make([]float64, len(counts))
	for k, c := range counts {
		density[k] = c / total / e.widths[k]
	}
	return density, true
}
