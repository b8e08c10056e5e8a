package kinetic

import (
	"fmt"
	"math"
)

const (
	DefaultNodes    = 1000
	DefaultAlpha    = 0.15
	DefaultNoiseStd = 0.05
	DefaultSpread   = 10.0
)

// Params configures an Engine. It is copied at construction; later changes
// to the caller's value have no effect on a running engine.
type Params struct {
	Nodes    int
	Alpha    float64
	NoiseStd float64
	// Spread is the half-width of the square nodes are scattered over by New.
	Spread float64
	Seed   int64
	// HistoryLimit caps the retained mean-velocity history. Zero keeps all of it.
	HistoryLimit int
}

func DefaultParams() Params {
	return Params{
		Nodes:    DefaultNodes,
		Alpha:    DefaultAlpha,
		NoiseStd: DefaultNoiseStd,
		Spread:   DefaultSpread,
	}
}

// Validate reports the first parameter outside its valid range.
func (p Params) Validate() error {
	if p.Nodes < 0 {
		return fmt.Errorf("nodes must be non-negative, got %d: %w", p.Nodes, ErrParameterBounds)
	}
	if !(p.Alpha > 0 && p.Alpha < 1) {
		return fmt.Errorf("alpha must be in (0,1), got %g: %w", p.Alpha, ErrParameterBounds)
	}
	if p.NoiseStd < 0 || math.IsNaN(p.NoiseStd) || math.IsInf(p.NoiseStd, 0) {
		return fmt.Errorf("noise std must be finite and non-negative, got %g: %w", p.NoiseStd, ErrParameterBounds)
	}
	if !(p.Spread > 0) || math.IsInf(p.Spread, 0) {
		return fmt.Errorf("spread must be positive, got %g: %w", p.Spread, ErrParameterBounds)
	}
	if p.HistoryLimit < 0 {
		return fmt.Errorf("history limit must be non-negative, got %d: %w", p.HistoryLimit, ErrParameterBounds)
	}
	return nil
}

// StepResult is what a single tick produced.
type StepResult struct {
	// Tick is the zero-based index of the step that produced this result.
	Tick         int
	Velocities   []float64
	MeanVelocity float64
	// History is a read-only view of the retained mean-velocity history,
	// including this tick's value as its last element.
	History []float64
	// HistoryOffset is the tick index of History[0].
	HistoryOffset int
}
