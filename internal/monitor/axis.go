package monitor

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

const (
	DefaultMinWindow  = 100
	DefaultLead       = 10
	DefaultLowFactor  = 0.5
	DefaultHighFactor = 2.0
	DefaultFloor      = 1e-5
	DefaultDensityMax = 2.5
)

// AxisPolicy decides how the chart axes follow the data.
type AxisPolicy struct {
	// MinWindow is the smallest upper bound of the time axis.
	MinWindow int
	// Lead keeps the time axis this many ticks ahead of the current one.
	Lead int
	// LowFactor and HighFactor scale the history min and max into the
	// value-axis limits.
	LowFactor  float64
	HighFactor float64
	// Floor is the smallest lower value limit; the axis is logarithmic.
	Floor float64
	// DensityMax is the fixed upper limit of the histogram's density axis.
	DensityMax float64
}

func DefaultAxisPolicy() AxisPolicy {
	return AxisPolicy{
		MinWindow:  DefaultMinWindow,
		Lead:       DefaultLead,
		LowFactor:  DefaultLowFactor,
		HighFactor: DefaultHighFactor,
		Floor:      DefaultFloor,
		DensityMax: DefaultDensityMax,
	}
}

func (p AxisPolicy) Validate() error {
	if p.MinWindow <= 0 {
		return fmt.Errorf("min window must be positive, got %d", p.MinWindow)
	}
	if p.Lead < 0 {
		return fmt.Errorf("lead must be non-negative, got %d", p.Lead)
	}
	if !(p.LowFactor > 0) || !(p.HighFactor >= 1) {
		return fmt.Errorf("value margins must satisfy low > 0 and high >= 1, got %g/%g", p.LowFactor, p.HighFactor)
	}
	if !(p.Floor > 0) {
		return fmt.Errorf("floor must be positive for a log axis, got %g", p.Floor)
	}
	if !(p.DensityMax > 0) {
		return fmt.Errorf("density max must be positive, got %g", p.DensityMax)
	}
	return nil
}

// Limits is a closed axis range.
type Limits struct {
	Min, Max float64
}

// TimeLimit is the upper bound of the time axis after tick.
func (p AxisPolicy) TimeLimit(tick int) float64 {
	return float64(max(p.MinWindow, tick+p.Lead))
}

// ValueLimits computes log-safe limits around the history. It reports false
// for an empty history.
func (p AxisPolicy) ValueLimits(history []float64) (Limits, bool) {
	if len(history) == 0 {
		return Limits{}, false
	}
	lo := math.Max(floats.Min(history)*p.LowFactor, p.Floor)
	hi := floats.Max(history) * p.HighFactor
	if !(hi > lo) {
		hi = lo * 10
	}
	return Limits{Min: lo, Max: hi}, true
}
