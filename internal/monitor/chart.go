package monitor

import (
	"strings"

	"github.com/san-kum/convmon/internal/histogram"
	"github.com/san-kum/convmon/internal/kinetic"
)

// Changed flags the chart primitives a tick touched.
type Changed uint8

const (
	ChangedBars Changed = 1 << iota
	ChangedLine
	ChangedTimeAxis
)

func (c Changed) Has(flag Changed) bool { return c&flag != 0 }

func (c Changed) String() string {
	if c == 0 {
		return "none"
	}
	var parts []string
	if c.Has(ChangedBars) {
		parts = append(parts, "bars")
	}
	if c.Has(ChangedLine) {
		parts = append(parts, "line")
	}
	if c.Has(ChangedTimeAxis) {
		parts = append(parts, "time-axis")
	}
	return strings.Join(parts, "|")
}

// Series is a polyline.
type Series struct {
	X, Y []float64
}

// Chart holds the two panels' artifacts: histogram bars and the mean-velocity
// trend with its axes. Displays read these fields; only Apply writes them.
type Chart struct {
	edges  histogram.Edges
	policy AxisPolicy

	// Bars are density heights, one per bin, in bin order.
	Bars []float64
	Line Series
	// TimeX and TimeY are the trend panel's limits; TimeY is logarithmic.
	TimeX, TimeY Limits
	Density      Limits
}

func NewChart(edges histogram.Edges, policy AxisPolicy) *Chart {
	return &Chart{
		edges:   edges,
		policy:  policy,
		Bars:    make([]float64, edges.Bins()),
		TimeX:   Limits{Min: 0, Max: float64(policy.MinWindow)},
		TimeY:   Limits{Min: policy.Floor, Max: 1},
		Density: Limits{Min: 0, Max: policy.DensityMax},
	}
}

func (c *Chart) Edges() histogram.Edges { return c.edges }
func (c *Chart) Policy() AxisPolicy      { return c.policy }

// Apply redraws the chart from one tick's result. The histogram and the line
// are rebuilt from scratch every time.
func (c *Chart) Apply(res kinetic.StepResult) Changed {
	var changed Changed

	if density, ok := c.edges.Density(c.edges.Count(res.Velocities)); ok {
		copy(c.Bars, density)
		changed |= ChangedBars
	}

	n := len(res.History)
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(res.HistoryOffset + i)
	}
	c.Line = Series{X: xs, Y: res.History}
	changed |= ChangedLine

	c.TimeX = Limits{Min: 0, Max: c.policy.TimeLimit(res.Tick)}
	if lim, ok := c.policy.ValueLimits(res.History); ok {
		c.TimeY = lim
	}
	changed |= ChangedTimeAxis

	return changed
}
