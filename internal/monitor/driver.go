// Package monitor turns engine ticks into chart artifacts. A [Driver] is
// invoked once per scheduler tick; it steps the engine and hands the result
// to a [Chart], which displays then draw from.
package monitor

import (
	"fmt"
	"log/slog"

	"github.com/san-kum/convmon/internal/kinetic"
	"github.com/san-kum/convmon/internal/logging"
)

// Stepper is the part of the engine the driver needs.
type Stepper interface {
	Step() kinetic.StepResult
	Check() error
}

// Disperser is implemented by engines that can report swarm spread.
type Disperser interface {
	Dispersion() float64
}

type Driver struct {
	engine Stepper
	chart  *Chart
	logger *slog.Logger
	last   kinetic.StepResult
	ticks  int
}

func NewDriver(engine Stepper, chart *Chart, logger *slog.Logger) *Driver {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Driver{engine: engine, chart: chart, logger: logger}
}

// Tick runs one simulation step and redraws the chart. tick is the
// scheduler's frame index. An error means the engine state is unusable and
// the run must stop.
func (d *Driver) Tick(tick int) (Changed, error) {
	res := d.engine.Step()
	if err := d.engine.Check(); err != nil {
		return 0, fmt.Errorf("frame %d: %w", tick, err)
	}
	// the scheduler's frame index drives the time axis
	res.Tick = tick

	changed := d.chart.Apply(res)
	d.last = res
	d.ticks++

	logging.Trace(d.logger, "tick",
		"frame", tick,
		"mean_velocity", res.MeanVelocity,
		"history", len(res.History),
		"changed", changed.String(),
	)
	return changed, nil
}

func (d *Driver) Chart() *Chart { return d.chart }

// Last is the most recent step result; the zero value before the first tick.
func (d *Driver) Last() kinetic.StepResult { return d.last }

// Ticks counts successful ticks.
func (d *Driver) Ticks() int { return d.ticks }

// Dispersion reports the engine's spread when it can compute one.
func (d *Driver) Dispersion() (float64, bool) {
	if ds, ok := d.engine.(Disperser); ok {
		return ds.Dispersion(), true
	}
	return 0, false
}
