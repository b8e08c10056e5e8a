// Package gui shows the monitor in a raylib window. The window itself is only
// compiled with the raylib build tag; the layout math here is shared.
package gui

import (
	"errors"
	"math"
	"time"

	"github.com/san-kum/convmon/internal/monitor"
)

// ErrUnsupported is returned by Run when the binary was built without raylib.
var ErrUnsupported = errors.New("gui: built without the raylib tag")

const (
	DefaultWidth  = 1280
	DefaultHeight = 720
	DefaultTitle  = "convmon"
)

type Options struct {
	Interval time.Duration
	// Ticks closes the tick loop after this many ticks. Zero runs until the
	// window is closed.
	Ticks  int
	Nodes  int
	Title  string
	Width  int
	Height int
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.Title == "" {
		o.Title = DefaultTitle
	}
	return o
}

// Rect is a screen rectangle in pixels, origin top-left.
type Rect struct {
	X, Y, W, H float64
}

type Point struct {
	X, Y float64
}

// panels splits the window below a header strip into the histogram and trend
// areas, side by side with a margin around each.
func panels(width, height int) (hist, trend Rect) {
	const margin, header = 24.0, 64.0
	w := (float64(width) - 3*margin) / 2
	h := float64(height) - header - 2*margin
	hist = Rect{X: margin, Y: header + margin, W: w, H: h}
	trend = Rect{X: 2*margin + w, Y: header + margin, W: w, H: h}
	return hist, trend
}

// barRects lays the density bars out across area, bottom-aligned and scaled to
// the density limits. Bars above the limit are clipped to the area's top.
func barRects(bars []float64, density monitor.Limits, area Rect) []Rect {
	if len(bars) == 0 {
		return nil
	}
	span := density.Max - density.Min
	bw := area.W / float64(len(bars))
	out := make([]Rect, len(bars))
	for k, v := range bars {
		frac := 0.0
		if span > 0 {
			frac = math.Max(0, math.Min((v-density.Min)/span, 1))
		}
		h := frac * area.H
		out[k] = Rect{X: area.X + float64(k)*bw, Y: area.Y + area.H - h, W: bw, H: h}
	}
	return out
}

// trendPoints maps the line onto area with a linear time axis and a log10
// value axis. Non-positive samples cannot sit on a log axis and are skipped.
func trendPoints(line monitor.Series, timeX, timeY monitor.Limits, area Rect) []Point {
	if timeX.Max <= timeX.Min || timeY.Min <= 0 || timeY.Max <= timeY.Min {
		return nil
	}
	lo, hi := math.Log10(timeY.Min), math.Log10(timeY.Max)
	out := make([]Point, 0, len(line.Y))
	for i, y := range line.Y {
		if !(y > 0) {
			continue
		}
		fx := (line.X[i] - timeX.Min) / (timeX.Max - timeX.Min)
		fy := (math.Log10(y) - lo) / (hi - lo)
		fy = math.Max(0, math.Min(fy, 1))
		out = append(out, Point{X: area.X + fx*area.W, Y: area.Y + (1-fy)*area.H})
	}
	return out
}

// budgetSpent reports whether a run with the given budget has done enough ticks.
func budgetSpent(ticks, budget int) bool {
	return budget > 0 && ticks >= budget
}

// driverTicker is the part of monitor.Driver the window loop needs.
type driverTicker interface {
	Tick(tick int) (monitor.Changed, error)
	Chart() *monitor.Chart
}

// pacer steps the driver at a fixed interval from a frame loop that runs at
// its own rate.
type pacer struct {
	driver   driverTicker
	interval time.Duration
	budget   int
	next     time.Time
	ticks    int
}

func newPacer(d driverTicker, interval time.Duration, budget int, now time.Time) *pacer {
	return &pacer{driver: d, interval: interval, budget: budget, next: now}
}

// advance runs every tick that has come due by now. At most one tick runs per
// call so a stalled frame does not trigger a burst.
func (p *pacer) advance(now time.Time) error {
	if budgetSpent(p.ticks, p.budget) || now.Before(p.next) {
		return nil
	}
	if _, err := p.driver.Tick(p.ticks); err != nil {
		return err
	}
	p.ticks++
	p.next = now.Add(p.interval)
	return nil
}

func (p *pacer) done() bool { return budgetSpent(p.ticks, p.budget) }
