package viz

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/convmon/internal/monitor"
)

// drawBars paints the density bars onto c, scaled to the chart's fixed
// density limit. Bars taller than the limit are clipped.
func drawBars(c *Canvas, chart *monitor.Chart) {
	c.Clear()
	bins := len(chart.Bars)
	if bins == 0 {
		return
	}
	w, h := c.PixelSize()
	span := chart.Density.Max - chart.Density.Min
	for k, v := range chart.Bars {
		px := int(math.Round((v - chart.Density.Min) / span * float64(h)))
		if px <= 0 {
			continue
		}
		px = min(px, h)
		x0 := k * w / bins
		x1 := max((k+1)*w/bins-1, x0)
		c.FillRect(x0, h-px, x1, h-1)
	}
}

func renderHistogram(c *Canvas, chart *monitor.Chart, st styles) string {
	drawBars(c, chart)

	var b strings.Builder
	b.WriteString(st.axis.Render(fmt.Sprintf("density ≤ %.1f", chart.Density.Max)) + "\n")
	b.WriteString(st.bars.Render(c.String()) + "\n")

	edges := chart.Edges()
	if edges.Bins() > 0 {
		lo := fmt.Sprintf("%.1f", edges.Lo())
		hi := fmt.Sprintf("%.1f", edges.Hi())
		gap := max(c.Width-len(lo)-len(hi), 1)
		b.WriteString(st.axis.Render(lo + strings.Repeat(" ", gap) + hi))
	}
	b.WriteString("\n" + st.axis.Render("velocity"))
	return b.String()
}

// resampleLog maps the line onto cols columns spanning the time axis. Each
// column holds the mean log10 value of the ticks that fall into it, or NaN
// where there is no data yet; asciigraph leaves NaN columns blank.
func resampleLog(line monitor.Series, axis monitor.Limits, cols int) []float64 {
	out := make([]float64, cols)
	span := axis.Max - axis.Min
	sums := make([]float64, cols)
	counts := make([]int, cols)
	for i, x := range line.X {
		y := line.Y[i]
		if !(y > 0) || x < axis.Min || x >= axis.Max {
			continue
		}
		c := int((x - axis.Min) / span * float64(cols))
		if c >= cols {
			c = cols - 1
		}
		sums[c] += math.Log10(y)
		counts[c]++
	}
	for c := range out {
		if counts[c] == 0 {
			out[c] = math.NaN()
			continue
		}
		out[c] = sums[c] / float64(counts[c])
	}
	return out
}

func renderTrend(chart *monitor.Chart, cols, rows int, st styles) string {
	if len(chart.Line.Y) == 0 {
		return st.axis.Render("waiting for first tick")
	}

	series := resampleLog(chart.Line, chart.TimeX, cols)
	if !slices.ContainsFunc(series, func(v float64) bool { return !math.IsNaN(v) }) {
		return st.axis.Render("no positive samples in window")
	}
	graph := asciigraph.Plot(series,
		asciigraph.Height(rows),
		asciigraph.LowerBound(math.Log10(chart.TimeY.Min)),
		asciigraph.UpperBound(math.Log10(chart.TimeY.Max)),
		asciigraph.Precision(2),
		asciigraph.Caption("log10 mean velocity"),
	)

	lo := fmt.Sprintf("t=%.0f", chart.TimeX.Min)
	hi := fmt.Sprintf("t=%.0f", chart.TimeX.Max)
	gap := max(cols-len(lo)-len(hi), 1)
	return st.graph.Render(graph) + "\n" + st.axis.Render(lo+strings.Repeat(" ", gap)+hi)
}
