//go:build raylib

package gui

import (
	"context"
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/convmon/internal/monitor"
)

var (
	colBg     = rl.NewColor(10, 10, 10, 255)
	colAccent = rl.NewColor(0, 255, 204, 255)
	colText   = rl.NewColor(140, 140, 140, 255)
	colDim    = rl.NewColor(60, 60, 60, 255)
	colGrid   = rl.NewColor(30, 30, 30, 255)
)

// Run opens the window and ticks driver until the window is closed or ctx is
// canceled. Once the tick budget is spent the last frame stays on screen.
func Run(ctx context.Context, driver *monitor.Driver, opts Options) error {
	opts = opts.withDefaults()

	rl.InitWindow(int32(opts.Width), int32(opts.Height), opts.Title)
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	p := newPacer(driver, opts.Interval, opts.Ticks, time.Now())
	hist, trend := panels(opts.Width, opts.Height)

	for !rl.WindowShouldClose() {
		if ctx.Err() != nil {
			return nil
		}
		if err := p.advance(time.Now()); err != nil {
			return err
		}

		rl.BeginDrawing()
		rl.ClearBackground(colBg)
		drawHeader(opts, p)
		drawHistogram(driver.Chart(), hist)
		drawTrend(driver.Chart(), trend)
		rl.EndDrawing()
	}
	return nil
}

func drawHeader(opts Options, p *pacer) {
	rl.DrawText(fmt.Sprintf("CONVERGENCE MONITOR - %d nodes", opts.Nodes), 24, 20, 24, colAccent)
	status := fmt.Sprintf("tick %d", p.ticks)
	if p.done() {
		status += "  COMPLETE"
	}
	rl.DrawText(status, int32(opts.Width)-260, 24, 20, colText)
}

func drawFrame(area Rect, title string) {
	rl.DrawRectangleLines(int32(area.X), int32(area.Y), int32(area.W), int32(area.H), colGrid)
	rl.DrawText(title, int32(area.X), int32(area.Y)-22, 18, colText)
}

func drawHistogram(chart *monitor.Chart, area Rect) {
	drawFrame(area, "I. VELOCITY DISTRIBUTION")
	for _, r := range barRects(chart.Bars, chart.Density, area) {
		if r.H <= 0 {
			continue
		}
		rl.DrawRectangle(int32(r.X)+1, int32(r.Y), int32(r.W)-1, int32(r.H), colAccent)
	}
	edges := chart.Edges()
	bottom := int32(area.Y + area.H + 6)
	rl.DrawText(fmt.Sprintf("%.1f", edges.Lo()), int32(area.X), bottom, 16, colDim)
	rl.DrawText(fmt.Sprintf("%.1f", edges.Hi()), int32(area.X+area.W)-30, bottom, 16, colDim)
}

func drawTrend(chart *monitor.Chart, area Rect) {
	drawFrame(area, "II. CONVERGENCE TREND (LOG)")
	pts := trendPoints(chart.Line, chart.TimeX, chart.TimeY, area)
	for i := 1; i < len(pts); i++ {
		a := rl.NewVector2(float32(pts[i-1].X), float32(pts[i-1].Y))
		b := rl.NewVector2(float32(pts[i].X), float32(pts[i].Y))
		rl.DrawLineEx(a, b, 2, colAccent)
	}
	rl.DrawText(fmt.Sprintf("%.0e", chart.TimeY.Max), int32(area.X)+4, int32(area.Y)+4, 16, colDim)
	rl.DrawText(fmt.Sprintf("%.0e", chart.TimeY.Min), int32(area.X)+4, int32(area.Y+area.H)-20, 16, colDim)
	bottom := int32(area.Y + area.H + 6)
	rl.DrawText(fmt.Sprintf("t=%.0f", chart.TimeX.Max), int32(area.X+area.W)-60, bottom, 16, colDim)
}
