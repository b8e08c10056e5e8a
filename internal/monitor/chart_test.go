package monitor_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/convmon/internal/histogram"
	"github.com/san-kum/convmon/internal/kinetic"
	"github.com/san-kum/convmon/internal/monitor"
)

func defaultEdges() histogram.Edges {
	edges, err := histogram.Linspace(0, 5, 40)
	Expect(err).NotTo(HaveOccurred())
	return edges
}

var _ = Describe("Chart", func() {
	var (
		edges histogram.Edges
		chart *monitor.Chart
	)

	BeforeEach(func() {
		edges = defaultEdges()
		chart = monitor.NewChart(edges, monitor.DefaultAxisPolicy())
	})

	It("starts with one empty bar per bin", func() {
		Expect(chart.Bars).To(HaveLen(39))
		for _, b := range chart.Bars {
			Expect(b).To(BeZero())
		}
		Expect(chart.TimeX.Max).To(BeNumerically("==", 100))
		Expect(chart.Density.Max).To(BeNumerically("==", 2.5))
	})

	It("normalises bars so they integrate to one", func() {
		eng, err := kinetic.New(kinetic.Params{Nodes: 500, Alpha: 0.15, NoiseStd: 0.05, Spread: 10, Seed: 3})
		Expect(err).NotTo(HaveOccurred())

		for i := 0; i < 5; i++ {
			changed := chart.Apply(eng.Step())
			Expect(changed.Has(monitor.ChangedBars)).To(BeTrue())

			area := 0.0
			for k, w := range edges.Widths() {
				area += chart.Bars[k] * w
			}
			Expect(area).To(BeNumerically("~", 1.0, 1e-9))
		}
	})

	It("leaves bars unchanged when no velocity lands in a bin", func() {
		chart.Apply(kinetic.StepResult{Velocities: []float64{0.1, 0.2}, History: []float64{0.15}})
		before := append([]float64(nil), chart.Bars...)

		changed := chart.Apply(kinetic.StepResult{Tick: 1, Velocities: nil, History: []float64{0.15, 0}})
		Expect(changed.Has(monitor.ChangedBars)).To(BeFalse())
		Expect(chart.Bars).To(Equal(before))

		changed = chart.Apply(kinetic.StepResult{Tick: 2, Velocities: []float64{7, 9}, History: []float64{0.15, 0, 8}})
		Expect(changed.Has(monitor.ChangedBars)).To(BeFalse())
		Expect(chart.Bars).To(Equal(before))
	})

	It("puts identical velocities into a single bar", func() {
		chart.Apply(kinetic.StepResult{Velocities: []float64{1, 1, 1, 1}, History: []float64{1}})

		nonZero := 0
		for _, b := range chart.Bars {
			if b > 0 {
				nonZero++
				Expect(b).To(BeNumerically("~", 39.0/5.0, 1e-9))
			}
		}
		Expect(nonZero).To(Equal(1))
	})

	It("rebuilds the trend line from the full history", func() {
		chart.Apply(kinetic.StepResult{Tick: 2, History: []float64{3, 2, 1}})
		Expect(chart.Line.X).To(Equal([]float64{0, 1, 2}))
		Expect(chart.Line.Y).To(Equal([]float64{3, 2, 1}))
	})

	It("offsets the trend line when history was trimmed", func() {
		chart.Apply(kinetic.StepResult{Tick: 9, History: []float64{2, 1}, HistoryOffset: 8})
		Expect(chart.Line.X).To(Equal([]float64{8, 9}))
	})

	It("scales the value axis around the history", func() {
		chart.Apply(kinetic.StepResult{History: []float64{0.2, 1.6, 0.4}})
		Expect(chart.TimeY.Min).To(BeNumerically("~", 0.1, 1e-12))
		Expect(chart.TimeY.Max).To(BeNumerically("~", 3.2, 1e-12))
	})

	It("keeps the value axis positive for a log scale", func() {
		chart.Apply(kinetic.StepResult{History: []float64{0, 0}})
		Expect(chart.TimeY.Min).To(BeNumerically("==", monitor.DefaultFloor))
		Expect(chart.TimeY.Max).To(BeNumerically(">", chart.TimeY.Min))
	})

	It("skips the value axis while history is empty", func() {
		before := chart.TimeY
		changed := chart.Apply(kinetic.StepResult{})
		Expect(chart.TimeY).To(Equal(before))
		Expect(changed.Has(monitor.ChangedTimeAxis)).To(BeTrue())
	})

	DescribeTable("time axis never lags the current tick",
		func(tick int, want float64) {
			chart.Apply(kinetic.StepResult{Tick: tick, History: []float64{1}})
			Expect(chart.TimeX.Max).To(BeNumerically(">=", float64(tick)))
			Expect(chart.TimeX.Max).To(BeNumerically("==", want))
			Expect(chart.TimeX.Min).To(BeZero())
		},
		Entry("first tick", 0, 100.0),
		Entry("inside the minimum window", 89, 100.0),
		Entry("at the window edge", 90, 100.0),
		Entry("past the window", 91, 101.0),
		Entry("long run", 5000, 5010.0),
	)
})

var _ = Describe("AxisPolicy", func() {
	It("accepts the defaults", func() {
		Expect(monitor.DefaultAxisPolicy().Validate()).To(Succeed())
	})

	DescribeTable("rejects unusable policies",
		func(mutate func(*monitor.AxisPolicy)) {
			p := monitor.DefaultAxisPolicy()
			mutate(&p)
			Expect(p.Validate()).To(HaveOccurred())
		},
		Entry("zero window", func(p *monitor.AxisPolicy) { p.MinWindow = 0 }),
		Entry("negative lead", func(p *monitor.AxisPolicy) { p.Lead = -1 }),
		Entry("zero floor", func(p *monitor.AxisPolicy) { p.Floor = 0 }),
		Entry("shrinking high factor", func(p *monitor.AxisPolicy) { p.HighFactor = 0.5 }),
		Entry("NaN low factor", func(p *monitor.AxisPolicy) { p.LowFactor = math.NaN() }),
		Entry("zero density max", func(p *monitor.AxisPolicy) { p.DensityMax = 0 }),
	)

	It("reports no value limits for an empty history", func() {
		_, ok := monitor.DefaultAxisPolicy().ValueLimits(nil)
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("Changed", func() {
	It("names the flags it carries", func() {
		Expect(monitor.Changed(0).String()).To(Equal("none"))
		Expect((monitor.ChangedBars | monitor.ChangedTimeAxis).String()).To(Equal("bars|time-axis"))
	})
})
