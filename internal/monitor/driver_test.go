package monitor_test

import (
	"bytes"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/convmon/internal/kinetic"
	"github.com/san-kum/convmon/internal/logging"
	"github.com/san-kum/convmon/internal/monitor"
)

type failingEngine struct {
	steps int
	err   error
}

func (f *failingEngine) Step() kinetic.StepResult {
	f.steps++
	return kinetic.StepResult{Velocities: []float64{1}, History: []float64{1}}
}

func (f *failingEngine) Check() error { return f.err }

var _ = Describe("Driver", func() {
	var (
		eng    *kinetic.Engine
		driver *monitor.Driver
	)

	BeforeEach(func() {
		var err error
		eng, err = kinetic.New(kinetic.Params{Nodes: 200, Alpha: 0.15, NoiseStd: 0.05, Spread: 10, Seed: 8})
		Expect(err).NotTo(HaveOccurred())
		driver = monitor.NewDriver(eng, monitor.NewChart(defaultEdges(), monitor.DefaultAxisPolicy()), nil)
	})

	It("steps the engine once per tick", func() {
		for frame := 0; frame < 12; frame++ {
			changed, err := driver.Tick(frame)
			Expect(err).NotTo(HaveOccurred())
			Expect(changed.Has(monitor.ChangedLine)).To(BeTrue())
		}
		Expect(eng.Ticks()).To(Equal(12))
		Expect(driver.Ticks()).To(Equal(12))
		Expect(driver.Chart().Line.Y).To(HaveLen(12))
		Expect(driver.Last().Velocities).To(HaveLen(200))
	})

	It("drives the time axis from the scheduler frame", func() {
		_, err := driver.Tick(250)
		Expect(err).NotTo(HaveOccurred())
		Expect(driver.Chart().TimeX.Max).To(BeNumerically("==", 260))
		Expect(driver.Last().Tick).To(Equal(250))
	})

	It("reports dispersion from the engine", func() {
		d, ok := driver.Dispersion()
		Expect(ok).To(BeTrue())
		Expect(d).To(BeNumerically("~", eng.Dispersion(), 1e-12))
	})

	It("stops on an invalid engine state", func() {
		bad := &failingEngine{err: kinetic.ErrInvalidState}
		chart := monitor.NewChart(defaultEdges(), monitor.DefaultAxisPolicy())
		d := monitor.NewDriver(bad, chart, nil)

		_, err := d.Tick(4)
		Expect(errors.Is(err, kinetic.ErrInvalidState)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("frame 4"))
		Expect(d.Ticks()).To(BeZero())
		Expect(chart.Line.Y).To(BeEmpty())

		_, ok := d.Dispersion()
		Expect(ok).To(BeFalse())
	})

	It("traces every tick", func() {
		var buf bytes.Buffer
		d := monitor.NewDriver(eng, monitor.NewChart(defaultEdges(), monitor.DefaultAxisPolicy()), logging.NewLogger("trace", &buf))
		_, err := d.Tick(0)
		Expect(err).NotTo(HaveOccurred())
		Expect(buf.String()).To(ContainSubstring("mean_velocity="))
		Expect(buf.String()).To(ContainSubstring("bars|line|time-axis"))
	})
})
