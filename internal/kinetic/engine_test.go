package kinetic

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func testParams(nodes int, seed int64) Params {
	p := DefaultParams()
	p.Nodes = nodes
	p.Seed = seed
	return p
}

func TestParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Params)
		wantErr bool
	}{
		{"defaults", func(p *Params) {}, false},
		{"zero nodes", func(p *Params) { p.Nodes = 0 }, false},
		{"negative nodes", func(p *Params) { p.Nodes = -1 }, true},
		{"alpha zero", func(p *Params) { p.Alpha = 0 }, true},
		{"alpha one", func(p *Params) { p.Alpha = 1 }, true},
		{"alpha NaN", func(p *Params) { p.Alpha = math.NaN() }, true},
		{"negative noise", func(p *Params) { p.NoiseStd = -0.1 }, true},
		{"infinite noise", func(p *Params) { p.NoiseStd = math.Inf(1) }, true},
		{"zero noise", func(p *Params) { p.NoiseStd = 0 }, false},
		{"zero spread", func(p *Params) { p.Spread = 0 }, true},
		{"negative history limit", func(p *Params) { p.HistoryLimit = -5 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			err := p.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrParameterBounds) {
				t.Errorf("expected ErrParameterBounds, got %v", err)
			}
		})
	}
}

func TestEngine_HistoryLengthMatchesTicks(t *testing.T) {
	eng, err := New(testParams(50, 1))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	for tick := 1; tick <= 25; tick++ {
		res := eng.Step()
		if res.Tick != tick-1 {
			t.Errorf("expected tick index %d, got %d", tick-1, res.Tick)
		}
		if len(eng.History()) != tick {
			t.Fatalf("after %d steps history has %d entries", tick, len(eng.History()))
		}
		if res.History[len(res.History)-1] != res.MeanVelocity {
			t.Errorf("last history entry %v != mean velocity %v", res.History[len(res.History)-1], res.MeanVelocity)
		}
	}
	if eng.Ticks() != 25 {
		t.Errorf("expected 25 ticks, got %d", eng.Ticks())
	}
}

func TestEngine_ShapePreserved(t *testing.T) {
	for _, n := range []int{1, 2, 17, 300} {
		eng, err := New(testParams(n, 7))
		if err != nil {
			t.Fatalf("New(%d) failed: %v", n, err)
		}
		for i := 0; i < 10; i++ {
			res := eng.Step()
			if len(res.Velocities) != n {
				t.Fatalf("n=%d: expected %d velocities, got %d", n, n, len(res.Velocities))
			}
			if got := len(eng.Positions()); got != n {
				t.Fatalf("n=%d: expected %d positions, got %d", n, n, got)
			}
		}
	}
}

func TestEngine_MeanVelocityIsMeanOfVelocities(t *testing.T) {
	eng, _ := New(testParams(64, 3))
	res := eng.Step()

	sum := 0.0
	for _, v := range res.Velocities {
		if v < 0 {
			t.Fatalf("negative velocity %v", v)
		}
		sum += v
	}
	if want := sum / 64; math.Abs(res.MeanVelocity-want) > 1e-12 {
		t.Errorf("mean velocity = %v, want %v", res.MeanVelocity, want)
	}
}

func TestEngine_Deterministic(t *testing.T) {
	pos := []r2.Vec{{X: -3, Y: 4}, {X: 1, Y: 1}, {X: 8, Y: -2}, {X: 0, Y: 0}}
	p := testParams(len(pos), 42)

	a, err := NewWithPositions(p, pos)
	if err != nil {
		t.Fatalf("NewWithPositions failed: %v", err)
	}
	b, _ := NewWithPositions(p, pos)

	for i := 0; i < 100; i++ {
		ra, rb := a.Step(), b.Step()
		for k := range ra.Velocities {
			if ra.Velocities[k] != rb.Velocities[k] {
				t.Fatalf("step %d node %d: velocities diverged %v != %v", i, k, ra.Velocities[k], rb.Velocities[k])
			}
		}
		pa, pb := a.Positions(), b.Positions()
		for k := range pa {
			if pa[k] != pb[k] {
				t.Fatalf("step %d node %d: positions diverged %v != %v", i, k, pa[k], pb[k])
			}
		}
	}
}

func TestEngine_SeedChangesTrajectory(t *testing.T) {
	a, _ := New(testParams(20, 1))
	b, _ := New(testParams(20, 2))
	if a.Step().MeanVelocity == b.Step().MeanVelocity {
		t.Error("different seeds produced identical first step")
	}
}

func TestEngine_DoesNotAliasCallerPositions(t *testing.T) {
	pos := []r2.Vec{{X: 1, Y: 1}, {X: -1, Y: -1}}
	eng, _ := NewWithPositions(testParams(2, 0), pos)
	eng.Step()
	if pos[0] != (r2.Vec{X: 1, Y: 1}) {
		t.Errorf("caller positions mutated: %v", pos[0])
	}
}

func TestEngine_PositionMismatch(t *testing.T) {
	_, err := NewWithPositions(testParams(3, 0), []r2.Vec{{}})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestEngine_NoiselessConvergesGeometrically(t *testing.T) {
	p := testParams(2, 0)
	p.NoiseStd = 0
	eng, _ := NewWithPositions(p, []r2.Vec{{X: -1, Y: 0}, {X: 1, Y: 0}})

	// Each node moves alpha of the way to the centroid, so the distance
	// shrinks by (1-alpha) per tick.
	prev := eng.Step().MeanVelocity
	if math.Abs(prev-p.Alpha) > 1e-12 {
		t.Fatalf("first step velocity = %v, want %v", prev, p.Alpha)
	}
	for i := 0; i < 20; i++ {
		cur := eng.Step().MeanVelocity
		if math.Abs(cur/prev-(1-p.Alpha)) > 1e-9 {
			t.Fatalf("step %d: ratio %v, want %v", i, cur/prev, 1-p.Alpha)
		}
		prev = cur
	}
	if c := eng.Centroid(); math.Abs(c.X) > 1e-12 || math.Abs(c.Y) > 1e-12 {
		t.Errorf("centroid drifted to %v", c)
	}
}

func TestEngine_Converges(t *testing.T) {
	eng, _ := New(testParams(DefaultNodes, 11))
	for i := 0; i < 500; i++ {
		eng.Step()
	}

	if ratio := ConvergenceRatio(eng.History(), 0.1); !(ratio < 1) {
		t.Errorf("expected late/early mean velocity ratio < 1, got %v", ratio)
	}
}

func TestEngine_ZeroNodes(t *testing.T) {
	eng, err := New(testParams(0, 0))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	res := eng.Step()
	if len(res.Velocities) != 0 {
		t.Errorf("expected no velocities, got %d", len(res.Velocities))
	}
	if res.MeanVelocity != 0 {
		t.Errorf("expected zero mean velocity, got %v", res.MeanVelocity)
	}
	if eng.Dispersion() != 0 {
		t.Errorf("expected zero dispersion, got %v", eng.Dispersion())
	}
}

func TestEngine_HistoryLimit(t *testing.T) {
	p := testParams(10, 5)
	p.HistoryLimit = 4
	eng, _ := New(p)

	var early StepResult
	for i := 0; i < 10; i++ {
		res := eng.Step()
		if i == 2 {
			early = res
		}
	}

	if got := len(eng.History()); got != 4 {
		t.Fatalf("expected 4 retained entries, got %d", got)
	}
	if eng.HistoryOffset() != 6 {
		t.Errorf("expected offset 6, got %d", eng.HistoryOffset())
	}
	if len(early.History) != 3 || early.HistoryOffset != 0 {
		t.Errorf("earlier view changed: len=%d offset=%d", len(early.History), early.HistoryOffset)
	}
}

func TestEngine_HistoryViewIsStable(t *testing.T) {
	eng, _ := New(testParams(10, 9))
	first := eng.Step().History
	snapshot := first[0]
	for i := 0; i < 50; i++ {
		eng.Step()
	}
	if len(first) != 1 || first[0] != snapshot {
		t.Errorf("history view changed after further steps: %v", first)
	}
}

func TestEngine_Check(t *testing.T) {
	eng, _ := NewWithPositions(testParams(2, 0), []r2.Vec{{X: 0, Y: 0}, {X: math.NaN(), Y: 0}})
	err := eng.Check()
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	var simErr *SimulationError
	if !errors.As(err, &simErr) || simErr.Node != 1 {
		t.Errorf("expected SimulationError for node 1, got %v", err)
	}

	ok, _ := New(testParams(5, 0))
	ok.Step()
	if err := ok.Check(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestEngine_Dispersion(t *testing.T) {
	eng, _ := NewWithPositions(testParams(2, 0), []r2.Vec{{X: -2, Y: 0}, {X: 2, Y: 0}})
	if d := eng.Dispersion(); math.Abs(d-2) > 1e-12 {
		t.Errorf("expected dispersion 2, got %v", d)
	}
}
