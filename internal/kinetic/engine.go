package kinetic

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat"
)

// Engine owns the node positions and the mean-velocity history.
type Engine struct {
	params  Params
	nodes   []r2.Vec
	history []float64
	offset  int
	ticks   int
	rng     *Source

	// scratch for per-axis means
	xs, ys []float64
}

// New scatters p.Nodes nodes uniformly over [-Spread, Spread]^2 using the
// seeded source, which then keeps supplying the per-tick noise.
func New(p Params) (*Engine, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	rng := NewSource(p.Seed)
	nodes := make([]r2.Vec, p.Nodes)
	for i := range nodes {
		nodes[i] = r2.Vec{
			X: rng.Uniform(-p.Spread, p.Spread),
			Y: rng.Uniform(-p.Spread, p.Spread),
		}
	}
	return newEngine(p, nodes, rng), nil
}

// NewWithPositions starts from a copy of pos. Engines built from the same
// positions and seed evolve identically.
func NewWithPositions(p Params, pos []r2.Vec) (*Engine, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if len(pos) != p.Nodes {
		return nil, fmt.Errorf("got %d positions for %d nodes: %w", len(pos), p.Nodes, ErrDimensionMismatch)
	}
	return newEngine(p, slices.Clone(pos), NewSource(p.Seed)), nil
}

func newEngine(p Params, nodes []r2.Vec, rng *Source) *Engine {
	return &Engine{
		params: p,
		nodes:  nodes,
		rng:    rng,
		xs:     make([]float64, len(nodes)),
		ys:     make([]float64, len(nodes)),
	}
}

// Step advances every node by alpha*(centroid-p) plus noise and records the
// mean displacement magnitude.
func (e *Engine) Step() StepResult {
	c := e.Centroid()
	alpha, sigma := e.params.Alpha, e.params.NoiseStd

	velocities := make([]float64, len(e.nodes))
	for i, p := range e.nodes {
		drift := r2.Scale(alpha, r2.Sub(c, p))
		noise := r2.Vec{X: e.rng.Normal(sigma), Y: e.rng.Normal(sigma)}
		move := r2.Add(drift, noise)
		e.nodes[i] = r2.Add(p, move)
		velocities[i] = r2.Norm(move)
	}

	mean := 0.0
	if len(velocities) > 0 {
		mean = stat.Mean(velocities, nil)
	}
	e.record(mean)

	tick := e.ticks
	e.ticks++
	return StepResult{
		Tick:          tick,
		Velocities:    velocities,
		MeanVelocity:  mean,
		History:       e.History(),
		HistoryOffset: e.offset,
	}
}

// record appends to the history. Trimming reslices instead of shifting so
// views handed out earlier never see their elements change.
func (e *Engine) record(v float64) {
	e.history = append(e.history, v)
	if limit := e.params.HistoryLimit; limit > 0 && len(e.history) > limit {
		drop := len(e.history) - limit
		e.history = e.history[drop:]
		e.offset += drop
	}
}

// Centroid returns the mean node position, or the origin for an empty swarm.
func (e *Engine) Centroid() r2.Vec {
	if len(e.nodes) == 0 {
		return r2.Vec{}
	}
	for i, p := range e.nodes {
		e.xs[i], e.ys[i] = p.X, p.Y
	}
	return r2.Vec{X: stat.Mean(e.xs, nil), Y: stat.Mean(e.ys, nil)}
}

// Dispersion is the RMS distance of the nodes from their centroid.
func (e *Engine) Dispersion() float64 {
	if len(e.nodes) == 0 {
		return 0
	}
	c := e.Centroid()
	sum := 0.0
	for _, p := range e.nodes {
		d := r2.Sub(p, c)
		sum += r2.Dot(d, d)
	}
	return math.Sqrt(sum / float64(len(e.nodes)))
}

// Check reports the first node whose position is no longer finite.
func (e *Engine) Check() error {
	for i, p := range e.nodes {
		if !finite(p.X) || !finite(p.Y) {
			return &SimulationError{Tick: e.ticks, Node: i, Wrapped: ErrInvalidState}
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// History returns a read-only view of the retained mean-velocity history.
func (e *Engine) History() []float64 { return slices.Clip(e.history) }

// HistoryOffset is the tick index of History()[0].
func (e *Engine) HistoryOffset() int { return e.offset }

// Positions returns a copy of the node positions.
func (e *Engine) Positions() []r2.Vec { return slices.Clone(e.nodes) }

func (e *Engine) Ticks() int     { return e.ticks }
func (e *Engine) Nodes() int     { return len(e.nodes) }
func (e *Engine) Params() Params { return e.params }
