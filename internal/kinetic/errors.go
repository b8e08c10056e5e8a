package kinetic

import (
	"errors"
	"fmt"
)

// Domain errors for engine operations.
var (
	// ErrInvalidState indicates a node position became NaN or Inf.
	ErrInvalidState = errors.New("kinetic: invalid state (NaN or Inf detected)")

	// ErrParameterBounds indicates a parameter value is outside its valid range.
	ErrParameterBounds = errors.New("kinetic: parameter out of valid bounds")

	// ErrDimensionMismatch indicates initial positions that disagree with Params.Nodes.
	ErrDimensionMismatch = errors.New("kinetic: node count does not match initial positions")
)

// SimulationError wraps an error with the tick and node that produced it.
type SimulationError struct {
	Tick    int
	Node    int
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("tick %d node %d: %v", e.Tick, e.Node, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
