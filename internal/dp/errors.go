package dp

import (
	"errors"
	"fmt"
)

// Domain errors for solver operations.
var (
	// ErrInvalidGrid indicates an empty, unordered or non-finite grid.
	ErrInvalidGrid = errors.New("dp: invalid grid (empty, not strictly increasing or non-finite)")

	// ErrInvalidHorizon indicates a negative horizon length.
	ErrInvalidHorizon = errors.New("dp: horizon must be non-negative")

	// ErrCallback indicates that dynamics, stage cost or terminal cost panicked
	// or produced NaN/Inf.
	ErrCallback = errors.New("dp: problem callback failed")

	// ErrInvalidState indicates a non-finite initial state.
	ErrInvalidState = errors.New("dp: invalid state (NaN or Inf detected)")

	// ErrNilProblem indicates a missing problem definition.
	ErrNilProblem = errors.New("dp: nil problem")

	// ErrIncompleteTables indicates tables that do not match the grid/horizon
	// or still contain unset cells.
	ErrIncompleteTables = errors.New("dp: cost-to-go or policy table incomplete")
)

// Callback names reported in CallbackError.Func.
const (
	FuncDynamics = "dynamics"
	FuncStage    = "stage cost"
	FuncTerminal = "terminal cost"
	FuncCostToGo = "cost-to-go"
)

// CallbackError wraps a callback failure with the (state, control, time)
// triple at which it happened. Control is meaningful only when HasControl is
// set; terminal cost failures carry no control.
type CallbackError struct {
	Func       string
	State      float64
	Control    float64
	HasControl bool
	Step       int
	Value      float64
	Wrapped    error
}

func (e *CallbackError) Error() string {
	where := fmt.Sprintf("x=%g", e.State)
	if e.HasControl {
		where += fmt.Sprintf(", u=%g", e.Control)
	}
	where += fmt.Sprintf(", k=%d", e.Step)

	if e.Wrapped != nil {
		return fmt.Sprintf("%s: %s at (%s): %v", ErrCallback, e.Func, where, e.Wrapped)
	}
	return fmt.Sprintf("%s: %s returned %g at (%s)", ErrCallback, e.Func, e.Value, where)
}

func (e *CallbackError) Unwrap() []error {
	if e.Wrapped == nil {
		return []error{ErrCallback}
	}
	return []error{ErrCallback, e.Wrapped}
}

// PanicError carries a value recovered from a panicking callback.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
