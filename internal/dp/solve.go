package dp

import (
	"fmt"
	"time"
)

// Solve runs the backward recursion over the given grids and replays the
// resulting policy from x0. Any failure aborts the whole call.
func Solve(p Problem, x0 float64, horizon int, states, controls Grid, opts ...Option) (*Result, error) {
	if !isFinite(x0) {
		return nil, fmt.Errorf("%w: x0=%v", ErrInvalidState, x0)
	}

	start := time.Now()
	s := NewSolver(p, states, controls, opts...)
	tables, err := s.Backward(horizon)
	if err != nil {
		return nil, err
	}

	res, err := Simulate(p, states, tables, x0)
	if err != nil {
		return nil, err
	}

	s.logger.Info("solve complete",
		"horizon", horizon,
		"states", states.Len(),
		"controls", controls.Len(),
		"x0", x0,
		"cost", res.Cost,
		"elapsed", time.Since(start),
	)
	return res, nil
}
