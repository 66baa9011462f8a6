package dp

import "fmt"

// Result is an optimal trajectory together with the tables it was replayed from.
type Result struct {
	States   []float64 // x_opt, Horizon+1 values starting at x0
	Controls []float64 // u_opt, Horizon values
	Cost     float64   // J_opt, cost-to-go at the grid point nearest x0
	CostToGo *Table
	Policy   *Table
}

// Horizon returns the number of control steps in the trajectory.
func (r *Result) Horizon() int { return len(r.Controls) }

// Simulate replays the policy from x0. At every step the realized state is
// snapped to the nearest grid point only to look up the control; the state
// itself evolves through the unsnapped dynamics. The reported cost is the
// table value at time 0 and is not recomputed from the realized trajectory.
func Simulate(p Problem, states Grid, t *Tables, x0 float64) (*Result, error) {
	if p == nil {
		return nil, ErrNilProblem
	}
	if states.Len() == 0 {
		return nil, fmt.Errorf("%w: empty state grid", ErrInvalidGrid)
	}
	if !isFinite(x0) {
		return nil, fmt.Errorf("%w: x0=%v", ErrInvalidState, x0)
	}
	if err := checkTables(t, states.Len()); err != nil {
		return nil, err
	}

	horizon := t.Horizon
	xs := make([]float64, horizon+1)
	us := make([]float64, horizon)
	xs[0] = x0

	for k := 0; k < horizon; k++ {
		u := t.Policy.At(states.Nearest(xs[k]), k)
		next, err := step(p, xs[k], u, k)
		if err != nil {
			return nil, err
		}
		us[k] = u
		xs[k+1] = next
	}

	return &Result{
		States:   xs,
		Controls: us,
		Cost:     t.CostToGo.At(states.Nearest(x0), 0),
		CostToGo: t.CostToGo,
		Policy:   t.Policy,
	}, nil
}

func step(p Problem, x, u float64, k int) (next float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &CallbackError{Func: FuncDynamics, State: x, Control: u, HasControl: true, Step: k, Wrapped: &PanicError{Value: r}}
		}
	}()

	next = p.Next(x, u, k)
	if !isFinite(next) {
		return 0, &CallbackError{Func: FuncDynamics, State: x, Control: u, HasControl: true, Step: k, Value: next}
	}
	return next, nil
}

func checkTables(t *Tables, rows int) error {
	switch {
	case t == nil || t.CostToGo == nil || t.Policy == nil:
		return fmt.Errorf("%w: missing table", ErrIncompleteTables)
	case t.Horizon < 0:
		return fmt.Errorf("%w: got %d", ErrInvalidHorizon, t.Horizon)
	case t.CostToGo.Rows() != rows || t.Policy.Rows() != rows:
		return fmt.Errorf("%w: tables have %d/%d rows, grid has %d points",
			ErrIncompleteTables, t.CostToGo.Rows(), t.Policy.Rows(), rows)
	case t.CostToGo.Cols() != t.Horizon+1 || t.Policy.Cols() != t.Horizon:
		return fmt.Errorf("%w: tables do not span horizon %d", ErrIncompleteTables, t.Horizon)
	case !t.CostToGo.Filled() || !t.Policy.Filled():
		return fmt.Errorf("%w: unset cells", ErrIncompleteTables)
	}
	return nil
}
