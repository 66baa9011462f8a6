package dp

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/san-kum/gridopt/internal/logging"
)

// minChunk is the smallest number of states handed to one worker.
const minChunk = 64

// Tables holds the fully populated output of the backward recursion.
// CostToGo has Horizon+1 columns, Policy has Horizon columns.
type Tables struct {
	CostToGo *Table
	Policy   *Table
	Horizon  int
}

// Solver runs the Bellman backward recursion for one problem over fixed
// state and control grids.
type Solver struct {
	problem  Problem
	states   Grid
	controls Grid
	workers  int
	logger   *slog.Logger
}

// Option configures a Solver.
type Option func(*Solver)

// WithWorkers sets the number of goroutines used within one time step.
// Values below one select a single worker.
func WithWorkers(n int) Option {
	return func(s *Solver) {
		if n < 1 {
			n = 1
		}
		s.workers = n
	}
}

// WithLogger sets the logger used for progress reporting.
func WithLogger(l *slog.Logger) Option {
	return func(s *Solver) {
		if l != nil {
			s.logger = l
		}
	}
}

func NewSolver(p Problem, states, controls Grid, opts ...Option) *Solver {
	s := &Solver{
		problem:  p,
		states:   states,
		controls: controls,
		workers:  DefaultWorkers(),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Backward computes the cost-to-go and policy tables for the given horizon.
// Either both tables are returned fully populated or an error is returned.
func (s *Solver) Backward(horizon int) (*Tables, error) {
	if err := s.validate(horizon); err != nil {
		return nil, err
	}

	start := time.Now()
	n := s.states.Len()
	J := NewTable(n, horizon+1)
	U := NewTable(n, horizon)

	err := parallelFor(n, s.workers, minChunk, func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			if err := s.terminal(J, i, horizon); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for k := horizon - 1; k >= 0; k-- {
		stepStart := time.Now()
		err := parallelFor(n, s.workers, minChunk, func(lo, hi int) error {
			for i := lo; i < hi; i++ {
				if err := s.cell(J, U, i, k); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		s.logger.Debug("backward step complete", "k", k, "elapsed", time.Since(stepStart))
	}

	s.logger.Debug("backward recursion complete",
		"states", n,
		"controls", s.controls.Len(),
		"horizon", horizon,
		"workers", s.workers,
		"elapsed", time.Since(start),
	)

	return &Tables{CostToGo: J, Policy: U, Horizon: horizon}, nil
}

func (s *Solver) validate(horizon int) error {
	if s.problem == nil {
		return ErrNilProblem
	}
	if s.states.Len() == 0 {
		return fmt.Errorf("%w: empty state grid", ErrInvalidGrid)
	}
	if s.controls.Len() == 0 {
		return fmt.Errorf("%w: empty control grid", ErrInvalidGrid)
	}
	if horizon < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidHorizon, horizon)
	}
	return nil
}

func (s *Solver) terminal(J *Table, i, horizon int) (err error) {
	x := s.states.At(i)
	defer func() {
		if r := recover(); r != nil {
			err = &CallbackError{Func: FuncTerminal, State: x, Step: horizon, Wrapped: &PanicError{Value: r}}
		}
	}()

	v := s.problem.TerminalCost(x, horizon)
	if !isFinite(v) {
		return &CallbackError{Func: FuncTerminal, State: x, Step: horizon, Value: v}
	}
	J.Set(i, horizon, v)
	return nil
}

// cell computes J[i][k] and U[i][k]. Controls are scanned in increasing
// order with a strict comparison, so the lowest control wins ties.
func (s *Solver) cell(J, U *Table, i, k int) (err error) {
	x := s.states.At(i)
	u := 0.0
	fn := FuncDynamics
	defer func() {
		if r := recover(); r != nil {
			err = &CallbackError{Func: fn, State: x, Control: u, HasControl: true, Step: k, Wrapped: &PanicError{Value: r}}
		}
	}()

	fail := func(v float64) error {
		return &CallbackError{Func: fn, State: x, Control: u, HasControl: true, Step: k, Value: v}
	}

	best := math.Inf(1)
	bestU := math.NaN()
	for j := 0; j < s.controls.Len(); j++ {
		u = s.controls.At(j)

		fn = FuncDynamics
		next := s.problem.Next(x, u, k)
		if !isFinite(next) {
			return fail(next)
		}

		fn = FuncStage
		stage := s.problem.StageCost(x, u, k)
		if !isFinite(stage) {
			return fail(stage)
		}

		fn = FuncCostToGo
		candidate := stage + J.At(s.states.Nearest(next), k+1)
		if !isFinite(candidate) {
			return fail(candidate)
		}

		if candidate < best {
			best = candidate
			bestU = u
		}
	}

	J.Set(i, k, best)
	U.Set(i, k, bestU)
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
