package experiment

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/san-kum/gridopt/internal/config"
	"github.com/san-kum/gridopt/internal/dp"
	"github.com/san-kum/gridopt/internal/logging"
	"github.com/san-kum/gridopt/internal/lqr"
	"github.com/san-kum/gridopt/internal/metrics"
	"github.com/san-kum/gridopt/internal/problems"
	"github.com/san-kum/gridopt/internal/storage"
)

// ErrNoReference is returned by Reference for problems without an LQR equivalent.
var ErrNoReference = errors.New("experiment: problem has no closed-form reference")

// Experiment is one configured solve: a problem, its grids and the run options.
type Experiment struct {
	cfg      config.Config
	problem  problems.Definition
	states   dp.Grid
	controls dp.Grid
	logger   *slog.Logger
}

// Outcome is the result of Run.
type Outcome struct {
	Result  *dp.Result
	Metrics map[string]float64
	Elapsed time.Duration
}

// Reference is the closed-form solution of a linear quadratic problem.
type Reference struct {
	States   []float64
	Controls []float64
	Cost     float64
}

func New(cfg *config.Config, registry *problems.Registry, logger *slog.Logger) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	p, err := registry.Get(cfg.Problem, cfg.Params)
	if err != nil {
		return nil, err
	}
	states, controls, err := cfg.Grids()
	if err != nil {
		return nil, err
	}

	return &Experiment{
		cfg:      *cfg,
		problem:  p,
		states:   states,
		controls: controls,
		logger:   logger,
	}, nil
}

func (e *Experiment) Problem() problems.Definition { return e.problem }
func (e *Experiment) StateGrid() dp.Grid           { return e.states }
func (e *Experiment) ControlGrid() dp.Grid         { return e.controls }

func (e *Experiment) Run() (*Outcome, error) {
	opts := []dp.Option{dp.WithLogger(e.logger)}
	if e.cfg.Workers > 0 {
		opts = append(opts, dp.WithWorkers(e.cfg.Workers))
	}

	e.logger.Info("solving",
		"problem", e.cfg.Problem,
		"x0", e.cfg.X0,
		"horizon", e.cfg.Horizon,
		"states", e.states.Len(),
		"controls", e.controls.Len(),
	)

	start := time.Now()
	res, err := dp.Solve(e.problem, e.cfg.X0, e.cfg.Horizon, e.states, e.controls, opts...)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)

	m := metrics.Evaluate(res,
		metrics.NewControlEffort(),
		metrics.NewRealizedCost(e.problem),
		metrics.NewSnapError(e.states),
	)
	m["cost_gap"] = m["realized_cost"] - res.Cost

	return &Outcome{Result: res, Metrics: m, Elapsed: elapsed}, nil
}

// Reference solves the same problem in closed form when it is linear quadratic.
func (e *Experiment) Reference() (*Reference, error) {
	lin, ok := e.problem.(problems.Linear)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoReference, e.cfg.Problem)
	}

	sch, err := lqr.Solve(lin.Model(), e.cfg.Horizon)
	if err != nil {
		return nil, err
	}
	states, controls, cost := sch.ScalarRollout(e.cfg.X0)
	return &Reference{States: states, Controls: controls, Cost: cost}, nil
}

// Metadata describes an outcome for storage.
func (e *Experiment) Metadata(out *Outcome) storage.RunMetadata {
	return storage.RunMetadata{
		Problem:  e.cfg.Problem,
		Params:   e.problem.GetParams(),
		X0:       e.cfg.X0,
		Horizon:  e.cfg.Horizon,
		States:   storage.DescribeGrid(e.states),
		Controls: storage.DescribeGrid(e.controls),
		Cost:     out.Result.Cost,
		Elapsed:  out.Elapsed,
		Metrics:  out.Metrics,
	}
}
