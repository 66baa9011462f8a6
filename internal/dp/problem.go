package dp

// Problem supplies the dynamics and costs of an optimal control problem.
// Implementations must not have side effects visible to the solver and, when
// the solver runs with more than one worker, must tolerate concurrent calls.
type Problem interface {
	// Next returns the successor state f(x, u, k).
	Next(x, u float64, k int) float64
	// StageCost returns V(x, u, k).
	StageCost(x, u float64, k int) float64
	// TerminalCost returns S(x, k).
	TerminalCost(x float64, k int) float64
}

// Funcs adapts three plain functions to the Problem interface.
type Funcs struct {
	Dynamics func(x, u float64, k int) float64
	Stage    func(x, u float64, k int) float64
	Terminal func(x float64, k int) float64
}

func (f Funcs) Next(x, u float64, k int) float64      { return f.Dynamics(x, u, k) }
func (f Funcs) StageCost(x, u float64, k int) float64 { return f.Stage(x, u, k) }
func (f Funcs) TerminalCost(x float64, k int) float64 { return f.Terminal(x, k) }
