// Package dp solves finite-horizon discrete-time optimal control problems by
// exhaustive dynamic programming over a discretized scalar state space and a
// discretized scalar control space.
//
// The package is organized around a few primitives:
//
//   - [Grid]: immutable, strictly increasing set of points with nearest-point lookup
//   - [Problem]: dynamics, stage cost and terminal cost supplied by the caller
//   - [Table]: dense (state index, time index) storage for cost-to-go and policy
//   - [Solver]: Bellman backward recursion producing the cost-to-go and policy tables
//   - [Simulate]: forward replay of the policy from an initial state
//
// Successor states are snapped to the nearest grid point; there is no
// interpolation. Values outside the grid map to the closest endpoint, and
// equidistant points resolve to the lower index.
//
// # Example
//
//	states, _ := dp.Range(-50, 50, 0.02)
//	controls, _ := dp.Range(-10, 10, 0.02)
//	p := dp.Funcs{
//		Dynamics: func(x, u float64, k int) float64 { return 4*x - 6*u },
//		Stage:    func(x, u float64, k int) float64 { return x*x + 2*u*u },
//		Terminal: func(x float64, k int) float64 { return (x - 20) * (x - 20) },
//	}
//	res, err := dp.Solve(p, 8, 2, states, controls)
//
// # Concurrency
//
// Time steps are computed strictly in sequence. Within a time step the states
// are split across workers (see [WithWorkers]); each worker writes only its own
// table cells and the argmin over controls for a cell is always scanned in
// increasing control order, so results are bit-identical for any worker count.
// Problem implementations must be safe for concurrent calls when more than one
// worker is used.
package dp
