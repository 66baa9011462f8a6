// Package metrics evaluates realized trajectories.
package metrics

import (
	"math"

	"github.com/san-kum/gridopt/internal/dp"
)

type Metric interface {
	Name() string
	Observe(x, u float64, k int)
	Value() float64
	Reset()
}

// Finisher is implemented by metrics that also look at the final state.
type Finisher interface {
	Finish(x float64, k int)
}

// Evaluate resets the metrics, replays the trajectory through them and
// returns their values by name.
func Evaluate(res *dp.Result, ms ...Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		m.Reset()
		for k, u := range res.Controls {
			m.Observe(res.States[k], u, k)
		}
		if f, ok := m.(Finisher); ok {
			n := len(res.Controls)
			f.Finish(res.States[n], n)
		}
		out[m.Name()] = m.Value()
	}
	return out
}

type ControlEffort struct {
	name    string
	sum     float64
	samples int
}

func NewControlEffort() *ControlEffort {
	return &ControlEffort{
		name: "control_effort",
	}
}

func (c *ControlEffort) Name() string {
	return c.name
}

func (c *ControlEffort) Observe(x, u float64, k int) {
	c.sum += math.Abs(u)
	c.samples++
}

func (c *ControlEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ControlEffort) Reset() {
	c.sum = 0
	c.samples = 0
}

// RealizedCost sums stage costs along the realized trajectory plus the
// terminal cost of its final state. Under grid snapping it may differ from
// the table cost reported by the solver.
type RealizedCost struct {
	problem dp.Problem
	total   float64
}

func NewRealizedCost(p dp.Problem) *RealizedCost {
	return &RealizedCost{problem: p}
}

func (r *RealizedCost) Name() string { return "realized_cost" }

func (r *RealizedCost) Observe(x, u float64, k int) {
	r.total += r.problem.StageCost(x, u, k)
}

func (r *RealizedCost) Finish(x float64, k int) {
	r.total += r.problem.TerminalCost(x, k)
}

func (r *RealizedCost) Value() float64 { return r.total }

func (r *RealizedCost) Reset() { r.total = 0 }

// SnapError is the largest distance between a realized state and the grid
// point used to look up its control.
type SnapError struct {
	grid dp.Grid
	max  float64
}

func NewSnapError(g dp.Grid) *SnapError {
	return &SnapError{grid: g}
}

func (s *SnapError) Name() string { return "snap_error" }

func (s *SnapError) Observe(x, u float64, k int) {
	s.max = math.Max(s.max, math.Abs(x-s.grid.Snap(x)))
}

func (s *SnapError) Finish(x float64, k int) {
	s.Observe(x, 0, k)
}

func (s *SnapError) Value() float64 { return s.max }

func (s *SnapError) Reset() { s.max = 0 }
