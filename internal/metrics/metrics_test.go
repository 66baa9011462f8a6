package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/gridopt/internal/dp"
)

var quadratic = dp.Funcs{
	Dynamics: func(x, u float64, k int) float64 { return x + u },
	Stage:    func(x, u float64, k int) float64 { return u * u },
	Terminal: func(x float64, k int) float64 { return x * x },
}

func TestControlEffort(t *testing.T) {
	m := NewControlEffort()
	if m.Value() != 0 {
		t.Error("expected zero effort without samples")
	}

	m.Observe(0, -2, 0)
	m.Observe(0, 1, 1)
	if m.Value() != 1.5 {
		t.Errorf("expected mean |u| 1.5, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero effort after reset")
	}
}

func TestEvaluate(t *testing.T) {
	g, _ := dp.NewGrid([]float64{0, 1})
	res := &dp.Result{
		States:   []float64{0, 0.4, 0.8},
		Controls: []float64{0.4, 0.4},
		Cost:     0,
	}

	got := Evaluate(res, NewControlEffort(), NewRealizedCost(quadratic), NewSnapError(g))

	if math.Abs(got["control_effort"]-0.4) > 1e-12 {
		t.Errorf("expected control effort 0.4, got %f", got["control_effort"])
	}
	if want := 0.16 + 0.16 + 0.64; math.Abs(got["realized_cost"]-want) > 1e-12 {
		t.Errorf("expected realized cost %f, got %f", want, got["realized_cost"])
	}
	if math.Abs(got["snap_error"]-0.4) > 1e-12 {
		t.Errorf("expected snap error 0.4, got %f", got["snap_error"])
	}
}

func TestEvaluate_ResetsBetweenRuns(t *testing.T) {
	res := &dp.Result{States: []float64{1}, Controls: []float64{}}
	m := NewRealizedCost(quadratic)

	Evaluate(res, m)
	got := Evaluate(res, m)
	if got["realized_cost"] != 1 {
		t.Errorf("expected terminal cost 1, got %f", got["realized_cost"])
	}
}
