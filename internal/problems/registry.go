// Package problems holds named problem definitions for the solver.
package problems

import (
	"fmt"
	"sort"

	"github.com/san-kum/gridopt/internal/dp"
	"github.com/san-kum/gridopt/internal/lqr"
)

// Definition is a problem together with its current parameters.
type Definition interface {
	dp.Problem
	GetParams() map[string]float64
}

// Linear is implemented by problems with an LQR equivalent.
type Linear interface {
	Model() lqr.Model
}

type Registry struct {
	problems map[string]func(map[string]float64) (Definition, error)
}

func NewRegistry() *Registry {
	r := &Registry{
		problems: make(map[string]func(map[string]float64) (Definition, error)),
	}

	r.problems["linear-quadratic"] = func(params map[string]float64) (Definition, error) {
		p := NewLinearQuadratic()
		err := apply(params, map[string]*float64{
			"a": &p.A, "b": &p.B, "q": &p.Q, "r": &p.R, "qf": &p.Qf, "target": &p.Target,
		})
		return p, err
	}
	r.problems["swing"] = func(params map[string]float64) (Definition, error) {
		p := NewSwing()
		err := apply(params, map[string]*float64{
			"dt": &p.Dt, "g": &p.G, "q": &p.Q, "r": &p.R, "qf": &p.Qf,
		})
		return p, err
	}

	return r
}

// Get builds the named problem, overriding its defaults with params.
func (r *Registry) Get(name string, params map[string]float64) (Definition, error) {
	fn, ok := r.problems[name]
	if !ok {
		return nil, fmt.Errorf("unknown problem: %s (available: %v)", name, r.Names())
	}
	p, err := fn(params)
	if err != nil {
		return nil, fmt.Errorf("problem %s: %w", name, err)
	}
	return p, nil
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.problems))
	for name := range r.problems {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func apply(params map[string]float64, fields map[string]*float64) error {
	for name, v := range params {
		f, ok := fields[name]
		if !ok {
			return fmt.Errorf("unknown parameter: %s", name)
		}
		*f = v
	}
	return nil
}
