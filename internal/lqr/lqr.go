// Package lqr computes finite-horizon discrete-time linear quadratic
// regulators with a terminal target:
//
//	x[k+1] = A x[k] + B u[k]
//	cost   = Σ x'Qx + u'Ru + (x[N]-r)' Qf (x[N]-r)
//
// The value function at step k is V_k(x) = x'P_k x + 2 s_k'x + c_k and the
// optimal control is u = -K_k x - g_k. It serves as a closed-form reference
// for grid-based solutions of linear quadratic problems.
package lqr

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrDimension = errors.New("lqr: dimension mismatch")
	ErrHorizon   = errors.New("lqr: horizon must be non-negative")
	ErrSingular  = errors.New("lqr: R + B'PB is singular")
)

// Model is a linear system with quadratic costs. A nil Target means the
// terminal cost is x'Qf x.
type Model struct {
	A, B   *mat.Dense
	Q, R   *mat.Dense
	Qf     *mat.Dense
	Target *mat.VecDense
}

// Scalar builds the one-dimensional model x' = a x + b u with stage cost
// q x² + r u² and terminal cost qf (x - target)².
func Scalar(a, b, q, r, qf, target float64) Model {
	one := func(v float64) *mat.Dense { return mat.NewDense(1, 1, []float64{v}) }
	return Model{
		A:      one(a),
		B:      one(b),
		Q:      one(q),
		R:      one(r),
		Qf:     one(qf),
		Target: mat.NewVecDense(1, []float64{target}),
	}
}

// Dims returns the state and control dimensions.
func (m Model) Dims() (n, nu int) {
	n, _ = m.A.Dims()
	_, nu = m.B.Dims()
	return n, nu
}

func (m Model) validate() error {
	if m.A == nil || m.B == nil || m.Q == nil || m.R == nil || m.Qf == nil {
		return fmt.Errorf("%w: missing matrix", ErrDimension)
	}
	n, nu := m.Dims()
	check := func(name string, d *mat.Dense, rows, cols int) error {
		if r, c := d.Dims(); r != rows || c != cols {
			return fmt.Errorf("%w: %s is %dx%d, want %dx%d", ErrDimension, name, r, c, rows, cols)
		}
		return nil
	}
	for _, err := range []error{
		check("A", m.A, n, n),
		check("B", m.B, n, nu),
		check("Q", m.Q, n, n),
		check("R", m.R, nu, nu),
		check("Qf", m.Qf, n, n),
	} {
		if err != nil {
			return err
		}
	}
	if m.Target != nil && m.Target.Len() != n {
		return fmt.Errorf("%w: target has %d entries, want %d", ErrDimension, m.Target.Len(), n)
	}
	return nil
}

// Schedule holds the time-varying gains and value function terms of a
// solved model. Slices K and G have Horizon entries; P, S and C have
// Horizon+1.
type Schedule struct {
	Model Model
	K     []*mat.Dense
	G     []*mat.VecDense
	P     []*mat.Dense
	S     []*mat.VecDense
	C     []float64
}

// Solve runs the Riccati recursion backwards from the terminal cost.
func Solve(m Model, horizon int) (*Schedule, error) {
	if err := m.validate(); err != nil {
		return nil, err
	}
	if horizon < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrHorizon, horizon)
	}

	n, _ := m.Dims()
	target := m.Target
	if target == nil {
		target = mat.NewVecDense(n, nil)
	}

	sch := &Schedule{
		Model: m,
		K:     make([]*mat.Dense, horizon),
		G:     make([]*mat.VecDense, horizon),
		P:     make([]*mat.Dense, horizon+1),
		S:     make([]*mat.VecDense, horizon+1),
		C:     make([]float64, horizon+1),
	}

	// V_N(x) = (x-r)'Qf(x-r) = x'Qf x - 2 (Qf r)'x + r'Qf r
	var qfr mat.VecDense
	qfr.MulVec(m.Qf, target)
	sN := mat.NewVecDense(n, nil)
	sN.ScaleVec(-1, &qfr)

	sch.P[horizon] = mat.DenseCopyOf(m.Qf)
	sch.S[horizon] = sN
	sch.C[horizon] = mat.Dot(target, &qfr)

	for k := horizon - 1; k >= 0; k-- {
		P, s, c := sch.P[k+1], sch.S[k+1], sch.C[k+1]

		var pa, pb, btpa, btpb, gram mat.Dense
		pa.Mul(P, m.A)
		pb.Mul(P, m.B)
		btpa.Mul(m.B.T(), &pa)
		btpb.Mul(m.B.T(), &pb)
		gram.Add(m.R, &btpb)

		var bts mat.VecDense
		bts.MulVec(m.B.T(), s)

		K := new(mat.Dense)
		if err := K.Solve(&gram, &btpa); err != nil {
			return nil, fmt.Errorf("%w at k=%d: %v", ErrSingular, k, err)
		}
		g := new(mat.VecDense)
		if err := g.SolveVec(&gram, &bts); err != nil {
			return nil, fmt.Errorf("%w at k=%d: %v", ErrSingular, k, err)
		}

		var atpa, corr mat.Dense
		atpa.Mul(m.A.T(), &pa)
		corr.Mul(btpa.T(), K)
		Pk := new(mat.Dense)
		Pk.Add(m.Q, &atpa)
		Pk.Sub(Pk, &corr)

		var ats, ktbts mat.VecDense
		ats.MulVec(m.A.T(), s)
		ktbts.MulVec(K.T(), &bts)
		sk := new(mat.VecDense)
		sk.SubVec(&ats, &ktbts)

		sch.K[k] = K
		sch.G[k] = g
		sch.P[k] = Pk
		sch.S[k] = sk
		sch.C[k] = c - mat.Dot(&bts, g)
	}

	return sch, nil
}

// Horizon returns the number of control steps.
func (s *Schedule) Horizon() int { return len(s.K) }

// CostAt evaluates the optimal cost-to-go from x at step k.
func (s *Schedule) CostAt(x mat.Vector, k int) float64 {
	var px mat.VecDense
	px.MulVec(s.P[k], x)
	return mat.Dot(x, &px) + 2*mat.Dot(s.S[k], x) + s.C[k]
}

// Cost evaluates the optimal total cost from x0.
func (s *Schedule) Cost(x0 mat.Vector) float64 {
	return s.CostAt(x0, 0)
}

// Control returns the optimal control u = -K_k x - g_k.
func (s *Schedule) Control(x mat.Vector, k int) *mat.VecDense {
	u := new(mat.VecDense)
	u.MulVec(s.K[k], x)
	u.AddVec(u, s.G[k])
	u.ScaleVec(-1, u)
	return u
}

// Rollout applies the optimal controls from x0 through the model dynamics.
func (s *Schedule) Rollout(x0 mat.Vector) (states, controls []*mat.VecDense) {
	x := mat.VecDenseCopyOf(x0)
	states = append(states, x)
	for k := 0; k < s.Horizon(); k++ {
		u := s.Control(x, k)

		var ax, bu mat.VecDense
		ax.MulVec(s.Model.A, x)
		bu.MulVec(s.Model.B, u)
		next := new(mat.VecDense)
		next.AddVec(&ax, &bu)

		controls = append(controls, u)
		states = append(states, next)
		x = next
	}
	return states, controls
}

// ScalarRollout is Rollout for one-dimensional models, returning plain
// slices and the optimal cost.
func (s *Schedule) ScalarRollout(x0 float64) (states, controls []float64, cost float64) {
	v0 := mat.NewVecDense(1, []float64{x0})
	xs, us := s.Rollout(v0)
	for _, x := range xs {
		states = append(states, x.AtVec(0))
	}
	controls = make([]float64, 0, len(us))
	for _, u := range us {
		controls = append(controls, u.AtVec(0))
	}
	return states, controls, s.Cost(v0)
}
