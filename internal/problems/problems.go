package problems

import (
	"math"

	"github.com/san-kum/gridopt/internal/lqr"
)

// LinearQuadratic is x' = A x + B u with stage cost Q x² + R u² and
// terminal cost Qf (x - Target)².
type LinearQuadratic struct {
	A, B   float64
	Q, R   float64
	Qf     float64
	Target float64
}

// NewLinearQuadratic returns the reference problem
// f = 4x - 6u, V = x² + 2u², S = (x - 20)².
func NewLinearQuadratic() *LinearQuadratic {
	return &LinearQuadratic{A: 4, B: -6, Q: 1, R: 2, Qf: 1, Target: 20}
}

func (p *LinearQuadratic) Next(x, u float64, k int) float64 {
	return p.A*x + p.B*u
}

func (p *LinearQuadratic) StageCost(x, u float64, k int) float64 {
	return p.Q*x*x + p.R*u*u
}

func (p *LinearQuadratic) TerminalCost(x float64, k int) float64 {
	d := x - p.Target
	return p.Qf * d * d
}

// Model returns the equivalent LQR model.
func (p *LinearQuadratic) Model() lqr.Model {
	return lqr.Scalar(p.A, p.B, p.Q, p.R, p.Qf, p.Target)
}

func (p *LinearQuadratic) GetParams() map[string]float64 {
	return map[string]float64{
		"a": p.A, "b": p.B, "q": p.Q, "r": p.R, "qf": p.Qf, "target": p.Target,
	}
}

// Swing is a damped, torque-driven pendulum angle sampled with step Dt:
// x' = x + Dt (u - G sin x), V = Q x² + R u², S = Qf x².
type Swing struct {
	Dt float64
	G  float64
	Q  float64
	R  float64
	Qf float64
}

func NewSwing() *Swing {
	return &Swing{Dt: 0.1, G: 9.81, Q: 1, R: 0.1, Qf: 10}
}

func (p *Swing) Next(x, u float64, k int) float64 {
	return x + p.Dt*(u-p.G*math.Sin(x))
}

func (p *Swing) StageCost(x, u float64, k int) float64 {
	return p.Q*x*x + p.R*u*u
}

func (p *Swing) TerminalCost(x float64, k int) float64 {
	return p.Qf * x * x
}

func (p *Swing) GetParams() map[string]float64 {
	return map[string]float64{"dt": p.Dt, "g": p.G, "q": p.Q, "r": p.R, "qf": p.Qf}
}
