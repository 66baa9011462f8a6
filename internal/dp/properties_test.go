package dp_test

import (
	"math"

	"github.com/google/go-cmp/cmp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gridopt/internal/dp"
)

func linearQuadratic(a, b, q, r, qf, target float64) dp.Funcs {
	return dp.Funcs{
		Dynamics: func(x, u float64, k int) float64 { return a*x + b*u },
		Stage:    func(x, u float64, k int) float64 { return q*x*x + r*u*u },
		Terminal: func(x float64, k int) float64 { return qf * (x - target) * (x - target) },
	}
}

func mustRange(lo, hi, step float64) dp.Grid {
	g, err := dp.Range(lo, hi, step)
	Expect(err).NotTo(HaveOccurred())
	return g
}

func snapshot(t *dp.Table) [][]float64 {
	rows := make([][]float64, t.Rows())
	for i := range rows {
		rows[i] = t.Row(i)
	}
	return rows
}

var _ = Describe("Solve", func() {
	var problem dp.Funcs

	BeforeEach(func() {
		problem = linearQuadratic(4, -6, 1, 2, 1, 20)
	})

	It("fully populates both tables", func() {
		states := mustRange(-40, 40, 0.5)
		controls := mustRange(-10, 10, 0.25)

		res, err := dp.Solve(problem, 8, 4, states, controls)
		Expect(err).NotTo(HaveOccurred())

		Expect(res.CostToGo.Rows()).To(Equal(states.Len()))
		Expect(res.CostToGo.Cols()).To(Equal(5))
		Expect(res.Policy.Cols()).To(Equal(4))
		Expect(res.CostToGo.Filled()).To(BeTrue())
		Expect(res.Policy.Filled()).To(BeTrue())
		Expect(res.States).To(HaveLen(5))
		Expect(res.Controls).To(HaveLen(4))
	})

	It("stores only control grid values in the policy", func() {
		states := mustRange(-20, 20, 1)
		controls := mustRange(-3, 3, 0.5)

		res, err := dp.Solve(problem, 2, 3, states, controls)
		Expect(err).NotTo(HaveOccurred())

		valid := controls.Points()
		for i := 0; i < res.Policy.Rows(); i++ {
			for _, u := range res.Policy.Row(i) {
				Expect(valid).To(ContainElement(u))
			}
		}
	})

	It("is deterministic across repeated runs and worker counts", func() {
		states := mustRange(-40, 40, 0.25)
		controls := mustRange(-10, 10, 0.125)

		base, err := dp.Solve(problem, 8, 3, states, controls, dp.WithWorkers(1))
		Expect(err).NotTo(HaveOccurred())

		for _, workers := range []int{1, 2, 7} {
			res, err := dp.Solve(problem, 8, 3, states, controls, dp.WithWorkers(workers))
			Expect(err).NotTo(HaveOccurred())

			Expect(cmp.Diff(snapshot(base.CostToGo), snapshot(res.CostToGo))).To(BeEmpty())
			Expect(cmp.Diff(snapshot(base.Policy), snapshot(res.Policy))).To(BeEmpty())
			Expect(cmp.Diff(base.States, res.States)).To(BeEmpty())
			Expect(cmp.Diff(base.Controls, res.Controls)).To(BeEmpty())
			Expect(res.Cost).To(Equal(base.Cost))
		}
	})

	It("never increases the optimal cost when the grids are refined", func() {
		coarse, err := dp.Solve(problem, 8, 2, mustRange(-40, 40, 1), mustRange(-10, 10, 0.5))
		Expect(err).NotTo(HaveOccurred())
		medium, err := dp.Solve(problem, 8, 2, mustRange(-40, 40, 0.5), mustRange(-10, 10, 0.25))
		Expect(err).NotTo(HaveOccurred())
		fine, err := dp.Solve(problem, 8, 2, mustRange(-40, 40, 0.25), mustRange(-10, 10, 0.125))
		Expect(err).NotTo(HaveOccurred())

		Expect(coarse.Cost).To(BeNumerically("~", 126, 1e-9))
		Expect(medium.Cost).To(BeNumerically("<=", coarse.Cost+1e-9))
		Expect(fine.Cost).To(BeNumerically("<=", medium.Cost+1e-9))
		Expect(fine.Cost).To(BeNumerically("~", 123.375, 1e-9))
	})

	It("reports the table value instead of the realized trajectory cost", func() {
		states, err := dp.NewGrid([]float64{0, 1})
		Expect(err).NotTo(HaveOccurred())
		controls, err := dp.NewGrid([]float64{0.4})
		Expect(err).NotTo(HaveOccurred())

		p := dp.Funcs{
			Dynamics: func(x, u float64, k int) float64 { return x + u },
			Stage:    func(x, u float64, k int) float64 { return 0 },
			Terminal: func(x float64, k int) float64 { return x * x },
		}

		res, err := dp.Solve(p, 0, 1, states, controls)
		Expect(err).NotTo(HaveOccurred())

		realized := p.TerminalCost(res.States[1], 1)
		Expect(res.Cost).To(BeZero())
		Expect(realized).To(BeNumerically("~", 0.16, 1e-12))
	})

	DescribeTable("tie-break and boundary laws",
		func(next func(x, u float64, k int) float64, stage func(x, u float64, k int) float64, wantU, wantJ float64) {
			states, err := dp.NewGrid([]float64{0, 1, 2})
			Expect(err).NotTo(HaveOccurred())
			controls, err := dp.NewGrid([]float64{-2, -1, 1, 2})
			Expect(err).NotTo(HaveOccurred())

			p := dp.Funcs{
				Dynamics: next,
				Stage:    stage,
				Terminal: func(x float64, k int) float64 { return x },
			}

			tables, err := dp.NewSolver(p, states, controls).Backward(1)
			Expect(err).NotTo(HaveOccurred())
			for i := 0; i < states.Len(); i++ {
				Expect(tables.Policy.At(i, 0)).To(Equal(wantU))
				Expect(tables.CostToGo.At(i, 0)).To(Equal(wantJ))
			}
		},
		Entry("symmetric stage cost prefers the lower control",
			func(x, u float64, k int) float64 { return 0 },
			func(x, u float64, k int) float64 { return u * u },
			-1.0, 1.0),
		Entry("successors beyond the grid use the upper endpoint",
			func(x, u float64, k int) float64 { return 50 },
			func(x, u float64, k int) float64 { return math.Abs(u) },
			-1.0, 3.0),
		Entry("successors below the grid use the lower endpoint",
			func(x, u float64, k int) float64 { return -50 + u },
			func(x, u float64, k int) float64 { return 0 },
			-2.0, 0.0),
	)
})
