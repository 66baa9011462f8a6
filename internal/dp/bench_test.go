package dp

import "testing"

func benchmarkBackward(b *testing.B, workers int) {
	states, _ := Range(-50, 50, 0.1)
	controls, _ := Range(-10, 10, 0.1)
	s := NewSolver(lqExample, states, controls, WithWorkers(workers))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.Backward(2); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkBackward_1Worker(b *testing.B)  { benchmarkBackward(b, 1) }
func BenchmarkBackward_4Workers(b *testing.B) { benchmarkBackward(b, 4) }

func BenchmarkNearest(b *testing.B) {
	g, _ := Range(-50, 50, 0.02)
	x := -60.0

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = g.Nearest(x)
		x += 0.013
		if x > 60 {
			x = -60
		}
	}
}
