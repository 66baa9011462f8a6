package dp

import (
	"fmt"
	"math"
	"sort"
)

// MaxGridPoints bounds the number of points Range will build.
const MaxGridPoints = 1 << 24

// Grid is an immutable, non-empty, strictly increasing set of points.
// The index of a point is its identity for table storage.
type Grid struct {
	points []float64
}

// NewGrid copies and validates points.
func NewGrid(points []float64) (Grid, error) {
	if len(points) == 0 {
		return Grid{}, fmt.Errorf("%w: no points", ErrInvalidGrid)
	}
	for i, v := range points {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Grid{}, fmt.Errorf("%w: point %d is %v", ErrInvalidGrid, i, v)
		}
		if i > 0 && v <= points[i-1] {
			return Grid{}, fmt.Errorf("%w: point %d (%g) does not exceed point %d (%g)",
				ErrInvalidGrid, i, v, i-1, points[i-1])
		}
	}

	p := make([]float64, len(points))
	copy(p, points)
	return Grid{points: p}, nil
}

// Range builds the grid lo, lo+step, ... up to hi. hi is included when it
// lies on the lattice within a small relative slack. Points are computed as
// lo + i*step so rounding does not accumulate.
func Range(lo, hi, step float64) (Grid, error) {
	for _, v := range []float64{lo, hi, step} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Grid{}, fmt.Errorf("%w: range bound %v", ErrInvalidGrid, v)
		}
	}
	if step <= 0 {
		return Grid{}, fmt.Errorf("%w: step must be positive, got %g", ErrInvalidGrid, step)
	}
	if hi < lo {
		return Grid{}, fmt.Errorf("%w: max %g below min %g", ErrInvalidGrid, hi, lo)
	}

	count := math.Floor((hi-lo)/step+1e-9) + 1
	if math.IsInf(count, 0) || count > MaxGridPoints {
		return Grid{}, fmt.Errorf("%w: too many points for [%g, %g] with step %g", ErrInvalidGrid, lo, hi, step)
	}

	n := int(count)
	points := make([]float64, n)
	for i := range points {
		points[i] = lo + float64(i)*step
	}
	return NewGrid(points)
}

// Len returns the number of points; zero for the zero Grid.
func (g Grid) Len() int { return len(g.points) }

// At returns the i-th point.
func (g Grid) At(i int) float64 { return g.points[i] }

// Min returns the first point.
func (g Grid) Min() float64 { return g.points[0] }

// Max returns the last point.
func (g Grid) Max() float64 { return g.points[len(g.points)-1] }

// Points returns a copy of the grid points.
func (g Grid) Points() []float64 {
	p := make([]float64, len(g.points))
	copy(p, g.points)
	return p
}

// Nearest returns the index of the point closest to x. Equidistant
// neighbours resolve to the lower index and values outside the grid map to
// the nearest endpoint.
func (g Grid) Nearest(x float64) int {
	n := len(g.points)
	i := sort.SearchFloat64s(g.points, x)
	switch {
	case i == 0:
		return 0
	case i == n:
		return n - 1
	}
	if x-g.points[i-1] <= g.points[i]-x {
		return i - 1
	}
	return i
}

// Snap returns the grid point closest to x.
func (g Grid) Snap(x float64) float64 {
	return g.points[g.Nearest(x)]
}
