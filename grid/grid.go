package grid

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// ErrGrid is returned for a malformed or too small radial grid.
var ErrGrid = errors.New("grid: malformed radial grid")

// MinCells is the smallest grid the gas operator is defined on: each boundary
// row needs two neighbours.
const MinCells = 3

// Grid is a 1D radial grid of N cells. Interfaces Ri bracket the cell centers R,
// Ri[i] < R[i] < Ri[i+1]. A Grid is never mutated after construction, the
// slices returned by its accessors are shared and must be treated as read only.
type Grid struct {
	r, ri []float64
	area  []float64
}

// NewGrid builds a grid from N+1 strictly increasing interface radii, cell
// centers are placed at the interface midpoints.
func NewGrid(ri []float64) (g *Grid, err error) {
	var (
		Nr = len(ri) - 1
		r  []float64
	)
	if Nr < MinCells {
		err = fmt.Errorf("%w: %d cells, need at least %d", ErrGrid, Nr, MinCells)
		return
	}
	r = make([]float64, Nr)
	for i := 0; i < Nr; i++ {
		r[i] = 0.5 * (ri[i] + ri[i+1])
	}
	return NewGridCentered(r, ri)
}

// NewGridCentered builds a grid from explicit cell centers and interfaces.
func NewGridCentered(r, ri []float64) (g *Grid, err error) {
	if len(r) < MinCells {
		err = fmt.Errorf("%w: %d cells, need at least %d", ErrGrid, len(r), MinCells)
		return
	}
	if len(ri) != len(r)+1 {
		err = fmt.Errorf("%w: %d cells need %d interfaces, have %d", ErrGrid, len(r), len(r)+1, len(ri))
		return
	}
	if err = checkIncreasing("interface", ri); err != nil {
		return
	}
	for i, rc := range r {
		if !(rc > ri[i] && rc < ri[i+1]) {
			err = fmt.Errorf("%w: cell center r[%d] = %g outside interfaces [%g, %g]", ErrGrid, i, rc, ri[i], ri[i+1])
			return
		}
	}
	g = &Grid{
		r:    append([]float64(nil), r...),
		ri:   append([]float64(nil), ri...),
		area: make([]float64, len(r)),
	}
	for i := range g.area {
		g.area[i] = 0.5 * (ri[i+1]*ri[i+1] - ri[i]*ri[i])
	}
	return
}

// NewLogGrid builds N cells with logarithmically spaced interfaces between rMin
// and rMax.
func NewLogGrid(rMin, rMax float64, N int) (g *Grid, err error) {
	if !(rMin > 0) || !(rMax > rMin) {
		err = fmt.Errorf("%w: log grid needs 0 < rMin < rMax, have [%g, %g]", ErrGrid, rMin, rMax)
		return
	}
	if N < MinCells {
		err = fmt.Errorf("%w: %d cells, need at least %d", ErrGrid, N, MinCells)
		return
	}
	var (
		ri   = make([]float64, N+1)
		lMin = math.Log10(rMin)
		dl   = (math.Log10(rMax) - lMin) / float64(N)
	)
	for i := range ri {
		ri[i] = math.Pow(10, lMin+float64(i)*dl)
	}
	ri[0], ri[N] = rMin, rMax
	return NewGrid(ri)
}

func checkIncreasing(name string, x []float64) (err error) {
	for i, val := range x {
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return fmt.Errorf("%w: %s radius [%d] is not finite", ErrGrid, name, i)
		}
		if val <= 0 {
			return fmt.Errorf("%w: %s radius [%d] = %g is not positive", ErrGrid, name, i, val)
		}
		if i > 0 && !(val > x[i-1]) {
			return fmt.Errorf("%w: %s spacing at [%d] is not positive", ErrGrid, name, i)
		}
	}
	return
}

// N returns the number of cells.
func (g *Grid) N() int { return len(g.r) }

// R returns the cell center radii.
func (g *Grid) R() []float64 { return g.r }

// Ri returns the N+1 interface radii.
func (g *Grid) Ri() []float64 { return g.ri }

// Area returns the per-radian cell area element (Ri[i+1]^2 - Ri[i]^2)/2. The
// disk mass in cell i is 2*Pi*Area[i]*Sigma[i].
func (g *Grid) Area() []float64 { return g.area }

// Version is the cache key component of the grid, constant since a Grid is
// immutable.
func (g *Grid) Version() uint64 { return 0 }

// Mass returns the disk mass 2*Pi*Sum(Area*Sigma) over cells [i0, i1).
func (g *Grid) Mass(sigma []float64, i0, i1 int) float64 {
	return 2 * math.Pi * floats.Dot(g.area[i0:i1], sigma[i0:i1])
}

// Check validates that the grid still satisfies the constraints the operator
// builders rely on.
func (g *Grid) Check() (err error) {
	if g == nil {
		return fmt.Errorf("%w: nil grid", ErrGrid)
	}
	if len(g.r) < MinCells {
		return fmt.Errorf("%w: %d cells, need at least %d", ErrGrid, len(g.r), MinCells)
	}
	if err = checkIncreasing("center", g.r); err != nil {
		return
	}
	return checkIncreasing("interface", g.ri)
}
