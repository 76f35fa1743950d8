package gas

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/notargets/gasdisk/grid"
	"github.com/notargets/gasdisk/utils"
)

func logGrid(t *testing.T, N int) (g *grid.Grid) {
	var err error
	g, err = grid.NewLogGrid(1, 100, N)
	require.NoError(t, err)
	return
}

func near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

// powerLaw returns c*r^p on the cell centers
func powerLaw(g *grid.Grid, c, p float64) (f []float64) {
	f = make([]float64, g.N())
	for i, r := range g.R() {
		f[i] = c * math.Pow(r, p)
	}
	return
}

// wavy is a positive non smooth test density
func wavy(N int) (f []float64) {
	f = make([]float64, N)
	for i := range f {
		f[i] = 1 + 0.5*math.Sin(float64(3*i))
	}
	return
}

func zeros(N int) []float64 { return make([]float64, N) }

func ones(N int) []float64 { return utils.ConstArray(N, 1) }
