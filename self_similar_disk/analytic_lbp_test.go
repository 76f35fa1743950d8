package self_similar_disk

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notargets/gasdisk/disk"
	"github.com/notargets/gasdisk/grid"
)

func TestLBP(t *testing.T) {
	p := Params{Rc: 1, NuC: 1, Gamma: 1, MDisk: 1}
	assert.NoError(t, p.Check())
	assert.True(t, near(p.ViscousTime(), 1./3.))
	g, err := grid.NewLogGrid(1.e-4, 1.e3, 2000)
	assert.NoError(t, err)
	{ // t = 0 is the initial profile
		Sigma, _ := LBP_calc(p, g.R(), 0)
		init := disk.LyndenBellPringle(g.R(), p.Rc, -p.Gamma, p.MDisk)
		assert.True(t, isNear(Sigma, init, 1.e-12))
	}
	{ // The disk drains at the analytic rate
		for _, tt := range []float64{0, 0.1, 1} {
			Sigma, _ := LBP_calc(p, g.R(), tt)
			m := g.Mass(Sigma, 0, g.N())
			fmt.Printf("t = %5.2f, mass = %8.6f, analytic = %8.6f\n", tt, m, p.Mass(tt))
			assert.Less(t, math.Abs(m-p.Mass(tt)), 1.e-2*p.Mass(tt))
		}
		assert.True(t, near(p.Mass(p.ViscousTime()), math.Pow(2, -0.5)))
	}
	{ // Inflow inside the transition radius, outflow beyond
		tt := 0.2
		rt := p.TransitionRadius(tt)
		_, Vr := LBP_calc(p, []float64{0.5 * rt, rt, 2 * rt}, tt)
		assert.Less(t, Vr[0], 0.)
		assert.Less(t, math.Abs(Vr[1]), 1.e-12)
		assert.Greater(t, Vr[2], 0.)
	}
	{
		assert.Error(t, Params{Rc: 1, NuC: 1, Gamma: 2, MDisk: 1}.Check())
		assert.Error(t, Params{Rc: 0, NuC: 1, Gamma: 1, MDisk: 1}.Check())
	}
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1.e-12*math.Max(1, math.Abs(b))
}

func isNear(a, b []float64, tol float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i, val := range a {
		if math.Abs(b[i]-val) > tol*math.Max(1, math.Abs(val)) {
			return false
		}
	}
	return true
}
