package gas

import (
	"fmt"
	"math"

	"github.com/notargets/gasdisk/grid"
	"github.com/notargets/gasdisk/utils"
)

// Velocities are derived from a density after it is known, never fed back into
// the step that produced it.
type Velocities struct {
	VVisc []float64 // viscous velocity on the cell centers
	VRad  []float64 // A*VVisc + 2*B*eta*vK
	Fi    []float64 // Sigma*v through the N+1 interfaces
	SHyd  []float64 // flux divergence on the cell centers
}

// DeriveVelocities evaluates the transport stencil of the operator on sigma.
// The interior interface fluxes are those of BuildJacobian for the same
// inputs, so SHyd equals J*sigma on every interior cell. The two outer
// interfaces are donor cell with the radial velocity of the edge cell.
func DeriveVelocities(g *grid.Grid, sigma, nu, A, B, eta, vK []float64) (v Velocities, err error) {
	var (
		anu, drift []float64
	)
	if anu, drift, err = transportCoefficients(g, nu, A, B, eta, vK); err != nil {
		return
	}
	var (
		N       = g.N()
		r, ri   = g.R(), g.Ri()
		area    = g.Area()
		Fa, Fb  = interfaceCoefficients(g, anu, drift)
		vviscI  = make([]float64, N+1)
		sNuSqrt = make([]float64, N)
	)
	if len(sigma) != N {
		err = fmt.Errorf("%w: len(Sigma) = %d on a grid of %d cells", ErrGrid, len(sigma), N)
		return
	}
	for i := range sNuSqrt {
		sNuSqrt[i] = sigma[i] * nu[i] * math.Sqrt(r[i])
	}
	for k := 1; k < N; k++ {
		sigmaI := utils.LinearAt(r, sigma, k-1, ri[k])
		if sigmaI > 0 {
			vviscI[k] = -3 / (sigmaI * math.Sqrt(ri[k])) * (sNuSqrt[k] - sNuSqrt[k-1]) / (r[k] - r[k-1])
		}
	}
	v.VVisc = utils.ToCenters(r, ri, vviscI)
	v.VRad = make([]float64, N)
	for i := range v.VRad {
		a := 1.
		if A != nil {
			a = A[i]
		}
		v.VRad[i] = a*v.VVisc[i] + drift[i]
	}

	v.Fi = make([]float64, N+1)
	for k := 1; k < N; k++ {
		v.Fi[k] = (Fa[k]*sigma[k-1] + Fb[k]*sigma[k]) / ri[k]
	}
	v.Fi[0] = sigma[0] * v.VRad[0]
	v.Fi[N] = sigma[N-1] * v.VRad[N-1]

	v.SHyd = make([]float64, N)
	for i := range v.SHyd {
		v.SHyd[i] = (ri[i]*v.Fi[i] - ri[i+1]*v.Fi[i+1]) / area[i]
	}
	return
}
