package gas

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gasdisk/grid"
	"github.com/notargets/gasdisk/utils"
)

// CacheKey identifies the inputs a Jacobian was built from
type CacheKey struct {
	Grid, Viscosity, Backreaction uint64
}

// BoundaryRow is a row of the operator overwritten by a boundary policy.
// Coef[d] is the coefficient at distance d from the edge cell (column d for the
// inner row, column N-1-d for the outer row). Width is the number of stored
// positions. RHS is the right hand side entry owned by the policy.
type BoundaryRow struct {
	Coef  [3]float64
	Width int
	RHS   float64
}

// Jacobian is the linear transport operator J with dSigma/dt = J Sigma on the
// interior cells. Interior rows are tri-diagonal, rows 0 and N-1 are boundary
// rows that stay empty until a boundary policy is applied.
//
// Fa and Fb hold the interface flux coefficients, the mass flux (r*Sigma*v)
// through interface k, 1 <= k <= N-1, is Fa[k]*Sigma[k-1] + Fb[k]*Sigma[k].
type Jacobian struct {
	N                int
	Sub, Diag, Super []float64
	Inner, Outer     BoundaryRow
	Fa, Fb           []float64
	Key              CacheKey
}

// BuildJacobian assembles the operator from the grid, the viscosity and the
// backreaction coefficients. A nil A is taken as all ones and a nil B as all
// zeros, eta and vK are only read when B is given.
func BuildJacobian(g *grid.Grid, nu, A, B, eta, vK []float64) (J *Jacobian, err error) {
	var (
		anu, drift []float64
	)
	if anu, drift, err = transportCoefficients(g, nu, A, B, eta, vK); err != nil {
		return
	}
	var (
		N    = g.N()
		area = g.Area()
	)
	J = &Jacobian{
		N:     N,
		Sub:   make([]float64, N),
		Diag:  make([]float64, N),
		Super: make([]float64, N),
	}
	J.Fa, J.Fb = interfaceCoefficients(g, anu, drift)
	for i := 1; i < N-1; i++ {
		J.Sub[i] = J.Fa[i] / area[i]
		J.Diag[i] = (J.Fb[i] - J.Fa[i+1]) / area[i]
		J.Super[i] = -J.Fb[i+1] / area[i]
	}
	return
}

// transportCoefficients validates the inputs and returns A*nu and the drift
// velocity 2*B*eta*vK on the cell centers.
func transportCoefficients(g *grid.Grid, nu, A, B, eta, vK []float64) (anu, drift []float64, err error) {
	if err = g.Check(); err != nil {
		return
	}
	var (
		N = g.N()
	)
	check := func(name string, x []float64, optional bool) error {
		if x == nil && optional {
			return nil
		}
		if len(x) != N {
			return fmt.Errorf("%w: len(%s) = %d on a grid of %d cells", ErrGrid, name, len(x), N)
		}
		if i, bad := utils.FirstNonFinite(x); bad {
			return fmt.Errorf("%w: %s[%d] = %g is not finite", ErrGrid, name, i, x[i])
		}
		return nil
	}
	if err = check("nu", nu, false); err != nil {
		return
	}
	if err = check("A", A, true); err != nil {
		return
	}
	anu = make([]float64, N)
	drift = make([]float64, N)
	for i := range anu {
		anu[i] = nu[i]
		if A != nil {
			anu[i] *= A[i]
		}
	}
	if B == nil {
		return
	}
	for _, in := range []struct {
		name string
		x    []float64
	}{{"B", B}, {"eta", eta}, {"vK", vK}} {
		if err = check(in.name, in.x, false); err != nil {
			return
		}
	}
	for i := range drift {
		drift[i] = 2 * B[i] * eta[i] * vK[i]
	}
	return
}

// interfaceCoefficients discretizes the flux r*Sigma*v through the interior
// interfaces. The viscous part is
//
//	-3 sqrt(ri) d(Sigma*A*nu*sqrt(r))/dr
//
// differenced between the two neighbouring centers, the drift part is donor
// cell with the drift velocity interpolated onto the interface.
func interfaceCoefficients(g *grid.Grid, anu, drift []float64) (Fa, Fb []float64) {
	var (
		N      = g.N()
		r, ri  = g.R(), g.Ri()
		sqrtRc = make([]float64, N)
	)
	for i := range sqrtRc {
		sqrtRc[i] = math.Sqrt(r[i])
	}
	Fa = make([]float64, N+1)
	Fb = make([]float64, N+1)
	for k := 1; k < N; k++ {
		var (
			visc = 3 * math.Sqrt(ri[k]) / (r[k] - r[k-1])
			vd   = utils.LinearAt(r, drift, k-1, ri[k])
		)
		Fa[k] = visc*anu[k-1]*sqrtRc[k-1] + ri[k]*math.Max(vd, 0)
		Fb[k] = -visc*anu[k]*sqrtRc[k] + ri[k]*math.Min(vd, 0)
	}
	return
}

// Flux returns the mass flux r*Sigma*v through interior interface k
func (J *Jacobian) Flux(sigma []float64, k int) float64 {
	return J.Fa[k]*sigma[k-1] + J.Fb[k]*sigma[k]
}

// Dims, At and T satisfy the mat.Matrix interface.
func (J *Jacobian) Dims() (r, c int) { return J.N, J.N }

func (J *Jacobian) At(i, j int) float64 {
	var (
		N = J.N
	)
	if i < 0 || j < 0 || i >= N || j >= N {
		panic(mat.ErrIndexOutOfRange)
	}
	switch i {
	case 0:
		if j < J.Inner.Width {
			return J.Inner.Coef[j]
		}
		return 0
	case N - 1:
		if d := N - 1 - j; d < J.Outer.Width {
			return J.Outer.Coef[d]
		}
		return 0
	}
	switch j {
	case i - 1:
		return J.Sub[i]
	case i:
		return J.Diag[i]
	case i + 1:
		return J.Super[i]
	}
	return 0
}

func (J *Jacobian) T() mat.Matrix { return mat.Transpose{Matrix: J} }

// MulVec returns J sigma. The boundary components are whatever the boundary
// rows hold, placeholders until a policy is applied for a step size.
func (J *Jacobian) MulVec(sigma []float64) (y []float64) {
	var (
		N = J.N
	)
	y = make([]float64, N)
	for i := 1; i < N-1; i++ {
		y[i] = J.Sub[i]*sigma[i-1] + J.Diag[i]*sigma[i] + J.Super[i]*sigma[i+1]
	}
	for d := 0; d < J.Inner.Width; d++ {
		y[0] += J.Inner.Coef[d] * sigma[d]
	}
	for d := 0; d < J.Outer.Width; d++ {
		y[N-1] += J.Outer.Coef[d] * sigma[N-1-d]
	}
	return
}

// StoredEntries is the number of structurally stored positions: three per
// interior row plus the widths of the two boundary rows.
func (J *Jacobian) StoredEntries() int {
	return 3*(J.N-2) + J.Inner.Width + J.Outer.Width
}

// Sparse exports the stored positions, including stored zeros, to a compressed
// row matrix for structure diagnostics.
func (J *Jacobian) Sparse() (csr utils.CSR) {
	var (
		N   = J.N
		dok = utils.NewDOK(N, N)
	)
	for d := 0; d < J.Inner.Width; d++ {
		dok.Set(0, d, J.Inner.Coef[d])
	}
	for i := 1; i < N-1; i++ {
		dok.Set(i, i-1, J.Sub[i])
		dok.Set(i, i, J.Diag[i])
		dok.Set(i, i+1, J.Super[i])
	}
	for d := 0; d < J.Outer.Width; d++ {
		dok.Set(N-1, N-1-d, J.Outer.Coef[d])
	}
	dok.SetReadOnly("jacobian")
	return dok.ToCSR()
}

// withRows returns a copy sharing the interior storage with new boundary rows
func (J *Jacobian) withRows(inner, outer BoundaryRow) (Jb *Jacobian) {
	jb := *J
	jb.Inner, jb.Outer = inner, outer
	return &jb
}

// System returns M = I - dt*J, the matrix of the implicit step
func (J *Jacobian) System(dt float64) (M *utils.TriDiagonal) {
	var (
		N = J.N
	)
	M = utils.NewTriDiagonal(N)
	for i := 1; i < N-1; i++ {
		M.Sub[i] = -dt * J.Sub[i]
		M.Diag[i] = 1 - dt*J.Diag[i]
		M.Super[i] = -dt * J.Super[i]
	}
	M.Diag[0] = 1 - dt*J.Inner.Coef[0]
	M.Super[0] = -dt * J.Inner.Coef[1]
	M.Corner0 = -dt * J.Inner.Coef[2]
	M.Diag[N-1] = 1 - dt*J.Outer.Coef[0]
	M.Sub[N-1] = -dt * J.Outer.Coef[1]
	M.CornerN = -dt * J.Outer.Coef[2]
	return
}
