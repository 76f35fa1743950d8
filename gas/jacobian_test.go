package gas

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gasdisk/types"
)

func TestBuildJacobian(t *testing.T) {
	{ // Structure and signs of a pure viscous operator
		N := 20
		g := logGrid(t, N)
		J, err := BuildJacobian(g, powerLaw(g, 0.01, 1), nil, nil, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, N, J.N)
		assert.Equal(t, 3*(N-2), J.StoredEntries())
		for i := 1; i < N-1; i++ {
			assert.Greater(t, J.Sub[i], 0.)
			assert.Greater(t, J.Super[i], 0.)
			assert.Less(t, J.Diag[i], 0.)
			assert.Equal(t, J.Sub[i], J.At(i, i-1))
			assert.Equal(t, J.Diag[i], J.At(i, i))
			assert.Equal(t, J.Super[i], J.At(i, i+1))
		}
		// Boundary rows are empty until a policy is applied
		for j := 0; j < N; j++ {
			assert.Equal(t, 0., J.At(0, j))
			assert.Equal(t, 0., J.At(N-1, j))
		}
		r, c := J.Dims()
		assert.Equal(t, N, r)
		assert.Equal(t, N, c)
		assert.Equal(t, J.At(3, 4), J.T().At(4, 3))
	}
	{ // MulVec agrees with a dense product
		N := 12
		g := logGrid(t, N)
		J, err := BuildJacobian(g, powerLaw(g, 0.01, 1), nil, nil, nil, nil)
		require.NoError(t, err)
		sigma := wavy(N)
		y := J.MulVec(sigma)
		yd := mat.NewVecDense(N, nil)
		yd.MulVec(mat.DenseCopyOf(J), mat.NewVecDense(N, sigma))
		for i := 0; i < N; i++ {
			assert.True(t, near(y[i], yd.AtVec(i), 1.e-12))
		}
	}
	{ // Interior rows telescope into the two end fluxes
		N := 25
		g := logGrid(t, N)
		B := make([]float64, N)
		for i := range B {
			B[i] = 0.1
		}
		J, err := BuildJacobian(g, powerLaw(g, 0.01, 1), powerLaw(g, 0.9, 0), B,
			powerLaw(g, -0.003, 0.5), powerLaw(g, 30, -0.5))
		require.NoError(t, err)
		sigma := wavy(N)
		y := J.MulVec(sigma)
		var sum float64
		area := g.Area()
		for i := 1; i < N-1; i++ {
			sum += area[i] * y[i]
		}
		exp := J.Flux(sigma, 1) - J.Flux(sigma, N-1)
		fmt.Printf("sum(area*J*Sigma) = %g, end fluxes = %g\n", sum, exp)
		assert.True(t, near(sum, exp, 1.e-12))
	}
	{ // Sigma*nu*sqrt(r) constant carries no viscous flux
		N := 40
		g := logGrid(t, N)
		J, err := BuildJacobian(g, ones(N), nil, nil, nil, nil)
		require.NoError(t, err)
		sigma := powerLaw(g, 1, -0.5)
		y := J.MulVec(sigma)
		for i := 1; i < N-1; i++ {
			scale := J.Sub[i] * sigma[i-1]
			assert.Less(t, math.Abs(y[i]), 1.e-12*scale)
		}
	}
	{ // A nil A is an all ones A
		N := 10
		g := logGrid(t, N)
		nu := powerLaw(g, 0.01, 1)
		J1, err := BuildJacobian(g, nu, nil, nil, nil, nil)
		require.NoError(t, err)
		J2, err := BuildJacobian(g, nu, ones(N), zeros(N), zeros(N), zeros(N))
		require.NoError(t, err)
		assert.Equal(t, J1.Sub, J2.Sub)
		assert.Equal(t, J1.Diag, J2.Diag)
		assert.Equal(t, J1.Super, J2.Super)
	}
}

func TestJacobianDrift(t *testing.T) {
	N := 15
	g := logGrid(t, N)
	{ // Inward drift takes its flux from the outer neighbour
		J, err := BuildJacobian(g, zeros(N), nil, ones(N), powerLaw(g, -0.01, 0), ones(N))
		require.NoError(t, err)
		for i := 1; i < N-1; i++ {
			assert.Equal(t, 0., J.Sub[i])
			assert.Greater(t, J.Super[i], 0.)
			assert.Less(t, J.Diag[i], 0.)
		}
		for k := 1; k < N; k++ {
			assert.Equal(t, 0., J.Fa[k])
			assert.True(t, near(J.Fb[k], -0.02*g.Ri()[k], 1.e-12))
		}
	}
	{ // Outward drift from the inner neighbour
		J, err := BuildJacobian(g, zeros(N), nil, ones(N), powerLaw(g, 0.01, 0), ones(N))
		require.NoError(t, err)
		for i := 1; i < N-1; i++ {
			assert.Greater(t, J.Sub[i], 0.)
			assert.Equal(t, 0., J.Super[i])
		}
	}
}

func TestJacobianErrors(t *testing.T) {
	N := 10
	g := logGrid(t, N)
	{
		_, err := BuildJacobian(g, zeros(N-1), nil, nil, nil, nil)
		assert.ErrorIs(t, err, ErrGrid)
	}
	{
		nu := zeros(N)
		nu[4] = math.NaN()
		_, err := BuildJacobian(g, nu, nil, nil, nil, nil)
		assert.ErrorIs(t, err, ErrGrid)
	}
	{
		_, err := BuildJacobian(g, zeros(N), ones(N+1), nil, nil, nil)
		assert.ErrorIs(t, err, ErrGrid)
	}
	{ // B without eta
		_, err := BuildJacobian(g, zeros(N), nil, ones(N), nil, ones(N))
		assert.ErrorIs(t, err, ErrGrid)
	}
	{
		_, err := BuildJacobian(nil, zeros(N), nil, nil, nil, nil)
		assert.ErrorIs(t, err, ErrGrid)
	}
}

func TestJacobianSparseAndSystem(t *testing.T) {
	N := 8
	g := logGrid(t, N)
	J, err := BuildJacobian(g, powerLaw(g, 0.01, 1), nil, nil, nil, nil)
	require.NoError(t, err)
	dt := 0.5
	R := make([]float64, N)
	ctx := BoundaryContext{Grid: g, Dt: dt, Sigma: wavy(N), SigmaFloor: DefaultSigmaFloor}
	require.NoError(t, ApplyBoundary(J, R, DefaultInner, DefaultOuter, ctx))
	assert.Equal(t, 3, J.Inner.Width)
	assert.Equal(t, 1, J.Outer.Width)
	assert.Equal(t, 3*(N-2)+3+1, J.StoredEntries())

	csr := J.Sparse()
	assert.Equal(t, "jacobian", csr.Name())
	assert.LessOrEqual(t, csr.NNZ(), J.StoredEntries())
	fmt.Printf("J = \n%v\n", mat.Formatted(csr, mat.Squeeze()))
	for i := 0; i < N; i++ {
		for j := 0; j < N; j++ {
			assert.Equal(t, J.At(i, j), csr.At(i, j))
		}
	}
	sigma := wavy(N)
	y1, y2 := J.MulVec(sigma), csr.MulVec(sigma)
	for i := range y1 {
		assert.True(t, near(y1[i], y2[i], 1.e-12))
	}

	M := J.System(dt)
	for i := 0; i < N; i++ {
		for j := 0; j < N; j++ {
			exp := -dt * J.At(i, j)
			if i == j {
				exp += 1
			}
			assert.True(t, near(M.At(i, j), exp, 1.e-14))
		}
	}
	// Boundary rows of the constant gradient relation
	assert.Equal(t, types.BC_ConstantGradient, DefaultInner.Kind)
	assert.Equal(t, 1., M.At(0, 0))
	assert.Equal(t, 0., M.At(N-1, N-2))
	assert.Equal(t, DefaultSigmaFloor, R[N-1])
}
