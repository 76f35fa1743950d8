package gas

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gasdisk/types"
)

func TestGasCache(t *testing.T) {
	N := 15
	g := logGrid(t, N)
	gs, err := NewGas(g, powerLaw(g, 1, -1), WithViscosity(ViscosityFunc(func(s *State) []float64 {
		return powerLaw(g, 0.01, 1)
	})))
	require.NoError(t, err)
	assert.Equal(t, DefaultInner, gs.Inner)
	assert.Equal(t, DefaultOuter, gs.Outer)
	assert.Equal(t, 0, gs.Builds())
	assert.Equal(t, 0.01*g.R()[3], gs.State().Nu[3])

	J1, err := gs.Jacobian()
	require.NoError(t, err)
	assert.Equal(t, 1, gs.Builds())
	_, err = gs.Jacobian()
	require.NoError(t, err)
	assert.Equal(t, 1, gs.Builds())
	// No step size yet, the boundary rows use the provisional step
	assert.Equal(t, 3*(N-2)+3+1, J1.StoredEntries())
	assert.Equal(t, 3, J1.Inner.Width)
	assert.Equal(t, 1, J1.Outer.Width)
	assert.Equal(t, gs.State().SigmaFloor, J1.Outer.RHS)
	y := J1.MulVec(gs.State().Sigma)
	assert.NotEqual(t, 0., y[0])

	gs.SetStepSize(0.1)
	J2, err := gs.Jacobian()
	require.NoError(t, err)
	assert.Equal(t, 1, gs.Builds())
	assert.Equal(t, 3*(N-2)+3+1, J2.StoredEntries())

	// Changing the viscosity makes the old operator stale
	require.NoError(t, gs.SetViscosity(powerLaw(g, 0.02, 1)))
	err = gs.StepWith(J2, 0.1)
	assert.ErrorIs(t, err, ErrStaleCache)
	require.NoError(t, gs.Step(0.1))
	assert.Equal(t, 2, gs.Builds())

	// Backreaction and drift rebuild too, the source does not
	gs.ResetBackreaction()
	_, err = gs.Jacobian()
	require.NoError(t, err)
	assert.Equal(t, 3, gs.Builds())
	require.NoError(t, gs.SetExternalSource(ones(N)))
	_, err = gs.Jacobian()
	require.NoError(t, err)
	assert.Equal(t, 3, gs.Builds())
	require.NoError(t, gs.SetDrift(powerLaw(g, -0.001, 0), powerLaw(g, 30, -0.5)))
	J3, err := gs.Jacobian()
	require.NoError(t, err)
	assert.Equal(t, 4, gs.Builds())
	assert.Equal(t, gs.Key(), J3.Key)

	// Stepping without an operator is refused and keeps Sigma
	sigma := append([]float64(nil), gs.State().Sigma...)
	err = gs.StepWith(nil, 0.1)
	assert.ErrorIs(t, err, ErrStaleCache)
	assert.Equal(t, sigma, gs.State().Sigma)

	// Bad inputs are refused and leave the cache valid
	assert.ErrorIs(t, gs.SetViscosity(ones(N+2)), ErrGrid)
	assert.NoError(t, gs.StepWith(J3, 0.1))
}

func TestGasTurnOff(t *testing.T) {
	N := 15
	g := logGrid(t, N)
	provider := ViscosityFunc(func(s *State) []float64 { return powerLaw(g, 0.01, 1) })
	gs, err := NewGas(g, ones(N), WithViscosity(provider), WithStepSize(0.1))
	require.NoError(t, err)
	assert.False(t, gs.ViscosityDisabled())

	gs.DisableViscosity()
	J1, err := gs.Jacobian()
	require.NoError(t, err)
	gs.DisableViscosity()
	J2, err := gs.Jacobian()
	require.NoError(t, err)
	assert.Equal(t, J1.Sub, J2.Sub)
	assert.Equal(t, J1.Diag, J2.Diag)
	assert.Equal(t, J1.Super, J2.Super)
	for i := 1; i < N-1; i++ {
		assert.Equal(t, 0., J2.Diag[i])
	}
	// The detached provider is not consulted again
	require.NoError(t, gs.Update())
	assert.True(t, gs.ViscosityDisabled())
	gs.AttachViscosity(provider)
	require.NoError(t, gs.Update())
	assert.False(t, gs.ViscosityDisabled())

	// Sources stay active with the viscosity off
	gs.DisableViscosity()
	gs.Inner = Condition{Kind: types.BC_None}
	require.NoError(t, gs.SetExternalSource(ones(N)))
	require.NoError(t, gs.Step(0.5))
	assert.Equal(t, 1.5, gs.State().Sigma[5])
	gs.DisableExternalSource()
	require.NoError(t, gs.Step(0.5))
	assert.Equal(t, 1.5, gs.State().Sigma[5])
}

func TestGasPositivity(t *testing.T) {
	N := 10
	g := logGrid(t, N)
	{ // A floor policy clamps
		gs, err := NewGas(g, ones(N), WithBoundaries(Condition{Kind: types.BC_Value, Value: -1}, DefaultOuter),
			WithSigmaFloor(1.e-30))
		require.NoError(t, err)
		assert.True(t, gs.FloorGoverned())
		require.NoError(t, gs.Step(1))
		assert.Equal(t, 1.e-30, gs.State().Sigma[0])
		assert.Equal(t, 1.e-30, gs.State().Sigma[N-1])
		assert.Equal(t, 1., gs.StepSize())
	}
	{ // Otherwise the step is refused and Sigma kept
		bc := Condition{Kind: types.BC_Value, Value: -1}
		gs, err := NewGas(g, ones(N), WithBoundaries(bc, bc))
		require.NoError(t, err)
		assert.False(t, gs.FloorGoverned())
		err = gs.Step(1)
		assert.ErrorIs(t, err, ErrNonPositiveDensity)
		assert.Equal(t, ones(N), gs.State().Sigma)
	}
	{
		gs, err := NewGas(g, ones(N))
		require.NoError(t, err)
		require.NoError(t, gs.SetSigma([]float64{1, 1.e-200, 0, 1, 1, 1, 1, 1, 1, -1}))
		gs.Finalize()
		s := gs.State()
		assert.Equal(t, DefaultSigmaFloor, s.Sigma[1])
		assert.Equal(t, DefaultSigmaFloor, s.Sigma[2])
		assert.Equal(t, DefaultSigmaFloor, s.Sigma[N-1])
		assert.Equal(t, 1., s.Sigma[0])
	}
}

func TestGasVelocities(t *testing.T) {
	N := 20
	g := logGrid(t, N)
	gs, err := NewGas(g, powerLaw(g, 1, -1), WithAlpha(1.e-3),
		WithSource(SourceFunc(func(s *State) []float64 { return powerLaw(g, 1.e-3, 0) })))
	require.NoError(t, err)
	require.NoError(t, gs.SetViscosity(powerLaw(g, 0.01, 1)))
	require.NoError(t, gs.DeriveVelocities())
	s := gs.State()
	assert.Equal(t, 1.e-3, s.Alpha)
	J, err := gs.Jacobian()
	require.NoError(t, err)
	y := J.MulVec(s.Sigma)
	for i := 1; i < N-1; i++ {
		assert.True(t, near(s.SHyd[i], y[i], 1.e-10))
		assert.Equal(t, s.SHyd[i]+1.e-3, s.STot[i])
	}
	assert.Less(t, s.VVisc[N/2], 0.)
	m := gs.Mass()
	assert.True(t, near(m, g.Mass(s.Sigma, 0, N), 1.e-14))
}

func TestNewGasErrors(t *testing.T) {
	N := 10
	g := logGrid(t, N)
	_, err := NewGas(nil, ones(N))
	assert.ErrorIs(t, err, ErrGrid)
	_, err = NewGas(g, ones(N-1))
	assert.ErrorIs(t, err, ErrGrid)
	_, err = NewGas(g, ones(N), WithViscosity(ViscosityFunc(func(s *State) []float64 { return ones(2) })))
	assert.ErrorIs(t, err, ErrGrid)
}

func TestSuggestStep(t *testing.T) {
	N := 6
	g := logGrid(t, N)
	gs, err := NewGas(g, ones(N))
	require.NoError(t, err)
	s := gs.State()
	assert.True(t, math.IsInf(gs.SuggestStep(0.1), 1))
	copy(s.STot, []float64{-100, -2, 4, -0.5, 0, -100})
	assert.True(t, near(gs.SuggestStep(0.1), 0.1*0.5, 1.e-14))
	s.Sigma[2] = 0
	s.Sigma[1] = 1.e-200
	assert.True(t, near(gs.SuggestStep(0.1), 0.1*2, 1.e-14))
}

func TestGasProviderRefresh(t *testing.T) {
	N := 12
	g := logGrid(t, N)
	calls := 0
	gs, err := NewGas(g, ones(N), WithViscosity(ViscosityFunc(func(s *State) []float64 {
		calls++
		return powerLaw(g, 0.01, 1)
	})))
	require.NoError(t, err)
	_, err = gs.Jacobian()
	require.NoError(t, err)
	// An unchanged provider result keeps the cached operator
	key := gs.Key()
	require.NoError(t, gs.Update())
	require.NoError(t, gs.Update())
	assert.Equal(t, 3, calls)
	assert.Equal(t, key, gs.Key())
	_, err = gs.Jacobian()
	require.NoError(t, err)
	assert.Equal(t, 1, gs.Builds())
	// An explicit setter always invalidates
	require.NoError(t, gs.SetViscosity(powerLaw(g, 0.01, 1)))
	assert.NotEqual(t, key, gs.Key())
}
