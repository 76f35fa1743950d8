package gas

import (
	"errors"
	"fmt"
	"math"

	jww "github.com/spf13/jwalterweatherman"
	"gonum.org/v1/gonum/floats"

	"github.com/notargets/gasdisk/grid"
	"github.com/notargets/gasdisk/types"
	"github.com/notargets/gasdisk/utils"
)

// Gas owns the gas state on a grid and the cached transport operator.
//
// The operator depends on the viscosity and the backreaction/drift inputs.
// Every setter of those inputs bumps a version, the cache is rebuilt on the
// next access when the versions differ from the ones it was built with. Gas
// is not safe for concurrent use, callers sequence updates and steps.
type Gas struct {
	Inner, Outer Condition

	grid  *grid.Grid
	state *State

	viscosity    ViscosityProvider
	backreaction BackreactionProvider
	drift        DriftProvider
	source       SourceProvider

	nuVersion, brVersion uint64
	cache                struct {
		J      *Jacobian
		builds int
	}
	stepsize float64
}

func NewGas(g *grid.Grid, sigma []float64, opts ...Option) (gs *Gas, err error) {
	var (
		s *State
	)
	if err = g.Check(); err != nil {
		return
	}
	if s, err = NewState(g, sigma); err != nil {
		return
	}
	gs = &Gas{
		Inner: DefaultInner,
		Outer: DefaultOuter,
		grid:  g,
		state: s,
	}
	for _, opt := range opts {
		opt(gs)
	}
	if err = gs.Update(); err != nil {
		gs = nil
	}
	return
}

func (gs *Gas) Grid() *grid.Grid { return gs.grid }

func (gs *Gas) State() *State { return gs.state }

func (gs *Gas) StepSize() float64 { return gs.stepsize }

// SetStepSize sets the step size the boundary rows returned by Jacobian are
// evaluated with. Step sets it to the size of the last step.
func (gs *Gas) SetStepSize(dt float64) { gs.stepsize = dt }

// Key is the cache key of the current inputs
func (gs *Gas) Key() CacheKey {
	return CacheKey{
		Grid:         gs.grid.Version(),
		Viscosity:    gs.nuVersion,
		Backreaction: gs.brVersion,
	}
}

// Builds counts operator rebuilds
func (gs *Gas) Builds() int { return gs.cache.builds }

// Update pulls the attached providers, detached fields keep their values. A
// provider result equal to the current field leaves the operator cached.
func (gs *Gas) Update() (err error) {
	s := gs.state
	if gs.viscosity != nil {
		if err = gs.setNu(gs.viscosity.Viscosity(s), false); err != nil {
			return
		}
	}
	if gs.backreaction != nil {
		A, B := gs.backreaction.Backreaction(s)
		if err = gs.setBackreaction(A, B, false); err != nil {
			return
		}
	}
	if gs.drift != nil {
		eta, vK := gs.drift.Drift(s)
		if err = gs.setDrift(eta, vK, false); err != nil {
			return
		}
	}
	if gs.source != nil {
		if _, err = gs.copyField("S_ext", s.SExt, gs.source.Source(s)); err != nil {
			return
		}
	}
	return
}

// copyField validates src against the grid and copies it into dst, reporting
// whether any value changed
func (gs *Gas) copyField(name string, dst, src []float64) (changed bool, err error) {
	if len(src) != len(dst) {
		return false, fmt.Errorf("%w: len(%s) = %d on a grid of %d cells", ErrGrid, name, len(src), len(dst))
	}
	if i, bad := utils.FirstNonFinite(src); bad {
		return false, fmt.Errorf("%w: %s[%d] = %g is not finite", ErrGrid, name, i, src[i])
	}
	for i := range src {
		if dst[i] != src[i] {
			changed = true
			break
		}
	}
	copy(dst, src)
	return
}

func (gs *Gas) setNu(nu []float64, always bool) (err error) {
	var changed bool
	if changed, err = gs.copyField("nu", gs.state.Nu, nu); err != nil {
		return
	}
	if changed || always {
		gs.nuVersion++
	}
	return
}

func (gs *Gas) setBackreaction(A, B []float64, always bool) (err error) {
	var changedA, changedB bool
	if err = gs.checkField("B", B); err != nil {
		return
	}
	if changedA, err = gs.copyField("A", gs.state.A, A); err != nil {
		return
	}
	if changedB, err = gs.copyField("B", gs.state.B, B); err != nil {
		return
	}
	if changedA || changedB || always {
		gs.brVersion++
	}
	return
}

func (gs *Gas) setDrift(eta, vK []float64, always bool) (err error) {
	var changedE, changedV bool
	if err = gs.checkField("vK", vK); err != nil {
		return
	}
	if changedE, err = gs.copyField("eta", gs.state.Eta, eta); err != nil {
		return
	}
	if changedV, err = gs.copyField("vK", gs.state.VK, vK); err != nil {
		return
	}
	if changedE || changedV || always {
		gs.brVersion++
	}
	return
}

// checkField validates a field without storing it, so that pairs are set
// together or not at all
func (gs *Gas) checkField(name string, x []float64) (err error) {
	_, err = gs.copyField(name, make([]float64, gs.grid.N()), x)
	return
}

// SetViscosity detaches the viscosity provider and freezes nu
func (gs *Gas) SetViscosity(nu []float64) error {
	gs.viscosity = nil
	return gs.setNu(nu, true)
}

// DisableViscosity turns viscous transport off: nu is frozen to zero and the
// provider detached. Other sources stay active.
func (gs *Gas) DisableViscosity() {
	_ = gs.SetViscosity(make([]float64, gs.grid.N()))
}

func (gs *Gas) AttachViscosity(p ViscosityProvider) { gs.viscosity = p }

// SetBackreaction detaches the backreaction provider and freezes A and B
func (gs *Gas) SetBackreaction(A, B []float64) error {
	gs.backreaction = nil
	return gs.setBackreaction(A, B, true)
}

// ResetBackreaction restores A = 1, B = 0 and detaches the provider
func (gs *Gas) ResetBackreaction() {
	N := gs.grid.N()
	_ = gs.SetBackreaction(utils.ConstArray(N, 1), make([]float64, N))
}

func (gs *Gas) AttachBackreaction(p BackreactionProvider) { gs.backreaction = p }

// SetDrift detaches the drift provider and freezes eta and vK
func (gs *Gas) SetDrift(eta, vK []float64) error {
	gs.drift = nil
	return gs.setDrift(eta, vK, true)
}

func (gs *Gas) AttachDrift(p DriftProvider) { gs.drift = p }

// SetExternalSource detaches the source provider and freezes S_ext
func (gs *Gas) SetExternalSource(S []float64) error {
	gs.source = nil
	_, err := gs.copyField("S_ext", gs.state.SExt, S)
	return err
}

// DisableExternalSource freezes S_ext to zero and detaches the provider
func (gs *Gas) DisableExternalSource() {
	_ = gs.SetExternalSource(make([]float64, gs.grid.N()))
}

func (gs *Gas) AttachExternalSource(p SourceProvider) { gs.source = p }

// SetSigma overwrites the density, the operator does not depend on it
func (gs *Gas) SetSigma(sigma []float64) error {
	_, err := gs.copyField("Sigma", gs.state.Sigma, sigma)
	return err
}

// operator returns the cached interior operator, rebuilt when stale
func (gs *Gas) operator() (J *Jacobian, err error) {
	key := gs.Key()
	if gs.cache.J != nil && gs.cache.J.Key == key {
		return gs.cache.J, nil
	}
	s := gs.state
	if J, err = BuildJacobian(gs.grid, s.Nu, s.A, s.B, s.Eta, s.VK); err != nil {
		return
	}
	J.Key = key
	gs.cache.J = J
	gs.cache.builds++
	return
}

// ProvisionalStep scales the boundary rows of Jacobian before any step size
// is set
const ProvisionalStep = 1.

// Jacobian returns the current operator with its boundary rows evaluated for
// the current step size, or ProvisionalStep when none is set. The boundary
// components of J*Sigma are placeholders, the step solve finalizes them.
func (gs *Gas) Jacobian() (J *Jacobian, err error) {
	var (
		dt = gs.stepsize
	)
	if J, err = gs.operator(); err != nil {
		return
	}
	if dt <= 0 {
		dt = ProvisionalStep
	}
	J = J.withRows(BoundaryRow{}, BoundaryRow{})
	R := make([]float64, J.N)
	err = ApplyBoundary(J, R, gs.Inner, gs.Outer, gs.boundaryContext(dt))
	return
}

func (gs *Gas) boundaryContext(dt float64) BoundaryContext {
	return BoundaryContext{
		Grid:       gs.grid,
		Dt:         dt,
		Sigma:      gs.state.Sigma,
		SigmaFloor: gs.state.SigmaFloor,
	}
}

// FloorGoverned reports whether a floor value policy holds either boundary
func (gs *Gas) FloorGoverned() bool {
	return gs.Inner.Kind == types.BC_FloorValue || gs.Outer.Kind == types.BC_FloorValue
}

// Step advances Sigma by dt with the cached operator
func (gs *Gas) Step(dt float64) (err error) {
	var (
		J *Jacobian
	)
	if J, err = gs.operator(); err != nil {
		return
	}
	return gs.StepWith(J, dt)
}

// StepWith advances Sigma by dt with an operator obtained earlier from this
// Gas. An operator built from inputs that changed since is refused with
// ErrStaleCache.
//
// Negative densities are clamped to the floor, with a warning, when a floor
// value policy governs a boundary, otherwise the step is refused and Sigma
// kept.
func (gs *Gas) StepWith(J *Jacobian, dt float64) (err error) {
	var (
		s        = gs.state
		sigmaNew []float64
	)
	if J == nil {
		return fmt.Errorf("%w: no operator to step with", ErrStaleCache)
	}
	if J.Key != gs.Key() {
		return fmt.Errorf("%w: built for %+v, inputs at %+v", ErrStaleCache, J.Key, gs.Key())
	}
	sigmaNew, err = Step(StepInput{
		Grid:       gs.grid,
		Sigma:      s.Sigma,
		Jacobian:   J,
		SExt:       s.SExt,
		Inner:      gs.Inner,
		Outer:      gs.Outer,
		SigmaFloor: s.SigmaFloor,
		Dt:         dt,
	})
	if err != nil {
		if !errors.Is(err, ErrNonPositiveDensity) || sigmaNew == nil || !gs.FloorGoverned() {
			return
		}
		jww.WARN.Printf("%v, clamped to floor %g\n", err, s.SigmaFloor)
		clampFloor(sigmaNew, s.SigmaFloor)
		err = nil
	}
	copy(s.Sigma, sigmaNew)
	gs.stepsize = dt
	return
}

// Finalize enforces the floor density on every cell
func (gs *Gas) Finalize() {
	clampFloor(gs.state.Sigma, gs.state.SigmaFloor)
}

func clampFloor(sigma []float64, floor float64) {
	for i, val := range sigma {
		sigma[i] = math.Max(val, floor)
	}
}

// DeriveVelocities recomputes the velocities, fluxes and source terms from
// the current density
func (gs *Gas) DeriveVelocities() (err error) {
	var (
		s = gs.state
		v Velocities
	)
	if v, err = DeriveVelocities(gs.grid, s.Sigma, s.Nu, s.A, s.B, s.Eta, s.VK); err != nil {
		return
	}
	s.VVisc, s.VRad, s.Fi, s.SHyd = v.VVisc, v.VRad, v.Fi, v.SHyd
	for i := range s.STot {
		s.STot[i] = s.SHyd[i] + s.SExt[i]
	}
	return
}

// SuggestStep returns cfl*min|Sigma/S_tot| over the interior cells above the
// floor that are losing mass, +Inf when no cell is. It reads the source terms
// of the last DeriveVelocities.
func (gs *Gas) SuggestStep(cfl float64) float64 {
	var (
		s     = gs.state
		rates []float64
	)
	for i := 1; i < len(s.Sigma)-1; i++ {
		if s.Sigma[i] > s.SigmaFloor && s.STot[i] < 0 {
			rates = append(rates, math.Abs(s.Sigma[i]/s.STot[i]))
		}
	}
	if len(rates) == 0 {
		return math.Inf(1)
	}
	return cfl * floats.Min(rates)
}

// Mass returns the total gas mass on the grid
func (gs *Gas) Mass() float64 {
	return gs.grid.Mass(gs.state.Sigma, 0, gs.grid.N())
}

// ViscosityDisabled reports whether nu is zero everywhere
func (gs *Gas) ViscosityDisabled() bool {
	for _, val := range gs.state.Nu {
		if val != 0 {
			return false
		}
	}
	return true
}
