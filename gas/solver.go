package gas

import (
	"fmt"
	"math"

	"github.com/notargets/gasdisk/grid"
)

// PositivityTol is the negative density, relative to the largest density,
// accepted as round off.
const PositivityTol = 1.e-12

// StepInput collects everything one implicit step depends on
type StepInput struct {
	Grid         *grid.Grid
	Sigma        []float64 // density at the start of the step
	Jacobian     *Jacobian
	SExt         []float64
	Inner, Outer Condition
	SigmaFloor   float64
	Dt           float64
}

// Step advances Sigma by one implicit Euler step, solving
//
//	(I - dt*J) Sigma_new = R
//
// with R = Sigma + dt*S_ext on the interior and boundary rows of J and R set by
// the boundary policies for this dt. The cached Jacobian is not modified.
//
// A negative result is returned together with an ErrNonPositiveDensity error,
// correcting it is left to the caller.
func Step(in StepInput) (sigmaNew []float64, err error) {
	var (
		J = in.Jacobian
	)
	if J == nil || in.Grid == nil {
		return nil, fmt.Errorf("%w: step without operator or grid", ErrGrid)
	}
	if !(in.Dt > 0) || math.IsInf(in.Dt, 0) {
		return nil, fmt.Errorf("gas: step size %g is not positive", in.Dt)
	}
	if len(in.Sigma) != J.N || in.Grid.N() != J.N || (in.SExt != nil && len(in.SExt) != J.N) {
		return nil, fmt.Errorf("%w: field lengths do not match the %d row operator", ErrGrid, J.N)
	}
	R := append([]float64(nil), in.Sigma...)
	AddSources(R, in.SExt, in.Dt)

	Jb := J.withRows(BoundaryRow{}, BoundaryRow{})
	ctx := BoundaryContext{
		Grid:       in.Grid,
		Dt:         in.Dt,
		Jacobian:   J,
		Sigma:      in.Sigma,
		SigmaFloor: in.SigmaFloor,
	}
	if err = ApplyBoundary(Jb, R, in.Inner, in.Outer, ctx); err != nil {
		return
	}

	if sigmaNew, err = Jb.System(in.Dt).Solve(R); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSingularSystem, err)
	}
	err = CheckPositivity(sigmaNew)
	return
}

// CheckPositivity reports densities below -PositivityTol*max(Sigma)
func CheckPositivity(sigma []float64) (err error) {
	var (
		sMax  float64
		count int
		iMin  = -1
	)
	for _, s := range sigma {
		sMax = math.Max(sMax, math.Abs(s))
	}
	tol := PositivityTol * sMax
	for i, s := range sigma {
		if s < -tol {
			count++
			if iMin < 0 || s < sigma[iMin] {
				iMin = i
			}
		}
	}
	if count > 0 {
		err = fmt.Errorf("%w: %d cells, minimum Sigma[%d] = %g", ErrNonPositiveDensity, count, iMin, sigma[iMin])
	}
	return
}
