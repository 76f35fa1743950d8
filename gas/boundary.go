package gas

import (
	"fmt"
	"math"

	"github.com/notargets/gasdisk/grid"
	"github.com/notargets/gasdisk/types"
)

// Edge selects the boundary row
type Edge uint8

const (
	Inner Edge = iota
	Outer
)

func (e Edge) String() string {
	if e == Inner {
		return "inner"
	}
	return "outer"
}

// Condition is a boundary policy, Value parameterizes the kinds that need one
type Condition struct {
	Kind  types.BCKind
	Value float64
}

func (c Condition) String() string {
	if c.Kind.NeedsValue() {
		return fmt.Sprintf("%s(%g)", c.Kind, c.Value)
	}
	return c.Kind.String()
}

var (
	DefaultInner = Condition{Kind: types.BC_ConstantGradient}
	DefaultOuter = Condition{Kind: types.BC_FloorValue}
)

// BoundaryContext carries what a policy may read. Jacobian supplies the
// interface flux coefficients for zero flux, Sigma the pre-step density for
// the policies that hold or measure it.
type BoundaryContext struct {
	Grid       *grid.Grid
	Dt         float64
	Jacobian   *Jacobian
	Sigma      []float64
	SigmaFloor float64
}

// edgeView is the grid seen from one edge: index 0 is the edge cell, 1 and 2
// its neighbours inward, ri1 the interface between 0 and 1.
type edgeView struct {
	r0, r1, r2 float64
	ri1        float64
	s0, s1, s2 int // cell indices
	k1         int // interface index
}

func newEdgeView(g *grid.Grid, e Edge) (ev edgeView) {
	var (
		N     = g.N()
		r, ri = g.R(), g.Ri()
	)
	if e == Inner {
		ev = edgeView{r0: r[0], r1: r[1], r2: r[2], ri1: ri[1], s0: 0, s1: 1, s2: 2, k1: 1}
	} else {
		ev = edgeView{r0: r[N-1], r1: r[N-2], r2: r[N-3], ri1: ri[N-1], s0: N - 1, s1: N - 2, s2: N - 3, k1: N - 1}
	}
	return
}

// Row evaluates the policy into a boundary row. After the implicit transform
// the row reads Sigma_0 - dt*(Coef[1]*Sigma_1 + Coef[2]*Sigma_2) = RHS, so a
// relation Sigma_0 = K1*Sigma_1 + K2*Sigma_2 + C is stored as Coef = K/dt.
func (c Condition) Row(ctx BoundaryContext, e Edge) (row BoundaryRow, err error) {
	if ctx.Grid == nil {
		err = fmt.Errorf("%w: boundary without grid", ErrGrid)
		return
	}
	var (
		ev = newEdgeView(ctx.Grid, e)
		dt = ctx.Dt
	)
	if !(dt > 0) {
		err = fmt.Errorf("%s boundary %s: step size %g is not positive", e, c, dt)
		return
	}
	switch c.Kind {
	case types.BC_None:
		if len(ctx.Sigma) != ctx.Grid.N() {
			err = fmt.Errorf("%w: %s boundary %s needs the current density", ErrGrid, e, c)
			return
		}
		row.Width = 1
		row.RHS = ctx.Sigma[ev.s0]
	case types.BC_Value:
		row.Width = 1
		row.RHS = c.Value
	case types.BC_FloorValue:
		row.Width = 1
		row.RHS = ctx.SigmaFloor
	case types.BC_ConstantValue:
		row.Width = 2
		row.Coef[1] = 1 / dt
	case types.BC_Gradient:
		row.Width = 2
		row.Coef[1] = ev.r1 / ev.r0 / dt
		row.RHS = -ev.ri1 / ev.r0 * (ev.r1 - ev.r0) * c.Value
	case types.BC_ConstantGradient:
		// r0*Sigma_0 = (1+D)*r1*Sigma_1 - D*r2*Sigma_2, the same relation on
		// both edges with the cells counted inward
		D := ev.r1 / ev.r2 * (ev.r1 - ev.r0) / (ev.r2 - ev.r0)
		row.Width = 3
		row.Coef[1] = ev.r1 / ev.r0 * (1 + D) / dt
		row.Coef[2] = -ev.r2 / ev.r0 * D / dt
	case types.BC_PowerLaw:
		row.Width = 2
		row.Coef[1] = math.Pow(ev.r0/ev.r1, c.Value) / dt
	case types.BC_ConstantPowerLaw:
		if len(ctx.Sigma) != ctx.Grid.N() {
			err = fmt.Errorf("%w: %s boundary %s needs the current density", ErrGrid, e, c)
			return
		}
		s1, s2 := ctx.Sigma[ev.s1], ctx.Sigma[ev.s2]
		if !(s1 > 0 && s2 > 0) {
			err = fmt.Errorf("%w: %s boundary %s, power law undefined for Sigma = %g, %g",
				ErrNonPositiveDensity, e, c, s1, s2)
			return
		}
		p := math.Log(s2/s1) / math.Log(ev.r2/ev.r1)
		row.Width = 2
		row.Coef[1] = math.Pow(ev.r0/ev.r1, p) / dt
	case types.BC_ZeroFlux:
		if ctx.Jacobian == nil {
			err = fmt.Errorf("%s boundary %s needs the interface flux coefficients", e, c)
			return
		}
		// Flux through the edge interface is a*Sigma_inner_side + b*Sigma_outer_side
		var (
			fEdge, fNext = ctx.Jacobian.Fa[ev.k1], ctx.Jacobian.Fb[ev.k1]
		)
		if e == Outer {
			fEdge, fNext = fNext, fEdge
		}
		row.Width = 2
		if fEdge == 0 {
			// No transport out of the edge cell, hold a zero gradient instead
			row.Coef[1] = 1 / dt
		} else {
			row.Coef[1] = -fNext / fEdge / dt
		}
	default:
		err = fmt.Errorf("%s boundary: unsupported condition %s", e, c)
	}
	return
}

// ApplyBoundary overwrites rows 0 and N-1 of J and the matching entries of R.
// Interior rows are left untouched.
func ApplyBoundary(J *Jacobian, R []float64, inner, outer Condition, ctx BoundaryContext) (err error) {
	var (
		N = J.N
	)
	if len(R) != N {
		return fmt.Errorf("%w: len(R) = %d, operator has %d rows", ErrGrid, len(R), N)
	}
	if ctx.Jacobian == nil {
		ctx.Jacobian = J
	}
	if J.Inner, err = inner.Row(ctx, Inner); err != nil {
		return
	}
	if J.Outer, err = outer.Row(ctx, Outer); err != nil {
		return
	}
	R[0] = J.Inner.RHS
	R[N-1] = J.Outer.RHS
	return
}
