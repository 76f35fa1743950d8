package gas

import (
	"fmt"

	"github.com/notargets/gasdisk/grid"
	"github.com/notargets/gasdisk/utils"
)

// DefaultSigmaFloor is the floor surface density used when none is configured
const DefaultSigmaFloor = 1.e-100

// State holds the gas fields on the cell centers of a grid. Sigma is the only
// field changed by a time step, VVisc, VRad, Fi, SHyd and STot are derived
// after the step.
type State struct {
	Sigma      []float64 // surface density
	Nu         []float64 // kinematic viscosity
	Alpha      float64   // turbulent alpha parameter
	A, B       []float64 // dust backreaction coefficients
	Eta        []float64 // pressure gradient parameter
	VK         []float64 // Keplerian velocity
	SExt       []float64 // external sources
	VVisc      []float64 // viscous radial velocity
	VRad       []float64 // radial velocity
	Fi         []float64 // mass flux through the N+1 interfaces, Sigma*v
	SHyd       []float64 // hydrodynamic source terms
	STot       []float64 // SHyd + SExt
	SigmaFloor float64
}

func NewState(g *grid.Grid, sigma []float64) (s *State, err error) {
	var (
		N = g.N()
	)
	if len(sigma) != N {
		err = fmt.Errorf("%w: len(Sigma) = %d on a grid of %d cells", ErrGrid, len(sigma), N)
		return
	}
	s = &State{
		Sigma:      append([]float64(nil), sigma...),
		Nu:         make([]float64, N),
		A:          utils.ConstArray(N, 1),
		B:          make([]float64, N),
		Eta:        make([]float64, N),
		VK:         make([]float64, N),
		SExt:       make([]float64, N),
		VVisc:      make([]float64, N),
		VRad:       make([]float64, N),
		Fi:         make([]float64, N+1),
		SHyd:       make([]float64, N),
		STot:       make([]float64, N),
		SigmaFloor: DefaultSigmaFloor,
	}
	return
}

// Drift returns the backreaction drift velocity 2*B*eta*vK
func (s *State) Drift() (vd []float64) {
	vd = make([]float64, len(s.B))
	for i := range vd {
		vd[i] = 2 * s.B[i] * s.Eta[i] * s.VK[i]
	}
	return
}
