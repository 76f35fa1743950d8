package disk

import (
	"github.com/notargets/gasdisk/gas"
	"github.com/notargets/gasdisk/grid"
	"github.com/notargets/gasdisk/utils"
)

// Model is a passively irradiated disk around a star. It supplies the
// alpha viscosity and the drift inputs of the gas, the temperature profile is
// fixed by the stellar luminosity.
type Model struct {
	MStar, LStar  float64
	Alpha         float64 // used when the gas state has no alpha set
	Gamma, Mu     float64
	r, ri         []float64
	OmegaK, VK, T []float64
	Cs, Hp        []float64
}

func NewModel(g *grid.Grid, mStar, lStar, alpha float64) (m *Model) {
	m = &Model{
		MStar: mStar,
		LStar: lStar,
		Alpha: alpha,
		Gamma: GammaGas,
		Mu:    MuGas,
		r:     g.R(),
		ri:    g.Ri(),
	}
	m.OmegaK = OmegaK(m.r, mStar)
	m.VK = VK(m.r, m.OmegaK)
	m.T = TPassive(m.r, lStar)
	m.Cs = CsAdiabatic(m.T, m.Gamma, m.Mu)
	m.Hp = Hp(m.Cs, m.OmegaK)
	return
}

func (m *Model) alpha(s *gas.State) float64 {
	if s != nil && s.Alpha > 0 {
		return s.Alpha
	}
	return m.Alpha
}

// Viscosity implements gas.ViscosityProvider
func (m *Model) Viscosity(s *gas.State) []float64 {
	return AlphaViscosity(m.alpha(s), m.Cs, m.Hp)
}

// Drift implements gas.DriftProvider, eta follows the midplane pressure of the
// current surface density.
func (m *Model) Drift(s *gas.State) (eta, vK []float64) {
	var (
		P = PMidplane(RhoMidplane(s.Sigma, m.Hp), m.Cs, m.Gamma)
	)
	eta = EtaMidplane(m.Hp, P, m.r, m.ri)
	vK = append([]float64(nil), m.VK...)
	return
}

// Profile is a snapshot of the midplane quantities of a surface density
type Profile struct {
	Rho, P, N, Mfp, Eta []float64
}

func (m *Model) Profile(sigma []float64) (p Profile) {
	p.Rho = RhoMidplane(sigma, m.Hp)
	p.P = PMidplane(p.Rho, m.Cs, m.Gamma)
	p.N = NMidplane(p.Rho, m.Mu)
	p.Mfp = MfpMidplane(p.N)
	p.Eta = EtaMidplane(m.Hp, p.P, m.r, m.ri)
	return
}

// Backreaction holds constant backreaction coefficients, it implements
// gas.BackreactionProvider.
type Backreaction struct {
	A, B float64
}

func (b Backreaction) Backreaction(s *gas.State) (A, B []float64) {
	N := len(s.Sigma)
	return utils.ConstArray(N, b.A), utils.ConstArray(N, b.B)
}
