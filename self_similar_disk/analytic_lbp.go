package self_similar_disk

import (
	"fmt"
	"math"
)

// Params describe a Lynden-Bell & Pringle disk with viscosity
// nu = NuC*(r/Rc)^Gamma and initial mass MDisk.
type Params struct {
	Rc, NuC, Gamma, MDisk float64
}

func (p Params) Check() (err error) {
	if !(p.Rc > 0) || !(p.NuC > 0) || !(p.MDisk > 0) {
		return fmt.Errorf("self similar disk needs Rc, NuC, MDisk > 0, have %g, %g, %g", p.Rc, p.NuC, p.MDisk)
	}
	if !(p.Gamma < 2) {
		return fmt.Errorf("self similar disk needs Gamma < 2, have %g", p.Gamma)
	}
	return
}

// ViscousTime is the scaling time ts = Rc^2/(3 (2-Gamma)^2 NuC)
func (p Params) ViscousTime() float64 {
	return p.Rc * p.Rc / (3 * (2 - p.Gamma) * (2 - p.Gamma) * p.NuC)
}

func (p Params) Nu(r []float64) (nu []float64) {
	nu = make([]float64, len(r))
	for i, rr := range r {
		nu[i] = p.NuC * math.Pow(rr/p.Rc, p.Gamma)
	}
	return
}

// Mass is the disk mass left at time t, the rest has accreted onto the star
func (p Params) Mass(t float64) float64 {
	T := 1 + t/p.ViscousTime()
	return p.MDisk * math.Pow(T, -1/(2*(2-p.Gamma)))
}

// LBP_calc evaluates the self similar surface density and radial velocity at
// time t,
//
//	Sigma = MDisk (2-Gamma)/(2 Pi Rc^2) x^-Gamma T^-(5/2-Gamma)/(2-Gamma) exp(-x^(2-Gamma)/T)
//	Vr    = -3 nu/(2r) (1 - 2 (2-Gamma) x^(2-Gamma)/T)
//
// with x = r/Rc and T = 1 + t/ts.
func LBP_calc(p Params, r []float64, t float64) (Sigma, Vr []float64) {
	var (
		g2   = 2 - p.Gamma
		T    = 1 + t/p.ViscousTime()
		norm = p.MDisk * g2 / (2 * math.Pi * p.Rc * p.Rc) * math.Pow(T, -(2.5-p.Gamma)/g2)
		nu   = p.Nu(r)
	)
	Sigma = make([]float64, len(r))
	Vr = make([]float64, len(r))
	for i, rr := range r {
		x := rr / p.Rc
		u := math.Pow(x, g2) / T
		Sigma[i] = norm * math.Pow(x, -p.Gamma) * math.Exp(-u)
		Vr[i] = -1.5 * nu[i] / rr * (1 - 2*g2*u)
	}
	return
}

// TransitionRadius is where Vr changes sign, gas inside accretes and gas
// outside spreads.
func (p Params) TransitionRadius(t float64) float64 {
	var (
		g2 = 2 - p.Gamma
		T  = 1 + t/p.ViscousTime()
	)
	return p.Rc * math.Pow(T/(2*g2), 1/g2)
}
