package disk

import (
	"math"

	"github.com/notargets/gasdisk/utils"
)

// Midplane profiles on the cell centers. All take and return cgs values.

func OmegaK(r []float64, mStar float64) (om []float64) {
	om = make([]float64, len(r))
	for i, rr := range r {
		om[i] = math.Sqrt(G * mStar / (rr * rr * rr))
	}
	return
}

// VK is the Keplerian velocity r*OmegaK
func VK(r, omegaK []float64) (v []float64) {
	v = make([]float64, len(r))
	for i := range v {
		v[i] = r[i] * omegaK[i]
	}
	return
}

// TPassive is the temperature of a passively irradiated disk with a grazing
// angle of 0.05
func TPassive(r []float64, lStar float64) (T []float64) {
	T = make([]float64, len(r))
	for i, rr := range r {
		T[i] = math.Pow(lStar*0.05/(4*math.Pi*rr*rr*SigmaSB), 0.25)
	}
	return
}

// CsAdiabatic is the adiabatic sound speed, gamma = 1 gives the isothermal one
func CsAdiabatic(T []float64, gamma, mu float64) (cs []float64) {
	cs = make([]float64, len(T))
	for i, t := range T {
		cs[i] = math.Sqrt(gamma * KB * t / mu)
	}
	return
}

// Hp is the pressure scale height cs/OmegaK
func Hp(cs, omegaK []float64) (h []float64) {
	h = make([]float64, len(cs))
	for i := range h {
		h[i] = cs[i] / omegaK[i]
	}
	return
}

// AlphaViscosity is nu = alpha*cs*Hp
func AlphaViscosity(alpha float64, cs, hp []float64) (nu []float64) {
	nu = make([]float64, len(cs))
	for i := range nu {
		nu[i] = alpha * cs[i] * hp[i]
	}
	return
}

func RhoMidplane(sigma, hp []float64) (rho []float64) {
	rho = make([]float64, len(sigma))
	for i := range rho {
		rho[i] = sigma[i] / (math.Sqrt(2*math.Pi) * hp[i])
	}
	return
}

func PMidplane(rho, cs []float64, gamma float64) (P []float64) {
	P = make([]float64, len(rho))
	for i := range P {
		P[i] = rho[i] * cs[i] * cs[i] / gamma
	}
	return
}

func NMidplane(rho []float64, mu float64) (n []float64) {
	n = make([]float64, len(rho))
	for i := range n {
		n[i] = rho[i] / mu
	}
	return
}

// MfpMidplane is the mean free path of the gas molecules
func MfpMidplane(n []float64) (mfp []float64) {
	mfp = make([]float64, len(n))
	for i := range mfp {
		mfp[i] = 1 / (math.Sqrt2 * n[i] * SigmaH2)
	}
	return
}

// EtaMidplane is the pressure gradient parameter -(Hp/r)^2 dlnP/dlnr / 2. The
// pressure is interpolated linearly onto the interfaces, the two outer
// interfaces are extrapolated from the edge cells.
func EtaMidplane(hp, P, r, ri []float64) (eta []float64) {
	var (
		N  = len(r)
		Pi = utils.ToInterfaces(r, ri, P)
	)
	Pi[0] = utils.LinearAt(r, P, 0, ri[0])
	Pi[N] = utils.LinearAt(r, P, N-2, ri[N])
	eta = make([]float64, N)
	for i := range eta {
		h := hp[i] / r[i]
		if P[i] == 0 {
			continue
		}
		dlnP := r[i] / P[i] * (Pi[i+1] - Pi[i]) / (ri[i+1] - ri[i])
		eta[i] = -0.5 * h * h * dlnP
	}
	return
}

// LyndenBellPringle is the self similar surface density
//
//	Mdisk (2+p)/(2 Pi rc^2) (r/rc)^p exp(-(r/rc)^(2+p))
//
// of a disk of mass Mdisk, characteristic radius rc and inner slope p > -2.
func LyndenBellPringle(r []float64, rc, p, mDisk float64) (sigma []float64) {
	var (
		norm = mDisk * (2 + p) / (2 * math.Pi * rc * rc)
	)
	sigma = make([]float64, len(r))
	for i, rr := range r {
		x := rr / rc
		sigma[i] = norm * math.Pow(x, p) * math.Exp(-math.Pow(x, 2+p))
	}
	return
}
