package disk

// Physical constants in cgs units
const (
	AU       = 1.495978707e13    // astronomical unit [cm]
	Year     = 3.15576e7         // julian year [s]
	G        = 6.6743e-8         // gravitational constant [cm^3/g/s^2]
	KB       = 1.380649e-16      // Boltzmann constant [erg/K]
	MP       = 1.67262192369e-24 // proton mass [g]
	SigmaSB  = 5.670374419e-5    // Stefan-Boltzmann constant [erg/cm^2/s/K^4]
	SigmaH2  = 2.e-15            // geometrical H2 cross section [cm^2]
	MSun     = 1.988409870698051e33
	RSun     = 6.957e10
	LSun     = 3.828e33
	MuGas    = 2.3 * MP // mean molecular mass of the gas
	GammaGas = 1.4      // adiabatic index
)
