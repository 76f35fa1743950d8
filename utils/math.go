package utils

func ConstArray(N int, val float64) (v []float64) {
	v = make([]float64, N)
	for i := range v {
		v[i] = val
	}
	return
}

// LinearAt interpolates the cell centered field f linearly in r onto the
// location x, from the pair r[i], r[i+1]. Outside the pair it extrapolates.
func LinearAt(r, f []float64, i int, x float64) float64 {
	w := (x - r[i]) / (r[i+1] - r[i])
	return (1-w)*f[i] + w*f[i+1]
}

// ToInterfaces interpolates the cell centered field f onto the interior
// interfaces ri[1..N-1]. The two outer interfaces take the edge cell values.
func ToInterfaces(r, ri, f []float64) (fi []float64) {
	var (
		N = len(r)
	)
	fi = make([]float64, N+1)
	fi[0], fi[N] = f[0], f[N-1]
	for k := 1; k < N; k++ {
		fi[k] = LinearAt(r, f, k-1, ri[k])
	}
	return
}

// ToCenters interpolates the interface field fi (length N+1, only the interior
// entries are used) onto cell centers. The edge cells take the value of their
// single interior interface.
func ToCenters(r, ri, fi []float64) (f []float64) {
	var (
		N = len(r)
	)
	f = make([]float64, N)
	f[0], f[N-1] = fi[1], fi[N-1]
	for i := 1; i < N-1; i++ {
		w := (r[i] - ri[i]) / (ri[i+1] - ri[i])
		f[i] = (1-w)*fi[i] + w*fi[i+1]
	}
	return
}
