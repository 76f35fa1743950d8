package gas

// AddSources adds dt*S to the interior entries of R. The two boundary entries
// belong to the boundary policies and are never touched, so the first and last
// source entries have no effect.
func AddSources(R, S []float64, dt float64) {
	if S == nil {
		return
	}
	for i := 1; i < len(R)-1; i++ {
		R[i] += dt * S[i]
	}
}
