package gas

// Providers recompute an input field from the current state. A detached
// provider (nil) freezes the field at its last value.

type ViscosityProvider interface {
	Viscosity(s *State) []float64
}

type BackreactionProvider interface {
	Backreaction(s *State) (A, B []float64)
}

type DriftProvider interface {
	Drift(s *State) (eta, vK []float64)
}

type SourceProvider interface {
	Source(s *State) []float64
}

// ViscosityFunc adapts a function to a ViscosityProvider
type ViscosityFunc func(s *State) []float64

func (f ViscosityFunc) Viscosity(s *State) []float64 { return f(s) }

// SourceFunc adapts a function to a SourceProvider
type SourceFunc func(s *State) []float64

func (f SourceFunc) Source(s *State) []float64 { return f(s) }

// Option configures a Gas at construction
type Option func(gs *Gas)

func WithViscosity(p ViscosityProvider) Option {
	return func(gs *Gas) { gs.viscosity = p }
}

func WithBackreaction(p BackreactionProvider) Option {
	return func(gs *Gas) { gs.backreaction = p }
}

func WithDrift(p DriftProvider) Option {
	return func(gs *Gas) { gs.drift = p }
}

func WithSource(p SourceProvider) Option {
	return func(gs *Gas) { gs.source = p }
}

func WithBoundaries(inner, outer Condition) Option {
	return func(gs *Gas) { gs.Inner, gs.Outer = inner, outer }
}

func WithSigmaFloor(floor float64) Option {
	return func(gs *Gas) { gs.state.SigmaFloor = floor }
}

func WithAlpha(alpha float64) Option {
	return func(gs *Gas) { gs.state.Alpha = alpha }
}

func WithStepSize(dt float64) Option {
	return func(gs *Gas) { gs.stepsize = dt }
}
