package gas

import (
	"errors"

	"github.com/notargets/gasdisk/grid"
)

// Errors returned by the gas operator and solver. Callers match them with
// errors.Is, the returned errors wrap them with context.
var (
	// ErrGrid is a malformed or too small grid, or input arrays that do not
	// match the grid.
	ErrGrid = grid.ErrGrid

	// ErrSingularSystem is a vanishing pivot or a non finite solution of the
	// implicit system. The time step is aborted.
	ErrSingularSystem = errors.New("gas: singular implicit system")

	// ErrNonPositiveDensity is a solution with negative surface density beyond
	// round off.
	ErrNonPositiveDensity = errors.New("gas: negative surface density")

	// ErrStaleCache is a Jacobian consumed after one of its inputs changed.
	// It signals a sequencing fault in the caller.
	ErrStaleCache = errors.New("gas: stale jacobian")
)
