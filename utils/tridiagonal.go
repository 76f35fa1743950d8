package utils

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrSingular is returned when the elimination meets a zero pivot or produces
// a non finite solution.
var ErrSingular = errors.New("utils: singular tri-diagonal system")

// pivotTol is the relative size below which a pivot is treated as zero
const pivotTol = 1.e-14

// TriDiagonal is an N x N tri-diagonal matrix with two optional corner entries
// needed by boundary rows that couple to a second neighbour:
//
//	row 0:   Diag[0] Super[0] Corner0
//	row i:   Sub[i] Diag[i] Super[i]
//	row N-1: CornerN Sub[N-1] Diag[N-1]
//
// Sub[0] and Super[N-1] are unused.
type TriDiagonal struct {
	Sub, Diag, Super []float64
	Corner0, CornerN float64
}

func NewTriDiagonal(N int) (T *TriDiagonal) {
	T = &TriDiagonal{
		Sub:   make([]float64, N),
		Diag:  make([]float64, N),
		Super: make([]float64, N),
	}
	return
}

// Dims, At and T satisfy the mat.Matrix interface.
func (T *TriDiagonal) Dims() (r, c int) { return len(T.Diag), len(T.Diag) }

func (T *TriDiagonal) At(i, j int) float64 {
	var (
		N = len(T.Diag)
	)
	if i < 0 || j < 0 || i >= N || j >= N {
		panic(mat.ErrIndexOutOfRange)
	}
	switch {
	case i == j:
		return T.Diag[i]
	case j == i-1:
		return T.Sub[i]
	case j == i+1:
		return T.Super[i]
	case i == 0 && j == 2:
		return T.Corner0
	case i == N-1 && j == N-3:
		return T.CornerN
	}
	return 0
}

func (T *TriDiagonal) T() mat.Matrix { return mat.Transpose{Matrix: T} }

// MulVec returns y = T x
func (T *TriDiagonal) MulVec(x []float64) (y []float64) {
	var (
		N = len(T.Diag)
	)
	y = make([]float64, N)
	for i := 0; i < N; i++ {
		y[i] = T.Diag[i] * x[i]
		if i > 0 {
			y[i] += T.Sub[i] * x[i-1]
		}
		if i < N-1 {
			y[i] += T.Super[i] * x[i+1]
		}
	}
	y[0] += T.Corner0 * x[2]
	y[N-1] += T.CornerN * x[N-3]
	return
}

// Solve solves T x = rhs by forward elimination and back substitution. The
// corner entries are folded into the sweep: Corner0 rides along row 0 into the
// super diagonal of row 1, CornerN is removed from the last row using the
// already reduced row N-3. No pivoting is done, a vanishing pivot is reported
// as ErrSingular.
func (T *TriDiagonal) Solve(rhs []float64) (x []float64, err error) {
	var (
		N     = len(T.Diag)
		cp    = make([]float64, N) // modified super diagonal
		dp    = make([]float64, N) // modified rhs
		cc0   float64              // modified corner of row 0
		denom float64
	)
	if N < 3 || len(T.Sub) != N || len(T.Super) != N || len(rhs) != N {
		err = fmt.Errorf("%w: dimension mismatch, N = %d, len(rhs) = %d", ErrSingular, N, len(rhs))
		return
	}
	pivot := func(i int, d, scale float64) error {
		if d == 0 || math.IsNaN(d) || math.IsInf(d, 0) || math.Abs(d) <= pivotTol*scale {
			return fmt.Errorf("%w: pivot %g at row %d", ErrSingular, d, i)
		}
		return nil
	}
	rowScale := func(vals ...float64) (s float64) {
		for _, v := range vals {
			s = math.Max(s, math.Abs(v))
		}
		return
	}

	// Forward elimination
	denom = T.Diag[0]
	if err = pivot(0, denom, rowScale(T.Diag[0], T.Super[0], T.Corner0)); err != nil {
		return
	}
	cp[0] = T.Super[0] / denom
	cc0 = T.Corner0 / denom
	dp[0] = rhs[0] / denom
	for i := 1; i < N-1; i++ {
		super := T.Super[i]
		if i == 1 {
			super -= T.Sub[1] * cc0
		}
		denom = T.Diag[i] - T.Sub[i]*cp[i-1]
		if err = pivot(i, denom, rowScale(T.Sub[i], T.Diag[i], T.Super[i])); err != nil {
			return
		}
		cp[i] = super / denom
		dp[i] = (rhs[i] - T.Sub[i]*dp[i-1]) / denom
	}

	// Last row, corner removed using the reduced row N-3
	var (
		n     = N - 1
		sub   = T.Sub[n] - T.CornerN*cp[n-2]
		diag  = T.Diag[n]
		rhsN  = rhs[n] - T.CornerN*dp[n-2]
		scale = rowScale(T.CornerN, T.Sub[n], T.Diag[n])
	)
	if n-2 == 0 {
		diag -= T.CornerN * cc0
	}
	denom = diag - sub*cp[n-1]
	if err = pivot(n, denom, scale); err != nil {
		return
	}
	dp[n] = (rhsN - sub*dp[n-1]) / denom

	// Back substitution
	x = make([]float64, N)
	x[n] = dp[n]
	for i := n - 1; i >= 0; i-- {
		x[i] = dp[i] - cp[i]*x[i+1]
	}
	x[0] -= cc0 * x[2]
	if i, bad := FirstNonFinite(x); bad {
		err = fmt.Errorf("%w: non finite solution %g at row %d", ErrSingular, x[i], i)
		x = nil
	}
	return
}
