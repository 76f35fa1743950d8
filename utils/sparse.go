package utils

import (
	"fmt"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"
)

type DOK struct {
	M        *sparse.DOK
	readOnly bool
	name     string
}

func NewDOK(nr, nc int) (R DOK) {
	R = DOK{
		sparse.NewDOK(nr, nc),
		false,
		"unnamed - hint: pass a variable name to SetReadOnly()",
	}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m DOK) Dims() (r, c int)    { return m.M.Dims() }
func (m DOK) At(i, j int) float64 { return m.M.At(i, j) }
func (m DOK) T() mat.Matrix       { return m.M.T() }

func (m DOK) Set(i, j int, val float64) {
	m.checkWritable()
	m.M.Set(i, j, val)
}

func (m *DOK) SetReadOnly(name ...string) {
	if len(name) != 0 {
		m.name = name[0]
	}
	m.readOnly = true
}

func (m DOK) checkWritable() {
	if m.readOnly {
		err := fmt.Errorf("attempt to write to a read only matrix named: \"%v\"", m.name)
		panic(err)
	}
}

func (m DOK) ToCSR() CSR {
	return CSR{
		M:    m.M.ToCSR(),
		name: m.name,
	}
}

// CSR is a read only compressed row view, used for structure diagnostics and
// products.
type CSR struct {
	M    *sparse.CSR
	name string
}

func (m CSR) Dims() (r, c int)    { return m.M.Dims() }
func (m CSR) At(i, j int) float64 { return m.M.At(i, j) }
func (m CSR) T() mat.Matrix       { return m.M.T() }
func (m CSR) NNZ() int            { return m.M.NNZ() }
func (m CSR) Name() string        { return m.name }

// MulVec returns y = M x
func (m CSR) MulVec(x []float64) (y []float64) {
	var (
		nr, _ = m.Dims()
		yv    = mat.NewVecDense(nr, nil)
	)
	yv.MulVec(m.M, mat.NewVecDense(len(x), x))
	y = yv.RawVector().Data
	return
}
