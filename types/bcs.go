package types

import (
	"fmt"
	"strings"
)

// BCKind selects the relation a boundary row of the gas operator encodes
type BCKind uint8

const (
	BC_None             BCKind = iota
	BC_Value                   // Sigma = value
	BC_ConstantValue           // Sigma = Sigma of the neighbour
	BC_Gradient                // given gradient
	BC_ConstantGradient        // gradient continued from the two neighbours
	BC_PowerLaw                // given power law exponent
	BC_ConstantPowerLaw        // power law exponent measured from the neighbours
	BC_FloorValue              // Sigma = floor density
	BC_ZeroFlux                // no mass flux through the boundary interface
)

var bcNames = []string{
	"none",
	"val",
	"const_val",
	"grad",
	"const_grad",
	"pow",
	"const_pow",
	"floor",
	"zero_flux",
}

var BCNameMap = map[string]BCKind{
	"val":              BC_Value,
	"value":            BC_Value,
	"const_val":        BC_ConstantValue,
	"constantvalue":    BC_ConstantValue,
	"grad":             BC_Gradient,
	"gradient":         BC_Gradient,
	"const_grad":       BC_ConstantGradient,
	"constantgradient": BC_ConstantGradient,
	"pow":              BC_PowerLaw,
	"powerlaw":         BC_PowerLaw,
	"const_pow":        BC_ConstantPowerLaw,
	"constantpowerlaw": BC_ConstantPowerLaw,
	"floor":            BC_FloorValue,
	"floorvalue":       BC_FloorValue,
	"zero_flux":        BC_ZeroFlux,
	"zeroflux":         BC_ZeroFlux,
}

func (bc BCKind) String() string {
	if int(bc) < len(bcNames) {
		return bcNames[bc]
	}
	return fmt.Sprintf("BCKind(%d)", bc)
}

// NeedsValue reports whether the kind is parameterized by a value
func (bc BCKind) NeedsValue() bool {
	switch bc {
	case BC_Value, BC_Gradient, BC_PowerLaw:
		return true
	}
	return false
}

func NewBCKind(label string) (bc BCKind, err error) {
	var (
		ok bool
	)
	if bc, ok = BCNameMap[strings.ToLower(strings.TrimSpace(label))]; !ok {
		err = fmt.Errorf("unknown boundary condition %q", label)
	}
	return
}
