package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBCKind(t *testing.T) {
	{
		bc, err := NewBCKind("const_grad")
		assert.NoError(t, err)
		assert.Equal(t, BC_ConstantGradient, bc)
		assert.Equal(t, "const_grad", bc.String())
	}
	{
		bc, err := NewBCKind(" ZeroFlux ")
		assert.NoError(t, err)
		assert.Equal(t, BC_ZeroFlux, bc)
		assert.False(t, bc.NeedsValue())
	}
	{
		_, err := NewBCKind("periodic")
		assert.Error(t, err)
	}
	// Every named kind round trips through its short name
	for bc := BC_Value; bc <= BC_ZeroFlux; bc++ {
		back, err := NewBCKind(bc.String())
		assert.NoError(t, err)
		assert.Equal(t, bc, back)
	}
	assert.True(t, BC_PowerLaw.NeedsValue())
	assert.Equal(t, "BCKind(42)", BCKind(42).String())
}
