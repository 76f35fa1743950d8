package InputParameters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	fileInput := []byte(`
Title: Spreading ring
InitType: SelfSimilar
FinalTime: 0.5
Grid:
  RMin: 0.01
  RMax: 100
  NCells: 200
Disk:
  MDisk: 1
  Rc: 1
  Gamma: 1
  NuC: 1
BCs:
  Inner:
    Type: const_grad
  outer:
    Type: val
    Value: 1.e-20
`)
	var ip InputParametersDisk
	require.NoError(t, ip.Parse(fileInput))
	ip.SetDefaults()
	ip.Print()
	assert.Equal(t, "Spreading ring", ip.Title)
	assert.Equal(t, 200, ip.Grid.NCells)
	assert.Equal(t, 100., ip.Grid.RMax)
	assert.Equal(t, 1., ip.Disk.NuC)
	assert.Equal(t, "scaled", ip.Units)
	assert.Equal(t, 0.005, ip.MaxStep)
	require.NotNil(t, ip.Disk.BackreactionA)
	assert.Equal(t, 1., *ip.Disk.BackreactionA)
	bc, ok := ip.BC("inner")
	assert.True(t, ok)
	assert.Equal(t, "const_grad", bc.Type)
	bc, ok = ip.BC("Outer")
	assert.True(t, ok)
	assert.Equal(t, 1.e-20, bc.Value)
	_, ok = ip.BC("middle")
	assert.False(t, ok)

	// An explicit zero backreaction survives the defaults
	var ipA InputParametersDisk
	require.NoError(t, ipA.Parse([]byte("Disk:\n  BackreactionA: 0\n  BackreactionB: 0.5\n")))
	ipA.SetDefaults()
	require.NotNil(t, ipA.Disk.BackreactionA)
	assert.Equal(t, 0., *ipA.Disk.BackreactionA)
	assert.Equal(t, 0.5, ipA.Disk.BackreactionB)

	assert.Error(t, ip.Parse([]byte("Grid: [1, 2")))
}
