package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/magiconair/properties/assert"
)

func TestReadInput(t *testing.T) {
	var (
		err error
	)
	path := filepath.Join(t.TempDir(), "disk.yaml")
	if err = os.WriteFile(path, []byte(exampleFile), 0644); err != nil {
		panic(err)
	}
	ip, err := readInput(path)
	if err != nil {
		panic(err)
	}
	assert.Equal(t, ip.Title, "Spreading disk")
	assert.Equal(t, ip.Grid.NCells, 200)
	assert.Equal(t, ip.Disk.NuC, 1.)
	bc, ok := ip.BC("inner")
	assert.Equal(t, ok, true)
	assert.Equal(t, bc.Type, "const_grad")
	assert.Equal(t, ip.Snapshot, 0.05)
	// Defaults fill what the deck leaves out
	assert.Equal(t, ip.MaxRetries, 10)
	assert.Equal(t, *ip.Disk.BackreactionA, 1.)

	_, err = readInput(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Equal(t, err != nil, true)
}

func TestRunDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "disk.yaml")
	deck := []byte(`
Title: Short run
FinalTime: 0.005
Grid:
  RMin: 0.1
  RMax: 10
  NCells: 30
Disk:
  MDisk: 1
  Rc: 1
  Gamma: 1
  NuC: 1
`)
	if err := os.WriteFile(path, deck, 0644); err != nil {
		panic(err)
	}
	ip, err := readInput(path)
	if err != nil {
		panic(err)
	}
	md := &ModelDisk{DumpJacobian: true, SnapshotDir: t.TempDir(), Snapshot: 0.001}
	assert.Equal(t, RunDisk(md, ip), nil)
	_, err = os.Stat(filepath.Join(md.SnapshotDir, "history.csv"))
	assert.Equal(t, err, nil)
}
