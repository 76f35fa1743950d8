package Disk1D

import (
	"errors"
	"fmt"

	jww "github.com/spf13/jwalterweatherman"

	"github.com/notargets/gasdisk/gas"
)

// Stage is one named step of the update sequence run every time step
type Stage struct {
	Name string
	Run  func(d *Disk) error
}

// Pipeline runs its stages in order. Stages are independent, removing one does
// not disable the others.
type Pipeline struct {
	stages []Stage
}

func NewPipeline(stages ...Stage) (p *Pipeline) {
	p = &Pipeline{}
	p.stages = append(p.stages, stages...)
	return
}

// DefaultPipeline refreshes the inputs, advances the gas, enforces the floor
// and derives the velocities from the new density.
func DefaultPipeline() *Pipeline {
	return NewPipeline(
		Stage{Name: "update", Run: func(d *Disk) error { return d.Gas.Update() }},
		Stage{Name: "gas", Run: gasStage},
		Stage{Name: "finalize", Run: func(d *Disk) error { d.Gas.Finalize(); return nil }},
		Stage{Name: "velocities", Run: func(d *Disk) error { return d.Gas.DeriveVelocities() }},
	)
}

func (p *Pipeline) Names() (names []string) {
	for _, s := range p.stages {
		names = append(names, s.Name)
	}
	return
}

func (p *Pipeline) index(name string) int {
	for i, s := range p.stages {
		if s.Name == name {
			return i
		}
	}
	return -1
}

// Remove drops the named stage, it reports whether the stage was present
func (p *Pipeline) Remove(name string) bool {
	i := p.index(name)
	if i < 0 {
		return false
	}
	p.stages = append(p.stages[:i], p.stages[i+1:]...)
	return true
}

// Insert places a stage at position idx, 0 runs it first
func (p *Pipeline) Insert(idx int, s Stage) (err error) {
	if idx < 0 || idx > len(p.stages) {
		return fmt.Errorf("stage %q: position %d outside [0, %d]", s.Name, idx, len(p.stages))
	}
	if p.index(s.Name) >= 0 {
		return fmt.Errorf("stage %q already present", s.Name)
	}
	p.stages = append(p.stages, Stage{})
	copy(p.stages[idx+1:], p.stages[idx:])
	p.stages[idx] = s
	return
}

func (p *Pipeline) Run(d *Disk) (err error) {
	for _, s := range p.stages {
		if err = s.Run(d); err != nil {
			return fmt.Errorf("stage %s: %w", s.Name, err)
		}
	}
	return
}

// gasStage takes the implicit step, halving the step size after a singular
// system until MaxRetries is exhausted.
func gasStage(d *Disk) (err error) {
	for retry := 0; ; retry++ {
		if err = d.stepper(d.dt); err == nil || !errors.Is(err, gas.ErrSingularSystem) {
			return
		}
		if retry >= d.MaxRetries {
			return fmt.Errorf("giving up after %d retries: %w", retry, err)
		}
		d.dt *= 0.5
		jww.WARN.Printf("%v, retrying with dt = %g\n", err, d.dt)
	}
}
