package Disk1D

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/notargets/avs/chart2d"
	"github.com/notargets/avs/screen"
	utils2 "github.com/notargets/avs/utils"
	jww "github.com/spf13/jwalterweatherman"

	"github.com/notargets/gasdisk/InputParameters"
	"github.com/notargets/gasdisk/disk"
	"github.com/notargets/gasdisk/gas"
	"github.com/notargets/gasdisk/grid"
	"github.com/notargets/gasdisk/self_similar_disk"
	"github.com/notargets/gasdisk/types"
	"github.com/notargets/gasdisk/utils"
)

type Disk struct {
	// Input parameters
	Title                    string
	CFL, FinalTime, MaxStep  float64
	MaxRetries               int
	LengthUnit, TimeUnit     float64
	Grid                     *grid.Grid
	Gas                      *gas.Gas
	Model                    *disk.Model               // nil unless the viscosity is alpha
	Analytic                 *self_similar_disk.Params // nil unless an analytic solution applies
	Stages                   *Pipeline
	Snapshots                *Snapshots
	Time                     float64
	Steps                    int
	dt                       float64
	stepper                  func(dt float64) error
	chart                    *chart2d.Chart2D
	window                   *screen.Window
	sigmaLine, exactLine     utils2.Key
	hasExact                 bool
	logSigmaMin, logSigmaMax float64
}

func NewDisk(ip *InputParameters.InputParametersDisk) (d *Disk, err error) {
	var (
		mUnit        = 1.
		sigma        []float64
		inner, outer = gas.DefaultInner, gas.DefaultOuter
		opts         []gas.Option
	)
	ip.SetDefaults()
	d = &Disk{
		Title:      ip.Title,
		CFL:        ip.CFL,
		MaxRetries: ip.MaxRetries,
		LengthUnit: 1,
		TimeUnit:   1,
		Stages:     DefaultPipeline(),
	}
	switch strings.ToLower(ip.Units) {
	case "scaled":
	case "astro":
		d.LengthUnit, d.TimeUnit, mUnit = disk.AU, disk.Year, disk.MSun
	default:
		return nil, fmt.Errorf("unknown units %q, use scaled or astro", ip.Units)
	}
	d.FinalTime = ip.FinalTime * d.TimeUnit
	d.MaxStep = ip.MaxStep * d.TimeUnit
	if !(d.FinalTime > 0) {
		return nil, fmt.Errorf("final time %g is not positive", ip.FinalTime)
	}
	if d.Grid, err = grid.NewLogGrid(ip.Grid.RMin*d.LengthUnit, ip.Grid.RMax*d.LengthUnit, ip.Grid.NCells); err != nil {
		return nil, err
	}
	if inner, err = condition(ip, "Inner", inner); err != nil {
		return nil, err
	}
	if outer, err = condition(ip, "Outer", outer); err != nil {
		return nil, err
	}
	opts = append(opts, gas.WithBoundaries(inner, outer), gas.WithAlpha(ip.Disk.Alpha))
	if ip.SigmaFloor > 0 {
		opts = append(opts, gas.WithSigmaFloor(ip.SigmaFloor))
	}

	var (
		r  = d.Grid.R()
		dp = ip.Disk
		pp = self_similar_disk.Params{
			Rc:    dp.Rc * d.LengthUnit,
			NuC:   dp.NuC * d.LengthUnit * d.LengthUnit / d.TimeUnit,
			Gamma: dp.Gamma,
			MDisk: dp.MDisk * mUnit,
		}
	)
	switch strings.ToLower(dp.Viscosity) {
	case "powerlaw":
		if err = pp.Check(); err != nil {
			return nil, err
		}
		nu := pp.Nu(r)
		opts = append(opts, gas.WithViscosity(gas.ViscosityFunc(func(s *gas.State) []float64 { return nu })))
		if strings.EqualFold(ip.InitType, "SelfSimilar") {
			d.Analytic = &pp
		}
	case "alpha":
		if d.LengthUnit == 1 {
			return nil, fmt.Errorf("alpha viscosity needs astro units")
		}
		d.Model = disk.NewModel(d.Grid, dp.MStar*disk.MSun, dp.LStar*disk.LSun, dp.Alpha)
		opts = append(opts, gas.WithViscosity(d.Model))
		if dp.BackreactionB != 0 {
			opts = append(opts, gas.WithDrift(d.Model))
		}
	default:
		return nil, fmt.Errorf("unknown viscosity %q, use powerlaw or alpha", dp.Viscosity)
	}
	if A := *dp.BackreactionA; A != 1 || dp.BackreactionB != 0 {
		opts = append(opts, gas.WithBackreaction(disk.Backreaction{A: A, B: dp.BackreactionB}))
	}

	switch strings.ToLower(ip.InitType) {
	case "selfsimilar":
		if err = pp.Check(); err != nil {
			return nil, err
		}
		sigma, _ = self_similar_disk.LBP_calc(pp, r, 0)
	case "lbp":
		sigma = disk.LyndenBellPringle(r, pp.Rc, -pp.Gamma, pp.MDisk)
	default:
		return nil, fmt.Errorf("unknown init type %q, use SelfSimilar or LBP", ip.InitType)
	}
	if d.Gas, err = gas.NewGas(d.Grid, sigma, opts...); err != nil {
		return nil, err
	}
	d.stepper = d.Gas.Step
	if err = d.Gas.DeriveVelocities(); err != nil {
		return nil, err
	}
	// Provisional step until the first Advance
	d.Gas.SetStepSize(d.NextStep())
	if ip.Snapshot > 0 {
		d.Snapshots = &Snapshots{Interval: ip.Snapshot * d.TimeUnit}
	}
	fmt.Printf("Viscous Gas Disk in 1 Dimension\n%s\n", d.Title)
	fmt.Printf("N = %d cells, r = [%8.4g, %8.4g], BCs = %s / %s\n\n", d.Grid.N(), ip.Grid.RMin, ip.Grid.RMax, inner, outer)
	return
}

func condition(ip *InputParameters.InputParametersDisk, edge string, def gas.Condition) (c gas.Condition, err error) {
	bc, ok := ip.BC(edge)
	if !ok {
		return def, nil
	}
	if c.Kind, err = types.NewBCKind(bc.Type); err != nil {
		return
	}
	c.Value = bc.Value
	return
}

// NextStep is the largest step allowed by the source terms, the maximum step
// and the time left.
func (d *Disk) NextStep() (dt float64) {
	dt = math.Min(d.MaxStep, d.Gas.SuggestStep(d.CFL))
	if d.Time+dt > d.FinalTime {
		dt = d.FinalTime - d.Time
	}
	return
}

// Advance runs the stages for one step. The gas stage may shrink the step, the
// clock advances by the step actually taken.
func (d *Disk) Advance() (err error) {
	d.dt = d.NextStep()
	d.Gas.SetStepSize(d.dt)
	if err = d.Stages.Run(d); err != nil {
		return
	}
	d.Time += d.dt
	if math.Abs(d.FinalTime-d.Time) < 1e-12*d.FinalTime {
		d.Time = d.FinalTime
	}
	d.Steps++
	return
}

// SetSnapshots writes snapshots into dir every interval of input time units
func (d *Disk) SetSnapshots(dir string, interval float64) {
	if d.Snapshots == nil {
		d.Snapshots = &Snapshots{Interval: d.FinalTime}
	}
	d.Snapshots.Dir = dir
	if interval > 0 {
		d.Snapshots.Interval = interval * d.TimeUnit
	}
}

func (d *Disk) Run(showGraph bool, graphDelay ...time.Duration) (err error) {
	var (
		logFrequency = 50
		mass0        = d.Gas.Mass()
	)
	if d.Snapshots != nil {
		if err = d.Snapshots.Write(d); err != nil {
			return
		}
		defer func() {
			if cerr := d.Snapshots.Close(); err == nil {
				err = cerr
			}
		}()
	}
	for d.Time < d.FinalTime {
		d.Plot(showGraph, graphDelay)
		if err = d.Advance(); err != nil {
			jww.ERROR.Printf("step %d at t = %g: %v\n", d.Steps, d.Time/d.TimeUnit, err)
			return
		}
		isDone := d.Time >= d.FinalTime
		if d.Steps%logFrequency == 0 || isDone {
			fmt.Printf("Time = %10.4g, dt[%d] = %10.4g, Mass = %10.4g, Mass lost = %8.4f%%\n",
				d.Time/d.TimeUnit, d.Steps, d.dt/d.TimeUnit, d.Gas.Mass(), 100*(1-d.Gas.Mass()/mass0))
		}
		if d.Snapshots != nil && (d.Snapshots.Due(d.Time) || isDone) {
			if err = d.Snapshots.Write(d); err != nil {
				return
			}
		}
	}
	if d.Analytic != nil {
		fmt.Printf("L2 relative error against the self similar solution = %8.4g\n", d.AnalyticError())
	}
	d.Plot(showGraph, graphDelay)
	jww.INFO.Println(utils.GetMemUsage())
	return
}

// Exact is the self similar solution at the current time, nil without one
func (d *Disk) Exact() (sigma []float64) {
	if d.Analytic == nil {
		return nil
	}
	sigma, _ = self_similar_disk.LBP_calc(*d.Analytic, d.Grid.R(), d.Time)
	return
}

// AnalyticError is the area weighted relative L2 difference to the self
// similar solution at the current time, NaN without one.
func (d *Disk) AnalyticError() float64 {
	if d.Analytic == nil {
		return math.NaN()
	}
	var (
		exact    = d.Exact()
		sigma    = d.Gas.State().Sigma
		area     = d.Grid.Area()
		num, den float64
	)
	for i := range sigma {
		diff := sigma[i] - exact[i]
		num += area[i] * diff * diff
		den += area[i] * exact[i] * exact[i]
	}
	return math.Sqrt(num / den)
}
