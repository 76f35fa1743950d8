package Disk1D

import (
	"math"
	"time"

	"github.com/notargets/avs/chart2d"
	utils2 "github.com/notargets/avs/utils"
)

// logProfile returns log10 of r in input units and of sigma, densities below
// the plot range are raised to its lower edge
func (d *Disk) logProfile(sigma []float64) (x, y []float64) {
	var (
		r = d.Grid.R()
	)
	x = make([]float64, len(r))
	y = make([]float64, len(r))
	for i := range r {
		x[i] = math.Log10(r[i] / d.LengthUnit)
		y[i] = math.Max(math.Log10(sigma[i]), d.logSigmaMin)
	}
	return
}

// profileSegments joins neighbouring points into the X1,Y1,X2,Y2 segment
// list chart2d draws as a line
func profileSegments(x, y []float64) (XY []float32) {
	if len(x) < 2 {
		return
	}
	XY = make([]float32, 0, 4*(len(x)-1))
	for i := 0; i < len(x)-1; i++ {
		XY = utils2.AddSegmentToLine(XY,
			float32(x[i]), float32(y[i]), float32(x[i+1]), float32(y[i+1]))
	}
	return
}

func (d *Disk) setPlotRange() {
	var (
		sMax = math.Inf(-1)
	)
	for _, s := range d.Gas.State().Sigma {
		sMax = math.Max(sMax, s)
	}
	d.logSigmaMax = math.Ceil(math.Log10(sMax)) + 1
	d.logSigmaMin = d.logSigmaMax - 12
}

func (d *Disk) Plot(showGraph bool, graphDelay []time.Duration) {
	if !showGraph {
		return
	}
	var (
		r     = d.Grid.R()
		N     = d.Grid.N()
		exact = d.Exact()
	)
	if d.chart == nil {
		d.setPlotRange()
	}
	x, y := d.logProfile(d.Gas.State().Sigma)
	sigmaXY := profileSegments(x, y)
	var exactXY []float32
	if exact != nil {
		_, ye := d.logProfile(exact)
		exactXY = profileSegments(x, ye)
	}
	if d.chart == nil {
		d.chart = chart2d.NewChart2D(
			float32(math.Log10(r[0]/d.LengthUnit)), float32(math.Log10(r[N-1]/d.LengthUnit)),
			float32(d.logSigmaMin), float32(d.logSigmaMax),
			1920, 1280, utils2.WHITE, utils2.BLACK)
		d.window = d.chart.GetCurrentWindow()
		d.sigmaLine = d.chart.AddLine(sigmaXY, utils2.RED)
		if exactXY != nil {
			d.exactLine = d.chart.AddLine(exactXY, utils2.GREEN)
			d.hasExact = true
		}
	} else {
		d.chart.UpdateLine(d.window, d.sigmaLine, sigmaXY, nil)
		if d.hasExact && exactXY != nil {
			d.chart.UpdateLine(d.window, d.exactLine, exactXY, nil)
		}
	}
	if len(graphDelay) != 0 {
		time.Sleep(graphDelay[0])
	}
}
