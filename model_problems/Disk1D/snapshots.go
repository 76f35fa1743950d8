package Disk1D

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strconv"

	"github.com/icza/mjpeg"
	"github.com/wcharczuk/go-chart/v2"
)

// Snapshots writes the surface density every Interval of simulated time: a
// PNG chart and a CSV profile per snapshot, one movie frame per snapshot and
// a row of the mass history.
type Snapshots struct {
	Dir           string
	Interval      float64
	Width, Height int
	FPS           int
	next          float64
	frames        int
	movie         mjpeg.AviWriter
	histFile      *os.File
	history       *csv.Writer
}

func (s *Snapshots) Due(t float64) bool { return t >= s.next }

func (s *Snapshots) Frames() int { return s.frames }

func (s *Snapshots) open() (err error) {
	if len(s.Dir) == 0 {
		s.Dir = "."
	}
	if s.Width == 0 || s.Height == 0 {
		s.Width, s.Height = 1024, 768
	}
	if s.FPS == 0 {
		s.FPS = 10
	}
	if err = os.MkdirAll(s.Dir, 0755); err != nil {
		return
	}
	if s.movie, err = mjpeg.New(filepath.Join(s.Dir, "sigma.avi"), int32(s.Width), int32(s.Height), int32(s.FPS)); err != nil {
		return
	}
	if s.histFile, err = os.Create(filepath.Join(s.Dir, "history.csv")); err != nil {
		return
	}
	s.history = csv.NewWriter(s.histFile)
	return s.history.Write([]string{"frame", "time", "steps", "mass", "analytic_error"})
}

func (s *Snapshots) Write(d *Disk) (err error) {
	var (
		pngData []byte
		buf     bytes.Buffer
	)
	if s.movie == nil {
		if err = s.open(); err != nil {
			return
		}
	}
	if pngData, err = d.RenderPNG(s.Width, s.Height); err != nil {
		return
	}
	name := filepath.Join(s.Dir, fmt.Sprintf("sigma_%04d", s.frames))
	if err = os.WriteFile(name+".png", pngData, 0644); err != nil {
		return
	}
	img, err := png.Decode(bytes.NewReader(pngData))
	if err != nil {
		return
	}
	if err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return
	}
	if err = s.movie.AddFrame(buf.Bytes()); err != nil {
		return
	}
	if err = d.WriteProfile(name + ".csv"); err != nil {
		return
	}
	ff := func(x float64) string { return strconv.FormatFloat(x, 'g', 10, 64) }
	if err = s.history.Write([]string{strconv.Itoa(s.frames), ff(d.Time / d.TimeUnit), strconv.Itoa(d.Steps),
		ff(d.Gas.Mass()), ff(d.AnalyticError())}); err != nil {
		return
	}
	s.history.Flush()
	s.frames++
	s.next = d.Time + s.Interval
	return s.history.Error()
}

func (s *Snapshots) Close() (err error) {
	if s.movie != nil {
		if err = s.movie.Close(); err != nil {
			return
		}
		s.movie = nil
	}
	if s.histFile != nil {
		s.history.Flush()
		err = s.histFile.Close()
		s.histFile = nil
	}
	return
}

// RenderPNG charts log10 Sigma against log10 r, with the self similar
// solution when there is one
func (d *Disk) RenderPNG(width, height int) (data []byte, err error) {
	if d.logSigmaMax == d.logSigmaMin {
		d.setPlotRange()
	}
	x, y := d.logProfile(d.Gas.State().Sigma)
	series := []chart.Series{
		chart.ContinuousSeries{
			Name:    "Sigma",
			XValues: x,
			YValues: y,
			Style:   chart.Style{StrokeColor: chart.ColorBlue, StrokeWidth: 3.0},
		},
	}
	if exact := d.Exact(); exact != nil {
		_, ye := d.logProfile(exact)
		series = append(series, chart.ContinuousSeries{
			Name:    "Self similar",
			XValues: x,
			YValues: ye,
			Style:   chart.Style{StrokeColor: chart.ColorRed, StrokeWidth: 1.5, StrokeDashArray: []float64{5, 5}},
		})
	}
	graph := chart.Chart{
		Title:  fmt.Sprintf("%s, t = %.4g", d.Title, d.Time/d.TimeUnit),
		Width:  width,
		Height: height,
		XAxis: chart.XAxis{
			Name:  "log10 r",
			Style: chart.Style{FontSize: 10.0},
			Range: &chart.ContinuousRange{Min: x[0], Max: x[len(x)-1]},
		},
		YAxis: chart.YAxis{
			Name:  "log10 Sigma",
			Style: chart.Style{FontSize: 10.0},
			Range: &chart.ContinuousRange{Min: d.logSigmaMin, Max: d.logSigmaMax},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	buffer := bytes.NewBuffer([]byte{})
	if err = graph.Render(chart.PNG, buffer); err != nil {
		return
	}
	data = buffer.Bytes()
	return
}

// WriteProfile writes the radial profile of the gas, one row per cell
func (d *Disk) WriteProfile(path string) (err error) {
	var (
		f     *os.File
		s     = d.Gas.State()
		r     = d.Grid.R()
		exact = d.Exact()
	)
	if f, err = os.Create(path); err != nil {
		return
	}
	defer f.Close()
	w := csv.NewWriter(f)
	header := []string{"r", "Sigma", "nu", "v_visc", "v_rad", "S_tot"}
	if exact != nil {
		header = append(header, "Sigma_exact")
	}
	if err = w.Write(header); err != nil {
		return
	}
	ff := func(x float64) string { return strconv.FormatFloat(x, 'g', 12, 64) }
	for i := range r {
		row := []string{ff(r[i] / d.LengthUnit), ff(s.Sigma[i]), ff(s.Nu[i]), ff(s.VVisc[i]), ff(s.VRad[i]), ff(s.STot[i])}
		if exact != nil {
			row = append(row, ff(exact[i]))
		}
		if err = w.Write(row); err != nil {
			return
		}
	}
	w.Flush()
	return w.Error()
}
