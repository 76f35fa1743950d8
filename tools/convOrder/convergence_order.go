package main

import (
	"bufio"
	"encoding/csv"
	"flag"
	"fmt"
	"math"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"

	jww "github.com/spf13/jwalterweatherman"

	"github.com/notargets/gasdisk/InputParameters"
	"github.com/notargets/gasdisk/model_problems/Disk1D"
	"github.com/notargets/gasdisk/utils"
)

var (
	csvFile   string
	cells     = "50,100,200,400"
	finalTime = 0.1
	maxStep   = 1.e-4
)

// Runs the self similar disk at increasing resolution and reports the observed
// order of the error, or reports the orders of a study saved earlier.
func main() {
	csvFilePtr := flag.String("csvFile", csvFile, "file containing entries of a convergence study")
	cellsPtr := flag.String("cells", cells, "comma separated cell counts of a new study")
	outPtr := flag.String("out", "", "write the new study to this CSV file")
	ftPtr := flag.Float64("finalTime", finalTime, "time at which the error is measured")
	msPtr := flag.Float64("maxStep", maxStep, "maximum time step of every run")
	flag.Parse()
	jww.SetStdoutThreshold(jww.LevelError)
	var (
		studies map[string]*ConvergenceStudy
		err     error
	)
	if csvFile = *csvFilePtr; len(csvFile) != 0 {
		fmt.Printf("Input file: %v\n", csvFile)
		if studies, err = readCSV(csvFile); err != nil {
			panic(err)
		}
	} else {
		var cs *ConvergenceStudy
		if cs, err = runStudy(*cellsPtr, *ftPtr, *msPtr); err != nil {
			panic(err)
		}
		studies = map[string]*ConvergenceStudy{cs.title: cs}
		if len(*outPtr) != 0 {
			if err = cs.WriteCSV(*outPtr); err != nil {
				panic(err)
			}
		}
	}
	for _, cs := range studies {
		fmt.Printf("Title = %s, FinalTime = %g, MaxStep = %g\n", cs.title, cs.finalTime, cs.maxStep)
		orders := cs.Orders()
		for i := range cs.numCells {
			fmt.Printf("%6d, L2 = %10.4g, Max = %10.4g, Mass = %10.4g", cs.numCells[i], cs.l2[i], cs.max[i], cs.massErr[i])
			if i > 0 {
				fmt.Printf(", Order = %5.2f", orders[i-1])
			}
			fmt.Println()
		}
	}
}

type ConvergenceStudy struct {
	title              string
	finalTime, maxStep float64
	numCells           []int
	l2, max, massErr   []float64
}

func NewConvergenceStudy(title string, finalTime, maxStep float64) *ConvergenceStudy {
	return &ConvergenceStudy{
		title:     title,
		finalTime: finalTime,
		maxStep:   maxStep,
	}
}

func (cs *ConvergenceStudy) Add(numCells int, l2, max, massErr float64) {
	cs.numCells = append(cs.numCells, numCells)
	cs.l2 = append(cs.l2, l2)
	cs.max = append(cs.max, max)
	cs.massErr = append(cs.massErr, massErr)
}

// Orders returns the observed order of the L2 error between successive
// resolutions
func (cs *ConvergenceStudy) Orders() (orders []float64) {
	for i := 1; i < len(cs.numCells); i++ {
		ratio := float64(cs.numCells[i]) / float64(cs.numCells[i-1])
		orders = append(orders, math.Log(cs.l2[i-1]/cs.l2[i])/math.Log(ratio))
	}
	return
}

func spreadingDisk(N int, finalTime, maxStep float64) *InputParameters.InputParametersDisk {
	ip := &InputParameters.InputParametersDisk{
		Title:     "Self similar spreading disk",
		InitType:  "SelfSimilar",
		FinalTime: finalTime,
		MaxStep:   maxStep,
		CFL:       1,
	}
	ip.Grid = InputParameters.GridParameters{RMin: 0.01, RMax: 100, NCells: N}
	ip.Disk = InputParameters.DiskParameters{MDisk: 1, Rc: 1, Gamma: 1, NuC: 1}
	return ip
}

// runStudy runs the resolutions concurrently, split over the available CPUs
func runStudy(cellList string, finalTime, maxStep float64) (cs *ConvergenceStudy, err error) {
	var (
		Ns []int
		wg = sync.WaitGroup{}
	)
	for _, txt := range strings.Split(cellList, ",") {
		var N int
		if N, err = strconv.Atoi(strings.TrimSpace(txt)); err != nil {
			return
		}
		Ns = append(Ns, N)
	}
	var (
		pm      = utils.NewPartitionMap(min(runtime.NumCPU(), len(Ns)), len(Ns))
		results = make([][3]float64, len(Ns))
		errs    = make([]error, len(Ns))
		title   string
	)
	for np := 0; np < pm.ParallelDegree; np++ {
		wg.Add(1)
		go func(np int) {
			defer wg.Done()
			kMin, kMax := pm.GetBucketRange(np)
			for k := kMin; k < kMax; k++ {
				var d *Disk1D.Disk
				if d, errs[k] = Disk1D.NewDisk(spreadingDisk(Ns[k], finalTime, maxStep)); errs[k] != nil {
					continue
				}
				for d.Time < d.FinalTime && errs[k] == nil {
					errs[k] = d.Advance()
				}
				results[k][0], results[k][1], results[k][2] = measure(d)
				if k == 0 {
					title = d.Title
				}
			}
		}(np)
	}
	wg.Wait()
	for k := range Ns {
		if errs[k] != nil {
			return nil, fmt.Errorf("%d cells: %w", Ns[k], errs[k])
		}
	}
	cs = NewConvergenceStudy(title, finalTime, maxStep)
	for k, N := range Ns {
		cs.Add(N, results[k][0], results[k][1], results[k][2])
	}
	return
}

// measure returns the L2 and the max relative error over the cells holding
// the bulk of the mass, and the relative mass error
func measure(d *Disk1D.Disk) (l2, mx, massErr float64) {
	var (
		exact = d.Exact()
		sigma = d.Gas.State().Sigma
		r     = d.Grid.R()
	)
	l2 = d.AnalyticError()
	for i := range r {
		if r[i] > 0.1 && r[i] < 10 {
			mx = math.Max(mx, math.Abs(sigma[i]-exact[i])/exact[i])
		}
	}
	mExact := d.Grid.Mass(exact, 0, d.Grid.N())
	massErr = math.Abs(d.Gas.Mass()-mExact) / mExact
	return
}

func (cs *ConvergenceStudy) WriteCSV(path string) (err error) {
	var (
		f *os.File
	)
	if f, err = os.Create(path); err != nil {
		return
	}
	defer f.Close()
	w := csv.NewWriter(f)
	ff := func(x float64) string { return strconv.FormatFloat(x, 'g', 10, 64) }
	if err = w.Write([]string{"title", "cells", "finalTime", "maxStep", "l2", "max", "mass"}); err != nil {
		return
	}
	for i := range cs.numCells {
		if err = w.Write([]string{cs.title, strconv.Itoa(cs.numCells[i]), ff(cs.finalTime), ff(cs.maxStep),
			ff(cs.l2[i]), ff(cs.max[i]), ff(cs.massErr[i])}); err != nil {
			return
		}
	}
	w.Flush()
	return w.Error()
}

func readCSV(csvFile string) (studies map[string]*ConvergenceStudy, err error) {
	var (
		records [][]string
		f       *os.File
		ok      bool
		cs      *ConvergenceStudy
	)
	studies = make(map[string]*ConvergenceStudy)
	if f, err = os.Open(csvFile); err != nil {
		return
	}
	defer f.Close()
	r := csv.NewReader(bufio.NewReader(f))
	if records, err = r.ReadAll(); err != nil {
		return
	}
	for i, rec := range records {
		if i == 0 {
			continue
		}
		if len(rec) < 7 {
			return nil, fmt.Errorf("%s line %d: %d fields, need 7", csvFile, i+1, len(rec))
		}
		var (
			title = rec[0]
			vals  [5]float64
			n     int
		)
		if n, err = strconv.Atoi(rec[1]); err != nil {
			return
		}
		for j := range vals {
			if vals[j], err = strconv.ParseFloat(rec[2+j], 64); err != nil {
				return
			}
		}
		combTitle := title + rec[2] + rec[3]
		if cs, ok = studies[combTitle]; !ok {
			cs = NewConvergenceStudy(title, vals[0], vals[1])
			studies[combTitle] = cs
		}
		cs.Add(n, vals[2], vals[3], vals[4])
	}
	return
}
