/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gasdisk/InputParameters"
	"github.com/notargets/gasdisk/model_problems/Disk1D"
)

type ModelDisk struct {
	ICFile       string
	SnapshotDir  string
	ProfileDir   string
	Snapshot     float64
	Graph        bool
	Perf         bool
	DumpJacobian bool
	Delay        time.Duration
}

// DiskCmd represents the disk command
var DiskCmd = &cobra.Command{
	Use:   "disk",
	Short: "One dimensional viscous gas disk, read from an input deck",
	Long: `
Evolves the surface density of a viscous gas disk on a logarithmic radial grid,
optionally plotting and writing snapshots as it goes,

gasdisk disk -I spreading.yaml -g -s out`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
		)
		fmt.Println("disk called")
		md := &ModelDisk{}
		if md.ICFile, err = cmd.Flags().GetString("inputConditionsFile"); err != nil {
			panic(err)
		}
		md.Graph, _ = cmd.Flags().GetBool("graph")
		dr, _ := cmd.Flags().GetInt("delay")
		md.Delay = time.Duration(dr) * time.Millisecond
		md.SnapshotDir, _ = cmd.Flags().GetString("snapshotDir")
		md.Snapshot, _ = cmd.Flags().GetFloat64("snapshot")
		md.ProfileDir, _ = cmd.Flags().GetString("profile")
		md.Perf, _ = cmd.Flags().GetBool("perf")
		md.DumpJacobian, _ = cmd.Flags().GetBool("dumpJacobian")
		ip := processInput(md)
		if err = RunDisk(md, ip); err != nil {
			panic(err)
		}
	},
}

const exampleFile = `
########################################
Title: "Spreading disk"
Units: scaled         # or astro: AU, years and solar masses
InitType: SelfSimilar # or LBP
FinalTime: 0.5
MaxStep: 0.001
CFL: 0.1
Grid:
  RMin: 0.01
  RMax: 100
  NCells: 200
Disk:
  MDisk: 1
  Rc: 1
  Gamma: 1
  Viscosity: powerlaw # or alpha, with Alpha, MStar and LStar
  NuC: 1
BCs:
  Inner:
    Type: const_grad
  Outer:
    Type: floor
Snapshot: 0.05
########################################
`

func processInput(md *ModelDisk) (ip *InputParameters.InputParametersDisk) {
	var (
		err error
	)
	if len(md.ICFile) == 0 {
		err = fmt.Errorf("must supply an input parameters file (-I, --inputConditionsFile) in YAML format")
		fmt.Printf("error: %s\n", err.Error())
		fmt.Printf("Example File:%s\n", exampleFile)
		os.Exit(1)
	}
	if ip, err = readInput(md.ICFile); err != nil {
		panic(err)
	}
	return
}

func readInput(path string) (ip *InputParameters.InputParametersDisk, err error) {
	var (
		data []byte
	)
	if data, err = os.ReadFile(path); err != nil {
		return
	}
	ip = &InputParameters.InputParametersDisk{}
	if err = ip.Parse(data); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	ip.SetDefaults()
	return
}

func init() {
	rootCmd.AddCommand(DiskCmd)
	DiskCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for input parameters like:\n\t- Grid\n\t- Disk\n\t- BCs")
	DiskCmd.Flags().BoolP("graph", "g", false, "display a graph while computing solution")
	DiskCmd.Flags().IntP("delay", "d", 0, "milliseconds of delay for plotting")
	DiskCmd.Flags().StringP("snapshotDir", "s", "", "directory for PNG, CSV and movie snapshots")
	DiskCmd.Flags().Float64("snapshot", 0, "time between snapshots, overrides the input file")
	DiskCmd.Flags().String("profile", "", "write a CPU profile into this directory")
	DiskCmd.Flags().Bool("perf", false, "count CPU instructions of the run with hardware counters")
	DiskCmd.Flags().Bool("dumpJacobian", false, "print the initial operator before running")
}

func RunDisk(md *ModelDisk, ip *InputParameters.InputParametersDisk) (err error) {
	var (
		d *Disk1D.Disk
	)
	ip.Print()
	if d, err = Disk1D.NewDisk(ip); err != nil {
		return
	}
	if md.DumpJacobian {
		if err = dumpJacobian(d); err != nil {
			return
		}
	}
	if len(md.SnapshotDir) != 0 {
		d.SetSnapshots(md.SnapshotDir, md.Snapshot)
	}
	if len(md.ProfileDir) != 0 {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(md.ProfileDir), profile.NoShutdownHook).Stop()
	}
	run := func() error { return d.Run(md.Graph, md.Delay) }
	if md.Perf {
		return countInstructions(run)
	}
	return run()
}

func dumpJacobian(d *Disk1D.Disk) (err error) {
	d.Gas.SetStepSize(d.NextStep())
	J, err := d.Gas.Jacobian()
	if err != nil {
		return
	}
	fmt.Printf("Jacobian at dt = %g, %d stored entries, inputs %+v\n", d.Gas.StepSize(), J.StoredEntries(), J.Key)
	fmt.Printf("J = \n%v\n", mat.Formatted(J, mat.Squeeze(), mat.Excerpt(4)))
	return
}
