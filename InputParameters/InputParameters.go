package InputParameters

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ghodss/yaml"
)

// Parameters obtained from the YAML input file
type InputParametersDisk struct {
	Title      string             `yaml:"Title"`
	Units      string             `yaml:"Units"` // "scaled" or "astro" (AU, years, solar masses)
	InitType   string             `yaml:"InitType"`
	FinalTime  float64            `yaml:"FinalTime"`
	MaxStep    float64            `yaml:"MaxStep"`
	CFL        float64            `yaml:"CFL"`
	MaxRetries int                `yaml:"MaxRetries"`
	Grid       GridParameters     `yaml:"Grid"`
	Disk       DiskParameters     `yaml:"Disk"`
	BCs        map[string]BCInput `yaml:"BCs"` // keyed by edge, Inner or Outer
	SigmaFloor float64            `yaml:"SigmaFloor"`
	Snapshot   float64            `yaml:"Snapshot"` // time between snapshots, zero for none
}

type GridParameters struct {
	RMin   float64 `yaml:"RMin"`
	RMax   float64 `yaml:"RMax"`
	NCells int     `yaml:"NCells"`
}

type DiskParameters struct {
	MDisk         float64  `yaml:"MDisk"`
	Rc            float64  `yaml:"Rc"`
	Gamma         float64  `yaml:"Gamma"` // Sigma ~ r^-Gamma inside Rc
	Viscosity     string   `yaml:"Viscosity"`
	NuC           float64  `yaml:"NuC"` // nu at Rc for power law viscosity
	Alpha         float64  `yaml:"Alpha"`
	MStar         float64  `yaml:"MStar"`
	LStar         float64  `yaml:"LStar"`
	BackreactionA *float64 `yaml:"BackreactionA"` // nil reads as 1
	BackreactionB float64  `yaml:"BackreactionB"`
}

type BCInput struct {
	Type  string  `yaml:"Type"`
	Value float64 `yaml:"Value"`
}

func (ip *InputParametersDisk) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

// SetDefaults fills in the parameters left out of the input file
func (ip *InputParametersDisk) SetDefaults() {
	if len(ip.Units) == 0 {
		ip.Units = "scaled"
	}
	if len(ip.InitType) == 0 {
		ip.InitType = "SelfSimilar"
	}
	if ip.CFL == 0 {
		ip.CFL = 0.1
	}
	if ip.MaxRetries == 0 {
		ip.MaxRetries = 10
	}
	if ip.MaxStep == 0 {
		ip.MaxStep = ip.FinalTime / 100
	}
	if len(ip.Disk.Viscosity) == 0 {
		ip.Disk.Viscosity = "powerlaw"
	}
	if ip.Disk.BackreactionA == nil {
		A := 1.
		ip.Disk.BackreactionA = &A
	}
	if ip.BCs == nil {
		ip.BCs = make(map[string]BCInput)
	}
}

// BC returns the boundary input for an edge, matched without regard to case
func (ip *InputParametersDisk) BC(edge string) (bc BCInput, ok bool) {
	for key, val := range ip.BCs {
		if strings.EqualFold(key, edge) {
			return val, true
		}
	}
	return
}

func (ip *InputParametersDisk) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%s]\t\t= Units\n", ip.Units)
	fmt.Printf("[%s]\t= InitType\n", ip.InitType)
	fmt.Printf("%8.5g\t\t= FinalTime\n", ip.FinalTime)
	fmt.Printf("%8.5g\t\t= MaxStep\n", ip.MaxStep)
	fmt.Printf("%8.5f\t\t= CFL\n", ip.CFL)
	fmt.Printf("[%8.4g, %8.4g] x %d\t= Grid\n", ip.Grid.RMin, ip.Grid.RMax, ip.Grid.NCells)
	fmt.Printf("[%s]\t= Viscosity\n", ip.Disk.Viscosity)
	keys := make([]string, len(ip.BCs))
	i := 0
	for k := range ip.BCs {
		keys[i] = k
		i++
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Printf("BCs[%s] = %v\n", key, ip.BCs[key])
	}
}
