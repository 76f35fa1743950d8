//go:build linux

package cmd

import (
	"fmt"

	perf "github.com/hodgesds/perf-utils"
	jww "github.com/spf13/jwalterweatherman"
)

// countInstructions runs f under a hardware instruction counter, f still runs
// when the counter cannot be opened
func countInstructions(f func() error) (err error) {
	var (
		ran bool
		pv  *perf.ProfileValue
	)
	pv, err = perf.CPUInstructions(func() error {
		ran = true
		return f()
	})
	if err != nil {
		if ran {
			return
		}
		jww.WARN.Printf("hardware counters unavailable: %v\n", err)
		return f()
	}
	fmt.Printf("CPU instructions: %d, counted %.1f%% of the time enabled\n",
		pv.Value, 100*float64(pv.TimeRunning)/float64(max(pv.TimeEnabled, 1)))
	return
}
