//go:build !linux

package cmd

import (
	jww "github.com/spf13/jwalterweatherman"
)

func countInstructions(f func() error) error {
	jww.WARN.Println("hardware counters are only available on linux")
	return f()
}
