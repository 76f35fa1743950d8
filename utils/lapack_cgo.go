//go:build cgo && netlib
// +build cgo,netlib

package utils

/*
#cgo LDFLAGS: -lopenblas -llapacke -lgfortran -lm -lpthread
#include <cblas.h>
#include <lapacke.h>
*/
import "C"

import (
	jww "github.com/spf13/jwalterweatherman"
	"gonum.org/v1/gonum/blas/blas64"
	netblas "gonum.org/v1/netlib/blas/netlib"
)

// Dense gonum products, the reference solves that cross-check the tridiagonal
// solver among them, go through blas64. Built with the netlib tag they use
// the system OpenBLAS.
func init() {
	blas64.Use(netblas.Implementation{})
	jww.INFO.Println("Using netlib to accelerate BLAS")
}
