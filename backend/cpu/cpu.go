// Copyright 2026 Gozoo ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the CPU compute backend for the Gozoo model zoo.
package cpu

import (
	internalcpu "github.com/gozoo-ml/gozoo/internal/backend/cpu"
	"github.com/gozoo-ml/gozoo/tensor"
)

// Backend represents the CPU backend implementation.
//
// The CPU backend provides pure Go implementations of all tensor
// operations, with matrix multiplication and im2col convolution delegated
// to Gonum's BLAS routines.
type Backend = internalcpu.CPUBackend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a new CPU backend.
//
// Example:
//
//	import (
//	    "github.com/gozoo-ml/gozoo/backend/cpu"
//	    "github.com/gozoo-ml/gozoo/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    x := tensor.Zeros(tensor.Shape{2, 3}, backend)
//	}
func New() *Backend {
	return internalcpu.New()
}
