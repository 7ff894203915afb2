// Copyright 2026 Gozoo ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "github.com/gozoo-ml/gozoo/internal/tensor"

// Backend defines the interface that all compute backends must implement.
// Backends handle the actual computation for tensor operations.
//
// Implementations:
//   - backend/cpu: Pure Go with BLAS-backed matrix multiplication
//
// Example:
//
//	import (
//	    "github.com/gozoo-ml/gozoo/tensor"
//	    "github.com/gozoo-ml/gozoo/backend/cpu"
//	)
//
//	backend := cpu.New()
//	x := tensor.Zeros(tensor.Shape{2, 3}, backend)
type Backend = tensor.Backend
