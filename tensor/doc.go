// Copyright 2026 Gozoo ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides channel-last tensor operations for the Gozoo
// model zoo.
//
// # Overview
//
// Tensors are the data structure every model in the zoo is built on. This
// package provides:
//   - Generic backend-typed tensors (Tensor[B])
//   - NumPy-style broadcasting for element-wise operations
//   - The manipulation primitives the architectures need: reshape,
//     transpose, narrow, concatenate
//   - Device abstraction via the Backend interface
//
// # Basic Usage
//
//	import (
//	    "github.com/gozoo-ml/gozoo/tensor"
//	    "github.com/gozoo-ml/gozoo/backend/cpu"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    // Create tensors
//	    x := tensor.Zeros(tensor.Shape{2, 3}, backend)
//	    y := tensor.Ones(tensor.Shape{2, 3}, backend)
//
//	    // Tensor operations
//	    z := x.Add(y)
//	}
//
// # Layout
//
// Feature maps are channel-last: [batch, height, width, channels]. All
// convolution and pooling operations assume this layout.
package tensor
