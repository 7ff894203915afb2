// Copyright 2026 Gozoo ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides neural network layers and building blocks.
//
// # Overview
//
// This package contains:
//   - Layers: Conv2D, DepthwiseConv2D, Linear, BatchNorm2D
//   - Pooling: MaxPool2D, AvgPool2D, GlobalAvgPool2D
//   - Activations: ReLU, Sigmoid, Softmax
//   - Utilities: Sequential, Module interface, Parameter
//   - Initialization: HeNormal, Xavier, Zeros, Ones
//
// # Basic Usage
//
//	import (
//	    "github.com/gozoo-ml/gozoo/nn"
//	    "github.com/gozoo-ml/gozoo/backend/cpu"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    // A small convolutional trunk
//	    model := nn.NewSequential[*cpu.Backend](
//	        nn.NewConv2D(3, 24, 3, 3, 2, 1, false, backend),
//	        nn.NewBatchNorm2D(24, backend),
//	        nn.NewReLU[*cpu.Backend](),
//	        nn.NewMaxPool2D(3, 2, 1, backend),
//	    )
//
//	    output := model.Forward(input)
//	}
//
// All spatial layers operate on channel-last feature maps
// [batch, height, width, channels].
package nn
