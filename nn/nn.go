// Copyright 2026 Gozoo ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/gozoo-ml/gozoo/internal/nn"
	"github.com/gozoo-ml/gozoo/internal/tensor"
)

// Module interface defines the common interface for all neural network modules.
type Module[B tensor.Backend] = nn.Module[B]

// Parameter represents a named tensor owned by a layer.
type Parameter[B tensor.Backend] = nn.Parameter[B]

// NewParameter creates a new parameter with the given name and tensor.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[B]) *Parameter[B] {
	return nn.NewParameter(name, t)
}

// NumParameters returns the total element count across a module's
// parameters.
func NumParameters[B tensor.Backend](m Module[B]) int {
	return nn.NumParameters(m)
}

// Layers

// Linear represents a fully connected (dense) layer.
type Linear[B tensor.Backend] = nn.Linear[B]

// NewLinear creates a new linear layer with He-normal initialization.
//
// Example:
//
//	backend := cpu.New()
//	head := nn.NewLinear(2048, 1000, true, backend)
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, useBias bool, backend B) *Linear[B] {
	return nn.NewLinear(inFeatures, outFeatures, useBias, backend)
}

// Conv2D represents a 2D convolutional layer over channel-last feature maps.
type Conv2D[B tensor.Backend] = nn.Conv2D[B]

// NewConv2D creates a new 2D convolutional layer.
//
// Example:
//
//	backend := cpu.New()
//	conv := nn.NewConv2D(3, 64, 7, 7, 2, 3, false, backend)  // stem: 3 -> 64 channels, 7x7 kernel, stride 2, padding 3
func NewConv2D[B tensor.Backend](
	inChannels, outChannels int,
	kernelH, kernelW int,
	stride, padding int,
	useBias bool,
	backend B,
) *Conv2D[B] {
	return nn.NewConv2D(inChannels, outChannels, kernelH, kernelW, stride, padding, useBias, backend)
}

// DepthwiseConv2D convolves each input channel with its own single filter.
type DepthwiseConv2D[B tensor.Backend] = nn.DepthwiseConv2D[B]

// NewDepthwiseConv2D creates a new depthwise convolutional layer.
func NewDepthwiseConv2D[B tensor.Backend](
	channels int,
	kernelH, kernelW int,
	stride, padding int,
	backend B,
) *DepthwiseConv2D[B] {
	return nn.NewDepthwiseConv2D(channels, kernelH, kernelW, stride, padding, backend)
}

// BatchNorm2D normalizes each channel of a feature map with fixed
// statistics.
type BatchNorm2D[B tensor.Backend] = nn.BatchNorm2D[B]

// NewBatchNorm2D creates a new batch normalization layer that starts as
// the identity transform.
func NewBatchNorm2D[B tensor.Backend](channels int, backend B) *BatchNorm2D[B] {
	return nn.NewBatchNorm2D(channels, backend)
}

// Pooling

// MaxPool2D represents a 2D max pooling layer.
type MaxPool2D[B tensor.Backend] = nn.MaxPool2D[B]

// NewMaxPool2D creates a new 2D max pooling layer.
func NewMaxPool2D[B tensor.Backend](kernelSize, stride, padding int, backend B) *MaxPool2D[B] {
	return nn.NewMaxPool2D(kernelSize, stride, padding, backend)
}

// AvgPool2D represents a 2D average pooling layer. Padded positions are
// excluded from the average.
type AvgPool2D[B tensor.Backend] = nn.AvgPool2D[B]

// NewAvgPool2D creates a new 2D average pooling layer.
func NewAvgPool2D[B tensor.Backend](kernelSize, stride, padding int, backend B) *AvgPool2D[B] {
	return nn.NewAvgPool2D(kernelSize, stride, padding, backend)
}

// GlobalAvgPool2D averages each channel over all spatial positions.
type GlobalAvgPool2D[B tensor.Backend] = nn.GlobalAvgPool2D[B]

// NewGlobalAvgPool2D creates a new global average pooling layer.
func NewGlobalAvgPool2D[B tensor.Backend](backend B) *GlobalAvgPool2D[B] {
	return nn.NewGlobalAvgPool2D(backend)
}

// Activations

// ReLU represents a Rectified Linear Unit activation.
type ReLU[B tensor.Backend] = nn.ReLU[B]

// NewReLU creates a new ReLU activation module.
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return nn.NewReLU[B]()
}

// Sigmoid represents a sigmoid activation.
type Sigmoid[B tensor.Backend] = nn.Sigmoid[B]

// NewSigmoid creates a new Sigmoid activation module.
func NewSigmoid[B tensor.Backend]() *Sigmoid[B] {
	return nn.NewSigmoid[B]()
}

// Softmax normalizes values along a dimension into a probability
// distribution.
type Softmax[B tensor.Backend] = nn.Softmax[B]

// NewSoftmax creates a new Softmax module over the given dimension.
func NewSoftmax[B tensor.Backend](dim int) *Softmax[B] {
	return nn.NewSoftmax[B](dim)
}

// Containers

// Sequential chains multiple modules together.
type Sequential[B tensor.Backend] = nn.Sequential[B]

// NewSequential creates a new Sequential container.
//
// Example:
//
//	model := nn.NewSequential[*cpu.Backend](
//	    nn.NewConv2D(3, 24, 3, 3, 2, 1, false, backend),
//	    nn.NewReLU[*cpu.Backend](),
//	)
func NewSequential[B tensor.Backend](modules ...Module[B]) *Sequential[B] {
	return nn.NewSequential(modules...)
}

// Initialization

// HeNormal creates a tensor initialized from N(0, sqrt(2/fanIn)).
func HeNormal[B tensor.Backend](fanIn int, shape tensor.Shape, backend B) *tensor.Tensor[B] {
	return nn.HeNormal(fanIn, shape, backend)
}

// Xavier creates a tensor with Xavier/Glorot initialization.
func Xavier[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, backend B) *tensor.Tensor[B] {
	return nn.Xavier(fanIn, fanOut, shape, backend)
}

// Zeros creates a zero-initialized tensor.
func Zeros[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[B] {
	return nn.Zeros(shape, backend)
}

// Ones creates a one-initialized tensor.
func Ones[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[B] {
	return nn.Ones(shape, backend)
}
