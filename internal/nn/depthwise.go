package nn

import (
	"fmt"

	"github.com/gozoo-ml/gozoo/internal/tensor"
)

// DepthwiseConv2D convolves each input channel with its own single filter
// (depth multiplier 1), leaving the channel count unchanged.
//
// Input shape:  [batch, height, width, channels]
// Weight shape: [kernel_h, kernel_w, channels]
// Output shape: [batch, out_h, out_w, channels]
//
// The layer carries no bias; in the zoo it is always followed by batch
// normalization.
type DepthwiseConv2D[B tensor.Backend] struct {
	channels   int
	kernelSize [2]int
	stride     int
	padding    int

	weight *Parameter[B] // [kernel_h, kernel_w, channels]

	backend B
}

// NewDepthwiseConv2D creates a new depthwise convolutional layer with
// He-normal initialization.
func NewDepthwiseConv2D[B tensor.Backend](
	channels int,
	kernelH, kernelW int,
	stride, padding int,
	backend B,
) *DepthwiseConv2D[B] {
	if channels <= 0 {
		panic(fmt.Sprintf("depthwise conv2d: invalid channels %d", channels))
	}
	if kernelH <= 0 || kernelW <= 0 {
		panic(fmt.Sprintf("depthwise conv2d: invalid kernel size h=%d, w=%d", kernelH, kernelW))
	}
	if stride <= 0 {
		panic(fmt.Sprintf("depthwise conv2d: invalid stride %d", stride))
	}
	if padding < 0 {
		panic(fmt.Sprintf("depthwise conv2d: invalid padding %d", padding))
	}

	weightShape := tensor.Shape{kernelH, kernelW, channels}
	fanIn := kernelH * kernelW
	weight := NewParameter("depthwise_conv2d.weight", HeNormal(fanIn, weightShape, backend))

	return &DepthwiseConv2D[B]{
		channels:   channels,
		kernelSize: [2]int{kernelH, kernelW},
		stride:     stride,
		padding:    padding,
		weight:     weight,
		backend:    backend,
	}
}

// Forward performs the forward pass.
func (d *DepthwiseConv2D[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	inputShape := input.Shape()
	if len(inputShape) != 4 {
		panic(fmt.Sprintf("depthwise conv2d: expected 4D input [N,H,W,C], got %dD", len(inputShape)))
	}
	if inputShape[3] != d.channels {
		panic(fmt.Sprintf("depthwise conv2d: input channels %d != expected %d", inputShape[3], d.channels))
	}

	outputRaw := d.backend.DepthwiseConv2D(
		input.Raw(),
		d.weight.Tensor().Raw(),
		d.stride,
		d.padding,
	)
	return tensor.New(outputRaw, d.backend)
}

// Parameters returns the layer's parameters.
func (d *DepthwiseConv2D[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{d.weight}
}

// Channels returns the channel count.
func (d *DepthwiseConv2D[B]) Channels() int {
	return d.channels
}

// String returns a string representation of the layer.
func (d *DepthwiseConv2D[B]) String() string {
	return fmt.Sprintf("DepthwiseConv2D(channels=%d, kernel_size=(%d, %d), stride=%d, padding=%d)",
		d.channels, d.kernelSize[0], d.kernelSize[1], d.stride, d.padding)
}
