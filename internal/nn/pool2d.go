package nn

import (
	"fmt"

	"github.com/gozoo-ml/gozoo/internal/tensor"
)

// MaxPool2D is a 2D max pooling layer over channel-last feature maps.
//
// Input shape:  [batch, height, width, channels]
// Output shape: [batch, out_h, out_w, channels]
//
// Where:
//
//	out_h = (height + 2*padding - kernelSize) / stride + 1
//	out_w = (width + 2*padding - kernelSize) / stride + 1
//
// Padded positions never contribute to the maximum.
type MaxPool2D[B tensor.Backend] struct {
	kernelSize int
	stride     int
	padding    int
	backend    B
}

// NewMaxPool2D creates a new 2D max pooling layer.
//
// Common patterns:
//   - NewMaxPool2D(3, 2, 1, backend): the stem pooling of both networks
//   - NewMaxPool2D(2, 2, 0, backend): standard non-overlapping pooling
func NewMaxPool2D[B tensor.Backend](kernelSize, stride, padding int, backend B) *MaxPool2D[B] {
	if kernelSize <= 0 {
		panic(fmt.Sprintf("maxpool2d: invalid kernel size %d", kernelSize))
	}
	if stride <= 0 {
		panic(fmt.Sprintf("maxpool2d: invalid stride %d", stride))
	}
	if padding < 0 {
		panic(fmt.Sprintf("maxpool2d: invalid padding %d", padding))
	}

	return &MaxPool2D[B]{
		kernelSize: kernelSize,
		stride:     stride,
		padding:    padding,
		backend:    backend,
	}
}

// Forward performs the forward pass.
func (m *MaxPool2D[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	if len(input.Shape()) != 4 {
		panic(fmt.Sprintf("maxpool2d: expected 4D input [N,H,W,C], got %dD", len(input.Shape())))
	}

	outputRaw := m.backend.MaxPool2D(input.Raw(), m.kernelSize, m.stride, m.padding)
	return tensor.New(outputRaw, m.backend)
}

// Parameters returns an empty slice (pooling has no parameters).
func (m *MaxPool2D[B]) Parameters() []*Parameter[B] {
	return nil
}

// String returns a string representation of the layer.
func (m *MaxPool2D[B]) String() string {
	return fmt.Sprintf("MaxPool2D(kernel_size=%d, stride=%d, padding=%d)", m.kernelSize, m.stride, m.padding)
}

// AvgPool2D is a 2D average pooling layer over channel-last feature maps.
//
// The average is taken over the valid (non-padded) window cells only, so
// border windows are not diluted by zero padding.
type AvgPool2D[B tensor.Backend] struct {
	kernelSize int
	stride     int
	padding    int
	backend    B
}

// NewAvgPool2D creates a new 2D average pooling layer.
func NewAvgPool2D[B tensor.Backend](kernelSize, stride, padding int, backend B) *AvgPool2D[B] {
	if kernelSize <= 0 {
		panic(fmt.Sprintf("avgpool2d: invalid kernel size %d", kernelSize))
	}
	if stride <= 0 {
		panic(fmt.Sprintf("avgpool2d: invalid stride %d", stride))
	}
	if padding < 0 {
		panic(fmt.Sprintf("avgpool2d: invalid padding %d", padding))
	}

	return &AvgPool2D[B]{
		kernelSize: kernelSize,
		stride:     stride,
		padding:    padding,
		backend:    backend,
	}
}

// Forward performs the forward pass.
func (a *AvgPool2D[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	if len(input.Shape()) != 4 {
		panic(fmt.Sprintf("avgpool2d: expected 4D input [N,H,W,C], got %dD", len(input.Shape())))
	}

	outputRaw := a.backend.AvgPool2D(input.Raw(), a.kernelSize, a.stride, a.padding)
	return tensor.New(outputRaw, a.backend)
}

// Parameters returns an empty slice (pooling has no parameters).
func (a *AvgPool2D[B]) Parameters() []*Parameter[B] {
	return nil
}

// String returns a string representation of the layer.
func (a *AvgPool2D[B]) String() string {
	return fmt.Sprintf("AvgPool2D(kernel_size=%d, stride=%d, padding=%d)", a.kernelSize, a.stride, a.padding)
}

// GlobalAvgPool2D averages each channel over all spatial positions,
// flattening [batch, height, width, channels] to [batch, channels].
type GlobalAvgPool2D[B tensor.Backend] struct {
	backend B
}

// NewGlobalAvgPool2D creates a new global average pooling layer.
func NewGlobalAvgPool2D[B tensor.Backend](backend B) *GlobalAvgPool2D[B] {
	return &GlobalAvgPool2D[B]{backend: backend}
}

// Forward performs the forward pass.
//
// Input: [batch, height, width, channels]
// Output: [batch, channels].
func (g *GlobalAvgPool2D[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	if len(input.Shape()) != 4 {
		panic(fmt.Sprintf("global avgpool2d: expected 4D input [N,H,W,C], got %dD", len(input.Shape())))
	}

	outputRaw := g.backend.GlobalAvgPool2D(input.Raw())
	return tensor.New(outputRaw, g.backend)
}

// Parameters returns an empty slice (pooling has no parameters).
func (g *GlobalAvgPool2D[B]) Parameters() []*Parameter[B] {
	return nil
}

// String returns a string representation of the layer.
func (g *GlobalAvgPool2D[B]) String() string {
	return "GlobalAvgPool2D()"
}
