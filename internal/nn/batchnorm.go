package nn

import (
	"fmt"

	"github.com/gozoo-ml/gozoo/internal/tensor"
)

// DefaultBatchNormEps is the default variance floor for BatchNorm2D.
const DefaultBatchNormEps = 1e-5

// BatchNorm2D normalizes each channel of a channel-last feature map with
// fixed statistics:
//
//	y = gamma * (x - mean) / sqrt(variance + eps) + beta
//
// The zoo builds inference graphs, so mean and variance are plain
// parameters (the running statistics a trained model would ship with), not
// batch statistics. Fresh layers start as the identity transform:
// gamma=1, beta=0, mean=0, variance=1.
type BatchNorm2D[B tensor.Backend] struct {
	channels int
	eps      float32

	gamma    *Parameter[B] // [channels] scale
	beta     *Parameter[B] // [channels] shift
	mean     *Parameter[B] // [channels] running mean
	variance *Parameter[B] // [channels] running variance

	backend B
}

// NewBatchNorm2D creates a new batch normalization layer.
func NewBatchNorm2D[B tensor.Backend](channels int, backend B) *BatchNorm2D[B] {
	if channels <= 0 {
		panic(fmt.Sprintf("batchnorm2d: invalid channels %d", channels))
	}

	shape := tensor.Shape{channels}
	return &BatchNorm2D[B]{
		channels: channels,
		eps:      DefaultBatchNormEps,
		gamma:    NewParameter("batchnorm2d.gamma", Ones(shape, backend)),
		beta:     NewParameter("batchnorm2d.beta", Zeros(shape, backend)),
		mean:     NewParameter("batchnorm2d.mean", Zeros(shape, backend)),
		variance: NewParameter("batchnorm2d.variance", Ones(shape, backend)),
		backend:  backend,
	}
}

// Forward performs the forward pass.
//
// Input: [batch, height, width, channels]
// Output: same shape.
func (b *BatchNorm2D[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	inputShape := input.Shape()
	if len(inputShape) != 4 {
		panic(fmt.Sprintf("batchnorm2d: expected 4D input [N,H,W,C], got %dD", len(inputShape)))
	}
	if inputShape[3] != b.channels {
		panic(fmt.Sprintf("batchnorm2d: input channels %d != expected %d", inputShape[3], b.channels))
	}

	outputRaw := b.backend.BatchNorm(
		input.Raw(),
		b.gamma.Tensor().Raw(),
		b.beta.Tensor().Raw(),
		b.mean.Tensor().Raw(),
		b.variance.Tensor().Raw(),
		b.eps,
	)
	return tensor.New(outputRaw, b.backend)
}

// Parameters returns the layer's parameters.
func (b *BatchNorm2D[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{b.gamma, b.beta, b.mean, b.variance}
}

// Channels returns the channel count.
func (b *BatchNorm2D[B]) Channels() int {
	return b.channels
}

// String returns a string representation of the layer.
func (b *BatchNorm2D[B]) String() string {
	return fmt.Sprintf("BatchNorm2D(channels=%d, eps=%g)", b.channels, b.eps)
}
