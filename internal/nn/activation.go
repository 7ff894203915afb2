package nn

import (
	"fmt"

	"github.com/gozoo-ml/gozoo/internal/tensor"
)

// ReLU is a Rectified Linear Unit activation module.
//
// Applies the element-wise function: f(x) = max(0, x).
type ReLU[B tensor.Backend] struct{}

// NewReLU creates a new ReLU activation module.
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return &ReLU[B]{}
}

// Forward applies ReLU activation.
func (r *ReLU[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	return tensor.New(input.Backend().ReLU(input.Raw()), input.Backend())
}

// Parameters returns an empty slice (ReLU has no parameters).
func (r *ReLU[B]) Parameters() []*Parameter[B] {
	return nil
}

// String returns a string representation of the layer.
func (r *ReLU[B]) String() string {
	return "ReLU()"
}

// Sigmoid is a sigmoid activation module.
//
// Applies the element-wise function: σ(x) = 1 / (1 + exp(-x)), squashing
// values to (0, 1). The squeeze-excite unit uses it to produce channel
// gates.
type Sigmoid[B tensor.Backend] struct{}

// NewSigmoid creates a new Sigmoid activation module.
func NewSigmoid[B tensor.Backend]() *Sigmoid[B] {
	return &Sigmoid[B]{}
}

// Forward applies Sigmoid activation.
func (s *Sigmoid[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	return tensor.New(input.Backend().Sigmoid(input.Raw()), input.Backend())
}

// Parameters returns an empty slice (Sigmoid has no parameters).
func (s *Sigmoid[B]) Parameters() []*Parameter[B] {
	return nil
}

// String returns a string representation of the layer.
func (s *Sigmoid[B]) String() string {
	return "Sigmoid()"
}

// Softmax normalizes values along a dimension into a probability
// distribution.
type Softmax[B tensor.Backend] struct {
	dim int
}

// NewSoftmax creates a new Softmax module over the given dimension.
// Negative dimensions count from the end; -1 is the usual classifier axis.
func NewSoftmax[B tensor.Backend](dim int) *Softmax[B] {
	return &Softmax[B]{dim: dim}
}

// Forward applies softmax along the configured dimension.
func (s *Softmax[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	return input.Softmax(s.dim)
}

// Parameters returns an empty slice (Softmax has no parameters).
func (s *Softmax[B]) Parameters() []*Parameter[B] {
	return nil
}

// String returns a string representation of the layer.
func (s *Softmax[B]) String() string {
	return fmt.Sprintf("Softmax(dim=%d)", s.dim)
}
