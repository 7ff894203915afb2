package nn

import (
	"fmt"

	"github.com/gozoo-ml/gozoo/internal/tensor"
)

// Linear implements a fully connected (dense) layer.
//
// Performs the transformation: y = x @ W + b
// where:
//   - x is the input tensor with shape [batch_size, in_features]
//   - W is the weight matrix with shape [in_features, out_features]
//   - b is the bias vector with shape [out_features]
//   - y is the output tensor with shape [batch_size, out_features]
//
// Weights use He-normal initialization, biases start at zero. The
// squeeze-excite gates use bias-free linears; the classifier heads keep the
// bias.
type Linear[B tensor.Backend] struct {
	inFeatures  int
	outFeatures int
	useBias     bool
	weight      *Parameter[B] // [in_features, out_features]
	bias        *Parameter[B] // [out_features] or nil
	backend     B
}

// NewLinear creates a new Linear layer.
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, useBias bool, backend B) *Linear[B] {
	if inFeatures <= 0 || outFeatures <= 0 {
		panic(fmt.Sprintf("linear: invalid features in=%d, out=%d", inFeatures, outFeatures))
	}

	weightShape := tensor.Shape{inFeatures, outFeatures}
	weight := NewParameter("linear.weight", HeNormal(inFeatures, weightShape, backend))

	var bias *Parameter[B]
	if useBias {
		bias = NewParameter("linear.bias", Zeros(tensor.Shape{outFeatures}, backend))
	}

	return &Linear[B]{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		useBias:     useBias,
		weight:      weight,
		bias:        bias,
		backend:     backend,
	}
}

// Forward computes the output of the linear layer.
//
// Input shape: [batch_size, in_features]
// Output shape: [batch_size, out_features].
func (l *Linear[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	inputShape := input.Shape()
	if len(inputShape) != 2 {
		panic(fmt.Sprintf("linear: expected 2D input [batch, features], got shape %v", inputShape))
	}
	if inputShape[1] != l.inFeatures {
		panic(fmt.Sprintf("linear: expected input with %d features, got %d", l.inFeatures, inputShape[1]))
	}

	// [batch, in_features] @ [in_features, out_features]
	output := input.MatMul(l.weight.Tensor())

	if l.useBias {
		biasReshaped := l.bias.Tensor().Reshape(1, l.outFeatures)
		output = output.Add(biasReshaped)
	}

	return output
}

// Parameters returns the layer's parameters.
func (l *Linear[B]) Parameters() []*Parameter[B] {
	if l.useBias {
		return []*Parameter[B]{l.weight, l.bias}
	}
	return []*Parameter[B]{l.weight}
}

// Weight returns the weight parameter.
func (l *Linear[B]) Weight() *Parameter[B] {
	return l.weight
}

// InFeatures returns the number of input features.
func (l *Linear[B]) InFeatures() int {
	return l.inFeatures
}

// OutFeatures returns the number of output features.
func (l *Linear[B]) OutFeatures() int {
	return l.outFeatures
}

// String returns a string representation of the layer.
func (l *Linear[B]) String() string {
	return fmt.Sprintf("Linear(in_features=%d, out_features=%d, bias=%v)", l.inFeatures, l.outFeatures, l.useBias)
}
