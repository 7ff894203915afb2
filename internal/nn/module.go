// Package nn implements the neural network layer modules the model zoo is
// assembled from.
//
// This package provides forward-pass building blocks:
//   - Module interface: base interface for all NN components
//   - Parameter: named weight tensors
//   - Conv2D, DepthwiseConv2D: convolutions over channel-last feature maps
//   - BatchNorm2D: per-channel normalization with fixed statistics
//   - MaxPool2D, AvgPool2D, GlobalAvgPool2D: spatial pooling
//   - Linear: fully connected layer
//   - Activations: ReLU, Sigmoid, Softmax
//   - Sequential: container for stacking layers
//
// Design inspired by PyTorch's nn.Module but adapted for Go generics.
package nn

import (
	"github.com/gozoo-ml/gozoo/internal/tensor"
)

// Module is the base interface for all neural network components.
//
// Modules can be composed to build complex architectures:
//
//	head := nn.NewSequential[B](
//	    nn.NewGlobalAvgPool2D(backend),
//	    nn.NewLinear(2048, 1000, true, backend),
//	    nn.NewSoftmax[B](-1),
//	)
//
// Type parameter B must satisfy the tensor.Backend interface.
type Module[B tensor.Backend] interface {
	// Forward computes the output of the module given an input tensor.
	//
	// The input tensor must have the appropriate shape for this module;
	// implementations validate the shape and panic with a descriptive
	// message on mismatch.
	Forward(input *tensor.Tensor[B]) *tensor.Tensor[B]

	// Parameters returns all parameters of this module, including nested
	// module parameters. Returns an empty slice for modules without
	// parameters (e.g., activation functions).
	Parameters() []*Parameter[B]
}

// NumParameters returns the total number of scalar weights in a module.
func NumParameters[B tensor.Backend](m Module[B]) int {
	total := 0
	for _, p := range m.Parameters() {
		total += p.Tensor().NumElements()
	}
	return total
}
