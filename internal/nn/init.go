package nn

import (
	"math"
	"math/rand"

	"github.com/gozoo-ml/gozoo/internal/tensor"
)

// HeNormal initializes weights with values drawn from N(0, sqrt(2/fan_in)).
//
// This is the standard initialization for layers followed by ReLU
// (He et al., 2015) and is what both zoo architectures use for their
// convolutional and dense weights.
func HeNormal[B tensor.Backend](fanIn int, shape tensor.Shape, backend B) *tensor.Tensor[B] {
	std := math.Sqrt(2.0 / float64(fanIn))

	t := Zeros(shape, backend)
	data := t.Data()
	for i := range data {
		//nolint:gosec // math/rand is fine for weight initialization
		data[i] = float32(rand.NormFloat64() * std)
	}
	return t
}

// Xavier initializes weights with values drawn from a uniform distribution:
// U(-sqrt(6/(fan_in + fan_out)), sqrt(6/(fan_in + fan_out))).
func Xavier[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, backend B) *tensor.Tensor[B] {
	bound := math.Sqrt(6.0 / float64(fanIn+fanOut))

	t := Zeros(shape, backend)
	data := t.Data()
	for i := range data {
		//nolint:gosec // math/rand is fine for weight initialization
		data[i] = float32((rand.Float64()*2.0 - 1.0) * bound)
	}
	return t
}

// Zeros creates a tensor filled with zeros.
// This is commonly used for bias initialization.
func Zeros[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[B] {
	return tensor.Zeros(shape, backend)
}

// Ones creates a tensor filled with ones.
// This is used for batch-norm scale and variance initialization.
func Ones[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[B] {
	return tensor.Ones(shape, backend)
}
