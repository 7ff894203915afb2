package tensor

import (
	"fmt"
	"math/rand"
)

// Zeros creates a tensor filled with zeros.
func Zeros[B Backend](shape Shape, b B) *Tensor[B] {
	raw, err := NewRaw(shape)
	if err != nil {
		panic(fmt.Sprintf("zeros: %v", err))
	}
	return New(raw, b)
}

// Ones creates a tensor filled with ones.
func Ones[B Backend](shape Shape, b B) *Tensor[B] {
	return Full(shape, 1, b)
}

// Full creates a tensor filled with a specific value.
func Full[B Backend](shape Shape, value float32, b B) *Tensor[B] {
	raw, err := NewRaw(shape)
	if err != nil {
		panic(fmt.Sprintf("full: %v", err))
	}

	data := raw.Data()
	for i := range data {
		data[i] = value
	}
	return New(raw, b)
}

// Randn creates a tensor filled with random values from the standard normal
// distribution N(0, 1).
func Randn[B Backend](shape Shape, b B) *Tensor[B] {
	raw, err := NewRaw(shape)
	if err != nil {
		panic(fmt.Sprintf("randn: %v", err))
	}

	data := raw.Data()
	for i := range data {
		//nolint:gosec // math/rand is fine for weight initialization
		data[i] = float32(rand.NormFloat64())
	}
	return New(raw, b)
}
