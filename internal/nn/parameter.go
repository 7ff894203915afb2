package nn

import (
	"github.com/gozoo-ml/gozoo/internal/tensor"
)

// Parameter is a named weight tensor owned by a layer.
//
// The zoo builds inference graphs only, so parameters carry no gradient
// state; they exist so architectures can be inspected and counted.
type Parameter[B tensor.Backend] struct {
	name   string
	tensor *tensor.Tensor[B]
}

// NewParameter creates a new parameter.
//
// Parameters:
//   - name: Descriptive name for this parameter (e.g., "conv2d.weight")
//   - t: The initialized parameter tensor
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[B]) *Parameter[B] {
	return &Parameter[B]{
		name:   name,
		tensor: t,
	}
}

// Name returns the parameter name.
func (p *Parameter[B]) Name() string {
	return p.name
}

// Tensor returns the parameter tensor.
func (p *Parameter[B]) Tensor() *tensor.Tensor[B] {
	return p.tensor
}
