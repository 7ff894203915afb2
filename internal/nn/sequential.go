package nn

import (
	"strings"

	"github.com/gozoo-ml/gozoo/internal/tensor"
)

// Sequential is a container module that chains multiple modules together.
//
// Each module's output becomes the next module's input. The stage
// assemblers use it to hold one shape-changing block followed by the
// stage's identity blocks.
//
// Example:
//
//	stage := nn.NewSequential[B](
//	    projection, // changes channels/resolution
//	    bottleneck, // identity blocks
//	    bottleneck,
//	)
type Sequential[B tensor.Backend] struct {
	modules []Module[B]
}

// NewSequential creates a new Sequential container.
func NewSequential[B tensor.Backend](modules ...Module[B]) *Sequential[B] {
	return &Sequential[B]{
		modules: modules,
	}
}

// Forward applies all modules in sequence.
func (s *Sequential[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	output := input
	for _, module := range s.modules {
		output = module.Forward(output)
	}
	return output
}

// Parameters returns all parameters from all modules.
func (s *Sequential[B]) Parameters() []*Parameter[B] {
	var params []*Parameter[B]
	for _, module := range s.modules {
		params = append(params, module.Parameters()...)
	}
	return params
}

// Add appends a module to the sequence.
func (s *Sequential[B]) Add(module Module[B]) {
	s.modules = append(s.modules, module)
}

// Len returns the number of modules in the sequence.
func (s *Sequential[B]) Len() int {
	return len(s.modules)
}

// Module returns the module at the given index.
// Panics if index is out of bounds.
func (s *Sequential[B]) Module(index int) Module[B] {
	if index < 0 || index >= len(s.modules) {
		panic("Sequential.Module: index out of bounds")
	}
	return s.modules[index]
}

// String returns a string representation of the container.
func (s *Sequential[B]) String() string {
	var b strings.Builder
	b.WriteString("Sequential(\n")
	for _, module := range s.modules {
		b.WriteString("  ")
		if str, ok := module.(interface{ String() string }); ok {
			b.WriteString(str.String())
		} else {
			b.WriteString("Module")
		}
		b.WriteString("\n")
	}
	b.WriteString(")")
	return b.String()
}
