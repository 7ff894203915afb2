package cpu

import (
	"fmt"

	"github.com/gozoo-ml/gozoo/internal/tensor"
)

// Reshape returns a view of the same buffer under a new shape.
func (cpu *CPUBackend) Reshape(x *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	result, err := x.WithShape(newShape)
	if err != nil {
		panic(fmt.Sprintf("reshape: %v", err))
	}
	return result
}

// Transpose permutes the tensor's dimensions into a new contiguous tensor.
// If axes is empty, all dimensions are reversed.
func (cpu *CPUBackend) Transpose(x *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	shape := x.Shape()
	rank := len(shape)

	if len(axes) == 0 {
		axes = make([]int, rank)
		for i := range axes {
			axes[i] = rank - 1 - i
		}
	}
	if len(axes) != rank {
		panic(fmt.Sprintf("transpose: got %d axes for rank-%d tensor", len(axes), rank))
	}

	seen := make([]bool, rank)
	outShape := make(tensor.Shape, rank)
	for i, a := range axes {
		if a < 0 || a >= rank || seen[a] {
			panic(fmt.Sprintf("transpose: axes %v is not a permutation of 0..%d", axes, rank-1))
		}
		seen[a] = true
		outShape[i] = shape[a]
	}

	result, err := tensor.NewRaw(outShape)
	if err != nil {
		panic(fmt.Sprintf("transpose: failed to create result tensor: %v", err))
	}

	in := x.Data()
	out := result.Data()
	inStrides := x.Strides()
	outStrides := outShape.ComputeStrides()

	for i := range out {
		rem := i
		srcOff := 0
		for d := 0; d < rank; d++ {
			idx := rem / outStrides[d]
			rem %= outStrides[d]
			srcOff += idx * inStrides[axes[d]]
		}
		out[i] = in[srcOff]
	}
	return result
}

// Cat concatenates tensors along the given dimension. All other dimensions
// must match.
func (cpu *CPUBackend) Cat(tensors []*tensor.RawTensor, dim int) *tensor.RawTensor {
	if len(tensors) == 0 {
		panic("cat: no tensors to concatenate")
	}

	first := tensors[0].Shape()
	rank := len(first)
	if dim < 0 || dim >= rank {
		panic(fmt.Sprintf("cat: dimension %d out of range for rank-%d tensors", dim, rank))
	}

	total := 0
	for i, t := range tensors {
		shape := t.Shape()
		if len(shape) != rank {
			panic(fmt.Sprintf("cat: tensor %d has rank %d, expected %d", i, len(shape), rank))
		}
		for d := 0; d < rank; d++ {
			if d != dim && shape[d] != first[d] {
				panic(fmt.Sprintf("cat: tensor %d shape %v incompatible with %v along dim %d", i, shape, first, dim))
			}
		}
		total += shape[dim]
	}

	outShape := first.Clone()
	outShape[dim] = total
	result, err := tensor.NewRaw(outShape)
	if err != nil {
		panic(fmt.Sprintf("cat: failed to create result tensor: %v", err))
	}

	inner := 1
	for d := dim + 1; d < rank; d++ {
		inner *= first[d]
	}
	outer := 1
	for d := 0; d < dim; d++ {
		outer *= first[d]
	}

	out := result.Data()
	outBlock := total * inner
	for o := 0; o < outer; o++ {
		offset := o * outBlock
		for _, t := range tensors {
			block := t.Shape()[dim] * inner
			copy(out[offset:offset+block], t.Data()[o*block:(o+1)*block])
			offset += block
		}
	}
	return result
}

// Narrow copies length entries of dimension dim starting at start.
func (cpu *CPUBackend) Narrow(x *tensor.RawTensor, dim, start, length int) *tensor.RawTensor {
	shape := x.Shape()
	rank := len(shape)
	if dim < 0 || dim >= rank {
		panic(fmt.Sprintf("narrow: dimension %d out of range for rank-%d tensor", dim, rank))
	}
	if start < 0 || length <= 0 || start+length > shape[dim] {
		panic(fmt.Sprintf("narrow: range [%d, %d) out of bounds for dimension of size %d", start, start+length, shape[dim]))
	}

	outShape := shape.Clone()
	outShape[dim] = length
	result, err := tensor.NewRaw(outShape)
	if err != nil {
		panic(fmt.Sprintf("narrow: failed to create result tensor: %v", err))
	}

	inner := 1
	for d := dim + 1; d < rank; d++ {
		inner *= shape[d]
	}
	outer := 1
	for d := 0; d < dim; d++ {
		outer *= shape[d]
	}

	in := x.Data()
	out := result.Data()
	inBlock := shape[dim] * inner
	outBlock := length * inner
	for o := 0; o < outer; o++ {
		src := o*inBlock + start*inner
		copy(out[o*outBlock:(o+1)*outBlock], in[src:src+outBlock])
	}
	return result
}
