package tensor

// Add performs element-wise addition with broadcasting.
func (t *Tensor[B]) Add(other *Tensor[B]) *Tensor[B] {
	result := t.backend.Add(t.raw, other.raw)
	return New(result, t.backend)
}

// Mul performs element-wise multiplication with broadcasting.
//
// Example:
//
//	gate := excite.Reshape(n, 1, 1, c) // [N,1,1,C]
//	scaled := featureMap.Mul(gate)     // broadcast over H and W
func (t *Tensor[B]) Mul(other *Tensor[B]) *Tensor[B] {
	result := t.backend.Mul(t.raw, other.raw)
	return New(result, t.backend)
}

// MatMul performs 2D matrix multiplication: (M, K) @ (K, N) → (M, N).
func (t *Tensor[B]) MatMul(other *Tensor[B]) *Tensor[B] {
	result := t.backend.MatMul(t.raw, other.raw)
	return New(result, t.backend)
}

// Reshape returns a tensor with the same data but different shape.
// The new shape must have the same number of elements.
func (t *Tensor[B]) Reshape(newShape ...int) *Tensor[B] {
	result := t.backend.Reshape(t.raw, Shape(newShape))
	return New(result, t.backend)
}

// Transpose transposes the tensor by permuting its dimensions.
//
// If axes is empty, reverses all dimensions (for 2D, this is standard
// transpose). Otherwise, axes specifies the permutation.
//
// Example:
//
//	t := tensor.Zeros(Shape{2, 3, 4}, backend)
//	transposed := t.Transpose(2, 0, 1) // Shape: [4, 2, 3]
func (t *Tensor[B]) Transpose(axes ...int) *Tensor[B] {
	result := t.backend.Transpose(t.raw, axes...)
	return New(result, t.backend)
}

// Narrow returns a copy of the tensor restricted to length entries of
// dimension dim, starting at start. Used for channel-group slicing.
func (t *Tensor[B]) Narrow(dim, start, length int) *Tensor[B] {
	result := t.backend.Narrow(t.raw, dim, start, length)
	return New(result, t.backend)
}

// Softmax applies softmax along the given dimension.
func (t *Tensor[B]) Softmax(dim int) *Tensor[B] {
	result := t.backend.Softmax(t.raw, dim)
	return New(result, t.backend)
}

// Cat concatenates tensors along a dimension.
//
// Example:
//
//	a := tensor.Ones(tensor.Shape{2, 3}, backend)
//	b := tensor.Zeros(tensor.Shape{2, 3}, backend)
//	c := tensor.Cat([]*tensor.Tensor[B]{a, b}, 0) // Shape: [4, 3]
func Cat[B Backend](tensors []*Tensor[B], dim int) *Tensor[B] {
	if len(tensors) == 0 {
		panic("cat: no tensors to concatenate")
	}

	raws := make([]*RawTensor, len(tensors))
	for i, t := range tensors {
		raws[i] = t.raw
	}

	backend := tensors[0].backend
	return New(backend.Cat(raws, dim), backend)
}
