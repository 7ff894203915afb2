// Package cpu implements the pure-Go CPU backend, with gonum BLAS for the
// matrix-multiplication heavy operations.
package cpu

import (
	"fmt"

	"github.com/gozoo-ml/gozoo/internal/tensor"
)

// CPUBackend implements tensor operations on CPU.
type CPUBackend struct{}

// New creates a new CPU backend.
func New() *CPUBackend {
	return &CPUBackend{}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Add performs element-wise addition with NumPy-style broadcasting.
func (cpu *CPUBackend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	return broadcastBinary("add", a, b, func(x, y float32) float32 { return x + y })
}

// Mul performs element-wise multiplication with NumPy-style broadcasting.
func (cpu *CPUBackend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	return broadcastBinary("mul", a, b, func(x, y float32) float32 { return x * y })
}

// broadcastBinary applies f element-wise over a and b broadcast to a common
// shape.
func broadcastBinary(op string, a, b *tensor.RawTensor, f func(x, y float32) float32) *tensor.RawTensor {
	outShape, needsBroadcast, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("%s: %v", op, err))
	}

	result, err := tensor.NewRaw(outShape)
	if err != nil {
		panic(fmt.Sprintf("%s: failed to create result tensor: %v", op, err))
	}

	out := result.Data()
	aData := a.Data()
	bData := b.Data()

	if !needsBroadcast {
		// Fast path: identical shapes.
		for i := range out {
			out[i] = f(aData[i], bData[i])
		}
		return result
	}

	outStrides := outShape.ComputeStrides()
	aStrides := broadcastStrides(a.Shape(), outShape)
	bStrides := broadcastStrides(b.Shape(), outShape)

	for i := range out {
		rem := i
		aOff, bOff := 0, 0
		for d := range outShape {
			idx := rem / outStrides[d]
			rem %= outStrides[d]
			aOff += idx * aStrides[d]
			bOff += idx * bStrides[d]
		}
		out[i] = f(aData[aOff], bData[bOff])
	}
	return result
}

// broadcastStrides returns per-output-dimension strides into a tensor of
// shape s broadcast to shape out. Broadcast dimensions (size 1, or missing
// leading dimensions) get stride 0 so their index is ignored.
func broadcastStrides(s, out tensor.Shape) []int {
	strides := s.ComputeStrides()
	result := make([]int, len(out))
	offset := len(out) - len(s)
	for d := range out {
		if d < offset || s[d-offset] == 1 {
			continue
		}
		result[d] = strides[d-offset]
	}
	return result
}
