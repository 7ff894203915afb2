package nn

import (
	"testing"

	"github.com/gozoo-ml/gozoo/internal/backend/cpu"
	"github.com/gozoo-ml/gozoo/internal/tensor"
	"github.com/stretchr/testify/assert"
)

// TestSequential_Forward tests chaining a small convolutional trunk.
func TestSequential_Forward(t *testing.T) {
	backend := cpu.New()

	trunk := NewSequential[Backend](
		NewConv2D(3, 8, 3, 3, 2, 1, false, backend),
		NewBatchNorm2D(8, backend),
		NewReLU[Backend](),
		NewMaxPool2D(3, 2, 1, backend),
	)

	input := tensor.Zeros(tensor.Shape{1, 32, 32, 3}, backend)
	output := trunk.Forward(input)

	assert.True(t, output.Shape().Equal(tensor.Shape{1, 8, 8, 8}),
		"expected [1 8 8 8], got %v", output.Shape())
}

// TestSequential_Parameters tests parameter collection across modules.
func TestSequential_Parameters(t *testing.T) {
	backend := cpu.New()

	trunk := NewSequential[Backend](
		NewConv2D(3, 8, 3, 3, 1, 1, false, backend), // 3*3*3*8 weights
		NewBatchNorm2D(8, backend),                  // 4*8 statistics
		NewReLU[Backend](),                          // none
	)

	assert.Equal(t, 3*3*3*8+4*8, NumParameters[Backend](trunk))
}

// TestSequential_AddAndIndex tests incremental construction.
func TestSequential_AddAndIndex(t *testing.T) {
	backend := cpu.New()

	seq := NewSequential[Backend]()
	assert.Equal(t, 0, seq.Len())

	seq.Add(NewLinear(4, 2, false, backend))
	seq.Add(NewSoftmax[Backend](-1))
	assert.Equal(t, 2, seq.Len())

	_, ok := seq.Module(0).(*Linear[Backend])
	assert.True(t, ok)

	assert.Panics(t, func() { seq.Module(5) })
}

// TestActivations_Shapes tests that activations preserve shape on the
// feature maps and vectors the zoo runs through them.
func TestActivations_Shapes(t *testing.T) {
	backend := cpu.New()

	featureMap := tensor.Randn(tensor.Shape{2, 4, 4, 8}, backend)
	vector := tensor.Randn(tensor.Shape{2, 10}, backend)

	relu := NewReLU[Backend]()
	assert.True(t, relu.Forward(featureMap).Shape().Equal(featureMap.Shape()))

	sigmoid := NewSigmoid[Backend]()
	out := sigmoid.Forward(vector)
	assert.True(t, out.Shape().Equal(vector.Shape()))
	for _, v := range out.Data() {
		assert.Greater(t, v, float32(0))
		assert.Less(t, v, float32(1))
	}

	softmax := NewSoftmax[Backend](-1)
	probs := softmax.Forward(vector)
	for row := 0; row < 2; row++ {
		sum := float32(0)
		for i := 0; i < 10; i++ {
			sum += probs.At(row, i)
		}
		assert.InDelta(t, 1.0, sum, 1e-5)
	}
}

// TestGlobalAvgPool2D_Flattens tests the [N,H,W,C] -> [N,C] reduction.
func TestGlobalAvgPool2D_Flattens(t *testing.T) {
	backend := cpu.New()

	pool := NewGlobalAvgPool2D(backend)
	input := tensor.Full(tensor.Shape{2, 7, 7, 5}, 3, backend)

	output := pool.Forward(input)

	assert.True(t, output.Shape().Equal(tensor.Shape{2, 5}))
	for _, v := range output.Data() {
		assert.InDelta(t, 3.0, v, 1e-6)
	}
}
