package nn

import (
	"testing"

	"github.com/gozoo-ml/gozoo/internal/backend/cpu"
	"github.com/gozoo-ml/gozoo/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBatchNorm2D_IdentityAtInit verifies a fresh layer is (nearly) the
// identity transform.
func TestBatchNorm2D_IdentityAtInit(t *testing.T) {
	backend := cpu.New()

	bn := NewBatchNorm2D(2, backend)
	input, err := tensor.FromSlice([]float32{1, -1, 2, -2, 3, -3, 4, -4}, tensor.Shape{1, 2, 2, 2}, backend)
	require.NoError(t, err)

	output := bn.Forward(input)

	require.True(t, output.Shape().Equal(input.Shape()))
	for i := range input.Data() {
		assert.InDelta(t, input.Data()[i], output.Data()[i], 1e-4)
	}
}

// TestBatchNorm2D_FoldedStatistics tests the affine transform with
// hand-set running statistics.
func TestBatchNorm2D_FoldedStatistics(t *testing.T) {
	backend := cpu.New()

	bn := NewBatchNorm2D(1, backend)
	params := bn.Parameters()
	require.Len(t, params, 4)
	params[0].Tensor().Data()[0] = 2 // gamma
	params[1].Tensor().Data()[0] = 1 // beta
	params[2].Tensor().Data()[0] = 3 // mean
	params[3].Tensor().Data()[0] = 4 // variance

	input, err := tensor.FromSlice([]float32{1, 3, 5, 7}, tensor.Shape{1, 2, 2, 1}, backend)
	require.NoError(t, err)

	output := bn.Forward(input)

	// y = 2*(x-3)/sqrt(4+eps) + 1 ~= x - 2
	expected := []float32{-1, 1, 3, 5}
	for i, exp := range expected {
		assert.InDelta(t, exp, output.Data()[i], 1e-3)
	}
}

// TestBatchNorm2D_ChannelMismatchPanics tests input validation.
func TestBatchNorm2D_ChannelMismatchPanics(t *testing.T) {
	backend := cpu.New()

	bn := NewBatchNorm2D(4, backend)
	input := tensor.Zeros(tensor.Shape{1, 2, 2, 3}, backend)

	assert.Panics(t, func() { bn.Forward(input) })
}

// TestBatchNorm2D_ParameterCount verifies all four statistics are exposed.
func TestBatchNorm2D_ParameterCount(t *testing.T) {
	backend := cpu.New()

	bn := NewBatchNorm2D(16, backend)
	assert.Equal(t, 4*16, NumParameters[Backend](bn))
}
