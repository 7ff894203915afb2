package senet_test

import (
	"testing"

	"github.com/gozoo-ml/gozoo/backend/cpu"
	"github.com/gozoo-ml/gozoo/tensor"
	"github.com/gozoo-ml/gozoo/zoo/senet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Backend = *cpu.Backend

// TestSqueezeExcite_PreservesShape tests that the gate only rescales.
func TestSqueezeExcite_PreservesShape(t *testing.T) {
	backend := cpu.New()

	se := senet.NewSqueezeExcite(16, 4, backend)
	x := tensor.Randn(tensor.Shape{2, 4, 4, 16}, backend)

	y := se.Forward(x)

	assert.True(t, y.Shape().Equal(x.Shape()))
}

// TestSqueezeExcite_GateBounds: the sigmoid gate lies in (0,1), so the
// output magnitude never exceeds the input magnitude.
func TestSqueezeExcite_GateBounds(t *testing.T) {
	backend := cpu.New()

	se := senet.NewSqueezeExcite(8, 2, backend)
	x := tensor.Randn(tensor.Shape{1, 3, 3, 8}, backend)

	y := se.Forward(x)

	for i := range x.Data() {
		in, out := x.Data()[i], y.Data()[i]
		assert.LessOrEqual(t, abs(out), abs(in), "gate amplified element %d", i)
		// The gate never flips signs either.
		assert.GreaterOrEqual(t, in*out, float32(0))
	}
}

// TestSqueezeExcite_UniformPerChannel: the gate is computed from global
// statistics, so every spatial position of a channel is scaled by the
// same factor.
func TestSqueezeExcite_UniformPerChannel(t *testing.T) {
	backend := cpu.New()

	const channels = 8
	se := senet.NewSqueezeExcite(channels, 2, backend)

	// Strictly positive input so ratios are well defined.
	data := make([]float32, 2*2*channels)
	for i := range data {
		data[i] = float32(i%7) + 1
	}
	x, err := tensor.FromSlice(data, tensor.Shape{1, 2, 2, channels}, backend)
	require.NoError(t, err)

	y := se.Forward(x)

	for c := 0; c < channels; c++ {
		ref := y.At(0, 0, 0, c) / x.At(0, 0, 0, c)
		for h := 0; h < 2; h++ {
			for w := 0; w < 2; w++ {
				ratio := y.At(0, h, w, c) / x.At(0, h, w, c)
				assert.InDelta(t, ref, ratio, 1e-5, "channel %d position (%d,%d)", c, h, w)
			}
		}
	}
}

// TestSqueezeExcite_SqueezeWidth tests the reduction ratio arithmetic and
// the divisibility validation.
func TestSqueezeExcite_SqueezeWidth(t *testing.T) {
	backend := cpu.New()

	se := senet.NewSqueezeExcite(256, 16, backend)
	assert.Equal(t, 16, se.SqueezeChannels())

	assert.Panics(t, func() { senet.NewSqueezeExcite(10, 4, backend) })
	assert.Panics(t, func() { senet.NewSqueezeExcite(16, 0, backend) })
}

// TestBottleneckBlock_PreservesShape tests the identity residual unit.
func TestBottleneckBlock_PreservesShape(t *testing.T) {
	backend := cpu.New()

	block := senet.NewBottleneckBlock(8, 4, backend)
	assert.Equal(t, 32, block.OutChannels())

	x := tensor.Randn(tensor.Shape{1, 4, 4, 32}, backend)
	y := block.Forward(x)

	assert.True(t, y.Shape().Equal(x.Shape()))
}

// TestBottleneckBlock_WrongChannelsPanics: the identity shortcut requires
// exactly 4*filters input channels.
func TestBottleneckBlock_WrongChannelsPanics(t *testing.T) {
	backend := cpu.New()

	block := senet.NewBottleneckBlock(8, 4, backend)
	x := tensor.Zeros(tensor.Shape{1, 4, 4, 16}, backend)

	assert.Panics(t, func() { block.Forward(x) })
}

// TestProjectionBlock_Shapes tests width change and downsampling.
func TestProjectionBlock_Shapes(t *testing.T) {
	backend := cpu.New()

	tests := []struct {
		name         string
		inC, filters int
		stride       int
		inH, wantH   int
	}{
		{"stage entry stride 1", 64, 16, 1, 8, 8},
		{"stage entry stride 2", 64, 32, 2, 8, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			block := senet.NewProjectionBlock(tt.inC, tt.filters, tt.stride, 4, backend)
			x := tensor.Randn(tensor.Shape{1, tt.inH, tt.inH, tt.inC}, backend)

			y := block.Forward(x)

			assert.True(t, y.Shape().Equal(tensor.Shape{1, tt.wantH, tt.wantH, 4 * tt.filters}),
				"got %v", y.Shape())
		})
	}
}

// TestStem_Shape tests the fixed 224 -> 56 reduction.
func TestStem_Shape(t *testing.T) {
	backend := cpu.New()

	stem := senet.NewStem(backend)
	x := tensor.Randn(tensor.Shape{1, 224, 224, 3}, backend)

	y := stem.Forward(x)

	assert.True(t, y.Shape().Equal(tensor.Shape{1, 56, 56, 64}), "got %v", y.Shape())
}

// TestClassifier_Distribution tests the pooled softmax head.
func TestClassifier_Distribution(t *testing.T) {
	backend := cpu.New()

	classifier := senet.NewClassifier(32, 10, backend)
	x := tensor.Randn(tensor.Shape{2, 4, 4, 32}, backend)

	y := classifier.Forward(x)

	require.True(t, y.Shape().Equal(tensor.Shape{2, 10}))
	for row := 0; row < 2; row++ {
		sum := float32(0)
		for i := 0; i < 10; i++ {
			v := y.At(row, i)
			assert.GreaterOrEqual(t, v, float32(0))
			sum += v
		}
		assert.InDelta(t, 1.0, sum, 1e-5)
	}
}

// TestSEResNet50_Config tests the stock configuration.
func TestSEResNet50_Config(t *testing.T) {
	cfg := senet.SEResNet50()

	assert.Equal(t, 16, cfg.Ratio)
	assert.Equal(t, 1000, cfg.Classes)
	require.Len(t, cfg.Stages, 4)
	assert.Equal(t, senet.StageConfig{Filters: 64, Blocks: 3}, cfg.Stages[0])
	assert.Equal(t, senet.StageConfig{Filters: 128, Blocks: 4}, cfg.Stages[1])
	assert.Equal(t, senet.StageConfig{Filters: 256, Blocks: 6}, cfg.Stages[2])
	assert.Equal(t, senet.StageConfig{Filters: 512, Blocks: 3}, cfg.Stages[3])
}

// TestNew_StageAssembly: each stage opens with a projection block and
// continues with bottleneck blocks.
func TestNew_StageAssembly(t *testing.T) {
	backend := cpu.New()

	model := senet.New(senet.SEResNet50(), backend)

	require.Equal(t, 4, model.NumStages())
	for i, st := range senet.SEResNet50().Stages {
		require.Equal(t, st.Blocks, model.Stage(i).Len(), "stage %d", i)

		_, projection := model.Stage(i).Module(0).(*senet.ProjectionBlock[Backend])
		assert.True(t, projection, "stage %d must open with a projection block", i)
		for j := 1; j < st.Blocks; j++ {
			_, bottleneck := model.Stage(i).Module(j).(*senet.BottleneckBlock[Backend])
			assert.True(t, bottleneck, "stage %d block %d must be a bottleneck block", i, j)
		}
	}
}

// TestNew_InvalidConfigPanics tests config validation.
func TestNew_InvalidConfigPanics(t *testing.T) {
	backend := cpu.New()

	assert.Panics(t, func() {
		senet.New(senet.Config{Ratio: 16, Classes: 1000}, backend) // no stages
	})
	assert.Panics(t, func() {
		cfg := senet.SEResNet50()
		cfg.Ratio = 0
		senet.New(cfg, backend)
	})
}

// TestSEResNet_Forward runs a reduced configuration end to end and checks
// the classifier output is a probability distribution.
func TestSEResNet_Forward(t *testing.T) {
	backend := cpu.New()

	cfg := senet.Config{
		Ratio: 4,
		Stages: []senet.StageConfig{
			{Filters: 8, Blocks: 2},
			{Filters: 16, Blocks: 2},
		},
		Classes: 10,
	}
	model := senet.New(cfg, backend)

	x := tensor.Randn(tensor.Shape{1, 32, 32, 3}, backend)
	y := model.Forward(x)

	require.True(t, y.Shape().Equal(tensor.Shape{1, 10}), "got %v", y.Shape())

	sum := float32(0)
	for _, v := range y.Data() {
		assert.GreaterOrEqual(t, v, float32(0))
		sum += v
	}
	assert.InDelta(t, 1.0, sum, 1e-5)
}

// TestSEResNet50_Forward runs the full 50-layer network on a 224x224
// input.
func TestSEResNet50_Forward(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping full-resolution forward pass in short mode")
	}

	backend := cpu.New()
	model := senet.New(senet.SEResNet50(), backend)

	x := tensor.Randn(tensor.Shape{1, 224, 224, 3}, backend)
	y := model.Forward(x)

	require.True(t, y.Shape().Equal(tensor.Shape{1, 1000}))

	sum := float32(0)
	for _, v := range y.Data() {
		sum += v
	}
	assert.InDelta(t, 1.0, sum, 1e-4)
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
