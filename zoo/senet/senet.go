// Package senet assembles squeeze-and-excite residual networks.
//
// The architecture follows SE-ResNet (Hu et al.): a ResNet bottleneck
// backbone where every residual branch is recalibrated by a squeeze-excite
// gate before the shortcut addition.
// Paper: https://arxiv.org/pdf/1709.01507.pdf
package senet

import (
	"fmt"
	"strings"

	"github.com/gozoo-ml/gozoo/nn"
	"github.com/gozoo-ml/gozoo/tensor"
)

// stemChannels is the channel count produced by the stem convolution.
const stemChannels = 64

// StageConfig describes one residual stage.
type StageConfig struct {
	// Filters is the bottleneck width; the stage's output carries
	// 4*Filters channels.
	Filters int
	// Blocks is the total block count: one projection block followed by
	// Blocks-1 bottleneck blocks.
	Blocks int
}

// Config parameterizes an SE-ResNet variant. Configs are plain values;
// the stock variants are returned by constructor functions.
type Config struct {
	// Ratio is the squeeze-excite reduction ratio. Every gated channel
	// count (4*Filters) must be divisible by it.
	Ratio   int
	Stages  []StageConfig
	Classes int
}

// SEResNet50 returns the 50-layer ImageNet configuration from the paper.
func SEResNet50() Config {
	return Config{
		Ratio: 16,
		Stages: []StageConfig{
			{Filters: 64, Blocks: 3},
			{Filters: 128, Blocks: 4},
			{Filters: 256, Blocks: 6},
			{Filters: 512, Blocks: 3},
		},
		Classes: 1000,
	}
}

// validate panics on configurations no stage assembler could honor.
func (c Config) validate() {
	if c.Ratio <= 0 {
		panic(fmt.Sprintf("senet: invalid squeeze-excite ratio %d", c.Ratio))
	}
	if len(c.Stages) == 0 {
		panic("senet: config has no stages")
	}
	for i, st := range c.Stages {
		if st.Filters <= 0 || st.Blocks <= 0 {
			panic(fmt.Sprintf("senet: invalid stage %d: filters=%d blocks=%d", i, st.Filters, st.Blocks))
		}
	}
	if c.Classes <= 0 {
		panic(fmt.Sprintf("senet: invalid class count %d", c.Classes))
	}
}

// convBN is a bias-free convolution followed by batch normalization, the
// unit every residual branch is built from.
type convBN[B tensor.Backend] struct {
	conv *nn.Conv2D[B]
	bn   *nn.BatchNorm2D[B]
}

func newConvBN[B tensor.Backend](inChannels, outChannels, kernel, stride, padding int, backend B) *convBN[B] {
	return &convBN[B]{
		conv: nn.NewConv2D(inChannels, outChannels, kernel, kernel, stride, padding, false, backend),
		bn:   nn.NewBatchNorm2D(outChannels, backend),
	}
}

func (c *convBN[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	return c.bn.Forward(c.conv.Forward(input))
}

func (c *convBN[B]) Parameters() []*nn.Parameter[B] {
	return append(c.conv.Parameters(), c.bn.Parameters()...)
}

// SqueezeExcite recalibrates channel responses with a gate computed from
// global spatial statistics: global-average-pool to a channel vector,
// reduce to channels/ratio with ReLU, restore to channels with sigmoid,
// then scale the input by the broadcast gate.
//
// Output shape always equals input shape.
type SqueezeExcite[B tensor.Backend] struct {
	channels int
	ratio    int

	pool    *nn.GlobalAvgPool2D[B]
	squeeze *nn.Linear[B]
	relu    *nn.ReLU[B]
	excite  *nn.Linear[B]
	sigmoid *nn.Sigmoid[B]
}

// NewSqueezeExcite creates a squeeze-excite unit for the given channel
// count. channels must be divisible by ratio.
func NewSqueezeExcite[B tensor.Backend](channels, ratio int, backend B) *SqueezeExcite[B] {
	if ratio <= 0 {
		panic(fmt.Sprintf("squeeze-excite: invalid ratio %d", ratio))
	}
	if channels%ratio != 0 {
		panic(fmt.Sprintf("squeeze-excite: channels %d not divisible by ratio %d", channels, ratio))
	}

	return &SqueezeExcite[B]{
		channels: channels,
		ratio:    ratio,
		pool:     nn.NewGlobalAvgPool2D(backend),
		squeeze:  nn.NewLinear(channels, channels/ratio, false, backend),
		relu:     nn.NewReLU[B](),
		excite:   nn.NewLinear(channels/ratio, channels, false, backend),
		sigmoid:  nn.NewSigmoid[B](),
	}
}

// Forward computes the channel gate and scales the input by it.
func (s *SqueezeExcite[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	shape := input.Shape()
	if len(shape) != 4 {
		panic(fmt.Sprintf("squeeze-excite: expected 4D input [N,H,W,C], got %dD", len(shape)))
	}
	if shape[3] != s.channels {
		panic(fmt.Sprintf("squeeze-excite: input channels %d != expected %d", shape[3], s.channels))
	}

	gate := s.pool.Forward(input)  // [N, C]
	gate = s.squeeze.Forward(gate) // [N, C/ratio]
	gate = s.relu.Forward(gate)
	gate = s.excite.Forward(gate) // [N, C]
	gate = s.sigmoid.Forward(gate)

	// Broadcast the per-channel gate over the spatial dimensions.
	gate = gate.Reshape(shape[0], 1, 1, s.channels)
	return input.Mul(gate)
}

// Parameters returns the unit's parameters.
func (s *SqueezeExcite[B]) Parameters() []*nn.Parameter[B] {
	return append(s.squeeze.Parameters(), s.excite.Parameters()...)
}

// SqueezeChannels returns the width of the reduced representation.
func (s *SqueezeExcite[B]) SqueezeChannels() int {
	return s.channels / s.ratio
}

// BottleneckBlock is a residual block with an identity shortcut.
//
// Main branch: 1x1 reduce -> 3x3 -> 1x1 restore (each conv+BN, ReLU after
// the first two), then a squeeze-excite gate; the input is added back and
// the sum passes through a final ReLU.
//
// The block's input must already carry 4*filters channels, which holds by
// construction because bottleneck blocks always follow a projection block
// with the same filter count.
type BottleneckBlock[B tensor.Backend] struct {
	filters int

	reduce  *convBN[B]
	spatial *convBN[B]
	restore *convBN[B]
	se      *SqueezeExcite[B]
	relu    *nn.ReLU[B]
}

// NewBottleneckBlock creates a bottleneck block of the given width.
func NewBottleneckBlock[B tensor.Backend](filters, ratio int, backend B) *BottleneckBlock[B] {
	if filters <= 0 {
		panic(fmt.Sprintf("bottleneck block: invalid filters %d", filters))
	}

	return &BottleneckBlock[B]{
		filters: filters,
		reduce:  newConvBN(4*filters, filters, 1, 1, 0, backend),
		spatial: newConvBN(filters, filters, 3, 1, 1, backend),
		restore: newConvBN(filters, 4*filters, 1, 1, 0, backend),
		se:      NewSqueezeExcite(4*filters, ratio, backend),
		relu:    nn.NewReLU[B](),
	}
}

// Forward performs the forward pass. Output shape equals input shape.
func (b *BottleneckBlock[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	shape := input.Shape()
	if len(shape) != 4 {
		panic(fmt.Sprintf("bottleneck block: expected 4D input [N,H,W,C], got %dD", len(shape)))
	}
	if shape[3] != 4*b.filters {
		panic(fmt.Sprintf("bottleneck block: identity shortcut needs %d input channels, got %d", 4*b.filters, shape[3]))
	}

	shortcut := input

	x := b.relu.Forward(b.reduce.Forward(input))
	x = b.relu.Forward(b.spatial.Forward(x))
	x = b.restore.Forward(x)
	x = b.se.Forward(x)

	return b.relu.Forward(shortcut.Add(x))
}

// Parameters returns the block's parameters.
func (b *BottleneckBlock[B]) Parameters() []*nn.Parameter[B] {
	var params []*nn.Parameter[B]
	params = append(params, b.reduce.Parameters()...)
	params = append(params, b.spatial.Parameters()...)
	params = append(params, b.restore.Parameters()...)
	params = append(params, b.se.Parameters()...)
	return params
}

// OutChannels returns the block's output channel count.
func (b *BottleneckBlock[B]) OutChannels() int {
	return 4 * b.filters
}

// ProjectionBlock is a residual block whose shortcut is itself a strided
// 1x1 convolution + BN producing 4*filters channels, so the addition stays
// shape-compatible when the main branch changes resolution or width. It is
// the entry block of every stage; all stages except the first use stride 2.
type ProjectionBlock[B tensor.Backend] struct {
	filters int

	shortcut *convBN[B]
	reduce   *convBN[B]
	spatial  *convBN[B]
	restore  *convBN[B]
	se       *SqueezeExcite[B]
	relu     *nn.ReLU[B]
}

// NewProjectionBlock creates a projection block mapping inChannels to
// 4*filters channels, downsampling spatially when stride is 2.
func NewProjectionBlock[B tensor.Backend](inChannels, filters, stride, ratio int, backend B) *ProjectionBlock[B] {
	if filters <= 0 {
		panic(fmt.Sprintf("projection block: invalid filters %d", filters))
	}
	if stride != 1 && stride != 2 {
		panic(fmt.Sprintf("projection block: invalid stride %d", stride))
	}

	return &ProjectionBlock[B]{
		filters:  filters,
		shortcut: newConvBN(inChannels, 4*filters, 1, stride, 0, backend),
		reduce:   newConvBN(inChannels, filters, 1, stride, 0, backend),
		spatial:  newConvBN(filters, filters, 3, 1, 1, backend),
		restore:  newConvBN(filters, 4*filters, 1, 1, 0, backend),
		se:       NewSqueezeExcite(4*filters, ratio, backend),
		relu:     nn.NewReLU[B](),
	}
}

// Forward performs the forward pass.
func (p *ProjectionBlock[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	if len(input.Shape()) != 4 {
		panic(fmt.Sprintf("projection block: expected 4D input [N,H,W,C], got %dD", len(input.Shape())))
	}

	shortcut := p.shortcut.Forward(input)

	x := p.relu.Forward(p.reduce.Forward(input))
	x = p.relu.Forward(p.spatial.Forward(x))
	x = p.restore.Forward(x)
	x = p.se.Forward(x)

	return p.relu.Forward(x.Add(shortcut))
}

// Parameters returns the block's parameters.
func (p *ProjectionBlock[B]) Parameters() []*nn.Parameter[B] {
	var params []*nn.Parameter[B]
	params = append(params, p.shortcut.Parameters()...)
	params = append(params, p.reduce.Parameters()...)
	params = append(params, p.spatial.Parameters()...)
	params = append(params, p.restore.Parameters()...)
	params = append(params, p.se.Parameters()...)
	return params
}

// OutChannels returns the block's output channel count.
func (p *ProjectionBlock[B]) OutChannels() int {
	return 4 * p.filters
}

// Stem is the fixed entry subgraph: 7x7/2 convolution + BN + ReLU, then
// 3x3/2 max pooling, reducing 224x224x3 to 56x56x64.
type Stem[B tensor.Backend] struct {
	conv *convBN[B]
	relu *nn.ReLU[B]
	pool *nn.MaxPool2D[B]
}

// NewStem creates the stem group.
func NewStem[B tensor.Backend](backend B) *Stem[B] {
	return &Stem[B]{
		conv: newConvBN(3, stemChannels, 7, 2, 3, backend),
		relu: nn.NewReLU[B](),
		pool: nn.NewMaxPool2D(3, 2, 1, backend),
	}
}

// Forward performs the forward pass.
func (s *Stem[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	return s.pool.Forward(s.relu.Forward(s.conv.Forward(input)))
}

// Parameters returns the stem's parameters.
func (s *Stem[B]) Parameters() []*nn.Parameter[B] {
	return s.conv.Parameters()
}

// Classifier is the fixed exit subgraph: global average pooling followed
// by a dense projection to the class count with softmax normalization.
type Classifier[B tensor.Backend] struct {
	pool    *nn.GlobalAvgPool2D[B]
	fc      *nn.Linear[B]
	softmax *nn.Softmax[B]
}

// NewClassifier creates the classifier group.
func NewClassifier[B tensor.Backend](inChannels, classes int, backend B) *Classifier[B] {
	return &Classifier[B]{
		pool:    nn.NewGlobalAvgPool2D(backend),
		fc:      nn.NewLinear(inChannels, classes, true, backend),
		softmax: nn.NewSoftmax[B](-1),
	}
}

// Forward performs the forward pass: [N,H,W,C] -> [N,classes].
func (c *Classifier[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	return c.softmax.Forward(c.fc.Forward(c.pool.Forward(input)))
}

// Parameters returns the classifier's parameters.
func (c *Classifier[B]) Parameters() []*nn.Parameter[B] {
	return c.fc.Parameters()
}

// SEResNet is a fully assembled squeeze-excite residual network.
type SEResNet[B tensor.Backend] struct {
	cfg Config

	stem       *Stem[B]
	stages     []*nn.Sequential[B]
	classifier *Classifier[B]
}

// New assembles an SE-ResNet from a configuration.
//
// Each stage opens with a projection block (stride 1 for the first stage,
// which follows the stem's pooling, stride 2 afterwards) and continues
// with identity bottleneck blocks.
func New[B tensor.Backend](cfg Config, backend B) *SEResNet[B] {
	cfg.validate()

	stages := make([]*nn.Sequential[B], 0, len(cfg.Stages))
	inChannels := stemChannels
	for i, st := range cfg.Stages {
		stride := 2
		if i == 0 {
			stride = 1
		}

		stage := nn.NewSequential[B](
			NewProjectionBlock(inChannels, st.Filters, stride, cfg.Ratio, backend),
		)
		for j := 1; j < st.Blocks; j++ {
			stage.Add(NewBottleneckBlock(st.Filters, cfg.Ratio, backend))
		}

		stages = append(stages, stage)
		inChannels = 4 * st.Filters
	}

	return &SEResNet[B]{
		cfg:        cfg,
		stem:       NewStem(backend),
		stages:     stages,
		classifier: NewClassifier(inChannels, cfg.Classes, backend),
	}
}

// Forward performs the forward pass.
//
// Input: [batch, height, width, 3]
// Output: [batch, classes], softmax-normalized.
func (m *SEResNet[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	shape := input.Shape()
	if len(shape) != 4 || shape[3] != 3 {
		panic(fmt.Sprintf("senet: expected input [N,H,W,3], got shape %v", shape))
	}

	x := m.stem.Forward(input)
	for _, stage := range m.stages {
		x = stage.Forward(x)
	}
	return m.classifier.Forward(x)
}

// Parameters returns all model parameters.
func (m *SEResNet[B]) Parameters() []*nn.Parameter[B] {
	params := m.stem.Parameters()
	for _, stage := range m.stages {
		params = append(params, stage.Parameters()...)
	}
	return append(params, m.classifier.Parameters()...)
}

// Config returns the configuration the model was assembled from.
func (m *SEResNet[B]) Config() Config {
	return m.cfg
}

// NumStages returns the stage count.
func (m *SEResNet[B]) NumStages() int {
	return len(m.stages)
}

// Stage returns the i-th stage container.
func (m *SEResNet[B]) Stage(i int) *nn.Sequential[B] {
	return m.stages[i]
}

// String returns a summary of the architecture.
func (m *SEResNet[B]) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "SEResNet(ratio=%d, classes=%d\n", m.cfg.Ratio, m.cfg.Classes)
	b.WriteString("  Stem(Conv2D 7x7/2 -> BatchNorm -> ReLU -> MaxPool 3x3/2)\n")
	for i, st := range m.cfg.Stages {
		fmt.Fprintf(&b, "  Stage %d: filters=%d, blocks=%d (1 projection + %d bottleneck)\n",
			i+1, st.Filters, st.Blocks, st.Blocks-1)
	}
	b.WriteString("  Classifier(GlobalAvgPool -> Linear -> Softmax)\n)")
	return b.String()
}
