// Package shufflenet assembles channel-shuffle grouped-convolution
// networks.
//
// The architecture follows ShuffleNet v1 (Zhang et al.): pointwise
// convolutions are split into channel groups to cut compute, and a channel
// shuffle between them lets information cross group boundaries.
// Paper: https://arxiv.org/pdf/1707.01083.pdf
package shufflenet

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gozoo-ml/gozoo/nn"
	"github.com/gozoo-ml/gozoo/tensor"
)

// stemChannels is the channel count produced by the stem convolution.
// It is shared by every group-count variant.
const stemChannels = 24

// DefaultReduction is the bottleneck reduction used inside every shuffle
// block's first pointwise convolution.
const DefaultReduction = 0.25

// stageFiltersByGroups maps a group-count variant to its per-stage output
// channel targets. The widths come from the paper's complexity table: more
// groups afford wider stages at equal cost.
var stageFiltersByGroups = map[int][3]int{
	1: {144, 288, 576},
	2: {200, 400, 800},
	3: {240, 480, 960},
	4: {272, 544, 1088},
	8: {384, 768, 1536},
}

// Config parameterizes a ShuffleNet variant. Configs are plain values;
// stock variants come from ByGroups.
type Config struct {
	// Groups is the group count used by every grouped pointwise
	// convolution in the network.
	Groups int
	// Reduction scales the width of each block's internal bottleneck.
	Reduction float64
	// BlocksPerStage lists the block count of each stage; entry i pairs
	// with StageFilters[i].
	BlocksPerStage []int
	// StageFilters lists the target output channels of each stage.
	StageFilters []int
	Classes      int
}

// ByGroups returns the standard ImageNet configuration for a group-count
// variant. Supported variants are 1, 2, 3, 4 and 8 groups.
func ByGroups(groups int) Config {
	filters, ok := stageFiltersByGroups[groups]
	if !ok {
		variants := make([]int, 0, len(stageFiltersByGroups))
		for g := range stageFiltersByGroups {
			variants = append(variants, g)
		}
		sort.Ints(variants)
		panic(fmt.Sprintf("shufflenet: no configuration for %d groups (supported: %v)", groups, variants))
	}

	return Config{
		Groups:         groups,
		Reduction:      DefaultReduction,
		BlocksPerStage: []int{4, 8, 4},
		StageFilters:   filters[:],
		Classes:        1000,
	}
}

// validate panics on configurations no stage assembler could honor.
func (c Config) validate() {
	if c.Groups <= 0 {
		panic(fmt.Sprintf("shufflenet: invalid group count %d", c.Groups))
	}
	if c.Reduction <= 0 || c.Reduction > 1 {
		panic(fmt.Sprintf("shufflenet: invalid reduction %g", c.Reduction))
	}
	if len(c.BlocksPerStage) == 0 {
		panic("shufflenet: config has no stages")
	}
	if len(c.BlocksPerStage) != len(c.StageFilters) {
		panic(fmt.Sprintf("shufflenet: %d stage block counts but %d stage filters",
			len(c.BlocksPerStage), len(c.StageFilters)))
	}
	for i := range c.BlocksPerStage {
		if c.BlocksPerStage[i] <= 0 || c.StageFilters[i] <= 0 {
			panic(fmt.Sprintf("shufflenet: invalid stage %d: blocks=%d filters=%d",
				i, c.BlocksPerStage[i], c.StageFilters[i]))
		}
	}
	if c.Classes <= 0 {
		panic(fmt.Sprintf("shufflenet: invalid class count %d", c.Classes))
	}
}

// ChannelShuffle interleaves the channels of a grouped feature map so the
// next grouped convolution sees channels from every group.
//
// With G groups and C channels the map is viewed as [N,H,W,G,C/G], the
// last two axes are transposed, and the result is flattened back to
// [N,H,W,C]. Output channel g*(C/G)+k therefore receives input channel
// k*G+g. The shuffle is parameter-free and shape-preserving.
type ChannelShuffle[B tensor.Backend] struct {
	groups int
}

// NewChannelShuffle creates a channel shuffle over the given group count.
func NewChannelShuffle[B tensor.Backend](groups int) *ChannelShuffle[B] {
	if groups <= 0 {
		panic(fmt.Sprintf("channel shuffle: invalid group count %d", groups))
	}
	return &ChannelShuffle[B]{groups: groups}
}

// Forward performs the shuffle. The channel count must be divisible by the
// group count.
func (c *ChannelShuffle[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	shape := input.Shape()
	if len(shape) != 4 {
		panic(fmt.Sprintf("channel shuffle: expected 4D input [N,H,W,C], got %dD", len(shape)))
	}

	n, h, w, channels := shape[0], shape[1], shape[2], shape[3]
	if channels%c.groups != 0 {
		panic(fmt.Sprintf("channel shuffle: channels %d not divisible by %d groups", channels, c.groups))
	}

	perGroup := channels / c.groups
	return input.
		Reshape(n, h, w, c.groups, perGroup).
		Transpose(0, 1, 2, 4, 3).
		Reshape(n, h, w, channels)
}

// Parameters returns an empty slice (the shuffle has no parameters).
func (c *ChannelShuffle[B]) Parameters() []*nn.Parameter[B] {
	return nil
}

// Groups returns the group count.
func (c *ChannelShuffle[B]) Groups() int {
	return c.groups
}

// String returns a string representation of the layer.
func (c *ChannelShuffle[B]) String() string {
	return fmt.Sprintf("ChannelShuffle(groups=%d)", c.groups)
}

// GroupedPointwiseConv is a 1x1 convolution computed independently per
// channel group: the input is sliced into G equal channel ranges, each
// range gets its own 1x1 convolution, and the group outputs are
// concatenated and batch-normalized.
//
// Each group produces round(filters/groups) channels, so the actual output
// width is groups*round(filters/groups), which can differ slightly from
// the requested filter count when groups does not divide it. Callers must
// chain OutChannels rather than assume the request was met exactly.
type GroupedPointwiseConv[B tensor.Backend] struct {
	groups      int
	inChannels  int
	outChannels int
	perGroupIn  int

	convs []*nn.Conv2D[B]
	bn    *nn.BatchNorm2D[B]
}

// NewGroupedPointwiseConv creates a grouped pointwise convolution mapping
// inChannels to roughly filters channels. inChannels must be divisible by
// groups.
func NewGroupedPointwiseConv[B tensor.Backend](inChannels, filters, groups int, backend B) *GroupedPointwiseConv[B] {
	if groups <= 0 {
		panic(fmt.Sprintf("grouped pointwise conv: invalid group count %d", groups))
	}
	if inChannels%groups != 0 {
		panic(fmt.Sprintf("grouped pointwise conv: input channels %d not divisible by %d groups", inChannels, groups))
	}

	perGroupIn := inChannels / groups
	perGroupOut := int(float64(filters)/float64(groups) + 0.5)
	if perGroupOut <= 0 {
		panic(fmt.Sprintf("grouped pointwise conv: %d filters across %d groups leaves empty groups", filters, groups))
	}

	convs := make([]*nn.Conv2D[B], groups)
	for g := range convs {
		convs[g] = nn.NewConv2D(perGroupIn, perGroupOut, 1, 1, 1, 0, false, backend)
	}

	outChannels := groups * perGroupOut
	return &GroupedPointwiseConv[B]{
		groups:      groups,
		inChannels:  inChannels,
		outChannels: outChannels,
		perGroupIn:  perGroupIn,
		convs:       convs,
		bn:          nn.NewBatchNorm2D(outChannels, backend),
	}
}

// Forward performs the forward pass.
//
// Input: [batch, height, width, inChannels]
// Output: [batch, height, width, OutChannels()].
func (g *GroupedPointwiseConv[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	shape := input.Shape()
	if len(shape) != 4 {
		panic(fmt.Sprintf("grouped pointwise conv: expected 4D input [N,H,W,C], got %dD", len(shape)))
	}
	if shape[3] != g.inChannels {
		panic(fmt.Sprintf("grouped pointwise conv: input channels %d != expected %d", shape[3], g.inChannels))
	}

	outputs := make([]*tensor.Tensor[B], g.groups)
	for i, conv := range g.convs {
		slice := input.Narrow(3, i*g.perGroupIn, g.perGroupIn)
		outputs[i] = conv.Forward(slice)
	}

	return g.bn.Forward(tensor.Cat(outputs, 3))
}

// Parameters returns the layer's parameters.
func (g *GroupedPointwiseConv[B]) Parameters() []*nn.Parameter[B] {
	var params []*nn.Parameter[B]
	for _, conv := range g.convs {
		params = append(params, conv.Parameters()...)
	}
	return append(params, g.bn.Parameters()...)
}

// OutChannels returns the actual output channel count,
// groups*round(filters/groups).
func (g *GroupedPointwiseConv[B]) OutChannels() int {
	return g.outChannels
}

// Groups returns the group count.
func (g *GroupedPointwiseConv[B]) Groups() int {
	return g.groups
}

// String returns a string representation of the layer.
func (g *GroupedPointwiseConv[B]) String() string {
	return fmt.Sprintf("GroupedPointwiseConv(in_channels=%d, out_channels=%d, groups=%d)",
		g.inChannels, g.outChannels, g.groups)
}

// StridedShuffleBlock is the shape-changing shuffle unit that opens each
// stage. The shortcut is a 3x3/2 average pool of the input; the main
// branch is grouped pointwise reduce -> ReLU -> channel shuffle -> 3x3/2
// depthwise + BN -> grouped pointwise restore. Shortcut and main branch
// are concatenated along channels (shortcut first) and pass through a
// final ReLU.
//
// The main branch restores to filters-inChannels channels so the
// concatenated output lands near the stage's target width.
type StridedShuffleBlock[B tensor.Backend] struct {
	inChannels  int
	outChannels int

	shortcut *nn.AvgPool2D[B]
	reduce   *GroupedPointwiseConv[B]
	relu     *nn.ReLU[B]
	shuffle  *ChannelShuffle[B]
	spatial  *nn.DepthwiseConv2D[B]
	bn       *nn.BatchNorm2D[B]
	restore  *GroupedPointwiseConv[B]
}

// NewStridedShuffleBlock creates a strided shuffle block mapping
// inChannels to roughly filters channels while halving the spatial
// resolution. filters must exceed inChannels so the main branch keeps a
// positive width.
func NewStridedShuffleBlock[B tensor.Backend](inChannels, filters, groups int, reduction float64, backend B) *StridedShuffleBlock[B] {
	if filters <= inChannels {
		panic(fmt.Sprintf("strided shuffle block: filters %d must exceed input channels %d (concat shortcut)", filters, inChannels))
	}

	mainFilters := filters - inChannels
	reduce := NewGroupedPointwiseConv(inChannels, int(reduction*float64(mainFilters)), groups, backend)
	bottleneck := reduce.OutChannels()
	restore := NewGroupedPointwiseConv(bottleneck, mainFilters, groups, backend)

	return &StridedShuffleBlock[B]{
		inChannels:  inChannels,
		outChannels: inChannels + restore.OutChannels(),
		shortcut:    nn.NewAvgPool2D(3, 2, 1, backend),
		reduce:      reduce,
		relu:        nn.NewReLU[B](),
		shuffle:     NewChannelShuffle[B](groups),
		spatial:     nn.NewDepthwiseConv2D(bottleneck, 3, 3, 2, 1, backend),
		bn:          nn.NewBatchNorm2D(bottleneck, backend),
		restore:     restore,
	}
}

// Forward performs the forward pass.
//
// Input: [batch, height, width, inChannels]
// Output: [batch, height/2, width/2, OutChannels()].
func (s *StridedShuffleBlock[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	shape := input.Shape()
	if len(shape) != 4 {
		panic(fmt.Sprintf("strided shuffle block: expected 4D input [N,H,W,C], got %dD", len(shape)))
	}
	if shape[3] != s.inChannels {
		panic(fmt.Sprintf("strided shuffle block: input channels %d != expected %d", shape[3], s.inChannels))
	}

	shortcut := s.shortcut.Forward(input)

	x := s.relu.Forward(s.reduce.Forward(input))
	x = s.shuffle.Forward(x)
	x = s.bn.Forward(s.spatial.Forward(x))
	x = s.restore.Forward(x)

	// Shortcut channels come first in the concatenation.
	out := tensor.Cat([]*tensor.Tensor[B]{shortcut, x}, 3)
	return s.relu.Forward(out)
}

// Parameters returns the block's parameters.
func (s *StridedShuffleBlock[B]) Parameters() []*nn.Parameter[B] {
	var params []*nn.Parameter[B]
	params = append(params, s.reduce.Parameters()...)
	params = append(params, s.spatial.Parameters()...)
	params = append(params, s.bn.Parameters()...)
	params = append(params, s.restore.Parameters()...)
	return params
}

// OutChannels returns the block's output channel count.
func (s *StridedShuffleBlock[B]) OutChannels() int {
	return s.outChannels
}

// ShuffleBlock is the identity shuffle unit filling out a stage: grouped
// pointwise reduce -> ReLU -> channel shuffle -> 3x3/1 depthwise + BN ->
// grouped pointwise restore, added back to the input with a final ReLU.
// Resolution and channel count are unchanged.
type ShuffleBlock[B tensor.Backend] struct {
	channels int

	reduce  *GroupedPointwiseConv[B]
	relu    *nn.ReLU[B]
	shuffle *ChannelShuffle[B]
	spatial *nn.DepthwiseConv2D[B]
	bn      *nn.BatchNorm2D[B]
	restore *GroupedPointwiseConv[B]
}

// NewShuffleBlock creates an identity shuffle block over the given channel
// count. The restore convolution must land exactly on channels for the
// residual addition, which requires groups to divide channels.
func NewShuffleBlock[B tensor.Backend](channels, groups int, reduction float64, backend B) *ShuffleBlock[B] {
	reduce := NewGroupedPointwiseConv(channels, int(reduction*float64(channels)), groups, backend)
	bottleneck := reduce.OutChannels()
	restore := NewGroupedPointwiseConv(bottleneck, channels, groups, backend)
	if restore.OutChannels() != channels {
		panic(fmt.Sprintf("shuffle block: restore produces %d channels, identity shortcut needs %d (groups %d must divide channels)",
			restore.OutChannels(), channels, groups))
	}

	return &ShuffleBlock[B]{
		channels: channels,
		reduce:   reduce,
		relu:     nn.NewReLU[B](),
		shuffle:  NewChannelShuffle[B](groups),
		spatial:  nn.NewDepthwiseConv2D(bottleneck, 3, 3, 1, 1, backend),
		bn:       nn.NewBatchNorm2D(bottleneck, backend),
		restore:  restore,
	}
}

// Forward performs the forward pass. Output shape equals input shape.
func (s *ShuffleBlock[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	shape := input.Shape()
	if len(shape) != 4 {
		panic(fmt.Sprintf("shuffle block: expected 4D input [N,H,W,C], got %dD", len(shape)))
	}
	if shape[3] != s.channels {
		panic(fmt.Sprintf("shuffle block: input channels %d != expected %d", shape[3], s.channels))
	}

	shortcut := input

	x := s.relu.Forward(s.reduce.Forward(input))
	x = s.shuffle.Forward(x)
	x = s.bn.Forward(s.spatial.Forward(x))
	x = s.restore.Forward(x)

	return s.relu.Forward(shortcut.Add(x))
}

// Parameters returns the block's parameters.
func (s *ShuffleBlock[B]) Parameters() []*nn.Parameter[B] {
	var params []*nn.Parameter[B]
	params = append(params, s.reduce.Parameters()...)
	params = append(params, s.spatial.Parameters()...)
	params = append(params, s.bn.Parameters()...)
	params = append(params, s.restore.Parameters()...)
	return params
}

// OutChannels returns the block's output channel count.
func (s *ShuffleBlock[B]) OutChannels() int {
	return s.channels
}

// Stem is the fixed entry subgraph: 3x3/2 convolution + BN + ReLU, then
// 3x3/2 max pooling, reducing 224x224x3 to 56x56x24.
type Stem[B tensor.Backend] struct {
	conv *nn.Conv2D[B]
	bn   *nn.BatchNorm2D[B]
	relu *nn.ReLU[B]
	pool *nn.MaxPool2D[B]
}

// NewStem creates the stem group.
func NewStem[B tensor.Backend](backend B) *Stem[B] {
	return &Stem[B]{
		conv: nn.NewConv2D(3, stemChannels, 3, 3, 2, 1, false, backend),
		bn:   nn.NewBatchNorm2D(stemChannels, backend),
		relu: nn.NewReLU[B](),
		pool: nn.NewMaxPool2D(3, 2, 1, backend),
	}
}

// Forward performs the forward pass.
func (s *Stem[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	x := s.relu.Forward(s.bn.Forward(s.conv.Forward(input)))
	return s.pool.Forward(x)
}

// Parameters returns the stem's parameters.
func (s *Stem[B]) Parameters() []*nn.Parameter[B] {
	return append(s.conv.Parameters(), s.bn.Parameters()...)
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

// ShuffleNet is a fully assembled channel-shuffle network.
type ShuffleNet[B tensor.Backend] struct {
	cfg Config

	stem       *Stem[B]
	stages     []*nn.Sequential[B]
	classifier *Classifier[B]
}

// New assembles a ShuffleNet from a configuration.
//
// Each stage opens with a strided shuffle block and continues with
// identity shuffle blocks. Stage widths chain through the blocks' actual
// output channels, so the per-group rounding inside the grouped
// convolutions stays consistent end to end.
func New[B tensor.Backend](cfg Config, backend B) *ShuffleNet[B] {
	cfg.validate()

	stages := make([]*nn.Sequential[B], 0, len(cfg.BlocksPerStage))
	inChannels := stemChannels
	for i, blocks := range cfg.BlocksPerStage {
		strided := NewStridedShuffleBlock(inChannels, cfg.StageFilters[i], cfg.Groups, cfg.Reduction, backend)
		inChannels = strided.OutChannels()

		stage := nn.NewSequential[B](strided)
		for j := 1; j < blocks; j++ {
			stage.Add(NewShuffleBlock(inChannels, cfg.Groups, cfg.Reduction, backend))
		}
		stages = append(stages, stage)
	}

	return &ShuffleNet[B]{
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
func (m *ShuffleNet[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	shape := input.Shape()
	if len(shape) != 4 || shape[3] != 3 {
		panic(fmt.Sprintf("shufflenet: expected input [N,H,W,3], got shape %v", shape))
	}

	x := m.stem.Forward(input)
	for _, stage := range m.stages {
		x = stage.Forward(x)
	}
	return m.classifier.Forward(x)
}

// Parameters returns all model parameters.
func (m *ShuffleNet[B]) Parameters() []*nn.Parameter[B] {
	params := m.stem.Parameters()
	for _, stage := range m.stages {
		params = append(params, stage.Parameters()...)
	}
	return append(params, m.classifier.Parameters()...)
}

// Config returns the configuration the model was assembled from.
func (m *ShuffleNet[B]) Config() Config {
	return m.cfg
}

// NumStages returns the stage count.
func (m *ShuffleNet[B]) NumStages() int {
	return len(m.stages)
}

// Stage returns the i-th stage container.
func (m *ShuffleNet[B]) Stage(i int) *nn.Sequential[B] {
	return m.stages[i]
}

// OutChannels returns the channel count entering the classifier.
func (m *ShuffleNet[B]) OutChannels() int {
	return m.classifier.fc.InFeatures()
}

// String returns a summary of the architecture.
func (m *ShuffleNet[B]) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "ShuffleNet(groups=%d, reduction=%g, classes=%d\n", m.cfg.Groups, m.cfg.Reduction, m.cfg.Classes)
	b.WriteString("  Stem(Conv2D 3x3/2 -> BatchNorm -> ReLU -> MaxPool 3x3/2)\n")
	for i, blocks := range m.cfg.BlocksPerStage {
		fmt.Fprintf(&b, "  Stage %d: filters=%d, blocks=%d (1 strided + %d identity)\n",
			i+1, m.cfg.StageFilters[i], blocks, blocks-1)
	}
	b.WriteString("  Classifier(GlobalAvgPool -> Linear -> Softmax)\n)")
	return b.String()
}
