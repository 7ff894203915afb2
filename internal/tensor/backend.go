package tensor

// Backend defines the interface that all compute backends must implement.
// Backends handle the actual computation for tensor operations.
//
// Feature maps are channel-last: [batch, height, width, channels].
// Convolution kernels are [kernelH, kernelW, inChannels, outChannels];
// depthwise kernels are [kernelH, kernelW, channels].
type Backend interface {
	// Element-wise binary operations with broadcasting
	Add(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor

	// Matrix operations
	MatMul(a, b *RawTensor) *RawTensor

	// Convolutional operations (symmetric zero padding)
	Conv2D(input, kernel *RawTensor, stride, padding int) *RawTensor
	DepthwiseConv2D(input, kernel *RawTensor, stride, padding int) *RawTensor

	// Pooling operations. AvgPool2D averages over the valid (non-padded)
	// window cells only. GlobalAvgPool2D reduces [N,H,W,C] to [N,C].
	MaxPool2D(x *RawTensor, kernelSize, stride, padding int) *RawTensor
	AvgPool2D(x *RawTensor, kernelSize, stride, padding int) *RawTensor
	GlobalAvgPool2D(x *RawTensor) *RawTensor

	// BatchNorm applies per-channel affine normalization to [N,H,W,C]
	// using fixed statistics: gamma*(x-mean)/sqrt(variance+eps)+beta.
	// gamma, beta, mean and variance all have shape [C].
	BatchNorm(x, gamma, beta, mean, variance *RawTensor, eps float32) *RawTensor

	// Activation functions
	ReLU(x *RawTensor) *RawTensor
	Sigmoid(x *RawTensor) *RawTensor
	Softmax(x *RawTensor, dim int) *RawTensor

	// Shape operations
	Reshape(x *RawTensor, newShape Shape) *RawTensor
	Transpose(x *RawTensor, axes ...int) *RawTensor

	// Manipulation operations
	Cat(tensors []*RawTensor, dim int) *RawTensor
	Narrow(x *RawTensor, dim, start, length int) *RawTensor

	// Metadata
	Name() string
}
