package cpu

import (
	"fmt"
	"math"

	"github.com/gozoo-ml/gozoo/internal/tensor"
)

// ReLU applies f(x) = max(0, x) element-wise.
func (cpu *CPUBackend) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	result := x.Clone()
	data := result.Data()
	for i, v := range data {
		if v < 0 {
			data[i] = 0
		}
	}
	return result
}

// Sigmoid applies f(x) = 1 / (1 + exp(-x)) element-wise.
func (cpu *CPUBackend) Sigmoid(x *tensor.RawTensor) *tensor.RawTensor {
	result := x.Clone()
	data := result.Data()
	for i, v := range data {
		data[i] = float32(1 / (1 + math.Exp(-float64(v))))
	}
	return result
}

// Softmax applies softmax along the given dimension. Only the last dimension
// is supported; that is the only axis the classifier heads normalize over.
// Each slice is shifted by its maximum before exponentiation for numerical
// stability.
func (cpu *CPUBackend) Softmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	if dim < 0 {
		dim += len(shape)
	}
	if dim != len(shape)-1 {
		panic(fmt.Sprintf("softmax: only the last dimension is supported, got dim=%d for shape %v", dim, shape))
	}

	result := x.Clone()
	data := result.Data()
	width := shape[len(shape)-1]

	for start := 0; start < len(data); start += width {
		row := data[start : start+width]

		maxVal := row[0]
		for _, v := range row[1:] {
			if v > maxVal {
				maxVal = v
			}
		}

		sum := 0.0
		for i, v := range row {
			e := math.Exp(float64(v - maxVal))
			row[i] = float32(e)
			sum += e
		}
		for i := range row {
			row[i] = float32(float64(row[i]) / sum)
		}
	}
	return result
}

// BatchNorm applies per-channel normalization with fixed statistics to a
// channel-last feature map:
//
//	y = gamma * (x - mean) / sqrt(variance + eps) + beta
//
// x is [N,H,W,C]; gamma, beta, mean and variance are [C].
func (cpu *CPUBackend) BatchNorm(x, gamma, beta, mean, variance *tensor.RawTensor, eps float32) *tensor.RawTensor {
	shape := x.Shape()
	if len(shape) != 4 {
		panic(fmt.Sprintf("batchnorm: input must be 4D [N,H,W,C], got %dD", len(shape)))
	}

	c := shape[3]
	for _, param := range []*tensor.RawTensor{gamma, beta, mean, variance} {
		if !param.Shape().Equal(tensor.Shape{c}) {
			panic(fmt.Sprintf("batchnorm: parameter shape %v does not match %d channels", param.Shape(), c))
		}
	}

	// Fold the statistics into one scale and shift per channel.
	scale := make([]float32, c)
	shift := make([]float32, c)
	g := gamma.Data()
	bt := beta.Data()
	mu := mean.Data()
	va := variance.Data()
	for ch := 0; ch < c; ch++ {
		scale[ch] = g[ch] / float32(math.Sqrt(float64(va[ch]+eps)))
		shift[ch] = bt[ch] - mu[ch]*scale[ch]
	}

	result := x.Clone()
	data := result.Data()
	for i := range data {
		ch := i % c
		data[i] = data[i]*scale[ch] + shift[ch]
	}
	return result
}
