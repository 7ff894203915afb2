package cpu

import (
	"fmt"
	"math"

	"github.com/gozoo-ml/gozoo/internal/tensor"
)

// MaxPool2D takes the maximum over each pooling window.
//
// Input shape:  [batch, height, width, channels]
// Output shape: [batch, out_h, out_w, channels]
//
// Padded positions never contribute to the maximum.
func (cpu *CPUBackend) MaxPool2D(x *tensor.RawTensor, kernelSize, stride, padding int) *tensor.RawTensor {
	return pool2d("maxpool2d", x, kernelSize, stride, padding, func(window []float32) float32 {
		best := float32(math.Inf(-1))
		for _, v := range window {
			if v > best {
				best = v
			}
		}
		return best
	})
}

// AvgPool2D averages each pooling window, counting only the valid
// (non-padded) cells.
func (cpu *CPUBackend) AvgPool2D(x *tensor.RawTensor, kernelSize, stride, padding int) *tensor.RawTensor {
	return pool2d("avgpool2d", x, kernelSize, stride, padding, func(window []float32) float32 {
		sum := float32(0)
		for _, v := range window {
			sum += v
		}
		return sum / float32(len(window))
	})
}

// pool2d applies reduce to the valid cells of every pooling window.
func pool2d(op string, x *tensor.RawTensor, kernelSize, stride, padding int, reduce func([]float32) float32) *tensor.RawTensor {
	shape := x.Shape()
	if len(shape) != 4 {
		panic(fmt.Sprintf("%s: input must be 4D [N,H,W,C], got %dD", op, len(shape)))
	}
	if kernelSize <= 0 || stride <= 0 || padding < 0 {
		panic(fmt.Sprintf("%s: invalid kernel=%d stride=%d padding=%d", op, kernelSize, stride, padding))
	}

	n, h, w, c := shape[0], shape[1], shape[2], shape[3]
	hOut := (h+2*padding-kernelSize)/stride + 1
	wOut := (w+2*padding-kernelSize)/stride + 1
	if hOut <= 0 || wOut <= 0 {
		panic(fmt.Sprintf("%s: invalid output dimensions: out_h=%d, out_w=%d", op, hOut, wOut))
	}

	output, err := tensor.NewRaw(tensor.Shape{n, hOut, wOut, c})
	if err != nil {
		panic(fmt.Sprintf("%s: failed to create output tensor: %v", op, err))
	}

	in := x.Data()
	out := output.Data()
	window := make([]float32, 0, kernelSize*kernelSize)

	pos := 0
	for b := 0; b < n; b++ {
		base := b * h * w * c
		for oy := 0; oy < hOut; oy++ {
			for ox := 0; ox < wOut; ox++ {
				for ch := 0; ch < c; ch++ {
					window = window[:0]
					for ky := 0; ky < kernelSize; ky++ {
						iy := oy*stride + ky - padding
						if iy < 0 || iy >= h {
							continue
						}
						for kx := 0; kx < kernelSize; kx++ {
							ix := ox*stride + kx - padding
							if ix < 0 || ix >= w {
								continue
							}
							window = append(window, in[base+(iy*w+ix)*c+ch])
						}
					}
					if len(window) == 0 {
						panic(fmt.Sprintf("%s: window at (%d,%d) contains no valid cells", op, oy, ox))
					}
					out[pos] = reduce(window)
					pos++
				}
			}
		}
	}
	return output
}

// GlobalAvgPool2D averages the spatial dimensions away: [N,H,W,C] -> [N,C].
func (cpu *CPUBackend) GlobalAvgPool2D(x *tensor.RawTensor) *tensor.RawTensor {
	shape := x.Shape()
	if len(shape) != 4 {
		panic(fmt.Sprintf("global avgpool2d: input must be 4D [N,H,W,C], got %dD", len(shape)))
	}

	n, h, w, c := shape[0], shape[1], shape[2], shape[3]
	output, err := tensor.NewRaw(tensor.Shape{n, c})
	if err != nil {
		panic(fmt.Sprintf("global avgpool2d: failed to create output tensor: %v", err))
	}

	in := x.Data()
	out := output.Data()
	area := float32(h * w)

	for b := 0; b < n; b++ {
		base := b * h * w * c
		for i := 0; i < h*w; i++ {
			for ch := 0; ch < c; ch++ {
				out[b*c+ch] += in[base+i*c+ch]
			}
		}
		for ch := 0; ch < c; ch++ {
			out[b*c+ch] /= area
		}
	}
	return output
}
