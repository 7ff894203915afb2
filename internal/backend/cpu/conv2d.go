package cpu

import (
	"fmt"

	"github.com/gozoo-ml/gozoo/internal/tensor"
)

// Conv2D performs 2D convolution using the im2col algorithm.
//
// Input shape:  [batch, height, width, in_channels]
// Kernel shape: [kernel_h, kernel_w, in_channels, out_channels]
// Output shape: [batch, out_h, out_w, out_channels]
//
// Where:
//
//	out_h = (height + 2*padding - kernel_h) / stride + 1
//	out_w = (width + 2*padding - kernel_w) / stride + 1
//
// Algorithm: im2col unrolls input patches into the rows of a matrix, so the
// whole convolution becomes one GEMM against the flattened kernel. With the
// channel-last layout no transposes are needed: the unrolled patch row order
// [kernel_h, kernel_w, in_channels] matches the kernel's leading dimensions,
// and the GEMM result is already the output in [batch, out_h, out_w,
// out_channels] order.
//
// Reference: "High Performance Convolutional Neural Networks for Document
// Processing" (Chellapilla et al., 2006).
func (cpu *CPUBackend) Conv2D(input, kernel *tensor.RawTensor, stride, padding int) *tensor.RawTensor {
	inputShape := input.Shape()
	kernelShape := kernel.Shape()

	if len(inputShape) != 4 {
		panic(fmt.Sprintf("conv2d: input must be 4D [N,H,W,C], got %dD", len(inputShape)))
	}
	if len(kernelShape) != 4 {
		panic(fmt.Sprintf("conv2d: kernel must be 4D [K_h,K_w,C_in,C_out], got %dD", len(kernelShape)))
	}
	if stride <= 0 {
		panic(fmt.Sprintf("conv2d: invalid stride %d", stride))
	}
	if padding < 0 {
		panic(fmt.Sprintf("conv2d: invalid padding %d", padding))
	}

	n := inputShape[0]
	h := inputShape[1]
	w := inputShape[2]
	cIn := inputShape[3]
	kh := kernelShape[0]
	kw := kernelShape[1]
	cInK := kernelShape[2]
	cOut := kernelShape[3]

	if cIn != cInK {
		panic(fmt.Sprintf("conv2d: input channels %d != kernel channels %d", cIn, cInK))
	}

	hOut := (h+2*padding-kh)/stride + 1
	wOut := (w+2*padding-kw)/stride + 1
	if hOut <= 0 || wOut <= 0 {
		panic(fmt.Sprintf("conv2d: invalid output dimensions: out_h=%d, out_w=%d (check stride/padding)", hOut, wOut))
	}

	output, err := tensor.NewRaw(tensor.Shape{n, hOut, wOut, cOut})
	if err != nil {
		panic(fmt.Sprintf("conv2d: failed to create output tensor: %v", err))
	}

	// colBuf: [N * out_h * out_w, K_h * K_w * C_in]
	colWidth := kh * kw * cIn
	colBuf := make([]float32, n*hOut*wOut*colWidth)
	im2col(colBuf, input.Data(), n, h, w, cIn, kh, kw, hOut, wOut, stride, padding)

	// [N*out_h*out_w, K_h*K_w*C_in] @ [K_h*K_w*C_in, C_out]
	gemm(output.Data(), colBuf, kernel.Data(), n*hOut*wOut, colWidth, cOut)
	return output
}

// im2col unrolls convolution patches of a channel-last input into matrix
// rows. Out-of-bounds (padding) positions stay zero.
func im2col(col, in []float32, n, h, w, c, kh, kw, hOut, wOut, stride, padding int) {
	pos := 0
	for b := 0; b < n; b++ {
		base := b * h * w * c
		for oy := 0; oy < hOut; oy++ {
			for ox := 0; ox < wOut; ox++ {
				for ky := 0; ky < kh; ky++ {
					iy := oy*stride + ky - padding
					for kx := 0; kx < kw; kx++ {
						ix := ox*stride + kx - padding
						if iy >= 0 && iy < h && ix >= 0 && ix < w {
							src := base + (iy*w+ix)*c
							copy(col[pos:pos+c], in[src:src+c])
						}
						pos += c
					}
				}
			}
		}
	}
}

// DepthwiseConv2D convolves each input channel with its own single filter.
//
// Input shape:  [batch, height, width, channels]
// Kernel shape: [kernel_h, kernel_w, channels]
// Output shape: [batch, out_h, out_w, channels]
//
// The channel count is unchanged (depth multiplier 1).
func (cpu *CPUBackend) DepthwiseConv2D(input, kernel *tensor.RawTensor, stride, padding int) *tensor.RawTensor {
	inputShape := input.Shape()
	kernelShape := kernel.Shape()

	if len(inputShape) != 4 {
		panic(fmt.Sprintf("depthwise conv2d: input must be 4D [N,H,W,C], got %dD", len(inputShape)))
	}
	if len(kernelShape) != 3 {
		panic(fmt.Sprintf("depthwise conv2d: kernel must be 3D [K_h,K_w,C], got %dD", len(kernelShape)))
	}
	if stride <= 0 {
		panic(fmt.Sprintf("depthwise conv2d: invalid stride %d", stride))
	}

	n := inputShape[0]
	h := inputShape[1]
	w := inputShape[2]
	c := inputShape[3]
	kh := kernelShape[0]
	kw := kernelShape[1]

	if kernelShape[2] != c {
		panic(fmt.Sprintf("depthwise conv2d: input channels %d != kernel channels %d", c, kernelShape[2]))
	}

	hOut := (h+2*padding-kh)/stride + 1
	wOut := (w+2*padding-kw)/stride + 1
	if hOut <= 0 || wOut <= 0 {
		panic(fmt.Sprintf("depthwise conv2d: invalid output dimensions: out_h=%d, out_w=%d", hOut, wOut))
	}

	output, err := tensor.NewRaw(tensor.Shape{n, hOut, wOut, c})
	if err != nil {
		panic(fmt.Sprintf("depthwise conv2d: failed to create output tensor: %v", err))
	}

	in := input.Data()
	k := kernel.Data()
	out := output.Data()

	pos := 0
	for b := 0; b < n; b++ {
		base := b * h * w * c
		for oy := 0; oy < hOut; oy++ {
			for ox := 0; ox < wOut; ox++ {
				for ch := 0; ch < c; ch++ {
					sum := float32(0)
					for ky := 0; ky < kh; ky++ {
						iy := oy*stride + ky - padding
						if iy < 0 || iy >= h {
							continue
						}
						for kx := 0; kx < kw; kx++ {
							ix := ox*stride + kx - padding
							if ix < 0 || ix >= w {
								continue
							}
							sum += in[base+(iy*w+ix)*c+ch] * k[(ky*kw+kx)*c+ch]
						}
					}
					out[pos] = sum
					pos++
				}
			}
		}
	}
	return output
}
