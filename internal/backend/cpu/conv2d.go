package cpu

import (
	"fmt"

	"github.com/drift-ml/drift/internal/parallel"
	"github.com/drift-ml/drift/internal/tensor"
)

// Conv2D performs 2D convolution over NCHW input.
//
// Input shape:  [N, C_in, H, W]
// Kernel shape: [C_out, C_in, K_h, K_w]
// Output shape: [N, C_out, H_out, W_out] where
// H_out = (H + 2*padding - K_h)/stride + 1.
func (cpu *CPUBackend) Conv2D(input, kernel *tensor.Tensor, stride, padding int) *tensor.Tensor {
	n, cIn, h, w := convDims(input, "conv2d input")
	cOut, cInK, kh, kw := convDims(kernel, "conv2d kernel")
	if cIn != cInK {
		panic(fmt.Sprintf("conv2d: input channels %d != kernel channels %d", cIn, cInK))
	}

	hOut := (h+2*padding-kh)/stride + 1
	wOut := (w+2*padding-kw)/stride + 1
	if hOut <= 0 || wOut <= 0 {
		panic(fmt.Sprintf("conv2d: invalid output size %dx%d (check stride/padding)", hOut, wOut))
	}

	out := tensor.MustNew(tensor.Shape{n, cOut, hOut, wOut})
	inData, kData, outData := input.Data(), kernel.Data(), out.Data()

	parallel.ForBatch(n, cOut, func(b, co int) {
		outPlane := outData[(b*cOut+co)*hOut*wOut:]
		for oh := 0; oh < hOut; oh++ {
			for ow := 0; ow < wOut; ow++ {
				var acc float32
				for ci := 0; ci < cIn; ci++ {
					inPlane := inData[(b*cIn+ci)*h*w:]
					kPlane := kData[(co*cIn+ci)*kh*kw:]
					for p := 0; p < kh; p++ {
						ih := oh*stride - padding + p
						if ih < 0 || ih >= h {
							continue
						}
						for q := 0; q < kw; q++ {
							iw := ow*stride - padding + q
							if iw < 0 || iw >= w {
								continue
							}
							acc += inPlane[ih*w+iw] * kPlane[p*kw+q]
						}
					}
				}
				outPlane[oh*wOut+ow] = acc
			}
		}
	}, cpu.par)

	return out
}

// Conv2DInputBackward computes the gradient with respect to the
// convolution input. Gather form: each input position collects the
// contributions of every output position its value reached.
func (cpu *CPUBackend) Conv2DInputBackward(input, kernel, outputGrad *tensor.Tensor, stride, padding int) *tensor.Tensor {
	n, cIn, h, w := convDims(input, "conv2d input")
	cOut, _, kh, kw := convDims(kernel, "conv2d kernel")
	_, _, hOut, wOut := convDims(outputGrad, "conv2d output grad")

	grad := tensor.MustNew(input.Shape())
	gData, kData, ogData := grad.Data(), kernel.Data(), outputGrad.Data()

	parallel.ForBatch(n, cIn, func(b, ci int) {
		gPlane := gData[(b*cIn+ci)*h*w:]
		for ih := 0; ih < h; ih++ {
			for iw := 0; iw < w; iw++ {
				var acc float32
				for p := 0; p < kh; p++ {
					oh := ih + padding - p
					if oh < 0 || oh%stride != 0 {
						continue
					}
					oh /= stride
					if oh >= hOut {
						continue
					}
					for q := 0; q < kw; q++ {
						ow := iw + padding - q
						if ow < 0 || ow%stride != 0 {
							continue
						}
						ow /= stride
						if ow >= wOut {
							continue
						}
						for co := 0; co < cOut; co++ {
							acc += ogData[((b*cOut+co)*hOut+oh)*wOut+ow] * kData[((co*cIn+ci)*kh+p)*kw+q]
						}
					}
				}
				gPlane[ih*w+iw] = acc
			}
		}
	}, cpu.par)

	return grad
}

// Conv2DKernelBackward computes the gradient with respect to the
// convolution kernel.
func (cpu *CPUBackend) Conv2DKernelBackward(input, kernel, outputGrad *tensor.Tensor, stride, padding int) *tensor.Tensor {
	n, cIn, h, w := convDims(input, "conv2d input")
	cOut, _, kh, kw := convDims(kernel, "conv2d kernel")
	_, _, hOut, wOut := convDims(outputGrad, "conv2d output grad")

	grad := tensor.MustNew(kernel.Shape())
	gData, inData, ogData := grad.Data(), input.Data(), outputGrad.Data()

	parallel.ForBatch(cOut, cIn, func(co, ci int) {
		gPlane := gData[(co*cIn+ci)*kh*kw:]
		for p := 0; p < kh; p++ {
			for q := 0; q < kw; q++ {
				var acc float32
				for b := 0; b < n; b++ {
					inPlane := inData[(b*cIn+ci)*h*w:]
					ogPlane := ogData[(b*cOut+co)*hOut*wOut:]
					for oh := 0; oh < hOut; oh++ {
						ih := oh*stride - padding + p
						if ih < 0 || ih >= h {
							continue
						}
						for ow := 0; ow < wOut; ow++ {
							iw := ow*stride - padding + q
							if iw < 0 || iw >= w {
								continue
							}
							acc += inPlane[ih*w+iw] * ogPlane[oh*wOut+ow]
						}
					}
				}
				gPlane[p*kw+q] = acc
			}
		}
	}, cpu.par)

	return grad
}

// convDims validates a 4D tensor and unpacks its dimensions.
func convDims(t *tensor.Tensor, what string) (d0, d1, d2, d3 int) {
	shape := t.Shape()
	if len(shape) != 4 {
		panic(fmt.Sprintf("%s: expected 4D tensor, got shape %v", what, shape))
	}
	return shape[0], shape[1], shape[2], shape[3]
}
