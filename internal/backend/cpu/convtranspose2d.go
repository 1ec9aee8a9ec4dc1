package cpu

import (
	"fmt"

	"github.com/drift-ml/drift/internal/parallel"
	"github.com/drift-ml/drift/internal/tensor"
)

// ConvTranspose2D performs 2D transposed convolution (fractionally strided
// convolution), the upsampling counterpart of Conv2D. The decoder of the
// vector-field model uses it to restore spatial resolution.
//
// Input shape:  [N, C_in, H, W]
// Kernel shape: [C_in, C_out, K_h, K_w]
// Output shape: [N, C_out, H_out, W_out] where H_out = (H-1)*stride + K_h.
func (cpu *CPUBackend) ConvTranspose2D(input, kernel *tensor.Tensor, stride int) *tensor.Tensor {
	n, cIn, h, w := convDims(input, "convtranspose2d input")
	cInK, cOut, kh, kw := convDims(kernel, "convtranspose2d kernel")
	if cIn != cInK {
		panic(fmt.Sprintf("convtranspose2d: input channels %d != kernel channels %d", cIn, cInK))
	}

	hOut := (h-1)*stride + kh
	wOut := (w-1)*stride + kw
	out := tensor.MustNew(tensor.Shape{n, cOut, hOut, wOut})
	inData, kData, outData := input.Data(), kernel.Data(), out.Data()

	parallel.ForBatch(n, cOut, func(b, co int) {
		outPlane := outData[(b*cOut+co)*hOut*wOut:]
		for oh := 0; oh < hOut; oh++ {
			for ow := 0; ow < wOut; ow++ {
				var acc float32
				for p := 0; p < kh; p++ {
					ih := oh - p
					if ih < 0 || ih%stride != 0 {
						continue
					}
					ih /= stride
					if ih >= h {
						continue
					}
					for q := 0; q < kw; q++ {
						iw := ow - q
						if iw < 0 || iw%stride != 0 {
							continue
						}
						iw /= stride
						if iw >= w {
							continue
						}
						for ci := 0; ci < cIn; ci++ {
							acc += inData[((b*cIn+ci)*h+ih)*w+iw] * kData[((ci*cOut+co)*kh+p)*kw+q]
						}
					}
				}
				outPlane[oh*wOut+ow] = acc
			}
		}
	}, cpu.par)

	return out
}

// ConvTranspose2DInputBackward computes the gradient with respect to the
// transposed-convolution input. This is a plain strided correlation of the
// output gradient with the kernel.
func (cpu *CPUBackend) ConvTranspose2DInputBackward(input, kernel, outputGrad *tensor.Tensor, stride int) *tensor.Tensor {
	n, cIn, h, w := convDims(input, "convtranspose2d input")
	_, cOut, kh, kw := convDims(kernel, "convtranspose2d kernel")
	_, _, hOut, wOut := convDims(outputGrad, "convtranspose2d output grad")

	grad := tensor.MustNew(input.Shape())
	gData, kData, ogData := grad.Data(), kernel.Data(), outputGrad.Data()

	parallel.ForBatch(n, cIn, func(b, ci int) {
		gPlane := gData[(b*cIn+ci)*h*w:]
		for ih := 0; ih < h; ih++ {
			for iw := 0; iw < w; iw++ {
				var acc float32
				for p := 0; p < kh; p++ {
					oh := ih*stride + p
					if oh >= hOut {
						continue
					}
					for q := 0; q < kw; q++ {
						ow := iw*stride + q
						if ow >= wOut {
							continue
						}
						for co := 0; co < cOut; co++ {
							acc += ogData[((b*cOut+co)*hOut+oh)*wOut+ow] * kData[((ci*cOut+co)*kh+p)*kw+q]
						}
					}
				}
				gPlane[ih*w+iw] = acc
			}
		}
	}, cpu.par)

	return grad
}

// ConvTranspose2DKernelBackward computes the gradient with respect to the
// transposed-convolution kernel.
func (cpu *CPUBackend) ConvTranspose2DKernelBackward(input, kernel, outputGrad *tensor.Tensor, stride int) *tensor.Tensor {
	n, cIn, h, w := convDims(input, "convtranspose2d input")
	_, cOut, kh, kw := convDims(kernel, "convtranspose2d kernel")
	_, _, hOut, wOut := convDims(outputGrad, "convtranspose2d output grad")

	grad := tensor.MustNew(kernel.Shape())
	gData, inData, ogData := grad.Data(), input.Data(), outputGrad.Data()

	parallel.ForBatch(cIn, cOut, func(ci, co int) {
		gPlane := gData[(ci*cOut+co)*kh*kw:]
		for p := 0; p < kh; p++ {
			for q := 0; q < kw; q++ {
				var acc float32
				for b := 0; b < n; b++ {
					inPlane := inData[(b*cIn+ci)*h*w:]
					ogPlane := ogData[(b*cOut+co)*hOut*wOut:]
					for ih := 0; ih < h; ih++ {
						oh := ih*stride + p
						if oh >= hOut {
							continue
						}
						for iw := 0; iw < w; iw++ {
							ow := iw*stride + q
							if ow >= wOut {
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
