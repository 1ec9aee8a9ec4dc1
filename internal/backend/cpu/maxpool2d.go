package cpu

import (
	"fmt"
	"math"

	"github.com/drift-ml/drift/internal/parallel"
	"github.com/drift-ml/drift/internal/tensor"
)

// MaxPool2D performs 2D max pooling over NCHW input.
//
// Output shape: [N, C, (H-kernelSize)/stride+1, (W-kernelSize)/stride+1].
func (cpu *CPUBackend) MaxPool2D(input *tensor.Tensor, kernelSize, stride int) *tensor.Tensor {
	n, c, h, w := convDims(input, "maxpool2d input")
	hOut := (h-kernelSize)/stride + 1
	wOut := (w-kernelSize)/stride + 1
	if hOut <= 0 || wOut <= 0 {
		panic(fmt.Sprintf("maxpool2d: invalid output size %dx%d", hOut, wOut))
	}

	out := tensor.MustNew(tensor.Shape{n, c, hOut, wOut})
	inData, outData := input.Data(), out.Data()

	parallel.ForBatch(n, c, func(b, ch int) {
		inPlane := inData[(b*c+ch)*h*w:]
		outPlane := outData[(b*c+ch)*hOut*wOut:]
		for oh := 0; oh < hOut; oh++ {
			for ow := 0; ow < wOut; ow++ {
				maxVal := float32(math.Inf(-1))
				for p := 0; p < kernelSize; p++ {
					for q := 0; q < kernelSize; q++ {
						v := inPlane[(oh*stride+p)*w+ow*stride+q]
						if v > maxVal {
							maxVal = v
						}
					}
				}
				outPlane[oh*wOut+ow] = maxVal
			}
		}
	}, cpu.par)

	return out
}

// MaxPool2DBackward routes each output gradient to the input position
// that held the window maximum. Max positions are recomputed from the
// stored forward input; ties resolve to the first (row-major) position.
func (cpu *CPUBackend) MaxPool2DBackward(input, outputGrad *tensor.Tensor, kernelSize, stride int) *tensor.Tensor {
	n, c, h, w := convDims(input, "maxpool2d input")
	_, _, hOut, wOut := convDims(outputGrad, "maxpool2d output grad")

	grad := tensor.MustNew(input.Shape())
	inData, gData, ogData := input.Data(), grad.Data(), outputGrad.Data()

	parallel.ForBatch(n, c, func(b, ch int) {
		inPlane := inData[(b*c+ch)*h*w:]
		gPlane := gData[(b*c+ch)*h*w:]
		ogPlane := ogData[(b*c+ch)*hOut*wOut:]
		for oh := 0; oh < hOut; oh++ {
			for ow := 0; ow < wOut; ow++ {
				maxVal := float32(math.Inf(-1))
				maxIdx := 0
				for p := 0; p < kernelSize; p++ {
					for q := 0; q < kernelSize; q++ {
						idx := (oh*stride+p)*w + ow*stride + q
						if inPlane[idx] > maxVal {
							maxVal = inPlane[idx]
							maxIdx = idx
						}
					}
				}
				gPlane[maxIdx] += ogPlane[oh*wOut+ow]
			}
		}
	}, cpu.par)

	return grad
}
