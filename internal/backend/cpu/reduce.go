package cpu

import (
	"fmt"

	"github.com/drift-ml/drift/internal/tensor"
)

// Sum reduces all elements to a 0-D scalar tensor.
func (cpu *CPUBackend) Sum(x *tensor.Tensor) *tensor.Tensor {
	var sum float32
	for _, v := range x.Data() {
		sum += v
	}
	return tensor.Scalar(sum)
}

// Mean reduces all elements to their arithmetic mean as a 0-D tensor.
func (cpu *CPUBackend) Mean(x *tensor.Tensor) *tensor.Tensor {
	return tensor.Scalar(cpu.Sum(x).Item() / float32(x.NumElements()))
}

// SumDim sums along a single dimension. With keepDim the reduced
// dimension stays as size 1, otherwise it is removed.
func (cpu *CPUBackend) SumDim(x *tensor.Tensor, dim int, keepDim bool) *tensor.Tensor {
	shape := x.Shape()
	if dim < 0 {
		dim = len(shape) + dim
	}
	if dim < 0 || dim >= len(shape) {
		panic(fmt.Sprintf("sumdim: invalid dimension %d for shape %v", dim, shape))
	}

	keptShape := shape.Clone()
	keptShape[dim] = 1
	out := tensor.MustNew(keptShape)
	outData := out.Data()

	strides := shape.ComputeStrides()
	outStrides := keptShape.ComputeStrides()
	xData := x.Data()

	for i, v := range xData {
		rem := i
		outOffset := 0
		for d := 0; d < len(shape); d++ {
			coord := rem / strides[d]
			rem %= strides[d]
			if d != dim {
				outOffset += coord * outStrides[d]
			}
		}
		outData[outOffset] += v
	}

	if !keepDim {
		squeezed := make(tensor.Shape, 0, len(shape)-1)
		for d, size := range keptShape {
			if d != dim {
				squeezed = append(squeezed, size)
			}
		}
		return out.View(squeezed)
	}
	return out
}
