// Package cpu implements the tensor.Backend interface in pure Go.
//
// Elementwise operations support NumPy-style broadcasting. Convolution and
// pooling kernels parallelize their outer batch*channel loops through the
// parallel package; everything else is sequential.
package cpu

import (
	"fmt"
	"math"

	"github.com/drift-ml/drift/internal/parallel"
	"github.com/drift-ml/drift/internal/tensor"
)

// CPUBackend performs tensor computation on the host CPU.
type CPUBackend struct {
	par parallel.Config
}

// New creates a CPU backend with default parallel configuration.
func New() *CPUBackend {
	return &CPUBackend{par: parallel.DefaultConfig()}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "cpu"
}

// Add performs element-wise addition with broadcasting.
func (cpu *CPUBackend) Add(a, b *tensor.Tensor) *tensor.Tensor {
	return cpu.binary(a, b, "add", func(x, y float32) float32 { return x + y })
}

// Sub performs element-wise subtraction with broadcasting.
func (cpu *CPUBackend) Sub(a, b *tensor.Tensor) *tensor.Tensor {
	return cpu.binary(a, b, "sub", func(x, y float32) float32 { return x - y })
}

// Mul performs element-wise multiplication with broadcasting.
func (cpu *CPUBackend) Mul(a, b *tensor.Tensor) *tensor.Tensor {
	return cpu.binary(a, b, "mul", func(x, y float32) float32 { return x * y })
}

// Div performs element-wise division with broadcasting.
func (cpu *CPUBackend) Div(a, b *tensor.Tensor) *tensor.Tensor {
	return cpu.binary(a, b, "div", func(x, y float32) float32 { return x / y })
}

// binary applies op element-wise, broadcasting the operands as needed.
func (cpu *CPUBackend) binary(a, b *tensor.Tensor, name string, op func(x, y float32) float32) *tensor.Tensor {
	outShape, needsBroadcast, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}

	out := tensor.MustNew(outShape)
	outData := out.Data()

	if !needsBroadcast {
		aData, bData := a.Data(), b.Data()
		for i := range outData {
			outData[i] = op(aData[i], bData[i])
		}
		return out
	}

	aIndex := newBroadcastIndexer(a, outShape)
	bIndex := newBroadcastIndexer(b, outShape)
	aData, bData := a.Data(), b.Data()
	for i := range outData {
		outData[i] = op(aData[aIndex.at(i)], bData[bIndex.at(i)])
	}
	return out
}

// AddScalar adds a scalar to every element.
func (cpu *CPUBackend) AddScalar(x *tensor.Tensor, s float32) *tensor.Tensor {
	return cpu.unary(x, func(v float32) float32 { return v + s })
}

// MulScalar multiplies every element by a scalar.
func (cpu *CPUBackend) MulScalar(x *tensor.Tensor, s float32) *tensor.Tensor {
	return cpu.unary(x, func(v float32) float32 { return v * s })
}

// Exp computes element-wise e^x.
func (cpu *CPUBackend) Exp(x *tensor.Tensor) *tensor.Tensor {
	return cpu.unary(x, func(v float32) float32 { return float32(math.Exp(float64(v))) })
}

// Log computes the element-wise natural logarithm. Inputs must be
// positive; non-positive values produce NaN/-Inf, which propagate
// unguarded into the loss.
func (cpu *CPUBackend) Log(x *tensor.Tensor) *tensor.Tensor {
	return cpu.unary(x, func(v float32) float32 { return float32(math.Log(float64(v))) })
}

// Sqrt computes the element-wise square root.
func (cpu *CPUBackend) Sqrt(x *tensor.Tensor) *tensor.Tensor {
	return cpu.unary(x, func(v float32) float32 { return float32(math.Sqrt(float64(v))) })
}

// ReLU computes element-wise max(0, x).
func (cpu *CPUBackend) ReLU(x *tensor.Tensor) *tensor.Tensor {
	return cpu.unary(x, func(v float32) float32 {
		if v > 0 {
			return v
		}
		return 0
	})
}

// Tanh computes the element-wise hyperbolic tangent.
func (cpu *CPUBackend) Tanh(x *tensor.Tensor) *tensor.Tensor {
	return cpu.unary(x, func(v float32) float32 { return float32(math.Tanh(float64(v))) })
}

func (cpu *CPUBackend) unary(x *tensor.Tensor, op func(v float32) float32) *tensor.Tensor {
	out := tensor.MustNew(x.Shape())
	xData, outData := x.Data(), out.Data()
	for i, v := range xData {
		outData[i] = op(v)
	}
	return out
}

// Softmax applies softmax along the last dimension, shifting by the row
// maximum so large logits do not overflow the exponential.
func (cpu *CPUBackend) Softmax(x *tensor.Tensor, dim int) *tensor.Tensor {
	shape := x.Shape()
	if dim < 0 {
		dim = len(shape) + dim
	}
	if dim != len(shape)-1 {
		panic(fmt.Sprintf("softmax: only the last dimension is supported, got dim=%d for shape %v", dim, shape))
	}

	inner := shape[len(shape)-1]
	outer := x.NumElements() / inner
	out := tensor.MustNew(shape)
	xData, outData := x.Data(), out.Data()

	for i := 0; i < outer; i++ {
		row := xData[i*inner : (i+1)*inner]
		dst := outData[i*inner : (i+1)*inner]

		maxVal := row[0]
		for _, v := range row {
			if v > maxVal {
				maxVal = v
			}
		}

		var sum float32
		for j, v := range row {
			e := float32(math.Exp(float64(v - maxVal)))
			dst[j] = e
			sum += e
		}
		for j := range dst {
			dst[j] /= sum
		}
	}
	return out
}

// Reshape returns a copy of t with a new shape.
func (cpu *CPUBackend) Reshape(t *tensor.Tensor, newShape tensor.Shape) *tensor.Tensor {
	if newShape.NumElements() != t.NumElements() {
		panic(fmt.Sprintf("reshape: cannot reshape %v to %v", t.Shape(), newShape))
	}
	out := tensor.MustNew(newShape)
	copy(out.Data(), t.Data())
	return out
}

// Transpose permutes dimensions. Without axes, all dimensions are
// reversed (matrix transpose for 2D).
func (cpu *CPUBackend) Transpose(t *tensor.Tensor, axes ...int) *tensor.Tensor {
	shape := t.Shape()
	ndim := len(shape)
	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}
	if len(axes) != ndim {
		panic(fmt.Sprintf("transpose: expected %d axes, got %d", ndim, len(axes)))
	}

	outShape := make(tensor.Shape, ndim)
	for i, ax := range axes {
		outShape[i] = shape[ax]
	}
	out := tensor.MustNew(outShape)

	inStrides := t.Strides()
	outStrides := out.Strides()
	inData, outData := t.Data(), out.Data()

	n := t.NumElements()
	for i := 0; i < n; i++ {
		// Decompose output index, map each coordinate back through axes.
		rem := i
		inOffset := 0
		for d := 0; d < ndim; d++ {
			coord := rem / outStrides[d]
			rem %= outStrides[d]
			inOffset += coord * inStrides[axes[d]]
		}
		outData[i] = inData[inOffset]
	}
	return out
}

// broadcastIndexer maps flat indices in a broadcast output shape back to
// flat indices in a (possibly smaller) source tensor.
type broadcastIndexer struct {
	outStrides []int
	srcStrides []int // zero stride where the source dimension is broadcast
}

func newBroadcastIndexer(src *tensor.Tensor, outShape tensor.Shape) *broadcastIndexer {
	srcShape := src.Shape()
	srcStrides := srcShape.ComputeStrides()
	ndim := len(outShape)
	offset := ndim - len(srcShape)

	mapped := make([]int, ndim)
	for d := 0; d < ndim; d++ {
		sd := d - offset
		if sd < 0 || srcShape[sd] == 1 && outShape[d] > 1 {
			mapped[d] = 0
		} else {
			mapped[d] = srcStrides[sd]
		}
	}
	return &broadcastIndexer{
		outStrides: outShape.ComputeStrides(),
		srcStrides: mapped,
	}
}

func (bi *broadcastIndexer) at(flat int) int {
	offset := 0
	for d, stride := range bi.outStrides {
		coord := flat / stride
		flat %= stride
		offset += coord * bi.srcStrides[d]
	}
	return offset
}
