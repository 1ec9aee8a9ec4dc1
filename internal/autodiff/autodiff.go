// Package autodiff implements reverse-mode automatic differentiation as a
// decorator over any compute backend.
//
// Backend wraps an inner tensor.Backend and records every differentiable
// operation on a gradient tape during the forward pass. Walking the tape
// in reverse applies the chain rule and accumulates a gradient for every
// tensor that contributed to the output, including tensors reached through
// the adaptive ODE solver's accepted steps.
//
// Usage:
//
//	backend := autodiff.New(cpu.New())
//	backend.Tape().StartRecording()
//	loss := model.Forward(x) // operations are recorded
//	grads := autodiff.Backward(loss, backend)
package autodiff

import (
	"github.com/drift-ml/drift/internal/autodiff/ops"
	"github.com/drift-ml/drift/internal/tensor"
)

// Backend wraps a tensor.Backend and records operations for
// backpropagation. It implements tensor.Backend itself, so models are
// written once and run with or without gradient tracking.
type Backend struct {
	inner tensor.Backend
	tape  *GradientTape
}

// New creates an autodiff backend wrapping the given compute backend.
func New(inner tensor.Backend) *Backend {
	return &Backend{inner: inner, tape: NewGradientTape()}
}

// Tape returns the gradient tape for recording control.
func (b *Backend) Tape() *GradientTape {
	return b.tape
}

// Inner returns the wrapped compute backend.
func (b *Backend) Inner() tensor.Backend {
	return b.inner
}

// Name returns the backend name.
func (b *Backend) Name() string {
	return "autodiff(" + b.inner.Name() + ")"
}

// Add performs element-wise addition and records the operation.
func (b *Backend) Add(x, y *tensor.Tensor) *tensor.Tensor {
	result := b.inner.Add(x, y)
	b.tape.Record(ops.NewAddOp(x, y, result))
	return result
}

// Sub performs element-wise subtraction and records the operation.
func (b *Backend) Sub(x, y *tensor.Tensor) *tensor.Tensor {
	result := b.inner.Sub(x, y)
	b.tape.Record(ops.NewSubOp(x, y, result))
	return result
}

// Mul performs element-wise multiplication and records the operation.
func (b *Backend) Mul(x, y *tensor.Tensor) *tensor.Tensor {
	result := b.inner.Mul(x, y)
	b.tape.Record(ops.NewMulOp(x, y, result))
	return result
}

// Div performs element-wise division and records the operation.
func (b *Backend) Div(x, y *tensor.Tensor) *tensor.Tensor {
	result := b.inner.Div(x, y)
	b.tape.Record(ops.NewDivOp(x, y, result))
	return result
}

// AddScalar adds a scalar and records the operation.
func (b *Backend) AddScalar(x *tensor.Tensor, s float32) *tensor.Tensor {
	result := b.inner.AddScalar(x, s)
	b.tape.Record(ops.NewAddScalarOp(x, result))
	return result
}

// MulScalar multiplies by a scalar and records the operation.
func (b *Backend) MulScalar(x *tensor.Tensor, s float32) *tensor.Tensor {
	result := b.inner.MulScalar(x, s)
	b.tape.Record(ops.NewMulScalarOp(x, result, s))
	return result
}

// MatMul performs matrix multiplication and records the operation.
func (b *Backend) MatMul(x, y *tensor.Tensor) *tensor.Tensor {
	result := b.inner.MatMul(x, y)
	b.tape.Record(ops.NewMatMulOp(x, y, result))
	return result
}

// Conv2D performs 2D convolution and records the operation.
func (b *Backend) Conv2D(input, kernel *tensor.Tensor, stride, padding int) *tensor.Tensor {
	result := b.inner.Conv2D(input, kernel, stride, padding)
	b.tape.Record(ops.NewConv2DOp(input, kernel, result, stride, padding))
	return result
}

// ConvTranspose2D performs transposed convolution and records the operation.
func (b *Backend) ConvTranspose2D(input, kernel *tensor.Tensor, stride int) *tensor.Tensor {
	result := b.inner.ConvTranspose2D(input, kernel, stride)
	b.tape.Record(ops.NewConvTranspose2DOp(input, kernel, result, stride))
	return result
}

// MaxPool2D performs max pooling and records the operation.
func (b *Backend) MaxPool2D(input *tensor.Tensor, kernelSize, stride int) *tensor.Tensor {
	result := b.inner.MaxPool2D(input, kernelSize, stride)
	b.tape.Record(ops.NewMaxPool2DOp(input, result, kernelSize, stride))
	return result
}

// Reshape reshapes a tensor and records the operation.
func (b *Backend) Reshape(t *tensor.Tensor, newShape tensor.Shape) *tensor.Tensor {
	result := b.inner.Reshape(t, newShape)
	b.tape.Record(ops.NewReshapeOp(t, result))
	return result
}

// Transpose permutes dimensions and records the operation.
func (b *Backend) Transpose(t *tensor.Tensor, axes ...int) *tensor.Tensor {
	ndim := len(t.Shape())
	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}
	result := b.inner.Transpose(t, axes...)
	b.tape.Record(ops.NewTransposeOp(t, result, axes))
	return result
}

// Exp computes e^x and records the operation.
func (b *Backend) Exp(x *tensor.Tensor) *tensor.Tensor {
	result := b.inner.Exp(x)
	b.tape.Record(ops.NewExpOp(x, result))
	return result
}

// Log computes the natural logarithm and records the operation.
func (b *Backend) Log(x *tensor.Tensor) *tensor.Tensor {
	result := b.inner.Log(x)
	b.tape.Record(ops.NewLogOp(x, result))
	return result
}

// Sqrt computes the square root without gradient tracking. Only the
// optimizer's moment updates use it, and those run outside the tape.
func (b *Backend) Sqrt(x *tensor.Tensor) *tensor.Tensor {
	return b.inner.Sqrt(x)
}

// ReLU applies the rectifier and records the operation.
func (b *Backend) ReLU(x *tensor.Tensor) *tensor.Tensor {
	result := b.inner.ReLU(x)
	b.tape.Record(ops.NewReLUOp(x, result))
	return result
}

// Tanh applies the hyperbolic tangent and records the operation.
func (b *Backend) Tanh(x *tensor.Tensor) *tensor.Tensor {
	result := b.inner.Tanh(x)
	b.tape.Record(ops.NewTanhOp(x, result))
	return result
}

// Softmax applies softmax and records the operation.
func (b *Backend) Softmax(x *tensor.Tensor, dim int) *tensor.Tensor {
	result := b.inner.Softmax(x, dim)
	b.tape.Record(ops.NewSoftmaxOp(x, result))
	return result
}

// Sum reduces to the scalar sum and records the operation.
func (b *Backend) Sum(x *tensor.Tensor) *tensor.Tensor {
	result := b.inner.Sum(x)
	b.tape.Record(ops.NewSumOp(x, result))
	return result
}

// Mean reduces to the scalar mean and records the operation.
func (b *Backend) Mean(x *tensor.Tensor) *tensor.Tensor {
	result := b.inner.Mean(x)
	b.tape.Record(ops.NewMeanOp(x, result))
	return result
}

// SumDim sums along a dimension. Used only by gradient reduction during
// backward, so it is not recorded.
func (b *Backend) SumDim(x *tensor.Tensor, dim int, keepDim bool) *tensor.Tensor {
	return b.inner.SumDim(x, dim, keepDim)
}

// Conv2DInputBackward delegates to the inner backend (backward kernels
// are never themselves differentiated).
func (b *Backend) Conv2DInputBackward(input, kernel, outputGrad *tensor.Tensor, stride, padding int) *tensor.Tensor {
	return b.inner.Conv2DInputBackward(input, kernel, outputGrad, stride, padding)
}

// Conv2DKernelBackward delegates to the inner backend.
func (b *Backend) Conv2DKernelBackward(input, kernel, outputGrad *tensor.Tensor, stride, padding int) *tensor.Tensor {
	return b.inner.Conv2DKernelBackward(input, kernel, outputGrad, stride, padding)
}

// ConvTranspose2DInputBackward delegates to the inner backend.
func (b *Backend) ConvTranspose2DInputBackward(input, kernel, outputGrad *tensor.Tensor, stride int) *tensor.Tensor {
	return b.inner.ConvTranspose2DInputBackward(input, kernel, outputGrad, stride)
}

// ConvTranspose2DKernelBackward delegates to the inner backend.
func (b *Backend) ConvTranspose2DKernelBackward(input, kernel, outputGrad *tensor.Tensor, stride int) *tensor.Tensor {
	return b.inner.ConvTranspose2DKernelBackward(input, kernel, outputGrad, stride)
}

// MaxPool2DBackward delegates to the inner backend.
func (b *Backend) MaxPool2DBackward(input, outputGrad *tensor.Tensor, kernelSize, stride int) *tensor.Tensor {
	return b.inner.MaxPool2DBackward(input, outputGrad, kernelSize, stride)
}
