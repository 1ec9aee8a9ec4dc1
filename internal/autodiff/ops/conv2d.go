package ops

import "github.com/drift-ml/drift/internal/tensor"

// Conv2DOp records a 2D convolution.
//
// Backward is pure orchestration: the input gradient is the transposed
// convolution of the output gradient with the kernel, and the kernel
// gradient is the correlation of the input with the output gradient. Both
// kernels live on the backend.
type Conv2DOp struct {
	input   *tensor.Tensor
	kernel  *tensor.Tensor
	output  *tensor.Tensor
	stride  int
	padding int
}

// NewConv2DOp creates a new Conv2DOp.
func NewConv2DOp(input, kernel, output *tensor.Tensor, stride, padding int) *Conv2DOp {
	return &Conv2DOp{input: input, kernel: kernel, output: output, stride: stride, padding: padding}
}

// Backward computes gradients for input and kernel.
func (op *Conv2DOp) Backward(outputGrad *tensor.Tensor, backend tensor.Backend) []*tensor.Tensor {
	inputGrad := backend.Conv2DInputBackward(op.input, op.kernel, outputGrad, op.stride, op.padding)
	kernelGrad := backend.Conv2DKernelBackward(op.input, op.kernel, outputGrad, op.stride, op.padding)
	return []*tensor.Tensor{inputGrad, kernelGrad}
}

// Inputs returns [input, kernel].
func (op *Conv2DOp) Inputs() []*tensor.Tensor { return []*tensor.Tensor{op.input, op.kernel} }

// Output returns the convolution result.
func (op *Conv2DOp) Output() *tensor.Tensor { return op.output }
