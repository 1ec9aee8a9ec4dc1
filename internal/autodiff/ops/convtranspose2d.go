package ops

import "github.com/drift-ml/drift/internal/tensor"

// ConvTranspose2DOp records a 2D transposed convolution.
type ConvTranspose2DOp struct {
	input  *tensor.Tensor
	kernel *tensor.Tensor
	output *tensor.Tensor
	stride int
}

// NewConvTranspose2DOp creates a new ConvTranspose2DOp.
func NewConvTranspose2DOp(input, kernel, output *tensor.Tensor, stride int) *ConvTranspose2DOp {
	return &ConvTranspose2DOp{input: input, kernel: kernel, output: output, stride: stride}
}

// Backward computes gradients for input and kernel.
func (op *ConvTranspose2DOp) Backward(outputGrad *tensor.Tensor, backend tensor.Backend) []*tensor.Tensor {
	inputGrad := backend.ConvTranspose2DInputBackward(op.input, op.kernel, outputGrad, op.stride)
	kernelGrad := backend.ConvTranspose2DKernelBackward(op.input, op.kernel, outputGrad, op.stride)
	return []*tensor.Tensor{inputGrad, kernelGrad}
}

// Inputs returns [input, kernel].
func (op *ConvTranspose2DOp) Inputs() []*tensor.Tensor {
	return []*tensor.Tensor{op.input, op.kernel}
}

// Output returns the transposed-convolution result.
func (op *ConvTranspose2DOp) Output() *tensor.Tensor { return op.output }
