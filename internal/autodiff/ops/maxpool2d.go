package ops

import "github.com/drift-ml/drift/internal/tensor"

// MaxPool2DOp records 2D max pooling. During backward, gradient flows
// only to the positions that held each window's maximum; the backend
// recomputes those positions from the stored input.
type MaxPool2DOp struct {
	input      *tensor.Tensor
	output     *tensor.Tensor
	kernelSize int
	stride     int
}

// NewMaxPool2DOp creates a new MaxPool2DOp.
func NewMaxPool2DOp(input, output *tensor.Tensor, kernelSize, stride int) *MaxPool2DOp {
	return &MaxPool2DOp{input: input, output: output, kernelSize: kernelSize, stride: stride}
}

// Backward computes the input gradient.
func (op *MaxPool2DOp) Backward(outputGrad *tensor.Tensor, backend tensor.Backend) []*tensor.Tensor {
	return []*tensor.Tensor{backend.MaxPool2DBackward(op.input, outputGrad, op.kernelSize, op.stride)}
}

// Inputs returns [input].
func (op *MaxPool2DOp) Inputs() []*tensor.Tensor { return []*tensor.Tensor{op.input} }

// Output returns the pooled tensor.
func (op *MaxPool2DOp) Output() *tensor.Tensor { return op.output }
