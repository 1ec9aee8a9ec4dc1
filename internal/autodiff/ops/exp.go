package ops

import "github.com/drift-ml/drift/internal/tensor"

// ExpOp records an element-wise exponential.
//
// Backward: d(e^x)/dx = e^x, the stored output.
type ExpOp struct {
	input  *tensor.Tensor
	output *tensor.Tensor
}

// NewExpOp creates a new ExpOp.
func NewExpOp(input, output *tensor.Tensor) *ExpOp {
	return &ExpOp{input: input, output: output}
}

// Backward computes the input gradient from the cached output.
func (op *ExpOp) Backward(outputGrad *tensor.Tensor, backend tensor.Backend) []*tensor.Tensor {
	return []*tensor.Tensor{backend.Mul(outputGrad, op.output)}
}

// Inputs returns [x].
func (op *ExpOp) Inputs() []*tensor.Tensor { return []*tensor.Tensor{op.input} }

// Output returns e^x.
func (op *ExpOp) Output() *tensor.Tensor { return op.output }
