package ops

import "github.com/drift-ml/drift/internal/tensor"

// ReshapeOp records a reshape. Even though reshape only changes the
// shape, it produces a new tensor; without recording it, gradients would
// never reach the original parameter (e.g. a bias reshaped to [1,C,1,1]
// for broadcasting).
type ReshapeOp struct {
	input  *tensor.Tensor
	output *tensor.Tensor
}

// NewReshapeOp creates a new ReshapeOp.
func NewReshapeOp(input, output *tensor.Tensor) *ReshapeOp {
	return &ReshapeOp{input: input, output: output}
}

// Backward reshapes the gradient back to the input shape.
func (op *ReshapeOp) Backward(outputGrad *tensor.Tensor, backend tensor.Backend) []*tensor.Tensor {
	return []*tensor.Tensor{backend.Reshape(outputGrad, op.input.Shape())}
}

// Inputs returns [x].
func (op *ReshapeOp) Inputs() []*tensor.Tensor { return []*tensor.Tensor{op.input} }

// Output returns the reshaped tensor.
func (op *ReshapeOp) Output() *tensor.Tensor { return op.output }
