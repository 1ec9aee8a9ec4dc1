package ops

import "github.com/drift-ml/drift/internal/tensor"

// DivOp records element-wise division: output = a / b.
//
// Backward: d(a/b)/da = 1/b, d(a/b)/db = -a/b².
type DivOp struct {
	inputs []*tensor.Tensor
	output *tensor.Tensor
}

// NewDivOp creates a new DivOp.
func NewDivOp(a, b, output *tensor.Tensor) *DivOp {
	return &DivOp{inputs: []*tensor.Tensor{a, b}, output: output}
}

// Backward computes input gradients for division.
func (op *DivOp) Backward(outputGrad *tensor.Tensor, backend tensor.Backend) []*tensor.Tensor {
	a, b := op.inputs[0], op.inputs[1]

	// grad_a = outputGrad / b
	gradA := backend.Div(outputGrad, b)

	// grad_b = -outputGrad * a / b²
	gradB := backend.Mul(outputGrad, op.output) // output = a/b
	gradB = backend.Div(gradB, b)
	gradB = backend.MulScalar(gradB, -1)

	return []*tensor.Tensor{
		reduceBroadcast(gradA, a.Shape(), backend),
		reduceBroadcast(gradB, b.Shape(), backend),
	}
}

// Inputs returns [a, b].
func (op *DivOp) Inputs() []*tensor.Tensor { return op.inputs }

// Output returns a / b.
func (op *DivOp) Output() *tensor.Tensor { return op.output }
