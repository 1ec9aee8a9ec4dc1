package ops

import "github.com/drift-ml/drift/internal/tensor"

// LogOp records an element-wise natural logarithm.
//
// Backward: d(log(x))/dx = 1/x. No epsilon guard; a zero prediction
// produces an infinite gradient that propagates into the parameters.
type LogOp struct {
	input  *tensor.Tensor
	output *tensor.Tensor
}

// NewLogOp creates a new LogOp.
func NewLogOp(input, output *tensor.Tensor) *LogOp {
	return &LogOp{input: input, output: output}
}

// Backward computes the input gradient.
func (op *LogOp) Backward(outputGrad *tensor.Tensor, backend tensor.Backend) []*tensor.Tensor {
	return []*tensor.Tensor{backend.Div(outputGrad, op.input)}
}

// Inputs returns [x].
func (op *LogOp) Inputs() []*tensor.Tensor { return []*tensor.Tensor{op.input} }

// Output returns log(x).
func (op *LogOp) Output() *tensor.Tensor { return op.output }
