package ops

import "github.com/drift-ml/drift/internal/tensor"

// TanhOp records a hyperbolic tangent activation.
//
// Backward: d(tanh(x))/dx = 1 - tanh²(x), computed from the stored output.
type TanhOp struct {
	input  *tensor.Tensor
	output *tensor.Tensor
}

// NewTanhOp creates a new TanhOp.
func NewTanhOp(input, output *tensor.Tensor) *TanhOp {
	return &TanhOp{input: input, output: output}
}

// Backward computes the input gradient from the cached output.
func (op *TanhOp) Backward(outputGrad *tensor.Tensor, backend tensor.Backend) []*tensor.Tensor {
	// 1 - y²
	ySquared := backend.Mul(op.output, op.output)
	deriv := backend.Sub(onesLike(ySquared), ySquared)
	return []*tensor.Tensor{backend.Mul(outputGrad, deriv)}
}

// Inputs returns [x].
func (op *TanhOp) Inputs() []*tensor.Tensor { return []*tensor.Tensor{op.input} }

// Output returns tanh(x).
func (op *TanhOp) Output() *tensor.Tensor { return op.output }
