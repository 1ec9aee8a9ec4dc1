package ops

import "github.com/drift-ml/drift/internal/tensor"

// MulScalarOp records multiplication by a constant: output = s * x.
// The ODE solver's Runge-Kutta combinations are built from this op, so it
// must be on the tape for gradients to reach the vector field.
type MulScalarOp struct {
	input  *tensor.Tensor
	output *tensor.Tensor
	scalar float32
}

// NewMulScalarOp creates a new MulScalarOp.
func NewMulScalarOp(x, output *tensor.Tensor, s float32) *MulScalarOp {
	return &MulScalarOp{input: x, output: output, scalar: s}
}

// Backward computes the input gradient: d(s*x)/dx = s.
func (op *MulScalarOp) Backward(outputGrad *tensor.Tensor, backend tensor.Backend) []*tensor.Tensor {
	return []*tensor.Tensor{backend.MulScalar(outputGrad, op.scalar)}
}

// Inputs returns [x].
func (op *MulScalarOp) Inputs() []*tensor.Tensor { return []*tensor.Tensor{op.input} }

// Output returns s * x.
func (op *MulScalarOp) Output() *tensor.Tensor { return op.output }

// AddScalarOp records addition of a constant: output = x + s.
type AddScalarOp struct {
	input  *tensor.Tensor
	output *tensor.Tensor
}

// NewAddScalarOp creates a new AddScalarOp.
func NewAddScalarOp(x, output *tensor.Tensor) *AddScalarOp {
	return &AddScalarOp{input: x, output: output}
}

// Backward computes the input gradient: d(x+s)/dx = 1.
func (op *AddScalarOp) Backward(outputGrad *tensor.Tensor, _ tensor.Backend) []*tensor.Tensor {
	return []*tensor.Tensor{outputGrad}
}

// Inputs returns [x].
func (op *AddScalarOp) Inputs() []*tensor.Tensor { return []*tensor.Tensor{op.input} }

// Output returns x + s.
func (op *AddScalarOp) Output() *tensor.Tensor { return op.output }
