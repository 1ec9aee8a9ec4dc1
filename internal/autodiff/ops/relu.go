package ops

import "github.com/drift-ml/drift/internal/tensor"

// ReLUOp records a rectified linear unit: output = max(0, x).
//
// Backward: d(ReLU(x))/dx = 1 where x > 0, else 0.
type ReLUOp struct {
	input  *tensor.Tensor
	output *tensor.Tensor
}

// NewReLUOp creates a new ReLUOp.
func NewReLUOp(input, output *tensor.Tensor) *ReLUOp {
	return &ReLUOp{input: input, output: output}
}

// Backward masks the output gradient by the sign of the input.
func (op *ReLUOp) Backward(outputGrad *tensor.Tensor, backend tensor.Backend) []*tensor.Tensor {
	mask := tensor.MustNew(op.input.Shape())
	maskData := mask.Data()
	for i, v := range op.input.Data() {
		if v > 0 {
			maskData[i] = 1
		}
	}
	return []*tensor.Tensor{backend.Mul(outputGrad, mask)}
}

// Inputs returns [x].
func (op *ReLUOp) Inputs() []*tensor.Tensor { return []*tensor.Tensor{op.input} }

// Output returns max(0, x).
func (op *ReLUOp) Output() *tensor.Tensor { return op.output }
