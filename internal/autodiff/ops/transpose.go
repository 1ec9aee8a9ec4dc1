package ops

import "github.com/drift-ml/drift/internal/tensor"

// TransposeOp records a dimension permutation. The backward pass applies
// the inverse permutation to the gradient so it reaches the original
// tensor (e.g. the weight of a Linear layer transposed for the matmul).
type TransposeOp struct {
	input  *tensor.Tensor
	output *tensor.Tensor
	axes   []int
}

// NewTransposeOp creates a new TransposeOp.
func NewTransposeOp(input, output *tensor.Tensor, axes []int) *TransposeOp {
	return &TransposeOp{input: input, output: output, axes: axes}
}

// Backward applies the inverse permutation to the output gradient.
func (op *TransposeOp) Backward(outputGrad *tensor.Tensor, backend tensor.Backend) []*tensor.Tensor {
	inverse := make([]int, len(op.axes))
	for i, ax := range op.axes {
		inverse[ax] = i
	}
	return []*tensor.Tensor{backend.Transpose(outputGrad, inverse...)}
}

// Inputs returns [x].
func (op *TransposeOp) Inputs() []*tensor.Tensor { return []*tensor.Tensor{op.input} }

// Output returns the permuted tensor.
func (op *TransposeOp) Output() *tensor.Tensor { return op.output }
