package ops

import "github.com/drift-ml/drift/internal/tensor"

// SoftmaxOp records a softmax over the last dimension.
//
// Backward uses the simplified Jacobian-vector product:
//
//	grad_x_j = y_j * (grad_y_j - Σ_i grad_y_i * y_i)
//
// where y is the stored softmax output and the sum runs over each row.
type SoftmaxOp struct {
	input  *tensor.Tensor
	output *tensor.Tensor
}

// NewSoftmaxOp creates a new SoftmaxOp.
func NewSoftmaxOp(input, output *tensor.Tensor) *SoftmaxOp {
	return &SoftmaxOp{input: input, output: output}
}

// Backward computes the input gradient from the cached output.
func (op *SoftmaxOp) Backward(outputGrad *tensor.Tensor, _ tensor.Backend) []*tensor.Tensor {
	shape := op.output.Shape()
	inner := shape[len(shape)-1]
	outer := op.output.NumElements() / inner

	grad := tensor.MustNew(shape)
	y, gy, gx := op.output.Data(), outputGrad.Data(), grad.Data()

	for i := 0; i < outer; i++ {
		off := i * inner
		var dot float32
		for j := 0; j < inner; j++ {
			dot += gy[off+j] * y[off+j]
		}
		for j := 0; j < inner; j++ {
			gx[off+j] = y[off+j] * (gy[off+j] - dot)
		}
	}
	return []*tensor.Tensor{grad}
}

// Inputs returns [x].
func (op *SoftmaxOp) Inputs() []*tensor.Tensor { return []*tensor.Tensor{op.input} }

// Output returns softmax(x).
func (op *SoftmaxOp) Output() *tensor.Tensor { return op.output }
