package ops

import "github.com/drift-ml/drift/internal/tensor"

// MeanOp records a full reduction to the scalar mean. Both loss
// functions end in this op, so its backward seeds the whole chain: the
// scalar gradient spreads uniformly over the input, scaled by 1/N.
//
// N is the total element count — for a [batch, classes] loss input this
// divides by batch*classes, not batch alone, which scales the effective
// learning rate accordingly.
type MeanOp struct {
	input  *tensor.Tensor
	output *tensor.Tensor
}

// NewMeanOp creates a new MeanOp.
func NewMeanOp(input, output *tensor.Tensor) *MeanOp {
	return &MeanOp{input: input, output: output}
}

// Backward spreads the scalar gradient over the input shape.
func (op *MeanOp) Backward(outputGrad *tensor.Tensor, _ tensor.Backend) []*tensor.Tensor {
	n := op.input.NumElements()
	grad := tensor.Full(op.input.Shape(), outputGrad.Item()/float32(n))
	return []*tensor.Tensor{grad}
}

// Inputs returns [x].
func (op *MeanOp) Inputs() []*tensor.Tensor { return []*tensor.Tensor{op.input} }

// Output returns mean(x) as a scalar tensor.
func (op *MeanOp) Output() *tensor.Tensor { return op.output }

// SumOp records a full reduction to the scalar sum.
type SumOp struct {
	input  *tensor.Tensor
	output *tensor.Tensor
}

// NewSumOp creates a new SumOp.
func NewSumOp(input, output *tensor.Tensor) *SumOp {
	return &SumOp{input: input, output: output}
}

// Backward spreads the scalar gradient over the input shape.
func (op *SumOp) Backward(outputGrad *tensor.Tensor, _ tensor.Backend) []*tensor.Tensor {
	return []*tensor.Tensor{tensor.Full(op.input.Shape(), outputGrad.Item())}
}

// Inputs returns [x].
func (op *SumOp) Inputs() []*tensor.Tensor { return []*tensor.Tensor{op.input} }

// Output returns sum(x) as a scalar tensor.
func (op *SumOp) Output() *tensor.Tensor { return op.output }
