package nn

import (
	"fmt"
	"math/rand"

	"github.com/drift-ml/drift/internal/tensor"
)

// Linear implements a fully connected layer: y = x @ Wᵀ + b.
//
// Weight shape is [outFeatures, inFeatures], bias [outFeatures]. Weights
// use Xavier initialization, biases start at zero.
type Linear struct {
	inFeatures  int
	outFeatures int
	weight      *Parameter
	bias        *Parameter
	backend     tensor.Backend
}

// NewLinear creates a Linear layer with Xavier-initialized weights.
func NewLinear(inFeatures, outFeatures int, backend tensor.Backend, rng *rand.Rand) *Linear {
	weight := NewParameter("weight", Xavier(inFeatures, outFeatures, tensor.Shape{outFeatures, inFeatures}, rng))
	bias := NewParameter("bias", tensor.Zeros(tensor.Shape{outFeatures}))
	return &Linear{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		weight:      weight,
		bias:        bias,
		backend:     backend,
	}
}

// Forward computes y = x @ Wᵀ + b for input [batch, inFeatures].
func (l *Linear) Forward(input *tensor.Tensor) *tensor.Tensor {
	shape := input.Shape()
	if len(shape) != 2 || shape[1] != l.inFeatures {
		panic(fmt.Sprintf("linear: expected input [batch, %d], got %v", l.inFeatures, shape))
	}

	wT := l.backend.Transpose(l.weight.Tensor())
	output := l.backend.MatMul(input, wT)

	// Reshape bias to [1, out] so broadcasting (and its gradient) works.
	b := l.backend.Reshape(l.bias.Tensor(), tensor.Shape{1, l.outFeatures})
	return l.backend.Add(output, b)
}

// Parameters returns [weight, bias].
func (l *Linear) Parameters() []*Parameter {
	return []*Parameter{l.weight, l.bias}
}

// Weight returns the weight parameter.
func (l *Linear) Weight() *Parameter { return l.weight }

// Bias returns the bias parameter.
func (l *Linear) Bias() *Parameter { return l.bias }
