// Package ops defines the differentiable operations recorded on the
// gradient tape. Each operation stores the tensors of its forward pass and
// computes input gradients from the output gradient during backward,
// delegating numeric work to the backend.
package ops

import "github.com/drift-ml/drift/internal/tensor"

// Operation represents a differentiable operation in the computation
// graph. Operations record their inputs and output during the forward
// pass and compute input gradients during the backward pass.
type Operation interface {
	// Backward computes gradients for the inputs given the output
	// gradient. The returned slice is parallel to Inputs().
	Backward(outputGrad *tensor.Tensor, backend tensor.Backend) []*tensor.Tensor

	// Inputs returns the input tensors of this operation.
	Inputs() []*tensor.Tensor

	// Output returns the output tensor produced by this operation.
	Output() *tensor.Tensor
}
