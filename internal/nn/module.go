// Package nn implements neural network building blocks: the Module
// interface, trainable parameters, layers, activations, loss functions,
// and parameter checkpointing.
//
// Modules are composed to build the two model families in this
// repository: the perceptron classifier and the convolutional
// encoder/decoder used as an ODE vector field.
package nn

import (
	"github.com/drift-ml/drift/internal/tensor"
)

// Module is the base interface for all neural network components.
type Module interface {
	// Forward computes the output of the module for the given input.
	Forward(input *tensor.Tensor) *tensor.Tensor

	// Parameters returns all trainable parameters of this module,
	// including nested module parameters. Modules without parameters
	// return an empty slice.
	Parameters() []*Parameter
}
