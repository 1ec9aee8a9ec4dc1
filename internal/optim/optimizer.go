// Package optim implements the optimizers used by the training driver:
// plain stochastic gradient descent and Adam, plus an exponential
// learning-rate decay schedule.
//
// Optimizers consume the gradient map produced by the autodiff tape and
// update parameters in place. Gradients are created fresh each step and
// discarded after the update; optimizer state (Adam's moments) persists
// for the lifetime of a training run.
package optim

import (
	"github.com/drift-ml/drift/internal/nn"
	"github.com/drift-ml/drift/internal/tensor"
)

// Optimizer transforms a gradient map into a parameter update.
type Optimizer interface {
	// Step applies one update to all parameters. Parameters without an
	// entry in grads (not part of the computation graph) are skipped.
	Step(grads map[*tensor.Tensor]*tensor.Tensor)

	// GetLR returns the current learning rate.
	GetLR() float32

	// SetLR updates the learning rate; used by decay schedules.
	SetLR(lr float32)
}

// gradient looks up the gradient recorded for a parameter.
func gradient(param *nn.Parameter, grads map[*tensor.Tensor]*tensor.Tensor) *tensor.Tensor {
	if param == nil {
		return nil
	}
	return grads[param.Tensor()]
}
