package nn

import (
	"fmt"

	"github.com/drift-ml/drift/internal/tensor"
)

// CrossEntropyLoss measures divergence between predicted probabilities
// and one-hot targets:
//
//	loss = -mean(target * log(pred))
//
// The mean runs over batch and class axes together, so the loss is
// divided by batch*classes rather than batch alone. This matches the
// reference training setup and scales the effective learning rate by
// 1/classes; see DESIGN.md before changing it.
//
// Predictions must already be probabilities (softmax output). There is no
// epsilon guard: a zero predicted probability for a target class yields
// an infinite loss.
type CrossEntropyLoss struct {
	backend tensor.Backend
}

// NewCrossEntropyLoss creates a cross-entropy loss.
func NewCrossEntropyLoss(backend tensor.Backend) *CrossEntropyLoss {
	return &CrossEntropyLoss{backend: backend}
}

// Forward computes the scalar loss for pred and target of shape
// [batch, classes].
func (l *CrossEntropyLoss) Forward(pred, target *tensor.Tensor) *tensor.Tensor {
	if !pred.Shape().Equal(target.Shape()) {
		panic(fmt.Sprintf("cross entropy: prediction shape %v != target shape %v", pred.Shape(), target.Shape()))
	}
	logPred := l.backend.Log(pred)
	weighted := l.backend.Mul(target, logPred)
	return l.backend.MulScalar(l.backend.Mean(weighted), -1)
}

// MSELoss measures the mean squared error between predictions and
// targets, averaged over every axis.
type MSELoss struct {
	backend tensor.Backend
}

// NewMSELoss creates a mean-squared-error loss.
func NewMSELoss(backend tensor.Backend) *MSELoss {
	return &MSELoss{backend: backend}
}

// Forward computes the scalar loss mean((pred-target)²).
func (l *MSELoss) Forward(pred, target *tensor.Tensor) *tensor.Tensor {
	if !pred.Shape().Equal(target.Shape()) {
		panic(fmt.Sprintf("mse: prediction shape %v != target shape %v", pred.Shape(), target.Shape()))
	}
	diff := l.backend.Sub(pred, target)
	return l.backend.Mean(l.backend.Mul(diff, diff))
}
