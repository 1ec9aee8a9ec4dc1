package optim

import (
	"github.com/drift-ml/drift/internal/nn"
	"github.com/drift-ml/drift/internal/tensor"
)

// SGD implements plain stochastic gradient descent:
//
//	param -= lr * gradient
//
// No momentum, no state. A zero gradient leaves parameters unchanged.
type SGD struct {
	params []*nn.Parameter
	lr     float32
}

// SGDConfig holds configuration for SGD.
type SGDConfig struct {
	LR float32 // Learning rate (default: 0.01)
}

// NewSGD creates an SGD optimizer over the given parameters.
func NewSGD(params []*nn.Parameter, config SGDConfig) *SGD {
	if config.LR == 0 {
		config.LR = 0.01
	}
	return &SGD{params: params, lr: config.LR}
}

// Step applies param -= lr*grad to every parameter with a gradient.
func (s *SGD) Step(grads map[*tensor.Tensor]*tensor.Tensor) {
	for _, param := range s.params {
		grad := gradient(param, grads)
		if grad == nil {
			continue
		}
		paramData := param.Tensor().Data()
		gradData := grad.Data()
		for i := range paramData {
			paramData[i] -= s.lr * gradData[i]
		}
	}
}

// GetLR returns the current learning rate.
func (s *SGD) GetLR() float32 { return s.lr }

// SetLR updates the learning rate.
func (s *SGD) SetLR(lr float32) { s.lr = lr }
