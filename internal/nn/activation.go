package nn

import (
	"github.com/drift-ml/drift/internal/tensor"
)

// ReLU applies the rectifier element-wise.
type ReLU struct {
	backend tensor.Backend
}

// NewReLU creates a ReLU activation.
func NewReLU(backend tensor.Backend) *ReLU {
	return &ReLU{backend: backend}
}

// Forward computes max(0, x).
func (r *ReLU) Forward(input *tensor.Tensor) *tensor.Tensor {
	return r.backend.ReLU(input)
}

// Parameters returns an empty slice.
func (r *ReLU) Parameters() []*Parameter { return nil }

// Tanh applies the hyperbolic tangent element-wise.
type Tanh struct {
	backend tensor.Backend
}

// NewTanh creates a Tanh activation.
func NewTanh(backend tensor.Backend) *Tanh {
	return &Tanh{backend: backend}
}

// Forward computes tanh(x).
func (t *Tanh) Forward(input *tensor.Tensor) *tensor.Tensor {
	return t.backend.Tanh(input)
}

// Parameters returns an empty slice.
func (t *Tanh) Parameters() []*Parameter { return nil }

// Softmax normalizes the last dimension into a probability distribution:
// entries are non-negative and each row sums to 1.
type Softmax struct {
	backend tensor.Backend
}

// NewSoftmax creates a Softmax activation over the last dimension.
func NewSoftmax(backend tensor.Backend) *Softmax {
	return &Softmax{backend: backend}
}

// Forward computes softmax along the last dimension.
func (s *Softmax) Forward(input *tensor.Tensor) *tensor.Tensor {
	return s.backend.Softmax(input, -1)
}

// Parameters returns an empty slice.
func (s *Softmax) Parameters() []*Parameter { return nil }
