package nn

import (
	"github.com/drift-ml/drift/internal/tensor"
)

// MaxPool2d downsamples NCHW input by taking the maximum over square
// windows. It has no trainable parameters.
type MaxPool2d struct {
	kernelSize int
	stride     int
	backend    tensor.Backend
}

// NewMaxPool2d creates a MaxPool2d layer. A stride of 0 defaults to the
// kernel size (non-overlapping windows).
func NewMaxPool2d(kernelSize, stride int, backend tensor.Backend) *MaxPool2d {
	if stride == 0 {
		stride = kernelSize
	}
	return &MaxPool2d{kernelSize: kernelSize, stride: stride, backend: backend}
}

// Forward pools input [N, C, H, W].
func (m *MaxPool2d) Forward(input *tensor.Tensor) *tensor.Tensor {
	return m.backend.MaxPool2D(input, m.kernelSize, m.stride)
}

// Parameters returns an empty slice.
func (m *MaxPool2d) Parameters() []*Parameter {
	return nil
}
