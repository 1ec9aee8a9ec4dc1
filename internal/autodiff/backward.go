package autodiff

import (
	"github.com/drift-ml/drift/internal/tensor"
)

// Backward computes gradients of t with respect to every tensor recorded
// on the backend's tape, seeding the output gradient with ones.
//
// t is normally a scalar loss; passing a non-scalar tensor computes the
// gradient of its element sum.
func Backward(t *tensor.Tensor, backend *Backend) map[*tensor.Tensor]*tensor.Tensor {
	tape := backend.Tape()
	if tape.NumOps() == 0 {
		panic("autodiff: no operations recorded (did you forget Tape().StartRecording()?)")
	}
	return tape.Backward(t, tensor.Ones(t.Shape()), backend)
}
