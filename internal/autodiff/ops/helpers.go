package ops

import "github.com/drift-ml/drift/internal/tensor"

// reduceBroadcast reduces a gradient tensor to match the target shape,
// undoing any broadcasting the forward pass applied.
//
// Forward: a[1,C] + b[N,C] -> c[N,C] (a broadcast along dim 0)
// Backward: grad_c[N,C] -> grad_a[1,C] (sum along dim 0)
func reduceBroadcast(grad *tensor.Tensor, targetShape tensor.Shape, backend tensor.Backend) *tensor.Tensor {
	gradShape := grad.Shape()
	if gradShape.Equal(targetShape) {
		return grad
	}

	// Sum away extra leading dimensions.
	result := grad
	for len(result.Shape()) > len(targetShape) {
		result = backend.SumDim(result, 0, false)
	}

	// Sum along dimensions where the target is 1.
	for d := 0; d < len(targetShape); d++ {
		if targetShape[d] == 1 && result.Shape()[d] > 1 {
			result = backend.SumDim(result, d, true)
		}
	}

	if !result.Shape().Equal(targetShape) {
		result = backend.Reshape(result, targetShape)
	}
	return result
}

// onesLike returns a tensor of ones with the same shape as t.
func onesLike(t *tensor.Tensor) *tensor.Tensor {
	return tensor.Ones(t.Shape())
}
