package tensor

// Backend defines the interface that compute backends implement. The CPU
// backend provides a pure-Go implementation; the autodiff backend wraps
// any Backend and records operations for reverse-mode differentiation.
//
// Backward kernels for the structured operations (convolution, pooling)
// live on the interface so the autodiff op implementations stay pure
// orchestration.
type Backend interface {
	// Name returns a short identifier for logging.
	Name() string

	// Element-wise binary operations with NumPy-style broadcasting.
	Add(a, b *Tensor) *Tensor
	Sub(a, b *Tensor) *Tensor
	Mul(a, b *Tensor) *Tensor
	Div(a, b *Tensor) *Tensor

	// Scalar operations.
	AddScalar(x *Tensor, s float32) *Tensor
	MulScalar(x *Tensor, s float32) *Tensor

	// MatMul performs 2D matrix multiplication: [M,K] @ [K,N] -> [M,N].
	MatMul(a, b *Tensor) *Tensor

	// Convolution and pooling over NCHW tensors.
	Conv2D(input, kernel *Tensor, stride, padding int) *Tensor
	Conv2DInputBackward(input, kernel, outputGrad *Tensor, stride, padding int) *Tensor
	Conv2DKernelBackward(input, kernel, outputGrad *Tensor, stride, padding int) *Tensor
	ConvTranspose2D(input, kernel *Tensor, stride int) *Tensor
	ConvTranspose2DInputBackward(input, kernel, outputGrad *Tensor, stride int) *Tensor
	ConvTranspose2DKernelBackward(input, kernel, outputGrad *Tensor, stride int) *Tensor
	MaxPool2D(input *Tensor, kernelSize, stride int) *Tensor
	MaxPool2DBackward(input, outputGrad *Tensor, kernelSize, stride int) *Tensor

	// Shape operations.
	Reshape(t *Tensor, newShape Shape) *Tensor
	Transpose(t *Tensor, axes ...int) *Tensor

	// Element-wise math.
	Exp(x *Tensor) *Tensor
	Log(x *Tensor) *Tensor
	Sqrt(x *Tensor) *Tensor

	// Activations.
	ReLU(x *Tensor) *Tensor
	Tanh(x *Tensor) *Tensor
	Softmax(x *Tensor, dim int) *Tensor

	// Reductions.
	Sum(x *Tensor) *Tensor
	Mean(x *Tensor) *Tensor
	SumDim(x *Tensor, dim int, keepDim bool) *Tensor
}
