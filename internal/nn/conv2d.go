package nn

import (
	"fmt"
	"math/rand"

	"github.com/drift-ml/drift/internal/tensor"
)

// Conv2d implements a 2D convolution layer over NCHW input.
//
// Weight shape is [outChannels, inChannels, kernelSize, kernelSize],
// bias [outChannels].
type Conv2d struct {
	inChannels  int
	outChannels int
	kernelSize  int
	stride      int
	padding     int
	weight      *Parameter
	bias        *Parameter
	backend     tensor.Backend
}

// NewConv2d creates a Conv2d layer with Xavier-initialized kernels.
func NewConv2d(inChannels, outChannels, kernelSize, stride, padding int, backend tensor.Backend, rng *rand.Rand) *Conv2d {
	fanIn := inChannels * kernelSize * kernelSize
	fanOut := outChannels * kernelSize * kernelSize
	shape := tensor.Shape{outChannels, inChannels, kernelSize, kernelSize}
	return &Conv2d{
		inChannels:  inChannels,
		outChannels: outChannels,
		kernelSize:  kernelSize,
		stride:      stride,
		padding:     padding,
		weight:      NewParameter("weight", Xavier(fanIn, fanOut, shape, rng)),
		bias:        NewParameter("bias", tensor.Zeros(tensor.Shape{outChannels})),
		backend:     backend,
	}
}

// Forward convolves input [N, C_in, H, W] to [N, C_out, H', W'].
func (c *Conv2d) Forward(input *tensor.Tensor) *tensor.Tensor {
	shape := input.Shape()
	if len(shape) != 4 || shape[1] != c.inChannels {
		panic(fmt.Sprintf("conv2d: expected input [N, %d, H, W], got %v", c.inChannels, shape))
	}

	output := c.backend.Conv2D(input, c.weight.Tensor(), c.stride, c.padding)
	b := c.backend.Reshape(c.bias.Tensor(), tensor.Shape{1, c.outChannels, 1, 1})
	return c.backend.Add(output, b)
}

// Parameters returns [weight, bias].
func (c *Conv2d) Parameters() []*Parameter {
	return []*Parameter{c.weight, c.bias}
}
