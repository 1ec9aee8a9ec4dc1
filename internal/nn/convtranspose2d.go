package nn

import (
	"fmt"
	"math/rand"

	"github.com/drift-ml/drift/internal/tensor"
)

// ConvTranspose2d implements a 2D transposed convolution layer, the
// upsampling mirror of Conv2d. The vector-field decoder stacks these to
// restore the input resolution.
//
// Weight shape is [inChannels, outChannels, kernelSize, kernelSize],
// bias [outChannels]. Output spatial size is (in-1)*stride + kernelSize.
type ConvTranspose2d struct {
	inChannels  int
	outChannels int
	kernelSize  int
	stride      int
	weight      *Parameter
	bias        *Parameter
	backend     tensor.Backend
}

// NewConvTranspose2d creates a ConvTranspose2d layer with
// Xavier-initialized kernels.
func NewConvTranspose2d(inChannels, outChannels, kernelSize, stride int, backend tensor.Backend, rng *rand.Rand) *ConvTranspose2d {
	fanIn := inChannels * kernelSize * kernelSize
	fanOut := outChannels * kernelSize * kernelSize
	shape := tensor.Shape{inChannels, outChannels, kernelSize, kernelSize}
	return &ConvTranspose2d{
		inChannels:  inChannels,
		outChannels: outChannels,
		kernelSize:  kernelSize,
		stride:      stride,
		weight:      NewParameter("weight", Xavier(fanIn, fanOut, shape, rng)),
		bias:        NewParameter("bias", tensor.Zeros(tensor.Shape{outChannels})),
		backend:     backend,
	}
}

// Forward upsamples input [N, C_in, H, W] to [N, C_out, H', W'].
func (c *ConvTranspose2d) Forward(input *tensor.Tensor) *tensor.Tensor {
	shape := input.Shape()
	if len(shape) != 4 || shape[1] != c.inChannels {
		panic(fmt.Sprintf("convtranspose2d: expected input [N, %d, H, W], got %v", c.inChannels, shape))
	}

	output := c.backend.ConvTranspose2D(input, c.weight.Tensor(), c.stride)
	b := c.backend.Reshape(c.bias.Tensor(), tensor.Shape{1, c.outChannels, 1, 1})
	return c.backend.Add(output, b)
}

// Parameters returns [weight, bias].
func (c *ConvTranspose2d) Parameters() []*Parameter {
	return []*Parameter{c.weight, c.bias}
}
