package nn

import (
	"math"
	"math/rand"

	"github.com/drift-ml/drift/internal/tensor"
)

// Xavier initializes a weight tensor with the Glorot uniform
// distribution: U(-b, b) with b = sqrt(6/(fanIn+fanOut)). This keeps the
// activation variance roughly constant across layers.
//
// The random source is passed explicitly; initialization order and the
// caller's seed fully determine the weights.
func Xavier(fanIn, fanOut int, shape tensor.Shape, rng *rand.Rand) *tensor.Tensor {
	bound := float32(math.Sqrt(6.0 / float64(fanIn+fanOut)))
	return tensor.Uniform(shape, -bound, bound, rng)
}
