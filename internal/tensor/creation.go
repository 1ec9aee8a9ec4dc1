package tensor

import (
	"math/rand"
)

// Zeros creates a tensor filled with zeros.
func Zeros(shape Shape) *Tensor {
	return MustNew(shape)
}

// Ones creates a tensor filled with ones.
func Ones(shape Shape) *Tensor {
	return Full(shape, 1)
}

// Full creates a tensor filled with the given value.
func Full(shape Shape, value float32) *Tensor {
	t := MustNew(shape)
	t.Fill(value)
	return t
}

// Scalar creates a 0-D tensor holding a single value.
func Scalar(value float32) *Tensor {
	t := MustNew(Shape{})
	t.data[0] = value
	return t
}

// Randn creates a tensor with values drawn from the standard normal
// distribution, using the provided random source.
//
// All randomness in drift is threaded through an explicit *rand.Rand so
// that a run is fully determined by its seed. There is no package-level
// random state.
func Randn(shape Shape, rng *rand.Rand) *Tensor {
	t := MustNew(shape)
	for i := range t.data {
		t.data[i] = float32(rng.NormFloat64())
	}
	return t
}

// Uniform creates a tensor with values drawn uniformly from [lo, hi).
func Uniform(shape Shape, lo, hi float32, rng *rand.Rand) *Tensor {
	t := MustNew(shape)
	for i := range t.data {
		t.data[i] = lo + (hi-lo)*rng.Float32()
	}
	return t
}

// Linspace creates a 1-D tensor of n evenly spaced values from start to
// stop inclusive.
func Linspace(start, stop float32, n int) *Tensor {
	t := MustNew(Shape{n})
	if n == 1 {
		t.data[0] = start
		return t
	}
	step := (stop - start) / float32(n-1)
	for i := range t.data {
		t.data[i] = start + float32(i)*step
	}
	// Pin the endpoint so rounding never overshoots stop.
	t.data[n-1] = stop
	return t
}
