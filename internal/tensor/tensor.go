// Package tensor provides the dense float32 tensor type used throughout
// drift, together with shape/stride handling, broadcasting rules, and the
// Backend interface that compute backends implement.
//
// Tensors are row-major, contiguous, and single-precision. The training
// stack in this repository needs exactly one dtype, so the tensor type is
// deliberately not generic over element types.
package tensor

import (
	"fmt"
	"math"
	"strings"
)

// Tensor is a dense, row-major float32 array with an explicit shape.
type Tensor struct {
	shape   Shape
	strides []int
	data    []float32
}

// New creates a zero-filled tensor with the given shape.
func New(shape Shape) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	return &Tensor{
		shape:   shape.Clone(),
		strides: shape.ComputeStrides(),
		data:    make([]float32, shape.NumElements()),
	}, nil
}

// MustNew is New but panics on an invalid shape. Used internally where the
// shape is computed and known to be valid.
func MustNew(shape Shape) *Tensor {
	t, err := New(shape)
	if err != nil {
		panic(fmt.Sprintf("tensor: %v", err))
	}
	return t
}

// MustFromSlice is FromSlice but panics on a shape/data mismatch.
func MustFromSlice(data []float32, shape Shape) *Tensor {
	t, err := FromSlice(data, shape)
	if err != nil {
		panic(fmt.Sprintf("tensor: %v", err))
	}
	return t
}

// FromSlice creates a tensor by copying data into the given shape.
func FromSlice(data []float32, shape Shape) (*Tensor, error) {
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}
	t, err := New(shape)
	if err != nil {
		return nil, err
	}
	copy(t.data, data)
	return t, nil
}

// Shape returns the tensor's shape.
func (t *Tensor) Shape() Shape {
	return t.shape
}

// Strides returns the row-major strides.
func (t *Tensor) Strides() []int {
	return t.strides
}

// NumElements returns the total number of elements.
func (t *Tensor) NumElements() int {
	return len(t.data)
}

// Data returns the backing slice. Mutations are visible to the tensor.
func (t *Tensor) Data() []float32 {
	return t.data
}

// Item returns the value of a scalar (0-D or single-element) tensor.
func (t *Tensor) Item() float32 {
	if len(t.data) != 1 {
		panic(fmt.Sprintf("tensor: Item() requires a scalar tensor, got shape %v", t.shape))
	}
	return t.data[0]
}

// At returns the element at the given indices.
func (t *Tensor) At(indices ...int) float32 {
	return t.data[t.offset(indices)]
}

// Set sets the element at the given indices.
func (t *Tensor) Set(value float32, indices ...int) {
	t.data[t.offset(indices)] = value
}

func (t *Tensor) offset(indices []int) int {
	if len(indices) != len(t.shape) {
		panic(fmt.Sprintf("tensor: expected %d indices, got %d", len(t.shape), len(indices)))
	}
	offset := 0
	for i, idx := range indices {
		if idx < 0 || idx >= t.shape[i] {
			panic(fmt.Sprintf("tensor: index %d out of bounds for dimension %d (size %d)", idx, i, t.shape[i]))
		}
		offset += idx * t.strides[i]
	}
	return offset
}

// Clone returns a deep copy of the tensor.
func (t *Tensor) Clone() *Tensor {
	c := MustNew(t.shape)
	copy(c.data, t.data)
	return c
}

// Fill sets every element to v.
func (t *Tensor) Fill(v float32) {
	for i := range t.data {
		t.data[i] = v
	}
}

// Zero sets every element to 0.
func (t *Tensor) Zero() {
	t.Fill(0)
}

// View returns a tensor sharing this tensor's data with a new shape.
// The element count must match.
func (t *Tensor) View(shape Shape) *Tensor {
	if shape.NumElements() != len(t.data) {
		panic(fmt.Sprintf("tensor: cannot view %v as %v", t.shape, shape))
	}
	return &Tensor{
		shape:   shape.Clone(),
		strides: shape.ComputeStrides(),
		data:    t.data,
	}
}

// HasNaN reports whether any element is NaN or infinite. Training code
// uses this only for diagnostics; divergence itself is not guarded.
func (t *Tensor) HasNaN() bool {
	for _, v := range t.data {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return true
		}
	}
	return false
}

// String returns a short human-readable description.
func (t *Tensor) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Tensor%v", t.shape)
	if len(t.data) <= 8 {
		fmt.Fprintf(&sb, "%v", t.data)
	}
	return sb.String()
}

// Argmax returns the index of the largest element along the last
// dimension, for each position in the leading dimensions. For a [N, C]
// tensor this returns N indices in [0, C).
func Argmax(t *Tensor) []int {
	shape := t.Shape()
	if len(shape) == 0 {
		return []int{0}
	}
	inner := shape[len(shape)-1]
	outer := t.NumElements() / inner
	out := make([]int, outer)
	data := t.Data()
	for i := 0; i < outer; i++ {
		row := data[i*inner : (i+1)*inner]
		best := 0
		for j, v := range row {
			if v > row[best] {
				best = j
			}
		}
		out[i] = best
	}
	return out
}
