package nn

import (
	"math"
	"math/rand"
	"testing"

	"github.com/drift-ml/drift/internal/backend/cpu"
	"github.com/drift-ml/drift/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinearForwardShape(t *testing.T) {
	backend := cpu.New()
	rng := rand.New(rand.NewSource(1))
	layer := NewLinear(784, 100, backend, rng)

	input := tensor.Zeros(tensor.Shape{32, 784})
	output := layer.Forward(input)

	assert.True(t, output.Shape().Equal(tensor.Shape{32, 100}), "output shape %v", output.Shape())
}

func TestLinearKnownWeights(t *testing.T) {
	backend := cpu.New()
	rng := rand.New(rand.NewSource(1))
	layer := NewLinear(2, 2, backend, rng)

	// y = x @ Wᵀ + b with W = [[1, 2], [3, 4]], b = [10, 20].
	copy(layer.Weight().Tensor().Data(), []float32{1, 2, 3, 4})
	copy(layer.Bias().Tensor().Data(), []float32{10, 20})

	input := tensor.MustFromSlice([]float32{1, 1}, tensor.Shape{1, 2})
	output := layer.Forward(input)

	assert.InDelta(t, 13, output.At(0, 0), 1e-5) // 1+2+10
	assert.InDelta(t, 27, output.At(0, 1), 1e-5) // 3+4+20
}

func TestLinearRejectsWrongInput(t *testing.T) {
	backend := cpu.New()
	rng := rand.New(rand.NewSource(1))
	layer := NewLinear(4, 2, backend, rng)

	assert.Panics(t, func() {
		layer.Forward(tensor.Zeros(tensor.Shape{3, 5}))
	})
}

func TestXavierBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	w := Xavier(100, 50, tensor.Shape{50, 100}, rng)

	bound := float32(math.Sqrt(6.0 / 150.0))
	for _, v := range w.Data() {
		require.LessOrEqual(t, v, bound)
		require.GreaterOrEqual(t, v, -bound)
	}
}

func TestConv2dForwardShape(t *testing.T) {
	backend := cpu.New()
	rng := rand.New(rand.NewSource(1))
	layer := NewConv2d(1, 8, 3, 1, 1, backend, rng)

	output := layer.Forward(tensor.Zeros(tensor.Shape{4, 1, 28, 28}))
	assert.True(t, output.Shape().Equal(tensor.Shape{4, 8, 28, 28}), "output shape %v", output.Shape())
}

func TestConvTranspose2dForwardShape(t *testing.T) {
	backend := cpu.New()
	rng := rand.New(rand.NewSource(1))
	layer := NewConvTranspose2d(16, 8, 2, 2, backend, rng)

	output := layer.Forward(tensor.Zeros(tensor.Shape{4, 16, 7, 7}))
	assert.True(t, output.Shape().Equal(tensor.Shape{4, 8, 14, 14}), "output shape %v", output.Shape())
}

func TestMaxPool2dHalvesSpatialDims(t *testing.T) {
	backend := cpu.New()
	layer := NewMaxPool2d(2, 2, backend)

	output := layer.Forward(tensor.Zeros(tensor.Shape{4, 8, 28, 28}))
	assert.True(t, output.Shape().Equal(tensor.Shape{4, 8, 14, 14}), "output shape %v", output.Shape())
}

func TestSoftmaxModule(t *testing.T) {
	backend := cpu.New()
	sm := NewSoftmax(backend)

	out := sm.Forward(tensor.MustFromSlice([]float32{1, 2, 3}, tensor.Shape{1, 3}))
	sum := float32(0)
	for _, v := range out.Data() {
		assert.GreaterOrEqual(t, v, float32(0))
		sum += v
	}
	assert.InDelta(t, 1, sum, 1e-5)
}

func TestCrossEntropyLossValue(t *testing.T) {
	backend := cpu.New()
	loss := NewCrossEntropyLoss(backend)

	// One sample, target class 0 predicted with probability 0.5:
	// loss = -log(0.5) / (batch * classes) = ln2 / 2.
	pred := tensor.MustFromSlice([]float32{0.5, 0.5}, tensor.Shape{1, 2})
	target := tensor.MustFromSlice([]float32{1, 0}, tensor.Shape{1, 2})

	got := loss.Forward(pred, target).Item()
	want := float32(math.Ln2 / 2)
	assert.InDelta(t, want, got, 1e-5)
}

func TestCrossEntropyNearPerfectPrediction(t *testing.T) {
	backend := cpu.New()
	loss := NewCrossEntropyLoss(backend)

	pred := tensor.MustFromSlice([]float32{0.98, 0.01, 0.01}, tensor.Shape{1, 3})
	target := tensor.MustFromSlice([]float32{1, 0, 0}, tensor.Shape{1, 3})

	// loss = -log(0.98) / (batch * classes)
	got := loss.Forward(pred, target).Item()
	want := float32(-math.Log(0.98) / 3)
	assert.InDelta(t, want, got, 1e-5)
}

func TestCrossEntropyShapeMismatch(t *testing.T) {
	backend := cpu.New()
	loss := NewCrossEntropyLoss(backend)

	assert.Panics(t, func() {
		loss.Forward(tensor.Zeros(tensor.Shape{1, 2}), tensor.Zeros(tensor.Shape{1, 3}))
	})
}

func TestMSELossValue(t *testing.T) {
	backend := cpu.New()
	loss := NewMSELoss(backend)

	pred := tensor.MustFromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	target := tensor.MustFromSlice([]float32{1, 2, 3, 6}, tensor.Shape{2, 2})

	// Single error of 2, squared, averaged over 4 elements.
	got := loss.Forward(pred, target).Item()
	assert.InDelta(t, 1, got, 1e-5)
}

func TestSequentialComposesModules(t *testing.T) {
	backend := cpu.New()
	rng := rand.New(rand.NewSource(1))
	model := NewSequential(
		NewLinear(4, 3, backend, rng),
		NewReLU(backend),
		NewLinear(3, 2, backend, rng),
		NewSoftmax(backend),
	)

	out := model.Forward(tensor.Zeros(tensor.Shape{5, 4}))
	assert.True(t, out.Shape().Equal(tensor.Shape{5, 2}), "output shape %v", out.Shape())
	require.Len(t, model.Parameters(), 4)
}
