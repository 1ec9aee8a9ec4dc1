package autodiff_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/drift-ml/drift/internal/autodiff"
	"github.com/drift-ml/drift/internal/backend/cpu"
	"github.com/drift-ml/drift/internal/tensor"
)

// checkGradients compares the tape gradient of a scalar-valued function
// against central finite differences for every element of every input.
//
// forward must rebuild the computation from scratch on each call so that
// perturbed inputs propagate.
func checkGradients(t *testing.T, inputs []*tensor.Tensor, forward func(b tensor.Backend) *tensor.Tensor, eps, tol float32) {
	t.Helper()

	backend := autodiff.New(cpu.New())
	tape := backend.Tape()
	tape.StartRecording()
	out := forward(backend)
	if out.NumElements() != 1 {
		t.Fatalf("forward must return a scalar, got shape %v", out.Shape())
	}
	grads := autodiff.Backward(out, backend)
	tape.StopRecording()

	plain := cpu.New()
	for idx, input := range inputs {
		grad := grads[input]
		if grad == nil {
			t.Fatalf("input %d has no gradient", idx)
		}
		data := input.Data()
		gradData := grad.Data()
		for i := range data {
			orig := data[i]

			data[i] = orig + eps
			plus := forward(plain).Item()
			data[i] = orig - eps
			minus := forward(plain).Item()
			data[i] = orig

			numeric := (plus - minus) / (2 * eps)
			if math.Abs(float64(gradData[i]-numeric)) > float64(tol) {
				t.Errorf("input %d element %d: tape gradient %v, numeric %v", idx, i, gradData[i], numeric)
			}
		}
	}
}

func TestGradientMatMul(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	a := tensor.Uniform(tensor.Shape{2, 3}, -1, 1, rng)
	b := tensor.Uniform(tensor.Shape{3, 2}, -1, 1, rng)

	checkGradients(t, []*tensor.Tensor{a, b}, func(be tensor.Backend) *tensor.Tensor {
		return be.Sum(be.MatMul(a, b))
	}, 1e-2, 1e-2)
}

func TestGradientTanh(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	x := tensor.Uniform(tensor.Shape{2, 3}, -2, 2, rng)

	checkGradients(t, []*tensor.Tensor{x}, func(be tensor.Backend) *tensor.Tensor {
		return be.Sum(be.Tanh(x))
	}, 1e-2, 1e-2)
}

func TestGradientSoftmaxLogLoss(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	logits := tensor.Uniform(tensor.Shape{2, 4}, -1, 1, rng)
	target := tensor.MustFromSlice([]float32{
		0, 1, 0, 0,
		0, 0, 0, 1,
	}, tensor.Shape{2, 4})

	checkGradients(t, []*tensor.Tensor{logits}, func(be tensor.Backend) *tensor.Tensor {
		probs := be.Softmax(logits, -1)
		return be.MulScalar(be.Mean(be.Mul(target, be.Log(probs))), -1)
	}, 1e-2, 1e-2)
}

func TestGradientExpLog(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	x := tensor.Uniform(tensor.Shape{3}, 0.5, 2, rng)

	checkGradients(t, []*tensor.Tensor{x}, func(be tensor.Backend) *tensor.Tensor {
		return be.Sum(be.Log(be.Exp(x)))
	}, 1e-3, 1e-2)
}

func TestGradientDiv(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	a := tensor.Uniform(tensor.Shape{4}, 1, 2, rng)
	b := tensor.Uniform(tensor.Shape{4}, 1, 2, rng)

	checkGradients(t, []*tensor.Tensor{a, b}, func(be tensor.Backend) *tensor.Tensor {
		return be.Sum(be.Div(a, b))
	}, 1e-3, 1e-2)
}

func TestGradientConv2D(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	input := tensor.Uniform(tensor.Shape{1, 2, 4, 4}, -1, 1, rng)
	kernel := tensor.Uniform(tensor.Shape{3, 2, 3, 3}, -0.5, 0.5, rng)

	checkGradients(t, []*tensor.Tensor{input, kernel}, func(be tensor.Backend) *tensor.Tensor {
		return be.Sum(be.Conv2D(input, kernel, 1, 1))
	}, 1e-2, 5e-2)
}

func TestGradientConvTranspose2D(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	input := tensor.Uniform(tensor.Shape{1, 2, 3, 3}, -1, 1, rng)
	kernel := tensor.Uniform(tensor.Shape{2, 3, 2, 2}, -0.5, 0.5, rng)

	checkGradients(t, []*tensor.Tensor{input, kernel}, func(be tensor.Backend) *tensor.Tensor {
		return be.Sum(be.ConvTranspose2D(input, kernel, 2))
	}, 1e-2, 5e-2)
}

func TestGradientMaxPool2D(t *testing.T) {
	// Distinct values so the argmax is stable under perturbation.
	input := tensor.MustFromSlice([]float32{
		0.1, 0.9, 0.3, 0.7,
		0.5, 0.2, 0.8, 0.4,
		0.6, 0.15, 0.25, 0.95,
		0.35, 0.45, 0.55, 0.65,
	}, tensor.Shape{1, 1, 4, 4})

	checkGradients(t, []*tensor.Tensor{input}, func(be tensor.Backend) *tensor.Tensor {
		return be.Sum(be.MaxPool2D(input, 2, 2))
	}, 1e-3, 1e-2)
}

func TestGradientReLU(t *testing.T) {
	// Values away from zero so perturbation never crosses the kink.
	x := tensor.MustFromSlice([]float32{-1.5, -0.5, 0.5, 1.5}, tensor.Shape{4})

	checkGradients(t, []*tensor.Tensor{x}, func(be tensor.Backend) *tensor.Tensor {
		return be.Sum(be.ReLU(x))
	}, 1e-3, 1e-2)
}

func TestGradientPerceptron(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	x := tensor.Uniform(tensor.Shape{2, 5}, -1, 1, rng)
	w1 := tensor.Uniform(tensor.Shape{4, 5}, -0.5, 0.5, rng)
	w2 := tensor.Uniform(tensor.Shape{3, 4}, -0.5, 0.5, rng)
	target := tensor.MustFromSlice([]float32{
		1, 0, 0,
		0, 0, 1,
	}, tensor.Shape{2, 3})

	checkGradients(t, []*tensor.Tensor{w1, w2}, func(be tensor.Backend) *tensor.Tensor {
		h := be.Tanh(be.MatMul(x, be.Transpose(w1)))
		probs := be.Softmax(be.MatMul(h, be.Transpose(w2)), -1)
		return be.MulScalar(be.Mean(be.Mul(target, be.Log(probs))), -1)
	}, 1e-2, 1e-2)
}
