package optim

import (
	"math"
	"testing"

	"github.com/drift-ml/drift/internal/nn"
	"github.com/drift-ml/drift/internal/tensor"
	"github.com/stretchr/testify/assert"
)

func makeParam(values ...float32) *nn.Parameter {
	return nn.NewParameter("weight", tensor.MustFromSlice(values, tensor.Shape{len(values)}))
}

func TestSGDStep(t *testing.T) {
	p := makeParam(1, 2, 3)
	opt := NewSGD([]*nn.Parameter{p}, SGDConfig{LR: 0.1})

	grads := map[*tensor.Tensor]*tensor.Tensor{
		p.Tensor(): tensor.MustFromSlice([]float32{1, 1, 1}, tensor.Shape{3}),
	}
	opt.Step(grads)

	assert.InDeltaSlice(t, []float32{0.9, 1.9, 2.9}, p.Tensor().Data(), 1e-6)
}

func TestSGDSkipsParamsWithoutGradient(t *testing.T) {
	p := makeParam(1, 2)
	opt := NewSGD([]*nn.Parameter{p}, SGDConfig{LR: 0.1})

	opt.Step(map[*tensor.Tensor]*tensor.Tensor{})

	assert.Equal(t, []float32{1, 2}, p.Tensor().Data())
}

func TestSGDDefaultLR(t *testing.T) {
	opt := NewSGD(nil, SGDConfig{})
	assert.InDelta(t, 0.01, opt.GetLR(), 1e-9)
}

func TestSGDZeroGradientIsNoOp(t *testing.T) {
	p := makeParam(5)
	opt := NewSGD([]*nn.Parameter{p}, SGDConfig{LR: 0.5})

	grads := map[*tensor.Tensor]*tensor.Tensor{
		p.Tensor(): tensor.Zeros(tensor.Shape{1}),
	}
	opt.Step(grads)

	assert.Equal(t, []float32{5}, p.Tensor().Data())
}

func TestAdamFirstStepIsSignedLR(t *testing.T) {
	// With bias correction, the first step moves each element by
	// roughly lr in the direction opposing the gradient, regardless of
	// gradient magnitude.
	p := makeParam(0, 0)
	opt := NewAdam([]*nn.Parameter{p}, AdamConfig{LR: 0.1})

	grads := map[*tensor.Tensor]*tensor.Tensor{
		p.Tensor(): tensor.MustFromSlice([]float32{10, -0.001}, tensor.Shape{2}),
	}
	opt.Step(grads)

	data := p.Tensor().Data()
	assert.InDelta(t, -0.1, data[0], 1e-3)
	assert.InDelta(t, 0.1, data[1], 1e-3)
}

func TestAdamTimestepAdvances(t *testing.T) {
	p := makeParam(1)
	opt := NewAdam([]*nn.Parameter{p}, AdamConfig{})

	grads := map[*tensor.Tensor]*tensor.Tensor{
		p.Tensor(): tensor.MustFromSlice([]float32{1}, tensor.Shape{1}),
	}
	opt.Step(grads)
	opt.Step(grads)

	assert.Equal(t, 2, opt.Timestep())
}

func TestAdamMatchesReference(t *testing.T) {
	// Hand-computed two steps with lr=0.1, beta1=0.9, beta2=0.999,
	// constant gradient 1 on a single element starting at 0.
	p := makeParam(0)
	opt := NewAdam([]*nn.Parameter{p}, AdamConfig{LR: 0.1})

	grads := map[*tensor.Tensor]*tensor.Tensor{
		p.Tensor(): tensor.MustFromSlice([]float32{1}, tensor.Shape{1}),
	}

	// Step 1: m=0.1, v=0.001, mhat=1, vhat=1, update = -0.1/(1+eps).
	opt.Step(grads)
	assert.InDelta(t, -0.1, p.Tensor().Data()[0], 1e-4)

	// Step 2: m=0.19, v=0.001999, bc1=0.19, bc2=0.001999 → mhat=1,
	// vhat=1, another -0.1.
	opt.Step(grads)
	assert.InDelta(t, -0.2, p.Tensor().Data()[0], 1e-4)
}

func TestAdamDefaults(t *testing.T) {
	opt := NewAdam(nil, AdamConfig{})
	assert.InDelta(t, 0.001, opt.GetLR(), 1e-9)
}

func TestExponentialDecay(t *testing.T) {
	sched := ExponentialDecay{InitialLR: 0.1, DecayRate: 0.5, TransitionSteps: 10}

	assert.InDelta(t, 0.1, sched.LR(0), 1e-7)
	assert.InDelta(t, 0.05, sched.LR(10), 1e-7)
	assert.InDelta(t, 0.025, sched.LR(20), 1e-7)

	// Continuous decay between transitions.
	mid := sched.LR(5)
	want := 0.1 * float32(math.Sqrt(0.5))
	assert.InDelta(t, want, mid, 1e-7)
}

func TestExponentialDecayStaircase(t *testing.T) {
	sched := ExponentialDecay{InitialLR: 0.1, DecayRate: 0.5, TransitionSteps: 10, Staircase: true}

	assert.InDelta(t, 0.1, sched.LR(9), 1e-7)
	assert.InDelta(t, 0.05, sched.LR(10), 1e-7)
	assert.InDelta(t, 0.05, sched.LR(19), 1e-7)
}

func TestConstantSchedule(t *testing.T) {
	sched := Constant(0.01)
	assert.InDelta(t, 0.01, sched.LR(0), 1e-9)
	assert.InDelta(t, 0.01, sched.LR(1000), 1e-9)
}

func TestScheduleDrivesOptimizerLR(t *testing.T) {
	p := makeParam(1)
	opt := NewSGD([]*nn.Parameter{p}, SGDConfig{LR: 0.1})
	sched := ExponentialDecay{InitialLR: 0.1, DecayRate: 0.5, TransitionSteps: 1}

	opt.SetLR(sched.LR(3))
	assert.InDelta(t, 0.0125, opt.GetLR(), 1e-7)
}
