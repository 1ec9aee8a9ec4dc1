package optim

import "math"

// Schedule maps a training step count to a learning rate. The training
// driver applies the schedule before each optimizer step.
type Schedule interface {
	LR(step int) float32
}

// ExponentialDecay decays the learning rate continuously with step count:
//
//	lr(step) = initial * rate^(step/transition)
//
// With Staircase set, the exponent is floored so the rate drops in
// discrete jumps every TransitionSteps steps.
type ExponentialDecay struct {
	InitialLR       float32
	DecayRate       float32
	TransitionSteps int
	Staircase       bool
}

// LR returns the learning rate for the given step.
func (d ExponentialDecay) LR(step int) float32 {
	exponent := float64(step) / float64(d.TransitionSteps)
	if d.Staircase {
		exponent = math.Floor(exponent)
	}
	return d.InitialLR * float32(math.Pow(float64(d.DecayRate), exponent))
}

// Constant is a schedule that always returns the same learning rate.
type Constant float32

// LR returns the constant rate regardless of step.
func (c Constant) LR(int) float32 { return float32(c) }
