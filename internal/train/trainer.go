// Package train drives the optimization loop and evaluates trained
// classifiers.
//
// The loop is model-agnostic: the caller supplies a loss function that
// maps a batch of sample indices to a scalar loss tensor, and the
// trainer handles batching, tape management, gradient computation,
// scheduling, and logging.
package train

import (
	"log"

	"github.com/drift-ml/drift/internal/autodiff"
	"github.com/drift-ml/drift/internal/data/mnist"
	"github.com/drift-ml/drift/internal/optim"
	"github.com/drift-ml/drift/internal/tensor"
)

// LossFn computes the scalar training loss for a batch of sample
// indices. It runs with the tape recording, so every operation it
// performs on the trainer's backend participates in backpropagation.
type LossFn func(indices []int) *tensor.Tensor

// Config holds the training loop settings.
type Config struct {
	// Steps is the number of optimizer updates to perform.
	Steps int

	// BatchSize is the number of samples drawn per step, without
	// replacement within a step.
	BatchSize int

	// LogEvery controls how often the loss is logged. Zero means the
	// default of every 10 steps.
	LogEvery int

	// Seed initializes the batch sampler. Runs with the same seed,
	// data, and initial parameters produce identical loss histories.
	Seed int64

	// Schedule, when set, overrides the optimizer's learning rate
	// before each step.
	Schedule optim.Schedule
}

// Trainer runs the optimization loop.
type Trainer struct {
	backend *autodiff.Backend
	opt     optim.Optimizer
	cfg     Config
}

// New creates a trainer. The optimizer must hold the parameters of the
// model whose loss the supplied LossFn computes.
func New(backend *autodiff.Backend, opt optim.Optimizer, cfg Config) *Trainer {
	if cfg.LogEvery == 0 {
		cfg.LogEvery = 10
	}
	return &Trainer{backend: backend, opt: opt, cfg: cfg}
}

// Run performs cfg.Steps optimizer updates, drawing batches from
// numSamples samples, and returns the per-step loss history.
func (t *Trainer) Run(numSamples int, lossFn LossFn) []float32 {
	sampler := mnist.NewSampler(numSamples, t.cfg.Seed)
	tape := t.backend.Tape()
	history := make([]float32, 0, t.cfg.Steps)

	for step := 0; step < t.cfg.Steps; step++ {
		if t.cfg.Schedule != nil {
			t.opt.SetLR(t.cfg.Schedule.LR(step))
		}

		indices := sampler.Draw(t.cfg.BatchSize)

		tape.Clear()
		tape.StartRecording()
		loss := lossFn(indices)
		grads := autodiff.Backward(loss, t.backend)
		tape.StopRecording()

		t.opt.Step(grads)

		lossVal := loss.Item()
		history = append(history, lossVal)

		if (step+1)%t.cfg.LogEvery == 0 {
			log.Printf("step %4d/%d  loss %.6f  lr %.6f", step+1, t.cfg.Steps, lossVal, t.opt.GetLR())
		}
	}

	return history
}
