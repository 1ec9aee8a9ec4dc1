// Package ode integrates ordinary differential equations with an
// adaptive-step Dormand-Prince 5(4) method under PID step-size control.
//
// The vector field is an arbitrary callable; when it is built from
// autodiff-tracked tensor operations, gradients flow from the returned
// trajectory back into the field's parameters, which is how the neural
// ODE example trains.
package ode

import (
	"fmt"

	"github.com/drift-ml/drift/internal/tensor"
)

// VectorField maps (time, state) to the state's instantaneous rate of
// change. The returned tensor must have the same shape as y.
type VectorField func(t float32, y *tensor.Tensor) *tensor.Tensor

// Options configures a solve.
type Options struct {
	// InitialStep is the first trial step size (default 0.1).
	InitialStep float32

	// Controller holds the tolerances and PID coefficients.
	// Zero-valued fields fall back to defaults (rtol=1e-2, atol=1e-4).
	Controller PIDController

	// MaxSteps bounds the total number of accepted steps before the
	// solve fails (default 10000).
	MaxSteps int
}

// Solution holds the integrated trajectory.
type Solution struct {
	Times  []float32        // The requested save times.
	States []*tensor.Tensor // State at each save time; States[0] is y0.

	Steps    int // Accepted steps.
	Rejected int // Rejected trial steps.
}

// Solve integrates dy/dt = field(t, y) from ts[0] through each time in
// ts, returning the state at every requested time. ts must be strictly
// increasing.
//
// Steps are clipped so every save time is hit exactly; between save
// times the controller is free to choose the step.
func Solve(field VectorField, backend tensor.Backend, ts []float32, y0 *tensor.Tensor, opts Options) (*Solution, error) {
	if len(ts) < 2 {
		return nil, fmt.Errorf("ode: need at least two save times, got %d", len(ts))
	}
	for i := 1; i < len(ts); i++ {
		if ts[i] <= ts[i-1] {
			return nil, fmt.Errorf("ode: save times must be strictly increasing (ts[%d]=%v, ts[%d]=%v)", i-1, ts[i-1], i, ts[i])
		}
	}

	if opts.InitialStep == 0 {
		opts.InitialStep = 0.1
	}
	if opts.MaxSteps == 0 {
		opts.MaxSteps = 10000
	}
	cfg := opts.Controller.withDefaults()
	ctrl := newControllerState(cfg, dopri5ErrorOrder)

	sol := &Solution{
		Times:  append([]float32(nil), ts...),
		States: make([]*tensor.Tensor, 0, len(ts)),
	}
	sol.States = append(sol.States, y0)

	t := ts[0]
	y := y0
	h := opts.InitialStep
	var k1 *tensor.Tensor // FSAL stage carried across accepted steps

	for _, tSave := range ts[1:] {
		for t < tSave {
			hTrial := h
			clipped := false
			if t+hTrial > tSave {
				hTrial = tSave - t
				clipped = true
			}
			if t+hTrial == t {
				return sol, fmt.Errorf("ode: step size underflow at t=%v", t)
			}

			// First stage; reused across rejected trials and, via FSAL,
			// carried over from the previous accepted step.
			if k1 == nil {
				k1 = field(t, y)
			}

			yNext, k1Next, errNorm := dopri5Step(field, backend, t, hTrial, y, k1, cfg)
			factor := ctrl.factor(errNorm)

			if errNorm <= 1 {
				// Accept.
				ctrl.accept(errNorm)
				t += hTrial
				y = yNext
				k1 = k1Next
				sol.Steps++
				if sol.Steps > opts.MaxSteps {
					return sol, fmt.Errorf("ode: exceeded %d steps at t=%v", opts.MaxSteps, t)
				}
				if !clipped {
					h = hTrial * float32(factor)
				} else if float32(factor) < 1 {
					h *= float32(factor)
				}
			} else {
				// Reject: shrink and retry from the same state. The
				// FSAL stage of a rejected trial is not reusable.
				sol.Rejected++
				h = hTrial * float32(factor)
			}
		}
		sol.States = append(sol.States, y)
	}

	return sol, nil
}
