package ode

import "math"

// PIDController adapts the integration step size to hold the local error
// estimate near 1 in the scaled norm.
//
// The step-scale factor combines the last three error norms:
//
//	factor = safety * (1/e_n)^b1 * (1/e_{n-1})^b2 * (1/e_{n-2})^b3
//
// with b1 = (P+I+D)/q, b2 = -(P+2D)/q, b3 = D/q, where q is the order of
// the embedded error estimate plus one. The default P=0, I=1, D=0 is a
// plain integral controller.
type PIDController struct {
	Rtol float32 // Relative tolerance (default 1e-2).
	Atol float32 // Absolute tolerance (default 1e-4).

	Pcoeff float64 // Proportional coefficient (default 0).
	Icoeff float64 // Integral coefficient (default 1).
	Dcoeff float64 // Derivative coefficient (default 0).

	Safety    float64 // Safety factor on the scale (default 0.9).
	MinFactor float64 // Largest allowed step shrink (default 0.2).
	MaxFactor float64 // Largest allowed step growth (default 10).
}

// DefaultController returns the controller used by the trajectory
// training examples: rtol=1e-2, atol=1e-4, integral-only.
func DefaultController() PIDController {
	return PIDController{Rtol: 1e-2, Atol: 1e-4}
}

// withDefaults fills zero-valued fields.
func (c PIDController) withDefaults() PIDController {
	if c.Rtol == 0 {
		c.Rtol = 1e-2
	}
	if c.Atol == 0 {
		c.Atol = 1e-4
	}
	if c.Pcoeff == 0 && c.Icoeff == 0 && c.Dcoeff == 0 {
		c.Icoeff = 1
	}
	if c.Safety == 0 {
		c.Safety = 0.9
	}
	if c.MinFactor == 0 {
		c.MinFactor = 0.2
	}
	if c.MaxFactor == 0 {
		c.MaxFactor = 10
	}
	return c
}

// controllerState tracks the error history the PID terms need.
type controllerState struct {
	cfg      PIDController
	order    float64 // q: embedded estimate order + 1
	prevErr  float64 // e_{n-1}, 1 before any accepted step
	prevErr2 float64 // e_{n-2}
}

func newControllerState(cfg PIDController, order float64) *controllerState {
	return &controllerState{cfg: cfg.withDefaults(), order: order, prevErr: 1, prevErr2: 1}
}

// factor returns the step-scale factor for the current error norm. The
// caller clamps the step against save times separately.
func (s *controllerState) factor(errNorm float64) float64 {
	// A NaN norm means the step produced non-finite values; force the
	// strongest shrink and leave the history untouched.
	if math.IsNaN(errNorm) || math.IsInf(errNorm, 0) {
		return s.cfg.MinFactor
	}
	if errNorm == 0 {
		return s.cfg.MaxFactor
	}

	q := s.order
	b1 := (s.cfg.Pcoeff + s.cfg.Icoeff + s.cfg.Dcoeff) / q
	b2 := -(s.cfg.Pcoeff + 2*s.cfg.Dcoeff) / q
	b3 := s.cfg.Dcoeff / q

	factor := s.cfg.Safety *
		math.Pow(1/errNorm, b1) *
		math.Pow(1/s.prevErr, b2) *
		math.Pow(1/s.prevErr2, b3)

	return math.Min(math.Max(factor, s.cfg.MinFactor), s.cfg.MaxFactor)
}

// accept records an accepted step's error norm into the history.
func (s *controllerState) accept(errNorm float64) {
	if errNorm <= 0 {
		errNorm = 1e-10
	}
	s.prevErr2 = s.prevErr
	s.prevErr = errNorm
}
