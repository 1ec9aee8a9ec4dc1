package ode

import (
	"math"
	"testing"

	"github.com/drift-ml/drift/internal/backend/cpu"
	"github.com/drift-ml/drift/internal/tensor"
)

// TestSolveExponentialDecay integrates dy/dt = -y, whose solution is
// y(t) = y0 * exp(-t), and compares against the closed form at every
// save time.
func TestSolveExponentialDecay(t *testing.T) {
	backend := cpu.New()
	field := func(_ float32, y *tensor.Tensor) *tensor.Tensor {
		return backend.MulScalar(y, -1)
	}

	y0 := tensor.MustFromSlice([]float32{1, 2, 3}, tensor.Shape{3})
	ts := []float32{0, 0.5, 1, 1.5, 2}

	sol, err := Solve(field, backend, ts, y0, Options{})
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if len(sol.States) != len(ts) {
		t.Fatalf("got %d states, want %d", len(sol.States), len(ts))
	}

	for i, tSave := range ts {
		decay := float32(math.Exp(float64(-tSave)))
		for j, init := range []float32{1, 2, 3} {
			got := sol.States[i].Data()[j]
			want := init * decay
			// rtol=1e-2 is loose; allow a few multiples of it.
			if math.Abs(float64(got-want)) > 0.03*float64(want)+1e-3 {
				t.Errorf("state[%d][%d] = %v, want %v", i, j, got, want)
			}
		}
	}
}

// TestSolveLinearGrowth integrates dy/dt = t. The quintic method solves
// polynomials up to degree five exactly, so the error estimate is zero
// and every trial step is accepted.
func TestSolveLinearGrowth(t *testing.T) {
	backend := cpu.New()
	field := func(tt float32, y *tensor.Tensor) *tensor.Tensor {
		out := tensor.Zeros(y.Shape())
		out.Fill(tt)
		return out
	}

	y0 := tensor.MustFromSlice([]float32{0}, tensor.Shape{1})
	ts := []float32{0, 1, 2}

	sol, err := Solve(field, backend, ts, y0, Options{})
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if sol.Rejected != 0 {
		t.Errorf("polynomial field rejected %d steps", sol.Rejected)
	}

	// y(t) = t²/2.
	if got := sol.States[1].Item(); math.Abs(float64(got-0.5)) > 1e-4 {
		t.Errorf("y(1) = %v, want 0.5", got)
	}
	if got := sol.States[2].Item(); math.Abs(float64(got-2)) > 1e-4 {
		t.Errorf("y(2) = %v, want 2", got)
	}
}

func TestSolveStateAtSaveTimesOnly(t *testing.T) {
	backend := cpu.New()
	field := func(_ float32, y *tensor.Tensor) *tensor.Tensor {
		return backend.MulScalar(y, 0.5)
	}

	y0 := tensor.MustFromSlice([]float32{1}, tensor.Shape{1})
	ts := []float32{0, 0.1, 0.2, 0.3}

	sol, err := Solve(field, backend, ts, y0, Options{})
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if len(sol.Times) != 4 || len(sol.States) != 4 {
		t.Fatalf("got %d times and %d states, want 4 and 4", len(sol.Times), len(sol.States))
	}
	if sol.States[0] != y0 {
		t.Error("States[0] should be the initial condition")
	}
}

func TestSolveRejectsBadSaveTimes(t *testing.T) {
	backend := cpu.New()
	field := func(_ float32, y *tensor.Tensor) *tensor.Tensor { return y }
	y0 := tensor.MustFromSlice([]float32{1}, tensor.Shape{1})

	if _, err := Solve(field, backend, []float32{0}, y0, Options{}); err == nil {
		t.Error("single save time should fail")
	}
	if _, err := Solve(field, backend, []float32{0, 1, 1}, y0, Options{}); err == nil {
		t.Error("repeated save time should fail")
	}
	if _, err := Solve(field, backend, []float32{0, 1, 0.5}, y0, Options{}); err == nil {
		t.Error("decreasing save times should fail")
	}
}

func TestSolveMaxStepsExceeded(t *testing.T) {
	backend := cpu.New()
	field := func(_ float32, y *tensor.Tensor) *tensor.Tensor {
		return backend.MulScalar(y, -1)
	}
	y0 := tensor.MustFromSlice([]float32{1}, tensor.Shape{1})

	_, err := Solve(field, backend, []float32{0, 10}, y0, Options{MaxSteps: 2, InitialStep: 0.01})
	if err == nil {
		t.Error("expected max-steps error")
	}
}

func TestSolveCountsSteps(t *testing.T) {
	backend := cpu.New()
	field := func(_ float32, y *tensor.Tensor) *tensor.Tensor {
		return backend.MulScalar(y, -1)
	}
	y0 := tensor.MustFromSlice([]float32{1}, tensor.Shape{1})

	sol, err := Solve(field, backend, []float32{0, 1}, y0, Options{})
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if sol.Steps == 0 {
		t.Error("no accepted steps counted")
	}
}

func TestControllerFactorBounds(t *testing.T) {
	state := newControllerState(DefaultController(), dopri5ErrorOrder)

	if f := state.factor(math.NaN()); f != 0.2 {
		t.Errorf("NaN error norm factor = %v, want MinFactor 0.2", f)
	}
	if f := state.factor(0); f != 10 {
		t.Errorf("zero error norm factor = %v, want MaxFactor 10", f)
	}
	// A huge error clamps at the minimum.
	if f := state.factor(1e12); f != 0.2 {
		t.Errorf("huge error norm factor = %v, want 0.2", f)
	}
	// Error exactly at tolerance shrinks by the safety factor.
	if f := state.factor(1); math.Abs(f-0.9) > 1e-12 {
		t.Errorf("unit error norm factor = %v, want 0.9", f)
	}
}

func TestControllerIntegralExponent(t *testing.T) {
	state := newControllerState(DefaultController(), 5)

	// Integral-only: factor = 0.9 * (1/e)^(1/5).
	e := 0.5
	want := 0.9 * math.Pow(1/e, 0.2)
	if f := state.factor(e); math.Abs(f-want) > 1e-12 {
		t.Errorf("factor(%v) = %v, want %v", e, f, want)
	}
}

func TestControllerHistoryAffectsPID(t *testing.T) {
	cfg := DefaultController()
	cfg.Pcoeff = 0.4
	cfg.Icoeff = 0.3
	cfg.Dcoeff = 0
	state := newControllerState(cfg, 5)

	before := state.factor(0.5)
	state.accept(0.5)
	after := state.factor(0.5)

	// With a proportional term, the same error norm yields a different
	// factor once history is recorded.
	if math.Abs(before-after) < 1e-12 {
		t.Error("PID factor ignored error history")
	}
}

func TestDefaultControllerTolerances(t *testing.T) {
	c := DefaultController().withDefaults()
	if c.Rtol != 1e-2 {
		t.Errorf("Rtol = %v, want 1e-2", c.Rtol)
	}
	if c.Atol != 1e-4 {
		t.Errorf("Atol = %v, want 1e-4", c.Atol)
	}
	if c.Icoeff != 1 || c.Pcoeff != 0 || c.Dcoeff != 0 {
		t.Errorf("default coefficients = (%v, %v, %v), want (0, 1, 0)", c.Pcoeff, c.Icoeff, c.Dcoeff)
	}
}
