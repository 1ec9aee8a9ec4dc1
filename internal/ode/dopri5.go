package ode

import (
	"math"

	"github.com/drift-ml/drift/internal/tensor"
)

// Dormand-Prince 5(4) Butcher tableau. The fifth-order solution row
// equals the last stage row (FSAL): the seventh stage of an accepted step
// is the first stage of the next.
var (
	dopri5C = [7]float32{0, 1. / 5, 3. / 10, 4. / 5, 8. / 9, 1, 1}

	dopri5A = [7][6]float32{
		{},
		{1. / 5},
		{3. / 40, 9. / 40},
		{44. / 45, -56. / 15, 32. / 9},
		{19372. / 6561, -25360. / 2187, 64448. / 6561, -212. / 729},
		{9017. / 3168, -355. / 33, 46732. / 5247, 49. / 176, -5103. / 18656},
		{35. / 384, 0, 500. / 1113, 125. / 192, -2187. / 6784, 11. / 84},
	}

	// Fifth-order solution weights.
	dopri5B = [7]float32{35. / 384, 0, 500. / 1113, 125. / 192, -2187. / 6784, 11. / 84, 0}

	// Error weights: b5 - b4, where b4 is the embedded fourth-order row.
	dopri5E = [7]float32{
		35./384 - 5179./57600,
		0,
		500./1113 - 7571./16695,
		125./192 - 393./640,
		-2187./6784 + 92097./339200,
		11./84 - 187./2100,
		-1. / 40,
	}
)

// dopri5ErrorOrder is the order of the embedded estimate plus one,
// the exponent base for step-size control.
const dopri5ErrorOrder = 5.0

// dopri5Step takes one trial step of size h from (t, y).
//
// The accepted-solution combination runs through backend ops so the tape
// sees it; the error estimate is computed directly on raw data because
// step-size control must not be differentiated.
//
// k1 must be the vector field evaluated at (t, y); the caller reuses it
// across rejected trials and, via FSAL, across accepted steps.
func dopri5Step(field VectorField, backend tensor.Backend, t, h float32, y, k1 *tensor.Tensor, cfg PIDController) (yNext, k1Next *tensor.Tensor, errNorm float64) {
	var k [7]*tensor.Tensor
	k[0] = k1

	for stage := 1; stage < 7; stage++ {
		yStage := y
		for j := 0; j < stage; j++ {
			if dopri5A[stage][j] == 0 {
				continue
			}
			yStage = backend.Add(yStage, backend.MulScalar(k[j], h*dopri5A[stage][j]))
		}
		k[stage] = field(t+dopri5C[stage]*h, yStage)
	}

	yNext = y
	for i := 0; i < 7; i++ {
		if dopri5B[i] == 0 {
			continue
		}
		yNext = backend.Add(yNext, backend.MulScalar(k[i], h*dopri5B[i]))
	}

	errNorm = dopri5ErrorNorm(y, yNext, k, h, cfg)

	// FSAL: the last stage was evaluated at (t+h, yNext).
	return yNext, k[6], errNorm
}

// dopri5ErrorNorm computes the RMS of the elementwise error scaled by
// atol + rtol*max(|y|, |yNext|). A norm of 1 sits exactly on tolerance.
func dopri5ErrorNorm(y, yNext *tensor.Tensor, k [7]*tensor.Tensor, h float32, cfg PIDController) float64 {
	n := y.NumElements()
	yData, nextData := y.Data(), yNext.Data()

	var kData [7][]float32
	for i := range k {
		kData[i] = k[i].Data()
	}

	var sumSq float64
	for i := 0; i < n; i++ {
		var err float32
		for s := 0; s < 7; s++ {
			if dopri5E[s] == 0 {
				continue
			}
			err += dopri5E[s] * kData[s][i]
		}
		err *= h

		scale := cfg.Atol + cfg.Rtol*max32(abs32(yData[i]), abs32(nextData[i]))
		ratio := float64(err / scale)
		sumSq += ratio * ratio
	}
	return math.Sqrt(sumSq / float64(n))
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
