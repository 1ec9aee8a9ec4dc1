package train

import (
	"encoding/binary"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/drift-ml/drift/internal/autodiff"
	"github.com/drift-ml/drift/internal/backend/cpu"
	"github.com/drift-ml/drift/internal/data/mnist"
	"github.com/drift-ml/drift/internal/nn"
	"github.com/drift-ml/drift/internal/optim"
	"github.com/drift-ml/drift/internal/tensor"
)

// runTinyTraining trains a fresh one-layer softmax classifier on a fixed
// synthetic problem and returns the loss history.
func runTinyTraining(t *testing.T, seed int64, steps int) []float32 {
	t.Helper()

	backend := autodiff.New(cpu.New())
	rng := rand.New(rand.NewSource(seed))
	model := nn.NewSequential(
		nn.NewLinear(4, 3, backend, rng),
		nn.NewSoftmax(backend),
	)
	loss := nn.NewCrossEntropyLoss(backend)
	opt := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: 0.1})

	// Linearly separable data: feature c is hot for class c.
	images := tensor.Zeros(tensor.Shape{12, 4})
	labels := make([]int, 12)
	for i := range labels {
		labels[i] = i % 3
		images.Set(1, i, labels[i])
		images.Set(0.1, i, 3)
	}
	targets := mnist.OneHot(labels, 3)

	trainer := New(backend, opt, Config{Steps: steps, BatchSize: 4, Seed: seed})
	return trainer.Run(12, func(indices []int) *tensor.Tensor {
		batch := mnist.TakeRows(images, indices)
		batchTargets := mnist.TakeRows(targets, indices)
		return loss.Forward(model.Forward(batch), batchTargets)
	})
}

func TestTrainingIsReproducible(t *testing.T) {
	a := runTinyTraining(t, 42, 5)
	b := runTinyTraining(t, 42, 5)

	if len(a) != 5 || len(b) != 5 {
		t.Fatalf("history lengths %d, %d, want 5", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("step %d: losses diverged, %v vs %v", i, a[i], b[i])
		}
	}
}

func TestDifferentSeedsDiverge(t *testing.T) {
	a := runTinyTraining(t, 1, 3)
	b := runTinyTraining(t, 2, 3)

	same := true
	for i := range a {
		if a[i] != b[i] {
			same = false
		}
	}
	if same {
		t.Error("different seeds produced identical loss histories")
	}
}

func TestTrainingReducesLoss(t *testing.T) {
	history := runTinyTraining(t, 42, 60)

	first := history[0]
	last := history[len(history)-1]
	if last >= first {
		t.Errorf("loss did not decrease: first %v, last %v", first, last)
	}
}

func TestScheduleAppliedEachStep(t *testing.T) {
	backend := autodiff.New(cpu.New())
	rng := rand.New(rand.NewSource(1))
	model := nn.NewSequential(
		nn.NewLinear(2, 2, backend, rng),
		nn.NewSoftmax(backend),
	)
	loss := nn.NewCrossEntropyLoss(backend)
	opt := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: 1})

	images := tensor.Uniform(tensor.Shape{4, 2}, 0, 1, rng)
	targets := mnist.OneHot([]int{0, 1, 0, 1}, 2)

	sched := optim.ExponentialDecay{InitialLR: 0.5, DecayRate: 0.5, TransitionSteps: 1}
	trainer := New(backend, opt, Config{Steps: 3, BatchSize: 2, Seed: 1, Schedule: sched})
	trainer.Run(4, func(indices []int) *tensor.Tensor {
		batch := mnist.TakeRows(images, indices)
		return loss.Forward(model.Forward(batch), mnist.TakeRows(targets, indices))
	})

	// After 3 steps the last applied rate is sched.LR(2) = 0.125.
	if got := opt.GetLR(); got != 0.125 {
		t.Errorf("final LR = %v, want 0.125", got)
	}
}

func TestGradientShapesMatchParameters(t *testing.T) {
	backend := autodiff.New(cpu.New())
	rng := rand.New(rand.NewSource(3))
	model := nn.NewSequential(
		nn.NewLinear(6, 4, backend, rng),
		nn.NewReLU(backend),
		nn.NewLinear(4, 2, backend, rng),
		nn.NewSoftmax(backend),
	)
	loss := nn.NewCrossEntropyLoss(backend)

	input := tensor.Uniform(tensor.Shape{3, 6}, 0, 1, rng)
	target := mnist.OneHot([]int{0, 1, 0}, 2)

	tape := backend.Tape()
	tape.StartRecording()
	l := loss.Forward(model.Forward(input), target)
	grads := autodiff.Backward(l, backend)
	tape.StopRecording()

	for i, p := range model.Parameters() {
		grad := grads[p.Tensor()]
		if grad == nil {
			t.Fatalf("parameter %d (%s) has no gradient", i, p.Name())
		}
		if !grad.Shape().Equal(p.Tensor().Shape()) {
			t.Errorf("parameter %d: gradient shape %v, parameter shape %v", i, grad.Shape(), p.Tensor().Shape())
		}
	}
}

func TestConfusionMatrixHelpers(t *testing.T) {
	var m ConfusionMatrix
	m[0][0] = 8
	m[0][1] = 2
	m[1][1] = 5
	m[9][3] = 1

	if got := m.Total(); got != 16 {
		t.Errorf("Total = %d, want 16", got)
	}
	if got := m.Correct(); got != 13 {
		t.Errorf("Correct = %d, want 13", got)
	}
	if got := m.RowSum(0); got != 10 {
		t.Errorf("RowSum(0) = %d, want 10", got)
	}
	if got := m.Accuracy(); got != 13.0/16.0 {
		t.Errorf("Accuracy = %v, want %v", got, 13.0/16.0)
	}
}

func TestConfusionMatrixEmptyAccuracy(t *testing.T) {
	var m ConfusionMatrix
	if m.Accuracy() != 0 {
		t.Error("empty matrix accuracy should be 0")
	}
}

// classStub predicts the class a sample's first feature encodes.
type classStub struct{}

func (classStub) Forward(in *tensor.Tensor) *tensor.Tensor {
	n := in.Shape()[0]
	out := tensor.Zeros(tensor.Shape{n, mnist.NumClasses})
	for i := 0; i < n; i++ {
		c := int(in.At(i, 0)*255 + 0.5)
		out.Set(1, i, c)
	}
	return out
}

func (classStub) Parameters() []*nn.Parameter { return nil }

// writeSplit writes a 1x1-pixel MNIST split where each image's pixel
// value equals encoded.
func writeSplit(t *testing.T, dir string, pixels, labels []byte) {
	t.Helper()

	var img []byte
	img = binary.BigEndian.AppendUint32(img, 2051)
	img = binary.BigEndian.AppendUint32(img, uint32(len(pixels)))
	img = binary.BigEndian.AppendUint32(img, 1)
	img = binary.BigEndian.AppendUint32(img, 1)
	img = append(img, pixels...)
	if err := os.WriteFile(filepath.Join(dir, "t10k-images-idx3-ubyte"), img, 0o644); err != nil {
		t.Fatal(err)
	}

	var lbl []byte
	lbl = binary.BigEndian.AppendUint32(lbl, 2049)
	lbl = binary.BigEndian.AppendUint32(lbl, uint32(len(labels)))
	lbl = append(lbl, labels...)
	if err := os.WriteFile(filepath.Join(dir, "t10k-labels-idx1-ubyte"), lbl, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestEvaluate(t *testing.T) {
	dir := t.TempDir()
	// Pixel encodes the prediction; three of four match the label.
	writeSplit(t, dir, []byte{0, 1, 2, 3}, []byte{0, 1, 2, 9})

	d, err := mnist.Load(dir, false)
	if err != nil {
		t.Fatal(err)
	}

	matrix := Evaluate(classStub{}, d, 3)
	if got := matrix.Total(); got != 4 {
		t.Fatalf("Total = %d, want 4", got)
	}
	if got := matrix.Correct(); got != 3 {
		t.Errorf("Correct = %d, want 3", got)
	}
	if matrix[9][3] != 1 {
		t.Errorf("misclassification not recorded: matrix[9][3] = %d", matrix[9][3])
	}

	// Row sums match the per-class sample counts.
	for _, class := range []int{0, 1, 2, 9} {
		if got := matrix.RowSum(class); got != 1 {
			t.Errorf("RowSum(%d) = %d, want 1", class, got)
		}
	}
}
