// Package mnist loads the MNIST handwritten digit dataset from its
// original IDX files and prepares it for training: normalized pixel
// tensors, one-hot labels, and batch sampling without replacement.
package mnist

import (
	"fmt"
	"math/rand"
	"path/filepath"

	"github.com/drift-ml/drift/internal/tensor"
)

// NumClasses is the number of digit classes.
const NumClasses = 10

// Dataset holds one split of MNIST with pixels normalized to [0, 1].
type Dataset struct {
	// Images has shape [N, rows, cols].
	Images *tensor.Tensor
	// Labels holds the digit class of each sample.
	Labels []int

	rows int
	cols int
}

// Load reads a split from dir. The files must use the original
// distribution names (train-images-idx3-ubyte etc.), uncompressed.
func Load(dir string, train bool) (*Dataset, error) {
	prefix := "train"
	if !train {
		prefix = "t10k"
	}

	imagesFile := filepath.Join(dir, prefix+"-images-idx3-ubyte")
	labelsFile := filepath.Join(dir, prefix+"-labels-idx1-ubyte")

	images, rows, cols, err := readIDXImages(imagesFile)
	if err != nil {
		return nil, fmt.Errorf("load images: %w", err)
	}
	labels, err := readIDXLabels(labelsFile)
	if err != nil {
		return nil, fmt.Errorf("load labels: %w", err)
	}
	if len(images) != len(labels) {
		return nil, fmt.Errorf("image/label count mismatch: %d vs %d", len(images), len(labels))
	}

	return fromRaw(images, labels, rows, cols), nil
}

func fromRaw(images [][]byte, labels []byte, rows, cols int) *Dataset {
	n := len(images)
	data := make([]float32, n*rows*cols)
	for i, img := range images {
		base := i * rows * cols
		for j, px := range img {
			data[base+j] = float32(px) / 255.0
		}
	}
	intLabels := make([]int, n)
	for i, l := range labels {
		intLabels[i] = int(l)
	}
	return &Dataset{
		Images: tensor.MustFromSlice(data, tensor.Shape{n, rows, cols}),
		Labels: intLabels,
		rows:   rows,
		cols:   cols,
	}
}

// Len returns the number of samples.
func (d *Dataset) Len() int {
	return len(d.Labels)
}

// Flatten returns the images as a [N, rows*cols] matrix.
func (d *Dataset) Flatten() *tensor.Tensor {
	n := d.Len()
	return d.Images.Clone().View(tensor.Shape{n, d.rows * d.cols})
}

// AsImages returns the images as a [N, 1, rows, cols] batch with a
// single channel, the layout convolution layers expect.
func (d *Dataset) AsImages() *tensor.Tensor {
	n := d.Len()
	return d.Images.Clone().View(tensor.Shape{n, 1, d.rows, d.cols})
}

// OneHot encodes labels as a [N, numClasses] matrix.
func OneHot(labels []int, numClasses int) *tensor.Tensor {
	n := len(labels)
	data := make([]float32, n*numClasses)
	for i, l := range labels {
		if l < 0 || l >= numClasses {
			panic(fmt.Sprintf("mnist: label %d out of range [0, %d)", l, numClasses))
		}
		data[i*numClasses+l] = 1
	}
	return tensor.MustFromSlice(data, tensor.Shape{n, numClasses})
}

// TakeRows copies the given rows of t (along the first dimension) into
// a new tensor.
func TakeRows(t *tensor.Tensor, indices []int) *tensor.Tensor {
	shape := t.Shape()
	rowSize := 1
	for _, d := range shape[1:] {
		rowSize *= d
	}
	out := make([]float32, len(indices)*rowSize)
	src := t.Data()
	for i, idx := range indices {
		if idx < 0 || idx >= shape[0] {
			panic(fmt.Sprintf("mnist: row index %d out of range [0, %d)", idx, shape[0]))
		}
		copy(out[i*rowSize:(i+1)*rowSize], src[idx*rowSize:(idx+1)*rowSize])
	}
	outShape := shape.Clone()
	outShape[0] = len(indices)
	return tensor.MustFromSlice(out, outShape)
}

// Sampler draws batches of distinct sample indices. All randomness
// comes from the explicit generator, so runs with the same seed draw
// the same batches.
type Sampler struct {
	n   int
	rng *rand.Rand
}

// NewSampler creates a sampler over n samples seeded with seed.
func NewSampler(n int, seed int64) *Sampler {
	return &Sampler{n: n, rng: rand.New(rand.NewSource(seed))}
}

// Draw returns batchSize distinct indices in [0, n).
func (s *Sampler) Draw(batchSize int) []int {
	if batchSize > s.n {
		panic(fmt.Sprintf("mnist: batch size %d exceeds dataset size %d", batchSize, s.n))
	}
	return s.rng.Perm(s.n)[:batchSize]
}
