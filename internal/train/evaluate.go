package train

import (
	"fmt"
	"strings"

	"github.com/drift-ml/drift/internal/data/mnist"
	"github.com/drift-ml/drift/internal/nn"
	"github.com/drift-ml/drift/internal/tensor"
)

// ConfusionMatrix counts test predictions indexed by [actual][predicted]
// digit class.
type ConfusionMatrix [mnist.NumClasses][mnist.NumClasses]int

// Total returns the number of evaluated samples.
func (m *ConfusionMatrix) Total() int {
	total := 0
	for i := range m {
		for j := range m[i] {
			total += m[i][j]
		}
	}
	return total
}

// Correct returns the number of correctly classified samples, the trace
// of the matrix.
func (m *ConfusionMatrix) Correct() int {
	correct := 0
	for i := range m {
		correct += m[i][i]
	}
	return correct
}

// Accuracy returns the fraction of correct predictions.
func (m *ConfusionMatrix) Accuracy() float64 {
	total := m.Total()
	if total == 0 {
		return 0
	}
	return float64(m.Correct()) / float64(total)
}

// RowSum returns the number of samples whose actual class is class.
func (m *ConfusionMatrix) RowSum(class int) int {
	sum := 0
	for _, count := range m[class] {
		sum += count
	}
	return sum
}

// String renders the matrix as a table with actual classes as rows and
// predicted classes as columns.
func (m *ConfusionMatrix) String() string {
	var b strings.Builder
	b.WriteString("actual\\pred")
	for j := range m[0] {
		fmt.Fprintf(&b, "%6d", j)
	}
	b.WriteByte('\n')
	for i := range m {
		fmt.Fprintf(&b, "%10d ", i)
		for j := range m[i] {
			fmt.Fprintf(&b, "%6d", m[i][j])
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "accuracy: %.4f (%d/%d)\n", m.Accuracy(), m.Correct(), m.Total())
	return b.String()
}

// Evaluate runs the classifier over the dataset in batches and tallies a
// confusion matrix. The model must accept flattened [batch, pixels]
// input and produce [batch, classes] probabilities. Evaluation does not
// record on any tape; callers keep recording stopped around it.
func Evaluate(model nn.Module, d *mnist.Dataset, batchSize int) ConfusionMatrix {
	var matrix ConfusionMatrix
	flat := d.Flatten()
	n := d.Len()

	for start := 0; start < n; start += batchSize {
		end := start + batchSize
		if end > n {
			end = n
		}
		indices := make([]int, end-start)
		for i := range indices {
			indices[i] = start + i
		}

		output := model.Forward(mnist.TakeRows(flat, indices))
		predicted := tensor.Argmax(output)
		for i, p := range predicted {
			matrix[d.Labels[start+i]][p]++
		}
	}

	return matrix
}
