package mnist

import (
	"fmt"

	"github.com/drift-ml/drift/internal/tensor"
)

// Trajectories reframes MNIST as a continuous-time regression problem:
// each sample is a path through image space that starts at a digit-zero
// image and visits one image of every class in order, at evenly spaced
// times in [0, 1]. A dynamics model is trained so that integrating it
// from the initial image reproduces the class sequence.
type Trajectories struct {
	// Times holds the save times, shape [NumClasses].
	Times *tensor.Tensor
	// Initial holds the starting states, shape [N, 1, rows, cols].
	Initial *tensor.Tensor
	// Targets holds one [N, 1, rows, cols] tensor per save time.
	// Targets[0] equals Initial.
	Targets []*tensor.Tensor
}

// BuildTrajectories groups d by digit class, truncates every class to
// the size of the smallest one so the classes align sample-for-sample,
// and pairs them into trajectories.
func BuildTrajectories(d *Dataset) (*Trajectories, error) {
	byClass := make([][]int, NumClasses)
	for i, l := range d.Labels {
		if l < 0 || l >= NumClasses {
			return nil, fmt.Errorf("mnist: label %d out of range [0, %d)", l, NumClasses)
		}
		byClass[l] = append(byClass[l], i)
	}

	minCount := -1
	for c, indices := range byClass {
		if len(indices) == 0 {
			return nil, fmt.Errorf("mnist: class %d has no samples", c)
		}
		if minCount < 0 || len(indices) < minCount {
			minCount = len(indices)
		}
	}

	images := d.AsImages()
	targets := make([]*tensor.Tensor, NumClasses)
	for c, indices := range byClass {
		targets[c] = TakeRows(images, indices[:minCount])
	}

	return &Trajectories{
		Times:   tensor.Linspace(0, 1, NumClasses),
		Initial: targets[0],
		Targets: targets,
	}, nil
}

// Len returns the number of trajectories.
func (tr *Trajectories) Len() int {
	return tr.Initial.Shape()[0]
}

// Batch copies the given trajectories into a new Trajectories value.
func (tr *Trajectories) Batch(indices []int) *Trajectories {
	targets := make([]*tensor.Tensor, len(tr.Targets))
	for i, t := range tr.Targets {
		targets[i] = TakeRows(t, indices)
	}
	return &Trajectories{
		Times:   tr.Times,
		Initial: targets[0],
		Targets: targets,
	}
}
