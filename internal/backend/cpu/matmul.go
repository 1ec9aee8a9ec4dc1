package cpu

import (
	"fmt"

	"github.com/drift-ml/drift/internal/parallel"
	"github.com/drift-ml/drift/internal/tensor"
)

// MatMul performs 2D matrix multiplication: [M,K] @ [K,N] -> [M,N].
//
// Uses the ikj loop order so the inner loop walks both b and out
// contiguously, and parallelizes over output rows.
func (cpu *CPUBackend) MatMul(a, b *tensor.Tensor) *tensor.Tensor {
	aShape, bShape := a.Shape(), b.Shape()
	if len(aShape) != 2 || len(bShape) != 2 {
		panic(fmt.Sprintf("matmul: expected 2D tensors, got %v @ %v", aShape, bShape))
	}
	if aShape[1] != bShape[0] {
		panic(fmt.Sprintf("matmul: inner dimensions mismatch: %v @ %v", aShape, bShape))
	}

	m, k, n := aShape[0], aShape[1], bShape[1]
	out := tensor.MustNew(tensor.Shape{m, n})
	aData, bData, outData := a.Data(), b.Data(), out.Data()

	parallel.For(m, func(i int) {
		outRow := outData[i*n : (i+1)*n]
		for p := 0; p < k; p++ {
			av := aData[i*k+p]
			if av == 0 {
				continue
			}
			bRow := bData[p*n : (p+1)*n]
			for j := range outRow {
				outRow[j] += av * bRow[j]
			}
		}
	}, cpu.par)

	return out
}
