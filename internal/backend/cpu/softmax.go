package cpu

import (
	"fmt"
	"math"

	"github.com/fern-ml/fern/internal/parallel"
	"github.com/fern-ml/fern/internal/tensor"
)

// Softmax computes softmax along dim, subtracting the row maximum before
// exponentiating for numerical stability.
func (b *Backend) Softmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	dim = normalizeDim(dim, len(shape), "softmax")

	out := mustRaw(shape, x.DType())
	switch x.DType() {
	case tensor.Float32:
		softmaxKernel(x.AsFloat32(), out.AsFloat32(), shape, dim)
	case tensor.Float64:
		softmaxKernel(x.AsFloat64(), out.AsFloat64(), shape, dim)
	default:
		panic(fmt.Sprintf("cpu: softmax unsupported dtype %s", x.DType()))
	}
	return out
}

func softmaxKernel[T ~float32 | ~float64](src, dst []T, shape tensor.Shape, dim int) {
	dimSize := shape[dim]
	// View the tensor as (outer, dimSize, inner): softmax runs over the
	// middle axis for each (outer, inner) pair.
	outer, inner := 1, 1
	for d := 0; d < dim; d++ {
		outer *= shape[d]
	}
	for d := dim + 1; d < len(shape); d++ {
		inner *= shape[d]
	}

	parallel.For(outer*inner, func(start, end int) {
		for p := start; p < end; p++ {
			o, in := p/inner, p%inner
			base := o*dimSize*inner + in

			maxVal := src[base]
			for i := 1; i < dimSize; i++ {
				if v := src[base+i*inner]; v > maxVal {
					maxVal = v
				}
			}

			var sum T
			for i := 0; i < dimSize; i++ {
				e := T(math.Exp(float64(src[base+i*inner] - maxVal)))
				dst[base+i*inner] = e
				sum += e
			}
			for i := 0; i < dimSize; i++ {
				dst[base+i*inner] /= sum
			}
		}
	})
}

// normalizeDim resolves negative dims and bounds-checks.
func normalizeDim(dim, ndim int, name string) int {
	if dim < 0 {
		dim += ndim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("cpu: %s dim %d out of range for %d dimensions", name, dim, ndim))
	}
	return dim
}
