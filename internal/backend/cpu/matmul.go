package cpu

import (
	"fmt"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"
	"gonum.org/v1/gonum/blas/blas64"

	"github.com/fern-ml/fern/internal/tensor"
)

// MatMul computes the matrix product of two 2D tensors. Float tensors route
// through gonum's BLAS Gemm; integer tensors fall back to a blocked Go loop.
func (b *Backend) MatMul(x, y *tensor.RawTensor) *tensor.RawTensor {
	if x.DType() != y.DType() {
		panic(fmt.Sprintf("cpu: matmul dtype mismatch: %s vs %s", x.DType(), y.DType()))
	}
	xs, ys := x.Shape(), y.Shape()
	if len(xs) != 2 || len(ys) != 2 {
		panic(fmt.Sprintf("cpu: matmul requires 2D tensors, got %v and %v", xs, ys))
	}
	m, k := xs[0], xs[1]
	k2, n := ys[0], ys[1]
	if k != k2 {
		panic(fmt.Sprintf("cpu: matmul inner dimensions differ: (%d,%d) x (%d,%d)", m, k, k2, n))
	}

	out := mustRaw(tensor.Shape{m, n}, x.DType())
	switch x.DType() {
	case tensor.Float32:
		blas32.Gemm(blas.NoTrans, blas.NoTrans, 1,
			blas32.General{Rows: m, Cols: k, Stride: k, Data: x.AsFloat32()},
			blas32.General{Rows: k, Cols: n, Stride: n, Data: y.AsFloat32()},
			0,
			blas32.General{Rows: m, Cols: n, Stride: n, Data: out.AsFloat32()})
	case tensor.Float64:
		blas64.Gemm(blas.NoTrans, blas.NoTrans, 1,
			blas64.General{Rows: m, Cols: k, Stride: k, Data: x.AsFloat64()},
			blas64.General{Rows: k, Cols: n, Stride: n, Data: y.AsFloat64()},
			0,
			blas64.General{Rows: m, Cols: n, Stride: n, Data: out.AsFloat64()})
	case tensor.Int32:
		matmulNaive(x.AsInt32(), y.AsInt32(), out.AsInt32(), m, k, n)
	case tensor.Int64:
		matmulNaive(x.AsInt64(), y.AsInt64(), out.AsInt64(), m, k, n)
	default:
		panic(fmt.Sprintf("cpu: matmul unsupported dtype %s", x.DType()))
	}
	return out
}

// matmulNaive is an ikj-ordered product for integer dtypes, which BLAS does
// not cover. The loop order keeps the inner accesses sequential.
func matmulNaive[T number](a, b, c []T, m, k, n int) {
	for i := 0; i < m; i++ {
		for kk := 0; kk < k; kk++ {
			av := a[i*k+kk]
			if av == 0 {
				continue
			}
			row := b[kk*n : kk*n+n]
			out := c[i*n : i*n+n]
			for j := range row {
				out[j] += av * row[j]
			}
		}
	}
}
