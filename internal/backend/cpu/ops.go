package cpu

import (
	"fmt"

	"github.com/fern-ml/fern/internal/parallel"
	"github.com/fern-ml/fern/internal/tensor"
)

// Add returns a + b with broadcasting.
func (b *Backend) Add(x, y *tensor.RawTensor) *tensor.RawTensor {
	return binaryDispatch(x, y, "add",
		func(a, b float32) float32 { return a + b },
		func(a, b float64) float64 { return a + b },
		func(a, b int32) int32 { return a + b },
		func(a, b int64) int64 { return a + b })
}

// Sub returns a - b with broadcasting.
func (b *Backend) Sub(x, y *tensor.RawTensor) *tensor.RawTensor {
	return binaryDispatch(x, y, "sub",
		func(a, b float32) float32 { return a - b },
		func(a, b float64) float64 { return a - b },
		func(a, b int32) int32 { return a - b },
		func(a, b int64) int64 { return a - b })
}

// Mul returns the elementwise product a * b with broadcasting.
func (b *Backend) Mul(x, y *tensor.RawTensor) *tensor.RawTensor {
	return binaryDispatch(x, y, "mul",
		func(a, b float32) float32 { return a * b },
		func(a, b float64) float64 { return a * b },
		func(a, b int32) int32 { return a * b },
		func(a, b int64) int64 { return a * b })
}

// Div returns the elementwise quotient a / b with broadcasting.
func (b *Backend) Div(x, y *tensor.RawTensor) *tensor.RawTensor {
	return binaryDispatch(x, y, "div",
		func(a, b float32) float32 { return a / b },
		func(a, b float64) float64 { return a / b },
		func(a, b int32) int32 { return a / b },
		func(a, b int64) int64 { return a / b })
}

// binaryDispatch checks dtypes, resolves broadcasting and routes to the
// kernel for the operands' dtype.
func binaryDispatch(x, y *tensor.RawTensor, name string,
	f32 func(a, b float32) float32,
	f64 func(a, b float64) float64,
	i32 func(a, b int32) int32,
	i64 func(a, b int64) int64,
) *tensor.RawTensor {
	if x.DType() != y.DType() {
		panic(fmt.Sprintf("cpu: %s dtype mismatch: %s vs %s", name, x.DType(), y.DType()))
	}

	outShape, broadcast, err := tensor.BroadcastShapes(x.Shape(), y.Shape())
	if err != nil {
		panic(fmt.Sprintf("cpu: %s: %v", name, err))
	}

	// Same-shape ops on a uniquely referenced x run in place and return x.
	// Pinned tensors (recorded forward values, live views) never qualify,
	// so the fast path cannot corrupt anything a backward pass will read.
	out := x
	if broadcast || !x.Shape().Equal(outShape) || !x.IsUnique() {
		out = mustRaw(outShape, x.DType())
	}
	switch x.DType() {
	case tensor.Float32:
		binaryKernel(x.AsFloat32(), y.AsFloat32(), out.AsFloat32(), x.Shape(), y.Shape(), outShape, broadcast, f32)
	case tensor.Float64:
		binaryKernel(x.AsFloat64(), y.AsFloat64(), out.AsFloat64(), x.Shape(), y.Shape(), outShape, broadcast, f64)
	case tensor.Int32:
		binaryKernel(x.AsInt32(), y.AsInt32(), out.AsInt32(), x.Shape(), y.Shape(), outShape, broadcast, i32)
	case tensor.Int64:
		binaryKernel(x.AsInt64(), y.AsInt64(), out.AsInt64(), x.Shape(), y.Shape(), outShape, broadcast, i64)
	default:
		panic(fmt.Sprintf("cpu: %s unsupported dtype %s", name, x.DType()))
	}
	return out
}

// binaryKernel picks between the contiguous fast path and the general
// broadcast path.
func binaryKernel[T number](a, b, out []T, aShape, bShape, outShape tensor.Shape, broadcast bool, f func(T, T) T) {
	if !broadcast {
		parallel.For(len(out), func(start, end int) {
			for i := start; i < end; i++ {
				out[i] = f(a[i], b[i])
			}
		})
		return
	}
	broadcastKernel(a, b, out, aShape, bShape, outShape, f)
}

// broadcastKernel walks the output index space, mapping each output index to
// its source element in a and b under NumPy broadcast semantics.
func broadcastKernel[T number](a, b, out []T, aShape, bShape, outShape tensor.Shape, f func(T, T) T) {
	aStrides := broadcastStrides(aShape, outShape)
	bStrides := broadcastStrides(bShape, outShape)
	outStrides := outShape.ComputeStrides()
	ndim := len(outShape)

	parallel.For(len(out), func(start, end int) {
		idx := make([]int, ndim)
		// Decompose the starting flat index into coordinates once, then
		// increment like an odometer.
		rem := start
		for d := 0; d < ndim; d++ {
			idx[d] = rem / outStrides[d]
			rem %= outStrides[d]
		}
		for i := start; i < end; i++ {
			ai, bi := 0, 0
			for d := 0; d < ndim; d++ {
				ai += idx[d] * aStrides[d]
				bi += idx[d] * bStrides[d]
			}
			out[i] = f(a[ai], b[bi])

			for d := ndim - 1; d >= 0; d-- {
				idx[d]++
				if idx[d] < outShape[d] {
					break
				}
				idx[d] = 0
			}
		}
	})
}

// broadcastStrides returns strides for indexing shape as if it were expanded
// to outShape: broadcast dimensions get stride 0.
func broadcastStrides(shape, outShape tensor.Shape) []int {
	strides := make([]int, len(outShape))
	realStrides := shape.ComputeStrides()
	offset := len(outShape) - len(shape)
	for d := 0; d < len(outShape); d++ {
		if d < offset {
			strides[d] = 0
			continue
		}
		sd := d - offset
		if shape[sd] == 1 && outShape[d] != 1 {
			strides[d] = 0
		} else {
			strides[d] = realStrides[sd]
		}
	}
	return strides
}

// Reshape returns a buffer-sharing view with a new shape.
func (b *Backend) Reshape(x *tensor.RawTensor, shape tensor.Shape) *tensor.RawTensor {
	if shape.NumElements() != x.NumElements() {
		panic(fmt.Sprintf("cpu: reshape %v to %v changes element count", x.Shape(), shape))
	}
	out := x.Clone()
	return out.WithShape(shape)
}

// Transpose returns the transpose of a 2D tensor.
func (b *Backend) Transpose(x *tensor.RawTensor) *tensor.RawTensor {
	shape := x.Shape()
	if len(shape) != 2 {
		panic(fmt.Sprintf("cpu: transpose requires a 2D tensor, got shape %v", shape))
	}
	rows, cols := shape[0], shape[1]
	out := mustRaw(tensor.Shape{cols, rows}, x.DType())

	switch x.DType() {
	case tensor.Float32:
		transposeKernel(x.AsFloat32(), out.AsFloat32(), rows, cols)
	case tensor.Float64:
		transposeKernel(x.AsFloat64(), out.AsFloat64(), rows, cols)
	case tensor.Int32:
		transposeKernel(x.AsInt32(), out.AsInt32(), rows, cols)
	case tensor.Int64:
		transposeKernel(x.AsInt64(), out.AsInt64(), rows, cols)
	case tensor.Uint8:
		transposeKernel(x.AsUint8(), out.AsUint8(), rows, cols)
	default:
		panic(fmt.Sprintf("cpu: transpose unsupported dtype %s", x.DType()))
	}
	return out
}

func transposeKernel[T number](src, dst []T, rows, cols int) {
	parallel.For(rows, func(start, end int) {
		for i := start; i < end; i++ {
			for j := 0; j < cols; j++ {
				dst[j*rows+i] = src[i*cols+j]
			}
		}
	})
}
