package cpu

import (
	"fmt"

	"github.com/fern-ml/fern/internal/tensor"
)

// Sum reduces all elements to a single-element tensor of shape {1}.
func (b *Backend) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	out := mustRaw(tensor.Shape{1}, x.DType())
	switch x.DType() {
	case tensor.Float32:
		out.AsFloat32()[0] = sumAll(x.AsFloat32())
	case tensor.Float64:
		out.AsFloat64()[0] = sumAll(x.AsFloat64())
	case tensor.Int32:
		out.AsInt32()[0] = sumAll(x.AsInt32())
	case tensor.Int64:
		out.AsInt64()[0] = sumAll(x.AsInt64())
	default:
		panic(fmt.Sprintf("cpu: sum unsupported dtype %s", x.DType()))
	}
	return out
}

func sumAll[T number](data []T) T {
	var s T
	for _, v := range data {
		s += v
	}
	return s
}

// SumDim sums along dim.
func (b *Backend) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return b.reduceDim(x, dim, keepDim, false)
}

// MeanDim averages along dim. Only defined for float tensors.
func (b *Backend) MeanDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	if !x.DType().IsFloat() {
		panic(fmt.Sprintf("cpu: meanDim unsupported dtype %s", x.DType()))
	}
	return b.reduceDim(x, dim, keepDim, true)
}

func (b *Backend) reduceDim(x *tensor.RawTensor, dim int, keepDim, mean bool) *tensor.RawTensor {
	shape := x.Shape()
	dim = normalizeDim(dim, len(shape), "reduce")
	out := mustRaw(reducedShape(shape, dim, keepDim), x.DType())

	switch x.DType() {
	case tensor.Float32:
		reduceKernel(x.AsFloat32(), out.AsFloat32(), shape, dim, mean)
	case tensor.Float64:
		reduceKernel(x.AsFloat64(), out.AsFloat64(), shape, dim, mean)
	case tensor.Int32:
		reduceKernel(x.AsInt32(), out.AsInt32(), shape, dim, mean)
	case tensor.Int64:
		reduceKernel(x.AsInt64(), out.AsInt64(), shape, dim, mean)
	default:
		panic(fmt.Sprintf("cpu: reduce unsupported dtype %s", x.DType()))
	}
	return out
}

func reduceKernel[T number](src, dst []T, shape tensor.Shape, dim int, mean bool) {
	dimSize := shape[dim]
	outer, inner := 1, 1
	for d := 0; d < dim; d++ {
		outer *= shape[d]
	}
	for d := dim + 1; d < len(shape); d++ {
		inner *= shape[d]
	}

	for o := 0; o < outer; o++ {
		for in := 0; in < inner; in++ {
			base := o*dimSize*inner + in
			var s T
			for i := 0; i < dimSize; i++ {
				s += src[base+i*inner]
			}
			if mean {
				s /= T(dimSize)
			}
			dst[o*inner+in] = s
		}
	}
}

// Argmax returns the Int64 indices of maxima along dim. Ties resolve to the
// lowest index. The reduced dimension is removed from the output shape.
func (b *Backend) Argmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	dim = normalizeDim(dim, len(shape), "argmax")
	out := mustRaw(reducedShape(shape, dim, false), tensor.Int64)

	switch x.DType() {
	case tensor.Float32:
		argmaxKernel(x.AsFloat32(), out.AsInt64(), shape, dim)
	case tensor.Float64:
		argmaxKernel(x.AsFloat64(), out.AsInt64(), shape, dim)
	case tensor.Int32:
		argmaxKernel(x.AsInt32(), out.AsInt64(), shape, dim)
	case tensor.Int64:
		argmaxKernel(x.AsInt64(), out.AsInt64(), shape, dim)
	default:
		panic(fmt.Sprintf("cpu: argmax unsupported dtype %s", x.DType()))
	}
	return out
}

func argmaxKernel[T number](src []T, dst []int64, shape tensor.Shape, dim int) {
	dimSize := shape[dim]
	outer, inner := 1, 1
	for d := 0; d < dim; d++ {
		outer *= shape[d]
	}
	for d := dim + 1; d < len(shape); d++ {
		inner *= shape[d]
	}

	for o := 0; o < outer; o++ {
		for in := 0; in < inner; in++ {
			base := o*dimSize*inner + in
			best, bestIdx := src[base], int64(0)
			for i := 1; i < dimSize; i++ {
				if v := src[base+i*inner]; v > best {
					best, bestIdx = v, int64(i)
				}
			}
			dst[o*inner+in] = bestIdx
		}
	}
}

// reducedShape removes (or collapses to 1) the reduced dimension. Reducing
// a 1D tensor yields shape {1}.
func reducedShape(shape tensor.Shape, dim int, keepDim bool) tensor.Shape {
	if keepDim {
		out := shape.Clone()
		out[dim] = 1
		return out
	}
	if len(shape) == 1 {
		return tensor.Shape{1}
	}
	out := make(tensor.Shape, 0, len(shape)-1)
	for d, s := range shape {
		if d != dim {
			out = append(out, s)
		}
	}
	return out
}
