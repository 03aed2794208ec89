package cpu

import (
	"fmt"

	"github.com/fern-ml/fern/internal/parallel"
	"github.com/fern-ml/fern/internal/tensor"
)

// AddScalar returns x + scalar.
func (b *Backend) AddScalar(x *tensor.RawTensor, scalar float64) *tensor.RawTensor {
	return scalarDispatch(x, scalar, "addScalar",
		func(a, s float32) float32 { return a + s },
		func(a, s float64) float64 { return a + s })
}

// SubScalar returns x - scalar.
func (b *Backend) SubScalar(x *tensor.RawTensor, scalar float64) *tensor.RawTensor {
	return scalarDispatch(x, scalar, "subScalar",
		func(a, s float32) float32 { return a - s },
		func(a, s float64) float64 { return a - s })
}

// MulScalar returns x * scalar.
func (b *Backend) MulScalar(x *tensor.RawTensor, scalar float64) *tensor.RawTensor {
	return scalarDispatch(x, scalar, "mulScalar",
		func(a, s float32) float32 { return a * s },
		func(a, s float64) float64 { return a * s })
}

// DivScalar returns x / scalar.
func (b *Backend) DivScalar(x *tensor.RawTensor, scalar float64) *tensor.RawTensor {
	return scalarDispatch(x, scalar, "divScalar",
		func(a, s float32) float32 { return a / s },
		func(a, s float64) float64 { return a / s })
}

// scalarDispatch routes scalar operations to the float kernel for the
// operand's dtype. Scalar arithmetic is only defined for float tensors.
func scalarDispatch(x *tensor.RawTensor, scalar float64, name string,
	f32 func(a, s float32) float32,
	f64 func(a, s float64) float64,
) *tensor.RawTensor {
	out := mustRaw(x.Shape(), x.DType())
	switch x.DType() {
	case tensor.Float32:
		scalarKernel(x.AsFloat32(), out.AsFloat32(), float32(scalar), f32)
	case tensor.Float64:
		scalarKernel(x.AsFloat64(), out.AsFloat64(), scalar, f64)
	default:
		panic(fmt.Sprintf("cpu: %s unsupported dtype %s", name, x.DType()))
	}
	return out
}

func scalarKernel[T ~float32 | ~float64](src, dst []T, s T, f func(a, s T) T) {
	parallel.For(len(src), func(start, end int) {
		for i := start; i < end; i++ {
			dst[i] = f(src[i], s)
		}
	})
}
