package cpu

import (
	"fmt"
	"math"

	"github.com/fern-ml/fern/internal/parallel"
	"github.com/fern-ml/fern/internal/tensor"
)

// Exp returns elementwise e^x.
func (b *Backend) Exp(x *tensor.RawTensor) *tensor.RawTensor {
	return unaryDispatch(x, "exp", math.Exp)
}

// Log returns the elementwise natural logarithm.
func (b *Backend) Log(x *tensor.RawTensor) *tensor.RawTensor {
	return unaryDispatch(x, "log", math.Log)
}

// Sqrt returns the elementwise square root.
func (b *Backend) Sqrt(x *tensor.RawTensor) *tensor.RawTensor {
	return unaryDispatch(x, "sqrt", math.Sqrt)
}

// unaryDispatch applies a float64 math function elementwise. Pointwise math
// is only defined for float tensors.
func unaryDispatch(x *tensor.RawTensor, name string, f func(float64) float64) *tensor.RawTensor {
	out := mustRaw(x.Shape(), x.DType())
	switch x.DType() {
	case tensor.Float32:
		src, dst := x.AsFloat32(), out.AsFloat32()
		parallel.For(len(src), func(start, end int) {
			for i := start; i < end; i++ {
				dst[i] = float32(f(float64(src[i])))
			}
		})
	case tensor.Float64:
		src, dst := x.AsFloat64(), out.AsFloat64()
		parallel.For(len(src), func(start, end int) {
			for i := start; i < end; i++ {
				dst[i] = f(src[i])
			}
		})
	default:
		panic(fmt.Sprintf("cpu: %s unsupported dtype %s", name, x.DType()))
	}
	return out
}
