package ops

import (
	"fmt"

	"github.com/fern-ml/fern/internal/tensor"
)

// reduceBroadcast undoes broadcasting: it sums grad down to shape so that
// each input element receives the gradients of every output element it was
// expanded into.
func reduceBroadcast(grad *tensor.RawTensor, shape tensor.Shape, b tensor.Backend) *tensor.RawTensor {
	if grad.Shape().Equal(shape) {
		return grad
	}

	result := grad
	// Sum away the leading dimensions broadcasting prepended.
	for len(result.Shape()) > len(shape) {
		result = b.SumDim(result, 0, false)
	}
	// Sum the dimensions that were expanded from size 1.
	for d := 0; d < len(shape); d++ {
		if shape[d] == 1 && result.Shape()[d] != 1 {
			result = b.SumDim(result, d, true)
		}
	}
	if !result.Shape().Equal(shape) {
		result = b.Reshape(result, shape)
	}
	return result
}

// zerosLike allocates a zero tensor matching shape and dtype.
func zerosLike(t *tensor.RawTensor) *tensor.RawTensor {
	out, err := tensor.NewRaw(t.Shape(), t.DType(), t.Device())
	if err != nil {
		panic(err)
	}
	return out
}

// floatUnary applies f elementwise over a float tensor, producing a new
// tensor. Backward passes use it for gradients with no backend kernel.
func floatUnary(t *tensor.RawTensor, f func(float64) float64) *tensor.RawTensor {
	out := zerosLike(t)
	switch t.DType() {
	case tensor.Float32:
		src, dst := t.AsFloat32(), out.AsFloat32()
		for i, v := range src {
			dst[i] = float32(f(float64(v)))
		}
	case tensor.Float64:
		src, dst := t.AsFloat64(), out.AsFloat64()
		for i, v := range src {
			dst[i] = f(v)
		}
	default:
		panic(fmt.Sprintf("ops: float operation on dtype %s", t.DType()))
	}
	return out
}

// scalarValue reads the sole element of a one-element float tensor.
func scalarValue(t *tensor.RawTensor) float64 {
	if t.NumElements() != 1 {
		panic(fmt.Sprintf("ops: expected scalar gradient, got shape %v", t.Shape()))
	}
	switch t.DType() {
	case tensor.Float32:
		return float64(t.AsFloat32()[0])
	case tensor.Float64:
		return t.AsFloat64()[0]
	default:
		panic(fmt.Sprintf("ops: scalar gradient has dtype %s", t.DType()))
	}
}
