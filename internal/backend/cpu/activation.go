package cpu

import (
	"math"

	"github.com/fern-ml/fern/internal/tensor"
)

// ReLU returns elementwise max(0, x).
func (b *Backend) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	return unaryDispatch(x, "relu", func(v float64) float64 {
		if v > 0 {
			return v
		}
		return 0
	})
}

// Sigmoid returns elementwise 1 / (1 + e^-x).
func (b *Backend) Sigmoid(x *tensor.RawTensor) *tensor.RawTensor {
	return unaryDispatch(x, "sigmoid", func(v float64) float64 {
		return 1 / (1 + math.Exp(-v))
	})
}

// Tanh returns elementwise hyperbolic tangent.
func (b *Backend) Tanh(x *tensor.RawTensor) *tensor.RawTensor {
	return unaryDispatch(x, "tanh", math.Tanh)
}
