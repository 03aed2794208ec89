package ops

import (
	"github.com/fern-ml/fern/internal/tensor"
)

// ScalarOp records z = f(a, s) for a fixed scalar s where df/da is a
// constant: add/sub (1), mul (s) and div (1/s) all fit.
type ScalarOp struct {
	base
	name  string
	deriv float64
}

// NewScalar builds the tape record for a scalar operation with the given
// constant derivative.
func NewScalar(name string, a, out *tensor.RawTensor, deriv float64) *ScalarOp {
	return &ScalarOp{base{inputs: []*tensor.RawTensor{a}, output: out}, name, deriv}
}

func (o *ScalarOp) Name() string { return o.name }

func (o *ScalarOp) Backward(grad *tensor.RawTensor, b tensor.Backend) []*tensor.RawTensor {
	if o.deriv == 1 {
		return []*tensor.RawTensor{grad}
	}
	return []*tensor.RawTensor{b.MulScalar(grad, o.deriv)}
}
