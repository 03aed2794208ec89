package ops

import (
	"github.com/fern-ml/fern/internal/tensor"
)

// ExpOp records z = e^a.
type ExpOp struct{ base }

// NewExp builds the tape record for an exponential.
func NewExp(a, out *tensor.RawTensor) *ExpOp {
	return &ExpOp{base{inputs: []*tensor.RawTensor{a}, output: out}}
}

func (o *ExpOp) Name() string { return "exp" }

// Backward: dz/da = z.
func (o *ExpOp) Backward(grad *tensor.RawTensor, b tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{b.Mul(grad, o.output)}
}

// LogOp records z = ln(a).
type LogOp struct{ base }

// NewLog builds the tape record for a natural log.
func NewLog(a, out *tensor.RawTensor) *LogOp {
	return &LogOp{base{inputs: []*tensor.RawTensor{a}, output: out}}
}

func (o *LogOp) Name() string { return "log" }

// Backward: dz/da = 1/a.
func (o *LogOp) Backward(grad *tensor.RawTensor, b tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{b.Div(grad, o.inputs[0])}
}

// SqrtOp records z = sqrt(a).
type SqrtOp struct{ base }

// NewSqrt builds the tape record for a square root.
func NewSqrt(a, out *tensor.RawTensor) *SqrtOp {
	return &SqrtOp{base{inputs: []*tensor.RawTensor{a}, output: out}}
}

func (o *SqrtOp) Name() string { return "sqrt" }

// Backward: dz/da = 1 / (2 * z).
func (o *SqrtOp) Backward(grad *tensor.RawTensor, b tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{b.Div(grad, b.MulScalar(o.output, 2))}
}
