package ops

import (
	"github.com/fern-ml/fern/internal/tensor"
)

// ReLUOp records z = max(0, a).
type ReLUOp struct{ base }

// NewReLU builds the tape record for a ReLU.
func NewReLU(a, out *tensor.RawTensor) *ReLUOp {
	return &ReLUOp{base{inputs: []*tensor.RawTensor{a}, output: out}}
}

func (o *ReLUOp) Name() string { return "relu" }

// Backward: gradient passes where the input was positive, zero elsewhere.
func (o *ReLUOp) Backward(grad *tensor.RawTensor, b tensor.Backend) []*tensor.RawTensor {
	mask := floatUnary(o.inputs[0], func(v float64) float64 {
		if v > 0 {
			return 1
		}
		return 0
	})
	return []*tensor.RawTensor{b.Mul(grad, mask)}
}

// SigmoidOp records z = 1 / (1 + e^-a). The output is saved because the
// derivative is cheapest in terms of it.
type SigmoidOp struct{ base }

// NewSigmoid builds the tape record for a sigmoid.
func NewSigmoid(a, out *tensor.RawTensor) *SigmoidOp {
	return &SigmoidOp{base{inputs: []*tensor.RawTensor{a}, output: out}}
}

func (o *SigmoidOp) Name() string { return "sigmoid" }

// Backward: dz/da = z * (1 - z).
func (o *SigmoidOp) Backward(grad *tensor.RawTensor, b tensor.Backend) []*tensor.RawTensor {
	deriv := floatUnary(o.output, func(z float64) float64 { return z * (1 - z) })
	return []*tensor.RawTensor{b.Mul(grad, deriv)}
}

// TanhOp records z = tanh(a).
type TanhOp struct{ base }

// NewTanh builds the tape record for a tanh.
func NewTanh(a, out *tensor.RawTensor) *TanhOp {
	return &TanhOp{base{inputs: []*tensor.RawTensor{a}, output: out}}
}

func (o *TanhOp) Name() string { return "tanh" }

// Backward: dz/da = 1 - z^2.
func (o *TanhOp) Backward(grad *tensor.RawTensor, b tensor.Backend) []*tensor.RawTensor {
	deriv := floatUnary(o.output, func(z float64) float64 { return 1 - z*z })
	return []*tensor.RawTensor{b.Mul(grad, deriv)}
}

// SoftmaxOp records z = softmax(a, dim).
type SoftmaxOp struct {
	base
	dim int
}

// NewSoftmax builds the tape record for a softmax along dim.
func NewSoftmax(a, out *tensor.RawTensor, dim int) *SoftmaxOp {
	return &SoftmaxOp{base{inputs: []*tensor.RawTensor{a}, output: out}, dim}
}

func (o *SoftmaxOp) Name() string { return "softmax" }

// Backward: da_i = z_i * (grad_i - sum_j grad_j * z_j) along dim.
func (o *SoftmaxOp) Backward(grad *tensor.RawTensor, b tensor.Backend) []*tensor.RawTensor {
	z := o.output
	dot := b.SumDim(b.Mul(grad, z), o.dim, true)
	return []*tensor.RawTensor{b.Mul(z, b.Sub(grad, dot))}
}
