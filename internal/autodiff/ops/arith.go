package ops

import (
	"github.com/fern-ml/fern/internal/tensor"
)

// AddOp records z = a + b.
type AddOp struct{ base }

// NewAdd builds the tape record for z = a + b.
func NewAdd(a, b, out *tensor.RawTensor) *AddOp {
	return &AddOp{base{inputs: []*tensor.RawTensor{a, b}, output: out}}
}

func (o *AddOp) Name() string { return "add" }

// Backward: dz/da = dz/db = 1, reduced over broadcast dimensions.
func (o *AddOp) Backward(grad *tensor.RawTensor, b tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{
		reduceBroadcast(grad, o.inputs[0].Shape(), b),
		reduceBroadcast(grad, o.inputs[1].Shape(), b),
	}
}

// SubOp records z = a - b.
type SubOp struct{ base }

// NewSub builds the tape record for z = a - b.
func NewSub(a, b, out *tensor.RawTensor) *SubOp {
	return &SubOp{base{inputs: []*tensor.RawTensor{a, b}, output: out}}
}

func (o *SubOp) Name() string { return "sub" }

func (o *SubOp) Backward(grad *tensor.RawTensor, b tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{
		reduceBroadcast(grad, o.inputs[0].Shape(), b),
		reduceBroadcast(b.MulScalar(grad, -1), o.inputs[1].Shape(), b),
	}
}

// MulOp records z = a * b (elementwise).
type MulOp struct{ base }

// NewMul builds the tape record for z = a * b.
func NewMul(a, b, out *tensor.RawTensor) *MulOp {
	return &MulOp{base{inputs: []*tensor.RawTensor{a, b}, output: out}}
}

func (o *MulOp) Name() string { return "mul" }

// Backward: dz/da = b, dz/db = a.
func (o *MulOp) Backward(grad *tensor.RawTensor, b tensor.Backend) []*tensor.RawTensor {
	x, y := o.inputs[0], o.inputs[1]
	return []*tensor.RawTensor{
		reduceBroadcast(b.Mul(grad, y), x.Shape(), b),
		reduceBroadcast(b.Mul(grad, x), y.Shape(), b),
	}
}

// DivOp records z = a / b (elementwise).
type DivOp struct{ base }

// NewDiv builds the tape record for z = a / b.
func NewDiv(a, b, out *tensor.RawTensor) *DivOp {
	return &DivOp{base{inputs: []*tensor.RawTensor{a, b}, output: out}}
}

func (o *DivOp) Name() string { return "div" }

// Backward: dz/da = 1/b, dz/db = -a/b^2.
func (o *DivOp) Backward(grad *tensor.RawTensor, b tensor.Backend) []*tensor.RawTensor {
	x, y := o.inputs[0], o.inputs[1]
	gradX := b.Div(grad, y)
	gradY := b.MulScalar(b.Div(b.Mul(grad, x), b.Mul(y, y)), -1)
	return []*tensor.RawTensor{
		reduceBroadcast(gradX, x.Shape(), b),
		reduceBroadcast(gradY, y.Shape(), b),
	}
}
