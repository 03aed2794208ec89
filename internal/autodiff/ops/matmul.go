package ops

import (
	"github.com/fern-ml/fern/internal/tensor"
)

// MatMulOp records z = a @ b for 2D tensors.
type MatMulOp struct{ base }

// NewMatMul builds the tape record for z = a @ b.
func NewMatMul(a, b, out *tensor.RawTensor) *MatMulOp {
	return &MatMulOp{base{inputs: []*tensor.RawTensor{a, b}, output: out}}
}

func (o *MatMulOp) Name() string { return "matmul" }

// Backward: dz/da = grad @ b^T, dz/db = a^T @ grad.
func (o *MatMulOp) Backward(grad *tensor.RawTensor, b tensor.Backend) []*tensor.RawTensor {
	x, y := o.inputs[0], o.inputs[1]
	return []*tensor.RawTensor{
		b.MatMul(grad, b.Transpose(y)),
		b.MatMul(b.Transpose(x), grad),
	}
}
