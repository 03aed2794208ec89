package ops

import (
	"github.com/fern-ml/fern/internal/tensor"
)

// ReshapeOp records z = reshape(a).
type ReshapeOp struct{ base }

// NewReshape builds the tape record for a reshape.
func NewReshape(a, out *tensor.RawTensor) *ReshapeOp {
	return &ReshapeOp{base{inputs: []*tensor.RawTensor{a}, output: out}}
}

func (o *ReshapeOp) Name() string { return "reshape" }

// Backward: the gradient flows through unchanged, in the input's shape.
func (o *ReshapeOp) Backward(grad *tensor.RawTensor, b tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{b.Reshape(grad, o.inputs[0].Shape())}
}

// TransposeOp records z = a^T.
type TransposeOp struct{ base }

// NewTranspose builds the tape record for a 2D transpose.
func NewTranspose(a, out *tensor.RawTensor) *TransposeOp {
	return &TransposeOp{base{inputs: []*tensor.RawTensor{a}, output: out}}
}

func (o *TransposeOp) Name() string { return "transpose" }

func (o *TransposeOp) Backward(grad *tensor.RawTensor, b tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{b.Transpose(grad)}
}
