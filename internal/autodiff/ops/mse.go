package ops

import (
	"github.com/fern-ml/fern/internal/tensor"
)

// MSEOp records the mean squared error between predictions and targets.
type MSEOp struct{ base }

// NewMSE builds the tape record for an MSE loss.
func NewMSE(pred, target, out *tensor.RawTensor) *MSEOp {
	return &MSEOp{base{inputs: []*tensor.RawTensor{pred, target}, output: out}}
}

func (o *MSEOp) Name() string { return "mse" }

// Backward: dL/dpred = 2 * (pred - target) / n, scaled by the upstream
// scalar gradient. Targets are data, not parameters; no gradient flows.
func (o *MSEOp) Backward(grad *tensor.RawTensor, b tensor.Backend) []*tensor.RawTensor {
	pred, target := o.inputs[0], o.inputs[1]
	scale := 2 * scalarValue(grad) / float64(pred.NumElements())
	diff := b.Sub(pred, target)
	return []*tensor.RawTensor{b.MulScalar(diff, scale), nil}
}
