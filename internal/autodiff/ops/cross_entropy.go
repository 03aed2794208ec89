package ops

import (
	"github.com/fern-ml/fern/internal/tensor"
)

// CrossEntropyOp records the fused mean cross-entropy between logits and
// int64 class-index targets. Fusing softmax and negative log-likelihood
// gives the well-conditioned gradient (softmax - onehot) / batch instead of
// chaining a log backward through a softmax backward.
type CrossEntropyOp struct{ base }

// NewCrossEntropy builds the tape record for a cross-entropy loss.
func NewCrossEntropy(logits, targets, out *tensor.RawTensor) *CrossEntropyOp {
	return &CrossEntropyOp{base{inputs: []*tensor.RawTensor{logits, targets}, output: out}}
}

func (o *CrossEntropyOp) Name() string { return "crossEntropy" }

// Backward: dL/dlogits = (softmax(logits) - onehot(targets)) / batch, scaled
// by the upstream scalar gradient. Targets are indices and get no gradient.
func (o *CrossEntropyOp) Backward(grad *tensor.RawTensor, b tensor.Backend) []*tensor.RawTensor {
	logits, targets := o.inputs[0], o.inputs[1]
	batch := logits.Shape()[0]
	classes := logits.Shape()[1]
	scale := scalarValue(grad) / float64(batch)

	soft := b.Softmax(logits, 1)
	idx := targets.AsInt64()

	gradLogits := b.MulScalar(soft, scale)
	switch gradLogits.DType() {
	case tensor.Float32:
		data := gradLogits.AsFloat32()
		for i := 0; i < batch; i++ {
			data[i*classes+int(idx[i])] -= float32(scale)
		}
	case tensor.Float64:
		data := gradLogits.AsFloat64()
		for i := 0; i < batch; i++ {
			data[i*classes+int(idx[i])] -= scale
		}
	}
	return []*tensor.RawTensor{gradLogits, nil}
}
