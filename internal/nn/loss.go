package nn

import (
	"fmt"

	"github.com/fern-ml/fern/internal/tensor"
)

// CrossEntropyLoss computes mean cross-entropy from raw logits and int64
// class indices. It dispatches to the backend's fused kernel, so the
// backward pass sees a single well-conditioned op instead of a
// softmax-then-log chain.
type CrossEntropyLoss[B tensor.Backend] struct{}

// NewCrossEntropyLoss creates a cross-entropy loss.
func NewCrossEntropyLoss[B tensor.Backend]() *CrossEntropyLoss[B] {
	return &CrossEntropyLoss[B]{}
}

// Forward computes the mean loss over the batch as a one-element tensor.
func (c *CrossEntropyLoss[B]) Forward(logits *tensor.Tensor[float32, B], targets *tensor.Tensor[int64, B]) *tensor.Tensor[float32, B] {
	lb := mustLossBackend(logits.Backend())
	return tensor.New[float32](lb.CrossEntropy(logits.Raw(), targets.Raw()), logits.Backend())
}

// MSELoss computes the mean squared error between predictions and targets.
type MSELoss[B tensor.Backend] struct{}

// NewMSELoss creates an MSE loss.
func NewMSELoss[B tensor.Backend]() *MSELoss[B] {
	return &MSELoss[B]{}
}

// Forward computes the mean loss as a one-element tensor.
func (m *MSELoss[B]) Forward(pred, target *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	lb := mustLossBackend(pred.Backend())
	return tensor.New[float32](lb.MSE(pred.Raw(), target.Raw()), pred.Backend())
}

// Accuracy returns the fraction of rows where the argmax of logits matches
// the target class.
func Accuracy[B tensor.Backend](logits *tensor.Tensor[float32, B], targets *tensor.Tensor[int64, B]) float64 {
	pred := logits.Argmax(1).AsInt64()
	want := targets.Data()
	if len(pred) != len(want) {
		panic(fmt.Sprintf("nn: accuracy: %d predictions vs %d targets", len(pred), len(want)))
	}
	correct := 0
	for i := range pred {
		if pred[i] == want[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(pred))
}

func mustLossBackend(b tensor.Backend) lossBackend {
	lb, ok := any(b).(lossBackend)
	if !ok {
		panic(fmt.Sprintf("nn: backend %T does not provide loss kernels", b))
	}
	return lb
}
