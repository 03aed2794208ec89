// Package nn provides neural network layers, parameter containers and loss
// functions for feed-forward networks.
package nn

import (
	"github.com/fern-ml/fern/internal/tensor"
)

// Module is a network component: it transforms a float32 tensor and exposes
// its trainable parameters and serializable state.
type Module[B tensor.Backend] interface {
	// Forward computes the module's output for the given input.
	Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]
	// Parameters returns the module's trainable parameters.
	Parameters() []*Parameter[B]
	// StateDict returns the module's state as named raw tensors.
	StateDict() map[string]*tensor.RawTensor
	// LoadStateDict restores the module's state from named raw tensors.
	LoadStateDict(state map[string]*tensor.RawTensor) error
}

// activationBackend is the fused-activation surface modules probe the
// tensor backend for. The autodiff decorator implements it by delegating
// to the compute backend and recording the op.
type activationBackend interface {
	ReLU(x *tensor.RawTensor) *tensor.RawTensor
	Sigmoid(x *tensor.RawTensor) *tensor.RawTensor
	Tanh(x *tensor.RawTensor) *tensor.RawTensor
}

// lossBackend is the fused-loss surface loss functions probe for.
type lossBackend interface {
	CrossEntropy(logits, targets *tensor.RawTensor) *tensor.RawTensor
	MSE(pred, target *tensor.RawTensor) *tensor.RawTensor
}
