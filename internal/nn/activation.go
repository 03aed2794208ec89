package nn

import (
	"fmt"

	"github.com/fern-ml/fern/internal/tensor"
)

// ReLU applies max(0, x) elementwise. Stateless.
type ReLU[B tensor.Backend] struct{}

// NewReLU creates a ReLU activation.
func NewReLU[B tensor.Backend]() *ReLU[B] { return &ReLU[B]{} }

// Forward applies the activation.
func (r *ReLU[B]) Forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return applyActivation(x, "relu", activationBackend.ReLU)
}

// Parameters returns nil; ReLU has no trainable state.
func (r *ReLU[B]) Parameters() []*Parameter[B] { return nil }

// StateDict returns an empty map.
func (r *ReLU[B]) StateDict() map[string]*tensor.RawTensor { return map[string]*tensor.RawTensor{} }

// LoadStateDict is a no-op.
func (r *ReLU[B]) LoadStateDict(map[string]*tensor.RawTensor) error { return nil }

// Sigmoid applies 1 / (1 + e^-x) elementwise. Stateless.
type Sigmoid[B tensor.Backend] struct{}

// NewSigmoid creates a sigmoid activation.
func NewSigmoid[B tensor.Backend]() *Sigmoid[B] { return &Sigmoid[B]{} }

// Forward applies the activation.
func (s *Sigmoid[B]) Forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return applyActivation(x, "sigmoid", activationBackend.Sigmoid)
}

// Parameters returns nil; Sigmoid has no trainable state.
func (s *Sigmoid[B]) Parameters() []*Parameter[B] { return nil }

// StateDict returns an empty map.
func (s *Sigmoid[B]) StateDict() map[string]*tensor.RawTensor { return map[string]*tensor.RawTensor{} }

// LoadStateDict is a no-op.
func (s *Sigmoid[B]) LoadStateDict(map[string]*tensor.RawTensor) error { return nil }

// Tanh applies the hyperbolic tangent elementwise. Stateless.
type Tanh[B tensor.Backend] struct{}

// NewTanh creates a tanh activation.
func NewTanh[B tensor.Backend]() *Tanh[B] { return &Tanh[B]{} }

// Forward applies the activation.
func (t *Tanh[B]) Forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return applyActivation(x, "tanh", activationBackend.Tanh)
}

// Parameters returns nil; Tanh has no trainable state.
func (t *Tanh[B]) Parameters() []*Parameter[B] { return nil }

// StateDict returns an empty map.
func (t *Tanh[B]) StateDict() map[string]*tensor.RawTensor { return map[string]*tensor.RawTensor{} }

// LoadStateDict is a no-op.
func (t *Tanh[B]) LoadStateDict(map[string]*tensor.RawTensor) error { return nil }

// Softmax normalizes along dim. Prefer CrossEntropyLoss over a trailing
// Softmax when training a classifier; the fused loss is better conditioned.
type Softmax[B tensor.Backend] struct {
	dim int
}

// NewSoftmax creates a softmax over the given dimension.
func NewSoftmax[B tensor.Backend](dim int) *Softmax[B] { return &Softmax[B]{dim: dim} }

// Forward applies softmax along the configured dimension.
func (s *Softmax[B]) Forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return x.Softmax(s.dim)
}

// Parameters returns nil; Softmax has no trainable state.
func (s *Softmax[B]) Parameters() []*Parameter[B] { return nil }

// StateDict returns an empty map.
func (s *Softmax[B]) StateDict() map[string]*tensor.RawTensor { return map[string]*tensor.RawTensor{} }

// LoadStateDict is a no-op.
func (s *Softmax[B]) LoadStateDict(map[string]*tensor.RawTensor) error { return nil }

// applyActivation routes through the backend's fused activation kernels.
func applyActivation[B tensor.Backend](x *tensor.Tensor[float32, B], name string,
	apply func(activationBackend, *tensor.RawTensor) *tensor.RawTensor) *tensor.Tensor[float32, B] {
	ab, ok := any(x.Backend()).(activationBackend)
	if !ok {
		panic(fmt.Sprintf("nn: backend %T does not provide %s", x.Backend(), name))
	}
	return tensor.New[float32](apply(ab, x.Raw()), x.Backend())
}
