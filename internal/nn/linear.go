package nn

import (
	"fmt"
	"math/rand"

	"github.com/fern-ml/fern/internal/tensor"
)

// Linear is a fully connected layer computing y = x @ W^T + b. The weight
// has shape (outFeatures, inFeatures) and the bias shape (outFeatures,).
type Linear[B tensor.Backend] struct {
	weight      *Parameter[B]
	bias        *Parameter[B]
	inFeatures  int
	outFeatures int
}

// LinearInit selects the weight initialization scheme for a Linear layer.
type LinearInit int

const (
	// InitXavier draws weights from the Glorot uniform distribution.
	InitXavier LinearInit = iota
	// InitHe draws weights from the He normal distribution.
	InitHe
)

// NewLinear creates a fully connected layer with Xavier-initialized weights
// and zero bias.
func NewLinear[B tensor.Backend](backend B, inFeatures, outFeatures int, rng *rand.Rand) (*Linear[B], error) {
	return NewLinearInit(backend, inFeatures, outFeatures, InitXavier, rng)
}

// NewLinearInit creates a fully connected layer with the given weight
// initialization and zero bias.
func NewLinearInit[B tensor.Backend](backend B, inFeatures, outFeatures int, init LinearInit, rng *rand.Rand) (*Linear[B], error) {
	if inFeatures <= 0 || outFeatures <= 0 {
		return nil, fmt.Errorf("linear: feature counts must be positive, got in=%d out=%d", inFeatures, outFeatures)
	}

	weight, err := tensor.Zeros[float32](backend, tensor.Shape{outFeatures, inFeatures})
	if err != nil {
		return nil, fmt.Errorf("linear: allocating weight: %w", err)
	}
	switch init {
	case InitHe:
		heNormal(weight.Data(), inFeatures, rng)
	default:
		xavierUniform(weight.Data(), inFeatures, outFeatures, rng)
	}

	bias, err := tensor.Zeros[float32](backend, tensor.Shape{outFeatures})
	if err != nil {
		return nil, fmt.Errorf("linear: allocating bias: %w", err)
	}

	return &Linear[B]{
		weight:      NewParameter("weight", weight),
		bias:        NewParameter("bias", bias),
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
	}, nil
}

// Forward computes x @ W^T + b for a (batch, inFeatures) input.
func (l *Linear[B]) Forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return x.MatMul(l.weight.Tensor().Transpose()).Add(l.bias.Tensor())
}

// Parameters returns the weight and bias.
func (l *Linear[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{l.weight, l.bias}
}

// Weight returns the weight parameter.
func (l *Linear[B]) Weight() *Parameter[B] { return l.weight }

// Bias returns the bias parameter.
func (l *Linear[B]) Bias() *Parameter[B] { return l.bias }

// InFeatures returns the input width.
func (l *Linear[B]) InFeatures() int { return l.inFeatures }

// OutFeatures returns the output width.
func (l *Linear[B]) OutFeatures() int { return l.outFeatures }

// StateDict returns the layer's weight and bias.
func (l *Linear[B]) StateDict() map[string]*tensor.RawTensor {
	return map[string]*tensor.RawTensor{
		"weight": l.weight.Raw(),
		"bias":   l.bias.Raw(),
	}
}

// LoadStateDict restores the layer's weight and bias.
func (l *Linear[B]) LoadStateDict(state map[string]*tensor.RawTensor) error {
	for name, param := range map[string]*Parameter[B]{"weight": l.weight, "bias": l.bias} {
		src, ok := state[name]
		if !ok {
			return fmt.Errorf("linear: state dict missing %q", name)
		}
		if err := param.CopyFrom(src); err != nil {
			return fmt.Errorf("linear: %w", err)
		}
	}
	return nil
}
