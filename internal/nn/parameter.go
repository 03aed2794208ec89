package nn

import (
	"fmt"

	"github.com/fern-ml/fern/internal/tensor"
)

// Parameter is a named trainable tensor. Optimizers update the underlying
// RawTensor in place, so its identity must stay stable across steps: the
// gradient map produced by the backward pass is keyed on it.
type Parameter[B tensor.Backend] struct {
	name   string
	tensor *tensor.Tensor[float32, B]
}

// NewParameter wraps a tensor as a named trainable parameter.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return &Parameter[B]{name: name, tensor: t}
}

// Name returns the parameter's name.
func (p *Parameter[B]) Name() string { return p.name }

// Tensor returns the parameter's tensor.
func (p *Parameter[B]) Tensor() *tensor.Tensor[float32, B] { return p.tensor }

// Raw returns the underlying RawTensor, the key for gradient lookup.
func (p *Parameter[B]) Raw() *tensor.RawTensor { return p.tensor.Raw() }

// Shape returns the parameter's shape.
func (p *Parameter[B]) Shape() tensor.Shape { return p.tensor.Shape() }

// CopyFrom overwrites the parameter's values from src, keeping the
// underlying RawTensor identity.
func (p *Parameter[B]) CopyFrom(src *tensor.RawTensor) error {
	if !src.Shape().Equal(p.Shape()) {
		return fmt.Errorf("parameter %s: shape mismatch: have %v, loading %v",
			p.name, p.Shape(), src.Shape())
	}
	if src.DType() != tensor.Float32 {
		return fmt.Errorf("parameter %s: dtype mismatch: loading %s", p.name, src.DType())
	}
	copy(p.tensor.Data(), src.AsFloat32())
	return nil
}
