// Package ops defines the differentiable operations recorded on the
// gradient tape. Each operation keeps references to its inputs and output
// and knows how to turn an upstream gradient into input gradients.
package ops

import (
	"github.com/fern-ml/fern/internal/tensor"
)

// Operation is a single recorded step of the forward pass.
type Operation interface {
	// Name identifies the operation for debugging.
	Name() string
	// Inputs returns the forward inputs, in order.
	Inputs() []*tensor.RawTensor
	// Output returns the forward result.
	Output() *tensor.RawTensor
	// Backward maps the gradient of the output to gradients of the
	// inputs, aligned with Inputs(). A nil entry means no gradient flows
	// to that input.
	Backward(grad *tensor.RawTensor, b tensor.Backend) []*tensor.RawTensor
}

// base carries the bookkeeping every operation shares.
type base struct {
	inputs []*tensor.RawTensor
	output *tensor.RawTensor
}

func (o *base) Inputs() []*tensor.RawTensor { return o.inputs }
func (o *base) Output() *tensor.RawTensor   { return o.output }
