// Package optim implements gradient-descent optimizers. An optimizer owns a
// fixed set of parameters and updates them in place from the gradients a
// backward pass produced.
package optim

import (
	"fmt"

	"github.com/fern-ml/fern/internal/autodiff"
	"github.com/fern-ml/fern/internal/nn"
	"github.com/fern-ml/fern/internal/tensor"
)

// Optimizer updates trainable parameters from accumulated gradients.
type Optimizer[B tensor.Backend] interface {
	// Step applies one update to every parameter that received a gradient.
	Step(grads *autodiff.Gradients) error
	// Name identifies the optimizer for logging and checkpoints.
	Name() string
	// Config returns the optimizer's hyperparameters for checkpoints.
	Config() map[string]float64
	// LearningRate returns the current learning rate.
	LearningRate() float64
	// SetLR replaces the learning rate, for schedules and warm restarts.
	SetLR(lr float64)
}

// gradFor looks up a parameter's gradient and validates its shape and dtype.
// A parameter without a gradient is skipped by returning nil.
func gradFor[B tensor.Backend](p *nn.Parameter[B], grads *autodiff.Gradients) ([]float32, error) {
	grad, ok := grads.Get(p.Raw())
	if !ok {
		return nil, nil
	}
	if grad.DType() != tensor.Float32 {
		return nil, fmt.Errorf("optim: parameter %s has %s gradient", p.Name(), grad.DType())
	}
	if !grad.Shape().Equal(p.Shape()) {
		return nil, fmt.Errorf("optim: parameter %s shape %v has gradient shape %v",
			p.Name(), p.Shape(), grad.Shape())
	}
	return grad.AsFloat32(), nil
}
