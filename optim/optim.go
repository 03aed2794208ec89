// Copyright 2025 Fern ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides gradient-descent optimizers.
//
// Example:
//
//	opt, _ := optim.NewSGD(model.Parameters(), 0.01, 0.9)
//	grads, _ := backend.Tape().Backward(loss, seed, backend)
//	_ = opt.Step(grads)
package optim

import (
	"github.com/fern-ml/fern/internal/nn"
	"github.com/fern-ml/fern/internal/optim"
	"github.com/fern-ml/fern/tensor"
)

// Optimizer updates trainable parameters from accumulated gradients.
type Optimizer[B tensor.Backend] = optim.Optimizer[B]

// SGD is stochastic gradient descent with optional momentum.
type SGD[B tensor.Backend] = optim.SGD[B]

// Adam implements the Adam optimizer.
type Adam[B tensor.Backend] = optim.Adam[B]

// NewSGD creates an SGD optimizer over the given parameters.
func NewSGD[B tensor.Backend](params []*nn.Parameter[B], lr, momentum float64) (*SGD[B], error) {
	return optim.NewSGD(params, lr, momentum)
}

// NewAdam creates an Adam optimizer with standard defaults.
func NewAdam[B tensor.Backend](params []*nn.Parameter[B], lr float64) (*Adam[B], error) {
	return optim.NewAdam(params, lr)
}

// NewAdamConfig creates an Adam optimizer with explicit moment decay
// rates.
func NewAdamConfig[B tensor.Backend](params []*nn.Parameter[B], lr, beta1, beta2, eps float64) (*Adam[B], error) {
	return optim.NewAdamConfig(params, lr, beta1, beta2, eps)
}
