// Copyright 2025 Fern ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides tape-based reverse-mode automatic
// differentiation as a decorator over any compute backend.
//
// Example:
//
//	backend := autodiff.New(cpu.New())
//	// ... forward pass through the backend ...
//	grads, _ := backend.Tape().Backward(loss, seed, backend)
//	backend.Tape().Clear()
package autodiff

import (
	"github.com/fern-ml/fern/internal/autodiff"
	"github.com/fern-ml/fern/tensor"
)

// Backend wraps a compute backend, recording differentiable operations on
// a gradient tape.
type Backend[B tensor.Backend] = autodiff.AutodiffBackend[B]

// GradientTape records the operations of a forward pass.
type GradientTape = autodiff.GradientTape

// Gradients maps tensors to their accumulated gradients.
type Gradients = autodiff.Gradients

// New wraps a backend with gradient recording enabled.
func New[B tensor.Backend](inner B) *Backend[B] {
	return autodiff.New(inner)
}
