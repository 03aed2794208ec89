// Copyright 2025 Fern ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the CPU compute backend. Matrix products use gonum's
// BLAS implementation; elementwise kernels are parallelized Go loops.
package cpu

import (
	internalcpu "github.com/fern-ml/fern/internal/backend/cpu"
	"github.com/fern-ml/fern/tensor"
)

// Backend is the CPU backend implementation.
type Backend = internalcpu.Backend

// Compile-time checks that Backend implements the full kernel surface.
var (
	_ tensor.Backend           = (*Backend)(nil)
	_ tensor.ActivationBackend = (*Backend)(nil)
	_ tensor.LossBackend       = (*Backend)(nil)
)

// New creates a CPU backend.
//
// Example:
//
//	backend := cpu.New()
//	x, _ := tensor.Zeros[float32](backend, tensor.Shape{2, 3})
func New() *Backend {
	return internalcpu.New()
}
