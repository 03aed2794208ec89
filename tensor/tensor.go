// Copyright 2025 Fern ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API for tensor operations in the Fern
// training engine.
//
// The package defines core interfaces and types for type-safe tensor
// operations:
//   - Tensor[T, B]: High-level generic tensor with type safety
//   - RawTensor: Low-level untyped tensor for advanced use cases
//   - Backend: Interface for device-specific compute implementations
//   - Shape, DataType, Device: Core type definitions
//
// Example:
//
//	backend := cpu.New()
//	x, _ := tensor.Zeros[float32](backend, tensor.Shape{2, 3})
//	y, _ := tensor.Ones[float32](backend, tensor.Shape{2, 3})
//	z := x.Add(y)
package tensor

import (
	"math/rand"

	"github.com/fern-ml/fern/internal/tensor"
)

// DType is the constraint for tensor element types.
// Supported types: float32, float64, int32, int64, uint8.
type DType = tensor.DType

// DataType identifies a tensor's element type at runtime.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
	Int32   DataType = tensor.Int32
	Int64   DataType = tensor.Int64
	Uint8   DataType = tensor.Uint8
)

// Device identifies where tensor data lives.
type Device = tensor.Device

// Device constants.
const (
	CPU Device = tensor.CPU
)

// Shape is a tensor's dimension sizes.
type Shape = tensor.Shape

// Tensor is a typed, backend-parameterized tensor.
type Tensor[T DType, B Backend] = tensor.Tensor[T, B]

// RawTensor is the untyped, low-level tensor representation.
type RawTensor = tensor.RawTensor

// Backend is the compute-kernel interface tensors dispatch to.
type Backend = tensor.Backend

// ActivationBackend is the fused-activation kernel surface.
type ActivationBackend = tensor.ActivationBackend

// LossBackend is the fused-loss kernel surface.
type LossBackend = tensor.LossBackend

// BroadcastShapes resolves two shapes under NumPy broadcasting rules.
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	return tensor.BroadcastShapes(a, b)
}

// New wraps an existing RawTensor in a typed tensor.
func New[T DType, B Backend](raw *RawTensor, backend B) *Tensor[T, B] {
	return tensor.New[T](raw, backend)
}

// NewRaw allocates a zero-initialized RawTensor.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype, device)
}

// FromSlice builds a tensor from a flat data slice and a shape.
func FromSlice[T DType, B Backend](backend B, data []T, shape Shape) (*Tensor[T, B], error) {
	return tensor.FromSlice(backend, data, shape)
}

// Zeros creates a tensor filled with zeros.
func Zeros[T DType, B Backend](backend B, shape Shape) (*Tensor[T, B], error) {
	return tensor.Zeros[T](backend, shape)
}

// Ones creates a tensor filled with ones.
func Ones[T DType, B Backend](backend B, shape Shape) (*Tensor[T, B], error) {
	return tensor.Ones[T](backend, shape)
}

// Full creates a tensor filled with the given value.
func Full[T DType, B Backend](backend B, shape Shape, value T) (*Tensor[T, B], error) {
	return tensor.Full(backend, shape, value)
}

// Rand creates a tensor with uniform random values in [0, 1).
func Rand[T DType, B Backend](backend B, shape Shape, rng *rand.Rand) (*Tensor[T, B], error) {
	return tensor.Rand[T](backend, shape, rng)
}

// Randn creates a tensor with standard normal random values.
func Randn[T DType, B Backend](backend B, shape Shape, rng *rand.Rand) (*Tensor[T, B], error) {
	return tensor.Randn[T](backend, shape, rng)
}

// Arange creates a 1D tensor with values [start, end) stepped by step.
func Arange[T DType, B Backend](backend B, start, end, step float64) (*Tensor[T, B], error) {
	return tensor.Arange[T](backend, start, end, step)
}

// Eye creates an n-by-n identity matrix.
func Eye[T DType, B Backend](backend B, n int) (*Tensor[T, B], error) {
	return tensor.Eye[T](backend, n)
}
