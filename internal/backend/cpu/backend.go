// Package cpu implements the CPU compute backend. Matrix products route
// through gonum BLAS; elementwise kernels are generic Go loops split across
// cores by the parallel package.
package cpu

import (
	"github.com/fern-ml/fern/internal/tensor"
)

// Backend is the CPU implementation of tensor.Backend.
type Backend struct{}

// New creates a CPU backend.
func New() *Backend {
	return &Backend{}
}

// Name returns the backend identifier.
func (b *Backend) Name() string { return "cpu" }

// Device returns tensor.CPU.
func (b *Backend) Device() tensor.Device { return tensor.CPU }

// number is the set of element types CPU kernels operate on.
type number interface {
	~float32 | ~float64 | ~int32 | ~int64 | ~uint8
}

// mustRaw allocates a result tensor, panicking on invalid shapes. Kernels
// treat allocation failure as a programmer error.
func mustRaw(shape tensor.Shape, dtype tensor.DataType) *tensor.RawTensor {
	raw, err := tensor.NewRaw(shape, dtype, tensor.CPU)
	if err != nil {
		panic(err)
	}
	return raw
}
