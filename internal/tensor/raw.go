package tensor

import (
	"fmt"
	"sync/atomic"
	"unsafe"
)

// Device identifies where tensor data lives. The engine only ships a CPU
// backend; the enum keeps backend dispatch explicit.
type Device int

// Supported compute devices.
const (
	CPU Device = iota
)

// String returns a human-readable device name.
func (d Device) String() string {
	switch d {
	case CPU:
		return "CPU"
	default:
		return "Unknown"
	}
}

// buffer is a reference-counted byte buffer shared between tensor views.
// Reference counting enables cheap cloning and lets backends perform in-place
// updates when refCount == 1.
type buffer struct {
	data     []byte
	refCount atomic.Int32
}

func newBuffer(size int) *buffer {
	b := &buffer{data: make([]byte, size)}
	b.refCount.Store(1)
	return b
}

func (b *buffer) addRef() {
	b.refCount.Add(1)
}

func (b *buffer) release() {
	if b.refCount.Add(-1) == 0 {
		b.data = nil
	}
}

func (b *buffer) isUnique() bool {
	return b.refCount.Load() == 1
}

// RawTensor is the untyped, low-level tensor representation: a shared
// byte buffer plus shape, stride and dtype metadata.
type RawTensor struct {
	buf    *buffer
	shape  Shape
	stride []int
	dtype  DataType
	device Device
}

// NewRaw allocates a zero-initialized RawTensor.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	return &RawTensor{
		buf:    newBuffer(shape.NumElements() * dtype.Size()),
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		dtype:  dtype,
		device: device,
	}, nil
}

// Shape returns the tensor's shape.
func (r *RawTensor) Shape() Shape { return r.shape }

// Strides returns the tensor's row-major strides.
func (r *RawTensor) Strides() []int { return r.stride }

// DType returns the tensor's data type.
func (r *RawTensor) DType() DataType { return r.dtype }

// Device returns the tensor's compute device.
func (r *RawTensor) Device() Device { return r.device }

// NumElements returns the total number of elements.
func (r *RawTensor) NumElements() int { return r.shape.NumElements() }

// ByteSize returns the payload size in bytes.
func (r *RawTensor) ByteSize() int { return r.NumElements() * r.dtype.Size() }

// Data returns the raw byte slice backing the tensor.
func (r *RawTensor) Data() []byte { return r.buf.data }

// AsFloat32 interprets the data as []float32.
// Panics if the dtype is not Float32.
func (r *RawTensor) AsFloat32() []float32 {
	if r.dtype != Float32 {
		panic(fmt.Sprintf("tensor dtype is %s, not float32", r.dtype))
	}
	return unsafe.Slice((*float32)(unsafe.Pointer(&r.buf.data[0])), r.NumElements())
}

// AsFloat64 interprets the data as []float64.
// Panics if the dtype is not Float64.
func (r *RawTensor) AsFloat64() []float64 {
	if r.dtype != Float64 {
		panic(fmt.Sprintf("tensor dtype is %s, not float64", r.dtype))
	}
	return unsafe.Slice((*float64)(unsafe.Pointer(&r.buf.data[0])), r.NumElements())
}

// AsInt32 interprets the data as []int32.
// Panics if the dtype is not Int32.
func (r *RawTensor) AsInt32() []int32 {
	if r.dtype != Int32 {
		panic(fmt.Sprintf("tensor dtype is %s, not int32", r.dtype))
	}
	return unsafe.Slice((*int32)(unsafe.Pointer(&r.buf.data[0])), r.NumElements())
}

// AsInt64 interprets the data as []int64.
// Panics if the dtype is not Int64.
func (r *RawTensor) AsInt64() []int64 {
	if r.dtype != Int64 {
		panic(fmt.Sprintf("tensor dtype is %s, not int64", r.dtype))
	}
	return unsafe.Slice((*int64)(unsafe.Pointer(&r.buf.data[0])), r.NumElements())
}

// AsUint8 interprets the data as []uint8.
// Panics if the dtype is not Uint8.
func (r *RawTensor) AsUint8() []uint8 {
	if r.dtype != Uint8 {
		panic(fmt.Sprintf("tensor dtype is %s, not uint8", r.dtype))
	}
	return r.buf.data
}

// Clone creates a shallow copy sharing the same buffer (copy-on-write:
// the refcount increment disables in-place kernel paths on both views).
func (r *RawTensor) Clone() *RawTensor {
	r.buf.addRef()
	return &RawTensor{
		buf:    r.buf,
		shape:  r.shape.Clone(),
		stride: append([]int(nil), r.stride...),
		dtype:  r.dtype,
		device: r.device,
	}
}

// WithShape returns the receiver reshaped in place. The element count must
// match; callers validate it.
func (r *RawTensor) WithShape(shape Shape) *RawTensor {
	r.shape = shape.Clone()
	r.stride = shape.ComputeStrides()
	return r
}

// Release decrements the buffer's reference count.
func (r *RawTensor) Release() {
	r.buf.release()
}

// IsUnique reports whether this tensor holds the only reference to its
// buffer. Backends may update the buffer in place only when true.
func (r *RawTensor) IsUnique() bool {
	return r.buf.isUnique()
}

// Pin bumps the refcount so in-place kernel paths are disabled for the
// tensor, and returns the function that undoes it (use with defer).
//
// The autodiff decorator pins every recorded input: an in-place update
// during a later forward op would corrupt the values the backward pass
// needs.
func (r *RawTensor) Pin() func() {
	r.buf.addRef()
	return r.buf.release
}
