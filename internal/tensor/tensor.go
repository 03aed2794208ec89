package tensor

import (
	"fmt"
	"strings"
)

// Tensor is a typed, backend-parameterized view over a RawTensor. The type
// parameters move dtype and backend mismatches from runtime checks to
// compile errors.
type Tensor[T DType, B Backend] struct {
	raw     *RawTensor
	backend B
}

// New wraps an existing RawTensor. Panics if the raw dtype does not match T.
func New[T DType, B Backend](raw *RawTensor, backend B) *Tensor[T, B] {
	var dummy T
	if want := inferDataType(dummy); raw.DType() != want {
		panic(fmt.Sprintf("raw tensor dtype %s does not match type parameter %s", raw.DType(), want))
	}
	return &Tensor[T, B]{raw: raw, backend: backend}
}

// FromSlice builds a tensor from a flat data slice and a shape.
func FromSlice[T DType, B Backend](backend B, data []T, shape Shape) (*Tensor[T, B], error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if len(data) != shape.NumElements() {
		return nil, fmt.Errorf("data length %d does not match shape %v (%d elements)",
			len(data), shape, shape.NumElements())
	}
	var dummy T
	raw, err := NewRaw(shape, inferDataType(dummy), backend.Device())
	if err != nil {
		return nil, err
	}
	copy(typedData[T](raw), data)
	return &Tensor[T, B]{raw: raw, backend: backend}, nil
}

// Raw returns the underlying RawTensor.
func (t *Tensor[T, B]) Raw() *RawTensor { return t.raw }

// Backend returns the tensor's compute backend.
func (t *Tensor[T, B]) Backend() B { return t.backend }

// Shape returns the tensor's shape.
func (t *Tensor[T, B]) Shape() Shape { return t.raw.Shape() }

// DType returns the tensor's data type.
func (t *Tensor[T, B]) DType() DataType { return t.raw.DType() }

// NumElements returns the total number of elements.
func (t *Tensor[T, B]) NumElements() int { return t.raw.NumElements() }

// Data returns the typed data slice. The slice aliases tensor memory.
func (t *Tensor[T, B]) Data() []T { return typedData[T](t.raw) }

// At returns the element at the given indices.
func (t *Tensor[T, B]) At(indices ...int) T {
	return t.Data()[t.flatIndex(indices)]
}

// Set writes the element at the given indices.
func (t *Tensor[T, B]) Set(value T, indices ...int) {
	t.Data()[t.flatIndex(indices)] = value
}

// Item returns the sole element of a one-element tensor.
// Panics if the tensor has more than one element.
func (t *Tensor[T, B]) Item() T {
	if t.NumElements() != 1 {
		panic(fmt.Sprintf("Item called on tensor with %d elements", t.NumElements()))
	}
	return t.Data()[0]
}

// Clone returns a copy sharing the underlying buffer (copy-on-write).
func (t *Tensor[T, B]) Clone() *Tensor[T, B] {
	return &Tensor[T, B]{raw: t.raw.Clone(), backend: t.backend}
}

// String renders shape, dtype and a truncated data preview.
func (t *Tensor[T, B]) String() string {
	data := t.Data()
	var b strings.Builder
	fmt.Fprintf(&b, "Tensor(shape=%v, dtype=%s, data=[", t.Shape(), t.DType())
	limit := len(data)
	if limit > 8 {
		limit = 8
	}
	for i := 0; i < limit; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%v", data[i])
	}
	if len(data) > limit {
		b.WriteString(", ...")
	}
	b.WriteString("])")
	return b.String()
}

func (t *Tensor[T, B]) flatIndex(indices []int) int {
	shape := t.raw.shape
	if len(indices) != len(shape) {
		panic(fmt.Sprintf("expected %d indices for shape %v, got %d", len(shape), shape, len(indices)))
	}
	flat := 0
	for i, idx := range indices {
		if idx < 0 || idx >= shape[i] {
			panic(fmt.Sprintf("index %d out of range for dimension %d (size %d)", idx, i, shape[i]))
		}
		flat += idx * t.raw.stride[i]
	}
	return flat
}

// typedData reinterprets a RawTensor's bytes as a []T.
func typedData[T DType](raw *RawTensor) []T {
	var dummy T
	switch any(dummy).(type) {
	case float32:
		return any(raw.AsFloat32()).([]T)
	case float64:
		return any(raw.AsFloat64()).([]T)
	case int32:
		return any(raw.AsInt32()).([]T)
	case int64:
		return any(raw.AsInt64()).([]T)
	case uint8:
		return any(raw.AsUint8()).([]T)
	default:
		panic(fmt.Sprintf("unsupported dtype %T", dummy))
	}
}
