package tensor

import (
	"math"
	"math/rand"
)

// Zeros creates a tensor filled with zeros.
func Zeros[T DType, B Backend](backend B, shape Shape) (*Tensor[T, B], error) {
	var dummy T
	raw, err := NewRaw(shape, inferDataType(dummy), backend.Device())
	if err != nil {
		return nil, err
	}
	return &Tensor[T, B]{raw: raw, backend: backend}, nil
}

// Ones creates a tensor filled with ones.
func Ones[T DType, B Backend](backend B, shape Shape) (*Tensor[T, B], error) {
	return Full[T](backend, shape, T(1))
}

// Full creates a tensor filled with the given value.
func Full[T DType, B Backend](backend B, shape Shape, value T) (*Tensor[T, B], error) {
	t, err := Zeros[T](backend, shape)
	if err != nil {
		return nil, err
	}
	data := t.Data()
	for i := range data {
		data[i] = value
	}
	return t, nil
}

// Rand creates a tensor with uniform random values in [0, 1) drawn from rng.
func Rand[T DType, B Backend](backend B, shape Shape, rng *rand.Rand) (*Tensor[T, B], error) {
	t, err := Zeros[T](backend, shape)
	if err != nil {
		return nil, err
	}
	data := t.Data()
	for i := range data {
		data[i] = T(rng.Float64())
	}
	return t, nil
}

// Randn creates a tensor with standard normal random values drawn from rng.
func Randn[T DType, B Backend](backend B, shape Shape, rng *rand.Rand) (*Tensor[T, B], error) {
	t, err := Zeros[T](backend, shape)
	if err != nil {
		return nil, err
	}
	data := t.Data()
	for i := range data {
		data[i] = T(rng.NormFloat64())
	}
	return t, nil
}

// Arange creates a 1D tensor with values [start, end) stepped by step.
func Arange[T DType, B Backend](backend B, start, end, step float64) (*Tensor[T, B], error) {
	n := int(math.Ceil((end - start) / step))
	if n < 0 {
		n = 0
	}
	t, err := Zeros[T](backend, Shape{n})
	if err != nil {
		return nil, err
	}
	data := t.Data()
	for i := range data {
		data[i] = T(start + float64(i)*step)
	}
	return t, nil
}

// Eye creates an n×n identity matrix.
func Eye[T DType, B Backend](backend B, n int) (*Tensor[T, B], error) {
	t, err := Zeros[T](backend, Shape{n, n})
	if err != nil {
		return nil, err
	}
	data := t.Data()
	for i := 0; i < n; i++ {
		data[i*n+i] = T(1)
	}
	return t, nil
}
