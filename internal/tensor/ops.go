package tensor

// Method wrappers dispatching to the tensor's backend. The backend is the
// single place kernels live; these keep call sites readable.

// Add returns t + other (broadcasting).
func (t *Tensor[T, B]) Add(other *Tensor[T, B]) *Tensor[T, B] {
	return &Tensor[T, B]{raw: t.backend.Add(t.raw, other.raw), backend: t.backend}
}

// Sub returns t - other (broadcasting).
func (t *Tensor[T, B]) Sub(other *Tensor[T, B]) *Tensor[T, B] {
	return &Tensor[T, B]{raw: t.backend.Sub(t.raw, other.raw), backend: t.backend}
}

// Mul returns the elementwise product t * other (broadcasting).
func (t *Tensor[T, B]) Mul(other *Tensor[T, B]) *Tensor[T, B] {
	return &Tensor[T, B]{raw: t.backend.Mul(t.raw, other.raw), backend: t.backend}
}

// Div returns the elementwise quotient t / other (broadcasting).
func (t *Tensor[T, B]) Div(other *Tensor[T, B]) *Tensor[T, B] {
	return &Tensor[T, B]{raw: t.backend.Div(t.raw, other.raw), backend: t.backend}
}

// AddScalar returns t + scalar.
func (t *Tensor[T, B]) AddScalar(scalar float64) *Tensor[T, B] {
	return &Tensor[T, B]{raw: t.backend.AddScalar(t.raw, scalar), backend: t.backend}
}

// SubScalar returns t - scalar.
func (t *Tensor[T, B]) SubScalar(scalar float64) *Tensor[T, B] {
	return &Tensor[T, B]{raw: t.backend.SubScalar(t.raw, scalar), backend: t.backend}
}

// MulScalar returns t * scalar.
func (t *Tensor[T, B]) MulScalar(scalar float64) *Tensor[T, B] {
	return &Tensor[T, B]{raw: t.backend.MulScalar(t.raw, scalar), backend: t.backend}
}

// DivScalar returns t / scalar.
func (t *Tensor[T, B]) DivScalar(scalar float64) *Tensor[T, B] {
	return &Tensor[T, B]{raw: t.backend.DivScalar(t.raw, scalar), backend: t.backend}
}

// MatMul returns the matrix product of two 2D tensors.
func (t *Tensor[T, B]) MatMul(other *Tensor[T, B]) *Tensor[T, B] {
	return &Tensor[T, B]{raw: t.backend.MatMul(t.raw, other.raw), backend: t.backend}
}

// Reshape returns a view with a new shape. The element count must match.
func (t *Tensor[T, B]) Reshape(shape Shape) *Tensor[T, B] {
	return &Tensor[T, B]{raw: t.backend.Reshape(t.raw, shape), backend: t.backend}
}

// Transpose returns the transpose of a 2D tensor.
func (t *Tensor[T, B]) Transpose() *Tensor[T, B] {
	return &Tensor[T, B]{raw: t.backend.Transpose(t.raw), backend: t.backend}
}

// T is shorthand for Transpose.
func (t *Tensor[T, B]) T() *Tensor[T, B] { return t.Transpose() }

// Detach returns a copy with a fresh RawTensor identity. Gradients
// accumulated for t do not flow to the detached copy, and nothing recorded
// against t applies to it.
func (t *Tensor[T, B]) Detach() *Tensor[T, B] {
	return &Tensor[T, B]{raw: t.raw.Clone(), backend: t.backend}
}

// Exp returns elementwise e^t.
func (t *Tensor[T, B]) Exp() *Tensor[T, B] {
	return &Tensor[T, B]{raw: t.backend.Exp(t.raw), backend: t.backend}
}

// Log returns elementwise natural log.
func (t *Tensor[T, B]) Log() *Tensor[T, B] {
	return &Tensor[T, B]{raw: t.backend.Log(t.raw), backend: t.backend}
}

// Sqrt returns elementwise square root.
func (t *Tensor[T, B]) Sqrt() *Tensor[T, B] {
	return &Tensor[T, B]{raw: t.backend.Sqrt(t.raw), backend: t.backend}
}

// Softmax returns softmax along dim.
func (t *Tensor[T, B]) Softmax(dim int) *Tensor[T, B] {
	return &Tensor[T, B]{raw: t.backend.Softmax(t.raw, dim), backend: t.backend}
}

// Sum reduces all elements to a scalar tensor of shape {1}.
func (t *Tensor[T, B]) Sum() *Tensor[T, B] {
	return &Tensor[T, B]{raw: t.backend.Sum(t.raw), backend: t.backend}
}

// SumDim sums along dim.
func (t *Tensor[T, B]) SumDim(dim int, keepDim bool) *Tensor[T, B] {
	return &Tensor[T, B]{raw: t.backend.SumDim(t.raw, dim, keepDim), backend: t.backend}
}

// MeanDim averages along dim.
func (t *Tensor[T, B]) MeanDim(dim int, keepDim bool) *Tensor[T, B] {
	return &Tensor[T, B]{raw: t.backend.MeanDim(t.raw, dim, keepDim), backend: t.backend}
}

// Argmax returns the indices of maxima along dim as an Int64 raw tensor
// wrapped at the call site.
func (t *Tensor[T, B]) Argmax(dim int) *RawTensor {
	return t.backend.Argmax(t.raw, dim)
}
