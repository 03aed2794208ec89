package tensor

// Backend defines the operations a compute backend must implement. The
// surface is the set of kernels a feed-forward network needs: elementwise
// arithmetic, matrix products, shape manipulation, pointwise math,
// reductions and a numerically stable softmax.
//
// Arithmetic operations follow NumPy broadcasting rules. Kernels panic on
// dtype mismatches and invalid shapes: those are programmer errors, not
// runtime conditions.
type Backend interface {
	// Name returns a human-readable backend identifier.
	Name() string
	// Device returns the device this backend computes on.
	Device() Device

	// Elementwise binary operations with broadcasting.
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// Scalar operations.
	AddScalar(a *RawTensor, scalar float64) *RawTensor
	SubScalar(a *RawTensor, scalar float64) *RawTensor
	MulScalar(a *RawTensor, scalar float64) *RawTensor
	DivScalar(a *RawTensor, scalar float64) *RawTensor

	// MatMul computes the matrix product of two 2D tensors.
	MatMul(a, b *RawTensor) *RawTensor

	// Shape operations.
	Reshape(a *RawTensor, shape Shape) *RawTensor
	Transpose(a *RawTensor) *RawTensor

	// Pointwise math.
	Exp(a *RawTensor) *RawTensor
	Log(a *RawTensor) *RawTensor
	Sqrt(a *RawTensor) *RawTensor

	// Softmax computes softmax along the given dimension.
	Softmax(a *RawTensor, dim int) *RawTensor

	// Reductions.
	Sum(a *RawTensor) *RawTensor
	SumDim(a *RawTensor, dim int, keepDim bool) *RawTensor
	MeanDim(a *RawTensor, dim int, keepDim bool) *RawTensor
	Argmax(a *RawTensor, dim int) *RawTensor
}

// ActivationBackend is implemented by backends with fused activation
// kernels. Layers probe for it with a type assertion.
type ActivationBackend interface {
	ReLU(a *RawTensor) *RawTensor
	Sigmoid(a *RawTensor) *RawTensor
	Tanh(a *RawTensor) *RawTensor
}

// LossBackend is implemented by backends with fused loss kernels.
type LossBackend interface {
	// CrossEntropy computes mean cross-entropy between logits
	// (batch, classes) and int64 class-index targets (batch,).
	CrossEntropy(logits, targets *RawTensor) *RawTensor
	// MSE computes mean squared error between two same-shape tensors.
	MSE(pred, target *RawTensor) *RawTensor
}
