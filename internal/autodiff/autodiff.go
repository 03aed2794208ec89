// Package autodiff implements tape-based reverse-mode automatic
// differentiation as a decorator over any compute backend: forward calls
// delegate to the wrapped backend and are recorded on a gradient tape,
// which Backward then replays in reverse.
package autodiff

import (
	"fmt"

	"github.com/fern-ml/fern/internal/autodiff/ops"
	"github.com/fern-ml/fern/internal/tensor"
)

// AutodiffBackend wraps a compute backend and records every differentiable
// operation on its gradient tape while recording is enabled.
type AutodiffBackend[B tensor.Backend] struct {
	inner     B
	tape      *GradientTape
	recording bool
}

// New wraps a backend with gradient recording enabled.
func New[B tensor.Backend](inner B) *AutodiffBackend[B] {
	return &AutodiffBackend[B]{inner: inner, tape: NewTape(), recording: true}
}

// Inner returns the wrapped backend.
func (a *AutodiffBackend[B]) Inner() B { return a.inner }

// Tape returns the gradient tape.
func (a *AutodiffBackend[B]) Tape() *GradientTape { return a.tape }

// SetRecording toggles operation recording. Disable it for validation and
// inference so the tape does not accumulate.
func (a *AutodiffBackend[B]) SetRecording(recording bool) { a.recording = recording }

// IsRecording reports whether operations are being recorded.
func (a *AutodiffBackend[B]) IsRecording() bool { return a.recording }

// NoGrad runs fn with recording disabled, restoring the previous state.
func (a *AutodiffBackend[B]) NoGrad(fn func()) {
	prev := a.recording
	a.recording = false
	defer func() { a.recording = prev }()
	fn()
}

// Name returns the backend identifier.
func (a *AutodiffBackend[B]) Name() string {
	return fmt.Sprintf("autodiff(%s)", a.inner.Name())
}

// Device returns the wrapped backend's device.
func (a *AutodiffBackend[B]) Device() tensor.Device { return a.inner.Device() }

func (a *AutodiffBackend[B]) record(op ops.Operation) {
	if a.recording {
		a.tape.Record(op)
	}
}

// hold pins the operands across an inner kernel call while recording. The
// tape keys gradients on RawTensor identity, so a recorded op must never
// take the backend's in-place fast path and return its own input; pinning
// makes the operands non-unique for the duration of the call. Record re-pins
// them for the lifetime of the tape.
func (a *AutodiffBackend[B]) hold(ts ...*tensor.RawTensor) func() {
	if !a.recording {
		return func() {}
	}
	releases := make([]func(), len(ts))
	for i, t := range ts {
		releases[i] = t.Pin()
	}
	return func() {
		for _, release := range releases {
			release()
		}
	}
}

// Add returns x + y, recording the operation.
func (a *AutodiffBackend[B]) Add(x, y *tensor.RawTensor) *tensor.RawTensor {
	release := a.hold(x, y)
	out := a.inner.Add(x, y)
	release()
	a.record(ops.NewAdd(x, y, out))
	return out
}

// Sub returns x - y, recording the operation.
func (a *AutodiffBackend[B]) Sub(x, y *tensor.RawTensor) *tensor.RawTensor {
	release := a.hold(x, y)
	out := a.inner.Sub(x, y)
	release()
	a.record(ops.NewSub(x, y, out))
	return out
}

// Mul returns x * y, recording the operation.
func (a *AutodiffBackend[B]) Mul(x, y *tensor.RawTensor) *tensor.RawTensor {
	release := a.hold(x, y)
	out := a.inner.Mul(x, y)
	release()
	a.record(ops.NewMul(x, y, out))
	return out
}

// Div returns x / y, recording the operation.
func (a *AutodiffBackend[B]) Div(x, y *tensor.RawTensor) *tensor.RawTensor {
	release := a.hold(x, y)
	out := a.inner.Div(x, y)
	release()
	a.record(ops.NewDiv(x, y, out))
	return out
}

// AddScalar returns x + s. Constant shifts have unit gradient, recorded as
// an add against a pinned constant-free input.
func (a *AutodiffBackend[B]) AddScalar(x *tensor.RawTensor, s float64) *tensor.RawTensor {
	out := a.inner.AddScalar(x, s)
	a.record(ops.NewScalar("addScalar", x, out, 1))
	return out
}

// SubScalar returns x - s.
func (a *AutodiffBackend[B]) SubScalar(x *tensor.RawTensor, s float64) *tensor.RawTensor {
	out := a.inner.SubScalar(x, s)
	a.record(ops.NewScalar("subScalar", x, out, 1))
	return out
}

// MulScalar returns x * s.
func (a *AutodiffBackend[B]) MulScalar(x *tensor.RawTensor, s float64) *tensor.RawTensor {
	out := a.inner.MulScalar(x, s)
	a.record(ops.NewScalar("mulScalar", x, out, s))
	return out
}

// DivScalar returns x / s.
func (a *AutodiffBackend[B]) DivScalar(x *tensor.RawTensor, s float64) *tensor.RawTensor {
	out := a.inner.DivScalar(x, s)
	a.record(ops.NewScalar("divScalar", x, out, 1/s))
	return out
}

// MatMul returns the matrix product, recording the operation.
func (a *AutodiffBackend[B]) MatMul(x, y *tensor.RawTensor) *tensor.RawTensor {
	out := a.inner.MatMul(x, y)
	a.record(ops.NewMatMul(x, y, out))
	return out
}

// Reshape returns a reshaped view, recording the operation.
func (a *AutodiffBackend[B]) Reshape(x *tensor.RawTensor, shape tensor.Shape) *tensor.RawTensor {
	out := a.inner.Reshape(x, shape)
	a.record(ops.NewReshape(x, out))
	return out
}

// Transpose returns the 2D transpose, recording the operation.
func (a *AutodiffBackend[B]) Transpose(x *tensor.RawTensor) *tensor.RawTensor {
	out := a.inner.Transpose(x)
	a.record(ops.NewTranspose(x, out))
	return out
}

// Exp returns elementwise e^x, recording the operation.
func (a *AutodiffBackend[B]) Exp(x *tensor.RawTensor) *tensor.RawTensor {
	out := a.inner.Exp(x)
	a.record(ops.NewExp(x, out))
	return out
}

// Log returns the elementwise natural log, recording the operation.
func (a *AutodiffBackend[B]) Log(x *tensor.RawTensor) *tensor.RawTensor {
	out := a.inner.Log(x)
	a.record(ops.NewLog(x, out))
	return out
}

// Sqrt returns the elementwise square root, recording the operation.
func (a *AutodiffBackend[B]) Sqrt(x *tensor.RawTensor) *tensor.RawTensor {
	out := a.inner.Sqrt(x)
	a.record(ops.NewSqrt(x, out))
	return out
}

// Softmax returns softmax along dim, recording the operation.
func (a *AutodiffBackend[B]) Softmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	out := a.inner.Softmax(x, dim)
	a.record(ops.NewSoftmax(x, out, dim))
	return out
}

// Sum reduces all elements, recording the operation.
func (a *AutodiffBackend[B]) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	out := a.inner.Sum(x)
	a.record(ops.NewSum(x, out))
	return out
}

// SumDim sums along dim, recording the operation.
func (a *AutodiffBackend[B]) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	out := a.inner.SumDim(x, dim, keepDim)
	a.record(ops.NewSumDim(x, out, dim, keepDim))
	return out
}

// MeanDim averages along dim, recording the operation.
func (a *AutodiffBackend[B]) MeanDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	out := a.inner.MeanDim(x, dim, keepDim)
	a.record(ops.NewMeanDim(x, out, dim, keepDim))
	return out
}

// Argmax returns indices of maxima along dim. Argmax is piecewise constant;
// nothing is recorded.
func (a *AutodiffBackend[B]) Argmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	return a.inner.Argmax(x, dim)
}

// ReLU applies the wrapped backend's fused ReLU kernel, recording the
// operation. Panics if the backend has no activation kernels.
func (a *AutodiffBackend[B]) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	out := a.activations().ReLU(x)
	a.record(ops.NewReLU(x, out))
	return out
}

// Sigmoid applies the wrapped backend's fused sigmoid kernel.
func (a *AutodiffBackend[B]) Sigmoid(x *tensor.RawTensor) *tensor.RawTensor {
	out := a.activations().Sigmoid(x)
	a.record(ops.NewSigmoid(x, out))
	return out
}

// Tanh applies the wrapped backend's fused tanh kernel.
func (a *AutodiffBackend[B]) Tanh(x *tensor.RawTensor) *tensor.RawTensor {
	out := a.activations().Tanh(x)
	a.record(ops.NewTanh(x, out))
	return out
}

// CrossEntropy computes the fused mean cross-entropy loss, recording the
// operation so Backward produces the (softmax - onehot) / batch gradient.
func (a *AutodiffBackend[B]) CrossEntropy(logits, targets *tensor.RawTensor) *tensor.RawTensor {
	out := a.losses().CrossEntropy(logits, targets)
	a.record(ops.NewCrossEntropy(logits, targets, out))
	return out
}

// MSE computes the mean squared error loss, recording the operation.
func (a *AutodiffBackend[B]) MSE(pred, target *tensor.RawTensor) *tensor.RawTensor {
	out := a.losses().MSE(pred, target)
	a.record(ops.NewMSE(pred, target, out))
	return out
}

func (a *AutodiffBackend[B]) activations() tensor.ActivationBackend {
	ab, ok := any(a.inner).(tensor.ActivationBackend)
	if !ok {
		panic(fmt.Sprintf("backend %s has no activation kernels", a.inner.Name()))
	}
	return ab
}

func (a *AutodiffBackend[B]) losses() tensor.LossBackend {
	lb, ok := any(a.inner).(tensor.LossBackend)
	if !ok {
		panic(fmt.Sprintf("backend %s has no loss kernels", a.inner.Name()))
	}
	return lb
}
