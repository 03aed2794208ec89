package ops

import (
	"github.com/fern-ml/fern/internal/tensor"
)

// SumOp records z = sum(a) over all elements.
type SumOp struct{ base }

// NewSum builds the tape record for a full reduction.
func NewSum(a, out *tensor.RawTensor) *SumOp {
	return &SumOp{base{inputs: []*tensor.RawTensor{a}, output: out}}
}

func (o *SumOp) Name() string { return "sum" }

// Backward: every input element contributed with weight 1, so the scalar
// gradient is broadcast to the input shape.
func (o *SumOp) Backward(grad *tensor.RawTensor, b tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{b.AddScalar(zerosLike(o.inputs[0]), scalarValue(grad))}
}

// SumDimOp records z = sum(a, dim).
type SumDimOp struct {
	base
	dim     int
	keepDim bool
}

// NewSumDim builds the tape record for a sum along dim.
func NewSumDim(a, out *tensor.RawTensor, dim int, keepDim bool) *SumDimOp {
	return &SumDimOp{base{inputs: []*tensor.RawTensor{a}, output: out}, dim, keepDim}
}

func (o *SumDimOp) Name() string { return "sumDim" }

func (o *SumDimOp) Backward(grad *tensor.RawTensor, b tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{expandReduced(grad, o.inputs[0], o.dim, o.keepDim, b)}
}

// MeanDimOp records z = mean(a, dim).
type MeanDimOp struct {
	base
	dim     int
	keepDim bool
}

// NewMeanDim builds the tape record for a mean along dim.
func NewMeanDim(a, out *tensor.RawTensor, dim int, keepDim bool) *MeanDimOp {
	return &MeanDimOp{base{inputs: []*tensor.RawTensor{a}, output: out}, dim, keepDim}
}

func (o *MeanDimOp) Name() string { return "meanDim" }

// Backward: each element receives grad / dimSize.
func (o *MeanDimOp) Backward(grad *tensor.RawTensor, b tensor.Backend) []*tensor.RawTensor {
	input := o.inputs[0]
	dim := o.dim
	if dim < 0 {
		dim += len(input.Shape())
	}
	expanded := expandReduced(grad, input, o.dim, o.keepDim, b)
	return []*tensor.RawTensor{b.DivScalar(expanded, float64(input.Shape()[dim]))}
}

// expandReduced broadcasts a reduced gradient back to the input's shape,
// restoring the collapsed dimension first when keepDim was false.
func expandReduced(grad *tensor.RawTensor, input *tensor.RawTensor, dim int, keepDim bool, b tensor.Backend) *tensor.RawTensor {
	g := grad
	if !keepDim {
		shape := input.Shape().Clone()
		if dim < 0 {
			dim += len(shape)
		}
		shape[dim] = 1
		g = b.Reshape(g, shape)
	}
	// Adding to a zero tensor broadcasts g to the full input shape.
	return b.Add(zerosLike(input), g)
}
