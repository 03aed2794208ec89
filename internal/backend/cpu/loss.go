package cpu

import (
	"fmt"
	"math"

	"github.com/fern-ml/fern/internal/tensor"
)

// CrossEntropy computes mean cross-entropy between logits (batch, classes)
// and int64 class-index targets (batch,). The log-sum-exp is computed
// against the row maximum so large logits cannot overflow.
func (b *Backend) CrossEntropy(logits, targets *tensor.RawTensor) *tensor.RawTensor {
	ls, ts := logits.Shape(), targets.Shape()
	if len(ls) != 2 {
		panic(fmt.Sprintf("cpu: crossEntropy logits must be 2D, got %v", ls))
	}
	if len(ts) != 1 || ts[0] != ls[0] {
		panic(fmt.Sprintf("cpu: crossEntropy targets shape %v does not match batch size %d", ts, ls[0]))
	}
	if targets.DType() != tensor.Int64 {
		panic(fmt.Sprintf("cpu: crossEntropy targets must be int64, got %s", targets.DType()))
	}

	out := mustRaw(tensor.Shape{1}, logits.DType())
	switch logits.DType() {
	case tensor.Float32:
		out.AsFloat32()[0] = float32(crossEntropyKernel(logits.AsFloat32(), targets.AsInt64(), ls[0], ls[1]))
	case tensor.Float64:
		out.AsFloat64()[0] = crossEntropyKernel(logits.AsFloat64(), targets.AsInt64(), ls[0], ls[1])
	default:
		panic(fmt.Sprintf("cpu: crossEntropy unsupported dtype %s", logits.DType()))
	}
	return out
}

func crossEntropyKernel[T ~float32 | ~float64](logits []T, targets []int64, batch, classes int) float64 {
	var total float64
	for i := 0; i < batch; i++ {
		row := logits[i*classes : (i+1)*classes]
		target := int(targets[i])
		if target < 0 || target >= classes {
			panic(fmt.Sprintf("cpu: crossEntropy target %d out of range for %d classes", target, classes))
		}

		maxVal := row[0]
		for _, v := range row[1:] {
			if v > maxVal {
				maxVal = v
			}
		}
		var sumExp float64
		for _, v := range row {
			sumExp += math.Exp(float64(v - maxVal))
		}
		// loss_i = logsumexp(row) - row[target]
		total += math.Log(sumExp) + float64(maxVal) - float64(row[target])
	}
	return total / float64(batch)
}

// MSE computes the mean squared error between two same-shape float tensors.
func (b *Backend) MSE(pred, target *tensor.RawTensor) *tensor.RawTensor {
	if !pred.Shape().Equal(target.Shape()) {
		panic(fmt.Sprintf("cpu: mse shape mismatch: %v vs %v", pred.Shape(), target.Shape()))
	}
	if pred.DType() != target.DType() {
		panic(fmt.Sprintf("cpu: mse dtype mismatch: %s vs %s", pred.DType(), target.DType()))
	}

	out := mustRaw(tensor.Shape{1}, pred.DType())
	switch pred.DType() {
	case tensor.Float32:
		out.AsFloat32()[0] = float32(mseKernel(pred.AsFloat32(), target.AsFloat32()))
	case tensor.Float64:
		out.AsFloat64()[0] = mseKernel(pred.AsFloat64(), target.AsFloat64())
	default:
		panic(fmt.Sprintf("cpu: mse unsupported dtype %s", pred.DType()))
	}
	return out
}

func mseKernel[T ~float32 | ~float64](pred, target []T) float64 {
	var total float64
	for i := range pred {
		d := float64(pred[i] - target[i])
		total += d * d
	}
	return total / float64(len(pred))
}
