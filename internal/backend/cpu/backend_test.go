package cpu_test

import (
	"math"
	"testing"

	"github.com/fern-ml/fern/internal/backend/cpu"
	"github.com/fern-ml/fern/internal/tensor"
)

func fromSlice(t *testing.T, data []float32, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	x, err := tensor.FromSlice(cpu.New(), data, shape)
	if err != nil {
		t.Fatalf("FromSlice: %v", err)
	}
	return x.Raw()
}

func assertFloats(t *testing.T, want []float32, got *tensor.RawTensor, msg string) {
	t.Helper()
	data := got.AsFloat32()
	if len(data) != len(want) {
		t.Fatalf("%s: expected %d elements, got %d", msg, len(want), len(data))
	}
	for i := range want {
		if math.Abs(float64(want[i]-data[i])) > 1e-5 {
			t.Errorf("%s: element %d = %v, want %v", msg, i, data[i], want[i])
		}
	}
}

func TestAdd(t *testing.T) {
	b := cpu.New()
	x := fromSlice(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	y := fromSlice(t, []float32{10, 20, 30, 40}, tensor.Shape{2, 2})
	assertFloats(t, []float32{11, 22, 33, 44}, b.Add(x, y), "add")
}

func TestAddBroadcastRow(t *testing.T) {
	b := cpu.New()
	x := fromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	bias := fromSlice(t, []float32{10, 20, 30}, tensor.Shape{3})
	out := b.Add(x, bias)
	if !out.Shape().Equal(tensor.Shape{2, 3}) {
		t.Fatalf("broadcast add shape = %v", out.Shape())
	}
	assertFloats(t, []float32{11, 22, 33, 14, 25, 36}, out, "broadcast add")
}

func TestAddBroadcastBothSides(t *testing.T) {
	b := cpu.New()
	col := fromSlice(t, []float32{1, 2}, tensor.Shape{2, 1})
	row := fromSlice(t, []float32{10, 20, 30}, tensor.Shape{1, 3})
	assertFloats(t, []float32{11, 21, 31, 12, 22, 32}, b.Add(col, row), "outer add")
}

func TestSubMulDiv(t *testing.T) {
	b := cpu.New()
	// A unique same-shape left operand is consumed in place, so each op
	// gets a fresh x.
	y := fromSlice(t, []float32{2, 3, 4}, tensor.Shape{3})
	assertFloats(t, []float32{2, 6, 12}, b.Sub(fromSlice(t, []float32{4, 9, 16}, tensor.Shape{3}), y), "sub")
	assertFloats(t, []float32{8, 27, 64}, b.Mul(fromSlice(t, []float32{4, 9, 16}, tensor.Shape{3}), y), "mul")
	assertFloats(t, []float32{2, 3, 4}, b.Div(fromSlice(t, []float32{4, 9, 16}, tensor.Shape{3}), y), "div")
}

func TestBinaryOpInPlaceWhenUnique(t *testing.T) {
	b := cpu.New()
	x := fromSlice(t, []float32{1, 2, 3}, tensor.Shape{3})
	y := fromSlice(t, []float32{10, 20, 30}, tensor.Shape{3})
	out := b.Add(x, y)
	if out != x {
		t.Error("same-shape add on a unique operand should reuse its buffer")
	}
	assertFloats(t, []float32{11, 22, 33}, out, "in-place add")
}

func TestBinaryOpCopiesWhenPinned(t *testing.T) {
	b := cpu.New()
	x := fromSlice(t, []float32{1, 2, 3}, tensor.Shape{3})
	y := fromSlice(t, []float32{10, 20, 30}, tensor.Shape{3})
	release := x.Pin()
	defer release()
	out := b.Add(x, y)
	if out == x {
		t.Fatal("pinned operand must not be updated in place")
	}
	assertFloats(t, []float32{1, 2, 3}, x, "pinned operand preserved")
	assertFloats(t, []float32{11, 22, 33}, out, "copied add")
}

func TestBinaryOpCopiesWhenBroadcast(t *testing.T) {
	b := cpu.New()
	x := fromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	row := fromSlice(t, []float32{10, 20, 30}, tensor.Shape{3})
	if out := b.Add(x, row); out == x {
		t.Error("broadcast add must allocate even for a unique operand")
	}
}

func TestScalarOps(t *testing.T) {
	b := cpu.New()
	x := fromSlice(t, []float32{1, 2, 3}, tensor.Shape{3})
	assertFloats(t, []float32{3, 4, 5}, b.AddScalar(x, 2), "addScalar")
	assertFloats(t, []float32{-1, 0, 1}, b.SubScalar(x, 2), "subScalar")
	assertFloats(t, []float32{2, 4, 6}, b.MulScalar(x, 2), "mulScalar")
	assertFloats(t, []float32{0.5, 1, 1.5}, b.DivScalar(x, 2), "divScalar")
}

func TestMatMul(t *testing.T) {
	b := cpu.New()
	// (2x3) @ (3x2)
	x := fromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	y := fromSlice(t, []float32{7, 8, 9, 10, 11, 12}, tensor.Shape{3, 2})
	out := b.MatMul(x, y)
	if !out.Shape().Equal(tensor.Shape{2, 2}) {
		t.Fatalf("matmul shape = %v", out.Shape())
	}
	assertFloats(t, []float32{58, 64, 139, 154}, out, "matmul")
}

func TestMatMulIdentity(t *testing.T) {
	b := cpu.New()
	x := fromSlice(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	eye, err := tensor.Eye[float32](b, 2)
	if err != nil {
		t.Fatal(err)
	}
	assertFloats(t, []float32{1, 2, 3, 4}, b.MatMul(x, eye.Raw()), "matmul identity")
}

func TestMatMulShapePanic(t *testing.T) {
	b := cpu.New()
	x := fromSlice(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	y := fromSlice(t, []float32{1, 2, 3}, tensor.Shape{3, 1})
	defer func() {
		if recover() == nil {
			t.Error("expected panic on inner dimension mismatch")
		}
	}()
	b.MatMul(x, y)
}

func TestTranspose(t *testing.T) {
	b := cpu.New()
	x := fromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	out := b.Transpose(x)
	if !out.Shape().Equal(tensor.Shape{3, 2}) {
		t.Fatalf("transpose shape = %v", out.Shape())
	}
	assertFloats(t, []float32{1, 4, 2, 5, 3, 6}, out, "transpose")
}

func TestReshapeKeepsData(t *testing.T) {
	b := cpu.New()
	x := fromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	out := b.Reshape(x, tensor.Shape{3, 2})
	assertFloats(t, []float32{1, 2, 3, 4, 5, 6}, out, "reshape data")
}

func TestExpLogSqrt(t *testing.T) {
	b := cpu.New()
	x := fromSlice(t, []float32{0, 1}, tensor.Shape{2})
	assertFloats(t, []float32{1, float32(math.E)}, b.Exp(x), "exp")

	y := fromSlice(t, []float32{1, float32(math.E)}, tensor.Shape{2})
	assertFloats(t, []float32{0, 1}, b.Log(y), "log")

	z := fromSlice(t, []float32{4, 9}, tensor.Shape{2})
	assertFloats(t, []float32{2, 3}, b.Sqrt(z), "sqrt")
}

func TestSoftmaxRowsSumToOne(t *testing.T) {
	b := cpu.New()
	x := fromSlice(t, []float32{1, 2, 3, 1, 1, 1}, tensor.Shape{2, 3})
	out := b.Softmax(x, 1).AsFloat32()

	for row := 0; row < 2; row++ {
		var sum float32
		for col := 0; col < 3; col++ {
			sum += out[row*3+col]
		}
		if math.Abs(float64(sum-1)) > 1e-5 {
			t.Errorf("row %d sums to %v", row, sum)
		}
	}
	// Uniform logits give uniform probabilities.
	for col := 0; col < 3; col++ {
		if math.Abs(float64(out[3+col]-1.0/3)) > 1e-5 {
			t.Errorf("uniform row element %d = %v", col, out[3+col])
		}
	}
}

func TestSoftmaxLargeLogitsStable(t *testing.T) {
	b := cpu.New()
	x := fromSlice(t, []float32{1000, 1001, 1002}, tensor.Shape{1, 3})
	out := b.Softmax(x, 1).AsFloat32()
	for i, v := range out {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			t.Fatalf("element %d = %v, softmax overflowed", i, v)
		}
	}
}

func TestSumAndSumDim(t *testing.T) {
	b := cpu.New()
	x := fromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	assertFloats(t, []float32{21}, b.Sum(x), "sum all")

	cols := b.SumDim(x, 0, false)
	if !cols.Shape().Equal(tensor.Shape{3}) {
		t.Fatalf("sumDim(0) shape = %v", cols.Shape())
	}
	assertFloats(t, []float32{5, 7, 9}, cols, "sum over rows")

	rows := b.SumDim(x, 1, true)
	if !rows.Shape().Equal(tensor.Shape{2, 1}) {
		t.Fatalf("sumDim(1, keep) shape = %v", rows.Shape())
	}
	assertFloats(t, []float32{6, 15}, rows, "sum over cols")
}

func TestMeanDim(t *testing.T) {
	b := cpu.New()
	x := fromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	assertFloats(t, []float32{2, 5}, b.MeanDim(x, 1, false), "mean over cols")
}

func TestArgmax(t *testing.T) {
	b := cpu.New()
	x := fromSlice(t, []float32{0.1, 0.9, 0.0, 0.3, 0.2, 0.5}, tensor.Shape{2, 3})
	out := b.Argmax(x, 1)
	if out.DType() != tensor.Int64 {
		t.Fatalf("argmax dtype = %s", out.DType())
	}
	idx := out.AsInt64()
	if idx[0] != 1 || idx[1] != 2 {
		t.Errorf("argmax = %v, want [1 2]", idx)
	}
}

func TestReLUSigmoidTanh(t *testing.T) {
	b := cpu.New()
	x := fromSlice(t, []float32{-2, 0, 3}, tensor.Shape{3})

	assertFloats(t, []float32{0, 0, 3}, b.ReLU(x), "relu")

	sig := b.Sigmoid(fromSlice(t, []float32{0}, tensor.Shape{1}))
	assertFloats(t, []float32{0.5}, sig, "sigmoid at 0")

	th := b.Tanh(fromSlice(t, []float32{0}, tensor.Shape{1}))
	assertFloats(t, []float32{0}, th, "tanh at 0")
}

func TestCrossEntropyUniform(t *testing.T) {
	b := cpu.New()
	logits := fromSlice(t, []float32{0, 0, 0, 0}, tensor.Shape{2, 2})
	targetsT, err := tensor.FromSlice(b, []int64{0, 1}, tensor.Shape{2})
	if err != nil {
		t.Fatal(err)
	}
	loss := b.CrossEntropy(logits, targetsT.Raw()).AsFloat32()[0]

	// Uniform logits over 2 classes: loss = ln(2).
	if math.Abs(float64(loss)-math.Ln2) > 1e-5 {
		t.Errorf("loss = %v, want ln 2", loss)
	}
}

func TestCrossEntropyConfidentCorrect(t *testing.T) {
	b := cpu.New()
	logits := fromSlice(t, []float32{100, 0, 0, 100}, tensor.Shape{2, 2})
	targetsT, _ := tensor.FromSlice(b, []int64{0, 1}, tensor.Shape{2})
	loss := b.CrossEntropy(logits, targetsT.Raw()).AsFloat32()[0]
	if loss > 1e-4 {
		t.Errorf("confident correct predictions should give near-zero loss, got %v", loss)
	}
}

func TestMSE(t *testing.T) {
	b := cpu.New()
	pred := fromSlice(t, []float32{1, 2, 3}, tensor.Shape{3})
	target := fromSlice(t, []float32{1, 2, 5}, tensor.Shape{3})
	loss := b.MSE(pred, target).AsFloat32()[0]
	// (0 + 0 + 4) / 3
	if math.Abs(float64(loss)-4.0/3) > 1e-5 {
		t.Errorf("mse = %v, want 4/3", loss)
	}
}

func TestDTypeMismatchPanics(t *testing.T) {
	b := cpu.New()
	x := fromSlice(t, []float32{1}, tensor.Shape{1})
	y, err := tensor.FromSlice(b, []float64{1}, tensor.Shape{1})
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		if recover() == nil {
			t.Error("expected panic on dtype mismatch")
		}
	}()
	b.Add(x, y.Raw())
}
