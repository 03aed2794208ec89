package tensor_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/fern-ml/fern/internal/backend/cpu"
	"github.com/fern-ml/fern/internal/tensor"
)

func assertFloat32(t *testing.T, expected, actual float32, msg string) {
	t.Helper()
	if math.Abs(float64(expected-actual)) > 1e-6 {
		t.Errorf("%s: expected %v, got %v", msg, expected, actual)
	}
}

func assertShape(t *testing.T, expected, actual tensor.Shape, msg string) {
	t.Helper()
	if !expected.Equal(actual) {
		t.Errorf("%s: expected shape %v, got %v", msg, expected, actual)
	}
}

func TestDataTypeSize(t *testing.T) {
	tests := []struct {
		dtype tensor.DataType
		size  int
	}{
		{tensor.Float32, 4},
		{tensor.Float64, 8},
		{tensor.Int32, 4},
		{tensor.Int64, 8},
		{tensor.Uint8, 1},
	}
	for _, tt := range tests {
		if got := tt.dtype.Size(); got != tt.size {
			t.Errorf("%s.Size() = %d, want %d", tt.dtype, got, tt.size)
		}
	}
}

func TestShapeNumElements(t *testing.T) {
	tests := []struct {
		shape tensor.Shape
		want  int
	}{
		{tensor.Shape{2, 3}, 6},
		{tensor.Shape{1}, 1},
		{tensor.Shape{4, 1, 5}, 20},
	}
	for _, tt := range tests {
		if got := tt.shape.NumElements(); got != tt.want {
			t.Errorf("%v.NumElements() = %d, want %d", tt.shape, got, tt.want)
		}
	}
}

func TestComputeStrides(t *testing.T) {
	strides := tensor.Shape{2, 3, 4}.ComputeStrides()
	want := []int{12, 4, 1}
	for i := range want {
		if strides[i] != want[i] {
			t.Errorf("strides[%d] = %d, want %d", i, strides[i], want[i])
		}
	}
}

func TestBroadcastShapes(t *testing.T) {
	tests := []struct {
		a, b, want tensor.Shape
		broadcast  bool
	}{
		{tensor.Shape{2, 3}, tensor.Shape{2, 3}, tensor.Shape{2, 3}, false},
		{tensor.Shape{2, 3}, tensor.Shape{3}, tensor.Shape{2, 3}, true},
		{tensor.Shape{2, 1}, tensor.Shape{1, 3}, tensor.Shape{2, 3}, true},
		{tensor.Shape{4, 1, 5}, tensor.Shape{3, 1}, tensor.Shape{4, 3, 5}, true},
	}
	for _, tt := range tests {
		got, broadcast, err := tensor.BroadcastShapes(tt.a, tt.b)
		if err != nil {
			t.Fatalf("BroadcastShapes(%v, %v): %v", tt.a, tt.b, err)
		}
		assertShape(t, tt.want, got, "broadcast result")
		if broadcast != tt.broadcast {
			t.Errorf("BroadcastShapes(%v, %v) broadcast = %v, want %v", tt.a, tt.b, broadcast, tt.broadcast)
		}
	}
}

func TestBroadcastShapesIncompatible(t *testing.T) {
	if _, _, err := tensor.BroadcastShapes(tensor.Shape{2, 3}, tensor.Shape{4}); err == nil {
		t.Error("expected error broadcasting (2,3) with (4)")
	}
}

func TestFromSliceAndAt(t *testing.T) {
	backend := cpu.New()
	x, err := tensor.FromSlice(backend, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	if err != nil {
		t.Fatalf("FromSlice: %v", err)
	}

	assertShape(t, tensor.Shape{2, 3}, x.Shape(), "tensor shape")
	assertFloat32(t, 1, x.At(0, 0), "At(0,0)")
	assertFloat32(t, 6, x.At(1, 2), "At(1,2)")

	x.Set(9, 1, 0)
	assertFloat32(t, 9, x.At(1, 0), "after Set")
}

func TestFromSliceLengthMismatch(t *testing.T) {
	backend := cpu.New()
	if _, err := tensor.FromSlice(backend, []float32{1, 2, 3}, tensor.Shape{2, 2}); err == nil {
		t.Error("expected error for data length mismatch")
	}
}

func TestItem(t *testing.T) {
	backend := cpu.New()
	x, _ := tensor.FromSlice(backend, []float32{42}, tensor.Shape{1})
	assertFloat32(t, 42, x.Item(), "Item")
}

func TestZerosOnesFull(t *testing.T) {
	backend := cpu.New()

	z, err := tensor.Zeros[float32](backend, tensor.Shape{3})
	if err != nil {
		t.Fatalf("Zeros: %v", err)
	}
	for _, v := range z.Data() {
		assertFloat32(t, 0, v, "Zeros element")
	}

	o, _ := tensor.Ones[float32](backend, tensor.Shape{3})
	for _, v := range o.Data() {
		assertFloat32(t, 1, v, "Ones element")
	}

	f, _ := tensor.Full(backend, tensor.Shape{2}, float32(2.5))
	for _, v := range f.Data() {
		assertFloat32(t, 2.5, v, "Full element")
	}
}

func TestEye(t *testing.T) {
	backend := cpu.New()
	eye, err := tensor.Eye[float32](backend, 3)
	if err != nil {
		t.Fatalf("Eye: %v", err)
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := float32(0)
			if i == j {
				want = 1
			}
			assertFloat32(t, want, eye.At(i, j), "Eye element")
		}
	}
}

func TestArange(t *testing.T) {
	backend := cpu.New()
	x, err := tensor.Arange[float32](backend, 0, 5, 1)
	if err != nil {
		t.Fatalf("Arange: %v", err)
	}
	assertShape(t, tensor.Shape{5}, x.Shape(), "Arange shape")
	for i, v := range x.Data() {
		assertFloat32(t, float32(i), v, "Arange element")
	}
}

func TestRandnDeterministic(t *testing.T) {
	backend := cpu.New()
	a, _ := tensor.Randn[float32](backend, tensor.Shape{16}, rand.New(rand.NewSource(1)))
	b, _ := tensor.Randn[float32](backend, tensor.Shape{16}, rand.New(rand.NewSource(1)))
	for i := range a.Data() {
		if a.Data()[i] != b.Data()[i] {
			t.Fatal("same seed should produce identical tensors")
		}
	}
}

func TestCloneSharesBuffer(t *testing.T) {
	backend := cpu.New()
	x, _ := tensor.FromSlice(backend, []float32{1, 2}, tensor.Shape{2})

	if !x.Raw().IsUnique() {
		t.Fatal("fresh tensor should hold the only buffer reference")
	}
	clone := x.Clone()
	if x.Raw().IsUnique() {
		t.Error("buffer should be shared after Clone")
	}
	clone.Raw().Release()
	if !x.Raw().IsUnique() {
		t.Error("buffer should be unique after clone release")
	}
}

func TestPinDisablesUniqueness(t *testing.T) {
	backend := cpu.New()
	x, _ := tensor.FromSlice(backend, []float32{1}, tensor.Shape{1})

	release := x.Raw().Pin()
	if x.Raw().IsUnique() {
		t.Error("pinned tensor should not report unique")
	}
	release()
	if !x.Raw().IsUnique() {
		t.Error("released tensor should report unique again")
	}
}
