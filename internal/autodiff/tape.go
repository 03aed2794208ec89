package autodiff

import (
	"fmt"

	"github.com/fern-ml/fern/internal/autodiff/ops"
	"github.com/fern-ml/fern/internal/tensor"
)

// GradientTape records the operations of a forward pass in execution order.
// Recording pins every operand so a later in-place update cannot corrupt
// the values the backward pass will read.
type GradientTape struct {
	operations []ops.Operation
	pins       []func()
}

// NewTape creates an empty gradient tape.
func NewTape() *GradientTape {
	return &GradientTape{}
}

// Record appends an operation and pins its operands until Clear.
func (t *GradientTape) Record(op ops.Operation) {
	for _, in := range op.Inputs() {
		t.pins = append(t.pins, in.Pin())
	}
	t.pins = append(t.pins, op.Output().Pin())
	t.operations = append(t.operations, op)
}

// Len returns the number of recorded operations.
func (t *GradientTape) Len() int { return len(t.operations) }

// Clear drops all recorded operations and releases the operand pins.
// Call it after each optimizer step; the tape grows without bound otherwise.
func (t *GradientTape) Clear() {
	for _, release := range t.pins {
		release()
	}
	t.operations = t.operations[:0]
	t.pins = t.pins[:0]
}

// Gradients maps tensors to their accumulated gradients after a backward
// pass. Keys are RawTensor identities, so parameter raws must be the same
// objects that flowed through the forward pass.
type Gradients struct {
	grads map[*tensor.RawTensor]*tensor.RawTensor
}

// Get returns the gradient for t, or (nil, false) if none flowed to it.
func (g *Gradients) Get(t *tensor.RawTensor) (*tensor.RawTensor, bool) {
	grad, ok := g.grads[t]
	return grad, ok
}

// recorder lets Backward pause recording when gradient math runs through
// an autodiff-wrapped backend. Without the pause every backward op would
// itself land on the tape being walked.
type recorder interface {
	IsRecording() bool
	SetRecording(bool)
}

// Backward runs reverse-mode differentiation from output, seeded with
// outputGrad (dL/doutput, usually ones for a scalar loss). It walks the tape
// in reverse, accumulating gradients into every tensor that influenced
// output.
func (t *GradientTape) Backward(output, outputGrad *tensor.RawTensor, b tensor.Backend) (*Gradients, error) {
	if rec, ok := b.(recorder); ok && rec.IsRecording() {
		rec.SetRecording(false)
		defer rec.SetRecording(true)
	}
	if len(t.operations) == 0 {
		return nil, fmt.Errorf("backward on empty tape: no operations were recorded")
	}
	if !output.Shape().Equal(outputGrad.Shape()) {
		return nil, fmt.Errorf("output gradient shape %v does not match output shape %v",
			outputGrad.Shape(), output.Shape())
	}
	if !output.DType().IsFloat() {
		return nil, fmt.Errorf("cannot differentiate %s tensor", output.DType())
	}

	// Every gradient in the map is read by each op its tensor fed, so none
	// may be consumed by an in-place kernel path while the walk runs. Pins
	// are released once the walk is done; the returned map stays valid.
	var pins []func()
	defer func() {
		for _, release := range pins {
			release()
		}
	}()
	grads := map[*tensor.RawTensor]*tensor.RawTensor{}
	store := func(key, g *tensor.RawTensor) {
		grads[key] = g
		pins = append(pins, g.Pin())
	}
	store(output, outputGrad)
	for i := len(t.operations) - 1; i >= 0; i-- {
		op := t.operations[i]
		upstream, ok := grads[op.Output()]
		if !ok {
			// The op's output never influenced the differentiated value.
			continue
		}
		inputGrads := op.Backward(upstream, b)
		inputs := op.Inputs()
		if len(inputGrads) != len(inputs) {
			return nil, fmt.Errorf("%s backward returned %d gradients for %d inputs",
				op.Name(), len(inputGrads), len(inputs))
		}
		for j, g := range inputGrads {
			if g == nil {
				continue
			}
			if existing, ok := grads[inputs[j]]; ok {
				store(inputs[j], b.Add(existing, g))
			} else {
				store(inputs[j], g)
			}
		}
	}
	return &Gradients{grads: grads}, nil
}
