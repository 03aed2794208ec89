package nn

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fern-ml/fern/internal/tensor"
)

// Sequential chains modules, feeding each one's output to the next.
type Sequential[B tensor.Backend] struct {
	layers []Module[B]
}

// NewSequential chains the given modules in order.
func NewSequential[B tensor.Backend](layers ...Module[B]) *Sequential[B] {
	return &Sequential[B]{layers: layers}
}

// Add appends a module to the chain.
func (s *Sequential[B]) Add(m Module[B]) {
	s.layers = append(s.layers, m)
}

// Layers returns the chained modules.
func (s *Sequential[B]) Layers() []Module[B] { return s.layers }

// Forward runs the input through every layer in order.
func (s *Sequential[B]) Forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	out := x
	for _, layer := range s.layers {
		out = layer.Forward(out)
	}
	return out
}

// Parameters returns the parameters of all layers, in layer order.
func (s *Sequential[B]) Parameters() []*Parameter[B] {
	var params []*Parameter[B]
	for _, layer := range s.layers {
		params = append(params, layer.Parameters()...)
	}
	return params
}

// StateDict returns all layer states, keyed "<index>.<name>".
func (s *Sequential[B]) StateDict() map[string]*tensor.RawTensor {
	state := map[string]*tensor.RawTensor{}
	for i, layer := range s.layers {
		for name, raw := range layer.StateDict() {
			state[strconv.Itoa(i)+"."+name] = raw
		}
	}
	return state
}

// LoadStateDict splits "<index>.<name>" keys back out to the layers.
func (s *Sequential[B]) LoadStateDict(state map[string]*tensor.RawTensor) error {
	perLayer := make([]map[string]*tensor.RawTensor, len(s.layers))
	for i := range perLayer {
		perLayer[i] = map[string]*tensor.RawTensor{}
	}
	for key, raw := range state {
		prefix, name, ok := strings.Cut(key, ".")
		if !ok {
			return fmt.Errorf("sequential: malformed state key %q", key)
		}
		idx, err := strconv.Atoi(prefix)
		if err != nil || idx < 0 || idx >= len(s.layers) {
			return fmt.Errorf("sequential: state key %q does not address a layer", key)
		}
		perLayer[idx][name] = raw
	}
	for i, layer := range s.layers {
		if len(perLayer[i]) == 0 && len(layer.StateDict()) == 0 {
			continue
		}
		if err := layer.LoadStateDict(perLayer[i]); err != nil {
			return fmt.Errorf("sequential: layer %d: %w", i, err)
		}
	}
	return nil
}
