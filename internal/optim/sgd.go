package optim

import (
	"fmt"

	"github.com/fern-ml/fern/internal/autodiff"
	"github.com/fern-ml/fern/internal/nn"
	"github.com/fern-ml/fern/internal/tensor"
)

// SGD is stochastic gradient descent with optional momentum:
//
//	v = momentum*v + g
//	w = w - lr*v
//
// With momentum 0 it degenerates to plain w = w - lr*g.
type SGD[B tensor.Backend] struct {
	params   []*nn.Parameter[B]
	lr       float64
	momentum float64
	velocity map[*tensor.RawTensor][]float32
}

// NewSGD creates an SGD optimizer over the given parameters.
func NewSGD[B tensor.Backend](params []*nn.Parameter[B], lr, momentum float64) (*SGD[B], error) {
	if lr <= 0 {
		return nil, fmt.Errorf("optim: learning rate must be positive, got %g", lr)
	}
	if momentum < 0 || momentum >= 1 {
		return nil, fmt.Errorf("optim: momentum must be in [0, 1), got %g", momentum)
	}
	return &SGD[B]{
		params:   params,
		lr:       lr,
		momentum: momentum,
		velocity: map[*tensor.RawTensor][]float32{},
	}, nil
}

// Name returns "sgd".
func (s *SGD[B]) Name() string { return "sgd" }

// Config returns the learning rate and momentum.
func (s *SGD[B]) Config() map[string]float64 {
	return map[string]float64{"lr": s.lr, "momentum": s.momentum}
}

// LearningRate returns the current learning rate.
func (s *SGD[B]) LearningRate() float64 { return s.lr }

// SetLR replaces the learning rate. Momentum buffers are kept.
func (s *SGD[B]) SetLR(lr float64) { s.lr = lr }

// Step applies one descent update in place.
func (s *SGD[B]) Step(grads *autodiff.Gradients) error {
	lr := float32(s.lr)
	mu := float32(s.momentum)

	for _, p := range s.params {
		g, err := gradFor(p, grads)
		if err != nil {
			return err
		}
		if g == nil {
			continue
		}
		w := p.Tensor().Data()

		if mu == 0 {
			for i := range w {
				w[i] -= lr * g[i]
			}
			continue
		}

		v, ok := s.velocity[p.Raw()]
		if !ok {
			v = make([]float32, len(w))
			s.velocity[p.Raw()] = v
		}
		for i := range w {
			v[i] = mu*v[i] + g[i]
			w[i] -= lr * v[i]
		}
	}
	return nil
}
