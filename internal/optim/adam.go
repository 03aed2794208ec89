package optim

import (
	"fmt"
	"math"

	"github.com/fern-ml/fern/internal/autodiff"
	"github.com/fern-ml/fern/internal/nn"
	"github.com/fern-ml/fern/internal/tensor"
)

// Adam implements the Adam optimizer (Kingma & Ba, 2015): per-parameter
// first and second moment estimates with bias correction.
type Adam[B tensor.Backend] struct {
	params []*nn.Parameter[B]
	lr     float64
	beta1  float64
	beta2  float64
	eps    float64
	step   int

	m map[*tensor.RawTensor][]float32
	v map[*tensor.RawTensor][]float32
}

// NewAdam creates an Adam optimizer with the standard defaults
// beta1=0.9, beta2=0.999, eps=1e-8.
func NewAdam[B tensor.Backend](params []*nn.Parameter[B], lr float64) (*Adam[B], error) {
	return NewAdamConfig(params, lr, 0.9, 0.999, 1e-8)
}

// NewAdamConfig creates an Adam optimizer with explicit moment decay rates.
func NewAdamConfig[B tensor.Backend](params []*nn.Parameter[B], lr, beta1, beta2, eps float64) (*Adam[B], error) {
	if lr <= 0 {
		return nil, fmt.Errorf("optim: learning rate must be positive, got %g", lr)
	}
	if beta1 < 0 || beta1 >= 1 || beta2 < 0 || beta2 >= 1 {
		return nil, fmt.Errorf("optim: betas must be in [0, 1), got %g and %g", beta1, beta2)
	}
	return &Adam[B]{
		params: params,
		lr:     lr,
		beta1:  beta1,
		beta2:  beta2,
		eps:    eps,
		m:      map[*tensor.RawTensor][]float32{},
		v:      map[*tensor.RawTensor][]float32{},
	}, nil
}

// Name returns "adam".
func (a *Adam[B]) Name() string { return "adam" }

// Config returns the learning rate, betas and epsilon.
func (a *Adam[B]) Config() map[string]float64 {
	return map[string]float64{"lr": a.lr, "beta1": a.beta1, "beta2": a.beta2, "eps": a.eps}
}

// LearningRate returns the current learning rate.
func (a *Adam[B]) LearningRate() float64 { return a.lr }

// SetLR replaces the learning rate. Moment buffers and the timestep are kept.
func (a *Adam[B]) SetLR(lr float64) { a.lr = lr }

// Step applies one Adam update in place.
func (a *Adam[B]) Step(grads *autodiff.Gradients) error {
	a.step++
	// Bias correction counters the zero initialization of the moments,
	// which matters most in the first few steps.
	c1 := 1 - math.Pow(a.beta1, float64(a.step))
	c2 := 1 - math.Pow(a.beta2, float64(a.step))
	stepSize := a.lr * math.Sqrt(c2) / c1

	b1 := float32(a.beta1)
	b2 := float32(a.beta2)

	for _, p := range a.params {
		g, err := gradFor(p, grads)
		if err != nil {
			return err
		}
		if g == nil {
			continue
		}
		w := p.Tensor().Data()

		m, ok := a.m[p.Raw()]
		if !ok {
			m = make([]float32, len(w))
			a.m[p.Raw()] = m
		}
		v, ok := a.v[p.Raw()]
		if !ok {
			v = make([]float32, len(w))
			a.v[p.Raw()] = v
		}

		for i := range w {
			m[i] = b1*m[i] + (1-b1)*g[i]
			v[i] = b2*v[i] + (1-b2)*g[i]*g[i]
			w[i] -= float32(stepSize * float64(m[i]) / (math.Sqrt(float64(v[i])) + a.eps))
		}
	}
	return nil
}
