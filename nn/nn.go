// Copyright 2025 Fern ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides neural network layers, parameter containers and loss
// functions for feed-forward networks.
//
// Example:
//
//	model := nn.NewSequential[B](
//	    mustLinear(backend, 784, 128, rng),
//	    nn.NewReLU[B](),
//	    mustLinear(backend, 128, 10, rng),
//	)
//	logits := model.Forward(x)
package nn

import (
	"math/rand"

	"github.com/fern-ml/fern/internal/nn"
	"github.com/fern-ml/fern/tensor"
)

// Module is a network component.
type Module[B tensor.Backend] = nn.Module[B]

// Parameter is a named trainable tensor.
type Parameter[B tensor.Backend] = nn.Parameter[B]

// Linear is a fully connected layer computing y = x W^T + b.
type Linear[B tensor.Backend] = nn.Linear[B]

// LinearInit selects a weight initialization scheme.
type LinearInit = nn.LinearInit

// Weight initialization schemes.
const (
	InitXavier LinearInit = nn.InitXavier
	InitHe     LinearInit = nn.InitHe
)

// ReLU applies max(0, x) elementwise.
type ReLU[B tensor.Backend] = nn.ReLU[B]

// Sigmoid applies the logistic function elementwise.
type Sigmoid[B tensor.Backend] = nn.Sigmoid[B]

// Tanh applies the hyperbolic tangent elementwise.
type Tanh[B tensor.Backend] = nn.Tanh[B]

// Softmax normalizes along a dimension.
type Softmax[B tensor.Backend] = nn.Softmax[B]

// Sequential chains modules.
type Sequential[B tensor.Backend] = nn.Sequential[B]

// CrossEntropyLoss computes mean cross-entropy from logits and class
// indices.
type CrossEntropyLoss[B tensor.Backend] = nn.CrossEntropyLoss[B]

// MSELoss computes mean squared error.
type MSELoss[B tensor.Backend] = nn.MSELoss[B]

// NewParameter wraps a tensor as a named trainable parameter.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return nn.NewParameter(name, t)
}

// NewLinear creates a fully connected layer with Xavier-initialized
// weights and zero bias.
func NewLinear[B tensor.Backend](backend B, inFeatures, outFeatures int, rng *rand.Rand) (*Linear[B], error) {
	return nn.NewLinear(backend, inFeatures, outFeatures, rng)
}

// NewLinearInit creates a fully connected layer with an explicit weight
// initialization scheme.
func NewLinearInit[B tensor.Backend](backend B, inFeatures, outFeatures int, init LinearInit, rng *rand.Rand) (*Linear[B], error) {
	return nn.NewLinearInit(backend, inFeatures, outFeatures, init, rng)
}

// NewReLU creates a ReLU activation.
func NewReLU[B tensor.Backend]() *ReLU[B] { return nn.NewReLU[B]() }

// NewSigmoid creates a sigmoid activation.
func NewSigmoid[B tensor.Backend]() *Sigmoid[B] { return nn.NewSigmoid[B]() }

// NewTanh creates a tanh activation.
func NewTanh[B tensor.Backend]() *Tanh[B] { return nn.NewTanh[B]() }

// NewSoftmax creates a softmax over the given dimension.
func NewSoftmax[B tensor.Backend](dim int) *Softmax[B] { return nn.NewSoftmax[B](dim) }

// NewSequential chains the given modules in order.
func NewSequential[B tensor.Backend](layers ...Module[B]) *Sequential[B] {
	return nn.NewSequential(layers...)
}

// NewCrossEntropyLoss creates a cross-entropy loss.
func NewCrossEntropyLoss[B tensor.Backend]() *CrossEntropyLoss[B] {
	return nn.NewCrossEntropyLoss[B]()
}

// NewMSELoss creates an MSE loss.
func NewMSELoss[B tensor.Backend]() *MSELoss[B] { return nn.NewMSELoss[B]() }

// Accuracy returns the fraction of rows where the argmax of logits matches
// the target class.
func Accuracy[B tensor.Backend](logits *tensor.Tensor[float32, B], targets *tensor.Tensor[int64, B]) float64 {
	return nn.Accuracy(logits, targets)
}
