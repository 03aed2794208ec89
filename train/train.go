// Copyright 2025 Fern ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package train drives the training loop: forward pass, backward pass,
// optimizer step, and per-epoch validation and checkpointing.
package train

import (
	"github.com/fern-ml/fern/internal/autodiff"
	"github.com/fern-ml/fern/internal/nn"
	"github.com/fern-ml/fern/internal/optim"
	"github.com/fern-ml/fern/internal/serialization"
	"github.com/fern-ml/fern/internal/train"
	"github.com/fern-ml/fern/tensor"
)

// Config controls a training run.
type Config = train.Config

// Trainer runs gradient-descent training.
type Trainer[B tensor.Backend] = train.Trainer[B]

// History accumulates per-epoch statistics.
type History = train.History

// EpochStats summarizes one epoch.
type EpochStats = train.EpochStats

// New creates a trainer.
func New[B tensor.Backend](
	backend *autodiff.AutodiffBackend[B],
	model nn.Module[*autodiff.AutodiffBackend[B]],
	optimizer optim.Optimizer[*autodiff.AutodiffBackend[B]],
	config Config,
) (*Trainer[B], error) {
	return train.New(backend, model, optimizer, config)
}

// LoadCheckpoint restores a model's parameters from a checkpoint file.
func LoadCheckpoint[B tensor.Backend](path string, model nn.Module[B]) (serialization.CheckpointMeta, error) {
	return train.LoadCheckpoint(path, model)
}
