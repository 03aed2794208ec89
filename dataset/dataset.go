// Copyright 2025 Fern ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package dataset loads MNIST-style IDX files and slices them into
// shuffled training batches.
package dataset

import (
	"io"
	"math/rand"

	"github.com/fern-ml/fern/internal/dataset"
)

// Dataset is a labeled image set with normalized pixels.
type Dataset = dataset.Dataset

// Batch is one training step's worth of samples.
type Batch = dataset.Batch

// ErrBadIDXMagic means an input is not an IDX file of the expected kind.
var ErrBadIDXMagic = dataset.ErrBadIDXMagic

// LoadMNIST reads an IDX image file and its matching label file.
func LoadMNIST(imagesPath, labelsPath string) (*Dataset, error) {
	return dataset.LoadMNIST(imagesPath, labelsPath)
}

// ReadImages decodes an IDX image stream.
func ReadImages(r io.Reader) (pixels []uint8, count, rows, cols int, err error) {
	return dataset.ReadImages(r)
}

// ReadLabels decodes an IDX label stream.
func ReadLabels(r io.Reader) ([]uint8, error) {
	return dataset.ReadLabels(r)
}

// Synthetic generates a linearly separable stand-in dataset.
func Synthetic(count, rows, cols, classes int, rng *rand.Rand) *Dataset {
	return dataset.Synthetic(count, rows, cols, classes, rng)
}
