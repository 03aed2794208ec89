// Copyright 2025 Fern ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package checkpoint provides the fern checkpoint file format: a
// checksummed binary container for named tensors and training-run
// metadata.
package checkpoint

import (
	"io"

	"github.com/fern-ml/fern/internal/serialization"
)

// Checkpoint is a named tensor collection plus run metadata.
type Checkpoint = serialization.Checkpoint

// Meta carries training-run state alongside the tensors.
type Meta = serialization.CheckpointMeta

// TensorMeta locates one tensor inside a checkpoint payload.
type TensorMeta = serialization.TensorMeta

// Decoding errors.
var (
	ErrBadMagic           = serialization.ErrBadMagic
	ErrUnsupportedVersion = serialization.ErrUnsupportedVersion
	ErrChecksumMismatch   = serialization.ErrChecksumMismatch
	ErrTruncated          = serialization.ErrTruncated
)

// Save writes a checkpoint to w.
func Save(w io.Writer, ckpt *Checkpoint) error {
	return serialization.Save(w, ckpt)
}

// SaveFile atomically writes a checkpoint to path.
func SaveFile(path string, ckpt *Checkpoint) error {
	return serialization.SaveFile(path, ckpt)
}

// Load reads and verifies a checkpoint from r.
func Load(r io.Reader) (*Checkpoint, error) {
	return serialization.Load(r)
}

// LoadFile reads and verifies a checkpoint from path.
func LoadFile(path string) (*Checkpoint, error) {
	return serialization.LoadFile(path)
}
