package serialization

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// Save writes a checkpoint to w.
func Save(w io.Writer, ckpt *Checkpoint) error {
	// Sort tensor names so the output is deterministic.
	names := make([]string, 0, len(ckpt.Tensors))
	for name := range ckpt.Tensors {
		names = append(names, name)
	}
	sort.Strings(names)

	hdr := header{Meta: ckpt.Meta}
	if hdr.Meta.CreatedAt == "" {
		hdr.Meta.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}

	var payloadLen uint64
	for _, name := range names {
		t := ckpt.Tensors[name]
		dtype, ok := dtypeNames[t.DType()]
		if !ok {
			return fmt.Errorf("serialization: tensor %q has unsupported dtype %s", name, t.DType())
		}
		offset := alignUp(payloadLen)
		size := uint64(t.ByteSize())
		hdr.Tensors = append(hdr.Tensors, TensorMeta{
			Name:   name,
			DType:  dtype,
			Shape:  t.Shape(),
			Offset: offset,
			Size:   size,
		})
		payloadLen = offset + size
	}

	headerJSON, err := json.Marshal(hdr)
	if err != nil {
		return fmt.Errorf("serialization: encoding header: %w", err)
	}

	payload := make([]byte, payloadLen)
	for i, name := range names {
		copy(payload[hdr.Tensors[i].Offset:], ckpt.Tensors[name].Data())
	}

	sum := sha256.New()
	sum.Write(headerJSON)
	sum.Write(payload)

	fixed := make([]byte, fixedHeaderSize)
	copy(fixed, Magic[:])
	binary.LittleEndian.PutUint32(fixed[0x04:], Version)
	binary.LittleEndian.PutUint64(fixed[0x08:], uint64(len(headerJSON)))
	binary.LittleEndian.PutUint64(fixed[0x10:], payloadLen)
	copy(fixed[checksumOffset:], sum.Sum(nil))

	for _, chunk := range [][]byte{fixed, headerJSON, payload} {
		if _, err := w.Write(chunk); err != nil {
			return fmt.Errorf("serialization: writing checkpoint: %w", err)
		}
	}
	return nil
}

// SaveFile writes a checkpoint to path, replacing any existing file. The
// write goes through a temp file and rename so a crash cannot leave a
// half-written checkpoint behind.
func SaveFile(path string, ckpt *Checkpoint) error {
	// Same directory as the target so the rename stays on one filesystem.
	tmp, err := os.CreateTemp(filepath.Dir(path), ".fern-*")
	if err != nil {
		return fmt.Errorf("serialization: creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Save(tmp, ckpt); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("serialization: closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("serialization: replacing %s: %w", path, err)
	}
	return nil
}
