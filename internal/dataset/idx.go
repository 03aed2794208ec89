// Package dataset loads MNIST-style IDX files and slices them into
// shuffled training batches.
package dataset

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// IDX magic numbers: 0x08 dtype byte (unsigned byte) plus dimension count.
const (
	imagesMagic uint32 = 2051
	labelsMagic uint32 = 2049
)

// ErrBadIDXMagic means the input is not an IDX file of the expected kind.
var ErrBadIDXMagic = errors.New("dataset: bad IDX magic")

// ReadImages decodes an IDX image file: big-endian magic 2051, counts, then
// count*rows*cols unsigned bytes in row-major order.
func ReadImages(r io.Reader) (pixels []uint8, count, rows, cols int, err error) {
	var hdr [4]uint32
	if err := binary.Read(r, binary.BigEndian, &hdr); err != nil {
		return nil, 0, 0, 0, fmt.Errorf("dataset: reading image header: %w", err)
	}
	if hdr[0] != imagesMagic {
		return nil, 0, 0, 0, fmt.Errorf("%w: got %d, want %d", ErrBadIDXMagic, hdr[0], imagesMagic)
	}
	count, rows, cols = int(hdr[1]), int(hdr[2]), int(hdr[3])
	if count < 0 || rows <= 0 || cols <= 0 {
		return nil, 0, 0, 0, fmt.Errorf("dataset: implausible image dimensions %dx%dx%d", count, rows, cols)
	}

	pixels = make([]uint8, count*rows*cols)
	if _, err := io.ReadFull(r, pixels); err != nil {
		return nil, 0, 0, 0, fmt.Errorf("dataset: reading %d images: %w", count, err)
	}
	return pixels, count, rows, cols, nil
}

// ReadLabels decodes an IDX label file: big-endian magic 2049, count, then
// count unsigned bytes.
func ReadLabels(r io.Reader) ([]uint8, error) {
	var hdr [2]uint32
	if err := binary.Read(r, binary.BigEndian, &hdr); err != nil {
		return nil, fmt.Errorf("dataset: reading label header: %w", err)
	}
	if hdr[0] != labelsMagic {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrBadIDXMagic, hdr[0], labelsMagic)
	}
	count := int(hdr[1])
	if count < 0 {
		return nil, fmt.Errorf("dataset: implausible label count %d", count)
	}

	labels := make([]uint8, count)
	if _, err := io.ReadFull(r, labels); err != nil {
		return nil, fmt.Errorf("dataset: reading %d labels: %w", count, err)
	}
	return labels, nil
}
