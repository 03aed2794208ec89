package serialization

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/fern-ml/fern/internal/tensor"
)

// maxHeaderLen bounds the JSON header so a corrupt length field cannot
// trigger a huge allocation.
const maxHeaderLen = 64 << 20

// Load reads a checkpoint from r, verifying the checksum before decoding
// any tensor data.
func Load(r io.Reader) (*Checkpoint, error) {
	fixed := make([]byte, fixedHeaderSize)
	if _, err := io.ReadFull(r, fixed); err != nil {
		return nil, fmt.Errorf("serialization: reading header: %w", err)
	}
	if !bytes.Equal(fixed[:4], Magic[:]) {
		return nil, ErrBadMagic
	}
	if v := binary.LittleEndian.Uint32(fixed[0x04:]); v != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, v)
	}
	headerLen := binary.LittleEndian.Uint64(fixed[0x08:])
	payloadLen := binary.LittleEndian.Uint64(fixed[0x10:])
	if headerLen > maxHeaderLen {
		return nil, fmt.Errorf("serialization: header length %d exceeds limit", headerLen)
	}

	headerJSON := make([]byte, headerLen)
	if _, err := io.ReadFull(r, headerJSON); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	if payloadLen > math.MaxInt64 {
		return nil, fmt.Errorf("%w: payload length %d", ErrTruncated, payloadLen)
	}
	// Copy incrementally instead of trusting the length field: a corrupt
	// header then costs at most the bytes actually in the stream.
	var payloadBuf bytes.Buffer
	payloadBuf.Grow(int(min(payloadLen, maxHeaderLen)))
	if _, err := io.CopyN(&payloadBuf, r, int64(payloadLen)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	payload := payloadBuf.Bytes()

	sum := sha256.New()
	sum.Write(headerJSON)
	sum.Write(payload)
	if !bytes.Equal(sum.Sum(nil), fixed[checksumOffset:checksumOffset+sha256.Size]) {
		return nil, ErrChecksumMismatch
	}

	var hdr header
	if err := json.Unmarshal(headerJSON, &hdr); err != nil {
		return nil, fmt.Errorf("serialization: decoding header: %w", err)
	}

	ckpt := &Checkpoint{
		Tensors: make(map[string]*tensor.RawTensor, len(hdr.Tensors)),
		Meta:    hdr.Meta,
	}
	for _, meta := range hdr.Tensors {
		dt, ok := dtypeFromName(meta.DType)
		if !ok {
			return nil, fmt.Errorf("serialization: tensor %q has unknown dtype %q", meta.Name, meta.DType)
		}
		shape := tensor.Shape(meta.Shape)
		raw, err := tensor.NewRaw(shape, dt, tensor.CPU)
		if err != nil {
			return nil, fmt.Errorf("serialization: tensor %q: %w", meta.Name, err)
		}
		if want := uint64(raw.ByteSize()); meta.Size != want {
			return nil, fmt.Errorf("serialization: tensor %q declares %d bytes, shape needs %d",
				meta.Name, meta.Size, want)
		}
		if meta.Offset+meta.Size > payloadLen {
			return nil, fmt.Errorf("%w: tensor %q extends past payload", ErrTruncated, meta.Name)
		}
		copy(raw.Data(), payload[meta.Offset:meta.Offset+meta.Size])
		ckpt.Tensors[meta.Name] = raw
	}
	return ckpt, nil
}

// LoadFile reads a checkpoint from path.
func LoadFile(path string) (*Checkpoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("serialization: opening %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}
