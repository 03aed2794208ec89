// Package serialization implements the fern checkpoint format: a fixed
// 64-byte header carrying a SHA-256 checksum, a JSON metadata block, and a
// 64-byte-aligned tensor payload.
//
// Layout:
//
//	0x00  magic "FERN"          (4 bytes)
//	0x04  format version        (uint32 LE)
//	0x08  JSON header length    (uint64 LE)
//	0x10  payload length        (uint64 LE)
//	0x18  reserved              (8 bytes, zero)
//	0x20  SHA-256 checksum      (32 bytes, over JSON header + payload)
//	0x40  JSON header
//	....  payload, each tensor aligned to 64 bytes
package serialization

import (
	"github.com/fern-ml/fern/internal/tensor"
)

// Magic identifies a fern checkpoint file.
var Magic = [4]byte{'F', 'E', 'R', 'N'}

// Version is the current format version.
const Version uint32 = 1

// fixedHeaderSize is the byte length of the fixed header.
const fixedHeaderSize = 64

// payloadAlign is the alignment of each tensor within the payload.
const payloadAlign = 64

// checksumOffset is the byte offset of the SHA-256 checksum within the
// fixed header.
const checksumOffset = 0x20

// TensorMeta locates one tensor inside the payload.
type TensorMeta struct {
	Name   string `json:"name"`
	DType  string `json:"dtype"`
	Shape  []int  `json:"shape"`
	Offset uint64 `json:"offset"` // from payload start, 64-byte aligned
	Size   uint64 `json:"size"`   // bytes
}

// CheckpointMeta carries training-run state alongside the tensors.
type CheckpointMeta struct {
	Epoch           int                `json:"epoch"`
	Step            int                `json:"step"`
	Loss            float64            `json:"loss"`
	Optimizer       string             `json:"optimizer,omitempty"`
	OptimizerConfig map[string]float64 `json:"optimizer_config,omitempty"`
	CreatedAt       string             `json:"created_at,omitempty"`
}

// header is the JSON block between the fixed header and the payload.
type header struct {
	Tensors []TensorMeta   `json:"tensors"`
	Meta    CheckpointMeta `json:"meta"`
}

// Checkpoint is a named tensor collection plus run metadata.
type Checkpoint struct {
	Tensors map[string]*tensor.RawTensor
	Meta    CheckpointMeta
}

// dtypeNames maps tensor dtypes to their wire names.
var dtypeNames = map[tensor.DataType]string{
	tensor.Float32: "float32",
	tensor.Float64: "float64",
	tensor.Int32:   "int32",
	tensor.Int64:   "int64",
	tensor.Uint8:   "uint8",
}

func dtypeFromName(name string) (tensor.DataType, bool) {
	for dt, n := range dtypeNames {
		if n == name {
			return dt, true
		}
	}
	return 0, false
}

// alignUp rounds n up to the next multiple of payloadAlign.
func alignUp(n uint64) uint64 {
	return (n + payloadAlign - 1) &^ (payloadAlign - 1)
}
