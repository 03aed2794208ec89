package serialization_test

import (
	"bytes"
	"encoding/binary"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fern-ml/fern/internal/backend/cpu"
	"github.com/fern-ml/fern/internal/serialization"
	"github.com/fern-ml/fern/internal/tensor"
)

func sampleCheckpoint(t *testing.T) *serialization.Checkpoint {
	t.Helper()
	b := cpu.New()

	w, err := tensor.FromSlice(b, []float32{1.5, -2.25, 3, 0.125}, tensor.Shape{2, 2})
	require.NoError(t, err)
	bias, err := tensor.FromSlice(b, []float32{0.5, -0.5}, tensor.Shape{2})
	require.NoError(t, err)

	return &serialization.Checkpoint{
		Tensors: map[string]*tensor.RawTensor{
			"0.weight": w.Raw(),
			"0.bias":   bias.Raw(),
		},
		Meta: serialization.CheckpointMeta{
			Epoch:           3,
			Step:            1200,
			Loss:            0.042,
			Optimizer:       "sgd",
			OptimizerConfig: map[string]float64{"lr": 0.01, "momentum": 0.9},
		},
	}
}

func TestRoundTrip(t *testing.T) {
	ckpt := sampleCheckpoint(t)

	var buf bytes.Buffer
	require.NoError(t, serialization.Save(&buf, ckpt))

	loaded, err := serialization.Load(&buf)
	require.NoError(t, err)

	assert.Equal(t, ckpt.Meta.Epoch, loaded.Meta.Epoch)
	assert.Equal(t, ckpt.Meta.Step, loaded.Meta.Step)
	assert.Equal(t, ckpt.Meta.Loss, loaded.Meta.Loss)
	assert.Equal(t, "sgd", loaded.Meta.Optimizer)
	assert.Equal(t, 0.01, loaded.Meta.OptimizerConfig["lr"])

	require.Len(t, loaded.Tensors, 2)
	w := loaded.Tensors["0.weight"]
	require.NotNil(t, w)
	assert.True(t, w.Shape().Equal(tensor.Shape{2, 2}))
	assert.Equal(t, []float32{1.5, -2.25, 3, 0.125}, w.AsFloat32())

	bias := loaded.Tensors["0.bias"]
	require.NotNil(t, bias)
	assert.Equal(t, []float32{0.5, -0.5}, bias.AsFloat32())
}

func TestFileRoundTrip(t *testing.T) {
	ckpt := sampleCheckpoint(t)
	path := filepath.Join(t.TempDir(), "model.fern")

	require.NoError(t, serialization.SaveFile(path, ckpt))
	loaded, err := serialization.LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, loaded.Tensors, 2)
}

func TestPayloadAlignment(t *testing.T) {
	ckpt := sampleCheckpoint(t)
	var buf bytes.Buffer
	require.NoError(t, serialization.Save(&buf, ckpt))

	loaded, err := serialization.Load(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Len(t, loaded.Tensors, 2)
}

func TestBadMagic(t *testing.T) {
	data := make([]byte, 128)
	copy(data, "NOPE")
	_, err := serialization.Load(bytes.NewReader(data))
	assert.ErrorIs(t, err, serialization.ErrBadMagic)
}

func TestChecksumMismatch(t *testing.T) {
	ckpt := sampleCheckpoint(t)
	var buf bytes.Buffer
	require.NoError(t, serialization.Save(&buf, ckpt))

	// Flip a payload byte past the headers.
	corrupted := buf.Bytes()
	corrupted[len(corrupted)-1] ^= 0xFF

	_, err := serialization.Load(bytes.NewReader(corrupted))
	assert.ErrorIs(t, err, serialization.ErrChecksumMismatch)
}

func TestTruncated(t *testing.T) {
	ckpt := sampleCheckpoint(t)
	var buf bytes.Buffer
	require.NoError(t, serialization.Save(&buf, ckpt))

	_, err := serialization.Load(bytes.NewReader(buf.Bytes()[:buf.Len()-10]))
	assert.ErrorIs(t, err, serialization.ErrTruncated)
}

func TestEmptyCheckpoint(t *testing.T) {
	ckpt := &serialization.Checkpoint{
		Tensors: map[string]*tensor.RawTensor{},
		Meta:    serialization.CheckpointMeta{Epoch: 1},
	}
	var buf bytes.Buffer
	require.NoError(t, serialization.Save(&buf, ckpt))

	loaded, err := serialization.Load(&buf)
	require.NoError(t, err)
	assert.Empty(t, loaded.Tensors)
	assert.Equal(t, 1, loaded.Meta.Epoch)
}

func TestCorruptPayloadLength(t *testing.T) {
	ckpt := sampleCheckpoint(t)
	var buf bytes.Buffer
	require.NoError(t, serialization.Save(&buf, ckpt))

	// An absurd payload length must fail as truncated input once the real
	// bytes run out, not reserve memory for the claimed size.
	raw := buf.Bytes()
	binary.LittleEndian.PutUint64(raw[0x10:], 1<<60)
	_, err := serialization.Load(bytes.NewReader(raw))
	assert.ErrorIs(t, err, serialization.ErrTruncated)
}
