package dataset_test

import (
	"bytes"
	"encoding/binary"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fern-ml/fern/internal/dataset"
)

// encodeImages builds an IDX image stream for the given 1x1-pixel samples.
func encodeImages(t *testing.T, rows, cols int, pixels []uint8) []byte {
	t.Helper()
	count := len(pixels) / (rows * cols)
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.BigEndian, [4]uint32{2051, uint32(count), uint32(rows), uint32(cols)}))
	buf.Write(pixels)
	return buf.Bytes()
}

func encodeLabels(t *testing.T, labels []uint8) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.BigEndian, [2]uint32{2049, uint32(len(labels))}))
	buf.Write(labels)
	return buf.Bytes()
}

func TestReadImages(t *testing.T) {
	data := encodeImages(t, 2, 2, []uint8{0, 64, 128, 255, 1, 2, 3, 4})

	pixels, count, rows, cols, err := dataset.ReadImages(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, 2, rows)
	assert.Equal(t, 2, cols)
	assert.Equal(t, []uint8{0, 64, 128, 255, 1, 2, 3, 4}, pixels)
}

func TestReadImagesBadMagic(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.BigEndian, [4]uint32{2049, 1, 1, 1}))
	buf.Write([]byte{0})

	_, _, _, _, err := dataset.ReadImages(bytes.NewReader(buf.Bytes()))
	assert.ErrorIs(t, err, dataset.ErrBadIDXMagic)
}

func TestReadImagesTruncated(t *testing.T) {
	data := encodeImages(t, 2, 2, []uint8{1, 2, 3, 4})
	_, _, _, _, err := dataset.ReadImages(bytes.NewReader(data[:len(data)-2]))
	assert.Error(t, err)
}

func TestReadLabels(t *testing.T) {
	labels, err := dataset.ReadLabels(bytes.NewReader(encodeLabels(t, []uint8{7, 0, 9})))
	require.NoError(t, err)
	assert.Equal(t, []uint8{7, 0, 9}, labels)
}

func TestReadLabelsBadMagic(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.BigEndian, [2]uint32{2051, 0}))
	_, err := dataset.ReadLabels(bytes.NewReader(buf.Bytes()))
	assert.ErrorIs(t, err, dataset.ErrBadIDXMagic)
}

func TestSyntheticShapeAndNormalization(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	d := dataset.Synthetic(100, 4, 4, 10, rng)

	assert.Equal(t, 100, d.Count)
	assert.Equal(t, 16, d.Features())
	assert.Len(t, d.Images, 1600)
	assert.Len(t, d.Labels, 100)

	for _, p := range d.Images {
		assert.GreaterOrEqual(t, p, float32(0))
		assert.LessOrEqual(t, p, float32(1))
	}
	for _, l := range d.Labels {
		assert.GreaterOrEqual(t, l, int64(0))
		assert.Less(t, l, int64(10))
	}
}

func TestSplit(t *testing.T) {
	d := dataset.Synthetic(100, 2, 2, 3, rand.New(rand.NewSource(2)))

	trainSet, valSet, err := d.Split(0.8)
	require.NoError(t, err)
	assert.Equal(t, 80, trainSet.Count)
	assert.Equal(t, 20, valSet.Count)
	assert.Equal(t, d.Labels[80], valSet.Labels[0])

	_, _, err = d.Split(1.5)
	assert.Error(t, err)
}

func TestBatchesCoverAllSamples(t *testing.T) {
	d := dataset.Synthetic(10, 1, 1, 2, rand.New(rand.NewSource(3)))

	batches := d.Batches(4, nil)
	require.Len(t, batches, 3)
	assert.Equal(t, 4, batches[0].Size)
	assert.Equal(t, 4, batches[1].Size)
	assert.Equal(t, 2, batches[2].Size) // short final batch kept

	// Without shuffling, order is preserved.
	assert.Equal(t, d.Labels[0], batches[0].Labels[0])
	assert.Equal(t, d.Labels[9], batches[2].Labels[1])
}

func TestBatchesShuffleKeepsPairs(t *testing.T) {
	// Encode each sample's identity in both its pixel and its label so a
	// shuffle that breaks image/label pairing is detectable.
	d := &dataset.Dataset{
		Images: make([]float32, 50),
		Labels: make([]int64, 50),
		Count:  50,
		Rows:   1,
		Cols:   1,
	}
	for i := 0; i < 50; i++ {
		d.Images[i] = float32(i)
		d.Labels[i] = int64(i)
	}

	seen := make(map[int64]bool)
	for _, b := range d.Batches(7, rand.New(rand.NewSource(4))) {
		for k := 0; k < b.Size; k++ {
			assert.Equal(t, float32(b.Labels[k]), b.Images[k], "image/label pairing broken")
			assert.False(t, seen[b.Labels[k]], "sample repeated")
			seen[b.Labels[k]] = true
		}
	}
	assert.Len(t, seen, 50)
}

func TestBatchesInvalidSize(t *testing.T) {
	d := dataset.Synthetic(5, 1, 1, 2, rand.New(rand.NewSource(5)))
	assert.Nil(t, d.Batches(0, nil))
}
