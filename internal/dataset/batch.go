package dataset

import (
	"math/rand"
)

// Batch is one training step's worth of samples.
type Batch struct {
	Images []float32 // (Size, features) row-major
	Labels []int64
	Size   int
}

// Batches slices the dataset into batches of batchSize. When rng is
// non-nil the sample order is shuffled first (Fisher-Yates); pass nil for
// deterministic evaluation order. A short final batch is kept.
func (d *Dataset) Batches(batchSize int, rng *rand.Rand) []Batch {
	if batchSize <= 0 || d.Count == 0 {
		return nil
	}

	order := make([]int, d.Count)
	for i := range order {
		order[i] = i
	}
	if rng != nil {
		for i := len(order) - 1; i > 0; i-- {
			j := rng.Intn(i + 1)
			order[i], order[j] = order[j], order[i]
		}
	}

	features := d.Features()
	batches := make([]Batch, 0, (d.Count+batchSize-1)/batchSize)
	for start := 0; start < d.Count; start += batchSize {
		end := start + batchSize
		if end > d.Count {
			end = d.Count
		}
		size := end - start

		b := Batch{
			Images: make([]float32, size*features),
			Labels: make([]int64, size),
			Size:   size,
		}
		for k, idx := range order[start:end] {
			copy(b.Images[k*features:(k+1)*features], d.Images[idx*features:(idx+1)*features])
			b.Labels[k] = d.Labels[idx]
		}
		batches = append(batches, b)
	}
	return batches
}
