package dataset

import (
	"fmt"
	"math/rand"
	"os"
)

// Dataset is a labeled image set with pixels already flattened and
// normalized to [0, 1].
type Dataset struct {
	Images []float32 // (Count, Rows*Cols) row-major
	Labels []int64
	Count  int
	Rows   int
	Cols   int
}

// Features returns the flattened image width.
func (d *Dataset) Features() int { return d.Rows * d.Cols }

// LoadMNIST reads an IDX image file and its matching label file,
// normalizing pixels by 1/255.
func LoadMNIST(imagesPath, labelsPath string) (*Dataset, error) {
	imgFile, err := os.Open(imagesPath)
	if err != nil {
		return nil, fmt.Errorf("dataset: opening images: %w", err)
	}
	defer imgFile.Close()

	pixels, count, rows, cols, err := ReadImages(imgFile)
	if err != nil {
		return nil, err
	}

	lblFile, err := os.Open(labelsPath)
	if err != nil {
		return nil, fmt.Errorf("dataset: opening labels: %w", err)
	}
	defer lblFile.Close()

	rawLabels, err := ReadLabels(lblFile)
	if err != nil {
		return nil, err
	}
	if len(rawLabels) != count {
		return nil, fmt.Errorf("dataset: %d images but %d labels", count, len(rawLabels))
	}

	d := &Dataset{
		Images: make([]float32, len(pixels)),
		Labels: make([]int64, count),
		Count:  count,
		Rows:   rows,
		Cols:   cols,
	}
	for i, p := range pixels {
		d.Images[i] = float32(p) / 255
	}
	for i, l := range rawLabels {
		d.Labels[i] = int64(l)
	}
	return d, nil
}

// Split partitions the dataset at fraction frac: the first part gets
// floor(frac*Count) samples, the second the rest. No copying; the returned
// datasets alias the receiver's slices.
func (d *Dataset) Split(frac float64) (*Dataset, *Dataset, error) {
	if frac <= 0 || frac >= 1 {
		return nil, nil, fmt.Errorf("dataset: split fraction must be in (0, 1), got %g", frac)
	}
	n := int(frac * float64(d.Count))
	features := d.Features()
	first := &Dataset{
		Images: d.Images[:n*features],
		Labels: d.Labels[:n],
		Count:  n,
		Rows:   d.Rows,
		Cols:   d.Cols,
	}
	second := &Dataset{
		Images: d.Images[n*features:],
		Labels: d.Labels[n:],
		Count:  d.Count - n,
		Rows:   d.Rows,
		Cols:   d.Cols,
	}
	return first, second, nil
}

// Synthetic generates a linearly separable stand-in dataset with the given
// geometry. Each sample's pixels are noise around a per-class mean, so a
// small network trains to high accuracy quickly. Useful for smoke-testing a
// pipeline without the real IDX files.
func Synthetic(count, rows, cols, classes int, rng *rand.Rand) *Dataset {
	features := rows * cols
	d := &Dataset{
		Images: make([]float32, count*features),
		Labels: make([]int64, count),
		Count:  count,
		Rows:   rows,
		Cols:   cols,
	}
	for i := 0; i < count; i++ {
		class := rng.Intn(classes)
		d.Labels[i] = int64(class)
		mean := float32(class+1) / float32(classes+1)
		row := d.Images[i*features : (i+1)*features]
		for j := range row {
			v := mean + float32(rng.NormFloat64())*0.1
			if v < 0 {
				v = 0
			} else if v > 1 {
				v = 1
			}
			row[j] = v
		}
	}
	return d
}
