package train

import (
	"time"

	"gonum.org/v1/gonum/stat"
)

// EpochStats summarizes one epoch of training.
type EpochStats struct {
	Epoch         int
	TrainLoss     float64
	TrainAccuracy float64
	ValLoss       float64
	ValAccuracy   float64
	Duration      time.Duration
}

// History accumulates per-epoch statistics across a run.
type History struct {
	Epochs []EpochStats
}

// Last returns the most recent epoch's stats.
func (h *History) Last() EpochStats {
	if len(h.Epochs) == 0 {
		return EpochStats{}
	}
	return h.Epochs[len(h.Epochs)-1]
}

// Best returns the epoch with the highest validation accuracy.
func (h *History) Best() EpochStats {
	best := EpochStats{}
	for _, e := range h.Epochs {
		if e.ValAccuracy >= best.ValAccuracy {
			best = e
		}
	}
	return best
}

// meanOf averages per-batch measurements into an epoch figure.
func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}
