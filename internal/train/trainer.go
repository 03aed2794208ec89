// Package train drives the epoch loop: forward pass, backward pass,
// optimizer step, and per-epoch validation and checkpointing.
package train

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/fern-ml/fern/internal/autodiff"
	"github.com/fern-ml/fern/internal/dataset"
	"github.com/fern-ml/fern/internal/nn"
	"github.com/fern-ml/fern/internal/optim"
	"github.com/fern-ml/fern/internal/serialization"
	"github.com/fern-ml/fern/internal/tensor"
)

// Config controls a training run.
type Config struct {
	Epochs    int
	BatchSize int
	Seed      int64
	// CheckpointPath, when set, receives the model state after every
	// epoch that improves validation accuracy.
	CheckpointPath string
	// Logger receives one line per epoch; nil silences progress output.
	Logger *log.Logger
}

// Trainer runs gradient-descent training for a model over an
// autodiff-wrapped backend.
type Trainer[B tensor.Backend] struct {
	backend   *autodiff.AutodiffBackend[B]
	model     nn.Module[*autodiff.AutodiffBackend[B]]
	optimizer optim.Optimizer[*autodiff.AutodiffBackend[B]]
	config    Config
	history   History
	step      int
}

// New creates a trainer.
func New[B tensor.Backend](
	backend *autodiff.AutodiffBackend[B],
	model nn.Module[*autodiff.AutodiffBackend[B]],
	optimizer optim.Optimizer[*autodiff.AutodiffBackend[B]],
	config Config,
) (*Trainer[B], error) {
	if config.Epochs <= 0 {
		return nil, fmt.Errorf("train: epochs must be positive, got %d", config.Epochs)
	}
	if config.BatchSize <= 0 {
		return nil, fmt.Errorf("train: batch size must be positive, got %d", config.BatchSize)
	}
	return &Trainer[B]{
		backend:   backend,
		model:     model,
		optimizer: optimizer,
		config:    config,
	}, nil
}

// History returns the per-epoch statistics accumulated so far.
func (t *Trainer[B]) History() *History { return &t.history }

// Fit trains for the configured number of epochs, evaluating on val after
// each one. val may be nil.
func (t *Trainer[B]) Fit(train, val *dataset.Dataset) error {
	rng := rand.New(rand.NewSource(t.config.Seed))
	bestValAcc := -1.0

	for epoch := 1; epoch <= t.config.Epochs; epoch++ {
		start := time.Now()
		trainLoss, trainAcc, err := t.trainEpoch(train, rng)
		if err != nil {
			return fmt.Errorf("train: epoch %d: %w", epoch, err)
		}

		stats := EpochStats{
			Epoch:         epoch,
			TrainLoss:     trainLoss,
			TrainAccuracy: trainAcc,
			Duration:      time.Since(start),
		}
		if val != nil {
			stats.ValLoss, stats.ValAccuracy = t.Evaluate(val)
		}
		t.history.Epochs = append(t.history.Epochs, stats)

		if t.config.Logger != nil {
			if val != nil {
				t.config.Logger.Printf("epoch %d/%d: train loss %.4f acc %.2f%% | val loss %.4f acc %.2f%% (%s)",
					epoch, t.config.Epochs, stats.TrainLoss, stats.TrainAccuracy*100,
					stats.ValLoss, stats.ValAccuracy*100, stats.Duration.Round(time.Millisecond))
			} else {
				t.config.Logger.Printf("epoch %d/%d: train loss %.4f acc %.2f%% (%s)",
					epoch, t.config.Epochs, stats.TrainLoss, stats.TrainAccuracy*100,
					stats.Duration.Round(time.Millisecond))
			}
		}

		if t.config.CheckpointPath != "" && (val == nil || stats.ValAccuracy > bestValAcc) {
			bestValAcc = stats.ValAccuracy
			if err := t.saveCheckpoint(epoch, stats.TrainLoss); err != nil {
				return err
			}
		}
	}
	return nil
}

// trainEpoch runs one pass over the training set with shuffled batches.
func (t *Trainer[B]) trainEpoch(data *dataset.Dataset, rng *rand.Rand) (loss, acc float64, err error) {
	var losses, accs []float64

	for _, batch := range data.Batches(t.config.BatchSize, rng) {
		x, y, err := t.batchTensors(batch, data.Features())
		if err != nil {
			return 0, 0, err
		}

		logits := t.model.Forward(x)
		lossRaw := t.backend.CrossEntropy(logits.Raw(), y.Raw())

		seed, err := tensor.Ones[float32](t.backend, tensor.Shape{1})
		if err != nil {
			return 0, 0, err
		}
		grads, err := t.backend.Tape().Backward(lossRaw, seed.Raw(), t.backend)
		if err != nil {
			return 0, 0, err
		}
		if err := t.optimizer.Step(grads); err != nil {
			return 0, 0, err
		}
		t.backend.Tape().Clear()
		t.step++

		losses = append(losses, float64(lossRaw.AsFloat32()[0]))
		accs = append(accs, nn.Accuracy(logits, y))
	}
	return meanOf(losses), meanOf(accs), nil
}

// Evaluate computes mean loss and accuracy over data without recording
// gradients.
func (t *Trainer[B]) Evaluate(data *dataset.Dataset) (loss, acc float64) {
	var losses, accs []float64
	t.backend.NoGrad(func() {
		for _, batch := range data.Batches(t.config.BatchSize, nil) {
			x, y, err := t.batchTensors(batch, data.Features())
			if err != nil {
				// Batch tensors only fail on shape bugs, which the
				// training pass would already have hit.
				panic(err)
			}
			logits := t.model.Forward(x)
			lossRaw := t.backend.CrossEntropy(logits.Raw(), y.Raw())
			losses = append(losses, float64(lossRaw.AsFloat32()[0]))
			accs = append(accs, nn.Accuracy(logits, y))
		}
	})
	return meanOf(losses), meanOf(accs)
}

func (t *Trainer[B]) batchTensors(batch dataset.Batch, features int) (*tensor.Tensor[float32, *autodiff.AutodiffBackend[B]], *tensor.Tensor[int64, *autodiff.AutodiffBackend[B]], error) {
	x, err := tensor.FromSlice(t.backend, batch.Images, tensor.Shape{batch.Size, features})
	if err != nil {
		return nil, nil, fmt.Errorf("building input tensor: %w", err)
	}
	y, err := tensor.FromSlice(t.backend, batch.Labels, tensor.Shape{batch.Size})
	if err != nil {
		return nil, nil, fmt.Errorf("building label tensor: %w", err)
	}
	return x, y, nil
}

func (t *Trainer[B]) saveCheckpoint(epoch int, loss float64) error {
	ckpt := &serialization.Checkpoint{
		Tensors: t.model.StateDict(),
		Meta: serialization.CheckpointMeta{
			Epoch:           epoch,
			Step:            t.step,
			Loss:            loss,
			Optimizer:       t.optimizer.Name(),
			OptimizerConfig: t.optimizer.Config(),
		},
	}
	if err := serialization.SaveFile(t.config.CheckpointPath, ckpt); err != nil {
		return fmt.Errorf("train: saving checkpoint: %w", err)
	}
	return nil
}

// LoadCheckpoint restores a model's parameters from a checkpoint file and
// returns the stored metadata.
func LoadCheckpoint[B tensor.Backend](path string, model nn.Module[B]) (serialization.CheckpointMeta, error) {
	ckpt, err := serialization.LoadFile(path)
	if err != nil {
		return serialization.CheckpointMeta{}, err
	}
	if err := model.LoadStateDict(ckpt.Tensors); err != nil {
		return serialization.CheckpointMeta{}, fmt.Errorf("train: restoring model state: %w", err)
	}
	return ckpt.Meta, nil
}
