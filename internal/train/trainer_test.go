package train_test

import (
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fern-ml/fern/internal/autodiff"
	"github.com/fern-ml/fern/internal/backend/cpu"
	"github.com/fern-ml/fern/internal/dataset"
	"github.com/fern-ml/fern/internal/nn"
	"github.com/fern-ml/fern/internal/optim"
	"github.com/fern-ml/fern/internal/train"
)

type adBackend = *autodiff.AutodiffBackend[*cpu.Backend]

func buildModel(t *testing.T, b adBackend, features, classes int, seed int64) *nn.Sequential[adBackend] {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	l1, err := nn.NewLinearInit(b, features, 16, nn.InitHe, rng)
	require.NoError(t, err)
	l2, err := nn.NewLinear(b, 16, classes, rng)
	require.NoError(t, err)
	return nn.NewSequential[adBackend](l1, nn.NewReLU[adBackend](), l2)
}

func TestFitImprovesOnSeparableData(t *testing.T) {
	b := autodiff.New(cpu.New())
	data := dataset.Synthetic(512, 4, 4, 3, rand.New(rand.NewSource(1)))
	trainSet, valSet, err := data.Split(0.8)
	require.NoError(t, err)

	model := buildModel(t, b, data.Features(), 3, 2)
	opt, err := optim.NewAdam(model.Parameters(), 0.01)
	require.NoError(t, err)

	trainer, err := train.New(b, model, opt, train.Config{
		Epochs:    5,
		BatchSize: 32,
		Seed:      3,
	})
	require.NoError(t, err)
	require.NoError(t, trainer.Fit(trainSet, valSet))

	history := trainer.History()
	require.Len(t, history.Epochs, 5)

	first := history.Epochs[0]
	last := history.Last()
	assert.Less(t, last.TrainLoss, first.TrainLoss, "training loss should fall")
	assert.Greater(t, last.ValAccuracy, 0.9, "separable data should be learned")
}

func TestFitWithSGDAndNoValidation(t *testing.T) {
	b := autodiff.New(cpu.New())
	data := dataset.Synthetic(128, 2, 2, 2, rand.New(rand.NewSource(7)))

	model := buildModel(t, b, data.Features(), 2, 8)
	opt, err := optim.NewSGD(model.Parameters(), 0.1, 0.9)
	require.NoError(t, err)

	trainer, err := train.New(b, model, opt, train.Config{
		Epochs:    3,
		BatchSize: 16,
		Seed:      9,
	})
	require.NoError(t, err)
	require.NoError(t, trainer.Fit(data, nil))
	assert.Len(t, trainer.History().Epochs, 3)
}

func TestTapeClearedBetweenSteps(t *testing.T) {
	b := autodiff.New(cpu.New())
	data := dataset.Synthetic(64, 2, 2, 2, rand.New(rand.NewSource(11)))

	model := buildModel(t, b, data.Features(), 2, 12)
	opt, err := optim.NewSGD(model.Parameters(), 0.1, 0)
	require.NoError(t, err)

	trainer, err := train.New(b, model, opt, train.Config{Epochs: 1, BatchSize: 16, Seed: 13})
	require.NoError(t, err)
	require.NoError(t, trainer.Fit(data, nil))

	assert.Zero(t, b.Tape().Len(), "tape should be cleared after training")
}

func TestEvaluateDoesNotRecord(t *testing.T) {
	b := autodiff.New(cpu.New())
	data := dataset.Synthetic(64, 2, 2, 2, rand.New(rand.NewSource(17)))

	model := buildModel(t, b, data.Features(), 2, 18)
	opt, err := optim.NewSGD(model.Parameters(), 0.1, 0)
	require.NoError(t, err)

	trainer, err := train.New(b, model, opt, train.Config{Epochs: 1, BatchSize: 16, Seed: 19})
	require.NoError(t, err)

	loss, acc := trainer.Evaluate(data)
	assert.Greater(t, loss, 0.0)
	assert.GreaterOrEqual(t, acc, 0.0)
	assert.Zero(t, b.Tape().Len(), "evaluation must not grow the tape")
	assert.True(t, b.IsRecording(), "recording should be restored")
}

func TestCheckpointRoundTrip(t *testing.T) {
	b := autodiff.New(cpu.New())
	data := dataset.Synthetic(128, 2, 2, 2, rand.New(rand.NewSource(23)))
	path := filepath.Join(t.TempDir(), "model.fern")

	model := buildModel(t, b, data.Features(), 2, 24)
	opt, err := optim.NewAdam(model.Parameters(), 0.01)
	require.NoError(t, err)

	trainer, err := train.New(b, model, opt, train.Config{
		Epochs:         2,
		BatchSize:      16,
		Seed:           25,
		CheckpointPath: path,
	})
	require.NoError(t, err)
	// No validation set, so the checkpoint is rewritten every epoch and
	// matches the final model state exactly.
	require.NoError(t, trainer.Fit(data, nil))

	// Restore into a differently initialized model and compare behavior.
	restored := buildModel(t, b, data.Features(), 2, 999)
	meta, err := train.LoadCheckpoint(path, restored)
	require.NoError(t, err)
	assert.Equal(t, "adam", meta.Optimizer)
	assert.NotZero(t, meta.Step)

	wantState := model.StateDict()
	gotState := restored.StateDict()
	require.Len(t, gotState, len(wantState))
	for name, want := range wantState {
		got := gotState[name]
		require.NotNil(t, got, name)
		assert.Equal(t, want.AsFloat32(), got.AsFloat32(), name)
	}

	// A restored model evaluated through a fresh trainer must behave like
	// the one that was trained.
	restoredOpt, err := optim.NewSGD(restored.Parameters(), 0.1, 0)
	require.NoError(t, err)
	evaluator, err := train.New(b, restored, restoredOpt, train.Config{Epochs: 1, BatchSize: 16})
	require.NoError(t, err)
	wantLoss, wantAcc := trainer.Evaluate(data)
	gotLoss, gotAcc := evaluator.Evaluate(data)
	assert.InDelta(t, wantLoss, gotLoss, 1e-6)
	assert.InDelta(t, wantAcc, gotAcc, 1e-6)
}

func TestNewRejectsBadConfig(t *testing.T) {
	b := autodiff.New(cpu.New())
	model := buildModel(t, b, 4, 2, 30)
	opt, err := optim.NewSGD(model.Parameters(), 0.1, 0)
	require.NoError(t, err)

	_, err = train.New(b, model, opt, train.Config{Epochs: 0, BatchSize: 16})
	assert.Error(t, err)
	_, err = train.New(b, model, opt, train.Config{Epochs: 1, BatchSize: 0})
	assert.Error(t, err)
}
