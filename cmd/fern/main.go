// Command fern trains a feed-forward MNIST classifier from IDX files and
// reports per-epoch loss and accuracy.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	adfacade "github.com/fern-ml/fern/autodiff"
	"github.com/fern-ml/fern/backend/cpu"
	"github.com/fern-ml/fern/dataset"
	"github.com/fern-ml/fern/internal/autodiff"
	"github.com/fern-ml/fern/nn"
	"github.com/fern-ml/fern/optim"
	"github.com/fern-ml/fern/train"
)

type options struct {
	dataDir    string
	epochs     int
	batchSize  int
	lr         float64
	momentum   float64
	optimizer  string
	hidden     string
	seed       int64
	checkpoint string
	load       string
	synthetic  bool
	valSplit   float64
}

func main() {
	var opts options
	flag.StringVar(&opts.dataDir, "data", "", "directory with MNIST IDX files (train-images-idx3-ubyte etc.)")
	flag.IntVar(&opts.epochs, "epochs", 5, "training epochs")
	flag.IntVar(&opts.batchSize, "batch", 64, "batch size")
	flag.Float64Var(&opts.lr, "lr", 0.01, "learning rate")
	flag.Float64Var(&opts.momentum, "momentum", 0.9, "SGD momentum")
	flag.StringVar(&opts.optimizer, "optimizer", "sgd", "optimizer: sgd or adam")
	flag.StringVar(&opts.hidden, "hidden", "128", "comma-separated hidden layer sizes")
	flag.Int64Var(&opts.seed, "seed", 42, "random seed")
	flag.StringVar(&opts.checkpoint, "checkpoint", "", "path to write best model checkpoint")
	flag.StringVar(&opts.load, "load", "", "restore a checkpoint and evaluate it instead of training")
	flag.BoolVar(&opts.synthetic, "synthetic", false, "train on generated data instead of IDX files")
	flag.Float64Var(&opts.valSplit, "val-split", 0.1, "fraction of training data held out for validation")
	flag.Parse()

	runner := run
	if opts.load != "" {
		runner = runEval
	}
	if err := runner(opts); err != nil {
		fmt.Fprintf(os.Stderr, "fern: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	logger := log.New(os.Stdout, "", log.LstdFlags)

	data, err := loadData(opts)
	if err != nil {
		return err
	}
	trainSet, valSet, err := data.Split(1 - opts.valSplit)
	if err != nil {
		return err
	}
	logger.Printf("loaded %d training and %d validation samples (%dx%d)",
		trainSet.Count, valSet.Count, data.Rows, data.Cols)

	hidden, err := parseHidden(opts.hidden)
	if err != nil {
		return err
	}

	backend := adfacade.New(cpu.New())
	rng := rand.New(rand.NewSource(opts.seed))

	model, err := buildModel(backend, data.Features(), hidden, 10, rng)
	if err != nil {
		return err
	}

	opt, err := buildOptimizer(backend, model, opts)
	if err != nil {
		return err
	}

	trainer, err := train.New(backend, model, opt, train.Config{
		Epochs:         opts.epochs,
		BatchSize:      opts.batchSize,
		Seed:           opts.seed,
		CheckpointPath: opts.checkpoint,
		Logger:         logger,
	})
	if err != nil {
		return err
	}

	if err := trainer.Fit(trainSet, valSet); err != nil {
		return err
	}

	best := trainer.History().Best()
	logger.Printf("best validation accuracy %.2f%% (epoch %d)", best.ValAccuracy*100, best.Epoch)
	if opts.checkpoint != "" {
		logger.Printf("checkpoint written to %s", opts.checkpoint)
	}
	return nil
}

// runEval restores a trained model from -load and reports its loss and
// accuracy on the test split.
func runEval(opts options) error {
	logger := log.New(os.Stdout, "", log.LstdFlags)

	data, err := loadEvalData(opts)
	if err != nil {
		return err
	}
	logger.Printf("loaded %d evaluation samples (%dx%d)", data.Count, data.Rows, data.Cols)

	hidden, err := parseHidden(opts.hidden)
	if err != nil {
		return err
	}

	backend := adfacade.New(cpu.New())
	rng := rand.New(rand.NewSource(opts.seed))

	model, err := buildModel(backend, data.Features(), hidden, 10, rng)
	if err != nil {
		return err
	}

	meta, err := train.LoadCheckpoint(opts.load, model)
	if err != nil {
		return err
	}
	logger.Printf("restored %s (epoch %d, train loss %.4f, optimizer %s)",
		opts.load, meta.Epoch, meta.Loss, meta.Optimizer)

	opt, err := buildOptimizer(backend, model, opts)
	if err != nil {
		return err
	}

	trainer, err := train.New(backend, model, opt, train.Config{
		Epochs:    1,
		BatchSize: opts.batchSize,
		Seed:      opts.seed,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	loss, acc := trainer.Evaluate(data)
	logger.Printf("eval loss %.4f, accuracy %.2f%%", loss, acc*100)
	return nil
}

func loadData(opts options) (*dataset.Dataset, error) {
	if opts.synthetic {
		rng := rand.New(rand.NewSource(opts.seed))
		return dataset.Synthetic(4096, 28, 28, 10, rng), nil
	}
	if opts.dataDir == "" {
		return nil, fmt.Errorf("either -data or -synthetic is required")
	}
	return dataset.LoadMNIST(
		filepath.Join(opts.dataDir, "train-images-idx3-ubyte"),
		filepath.Join(opts.dataDir, "train-labels-idx1-ubyte"),
	)
}

func loadEvalData(opts options) (*dataset.Dataset, error) {
	if opts.synthetic {
		rng := rand.New(rand.NewSource(opts.seed + 1))
		return dataset.Synthetic(1024, 28, 28, 10, rng), nil
	}
	if opts.dataDir == "" {
		return nil, fmt.Errorf("either -data or -synthetic is required")
	}
	return dataset.LoadMNIST(
		filepath.Join(opts.dataDir, "t10k-images-idx3-ubyte"),
		filepath.Join(opts.dataDir, "t10k-labels-idx1-ubyte"),
	)
}

func parseHidden(spec string) ([]int, error) {
	var sizes []int
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid hidden layer size %q", part)
		}
		sizes = append(sizes, n)
	}
	return sizes, nil
}

type backendT = *autodiff.AutodiffBackend[*cpu.Backend]

func buildModel(backend backendT, inFeatures int, hidden []int, classes int, rng *rand.Rand) (*nn.Sequential[backendT], error) {
	model := nn.NewSequential[backendT]()
	width := inFeatures
	for _, h := range hidden {
		layer, err := nn.NewLinearInit(backend, width, h, nn.InitHe, rng)
		if err != nil {
			return nil, err
		}
		model.Add(layer)
		model.Add(nn.NewReLU[backendT]())
		width = h
	}
	out, err := nn.NewLinear(backend, width, classes, rng)
	if err != nil {
		return nil, err
	}
	model.Add(out)
	return model, nil
}

func buildOptimizer(backend backendT, model *nn.Sequential[backendT], opts options) (optim.Optimizer[backendT], error) {
	switch opts.optimizer {
	case "sgd":
		return optim.NewSGD(model.Parameters(), opts.lr, opts.momentum)
	case "adam":
		return optim.NewAdam(model.Parameters(), opts.lr)
	default:
		return nil, fmt.Errorf("unknown optimizer %q (want sgd or adam)", opts.optimizer)
	}
}
