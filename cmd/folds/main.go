// Command folds builds the participant-level holdout and cross-validation
// splits of an EEG dataset and reports their sizes and class balance.
//
// Usage:
//
//	folds -root /data/ds004902 -mode both -channels 61 -plot plots/balance.png
//
// Settings can also come from a JSON file passed with -config. Flags given
// explicitly on the command line override the JSON values.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/Noofbiz/sleepEEG/datasets"
	"github.com/Noofbiz/sleepEEG/report"
)

// fileConfig mirrors the command line flags. Nil fields are left untouched.
type fileConfig struct {
	Root         *string  `json:"root"`
	Mode         *string  `json:"mode"`
	TestFraction *float64 `json:"test_fraction"`
	Seed         *int64   `json:"seed"`
	Folds        *int     `json:"folds"`
	Workers      *int     `json:"workers"`
	Channels     *int     `json:"channels"`
	Plot         *string  `json:"plot"`
}

type options struct {
	root         string
	mode         string
	testFraction float64
	seed         int64
	folds        int
	workers      int
	channels     int
	plot         string
}

// applyFile copies the values of the JSON config at path into opts, skipping
// the flags in explicit.
func applyFile(opts *options, path string, explicit map[string]bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read config %s", path)
	}
	var fc fileConfig
	if err := json.Unmarshal(data, &fc); err != nil {
		return errors.Wrapf(err, "parse config %s", path)
	}
	if fc.Root != nil && !explicit["root"] {
		opts.root = *fc.Root
	}
	if fc.Mode != nil && !explicit["mode"] {
		opts.mode = *fc.Mode
	}
	if fc.TestFraction != nil && !explicit["test-fraction"] {
		opts.testFraction = *fc.TestFraction
	}
	if fc.Seed != nil && !explicit["seed"] {
		opts.seed = *fc.Seed
	}
	if fc.Folds != nil && !explicit["folds"] {
		opts.folds = *fc.Folds
	}
	if fc.Workers != nil && !explicit["workers"] {
		opts.workers = *fc.Workers
	}
	if fc.Channels != nil && !explicit["channels"] {
		opts.channels = *fc.Channels
	}
	if fc.Plot != nil && !explicit["plot"] {
		opts.plot = *fc.Plot
	}
	return nil
}

func (o options) datasetConfig() (datasets.Config, error) {
	mode, err := datasets.ParseExperimentMode(o.mode)
	if err != nil {
		return datasets.Config{}, err
	}
	cfg := datasets.DefaultConfig(o.root, mode)
	cfg.TestFraction = o.testFraction
	cfg.Seed = o.seed
	cfg.Folds = o.folds
	cfg.Workers = o.workers
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	cfg.Decoder = datasets.FDTDecoder{Channels: o.channels}
	return cfg, nil
}

func main() {
	klog.InitFlags(nil)
	defer klog.Flush()

	var opts options
	flag.StringVar(&opts.root, "root", ".", "dataset root containing participants.tsv")
	flag.StringVar(&opts.mode, "mode", "both", "experiment mode: eyesclosed (1), eyesopen (2) or both (3)")
	flag.Float64Var(&opts.testFraction, "test-fraction", 0.2, "share of participants held out for testing")
	flag.Int64Var(&opts.seed, "seed", 42, "seed of the holdout shuffle")
	flag.IntVar(&opts.folds, "folds", 5, "number of cross-validation folds")
	flag.IntVar(&opts.workers, "workers", 1, "participants loaded concurrently (0 = NumCPU)")
	flag.IntVar(&opts.channels, "channels", 61, "channels per recording in the .fdt files")
	flag.StringVar(&opts.plot, "plot", "", "if set, write a class balance bar chart to this path")
	configPath := flag.String("config", "", "path to a JSON config file (optional)")
	flag.Parse()

	if *configPath != "" {
		explicit := map[string]bool{}
		flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
		if err := applyFile(&opts, *configPath, explicit); err != nil {
			klog.Exitf("failed to load config: %v", err)
		}
		klog.Infof("Loaded config from %s", *configPath)
	}

	cfg, err := opts.datasetConfig()
	if err != nil {
		klog.Exitf("invalid options: %v", err)
	}

	ds, err := datasets.NewEEGDataset(cfg)
	if err != nil {
		klog.Exitf("failed to build dataset: %v", err)
	}

	splits := ds.Splits()
	h := splits.Holdout()
	fmt.Printf("Participants: %d listed, %d with recordings\n", len(ds.Participants()), ds.Len())
	fmt.Printf("Holdout: train pool=%d test=%d (seed=%d)\n", len(h.TrainPool), len(h.Test), cfg.Seed)
	for k := range splits.NumFolds() {
		f, err := splits.Fold(k)
		if err != nil {
			klog.Exitf("fold %d: %v", k, err)
		}
		fmt.Printf("Fold %d: train=%d val=%d\n", k, len(f.Train), len(f.Val))
	}
	fmt.Printf("Split fingerprint: %016x\n", splits.Fingerprint())

	balances, err := report.Summarize(ds)
	if err != nil {
		klog.Exitf("failed to summarize splits: %v", err)
	}
	fmt.Println()
	for _, b := range balances {
		fmt.Println(b)
	}

	if opts.plot != "" {
		if err := report.PlotBalance(balances, opts.plot); err != nil {
			klog.Exitf("failed to write plot: %v", err)
		}
		klog.Infof("Wrote class balance plot to %s", opts.plot)
	}
}
