package datasets

import (
	"fmt"
	"path/filepath"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"k8s.io/klog/v2"
)

// Config holds the construction parameters of an EEGDataset.
type Config struct {
	// Root is the dataset directory containing participants.tsv and one
	// directory per participant.
	Root string

	// Mode selects the tasks loaded per participant.
	Mode ExperimentMode

	// TestFraction of participants held out for testing, in (0, 1).
	TestFraction float64

	// Seed drives the holdout shuffle.
	Seed int64

	// Folds is the number of cross-validation folds over the train pool.
	Folds int

	// Workers > 1 loads participants concurrently.
	Workers int

	// Decoder turns recording files into matrices. Required.
	Decoder Decoder
}

// DefaultConfig returns a Config with a 20% test set, seed 42 and 5 folds.
// The Decoder still has to be set.
func DefaultConfig(root string, mode ExperimentMode) Config {
	return Config{
		Root:         root,
		Mode:         mode,
		TestFraction: 0.2,
		Seed:         42,
		Folds:        5,
		Workers:      1,
	}
}

func (c Config) validate() error {
	if c.Root == "" {
		return errors.New("dataset root is empty")
	}
	if !c.Mode.Valid() {
		return errors.Errorf("unknown experiment mode %d", int(c.Mode))
	}
	if c.Decoder == nil {
		return errors.New("no recording decoder configured")
	}
	return nil
}

// EEGDataset holds the participant-level examples of an EEG dataset together
// with their holdout and cross-validation splits. It is read-only after
// construction and safe for concurrent use.
type EEGDataset struct {
	Config Config

	// XTest and YTest hold the flattened held-out test data.
	XTest []*mat.Dense
	YTest []int

	participants []Participant
	examples     []*Example
	splits       *Splits
}

var _ Dataset = (*EEGDataset)(nil)

// NewEEGDataset reads the participant table, loads the recordings and computes
// the splits. Missing or broken recordings are skipped; an unreadable table,
// an invalid config or too few usable participants are errors.
func NewEEGDataset(cfg Config) (*EEGDataset, error) {
	if err := cfg.validate(); err != nil {
		return nil, errors.Wrap(err, "invalid dataset config")
	}

	participants, err := ReadParticipants(filepath.Join(cfg.Root, ParticipantsFile))
	if err != nil {
		return nil, err
	}

	ds := &EEGDataset{
		Config:       cfg,
		participants: participants,
	}
	loader := &Loader{Root: cfg.Root, Decoder: cfg.Decoder}
	ds.examples = Assemble(participants, loader, cfg.Mode, cfg.Workers)
	klog.Infof("Loaded %d of %d participants (mode=%s)", len(ds.examples), len(participants), cfg.Mode)

	ds.splits, err = NewSplits(len(ds.examples), cfg.TestFraction, cfg.Seed, cfg.Folds)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to split %d participants", len(ds.examples))
	}

	ds.XTest, ds.YTest, err = ds.flatten("test", ds.splits.test)
	if err != nil {
		return nil, err
	}
	return ds, nil
}

// Len returns the number of participants retained in the dataset.
func (d *EEGDataset) Len() int {
	return len(d.examples)
}

// Example returns the example at index i.
func (d *EEGDataset) Example(i int) (*Example, error) {
	if i < 0 || i >= len(d.examples) {
		return nil, errors.Errorf("index %d out of range [0, %d)", i, len(d.examples))
	}
	return d.examples[i], nil
}

// Batch flattens the examples at the given indices.
func (d *EEGDataset) Batch(indices []int) ([]*mat.Dense, []int, error) {
	return Flatten(d.examples, indices)
}

// Participants returns the rows of the participant table, including the ones
// without any usable recording.
func (d *EEGDataset) Participants() []Participant {
	out := make([]Participant, len(d.participants))
	copy(out, d.participants)
	return out
}

// Splits returns the holdout and fold partitions.
func (d *EEGDataset) Splits() *Splits {
	return d.splits
}

// NumFolds returns the number of cross-validation folds.
func (d *EEGDataset) NumFolds() int {
	return d.splits.NumFolds()
}

// SplitData returns the flattened training and validation data of fold.
func (d *EEGDataset) SplitData(fold int) (xTrain, xVal []*mat.Dense, yTrain, yVal []int, err error) {
	f, err := d.splits.Fold(fold)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	if xTrain, yTrain, err = d.flatten(fmt.Sprintf("fold-%d train", fold), f.Train); err != nil {
		return nil, nil, nil, nil, err
	}
	if xVal, yVal, err = d.flatten(fmt.Sprintf("fold-%d val", fold), f.Val); err != nil {
		return nil, nil, nil, nil, err
	}
	return xTrain, xVal, yTrain, yVal, nil
}

func (d *EEGDataset) flatten(name string, indices []int) ([]*mat.Dense, []int, error) {
	recs, labels, err := Flatten(d.examples, indices)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "flatten %s set", name)
	}
	return recs, labels, nil
}

// TestData returns the held-out test recordings and labels.
func (d *EEGDataset) TestData() ([]*mat.Dense, []int) {
	return d.XTest, d.YTest
}
