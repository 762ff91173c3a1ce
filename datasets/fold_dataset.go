package datasets

import (
	"fmt"
	"io"
	"math/rand"

	"github.com/gomlx/gomlx/pkg/core/tensors"
	"github.com/gomlx/gomlx/pkg/ml/train"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// FoldDataset serves a flattened view (one fold side or the test set) as a
// gomlx train.Dataset. Each epoch yields every recording exactly once, in
// batches of BatchSize (the last batch may be smaller), then io.EOF.
type FoldDataset struct {
	// BatchSize for yielding batches
	BatchSize int

	name       string
	recordings []*mat.Dense
	labels     []int

	order    []int
	next     int
	rand     *rand.Rand
	shuffled bool
}

var (
	_ train.Dataset = (*FoldDataset)(nil)
	_ TensorSource  = (*FoldDataset)(nil)
)

// NewFoldDataset wraps recordings and labels. batchSize must be positive.
func NewFoldDataset(name string, recordings []*mat.Dense, labels []int, batchSize int) (*FoldDataset, error) {
	if len(recordings) != len(labels) {
		return nil, errors.Errorf("recordings and labels sizes don't match: %d != %d", len(recordings), len(labels))
	}
	if batchSize <= 0 {
		return nil, errors.Errorf("batch size must be positive, got %d", batchSize)
	}
	order := make([]int, len(recordings))
	for i := range order {
		order[i] = i
	}
	return &FoldDataset{
		BatchSize:  batchSize,
		name:       name,
		recordings: recordings,
		labels:     labels,
		order:      order,
	}, nil
}

// Name implements train.Dataset.
func (d *FoldDataset) Name() string {
	return d.name
}

// Len returns the number of recordings.
func (d *FoldDataset) Len() int {
	return len(d.recordings)
}

// Shuffle reorders the recordings with a generator seeded by seed and keeps
// reshuffling on every Reset.
func (d *FoldDataset) Shuffle(seed int64) {
	d.rand = rand.New(rand.NewSource(seed))
	d.shuffled = true
	d.reshuffle()
}

func (d *FoldDataset) reshuffle() {
	d.rand.Shuffle(len(d.order), func(i, j int) {
		d.order[i], d.order[j] = d.order[j], d.order[i]
	})
}

// Reset implements train.Dataset.
func (d *FoldDataset) Reset() {
	d.next = 0
	if d.shuffled {
		d.reshuffle()
	}
}

// Yield implements train.Dataset.
func (d *FoldDataset) Yield() (spec any, inputs []*tensors.Tensor, labels []*tensors.Tensor, err error) {
	if d.next >= len(d.order) {
		err = io.EOF
		return
	}
	end := min(d.next+d.BatchSize, len(d.order))
	recs := make([]*mat.Dense, 0, end-d.next)
	labs := make([]int, 0, end-d.next)
	for _, i := range d.order[d.next:end] {
		recs = append(recs, d.recordings[i])
		labs = append(labs, d.labels[i])
	}
	d.next = end

	in, la, err := batchTensors(recs, labs)
	if err != nil {
		return nil, nil, nil, errors.Wrapf(err, "dataset %s", d.name)
	}
	return d.name, []*tensors.Tensor{in}, []*tensors.Tensor{la}, nil
}

// Tensors implements TensorSource for the whole view, in original order.
func (d *FoldDataset) Tensors() (*tensors.Tensor, *tensors.Tensor, error) {
	return batchTensors(d.recordings, d.labels)
}

func batchTensors(recordings []*mat.Dense, labels []int) (*tensors.Tensor, *tensors.Tensor, error) {
	flat, err := MakeRecordingBatchFlat(recordings, labels)
	if err != nil {
		return nil, nil, err
	}
	return flat.ToGomlxTensors()
}

// TrainDataset returns the training side of fold as a train.Dataset.
func (d *EEGDataset) TrainDataset(fold, batchSize int) (*FoldDataset, error) {
	x, _, y, _, err := d.SplitData(fold)
	if err != nil {
		return nil, err
	}
	return NewFoldDataset(fmt.Sprintf("fold-%d-train", fold), x, y, batchSize)
}

// ValDataset returns the validation side of fold as a train.Dataset.
func (d *EEGDataset) ValDataset(fold, batchSize int) (*FoldDataset, error) {
	_, x, _, y, err := d.SplitData(fold)
	if err != nil {
		return nil, err
	}
	return NewFoldDataset(fmt.Sprintf("fold-%d-val", fold), x, y, batchSize)
}

// TestDataset returns the held-out test data as a train.Dataset.
func (d *EEGDataset) TestDataset(batchSize int) (*FoldDataset, error) {
	return NewFoldDataset("test", d.XTest, d.YTest, batchSize)
}
