package datasets

import (
	"github.com/gomlx/gomlx/pkg/core/tensors"
	"gonum.org/v1/gonum/mat"
)

// This file describes how the EEG recordings are turned into examples that are
// suitable for cross-validated model training.
//
// Layout and intended usage:
//
// EEGDataset
//   - Reads participants.tsv and derives one binary label per session from
//     the SessionOrder column (SD = sleep deprived = 1, anything else = 0).
//   - Decodes the resting-state recordings of every participant (eyes closed,
//     eyes open or both) through a pluggable Decoder.
//   - Groups the recordings of one participant into a single Example. The
//     Example is the unit of every split, so recordings of one participant
//     never end up on both sides of a train/validation/test boundary.
//   - Splits the examples once into a train pool and a held-out test set, then
//     builds k folds over the train pool.
//
// Recordings are gonum matrices (channels x samples). Batches of equally
// shaped recordings can be packed into gomlx tensors, see RecordingBatchFlat
// and FoldDataset.

// Dataset is the read side of a participant-level dataset. Indices are
// participant (example) indices, never recording indices.
type Dataset interface {
	Len() int
	Example(i int) (*Example, error)
	Batch(indices []int) (recordings []*mat.Dense, labels []int, err error)
}

// TensorSource is implemented by views that can be converted into gomlx
// tensors in one go.
type TensorSource interface {
	Tensors() (inputs *tensors.Tensor, labels *tensors.Tensor, err error)
}
