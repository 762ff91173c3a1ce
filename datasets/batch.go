package datasets

import (
	"github.com/gomlx/gomlx/pkg/core/tensors"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// RecordingBatchFlat stores a batch of equally shaped recordings in one
// contiguous buffer of shape [Batch, Channels, Samples].
type RecordingBatchFlat struct {
	Buf      []float32
	Labels   []int32
	Batch    int
	Channels int
	Samples  int
}

// MakeRecordingBatchFlat packs recordings and their labels into a flat batch.
// All recordings must have the same number of channels and samples.
func MakeRecordingBatchFlat(recordings []*mat.Dense, labels []int) (*RecordingBatchFlat, error) {
	if len(recordings) != len(labels) {
		return nil, errors.Errorf("recordings and labels batch sizes don't match: %d != %d", len(recordings), len(labels))
	}
	if len(recordings) == 0 {
		return &RecordingBatchFlat{}, nil
	}

	channels, samples := recordings[0].Dims()
	for i := 1; i < len(recordings); i++ {
		r, c := recordings[i].Dims()
		if r != channels || c != samples {
			return nil, errors.Errorf("inconsistent shapes: recording 0 has shape [%d %d], recording %d has shape [%d %d]",
				channels, samples, i, r, c)
		}
	}

	batch := len(recordings)
	frame := channels * samples
	flat := &RecordingBatchFlat{
		Buf:      make([]float32, batch*frame),
		Labels:   make([]int32, batch),
		Batch:    batch,
		Channels: channels,
		Samples:  samples,
	}
	for i, rec := range recordings {
		base := i * frame
		for ch := range channels {
			row := rec.RawRowView(ch)
			for s, v := range row {
				flat.Buf[base+ch*samples+s] = float32(v)
			}
		}
		flat.Labels[i] = int32(labels[i])
	}
	return flat, nil
}

// ErrEmptyBatch is returned when an empty batch is converted to tensors.
var ErrEmptyBatch = errors.New("empty batch has no tensor representation")

// ToGomlxTensors converts the batch into a [batch, channels, samples] float32
// tensor and a [batch] int32 label tensor. Empty batches yield ErrEmptyBatch.
func (b *RecordingBatchFlat) ToGomlxTensors() (*tensors.Tensor, *tensors.Tensor, error) {
	if b.Batch == 0 || b.Channels == 0 || b.Samples == 0 {
		return nil, nil, ErrEmptyBatch
	}
	// Reshape flat buffer into 3D slice
	data := make([][][]float32, b.Batch)
	idx := 0
	for i := range b.Batch {
		data[i] = make([][]float32, b.Channels)
		for ch := range b.Channels {
			data[i][ch] = b.Buf[idx : idx+b.Samples]
			idx += b.Samples
		}
	}
	return tensors.FromAnyValue(data), tensors.FromAnyValue(b.Labels), nil
}
