package datasets

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"k8s.io/klog/v2"
)

// Session and task identifiers as they appear in the BIDS file names.
const (
	Session1 = "ses-1"
	Session2 = "ses-2"

	TaskEyesClosed = "eyesclosed"
	TaskEyesOpen   = "eyesopen"
)

// Decoder turns a recording file into a channels x samples matrix. A missing
// file must be reported with an error wrapping fs.ErrNotExist.
type Decoder interface {
	Decode(path string) (*mat.Dense, error)
}

// DecoderFunc adapts a plain function to the Decoder interface.
type DecoderFunc func(path string) (*mat.Dense, error)

// Decode calls f(path).
func (f DecoderFunc) Decode(path string) (*mat.Dense, error) {
	return f(path)
}

// Recording is one decoded EEG file together with its class label.
type Recording struct {
	Data    *mat.Dense
	Label   int
	Session string
	Task    string
}

// RecordingPath returns the location of a recording inside the dataset root.
func RecordingPath(root, participantID, session, task string) string {
	return filepath.Join(root, participantID, session, "eeg", recordingFileName(participantID, session, task))
}

func recordingFileName(participantID, session, task string) string {
	return fmt.Sprintf("%s_%s_task-%s_eeg.set", participantID, session, task)
}

// Loader loads single recordings from a dataset root.
type Loader struct {
	Root    string
	Decoder Decoder
}

// Load decodes the recording of participantID for session and task and tags it
// with label. Missing or undecodable files are logged and reported as absent;
// they never abort loading of the remaining recordings.
func (l *Loader) Load(participantID, session, task string, label int) (*Recording, bool) {
	path := RecordingPath(l.Root, participantID, session, task)
	data, err := l.Decoder.Decode(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			klog.Warningf("For participant %s, the file %s was not found", participantID, recordingFileName(participantID, session, task))
		} else {
			klog.Warningf("Error loading participant %s with session %s and task %s: %v", participantID, session, task, err)
		}
		return nil, false
	}
	if data == nil {
		klog.Warningf("Error loading participant %s with session %s and task %s: decoder returned no data", participantID, session, task)
		return nil, false
	}

	rows, cols := data.Dims()
	klog.V(1).Infof("Loaded %s: %d channels x %d samples", path, rows, cols)
	return &Recording{
		Data:    data,
		Label:   label,
		Session: session,
		Task:    task,
	}, true
}
