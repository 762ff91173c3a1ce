package datasets

import (
	"encoding/binary"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// writeParticipants writes a participants.tsv with the given rows into root.
// Each row is "participant_id\tSessionOrder".
func writeParticipants(t *testing.T, root string, rows ...string) string {
	t.Helper()
	path := filepath.Join(root, ParticipantsFile)
	content := "participant_id\tSessionOrder\tAge\n"
	for _, r := range rows {
		content += r + "\t30\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// writeRecording writes an EEGLAB style .set/.fdt pair where every sample of
// channel c equals value + c.
func writeRecording(t *testing.T, root, participantID, session, task string, channels, samples int, value float32) {
	t.Helper()
	setPath := RecordingPath(root, participantID, session, task)
	require.NoError(t, os.MkdirAll(filepath.Dir(setPath), 0o755))
	require.NoError(t, os.WriteFile(setPath, []byte("EEG"), 0o644))

	buf := make([]byte, 0, channels*samples*float32Size)
	for range samples {
		for c := range channels {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(value+float32(c)))
		}
	}
	require.NoError(t, os.WriteFile(strings.TrimSuffix(setPath, ".set")+".fdt", buf, 0o644))
}

// fakeDecoder serves matrices from memory. Paths listed in broken fail with a
// decode error; unknown paths fail with fs.ErrNotExist.
type fakeDecoder struct {
	files  map[string]*mat.Dense
	broken map[string]bool
}

func newFakeDecoder() *fakeDecoder {
	return &fakeDecoder{files: map[string]*mat.Dense{}, broken: map[string]bool{}}
}

// add registers a 1x1 recording holding value.
func (f *fakeDecoder) add(root, participantID, session, task string, value float64) {
	f.files[RecordingPath(root, participantID, session, task)] = mat.NewDense(1, 1, []float64{value})
}

func (f *fakeDecoder) Decode(path string) (*mat.Dense, error) {
	if f.broken[path] {
		return nil, errors.New("unexpected end of data")
	}
	m, ok := f.files[path]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return m, nil
}

func valueOf(m *mat.Dense) float64 {
	return m.At(0, 0)
}

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
