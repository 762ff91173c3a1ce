package datasets

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExperimentMode(t *testing.T) {
	for in, want := range map[string]ExperimentMode{
		"1":          EyesClosed,
		"2":          EyesOpen,
		"3":          Both,
		"eyesclosed": EyesClosed,
		"EyesOpen":   EyesOpen,
		" both ":     Both,
	} {
		got, err := ParseExperimentMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	for _, in := range []string{"0", "4", "eyes", ""} {
		_, err := ParseExperimentMode(in)
		assert.Error(t, err, in)
	}
}

// threeParticipants builds the scenario where A has every recording, B lacks
// one eyes open file and C has nothing.
func threeParticipants(root string) ([]Participant, *fakeDecoder) {
	participants := []Participant{
		{ID: "sub-A", Session1Label: 1, Session2Label: 0},
		{ID: "sub-B", Session1Label: 0, Session2Label: 1},
		{ID: "sub-C", Session1Label: 1, Session2Label: 0},
	}
	dec := newFakeDecoder()
	for _, id := range []string{"sub-A", "sub-B"} {
		for _, task := range []string{TaskEyesClosed, TaskEyesOpen} {
			dec.add(root, id, Session1, task, 1)
			dec.add(root, id, Session2, task, 2)
		}
	}
	delete(dec.files, RecordingPath(root, "sub-B", Session2, TaskEyesOpen))
	return participants, dec
}

func TestAssemble_Both(t *testing.T) {
	root := "/data"
	participants, dec := threeParticipants(root)

	examples := Assemble(participants, &Loader{Root: root, Decoder: dec}, Both, 1)
	require.Len(t, examples, 2)

	a, b := examples[0], examples[1]
	assert.Equal(t, "sub-A", a.ParticipantID)
	assert.Equal(t, []string{"eyesclosed_sd", "eyesclosed_ns", "eyesopen_sd", "eyesopen_ns"}, a.Keys())
	assert.Equal(t, []int{1, 0, 1, 0}, a.Labels())

	assert.Equal(t, "sub-B", b.ParticipantID)
	assert.Equal(t, []string{"eyesclosed_ns", "eyesclosed_sd", "eyesopen_ns"}, b.Keys())
	assert.Equal(t, 3, b.Len())
}

func TestAssemble_SingleTaskModes(t *testing.T) {
	root := "/data"
	participants, dec := threeParticipants(root)
	loader := &Loader{Root: root, Decoder: dec}

	closed := Assemble(participants, loader, EyesClosed, 1)
	require.Len(t, closed, 2)
	assert.Equal(t, []string{"eyesclosed_sd", "eyesclosed_ns"}, closed[0].Keys())
	assert.Equal(t, []string{"eyesclosed_ns", "eyesclosed_sd"}, closed[1].Keys())

	open := Assemble(participants, loader, EyesOpen, 1)
	require.Len(t, open, 2)
	assert.Equal(t, []string{"eyesopen_sd", "eyesopen_ns"}, open[0].Keys())
	assert.Equal(t, []string{"eyesopen_ns"}, open[1].Keys())
}

func TestAssemble_DropsParticipantWithoutRecordings(t *testing.T) {
	root := "/data"
	dec := newFakeDecoder()
	dec.add(root, "sub-02", Session1, TaskEyesOpen, 1)
	// Decode errors are recovered like missing files.
	dec.add(root, "sub-03", Session1, TaskEyesClosed, 1)
	dec.broken[RecordingPath(root, "sub-03", Session1, TaskEyesClosed)] = true

	participants := []Participant{{ID: "sub-01"}, {ID: "sub-02"}, {ID: "sub-03"}}
	examples := Assemble(participants, &Loader{Root: root, Decoder: dec}, Both, 1)
	require.Len(t, examples, 1)
	assert.Equal(t, "sub-02", examples[0].ParticipantID)
}

func TestAssemble_SameLabelLaterSessionWins(t *testing.T) {
	root := "/data"
	dec := newFakeDecoder()
	for _, task := range []string{TaskEyesClosed, TaskEyesOpen} {
		dec.add(root, "sub-01", Session1, task, 1)
		dec.add(root, "sub-01", Session2, task, 2)
	}
	participants := []Participant{{ID: "sub-01", Session1Label: 1, Session2Label: 1}}

	examples := Assemble(participants, &Loader{Root: root, Decoder: dec}, Both, 1)
	require.Len(t, examples, 1)
	ex := examples[0]
	assert.Equal(t, []string{"eyesclosed_sd", "eyesopen_sd"}, ex.Keys())
	for _, key := range ex.Keys() {
		rec, ok := ex.Get(key)
		require.True(t, ok)
		assert.Equal(t, 2.0, valueOf(rec.Data), key)
		assert.Equal(t, Session2, rec.Session, key)
	}
}

func TestAssemble_WorkersMatchSequential(t *testing.T) {
	root := "/data"
	dec := newFakeDecoder()
	var participants []Participant
	for i := range 40 {
		id := fmt.Sprintf("sub-%02d", i)
		participants = append(participants, Participant{ID: id, Session1Label: i % 2, Session2Label: (i + 1) % 2})
		if i%5 == 0 {
			continue
		}
		dec.add(root, id, Session1, TaskEyesClosed, float64(i))
		if i%3 != 0 {
			dec.add(root, id, Session2, TaskEyesOpen, float64(-i))
		}
	}
	loader := &Loader{Root: root, Decoder: dec}

	sequential := Assemble(participants, loader, Both, 1)
	concurrent := Assemble(participants, loader, Both, 8)
	require.Len(t, concurrent, len(sequential))
	for i := range sequential {
		assert.Equal(t, sequential[i].ParticipantID, concurrent[i].ParticipantID)
		assert.Equal(t, sequential[i].Keys(), concurrent[i].Keys())
		assert.Equal(t, sequential[i].Labels(), concurrent[i].Labels())
	}
}
