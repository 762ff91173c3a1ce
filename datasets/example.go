package datasets

import "gonum.org/v1/gonum/mat"

// Example groups every recording of one participant. Recordings are keyed by
// task key (see TaskKey) and iterate in insertion order.
type Example struct {
	ParticipantID string

	keys       []string
	recordings map[string]*Recording
}

// NewExample returns an empty example for participantID.
func NewExample(participantID string) *Example {
	return &Example{
		ParticipantID: participantID,
		recordings:    make(map[string]*Recording),
	}
}

// TaskKey builds the key a recording is stored under: "<task>_sd" for sleep
// deprived sessions and "<task>_ns" otherwise.
func TaskKey(task string, label int) string {
	if label == 1 {
		return task + "_sd"
	}
	return task + "_ns"
}

// Set stores rec under key. It reports whether an existing recording was
// replaced; a replaced key keeps its original position.
func (e *Example) Set(key string, rec *Recording) (replaced bool) {
	if e.recordings == nil {
		e.recordings = make(map[string]*Recording)
	}
	if _, ok := e.recordings[key]; ok {
		e.recordings[key] = rec
		return true
	}
	e.keys = append(e.keys, key)
	e.recordings[key] = rec
	return false
}

// Get returns the recording stored under key.
func (e *Example) Get(key string) (*Recording, bool) {
	rec, ok := e.recordings[key]
	return rec, ok
}

// Keys returns the task keys in insertion order.
func (e *Example) Keys() []string {
	out := make([]string, len(e.keys))
	copy(out, e.keys)
	return out
}

// Len returns the number of recordings.
func (e *Example) Len() int {
	return len(e.keys)
}

// Recordings returns the recording matrices in key order.
func (e *Example) Recordings() []*mat.Dense {
	out := make([]*mat.Dense, len(e.keys))
	for i, k := range e.keys {
		out[i] = e.recordings[k].Data
	}
	return out
}

// Labels returns the recording labels in key order.
func (e *Example) Labels() []int {
	out := make([]int, len(e.keys))
	for i, k := range e.keys {
		out[i] = e.recordings[k].Label
	}
	return out
}
