package datasets

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
)

// ExperimentMode selects which resting-state tasks are loaded.
type ExperimentMode int

const (
	EyesClosed ExperimentMode = iota + 1
	EyesOpen
	Both
)

// String returns the lower case mode name.
func (m ExperimentMode) String() string {
	switch m {
	case EyesClosed:
		return "eyesclosed"
	case EyesOpen:
		return "eyesopen"
	case Both:
		return "both"
	}
	return "mode(" + strconv.Itoa(int(m)) + ")"
}

// Valid reports whether m is one of the known modes.
func (m ExperimentMode) Valid() bool {
	return m >= EyesClosed && m <= Both
}

// Tasks returns the tasks loaded for m, in load order.
func (m ExperimentMode) Tasks() []string {
	switch m {
	case EyesClosed:
		return []string{TaskEyesClosed}
	case EyesOpen:
		return []string{TaskEyesOpen}
	case Both:
		return []string{TaskEyesClosed, TaskEyesOpen}
	}
	return nil
}

// ParseExperimentMode accepts the numeric codes 1, 2, 3 or the mode names
// ("eyesclosed", "eyesopen", "both", case insensitive).
func ParseExperimentMode(s string) (ExperimentMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		m := ExperimentMode(n)
		if !m.Valid() {
			return 0, errors.Errorf("unknown experiment mode %d", n)
		}
		return m, nil
	}
	for _, m := range []ExperimentMode{EyesClosed, EyesOpen, Both} {
		if s == m.String() {
			return m, nil
		}
	}
	return 0, errors.Errorf("unknown experiment mode %q", s)
}

// assembleParticipant loads every recording of p required by mode. It returns
// nil when nothing could be loaded.
func assembleParticipant(p Participant, loader *Loader, mode ExperimentMode) *Example {
	ex := NewExample(p.ID)
	for _, task := range mode.Tasks() {
		for _, ses := range []struct {
			name  string
			label int
		}{{Session1, p.Session1Label}, {Session2, p.Session2Label}} {
			rec, ok := loader.Load(p.ID, ses.name, task, ses.label)
			if !ok {
				continue
			}
			key := TaskKey(task, ses.label)
			// Both sessions share a label: the later session wins.
			if ex.Set(key, rec) {
				klog.V(1).Infof("Participant %s: %s from %s replaced an earlier recording", p.ID, key, ses.name)
			}
		}
	}
	if ex.Len() == 0 {
		return nil
	}
	klog.V(1).Infof("Participant %s: %v", p.ID, ex.Keys())
	return ex
}

// Assemble builds one Example per participant, in participant order, dropping
// participants without any successfully loaded recording. With workers > 1
// participants are loaded concurrently; the result does not depend on workers.
func Assemble(participants []Participant, loader *Loader, mode ExperimentMode, workers int) []*Example {
	loaded := make([]*Example, len(participants))
	if workers <= 1 {
		for i, p := range participants {
			loaded[i] = assembleParticipant(p, loader, mode)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(workers)
		for i, p := range participants {
			g.Go(func() error {
				loaded[i] = assembleParticipant(p, loader, mode)
				return nil
			})
		}
		_ = g.Wait()
	}

	collection := make([]*Example, 0, len(loaded))
	for _, ex := range loaded {
		if ex != nil {
			collection = append(collection, ex)
		}
	}
	return collection
}
