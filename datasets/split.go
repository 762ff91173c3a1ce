package datasets

import (
	"encoding/binary"
	"math"
	"math/rand"
	"slices"

	"github.com/cespare/xxhash"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ErrFoldOutOfRange is returned when a fold outside [0, folds) is requested.
var ErrFoldOutOfRange = errors.New("fold index out of range")

// Holdout is the one-time split of the example indices into a train pool and
// a held-out test set.
type Holdout struct {
	TrainPool []int
	Test      []int
}

// Fold is one train/validation pair. Returned by KFold it holds positions in
// [0, n); returned by Splits it holds example indices.
type Fold struct {
	Train []int
	Val   []int
}

// HoldoutSplit shuffles [0, n) with a generator seeded by seed and moves the
// first ceil(testFraction*n) indices to the test set. The train pool keeps
// the shuffled order. Labels are not looked at, so the split is not
// stratified.
func HoldoutSplit(n int, testFraction float64, seed int64) (Holdout, error) {
	if testFraction <= 0 || testFraction >= 1 {
		return Holdout{}, errors.Errorf("test fraction must be in (0, 1), got %v", testFraction)
	}
	if n <= 0 {
		return Holdout{}, errors.New("cannot split an empty dataset")
	}
	nTest := int(math.Ceil(testFraction * float64(n)))
	nTrain := n - nTest
	if nTest == 0 || nTrain == 0 {
		return Holdout{}, errors.Errorf("test fraction %v leaves an empty side for %d examples (train=%d, test=%d)",
			testFraction, n, nTrain, nTest)
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)
	return Holdout{
		TrainPool: perm[nTest:],
		Test:      perm[:nTest],
	}, nil
}

// KFold partitions the positions [0, n) into k contiguous validation blocks,
// without shuffling. The first n%k folds get one extra position.
func KFold(n, k int) ([]Fold, error) {
	if k < 2 {
		return nil, errors.Errorf("number of folds must be at least 2, got %d", k)
	}
	if k > n {
		return nil, errors.Errorf("cannot have %d folds with only %d examples", k, n)
	}

	folds := make([]Fold, k)
	start := 0
	for i := range k {
		size := n / k
		if i < n%k {
			size++
		}
		end := start + size
		fold := Fold{
			Train: make([]int, 0, n-size),
			Val:   make([]int, 0, size),
		}
		for p := range n {
			if p >= start && p < end {
				fold.Val = append(fold.Val, p)
			} else {
				fold.Train = append(fold.Train, p)
			}
		}
		folds[i] = fold
		start = end
	}
	return folds, nil
}

// Splits holds the holdout split and the cross-validation folds of a dataset.
// It is read-only after NewSplits.
type Splits struct {
	holdout Holdout
	folds   []Fold

	// test is holdout.Test in ascending order.
	test []int
}

// NewSplits splits n examples into a train pool and a test set, then builds
// folds over the train pool. Fold positions are translated into example
// indices through the train pool. All index sets except TrainPool are sorted
// ascending.
func NewSplits(n int, testFraction float64, seed int64, folds int) (*Splits, error) {
	holdout, err := HoldoutSplit(n, testFraction, seed)
	if err != nil {
		return nil, errors.Wrap(err, "holdout split")
	}
	local, err := KFold(len(holdout.TrainPool), folds)
	if err != nil {
		return nil, errors.Wrapf(err, "k-fold split of %d train pool examples", len(holdout.TrainPool))
	}

	s := &Splits{
		holdout: holdout,
		folds:   make([]Fold, len(local)),
		test:    sortedCopy(holdout.Test),
	}
	for i, f := range local {
		s.folds[i] = Fold{
			Train: translate(holdout.TrainPool, f.Train),
			Val:   translate(holdout.TrainPool, f.Val),
		}
	}
	return s, nil
}

// translate maps fold-local positions to example indices.
func translate(pool, positions []int) []int {
	out := make([]int, len(positions))
	for i, p := range positions {
		out[i] = pool[p]
	}
	slices.Sort(out)
	return out
}

func sortedCopy(in []int) []int {
	out := slices.Clone(in)
	slices.Sort(out)
	return out
}

// Holdout returns a copy of the holdout split. Test is sorted ascending.
func (s *Splits) Holdout() Holdout {
	return Holdout{
		TrainPool: slices.Clone(s.holdout.TrainPool),
		Test:      slices.Clone(s.test),
	}
}

// NumFolds returns the number of cross-validation folds.
func (s *Splits) NumFolds() int {
	return len(s.folds)
}

// Fold returns a copy of fold k.
func (s *Splits) Fold(k int) (Fold, error) {
	if k < 0 || k >= len(s.folds) {
		return Fold{}, errors.Wrapf(ErrFoldOutOfRange, "fold %d not in [0, %d)", k, len(s.folds))
	}
	return Fold{
		Train: slices.Clone(s.folds[k].Train),
		Val:   slices.Clone(s.folds[k].Val),
	}, nil
}

// Fingerprint hashes every partition. Two splits with equal fingerprints
// assign every example to the same sides.
func (s *Splits) Fingerprint() uint64 {
	h := xxhash.New()
	var buf [8]byte
	write := func(tag byte, indices []int) {
		_, _ = h.Write([]byte{tag})
		binary.LittleEndian.PutUint64(buf[:], uint64(len(indices)))
		_, _ = h.Write(buf[:])
		for _, i := range indices {
			binary.LittleEndian.PutUint64(buf[:], uint64(i))
			_, _ = h.Write(buf[:])
		}
	}
	write('p', s.holdout.TrainPool)
	write('t', s.test)
	for _, f := range s.folds {
		write('f', f.Train)
		write('v', f.Val)
	}
	return h.Sum64()
}

// Flatten lists every recording of the examples at indices, example by
// example and in key order within an example, together with their labels.
func Flatten(collection []*Example, indices []int) ([]*mat.Dense, []int, error) {
	var recordings []*mat.Dense
	var labels []int
	for _, idx := range indices {
		if idx < 0 || idx >= len(collection) {
			return nil, nil, errors.Errorf("index %d out of range [0, %d)", idx, len(collection))
		}
		ex := collection[idx]
		recordings = append(recordings, ex.Recordings()...)
		labels = append(labels, ex.Labels()...)
	}
	return recordings, labels, nil
}
