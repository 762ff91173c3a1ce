package datasets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestTaskKey(t *testing.T) {
	assert.Equal(t, "eyesclosed_sd", TaskKey(TaskEyesClosed, 1))
	assert.Equal(t, "eyesclosed_ns", TaskKey(TaskEyesClosed, 0))
	assert.Equal(t, "eyesopen_sd", TaskKey(TaskEyesOpen, 1))
}

func TestExample_SetKeepsInsertionOrder(t *testing.T) {
	ex := NewExample("sub-01")
	rec := func(v float64, label int) *Recording {
		return &Recording{Data: mat.NewDense(1, 1, []float64{v}), Label: label}
	}

	assert.False(t, ex.Set("b", rec(1, 1)))
	assert.False(t, ex.Set("a", rec(2, 0)))
	assert.True(t, ex.Set("b", rec(3, 1)))

	assert.Equal(t, 2, ex.Len())
	assert.Equal(t, []string{"b", "a"}, ex.Keys())
	assert.Equal(t, []int{1, 0}, ex.Labels())

	recs := ex.Recordings()
	assert.Equal(t, 3.0, valueOf(recs[0]))
	assert.Equal(t, 2.0, valueOf(recs[1]))

	got, ok := ex.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 0, got.Label)
	_, ok = ex.Get("c")
	assert.False(t, ok)
}
