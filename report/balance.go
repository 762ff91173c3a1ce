// Package report summarizes how the recordings and class labels of an EEG
// dataset are distributed over its holdout and cross-validation splits.
//
// The holdout split is not stratified, so the class balance of the test set
// and of every fold can drift from the balance of the whole dataset. The
// summaries make that drift visible before any training is run.
package report

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/Noofbiz/sleepEEG/datasets"
)

// Dataset is what the report needs from a dataset. *datasets.EEGDataset
// implements it.
type Dataset interface {
	Batch(indices []int) ([]*mat.Dense, []int, error)
	Splits() *datasets.Splits
}

// Balance counts the participants and recordings of one partition.
type Balance struct {
	Name         string
	Participants int
	Recordings   int
	Positive     int
	Negative     int
}

// PositiveRatio returns the share of sleep deprived recordings.
func (b Balance) PositiveRatio() float64 {
	if b.Recordings == 0 {
		return 0
	}
	return float64(b.Positive) / float64(b.Recordings)
}

func (b Balance) String() string {
	return fmt.Sprintf("%-14s participants=%3d recordings=%4d sd=%4d ns=%4d (sd %.1f%%)",
		b.Name, b.Participants, b.Recordings, b.Positive, b.Negative, 100*b.PositiveRatio())
}

func count(ds Dataset, name string, indices []int) (Balance, error) {
	_, labels, err := ds.Batch(indices)
	if err != nil {
		return Balance{}, errors.Wrapf(err, "partition %s", name)
	}
	b := Balance{Name: name, Participants: len(indices), Recordings: len(labels)}
	for _, l := range labels {
		if l == 1 {
			b.Positive++
		} else {
			b.Negative++
		}
	}
	return b, nil
}

// Summarize returns the balance of the test set followed by the train and
// validation side of every fold.
func Summarize(ds Dataset) ([]Balance, error) {
	splits := ds.Splits()
	test, err := count(ds, "test", splits.Holdout().Test)
	if err != nil {
		return nil, err
	}
	out := []Balance{test}
	for k := range splits.NumFolds() {
		f, err := splits.Fold(k)
		if err != nil {
			return nil, err
		}
		train, err := count(ds, fmt.Sprintf("fold-%d train", k), f.Train)
		if err != nil {
			return nil, err
		}
		val, err := count(ds, fmt.Sprintf("fold-%d val", k), f.Val)
		if err != nil {
			return nil, err
		}
		out = append(out, train, val)
	}
	return out, nil
}

// PlotBalance writes a grouped bar chart with the sleep deprived and normal
// sleep recording counts of every partition to path. The image format follows
// the file extension.
func PlotBalance(balances []Balance, path string) error {
	if len(balances) == 0 {
		return errors.New("nothing to plot")
	}

	p := plot.New()
	p.Title.Text = "Recordings per partition: sleep deprived (red), normal sleep (blue)"
	p.Y.Label.Text = "recordings"

	sd := make(plotter.Values, len(balances))
	ns := make(plotter.Values, len(balances))
	names := make([]string, len(balances))
	for i, b := range balances {
		sd[i] = float64(b.Positive)
		ns[i] = float64(b.Negative)
		names[i] = b.Name
	}

	w := vg.Points(12)
	sdBars, err := plotter.NewBarChart(sd, w)
	if err != nil {
		return err
	}
	sdBars.Color = color.RGBA{R: 200, G: 30, B: 30, A: 220}
	sdBars.LineStyle.Width = vg.Length(0)
	sdBars.Offset = -w / 2

	nsBars, err := plotter.NewBarChart(ns, w)
	if err != nil {
		return err
	}
	nsBars.Color = color.RGBA{R: 20, G: 80, B: 200, A: 220}
	nsBars.LineStyle.Width = vg.Length(0)
	nsBars.Offset = w / 2

	p.Add(plotter.NewGrid(), sdBars, nsBars)
	p.Legend.Add("sd", sdBars)
	p.Legend.Add("ns", nsBars)
	p.Legend.Top = true
	p.NominalX(names...)
	p.X.Tick.Label.Rotation = 0.6
	p.X.Tick.Label.XAlign = -1

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "create plot directory %s", dir)
		}
	}
	width := vg.Length(len(balances))*0.6*vg.Inch + 2*vg.Inch
	return p.Save(width, 5*vg.Inch, path)
}
