package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Noofbiz/sleepEEG/datasets"
)

func TestApplyFile_ExplicitFlagsWin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "folds.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
  "root": "/data/eeg",
  "mode": "eyesopen",
  "test_fraction": 0.25,
  "seed": 7,
  "folds": 4,
  "channels": 32,
  "plot": "out/balance.png"
}`), 0o644))

	opts := options{root: ".", mode: "both", testFraction: 0.2, seed: 42, folds: 5, workers: 1, channels: 61}
	require.NoError(t, applyFile(&opts, path, map[string]bool{"seed": true, "channels": true}))

	assert.Equal(t, options{
		root:         "/data/eeg",
		mode:         "eyesopen",
		testFraction: 0.25,
		seed:         42,
		folds:        4,
		workers:      1,
		channels:     61,
		plot:         "out/balance.png",
	}, opts)
}

func TestApplyFile_Errors(t *testing.T) {
	var opts options
	assert.Error(t, applyFile(&opts, filepath.Join(t.TempDir(), "missing.json"), nil))

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))
	assert.Error(t, applyFile(&opts, path, nil))
}

func TestDatasetConfig(t *testing.T) {
	opts := options{root: "/data", mode: "2", testFraction: 0.3, seed: 1, folds: 3, workers: 0, channels: 16}
	cfg, err := opts.datasetConfig()
	require.NoError(t, err)
	assert.Equal(t, datasets.EyesOpen, cfg.Mode)
	assert.Equal(t, 0.3, cfg.TestFraction)
	assert.Equal(t, int64(1), cfg.Seed)
	assert.Equal(t, 3, cfg.Folds)
	assert.Positive(t, cfg.Workers)
	assert.Equal(t, datasets.FDTDecoder{Channels: 16}, cfg.Decoder)

	opts.mode = "sideways"
	_, err = opts.datasetConfig()
	assert.Error(t, err)
}
