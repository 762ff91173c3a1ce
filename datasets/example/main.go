package main

// Example command that loads the EEG dataset, prints the participant-level
// splits and converts the first fold into gomlx tensors.
//
// Usage:
//   go run ./datasets/example -root ../assets/ds004902 -channels 61
//
// Recordings that are missing or cannot be decoded are skipped with a warning;
// participants without any recording are left out of the splits.

import (
	"flag"
	"fmt"
	"io"

	"k8s.io/klog/v2"

	"github.com/Noofbiz/sleepEEG/datasets"
)

func main() {
	klog.InitFlags(nil)
	root := flag.String("root", "../assets/ds004902", "dataset root containing participants.tsv")
	channels := flag.Int("channels", 61, "channels per recording")
	batchSize := flag.Int("batch-size", 8, "batch size for the fold-0 training dataset")
	flag.Parse()
	defer klog.Flush()

	cfg := datasets.DefaultConfig(*root, datasets.Both)
	cfg.Decoder = datasets.FDTDecoder{Channels: *channels}

	ds, err := datasets.NewEEGDataset(cfg)
	if err != nil {
		klog.Exitf("failed to load EEG dataset: %v", err)
	}
	fmt.Printf("Participants with recordings: %d\n", ds.Len())

	// Show the first participant's recordings
	if ds.Len() > 0 {
		ex, err := ds.Example(0)
		if err != nil {
			klog.Exitf("failed to read example 0: %v", err)
		}
		fmt.Printf("First participant %s:\n", ex.ParticipantID)
		for _, key := range ex.Keys() {
			rec, _ := ex.Get(key)
			r, c := rec.Data.Dims()
			fmt.Printf("  %-14s label=%d shape=[%d, %d]\n", key, rec.Label, r, c)
		}
	}

	xTrain, xVal, yTrain, yVal, err := ds.SplitData(0)
	if err != nil {
		klog.Exitf("failed to get fold 0: %v", err)
	}
	fmt.Printf("Fold 0: %d train recordings (%d labels), %d val recordings (%d labels)\n",
		len(xTrain), len(yTrain), len(xVal), len(yVal))
	fmt.Printf("Test: %d recordings\n", len(ds.XTest))

	train, err := ds.TrainDataset(0, *batchSize)
	if err != nil {
		klog.Exitf("failed to build fold 0 training dataset: %v", err)
	}
	train.Shuffle(cfg.Seed)

	batches := 0
	for {
		_, inputs, labels, err := train.Yield()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Recordings of different lengths cannot share a tensor.
			fmt.Printf("Note: could not pack batch %d: %v\n", batches, err)
			fmt.Println("In practice, you would need to crop recordings to a fixed length.")
			return
		}
		if batches == 0 {
			fmt.Printf("First batch: inputs %s labels %s\n", inputs[0].Shape(), labels[0].Shape())
		}
		batches++
	}
	fmt.Printf("Fold 0 training epoch: %d batches of up to %d recordings\n", batches, *batchSize)
}
