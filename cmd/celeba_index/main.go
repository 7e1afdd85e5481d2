// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// celeba_index inspects the split index of a CelebA dataset directory: it can summarize the
// partition manifest, list the files of a split and verify that all its images decode.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/dustin/go-humanize"
	"github.com/gomlx/celeba/pkg/ml/datasets"
	"github.com/gomlx/celeba/pkg/ml/datasets/celeba"
	"github.com/gomlx/celeba/pkg/support/fsutil"
	"github.com/janpfeifer/must"
	"github.com/schollz/progressbar/v3"
	"k8s.io/klog/v2"
)

var (
	flagDataDir  = flag.String("data", "~/work/celeba", "Root directory of the CelebA dataset, with the partition manifest and the images sub-directory.")
	flagManifest = flag.String("manifest", celeba.DefaultManifest, "Partition manifest, relative to --data.")
	flagSplit    = flag.String("split", "train", `Split to index: "train", "val" or "test".`)

	flagSummary     = flag.Bool("summary", true, "Display the number of images per split in the manifest.")
	flagList        = flag.Int("list", 0, "List the first N files of the --split.")
	flagVerify      = flag.Bool("verify", false, "Read and decode every image of the --split, and report those that fail.")
	flagParallelism = flag.Int("parallelism", 0, "Number of images decoded in parallel with --verify. If 0, it uses the number of CPUs.")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	if flag.NArg() > 0 {
		klog.Errorf("Unexpected arguments %q. See 'celeba_index -help'.", flag.Args())
		os.Exit(1)
	}

	rootDir := fsutil.MustReplaceTildeInDir(*flagDataDir)
	if *flagSummary {
		if err := reportSummary(rootDir); err != nil {
			klog.Fatalf("Failed to summarize the partition manifest: %+v", err)
		}
	}
	ds, err := celeba.NewFromName(rootDir, *flagManifest, *flagSplit)
	if err != nil {
		klog.Fatalf("Failed to index CelebA: %+v", err)
	}
	if *flagList > 0 {
		reportFiles(ds, *flagList)
	}
	if *flagVerify {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()
		if numFailed := verify(ctx, ds, *flagParallelism); numFailed > 0 {
			cancel()
			os.Exit(1)
		}
	}
}

// reportSummary prints the number of manifest entries per split.
func reportSummary(rootDir string) error {
	entries, err := celeba.ReadManifestFile(fsutil.JoinIfRelative(rootDir, *flagManifest))
	if err != nil {
		return err
	}
	summary := celeba.Summarize(entries)
	fmt.Println(titleStyle.Render("Summary"))
	table := newTable()
	table.Row(false, "root", rootDir)
	table.Row(false, "manifest", *flagManifest)
	for _, split := range celeba.Splits {
		table.Row(false, split.String(), humanize.Comma(int64(summary.Count(split))))
	}
	table.Row(summary.Unassigned > 0, "unassigned", humanize.Comma(int64(summary.Unassigned)))
	table.Row(false, "total", humanize.Comma(int64(summary.Total)))
	fmt.Println(table.Render())
	return nil
}

// reportFiles lists the first n files of the dataset.
func reportFiles(ds *celeba.Dataset, n int) {
	fmt.Println(titleStyle.Render(fmt.Sprintf("%s: first %d of %s files", ds.Name(), min(n, ds.Len()), humanize.Comma(int64(ds.Len())))))
	table := newTable("#", "File")
	files := datasets.Take[string](filesOf{ds}, n)
	for ii := range files.Len() {
		table.Row(false, strconv.Itoa(ii), must.M1(files.At(ii)))
	}
	fmt.Println(table.Render())
}

// filesOf exposes the file names of a celeba.Dataset as a datasets.Indexed.
type filesOf struct {
	ds *celeba.Dataset
}

func (f filesOf) Len() int                     { return f.ds.Len() }
func (f filesOf) At(index int) (string, error) { return f.ds.File(index) }

// verify decodes every image in ds, and reports the ones that failed. It returns the number of failures.
func verify(ctx context.Context, ds *celeba.Dataset, parallelism int) int {
	bar := progressbar.Default(int64(ds.Len()), fmt.Sprintf("Verifying %s", ds.Name()))
	var (
		totalBytes atomic.Int64
		numDecoded atomic.Int64
		mu         sync.Mutex
		failures   = make(map[int]error)
	)
	err := datasets.ForEach(ctx, ds, parallelism, func(index int, _ image.Image, err error) error {
		defer func() { _ = bar.Add(1) }()
		if err != nil {
			mu.Lock()
			failures[index] = err
			mu.Unlock()
			return nil
		}
		numDecoded.Add(1)
		if info, statErr := os.Stat(must.M1(ds.ImagePath(index))); statErr == nil {
			totalBytes.Add(info.Size())
		}
		return nil
	})
	_ = bar.Close()
	fmt.Println()
	if err != nil {
		klog.Errorf("Verification interrupted: %v", err)
	}

	fmt.Println(titleStyle.Render("Verification"))
	table := newTable("#", "File", "Error")
	for index := range ds.Len() {
		if failErr, found := failures[index]; found {
			table.Row(true, strconv.Itoa(index), must.M1(ds.File(index)), datasets.KindOf(failErr).String())
			klog.V(1).Infof("Image #%d: %+v", index, failErr)
		}
	}
	table.Row(false, "", "images decoded", humanize.Comma(numDecoded.Load()))
	table.Row(len(failures) > 0, "", "failures", humanize.Comma(int64(len(failures))))
	table.Row(false, "", "bytes read", humanize.Bytes(uint64(totalBytes.Load())))
	fmt.Println(table.Render())
	return len(failures)
}
