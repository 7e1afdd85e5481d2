// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package celeba

import (
	"bufio"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/gomlx/celeba/pkg/ml/datasets"
	"github.com/pkg/errors"
)

// Entry is one line of the partition manifest: an image file name and the code of the split
// it belongs to. Codes other than 0, 1 or 2 are valid, but belong to no split.
type Entry struct {
	File string
	Code int
}

// Split returns the split the entry belongs to and whether the code is one of the valid splits.
func (e Entry) Split() (Split, bool) {
	s := Split(e.Code)
	return s, s.IsValid()
}

// ParseLine parses a manifest line of the form "<file> <code>".
//
// The line is trimmed of surrounding white space and then split on single spaces: tokens after
// the second are ignored, and two consecutive spaces yield an empty (and therefore invalid) code.
// Lines with fewer than two tokens or a non-integer code return a ParseError.
func ParseLine(line string) (Entry, error) {
	tokens := strings.Split(strings.TrimSpace(line), " ")
	if len(tokens) < 2 {
		return Entry{}, datasets.Errorf(datasets.ParseError, "expected \"<file> <split_code>\", got %q", line)
	}
	code, err := strconv.Atoi(tokens[1])
	if err != nil {
		return Entry{}, datasets.WrapErrorf(datasets.ParseError, err, "invalid split code %q in line %q", tokens[1], line)
	}
	return Entry{File: tokens[0], Code: code}, nil
}

// ReadManifest parses every line of the manifest read from r.
// The first line that fails to parse aborts the read with a ParseError naming its (1-based) line number.
// Lines have no length limit. A failure reading r returns a NotFound error.
func ReadManifest(r io.Reader) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), math.MaxInt)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		entry, err := ParseLine(scanner.Text())
		if err != nil {
			return nil, errors.WithMessagef(err, "line %d", lineNum)
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, datasets.WrapErrorf(datasets.NotFound, err, "failed reading manifest after line %d", lineNum)
	}
	return entries, nil
}

// ReadManifestFile opens and parses the manifest in filePath.
// A missing or unreadable file returns a NotFound error.
func ReadManifestFile(filePath string) ([]Entry, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, datasets.WrapErrorf(datasets.NotFound, err, "failed to open manifest %q", filePath)
	}
	defer func() { _ = f.Close() }()
	entries, err := ReadManifest(f)
	if err != nil {
		return nil, errors.WithMessagef(err, "manifest %q", filePath)
	}
	return entries, nil
}

// FilterSplit returns the files of the entries that belong to split, in the order they appear.
func FilterSplit(entries []Entry, split Split) []string {
	var files []string
	for _, entry := range entries {
		if entry.Code == split.Code() {
			files = append(files, entry.File)
		}
	}
	return files
}

// Summary counts the entries of a manifest per split.
type Summary struct {
	// Counts of entries per split, indexed by the split code.
	Counts [NumSplits]int

	// Unassigned is the number of entries whose code is not a valid split.
	Unassigned int

	// Total number of entries.
	Total int
}

// Summarize counts the entries per split.
func Summarize(entries []Entry) Summary {
	var s Summary
	for _, entry := range entries {
		s.Total++
		if split, ok := entry.Split(); ok {
			s.Counts[split]++
		} else {
			s.Unassigned++
		}
	}
	return s
}

// Count returns the number of entries in split, or 0 for an invalid split.
func (s Summary) Count(split Split) int {
	if !split.IsValid() {
		return 0
	}
	return s.Counts[split]
}
