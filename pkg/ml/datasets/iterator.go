// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package datasets

import (
	"context"
	"io"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Iterator reads an Indexed dataset sequentially, one example per call to Next, for loops that
// pull examples one at a time.
//
// It is safe for concurrent use: each index is handed out exactly once per epoch, and the
// reading of the example itself happens outside the lock, so multiple workers can call Next
// in parallel.
type Iterator[T any] struct {
	ds Indexed[T]

	mu   sync.Mutex
	next int
}

// NewIterator returns an Iterator positioned at the start of ds.
func NewIterator[T any](ds Indexed[T]) *Iterator[T] {
	return &Iterator[T]{ds: ds}
}

// nextIndex returns the next index and increments it, or -1 if the epoch is over.
func (it *Iterator[T]) nextIndex() int {
	it.mu.Lock()
	defer it.mu.Unlock()
	if it.next >= it.ds.Len() {
		return -1
	}
	index := it.next
	it.next++
	return index
}

// Next returns the next example and its index. At the end of the epoch it returns io.EOF,
// until Reset is called.
//
// An error reading one example is returned with its index, and doesn't stop the iteration:
// the following call to Next moves on to the next example.
func (it *Iterator[T]) Next() (index int, item T, err error) {
	index = it.nextIndex()
	if index < 0 {
		err = io.EOF
		return
	}
	item, err = it.ds.At(index)
	return
}

// Reset restarts the iteration from the first example.
func (it *Iterator[T]) Reset() {
	it.mu.Lock()
	it.next = 0
	it.mu.Unlock()
}

// ForEach calls fn for every example of ds, with at most parallelism concurrent calls.
// If parallelism <= 0, runtime.NumCPU() is used.
//
// fn receives the error (if any) returned by ds.At for the index, and it decides what to do with it:
// if fn returns an error, no new examples are read and ForEach returns the first such error.
// ForEach also stops early, returning ctx.Err(), if ctx is cancelled.
func ForEach[T any](ctx context.Context, ds Indexed[T], parallelism int, fn func(index int, item T, err error) error) error {
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	numExamples := ds.Len()
	for index := range numExamples {
		if gCtx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			item, err := ds.At(index)
			return fn(index, item, err)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
