// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package datasets

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sliceDS is an Indexed over a slice of ints. Indices listed in failing return a NotFound error.
type sliceDS struct {
	values  []int
	failing map[int]bool
	reads   atomic.Int64
}

func newSliceDS(n int) *sliceDS {
	ds := &sliceDS{values: make([]int, n)}
	for ii := range ds.values {
		ds.values[ii] = 10 * ii
	}
	return ds
}

func (ds *sliceDS) Len() int { return len(ds.values) }

func (ds *sliceDS) At(index int) (int, error) {
	if err := CheckIndex(index, len(ds.values)); err != nil {
		return 0, err
	}
	ds.reads.Add(1)
	if ds.failing[index] {
		return 0, Errorf(NotFound, "value #%d is missing", index)
	}
	return ds.values[index], nil
}

func TestErrorKinds(t *testing.T) {
	err := Errorf(OutOfRange, "index %d out of range [0, %d)", 5, 3)
	assert.True(t, errors.Is(err, ErrOutOfRange))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, OutOfRange, KindOf(err))
	assert.Equal(t, "OutOfRange: index 5 out of range [0, 3)", err.Error())

	cause := io.ErrUnexpectedEOF
	err = WrapErrorf(ParseError, cause, "manifest %q line %d", "list.txt", 3)
	assert.True(t, errors.Is(err, ErrParse))
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
	assert.Contains(t, err.Error(), `manifest "list.txt" line 3`)

	// Wrapping keeps the kind.
	err = errors.WithMessage(err, "loading dataset")
	assert.Equal(t, ParseError, KindOf(err))
	assert.Equal(t, UnknownKind, KindOf(io.EOF))
	assert.Equal(t, UnknownKind, KindOf(nil))

	for kind, name := range map[ErrorKind]string{
		NotFound: "NotFound", InvalidArgument: "InvalidArgument", ParseError: "ParseError",
		OutOfRange: "OutOfRange", Decode: "Decode", UnknownKind: "Unknown",
	} {
		assert.Equal(t, name, kind.String())
	}
}

func TestCheckIndex(t *testing.T) {
	require.NoError(t, CheckIndex(0, 1))
	require.NoError(t, CheckIndex(2, 3))
	for _, index := range []int{-1, 3, 100} {
		err := CheckIndex(index, 3)
		require.Errorf(t, err, "index=%d", index)
		assert.Equal(t, OutOfRange, KindOf(err))
	}
	assert.Error(t, CheckIndex(0, 0))
}

func TestTake(t *testing.T) {
	ds := newSliceDS(5)
	taken := Take[int](ds, 3)
	require.Equal(t, 3, taken.Len())
	for ii := range 3 {
		value, err := taken.At(ii)
		require.NoError(t, err)
		assert.Equal(t, 10*ii, value)
	}
	_, err := taken.At(3)
	assert.True(t, errors.Is(err, ErrOutOfRange))

	assert.Equal(t, 5, Take[int](ds, 10).Len())
	assert.Equal(t, 0, Take[int](ds, -1).Len())
}

func TestSubset(t *testing.T) {
	ds := newSliceDS(5)
	sub, err := Subset[int](ds, []int{4, 0, 4})
	require.NoError(t, err)
	require.Equal(t, 3, sub.Len())
	var got []int
	for ii := range sub.Len() {
		value, err := sub.At(ii)
		require.NoError(t, err)
		got = append(got, value)
	}
	assert.Equal(t, []int{40, 0, 40}, got)
	_, err = sub.At(-1)
	assert.True(t, errors.Is(err, ErrOutOfRange))

	_, err = Subset[int](ds, []int{1, 5})
	assert.True(t, errors.Is(err, ErrOutOfRange))
}

func TestIterator(t *testing.T) {
	ds := newSliceDS(4)
	ds.failing = map[int]bool{2: true}
	it := NewIterator[int](ds)
	for epoch := range 2 {
		var indices, values []int
		for {
			index, value, err := it.Next()
			if err == io.EOF {
				break
			}
			indices = append(indices, index)
			if index == 2 {
				require.Errorf(t, err, "epoch %d", epoch)
				assert.True(t, errors.Is(err, ErrNotFound))
				continue
			}
			require.NoError(t, err)
			values = append(values, value)
		}
		assert.Equal(t, []int{0, 1, 2, 3}, indices)
		assert.Equal(t, []int{0, 10, 30}, values)

		// Stays at EOF until reset.
		_, _, err := it.Next()
		assert.Equal(t, io.EOF, err)
		it.Reset()
	}
}

func TestIteratorConcurrent(t *testing.T) {
	const numExamples, numWorkers = 1000, 8
	ds := newSliceDS(numExamples)
	it := NewIterator[int](ds)
	seen := make([]atomic.Int32, numExamples)
	var wg sync.WaitGroup
	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				index, value, err := it.Next()
				if err == io.EOF {
					return
				}
				if err != nil || value != 10*index {
					panic(fmt.Sprintf("unexpected result for #%d: value=%d, err=%v", index, value, err))
				}
				seen[index].Add(1)
			}
		}()
	}
	wg.Wait()
	for index := range seen {
		require.Equalf(t, int32(1), seen[index].Load(), "index %d", index)
	}
}

func TestForEach(t *testing.T) {
	ctx := context.Background()

	t.Run("all", func(t *testing.T) {
		ds := newSliceDS(100)
		ds.failing = map[int]bool{7: true, 42: true}
		var sum atomic.Int64
		var mu sync.Mutex
		var failed []int
		err := ForEach[int](ctx, ds, 4, func(index, value int, err error) error {
			if err != nil {
				mu.Lock()
				failed = append(failed, index)
				mu.Unlock()
				return nil
			}
			sum.Add(int64(value))
			return nil
		})
		require.NoError(t, err)
		assert.ElementsMatch(t, []int{7, 42}, failed)
		assert.Equal(t, int64(10*(99*100/2-7-42)), sum.Load())
	})

	t.Run("stop-on-error", func(t *testing.T) {
		ds := newSliceDS(10_000)
		ds.failing = map[int]bool{3: true}
		err := ForEach[int](ctx, ds, 2, func(_, _ int, err error) error { return err })
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotFound))
		assert.Less(t, ds.reads.Load(), int64(10_000))
	})

	t.Run("cancelled", func(t *testing.T) {
		ds := newSliceDS(10)
		cancelledCtx, cancel := context.WithCancel(ctx)
		cancel()
		var calls atomic.Int32
		err := ForEach[int](cancelledCtx, ds, 0, func(_, _ int, _ error) error {
			calls.Add(1)
			return nil
		})
		assert.True(t, errors.Is(err, context.Canceled))
		assert.Equal(t, int32(0), calls.Load())
	})
}
