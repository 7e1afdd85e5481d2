// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package datasets defines Indexed, a sized collection of examples with random access, and a few
// utilities to combine them: `Take`, `Subset`, `Iterator` and `ForEach`.
//
// It also defines the error kinds (NotFound, InvalidArgument, ParseError, OutOfRange, Decode)
// returned by the datasets in this module.
package datasets

import (
	"slices"
)

// Indexed is a sized collection of examples, accessed by their ordinal position.
//
// Implementations are expected to be safe for concurrent calls to Len and At, as long as the
// dataset is not modified -- which is the case for every dataset in this module.
type Indexed[T any] interface {
	// Len returns the number of examples. It is stable for the lifetime of the dataset.
	Len() int

	// At returns the example at position index, which must be in [0, Len()).
	// Otherwise, it returns an error of kind OutOfRange.
	At(index int) (T, error)
}

// takeDataset implements Indexed over the first `take` examples of ds.
type takeDataset[T any] struct {
	ds   Indexed[T]
	take int
}

// Take returns a view of ds with only its first n examples. If n is larger than ds.Len(),
// the view has the same length as ds.
func Take[T any](ds Indexed[T], n int) Indexed[T] {
	n = max(0, min(n, ds.Len()))
	return &takeDataset[T]{ds: ds, take: n}
}

// Len implements Indexed.
func (ds *takeDataset[T]) Len() int { return ds.take }

// At implements Indexed.
func (ds *takeDataset[T]) At(index int) (item T, err error) {
	if err = CheckIndex(index, ds.take); err != nil {
		return
	}
	return ds.ds.At(index)
}

// subsetDataset implements Indexed over a selection of indices of ds.
type subsetDataset[T any] struct {
	ds      Indexed[T]
	indices []int
}

// Subset returns a view of ds with the examples at the given indices, in the given order.
// Indices may repeat. It returns an OutOfRange error if any index is not valid in ds.
func Subset[T any](ds Indexed[T], indices []int) (Indexed[T], error) {
	length := ds.Len()
	for _, index := range indices {
		if err := CheckIndex(index, length); err != nil {
			return nil, err
		}
	}
	return &subsetDataset[T]{ds: ds, indices: slices.Clone(indices)}, nil
}

// Len implements Indexed.
func (ds *subsetDataset[T]) Len() int { return len(ds.indices) }

// At implements Indexed.
func (ds *subsetDataset[T]) At(index int) (item T, err error) {
	if err = CheckIndex(index, len(ds.indices)); err != nil {
		return
	}
	return ds.ds.At(ds.indices[index])
}
