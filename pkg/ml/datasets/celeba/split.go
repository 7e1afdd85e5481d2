// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package celeba

import (
	"github.com/gomlx/celeba/pkg/ml/datasets"
)

// Split of the dataset. Its integer value is the code used for it in the partition manifest.
type Split int

const (
	Train Split = 0
	Val   Split = 1
	Test  Split = 2
)

// NumSplits is the number of valid splits.
const NumSplits = 3

// Splits lists all valid splits, in code order.
var Splits = []Split{Train, Val, Test}

var splitNames = [NumSplits]string{"train", "val", "test"}

// IsValid returns whether s is one of Train, Val or Test.
func (s Split) IsValid() bool {
	return s >= Train && s <= Test
}

// Code returns the integer used in the partition manifest for the split.
func (s Split) Code() int { return int(s) }

// String implements fmt.Stringer and flag.Value.
func (s Split) String() string {
	if !s.IsValid() {
		return "invalid"
	}
	return splitNames[s]
}

// ParseSplit converts "train", "val" or "test" to a Split.
// Any other name returns an InvalidArgument error.
func ParseSplit(name string) (Split, error) {
	for ii, splitName := range splitNames {
		if name == splitName {
			return Split(ii), nil
		}
	}
	return -1, datasets.Errorf(datasets.InvalidArgument, "invalid split %q: valid values are \"train\", \"val\" and \"test\"", name)
}

// Set implements flag.Value.
func (s *Split) Set(name string) error {
	split, err := ParseSplit(name)
	if err != nil {
		return err
	}
	*s = split
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (s Split) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, datasets.Errorf(datasets.InvalidArgument, "invalid split %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Split) UnmarshalText(text []byte) error {
	return s.Set(string(text))
}
