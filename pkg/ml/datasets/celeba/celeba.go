// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package celeba indexes the CelebA ("Large-scale CelebFaces Attributes") dataset by split.
//
// It reads the partition manifest (usually "list_eval_partition.txt"), where each line is
// "<file> <split_code>" with codes 0 for train, 1 for val and 2 for test, and gives
// random access to the decoded images of one split, found under "<root>/img_align_celeba/".
// The Dataset implements datasets.Indexed[image.Image].
//
// Usage example:
//
//	ds, err := celeba.New("/data/celeba", celeba.DefaultManifest, celeba.Train)
//	if err != nil { ... }
//	for ii := range ds.Len() {
//		img, err := ds.At(ii)
//		...
//	}
//
// Images are read and decoded at every call to At: there is no caching, nor any transformation.
// For batching, shuffling or parallel loading, see package datasets.
package celeba

import (
	"fmt"
	"image"
	"path/filepath"
	"slices"

	"github.com/gomlx/celeba/pkg/ml/datasets"
	"github.com/gomlx/celeba/pkg/support/fsutil"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

const (
	// DefaultManifest is the name of the partition manifest distributed with CelebA.
	DefaultManifest = "list_eval_partition.txt"

	// DefaultImagesDir is the sub-directory of the root with the aligned and cropped images.
	DefaultImagesDir = "img_align_celeba"
)

// Decoder reads and decodes the image at the given path.
type Decoder func(path string) (image.Image, error)

// Dataset of one split of CelebA. It is immutable once created, and safe for concurrent use.
type Dataset struct {
	rootDir, imagesDir string
	split              Split
	files              []string
	decoder            Decoder
}

// Compile-time check that Dataset implements datasets.Indexed.
var _ datasets.Indexed[image.Image] = (*Dataset)(nil)

// Option configures New.
type Option func(ds *Dataset)

// WithDecoder sets the function used to decode images. The default is DecodeImage.
func WithDecoder(decoder Decoder) Option {
	return func(ds *Dataset) {
		ds.decoder = decoder
	}
}

// WithImagesDir sets the sub-directory of the root where images are stored. The default is DefaultImagesDir.
func WithImagesDir(name string) Option {
	return func(ds *Dataset) {
		ds.imagesDir = name
	}
}

// New creates the Dataset for split, reading the partition manifest in manifestPath, relative to rootDir.
//
// Errors, checked in this order:
//
//   - NotFound if rootDir doesn't exist.
//   - InvalidArgument if split is not one of Train, Val or Test.
//   - InvalidArgument if manifestPath is empty.
//   - NotFound if the manifest doesn't exist.
//   - ParseError if any line of the manifest is not "<file> <integer code>". No line is skipped.
//
// Manifest entries with codes other than 0, 1 or 2 are silently excluded from all splits.
func New(rootDir, manifestPath string, split Split, options ...Option) (*Dataset, error) {
	if err := checkRootDir(rootDir); err != nil {
		return nil, err
	}
	if !split.IsValid() {
		return nil, datasets.Errorf(datasets.InvalidArgument, "invalid split %d: valid values are Train(0), Val(1) and Test(2)", int(split))
	}
	if manifestPath == "" {
		return nil, datasets.Errorf(datasets.InvalidArgument, "partition manifest path not given")
	}
	manifestPath = fsutil.JoinIfRelative(rootDir, manifestPath)
	exists, err := fsutil.FileExists(manifestPath)
	if err != nil {
		return nil, datasets.WrapErrorf(datasets.NotFound, err, "failed to access partition manifest %q", manifestPath)
	}
	if !exists {
		return nil, datasets.Errorf(datasets.NotFound, "partition manifest %q doesn't exist", manifestPath)
	}

	entries, err := ReadManifestFile(manifestPath)
	if err != nil {
		return nil, err
	}
	ds := &Dataset{
		rootDir:   rootDir,
		imagesDir: DefaultImagesDir,
		split:     split,
		files:     FilterSplit(entries, split),
		decoder:   DecodeImage,
	}
	for _, option := range options {
		option(ds)
	}
	klog.V(1).Infof("CelebA: %d %s images (out of %d) listed in %q", len(ds.files), split, len(entries), manifestPath)
	return ds, nil
}

// NewFromName is like New, but takes the split by its name ("train", "val" or "test").
//
// The root directory is checked before the split name, so the errors come in the same order as
// New's: NotFound for a missing rootDir, then InvalidArgument for an unknown split name.
func NewFromName(rootDir, manifestPath, splitName string, options ...Option) (*Dataset, error) {
	if err := checkRootDir(rootDir); err != nil {
		return nil, err
	}
	split, err := ParseSplit(splitName)
	if err != nil {
		return nil, err
	}
	return New(rootDir, manifestPath, split, options...)
}

// checkRootDir returns a NotFound error if rootDir doesn't exist or can't be accessed.
func checkRootDir(rootDir string) error {
	exists, err := fsutil.FileExists(rootDir)
	if err != nil {
		return datasets.WrapErrorf(datasets.NotFound, err, "failed to access dataset root directory %q", rootDir)
	}
	if !exists {
		return datasets.Errorf(datasets.NotFound, "dataset root directory %q doesn't exist", rootDir)
	}
	return nil
}

// Name returns a description of the dataset, including its split.
func (ds *Dataset) Name() string {
	return fmt.Sprintf("CelebA [%s]", ds.split)
}

// Split of the dataset.
func (ds *Dataset) Split() Split { return ds.split }

// RootDir returns the dataset root directory.
func (ds *Dataset) RootDir() string { return ds.rootDir }

// ImagesDir returns the sub-directory of the root where images are read from.
func (ds *Dataset) ImagesDir() string { return ds.imagesDir }

// Files returns a copy of the image file names of the split, in manifest order.
func (ds *Dataset) Files() []string { return slices.Clone(ds.files) }

// Len implements datasets.Indexed. It returns the number of images in the split.
func (ds *Dataset) Len() int { return len(ds.files) }

// File returns the file name, as listed in the manifest, of the image at index.
func (ds *Dataset) File(index int) (string, error) {
	if err := datasets.CheckIndex(index, len(ds.files)); err != nil {
		return "", err
	}
	return ds.files[index], nil
}

// ImagePath returns the full path to the image at index.
func (ds *Dataset) ImagePath(index int) (string, error) {
	file, err := ds.File(index)
	if err != nil {
		return "", err
	}
	return filepath.Join(ds.rootDir, ds.imagesDir, file), nil
}

// At implements datasets.Indexed. It reads and decodes the image at index.
//
// It returns an OutOfRange error if index is not in [0, Len()), and the decoder's error
// (NotFound for missing files, Decode for invalid contents, with DecodeImage) otherwise.
// Errors from a custom decoder that don't carry a kind are reported as NotFound.
func (ds *Dataset) At(index int) (image.Image, error) {
	imgPath, err := ds.ImagePath(index)
	if err != nil {
		return nil, err
	}
	img, err := ds.decoder(imgPath)
	if err != nil {
		if datasets.KindOf(err) == datasets.UnknownKind {
			return nil, datasets.WrapErrorf(datasets.NotFound, err, "failed to read image #%d %q", index, imgPath)
		}
		return nil, errors.WithMessagef(err, "image #%d", index)
	}
	return img, nil
}
