// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package celeba

import (
	"image"
	"os"

	"github.com/disintegration/imaging"
	"github.com/gomlx/celeba/pkg/ml/datasets"
)

// DecodeImage is the default Decoder: it reads the file in imgPath and decodes it with imaging,
// which handles JPEG (the format of CelebA), PNG, GIF, TIFF and BMP.
//
// The image is returned as stored: no EXIF auto-orientation or other transformation is applied.
// A file that can't be opened returns a NotFound error, and one that can't be decoded a Decode error.
func DecodeImage(imgPath string) (image.Image, error) {
	f, err := os.Open(imgPath)
	if err != nil {
		return nil, datasets.WrapErrorf(datasets.NotFound, err, "failed to open image %q", imgPath)
	}
	defer func() { _ = f.Close() }()
	img, err := imaging.Decode(f)
	if err != nil {
		return nil, datasets.WrapErrorf(datasets.Decode, err, "failed to decode image %q", imgPath)
	}
	return img, nil
}
