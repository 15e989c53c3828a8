package utils

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

// ThumbnailMaxDim bounds both thumbnail dimensions.
const ThumbnailMaxDim = 256

// Thumbnail downscales an encoded image to fit within maxDim on both
// axes, preserving aspect ratio, and returns it as JPEG. Images already
// within bounds are re-encoded as-is.
func Thumbnail(src []byte, maxDim int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	thumb := imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(80)); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}

	return buf.Bytes(), nil
}
