package ocr

import (
	"bytes"
	"fmt"
	"image"

	"golang.org/x/image/tiff"
)

// EncodeTIFF encodes an image as uncompressed TIFF, the format Tesseract
// handles most reliably for rasterized drawing sheets.
func EncodeTIFF(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := tiff.Encode(&buf, img, &tiff.Options{Compression: tiff.Uncompressed}); err != nil {
		return nil, fmt.Errorf("tiff encode: %w", err)
	}
	return buf.Bytes(), nil
}
