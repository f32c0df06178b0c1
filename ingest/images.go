package ingest

import (
	"fmt"

	"github.com/fusiengineers/drawcheck/model"
)

// WordRecognizer recovers positioned words from one page image. The ocr
// package's Client satisfies it when built with the "ocr" tag.
type WordRecognizer interface {
	RecognizeWords(imageData []byte) ([]model.Word, error)
}

// FromImages builds a Document from pre-rasterized page images using OCR.
// Rasterization itself (PDF to image) is left to the caller's tooling; this
// function only turns images into searchable pages. Recognized words go
// through the same table detection as text-layer pages.
func FromImages(images [][]byte, recognizer WordRecognizer) (*model.Document, error) {
	doc := &model.Document{}
	for i, img := range images {
		words, err := recognizer.RecognizeWords(img)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
		addPage(doc, i+1, words)
	}
	return doc, nil
}
