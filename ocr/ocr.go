//go:build ocr

// Package ocr recovers positioned words from scanned drawing sheets.
//
// This package wraps the Tesseract OCR engine via gosseract. It requires
// Tesseract to be installed on the system and the "ocr" build tag:
//
//	go build -tags ocr
//
// On macOS, install Tesseract via:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
package ocr

import (
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/fusiengineers/drawcheck/model"
)

// PageSegMode represents page segmentation modes for OCR.
// These control how Tesseract analyzes the page layout.
type PageSegMode = gosseract.PageSegMode

// Page segmentation modes.
const (
	PSM_OSD_ONLY               = gosseract.PSM_OSD_ONLY
	PSM_AUTO_OSD               = gosseract.PSM_AUTO_OSD
	PSM_AUTO_ONLY              = gosseract.PSM_AUTO_ONLY
	PSM_AUTO                   = gosseract.PSM_AUTO
	PSM_SINGLE_COLUMN          = gosseract.PSM_SINGLE_COLUMN
	PSM_SINGLE_BLOCK_VERT_TEXT = gosseract.PSM_SINGLE_BLOCK_VERT_TEXT
	PSM_SINGLE_BLOCK           = gosseract.PSM_SINGLE_BLOCK
	PSM_SINGLE_LINE            = gosseract.PSM_SINGLE_LINE
	PSM_SINGLE_WORD            = gosseract.PSM_SINGLE_WORD
	PSM_CIRCLE_WORD            = gosseract.PSM_CIRCLE_WORD
	PSM_SINGLE_CHAR            = gosseract.PSM_SINGLE_CHAR
	PSM_SPARSE_TEXT            = gosseract.PSM_SPARSE_TEXT
	PSM_SPARSE_TEXT_OSD        = gosseract.PSM_SPARSE_TEXT_OSD
	PSM_RAW_LINE               = gosseract.PSM_RAW_LINE
)

// Client wraps Tesseract for OCR operations.
type Client struct {
	client *gosseract.Client
}

// New creates a new OCR client.
// The client should be closed when no longer needed to release resources.
func New() (*Client, error) {
	client := gosseract.NewClient()
	return &Client{client: client}, nil
}

// Close releases OCR resources.
func (c *Client) Close() error {
	if c != nil && c.client != nil {
		return c.client.Close()
	}
	return nil
}

// RecognizeImage performs OCR on image data (PNG, TIFF, JPEG, etc.).
// Returns the recognized text with leading/trailing whitespace trimmed.
func (c *Client) RecognizeImage(imageData []byte) (string, error) {
	if err := c.client.SetImageFromBytes(imageData); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := c.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}

	return strings.TrimSpace(text), nil
}

// RecognizeWords performs OCR on image data and returns every recognized
// word with its bounding box. Boxes are in image pixel coordinates, origin
// top-left, matching the coordinate convention of [model.Word].
func (c *Client) RecognizeWords(imageData []byte) ([]model.Word, error) {
	if err := c.client.SetImageFromBytes(imageData); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := c.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	words := make([]model.Word, 0, len(boxes))
	for _, box := range boxes {
		text := strings.TrimSpace(box.Word)
		if text == "" {
			continue
		}
		words = append(words, model.Word{
			Text: text,
			Box: model.Rect{
				X0:     float64(box.Box.Min.X),
				X1:     float64(box.Box.Max.X),
				Top:    float64(box.Box.Min.Y),
				Bottom: float64(box.Box.Max.Y),
			},
		})
	}
	return words, nil
}

// SetLanguage sets the language(s) for OCR recognition.
// Multiple languages can be specified as a "+" separated string (e.g., "eng+fra").
// Default is "eng" (English).
func (c *Client) SetLanguage(lang string) error {
	return c.client.SetLanguage(lang)
}

// SetPageSegMode sets the page segmentation mode.
// This affects how Tesseract analyzes the page layout.
func (c *Client) SetPageSegMode(mode PageSegMode) error {
	return c.client.SetPageSegMode(mode)
}
