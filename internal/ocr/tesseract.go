package ocr

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// TesseractEngine recognizes text with a local tesseract installation via
// gosseract. A fresh client is created per invocation: clients are cheap,
// and page segmentation mode is per-client state.
type TesseractEngine struct{}

// NewTesseractEngine returns the production recognition engine.
func NewTesseractEngine() *TesseractEngine {
	return &TesseractEngine{}
}

// Recognize runs one tesseract pass over img using the profile's page
// segmentation mode.
func (e *TesseractEngine) Recognize(_ context.Context, img []byte, profile Profile) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetPageSegMode(gosseract.PageSegMode(profile.PSM)); err != nil {
		return "", fmt.Errorf("setting segmentation mode %d: %w", profile.PSM, err)
	}
	if err := client.SetImageFromBytes(img); err != nil {
		return "", fmt.Errorf("loading image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("recognizing text (%s): %w", profile.Name, err)
	}

	return text, nil
}

var _ Engine = (*TesseractEngine)(nil)
