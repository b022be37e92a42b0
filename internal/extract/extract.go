// Package extract converts transcript PDFs to plain text.
package extract

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/oral-history-lab/transcript-cli/internal/config"
)

// Extractor extracts text content from PDF files.
type Extractor interface {
	ExtractText(ctx context.Context, pdfPath string) (string, error)
}

// NewExtractor creates an Extractor based on config.
func NewExtractor(cfg config.ConvertConfig) (Extractor, error) {
	switch cfg.Extractor {
	case "pdftotext", "":
		return NewPdfToText(cfg.PdfToTextPath), nil
	case "native":
		return NewNative(), nil
	default:
		return nil, eris.Errorf("extract: unknown extractor %q", cfg.Extractor)
	}
}
