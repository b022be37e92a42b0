package extract

import (
	"context"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rotisserie/eris"
)

// Native extracts text in-process via ledongthuc/pdf. It loses column
// layout compared to pdftotext -layout, but needs no poppler install.
type Native struct{}

// NewNative creates a pure-Go PDF extractor.
func NewNative() *Native {
	return &Native{}
}

// ExtractText reads every page of the PDF and concatenates the plain text.
func (n *Native) ExtractText(ctx context.Context, pdfPath string) (string, error) {
	f, r, err := pdf.Open(pdfPath)
	if err != nil {
		return "", eris.Wrapf(err, "extract: open %s", pdfPath)
	}
	defer f.Close()

	var sb strings.Builder
	numPages := r.NumPage()
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return "", eris.Wrap(err, "extract: cancelled")
		}
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// Scanned or malformed pages extract nothing; keep going.
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", eris.Errorf("extract: no text in %s, it may be image-only", pdfPath)
	}
	return text + "\n", nil
}
