// Package model defines the shared types flowing between pipeline stages.
package model

import (
	"regexp"
	"strings"
)

// rgPrefix matches an RG accession number at the start of a transcript
// filename, e.g. "RG-50.233.0026_trs_en.txt" -> "RG-50.233.0026".
var rgPrefix = regexp.MustCompile(`^(RG-[^_]+)`)

// Transcript identifies a single transcript file on disk.
type Transcript struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
	RGNumber string `json:"rg_number,omitempty"`
}

// NewTranscript builds a Transcript from a path and base filename,
// extracting the RG number from the filename when present.
func NewTranscript(path, filename string) Transcript {
	return Transcript{
		Filename: filename,
		Path:     path,
		RGNumber: ExtractRGNumber(filename),
	}
}

// ExtractRGNumber returns the RG accession number a filename starts with,
// or "" when the filename has no RG prefix.
func ExtractRGNumber(filename string) string {
	m := rgPrefix.FindStringSubmatch(filename)
	if m == nil {
		return ""
	}
	// The catalog uses ASCII hyphens; normalize non-breaking hyphens
	// that occasionally leak into filenames.
	return strings.ReplaceAll(m[1], "‑", "-")
}

// IsTranscriptPDF reports whether a PDF filename is a transcript export.
// Survivor-testimony exports carry a "trs" marker in the filename.
func IsTranscriptPDF(filename string) bool {
	lower := strings.ToLower(filename)
	return strings.HasSuffix(lower, ".pdf") && strings.Contains(lower, "trs")
}
