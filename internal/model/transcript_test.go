package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractRGNumber(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     string
	}{
		{"standard", "RG-50.233.0026_trs_en.txt", "RG-50.233.0026"},
		{"star form", "RG-50.030*0148_trs.txt", "RG-50.030*0148"},
		{"no underscore", "RG-50.999.0630.txt", "RG-50.999.0630.txt"},
		{"no rg prefix", "interview_0042.txt", ""},
		{"non-breaking hyphen", "RG‑50.233.0026_trs.txt", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractRGNumber(tt.filename))
		})
	}
}

func TestNewTranscript(t *testing.T) {
	tr := NewTranscript("/data/clean/RG-50.233.0026_trs_en.txt", "RG-50.233.0026_trs_en.txt")
	assert.Equal(t, "RG-50.233.0026_trs_en.txt", tr.Filename)
	assert.Equal(t, "/data/clean/RG-50.233.0026_trs_en.txt", tr.Path)
	assert.Equal(t, "RG-50.233.0026", tr.RGNumber)

	assert.Empty(t, NewTranscript("/data/clean/notes.txt", "notes.txt").RGNumber)
}

func TestIsTranscriptPDF(t *testing.T) {
	assert.True(t, IsTranscriptPDF("RG-50.233.0026_trs_en.pdf"))
	assert.True(t, IsTranscriptPDF("RG-50.030.0148_TRS.PDF"))
	assert.False(t, IsTranscriptPDF("RG-50.233.0026_summary.pdf"))
	assert.False(t, IsTranscriptPDF("RG-50.233.0026_trs_en.txt"))
}

func TestMetadataRowCSVRecord(t *testing.T) {
	row := MetadataRow{
		Filename: "RG-50.233.0026_trs_en.txt",
		RGNumber: "RG-50.233.0026",
		Record: CatalogRecord{
			InterviewSummary: "Oral history interview",
			Interviewee:      "Doe, Jane",
			Interviewer:      "Smith, Alex",
			InterviewDate:    "1989 May 17",
			SubjectTopical:   "Survival; Hiding",
		},
	}
	rec := row.CSVRecord()
	assert.Len(t, rec, len(MetadataHeader))
	assert.Equal(t, "RG-50.233.0026", rec[1])
	assert.Equal(t, "Doe, Jane", rec[3])
	assert.Equal(t, "Survival; Hiding", rec[6])
}

func TestGenderRowAnnotated(t *testing.T) {
	assert.False(t, GenderRow{}.Annotated())
	assert.True(t, GenderRow{PredictedGender: GenderFemale}.Annotated())

	rec := GenderRow{
		Filename:        "a.txt",
		PredictedGender: GenderMale,
		ConfidenceCount: 2,
		ConfidenceRatio: 2.0 / 3.0,
	}.CSVRecord()
	assert.Equal(t, "Male", rec[2])
	assert.Equal(t, "2", rec[3])
	assert.Equal(t, "0.67", rec[4])
}
