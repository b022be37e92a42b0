package model

import "strconv"

// Gender is a validated interviewee gender prediction.
type Gender string

const (
	GenderMale    Gender = "Male"
	GenderFemale  Gender = "Female"
	GenderUnknown Gender = ""
)

// GenderRow is one output row of the annotate gender command.
type GenderRow struct {
	Filename        string
	Interviewee     string
	PredictedGender Gender
	ConfidenceCount int
	ConfidenceRatio float64
	RGNumber        string
	InterviewDate   string
}

// GenderHeader is the gender CSV column order.
var GenderHeader = []string{
	"filename",
	"interviewee",
	"predicted_gender",
	"confidence_count",
	"confidence_ratio",
	"rg_number",
	"interview_date",
}

// CSVRecord renders the row in GenderHeader order.
func (r GenderRow) CSVRecord() []string {
	return []string{
		r.Filename,
		r.Interviewee,
		string(r.PredictedGender),
		strconv.Itoa(r.ConfidenceCount),
		strconv.FormatFloat(r.ConfidenceRatio, 'f', 2, 64),
		r.RGNumber,
		r.InterviewDate,
	}
}

// Annotated reports whether the row carries a usable prediction.
// Rows without one are re-processed on resume.
func (r GenderRow) Annotated() bool {
	return r.PredictedGender != GenderUnknown
}

// SpeakerInfo summarizes the dialogue structure of one transcript chunk.
type SpeakerInfo struct {
	SpeakerCount   int
	Roles          []string
	PrimarySpeaker string
	HasDialogue    bool
}

// ChunkAnnotation holds the per-chunk LLM extraction results.
type ChunkAnnotation struct {
	Filename        string
	ChunkIndex      int
	TopicCategories []string
	Gender          Gender
	Speakers        SpeakerInfo
}

// TopicSummary aggregates chunk annotations for one transcript file.
type TopicSummary struct {
	Filename          string
	FinalGender       Gender
	TotalTopics       int
	UniqueCategories  int
	CategoryFrequency map[string]int
	PrimarySpeaker    string
	HasDialogue       bool
}
