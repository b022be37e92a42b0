package model

// CatalogRecord holds the metadata fields scraped from a USHMM catalog
// record for one interview. List-valued catalog fields are flattened to
// "; "-joined strings before they reach this struct.
type CatalogRecord struct {
	InterviewSummary string `json:"interview_summary"`
	Interviewee      string `json:"interviewee"`
	Interviewer      string `json:"interviewer"`
	InterviewDate    string `json:"interview_date"`
	SubjectTopical   string `json:"subject_topical"`
	SubjectGeography string `json:"subject_geography"`
	SubjectPerson    string `json:"subject_person"`
	SubjectCorporate string `json:"subject_corporate"`
}

// MetadataRow is one output row of the scrape command: a transcript file
// joined with its catalog record. An empty record still produces a row.
type MetadataRow struct {
	Filename string
	RGNumber string
	Record   CatalogRecord
}

// MetadataHeader is the scrape CSV column order.
var MetadataHeader = []string{
	"filename",
	"rg_number",
	"interview_summary",
	"interviewee",
	"interviewer",
	"interview_date",
	"subject_topical",
	"subject_geography",
	"subject_person",
	"subject_corporate",
}

// CSVRecord renders the row in MetadataHeader order.
func (r MetadataRow) CSVRecord() []string {
	return []string{
		r.Filename,
		r.RGNumber,
		r.Record.InterviewSummary,
		r.Record.Interviewee,
		r.Record.Interviewer,
		r.Record.InterviewDate,
		r.Record.SubjectTopical,
		r.Record.SubjectGeography,
		r.Record.SubjectPerson,
		r.Record.SubjectCorporate,
	}
}
