package annotate

import (
	"strconv"

	"github.com/oral-history-lab/transcript-cli/internal/metadata"
	"github.com/oral-history-lab/transcript-cli/internal/model"
)

// AggregateFile folds a file's chunk annotations into one summary row:
// majority gender across chunks, per-category frequencies, and the most
// common primary speaker.
func AggregateFile(filename string, chunks []model.ChunkAnnotation) model.TopicSummary {
	summary := model.TopicSummary{
		Filename:          filename,
		CategoryFrequency: make(map[string]int),
		PrimarySpeaker:    "unknown",
	}

	genderCounts := make(map[model.Gender]int)
	var genderOrder []model.Gender
	speakerCounts := make(map[string]int)
	var speakerOrder []string

	for _, chunk := range chunks {
		for _, category := range chunk.TopicCategories {
			summary.CategoryFrequency[category]++
			summary.TotalTopics++
		}

		if chunk.Gender != model.GenderUnknown {
			if genderCounts[chunk.Gender] == 0 {
				genderOrder = append(genderOrder, chunk.Gender)
			}
			genderCounts[chunk.Gender]++
		}

		if sp := chunk.Speakers.PrimarySpeaker; sp != "" && sp != "unknown" {
			if speakerCounts[sp] == 0 {
				speakerOrder = append(speakerOrder, sp)
			}
			speakerCounts[sp]++
		}
		if chunk.Speakers.HasDialogue {
			summary.HasDialogue = true
		}
	}

	summary.UniqueCategories = len(summary.CategoryFrequency)
	summary.FinalGender = mostCommonGender(genderCounts, genderOrder)
	if sp := mostCommonString(speakerCounts, speakerOrder); sp != "" {
		summary.PrimarySpeaker = sp
	}
	return summary
}

func mostCommonGender(counts map[model.Gender]int, order []model.Gender) model.Gender {
	if len(order) == 0 {
		return model.GenderUnknown
	}
	best := order[0]
	for _, g := range order[1:] {
		if counts[g] > counts[best] {
			best = g
		}
	}
	return best
}

func mostCommonString(counts map[string]int, order []string) string {
	if len(order) == 0 {
		return ""
	}
	best := order[0]
	for _, s := range order[1:] {
		if counts[s] > counts[best] {
			best = s
		}
	}
	return best
}

// TopicsHeader is the topic-summary CSV column order: fixed columns
// first, then one frequency column per category.
func TopicsHeader() []string {
	header := []string{
		"filename",
		"final_gender",
		"total_topics_found",
		"unique_categories",
		"primary_speaker",
		"has_dialogue",
	}
	for _, category := range CategoryOrder {
		header = append(header, category+"_frequency")
	}
	return append(header, CategoryOther+"_frequency")
}

// TopicsRecord renders a summary in TopicsHeader order.
func TopicsRecord(s model.TopicSummary) []string {
	gender := string(s.FinalGender)
	if gender == "" {
		gender = "unclear"
	}
	record := []string{
		s.Filename,
		gender,
		strconv.Itoa(s.TotalTopics),
		strconv.Itoa(s.UniqueCategories),
		s.PrimarySpeaker,
		strconv.FormatBool(s.HasDialogue),
	}
	for _, category := range CategoryOrder {
		record = append(record, strconv.Itoa(s.CategoryFrequency[category]))
	}
	return append(record, strconv.Itoa(s.CategoryFrequency[CategoryOther]))
}

// WriteTopicSummaries writes the aggregated summaries as CSV.
func WriteTopicSummaries(path string, summaries []model.TopicSummary) error {
	table := &metadata.Table{Header: TopicsHeader()}
	for _, s := range summaries {
		table.Rows = append(table.Rows, TopicsRecord(s))
	}
	return table.WriteTable(path)
}
