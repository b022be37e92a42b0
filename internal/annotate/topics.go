// Package annotate runs LLM extraction over cleaned transcripts: gender
// voting from the interview opening, and chunked topic/speaker
// classification aggregated per file.
package annotate

import (
	"fmt"
	"strings"
)

// CategoryOther is assigned when a topic matches no known category.
const CategoryOther = "other"

// CategoryOrder fixes the category order used in prompts and CSV columns.
var CategoryOrder = []string{
	"sexual_health",
	"mental_health",
	"career",
	"education",
	"family",
	"discrimination",
	"healthcare",
	"finance",
	"social_issues",
	"personal_growth",
}

// categoryKeywords maps each category to the keywords that pull a
// free-text topic into it.
var categoryKeywords = map[string][]string{
	"sexual_health": {"sex", "intercourse", "sexual violence", "assault",
		"harassment", "intimacy", "sexuality", "reproductive health"},
	"mental_health": {"depression", "anxiety", "therapy", "counseling",
		"trauma", "stress", "wellbeing"},
	"career": {"job", "work", "employment", "career", "promotion",
		"workplace", "professional"},
	"education": {"school", "university", "learning", "degree",
		"academic", "student"},
	"family": {"family", "parents", "children", "marriage", "divorce",
		"relationship", "spouse"},
	"discrimination": {"discrimination", "bias", "prejudice",
		"inequality", "unfair treatment", "racism", "sexism"},
	"healthcare": {"doctor", "medical", "health", "treatment",
		"hospital", "medication", "illness"},
	"finance": {"money", "income", "poverty", "financial", "economic",
		"salary", "budget"},
	"social_issues": {"society", "community", "social problems",
		"activism", "rights", "justice"},
	"personal_growth": {"self-improvement", "confidence", "goals",
		"aspirations", "identity", "values"},
}

var knownCategories = func() map[string]bool {
	m := make(map[string]bool, len(CategoryOrder)+1)
	for _, c := range CategoryOrder {
		m[c] = true
	}
	m[CategoryOther] = true
	return m
}()

// Categorize maps a free-text topic onto a category by keyword match,
// CategoryOther when nothing matches.
func Categorize(topic string) string {
	lower := strings.ToLower(topic)
	for _, category := range CategoryOrder {
		for _, keyword := range categoryKeywords[category] {
			if strings.Contains(lower, keyword) {
				return category
			}
		}
	}
	return CategoryOther
}

// ParseCategories reads the model's comma-separated category answer.
// Tokens that name a category directly are kept; anything else is pushed
// through the keyword match so free-text topics still land in a bucket.
func ParseCategories(response string) []string {
	var out []string
	for _, token := range strings.Split(response, ",") {
		token = strings.ToLower(strings.TrimSpace(token))
		if token == "" {
			continue
		}
		if knownCategories[token] {
			out = append(out, token)
			continue
		}
		out = append(out, Categorize(token))
	}
	return out
}

// TopicPrompt asks the model to place a transcript chunk into the fixed
// category list.
func TopicPrompt(chunk string) string {
	return fmt.Sprintf(`Analyze this interview transcript segment and identify which of these topic categories apply:
Categories: %s
Text: %s
Return only the relevant categories as a comma-separated list.
If none apply, return "other".
Categories:`, strings.Join(CategoryOrder, ", "), chunk)
}
