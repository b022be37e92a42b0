package annotate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		topic string
		want  string
	}{
		{"Depression and anxiety", "mental_health"},
		{"forced labor camp work", "career"}, // "work" keyword
		{"school in the ghetto", "education"},
		{"her parents and siblings", "family"},
		{"antisemitism and racism", "discrimination"},
		{"typhus treatment in the hospital", "healthcare"},
		{"something unmatchable", CategoryOther},
		{"", CategoryOther},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Categorize(tt.topic), "topic %q", tt.topic)
	}
}

func TestParseCategories(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     []string
	}{
		{
			name:     "direct category names",
			response: "family, education",
			want:     []string{"family", "education"},
		},
		{
			name:     "mixed case and whitespace",
			response: " Family ,  MENTAL_HEALTH ",
			want:     []string{"family", "mental_health"},
		},
		{
			name:     "free text falls through keyword match",
			response: "life in the ghetto, her marriage",
			want:     []string{CategoryOther, "family"},
		},
		{
			name:     "other passthrough",
			response: "other",
			want:     []string{CategoryOther},
		},
		{
			name:     "empty tokens dropped",
			response: "family,,",
			want:     []string{"family"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCategories(tt.response))
		})
	}
}

func TestTopicPrompt(t *testing.T) {
	prompt := TopicPrompt("some chunk text")
	assert.Contains(t, prompt, "some chunk text")
	for _, category := range CategoryOrder {
		assert.Contains(t, prompt, category)
	}
	assert.True(t, strings.HasSuffix(prompt, "Categories:"))
}
