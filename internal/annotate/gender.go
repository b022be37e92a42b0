package annotate

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/oral-history-lab/transcript-cli/internal/model"
	"github.com/oral-history-lab/transcript-cli/pkg/anthropic"
)

// genderTemperature keeps the one-word answer stable across votes.
var genderTemperature = 0.1

const genderMaxTokens = 20

// GenderPrompt asks for a one-word gender answer from the interview
// opening.
func GenderPrompt(interviewee, snippet string) string {
	return fmt.Sprintf(`This is an interview transcript. Based on the content below, determine the gender of the interviewee: %s.

Transcript excerpt:
%s

Look for pronouns, self-identification, or contextual clues. Respond with ONLY one word:
- Male
- Female

Interviewee: %s
Gender:`, interviewee, snippet, interviewee)
}

// ParseGender validates a model answer by counting unique male/female
// occurrences. Every "female" also contains "male", so the male count is
// corrected before the comparison. Ambiguous or empty answers map to
// GenderUnknown.
func ParseGender(response string) model.Gender {
	lower := strings.ToLower(strings.TrimSpace(response))
	if lower == "" {
		return model.GenderUnknown
	}

	femaleCount := strings.Count(lower, "female")
	maleCount := strings.Count(lower, "male") - femaleCount

	switch {
	case maleCount > 0 && femaleCount == 0:
		return model.GenderMale
	case femaleCount > 0 && maleCount == 0:
		return model.GenderFemale
	default:
		return model.GenderUnknown
	}
}

// Voter runs the repeated gender query and majority vote.
type Voter struct {
	Client  anthropic.Client
	Model   string
	Queries int
	Usage   anthropic.TokenUsage
}

// Vote queries the model Queries times and returns the majority gender
// with the number of votes behind it. All-invalid responses return
// GenderUnknown with zero confidence.
func (v *Voter) Vote(ctx context.Context, interviewee, snippet string) (model.Gender, int, error) {
	queries := v.Queries
	if queries <= 0 {
		queries = 3
	}

	counts := make(map[model.Gender]int)
	var order []model.Gender
	for i := 0; i < queries; i++ {
		resp, err := v.Client.CreateMessage(ctx, anthropic.MessageRequest{
			Model:       v.Model,
			MaxTokens:   genderMaxTokens,
			Temperature: &genderTemperature,
			Messages: []anthropic.Message{
				{Role: "user", Content: GenderPrompt(interviewee, snippet)},
			},
		})
		if err != nil {
			if ctx.Err() != nil {
				return model.GenderUnknown, 0, eris.Wrap(err, "annotate: gender query")
			}
			zap.L().Warn("gender query failed",
				zap.String("interviewee", interviewee),
				zap.Int("query", i+1),
				zap.Error(err),
			)
			continue
		}
		v.Usage.Add(resp.Usage)

		gender := ParseGender(resp.Text())
		if gender == model.GenderUnknown {
			zap.L().Debug("gender query gave no usable answer",
				zap.String("interviewee", interviewee),
				zap.Int("query", i+1),
				zap.String("response", resp.Text()),
			)
			continue
		}
		if counts[gender] == 0 {
			order = append(order, gender)
		}
		counts[gender]++
	}

	if len(counts) == 0 {
		return model.GenderUnknown, 0, nil
	}

	// Majority vote, first-seen answer wins a tie.
	best := order[0]
	for _, g := range order[1:] {
		if counts[g] > counts[best] {
			best = g
		}
	}
	return best, counts[best], nil
}

// ReadFirstLines returns the first n lines of a file joined with
// newlines, "" when the file is missing or empty.
func ReadFirstLines(path string, n int) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", eris.Wrapf(err, "annotate: open %s", path)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for len(lines) < n && scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), " \t\r"))
	}
	if err := scanner.Err(); err != nil {
		return "", eris.Wrapf(err, "annotate: read %s", path)
	}
	return strings.Join(lines, "\n"), nil
}
