package annotate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/oral-history-lab/transcript-cli/internal/model"
)

// SpeakerPrompt asks for the chunk's dialogue structure in a fixed
// line format the parser can pick apart.
func SpeakerPrompt(chunk string) string {
	return fmt.Sprintf(`Analyze this interview transcript segment and identify:
1. Number of distinct speakers
2. Speaker roles (interviewer, interviewee, moderator, etc.)
3. Who speaks the most in this segment

Text: %s
Format your response as:
Speakers: [number]
Roles: [role1, role2, ...]
Primary speaker: [role]`, chunk)
}

// ParseSpeakerInfo reads the Speakers/Roles/Primary speaker lines from a
// model answer. Missing or malformed lines degrade to zero values rather
// than erroring; HasDialogue is derived from the speaker count.
func ParseSpeakerInfo(response string) model.SpeakerInfo {
	info := model.SpeakerInfo{PrimarySpeaker: "unknown"}

	if raw, ok := lineAfter(response, "Speakers:"); ok {
		if n, err := strconv.Atoi(strings.Trim(raw, "[] ")); err == nil {
			info.SpeakerCount = n
		}
	}
	if raw, ok := lineAfter(response, "Roles:"); ok {
		raw = strings.NewReplacer("[", "", "]", "").Replace(raw)
		for _, role := range strings.Split(raw, ",") {
			if role = strings.TrimSpace(role); role != "" {
				info.Roles = append(info.Roles, role)
			}
		}
	}
	if raw, ok := lineAfter(response, "Primary speaker:"); ok {
		if raw = strings.Trim(raw, "[] "); raw != "" {
			info.PrimarySpeaker = raw
		}
	}

	info.HasDialogue = info.SpeakerCount > 1
	return info
}

// lineAfter finds the first line containing prefix and returns the text
// after it.
func lineAfter(text, prefix string) (string, bool) {
	for _, line := range strings.Split(text, "\n") {
		if idx := strings.Index(line, prefix); idx >= 0 {
			return strings.TrimSpace(line[idx+len(prefix):]), true
		}
	}
	return "", false
}
