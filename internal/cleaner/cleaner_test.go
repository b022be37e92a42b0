package cleaner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanRemovesSiteFooter(t *testing.T) {
	in := "https://collections.ushmm.org\n" +
		"Contact reference@ushmm.org for further information about this collection\n" +
		"\n" +
		"Some testimony text.\n"

	got := New(Options{}).Clean(in)
	assert.Equal(t, "Some testimony text.\n", got)
}

func TestCleanRemovesVerbatimDisclaimer(t *testing.T) {
	in := "This is a verbatim transcript of spoken word. It is not the primary source, and it has not been checked for spelling or accuracy.\n" +
		"Q: Where were you born?\n"

	got := New(Options{}).Clean(in)
	assert.Equal(t, "Q: Where were you born?\n", got)
}

func TestCleanRemovesArchiveIndexLines(t *testing.T) {
	in := "line one\nUSHMM Archives RG-50.999.0630 3\nline two\n"

	got := New(Options{}).Clean(in)
	assert.Equal(t, "line one\n\nline two\n", got)
}

func TestCleanCollapsesBlankRuns(t *testing.T) {
	in := "first\n\n\n\n\nsecond\n"
	got := New(Options{}).Clean(in)
	assert.Equal(t, "first\n\nsecond\n", got)
}

func TestRemoveInterviewBlocksWindowed(t *testing.T) {
	lines := []string{
		"Title line",
		"front matter",
		"more front",
		"Interview with Jane Doe",
		"January 23,",
		"2014",
		"5",
		"Testimony continues here.",
	}
	in := strings.Join(lines, "\n") + "\n"

	got := New(Options{HeaderCutoff: 2, HeaderLookahead: 4}).Clean(in)
	assert.Equal(t, "Title line\nfront matter\nmore front\nTestimony continues here.\n", got)
}

func TestRemoveInterviewBlocksKeepsFrontMatter(t *testing.T) {
	// Before the cutoff the header stays: downstream annotation prompts
	// read interviewee names from the front matter.
	lines := []string{
		"Interview with Jane Doe",
		"January 23, 2014",
		"body text",
	}
	in := strings.Join(lines, "\n") + "\n"

	got := New(Options{HeaderCutoff: 10}).Clean(in)
	assert.Equal(t, in, got)
}

func TestStripInlineHeaders(t *testing.T) {
	lines := []string{
		"a",
		"b",
		"He said something Interview with John Smith 12 March 4, 1990 RG-50.030 and continued.",
	}
	in := strings.Join(lines, "\n") + "\n"

	got := New(Options{HeaderCutoff: 1}).Clean(in)
	assert.Equal(t, "a\nb\nHe said something and continued.\n", got)
}

func TestPageOnlyLinesDroppedPastCutoff(t *testing.T) {
	lines := []string{"front", "3", "body", "12", "more body"}
	in := strings.Join(lines, "\n") + "\n"

	got := New(Options{HeaderCutoff: 1}).Clean(in)
	// "3" sits at index 1, inside the front matter; "12" is in the body.
	assert.Equal(t, "front\n3\nbody\nmore body\n", got)
}

func TestJoinWrappedLinesQAStrict(t *testing.T) {
	in := "Q: When were you\nborn?\n\nA: I was born in\n1925 in Warsaw.\n"

	got := New(Options{JoinLines: true}).Clean(in)
	assert.Equal(t, "Q: When were you born?\nA: I was born in 1925 in Warsaw.\n", got)
}

func TestJoinWrappedLinesKeepsParagraphBreaks(t *testing.T) {
	in := "Interviewer: Tell me\nabout it.\n\nNarrator: Okay.\n"

	got := New(Options{JoinLines: true}).Clean(in)
	assert.Equal(t, "Interviewer: Tell me about it.\n\nNarrator: Okay.\n", got)
}

func TestJoinDropsPageNumbersInsideQA(t *testing.T) {
	in := "A: We left the ghetto\n14\nthat same night.\n"

	got := New(Options{JoinLines: true}).Clean(in)
	assert.Equal(t, "A: We left the ghetto that same night.\n", got)
}

func TestDehyphenate(t *testing.T) {
	in := "A: We were libe-\nrated in May.\n"

	got := New(Options{JoinLines: true, Dehyphenate: true}).Clean(in)
	assert.Equal(t, "A: We were liberated in May.\n", got)
}

func TestDehyphenateKeepsProperNounHyphens(t *testing.T) {
	// Uppercase continuation is a real hyphenated name, not a line break.
	in := "A: We reached Bergen-\nBelsen in April.\n"

	got := New(Options{JoinLines: true, Dehyphenate: true}).Clean(in)
	assert.Equal(t, "A: We reached Bergen- Belsen in April.\n", got)
}

func TestNormalizeSpacesPreservesEllipses(t *testing.T) {
	in := "A: He   said ... and    then stopped.\n"

	got := New(Options{JoinLines: true, NormalizeSpaces: true}).Clean(in)
	assert.Equal(t, "A: He said ... and then stopped.\n", got)
}

func TestNormalizeSpacesWithoutJoin(t *testing.T) {
	in := "first   line\nsecond\t\tline\n"

	got := New(Options{NormalizeSpaces: true}).Clean(in)
	assert.Equal(t, "first line\nsecond line\n", got)
}

func TestCleanFoldsUnicodeSpaces(t *testing.T) {
	in := "A: He  said so.\n"

	got := New(Options{JoinLines: true, NormalizeSpaces: true}).Clean(in)
	assert.Equal(t, "A: He said so.\n", got)
}

func TestCleanEndToEnd(t *testing.T) {
	in := strings.Join([]string{
		"https://collections.ushmm.org",
		"Contact reference@ushmm.org for further information about this collection",
		"Interview with Sarah Levin",
		"May 17, 1989",
		"",
		"Q: Can you tell me where",
		"you grew up?",
		"",
		"A: I grew up in a small",
		"town near Krakow. The libera-",
		"tion came when I was twenty.",
		"7",
		"",
		"USHMM Archives RG-50.233.0026 7",
	}, "\n") + "\n"

	got := New(Options{
		JoinLines:       true,
		NormalizeSpaces: true,
		Dehyphenate:     true,
		HeaderCutoff:    50,
	}).Clean(in)

	require.Contains(t, got, "Q: Can you tell me where you grew up?")
	require.Contains(t, got, "A: I grew up in a small town near Krakow. The liberation came when I was twenty.")
	assert.NotContains(t, got, "collections.ushmm.org")
	assert.NotContains(t, got, "USHMM Archives")
	// Front matter headers before the cutoff survive.
	assert.Contains(t, got, "Interview with Sarah Levin")
}

func TestCleanTrailingNewline(t *testing.T) {
	got := New(Options{}).Clean("no trailing newline")
	assert.Equal(t, "no trailing newline\n", got)
}
