// Package cleaner normalizes raw transcript text extracted from USHMM
// PDFs: boilerplate removal, page-header stripping, paragraph re-joining,
// de-hyphenation, and whitespace normalization.
package cleaner

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// Options controls the optional cleaning passes. Boilerplate and header
// removal always run; the rest are opt-in to match existing corpora built
// with different flag combinations.
type Options struct {
	// JoinLines concatenates wrapped lines into paragraphs until the next
	// speaker-turn line (colon within the first ~15 characters).
	JoinLines bool

	// NormalizeSpaces collapses runs of spaces/tabs inside paragraphs,
	// preserving literal "..." ellipses.
	NormalizeSpaces bool

	// Dehyphenate joins soft hyphenation across wrapped lines
	// ("word- part" -> "wordpart") when the continuation is lowercase.
	Dehyphenate bool

	// HeaderCutoff is the number of leading lines left untouched by header
	// removal, so front matter keeps its identifying headers. Default 50.
	HeaderCutoff int

	// HeaderLookahead is the window of lines joined when matching page
	// headers split across lines. Default 4.
	HeaderLookahead int
}

const (
	defaultHeaderCutoff    = 50
	defaultHeaderLookahead = 4
)

// Boilerplate and disclaimer patterns, tight and bounded to avoid
// over-deleting testimony text.
var boilerplatePatterns = []*regexp.Regexp{
	// Site footer/header pair, possibly repeated per page.
	regexp.MustCompile(`(?ms)(?:https?://collections\.ushmm\.org\s+Contact reference@ushmm\.org for further information about this collection\s*)+`),
	regexp.MustCompile(`(?ms)This is a verbatim transcript of spoken word\. It is not the primary source, and it has not been checked for spelling or accuracy\.\s*`),

	// Intro disclaimer blocks, bounded span across line breaks.
	regexp.MustCompile(`(?ms)The following transcript is the result of a recorded interview\.[\s\S]{0,800}?should not be quoted or used without first checking it against\s+the interview\.\s*`),
	regexp.MustCompile(`(?ms)The interview is part of the United States Holocaust Memorial Museum(?:'s)? collection of oral testimonies\.[\s\S]{0,600}?catalog record\.\s*`),

	// Event/rough-draft boilerplate.
	regexp.MustCompile(`(?ms)Communication Access Realtime Translation \(CART\) .*? rough-draft format\.\s*`),
	regexp.MustCompile(`(?ms)ROUGH DRAFT TRANSCRIPT\s+NOT A VERBATIM RECORD\s*`),

	// Index lines like "USHMM Archives RG-50.030*0148" or "USHMM Archives RG-50.999.0630 3".
	regexp.MustCompile(`(?m)^\s*USHMM Archives RG-[^\n]*$`),
}

var (
	// 3+ newlines collapse to a paragraph break.
	extraBlanks = regexp.MustCompile(`\n{3,}`)

	// Speaker-turn line: colon within the first ~15 characters,
	// e.g. "Q:", "A:", "Interviewer:".
	speakerLine = regexp.MustCompile(`^\s*\S.{0,12}:\s`)

	// Strict mode only for literal Q:/A: turns.
	speakerQA = regexp.MustCompile(`(?i)^\s*[QA]\s*:\s*`)

	// Runs of spaces/tabs inside a paragraph.
	runsOfSpace = regexp.MustCompile(`[ \t]{2,}`)

	// End-of-line hyphen followed by a lowercase continuation word.
	wordHyphenBreak = regexp.MustCompile(`(\w+)-\s+([a-z]\w*)`)

	// Page numbers alone on a line.
	pageOnly = regexp.MustCompile(`^\s*\d{1,4}\s*$`)

	monthAlt = `(January|February|March|April|May|June|July|August|September|October|November|December)`

	// "Interview with <Name> [<page>] <Month> <D>, <YYYY> [RG-…]" embedded
	// anywhere in a line.
	inlineInterviewHeader = regexp.MustCompile(
		`\bInterview\s+(?:with|of)\s+[A-Z][A-Za-z .,'\-]{1,80}(?:\s+\d{1,3})?\s+` +
			monthAlt + `\s+\d{1,2},\s+\d{4}(?:\s+RG-[0-9.*\-]+)?\b`)

	// Full-line (or window-joined) page header:
	// "Interview with NAME Month DD, YYYY [page]".
	interviewBlock = regexp.MustCompile(
		`(?i)^\s*Interview\s+(?:with|of)\s+[A-Za-z][A-Za-z .,'\-]{1,80}\s+` +
			monthAlt + `\s+\d{1,2},\s*\d{4}(?:\s+\d{1,4})?\s*$`)

	// General whitespace runs, used after inline header substitution.
	multiSpace = regexp.MustCompile(`\s{2,}`)
)

// ellipsisGuard is an unlikely sentinel protecting "..." during space
// normalization.
const ellipsisGuard = "\uFFF9ELLIPSIS\uFFFA"

// unicodeSpaces folds exotic space runes (NBSP and friends) from PDF
// extraction into plain ASCII spaces before the regex passes.
var unicodeSpaces = runes.Map(func(r rune) rune {
	if r != ' ' && r != '\t' && r != '\n' && r != '\r' && unicode.IsSpace(r) {
		return ' '
	}
	return r
})

// Cleaner applies the cleaning pipeline with a fixed set of options.
type Cleaner struct {
	opts Options
}

// New creates a Cleaner, applying option defaults.
func New(opts Options) *Cleaner {
	if opts.HeaderCutoff <= 0 {
		opts.HeaderCutoff = defaultHeaderCutoff
	}
	if opts.HeaderLookahead <= 0 {
		opts.HeaderLookahead = defaultHeaderLookahead
	}
	return &Cleaner{opts: opts}
}

// Clean runs the full pipeline over one transcript.
func (c *Cleaner) Clean(s string) string {
	folded, _, err := transform.String(unicodeSpaces, s)
	if err == nil {
		s = folded
	}

	s = removeBoilerplate(s)

	// Pass 1: split/inline interview headers and page-only lines,
	// leaving the front matter before the cutoff alone.
	s = c.removeInterviewBlocks(s)
	s = c.stripInlineHeaders(s)

	if c.opts.JoinLines {
		s = c.joinWrappedLines(s)

		// Pass 2: a header glued into a joined paragraph now sits on a
		// line of its own and can be caught again.
		s = c.removeInterviewBlocks(s)
		s = c.stripInlineHeaders(s)
	} else if c.opts.NormalizeSpaces {
		lines := strings.Split(s, "\n")
		for i, line := range lines {
			if strings.TrimSpace(line) == "" {
				lines[i] = ""
			} else {
				lines[i] = normalizeParagraphSpaces(line)
			}
		}
		s = strings.Join(lines, "\n")
	}

	s = extraBlanks.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s) + "\n"
}

func removeBoilerplate(text string) string {
	for _, pat := range boilerplatePatterns {
		text = pat.ReplaceAllString(text, "")
	}
	return text
}

// removeInterviewBlocks drops page headers that pdftotext splits across up
// to HeaderLookahead lines, e.g.
//
//	Interview with Jane Doe
//	January 23,
//	2014
//	5
//
// as well as lone page-number lines, but only past the front-matter cutoff.
func (c *Cleaner) removeInterviewBlocks(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	n := len(lines)

	i := 0
	for i < n {
		if i <= c.opts.HeaderCutoff {
			out = append(out, lines[i])
			i++
			continue
		}

		matched := false
		maxK := min(c.opts.HeaderLookahead, n-i)
		for k := 1; k <= maxK; k++ {
			parts := make([]string, 0, k)
			for _, l := range lines[i : i+k] {
				parts = append(parts, strings.TrimSpace(l))
			}
			if interviewBlock.MatchString(strings.Join(parts, " ")) {
				i += k
				matched = true
				break
			}
		}
		if matched {
			continue
		}

		if pageOnly.MatchString(lines[i]) {
			i++
			continue
		}

		out = append(out, lines[i])
		i++
	}

	return strings.Join(out, "\n")
}

// stripInlineHeaders removes single-line interview headers embedded inside
// body text and page-number-only lines, past the cutoff.
func (c *Cleaner) stripInlineHeaders(s string) string {
	lines := strings.Split(s, "\n")
	cleaned := make([]string, 0, len(lines))
	for idx, line := range lines {
		if idx > c.opts.HeaderCutoff {
			line = inlineInterviewHeader.ReplaceAllString(line, " ")
			if pageOnly.MatchString(line) {
				continue
			}
			line = multiSpace.ReplaceAllString(line, " ")
		}
		cleaned = append(cleaned, line)
	}
	return strings.Join(cleaned, "\n")
}

// joinWrappedLines buffers continuation lines into paragraphs, flushing on
// blank lines and on speaker-turn lines. Inside literal Q:/A: turns it is
// strict: layout blanks and embedded page numbers are dropped entirely.
func (c *Cleaner) joinWrappedLines(text string) string {
	lines := strings.Split(text, "\n")
	var out []string
	var buffer string
	justSawSpeaker := false
	qaStrict := false

	flush := func() {
		if buffer == "" {
			return
		}
		out = append(out, c.finishParagraph(buffer))
		buffer = ""
	}

	for _, line := range lines {
		stripped := strings.TrimSpace(line)

		if stripped == "" {
			if qaStrict {
				// inside Q/A: drop layout blanks entirely
				continue
			}
			if justSawSpeaker {
				justSawSpeaker = false
				continue
			}
			flush()
			out = append(out, "")
			continue
		}

		if speakerLine.MatchString(line) {
			flush()
			buffer = stripped
			justSawSpeaker = true
			qaStrict = speakerQA.MatchString(line)
			continue
		}

		if qaStrict && pageOnly.MatchString(line) {
			continue
		}

		if buffer == "" {
			buffer = stripped
		} else {
			buffer = buffer + " " + stripped
		}
		justSawSpeaker = false
	}

	flush()
	return strings.Join(out, "\n")
}

func (c *Cleaner) finishParagraph(p string) string {
	p = strings.TrimSpace(p)
	if c.opts.Dehyphenate {
		p = dehyphenateParagraph(p)
	}
	if c.opts.NormalizeSpaces {
		p = normalizeParagraphSpaces(p)
	}
	return p
}

func normalizeParagraphSpaces(s string) string {
	s = strings.ReplaceAll(s, "...", ellipsisGuard)
	s = runsOfSpace.ReplaceAllString(s, " ")
	return strings.ReplaceAll(s, ellipsisGuard, "...")
}

// dehyphenateParagraph joins hyphenated line-break splits. Multiple passes
// because one join can expose the next break; three is enough in practice.
func dehyphenateParagraph(s string) string {
	for i := 0; i < 3; i++ {
		next := wordHyphenBreak.ReplaceAllString(s, "$1$2")
		if next == s {
			break
		}
		s = next
	}
	return s
}
