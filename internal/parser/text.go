package parser

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	blockSeparatorRegex = regexp.MustCompile(`\n\s*\n`)
	indexLineRegex      = regexp.MustCompile(`^\s*\d+\s*(\n|$)`)
	cueStartRegex       = regexp.MustCompile(`(?m)^\s*(\d{2,}:\d{2}:\d{2})[,.]\d{3}\s*-->`)
	timecodeLineRegex   = regexp.MustCompile(`(?m)^.*-->.*$`)
	spaceBeforePunct    = regexp.MustCompile(`\s+([,.;:!?])`)
)

// FlattenSRT turns a SubRip document into flat text. Each cue contributes its text with
// whitespace collapsed; cues are joined by single spaces, or one per line prefixed with their
// "HH:MM:SS" start time when keepTimestamps is set. Cues left empty contribute nothing.
// Repeated words are then collapsed and whitespace before punctuation removed.
func FlattenSRT(srt string, keepTimestamps bool) string {
	blocks := blockSeparatorRegex.Split(strings.TrimSpace(normalizeNewlines(srt)), -1)

	parts := make([]string, 0, len(blocks))
	for _, block := range blocks {
		block = indexLineRegex.ReplaceAllString(strings.TrimSpace(block), "")

		start := ""
		if match := cueStartRegex.FindStringSubmatch(block); match != nil {
			start = match[1]
		}

		text := strings.Join(strings.Fields(timecodeLineRegex.ReplaceAllString(block, "")), " ")
		if text == "" {
			continue
		}

		if keepTimestamps && start != "" {
			text = start + " " + text
		}
		parts = append(parts, text)
	}

	separator := " "
	if keepTimestamps {
		separator = "\n"
	}

	flat := CollapseRepeatedWords(strings.Join(parts, separator))
	return spaceBeforePunct.ReplaceAllString(flat, "$1")
}

// CollapseRepeatedWords removes immediate case-insensitive repetitions of a word:
// "the The the cat" becomes "the cat". The first spelling is kept.
func CollapseRepeatedWords(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	lastWord := ""
	pendingSpace := ""
	i := 0
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])

		if isWordRune(r) {
			end := i
			for end < len(text) {
				wr, wsize := utf8.DecodeRuneInString(text[end:])
				if !isWordRune(wr) {
					break
				}
				end += wsize
			}
			word := text[i:end]
			i = end

			if lastWord != "" && pendingSpace != "" && strings.EqualFold(word, lastWord) {
				// drop the separating whitespace together with the repetition
				pendingSpace = ""
				continue
			}
			b.WriteString(pendingSpace)
			b.WriteString(word)
			pendingSpace = ""
			lastWord = word
			continue
		}

		if unicode.IsSpace(r) {
			pendingSpace += text[i : i+size]
			i += size
			continue
		}

		b.WriteString(pendingSpace)
		b.WriteString(text[i : i+size])
		pendingSpace = ""
		lastWord = ""
		i += size
	}
	b.WriteString(pendingSpace)

	return b.String()
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}
