package parser

import (
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/Belphemur/SuperTranscripts/internal/config"
	"github.com/Belphemur/SuperTranscripts/internal/models"
)

// inlineTagRegex matches markup inside cue text: <i>, <c.color>, </c>, <v Speaker>
// and karaoke timing tags such as <00:00:01.240>.
var inlineTagRegex = regexp.MustCompile(`<[^>]*>`)

// VTTParser converts WebVTT payloads into cues
type VTTParser struct {
	// DedupeRollingLines removes the line repetition produced by auto-generated
	// "rolling" captions, where each cue repeats the last line of the previous one.
	DedupeRollingLines bool
}

// NewVTTParser creates a new WebVTT parser
func NewVTTParser(dedupeRollingLines bool) *VTTParser {
	return &VTTParser{DedupeRollingLines: dedupeRollingLines}
}

// Parse implements the CueParser interface.
// Cues with a malformed timing line or no text left after cleanup are skipped.
func (p *VTTParser) Parse(payload string) ([]models.Cue, error) {
	logger := config.GetLogger()

	blocks := splitVTTBlocks(normalizeNewlines(payload))
	cues := make([]models.Cue, 0, len(blocks))
	skipped := 0
	previousLastLine := ""

	for i, block := range blocks {
		if i == 0 && strings.HasPrefix(block[0], "WEBVTT") {
			// Header block: drop everything up to the first timing line, if any
			block = dropUntilTiming(block)
			if len(block) == 0 {
				continue
			}
		}
		if isVTTMetadataBlock(block[0]) {
			continue
		}

		timingIdx := -1
		for j, line := range block {
			if strings.Contains(line, "-->") {
				timingIdx = j
				break
			}
		}
		if timingIdx == -1 {
			skipped++
			continue
		}

		start, end, ok := parseTimingLine(block[timingIdx])
		if !ok {
			skipped++
			continue
		}

		lines := cleanCueLines(block[timingIdx+1:])
		if p.DedupeRollingLines && len(lines) > 0 && previousLastLine != "" && lines[0] == previousLastLine {
			lines = lines[1:]
		}
		if len(lines) == 0 {
			continue
		}
		previousLastLine = lines[len(lines)-1]

		cues = append(cues, models.Cue{
			Index: len(cues) + 1,
			Start: start,
			End:   end,
			Text:  strings.Join(lines, "\n"),
		})
	}

	if skipped > 0 {
		logger.Debug().Int("skipped", skipped).Int("cues", len(cues)).Msg("Skipped malformed VTT cues")
	}

	return cues, nil
}

// splitVTTBlocks splits on empty lines only. Whitespace-only lines belong to the cue
// they appear in, which auto-generated captions rely on.
func splitVTTBlocks(payload string) [][]string {
	var blocks [][]string
	var current []string
	for _, line := range strings.Split(payload, "\n") {
		if line == "" {
			if len(current) > 0 {
				blocks = append(blocks, current)
				current = nil
			}
			continue
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		blocks = append(blocks, current)
	}
	return blocks
}

func dropUntilTiming(block []string) []string {
	for i, line := range block {
		if strings.Contains(line, "-->") {
			return block[i:]
		}
	}
	return nil
}

func isVTTMetadataBlock(firstLine string) bool {
	for _, prefix := range []string{"NOTE", "STYLE", "REGION"} {
		if firstLine == prefix || strings.HasPrefix(firstLine, prefix+" ") || strings.HasPrefix(firstLine, prefix+"\t") {
			return true
		}
	}
	return false
}

// parseTimingLine parses "00:00:01.000 --> 00:00:02.000 align:start position:0%"
func parseTimingLine(line string) (start, end time.Duration, ok bool) {
	left, right, found := strings.Cut(line, "-->")
	if !found {
		return 0, 0, false
	}
	rightFields := strings.Fields(right)
	if len(rightFields) == 0 {
		return 0, 0, false
	}

	startValue, err := ParseClock(strings.TrimSpace(left))
	if err != nil {
		return 0, 0, false
	}
	endValue, err := ParseClock(rightFields[0])
	if err != nil {
		return 0, 0, false
	}
	return startValue, endValue, true
}

// cleanCueLines strips markup, unescapes entities and drops blank lines
func cleanCueLines(raw []string) []string {
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = inlineTagRegex.ReplaceAllString(line, "")
		line = html.UnescapeString(line)
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func normalizeNewlines(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
