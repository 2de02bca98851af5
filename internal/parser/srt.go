package parser

import (
	"strconv"
	"strings"

	"github.com/Belphemur/SuperTranscripts/internal/models"
)

// FormatSRT renders cues in the SubRip format, renumbering them from 1.
// Cues without text are left out.
func FormatSRT(cues []models.Cue) []byte {
	var b strings.Builder
	index := 0
	for _, cue := range cues {
		text := strings.TrimSpace(cue.Text)
		if text == "" {
			continue
		}
		index++
		if index > 1 {
			b.WriteString("\n")
		}
		b.WriteString(strconv.Itoa(index))
		b.WriteString("\n")
		b.WriteString(FormatTimestamp(cue.Start))
		b.WriteString(" --> ")
		b.WriteString(FormatTimestamp(cue.End))
		b.WriteString("\n")
		b.WriteString(text)
		b.WriteString("\n")
	}
	return []byte(b.String())
}
