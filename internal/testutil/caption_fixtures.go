package testutil

import (
	"fmt"
	"html"
	"strings"
	"time"
)

// BoolPtr is a helper for creating *bool values in tests
func BoolPtr(v bool) *bool {
	return &v
}

// CueOptions describes one cue of a generated caption document
type CueOptions struct {
	Start time.Duration
	End   time.Duration
	Text  string // may contain "\n" for multi-line cues
}

// GenerateVTT renders cues as a WebVTT document with the header block yt-dlp downloads carry
func GenerateVTT(language string, cues []CueOptions) string {
	var sb strings.Builder
	sb.WriteString("WEBVTT\nKind: captions\n")
	if language != "" {
		fmt.Fprintf(&sb, "Language: %s\n", language)
	}
	for _, cue := range cues {
		fmt.Fprintf(&sb, "\n%s --> %s align:start position:0%%\n%s\n", vttClock(cue.Start), vttClock(cue.End), cue.Text)
	}
	return sb.String()
}

// GenerateTTML renders cues as a TTML document using begin/end clock values
func GenerateTTML(language string, cues []CueOptions) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="utf-8" ?>
<tt xml:lang="%s" xmlns="http://www.w3.org/ns/ttml" xmlns:tts="http://www.w3.org/ns/ttml#styling">
<head><styling><style xml:id="s1" tts:color="white"/></styling></head>
<body><div>
`, language)
	for _, cue := range cues {
		fmt.Fprintf(&sb, "<p begin=\"%s\" end=\"%s\" style=\"s1\">%s</p>\n", vttClock(cue.Start), vttClock(cue.End), escapeLines(cue.Text))
	}
	sb.WriteString("</div></body>\n</tt>\n")
	return sb.String()
}

// GenerateSrv3 renders cues in the srv3 format with millisecond t/d attributes
func GenerateSrv3(cues []CueOptions) string {
	var sb strings.Builder
	sb.WriteString("<?xml version=\"1.0\" encoding=\"utf-8\" ?><timedtext format=\"3\"><body>\n")
	for _, cue := range cues {
		fmt.Fprintf(&sb, "<p t=\"%d\" d=\"%d\">%s</p>\n", cue.Start.Milliseconds(), (cue.End - cue.Start).Milliseconds(), escapeLines(cue.Text))
	}
	sb.WriteString("</body></timedtext>\n")
	return sb.String()
}

func escapeLines(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = html.EscapeString(line)
	}
	return strings.Join(lines, "<br/>")
}

func vttClock(d time.Duration) string {
	ms := d.Milliseconds()
	return fmt.Sprintf("%02d:%02d:%02d.%03d", ms/3600000, (ms/60000)%60, (ms/1000)%60, ms%1000)
}
