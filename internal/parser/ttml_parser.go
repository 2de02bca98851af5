package parser

import (
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Belphemur/SuperTranscripts/internal/config"
	"github.com/Belphemur/SuperTranscripts/internal/models"

	"github.com/PuerkitoBio/goquery"
)

// headRegex matches the TTML <head> section. It only carries styling, and its
// self-closing <style/> elements confuse the HTML tokenizer.
var headRegex = regexp.MustCompile(`(?is)<head\b.*?</head>`)

// selfClosingRegex matches XML empty elements such as <text start="2" dur="1"/>.
// The HTML tokenizer ignores the trailing slash on non-void elements and would nest
// every following cue inside them.
var selfClosingRegex = regexp.MustCompile(`<([A-Za-z][\w:.-]*)(\s[^<>]*?)?\s*/>`)

// expandSelfClosing rewrites empty elements into explicit open/close pairs, <br/> excepted
func expandSelfClosing(payload string) string {
	return selfClosingRegex.ReplaceAllStringFunc(payload, func(tag string) string {
		m := selfClosingRegex.FindStringSubmatch(tag)
		if strings.EqualFold(m[1], "br") {
			return tag
		}
		return "<" + m[1] + m[2] + "></" + m[1] + ">"
	})
}

// TTMLParser converts the XML caption formats (TTML, srv1, srv2, srv3) into cues
type TTMLParser struct{}

// NewTTMLParser creates a new XML caption parser
func NewTTMLParser() *TTMLParser {
	return &TTMLParser{}
}

// Parse implements the CueParser interface.
// Supported elements:
//
//	<text start="1.5" dur="2">          srv1, seconds
//	<p begin="00:00:01.500" end="...">  TTML, time expressions (dur instead of end is accepted)
//	<p t="1500" d="2000">               srv3, milliseconds
func (p *TTMLParser) Parse(payload string) ([]models.Cue, error) {
	logger := config.GetLogger()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(expandSelfClosing(headRegex.ReplaceAllString(payload, ""))))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to parse XML caption document")
		return nil, fmt.Errorf("failed to parse XML captions: %w", err)
	}

	tickRate := 0.0
	if value, ok := doc.Find("tt").Attr("ttp:tickrate"); ok {
		tickRate, _ = strconv.ParseFloat(value, 64)
	}

	var cues []models.Cue
	skipped := 0

	doc.Find("text, p").Each(func(i int, el *goquery.Selection) {
		start, end, ok := p.extractTiming(el, tickRate)
		if !ok {
			skipped++
			return
		}

		el.Find("br").ReplaceWithHtml("\n")
		text := cleanElementText(el.Text())
		if text == "" {
			return
		}

		cues = append(cues, models.Cue{
			Index: len(cues) + 1,
			Start: start,
			End:   end,
			Text:  text,
		})
	})

	if skipped > 0 {
		logger.Debug().Int("skipped", skipped).Int("cues", len(cues)).Msg("Skipped XML cues with malformed timing")
	}

	return cues, nil
}

// extractTiming reads whichever timing attributes the element carries.
// A cue without an end or duration ends where it starts.
func (p *TTMLParser) extractTiming(el *goquery.Selection, tickRate float64) (time.Duration, time.Duration, bool) {
	parse := func(value string) (time.Duration, error) {
		return parseTTMLTime(value, tickRate)
	}

	if value, ok := el.Attr("t"); ok {
		// srv3 offsets are integer milliseconds
		return resolveSpan(value, "", attr(el, "d"), parseMilliseconds)
	}
	if value, ok := el.Attr("start"); ok {
		return resolveSpan(value, "", attr(el, "dur"), parse)
	}
	if value, ok := el.Attr("begin"); ok {
		return resolveSpan(value, attr(el, "end"), attr(el, "dur"), parse)
	}
	return 0, 0, false
}

func resolveSpan(begin, end, dur string, parse func(string) (time.Duration, error)) (time.Duration, time.Duration, bool) {
	start, err := parse(begin)
	if err != nil {
		return 0, 0, false
	}

	switch {
	case end != "":
		endValue, err := parse(end)
		if err != nil {
			return 0, 0, false
		}
		return start, endValue, true
	case dur != "":
		duration, err := parse(dur)
		if err != nil {
			return 0, 0, false
		}
		return start, start + duration, true
	default:
		return start, start, true
	}
}

func parseTTMLTime(value string, tickRate float64) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if ticks, ok := strings.CutSuffix(value, "t"); ok && tickRate > 0 {
		n, err := strconv.ParseFloat(ticks, 64)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("malformed tick value %q", value)
		}
		return time.Duration(n / tickRate * float64(time.Second)).Round(time.Millisecond), nil
	}
	return ParseTimeExpression(value)
}

func parseMilliseconds(value string) (time.Duration, error) {
	ms, err := parseDigits(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("malformed millisecond offset %q: %w", value, err)
	}
	return time.Duration(ms) * time.Millisecond, nil
}

func attr(el *goquery.Selection, name string) string {
	value, _ := el.Attr(name)
	return strings.TrimSpace(value)
}

// cleanElementText unescapes a second time for double-escaped producers, strips any
// markup that survives and collapses whitespace per line
func cleanElementText(raw string) string {
	text := inlineTagRegex.ReplaceAllString(html.UnescapeString(raw), "")
	lines := cleanCueLines(strings.Split(normalizeNewlines(text), "\n"))
	return strings.Join(lines, "\n")
}
