package parser

import (
	"testing"
	"time"
)

func TestVTTParser_Parse(t *testing.T) {
	t.Parallel()
	payload := "WEBVTT\nKind: captions\nLanguage: en\n\n" +
		"NOTE this is a comment\n\n" +
		"STYLE\n::cue { color: white }\n\n" +
		"intro\n00:00:01.000 --> 00:00:02.500 align:start position:0%\n<i>Hello</i> &amp; welcome\n\n" +
		"01:02.250 --> 01:04.000\n<v Speaker>Second</v>\nline\n"

	cues, err := NewVTTParser(false).Parse(payload)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(cues) != 2 {
		t.Fatalf("Expected 2 cues, got %d: %+v", len(cues), cues)
	}

	if cues[0].Text != "Hello & welcome" {
		t.Errorf("Unexpected first cue text %q", cues[0].Text)
	}
	if cues[0].Start != time.Second || cues[0].End != 2500*time.Millisecond {
		t.Errorf("Unexpected first cue timing %v --> %v", cues[0].Start, cues[0].End)
	}
	if cues[1].Index != 2 || cues[1].Text != "Second\nline" {
		t.Errorf("Unexpected second cue %+v", cues[1])
	}
	if cues[1].Start != time.Minute+2250*time.Millisecond {
		t.Errorf("Unexpected second cue start %v", cues[1].Start)
	}
}

func TestVTTParser_SkipsMalformedCue(t *testing.T) {
	t.Parallel()
	payload := "WEBVTT\n\n" +
		"00:00:01.000 --> 00:00:02.000\nfirst\n\n" +
		"00:00:xx.000 --> 00:00:03.000\nbroken\n\n" +
		"00:00:04.000 --> 00:00:05.000\nthird\n"

	cues, err := NewVTTParser(false).Parse(payload)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(cues) != 2 {
		t.Fatalf("Expected 2 cues, got %d", len(cues))
	}
	if cues[0].Text != "first" || cues[1].Text != "third" || cues[1].Index != 2 {
		t.Errorf("Unexpected cues %+v", cues)
	}
}

func TestVTTParser_RollingAutoCaptions(t *testing.T) {
	t.Parallel()
	// Shape of machine-generated captions: karaoke tags, whitespace-only lines inside cues,
	// and every cue repeating the previous cue's last line.
	payload := "WEBVTT\r\nKind: captions\r\nLanguage: en\r\n\r\n" +
		"00:00:00.160 --> 00:00:02.070 align:start position:0%\r\n \r\nhello<00:00:00.560><c> world</c>\r\n\r\n" +
		"00:00:02.070 --> 00:00:02.080 align:start position:0%\r\nhello world\r\n \r\n\r\n" +
		"00:00:02.080 --> 00:00:04.000 align:start position:0%\r\nhello world\r\nhow<00:00:02.400><c> are</c><00:00:02.600><c> you</c>\r\n"

	cues, err := NewVTTParser(true).Parse(payload)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(cues) != 2 {
		t.Fatalf("Expected 2 cues after rolling dedupe, got %d: %+v", len(cues), cues)
	}
	if cues[0].Text != "hello world" || cues[1].Text != "how are you" {
		t.Errorf("Unexpected cues %+v", cues)
	}
}

func TestVTTParser_HeaderOnly(t *testing.T) {
	t.Parallel()
	cues, err := NewVTTParser(false).Parse("WEBVTT\n\n")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(cues) != 0 {
		t.Errorf("Expected no cues, got %d", len(cues))
	}
}
