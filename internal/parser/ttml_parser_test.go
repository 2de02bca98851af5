package parser

import (
	"testing"
	"time"
)

func TestTTMLParser_Srv1(t *testing.T) {
	t.Parallel()
	payload := `<?xml version="1.0" encoding="utf-8" ?><transcript>` +
		`<text start="0.5" dur="1.25">It&amp;#39;s here</text>` +
		`<text start="2" dur="1">   </text>` +
		`<text start="bogus" dur="1">skipped</text>` +
		`<text start="3.5">last &amp;lt;b&amp;gt;line</text>` +
		`</transcript>`

	cues, err := NewTTMLParser().Parse(payload)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(cues) != 2 {
		t.Fatalf("Expected 2 cues, got %d: %+v", len(cues), cues)
	}
	if cues[0].Text != "It's here" {
		t.Errorf("Expected double-escaped apostrophe to be decoded, got %q", cues[0].Text)
	}
	if cues[0].Start != 500*time.Millisecond || cues[0].End != 1750*time.Millisecond {
		t.Errorf("Unexpected timing %v --> %v", cues[0].Start, cues[0].End)
	}
	if cues[1].Text != "last line" || cues[1].Start != cues[1].End || cues[1].Index != 2 {
		t.Errorf("Unexpected second cue %+v", cues[1])
	}
}

func TestTTMLParser_EmptyElementDoesNotSwallowFollowingCues(t *testing.T) {
	t.Parallel()
	payload := `<?xml version="1.0" encoding="utf-8" ?><transcript>` +
		`<text start="0" dur="1">first</text>` +
		`<text start="2" dur="1"/>` +
		`<text start="3" dur="1">second<br/>line</text>` +
		`<text start="4" dur="1">third</text>` +
		`</transcript>`

	cues, err := NewTTMLParser().Parse(payload)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(cues) != 3 {
		t.Fatalf("Expected 3 cues, got %d: %+v", len(cues), cues)
	}
	want := []string{"first", "second\nline", "third"}
	for i, text := range want {
		if cues[i].Text != text {
			t.Errorf("Cue %d: expected %q, got %q", i, text, cues[i].Text)
		}
	}
	if cues[1].Start != 3*time.Second || cues[2].Start != 4*time.Second {
		t.Errorf("Unexpected timing %v, %v", cues[1].Start, cues[2].Start)
	}
}

func TestExpandSelfClosing(t *testing.T) {
	t.Parallel()
	tests := map[string]string{
		`<text start="2" dur="1"/>`: `<text start="2" dur="1"></text>`,
		`<p begin="1s" />`:          `<p begin="1s"></p>`,
		`<span/>`:                   `<span></span>`,
		`a<br/>b`:                   `a<br/>b`,
		`<text start="1">x</text>`:  `<text start="1">x</text>`,
	}
	for input, want := range tests {
		if got := expandSelfClosing(input); got != want {
			t.Errorf("expandSelfClosing(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestTTMLParser_TTML(t *testing.T) {
	t.Parallel()
	payload := `<?xml version="1.0" encoding="utf-8"?>
<tt xmlns="http://www.w3.org/ns/ttml" xmlns:tts="http://www.w3.org/ns/ttml#styling" xml:lang="en">
<head><styling><style xml:id="s1" tts:color="white"/></styling></head>
<body><div>
<p begin="00:00:01.000" end="00:00:03.500" style="s1">First<br/>line</p>
<p begin="4s" dur="1500ms"><span>Second</span> cue</p>
<p begin="00:00:09.000" end="nope">bad</p>
</div></body></tt>`

	cues, err := NewTTMLParser().Parse(payload)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(cues) != 2 {
		t.Fatalf("Expected 2 cues, got %d: %+v", len(cues), cues)
	}
	if cues[0].Text != "First\nline" {
		t.Errorf("Expected <br/> to become a line break, got %q", cues[0].Text)
	}
	if cues[0].End != 3500*time.Millisecond {
		t.Errorf("Unexpected end %v", cues[0].End)
	}
	if cues[1].Text != "Second cue" || cues[1].Start != 4*time.Second || cues[1].End != 5500*time.Millisecond {
		t.Errorf("Unexpected second cue %+v", cues[1])
	}
}

func TestTTMLParser_Srv3(t *testing.T) {
	t.Parallel()
	payload := `<?xml version="1.0" encoding="utf-8" ?><timedtext format="3">` +
		`<head><ws id="0"/><wp id="0"/></head><body>` +
		`<p t="1200" d="2300" w="1"><s>hello</s><s t="400"> there</s></p>` +
		`<p t="4000" d="1000" w="1"></p>` +
		`</body></timedtext>`

	cues, err := NewTTMLParser().Parse(payload)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(cues) != 1 {
		t.Fatalf("Expected 1 cue, got %d: %+v", len(cues), cues)
	}
	if cues[0].Text != "hello there" || cues[0].Start != 1200*time.Millisecond || cues[0].End != 3500*time.Millisecond {
		t.Errorf("Unexpected cue %+v", cues[0])
	}
}
