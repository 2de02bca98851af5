package parser

import (
	"strings"
	"testing"

	"github.com/Belphemur/SuperTranscripts/internal/models"
)

func TestFlattenVTTLiteral(t *testing.T) {
	t.Parallel()
	cues, err := NewVTTParser(false).Parse("WEBVTT\n\n00:00:01.000 --> 00:00:02.000\nHello hello\n")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if got := FlattenSRT(string(FormatSRT(cues)), false); got != "Hello" {
		t.Errorf("Expected %q, got %q", "Hello", got)
	}
}

func TestFlattenSRT(t *testing.T) {
	t.Parallel()
	srt := "1\n00:00:01,000 --> 00:00:02,000\nThe the  cat ,\n\n" +
		"2\n00:01:05,500 --> 00:01:07,000\n   \n\n" +
		"3\n01:00:00,000 --> 01:00:01,000\nsat   down !\n"

	tests := []struct {
		name           string
		keepTimestamps bool
		want           string
	}{
		{"plain", false, "The cat, sat down!"},
		{"timestamps", true, "00:00:01 The cat,\n01:00:00 sat down!"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := FlattenSRT(srt, tt.keepTimestamps); got != tt.want {
				t.Errorf("FlattenSRT() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFlattenSRT_IdempotentUnderBlankLines(t *testing.T) {
	t.Parallel()
	srt := string(FormatSRT(mustParseVTT(t, "WEBVTT\n\n"+
		"00:00:01.000 --> 00:00:02.000\nfirst line\n\n"+
		"00:00:02.000 --> 00:00:03.000\nsecond second line .\n\n"+
		"00:00:03.000 --> 00:00:04.000\nthird\n")))

	noisy := strings.ReplaceAll(srt, "\n\n", "\n\n \n\n\n")
	noisy = strings.ReplaceAll(noisy, "\n", "\r\n")

	clean := FlattenSRT(srt, false)
	if clean != "first line second line. third" {
		t.Fatalf("Unexpected flat text %q", clean)
	}
	if again := FlattenSRT(noisy, false); again != clean {
		t.Errorf("Expected identical output under formatting noise, got %q vs %q", again, clean)
	}
}

func TestCollapseRepeatedWords(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want string
	}{
		{"Hello hello", "Hello"},
		{"the the the end", "the end"},
		{"the theory", "the theory"},
		{"no-no", "no-no"},
		{"ÉTÉ été", "ÉTÉ"},
		{"a\n\na b", "a b"},
		{"1 1 2", "1 2"},
		{"", ""},
	}

	for _, tt := range tests {
		tt := tt
		if got := CollapseRepeatedWords(tt.in); got != tt.want {
			t.Errorf("CollapseRepeatedWords(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatSRT(t *testing.T) {
	t.Parallel()
	cues := mustParseVTT(t, "WEBVTT\n\n00:00:01.5 --> 00:00:02.000\nA\n\n01:02:03.004 --> 01:02:04.000\nB\n")

	want := "1\n00:00:01,500 --> 00:00:02,000\nA\n\n2\n01:02:03,004 --> 01:02:04,000\nB\n"
	if got := string(FormatSRT(cues)); got != want {
		t.Errorf("FormatSRT() = %q, want %q", got, want)
	}
}

func mustParseVTT(t *testing.T, payload string) []models.Cue {
	t.Helper()
	cues, err := NewVTTParser(false).Parse(payload)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return cues
}
