package parser

import (
	"fmt"
	"strings"

	"github.com/Belphemur/SuperTranscripts/internal/models"
)

// CueParser defines a generic interface for turning a raw caption payload into timed cues
type CueParser interface {
	Parse(payload string) ([]models.Cue, error)
}

// ForTrack returns the parser matching the track format. Unknown formats are sniffed
// from the payload itself.
func ForTrack(track models.CaptionTrack, payload string) (CueParser, error) {
	format := track.Format
	if format == models.CaptionFormatUnknown {
		format = SniffFormat(payload)
	}

	switch format {
	case models.CaptionFormatVTT:
		return NewVTTParser(track.Kind == models.TrackKindAuto), nil
	case models.CaptionFormatTTML:
		return NewTTMLParser(), nil
	default:
		return nil, fmt.Errorf("unsupported caption format for %s track %q", track.Kind, track.LanguageCode)
	}
}

// SniffFormat guesses the caption format from the first bytes of the payload
func SniffFormat(payload string) models.CaptionFormat {
	trimmed := strings.TrimLeft(strings.TrimPrefix(payload, "\ufeff"), " \t\r\n")
	switch {
	case strings.HasPrefix(trimmed, "WEBVTT"):
		return models.CaptionFormatVTT
	case strings.HasPrefix(trimmed, "<"):
		return models.CaptionFormatTTML
	default:
		return models.CaptionFormatUnknown
	}
}
