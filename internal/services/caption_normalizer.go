package services

import (
	"context"

	"github.com/Belphemur/SuperTranscripts/internal/models"
)

// NormalizedCaptions is a caption track in canonical form
type NormalizedCaptions struct {
	Cues []models.Cue
	SRT  []byte // canonical subtitle document
	Text string // cleaned flat text
}

// CaptionNormalizer fetches a caption track and converts it to canonical forms
type CaptionNormalizer interface {
	// Normalize fetches the track payload, parses it and renders the SRT and flat text.
	// Failures are reported as ErrCaptionFetchFailed.
	Normalize(ctx context.Context, track models.CaptionTrack, keepTimestamps bool) (*NormalizedCaptions, error)
}
