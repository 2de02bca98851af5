package services

import (
	"context"
	"errors"

	"github.com/Belphemur/SuperTranscripts/internal/apperrors"
	"github.com/Belphemur/SuperTranscripts/internal/client"
	"github.com/Belphemur/SuperTranscripts/internal/config"
	"github.com/Belphemur/SuperTranscripts/internal/models"
	"github.com/Belphemur/SuperTranscripts/internal/parser"
)

// errNoCues is the cause reported when a payload parses to nothing usable
var errNoCues = errors.New("caption payload contains no usable cue")

// DefaultCaptionNormalizer implements CaptionNormalizer on top of a CaptionFetcher
type DefaultCaptionNormalizer struct {
	fetcher client.CaptionFetcher
}

// NewCaptionNormalizer creates a normalizer using fetcher for downloads
func NewCaptionNormalizer(fetcher client.CaptionFetcher) CaptionNormalizer {
	return &DefaultCaptionNormalizer{fetcher: fetcher}
}

// Normalize implements CaptionNormalizer
func (n *DefaultCaptionNormalizer) Normalize(ctx context.Context, track models.CaptionTrack, keepTimestamps bool) (*NormalizedCaptions, error) {
	logger := config.GetLogger()

	fail := func(cause error) error {
		return &apperrors.ErrCaptionFetchFailed{
			Language: track.LanguageCode,
			Kind:     track.Kind.String(),
			Source:   track.Source,
			Cause:    cause,
		}
	}

	if !track.HasSource() {
		return nil, fail(errors.New("track has no source"))
	}

	payload, err := n.fetcher.Fetch(ctx, track.Source)
	if err != nil {
		logger.Error().Err(err).Str("language", track.LanguageCode).Str("kind", track.Kind.String()).Msg("Caption download failed")
		return nil, fail(err)
	}

	cueParser, err := parser.ForTrack(track, payload)
	if err != nil {
		return nil, fail(err)
	}

	cues, err := cueParser.Parse(payload)
	if err != nil {
		return nil, fail(err)
	}
	if len(cues) == 0 {
		return nil, fail(errNoCues)
	}

	srt := parser.FormatSRT(cues)
	text := parser.FlattenSRT(string(srt), keepTimestamps)

	logger.Info().
		Str("language", track.LanguageCode).
		Str("kind", track.Kind.String()).
		Str("format", track.Format.String()).
		Int("cues", len(cues)).
		Int("textLength", len(text)).
		Msg("Normalized caption track")

	return &NormalizedCaptions{Cues: cues, SRT: srt, Text: text}, nil
}
