// Package transcript runs the transcript pipeline for one request: inspect the video,
// select a caption track, normalize it and publish the resulting files.
package transcript

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Belphemur/SuperTranscripts/internal/apperrors"
	"github.com/Belphemur/SuperTranscripts/internal/client"
	"github.com/Belphemur/SuperTranscripts/internal/config"
	"github.com/Belphemur/SuperTranscripts/internal/metrics"
	"github.com/Belphemur/SuperTranscripts/internal/models"
	"github.com/Belphemur/SuperTranscripts/internal/services"
)

// Mime types of the published files
const (
	MimeTypeText = "text/plain; charset=utf-8"
	MimeTypeSRT  = "application/x-subrip"
	MimeTypePDF  = "application/pdf"
)

// DefaultPreviewLength is the preview size, in runes, used when none is configured
const DefaultPreviewLength = 2500

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// CatalogInspector looks up video metadata and its caption catalog
type CatalogInspector interface {
	Inspect(ctx context.Context, videoRef string) (*models.Inspection, error)
}

// ArtifactRegistrar publishes files behind expiring tokens
type ArtifactRegistrar interface {
	Register(content []byte, mimeType, filename string) (*models.Artifact, error)
	TTL() time.Duration
}

// Options tunes the service
type Options struct {
	DefaultLanguages string
	PreviewLength    int
	// PublicBaseURL prefixes the file links. Empty yields links relative to the API root.
	PublicBaseURL string
}

// Service produces transcripts
type Service struct {
	inspector  CatalogInspector
	resolver   services.LanguageResolver
	normalizer services.CaptionNormalizer
	renderer   services.DocumentRenderer // nil disables the document artifact
	store      ArtifactRegistrar
	opts       Options
}

// NewService wires the pipeline stages together. renderer may be nil.
func NewService(
	inspector CatalogInspector,
	resolver services.LanguageResolver,
	normalizer services.CaptionNormalizer,
	renderer services.DocumentRenderer,
	store ArtifactRegistrar,
	opts Options,
) *Service {
	if opts.DefaultLanguages == "" {
		opts.DefaultLanguages = config.DefaultLanguages
	}
	if opts.PreviewLength <= 0 {
		opts.PreviewLength = DefaultPreviewLength
	}
	opts.PublicBaseURL = strings.TrimRight(opts.PublicBaseURL, "/")

	return &Service{
		inspector:  inspector,
		resolver:   resolver,
		normalizer: normalizer,
		renderer:   renderer,
		store:      store,
		opts:       opts,
	}
}

// ProduceTranscript runs the whole pipeline for req.
//
// Errors are typed: ErrValidation, ErrMetadataUnavailable, ErrNoCaptionsAvailable and
// ErrCaptionFetchFailed carry their diagnostics, anything else is internal. A failed
// document render only leaves PdfURL empty.
func (s *Service) ProduceTranscript(ctx context.Context, req models.TranscriptRequest) (*models.TranscriptResult, error) {
	result, err := s.produce(ctx, req)

	status := metrics.StatusSuccess
	if err != nil {
		status = apperrors.Code(err)
	}
	metrics.TranscriptRequestsTotal.WithLabelValues(status).Inc()

	return result, err
}

func (s *Service) produce(ctx context.Context, req models.TranscriptRequest) (*models.TranscriptResult, error) {
	logger := config.GetLogger()

	if strings.TrimSpace(req.VideoRef) == "" {
		return nil, apperrors.NewValidationError("videoRef", "must not be empty")
	}
	pref, err := models.ParseLanguagePreference(req.Languages, s.opts.DefaultLanguages)
	if err != nil {
		return nil, err
	}

	inspection, err := s.inspector.Inspect(ctx, req.VideoRef)
	if err != nil {
		var metaErr *apperrors.ErrMetadataUnavailable
		if errors.As(err, &metaErr) {
			_, metaErr.VideoID = client.ResolveVideoTarget(req.VideoRef)
			metaErr.Tried = append([]string(nil), pref...)
		}
		return nil, err
	}
	meta := inspection.Metadata

	selection, err := s.resolver.Resolve(pref, inspection.Catalog)
	if err != nil {
		var noCaptions *apperrors.ErrNoCaptionsAvailable
		if errors.As(err, &noCaptions) {
			noCaptions.VideoID = meta.ID
			logger.Info().Str("videoID", meta.ID).Strs("tried", noCaptions.Tried).Msg("No captions available")
		}
		return nil, err
	}
	metrics.CaptionSelectionsTotal.WithLabelValues(selection.Kind.String(), selection.Rule).Inc()

	normalized, err := s.normalizer.Normalize(ctx, selection.Track, req.KeepTimestamps)
	if err != nil {
		var fetchErr *apperrors.ErrCaptionFetchFailed
		if errors.As(err, &fetchErr) {
			fetchErr.VideoID = meta.ID
		}
		return nil, err
	}

	artifacts := models.TranscriptArtifactSet{
		Metadata: meta,
		Language: selection.Language,
		Kind:     selection.Kind,
		SRT:      normalized.SRT,
		Text:     normalized.Text,
		Document: s.renderDocument(meta, normalized.Text),
	}

	result, err := s.publish(artifacts)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("videoID", meta.ID).
		Str("language", selection.Language).
		Str("kind", selection.Kind.String()).
		Str("rule", selection.Rule).
		Bool("document", result.PdfURL != "").
		Msg("Produced transcript")

	return result, nil
}

// renderDocument returns nil when rendering is disabled or fails
func (s *Service) renderDocument(meta models.VideoMetadata, text string) []byte {
	if s.renderer == nil {
		return nil
	}
	document, err := s.renderer.Render(meta, text)
	if err != nil {
		metrics.DocumentRenderFailuresTotal.Inc()
		logger := config.GetLogger()
		logger.Warn().Err(err).Str("videoID", meta.ID).Msg("Document render failed, continuing without it")
		return nil
	}
	return document
}

// publish registers the artifact set and builds the result
func (s *Service) publish(set models.TranscriptArtifactSet) (*models.TranscriptResult, error) {
	id := filenamePart(set.Metadata.ID, "video")

	txt, err := s.store.Register([]byte(set.Text), MimeTypeText, "transcript_"+id+".txt")
	if err != nil {
		return nil, fmt.Errorf("failed to register text artifact: %w", err)
	}
	srt, err := s.store.Register(set.SRT, MimeTypeSRT, id+"."+filenamePart(set.Language, "und")+".srt")
	if err != nil {
		return nil, fmt.Errorf("failed to register subtitle artifact: %w", err)
	}

	pdfURL := ""
	if len(set.Document) > 0 {
		pdf, err := s.store.Register(set.Document, MimeTypePDF, "transcript_"+id+".pdf")
		if err != nil {
			logger := config.GetLogger()
			logger.Warn().Err(err).Str("videoID", set.Metadata.ID).Msg("Failed to register document artifact")
		} else {
			pdfURL = s.FileURL(pdf.Token)
		}
	}

	preview, truncated := Preview(set.Text, s.opts.PreviewLength)

	return &models.TranscriptResult{
		OK:               true,
		VideoID:          set.Metadata.ID,
		Title:            set.Metadata.Title,
		Channel:          set.Metadata.Channel,
		PublishedAt:      set.Metadata.PublishedAt,
		DurationSeconds:  set.Metadata.DurationSeconds,
		CaptionsLang:     set.Language,
		CaptionsKind:     set.Kind.String(),
		PreviewText:      preview,
		Truncated:        truncated,
		TxtURL:           s.FileURL(txt.Token),
		SrtURL:           s.FileURL(srt.Token),
		PdfURL:           pdfURL,
		ExpiresInSeconds: int(s.store.TTL() / time.Second),
	}, nil
}

// FileURL returns the download link of a token
func (s *Service) FileURL(token string) string {
	return s.opts.PublicBaseURL + "/file/" + token
}

// Preview returns the first limit runes of text and whether anything was cut
func Preview(text string, limit int) (string, bool) {
	if utf8.RuneCountInString(text) <= limit {
		return text, false
	}
	count := 0
	for i := range text {
		if count == limit {
			return text[:i], true
		}
		count++
	}
	return text, false
}

func filenamePart(value, fallback string) string {
	cleaned := strings.Trim(unsafeFilenameChars.ReplaceAllString(value, "_"), "_")
	if cleaned == "" {
		return fallback
	}
	return cleaned
}
