package metadata

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/Belphemur/SuperTranscripts/internal/apperrors"
	"github.com/Belphemur/SuperTranscripts/internal/client"
	"github.com/Belphemur/SuperTranscripts/internal/config"
	"github.com/Belphemur/SuperTranscripts/internal/metrics"
	"github.com/Belphemur/SuperTranscripts/internal/models"
)

// liveChatLanguage is the pseudo caption language yt-dlp uses for live chat replays
const liveChatLanguage = "live_chat"

// Inspector turns a video reference into metadata and a filtered caption catalog
type Inspector struct {
	provider Provider
}

// NewInspector creates an inspector on top of a metadata provider
func NewInspector(provider Provider) *Inspector {
	return &Inspector{provider: provider}
}

// Inspect queries the provider once. Any provider failure is reported as
// ErrMetadataUnavailable and no partial catalog is returned.
func (i *Inspector) Inspect(ctx context.Context, videoRef string) (*models.Inspection, error) {
	logger := config.GetLogger()

	target, videoID := client.ResolveVideoTarget(videoRef)
	if target == "" {
		return nil, apperrors.NewValidationError("videoRef", "must not be empty")
	}

	start := time.Now()
	info, err := i.provider.Describe(ctx, target)
	if err == nil && len(info.Entries) > 0 {
		// Playlist result: the first entry is the video
		info = info.Entries[0]
	}
	if err == nil && (info == nil || (info.ID == "" && info.Title == "")) {
		err = errors.New("metadata response describes no video")
	}

	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusError
	}
	metrics.MetadataLookupDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())

	if err != nil {
		logger.Warn().Err(err).Str("videoRef", videoRef).Msg("Metadata lookup failed")
		return nil, apperrors.NewMetadataUnavailableError(videoRef, err)
	}

	metadata := buildMetadata(info, videoID, target)
	catalog := models.NewCaptionCatalog()
	addTracks(catalog, models.TrackKindManual, info.Subtitles)
	addTracks(catalog, models.TrackKindAuto, info.AutomaticCaptions)

	logger.Info().
		Str("videoID", metadata.ID).
		Strs("manual", catalog.Languages(models.TrackKindManual)).
		Int("auto", len(catalog.Auto)).
		Msg("Inspected caption catalog")

	return &models.Inspection{Metadata: metadata, Catalog: catalog}, nil
}

func buildMetadata(info *VideoInfo, videoID, target string) models.VideoMetadata {
	id := info.ID
	if id == "" {
		id = videoID
	}
	channel := info.Channel
	if channel == "" {
		channel = info.Uploader
	}
	webpage := info.WebpageURL
	if webpage == "" {
		webpage = target
	}
	duration := 0
	if info.Duration > 0 {
		duration = int(info.Duration)
	}

	return models.VideoMetadata{
		ID:              id,
		Title:           info.Title,
		Channel:         channel,
		PublishedAt:     FormatUploadDate(info.UploadDate),
		DurationSeconds: duration,
		WebpageURL:      webpage,
	}
}

// FormatUploadDate converts yt-dlp's YYYYMMDD into an ISO date; other values pass through
func FormatUploadDate(value string) string {
	value = strings.TrimSpace(value)
	if len(value) != 8 {
		return value
	}
	if _, err := time.Parse("20060102", value); err != nil {
		return value
	}
	return value[:4] + "-" + value[4:6] + "-" + value[6:]
}

// addTracks copies the producer's tracks into the catalog, dropping tracks without a URL
// and languages left without any track. Tracks are ordered by parse preference.
func addTracks(catalog *models.CaptionCatalog, kind models.TrackKind, reported map[string][]TrackInfo) {
	target := catalog.Tracks(kind)
	for lang, infos := range reported {
		if strings.EqualFold(lang, liveChatLanguage) {
			continue
		}

		tracks := make([]models.CaptionTrack, 0, len(infos))
		for _, info := range infos {
			track := models.CaptionTrack{
				LanguageCode: lang,
				Kind:         kind,
				Source:       strings.TrimSpace(info.URL),
				Format:       models.ParseCaptionFormat(info.Ext),
				Name:         info.Name,
			}
			if track.HasSource() {
				tracks = append(tracks, track)
			}
		}
		if len(tracks) == 0 {
			continue
		}

		sort.SliceStable(tracks, func(a, b int) bool {
			return formatRank(tracks[a].Format) < formatRank(tracks[b].Format)
		})
		target[lang] = tracks
	}
}

func formatRank(format models.CaptionFormat) int {
	switch format {
	case models.CaptionFormatVTT:
		return 0
	case models.CaptionFormatTTML:
		return 1
	default:
		return 2
	}
}
