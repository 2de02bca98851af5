package transcript

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Belphemur/SuperTranscripts/internal/apperrors"
	"github.com/Belphemur/SuperTranscripts/internal/artifacts"
	"github.com/Belphemur/SuperTranscripts/internal/cache"
	"github.com/Belphemur/SuperTranscripts/internal/models"
	"github.com/Belphemur/SuperTranscripts/internal/services"
)

const sampleVTT = "WEBVTT\nKind: captions\nLanguage: en\n\n" +
	"00:00:01.000 --> 00:00:02.000\nhello hello everyone\n\n" +
	"00:00:02.000 --> 00:00:04.000\nwelcome back ,\n"

type fakeInspector struct {
	inspection *models.Inspection
	err        error
}

func (f *fakeInspector) Inspect(_ context.Context, _ string) (*models.Inspection, error) {
	return f.inspection, f.err
}

type fakeFetcher struct {
	payloads map[string]string
}

func (f *fakeFetcher) Fetch(_ context.Context, source string) (string, error) {
	payload, ok := f.payloads[source]
	if !ok {
		return "", errors.New("unexpected status code 404")
	}
	return payload, nil
}

type fakeRenderer struct {
	err error
}

func (f *fakeRenderer) Render(meta models.VideoMetadata, text string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.3 " + meta.ID + " " + text), nil
}

func autoOnlyInspection() *models.Inspection {
	catalog := models.NewCaptionCatalog()
	catalog.Auto["en"] = []models.CaptionTrack{{
		LanguageCode: "en",
		Kind:         models.TrackKindAuto,
		Source:       "https://captions.example/en.vtt",
		Format:       models.CaptionFormatVTT,
	}}
	return &models.Inspection{
		Metadata: models.VideoMetadata{
			ID:              "dQw4w9WgXcQ",
			Title:           "Sample video",
			Channel:         "Sample channel",
			PublishedAt:     "2009-10-25",
			DurationSeconds: 212,
		},
		Catalog: catalog,
	}
}

func newTestService(t *testing.T, inspector CatalogInspector, renderer services.DocumentRenderer, opts Options) (*Service, *artifacts.Store) {
	t.Helper()
	backend, err := cache.New("memory", cache.ProviderConfig{Size: 100, TTL: time.Hour})
	if err != nil {
		t.Fatalf("Failed to create backend: %v", err)
	}
	t.Cleanup(func() { _ = backend.Close() })
	store := artifacts.NewStore(backend, time.Hour)

	fetcher := &fakeFetcher{payloads: map[string]string{"https://captions.example/en.vtt": sampleVTT}}
	svc := NewService(
		inspector,
		services.NewLanguageResolver(),
		services.NewCaptionNormalizer(fetcher),
		renderer,
		store,
		opts,
	)
	return svc, store
}

func tokenOf(t *testing.T, url string) string {
	t.Helper()
	_, token, ok := strings.Cut(url, "/file/")
	if !ok || token == "" {
		t.Fatalf("Unexpected file URL %q", url)
	}
	return token
}

func TestProduceTranscript_AutoFallbackThroughWildcard(t *testing.T) {
	svc, store := newTestService(t, &fakeInspector{inspection: autoOnlyInspection()}, &fakeRenderer{}, Options{PublicBaseURL: "https://transcripts.example/"})

	result, err := svc.ProduceTranscript(context.Background(), models.TranscriptRequest{
		VideoRef:  "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		Languages: "fr,all",
	})
	if err != nil {
		t.Fatalf("ProduceTranscript failed: %v", err)
	}

	if !result.OK || result.CaptionsLang != "en" || result.CaptionsKind != "auto" {
		t.Errorf("Unexpected selection in %+v", result)
	}
	if result.VideoID != "dQw4w9WgXcQ" || result.Title != "Sample video" || result.DurationSeconds != 212 || result.PublishedAt != "2009-10-25" {
		t.Errorf("Unexpected metadata in %+v", result)
	}
	if result.PreviewText != "hello everyone welcome back," || result.Truncated {
		t.Errorf("Unexpected preview %q (truncated=%v)", result.PreviewText, result.Truncated)
	}
	if result.ExpiresInSeconds != 3600 {
		t.Errorf("Expected 3600 seconds, got %d", result.ExpiresInSeconds)
	}
	if !strings.HasPrefix(result.TxtURL, "https://transcripts.example/file/") {
		t.Errorf("Unexpected txt URL %q", result.TxtURL)
	}

	txt, err := store.Resolve(tokenOf(t, result.TxtURL))
	if err != nil {
		t.Fatalf("txt artifact not resolvable: %v", err)
	}
	if string(txt.Content) != result.PreviewText || txt.MimeType != MimeTypeText || txt.Filename != "transcript_dQw4w9WgXcQ.txt" {
		t.Errorf("Unexpected txt artifact %+v", txt)
	}

	srt, err := store.Resolve(tokenOf(t, result.SrtURL))
	if err != nil {
		t.Fatalf("srt artifact not resolvable: %v", err)
	}
	if srt.Filename != "dQw4w9WgXcQ.en.srt" || srt.MimeType != MimeTypeSRT {
		t.Errorf("Unexpected srt artifact %+v", srt)
	}
	if !strings.HasPrefix(string(srt.Content), "1\n00:00:01,000 --> 00:00:02,000\n") {
		t.Errorf("Unexpected srt content %q", srt.Content)
	}

	pdf, err := store.Resolve(tokenOf(t, result.PdfURL))
	if err != nil {
		t.Fatalf("pdf artifact not resolvable: %v", err)
	}
	if pdf.Filename != "transcript_dQw4w9WgXcQ.pdf" || pdf.MimeType != MimeTypePDF {
		t.Errorf("Unexpected pdf artifact %+v", pdf)
	}
}

func TestProduceTranscript_PreviewTruncated(t *testing.T) {
	svc, _ := newTestService(t, &fakeInspector{inspection: autoOnlyInspection()}, nil, Options{PreviewLength: 5})

	result, err := svc.ProduceTranscript(context.Background(), models.TranscriptRequest{VideoRef: "dQw4w9WgXcQ"})
	if err != nil {
		t.Fatalf("ProduceTranscript failed: %v", err)
	}
	if result.PreviewText != "hello" || !result.Truncated {
		t.Errorf("Expected truncated preview, got %q (truncated=%v)", result.PreviewText, result.Truncated)
	}
	if result.PdfURL != "" {
		t.Errorf("Expected no pdf without renderer, got %q", result.PdfURL)
	}
	if !strings.HasPrefix(result.TxtURL, "/file/") {
		t.Errorf("Expected relative link without public base URL, got %q", result.TxtURL)
	}
}

func TestProduceTranscript_RenderFailureIsNotFatal(t *testing.T) {
	renderer := &fakeRenderer{err: &apperrors.ErrArtifactRenderFailed{Artifact: "pdf", Cause: errors.New("font missing")}}
	svc, _ := newTestService(t, &fakeInspector{inspection: autoOnlyInspection()}, renderer, Options{})

	result, err := svc.ProduceTranscript(context.Background(), models.TranscriptRequest{VideoRef: "dQw4w9WgXcQ"})
	if err != nil {
		t.Fatalf("Expected success despite render failure, got %v", err)
	}
	if result.PdfURL != "" || result.TxtURL == "" || result.SrtURL == "" {
		t.Errorf("Unexpected links %+v", result)
	}
}

func TestProduceTranscript_NoCaptions(t *testing.T) {
	inspection := autoOnlyInspection()
	inspection.Catalog = models.NewCaptionCatalog()
	svc, _ := newTestService(t, &fakeInspector{inspection: inspection}, nil, Options{})

	_, err := svc.ProduceTranscript(context.Background(), models.TranscriptRequest{VideoRef: "dQw4w9WgXcQ", Languages: "de"})

	var noCaptions *apperrors.ErrNoCaptionsAvailable
	if !errors.As(err, &noCaptions) {
		t.Fatalf("Expected ErrNoCaptionsAvailable, got %v", err)
	}
	if noCaptions.VideoID != "dQw4w9WgXcQ" {
		t.Errorf("Expected video id in error, got %q", noCaptions.VideoID)
	}
	if strings.Join(noCaptions.Tried, ",") != "de,all" {
		t.Errorf("Unexpected tried languages %v", noCaptions.Tried)
	}
}

func TestProduceTranscript_FetchFailure(t *testing.T) {
	inspection := autoOnlyInspection()
	inspection.Catalog.Auto["en"][0].Source = "https://captions.example/missing.vtt"
	svc, _ := newTestService(t, &fakeInspector{inspection: inspection}, nil, Options{})

	_, err := svc.ProduceTranscript(context.Background(), models.TranscriptRequest{VideoRef: "dQw4w9WgXcQ"})

	var fetchErr *apperrors.ErrCaptionFetchFailed
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Expected ErrCaptionFetchFailed, got %v", err)
	}
	if fetchErr.VideoID != "dQw4w9WgXcQ" || fetchErr.Language != "en" || fetchErr.Kind != "auto" {
		t.Errorf("Unexpected diagnostics %+v", fetchErr)
	}
}

func TestProduceTranscript_InputAndMetadataErrors(t *testing.T) {
	tests := []struct {
		name      string
		inspector *fakeInspector
		req       models.TranscriptRequest
		wantCode  string
	}{
		{"empty reference", &fakeInspector{inspection: autoOnlyInspection()}, models.TranscriptRequest{VideoRef: "  "}, apperrors.CodeValidationFailed},
		{"invalid language token", &fakeInspector{inspection: autoOnlyInspection()}, models.TranscriptRequest{VideoRef: "x", Languages: "en;rm -rf"}, apperrors.CodeValidationFailed},
		{"metadata unavailable", &fakeInspector{err: apperrors.NewMetadataUnavailableError("x", errors.New("exit status 1"))}, models.TranscriptRequest{VideoRef: "x"}, apperrors.CodeMetadataUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t, tt.inspector, nil, Options{})
			_, err := svc.ProduceTranscript(context.Background(), tt.req)
			if got := apperrors.Code(err); got != tt.wantCode {
				t.Errorf("Expected %q, got %q (%v)", tt.wantCode, got, err)
			}
		})
	}
}

func TestProduceTranscript_MetadataErrorCarriesRequestContext(t *testing.T) {
	inspector := &fakeInspector{err: apperrors.NewMetadataUnavailableError("https://youtu.be/dQw4w9WgXcQ", errors.New("exit status 1"))}
	svc, _ := newTestService(t, inspector, nil, Options{})

	_, err := svc.ProduceTranscript(context.Background(), models.TranscriptRequest{
		VideoRef:  "https://youtu.be/dQw4w9WgXcQ",
		Languages: "fr,all",
	})

	var metaErr *apperrors.ErrMetadataUnavailable
	if !errors.As(err, &metaErr) {
		t.Fatalf("Expected ErrMetadataUnavailable, got %v", err)
	}
	if metaErr.VideoID != "dQw4w9WgXcQ" {
		t.Errorf("Expected video id from the reference, got %q", metaErr.VideoID)
	}
	if strings.Join(metaErr.Tried, ",") != "fr,all" {
		t.Errorf("Unexpected tried languages %v", metaErr.Tried)
	}
}

func TestPreview(t *testing.T) {
	t.Parallel()
	tests := []struct {
		text          string
		limit         int
		want          string
		wantTruncated bool
	}{
		{"short", 10, "short", false},
		{"exact", 5, "exact", false},
		{"héllo wörld", 5, "héllo", true},
		{"日本語のテキスト", 3, "日本語", true},
		{"", 3, "", false},
	}
	for _, tt := range tests {
		got, truncated := Preview(tt.text, tt.limit)
		if got != tt.want || truncated != tt.wantTruncated {
			t.Errorf("Preview(%q, %d) = %q, %v; want %q, %v", tt.text, tt.limit, got, truncated, tt.want, tt.wantTruncated)
		}
	}
}

func TestFilenamePart(t *testing.T) {
	t.Parallel()
	tests := map[string]string{
		"dQw4w9WgXcQ": "dQw4w9WgXcQ",
		"en-US":       "en-US",
		"../etc":      "etc",
		"":            "fallback",
		"a b/c":       "a_b_c",
	}
	for in, want := range tests {
		if got := filenamePart(in, "fallback"); got != want {
			t.Errorf("filenamePart(%q) = %q, want %q", in, got, want)
		}
	}
}
