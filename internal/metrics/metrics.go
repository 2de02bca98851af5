package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels shared by the counters below.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Transcript pipeline metrics
var (
	// TranscriptRequestsTotal counts transcript requests by outcome: "success" or the error code.
	TranscriptRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transcript_requests_total",
			Help: "Total number of transcript requests by outcome.",
		},
		[]string{"status"},
	)

	// CaptionSelectionsTotal counts resolved caption tracks by kind and the resolver rule that matched.
	CaptionSelectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "caption_selections_total",
			Help: "Total number of caption tracks selected, by kind and matching rule.",
		},
		[]string{"kind", "rule"},
	)

	// CaptionFetchAttemptsTotal counts caption download attempts, retries included.
	CaptionFetchAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "caption_fetch_attempts_total",
			Help: "Total number of caption download attempts.",
		},
		[]string{"status"},
	)

	// MetadataLookupDuration observes how long the metadata collaborator takes.
	MetadataLookupDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "metadata_lookup_duration_seconds",
			Help:    "Duration of video metadata lookups.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"status"},
	)
)

// Artifact store metrics
var (
	// ArtifactsRegisteredTotal counts registered artifacts by kind (txt, srt, pdf).
	ArtifactsRegisteredTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artifacts_registered_total",
			Help: "Total number of artifacts registered in the store.",
		},
		[]string{"kind"},
	)

	// ArtifactsExpiredTotal counts artifacts purged after their expiry.
	ArtifactsExpiredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "artifacts_expired_total",
			Help: "Total number of expired artifacts purged from the store.",
		},
	)

	// DocumentRenderFailuresTotal counts optional document renders that failed.
	DocumentRenderFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "document_render_failures_total",
			Help: "Total number of failed transcript document renders.",
		},
	)
)

// HTTP metrics
var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "code"},
	)
)

func init() {
	prometheus.MustRegister(
		TranscriptRequestsTotal,
		CaptionSelectionsTotal,
		CaptionFetchAttemptsTotal,
		MetadataLookupDuration,
		ArtifactsRegisteredTotal,
		ArtifactsExpiredTotal,
		DocumentRenderFailuresTotal,
		HTTPRequestsTotal,
	)
}
