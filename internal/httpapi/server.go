// Package httpapi exposes the transcript service over HTTP.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Belphemur/SuperTranscripts/internal/apperrors"
	"github.com/Belphemur/SuperTranscripts/internal/config"
	"github.com/Belphemur/SuperTranscripts/internal/models"
	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// TranscriptProducer runs the transcript pipeline
type TranscriptProducer interface {
	ProduceTranscript(ctx context.Context, req models.TranscriptRequest) (*models.TranscriptResult, error)
}

// ArtifactResolver serves stored artifacts
type ArtifactResolver interface {
	Resolve(token string) (*models.Artifact, error)
	Sweep() int
	Len() int
	TTL() time.Duration
}

// server holds the HTTP handlers
type server struct {
	producer      TranscriptProducer
	artifacts     ArtifactResolver
	failurePolicy string
	logger        zerolog.Logger
}

func newServer(producer TranscriptProducer, artifacts ArtifactResolver, failurePolicy string) *server {
	if failurePolicy != config.FailurePolicyEnvelope {
		failurePolicy = config.FailurePolicyStatus
	}
	return &server{
		producer:      producer,
		artifacts:     artifacts,
		failurePolicy: failurePolicy,
		logger:        config.GetLogger(),
	}
}

// transcript handles POST /transcript
func (s *server) transcript(c *gin.Context) {
	var body transcriptRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		s.writeError(c, apperrors.NewValidationError("body", "malformed JSON request"))
		return
	}

	req := body.toModel()
	s.logger.Debug().Str("videoRef", req.VideoRef).Str("languages", req.Languages).Msg("Transcript requested")

	result, err := s.producer.ProduceTranscript(c.Request.Context(), req)
	if err != nil {
		s.writeError(c, err)
		return
	}

	result.TxtURL = absoluteURL(c, result.TxtURL)
	result.SrtURL = absoluteURL(c, result.SrtURL)
	result.PdfURL = absoluteURL(c, result.PdfURL)
	c.JSON(http.StatusOK, result)
}

// file handles GET /file/:token
func (s *server) file(c *gin.Context) {
	artifact, err := s.artifacts.Resolve(c.Param("token"))
	if err != nil {
		if errors.Is(err, &apperrors.ErrTokenNotFound{}) {
			s.logger.Debug().Msg("File token not found or expired")
		} else {
			s.logger.Error().Err(err).Msg("Failed to resolve file token")
		}
		code, body := errorResponse(err)
		c.JSON(httpStatusFor(code), body)
		return
	}

	c.Header("Content-Disposition", contentDisposition(artifact.Filename))
	c.Header("Cache-Control", "private, max-age="+strconv.Itoa(max(0, int(time.Until(artifact.ExpiresAt).Seconds()))))
	c.Data(http.StatusOK, artifact.MimeType, artifact.Content)
}

// health handles GET /health and sweeps expired artifacts along the way
func (s *server) health(c *gin.Context) {
	if purged := s.artifacts.Sweep(); purged > 0 {
		s.logger.Debug().Int("purged", purged).Msg("Purged expired artifacts during health check")
	}
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"ttl_seconds": int(s.artifacts.TTL() / time.Second),
		"artifacts":   s.artifacts.Len(),
	})
}

// writeError renders err according to the failure policy
func (s *server) writeError(c *gin.Context, err error) {
	code, body := errorResponse(err)

	event := s.logger.Warn()
	if code == apperrors.CodeInternal {
		event = s.logger.Error()
		if hub := sentry.GetHubFromContext(c.Request.Context()); hub != nil {
			hub.CaptureException(err)
		} else {
			sentry.CaptureException(err)
		}
	}
	event.Err(err).Str("code", code).Str("requestId", c.GetString(requestIDKey)).Msg("Transcript request failed")

	status := http.StatusOK
	if s.failurePolicy == config.FailurePolicyStatus {
		status = httpStatusFor(code)
	}
	c.JSON(status, body)
}

// absoluteURL prefixes links relative to the API root with the request origin
func absoluteURL(c *gin.Context, link string) string {
	if link == "" || !strings.HasPrefix(link, "/") {
		return link
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if forwarded := c.GetHeader("X-Forwarded-Proto"); forwarded != "" {
		scheme = strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	return scheme + "://" + c.Request.Host + link
}

func contentDisposition(filename string) string {
	filename = strings.NewReplacer(`"`, "", "\r", "", "\n", "").Replace(filename)
	return `attachment; filename="` + filename + `"`
}
