package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Belphemur/SuperTranscripts/internal/config"
	"github.com/Belphemur/SuperTranscripts/internal/metrics"
	"github.com/Belphemur/SuperTranscripts/internal/parser"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
)

// DefaultMaxPayloadBytes caps the size of a single caption payload.
const DefaultMaxPayloadBytes int64 = 16 << 20

// minRetries is the lowest retry count accepted from configuration.
const minRetries = 2

// FetcherOptions tunes a DefaultCaptionFetcher
type FetcherOptions struct {
	UserAgent       string
	MaxRetries      int
	BaseDelay       time.Duration
	MaxDelay        time.Duration
	MaxPayloadBytes int64
}

// rawPayload is one successful download before charset decoding
type rawPayload struct {
	body        []byte
	contentType string
}

// DefaultCaptionFetcher implements CaptionFetcher over HTTP with a failsafe retry policy
type DefaultCaptionFetcher struct {
	httpClient *http.Client
	opts       FetcherOptions
	retry      retrypolicy.RetryPolicy[*rawPayload]
}

// NewCaptionFetcher creates a caption fetcher. Zero options fall back to the defaults
// (3 retries, 1s base delay, 10s max delay, 16 MiB cap).
func NewCaptionFetcher(httpClient *http.Client, opts FetcherOptions) *DefaultCaptionFetcher {
	if opts.UserAgent == "" {
		opts.UserAgent = config.DefaultUserAgent
	}
	switch {
	case opts.MaxRetries == 0:
		opts.MaxRetries = 3
	case opts.MaxRetries < minRetries:
		opts.MaxRetries = minRetries
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = time.Second
	}
	if opts.MaxDelay <= opts.BaseDelay {
		opts.MaxDelay = max(10*time.Second, 2*opts.BaseDelay)
	}
	if opts.MaxPayloadBytes <= 0 {
		opts.MaxPayloadBytes = DefaultMaxPayloadBytes
	}

	logger := config.GetLogger()
	retry := retrypolicy.NewBuilder[*rawPayload]().
		HandleIf(func(_ *rawPayload, err error) bool {
			return isRetryable(err)
		}).
		WithMaxRetries(opts.MaxRetries).
		WithBackoff(opts.BaseDelay, opts.MaxDelay).
		ReturnLastFailure().
		OnRetry(func(e failsafe.ExecutionEvent[*rawPayload]) {
			logger.Warn().
				Err(e.LastError()).
				Int("attempt", e.Attempts()).
				Msg("Retrying caption download")
		}).
		Build()

	return &DefaultCaptionFetcher{
		httpClient: httpClient,
		opts:       opts,
		retry:      retry,
	}
}

// NewCaptionFetcherFromConfig wires the fetcher from the application config
func NewCaptionFetcherFromConfig(cfg *config.Config) *DefaultCaptionFetcher {
	return NewCaptionFetcher(NewHTTPClient(cfg), FetcherOptions{
		UserAgent:  cfg.UserAgent,
		MaxRetries: cfg.Retry.MaxRetries,
		BaseDelay:  config.ParseDuration("retry.base_delay", cfg.Retry.BaseDelay, time.Second),
		MaxDelay:   config.ParseDuration("retry.max_delay", cfg.Retry.MaxDelay, 10*time.Second),
	})
}

// Fetch implements CaptionFetcher
func (f *DefaultCaptionFetcher) Fetch(ctx context.Context, source string) (string, error) {
	logger := config.GetLogger()
	logger.Debug().Str("url", source).Msg("Downloading caption payload")

	payload, err := failsafe.With[*rawPayload](f.retry).
		WithContext(ctx).
		Get(func() (*rawPayload, error) {
			return f.fetchOnce(ctx, source)
		})
	if err != nil {
		return "", err
	}

	text, err := parser.DecodePayload(payload.body, payload.contentType)
	if err != nil {
		return "", fmt.Errorf("failed to decode caption payload: %w", err)
	}

	logger.Debug().
		Str("url", source).
		Str("contentType", payload.contentType).
		Int("size", len(payload.body)).
		Msg("Downloaded caption payload")

	return text, nil
}

func (f *DefaultCaptionFetcher) fetchOnce(ctx context.Context, source string) (*rawPayload, error) {
	payload, err := f.doRequest(ctx, source)
	if err != nil {
		metrics.CaptionFetchAttemptsTotal.WithLabelValues(metrics.StatusError).Inc()
		return nil, err
	}
	metrics.CaptionFetchAttemptsTotal.WithLabelValues(metrics.StatusSuccess).Inc()
	return payload, nil
}

func (f *DefaultCaptionFetcher) doRequest(ctx context.Context, source string) (*rawPayload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)
	req.Header.Set("Accept", "text/vtt, application/ttml+xml, text/xml, */*;q=0.8")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain a little so the connection can be reused
		_, _ = io.CopyN(io.Discard, resp.Body, 4096)
		return nil, &ErrUnexpectedStatus{StatusCode: resp.StatusCode, URL: source}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.opts.MaxPayloadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > f.opts.MaxPayloadBytes {
		return nil, &ErrPayloadTooLarge{Limit: f.opts.MaxPayloadBytes}
	}

	return &rawPayload{body: body, contentType: resp.Header.Get("Content-Type")}, nil
}

// isRetryable retries throttling, server errors and transport failures (timeouts included),
// but never a cancelled request, a client error or an oversized payload.
func isRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var statusErr *ErrUnexpectedStatus
	if errors.As(err, &statusErr) {
		return statusErr.Retryable()
	}
	var tooLarge *ErrPayloadTooLarge
	return !errors.As(err, &tooLarge)
}
