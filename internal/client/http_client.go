package client

import (
	"net/http"
	"net/url"
	"time"

	"github.com/Belphemur/SuperTranscripts/internal/config"
)

// NewHTTPClient creates the HTTP client used for caption downloads, honouring the
// configured timeout and optional proxy. Responses are transparently decompressed.
func NewHTTPClient(cfg *config.Config) *http.Client {
	logger := config.GetLogger()

	timeout := config.ParseDuration("client_timeout", cfg.ClientTimeout, 30*time.Second)

	// Clone DefaultTransport to keep its pooling, HTTP/2 and dial timeouts
	baseTransport := http.DefaultTransport.(*http.Transport).Clone()

	if cfg.ProxyConnectionString != "" {
		proxyURL, err := url.Parse(cfg.ProxyConnectionString)
		if err != nil || proxyURL.Host == "" {
			logger.Warn().Err(err).Str("proxy", cfg.ProxyConnectionString).Msg("Invalid proxy URL, continuing without proxy")
		} else {
			baseTransport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: newCompressionTransport(baseTransport),
	}
}
