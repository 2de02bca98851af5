package client

import (
	"context"
)

// CaptionFetcher downloads raw caption payloads
type CaptionFetcher interface {
	// Fetch retrieves the payload at source and returns it decoded to UTF-8.
	// Throttling and server errors are retried with backoff before giving up.
	Fetch(ctx context.Context, source string) (string, error)
}
