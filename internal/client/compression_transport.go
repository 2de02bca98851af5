package client

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
)

// acceptEncoding lists the encodings the transport can undo.
const acceptEncoding = "gzip, br, zstd"

// decoders maps a Content-Encoding token to a constructor wrapping the raw body.
var decoders = map[string]func(io.Reader) (io.ReadCloser, error){
	"gzip": func(r io.Reader) (io.ReadCloser, error) {
		return gzip.NewReader(r)
	},
	"x-gzip": func(r io.Reader) (io.ReadCloser, error) {
		return gzip.NewReader(r)
	},
	"br": func(r io.Reader) (io.ReadCloser, error) {
		return io.NopCloser(brotli.NewReader(r)), nil
	},
	"zstd": func(r io.Reader) (io.ReadCloser, error) {
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return zr.IOReadCloser(), nil
	},
}

// compressionTransport advertises gzip, brotli and zstd and transparently decodes
// the response body. Caption endpoints compress large payloads aggressively.
type compressionTransport struct {
	transport http.RoundTripper
}

func newCompressionTransport(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return &compressionTransport{transport: base}
}

// RoundTrip implements http.RoundTripper
func (t *compressionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("Accept-Encoding") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("Accept-Encoding", acceptEncoding)
	}

	resp, err := t.transport.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.Body == nil || resp.Body == http.NoBody {
		return resp, nil
	}

	encodings := contentEncodings(resp.Header.Get("Content-Encoding"))
	if len(encodings) == 0 {
		return resp, nil
	}

	// Encodings are listed in the order they were applied; undo them in reverse.
	body := &layeredBody{original: resp.Body}
	var reader io.Reader = resp.Body
	for i := len(encodings) - 1; i >= 0; i-- {
		newDecoder, ok := decoders[encodings[i]]
		if !ok {
			if i == len(encodings)-1 {
				// Nothing decoded yet: hand the response over untouched
				return resp, nil
			}
			_ = body.Close()
			return nil, &unsupportedEncodingError{Encoding: encodings[i]}
		}
		decoder, err := newDecoder(reader)
		if err != nil {
			_ = body.Close()
			return nil, err
		}
		body.layers = append(body.layers, decoder)
		reader = decoder
	}
	body.reader = reader

	resp.Body = body
	resp.Header.Del("Content-Encoding")
	resp.Header.Del("Content-Length")
	resp.ContentLength = -1
	resp.Uncompressed = true

	return resp, nil
}

// layeredBody reads from the outermost decoder and closes every layer plus the raw body
type layeredBody struct {
	reader   io.Reader
	layers   []io.ReadCloser
	original io.ReadCloser
}

func (b *layeredBody) Read(p []byte) (int, error) {
	return b.reader.Read(p)
}

func (b *layeredBody) Close() error {
	var firstErr error
	for i := len(b.layers) - 1; i >= 0; i-- {
		if err := b.layers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := b.original.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// contentEncodings splits a Content-Encoding header into lowercase tokens, dropping "identity"
func contentEncodings(header string) []string {
	var encodings []string
	for _, part := range strings.Split(header, ",") {
		encoding := strings.ToLower(strings.TrimSpace(part))
		if encoding == "" || encoding == "identity" {
			continue
		}
		encodings = append(encodings, encoding)
	}
	return encodings
}

type unsupportedEncodingError struct {
	Encoding string
}

func (e *unsupportedEncodingError) Error() string {
	return "unsupported content encoding " + e.Encoding
}
