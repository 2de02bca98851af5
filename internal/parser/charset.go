package parser

import (
	"bytes"
	"io"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
)

// NewUTF8Reader wraps an io.Reader with character encoding detection and conversion to UTF-8.
// Caption payloads are usually UTF-8 already, but XML caption formats may declare another
// encoding and some producers send Latin-1 without saying so.
//
// The charset is taken from contentType when it names one, otherwise it is detected from
// byte order marks, <?xml encoding="..."?> declarations and <meta> tags, falling back to
// heuristics.
func NewUTF8Reader(body io.Reader, contentType string) (io.Reader, error) {
	return charset.NewReader(body, contentType)
}

// DecodePayload returns payload as a UTF-8 string. Valid UTF-8 is returned unchanged
// (minus a byte order mark); anything else goes through NewUTF8Reader.
func DecodePayload(payload []byte, contentType string) (string, error) {
	payload = bytes.TrimPrefix(payload, []byte("\xef\xbb\xbf"))
	if utf8.Valid(payload) {
		return string(payload), nil
	}

	reader, err := NewUTF8Reader(bytes.NewReader(payload), contentType)
	if err != nil {
		return "", err
	}
	decoded, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}
