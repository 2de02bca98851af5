package cache

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestZerologLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(zerolog.New(&buf))

	logger.Error("redis cache Set failed", errors.New("connection refused"))

	out := buf.String()
	for _, want := range []string{`"level":"error"`, `"component":"cache"`, "connection refused", "redis cache Set failed"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in log output, got %s", want, out)
		}
	}
}
