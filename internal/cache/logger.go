package cache

import "github.com/rs/zerolog"

// Logger receives backend failures that cannot be returned to the caller
// (the Cache interface has no error returns).
type Logger interface {
	Error(msg string, err error)
}

type zerologLogger struct {
	logger zerolog.Logger
}

// NewZerologLogger adapts a zerolog logger to the cache Logger interface
func NewZerologLogger(logger zerolog.Logger) Logger {
	return &zerologLogger{logger: logger.With().Str("component", "cache").Logger()}
}

func (l *zerologLogger) Error(msg string, err error) {
	l.logger.Error().Err(err).Msg(msg)
}
