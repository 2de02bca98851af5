// Package artifacts holds the short-lived downloadable files produced for a transcript.
// Each file is addressed by an unguessable token and disappears once its TTL has passed.
package artifacts

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/Belphemur/SuperTranscripts/internal/apperrors"
	"github.com/Belphemur/SuperTranscripts/internal/cache"
	"github.com/Belphemur/SuperTranscripts/internal/config"
	"github.com/Belphemur/SuperTranscripts/internal/metrics"
	"github.com/Belphemur/SuperTranscripts/internal/models"
)

const (
	// TokenBytes is the amount of randomness behind each token
	TokenBytes = 24

	// CacheGroup labels the Prometheus metrics of the artifact backend
	CacheGroup = "artifacts"

	defaultTTL = 24 * time.Hour
)

// ErrStoreFull is returned by Register when the store holds as many live artifacts as
// its capacity allows. Live artifacts are never evicted to make room.
var ErrStoreFull = errors.New("artifact store is full")

// record is the serialized form of an artifact inside the cache backend
type record struct {
	Content   []byte    `json:"content"`
	MimeType  string    `json:"mimeType"`
	Filename  string    `json:"filename"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Store maps tokens to artifacts until they expire.
//
// The mutex only guards the expiry index; backend calls, which may be network round
// trips, are made outside of it. Expiry is decided from the stored expiresAt against the
// store clock, and an artifact leaves the store only once expired.
type Store struct {
	mu       sync.Mutex
	backend  cache.Cache
	ttl      time.Duration
	capacity int // 0 means unbounded
	now      func() time.Time
	expiries map[string]time.Time // tokens registered by this process
}

// Option configures a Store
type Option func(*Store)

// WithClock replaces the wall clock, for tests
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithCapacity bounds the number of live artifacts. Registrations beyond it fail with ErrStoreFull.
func WithCapacity(capacity int) Option {
	return func(s *Store) {
		s.capacity = max(0, capacity)
	}
}

// NewStore creates a store on top of backend. A non-positive ttl uses 24 hours.
// The backend must not evict entries before the ttl has passed.
func NewStore(backend cache.Cache, ttl time.Duration, opts ...Option) *Store {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	s := &Store{
		backend:  backend,
		ttl:      ttl,
		now:      time.Now,
		expiries: make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewStoreFromConfig creates the cache backend named by the configuration and a store on top of it.
// artifacts.size bounds the store, the backend itself is left unbounded so it never evicts.
func NewStoreFromConfig(cfg *config.Config) (*Store, error) {
	ttl := cfg.ArtifactTTL()
	backend, err := cache.New(cfg.Artifacts.Provider, backendConfig(cfg, ttl))
	if err != nil {
		return nil, fmt.Errorf("failed to create %q artifact backend: %w", cfg.Artifacts.Provider, err)
	}
	return NewStore(backend, ttl, WithCapacity(cfg.Artifacts.Size)), nil
}

func backendConfig(cfg *config.Config, ttl time.Duration) cache.ProviderConfig {
	return cache.ProviderConfig{
		Size:          0,
		TTL:           ttl,
		Logger:        cache.NewZerologLogger(config.GetLogger()),
		RedisAddress:  cfg.Redis.Address,
		RedisPassword: cfg.Redis.Password,
		RedisDB:       cfg.Redis.DB,
		Group:         CacheGroup,
	}
}

// TTL returns how long registered artifacts stay available
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Register stores a copy of content and returns the artifact with its fresh token.
// Expired entries are purged along the way.
func (s *Store) Register(content []byte, mimeType, filename string) (*models.Artifact, error) {
	logger := config.GetLogger()

	token, err := newToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate artifact token: %w", err)
	}

	s.mu.Lock()
	now := s.now()
	expired := s.takeExpiredLocked(now)
	full := s.capacity > 0 && len(s.expiries) >= s.capacity
	rec := record{
		Content:   content,
		MimeType:  mimeType,
		Filename:  filename,
		ExpiresAt: now.Add(s.ttl),
	}
	if !full {
		// reserve the slot, the token is not handed out before Set below
		s.expiries[token] = rec.ExpiresAt
	}
	s.mu.Unlock()

	s.removeExpired(expired)

	if full {
		logger.Warn().Int("capacity", s.capacity).Str("filename", filename).Msg("Artifact store is full")
		return nil, ErrStoreFull
	}

	encoded, err := json.Marshal(rec)
	if err != nil {
		s.forget(token)
		return nil, fmt.Errorf("failed to encode artifact %q: %w", filename, err)
	}

	s.backend.Set(token, encoded)
	metrics.ArtifactsRegisteredTotal.WithLabelValues(artifactKind(filename)).Inc()

	logger.Debug().Str("filename", filename).Time("expiresAt", rec.ExpiresAt).Msg("Registered artifact")

	return rec.toArtifact(token), nil
}

// Resolve returns the artifact behind token, or ErrTokenNotFound when it is unknown or expired.
// An expired entry is removed on access.
func (s *Store) Resolve(token string) (*models.Artifact, error) {
	notFound := &apperrors.ErrTokenNotFound{Token: token}
	if token == "" {
		return nil, notFound
	}

	encoded, ok := s.backend.Get(token)
	if !ok {
		s.forget(token)
		return nil, notFound
	}

	var rec record
	if err := json.Unmarshal(encoded, &rec); err != nil {
		logger := config.GetLogger()
		logger.Warn().Err(err).Msg("Dropping undecodable artifact")
		s.forget(token)
		s.backend.Remove(token)
		return nil, notFound
	}

	if !s.now().Before(rec.ExpiresAt) {
		s.forget(token)
		s.backend.Remove(token)
		metrics.ArtifactsExpiredTotal.Inc()
		return nil, notFound
	}

	return rec.toArtifact(token), nil
}

// Sweep purges every expired entry and returns how many were removed
func (s *Store) Sweep() int {
	s.mu.Lock()
	expired := s.takeExpiredLocked(s.now())
	s.mu.Unlock()

	s.removeExpired(expired)
	return len(expired)
}

// Run sweeps every interval until ctx is cancelled
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	logger := config.GetLogger()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Debug().Msg("Artifact sweeper stopped")
			return
		case <-ticker.C:
			if purged := s.Sweep(); purged > 0 {
				logger.Info().Int("purged", purged).Msg("Purged expired artifacts")
			}
		}
	}
}

// Len returns the number of entries held by the backend
func (s *Store) Len() int {
	return s.backend.Len()
}

// Close releases the backend
func (s *Store) Close() error {
	return s.backend.Close()
}

// takeExpiredLocked drops expired tokens from the index and returns them
func (s *Store) takeExpiredLocked(now time.Time) []string {
	var expired []string
	for token, expiresAt := range s.expiries {
		if now.Before(expiresAt) {
			continue
		}
		delete(s.expiries, token)
		expired = append(expired, token)
	}
	return expired
}

// removeExpired deletes tokens taken from the index from the backend. Called without the lock.
func (s *Store) removeExpired(tokens []string) {
	if len(tokens) == 0 {
		return
	}
	for _, token := range tokens {
		s.backend.Remove(token)
	}
	metrics.ArtifactsExpiredTotal.Add(float64(len(tokens)))
}

func (s *Store) forget(token string) {
	s.mu.Lock()
	delete(s.expiries, token)
	s.mu.Unlock()
}

func (r record) toArtifact(token string) *models.Artifact {
	content := make([]byte, len(r.Content))
	copy(content, r.Content)
	return &models.Artifact{
		Token:     token,
		Content:   content,
		MimeType:  r.MimeType,
		Filename:  r.Filename,
		ExpiresAt: r.ExpiresAt,
	}
}

func newToken() (string, error) {
	buf := make([]byte, TokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// artifactKind derives the metric label from the file extension
func artifactKind(filename string) string {
	kind := strings.TrimPrefix(strings.ToLower(path.Ext(filename)), ".")
	if kind == "" {
		return "unknown"
	}
	return kind
}
