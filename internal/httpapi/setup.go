package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Belphemur/SuperTranscripts/internal/config"
	"github.com/gin-gonic/gin"
)

// RouterOptions configures NewRouter
type RouterOptions struct {
	FailurePolicy  string  // config.FailurePolicyStatus or config.FailurePolicyEnvelope
	RateLimitRPS   float64 // 0 disables the transcript rate limit
	RateLimitBurst int
}

// NewRouter creates the gin engine serving the transcript API with request ids,
// access logging, Prometheus counters, CORS and panic recovery.
func NewRouter(producer TranscriptProducer, artifacts ArtifactResolver, opts RouterOptions) *gin.Engine {
	logger := config.GetLogger().With().Str("component", "http").Logger()

	router := gin.New()
	router.Use(
		RequestID(),
		Recovery(logger),
		AccessLog(logger),
		Metrics(),
		CORS(),
	)

	srv := newServer(producer, artifacts, opts.FailurePolicy)

	transcriptHandlers := []gin.HandlerFunc{srv.transcript}
	if opts.RateLimitRPS > 0 {
		transcriptHandlers = append([]gin.HandlerFunc{RateLimit(NewRateLimiter(opts.RateLimitRPS, opts.RateLimitBurst))}, transcriptHandlers...)
	}
	router.POST("/transcript", transcriptHandlers...)
	router.GET("/file/:token", srv.file)
	router.GET("/health", srv.health)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, errorBody{OK: false, Error: errorDetail{Code: "not_found", Message: "route not found"}})
	})

	return router
}

// NewHTTPServer creates the public HTTP server for the router
func NewHTTPServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
