package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Belphemur/SuperTranscripts/internal/artifacts"
	"github.com/Belphemur/SuperTranscripts/internal/client"
	"github.com/Belphemur/SuperTranscripts/internal/config"
	"github.com/Belphemur/SuperTranscripts/internal/httpapi"
	"github.com/Belphemur/SuperTranscripts/internal/metadata"
	"github.com/Belphemur/SuperTranscripts/internal/metrics"
	"github.com/Belphemur/SuperTranscripts/internal/services"
	"github.com/Belphemur/SuperTranscripts/internal/transcript"
	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.GetConfig()
	logger := config.GetLogger()

	logger.Info().
		Str("proxy_connection_string", cfg.ProxyConnectionString).
		Str("public_base_url", cfg.PublicBaseURL).
		Str("artifacts_provider", cfg.Artifacts.Provider).
		Int("artifacts_ttl_seconds", cfg.Artifacts.TTLSeconds).
		Str("failure_policy", cfg.Transcript.FailurePolicy).
		Int("server_port", cfg.Server.Port).
		Str("server_address", cfg.Server.Address).
		Msg("Application started with configuration")

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
		}); err != nil {
			logger.Error().Err(err).Msg("Failed to initialise Sentry")
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	store, err := artifacts.NewStoreFromConfig(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create artifact store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error().Err(err).Msg("Failed to close artifact store")
		}
	}()

	var renderer services.DocumentRenderer
	if cfg.Transcript.RenderPDF {
		renderer = services.NewPDFRenderer()
	}

	service := transcript.NewService(
		metadata.NewInspector(metadata.NewYtDlpProviderFromConfig(cfg)),
		services.NewLanguageResolver(),
		services.NewCaptionNormalizer(client.NewCaptionFetcherFromConfig(cfg)),
		renderer,
		store,
		transcript.Options{
			DefaultLanguages: cfg.Transcript.DefaultLanguages,
			PreviewLength:    cfg.Transcript.PreviewLength,
			PublicBaseURL:    cfg.PublicBaseURL,
		},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go store.Run(ctx, config.ParseDuration("artifacts.sweep_interval", cfg.Artifacts.SweepInterval, 5*time.Minute))

	// Start Prometheus metrics HTTP server
	if cfg.Metrics.Enabled {
		metricsServer := metrics.NewHTTPServer(cfg.Server.Address, cfg.Metrics.Port)
		go func() {
			logger.Info().Str("address", metricsServer.Addr).Msg("Starting Prometheus metrics HTTP server")
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Fatal().Err(err).Msg("Failed to serve metrics")
			}
		}()
		defer func() {
			if err := metricsServer.Shutdown(context.Background()); err != nil {
				logger.Error().Err(err).Msg("Failed to shutdown metrics server")
			}
		}()
	}

	gin.SetMode(gin.ReleaseMode)
	router := httpapi.NewRouter(service, store, httpapi.RouterOptions{
		FailurePolicy:  cfg.Transcript.FailurePolicy,
		RateLimitRPS:   cfg.RateLimit.RPS,
		RateLimitBurst: cfg.RateLimit.Burst,
	})
	srv := httpapi.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Str("address", srv.Addr).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Failed to serve HTTP")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP server forced to shutdown")
	}

	logger.Info().Msg("Server stopped gracefully")
}
