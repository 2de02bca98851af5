package config

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// DefaultUserAgent is the default User-Agent string sent with all caption requests.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:147.0) Gecko/20100101 Firefox/147.0"

// DefaultLanguages is the language preference used when a request does not carry one.
const DefaultLanguages = "en,en-US,en-GB,all"

// Failure policies for the transcript endpoint.
const (
	FailurePolicyStatus   = "status"
	FailurePolicyEnvelope = "envelope"
)

type Config struct {
	PublicBaseURL         string `mapstructure:"public_base_url"`
	ProxyConnectionString string `mapstructure:"proxy_connection_string"`
	ClientTimeout         string `mapstructure:"client_timeout"` // Go duration string like "30s", "1m", etc.
	UserAgent             string `mapstructure:"user_agent"`
	Server                struct {
		Port    int    `mapstructure:"port"`
		Address string `mapstructure:"address"`
	} `mapstructure:"server"`
	LogLevel  string `mapstructure:"log_level"`
	Artifacts struct {
		Provider      string `mapstructure:"provider"` // "memory" or "redis"
		TTLSeconds    int    `mapstructure:"ttl_seconds"`
		Size          int    `mapstructure:"size"` // Maximum number of stored artifacts
		SweepInterval string `mapstructure:"sweep_interval"`
	} `mapstructure:"artifacts"`
	Redis struct {
		Address  string `mapstructure:"address"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`
	Transcript struct {
		DefaultLanguages string `mapstructure:"default_languages"`
		PreviewLength    int    `mapstructure:"preview_length"`
		RenderPDF        bool   `mapstructure:"render_pdf"`
		FailurePolicy    string `mapstructure:"failure_policy"`
	} `mapstructure:"transcript"`
	YtDlp struct {
		Path    string `mapstructure:"path"`
		Timeout string `mapstructure:"timeout"`
	} `mapstructure:"ytdlp"`
	Retry struct {
		MaxRetries int    `mapstructure:"max_retries"`
		BaseDelay  string `mapstructure:"base_delay"`
		MaxDelay   string `mapstructure:"max_delay"`
	} `mapstructure:"retry"`
	RateLimit struct {
		RPS   float64 `mapstructure:"rps"` // 0 disables rate limiting
		Burst int     `mapstructure:"burst"`
	} `mapstructure:"rate_limit"`
	Metrics struct {
		Enabled bool `mapstructure:"enabled"`
		Port    int  `mapstructure:"port"`
	} `mapstructure:"metrics"`
	Sentry struct {
		DSN         string `mapstructure:"dsn"`
		Environment string `mapstructure:"environment"`
	} `mapstructure:"sentry"`
}

var (
	globalConfig *Config
	logger       zerolog.Logger
)

func init() {
	// Initialize zerolog with console writer for human-readable output
	logger = zerolog.New(zerolog.ConsoleWriter{
		Out:     os.Stdout,
		NoColor: false,
	}).With().Timestamp().Logger()

	config, err := LoadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load config")
	}

	level := zerolog.InfoLevel
	if config.LogLevel != "" {
		if parsedLevel, err := zerolog.ParseLevel(config.LogLevel); err == nil {
			level = parsedLevel
		} else {
			logger.Warn().Str("invalid_level", config.LogLevel).Msg("Invalid log level, using default 'info'")
		}
	}

	zerolog.SetGlobalLevel(level)
	logger = logger.Level(level)

	logger.Info().Str("level", level.String()).Msg("Logging configured")
	globalConfig = config
	logger.Info().Msg("Configuration loaded successfully")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.address", "0.0.0.0")
	v.SetDefault("public_base_url", "")
	v.SetDefault("proxy_connection_string", "")
	v.SetDefault("client_timeout", "30s")
	v.SetDefault("user_agent", "")
	v.SetDefault("log_level", "info")

	v.SetDefault("artifacts.provider", "memory")
	v.SetDefault("artifacts.ttl_seconds", 86400)
	v.SetDefault("artifacts.size", 2048)
	v.SetDefault("artifacts.sweep_interval", "5m")

	v.SetDefault("redis.address", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("transcript.default_languages", DefaultLanguages)
	v.SetDefault("transcript.preview_length", 2500)
	v.SetDefault("transcript.render_pdf", true)
	v.SetDefault("transcript.failure_policy", FailurePolicyStatus)

	v.SetDefault("ytdlp.path", "yt-dlp")
	v.SetDefault("ytdlp.timeout", "30s")

	v.SetDefault("retry.max_retries", 3)
	v.SetDefault("retry.base_delay", "1s")
	v.SetDefault("retry.max_delay", "10s")

	v.SetDefault("rate_limit.rps", 0)
	v.SetDefault("rate_limit.burst", 10)

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.port", 9090)

	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "production")
}

func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Environment variable support
	v.AutomaticEnv()
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	// Plain variables used by hosting platforms
	_ = v.BindEnv("log_level", "APP_LOG_LEVEL", "LOG_LEVEL")
	_ = v.BindEnv("server.port", "APP_SERVER_PORT", "PORT")
	_ = v.BindEnv("public_base_url", "APP_PUBLIC_BASE_URL", "PUBLIC_BASE_URL")
	_ = v.BindEnv("artifacts.ttl_seconds", "APP_ARTIFACTS_TTL_SECONDS", "FILE_TTL_SECONDS")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}
	if config.Transcript.DefaultLanguages == "" {
		config.Transcript.DefaultLanguages = DefaultLanguages
	}
	config.PublicBaseURL = strings.TrimRight(config.PublicBaseURL, "/")

	return &config, nil
}

func GetConfig() *Config {
	return globalConfig
}

func GetUserAgent() string {
	if globalConfig != nil && globalConfig.UserAgent != "" {
		return globalConfig.UserAgent
	}

	return DefaultUserAgent
}

func GetLogger() zerolog.Logger {
	return logger
}

// ParseDuration parses a Go duration string, returning fallback (and logging a warning)
// when the value is empty or invalid.
func ParseDuration(name, value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		logger.Warn().Err(err).Str("setting", name).Str("value", value).Dur("fallback", fallback).Msg("Invalid duration, using default")
		return fallback
	}
	return d
}

// ArtifactTTL returns the artifact link lifetime.
func (c *Config) ArtifactTTL() time.Duration {
	if c.Artifacts.TTLSeconds <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.Artifacts.TTLSeconds) * time.Second
}
