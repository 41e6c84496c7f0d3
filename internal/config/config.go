package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/jpp0ca/playlist-transfer/internal/domain"
)

// Config holds all application configuration. Values come from defaults, then
// an optional TOML file named by CONFIG_FILE, then environment variables.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Logging  LoggingConfig  `toml:"logging"`
	Storage  StorageConfig  `toml:"storage"`
	Spotify  SpotifyConfig  `toml:"spotify"`
	YouTube  YouTubeConfig  `toml:"youtube"`
	Transfer TransferConfig `toml:"transfer"`
}

type ServerConfig struct {
	Port string `toml:"port"`
	// HTTPTimeout bounds every outbound catalog request.
	HTTPTimeout time.Duration `toml:"http_timeout"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// StorageConfig selects the transfer store and search cache. Empty values
// select the in-memory implementations.
type StorageConfig struct {
	DatabasePath   string        `toml:"database_path"`
	RedisAddress   string        `toml:"redis_address"`
	SearchCacheTTL time.Duration `toml:"search_cache_ttl"`
}

type SpotifyConfig struct {
	BaseURL string `toml:"base_url"`
}

type YouTubeConfig struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
}

// TransferConfig holds pacing and the default transfer options.
type TransferConfig struct {
	TrackDelay         time.Duration `toml:"track_delay"`
	QueryDelay         time.Duration `toml:"query_delay"`
	MinMatchConfidence float64       `toml:"min_match_confidence"`
	SearchResultLimit  int           `toml:"search_result_limit"`
	MaxRetryAttempts   int           `toml:"max_retry_attempts"`
}

// Default returns the built-in configuration.
func Default() *Config {
	opts := domain.DefaultTransferOptions()
	return &Config{
		Server:  ServerConfig{Port: "8080", HTTPTimeout: 30 * time.Second},
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Storage: StorageConfig{SearchCacheTTL: time.Hour},
		Transfer: TransferConfig{
			TrackDelay:         500 * time.Millisecond,
			QueryDelay:         200 * time.Millisecond,
			MinMatchConfidence: opts.MinMatchConfidence,
			SearchResultLimit:  opts.SearchResultLimit,
			MaxRetryAttempts:   opts.MaxRetryAttempts,
		},
	}
}

// Load reads configuration from .env file (if present), the TOML file named by
// CONFIG_FILE (if set) and environment variables. Malformed environment values
// are ignored with a warning.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, using environment variables")
	}

	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	if _, err := toml.DecodeFile(path, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.Server.HTTPTimeout = getDuration("HTTP_TIMEOUT", c.Server.HTTPTimeout)

	c.Logging.Level = getEnv("LOG_LEVEL", c.Logging.Level)
	c.Logging.Format = getEnv("LOG_FORMAT", c.Logging.Format)

	c.Storage.DatabasePath = getEnv("DATABASE_PATH", c.Storage.DatabasePath)
	c.Storage.RedisAddress = getEnv("REDIS_ADDRESS", c.Storage.RedisAddress)
	c.Storage.SearchCacheTTL = getDuration("SEARCH_CACHE_TTL", c.Storage.SearchCacheTTL)

	c.Spotify.BaseURL = getEnv("SPOTIFY_BASE_URL", c.Spotify.BaseURL)
	c.YouTube.APIKey = getEnv("YOUTUBE_API_KEY", c.YouTube.APIKey)
	c.YouTube.BaseURL = getEnv("YOUTUBE_BASE_URL", c.YouTube.BaseURL)

	c.Transfer.TrackDelay = getDuration("TRACK_DELAY", c.Transfer.TrackDelay)
	c.Transfer.QueryDelay = getDuration("QUERY_DELAY", c.Transfer.QueryDelay)
	c.Transfer.MinMatchConfidence = getFloat("MIN_MATCH_CONFIDENCE", c.Transfer.MinMatchConfidence)
	c.Transfer.SearchResultLimit = getInt("SEARCH_RESULT_LIMIT", c.Transfer.SearchResultLimit)
	c.Transfer.MaxRetryAttempts = getInt("MAX_RETRY_ATTEMPTS", c.Transfer.MaxRetryAttempts)
}

// TransferOptions returns the default transfer options with the configured
// overrides applied.
func (c *Config) TransferOptions() domain.TransferOptions {
	opts := domain.DefaultTransferOptions()
	opts.MinMatchConfidence = c.Transfer.MinMatchConfidence
	opts.SearchResultLimit = c.Transfer.SearchResultLimit
	opts.MaxRetryAttempts = c.Transfer.MaxRetryAttempts
	return opts
}

// Validate reports every out-of-range value.
func (c *Config) Validate() error {
	var errs []error

	if port, err := strconv.Atoi(c.Server.Port); err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port %q", c.Server.Port))
	}
	if c.Server.HTTPTimeout <= 0 {
		errs = append(errs, errors.New("http timeout must be positive"))
	}
	if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("invalid log level %q", c.Logging.Level))
	}
	if f := strings.ToLower(c.Logging.Format); f != "text" && f != "json" {
		errs = append(errs, fmt.Errorf("invalid log format %q", c.Logging.Format))
	}
	if c.Storage.SearchCacheTTL < 0 {
		errs = append(errs, errors.New("search cache ttl must not be negative"))
	}
	if c.Transfer.TrackDelay < 0 || c.Transfer.QueryDelay < 0 {
		errs = append(errs, errors.New("delays must not be negative"))
	}
	if err := c.TransferOptions().Validate(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		logrus.WithField("key", key).Warn("ignoring non-integer config value")
		return fallback
	}
	return v
}

func getFloat(key string, fallback float64) float64 {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		logrus.WithField("key", key).Warn("ignoring non-numeric config value")
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	v, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		logrus.WithField("key", key).Warn("ignoring malformed duration config value")
		return fallback
	}
	return v
}
