// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Port             string
	FrontendURL      string
	DBPath           string
	HistoryRetention time.Duration
	Practice         PracticeConfig
	RateLimit        RateLimitConfig
	Transcript       TranscriptConfig
}

// PracticeConfig tunes the practice engines.
type PracticeConfig struct {
	ReplyDelay    time.Duration
	ReplyJitter   time.Duration
	Seed          uint64
	IdleTTL       time.Duration
	SweepInterval time.Duration
}

// RateLimitConfig bounds per-user message sends.
type RateLimitConfig struct {
	RequestsPerWindow int
	WindowDuration    time.Duration
}

// TranscriptConfig controls NDJSON transcript logging.
type TranscriptConfig struct {
	Enabled   bool
	Dir       string
	QueueSize int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		FrontendURL:      getEnv("FRONTEND_URL", ""),
		DBPath:           getEnv("DB_PATH", "./data/practice.db"),
		HistoryRetention: getEnvDuration("HISTORY_RETENTION", 90*24*time.Hour),
		Practice: PracticeConfig{
			ReplyDelay:    getEnvDuration("PRACTICE_REPLY_DELAY", 1500*time.Millisecond),
			ReplyJitter:   getEnvDuration("PRACTICE_REPLY_JITTER", time.Second),
			Seed:          getEnvUint64("PRACTICE_SEED", uint64(time.Now().UnixNano())),
			IdleTTL:       getEnvDuration("PRACTICE_IDLE_TTL", 30*time.Minute),
			SweepInterval: getEnvDuration("PRACTICE_SWEEP_INTERVAL", time.Minute),
		},
		RateLimit: RateLimitConfig{
			RequestsPerWindow: getEnvInt("RATE_LIMIT_REQUESTS", 30),
			WindowDuration:    getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
		Transcript: TranscriptConfig{
			Enabled:   getEnvBool("TRANSCRIPT_ENABLED", true),
			Dir:       getEnv("TRANSCRIPT_DIR", "./data/logs/transcripts"),
			QueueSize: getEnvInt("TRANSCRIPT_QUEUE_SIZE", 1000),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.Practice.ReplyDelay < 0 || c.Practice.ReplyJitter < 0 {
		return fmt.Errorf("PRACTICE_REPLY_DELAY and PRACTICE_REPLY_JITTER must be >= 0")
	}
	if c.Practice.IdleTTL <= 0 {
		return fmt.Errorf("PRACTICE_IDLE_TTL must be > 0")
	}
	if c.Practice.SweepInterval <= 0 {
		return fmt.Errorf("PRACTICE_SWEEP_INTERVAL must be > 0")
	}
	if c.RateLimit.RequestsPerWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be > 0")
	}
	if c.RateLimit.WindowDuration <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be > 0")
	}
	if c.Transcript.Enabled && c.Transcript.Dir == "" {
		return fmt.Errorf("TRANSCRIPT_DIR cannot be empty")
	}
	if c.Transcript.QueueSize <= 0 {
		return fmt.Errorf("TRANSCRIPT_QUEUE_SIZE must be > 0")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

// AllowedOrigins returns the CORS origins for the configured frontend.
func (c *Config) AllowedOrigins() []string {
	if c.IsDevelopment() {
		return []string{"*"}
	}
	return []string{c.FrontendURL}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvUint64(key string, fallback uint64) uint64 {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}
