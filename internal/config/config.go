package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Host               string
	Port               string
	RequestTimeout     time.Duration
	ImageFetchTimeout  time.Duration
	AnalysisTimeout    time.Duration
	MaxRequestBodySize int64

	// Analysis and store
	MaxThumbnails         int
	AnalysisMaxDimension  int
	DuplicateHashDistance int
	AnalysisWorkers       int
	MaxImagePixels        int

	// Remote sources
	AzureStorageAccount string
	AzureStorageKey     string
	AllowedSourceHosts  []string

	LogLevel string
}

func (c *Config) ServerAddress() string {
	// Trim any whitespace from host and port
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

// AzureEnabled reports whether both Azure Blob credentials are present
func (c *Config) AzureEnabled() bool {
	return c.AzureStorageAccount != "" && c.AzureStorageKey != ""
}

// LoadFromEnv reads configuration from the environment. A .env file in the
// working directory is loaded first when present; real env vars win.
func LoadFromEnv() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Host:                  getEnvOrDefault("HOST", "0.0.0.0"),
		Port:                  getEnvOrDefault("PORT", "8080"),
		RequestTimeout:        parseDurationOrDefault("REQUEST_TIMEOUT", 30*time.Second),
		ImageFetchTimeout:     parseDurationOrDefault("IMAGE_FETCH_TIMEOUT", 15*time.Second),
		AnalysisTimeout:       parseDurationOrDefault("ANALYSIS_TIMEOUT", 20*time.Second),
		MaxRequestBodySize:    parseIntOrDefault("MAX_REQUEST_BODY_SIZE", 10*1024*1024), // 10MB
		MaxThumbnails:         int(parseIntOrDefault("MAX_THUMBNAILS", 5)),
		AnalysisMaxDimension:  int(parseIntOrDefault("ANALYSIS_MAX_DIMENSION", 400)),
		DuplicateHashDistance: int(parseIntOrDefault("DUPLICATE_HASH_DISTANCE", 10)),
		AnalysisWorkers:       int(parseIntOrDefault("ANALYSIS_WORKERS", 0)),
		MaxImagePixels:        int(parseIntOrDefault("MAX_IMAGE_PIXELS", 50_000_000)),
		AzureStorageAccount:   strings.TrimSpace(os.Getenv("AZURE_STORAGE_ACCOUNT")),
		AzureStorageKey:       strings.TrimSpace(os.Getenv("AZURE_STORAGE_KEY")),
		AllowedSourceHosts:    parseListOrDefault("ALLOWED_SOURCE_HOSTS"),
		LogLevel:              getEnvOrDefault("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges that would otherwise fail later at runtime
func (c *Config) Validate() error {
	p, err := strconv.Atoi(strings.TrimSpace(c.Port))
	if err != nil || p < 1 || p > 65535 {
		return fmt.Errorf("invalid PORT: %q", c.Port)
	}
	if c.MaxRequestBodySize <= 0 {
		return fmt.Errorf("MAX_REQUEST_BODY_SIZE must be > 0 (got %d)", c.MaxRequestBodySize)
	}
	if c.RequestTimeout <= 0 || c.ImageFetchTimeout <= 0 || c.AnalysisTimeout <= 0 {
		return fmt.Errorf("timeouts must be > 0 (got request=%s, fetch=%s, analysis=%s)",
			c.RequestTimeout, c.ImageFetchTimeout, c.AnalysisTimeout)
	}
	if c.MaxThumbnails < 1 {
		return fmt.Errorf("MAX_THUMBNAILS must be >= 1 (got %d)", c.MaxThumbnails)
	}
	if c.AnalysisMaxDimension < 16 {
		return fmt.Errorf("ANALYSIS_MAX_DIMENSION must be >= 16 (got %d)", c.AnalysisMaxDimension)
	}
	if c.MaxImagePixels < 1 {
		return fmt.Errorf("MAX_IMAGE_PIXELS must be >= 1 (got %d)", c.MaxImagePixels)
	}
	if c.DuplicateHashDistance < 0 {
		return fmt.Errorf("DUPLICATE_HASH_DISTANCE must be >= 0 (got %d)", c.DuplicateHashDistance)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func parseListOrDefault(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, strings.ToLower(part))
		}
	}
	return out
}
