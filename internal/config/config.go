package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Database
	DatabaseURL string

	// Server
	Port        string
	CORSOrigins []string
	FrontendURL string
	Env         string

	// LLM classifier adapter
	LLM LLMConfig

	// PDF extractor adapter
	PDFExtractor PDFExtractorConfig

	// Object storage for uploaded artifacts
	Storage StorageConfig

	MaxFileSize int64
}

// LLMConfig configures the Anthropic-backed classifier adapter.
type LLMConfig struct {
	APIKey     string
	Model      string
	TimeoutMs  int
	MaxRetries int
}

// PDFExtractorConfig selects and configures the PDF extractor transport.
// Exactly one of Path (subprocess) or URL (HTTP) is expected to be set;
// Path takes precedence when both are present.
type PDFExtractorConfig struct {
	Path string
	URL  string
}

// StorageConfig configures the S3-compatible object store for uploaded
// artifacts (source PDFs, converted-statement spreadsheets).
type StorageConfig struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
}

// Load reads configuration from environment variables, loading a local
// .env file first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	timeoutMs, err := strconv.Atoi(getEnv("LLM_TIMEOUT_MS", "1200000")) // 20 minutes
	if err != nil {
		return nil, fmt.Errorf("invalid LLM_TIMEOUT_MS: %w", err)
	}
	maxRetries, err := strconv.Atoi(getEnv("LLM_MAX_RETRIES", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid LLM_MAX_RETRIES: %w", err)
	}
	maxFileSize, err := strconv.ParseInt(getEnv("MAX_FILE_SIZE", "52428800"), 10, 64) // 50 MiB
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_FILE_SIZE: %w", err)
	}

	cfg := &Config{
		DatabaseURL: getEnv("DATABASE_URL", ""),
		Port:        getEnv("PORT", "8080"),
		CORSOrigins: strings.Split(getEnv("CORS_ALLOW_LIST", "http://localhost:3000"), ","),
		FrontendURL: getEnv("FRONTEND_URL", ""),
		Env:         getEnv("ENV", "development"),
		LLM: LLMConfig{
			APIKey:     getEnv("LLM_API_KEY", ""),
			Model:      getEnv("LLM_MODEL", "claude-sonnet-4-20250514"),
			TimeoutMs:  timeoutMs,
			MaxRetries: maxRetries,
		},
		PDFExtractor: PDFExtractorConfig{
			Path: getEnv("PDF_EXTRACTOR_PATH", ""),
			URL:  getEnv("PDF_EXTRACTOR_URL", ""),
		},
		Storage: StorageConfig{
			Endpoint:        getEnv("STORAGE_ENDPOINT", ""),
			Region:          getEnv("STORAGE_REGION", "us-east-1"),
			AccessKeyID:     getEnv("STORAGE_ACCESS_KEY", ""),
			SecretAccessKey: getEnv("STORAGE_SECRET_KEY", ""),
			Bucket:          getEnv("STORAGE_BUCKET", "revenueguard-artifacts"),
		},
		MaxFileSize: maxFileSize,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.PDFExtractor.Path == "" && c.PDFExtractor.URL == "" {
		return fmt.Errorf("one of PDF_EXTRACTOR_PATH or PDF_EXTRACTOR_URL is required")
	}
	return nil
}

// LLMTimeout is the single-attempt wall-clock budget for the LLM adapter.
func (c *Config) LLMTimeout() time.Duration {
	return time.Duration(c.LLM.TimeoutMs) * time.Millisecond
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
