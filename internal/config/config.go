package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Ollama backend
	OllamaURL   string
	OllamaModel string

	// Auth
	QAForgeAPIKey string

	// Storage
	DataDir string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration

	// Generation retry
	RetryDelay time.Duration

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8091"),

		OllamaURL:   envOr("OLLAMA_URL", "http://localhost:11434"),
		OllamaModel: envOr("OLLAMA_MODEL", "llama3.1"),

		QAForgeAPIKey: os.Getenv("QAFORGE_API_KEY"),

		DataDir: envOr("DATA_DIR", "./data"),

		WorkerCount:  envInt("WORKER_COUNT", 2),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		RetryDelay: envDuration("RETRY_DELAY", 1*time.Second),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.RetryDelay < 0 {
		cfg.RetryDelay = 1 * time.Second
	}

	return cfg
}

func (c Config) Validate() error {
	if c.OllamaURL == "" {
		return fmt.Errorf("OLLAMA_URL is required")
	}
	if c.QAForgeAPIKey == "" {
		return fmt.Errorf("QAFORGE_API_KEY is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
