package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	APIPort  string
	LogLevel string

	DifyAPIKey  string
	DifyBaseURL string
	DifyUserID  string

	UploadTimeout   time.Duration
	WorkflowTimeout time.Duration
	FileTimeout     time.Duration
	BatchTimeout    time.Duration

	MaxBatchFiles  int
	MaxFileSizeMB  int
	FileIntervalMS int

	RetryMaxAttempts int
	RetryBackoffMS   int
	BreakerEnabled   bool

	ClassifierTablePath string
	MaxNameLength       int

	APIRateLimitRPS   int
	APIRateLimitBurst int
}

func Load() Config {
	return Config{
		APIPort:  mustEnv("API_PORT", "8080"),
		LogLevel: mustEnv("LOG_LEVEL", "info"),

		DifyAPIKey:  mustEnv("DIFY_API_KEY", ""),
		DifyBaseURL: mustEnv("DIFY_API_URL", "https://api.dify.ai/v1"),
		DifyUserID:  mustEnv("DIFY_USER_ID", "doc-renamer"),

		UploadTimeout:   secondsEnv("DIFY_UPLOAD_TIMEOUT_SECONDS", 15),
		WorkflowTimeout: secondsEnv("DIFY_WORKFLOW_TIMEOUT_SECONDS", 60),
		FileTimeout:     secondsEnv("FILE_TIMEOUT_SECONDS", 45),
		BatchTimeout:    secondsEnv("BATCH_TIMEOUT_SECONDS", 180),

		MaxBatchFiles:  mustEnvInt("MAX_BATCH_FILES", 5),
		MaxFileSizeMB:  mustEnvInt("MAX_FILE_SIZE_MB", 10),
		FileIntervalMS: mustEnvInt("FILE_INTERVAL_MS", 750),

		RetryMaxAttempts: mustEnvInt("RETRY_MAX_ATTEMPTS", 2),
		RetryBackoffMS:   mustEnvInt("RETRY_BACKOFF_MS", 1000),
		BreakerEnabled:   mustEnvBool("BREAKER_ENABLED", false),

		ClassifierTablePath: mustEnv("CLASSIFIER_TABLE_PATH", ""),
		MaxNameLength:       mustEnvInt("MAX_NAME_LENGTH", 120),

		APIRateLimitRPS:   mustEnvInt("API_RATE_LIMIT_RPS", 0),
		APIRateLimitBurst: mustEnvInt("API_RATE_LIMIT_BURST", 0),
	}
}

// ServiceConfigured reports whether the analysis-service credentials are
// present. A batch is rejected outright without them.
func (c Config) ServiceConfigured() bool {
	return c.DifyAPIKey != "" && c.DifyBaseURL != ""
}

func (c Config) MaxFileSizeBytes() int64 {
	return int64(c.MaxFileSizeMB) * 1024 * 1024
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func secondsEnv(key string, fallback int) time.Duration {
	return time.Duration(mustEnvInt(key, fallback)) * time.Second
}
