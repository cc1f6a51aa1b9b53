package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MAX_BATCH_FILES", "")
	t.Setenv("MAX_FILE_SIZE_MB", "")
	t.Setenv("RETRY_MAX_ATTEMPTS", "")
	t.Setenv("FILE_TIMEOUT_SECONDS", "")

	cfg := Load()
	if cfg.MaxBatchFiles != 5 {
		t.Fatalf("expected default batch limit 5, got %d", cfg.MaxBatchFiles)
	}
	if cfg.MaxFileSizeBytes() != 10*1024*1024 {
		t.Fatalf("expected 10MB ceiling, got %d", cfg.MaxFileSizeBytes())
	}
	if cfg.RetryMaxAttempts != 2 {
		t.Fatalf("expected 2 retry attempts, got %d", cfg.RetryMaxAttempts)
	}
	if cfg.FileTimeout.Seconds() != 45 {
		t.Fatalf("expected 45s per-file budget, got %v", cfg.FileTimeout)
	}
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("MAX_BATCH_FILES", "many")

	cfg := Load()
	if cfg.MaxBatchFiles != 5 {
		t.Fatalf("expected fallback batch limit 5, got %d", cfg.MaxBatchFiles)
	}
}

func TestServiceConfigured(t *testing.T) {
	t.Setenv("DIFY_API_KEY", "")
	if Load().ServiceConfigured() {
		t.Fatal("expected unconfigured service without api key")
	}

	t.Setenv("DIFY_API_KEY", "app-test")
	if !Load().ServiceConfigured() {
		t.Fatal("expected configured service with api key and default url")
	}
}
