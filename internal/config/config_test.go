package config

import (
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "HOST", "API_KEYS", "LOG_LEVEL", "BATCH_MAX_REQUESTS", "BATCH_CONCURRENCY", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error = %v", err)
	}

	if cfg.Server.Addr() != "0.0.0.0:8080" {
		t.Errorf("addr = %s, want 0.0.0.0:8080", cfg.Server.Addr())
	}
	if len(cfg.Auth.APIKeys) != 1 || cfg.Auth.APIKeys[0] != "apitest" {
		t.Errorf("api keys = %v, want [apitest]", cfg.Auth.APIKeys)
	}
	if cfg.Batch.MaxRequests != 100 || cfg.Batch.Concurrency != 8 {
		t.Errorf("batch = %+v, want {100 8}", cfg.Batch)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("log level = %s, want info", cfg.LogLevel)
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("API_KEYS", "key1, key2,,")
	t.Setenv("BATCH_CONCURRENCY", "2")
	t.Setenv("READ_TIMEOUT", "not-a-number")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error = %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("port = %s, want 9090", cfg.Server.Port)
	}
	if strings.Join(cfg.Auth.APIKeys, "|") != "key1|key2" {
		t.Errorf("api keys = %v, want [key1 key2]", cfg.Auth.APIKeys)
	}
	if cfg.Batch.Concurrency != 2 {
		t.Errorf("concurrency = %d, want 2", cfg.Batch.Concurrency)
	}
	if cfg.Server.ReadTimeout != 15 {
		t.Errorf("read timeout = %d, want fallback 15", cfg.Server.ReadTimeout)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad log level", "LOG_LEVEL", "verbose"},
		{"zero batch size", "BATCH_MAX_REQUESTS", "0"},
		{"negative concurrency", "BATCH_CONCURRENCY", "-1"},
		{"only separators in api keys", "API_KEYS", ",,"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Errorf("Load() expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}

func TestLoad_LogLevelsMatchLogger(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "warning", "error", "WARNING"} {
		t.Run(level, func(t *testing.T) {
			t.Setenv("LOG_LEVEL", level)

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() unexpected error for LOG_LEVEL=%s: %v", level, err)
			}
			if cfg.LogLevel != level {
				t.Errorf("log level = %s, want %s", cfg.LogLevel, level)
			}
		})
	}
}
