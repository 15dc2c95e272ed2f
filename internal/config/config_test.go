package config

import (
	"reflect"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/blog")
	for _, key := range []string{"PORT", "BLOG_SECRET", "JWT_SECRET", "UPLOAD_DIR",
		"MAX_UPLOAD_BYTES", "CORS_ALLOWED_ORIGINS", "LOG_LEVEL", "LOG_FORMAT"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.UploadDir != "uploads" {
		t.Errorf("UploadDir = %q, want uploads", cfg.UploadDir)
	}
	if cfg.MaxUploadBytes != 5<<20 {
		t.Errorf("MaxUploadBytes = %d, want %d", cfg.MaxUploadBytes, 5<<20)
	}
	if !reflect.DeepEqual(cfg.CorsAllowedOrigins, []string{"*"}) {
		t.Errorf("CorsAllowedOrigins = %v, want [*]", cfg.CorsAllowedOrigins)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "console" {
		t.Errorf("unexpected log config %q/%q", cfg.LogLevel, cfg.LogFormat)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/blog")
	t.Setenv("PORT", "9000")
	t.Setenv("BLOG_SECRET", "hunter2")
	t.Setenv("MAX_UPLOAD_BYTES", "1048576")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg := Load()
	if cfg.Port != "9000" {
		t.Errorf("Port = %q, want 9000", cfg.Port)
	}
	if cfg.BlogSecret != "hunter2" {
		t.Errorf("BlogSecret = %q", cfg.BlogSecret)
	}
	if cfg.MaxUploadBytes != 1048576 {
		t.Errorf("MaxUploadBytes = %d, want 1048576", cfg.MaxUploadBytes)
	}
	want := []string{"https://a.example", "https://b.example"}
	if !reflect.DeepEqual(cfg.CorsAllowedOrigins, want) {
		t.Errorf("CorsAllowedOrigins = %v, want %v", cfg.CorsAllowedOrigins, want)
	}
}

func TestGetEnvInt64Invalid(t *testing.T) {
	t.Setenv("MAX_UPLOAD_BYTES", "not-a-number")
	if got := getEnvInt64("MAX_UPLOAD_BYTES", 42); got != 42 {
		t.Errorf("expected fallback 42, got %d", got)
	}
	t.Setenv("MAX_UPLOAD_BYTES", "-5")
	if got := getEnvInt64("MAX_UPLOAD_BYTES", 42); got != 42 {
		t.Errorf("expected fallback for negative value, got %d", got)
	}
}
