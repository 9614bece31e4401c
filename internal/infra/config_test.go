package infra

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.APIBaseURL != "http://localhost:8080" {
		t.Fatalf("APIBaseURL mismatch: got %q", cfg.APIBaseURL)
	}
	if cfg.HTTPTimeout != 120*time.Second {
		t.Fatalf("HTTPTimeout mismatch: got %s", cfg.HTTPTimeout)
	}
	if cfg.OptionsCacheTTL != 10*time.Minute {
		t.Fatalf("OptionsCacheTTL mismatch: got %s", cfg.OptionsCacheTTL)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "http://localhost:5173" {
		t.Fatalf("CORSAllowedOrigins mismatch: %#v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadConfigTrimsBaseURL(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://studio.example.com/")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.APIBaseURL != "https://studio.example.com" {
		t.Fatalf("APIBaseURL mismatch: got %q", cfg.APIBaseURL)
	}
}

func TestLoadConfigRejectsRelativeBaseURL(t *testing.T) {
	t.Setenv("API_BASE_URL", "studio.local")
	t.Setenv("LOG_LEVEL", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error for relative API_BASE_URL")
	}
}

func TestLoadConfigRejectsUnknownLogLevel(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	t.Setenv("LOG_LEVEL", "chatty")

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error for unknown LOG_LEVEL")
	}
}

func TestLoadConfigSplitsOrigins(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, ,http://b.test ")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	expected := []string{"http://a.test", "http://b.test"}
	if len(cfg.CORSAllowedOrigins) != len(expected) {
		t.Fatalf("CORSAllowedOrigins mismatch: got %#v want %#v", cfg.CORSAllowedOrigins, expected)
	}
	for i, origin := range expected {
		if cfg.CORSAllowedOrigins[i] != origin {
			t.Fatalf("CORSAllowedOrigins[%d] = %q, want %q", i, cfg.CORSAllowedOrigins[i], origin)
		}
	}
}
