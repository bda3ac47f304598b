package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8090" {
		t.Errorf("expected default port 8090, got %q", cfg.Port)
	}
	if cfg.DataDir != "data" {
		t.Errorf("expected default data dir, got %q", cfg.DataDir)
	}
	if cfg.FetchRetries != 3 {
		t.Errorf("expected 3 retries, got %d", cfg.FetchRetries)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("FETCH_TIMEOUT", "5s")
	t.Setenv("FETCH_RETRIES", "1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9999" {
		t.Errorf("expected port 9999, got %q", cfg.Port)
	}
	if cfg.FetchTimeout != 5*time.Second {
		t.Errorf("expected 5s timeout, got %v", cfg.FetchTimeout)
	}
	if cfg.FetchRetries != 1 {
		t.Errorf("expected 1 retry, got %d", cfg.FetchRetries)
	}
}

func TestLoad_YAMLFileUnderEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regmeter.yaml")
	content := "port: \"7070\"\ndata_dir: /tmp/regdata\nfetch_timeout: 90s\nfetch_retries: 5\ndefault_date: \"2023-06-01\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("REGMETER_CONFIG", path)
	// The environment still wins over the file.
	t.Setenv("PORT", "7071")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "7071" {
		t.Errorf("expected env port 7071, got %q", cfg.Port)
	}
	if cfg.DataDir != "/tmp/regdata" {
		t.Errorf("expected file data dir, got %q", cfg.DataDir)
	}
	if cfg.FetchTimeout != 90*time.Second {
		t.Errorf("expected 90s timeout, got %v", cfg.FetchTimeout)
	}
	if cfg.FetchRetries != 5 {
		t.Errorf("expected 5 retries, got %d", cfg.FetchRetries)
	}
	if cfg.DefaultDate != "2023-06-01" {
		t.Errorf("expected file default date, got %q", cfg.DefaultDate)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte(":\n\t- nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("REGMETER_CONFIG", path)

	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"empty data dir", func(c *Config) { c.DataDir = "" }, true},
		{"negative retries", func(c *Config) { c.FetchRetries = -1 }, true},
		{"bad default date", func(c *Config) { c.DefaultDate = "July 1st" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
