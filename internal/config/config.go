package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port string

	// Document cache
	DataDir string

	// eCFR API
	ECFRBaseURL  string
	FetchTimeout time.Duration
	FetchRetries int

	// Analysis
	DefaultDate string

	// Auth: when set, API routes require a bearer token.
	APIKey string
}

// fileConfig is the optional YAML layer beneath the environment.
type fileConfig struct {
	Port         string `yaml:"port"`
	DataDir      string `yaml:"data_dir"`
	ECFRBaseURL  string `yaml:"ecfr_base_url"`
	FetchTimeout string `yaml:"fetch_timeout"`
	FetchRetries *int   `yaml:"fetch_retries"`
	DefaultDate  string `yaml:"default_date"`
	APIKey       string `yaml:"api_key"`
}

// Load builds the configuration from an optional YAML file (REGMETER_CONFIG)
// overridden by environment variables.
func Load() (Config, error) {
	cfg := Config{
		Port:         "8090",
		DataDir:      "data",
		ECFRBaseURL:  "https://www.ecfr.gov",
		FetchTimeout: 60 * time.Second,
		FetchRetries: 3,
		DefaultDate:  "2024-07-01",
	}

	if path := os.Getenv("REGMETER_CONFIG"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return Config{}, err
		}
	}

	cfg.Port = envOr("PORT", cfg.Port)
	cfg.DataDir = envOr("DATA_DIR", cfg.DataDir)
	cfg.ECFRBaseURL = envOr("ECFR_BASE_URL", cfg.ECFRBaseURL)
	cfg.FetchTimeout = envDuration("FETCH_TIMEOUT", cfg.FetchTimeout)
	cfg.FetchRetries = envInt("FETCH_RETRIES", cfg.FetchRetries)
	cfg.DefaultDate = envOr("DEFAULT_DATE", cfg.DefaultDate)
	cfg.APIKey = envOr("REGMETER_API_KEY", cfg.APIKey)

	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if fc.Port != "" {
		c.Port = fc.Port
	}
	if fc.DataDir != "" {
		c.DataDir = fc.DataDir
	}
	if fc.ECFRBaseURL != "" {
		c.ECFRBaseURL = fc.ECFRBaseURL
	}
	if fc.FetchTimeout != "" {
		d, err := time.ParseDuration(fc.FetchTimeout)
		if err != nil {
			return fmt.Errorf("parse config file %s: fetch_timeout: %w", path, err)
		}
		c.FetchTimeout = d
	}
	if fc.FetchRetries != nil {
		c.FetchRetries = *fc.FetchRetries
	}
	if fc.DefaultDate != "" {
		c.DefaultDate = fc.DefaultDate
	}
	if fc.APIKey != "" {
		c.APIKey = fc.APIKey
	}
	return nil
}

func (c Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("DATA_DIR is required")
	}
	if c.FetchRetries < 0 {
		return fmt.Errorf("FETCH_RETRIES must be >= 0")
	}
	if _, err := time.Parse("2006-01-02", c.DefaultDate); err != nil {
		return fmt.Errorf("DEFAULT_DATE must be YYYY-MM-DD: %w", err)
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

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
