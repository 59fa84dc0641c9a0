package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir %s: %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Errorf("restore chdir %s: %v", old, err)
		}
	})
}

func writeConfigFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatalf("mkdir config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config", name), []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoad_DefaultsWithoutConfigFile(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("WEATHER_API_KEY", "test-api-key-12345")
	t.Setenv("ENV_NAME", "")
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("MEMCACHED_ADDRS", "")
	t.Setenv("DIAG_PORT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.WeatherAPIKey != "test-api-key-12345" {
		t.Errorf("WeatherAPIKey = %q", cfg.WeatherAPIKey)
	}
	if cfg.WeatherAPIURL != "https://api.openweathermap.org/data/2.5/weather" {
		t.Errorf("WeatherAPIURL = %q", cfg.WeatherAPIURL)
	}
	if cfg.IconBaseURL != "https://openweathermap.org/img/wn" {
		t.Errorf("IconBaseURL = %q", cfg.IconBaseURL)
	}
	if cfg.StoreBackend != "file" {
		t.Errorf("StoreBackend = %q, want file", cfg.StoreBackend)
	}
	if cfg.StoreTTL != time.Hour {
		t.Errorf("StoreTTL = %v, want 1h", cfg.StoreTTL)
	}
	if cfg.QueryMinLength != 2 {
		t.Errorf("QueryMinLength = %d, want 2", cfg.QueryMinLength)
	}
	if cfg.MessageDuration != 5*time.Second {
		t.Errorf("MessageDuration = %v, want 5s", cfg.MessageDuration)
	}
	if cfg.DiagPort != "" {
		t.Errorf("DiagPort = %q, want empty (disabled)", cfg.DiagPort)
	}
	if cfg.StorePath == "" {
		t.Error("StorePath should have a default")
	}
}

func TestLoad_MissingAPIKey(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("WEATHER_API_KEY", "")
	t.Setenv("ENV_NAME", "")

	if _, err := Load(); err == nil {
		t.Fatal("Load() expected error for missing API key")
	}
}

func TestLoad_APIKeyFromSecretsFile(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "secrets.yaml", "weather_api_key: secret-from-file\n")
	chdir(t, dir)
	t.Setenv("WEATHER_API_KEY", "")
	t.Setenv("ENV_NAME", "")
	t.Setenv("STORE_BACKEND", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.WeatherAPIKey != "secret-from-file" {
		t.Errorf("WeatherAPIKey = %q, want secret-from-file", cfg.WeatherAPIKey)
	}
}

func TestLoad_FromYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "dev.yaml", `
weather_api:
  url: http://localhost:9999/weather
  timeout: 2s
store:
  backend: memcached
  ttl: 30m
  memcached:
    addrs: cache1:11211,cache2:11211
query:
  min_length: 3
  max_length: 64
messages:
  duration: 10s
diagnostics:
  port: "9090"
  rate_limit_rps: 5
`)
	chdir(t, dir)
	t.Setenv("WEATHER_API_KEY", "test-api-key-12345")
	t.Setenv("ENV_NAME", "")
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("MEMCACHED_ADDRS", "")
	t.Setenv("DIAG_PORT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.WeatherAPIURL != "http://localhost:9999/weather" {
		t.Errorf("WeatherAPIURL = %q", cfg.WeatherAPIURL)
	}
	if cfg.WeatherAPITimeout != 2*time.Second {
		t.Errorf("WeatherAPITimeout = %v", cfg.WeatherAPITimeout)
	}
	if cfg.StoreBackend != "memcached" {
		t.Errorf("StoreBackend = %q", cfg.StoreBackend)
	}
	if cfg.StoreTTL != 30*time.Minute {
		t.Errorf("StoreTTL = %v", cfg.StoreTTL)
	}
	if cfg.MemcachedAddrs != "cache1:11211,cache2:11211" {
		t.Errorf("MemcachedAddrs = %q", cfg.MemcachedAddrs)
	}
	if cfg.QueryMinLength != 3 || cfg.QueryMaxLength != 64 {
		t.Errorf("query bounds = %d..%d", cfg.QueryMinLength, cfg.QueryMaxLength)
	}
	if cfg.MessageDuration != 10*time.Second {
		t.Errorf("MessageDuration = %v", cfg.MessageDuration)
	}
	if cfg.DiagPort != "9090" {
		t.Errorf("DiagPort = %q", cfg.DiagPort)
	}
	if cfg.DiagRateLimitRPS != 5 {
		t.Errorf("DiagRateLimitRPS = %d", cfg.DiagRateLimitRPS)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "dev.yaml", `
store:
  backend: file
`)
	chdir(t, dir)
	t.Setenv("WEATHER_API_KEY", "test-api-key-12345")
	t.Setenv("ENV_NAME", "")
	t.Setenv("STORE_BACKEND", "memcached")
	t.Setenv("MEMCACHED_ADDRS", "envhost:11211")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.StoreBackend != "memcached" {
		t.Errorf("StoreBackend = %q, env should win", cfg.StoreBackend)
	}
	if cfg.MemcachedAddrs != "envhost:11211" {
		t.Errorf("MemcachedAddrs = %q, env should win", cfg.MemcachedAddrs)
	}
}

func TestLoad_InvalidBackend(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "dev.yaml", `
store:
  backend: redis
`)
	chdir(t, dir)
	t.Setenv("WEATHER_API_KEY", "test-api-key-12345")
	t.Setenv("ENV_NAME", "")
	t.Setenv("STORE_BACKEND", "")

	if _, err := Load(); err == nil {
		t.Fatal("Load() expected error for unknown store backend")
	}
}

func TestLoad_InvalidDurationFallsBack(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "dev.yaml", `
store:
  ttl: not-a-duration
`)
	chdir(t, dir)
	t.Setenv("WEATHER_API_KEY", "test-api-key-12345")
	t.Setenv("ENV_NAME", "")
	t.Setenv("STORE_BACKEND", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.StoreTTL != time.Hour {
		t.Errorf("StoreTTL = %v, want 1h fallback", cfg.StoreTTL)
	}
}
