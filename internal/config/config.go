package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds app configuration loaded from YAML and env.
type Config struct {
	WeatherAPIKey     string
	WeatherAPIURL     string
	WeatherAPITimeout time.Duration
	IconBaseURL       string

	GeoAPIURL  string
	GeoTimeout time.Duration

	StoreBackend          string // "file" or "memcached"
	StorePath             string
	StoreTTL              time.Duration
	MemcachedAddrs        string
	MemcachedTimeout      time.Duration
	MemcachedMaxIdleConns int

	QueryMinLength  int
	QueryMaxLength  int
	MessageDuration time.Duration

	DiagPort           string // empty disables the diagnostics server
	DiagRateLimitRPS   int
	DiagRateLimitBurst int
}

type fileConfig struct {
	WeatherAPI struct {
		URL     string `yaml:"url"`
		Timeout string `yaml:"timeout"`
		IconURL string `yaml:"icon_url"`
	} `yaml:"weather_api"`

	Geolocation struct {
		URL     string `yaml:"url"`
		Timeout string `yaml:"timeout"`
	} `yaml:"geolocation"`

	Store struct {
		Backend   string `yaml:"backend"`
		Path      string `yaml:"path"`
		TTL       string `yaml:"ttl"`
		Memcached struct {
			Addrs        string `yaml:"addrs"`
			Timeout      string `yaml:"timeout"`
			MaxIdleConns int    `yaml:"max_idle_conns"`
		} `yaml:"memcached"`
	} `yaml:"store"`

	Query struct {
		MinLength int `yaml:"min_length"`
		MaxLength int `yaml:"max_length"`
	} `yaml:"query"`

	Messages struct {
		Duration string `yaml:"duration"`
	} `yaml:"messages"`

	Diagnostics struct {
		Port           string `yaml:"port"`
		RateLimitRPS   int    `yaml:"rate_limit_rps"`
		RateLimitBurst int    `yaml:"rate_limit_burst"`
	} `yaml:"diagnostics"`
}

type secretsFile struct {
	WeatherAPIKey string `yaml:"weather_api_key"`
}

// Load reads configuration from config/{ENV_NAME}.yaml (default dev) and
// config/secrets.yaml. A missing config file falls back to defaults; the
// API key is the only required value, from WEATHER_API_KEY env or the
// secrets file. The 1h store TTL, 2-char query minimum and 5s message
// duration are product constants preserved here as configuration.
func Load() (*Config, error) {
	env := os.Getenv("ENV_NAME")
	if env == "" {
		env = "dev"
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("config: get working directory: %w", err)
	}

	var fc fileConfig
	configPath := filepath.Join(cwd, "config", env+".yaml")
	data, err := os.ReadFile(configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	cfg := &Config{}

	cfg.WeatherAPIKey = os.Getenv("WEATHER_API_KEY")
	if cfg.WeatherAPIKey == "" {
		secretsPath := filepath.Join(cwd, "config", "secrets.yaml")
		secretsData, err := os.ReadFile(secretsPath)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read secrets file: %w", err)
			}
		} else {
			var sec secretsFile
			if err := yaml.Unmarshal(secretsData, &sec); err != nil {
				return nil, fmt.Errorf("parse secrets file: %w", err)
			}
			cfg.WeatherAPIKey = sec.WeatherAPIKey
		}
	}
	if cfg.WeatherAPIKey == "" {
		return nil, fmt.Errorf("WEATHER_API_KEY required (set env or config/secrets.yaml weather_api_key)")
	}

	cfg.WeatherAPIURL = fc.WeatherAPI.URL
	if cfg.WeatherAPIURL == "" {
		cfg.WeatherAPIURL = "https://api.openweathermap.org/data/2.5/weather"
	}
	cfg.WeatherAPITimeout = parseDuration(fc.WeatherAPI.Timeout, 10*time.Second)
	cfg.IconBaseURL = fc.WeatherAPI.IconURL
	if cfg.IconBaseURL == "" {
		cfg.IconBaseURL = "https://openweathermap.org/img/wn"
	}

	cfg.GeoAPIURL = fc.Geolocation.URL
	if cfg.GeoAPIURL == "" {
		cfg.GeoAPIURL = "http://ip-api.com/json"
	}
	cfg.GeoTimeout = parseDuration(fc.Geolocation.Timeout, 5*time.Second)

	cfg.StoreBackend = strings.TrimSpace(strings.ToLower(os.Getenv("STORE_BACKEND")))
	if cfg.StoreBackend == "" {
		cfg.StoreBackend = strings.TrimSpace(strings.ToLower(fc.Store.Backend))
	}
	if cfg.StoreBackend == "" {
		cfg.StoreBackend = "file"
	}
	cfg.StorePath = fc.Store.Path
	if cfg.StorePath == "" {
		cfg.StorePath = defaultStatePath()
	}
	cfg.StoreTTL = parseDuration(fc.Store.TTL, time.Hour)
	cfg.MemcachedAddrs = strings.TrimSpace(os.Getenv("MEMCACHED_ADDRS"))
	if cfg.MemcachedAddrs == "" {
		cfg.MemcachedAddrs = strings.TrimSpace(fc.Store.Memcached.Addrs)
	}
	if cfg.MemcachedAddrs == "" {
		cfg.MemcachedAddrs = "localhost:11211"
	}
	cfg.MemcachedTimeout = parseDuration(fc.Store.Memcached.Timeout, 500*time.Millisecond)
	cfg.MemcachedMaxIdleConns = fc.Store.Memcached.MaxIdleConns
	if cfg.MemcachedMaxIdleConns <= 0 {
		cfg.MemcachedMaxIdleConns = 2
	}

	cfg.QueryMinLength = fc.Query.MinLength
	if cfg.QueryMinLength <= 0 {
		cfg.QueryMinLength = 2
	}
	cfg.QueryMaxLength = fc.Query.MaxLength
	if cfg.QueryMaxLength <= 0 {
		cfg.QueryMaxLength = 128
	}
	cfg.MessageDuration = parseDuration(fc.Messages.Duration, 5*time.Second)

	cfg.DiagPort = strings.TrimSpace(os.Getenv("DIAG_PORT"))
	if cfg.DiagPort == "" {
		cfg.DiagPort = strings.TrimSpace(fc.Diagnostics.Port)
	}
	cfg.DiagRateLimitRPS = fc.Diagnostics.RateLimitRPS
	if cfg.DiagRateLimitRPS <= 0 {
		cfg.DiagRateLimitRPS = 10
	}
	cfg.DiagRateLimitBurst = fc.Diagnostics.RateLimitBurst
	if cfg.DiagRateLimitBurst <= 0 {
		cfg.DiagRateLimitBurst = 20
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// defaultStatePath puts the state blob in the user cache directory,
// falling back to the working directory when none is available.
func defaultStatePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "weatherdesk-state.json"
	}
	return filepath.Join(dir, "weatherdesk", "state.json")
}

// parseDuration parses a duration string and returns defaultVal if parsing
// fails or the result is <= 0.
func parseDuration(s string, defaultVal time.Duration) time.Duration {
	s = strings.TrimSpace(s)
	if s == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

// validate performs post-load validation of configuration values.
func validate(cfg *Config) error {
	if cfg.WeatherAPITimeout <= 0 {
		return fmt.Errorf("weather_api.timeout must be positive")
	}
	switch cfg.StoreBackend {
	case "file", "memcached":
		// valid
	default:
		return fmt.Errorf("store.backend must be file or memcached, got %q", cfg.StoreBackend)
	}
	if cfg.QueryMinLength > cfg.QueryMaxLength {
		return fmt.Errorf("query.min_length %d exceeds query.max_length %d", cfg.QueryMinLength, cfg.QueryMaxLength)
	}
	return nil
}
