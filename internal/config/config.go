package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds service configuration loaded from YAML and env.
type Config struct {
	ServerPort string

	DataPath      string
	DataDelimiter rune

	RequestTimeout time.Duration

	CacheBackend    string // "in_memory" or "memcached"
	CacheTTL        time.Duration
	CacheWarm       bool
	CoalesceTimeout time.Duration

	MemcachedAddrs        string
	MemcachedTimeout      time.Duration
	MemcachedMaxIdleConns int

	ChartWidth  float64 // inches
	ChartHeight float64 // inches
	ChartFormat string  // "svg" or "png"

	RateLimitRPS   int
	RateLimitBurst int

	OverloadWindow       time.Duration
	OverloadThresholdPct int

	ShutdownTimeout               time.Duration
	ShutdownInFlightTimeout       time.Duration
	ShutdownInFlightCheckInterval time.Duration
}

type fileConfig struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`

	Data struct {
		Path      string `yaml:"path"`
		Delimiter string `yaml:"delimiter"`
	} `yaml:"data"`

	Request struct {
		Timeout string `yaml:"timeout"`
	} `yaml:"request"`

	Cache struct {
		Backend         string `yaml:"backend"`
		TTL             string `yaml:"ttl"`
		Warm            *bool  `yaml:"warm"`
		CoalesceTimeout string `yaml:"coalesce_timeout"`
		Memcached       struct {
			Addrs        string `yaml:"addrs"`
			Timeout      string `yaml:"timeout"`
			MaxIdleConns int    `yaml:"max_idle_conns"`
		} `yaml:"memcached"`
	} `yaml:"cache"`

	Chart struct {
		Width  float64 `yaml:"width"`
		Height float64 `yaml:"height"`
		Format string  `yaml:"format"`
	} `yaml:"chart"`

	Reliability struct {
		RateLimitRPS   int `yaml:"rate_limit_rps"`
		RateLimitBurst int `yaml:"rate_limit_burst"`
	} `yaml:"reliability"`

	Lifecycle struct {
		OverloadWindow       string `yaml:"overload_window"`
		OverloadThresholdPct int    `yaml:"overload_threshold_pct"`
	} `yaml:"lifecycle"`

	Shutdown struct {
		Timeout               string `yaml:"timeout"`
		InFlightTimeout       string `yaml:"in_flight_timeout"`
		InFlightCheckInterval string `yaml:"in_flight_check_interval"`
	} `yaml:"shutdown"`
}

// Load reads configuration from config/{ENV_NAME}.yaml (default dev). A .env file
// in the working directory, if present, is loaded first and never overrides
// variables already set. Call from project root.
func Load() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("config: get working directory: %w", err)
	}
	if err := godotenv.Load(filepath.Join(cwd, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	env := os.Getenv("ENV_NAME")
	if env == "" {
		env = "dev"
	}
	configPath := filepath.Join(cwd, "config", env+".yaml")
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", configPath)
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	cfg := &Config{}
	cfg.ServerPort = fc.Server.Port
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}

	cfg.DataPath = strings.TrimSpace(fc.Data.Path)
	if cfg.DataPath == "" {
		cfg.DataPath = filepath.Join("data", "all_data.csv")
	}
	delim := fc.Data.Delimiter
	if delim == "" {
		delim = ","
	}
	if utf8.RuneCountInString(delim) == 1 {
		cfg.DataDelimiter, _ = utf8.DecodeRuneInString(delim)
	}

	cfg.RequestTimeout = parseDuration(fc.Request.Timeout, 10*time.Second)

	cfg.CacheBackend = strings.TrimSpace(strings.ToLower(os.Getenv("CACHE_BACKEND")))
	if cfg.CacheBackend == "" {
		cfg.CacheBackend = strings.TrimSpace(strings.ToLower(fc.Cache.Backend))
	}
	if cfg.CacheBackend == "" {
		cfg.CacheBackend = "in_memory"
	}
	cfg.CacheTTL = parseDuration(fc.Cache.TTL, time.Hour)
	cfg.CacheWarm = true
	if fc.Cache.Warm != nil {
		cfg.CacheWarm = *fc.Cache.Warm
	}
	cfg.CoalesceTimeout = parseDurationOrZero(fc.Cache.CoalesceTimeout, 5*time.Second)
	if cfg.CoalesceTimeout < 0 {
		cfg.CoalesceTimeout = 0
	}

	cfg.MemcachedAddrs = strings.TrimSpace(os.Getenv("MEMCACHED_ADDRS"))
	if cfg.MemcachedAddrs == "" {
		cfg.MemcachedAddrs = strings.TrimSpace(fc.Cache.Memcached.Addrs)
	}
	if cfg.MemcachedAddrs == "" {
		cfg.MemcachedAddrs = "localhost:11211"
	}
	cfg.MemcachedTimeout = parseDuration(fc.Cache.Memcached.Timeout, 500*time.Millisecond)
	cfg.MemcachedMaxIdleConns = fc.Cache.Memcached.MaxIdleConns
	if cfg.MemcachedMaxIdleConns <= 0 {
		cfg.MemcachedMaxIdleConns = 2
	}

	cfg.ChartWidth = fc.Chart.Width
	if cfg.ChartWidth == 0 {
		cfg.ChartWidth = 8
	}
	cfg.ChartHeight = fc.Chart.Height
	if cfg.ChartHeight == 0 {
		cfg.ChartHeight = 5
	}
	cfg.ChartFormat = strings.TrimSpace(strings.ToLower(fc.Chart.Format))
	if cfg.ChartFormat == "" {
		cfg.ChartFormat = "svg"
	}

	cfg.RateLimitRPS = fc.Reliability.RateLimitRPS
	if cfg.RateLimitRPS <= 0 {
		cfg.RateLimitRPS = 50
	}
	cfg.RateLimitBurst = fc.Reliability.RateLimitBurst
	if cfg.RateLimitBurst <= 0 {
		cfg.RateLimitBurst = 100
	}

	cfg.OverloadWindow = parseDuration(fc.Lifecycle.OverloadWindow, 60*time.Second)
	cfg.OverloadThresholdPct = fc.Lifecycle.OverloadThresholdPct
	if cfg.OverloadThresholdPct <= 0 {
		cfg.OverloadThresholdPct = 80
	}

	cfg.ShutdownTimeout = parseDuration(fc.Shutdown.Timeout, 30*time.Second)
	cfg.ShutdownInFlightTimeout = parseDuration(fc.Shutdown.InFlightTimeout, 10*time.Second)
	cfg.ShutdownInFlightCheckInterval = parseDuration(fc.Shutdown.InFlightCheckInterval, 100*time.Millisecond)

	if err := validate(cfg, delim); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseDuration parses a duration string and returns defaultVal if parsing fails or result is <= 0.
func parseDuration(s string, defaultVal time.Duration) time.Duration {
	d := parseDurationOrZero(s, defaultVal)
	if d <= 0 {
		return defaultVal
	}
	return d
}

// parseDurationOrZero parses a duration string, returning defaultVal on empty string or parse error.
// Zero and negative durations are returned as-is.
func parseDurationOrZero(s string, defaultVal time.Duration) time.Duration {
	s = strings.TrimSpace(s)
	if s == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return defaultVal
	}
	return d
}

// validate reports every invalid value at once.
func validate(cfg *Config, delim string) error {
	var result *multierror.Error
	switch cfg.CacheBackend {
	case "in_memory", "memcached":
	default:
		result = multierror.Append(result, fmt.Errorf("cache.backend must be in_memory or memcached, got %q", cfg.CacheBackend))
	}
	switch cfg.ChartFormat {
	case "svg", "png":
	default:
		result = multierror.Append(result, fmt.Errorf("chart.format must be svg or png, got %q", cfg.ChartFormat))
	}
	if cfg.DataDelimiter == 0 {
		result = multierror.Append(result, fmt.Errorf("data.delimiter must be a single character, got %q", delim))
	}
	if cfg.ChartWidth <= 0 || cfg.ChartHeight <= 0 {
		result = multierror.Append(result, fmt.Errorf("chart.width and chart.height must be positive"))
	}
	if cfg.OverloadThresholdPct > 100 {
		result = multierror.Append(result, fmt.Errorf("lifecycle.overload_threshold_pct must be at most 100, got %d", cfg.OverloadThresholdPct))
	}
	return result.ErrorOrNil()
}
