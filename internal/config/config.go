// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Load layers a YAML file and HUDDLE_* environment variables on top.
// - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"fmt"
	"runtime"
	"strings"
	"time"
)

// Provider names understood by the orchestrator pipeline.
const (
	ProviderSportsDataIO = "sportsdataio"
	ProviderPyESPN       = "pyespn"
	ProviderSleeper      = "sleeper"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// Providers is the comma separated, priority ordered provider list.
	Providers string `koanf:"providers"`

	// PollIntervalSeconds is the refresh cadence for tracked games.
	PollIntervalSeconds int `koanf:"poll_interval_seconds"`

	// QueueSize bounds the in-memory refresh queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of refresh workers.
	WorkerCount int `koanf:"worker_count"`

	// InflightSize bounds the per-game in-flight refresh guard.
	InflightSize int `koanf:"inflight_size"`

	// CacheSize and CacheTTLSeconds bound the provider payload caches.
	CacheSize       int `koanf:"cache_size"`
	CacheTTLSeconds int `koanf:"cache_ttl_seconds"`

	// HTTPTimeoutSeconds applies to every upstream request.
	HTTPTimeoutSeconds int `koanf:"http_timeout_seconds"`

	// CORSOrigins is a comma separated list of allowed origins.
	CORSOrigins string `koanf:"cors_origins"`

	// RedisURL enables the shared cache and stream publisher when set.
	RedisURL          string `koanf:"redis_url"`
	RedisStreamPrefix string `koanf:"redis_stream_prefix"`

	SleeperRESTURL    string `koanf:"sleeper_rest_url"`
	SleeperGraphQLURL string `koanf:"sleeper_graphql_url"`
	SleeperToken      string `koanf:"sleeper_token"`
	SleeperFreshDays  int    `koanf:"sleeper_fresh_days"`

	// ESPNProxyURL is the base URL of the ESPN play-by-play proxy.
	ESPNProxyURL string `koanf:"espn_proxy_url"`

	SportsDataIOBaseURL    string  `koanf:"sportsdataio_base_url"`
	SportsDataIOAPIKey     string  `koanf:"sportsdataio_api_key"`
	SportsDataIORPS        float64 `koanf:"sportsdataio_rps"`
	SportsDataIOMaxRetries int     `koanf:"sportsdataio_max_retries"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:               "info",
		LogFormat:              "text",
		Addr:                   ":9080",
		Providers:              ProviderSportsDataIO,
		PollIntervalSeconds:    15,
		QueueSize:              1_024,
		WorkerCount:            runtime.NumCPU(),
		InflightSize:           4_096,
		CacheSize:              256,
		CacheTTLSeconds:        30,
		HTTPTimeoutSeconds:     15,
		CORSOrigins:            "*",
		RedisStreamPrefix:      "plays.updates",
		SleeperRESTURL:         "https://api.sleeper.app",
		SleeperGraphQLURL:      "https://sleeper.com/graphql",
		SleeperFreshDays:       2,
		ESPNProxyURL:           "http://localhost:3001",
		SportsDataIOBaseURL:    "https://api.sportsdata.io",
		SportsDataIORPS:        2,
		SportsDataIOMaxRetries: 3,
	}
}

// ProviderList returns the configured provider names, lowercased, in order.
func (c *Config) ProviderList() []string {
	return splitList(strings.ToLower(c.Providers))
}

// CORSOriginList returns the configured CORS origins.
func (c *Config) CORSOriginList() []string {
	return splitList(c.CORSOrigins)
}

// PollInterval returns the tracked game refresh cadence.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// CacheTTL returns the provider payload cache lifetime.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// SleeperFreshWindow returns how old a finished game may be for Sleeper.
func (c *Config) SleeperFreshWindow() time.Duration {
	return time.Duration(c.SleeperFreshDays) * 24 * time.Hour
}

// HTTPTimeout returns the upstream request timeout.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

// Validate reports the first configuration problem found.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case len(c.ProviderList()) == 0:
		return fmt.Errorf("%w: providers must not be empty", ErrInvalidConfig)
	case c.PollIntervalSeconds <= 0:
		return fmt.Errorf("%w: poll_interval_seconds must be positive", ErrInvalidConfig)
	case c.SportsDataIORPS < 0:
		return fmt.Errorf("%w: sportsdataio_rps must not be negative", ErrInvalidConfig)
	}
	for _, name := range c.ProviderList() {
		switch name {
		case ProviderSportsDataIO, ProviderPyESPN, ProviderSleeper:
		default:
			return fmt.Errorf("%w: unknown provider %q", ErrInvalidConfig, name)
		}
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
