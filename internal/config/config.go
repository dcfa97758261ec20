// Package config provides configuration management with hot-reload support.
// It uses fsnotify to watch for file changes and atomic pointer swaps for
// zero-downtime updates.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete service configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Engine    EngineConfig    `yaml:"engine"`
	Store     StoreConfig     `yaml:"store"`
	Cache     CacheConfig     `yaml:"cache"`
	Providers ProvidersConfig `yaml:"providers"`
	Recovery  RecoveryConfig  `yaml:"recovery"`
	Logging   LoggingConfig   `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Tracing   TracingConfig   `yaml:"tracing"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
}

// EngineConfig tunes the conversation engine.
type EngineConfig struct {
	// HistoryWindow caps how many trailing messages are handed to the
	// generator per turn.
	HistoryWindow int `yaml:"history_window"`
	// LexiconOverlay optionally extends the built-in pattern library from a
	// YAML file. Load failures keep the built-ins.
	LexiconOverlay string `yaml:"lexicon_overlay"`
}

// StoreConfig controls session retention. Zero values mean process-lifetime
// retention with no cap, matching the engine's default behavior.
type StoreConfig struct {
	// MaxSessions evicts least-recently-updated sessions past this count.
	MaxSessions int `yaml:"max_sessions"`
	// IdleTTL evicts sessions that have not been touched for this long.
	IdleTTL time.Duration `yaml:"idle_ttl"`
	// SweepInterval is how often the idle janitor runs.
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

// CacheConfig selects the external-data cache backend.
type CacheConfig struct {
	Backend   string `yaml:"backend"` // memory, redis
	Namespace string `yaml:"namespace"`
	Redis     struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
}

// ProvidersConfig groups the external collaborators.
type ProvidersConfig struct {
	Weather WeatherProviderConfig `yaml:"weather"`
	Country CountryProviderConfig `yaml:"country"`
	LLM     LLMProviderConfig     `yaml:"llm"`
}

// WeatherProviderConfig configures the weather data provider. An empty API
// key puts the client in fallback mode rather than failing.
type WeatherProviderConfig struct {
	BaseURL        string        `yaml:"base_url"`
	APIKey         string        `yaml:"api_key"`
	Timeout        time.Duration `yaml:"timeout"`
	RequestsPerMin int           `yaml:"requests_per_minute"`
}

// CountryProviderConfig configures the country data provider.
type CountryProviderConfig struct {
	BaseURL        string        `yaml:"base_url"`
	Timeout        time.Duration `yaml:"timeout"`
	RequestsPerMin int           `yaml:"requests_per_minute"`
}

// LLMProviderConfig configures the text-generation service. An empty API key
// selects the offline static generator.
type LLMProviderConfig struct {
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"api_key"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

// RecoveryConfig controls the recovery audit sink.
type RecoveryConfig struct {
	// AuditDSN enables the Postgres audit log when set. Empty keeps the
	// no-op sink.
	AuditDSN string `yaml:"audit_dsn"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// MetricsConfig contains Prometheus metrics settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// TracingConfig contains OpenTelemetry tracing settings.
type TracingConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Endpoint    string  `yaml:"endpoint"`     // OTLP endpoint (e.g., "localhost:4317")
	ServiceName string  `yaml:"service_name"` // Service name for traces
	SampleRate  float64 `yaml:"sample_rate"`  // Sampling rate (0.0 to 1.0)
	Insecure    bool    `yaml:"insecure"`     // Use insecure connection (no TLS)
}

// DefaultConfig returns a configuration that works with zero files: no API
// keys, in-memory cache, unbounded session retention.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 120 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Engine: EngineConfig{
			HistoryWindow: 10,
		},
		Store: StoreConfig{
			SweepInterval: 5 * time.Minute,
		},
		Cache: CacheConfig{
			Backend:   "memory",
			Namespace: "sofia",
		},
		Providers: ProvidersConfig{
			Weather: WeatherProviderConfig{
				Timeout:        10 * time.Second,
				RequestsPerMin: 30,
			},
			Country: CountryProviderConfig{
				Timeout:        10 * time.Second,
				RequestsPerMin: 30,
			},
			LLM: LLMProviderConfig{
				Model:   "gpt-4o-mini",
				Timeout: 60 * time.Second,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Tracing: TracingConfig{
			Enabled:     false,
			Endpoint:    "localhost:4317",
			ServiceName: "sofia",
			SampleRate:  1.0,
			Insecure:    true,
		},
	}
}

// LoadFromFile reads and parses a YAML configuration file. Environment
// variables in the format ${VAR_NAME} are expanded before parsing, so API
// keys can stay out of the file itself.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	cfg := DefaultConfig()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration for errors and normalizes blank fields
// back to their defaults.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Engine.HistoryWindow < 0 {
		return fmt.Errorf("engine.history_window cannot be negative")
	}
	if c.Engine.HistoryWindow == 0 {
		c.Engine.HistoryWindow = 10
	}

	if c.Store.MaxSessions < 0 {
		return fmt.Errorf("store.max_sessions cannot be negative")
	}
	if c.Store.IdleTTL < 0 {
		return fmt.Errorf("store.idle_ttl cannot be negative")
	}

	switch c.Cache.Backend {
	case "", "memory":
		c.Cache.Backend = "memory"
	case "redis":
		if c.Cache.Redis.Addr == "" {
			return fmt.Errorf("cache.redis.addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown cache backend: %q", c.Cache.Backend)
	}

	if c.Providers.Weather.Timeout < 0 || c.Providers.Country.Timeout < 0 || c.Providers.LLM.Timeout < 0 {
		return fmt.Errorf("provider timeouts cannot be negative")
	}

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown logging level: %q", c.Logging.Level)
	}

	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0")
	}
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = "sofia"
	}

	return nil
}
