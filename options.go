package sofia

import (
	"log/slog"
	"time"

	"github.com/sofialabs/sofia/internal/augment"
	"github.com/sofialabs/sofia/internal/lexicon"
	"github.com/sofialabs/sofia/internal/llm"
	"github.com/sofialabs/sofia/internal/providers/country"
	"github.com/sofialabs/sofia/internal/providers/weather"
	"github.com/sofialabs/sofia/internal/recovery"
	"github.com/sofialabs/sofia/internal/store"
)

// clientConfig collects everything New assembles. Fields left nil by options
// get in-process defaults in build.
type clientConfig struct {
	logger        *slog.Logger
	lexicon       *lexicon.Library
	sessions      store.SessionStore
	storeCfg      store.Config
	cache         augment.Store
	weather       augment.WeatherProvider
	country       augment.CountryProvider
	generator     llm.Generator
	audit         recovery.AuditSink
	now           func() time.Time
	historyWindow int
	weatherRPM    int
	countryRPM    int

	closers []func() error
}

func defaultClientConfig() clientConfig {
	return clientConfig{
		logger:        slog.Default(),
		now:           time.Now,
		historyWindow: 10,
	}
}

// build fills the gaps with owned defaults and records what must be closed.
func (c *clientConfig) build() error {
	if c.lexicon == nil {
		c.lexicon = lexicon.Default()
	}
	if c.sessions == nil {
		c.sessions = store.NewMemoryStore(c.storeCfg)
	}
	if closer, ok := c.sessions.(interface{ Close() error }); ok {
		c.closers = append(c.closers, closer.Close)
	}
	if c.cache == nil {
		mem := augment.NewMemoryStore()
		c.cache = mem
		c.closers = append(c.closers, mem.Close)
	} else {
		c.closers = append(c.closers, c.cache.Close)
	}
	if c.weather == nil {
		c.weather = weather.New()
	}
	if c.country == nil {
		c.country = country.New()
	}
	if c.generator == nil {
		c.generator = llm.StaticGenerator{}
	}
	if c.audit == nil {
		c.audit = recovery.NopSink{}
	} else {
		c.closers = append(c.closers, c.audit.Close)
	}
	return nil
}

// Option configures the client.
type Option func(*clientConfig)

// WithLogger sets the structured logger for all components.
func WithLogger(log *slog.Logger) Option {
	return func(c *clientConfig) {
		if log != nil {
			c.logger = log
		}
	}
}

// WithLexicon replaces the built-in pattern library, e.g. one extended by a
// YAML overlay.
func WithLexicon(lib *lexicon.Library) Option {
	return func(c *clientConfig) {
		c.lexicon = lib
	}
}

// WithStore injects a session store. The client closes it on Close when it
// implements the optional closer.
func WithStore(s store.SessionStore) Option {
	return func(c *clientConfig) {
		c.sessions = s
	}
}

// WithStoreConfig tunes the default in-memory session store (retention cap,
// idle TTL). Ignored when WithStore injects a store.
func WithStoreConfig(cfg store.Config) Option {
	return func(c *clientConfig) {
		c.storeCfg = cfg
	}
}

// WithCacheStore injects the external-data cache backend (e.g. the Redis
// store for shared deployments).
func WithCacheStore(s augment.Store) Option {
	return func(c *clientConfig) {
		c.cache = s
	}
}

// WithWeatherProvider injects the weather collaborator.
func WithWeatherProvider(p augment.WeatherProvider) Option {
	return func(c *clientConfig) {
		c.weather = p
	}
}

// WithCountryProvider injects the country-facts collaborator.
func WithCountryProvider(p augment.CountryProvider) Option {
	return func(c *clientConfig) {
		c.country = p
	}
}

// WithGenerator injects the reply generator. Without it the client serves
// fixed offline replies.
func WithGenerator(g llm.Generator) Option {
	return func(c *clientConfig) {
		c.generator = g
	}
}

// WithRecoveryAudit routes recovery detections to the given sink.
func WithRecoveryAudit(sink recovery.AuditSink) Option {
	return func(c *clientConfig) {
		c.audit = sink
	}
}

// WithClock injects the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *clientConfig) {
		if now != nil {
			c.now = now
		}
	}
}

// WithHistoryWindow caps how many trailing messages are sent to the
// generator per turn.
func WithHistoryWindow(n int) Option {
	return func(c *clientConfig) {
		if n > 0 {
			c.historyWindow = n
		}
	}
}

// WithRateLimits caps external data fetches per provider per minute. Zero
// leaves a provider unlimited.
func WithRateLimits(weatherPerMinute, countryPerMinute int) Option {
	return func(c *clientConfig) {
		c.weatherRPM = weatherPerMinute
		c.countryRPM = countryPerMinute
	}
}
