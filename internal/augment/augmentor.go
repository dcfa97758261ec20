// Package augment gathers external data (weather, forecasts, country facts)
// to enrich replies, behind a bounded smart cache. Fetch decisions are scored
// from the message; provider failures degrade to stale cache entries instead
// of surfacing errors.
package augment

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/sofialabs/sofia/internal/metrics"
	"github.com/sofialabs/sofia/pkg/types"
)

// WeatherProvider supplies live conditions and forecasts.
type WeatherProvider interface {
	Current(ctx context.Context, location string) (types.WeatherData, error)
	Forecast(ctx context.Context, location string, days int) ([]types.ForecastEntry, error)
}

// CountryProvider supplies country facts by name.
type CountryProvider interface {
	Lookup(ctx context.Context, name string) (types.CountryInfo, error)
}

const (
	// weatherRepeatWindow suppresses unprompted weather for a destination
	// that already had weather surfaced recently.
	weatherRepeatWindow = time.Hour

	forecastDays = 5

	liveConfidence     = 0.9
	staleConfidence    = 0.6
	degradedConfidence = 0.5
)

// Provider roles as metric labels. The augmentor doesn't know which vendor
// backs an interface, so it labels by role.
const (
	roleWeather = "weather"
	roleCountry = "country"
)

const (
	statusOK        = "ok"
	statusError     = "error"
	statusThrottled = "throttled"
)

// weatherAskKeywords decide whether the user is asking for weather by name,
// which overrides the repeat-suppression window.
var weatherAskKeywords = []string{
	"weather", "temperature", "climate", "rain", "sunny", "cold", "hot", "degrees",
}

// Origin says how one gathered class was obtained.
type Origin struct {
	Source     types.DataSource `json:"source"`
	Age        time.Duration    `json:"age,omitempty"`
	Confidence float64          `json:"confidence"`
}

// Result is the external data gathered for one turn.
type Result struct {
	Weather  *types.WeatherData    `json:"weather,omitempty"`
	Forecast []types.ForecastEntry `json:"forecast,omitempty"`
	Country  *types.CountryInfo    `json:"country,omitempty"`
	Origins  map[Class]Origin      `json:"origins,omitempty"`
	Strategy Strategy              `json:"-"`
}

// Empty reports whether nothing was gathered.
func (r Result) Empty() bool {
	return r.Weather == nil && len(r.Forecast) == 0 && r.Country == nil
}

// Augmentor fetches external data through the cache. Safe for concurrent use
// as long as the store is.
type Augmentor struct {
	weather WeatherProvider
	country CountryProvider
	store   Store

	weatherLimit *rate.Limiter
	countryLimit *rate.Limiter

	log *slog.Logger
	now func() time.Time
}

// Option configures an Augmentor.
type Option func(*Augmentor)

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(a *Augmentor) {
		if log != nil {
			a.log = log
		}
	}
}

// WithClock replaces the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(a *Augmentor) {
		if now != nil {
			a.now = now
		}
	}
}

// WithRateLimits bounds live provider calls per minute. Zero or negative
// disables a bound. Exhaustion degrades to cached data, never blocks.
func WithRateLimits(weatherPerMinute, countryPerMinute int) Option {
	return func(a *Augmentor) {
		if weatherPerMinute > 0 {
			a.weatherLimit = rate.NewLimiter(rate.Every(time.Minute/time.Duration(weatherPerMinute)), weatherPerMinute)
		}
		if countryPerMinute > 0 {
			a.countryLimit = rate.NewLimiter(rate.Every(time.Minute/time.Duration(countryPerMinute)), countryPerMinute)
		}
	}
}

// New returns an Augmentor over the given providers and cache store.
func New(weather WeatherProvider, country CountryProvider, store Store, opts ...Option) *Augmentor {
	a := &Augmentor{
		weather: weather,
		country: country,
		store:   store,
		log:     slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Gather fetches whatever external data this turn warrants. Provider
// failures degrade to stale cache entries or drop the class; Gather itself
// never fails.
func (a *Augmentor) Gather(ctx context.Context, message string, session *types.Session, profile *types.Profile) Result {
	res := Result{Origins: map[Class]Origin{}}

	dest := ""
	if session != nil {
		dest = session.Context.CurrentDestination
	}
	if dest == "" {
		return res
	}

	strategy := PlanStrategy(message, dest, profile)

	// Weather already surfaced for this destination within the window gets
	// repetitive; skip it unless the user asks again by name.
	if (strategy.Weather.Fetch || strategy.Forecast.Fetch) &&
		session.Context.WeatherRecentlyMentioned(dest, a.now(), weatherRepeatWindow) &&
		!asksWeather(message) {
		strategy.Weather = Decision{}
		strategy.Forecast = Decision{}
	}
	res.Strategy = strategy

	if strategy.Weather.Fetch {
		a.gatherWeather(ctx, dest, &res)
	}
	if strategy.Forecast.Fetch {
		a.gatherForecast(ctx, dest, &res)
	}
	if strategy.Country.Fetch {
		a.gatherCountry(ctx, dest, &res)
	}
	return res
}

func (a *Augmentor) gatherWeather(ctx context.Context, dest string, res *Result) {
	key := cacheKey(ClassWeather, dest)
	ttl := TTLFor(ClassWeather)

	if data, entry, ok := cacheLookup[types.WeatherData](ctx, a, key, ttl); ok {
		metrics.CacheHits.WithLabelValues(string(ClassWeather)).Inc()
		data.Source = types.SourceCached
		res.Weather = &data
		res.Origins[ClassWeather] = Origin{Source: types.SourceCached, Age: entry.Age(a.now()), Confidence: entry.Confidence}
		return
	}
	metrics.CacheMisses.WithLabelValues(string(ClassWeather)).Inc()

	if !allow(a.weatherLimit) {
		metrics.RecordProviderRequest(roleWeather, statusThrottled, 0)
		a.log.Warn("weather fetch throttled", "destination", dest)
		a.staleWeather(ctx, key, ttl, res)
		return
	}

	start := time.Now()
	data, err := a.weather.Current(ctx, dest)
	if err != nil {
		metrics.RecordProviderRequest(roleWeather, statusError, time.Since(start))
		a.log.Warn("weather fetch failed", "destination", dest, "error", err)
		if a.staleWeather(ctx, key, ttl, res) {
			return
		}
		// The provider's degraded values still beat no context at all.
		res.Weather = &data
		res.Origins[ClassWeather] = Origin{Source: types.SourceLive, Confidence: degradedConfidence}
		return
	}
	metrics.RecordProviderRequest(roleWeather, statusOK, time.Since(start))

	a.cachePut(ctx, key, data, ttl)
	res.Weather = &data
	res.Origins[ClassWeather] = Origin{Source: types.SourceLive, Confidence: liveConfidence}
}

func (a *Augmentor) staleWeather(ctx context.Context, key string, ttl time.Duration, res *Result) bool {
	data, entry, ok := cacheLookup[types.WeatherData](ctx, a, key, 2*ttl)
	if !ok {
		return false
	}
	metrics.CacheStaleServes.WithLabelValues(string(ClassWeather)).Inc()
	data.Source = types.SourceStale
	res.Weather = &data
	res.Origins[ClassWeather] = Origin{Source: types.SourceStale, Age: entry.Age(a.now()), Confidence: staleConfidence}
	return true
}

func (a *Augmentor) gatherForecast(ctx context.Context, dest string, res *Result) {
	key := cacheKey(ClassForecast, dest)
	ttl := TTLFor(ClassForecast)

	if entries, entry, ok := cacheLookup[[]types.ForecastEntry](ctx, a, key, ttl); ok {
		metrics.CacheHits.WithLabelValues(string(ClassForecast)).Inc()
		res.Forecast = entries
		res.Origins[ClassForecast] = Origin{Source: types.SourceCached, Age: entry.Age(a.now()), Confidence: entry.Confidence}
		return
	}
	metrics.CacheMisses.WithLabelValues(string(ClassForecast)).Inc()

	if !allow(a.weatherLimit) {
		metrics.RecordProviderRequest(roleWeather, statusThrottled, 0)
		a.log.Warn("forecast fetch throttled", "destination", dest)
		a.staleForecast(ctx, key, ttl, res)
		return
	}

	start := time.Now()
	entries, err := a.weather.Forecast(ctx, dest, forecastDays)
	if err != nil {
		metrics.RecordProviderRequest(roleWeather, statusError, time.Since(start))
		a.log.Warn("forecast fetch failed", "destination", dest, "error", err)
		a.staleForecast(ctx, key, ttl, res)
		return
	}
	metrics.RecordProviderRequest(roleWeather, statusOK, time.Since(start))

	a.cachePut(ctx, key, entries, ttl)
	res.Forecast = entries
	res.Origins[ClassForecast] = Origin{Source: types.SourceLive, Confidence: liveConfidence}
}

func (a *Augmentor) staleForecast(ctx context.Context, key string, ttl time.Duration, res *Result) {
	entries, entry, ok := cacheLookup[[]types.ForecastEntry](ctx, a, key, 2*ttl)
	if !ok {
		return
	}
	metrics.CacheStaleServes.WithLabelValues(string(ClassForecast)).Inc()
	res.Forecast = entries
	res.Origins[ClassForecast] = Origin{Source: types.SourceStale, Age: entry.Age(a.now()), Confidence: staleConfidence}
}

func (a *Augmentor) gatherCountry(ctx context.Context, dest string, res *Result) {
	key := cacheKey(ClassCountry, dest)
	ttl := TTLFor(ClassCountry)

	if info, entry, ok := cacheLookup[types.CountryInfo](ctx, a, key, ttl); ok {
		metrics.CacheHits.WithLabelValues(string(ClassCountry)).Inc()
		info.Source = types.SourceCached
		res.Country = &info
		res.Origins[ClassCountry] = Origin{Source: types.SourceCached, Age: entry.Age(a.now()), Confidence: entry.Confidence}
		return
	}
	metrics.CacheMisses.WithLabelValues(string(ClassCountry)).Inc()

	if !allow(a.countryLimit) {
		metrics.RecordProviderRequest(roleCountry, statusThrottled, 0)
		a.log.Warn("country fetch throttled", "destination", dest)
		a.staleCountry(ctx, key, ttl, res)
		return
	}

	start := time.Now()
	info, err := a.country.Lookup(ctx, dest)
	if err != nil {
		metrics.RecordProviderRequest(roleCountry, statusError, time.Since(start))
		a.log.Warn("country fetch failed", "destination", dest, "error", err)
		a.staleCountry(ctx, key, ttl, res)
		return
	}
	metrics.RecordProviderRequest(roleCountry, statusOK, time.Since(start))

	a.cachePut(ctx, key, info, ttl)
	res.Country = &info
	res.Origins[ClassCountry] = Origin{Source: types.SourceLive, Confidence: liveConfidence}
}

func (a *Augmentor) staleCountry(ctx context.Context, key string, ttl time.Duration, res *Result) {
	info, entry, ok := cacheLookup[types.CountryInfo](ctx, a, key, 2*ttl)
	if !ok {
		return
	}
	metrics.CacheStaleServes.WithLabelValues(string(ClassCountry)).Inc()
	info.Source = types.SourceStale
	res.Country = &info
	res.Origins[ClassCountry] = Origin{Source: types.SourceStale, Age: entry.Age(a.now()), Confidence: staleConfidence}
}

// cacheLookup returns the decoded value for key when an entry exists and is
// no older than maxAge. Store and decode failures read as misses.
func cacheLookup[T any](ctx context.Context, a *Augmentor, key string, maxAge time.Duration) (T, Entry, bool) {
	var zero T
	entry, ok, err := a.store.Get(ctx, key)
	if err != nil {
		a.log.Warn("cache read failed", "key", key, "error", err)
		return zero, Entry{}, false
	}
	if !ok || entry.Age(a.now()) > maxAge {
		return zero, Entry{}, false
	}
	var value T
	if err := json.Unmarshal(entry.Data, &value); err != nil {
		a.log.Warn("cache entry decode failed", "key", key, "error", err)
		return zero, Entry{}, false
	}
	return value, entry, true
}

// cachePut stores a fresh value. Retention runs to twice the TTL so the
// stale-serve window survives in the backend.
func (a *Augmentor) cachePut(ctx context.Context, key string, value any, ttl time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		a.log.Warn("cache entry encode failed", "key", key, "error", err)
		return
	}
	entry := Entry{Data: raw, StoredAt: a.now(), Confidence: liveConfidence}
	if err := a.store.Set(ctx, key, entry, 2*ttl); err != nil {
		a.log.Warn("cache write failed", "key", key, "error", err)
	}
}

func cacheKey(class Class, dest string) string {
	return string(class) + ":" + strings.ToLower(dest)
}

func allow(l *rate.Limiter) bool {
	return l == nil || l.Allow()
}

func asksWeather(message string) bool {
	return containsAny(strings.ToLower(message), weatherAskKeywords)
}
