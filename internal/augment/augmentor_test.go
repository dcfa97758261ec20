package augment

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sofialabs/sofia/pkg/types"
)

type stubWeather struct {
	current   types.WeatherData
	forecast  []types.ForecastEntry
	err       error
	calls     int
	forecasts int
}

func (s *stubWeather) Current(_ context.Context, location string) (types.WeatherData, error) {
	s.calls++
	if s.err != nil {
		return types.WeatherData{}, s.err
	}
	out := s.current
	out.Location = location
	return out, nil
}

func (s *stubWeather) Forecast(_ context.Context, _ string, _ int) ([]types.ForecastEntry, error) {
	s.forecasts++
	if s.err != nil {
		return nil, s.err
	}
	return s.forecast, nil
}

type stubCountry struct {
	info  types.CountryInfo
	err   error
	calls int
}

func (s *stubCountry) Lookup(_ context.Context, _ string) (types.CountryInfo, error) {
	s.calls++
	if s.err != nil {
		return types.CountryInfo{}, s.err
	}
	return s.info, nil
}

func newSessionWithDestination(dest string) *types.Session {
	s := types.NewSession("test-session")
	s.Context.SetDestination(dest)
	return s
}

func TestPlanStrategy(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		weather  bool
		forecast bool
		country  bool
	}{
		{"explicit weather", "what's the weather in town?", true, false, false},
		{"forecast beats weather", "what's the forecast for next week?", false, true, false},
		{"country facts", "tell me about the local culture and currency", false, false, true},
		{"packing is contextual weather", "what to pack for the trip?", true, false, false},
		{"general travel stays dry", "any hidden gems or great restaurants?", false, false, false},
		{"weather plus culture", "weather there? and what language do they speak", true, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := PlanStrategy(tt.message, "Lisbon", nil)
			assert.Equal(t, tt.weather, s.Weather.Fetch, "weather")
			assert.Equal(t, tt.forecast, s.Forecast.Fetch, "forecast")
			assert.Equal(t, tt.country, s.Country.Fetch, "country")
		})
	}
}

func TestPlanStrategyNeedsDestination(t *testing.T) {
	s := PlanStrategy("what's the weather?", "", nil)
	assert.True(t, s.Empty())
}

func TestPlanStrategyRelevanceFallback(t *testing.T) {
	// No request keyword fires; "season" and "plan" only reach the threshold
	// through the relevance score.
	analytical := &types.Profile{DecisionPattern: "Analytical"}
	s := PlanStrategy("help me plan around the high season", "Lisbon", analytical)
	assert.True(t, s.Weather.Fetch)
	assert.Greater(t, s.Weather.Priority, fetchThreshold)
}

func TestGatherLiveThenCached(t *testing.T) {
	weather := &stubWeather{current: types.WeatherData{Temperature: 18.5, Condition: "clear"}}
	country := &stubCountry{}
	a := New(weather, country, NewMemoryStore())
	session := newSessionWithDestination("Lisbon")

	res := a.Gather(context.Background(), "what's the weather like?", session, nil)
	require.NotNil(t, res.Weather)
	assert.Equal(t, types.SourceLive, res.Origins[ClassWeather].Source)
	assert.Equal(t, 1, weather.calls)

	res = a.Gather(context.Background(), "what's the weather like?", session, nil)
	require.NotNil(t, res.Weather)
	assert.Equal(t, types.SourceCached, res.Weather.Source)
	assert.Equal(t, types.SourceCached, res.Origins[ClassWeather].Source)
	assert.Equal(t, 1, weather.calls, "second gather must come from the cache")
}

func TestGatherServesStaleOnProviderFailure(t *testing.T) {
	now := time.Now()
	clock := &now
	weather := &stubWeather{current: types.WeatherData{Temperature: 20, Condition: "sunny"}}
	a := New(weather, &stubCountry{}, NewMemoryStore(),
		WithClock(func() time.Time { return *clock }),
	)
	session := newSessionWithDestination("Lisbon")

	res := a.Gather(context.Background(), "how hot is it?", session, nil)
	require.Equal(t, types.SourceLive, res.Origins[ClassWeather].Source)

	// Entry ages past the fresh TTL but stays inside the stale window.
	aged := now.Add(TTLFor(ClassWeather) + 10*time.Minute)
	clock = &aged
	weather.err = errors.New("upstream down")

	res = a.Gather(context.Background(), "how hot is it?", session, nil)
	require.NotNil(t, res.Weather)
	assert.Equal(t, types.SourceStale, res.Weather.Source)
	assert.Equal(t, types.SourceStale, res.Origins[ClassWeather].Source)
	assert.InDelta(t, 20.0, res.Weather.Temperature, 0.001)
}

func TestGatherDegradesWhenNothingCached(t *testing.T) {
	weather := &stubWeather{err: errors.New("upstream down")}
	a := New(weather, &stubCountry{}, NewMemoryStore())
	session := newSessionWithDestination("Lisbon")

	res := a.Gather(context.Background(), "what's the temperature?", session, nil)
	require.NotNil(t, res.Weather, "degraded provider values still surface")
	assert.InDelta(t, degradedConfidence, res.Origins[ClassWeather].Confidence, 0.001)
}

func TestGatherThrottleFallsBackToStale(t *testing.T) {
	weather := &stubWeather{current: types.WeatherData{Temperature: 15}}
	a := New(weather, &stubCountry{}, NewMemoryStore(), WithRateLimits(1, 0))
	session := newSessionWithDestination("Lisbon")

	// First call consumes the single token and seeds the cache.
	res := a.Gather(context.Background(), "what's the weather?", session, nil)
	require.Equal(t, types.SourceLive, res.Origins[ClassWeather].Source)

	// A different destination misses the cache and hits the empty limiter.
	other := newSessionWithDestination("Porto")
	res = a.Gather(context.Background(), "what's the weather?", other, nil)
	assert.Nil(t, res.Weather)
	assert.Equal(t, 1, weather.calls)
}

func TestGatherSkipsRecentlySurfacedWeather(t *testing.T) {
	now := time.Now()
	weather := &stubWeather{current: types.WeatherData{Temperature: 12}}
	a := New(weather, &stubCountry{}, NewMemoryStore(),
		WithClock(func() time.Time { return now }),
	)
	session := newSessionWithDestination("Lisbon")
	session.Context.MarkWeatherMentioned("Lisbon", now.Add(-10*time.Minute))

	// Packing only scores contextual weather, so the repeat window wins.
	res := a.Gather(context.Background(), "what should I pack?", session, nil)
	assert.Nil(t, res.Weather)
	assert.Zero(t, weather.calls)

	// Asking for weather by name overrides the window.
	res = a.Gather(context.Background(), "no really, what's the weather?", session, nil)
	assert.NotNil(t, res.Weather)
}

func TestGatherCountry(t *testing.T) {
	country := &stubCountry{info: types.CountryInfo{
		Name:    "Portugal",
		Capital: "Lisbon",
	}}
	a := New(&stubWeather{}, country, NewMemoryStore())
	session := newSessionWithDestination("Portugal")

	res := a.Gather(context.Background(), "what currency do they use?", session, nil)
	require.NotNil(t, res.Country)
	assert.Equal(t, "Portugal", res.Country.Name)
	assert.Equal(t, types.SourceLive, res.Origins[ClassCountry].Source)
	assert.False(t, res.Empty())
}

func TestMemoryStoreEvictsOldestBatch(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	base := time.Now()

	for i := 0; i < memoryMaxEntries; i++ {
		entry := Entry{Data: []byte("{}"), StoredAt: base.Add(time.Duration(i) * time.Second)}
		require.NoError(t, store.Set(ctx, fmt.Sprintf("key-%d", i), entry, time.Hour))
	}
	require.Equal(t, memoryMaxEntries, store.Len())

	entry := Entry{Data: []byte("{}"), StoredAt: base.Add(time.Hour)}
	require.NoError(t, store.Set(ctx, "overflow", entry, time.Hour))

	assert.Equal(t, memoryMaxEntries-memoryEvictBatch+1, store.Len())

	// The oldest entries went first; the newest survivors stayed.
	_, ok, err := store.Get(ctx, "key-0")
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = store.Get(ctx, fmt.Sprintf("key-%d", memoryMaxEntries-1))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisStoreRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	store := NewRedisStoreWithClient(client, "test")
	defer store.Close()

	ctx := context.Background()
	entry := Entry{
		Data:       []byte(`{"temperature":21.5}`),
		StoredAt:   time.Now().UTC().Truncate(time.Second),
		Confidence: liveConfidence,
	}
	require.NoError(t, store.Set(ctx, "weather:lisbon", entry, time.Hour))

	got, ok, err := store.Get(ctx, "weather:lisbon")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, entry.Data, got.Data)
	assert.True(t, entry.StoredAt.Equal(got.StoredAt))

	// Retention maps onto the key TTL.
	mr.FastForward(2 * time.Hour)
	_, ok, err = store.Get(ctx, "weather:lisbon")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = store.Get(ctx, "never-set")
	require.NoError(t, err)
	assert.False(t, ok)
}
