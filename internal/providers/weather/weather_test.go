package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sofialabs/sofia/pkg/errors"
	"github.com/sofialabs/sofia/pkg/types"
)

const currentPayload = `{
	"name": "Reykjavik",
	"main": {"temp": 4.2, "humidity": 81},
	"weather": [{"main": "Clouds", "description": "overcast clouds"}],
	"wind": {"speed": 7.1}
}`

const forecastPayload = `{
	"list": [
		{
			"dt_txt": "2025-06-12 09:00:00",
			"main": {"temp": 5.0, "humidity": 78},
			"weather": [{"main": "Rain", "description": "light rain"}],
			"wind": {"speed": 6.0}
		},
		{
			"dt_txt": "not a timestamp",
			"main": {"temp": 6.0, "humidity": 70},
			"weather": [{"main": "Clouds", "description": "scattered clouds"}],
			"wind": {"speed": 4.0}
		},
		{
			"dt_txt": "2025-06-12 12:00:00",
			"main": {"temp": 7.5, "humidity": 66},
			"weather": [],
			"wind": {"speed": 3.2}
		}
	]
}`

func TestCurrentWithoutKey(t *testing.T) {
	c := New()

	data, err := c.Current(context.Background(), "Reykjavik")
	require.NoError(t, err)
	assert.Equal(t, types.SourceFallback, data.Source)
	assert.Equal(t, "Reykjavik", data.Location)
	assert.InDelta(t, 22.0, data.Temperature, 1e-9)
	assert.Equal(t, "partly cloudy", data.Condition)
	assert.Equal(t, 65, data.Humidity)
	assert.InDelta(t, 3.5, data.WindSpeed, 1e-9)
}

func TestCurrentLive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/weather", r.URL.Path)
		assert.Equal(t, "Reykjavik", r.URL.Query().Get("q"))
		assert.Equal(t, "test-key", r.URL.Query().Get("appid"))
		assert.Equal(t, "metric", r.URL.Query().Get("units"))
		_, _ = w.Write([]byte(currentPayload))
	}))
	defer srv.Close()

	c := New(WithAPIKey("test-key"), WithBaseURL(srv.URL))

	data, err := c.Current(context.Background(), "Reykjavik")
	require.NoError(t, err)
	assert.Equal(t, types.SourceLive, data.Source)
	assert.Equal(t, "Reykjavik", data.Location)
	assert.InDelta(t, 4.2, data.Temperature, 1e-9)
	assert.Equal(t, "Clouds", data.Condition)
	assert.Equal(t, "overcast clouds", data.Description)
	assert.Equal(t, 81, data.Humidity)
	assert.InDelta(t, 7.1, data.WindSpeed, 1e-9)
}

func TestCurrentBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"city not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(WithAPIKey("test-key"), WithBaseURL(srv.URL))

	data, err := c.Current(context.Background(), "Atlantis")
	require.Error(t, err)
	assert.Equal(t, types.SourceUnavailable, data.Source)
	assert.Equal(t, "Atlantis", data.Location)
	assert.InDelta(t, 20.0, data.Temperature, 1e-9)
	assert.Equal(t, "unknown", data.Condition)
	assert.Equal(t, "weather data unavailable", data.Description)
	assert.Equal(t, 50, data.Humidity)
	assert.Zero(t, data.WindSpeed)
}

func TestCurrentTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := New(WithAPIKey("test-key"), WithBaseURL(srv.URL))

	data, err := c.Current(context.Background(), "Reykjavik")
	require.Error(t, err)
	assert.True(t, errors.IsRetryable(err))
	assert.Equal(t, types.SourceUnavailable, data.Source)
	assert.InDelta(t, 18.0, data.Temperature, 1e-9)
	assert.Equal(t, "weather service temporarily unavailable", data.Description)
	assert.Equal(t, 55, data.Humidity)
	assert.InDelta(t, 2.0, data.WindSpeed, 1e-9)
}

func TestForecast(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/forecast", r.URL.Path)
		assert.Equal(t, "40", r.URL.Query().Get("cnt"))
		_, _ = w.Write([]byte(forecastPayload))
	}))
	defer srv.Close()

	c := New(WithAPIKey("test-key"), WithBaseURL(srv.URL))

	entries, err := c.Forecast(context.Background(), "Reykjavik", 0)
	require.NoError(t, err)
	// The malformed timestamp entry is dropped.
	require.Len(t, entries, 2)

	assert.Equal(t, time.Date(2025, time.June, 12, 9, 0, 0, 0, time.UTC), entries[0].At)
	assert.InDelta(t, 5.0, entries[0].Temperature, 1e-9)
	assert.Equal(t, "Rain", entries[0].Condition)

	assert.Equal(t, time.Date(2025, time.June, 12, 12, 0, 0, 0, time.UTC), entries[1].At)
	assert.Empty(t, entries[1].Condition)
}

func TestForecastWithoutKey(t *testing.T) {
	c := New()

	entries, err := c.Forecast(context.Background(), "Reykjavik", 5)
	require.Error(t, err)
	assert.Nil(t, entries)
}

func TestCurrentContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		_, _ = w.Write([]byte(currentPayload))
	}))
	defer srv.Close()

	c := New(WithAPIKey("test-key"), WithBaseURL(srv.URL))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	data, err := c.Current(ctx, "Reykjavik")
	require.Error(t, err)
	assert.Equal(t, types.SourceUnavailable, data.Source)
	assert.InDelta(t, 18.0, data.Temperature, 1e-9)
}
