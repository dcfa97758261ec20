// Package weather is the OpenWeatherMap client. Current conditions never
// fail outright: every error path returns usable degraded data with a
// non-live Source marker plus the error for logging, so a weather outage
// cannot take a conversation down with it.
package weather

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/sofialabs/sofia/internal/observability"
	"github.com/sofialabs/sofia/pkg/errors"
	"github.com/sofialabs/sofia/pkg/types"
)

const (
	// ProviderName is the identifier for this provider.
	ProviderName = "openweathermap"

	// DefaultBaseURL is the default OpenWeatherMap endpoint.
	DefaultBaseURL = "https://api.openweathermap.org/data/2.5"

	// DefaultTimeout bounds a single weather request.
	DefaultTimeout = 10 * time.Second

	// DefaultForecastDays is how far ahead Forecast looks when the caller
	// does not say. The API serves eight three-hour slots per day.
	DefaultForecastDays = 5

	slotsPerDay    = 8
	forecastLayout = "2006-01-02 15:04:05"
)

// Client fetches weather data. Construct with New; the zero value is not
// usable.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
	tracer  trace.Tracer
}

// New creates a weather client with the given options.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		client:  &http.Client{Timeout: DefaultTimeout},
		tracer:  otel.Tracer(observability.TracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// currentResponse is the OpenWeatherMap current-conditions payload, reduced
// to the fields the engine uses.
type currentResponse struct {
	Name string `json:"name"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

// forecastResponse is the OpenWeatherMap 5-day forecast payload.
type forecastResponse struct {
	List []struct {
		DtTxt string `json:"dt_txt"`
		Main  struct {
			Temp     float64 `json:"temp"`
			Humidity int     `json:"humidity"`
		} `json:"main"`
		Weather []struct {
			Main        string `json:"main"`
			Description string `json:"description"`
		} `json:"weather"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
	} `json:"list"`
}

// Current returns current conditions for a location. On any failure it
// returns degraded data (Source fallback or unavailable) together with the
// error, so the caller always has something to show and something to log.
// With no API key configured it returns fixed placeholder conditions and no
// error.
func (c *Client) Current(ctx context.Context, location string) (types.WeatherData, error) {
	if c.apiKey == "" {
		return types.WeatherData{
			Location:    location,
			Temperature: 22.0,
			Condition:   "partly cloudy",
			Description: "partly cloudy",
			Humidity:    65,
			WindSpeed:   3.5,
			Source:      types.SourceFallback,
		}, nil
	}

	query := url.Values{}
	query.Set("q", location)
	query.Set("appid", c.apiKey)
	query.Set("units", "metric")

	body, status, err := c.get(ctx, "/weather", query)
	if err != nil {
		return types.WeatherData{
			Location:    location,
			Temperature: 18.0,
			Condition:   "unknown",
			Description: "weather service temporarily unavailable",
			Humidity:    55,
			WindSpeed:   2.0,
			Source:      types.SourceUnavailable,
		}, err
	}
	if status != http.StatusOK {
		return types.WeatherData{
			Location:    location,
			Temperature: 20.0,
			Condition:   "unknown",
			Description: "weather data unavailable",
			Humidity:    50,
			WindSpeed:   0.0,
			Source:      types.SourceUnavailable,
		}, errors.NewProviderError(ProviderName, fmt.Sprintf("weather lookup for %q returned status %d", location, status))
	}

	var resp currentResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return types.WeatherData{
			Location:    location,
			Temperature: 20.0,
			Condition:   "unknown",
			Description: "weather data unavailable",
			Humidity:    50,
			WindSpeed:   0.0,
			Source:      types.SourceUnavailable,
		}, errors.NewProviderError(ProviderName, "decode weather response").WithCause(err)
	}

	data := types.WeatherData{
		Location:    resp.Name,
		Temperature: resp.Main.Temp,
		Humidity:    resp.Main.Humidity,
		WindSpeed:   resp.Wind.Speed,
		Source:      types.SourceLive,
	}
	if data.Location == "" {
		data.Location = location
	}
	if len(resp.Weather) > 0 {
		data.Condition = resp.Weather[0].Main
		data.Description = resp.Weather[0].Description
	}
	return data, nil
}

// Forecast returns up to days of three-hour forecast slots. Unlike Current
// it has no degraded rendering: without an API key or on failure it returns
// nil and the error, and the caller falls back to current conditions.
func (c *Client) Forecast(ctx context.Context, location string, days int) ([]types.ForecastEntry, error) {
	if c.apiKey == "" {
		return nil, errors.NewServiceUnavailableError(ProviderName, "no weather API key configured")
	}
	if days <= 0 {
		days = DefaultForecastDays
	}

	query := url.Values{}
	query.Set("q", location)
	query.Set("appid", c.apiKey)
	query.Set("units", "metric")
	query.Set("cnt", fmt.Sprintf("%d", days*slotsPerDay))

	body, status, err := c.get(ctx, "/forecast", query)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, errors.NewProviderError(ProviderName, fmt.Sprintf("forecast lookup for %q returned status %d", location, status))
	}

	var resp forecastResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.NewProviderError(ProviderName, "decode forecast response").WithCause(err)
	}

	entries := make([]types.ForecastEntry, 0, len(resp.List))
	for _, item := range resp.List {
		at, err := time.Parse(forecastLayout, item.DtTxt)
		if err != nil {
			continue
		}
		entry := types.ForecastEntry{
			At:          at,
			Temperature: item.Main.Temp,
			Humidity:    item.Main.Humidity,
			WindSpeed:   item.Wind.Speed,
		}
		if len(item.Weather) > 0 {
			entry.Condition = item.Weather[0].Main
			entry.Description = item.Weather[0].Description
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// get performs one GET against the API and returns the raw body and status.
// Transport failures come back as typed timeout or unavailable errors.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, int, error) {
	ctx, span := observability.StartProviderSpan(ctx, c.tracer, "weather.get"+path, ProviderName)
	defer span.End()

	u := strings.TrimSuffix(c.baseURL, "/") + path + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, errors.NewProviderError(ProviderName, "create request").WithCause(err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		observability.RecordError(span, err)
		if ctx.Err() != nil {
			return nil, 0, errors.NewTimeoutError(ProviderName, "weather request timed out").WithCause(err)
		}
		return nil, 0, errors.NewServiceUnavailableError(ProviderName, "weather service unreachable").WithCause(err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, errors.NewProviderError(ProviderName, "read weather response").WithCause(err)
	}
	return body, resp.StatusCode, nil
}
