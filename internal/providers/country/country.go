// Package country is the REST Countries client used to enrich replies with
// practical facts about a destination's country.
package country

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
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
	ProviderName = "restcountries"

	// DefaultBaseURL is the default REST Countries endpoint.
	DefaultBaseURL = "https://restcountries.com/v3.1"

	// DefaultTimeout bounds a single lookup.
	DefaultTimeout = 10 * time.Second
)

// Client fetches country facts. Construct with New; the zero value is not
// usable.
type Client struct {
	baseURL string
	client  *http.Client
	tracer  trace.Tracer
}

// Option configures the country client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.baseURL = url
		}
	}
}

// WithHTTPClient injects the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.client = client
		}
	}
}

// New creates a country client with the given options.
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

// countryResponse is one REST Countries record, reduced to the fields the
// engine uses. Currencies and languages arrive as maps keyed by code.
type countryResponse struct {
	Name struct {
		Common string `json:"common"`
	} `json:"name"`
	Capital    []string                   `json:"capital"`
	Population int64                      `json:"population"`
	Currencies map[string]json.RawMessage `json:"currencies"`
	Languages  map[string]string          `json:"languages"`
	Timezones  []string                   `json:"timezones"`
	Continents []string                   `json:"continents"`
}

// Lookup resolves a country by name. The API does fuzzy matching; the first
// match wins. Failures return a zero-value CountryInfo with Source
// "unavailable" and the error.
func (c *Client) Lookup(ctx context.Context, name string) (types.CountryInfo, error) {
	unavailable := types.CountryInfo{Name: name, Source: types.SourceUnavailable}

	ctx, span := observability.StartProviderSpan(ctx, c.tracer, "country.lookup", ProviderName)
	defer span.End()

	u := fmt.Sprintf("%s/name/%s?fullText=false", strings.TrimSuffix(c.baseURL, "/"), url.PathEscape(name))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return unavailable, errors.NewProviderError(ProviderName, "create request").WithCause(err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		observability.RecordError(span, err)
		if ctx.Err() != nil {
			return unavailable, errors.NewTimeoutError(ProviderName, "country lookup timed out").WithCause(err)
		}
		return unavailable, errors.NewServiceUnavailableError(ProviderName, "country service unreachable").WithCause(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return unavailable, errors.NewProviderError(ProviderName, fmt.Sprintf("country lookup for %q returned status %d", name, resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return unavailable, errors.NewProviderError(ProviderName, "read country response").WithCause(err)
	}

	var records []countryResponse
	if err := json.Unmarshal(body, &records); err != nil {
		return unavailable, errors.NewProviderError(ProviderName, "decode country response").WithCause(err)
	}
	if len(records) == 0 {
		return unavailable, errors.NewProviderError(ProviderName, fmt.Sprintf("no country matched %q", name))
	}

	record := records[0]
	info := types.CountryInfo{
		Name:       record.Name.Common,
		Population: record.Population,
		Capital:    "Unknown",
		Timezone:   "Unknown",
		Continent:  "Unknown",
		Source:     types.SourceLive,
	}
	if len(record.Capital) > 0 {
		info.Capital = record.Capital[0]
	}
	if len(record.Timezones) > 0 {
		info.Timezone = record.Timezones[0]
	}
	if len(record.Continents) > 0 {
		info.Continent = record.Continents[0]
	}
	for code := range record.Currencies {
		info.Currencies = append(info.Currencies, code)
	}
	for _, lang := range record.Languages {
		info.Languages = append(info.Languages, lang)
	}
	// Map iteration order would otherwise leak into responses and cache
	// entries.
	slices.Sort(info.Currencies)
	slices.Sort(info.Languages)
	return info, nil
}
