package types

import "time"

// DataSource marks how a piece of external data was obtained, so callers can
// tell live results from degraded fallbacks.
type DataSource string

const (
	SourceLive        DataSource = "live"
	SourceCached      DataSource = "cached"
	SourceStale       DataSource = "stale"
	SourceFallback    DataSource = "fallback"
	SourceUnavailable DataSource = "unavailable"
)

// WeatherData is the current-conditions snapshot for a location.
type WeatherData struct {
	Location    string     `json:"location"`
	Temperature float64    `json:"temperature"`
	Condition   string     `json:"condition"`
	Humidity    int        `json:"humidity"`
	WindSpeed   float64    `json:"wind_speed"`
	Description string     `json:"description"`
	Source      DataSource `json:"source,omitempty"`
}

// ForecastEntry is one three-hour forecast slot for a location.
type ForecastEntry struct {
	At          time.Time `json:"at"`
	Temperature float64   `json:"temperature"`
	Condition   string    `json:"condition"`
	Description string    `json:"description"`
	Humidity    int       `json:"humidity"`
	WindSpeed   float64   `json:"wind_speed"`
}

// CountryInfo is the practical-facts snapshot for a country.
type CountryInfo struct {
	Name       string     `json:"name"`
	Capital    string     `json:"capital"`
	Population int64      `json:"population"`
	Currencies []string   `json:"currencies"`
	Languages  []string   `json:"languages"`
	Timezone   string     `json:"timezone"`
	Continent  string     `json:"continent"`
	Source     DataSource `json:"source,omitempty"`
}
