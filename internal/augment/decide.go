package augment

import (
	"math"
	"strings"
	"time"

	"github.com/sofialabs/sofia/pkg/types"
)

// Class is one kind of external data the augmentor can gather.
type Class string

const (
	ClassWeather     Class = "weather"
	ClassForecast    Class = "forecast"
	ClassCountry     Class = "country"
	ClassEvents      Class = "events"
	ClassAttractions Class = "attractions"
)

// TTLFor returns how long cached data of a class stays fresh. Entries older
// than the TTL but younger than twice it may still be served when a live
// fetch fails.
func TTLFor(class Class) time.Duration {
	switch class {
	case ClassWeather, ClassForecast:
		return time.Hour
	case ClassCountry:
		return 7 * 24 * time.Hour
	case ClassEvents:
		return 6 * time.Hour
	case ClassAttractions:
		return 24 * time.Hour
	default:
		return 12 * time.Hour
	}
}

// Decision is the verdict for one data class.
type Decision struct {
	Fetch    bool
	Priority float64
}

// Strategy holds the per-class fetch decisions for one message. Forecast and
// weather are mutually exclusive: a forecast covers current conditions.
type Strategy struct {
	Weather  Decision
	Forecast Decision
	Country  Decision
}

// Empty reports whether no class is worth fetching.
func (s Strategy) Empty() bool {
	return !s.Weather.Fetch && !s.Forecast.Fetch && !s.Country.Fetch
}

// Scoring weights. Keyword hits dominate; the relevance fallback only runs
// when no keyword fires at all.
const (
	fetchThreshold         = 0.05
	explicitWeatherScore   = 0.9
	contextualWeatherScore = 0.6
	forecastRequestScore   = 0.9
	countryRequestScore    = 0.8
	relevanceWeight        = 0.2
	analyticalBoost        = 1.3
	intuitiveDamp          = 0.8
	planningBoost          = 1.2
)

var explicitWeatherKeywords = []string{
	"weather", "temperature", "rain", "sunny", "cloudy", "snow", "hot", "cold",
	"climate", "forecast", "degrees", "celsius", "fahrenheit", "humid", "windy",
	"what's it like", "how's the weather", "what's the temperature",
}

var contextualWeatherPhrases = []string{
	"what to pack", "what should i bring", "what to wear",
	"best time to visit", "when to go", "good time for",
}

// generalTravelPhrases mark questions that read weather-adjacent but aren't:
// packing or timing hints shouldn't drag live weather into a restaurant
// recommendation.
var generalTravelPhrases = []string{
	"hidden gems", "photo spots", "photography", "activities", "things to do",
	"restaurants", "hotels", "attractions", "sightseeing", "itinerary",
	"travel tips", "recommendations", "suggestions", "advice",
}

var forecastKeywords = []string{
	"forecast", "tomorrow", "next week", "next few days", "this week",
}

var countryKeywords = []string{
	"culture", "custom", "tradition", "language", "currency", "capital",
	"population", "food", "religion", "history", "people", "local",
}

// relevanceKeywords feed the fallback score for messages where no request
// keyword fired. Broader and fuzzier than the request lists on purpose.
var relevanceKeywords = map[Class][]string{
	ClassWeather: {
		"weather", "temperature", "climate", "rain", "pack", "wear", "season",
		"time", "forecast", "today", "tomorrow", "degrees", "celsius",
		"fahrenheit", "sunny", "cold", "hot",
	},
	ClassCountry: {
		"culture", "customs", "language", "currency", "visa", "safety", "local",
	},
}

var planningIndicators = []string{"plan", "prepare", "book", "decide", "when"}

// PlanStrategy decides which external data classes are worth fetching for
// this message. Without a destination nothing is fetched.
func PlanStrategy(message, destination string, profile *types.Profile) Strategy {
	var s Strategy
	if destination == "" {
		return s
	}

	msg := strings.ToLower(message)

	weather := 0.0
	explicit := false
	for _, kw := range explicitWeatherKeywords {
		if strings.Contains(msg, kw) {
			weather = explicitWeatherScore
			explicit = true
			break
		}
	}
	if !explicit {
		for _, phrase := range contextualWeatherPhrases {
			if strings.Contains(msg, phrase) {
				weather = contextualWeatherScore
				break
			}
		}
	}
	if weather < explicitWeatherScore && containsAny(msg, generalTravelPhrases) {
		weather = 0
	}

	forecast := 0.0
	if containsAny(msg, forecastKeywords) {
		forecast = forecastRequestScore
	}

	country := 0.0
	if containsAny(msg, countryKeywords) {
		country = countryRequestScore
	}

	if weather == 0 && forecast == 0 && country == 0 {
		weather = relevanceScore(msg, ClassWeather, profile)
		country = relevanceScore(msg, ClassCountry, profile)
	}

	if forecast > fetchThreshold {
		s.Forecast = Decision{Fetch: true, Priority: forecast}
	} else if weather > fetchThreshold {
		s.Weather = Decision{Fetch: true, Priority: weather}
	}
	if country > fetchThreshold {
		s.Country = Decision{Fetch: true, Priority: country}
	}
	return s
}

// relevanceScore estimates how much a message benefits from a data class when
// nothing asked for it outright. Analytical users get a boost because they
// lean on concrete data; intuitive users get less of it.
func relevanceScore(msg string, class Class, profile *types.Profile) float64 {
	keywords, ok := relevanceKeywords[class]
	if !ok {
		return 0
	}
	matches := 0
	for _, kw := range keywords {
		if strings.Contains(msg, kw) {
			matches++
		}
	}
	score := math.Min(float64(matches)*relevanceWeight, 1.0)

	if profile != nil {
		switch profile.DecisionPattern {
		case "Analytical":
			score *= analyticalBoost
		case "Intuitive", "":
			score *= intuitiveDamp
		}
	}
	if containsAny(msg, planningIndicators) {
		score *= planningBoost
	}
	return math.Min(score, 1.0)
}

func containsAny(msg string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}
