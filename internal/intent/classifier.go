// Package intent classifies the purpose behind user messages by matching
// them against the lexicon's pattern tables.
package intent

import (
	"strings"

	"github.com/sofialabs/sofia/internal/lexicon"
	"github.com/sofialabs/sofia/pkg/types"
)

// Classifier detects user intents. Classification never fails: ambiguous or
// empty input resolves to a default intent by policy.
type Classifier struct {
	lib *lexicon.Library
}

// NewClassifier builds a classifier over the given pattern library.
func NewClassifier(lib *lexicon.Library) *Classifier {
	return &Classifier{lib: lib}
}

// Detect returns the intents found in message, ordered and deduplicated.
// The first element is the primary intent; the slice is never empty.
//
// Matching runs in three passes. The explicit pass tests every category's
// patterns against the lower-cased message, first match per category wins.
// When the context carries an established destination, an implicit pass
// infers WeatherCheck from bare weather mentions ("how's it there") and, if
// nothing at all matched, ActivityRequest from generic follow-ups. Finally
// the fallback guarantees a non-empty result: ActivityRequest when a
// destination is established, DestinationInquiry otherwise.
func (c *Classifier) Detect(message string, ctx types.Context) []types.Intent {
	lower := strings.ToLower(message)

	var detected []types.Intent
	for _, entry := range c.lib.Intents {
		for _, pattern := range entry.Patterns {
			if pattern.MatchString(lower) {
				detected = appendIntent(detected, entry.Intent)
				break
			}
		}
	}

	if ctx.CurrentDestination != "" {
		if !hasIntent(detected, types.IntentWeatherCheck) {
			for _, pattern := range c.lib.ImplicitWeather {
				if pattern.MatchString(lower) {
					detected = appendIntent(detected, types.IntentWeatherCheck)
					break
				}
			}
		}

		if len(detected) == 0 {
			for _, pattern := range c.lib.ImplicitActivity {
				if pattern.MatchString(lower) {
					detected = appendIntent(detected, types.IntentActivityRequest)
					break
				}
			}
		}

		if len(detected) == 0 {
			detected = appendIntent(detected, types.IntentActivityRequest)
		}
	}

	if len(detected) == 0 {
		detected = appendIntent(detected, types.IntentDestinationInquiry)
	}

	return detected
}

func appendIntent(intents []types.Intent, intent types.Intent) []types.Intent {
	if hasIntent(intents, intent) {
		return intents
	}
	return append(intents, intent)
}

func hasIntent(intents []types.Intent, intent types.Intent) bool {
	for _, i := range intents {
		if i == intent {
			return true
		}
	}
	return false
}
