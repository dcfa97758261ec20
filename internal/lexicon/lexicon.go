// Package lexicon holds the static pattern tables the engine matches user
// text against: intent patterns, destination extraction patterns and their
// rejection lists, budget and date patterns, interest keyword clusters, the
// psychological profiling tables, and the conversation-quality signal lists.
//
// The tables are data, not code. They are compiled once at startup and the
// resulting Library is immutable; every classifier and extractor receives a
// *Library and only ever reads from it. An optional YAML overlay can extend
// (never replace) selected tables, see LoadOverlay.
package lexicon

import (
	"regexp"

	"github.com/sofialabs/sofia/pkg/types"
)

// IntentPatterns is the ordered pattern list for one intent. Within a
// category the first matching pattern wins; scanning then moves on to the
// next category.
type IntentPatterns struct {
	Intent   types.Intent
	Patterns []*regexp.Regexp
}

// KeywordProfile scores text for one named trait: keyword hits count for it,
// anti-keyword hits count against it.
type KeywordProfile struct {
	Name         string
	Keywords     []string
	AntiKeywords []string
}

// KeywordList scores text for one named trait by plain keyword counting.
type KeywordList struct {
	Name     string
	Keywords []string
}

// InterestCluster maps a set of trigger keywords to one interest tag.
type InterestCluster struct {
	Tag      string
	Keywords []string
}

// TopicRule detects one conversation topic by weighted pattern counting.
type TopicRule struct {
	Name     string
	Patterns []*regexp.Regexp
	Weight   float64
}

// Library is the complete compiled pattern set. Field groups mirror the
// components that consume them.
type Library struct {
	// Intent classification.
	Intents          []IntentPatterns
	ImplicitWeather  []*regexp.Regexp
	ImplicitActivity []*regexp.Regexp

	// Destination extraction. Patterns run against the case-preserved text;
	// capture groups hold the candidate place names.
	DestinationPatterns  []*regexp.Regexp
	GenericCapitalized   *regexp.Regexp
	DestinationStopwords map[string]struct{}
	TravelStylePhrases   []string
	NonDestinationStarts []string
	TrailingConnectives  []string
	HedgedPrecederSuffix []string
	TravelIndicators     []string

	// Budget and date extraction, first match per list wins.
	BudgetPatterns []*regexp.Regexp
	DatePatterns   []*regexp.Regexp

	// Interest tagging.
	Interests []InterestCluster

	// Psychological profiling. Order matters: ties break toward the earlier
	// entry, and the Default* fields name the all-zero fallbacks.
	Archetypes       []KeywordProfile
	DefaultArchetype string
	Energies         []KeywordList
	DefaultEnergy    string
	Decisions        []KeywordList
	DefaultDecision  string
	Motivations      []KeywordList
	DefaultMotive    string
	RiskHigh         []string
	RiskLow          []string
	LifeStages       []KeywordList
	DefaultLifeStage string
	FormalTone       []string
	CasualTone       []string

	// Conversation quality and recovery signals.
	SatisfactionSignals    []string
	DissatisfactionSignals []string
	FrustrationIndicators  []string
	ConfusionIndicators    []string
	AmbiguityIndicators    []string
	VagueTerms             []string
	SpecificityWords       []string
	EnthusiasmWords        []string
	DepthProbeWords        []string
	DepthReflectionWords   []string
	DecisionIndicators     []string
	Topics                 []TopicRule

	// Preference tracking. The destination lists are small contradiction
	// heuristics over well-known places, not a geographic database.
	LandscapeInterestWords []string
	SoloInterestWords      []string
	CityInterestWords      []string
	KnownDestinations      []string
	LandscapeDestinations  []string
	CityDestinations       []string
}

// Default builds the built-in library. It panics on malformed patterns,
// which can only happen when the tables themselves are edited.
func Default() *Library {
	lib := &Library{
		Intents:          intentTable(),
		ImplicitWeather:  compileAll(implicitWeatherPatterns),
		ImplicitActivity: compileAll(implicitActivityPatterns),

		DestinationPatterns:  compileAll(destinationPatterns),
		GenericCapitalized:   regexp.MustCompile(genericCapitalizedPattern),
		DestinationStopwords: toSet(destinationStopwords),
		TravelStylePhrases:   travelStylePhrases,
		NonDestinationStarts: nonDestinationStarts,
		TrailingConnectives:  trailingConnectives,
		HedgedPrecederSuffix: hedgedPrecederSuffixes,
		TravelIndicators:     travelIndicators,

		BudgetPatterns: compileAll(budgetPatterns),
		DatePatterns:   compileAll(datePatterns),

		Interests: interestClusters(),

		Archetypes:       archetypeTable(),
		DefaultArchetype: "Explorer",
		Energies:         energyTable(),
		DefaultEnergy:    "Adaptive",
		Decisions:        decisionTable(),
		DefaultDecision:  "Intuitive",
		Motivations:      motivationTable(),
		DefaultMotive:    "Adventure",
		RiskHigh:         riskHighIndicators,
		RiskLow:          riskLowIndicators,
		LifeStages:       lifeStageTable(),
		DefaultLifeStage: "General",
		FormalTone:       formalToneIndicators,
		CasualTone:       casualToneIndicators,

		SatisfactionSignals:    satisfactionSignals,
		DissatisfactionSignals: dissatisfactionSignals,
		FrustrationIndicators:  frustrationIndicators,
		ConfusionIndicators:    confusionIndicators,
		AmbiguityIndicators:    ambiguityIndicators,
		VagueTerms:             vagueTerms,
		SpecificityWords:       specificityWords,
		EnthusiasmWords:        enthusiasmWords,
		DepthProbeWords:        depthProbeWords,
		DepthReflectionWords:   depthReflectionWords,
		DecisionIndicators:     decisionIndicators,
		Topics:                 topicTable(),

		LandscapeInterestWords: landscapeInterestWords,
		SoloInterestWords:      soloInterestWords,
		CityInterestWords:      cityInterestWords,
		KnownDestinations:      knownDestinations,
		LandscapeDestinations:  landscapeDestinations,
		CityDestinations:       cityDestinations,
	}
	return lib
}

// IsDestinationStopword reports whether the lower-cased candidate is a known
// non-destination token.
func (l *Library) IsDestinationStopword(lower string) bool {
	_, ok := l.DestinationStopwords[lower]
	return ok
}

// IsLandscapeDestination reports whether the lower-cased place is on the
// known landscape-destination list.
func (l *Library) IsLandscapeDestination(lower string) bool {
	return containsString(l.LandscapeDestinations, lower)
}

// IsCityDestination reports whether the lower-cased place is on the known
// city-destination list.
func (l *Library) IsCityDestination(lower string) bool {
	return containsString(l.CityDestinations, lower)
}

func compileAll(patterns []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(p)
	}
	return out
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
