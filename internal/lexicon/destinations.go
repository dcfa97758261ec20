package lexicon

// Destination patterns run against the case-preserved message so the
// proper-noun capture groups stay meaningful. The anchor words are matched
// case-insensitively; the trailing-connective rejection that the source
// patterns expressed as lookaheads lives in the extractor's context filter.
var destinationPatterns = []string{
	// Direct travel action verbs.
	`\b(?i:visit|visiting|go to|going to|traveling to|trip to|fly to|heading to|bound for)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+){0,2})\b`,
	`\b(?i:from|leaving)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)\s+(?i:to|for)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)\b`,

	// Preposition anchors.
	`\b(?i:in|at|around|near)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)\b`,
	`\b(?i:about)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)\b`,

	// Question anchors.
	`\b(?i:how's)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)\b`,

	// Possessive anchors.
	`\b([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)'s\s+(?i:weather|climate|food|culture|people|attractions|museums|restaurants|nightlife|beaches|mountains|history|customs|traditions)\b`,

	// Comparisons.
	`\b(?i:than|versus|vs\.?|compared to)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)\b`,
	`\b([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)\s+(?i:vs\.?|versus)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)\b`,

	// Trip descriptors and traversal verbs.
	`\b([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)\s+(?i:trip|vacation|journey|adventure|getaway)\b`,
	`\b(?i:through|across)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)\b`,

	// Aggressive location-indicator scan.
	`\b(?i:to|exploring)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)\b`,
}

// genericCapitalizedPattern picks up capitalized multi-word tokens the
// anchored patterns miss, so a bare "Reykjavik!" reply still registers.
// Candidates from this scan pass the same rejection filter as the rest.
const genericCapitalizedPattern = `\b[A-Z][a-z]{2,}(?:\s+[A-Z][a-z]+)*\b`

// destinationStopwords are lower-cased tokens that pattern matching captures
// but that are never place names. The generic capitalized scan makes every
// sentence-initial word a candidate, so question words, modals and filler
// words live here too.
var destinationStopwords = []string{
	// Common words that get capitalized.
	"trip", "travel", "vacation", "visit", "going", "planning", "to", "in", "at", "from",
	"the", "and", "or", "but", "with", "like", "about", "what", "how", "when", "where",
	"why", "who", "which", "this", "that", "these", "those",
	"pack", "weather", "climate", "best", "season", "time", "good", "great", "nice",
	"beautiful", "perfect", "there", "here", "place", "places", "destination",
	"country", "city", "area",
	// Question openers, modals and conversational filler.
	"should", "would", "could", "will", "can", "might", "must", "tell", "thanks",
	"thank", "hello", "sounds", "okay", "maybe", "sure", "yes", "also", "really",
	"actually", "wait", "just", "solo",
	// Days, months, relative days.
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
	"january", "february", "march", "april", "may", "june", "july", "august",
	"september", "october", "november", "december", "today", "tomorrow", "yesterday",
	"day", "week", "month", "year",
	// Common adjectives.
	"amazing", "incredible", "wonderful", "terrible", "expensive", "cheap", "hot", "cold",
	"warm", "cool", "wet", "dry", "new", "old", "young", "big", "small", "large",
	"little", "long", "short", "high", "low", "same", "different",
	// Quantifiers and ordinals.
	"first", "second", "third", "last", "next", "previous", "many", "much", "some",
	"all", "every", "each", "both", "either", "neither", "other", "another",
	// Common nouns.
	"people", "person", "man", "woman", "family", "friend", "friends",
	"hotel", "restaurant", "museum", "beach", "mountain", "river", "lake",
	// Internet and social media brands.
	"instagram", "facebook", "google", "youtube", "reddit", "twitter",
	// General travel terms.
	"money", "cost", "price", "budget", "food", "culture", "language", "airport",
	"flight", "train", "bus", "car", "taxi", "uber", "hostel", "airbnb",
	// Travel-style phrases that get captured whole.
	"first solo", "solo trip", "solo travel", "first time", "next adventure",
	"adventure trip", "photography trip", "landscape photography", "northern lights",
	"my trip", "my vacation", "my travel", "group trip", "family trip",
}

// travelStylePhrases reject candidates that contain a travel-style phrase
// anywhere, not only as the whole token.
var travelStylePhrases = []string{
	"first solo", "solo trip", "solo travel", "first time", "next adventure",
	"adventure trip", "photography trip", "landscape photography", "northern lights",
	"my trip", "my vacation", "my travel", "group trip", "family trip",
	"bucket list", "dream destination", "perfect place",
}

// nonDestinationStarts reject candidates that begin with a determiner or
// ordinal rather than a place name.
var nonDestinationStarts = []string{
	"the ", "a ", "an ", "my ", "your ", "our ", "their ", "first ", "next ", "last ",
}

// trailingConnectives reject a candidate when the text immediately after it
// continues into a temporal or conditional clause.
var trailingConnectives = []string{
	"before", "after", "while", "when", "if", "unless", "during",
	"since", "until", "and then", "or", "but", "however",
	"in order", "in case", "in time", "in general",
}

// hedgedPrecederSuffixes mark weak anchors ("tell me about X", "like X");
// candidates behind them need a travel indicator elsewhere in the message.
var hedgedPrecederSuffixes = []string{
	"about", "like", "such as", "including",
}

// travelIndicators are the strong travel words that rescue hedged candidates
// and back the near-context check.
var travelIndicators = []string{
	"visit", "go to", "travel", "trip", "vacation", "weather", "climate",
	"culture", "food", "people", "attractions", "museums", "restaurants",
	"hotels", "flights", "currency", "language", "visa", "passport", "customs",
}

// Known-destination lists back the contradiction heuristic of preference
// tracking. They are deliberately tiny: recognizing a handful of well-known
// places is enough to stop a landscape-photography trip from silently turning
// into a city break, and nothing here pretends to be a geographic database.
var (
	knownDestinations = []string{
		"iceland", "banff", "new zealand", "norway", "patagonia", "dolomites",
		"paris", "tokyo", "new york", "london", "barcelona",
	}
	landscapeDestinations = []string{
		"iceland", "banff", "new zealand", "norway", "patagonia", "dolomites",
	}
	cityDestinations = []string{
		"paris", "tokyo", "new york", "london", "barcelona",
	}
)

// Interest preference triggers used by the engine's preference pass.
var (
	landscapeInterestWords = []string{"landscape", "photography", "incredible landscapes"}
	soloInterestWords      = []string{"solo", "first", "alone", "overwhelmed"}
	cityInterestWords      = []string{"city break", "urban", "city experiences", "big city"}
)

var budgetPatterns = []string{
	`\$(\d+(?:,\d+)*(?:\.\d{2})?)`,
	`(?i)(\d+(?:,\d+)*)\s*dollars?`,
	`(?i)budget.*?(\d+(?:,\d+)*)`,
	`(?i)\b(cheap|budget|luxury|expensive|mid-range|affordable)\b`,
}

var datePatterns = []string{
	`(?i)\b(january|february|march|april|may|june|july|august|september|october|november|december)\s+(\d{1,2}(?:st|nd|rd|th)?)`,
	`\b(\d{1,2})/(\d{1,2})/(\d{2,4})`,
	`(?i)\b(next|this)\s+(week|month|year|spring|summer|fall|autumn|winter)\b`,
	`(?i)\b(in|during)\s+(january|february|march|april|may|june|july|august|september|october|november|december)\b`,
}

func interestClusters() []InterestCluster {
	return []InterestCluster{
		{Tag: "museums", Keywords: []string{"museum", "art", "gallery", "culture", "history"}},
		{Tag: "food", Keywords: []string{"restaurant", "food", "cuisine", "dining", "eat"}},
		{Tag: "nightlife", Keywords: []string{"nightlife", "bar", "club", "party", "drink"}},
		{Tag: "nature", Keywords: []string{"nature", "park", "hiking", "outdoor", "beach", "mountain"}},
		{Tag: "shopping", Keywords: []string{"shopping", "market", "shop", "buy", "souvenir"}},
		{Tag: "architecture", Keywords: []string{"architecture", "building", "church", "temple", "monument"}},
		{Tag: "couples", Keywords: []string{"couple", "romantic", "honeymoon", "date"}},
		{Tag: "family", Keywords: []string{"family", "kids", "children", "child"}},
		{Tag: "adventure", Keywords: []string{"adventure", "extreme", "thrill", "adrenaline"}},
	}
}
