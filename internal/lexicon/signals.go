package lexicon

// Quality and recovery signal lists. All matching is lower-cased substring
// containment, the same way the profiling tables work.

var (
	satisfactionSignals    = []string{"perfect", "exactly", "great", "helpful", "thank you", "thanks"}
	dissatisfactionSignals = []string{"not what", "confused", "don't understand", "not helpful"}

	specificityWords = []string{"specific", "detail", "exactly", "precisely"}
	enthusiasmWords  = []string{"excited", "love", "amazing", "perfect", "exactly"}

	depthProbeWords      = []string{"why", "how", "what about", "tell me more"}
	depthReflectionWords = []string{"experience", "feel", "think", "prefer"}

	decisionIndicators = []string{"decided", "booked", "will go", "planning to"}
)

var (
	frustrationIndicators = []string{
		"this doesn't help", "not what i asked", "you don't understand",
		"this is wrong", "that's not helpful", "i already told you",
		"you're not listening", "this is confusing", "start over",
		"why this long", "too verbose", "too much text", "keep it short",
	}

	confusionIndicators = []string{
		"what are we talking about", "i'm lost", "can we start over",
		"i don't follow", "that doesn't make sense", "completely off topic",
	}

	ambiguityIndicators = []string{
		"i meant", "actually", "no, i was asking about", "that's not what i",
		"let me clarify", "i'm looking for", "i need help with",
	}

	vagueTerms = []string{"something", "anything", "whatever", "some", "kind of", "sort of"}
)

// Topic rules score a whole exchange (user text plus reply) and tag the
// themes the quality tracker accumulates per session.
func topicTable() []TopicRule {
	return []TopicRule{
		{Name: "destinations", Weight: 2, Patterns: compileAll([]string{
			`\b(city|cities|country|countries|destination|place|location|region|area)\b`,
			`\b(visit|travel|go|trip|vacation|journey|adventure|getaway)\b`,
			`\b(capital|province|state|island|continent|territory)\b`,
		})},
		{Name: "activities", Weight: 2, Patterns: compileAll([]string{
			`\b(museum|gallery|park|beach|mountain|hiking|climbing|swimming)\b`,
			`\b(restaurant|cafe|bar|nightlife|shopping|market|festival|concert)\b`,
			`\b(tour|excursion|sightseeing|photography|art|culture|history)\b`,
			`\b(adventure|experience|activity|attraction|landmark|monument)\b`,
			`\b(sports|outdoor|nature|wildlife|scenic|entertainment)\b`,
		})},
		{Name: "planning", Weight: 1.5, Patterns: compileAll([]string{
			`\b(budget|cost|price|money|expensive|cheap|affordable)\b`,
			`\b(time|season|weather|climate|temperature|when|schedule)\b`,
			`\b(visa|passport|document|requirement|booking|reservation)\b`,
			`\b(flight|train|bus|transport|accommodation|hotel|hostel)\b`,
			`\b(pack|luggage|clothes|essentials|prepare|plan)\b`,
		})},
		{Name: "preferences", Weight: 1, Patterns: compileAll([]string{
			`\b(prefer|like|love|enjoy|hate|dislike|avoid|interested)\b`,
			`\b(want|need|looking|hoping|expecting|wish|dream)\b`,
			`\b(favorite|best|worst|amazing|terrible|beautiful|ugly)\b`,
			`\b(recommend|suggest|advice|opinion|thoughts|ideas)\b`,
		})},
		{Name: "cultural", Weight: 1.5, Patterns: compileAll([]string{
			`\b(culture|tradition|custom|etiquette|language|people|local)\b`,
			`\b(religion|spiritual|temple|church|ceremony|festival)\b`,
			`\b(food|cuisine|dish|meal|cooking|recipe|authentic)\b`,
			`\b(art|music|dance|literature|heritage|historical)\b`,
		})},
		{Name: "practical", Weight: 1, Patterns: compileAll([]string{
			`\b(safety|safe|dangerous|security|crime|precaution)\b`,
			`\b(health|medical|insurance|emergency|hospital|pharmacy)\b`,
			`\b(communication|internet|phone|language|translate)\b`,
			`\b(currency|exchange|payment|tip|bargain|negotiate)\b`,
		})},
	}
}
