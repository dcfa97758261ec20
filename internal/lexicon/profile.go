package lexicon

// Profiling tables. Keyword hits count twice for an archetype, anti-keyword
// hits count once against it; plain tables score by keyword count alone.
// Table order doubles as the tie-break order.

func archetypeTable() []KeywordProfile {
	return []KeywordProfile{
		{
			Name:         "Explorer",
			Keywords:     []string{"adventure", "explore", "discover", "unknown", "off-beaten", "remote"},
			AntiKeywords: []string{"familiar", "safe", "predictable", "crowded"},
		},
		{
			Name:         "Connoisseur",
			Keywords:     []string{"authentic", "local", "culture", "history", "art", "cuisine", "wine", "craft"},
			AntiKeywords: []string{"tourist", "mainstream", "commercial"},
		},
		{
			Name:         "Connector",
			Keywords:     []string{"people", "locals", "community", "social", "friends", "meet", "interact"},
			AntiKeywords: []string{"alone", "solo", "quiet"},
		},
		{
			Name:         "Creator",
			Keywords:     []string{"photography", "art", "workshop", "learn", "create", "inspire", "document"},
			AntiKeywords: []string{"passive", "just looking"},
		},
		{
			Name:         "Seeker",
			Keywords:     []string{"spiritual", "meaning", "growth", "transform", "mindful", "reflection", "meditation"},
			AntiKeywords: []string{"party", "nightlife", "busy"},
		},
	}
}

func energyTable() []KeywordList {
	return []KeywordList{
		{Name: "Steady", Keywords: []string{"consistent", "daily", "routine", "regular", "plan", "schedule"}},
		{Name: "Burst", Keywords: []string{"intense", "full-day", "packed", "maximize", "everything"}},
		{Name: "Adaptive", Keywords: []string{"flexible", "spontaneous", "depends", "maybe", "see how"}},
		{Name: "Low-key", Keywords: []string{"relaxed", "slow", "casual", "easy", "comfortable"}},
	}
}

func decisionTable() []KeywordList {
	return []KeywordList{
		{Name: "Analytical", Keywords: []string{"research", "compare", "data", "reviews", "details", "facts"}},
		{Name: "Intuitive", Keywords: []string{"feel", "sense", "vibe", "instinct", "drawn to", "speaks to"}},
		{Name: "Collaborative", Keywords: []string{"partner", "group", "family", "together", "we", "us"}},
		{Name: "Decisive", Keywords: []string{"decided", "booked", "confirmed", "definitely", "sure"}},
	}
}

func motivationTable() []KeywordList {
	return []KeywordList{
		{Name: "Adventure", Keywords: []string{"adventure", "thrill", "excitement", "adrenaline"}},
		{Name: "Learning", Keywords: []string{"learn", "understand", "history", "culture", "knowledge"}},
		{Name: "Relaxation", Keywords: []string{"relax", "unwind", "peaceful", "calm", "spa"}},
		{Name: "Connection", Keywords: []string{"connect", "meet", "people", "social", "community"}},
		{Name: "Status", Keywords: []string{"luxury", "exclusive", "premium", "prestigious", "vip"}},
		{Name: "Authenticity", Keywords: []string{"authentic", "real", "local", "traditional", "genuine"}},
	}
}

var (
	riskHighIndicators = []string{"adventure", "challenge", "extreme", "dangerous", "risky"}
	riskLowIndicators  = []string{"safe", "secure", "comfortable", "familiar", "easy"}
)

func lifeStageTable() []KeywordList {
	return []KeywordList{
		{Name: "Young-Professional", Keywords: []string{"career", "work", "job", "networking", "professional"}},
		{Name: "Family", Keywords: []string{"family", "kids", "children", "parents", "together"}},
		{Name: "Couple", Keywords: []string{"partner", "boyfriend", "girlfriend", "husband", "wife", "together"}},
		{Name: "Solo-Explorer", Keywords: []string{"solo", "alone", "myself", "independent"}},
		{Name: "Retiree", Keywords: []string{"retirement", "golden years", "finally", "time"}},
	}
}

var (
	formalToneIndicators = []string{"would like", "could you please", "i would appreciate"}
	casualToneIndicators = []string{"gonna", "wanna", "yeah", "cool", "awesome"}
)
