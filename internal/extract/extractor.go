// Package extract pulls structured travel facts out of free-form user text:
// destination names, budget phrases, date references and interest tags. The
// extractor never errors; a fact that is not present simply stays at its zero
// value.
package extract

import (
	"slices"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sofialabs/sofia/internal/dates"
	"github.com/sofialabs/sofia/internal/lexicon"
	"github.com/sofialabs/sofia/pkg/types"
)

// maxDestinations bounds one message's destination yield so a single noisy
// message cannot flood the context with false positives.
const maxDestinations = 5

// contextWindow is how far around a candidate the rejection filter looks.
const contextWindow = 20

// Extractor matches user text against the lexicon's extraction tables.
type Extractor struct {
	lib *lexicon.Library
	now func() time.Time
}

// NewExtractor returns an extractor backed by the given pattern library.
func NewExtractor(lib *lexicon.Library) *Extractor {
	return &Extractor{lib: lib, now: time.Now}
}

// Destinations returns the place names mentioned in text, title-cased,
// deduplicated in first-seen order and capped. Candidates come from the
// anchored proper-noun patterns and survive the rejection filter: no
// stopwords or travel-style phrases, no digits, no determiner or ordinal
// prefixes, and no continuation into a temporal or conditional clause.
func (e *Extractor) Destinations(text string) []string {
	var candidates []string
	for _, pattern := range e.lib.DestinationPatterns {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			for _, group := range match[1:] {
				if g := strings.TrimSpace(group); g != "" {
					candidates = append(candidates, g)
				}
			}
		}
	}
	// Generic scan last, so anchored matches win the primary slot.
	candidates = append(candidates, e.lib.GenericCapitalized.FindAllString(text, -1)...)

	title := cases.Title(language.English)
	var out []string
	for _, candidate := range candidates {
		clean := title.String(candidate)
		if !e.surroundingsAllow(clean, text) || !e.looksLikePlace(clean) {
			continue
		}
		if !slices.Contains(out, clean) {
			out = append(out, clean)
			if len(out) == maxDestinations {
				break
			}
		}
	}
	return out
}

// surroundingsAllow checks the text immediately around the candidate. A
// candidate that runs straight into a temporal or conditional connective is
// part of a larger clause, not a destination. A candidate behind a hedging
// word ("about", "like") only counts when the message carries a travel
// indicator elsewhere.
func (e *Extractor) surroundingsAllow(dest, message string) bool {
	destLower := strings.ToLower(dest)
	msgLower := strings.ToLower(message)

	pos := strings.Index(msgLower, destLower)
	if pos == -1 {
		return false
	}

	after := strings.TrimSpace(clip(msgLower[pos+len(destLower):], contextWindow))
	for _, connective := range e.lib.TrailingConnectives {
		if startsWithWord(after, connective) {
			return false
		}
	}

	start := pos - contextWindow
	if start < 0 {
		start = 0
	}
	before := strings.TrimSpace(msgLower[start:pos])
	for _, hedge := range e.lib.HedgedPrecederSuffix {
		if endsWithWord(before, hedge) {
			return containsAny(msgLower, e.lib.TravelIndicators)
		}
	}
	return true
}

func (e *Extractor) looksLikePlace(dest string) bool {
	lower := strings.ToLower(dest)
	if len(lower) < 3 || e.lib.IsDestinationStopword(lower) {
		return false
	}
	for _, phrase := range e.lib.TravelStylePhrases {
		if strings.Contains(lower, phrase) {
			return false
		}
	}
	for _, prefix := range e.lib.NonDestinationStarts {
		if strings.HasPrefix(lower, prefix) {
			return false
		}
	}
	if strings.ContainsAny(dest, "0123456789") {
		return false
	}
	first, _ := utf8.DecodeRuneInString(dest)
	return unicode.IsUpper(first)
}

// Budget returns the first budget phrase found in text, full matched span,
// or "" when the message carries none.
func (e *Extractor) Budget(text string) string {
	for _, pattern := range e.lib.BudgetPatterns {
		if m := pattern.FindString(text); m != "" {
			return m
		}
	}
	return ""
}

// Dates returns the first date phrase found in text together with its
// resolved calendar interpretation, or nil when the message carries none.
func (e *Extractor) Dates(text string) *types.TravelDates {
	for _, pattern := range e.lib.DatePatterns {
		if raw := pattern.FindString(text); raw != "" {
			return dates.ResolveTravelDates(raw, e.now())
		}
	}
	return nil
}

// Interests returns the interest tags whose keyword clusters fire on text,
// in table order.
func (e *Extractor) Interests(text string) []string {
	lower := strings.ToLower(text)
	var tags []string
	for _, cluster := range e.lib.Interests {
		for _, keyword := range cluster.Keywords {
			if strings.Contains(lower, keyword) {
				tags = append(tags, cluster.Tag)
				break
			}
		}
	}
	return tags
}

// UpdateContext folds everything extractable from one user message into the
// context: primary destination (with switch bookkeeping), budget, dates and
// interests, plus exactly one conversation-depth increment.
func (e *Extractor) UpdateContext(ctx *types.Context, text string) {
	if dests := e.Destinations(text); len(dests) > 0 {
		ctx.SetDestination(dests[0])
	}
	if budget := e.Budget(text); budget != "" {
		ctx.Budget = budget
	}
	if dates := e.Dates(text); dates != nil {
		ctx.TravelDates = dates
	}
	ctx.AddInterests(e.Interests(text)...)
	ctx.ConversationDepth++
}

func clip(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func startsWithWord(s, word string) bool {
	if !strings.HasPrefix(s, word) {
		return false
	}
	return len(s) == len(word) || !isWordByte(s[len(word)])
}

func endsWithWord(s, word string) bool {
	if !strings.HasSuffix(s, word) {
		return false
	}
	boundary := len(s) - len(word)
	return boundary == 0 || !isWordByte(s[boundary-1])
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
