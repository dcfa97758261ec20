// Package quality scores each user/assistant exchange and accumulates a
// rolling per-session memory of topics, decisions and score trends. The
// memory feeds the progress and follow-through scores of later exchanges;
// it is bounded, so a long-lived session never grows it past a fixed size.
package quality

import (
	"math"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/sofialabs/sofia/internal/lexicon"
	"github.com/sofialabs/sofia/pkg/types"
)

// Rolling memory bounds. When a list crosses its cap it is truncated to the
// keep size, dropping the oldest entries.
const (
	topicsCap  = 20
	topicsKeep = 15
	trendCap   = 50
	trendKeep  = 30
)

const (
	topicScoreThreshold  = 1.0
	maxTopicsPerExchange = 10
	decisionWeight       = 0.3
)

// Decision is one commitment the user voiced, kept verbatim with the time it
// was recorded.
type Decision struct {
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// TrendPoint is one engagement/relevance sample in a session's history.
type TrendPoint struct {
	Engagement float64   `json:"engagement"`
	Relevance  float64   `json:"relevance"`
	At         time.Time `json:"at"`
}

// Memory is the rolling quality record for one session.
type Memory struct {
	Topics    []string
	Decisions []Decision
	Trend     []TrendPoint
}

// Tracker measures exchange quality and keeps bounded per-session memory.
// It carries its own lock and never touches the session store, so tracking
// can run after the session commit without re-entering the store's locks.
type Tracker struct {
	lib *lexicon.Library

	mu       sync.Mutex
	sessions map[string]*Memory

	now func() time.Time
}

// NewTracker returns a tracker backed by the given pattern library.
func NewTracker(lib *lexicon.Library) *Tracker {
	return &Tracker{
		lib:      lib,
		sessions: make(map[string]*Memory),
		now:      time.Now,
	}
}

// Track scores one exchange and folds it into the session's rolling memory.
// Progress and follow-through are measured against the memory as it stood
// before this exchange, so the first call for a session reports the 0.5
// baseline for both.
func (t *Tracker) Track(sessionID, userText, replyText string) types.QualityMetrics {
	t.mu.Lock()
	defer t.mu.Unlock()

	mem := t.sessions[sessionID]
	lower := strings.ToLower(userText)

	metrics := types.QualityMetrics{
		Engagement:      t.engagement(userText, lower),
		Relevance:       relevance(userText, replyText),
		Progress:        progress(mem),
		DepthQuality:    t.depthQuality(userText, lower),
		FollowThrough:   followThrough(mem, lower),
		Satisfaction:    containsAny(lower, t.lib.SatisfactionSignals),
		Dissatisfaction: containsAny(lower, t.lib.DissatisfactionSignals),
	}

	t.recordLocked(sessionID, mem, metrics, userText, replyText)
	return metrics
}

// Memory returns a copy of the session's rolling record. The second return
// is false when the session has never been tracked.
func (t *Tracker) Memory(sessionID string) (Memory, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	mem, ok := t.sessions[sessionID]
	if !ok {
		return Memory{}, false
	}
	return Memory{
		Topics:    slices.Clone(mem.Topics),
		Decisions: slices.Clone(mem.Decisions),
		Trend:     slices.Clone(mem.Trend),
	}, true
}

// Forget drops a session's quality record. Unknown ids are a no-op.
func (t *Tracker) Forget(sessionID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.sessions, sessionID)
}

// engagement starts at a 0.5 baseline and adds for length, questions,
// specificity and enthusiasm, capped at 1.
func (t *Tracker) engagement(userText, lower string) float64 {
	score := 0.5
	if len(userText) > 50 {
		score += 0.2
	}
	if strings.Contains(userText, "?") {
		score += 0.1
	}
	if containsAny(lower, t.lib.SpecificityWords) {
		score += 0.1
	}
	if containsAny(lower, t.lib.EnthusiasmWords) {
		score += 0.1
	}
	return math.Min(score, 1.0)
}

// relevance is the share of the user's distinct tokens that reappear in the
// reply. A reply echoing nothing scores 0; echoing every user token scores 1.
func relevance(userText, replyText string) float64 {
	user := tokenSet(userText)
	if len(user) == 0 {
		return 0
	}
	reply := tokenSet(replyText)

	overlap := 0
	for tok := range user {
		if _, ok := reply[tok]; ok {
			overlap++
		}
	}
	return math.Min(float64(overlap)/float64(len(user)), 1.0)
}

// progress weighs the decisions recorded so far. Before any memory exists
// there is nothing to measure against, so it reports the neutral 0.5.
func progress(mem *Memory) float64 {
	if mem == nil {
		return 0.5
	}
	return math.Min(float64(len(mem.Decisions))*decisionWeight, 1.0)
}

// depthQuality averages four indicators of an invested message: detail
// (length), questions, probing words and reflective words.
func (t *Tracker) depthQuality(userText, lower string) float64 {
	hits := 0
	if len(userText) > 80 {
		hits++
	}
	if strings.Contains(userText, "?") {
		hits++
	}
	if containsAny(lower, t.lib.DepthProbeWords) {
		hits++
	}
	if containsAny(lower, t.lib.DepthReflectionWords) {
		hits++
	}
	return float64(hits) / 4
}

// followThrough rewards a message that picks up one of the last three topics
// on record, 0.3 per topic, capped at 1.
func followThrough(mem *Memory, lower string) float64 {
	if mem == nil {
		return 0.5
	}

	recent := mem.Topics
	if len(recent) > 3 {
		recent = recent[len(recent)-3:]
	}

	score := 0.0
	for _, topic := range recent {
		for _, word := range strings.Fields(strings.ToLower(topic)) {
			if strings.Contains(lower, word) {
				score += 0.3
				break
			}
		}
	}
	return math.Min(score, 1.0)
}

// recordLocked folds the exchange into the session's memory and applies the
// size caps. The caller holds t.mu; mem is the entry looked up under that
// same hold, nil when the session is new.
func (t *Tracker) recordLocked(sessionID string, mem *Memory, metrics types.QualityMetrics, userText, replyText string) {
	if mem == nil {
		mem = &Memory{}
		t.sessions[sessionID] = mem
	}
	at := t.now()

	mem.Topics = append(mem.Topics, t.topics(userText+" "+replyText)...)

	if containsAny(strings.ToLower(userText), t.lib.DecisionIndicators) {
		mem.Decisions = append(mem.Decisions, Decision{Text: userText, At: at})
	}

	mem.Trend = append(mem.Trend, TrendPoint{
		Engagement: metrics.Engagement,
		Relevance:  metrics.Relevance,
		At:         at,
	})

	// Truncations reallocate so the trimmed slices stop pinning the old
	// backing arrays.
	if len(mem.Topics) > topicsCap {
		mem.Topics = slices.Clone(mem.Topics[len(mem.Topics)-topicsKeep:])
	}
	if len(mem.Trend) > trendCap {
		mem.Trend = slices.Clone(mem.Trend[len(mem.Trend)-trendKeep:])
	}
}

// topics names the themes of one exchange. Each rule scores match-count times
// weight across its patterns; rules at or above the threshold contribute
// their name, and three fixed pairings add a combined theme.
func (t *Tracker) topics(text string) []string {
	lower := strings.ToLower(text)

	var topics []string
	for _, rule := range t.lib.Topics {
		score := 0.0
		for _, pat := range rule.Patterns {
			score += float64(len(pat.FindAllString(lower, -1))) * rule.Weight
		}
		if score >= topicScoreThreshold {
			topics = append(topics, rule.Name)
		}
	}

	if slices.Contains(topics, "destinations") && slices.Contains(topics, "preferences") {
		topics = append(topics, "destination_preferences")
	}
	if slices.Contains(topics, "activities") && slices.Contains(topics, "cultural") {
		topics = append(topics, "cultural_activities")
	}
	if slices.Contains(topics, "planning") && slices.Contains(topics, "practical") {
		topics = append(topics, "trip_logistics")
	}

	if len(topics) > maxTopicsPerExchange {
		topics = topics[:maxTopicsPerExchange]
	}
	return topics
}

func tokenSet(text string) map[string]struct{} {
	fields := strings.Fields(strings.ToLower(text))
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
