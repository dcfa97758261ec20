// Package recovery watches a conversation for signs it is going off the
// rails: a frustrated user, a thread that lost its context, a message too
// ambiguous to act on, or an assistant reply that failed its own quality
// bar. Detection is scored, thresholded per kind, and never mutates the
// session. A separate pure decision table picks the recovery strategy, and
// Plan renders the canned recovery reply for it.
package recovery

import (
	"math"
	"strings"

	"github.com/sofialabs/sofia/internal/lexicon"
	"github.com/sofialabs/sofia/pkg/types"
)

// Kind classifies one detected conversation problem.
type Kind string

const (
	KindFrustration     Kind = "user_frustration"
	KindConfusion       Kind = "context_confusion"
	KindAmbiguity       Kind = "intent_ambiguity"
	KindInvalidResponse Kind = "invalid_response"
)

// Strategy names how the assistant should recover from a detected problem.
type Strategy string

const (
	StrategyGracefulFallback     Strategy = "graceful_fallback"
	StrategyContextReset         Strategy = "context_reset"
	StrategyClarificationRequest Strategy = "clarification_request"
	StrategyEscalation           Strategy = "escalation"
)

// Issue pairs a detected problem with the confidence of the detection.
type Issue struct {
	Kind       Kind    `json:"kind"`
	Confidence float64 `json:"confidence"`
}

// Critical reports whether the issue is strong enough to preempt normal
// processing and answer with a recovery reply instead.
func (i Issue) Critical() bool { return i.Confidence > criticalThreshold }

// Per-kind detection thresholds. A score below its threshold is dropped;
// scores are capped at 1. Thresholds are inclusive so that two plain
// frustration indicators, the weakest signal worth acting on, still flag.
const (
	frustrationThreshold = 0.6
	confusionThreshold   = 0.5
	ambiguityThreshold   = 0.4
	criticalThreshold    = 0.7
)

// Scoring weights.
const (
	frustrationIndicatorWeight = 0.3
	repeatSimilarityWeight     = 0.2
	capsRatioWeight            = 0.2
	stackedPunctuationWeight   = 0.1

	confusionIndicatorWeight = 0.4
	lowRelevanceWeight       = 0.3

	ambiguityIndicatorWeight = 0.3
	vagueTermWeight          = 0.1
	vagueTermCap             = 0.3
	multiQuestionWeight      = 0.2

	repeatSimilarityFloor = 0.7
	capsRatioFloor        = 0.3
	lowRelevanceCeiling   = 0.2
)

// genericReplyPhrases are template openers that signal a reply saying
// nothing. Three or more of them in one reply fails the quality check.
var genericReplyPhrases = []string{
	"i'd be happy to help", "great question", "let me help you with that",
	"there are many options", "it depends on", "that's a good point",
}

// Classifier scores user messages against the session history. It is
// stateless beyond the pattern library and safe for concurrent use.
type Classifier struct {
	lib *lexicon.Library
}

// NewClassifier returns a classifier backed by the given pattern library.
func NewClassifier(lib *lexicon.Library) *Classifier {
	return &Classifier{lib: lib}
}

// DetectIssues scores the inbound user text against the session history and,
// when reply is non-empty, checks that candidate reply's quality too. Each
// kind is thresholded independently, so a single turn can surface zero, one,
// or several issues. Detection never fails and never touches the session.
func (c *Classifier) DetectIssues(userText string, session *types.Session, reply string) []Issue {
	lower := strings.ToLower(userText)

	var issues []Issue
	if score := c.frustration(userText, lower, session); score >= frustrationThreshold {
		issues = append(issues, Issue{Kind: KindFrustration, Confidence: score})
	}
	if score := c.confusion(lower, session); score >= confusionThreshold {
		issues = append(issues, Issue{Kind: KindConfusion, Confidence: score})
	}
	if score := c.ambiguity(lower); score >= ambiguityThreshold {
		issues = append(issues, Issue{Kind: KindAmbiguity, Confidence: score})
	}
	if reply != "" {
		issues = append(issues, replyIssues(userText, reply)...)
	}
	return issues
}

// frustration adds per indicator hit, for near-repeats of recent user turns,
// for shouting (caps share of letters) and for stacked punctuation.
func (c *Classifier) frustration(userText, lower string, session *types.Session) float64 {
	score := 0.0
	for _, indicator := range c.lib.FrustrationIndicators {
		if strings.Contains(lower, indicator) {
			score += frustrationIndicatorWeight
		}
	}

	// A user repeating themselves is asking again because the last answer
	// missed. Compare against the user turns of the last four messages,
	// excluding the most recent turn.
	if session != nil && len(session.Messages) > 4 {
		var recent []string
		for _, m := range session.RecentMessages(4) {
			if m.Role == types.RoleUser {
				recent = append(recent, m.Content)
			}
		}
		if len(recent) > 0 {
			recent = recent[:len(recent)-1]
		}
		for _, prev := range recent {
			if jaccard(strings.ToLower(prev), lower) > repeatSimilarityFloor {
				score += repeatSimilarityWeight
			}
		}
	}

	if capsShare(userText) > capsRatioFloor {
		score += capsRatioWeight
	}
	if strings.Contains(userText, "!!!") || strings.Contains(userText, "???") {
		score += stackedPunctuationWeight
	}
	return math.Min(score, 1.0)
}

// confusion adds per indicator hit and for a message that shares almost no
// vocabulary with the assistant's last turn.
func (c *Classifier) confusion(lower string, session *types.Session) float64 {
	score := 0.0
	for _, indicator := range c.lib.ConfusionIndicators {
		if strings.Contains(lower, indicator) {
			score += confusionIndicatorWeight
		}
	}

	if session != nil && len(session.Messages) > 2 {
		if last, ok := session.LastAssistantMessage(); ok {
			if overlapShare(lower, strings.ToLower(last.Content)) < lowRelevanceCeiling {
				score += lowRelevanceWeight
			}
		}
	}
	return math.Min(score, 1.0)
}

// ambiguity adds per indicator hit, per vague term up to a cap, and for a
// message stacking more than two questions.
func (c *Classifier) ambiguity(lower string) float64 {
	score := 0.0
	for _, indicator := range c.lib.AmbiguityIndicators {
		if strings.Contains(lower, indicator) {
			score += ambiguityIndicatorWeight
		}
	}

	vague := 0
	for _, term := range c.lib.VagueTerms {
		if strings.Contains(lower, term) {
			vague++
		}
	}
	score += math.Min(float64(vague)*vagueTermWeight, vagueTermCap)

	if strings.Count(lower, "?") > 2 {
		score += multiQuestionWeight
	}
	return math.Min(score, 1.0)
}

// replyIssues checks a candidate assistant reply: a terse reply to a long
// question, or a reply stuffed with template phrases, both flag as invalid.
func replyIssues(userText, reply string) []Issue {
	var issues []Issue
	if len(userText) > 100 && len(reply) < 50 {
		issues = append(issues, Issue{Kind: KindInvalidResponse, Confidence: 0.7})
	}

	lowerReply := strings.ToLower(reply)
	generic := 0
	for _, phrase := range genericReplyPhrases {
		if strings.Contains(lowerReply, phrase) {
			generic++
		}
	}
	if generic > 2 {
		issues = append(issues, Issue{Kind: KindInvalidResponse, Confidence: 0.5})
	}
	return issues
}

// SelectStrategy is the pure decision table mapping a detected issue to the
// way out. High-confidence frustration escalates, high-confidence confusion
// resets context, anything else above 0.5 asks for clarification, and weak
// signals fall back gracefully.
func SelectStrategy(kind Kind, confidence float64) Strategy {
	if confidence > 0.8 {
		switch kind {
		case KindFrustration:
			return StrategyEscalation
		case KindConfusion:
			return StrategyContextReset
		}
	}
	if confidence > 0.5 {
		return StrategyClarificationRequest
	}
	return StrategyGracefulFallback
}

// jaccard measures word-set similarity between two texts, 0 when either is
// empty.
func jaccard(a, b string) float64 {
	setA := wordSet(a)
	setB := wordSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for w := range setA {
		if _, ok := setB[w]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

// overlapShare is the share of a's distinct words that also appear in b.
func overlapShare(a, b string) float64 {
	setA := wordSet(a)
	setB := wordSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	overlap := 0
	for w := range setA {
		if _, ok := setB[w]; ok {
			overlap++
		}
	}
	return float64(overlap) / float64(len(setA))
}

// capsShare is the share of letters written in upper case.
func capsShare(text string) float64 {
	letters, upper := 0, 0
	for _, r := range text {
		switch {
		case r >= 'A' && r <= 'Z':
			letters++
			upper++
		case r >= 'a' && r <= 'z':
			letters++
		}
	}
	if letters == 0 {
		return 0
	}
	return float64(upper) / float64(letters)
}

func wordSet(text string) map[string]struct{} {
	fields := strings.Fields(text)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
