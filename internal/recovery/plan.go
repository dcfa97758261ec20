package recovery

import (
	"fmt"
	"strings"

	"github.com/sofialabs/sofia/pkg/types"
)

// Plan is a ready-to-send recovery turn: the reply text, follow-up
// suggestions the client can offer, and the strategy that produced them.
type Plan struct {
	Kind        Kind     `json:"kind"`
	Strategy    Strategy `json:"strategy"`
	Response    string   `json:"response"`
	Suggestions []string `json:"suggestions"`
}

// BuildPlan renders the recovery turn for a detected issue. The session is
// read only to summarize what the conversation has established so far; the
// plan never mutates it.
func BuildPlan(issue Issue, session *types.Session) Plan {
	plan := Plan{
		Kind:     issue.Kind,
		Strategy: SelectStrategy(issue.Kind, issue.Confidence),
	}

	switch issue.Kind {
	case KindFrustration:
		plan.Response = "I can sense this isn't quite hitting the mark for you, and I apologize. " +
			"Let me take a step back and make sure I understand exactly what you're looking for. " +
			"Could you help me by sharing what specific aspect of your travel planning feels most important to get right?"
		plan.Suggestions = []string{
			"Start fresh with your main travel question",
			"Tell me what went wrong with my previous responses",
			"Let me know your top priority for this trip",
		}
	case KindConfusion:
		plan.Response = fmt.Sprintf(
			"I think we might have gotten a bit tangled up in our conversation. Let me clarify where we are: %s. "+
				"Does this match what you're looking for, or should we start fresh with your main travel question?",
			contextSummary(session))
		plan.Suggestions = []string{
			"Yes, that's right - let's continue",
			"No, let me explain what I actually need",
			"Let's start over with my main question",
		}
	case KindAmbiguity:
		plan.Response = "I want to make sure I understand exactly what you're looking for help with. " +
			"I can help you with several different aspects of travel planning. Which of these is your main priority right now?"
		plan.Suggestions = []string{
			"Finding the right destination",
			"Planning activities and experiences",
			"Practical travel logistics",
		}
	case KindInvalidResponse:
		plan.Response = "Let me give you a more helpful response to your question. " +
			"I want to make sure I provide the specific, actionable travel advice you're looking for rather than general information."
		plan.Suggestions = []string{
			"Give me more specific details to work with",
			"Ask about a particular aspect",
			"Tell me what kind of answer would be most helpful",
		}
	default:
		plan.Response = "I want to make sure I give you the most helpful travel advice possible. " +
			"Let me approach your question from a different angle to better serve your travel planning needs."
		plan.Suggestions = []string{
			"Help me understand your main travel goal",
			"Share more context about your situation",
			"Ask about a specific part of travel planning",
		}
	}
	return plan
}

// intentSummaries spell out intents inside the confusion recovery reply.
var intentSummaries = map[types.Intent]string{
	types.IntentDestinationInquiry: "finding destinations",
	types.IntentActivityRequest:    "planning activities",
	types.IntentWeatherCheck:       "checking weather conditions",
	types.IntentPracticalAdvice:    "practical travel logistics",
}

// contextSummary describes what the session has established so far, in
// sentence position ("we're discussing travel to X and focusing on Y").
func contextSummary(session *types.Session) string {
	if session == nil {
		return "your travel planning needs"
	}

	var parts []string
	if session.Context.CurrentDestination != "" {
		parts = append(parts, "we're discussing travel to "+session.Context.CurrentDestination)
	}
	if len(session.Intents) > 0 {
		var focuses []string
		for _, intent := range session.Intents {
			if summary, ok := intentSummaries[intent]; ok {
				focuses = append(focuses, summary)
			} else {
				focuses = append(focuses, string(intent))
			}
		}
		parts = append(parts, "focusing on "+strings.Join(focuses, ", "))
	}
	if session.Context.Budget != "" {
		parts = append(parts, fmt.Sprintf("with a %s budget", session.Context.Budget))
	}

	if len(parts) == 0 {
		return "your travel planning needs"
	}
	return strings.Join(parts, " and ")
}
