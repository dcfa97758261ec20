// Package types defines the core data structures of the conversation engine:
// sessions, messages, travel context, conversation states, and detected
// intents. All types carry JSON tags matching the public API wire format.
package types

import "time"

// State identifies the current phase of the structured conversation flow.
type State string

const (
	StateGreeting                 State = "greeting"
	StateDestinationPlanning      State = "destination_planning"
	StateActivityDiscovery        State = "activity_discovery"
	StatePracticalPlanning        State = "practical_planning"
	StateContextEnrichment        State = "context_enrichment"
	StateRecommendationRefinement State = "recommendation_refinement"
)

// AllStates lists every conversation state. The order is stable and used by
// exhaustiveness tests.
func AllStates() []State {
	return []State{
		StateGreeting,
		StateDestinationPlanning,
		StateActivityDiscovery,
		StatePracticalPlanning,
		StateContextEnrichment,
		StateRecommendationRefinement,
	}
}

// Valid reports whether s is a known conversation state.
func (s State) Valid() bool {
	switch s {
	case StateGreeting, StateDestinationPlanning, StateActivityDiscovery,
		StatePracticalPlanning, StateContextEnrichment, StateRecommendationRefinement:
		return true
	}
	return false
}

// Intent is the classified purpose behind a single user message. A message
// may carry several intents; the first element of an intent slice is treated
// as primary by the state machine.
type Intent string

const (
	IntentDestinationInquiry Intent = "destination_inquiry"
	IntentActivityRequest    Intent = "activity_request"
	IntentWeatherCheck       Intent = "weather_check"
	IntentCulturalInfo       Intent = "cultural_info"
	IntentPracticalAdvice    Intent = "practical_advice"
	IntentBudgetPlanning     Intent = "budget_planning"
	IntentPackingHelp        Intent = "packing_help"
)

// AllIntents lists every user intent in stable order.
func AllIntents() []Intent {
	return []Intent{
		IntentDestinationInquiry,
		IntentActivityRequest,
		IntentWeatherCheck,
		IntentCulturalInfo,
		IntentPracticalAdvice,
		IntentBudgetPlanning,
		IntentPackingHelp,
	}
}

// Valid reports whether i is a known intent.
func (i Intent) Valid() bool {
	switch i {
	case IntentDestinationInquiry, IntentActivityRequest, IntentWeatherCheck,
		IntentCulturalInfo, IntentPracticalAdvice, IntentBudgetPlanning, IntentPackingHelp:
		return true
	}
	return false
}

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is a single conversation turn. Messages are immutable once
// appended to a session.
type Message struct {
	Role      Role           `json:"role"`
	Content   string         `json:"content"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// NewMessage builds a message stamped with the current time.
func NewMessage(role Role, content string) Message {
	return Message{Role: role, Content: content, Timestamp: time.Now()}
}
