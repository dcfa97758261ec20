// Package flow computes conversation state transitions. The machine is pure:
// Next only reads its inputs, so callers decide when a computed transition is
// committed to the session.
package flow

import "github.com/sofialabs/sofia/pkg/types"

// depthThreshold is the conversation depth past which every untabled
// transition converges on recommendation refinement.
const depthThreshold = 8

type transitionKey struct {
	state  types.State
	intent types.Intent
}

// Machine maps (current state, primary intent) pairs to the next state and
// applies depth and intent fallbacks when the table has no entry.
type Machine struct {
	transitions map[transitionKey]types.State
}

// NewMachine returns the machine with the built-in transition table.
// RecommendationRefinement deliberately has no outgoing entries; it always
// resolves through the fallbacks and can therefore still leave.
func NewMachine() *Machine {
	t := map[transitionKey]types.State{
		{types.StateGreeting, types.IntentDestinationInquiry}: types.StateDestinationPlanning,
		{types.StateGreeting, types.IntentActivityRequest}:    types.StateActivityDiscovery,
		{types.StateGreeting, types.IntentPracticalAdvice}:    types.StatePracticalPlanning,

		{types.StateDestinationPlanning, types.IntentActivityRequest}: types.StateActivityDiscovery,
		{types.StateDestinationPlanning, types.IntentWeatherCheck}:    types.StateContextEnrichment,
		{types.StateDestinationPlanning, types.IntentCulturalInfo}:    types.StateContextEnrichment,
		{types.StateDestinationPlanning, types.IntentPracticalAdvice}: types.StatePracticalPlanning,

		{types.StateActivityDiscovery, types.IntentDestinationInquiry}: types.StateRecommendationRefinement,
		{types.StateActivityDiscovery, types.IntentPracticalAdvice}:    types.StatePracticalPlanning,
		{types.StateActivityDiscovery, types.IntentWeatherCheck}:       types.StateContextEnrichment,

		{types.StatePracticalPlanning, types.IntentActivityRequest}:    types.StateActivityDiscovery,
		{types.StatePracticalPlanning, types.IntentDestinationInquiry}: types.StateRecommendationRefinement,

		{types.StateContextEnrichment, types.IntentActivityRequest}:    types.StateActivityDiscovery,
		{types.StateContextEnrichment, types.IntentDestinationInquiry}: types.StateRecommendationRefinement,
	}
	return &Machine{transitions: t}
}

// Next returns the state the conversation should move to. Empty intents keep
// the current state. Otherwise the first intent is primary: a table entry
// wins, then conversations past the depth threshold converge on
// recommendation refinement, then the primary intent alone picks a default.
func (m *Machine) Next(current types.State, intents []types.Intent, ctx types.Context) types.State {
	if len(intents) == 0 {
		return current
	}
	primary := intents[0]

	if next, ok := m.transitions[transitionKey{current, primary}]; ok {
		return next
	}

	if ctx.ConversationDepth > depthThreshold {
		return types.StateRecommendationRefinement
	}

	switch primary {
	case types.IntentDestinationInquiry:
		return types.StateDestinationPlanning
	case types.IntentActivityRequest:
		return types.StateActivityDiscovery
	case types.IntentPracticalAdvice, types.IntentBudgetPlanning:
		return types.StatePracticalPlanning
	default:
		return types.StateContextEnrichment
	}
}
