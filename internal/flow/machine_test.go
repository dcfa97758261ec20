package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sofialabs/sofia/pkg/types"
)

func TestNextTableTransitions(t *testing.T) {
	m := NewMachine()

	tests := []struct {
		name    string
		current types.State
		primary types.Intent
		want    types.State
	}{
		{"greeting to planning", types.StateGreeting, types.IntentDestinationInquiry, types.StateDestinationPlanning},
		{"greeting to activities", types.StateGreeting, types.IntentActivityRequest, types.StateActivityDiscovery},
		{"greeting to practical", types.StateGreeting, types.IntentPracticalAdvice, types.StatePracticalPlanning},
		{"planning to enrichment on weather", types.StateDestinationPlanning, types.IntentWeatherCheck, types.StateContextEnrichment},
		{"planning to enrichment on culture", types.StateDestinationPlanning, types.IntentCulturalInfo, types.StateContextEnrichment},
		{"activities to refinement on new destination", types.StateActivityDiscovery, types.IntentDestinationInquiry, types.StateRecommendationRefinement},
		{"practical back to activities", types.StatePracticalPlanning, types.IntentActivityRequest, types.StateActivityDiscovery},
		{"enrichment to refinement on new destination", types.StateContextEnrichment, types.IntentDestinationInquiry, types.StateRecommendationRefinement},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := m.Next(tc.current, []types.Intent{tc.primary}, types.Context{})
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNextFallbacks(t *testing.T) {
	m := NewMachine()

	t.Run("intent fallback when table misses", func(t *testing.T) {
		got := m.Next(types.StateGreeting, []types.Intent{types.IntentWeatherCheck}, types.Context{})
		assert.Equal(t, types.StateContextEnrichment, got)

		got = m.Next(types.StateGreeting, []types.Intent{types.IntentBudgetPlanning}, types.Context{})
		assert.Equal(t, types.StatePracticalPlanning, got)
	})

	t.Run("refinement has no table exits but still leaves", func(t *testing.T) {
		got := m.Next(types.StateRecommendationRefinement, []types.Intent{types.IntentActivityRequest}, types.Context{})
		assert.Equal(t, types.StateActivityDiscovery, got)

		got = m.Next(types.StateRecommendationRefinement, []types.Intent{types.IntentDestinationInquiry}, types.Context{})
		assert.Equal(t, types.StateDestinationPlanning, got)
	})

	t.Run("deep conversations converge on refinement", func(t *testing.T) {
		deep := types.Context{ConversationDepth: depthThreshold + 1}

		got := m.Next(types.StateGreeting, []types.Intent{types.IntentPackingHelp}, deep)
		assert.Equal(t, types.StateRecommendationRefinement, got)

		// A table entry still outranks the depth override.
		got = m.Next(types.StateGreeting, []types.Intent{types.IntentDestinationInquiry}, deep)
		assert.Equal(t, types.StateDestinationPlanning, got)
	})

	t.Run("threshold is exclusive", func(t *testing.T) {
		atThreshold := types.Context{ConversationDepth: depthThreshold}
		got := m.Next(types.StateGreeting, []types.Intent{types.IntentPackingHelp}, atThreshold)
		assert.Equal(t, types.StateContextEnrichment, got)
	})
}

func TestNextEmptyIntentsKeepsState(t *testing.T) {
	m := NewMachine()
	for _, state := range types.AllStates() {
		assert.Equal(t, state, m.Next(state, nil, types.Context{}))
	}
}

func TestNextIsTotal(t *testing.T) {
	m := NewMachine()
	for _, depth := range []int{0, depthThreshold + 1} {
		ctx := types.Context{ConversationDepth: depth}
		for _, state := range types.AllStates() {
			for _, intent := range types.AllIntents() {
				got := m.Next(state, []types.Intent{intent}, ctx)
				assert.Truef(t, got.Valid(), "state %s intent %s depth %d yielded %q", state, intent, depth, got)
			}
		}
	}
}

func TestNextOnlyPrimaryIntentMatters(t *testing.T) {
	m := NewMachine()

	intents := []types.Intent{types.IntentWeatherCheck, types.IntentDestinationInquiry}
	got := m.Next(types.StateDestinationPlanning, intents, types.Context{})
	assert.Equal(t, types.StateContextEnrichment, got)
}
