package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sofialabs/sofia/internal/lexicon"
	"github.com/sofialabs/sofia/pkg/types"
)

func user(content string) types.Message {
	return types.Message{Role: types.RoleUser, Content: content}
}

func assistant(content string) types.Message {
	return types.Message{Role: types.RoleAssistant, Content: content}
}

func TestAnalyzeDefaults(t *testing.T) {
	p := NewProfiler(lexicon.Default())

	got := p.Analyze(nil)

	assert.Equal(t, "Explorer", got.Archetype)
	assert.Equal(t, "Adaptive", got.EnergySignature)
	assert.Equal(t, "Intuitive", got.DecisionPattern)
	assert.Equal(t, "Direct", got.CommunicationStyle)
	assert.Equal(t, []string{"Adventure"}, got.Motivations)
	assert.Equal(t, "Moderate", got.RiskTolerance)
	assert.Equal(t, "General", got.LifeStage)
	assert.Equal(t, "Balanced", got.CulturalStyle)
}

func TestArchetype(t *testing.T) {
	p := NewProfiler(lexicon.Default())

	t.Run("keyword weight", func(t *testing.T) {
		got := p.Analyze([]types.Message{user("I crave adventure, I want to explore remote unknown places")})
		assert.Equal(t, "Explorer", got.Archetype)
	})

	t.Run("anti keywords floor the score", func(t *testing.T) {
		got := p.Analyze([]types.Message{
			user("adventure but safe, familiar and crowded is fine, mostly here for authentic cuisine"),
		})
		assert.Equal(t, "Connoisseur", got.Archetype)
	})

	t.Run("tie breaks toward earlier table entry", func(t *testing.T) {
		got := p.Analyze([]types.Message{user("photography workshop and spiritual growth")})
		assert.Equal(t, "Creator", got.Archetype)
	})
}

func TestEnergyAndDecision(t *testing.T) {
	p := NewProfiler(lexicon.Default())

	got := p.Analyze([]types.Message{user("I want to maximize everything, intense packed days")})
	assert.Equal(t, "Burst", got.EnergySignature)

	got = p.Analyze([]types.Message{user("keep it relaxed and slow, easy mornings")})
	assert.Equal(t, "Low-key", got.EnergySignature)

	got = p.Analyze([]types.Message{user("I've done my research, compared reviews and checked the data")})
	assert.Equal(t, "Analytical", got.DecisionPattern)
}

func TestCommunicationStyle(t *testing.T) {
	p := NewProfiler(lexicon.Default())

	t.Run("detailed inquiring", func(t *testing.T) {
		got := p.Analyze([]types.Message{user(
			"I'm planning a three week trip through Scandinavia in early summer and I want to understand the weather patterns, what should I pack?",
		)})
		assert.Equal(t, "Detailed-Inquiring", got.CommunicationStyle)
	})

	t.Run("concise direct", func(t *testing.T) {
		got := p.Analyze([]types.Message{user("ok"), user("sounds good")})
		assert.Equal(t, "Concise-Direct", got.CommunicationStyle)
	})

	t.Run("question heavy", func(t *testing.T) {
		got := p.Analyze([]types.Message{user(
			"What are the best neighborhoods to stay in, and is the metro safe at night?",
		)})
		assert.Equal(t, "Question-Heavy", got.CommunicationStyle)
	})

	t.Run("conversational", func(t *testing.T) {
		got := p.Analyze([]types.Message{user(
			"We are flexible about the schedule and mostly want good food.",
		)})
		assert.Equal(t, "Conversational", got.CommunicationStyle)
	})

	t.Run("assistant turns are ignored", func(t *testing.T) {
		got := p.Analyze([]types.Message{
			assistant("Here is a very long and detailed reply that should not count toward the user's communication style at all, not even a little?"),
			user("ok"),
		})
		assert.Equal(t, "Concise-Direct", got.CommunicationStyle)
	})
}

func TestMotivations(t *testing.T) {
	p := NewProfiler(lexicon.Default())

	got := p.Analyze([]types.Message{user("luxury exclusive vip suites only")})
	assert.Equal(t, []string{"Status"}, got.Motivations)

	got = p.Analyze([]types.Message{user("I want to learn the history and meet new people")})
	assert.Equal(t, []string{"Learning", "Connection"}, got.Motivations)
}

func TestRiskTolerance(t *testing.T) {
	p := NewProfiler(lexicon.Default())

	tests := []struct {
		text string
		want string
	}{
		{"extreme dangerous risky adventure challenge", "High"},
		{"keep everything familiar and comfortable, secure and easy", "Low"},
		{"a bit of adventure but keep it comfortable", "Moderate"},
	}
	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			got := p.Analyze([]types.Message{user(tc.text)})
			assert.Equal(t, tc.want, got.RiskTolerance)
		})
	}
}

func TestLifeStageAndCulturalStyle(t *testing.T) {
	p := NewProfiler(lexicon.Default())

	got := p.Analyze([]types.Message{user("traveling with my kids")})
	assert.Equal(t, "Family", got.LifeStage)

	got = p.Analyze([]types.Message{user("my first solo trip, just myself")})
	assert.Equal(t, "Solo-Explorer", got.LifeStage)

	got = p.Analyze([]types.Message{user("Could you please suggest somewhere? I would appreciate it.")})
	assert.Equal(t, "Formal-Traditional", got.CulturalStyle)

	got = p.Analyze([]types.Message{user("yeah that sounds awesome, cool")})
	assert.Equal(t, "Casual-Modern", got.CulturalStyle)
}

func TestProfileSharpensAcrossTurns(t *testing.T) {
	p := NewProfiler(lexicon.Default())

	msgs := []types.Message{user("I want adventure")}
	assert.Equal(t, "Explorer", p.Analyze(msgs).Archetype)

	msgs = append(msgs, user("actually I care most about authentic local cuisine, wine, art and history"))
	assert.Equal(t, "Connoisseur", p.Analyze(msgs).Archetype)
}
