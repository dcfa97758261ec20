package recovery

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sofialabs/sofia/internal/lexicon"
	"github.com/sofialabs/sofia/pkg/types"
)

func newTestClassifier() *Classifier {
	return NewClassifier(lexicon.Default())
}

func sessionWith(msgs ...types.Message) *types.Session {
	s := types.NewSession("recovery-test")
	for _, m := range msgs {
		s.Append(m)
	}
	return s
}

func user(text string) types.Message {
	return types.Message{Role: types.RoleUser, Content: text}
}

func assistant(text string) types.Message {
	return types.Message{Role: types.RoleAssistant, Content: text}
}

func issueByKind(issues []Issue, kind Kind) (Issue, bool) {
	for _, i := range issues {
		if i.Kind == kind {
			return i, true
		}
	}
	return Issue{}, false
}

func TestDetectFrustration(t *testing.T) {
	c := newTestClassifier()

	t.Run("single indicator stays below threshold", func(t *testing.T) {
		issues := c.DetectIssues("this doesn't help", nil, "")
		_, found := issueByKind(issues, KindFrustration)
		assert.False(t, found)
	})

	t.Run("two indicators reach the threshold", func(t *testing.T) {
		issues := c.DetectIssues("this is confusing, I already told you", nil, "")
		issue, found := issueByKind(issues, KindFrustration)
		require.True(t, found)
		assert.InDelta(t, 0.6, issue.Confidence, 1e-9)
		assert.Equal(t, StrategyClarificationRequest, SelectStrategy(issue.Kind, issue.Confidence))
	})

	t.Run("stacked indicators flag", func(t *testing.T) {
		issues := c.DetectIssues("this doesn't help, you don't understand, start over!!!", nil, "")
		issue, found := issueByKind(issues, KindFrustration)
		require.True(t, found)
		assert.InDelta(t, 1.0, issue.Confidence, 1e-9)
	})

	t.Run("shouting raises the score", func(t *testing.T) {
		issues := c.DetectIssues("THIS IS WRONG, START OVER", nil, "")
		issue, found := issueByKind(issues, KindFrustration)
		require.True(t, found)
		assert.InDelta(t, 0.8, issue.Confidence, 1e-9)
	})

	t.Run("repeating an earlier turn raises the score", func(t *testing.T) {
		text := "this is wrong, start over"

		// Two indicators alone score the bare threshold.
		issues := c.DetectIssues(text, nil, "")
		issue, found := issueByKind(issues, KindFrustration)
		require.True(t, found)
		assert.InDelta(t, 0.6, issue.Confidence, 1e-9)

		s := sessionWith(
			user(text),
			assistant("sorry about that"),
			user(text),
			assistant("let me try again"),
			user("ok"),
		)
		issues = c.DetectIssues(text, s, "")
		issue, found = issueByKind(issues, KindFrustration)
		require.True(t, found)
		assert.InDelta(t, 0.8, issue.Confidence, 1e-9)
	})

	t.Run("short history skips the repeat check", func(t *testing.T) {
		s := sessionWith(user("this is wrong, start over"), assistant("sorry"))
		issues := c.DetectIssues("this is wrong, start over", s, "")
		issue, found := issueByKind(issues, KindFrustration)
		require.True(t, found)
		assert.InDelta(t, 0.6, issue.Confidence, 1e-9)
	})
}

func TestDetectConfusion(t *testing.T) {
	c := newTestClassifier()

	t.Run("two indicators flag without history", func(t *testing.T) {
		issues := c.DetectIssues("i'm lost, that doesn't make sense", nil, "")
		issue, found := issueByKind(issues, KindConfusion)
		require.True(t, found)
		assert.InDelta(t, 0.8, issue.Confidence, 1e-9)
	})

	t.Run("one indicator plus unrelated history flags", func(t *testing.T) {
		s := sessionWith(
			user("tell me about tokyo"),
			assistant("tokyo has great museums and food"),
			user("nice"),
		)
		issues := c.DetectIssues("i'm lost", s, "")
		issue, found := issueByKind(issues, KindConfusion)
		require.True(t, found)
		assert.InDelta(t, 0.7, issue.Confidence, 1e-9)
	})

	t.Run("overlap with the last assistant turn suppresses the bonus", func(t *testing.T) {
		s := sessionWith(
			user("tell me about tokyo"),
			assistant("tokyo has great museums and food"),
			user("nice"),
		)
		issues := c.DetectIssues("i'm lost about tokyo museums food", s, "")
		_, found := issueByKind(issues, KindConfusion)
		assert.False(t, found)
	})
}

func TestDetectAmbiguity(t *testing.T) {
	c := newTestClassifier()

	t.Run("indicator plus vague terms flags", func(t *testing.T) {
		issues := c.DetectIssues("i'm looking for something", nil, "")
		issue, found := issueByKind(issues, KindAmbiguity)
		require.True(t, found)
		// "something" also contains "some", so two vague hits land.
		assert.InDelta(t, 0.5, issue.Confidence, 1e-9)
	})

	t.Run("questions alone stay below threshold", func(t *testing.T) {
		issues := c.DetectIssues("where? when? how?", nil, "")
		_, found := issueByKind(issues, KindAmbiguity)
		assert.False(t, found)
	})

	t.Run("vague term bonus caps", func(t *testing.T) {
		issues := c.DetectIssues("i meant something, anything, whatever? maybe? not sure? you pick?", nil, "")
		issue, found := issueByKind(issues, KindAmbiguity)
		require.True(t, found)
		assert.InDelta(t, 0.8, issue.Confidence, 1e-9)
	})
}

func TestReplyIssues(t *testing.T) {
	c := newTestClassifier()
	longQuestion := strings.Repeat("I need detailed planning help for my trip. ", 3)

	t.Run("terse reply to a long question", func(t *testing.T) {
		issues := c.DetectIssues(longQuestion, nil, "Sounds fun!")
		issue, found := issueByKind(issues, KindInvalidResponse)
		require.True(t, found)
		assert.InDelta(t, 0.7, issue.Confidence, 1e-9)
	})

	t.Run("template-stuffed reply", func(t *testing.T) {
		reply := "Great question! I'd be happy to help. There are many options, and it depends on your style."
		issues := c.DetectIssues("short ask", nil, reply)
		issue, found := issueByKind(issues, KindInvalidResponse)
		require.True(t, found)
		assert.InDelta(t, 0.5, issue.Confidence, 1e-9)
	})

	t.Run("no reply means no reply checks", func(t *testing.T) {
		issues := c.DetectIssues(longQuestion, nil, "")
		_, found := issueByKind(issues, KindInvalidResponse)
		assert.False(t, found)
	})

	t.Run("adequate reply passes", func(t *testing.T) {
		issues := c.DetectIssues("short ask", nil, "Kyoto in late March catches the early cherry blossoms; book ryokan now.")
		assert.Empty(t, issues)
	})
}

func TestDetectIssuesEmptyInput(t *testing.T) {
	c := newTestClassifier()
	assert.Empty(t, c.DetectIssues("", nil, ""))
}

func TestSelectStrategy(t *testing.T) {
	tests := []struct {
		name       string
		kind       Kind
		confidence float64
		want       Strategy
	}{
		{"strong frustration escalates", KindFrustration, 0.9, StrategyEscalation},
		{"strong confusion resets", KindConfusion, 0.9, StrategyContextReset},
		{"strong ambiguity clarifies", KindAmbiguity, 0.9, StrategyClarificationRequest},
		{"medium frustration clarifies", KindFrustration, 0.7, StrategyClarificationRequest},
		{"boundary stays graceful", KindInvalidResponse, 0.5, StrategyGracefulFallback},
		{"weak signal stays graceful", KindConfusion, 0.3, StrategyGracefulFallback},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectStrategy(tt.kind, tt.confidence))
		})
	}
}

func TestIssueCritical(t *testing.T) {
	assert.True(t, Issue{Kind: KindFrustration, Confidence: 0.71}.Critical())
	assert.False(t, Issue{Kind: KindFrustration, Confidence: 0.7}.Critical())
}

func TestBuildPlan(t *testing.T) {
	t.Run("frustration plan escalates", func(t *testing.T) {
		plan := BuildPlan(Issue{Kind: KindFrustration, Confidence: 0.9}, nil)
		assert.Equal(t, StrategyEscalation, plan.Strategy)
		assert.NotEmpty(t, plan.Response)
		assert.Len(t, plan.Suggestions, 3)
	})

	t.Run("confusion plan summarizes the session", func(t *testing.T) {
		s := types.NewSession("plan-test")
		s.Context.CurrentDestination = "Kyoto"
		s.Context.Budget = "luxury"
		s.Intents = []types.Intent{types.IntentWeatherCheck}

		plan := BuildPlan(Issue{Kind: KindConfusion, Confidence: 0.9}, s)
		assert.Equal(t, StrategyContextReset, plan.Strategy)
		assert.Contains(t, plan.Response, "we're discussing travel to Kyoto")
		assert.Contains(t, plan.Response, "focusing on checking weather conditions")
		assert.Contains(t, plan.Response, "with a luxury budget")
	})

	t.Run("confusion plan without context stays generic", func(t *testing.T) {
		plan := BuildPlan(Issue{Kind: KindConfusion, Confidence: 0.9}, nil)
		assert.Contains(t, plan.Response, "your travel planning needs")
	})

	t.Run("unknown kind falls back", func(t *testing.T) {
		plan := BuildPlan(Issue{Kind: Kind("api_timeout"), Confidence: 0.4}, nil)
		assert.Equal(t, StrategyGracefulFallback, plan.Strategy)
		assert.NotEmpty(t, plan.Response)
		assert.Len(t, plan.Suggestions, 3)
	})
}
