package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sofialabs/sofia/internal/lexicon"
	"github.com/sofialabs/sofia/internal/recovery"
	"github.com/sofialabs/sofia/internal/store"
	"github.com/sofialabs/sofia/pkg/types"
)

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	sessions := store.NewMemoryStore(store.Config{})
	t.Cleanup(func() { _ = sessions.Close() })
	return New(sessions, lexicon.Default(), opts...)
}

func TestProcessMessageIcelandScenario(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	session, intents, err := e.ProcessMessage(ctx, "I want to visit Iceland for landscape photography", "")
	require.NoError(t, err)

	assert.Equal(t, "Iceland", session.Context.CurrentDestination)
	assert.Contains(t, session.Context.Interests, "landscape_photography")
	assert.Contains(t, intents, types.IntentDestinationInquiry)
	assert.Equal(t, types.StateDestinationPlanning, session.State)
	assert.Equal(t, 1, session.Context.ConversationDepth)
}

func TestImplicitWeatherAfterDestination(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	session, _, err := e.ProcessMessage(ctx, "I'm heading to Tokyo", "")
	require.NoError(t, err)
	require.Equal(t, "Tokyo", session.Context.CurrentDestination)

	session, intents, err := e.ProcessMessage(ctx, "What's the weather like there?", session.ID)
	require.NoError(t, err)

	assert.Contains(t, intents, types.IntentWeatherCheck)
	assert.Equal(t, "Tokyo", session.Context.CurrentDestination)
}

func TestCityDestinationSuppressedByLandscapeInterest(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	t.Run("same message", func(t *testing.T) {
		session, _, err := e.ProcessMessage(ctx, "I want to visit Paris for landscape photography", "")
		require.NoError(t, err)

		assert.Contains(t, session.Context.Interests, "landscape_photography")
		assert.Empty(t, session.Context.CurrentDestination)
	})

	t.Run("later message", func(t *testing.T) {
		session, _, err := e.ProcessMessage(ctx, "I'm after incredible landscapes and photography spots", "")
		require.NoError(t, err)
		require.Contains(t, session.Context.Interests, "landscape_photography")

		session, _, err = e.ProcessMessage(ctx, "How about Paris?", session.ID)
		require.NoError(t, err)
		assert.Empty(t, session.Context.CurrentDestination)
	})

	t.Run("landscape destination still accepted", func(t *testing.T) {
		session, _, err := e.ProcessMessage(ctx, "I'm after incredible landscapes and photography spots", "")
		require.NoError(t, err)

		session, _, err = e.ProcessMessage(ctx, "How about Iceland?", session.ID)
		require.NoError(t, err)
		assert.Equal(t, "Iceland", session.Context.CurrentDestination)
	})
}

func TestDestinationFitsInterests(t *testing.T) {
	e := newTestEngine(t)

	var ctx types.Context
	assert.True(t, e.destinationFitsInterests("paris", &ctx))

	ctx.AddInterests("landscape_photography")
	assert.False(t, e.destinationFitsInterests("paris", &ctx))
	assert.True(t, e.destinationFitsInterests("iceland", &ctx))

	// A stated city-type interest lifts the suppression again.
	ctx.AddInterests("big city weekends")
	assert.True(t, e.destinationFitsInterests("paris", &ctx))
}

func TestConversationDepthCountsProcessedMessages(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	session, _, err := e.ProcessMessage(ctx, "hello", "")
	require.NoError(t, err)
	id := session.ID

	for _, msg := range []string{"I like museums", "what about food", "and the weather", ""} {
		session, _, err = e.ProcessMessage(ctx, msg, id)
		require.NoError(t, err)
	}
	assert.Equal(t, 5, session.Context.ConversationDepth)
	assert.Len(t, session.UserMessages(), 5)
}

func TestEmptyMessageFallsBackToDefaultIntent(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	session, intents, err := e.ProcessMessage(ctx, "", "")
	require.NoError(t, err)

	assert.Equal(t, []types.Intent{types.IntentDestinationInquiry}, intents)
	assert.Equal(t, types.StateDestinationPlanning, session.State)
	assert.Equal(t, 1, session.Context.ConversationDepth)
}

func TestRecordAssistantReply(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	session, _, err := e.ProcessMessage(ctx, "I'm heading to Tokyo", "")
	require.NoError(t, err)

	require.NoError(t, e.RecordAssistantReply(ctx, session.ID, "The weather in Tokyo is sunny right now."))

	session, err = e.Session(ctx, session.ID)
	require.NoError(t, err)

	last := session.Messages[len(session.Messages)-1]
	assert.Equal(t, types.RoleAssistant, last.Role)
	assert.Equal(t, "Tokyo", session.Context.WeatherMentionedFor)
	require.NotNil(t, session.Context.WeatherMentionedAt)

	mem, ok := e.QualityMemory(session.ID)
	require.True(t, ok)
	assert.NotEmpty(t, mem.Trend)
}

func TestRecordAssistantReplyWithoutWeatherLeavesMarkUnset(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	session, _, err := e.ProcessMessage(ctx, "I'm heading to Tokyo", "")
	require.NoError(t, err)

	require.NoError(t, e.RecordAssistantReply(ctx, session.ID, "Tokyo has wonderful museums."))

	session, err = e.Session(ctx, session.ID)
	require.NoError(t, err)
	assert.Empty(t, session.Context.WeatherMentionedFor)
}

func TestRecoverEscalatesRepeatedFrustration(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	text := "this is wrong, start over!!!"

	session, _, err := e.ProcessMessage(ctx, text, "")
	require.NoError(t, err)
	id := session.ID
	require.NoError(t, e.RecordAssistantReply(ctx, id, "sorry about that"))

	_, _, err = e.ProcessMessage(ctx, text, id)
	require.NoError(t, err)
	require.NoError(t, e.RecordAssistantReply(ctx, id, "let me try again"))

	_, _, err = e.ProcessMessage(ctx, "ok", id)
	require.NoError(t, err)

	issues, plan, err := e.Recover(ctx, id, text, "")
	require.NoError(t, err)
	require.NotNil(t, plan)

	var frustration *recovery.Issue
	for i := range issues {
		if issues[i].Kind == recovery.KindFrustration {
			frustration = &issues[i]
		}
	}
	require.NotNil(t, frustration)
	assert.Greater(t, frustration.Confidence, 0.8)
	assert.Equal(t, recovery.StrategyEscalation, plan.Strategy)
	assert.NotEmpty(t, plan.Response)
}

func TestRecoverCleanMessageNeedsNoPlan(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	session, _, err := e.ProcessMessage(ctx, "Tell me about Tokyo", "")
	require.NoError(t, err)

	issues, plan, err := e.Recover(ctx, session.ID, "Tell me about Tokyo", "")
	require.NoError(t, err)
	assert.Empty(t, issues)
	assert.Nil(t, plan)
}

func TestProfileDerivedFromHistory(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	session, _, err := e.ProcessMessage(ctx, "I crave adventure, hiking off the beaten path and discovering hidden places", "")
	require.NoError(t, err)

	first, err := e.Profile(ctx, session.ID)
	require.NoError(t, err)
	second, err := e.Profile(ctx, session.ID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NotEmpty(t, first.Archetype)
	assert.NotEmpty(t, first.CommunicationStyle)
}

func TestDeleteForgetsSessionAndQuality(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	session, _, err := e.ProcessMessage(ctx, "hello", "")
	require.NoError(t, err)
	require.NoError(t, e.RecordAssistantReply(ctx, session.ID, "hi there"))

	require.NoError(t, e.Delete(ctx, session.ID))

	_, err = e.Session(ctx, session.ID)
	assert.Error(t, err)
	_, ok := e.QualityMemory(session.ID)
	assert.False(t, ok)
}

type recordingSink struct {
	entries []recovery.AuditEntry
}

func (r *recordingSink) Record(_ context.Context, entry recovery.AuditEntry) error {
	r.entries = append(r.entries, entry)
	return nil
}

func (r *recordingSink) Close() error { return nil }

func TestRecoverRecordsAudit(t *testing.T) {
	sink := &recordingSink{}
	e := newTestEngine(t, WithAuditSink(sink), WithClock(func() time.Time {
		return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	}))
	ctx := context.Background()

	session, _, err := e.ProcessMessage(ctx, "i'm lost, that doesn't make sense", "")
	require.NoError(t, err)

	_, plan, err := e.Recover(ctx, session.ID, "i'm lost, that doesn't make sense", "")
	require.NoError(t, err)
	require.NotNil(t, plan)

	require.NotEmpty(t, sink.entries)
	entry := sink.entries[0]
	assert.Equal(t, session.ID, entry.SessionID)
	assert.Equal(t, recovery.KindConfusion, entry.Kind)
	assert.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), entry.At)
}
