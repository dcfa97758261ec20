// Package sofia provides a conversational travel-assistant engine as a Go
// library. It classifies the intent behind each user message, extracts and
// remembers travel facts (destination, budget, dates, interests), tracks a
// behavioral profile, and drives a conversation state machine, with optional
// external data enrichment (weather, country facts) and an LLM-backed reply
// generator.
//
// Basic usage:
//
//	client, err := sofia.New(
//	    sofia.WithGenerator(llm),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	resp, err := client.Chat(ctx, "I want to visit Iceland for landscape photography", "")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(resp.Response, resp.State)
package sofia

import (
	"context"
	"fmt"
	"strings"

	"github.com/sofialabs/sofia/internal/augment"
	"github.com/sofialabs/sofia/internal/dates"
	"github.com/sofialabs/sofia/internal/engine"
	"github.com/sofialabs/sofia/internal/llm"
	"github.com/sofialabs/sofia/internal/quality"
	"github.com/sofialabs/sofia/internal/recovery"
	"github.com/sofialabs/sofia/pkg/types"
)

// Version is the current version of the sofia library.
const Version = "1.0.0"

// Re-export core types for convenience, so casual users import one package.
type (
	// Session is the per-conversation record.
	Session = types.Session

	// Message is a single conversation turn.
	Message = types.Message

	// Context is the accumulated travel facts of a session.
	Context = types.Context

	// State is the conversation flow state.
	State = types.State

	// Intent is a classified purpose behind a user message.
	Intent = types.Intent

	// Profile is the derived behavioral read of a traveler.
	Profile = types.Profile

	// QualityMetrics scores one user/assistant exchange.
	QualityMetrics = types.QualityMetrics

	// WeatherData is current conditions for a location.
	WeatherData = types.WeatherData

	// CountryInfo is country facts for a destination.
	CountryInfo = types.CountryInfo

	// ChatRequest is the inbound chat payload.
	ChatRequest = types.ChatRequest

	// ChatResponse is the outbound chat payload.
	ChatResponse = types.ChatResponse
)

// degradedReply is what the user sees when the generator is unavailable.
// The session state is already committed at that point; only the wording
// degrades.
const degradedReply = "I'm having trouble reaching my knowledge service right now, " +
	"but I've noted what you said. Could you try again in a moment?"

// Client is the assembled travel assistant: understanding engine, external
// data augmentation and reply generation behind one surface.
type Client struct {
	cfg clientConfig

	engine    *engine.Engine
	augmentor *augment.Augmentor
	generator llm.Generator
}

// New assembles a client. With no options it runs fully in-process: in-memory
// sessions, in-memory cache, fallback weather data and a static generator.
func New(opts ...Option) (*Client, error) {
	cfg := defaultClientConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.build(); err != nil {
		return nil, err
	}

	eng := engine.New(cfg.sessions, cfg.lexicon,
		engine.WithLogger(cfg.logger),
		engine.WithClock(cfg.now),
		engine.WithAuditSink(cfg.audit),
	)

	augOpts := []augment.Option{
		augment.WithLogger(cfg.logger),
		augment.WithClock(cfg.now),
	}
	if cfg.weatherRPM > 0 || cfg.countryRPM > 0 {
		augOpts = append(augOpts, augment.WithRateLimits(cfg.weatherRPM, cfg.countryRPM))
	}

	return &Client{
		cfg:       cfg,
		engine:    eng,
		augmentor: augment.New(cfg.weather, cfg.country, cfg.cache, augOpts...),
		generator: cfg.generator,
	}, nil
}

// Close releases the resources the client owns. Stores or sinks injected by
// the caller are closed too; inject shared ones behind a wrapper if they must
// outlive the client.
func (c *Client) Close() error {
	var first error
	for _, closer := range c.cfg.closers {
		if err := closer(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Engine exposes the underlying conversation engine for callers that drive
// the pipeline step by step.
func (c *Client) Engine() *engine.Engine {
	return c.engine
}

// ProcessMessage runs the understanding pipeline for one user message and
// returns the committed session plus the detected intents, first one primary.
func (c *Client) ProcessMessage(ctx context.Context, text, sessionID string) (*Session, []Intent, error) {
	return c.engine.ProcessMessage(ctx, text, sessionID)
}

// RecordAssistantReply appends an assistant turn to the session.
func (c *Client) RecordAssistantReply(ctx context.Context, sessionID, reply string) error {
	return c.engine.RecordAssistantReply(ctx, sessionID, reply)
}

// Session returns a snapshot of an existing session.
func (c *Client) Session(ctx context.Context, sessionID string) (*Session, error) {
	return c.engine.Session(ctx, sessionID)
}

// DeleteSession removes a session and its derived memory.
func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	return c.engine.Delete(ctx, sessionID)
}

// Profile derives the behavioral profile from a session's message history.
func (c *Client) Profile(ctx context.Context, sessionID string) (Profile, error) {
	return c.engine.Profile(ctx, sessionID)
}

// QualityMemory returns the session's rolling quality record.
func (c *Client) QualityMemory(sessionID string) (quality.Memory, bool) {
	return c.engine.QualityMemory(sessionID)
}

// Chat runs a full turn: understand the message, check for conversation
// issues, gather external data, generate the reply and commit it. Generator
// failures degrade the reply wording; the session state is never lost to a
// provider outage.
func (c *Client) Chat(ctx context.Context, text, sessionID string) (*ChatResponse, error) {
	session, intents, err := c.engine.ProcessMessage(ctx, text, sessionID)
	if err != nil {
		return nil, err
	}

	resp := &ChatResponse{
		SessionID: session.ID,
		State:     session.State,
		Intents:   intents,
	}

	// A critical conversation issue takes over the turn: the recovery plan's
	// response replaces generation.
	issues, plan, err := c.engine.Recover(ctx, session.ID, text, "")
	if err == nil && plan != nil && critical(issues) {
		resp.Response = plan.Response
		resp.Suggestions = plan.Suggestions
		if err := c.engine.RecordAssistantReply(ctx, session.ID, plan.Response); err != nil {
			return nil, err
		}
		return resp, nil
	}

	prof, err := c.engine.Profile(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	data := c.augmentor.Gather(ctx, text, session, &prof)
	resp.ExternalDataUsed = !data.Empty()

	prompt := buildPrompt(session, &prof, data)
	reply, err := c.generator.Generate(ctx, prompt, session.RecentMessages(c.cfg.historyWindow))
	if err != nil {
		c.cfg.logger.Warn("generator failed, serving degraded reply",
			"session_id", session.ID, "error", err)
		reply = degradedReply
	}
	resp.Response = reply

	if err := c.engine.RecordAssistantReply(ctx, session.ID, reply); err != nil {
		return nil, err
	}
	return resp, nil
}

func critical(issues []recovery.Issue) bool {
	for _, issue := range issues {
		if issue.Critical() {
			return true
		}
	}
	return false
}

// buildPrompt renders the system/context string for the generator. Wording
// of the generated reply is the model's business; this only states what the
// session has established and what data came back.
func buildPrompt(session *Session, prof *Profile, data augment.Result) string {
	var b strings.Builder
	b.WriteString("You are Sofia, a warm and knowledgeable travel assistant.\n")
	b.WriteString(dates.PromptContext(session.UpdatedAt))
	b.WriteString("\n")

	ctx := session.Context
	if ctx.CurrentDestination != "" {
		fmt.Fprintf(&b, "Destination focus: %s\n", ctx.CurrentDestination)
	}
	if len(ctx.Interests) > 0 {
		fmt.Fprintf(&b, "Stated interests: %s\n", strings.Join(ctx.Interests, ", "))
	}
	if ctx.Budget != "" {
		fmt.Fprintf(&b, "Budget: %s\n", ctx.Budget)
	}
	if ctx.TravelDates != nil {
		fmt.Fprintf(&b, "Travel dates: %s\n", ctx.TravelDates.Raw)
	}
	fmt.Fprintf(&b, "Conversation phase: %s\n", session.State)
	if prof != nil && prof.Archetype != "" {
		fmt.Fprintf(&b, "Traveler archetype: %s (%s communication)\n",
			prof.Archetype, prof.CommunicationStyle)
	}

	if data.Weather != nil {
		fmt.Fprintf(&b, "Current weather in %s: %.1f°C, %s (source: %s)\n",
			data.Weather.Location, data.Weather.Temperature,
			data.Weather.Condition, data.Weather.Source)
	}
	if len(data.Forecast) > 0 {
		b.WriteString("Forecast:\n")
		for _, f := range data.Forecast {
			fmt.Fprintf(&b, "  %s: %.1f°C, %s\n", f.At.Format("Mon Jan 2"), f.Temperature, f.Condition)
		}
	}
	if data.Country != nil {
		fmt.Fprintf(&b, "Country facts: capital %s, currencies %s, languages %s\n",
			data.Country.Capital,
			strings.Join(data.Country.Currencies, "/"),
			strings.Join(data.Country.Languages, "/"))
	}
	return b.String()
}
