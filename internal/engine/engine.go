// Package engine orchestrates the conversation-understanding pipeline. Per
// inbound message it appends the user turn, tracks stated preferences,
// classifies intents, folds extracted travel facts into the session context,
// and advances the flow state, all under the session's own lock so concurrent
// requests for the same session serialize while distinct sessions never
// contend.
package engine

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/sofialabs/sofia/internal/extract"
	"github.com/sofialabs/sofia/internal/flow"
	"github.com/sofialabs/sofia/internal/intent"
	"github.com/sofialabs/sofia/internal/lexicon"
	"github.com/sofialabs/sofia/internal/metrics"
	"github.com/sofialabs/sofia/internal/profile"
	"github.com/sofialabs/sofia/internal/quality"
	"github.com/sofialabs/sofia/internal/recovery"
	"github.com/sofialabs/sofia/internal/store"
	"github.com/sofialabs/sofia/pkg/types"
)

// weatherReplyMarkers are the reply phrasings that count as having surfaced
// weather data, for the unprompted-repeat suppression window.
var weatherReplyMarkers = []string{
	"weather", "temperature", "forecast", "°c", "degrees",
	"sunny", "rainy", "cloudy", "humidity",
}

// Engine drives the understanding pipeline over a session store.
type Engine struct {
	log        *slog.Logger
	store      store.SessionStore
	lib        *lexicon.Library
	classifier *intent.Classifier
	extractor  *extract.Extractor
	machine    *flow.Machine
	profiler   *profile.Profiler
	quality    *quality.Tracker
	recovery   *recovery.Classifier
	audit      recovery.AuditSink
	tracer     trace.Tracer
	now        func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithClock injects the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithAuditSink routes recovery detections to the given sink.
func WithAuditSink(sink recovery.AuditSink) Option {
	return func(e *Engine) {
		if sink != nil {
			e.audit = sink
		}
	}
}

// New builds an engine over the given store, with all pipeline components
// sharing one pattern library.
func New(sessions store.SessionStore, lib *lexicon.Library, opts ...Option) *Engine {
	if lib == nil {
		lib = lexicon.Default()
	}
	e := &Engine{
		log:        slog.Default(),
		store:      sessions,
		lib:        lib,
		classifier: intent.NewClassifier(lib),
		extractor:  extract.NewExtractor(lib),
		machine:    flow.NewMachine(),
		profiler:   profile.NewProfiler(lib),
		quality:    quality.NewTracker(lib),
		recovery:   recovery.NewClassifier(lib),
		audit:      recovery.NopSink{},
		tracer:     otel.Tracer("sofia/engine"),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// GetOrCreate returns the session with the given id, creating a fresh one
// (with a generated id) when the id is empty or unknown.
func (e *Engine) GetOrCreate(ctx context.Context, sessionID string) (*types.Session, error) {
	s, err := e.store.GetOrCreate(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	metrics.ActiveSessions.Set(float64(e.store.Len()))
	return s, nil
}

// Session returns a snapshot of an existing session.
func (e *Engine) Session(ctx context.Context, sessionID string) (*types.Session, error) {
	return e.store.Get(ctx, sessionID)
}

// Delete removes a session and its quality memory.
func (e *Engine) Delete(ctx context.Context, sessionID string) error {
	if err := e.store.Delete(ctx, sessionID); err != nil {
		return err
	}
	e.quality.Forget(sessionID)
	metrics.ActiveSessions.Set(float64(e.store.Len()))
	return nil
}

// ProcessMessage runs the understanding pipeline for one user message and
// commits the outcome. It never fails on message content: classification
// ambiguity, extraction absence and preference contradictions all resolve by
// policy. The only error sources are the store boundary and context
// cancellation.
func (e *Engine) ProcessMessage(ctx context.Context, text, sessionID string) (*types.Session, []types.Intent, error) {
	started := e.now()
	ctx, span := e.tracer.Start(ctx, "engine.ProcessMessage")
	defer span.End()

	session, err := e.store.GetOrCreate(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	span.SetAttributes(attribute.String("session.id", session.ID))

	var intents []types.Intent
	err = e.store.Update(ctx, session.ID, func(s *types.Session) error {
		s.Append(types.Message{
			Role:      types.RoleUser,
			Content:   text,
			Timestamp: e.now(),
		})

		e.trackPreferences(s, text)

		intents = e.classifier.Detect(text, s.Context)

		prior := s.Context.Clone()
		e.extractor.UpdateContext(&s.Context, text)
		e.validateDestination(s, prior)
		e.recordExtractions(prior, s.Context)

		next := e.machine.Next(s.State, intents, s.Context)
		if next != s.State {
			metrics.RecordTransition(string(s.State), string(next))
			e.log.Debug("state transition",
				"session_id", s.ID, "from", s.State, "to", next)
		}
		s.State = next
		s.Intents = intents
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	session, err = e.store.Get(ctx, session.ID)
	if err != nil {
		return nil, nil, err
	}
	primary := ""
	if len(intents) > 0 {
		primary = string(intents[0])
	}
	metrics.RecordMessage(primary, string(session.State), e.now().Sub(started))
	span.SetAttributes(
		attribute.String("intent.primary", primary),
		attribute.String("state", string(session.State)),
	)
	return session, intents, nil
}

// RecordAssistantReply appends the assistant turn, marks weather as surfaced
// when the reply carries it, and folds the exchange into the session's
// quality memory.
func (e *Engine) RecordAssistantReply(ctx context.Context, sessionID, reply string) error {
	var lastUser string
	err := e.store.Update(ctx, sessionID, func(s *types.Session) error {
		if msgs := s.UserMessages(); len(msgs) > 0 {
			lastUser = msgs[len(msgs)-1].Content
		}
		s.Append(types.Message{
			Role:      types.RoleAssistant,
			Content:   reply,
			Timestamp: e.now(),
		})
		if s.Context.CurrentDestination != "" && mentionsWeather(reply) {
			s.Context.MarkWeatherMentioned(s.Context.CurrentDestination, e.now())
		}
		return nil
	})
	if err != nil {
		return err
	}
	if lastUser != "" {
		e.quality.Track(sessionID, lastUser, reply)
	}
	return nil
}

// TrackQuality scores one exchange and folds it into the session's quality
// memory, returning the metrics for the caller's own use.
func (e *Engine) TrackQuality(sessionID, userText, replyText string) types.QualityMetrics {
	return e.quality.Track(sessionID, userText, replyText)
}

// QualityMemory returns the session's accumulated quality memory.
func (e *Engine) QualityMemory(sessionID string) (quality.Memory, bool) {
	return e.quality.Memory(sessionID)
}

// Profile derives the behavioral profile from the session's user messages.
// It is a pure recomputation; nothing is persisted.
func (e *Engine) Profile(ctx context.Context, sessionID string) (types.Profile, error) {
	session, err := e.store.Get(ctx, sessionID)
	if err != nil {
		return types.Profile{}, err
	}
	return e.profiler.Analyze(session.Messages), nil
}

// Recover scores the user message for frustration, confusion and ambiguity
// signals. When an issue crosses its threshold, the most confident one is
// resolved into a recovery plan; every detection is recorded to the audit
// sink. A nil plan means the conversation needs no special handling.
func (e *Engine) Recover(ctx context.Context, sessionID, userText, reply string) ([]recovery.Issue, *recovery.Plan, error) {
	session, err := e.store.Get(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}

	issues := e.recovery.DetectIssues(userText, session, reply)
	if len(issues) == 0 {
		return nil, nil, nil
	}

	top := issues[0]
	for _, issue := range issues[1:] {
		if issue.Confidence > top.Confidence {
			top = issue
		}
	}
	plan := recovery.BuildPlan(top, session)

	for _, issue := range issues {
		strategy := recovery.SelectStrategy(issue.Kind, issue.Confidence)
		metrics.RecordRecovery(string(issue.Kind), string(strategy))
		if err := e.audit.Record(ctx, recovery.AuditEntry{
			SessionID:  sessionID,
			Kind:       issue.Kind,
			Strategy:   strategy,
			Confidence: issue.Confidence,
			At:         e.now(),
		}); err != nil {
			e.log.Warn("recovery audit record failed",
				"session_id", sessionID, "kind", issue.Kind, "error", err)
		}
	}
	e.log.Info("conversation issue detected",
		"session_id", sessionID, "kind", top.Kind,
		"confidence", top.Confidence, "strategy", plan.Strategy)
	return issues, &plan, nil
}

// trackPreferences records travel-style preferences stated in the message
// and, when no destination is established yet, accepts a well-known
// destination mention that does not contradict them.
func (e *Engine) trackPreferences(s *types.Session, message string) {
	lower := strings.ToLower(message)

	if containsAny(lower, e.lib.LandscapeInterestWords) {
		s.Context.AddInterests("landscape_photography")
	}
	if containsAny(lower, e.lib.SoloInterestWords) {
		s.Context.AddInterests("solo_travel")
	}

	if s.Context.CurrentDestination != "" {
		return
	}
	for _, dest := range e.knownDestinations() {
		if !containsWord(lower, dest) {
			continue
		}
		if !e.destinationFitsInterests(dest, &s.Context) {
			e.log.Info("destination contradicts stated interests, suppressed",
				"session_id", s.ID, "destination", dest,
				"interests", s.Context.Interests)
			continue
		}
		s.Context.SetDestination(titleCase(dest))
		break
	}
}

// validateDestination re-checks the extractor's destination pick against the
// session's stated interests and reverts the switch when it contradicts
// them. The contradiction is observable only via the log line; the session
// keeps its prior destination (or none).
func (e *Engine) validateDestination(s *types.Session, prior types.Context) {
	current := s.Context.CurrentDestination
	if current == "" || current == prior.CurrentDestination {
		return
	}
	if e.destinationFitsInterests(strings.ToLower(current), &s.Context) {
		return
	}
	e.log.Info("extracted destination contradicts stated interests, reverted",
		"session_id", s.ID, "destination", current,
		"prior", prior.CurrentDestination, "interests", s.Context.Interests)
	s.Context.CurrentDestination = prior.CurrentDestination
	s.Context.PreviousDestinations = append([]string(nil), prior.PreviousDestinations...)
}

// destinationFitsInterests applies the contradiction heuristic: a known
// city-type destination is rejected while a landscape interest is active and
// no city-type interest has been stated. Destinations off the known lists
// always pass.
func (e *Engine) destinationFitsInterests(lowerDest string, ctx *types.Context) bool {
	if !e.lib.IsCityDestination(lowerDest) {
		return true
	}
	if !ctx.HasInterest("landscape_photography") {
		return true
	}
	for _, interest := range ctx.Interests {
		if containsAny(strings.ToLower(interest), e.lib.CityInterestWords) {
			return true
		}
	}
	return false
}

func (e *Engine) knownDestinations() []string {
	out := make([]string, 0, len(e.lib.LandscapeDestinations)+len(e.lib.CityDestinations))
	out = append(out, e.lib.LandscapeDestinations...)
	out = append(out, e.lib.CityDestinations...)
	return out
}

func (e *Engine) recordExtractions(prior, current types.Context) {
	if current.CurrentDestination != prior.CurrentDestination {
		metrics.RecordExtraction("destination", 1)
	}
	if current.Budget != prior.Budget && current.Budget != "" {
		metrics.RecordExtraction("budget", 1)
	}
	if current.TravelDates != nil &&
		(prior.TravelDates == nil || prior.TravelDates.Raw != current.TravelDates.Raw) {
		metrics.RecordExtraction("dates", 1)
	}
	if n := len(current.Interests) - len(prior.Interests); n > 0 {
		metrics.RecordExtraction("interest", n)
	}
}

func mentionsWeather(reply string) bool {
	lower := strings.ToLower(reply)
	for _, marker := range weatherReplyMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// containsWord reports whether lower contains dest bounded by non-letters,
// so "nice" inside "niceties" does not count as a destination mention.
func containsWord(lower, dest string) bool {
	for i := 0; ; {
		j := strings.Index(lower[i:], dest)
		if j < 0 {
			return false
		}
		start := i + j
		end := start + len(dest)
		leftOK := start == 0 || !isLetter(lower[start-1])
		rightOK := end == len(lower) || !isLetter(lower[end])
		if leftOK && rightOK {
			return true
		}
		i = start + 1
	}
}

func isLetter(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

func titleCase(lower string) string {
	words := strings.Fields(lower)
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
