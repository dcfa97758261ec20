// Package profile infers a traveler profile from the user's side of the
// conversation: archetype, energy and decision patterns, communication
// style, motivations, risk tolerance, life stage and tone. Scoring is plain
// keyword counting over the lexicon tables; the profile sharpens as the
// conversation grows and is recomputed from scratch each time.
package profile

import (
	"strings"

	"github.com/sofialabs/sofia/internal/lexicon"
	"github.com/sofialabs/sofia/pkg/types"
)

// Profiler scores conversation text against the lexicon's profiling tables.
type Profiler struct {
	lib *lexicon.Library
}

// NewProfiler returns a profiler backed by the given pattern library.
func NewProfiler(lib *lexicon.Library) *Profiler {
	return &Profiler{lib: lib}
}

// Analyze builds a profile from the conversation so far. Only user messages
// count; assistant turns would otherwise echo the assistant's own vocabulary
// back into the profile.
func (p *Profiler) Analyze(messages []types.Message) types.Profile {
	var userMessages []types.Message
	var joined strings.Builder
	for _, msg := range messages {
		if msg.Role != types.RoleUser {
			continue
		}
		userMessages = append(userMessages, msg)
		if joined.Len() > 0 {
			joined.WriteByte(' ')
		}
		joined.WriteString(strings.ToLower(msg.Content))
	}
	text := joined.String()

	return types.Profile{
		Archetype:          p.archetype(text),
		EnergySignature:    bestByCount(p.lib.Energies, p.lib.DefaultEnergy, text),
		DecisionPattern:    bestByCount(p.lib.Decisions, p.lib.DefaultDecision, text),
		CommunicationStyle: communicationStyle(userMessages),
		Motivations:        p.motivations(text),
		RiskTolerance:      p.riskTolerance(text),
		LifeStage:          p.lifeStage(text),
		CulturalStyle:      p.culturalStyle(text),
	}
}

// archetype scores each archetype as twice its keyword occurrences minus its
// anti-keyword occurrences, floored at zero. Ties break toward the earlier
// table entry; an all-zero board yields the default.
func (p *Profiler) archetype(text string) string {
	best := p.lib.DefaultArchetype
	bestScore := 0
	for _, a := range p.lib.Archetypes {
		score := 2 * countAll(text, a.Keywords)
		score -= countAll(text, a.AntiKeywords)
		if score > bestScore {
			best, bestScore = a.Name, score
		}
	}
	return best
}

func (p *Profiler) motivations(text string) []string {
	var out []string
	for _, m := range p.lib.Motivations {
		if containsAny(text, m.Keywords) {
			out = append(out, m.Name)
		}
	}
	if len(out) == 0 {
		out = []string{p.lib.DefaultMotive}
	}
	return out
}

func (p *Profiler) riskTolerance(text string) string {
	high := countAll(text, p.lib.RiskHigh)
	low := countAll(text, p.lib.RiskLow)
	switch {
	case high > 2*low:
		return "High"
	case low > 2*high:
		return "Low"
	default:
		return "Moderate"
	}
}

func (p *Profiler) lifeStage(text string) string {
	for _, stage := range p.lib.LifeStages {
		if containsAny(text, stage.Keywords) {
			return stage.Name
		}
	}
	return p.lib.DefaultLifeStage
}

func (p *Profiler) culturalStyle(text string) string {
	formal := countAll(text, p.lib.FormalTone)
	casual := countAll(text, p.lib.CasualTone)
	switch {
	case formal > casual:
		return "Formal-Traditional"
	case casual > formal:
		return "Casual-Modern"
	default:
		return "Balanced"
	}
}

// communicationStyle classifies by message length and question density
// rather than vocabulary, so it works from the first message on.
func communicationStyle(userMessages []types.Message) string {
	if len(userMessages) == 0 {
		return "Direct"
	}

	totalLen, questions := 0, 0
	for _, msg := range userMessages {
		totalLen += len(msg.Content)
		if strings.Contains(msg.Content, "?") {
			questions++
		}
	}
	avgLength := float64(totalLen) / float64(len(userMessages))
	questionRatio := float64(questions) / float64(len(userMessages))

	switch {
	case avgLength > 100 && questionRatio > 0.3:
		return "Detailed-Inquiring"
	case avgLength < 50:
		return "Concise-Direct"
	case questionRatio > 0.5:
		return "Question-Heavy"
	default:
		return "Conversational"
	}
}

func bestByCount(table []lexicon.KeywordList, fallback, text string) string {
	best := fallback
	bestScore := 0
	for _, entry := range table {
		if score := countAll(text, entry.Keywords); score > bestScore {
			best, bestScore = entry.Name, score
		}
	}
	return best
}

func countAll(text string, words []string) int {
	total := 0
	for _, w := range words {
		total += strings.Count(text, w)
	}
	return total
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
