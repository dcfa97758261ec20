// Package llm is the text-generation boundary. The engine treats the
// generator as an opaque collaborator: it hands over a prompt plus recent
// history and gets text back, or an error the caller degrades around. The
// conversation core never depends on which model sits behind the interface.
package llm

import (
	"context"

	"github.com/sofialabs/sofia/pkg/types"
)

// Generator produces the assistant's reply text for one turn.
type Generator interface {
	// Generate returns the reply for the given system/context prompt and
	// recent conversation history. Errors must leave no partial state
	// behind; the caller falls back to a degraded reply.
	Generate(ctx context.Context, prompt string, history []types.Message) (string, error)
}

// StaticGenerator returns a fixed reply. It backs tests and offline runs
// where no completion service is configured.
type StaticGenerator struct {
	Reply string
}

// Generate returns the configured reply, or a minimal acknowledgement when
// none was set.
func (g StaticGenerator) Generate(_ context.Context, _ string, _ []types.Message) (string, error) {
	if g.Reply != "" {
		return g.Reply, nil
	}
	return "I'm here to help plan your trip. What would you like to know?", nil
}

// GeneratorFunc adapts a plain function to the Generator interface.
type GeneratorFunc func(ctx context.Context, prompt string, history []types.Message) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, prompt string, history []types.Message) (string, error) {
	return f(ctx, prompt, history)
}
