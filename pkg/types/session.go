package types

import "time"

// Session is the per-conversation record: ordered message history, the
// accumulated travel context, the current flow state, and the intents
// detected for the most recent user message. Sessions are mutated only by
// the session store under its per-session lock.
type Session struct {
	ID        string    `json:"session_id"`
	State     State     `json:"state"`
	Context   Context   `json:"context"`
	Messages  []Message `json:"messages"`
	Intents   []Intent  `json:"detected_intents,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSession builds an empty session in the greeting state.
func NewSession(id string) *Session {
	now := time.Now()
	return &Session{
		ID:        id,
		State:     StateGreeting,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Append adds a message. UpdatedAt is owned by the session store, which
// stamps it with its own clock on every update.
func (s *Session) Append(msg Message) {
	s.Messages = append(s.Messages, msg)
}

// UserMessages returns the user-authored turns in order.
func (s *Session) UserMessages() []Message {
	var out []Message
	for _, m := range s.Messages {
		if m.Role == RoleUser {
			out = append(out, m)
		}
	}
	return out
}

// LastAssistantMessage returns the most recent assistant turn, or false when
// the assistant has not spoken yet.
func (s *Session) LastAssistantMessage() (Message, bool) {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == RoleAssistant {
			return s.Messages[i], true
		}
	}
	return Message{}, false
}

// RecentMessages returns up to n of the latest messages in order.
func (s *Session) RecentMessages(n int) []Message {
	if n <= 0 || len(s.Messages) == 0 {
		return nil
	}
	if len(s.Messages) <= n {
		return append([]Message(nil), s.Messages...)
	}
	return append([]Message(nil), s.Messages[len(s.Messages)-n:]...)
}

// Clone returns a deep copy. The store hands clones to readers so session
// state cannot be mutated outside its lock.
func (s *Session) Clone() *Session {
	out := *s
	out.Context = s.Context.Clone()
	out.Messages = make([]Message, len(s.Messages))
	for i, m := range s.Messages {
		out.Messages[i] = m
		if m.Metadata != nil {
			meta := make(map[string]any, len(m.Metadata))
			for k, v := range m.Metadata {
				meta[k] = v
			}
			out.Messages[i].Metadata = meta
		}
	}
	out.Intents = append([]Intent(nil), s.Intents...)
	return &out
}

// ChatRequest is the inbound payload of the chat endpoint.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// ChatResponse is the outbound payload of the chat endpoint.
type ChatResponse struct {
	Response         string   `json:"response"`
	SessionID        string   `json:"session_id"`
	State            State    `json:"state"`
	Intents          []Intent `json:"intents,omitempty"`
	Suggestions      []string `json:"suggestions,omitempty"`
	ExternalDataUsed bool     `json:"external_data_used"`
}
