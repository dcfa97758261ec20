package observability

import (
	"regexp"
	"strings"
)

// defaultPatterns covers the credentials this system actually handles
// (OpenAI-compatible completion keys, 32-hex weather API keys, bearer and
// authorization values) plus the usual PII shapes a chat message can carry.
var defaultPatterns = []struct {
	name        string
	pattern     string
	replacement string
}{
	{"openai_key", `sk-[a-zA-Z0-9]{20,}`, "[REDACTED_OPENAI_KEY]"},
	{"openai_project_key", `sk-proj-[a-zA-Z0-9\-_]{20,}`, "[REDACTED_OPENAI_PROJECT_KEY]"},
	{"generic_api_key", `[a-f0-9]{32}`, "[REDACTED_API_KEY]"},
	{"bearer_token", `Bearer\s+[a-zA-Z0-9\-_\.]+`, "Bearer [REDACTED]"},
	{"auth_header", `Authorization:\s*[^\s]+`, "Authorization: [REDACTED]"},
	{"email", `[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`, "[REDACTED_EMAIL]"},
	{"phone", `\+?[0-9]{1,3}[-.\s]?\(?[0-9]{3}\)?[-.\s]?[0-9]{3}[-.\s]?[0-9]{4}`, "[REDACTED_PHONE]"},
	{"credit_card", `\b[0-9]{4}[-\s]?[0-9]{4}[-\s]?[0-9]{4}[-\s]?[0-9]{4}\b`, "[REDACTED_CARD]"},
	{"ssn", `\b[0-9]{3}-[0-9]{2}-[0-9]{4}\b`, "[REDACTED_SSN]"},
}

// sensitiveKeyHints mark a map key as sensitive regardless of its value.
var sensitiveKeyHints = []string{
	"key", "token", "secret", "password", "auth", "credential", "api_key", "apikey",
}

var sensitiveHeaders = map[string]bool{
	"authorization":    true,
	"x-api-key":        true,
	"api-key":          true,
	"x-auth-token":     true,
	"cookie":           true,
	"set-cookie":       true,
	"x-openai-api-key": true,
}

// Redactor masks credentials and PII before log lines leave the process.
type Redactor struct {
	patterns []redactPattern
}

type redactPattern struct {
	name        string
	regex       *regexp.Regexp
	replacement string
}

// NewRedactor returns a redactor loaded with the default patterns.
func NewRedactor() *Redactor {
	r := &Redactor{}
	for _, p := range defaultPatterns {
		r.AddPattern(p.pattern, p.replacement, p.name)
	}
	return r
}

// AddPattern registers an extra redaction pattern. A pattern that does not
// compile is dropped silently; redaction must never take the process down.
func (r *Redactor) AddPattern(pattern, replacement, name string) {
	regex, err := regexp.Compile(pattern)
	if err != nil {
		return
	}
	r.patterns = append(r.patterns, redactPattern{
		name:        name,
		regex:       regex,
		replacement: replacement,
	})
}

// Redact applies every pattern to input.
func (r *Redactor) Redact(input string) string {
	out := input
	for _, p := range r.patterns {
		out = p.regex.ReplaceAllString(out, p.replacement)
	}
	return out
}

// RedactMap returns a copy of m with sensitive values masked, recursing into
// nested maps and slices.
func (r *Redactor) RedactMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = r.redactValue(k, v)
	}
	return out
}

func (r *Redactor) redactValue(key string, value any) any {
	lower := strings.ToLower(key)
	for _, hint := range sensitiveKeyHints {
		if strings.Contains(lower, hint) {
			return "[REDACTED]"
		}
	}

	switch v := value.(type) {
	case string:
		return r.Redact(v)
	case map[string]any:
		return r.RedactMap(v)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = r.redactValue("", item)
		}
		return out
	default:
		return value
	}
}

// RedactHeaders returns a copy of headers with credential-bearing ones masked.
func (r *Redactor) RedactHeaders(headers map[string][]string) map[string][]string {
	out := make(map[string][]string, len(headers))
	for k, v := range headers {
		if sensitiveHeaders[strings.ToLower(k)] {
			out[k] = []string{"[REDACTED]"}
		} else {
			out[k] = v
		}
	}
	return out
}
