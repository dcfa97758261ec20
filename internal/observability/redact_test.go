package observability

import (
	"strings"
	"testing"
)

func TestRedactor_Patterns(t *testing.T) {
	r := NewRedactor()

	tests := []struct {
		name   string
		input  string
		marker string
	}{
		{"openai key", "sk-1234567890abcdefghijklmnop", "[REDACTED_OPENAI_KEY]"},
		{"openai project key", "key: sk-proj-abcdefghijklmnopqrstuvwxyz123456", "[REDACTED_OPENAI_PROJECT_KEY]"},
		{"weather key", "appid=0123456789abcdef0123456789abcdef", "[REDACTED_API_KEY]"},
		{"bearer token", "Bearer eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.eyJzdWIiOiIxIn0", "Bearer [REDACTED]"},
		{"email", "user email is test@example.com", "[REDACTED_EMAIL]"},
		{"phone", "+1-555-123-4567", "[REDACTED_PHONE]"},
		{"card dashed", "4111-1111-1111-1111", "[REDACTED_CARD]"},
		{"card spaced", "4111 1111 1111 1111", "[REDACTED_CARD]"},
		{"ssn", "SSN: 123-45-6789", "[REDACTED_SSN]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := r.Redact(tt.input)
			if !strings.Contains(result, tt.marker) {
				t.Errorf("expected %q in result, got %q", tt.marker, result)
			}
		})
	}
}

func TestRedactor_RedactMap(t *testing.T) {
	r := NewRedactor()

	result := r.RedactMap(map[string]any{
		"api_key":     "sk-1234567890abcdefghijklmnop",
		"destination": "Iceland",
		"password":    "secret123",
		"data": map[string]any{
			"token": "abc123",
		},
		"items": []any{
			"normal text",
			"email: test@example.com",
			map[string]any{"api_key": "secret"},
		},
	})

	if result["api_key"] != "[REDACTED]" {
		t.Errorf("expected api_key redacted, got %v", result["api_key"])
	}
	if result["password"] != "[REDACTED]" {
		t.Errorf("expected password redacted, got %v", result["password"])
	}
	if result["destination"] != "Iceland" {
		t.Errorf("expected destination unchanged, got %v", result["destination"])
	}

	nested := result["data"].(map[string]any)
	if nested["token"] != "[REDACTED]" {
		t.Errorf("expected nested token redacted, got %v", nested["token"])
	}

	items := result["items"].([]any)
	if items[0] != "normal text" {
		t.Error("expected plain array item unchanged")
	}
	if !strings.Contains(items[1].(string), "[REDACTED_EMAIL]") {
		t.Error("expected email in array redacted")
	}
	if items[2].(map[string]any)["api_key"] != "[REDACTED]" {
		t.Error("expected map in array redacted by key")
	}
}

func TestRedactor_RedactHeaders(t *testing.T) {
	r := NewRedactor()

	result := r.RedactHeaders(map[string][]string{
		"Authorization": {"Bearer token123"},
		"X-Api-Key":     {"sk-secret"},
		"Content-Type":  {"application/json"},
		"Cookie":        {"session=abc123"},
	})

	for _, h := range []string{"Authorization", "X-Api-Key", "Cookie"} {
		if result[h][0] != "[REDACTED]" {
			t.Errorf("expected %s redacted, got %v", h, result[h])
		}
	}
	if result["Content-Type"][0] != "application/json" {
		t.Error("expected Content-Type unchanged")
	}
}

func TestRedactor_AddPattern(t *testing.T) {
	r := NewRedactor()
	r.AddPattern(`SECRET_[A-Z0-9]+`, "[CUSTOM_REDACTED]", "custom")

	if got := r.Redact("my secret is SECRET_ABC123"); !strings.Contains(got, "[CUSTOM_REDACTED]") {
		t.Errorf("expected custom pattern applied, got %q", got)
	}

	// A pattern that does not compile is dropped, not fatal.
	r.AddPattern(`[invalid`, "replacement", "invalid")
	if got := r.Redact("test"); got != "test" {
		t.Errorf("expected unchanged result, got %q", got)
	}
}
