package llm

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/sofialabs/sofia/pkg/errors"
	"github.com/sofialabs/sofia/pkg/types"
)

const (
	// ProviderName is the identifier for this generator.
	ProviderName = "openai"

	// DefaultBaseURL is the default chat-completions endpoint root.
	DefaultBaseURL = "https://api.openai.com/v1"

	// DefaultModel is used when no model is configured.
	DefaultModel = "gpt-4o-mini"

	// DefaultTimeout bounds a single completion request.
	DefaultTimeout = 60 * time.Second

	// historyWindow is how many trailing conversation turns are sent along
	// with the prompt.
	historyWindow = 10
)

// OpenAIClient talks to an OpenAI-compatible chat-completions API.
// Construct with NewOpenAI; the zero value is not usable.
type OpenAIClient struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// OpenAIOption configures the client.
type OpenAIOption func(*OpenAIClient)

// WithOpenAIBaseURL overrides the endpoint root, for compatible servers and
// tests.
func WithOpenAIBaseURL(url string) OpenAIOption {
	return func(c *OpenAIClient) {
		if url != "" {
			c.baseURL = strings.TrimRight(url, "/")
		}
	}
}

// WithOpenAIModel selects the completion model.
func WithOpenAIModel(model string) OpenAIOption {
	return func(c *OpenAIClient) {
		if model != "" {
			c.model = model
		}
	}
}

// WithOpenAIHTTPClient injects the HTTP client, for tests and custom
// transports.
func WithOpenAIHTTPClient(client *http.Client) OpenAIOption {
	return func(c *OpenAIClient) {
		if client != nil {
			c.client = client
		}
	}
}

// NewOpenAI creates a chat-completions generator.
func NewOpenAI(apiKey string, opts ...OpenAIOption) *OpenAIClient {
	c := &OpenAIClient{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		model:   DefaultModel,
		client:  &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Generate sends the prompt as the system message followed by the trailing
// history window and the API's reply text comes back verbatim.
func (c *OpenAIClient) Generate(ctx context.Context, prompt string, history []types.Message) (string, error) {
	msgs := make([]chatMessage, 0, historyWindow+1)
	msgs = append(msgs, chatMessage{Role: "system", Content: prompt})

	start := 0
	if len(history) > historyWindow {
		start = len(history) - historyWindow
	}
	for _, m := range history[start:] {
		msgs = append(msgs, chatMessage{Role: string(m.Role), Content: m.Content})
	}

	body, err := json.Marshal(chatRequest{Model: c.model, Messages: msgs})
	if err != nil {
		return "", errors.NewInternalError(fmt.Sprintf("encode completion request: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", errors.NewInternalError(fmt.Sprintf("build completion request: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", errors.NewTimeoutError(ProviderName, "completion request canceled")
		}
		return "", errors.NewServiceUnavailableError(ProviderName, err.Error())
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.NewProviderError(ProviderName, fmt.Sprintf("read completion response: %v", err))
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", errors.NewRateLimitError(ProviderName, "completion rate limit exceeded")
	case resp.StatusCode != http.StatusOK:
		return "", errors.NewProviderError(ProviderName,
			fmt.Sprintf("completion request failed with status %d", resp.StatusCode))
	}

	var decoded chatResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", errors.NewProviderError(ProviderName, fmt.Sprintf("decode completion response: %v", err))
	}
	if decoded.Error != nil {
		return "", errors.NewProviderError(ProviderName, decoded.Error.Message)
	}
	if len(decoded.Choices) == 0 {
		return "", errors.NewProviderError(ProviderName, "completion returned no choices")
	}
	return decoded.Choices[0].Message.Content, nil
}
