package weather

import "net/http"

// Option configures the weather client.
type Option func(*Client)

// WithAPIKey sets the API key. Leaving it empty keeps the client in
// placeholder mode.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithBaseURL overrides the API endpoint.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.baseURL = url
		}
	}
}

// WithHTTPClient injects the HTTP client, usually to set timeouts or a
// test transport.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.client = client
		}
	}
}
