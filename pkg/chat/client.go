package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/linalabs/go-lina/internal/httpc"
)

// Endpoint paths on the chat backend.
const (
	BasicPath    = "/api/ask"
	AdvancedPath = "/api/witai"
)

// Config holds the chat client configuration.
type Config struct {
	// BaseURL is the backend base URL, without a trailing slash.
	BaseURL string

	// Timeout for each request.
	Timeout time.Duration

	// HTTPClient is the underlying HTTP client. When nil the shared
	// default client is used.
	HTTPClient *http.Client
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BaseURL: "http://localhost:5001",
		Timeout: 15 * time.Second,
	}
}

// Option configures a Client.
type Option func(*Config)

// WithBaseURL sets the backend base URL.
func WithBaseURL(url string) Option {
	return func(c *Config) {
		c.BaseURL = strings.TrimRight(url, "/")
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.Timeout = d
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Config) {
		c.HTTPClient = hc
	}
}

// AskRequest is the JSON body sent to the backend.
type AskRequest struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

// AskResponse is the backend's answer to a chat message.
type AskResponse struct {
	Reply string `json:"reply"`
	// Type tags certain replies so the caller can attach follow-up
	// actions, for example "vocales_info".
	Type string `json:"type,omitempty"`
}

// Client talks to the chat backend over HTTP.
type Client struct {
	config *Config
	http   *http.Client
}

// NewClient creates a chat backend client.
func NewClient(opts ...Option) *Client {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(config)
	}

	hc := config.HTTPClient
	if hc == nil {
		hc = httpc.Client
	}

	return &Client{config: config, http: hc}
}

// Ask sends a message to the backend and returns its reply. The
// advanced flag selects between the basic rule endpoint and the
// external language understanding proxy.
func (c *Client) Ask(ctx context.Context, advanced bool, message, userID string) (*AskResponse, error) {
	if strings.TrimSpace(message) == "" {
		return nil, ErrEmptyMessage
	}

	path := BasicPath
	if advanced {
		path = AdvancedPath
	}

	body, err := json.Marshal(AskRequest{Message: message, UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+path, strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Endpoint: path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Endpoint: path, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(data)),
			Endpoint:   path,
		}
	}

	var out AskResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &out, nil
}
