package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/linalabs/go-lina/internal/httpc"
)

// witAPIVersion pins the Wit.ai API version.
const witAPIVersion = "20240429"

// DefaultWitBaseURL is the Wit.ai endpoint.
const DefaultWitBaseURL = "https://api.wit.ai"

// WitIntent is one detected intent.
type WitIntent struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// WitEntity is one extracted entity value.
type WitEntity struct {
	Body string `json:"body"`
}

// WitResult is the parsed understanding of a message.
type WitResult struct {
	Text     string                 `json:"text"`
	Intents  []WitIntent            `json:"intents"`
	Entities map[string][]WitEntity `json:"entities"`
}

// Intent returns the top intent name, empty when none was detected.
func (r *WitResult) Intent() string {
	if len(r.Intents) == 0 {
		return ""
	}
	return r.Intents[0].Name
}

// WitClient queries the Wit.ai message endpoint.
type WitClient struct {
	token   string
	baseURL string
	timeout time.Duration
	http    *http.Client
}

// NewWitClient creates a client. An empty token leaves the client
// unconfigured; Configured reports that.
func NewWitClient(token string) *WitClient {
	return &WitClient{
		token:   token,
		baseURL: DefaultWitBaseURL,
		timeout: 5 * time.Second,
		http:    httpc.Client,
	}
}

// Configured reports whether a token is set.
func (c *WitClient) Configured() bool {
	return c != nil && c.token != ""
}

// Message sends a user message for intent detection.
func (c *WitClient) Message(ctx context.Context, text string) (*WitResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/message?v=%s&q=%s", c.baseURL, witAPIVersion, url.QueryEscape(text))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying wit.ai: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading wit.ai response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wit.ai returned %d", resp.StatusCode)
	}

	var out WitResult
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decoding wit.ai response: %w", err)
	}
	return &out, nil
}
