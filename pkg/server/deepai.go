package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/linalabs/go-lina/internal/httpc"
)

// DefaultDeepAIBaseURL is the DeepAI API endpoint.
const DefaultDeepAIBaseURL = "https://api.deepai.org"

// maxRecognitionLabels caps how many labels a recognition reports.
const maxRecognitionLabels = 3

// DeepAIClient forwards images to the DeepAI recognition API.
type DeepAIClient struct {
	apiKey  string
	baseURL string
	timeout time.Duration
	http    *http.Client
}

// NewDeepAIClient creates a client. An empty key leaves it
// unconfigured.
func NewDeepAIClient(apiKey string) *DeepAIClient {
	return &DeepAIClient{
		apiKey:  apiKey,
		baseURL: DefaultDeepAIBaseURL,
		timeout: 20 * time.Second,
		http:    httpc.Client,
	}
}

// Configured reports whether an API key is set.
func (c *DeepAIClient) Configured() bool {
	return c != nil && c.apiKey != ""
}

// Recognize uploads an image and returns the top labels.
func (c *DeepAIClient) Recognize(ctx context.Context, image []byte, filename string) ([]string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		return nil, fmt.Errorf("building upload: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, fmt.Errorf("building upload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("building upload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/image-recognition", &body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling recognition service: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading recognition response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("recognition service returned %d", resp.StatusCode)
	}

	var out struct {
		Output []string `json:"output"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decoding recognition response: %w", err)
	}

	labels := out.Output
	if len(labels) > maxRecognitionLabels {
		labels = labels[:maxRecognitionLabels]
	}
	return labels, nil
}
