package camera

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/linalabs/go-lina/internal/httpc"
)

// RecognizePath is the backend endpoint for image recognition.
const RecognizePath = "/api/recognize"

// Recognition is the outcome of recognizing a captured image.
type Recognition struct {
	// Objects are the recognized labels, best first.
	Objects []string

	// Message is the backend's ready-to-show summary of the result.
	Message string
}

// RecognitionError is a recognition failure reported by the backend.
type RecognitionError struct {
	StatusCode int
	Message    string
}

func (e *RecognitionError) Error() string {
	return fmt.Sprintf("camera: recognition failed (%d): %s", e.StatusCode, e.Message)
}

// Recognizer names objects in a captured frame.
type Recognizer interface {
	Recognize(ctx context.Context, jpeg []byte) (*Recognition, error)
}

// RecognizeClient sends captured frames to the backend recognition
// proxy as a multipart upload.
type RecognizeClient struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
}

// NewRecognizeClient creates a recognition client for the backend.
func NewRecognizeClient(baseURL string) *RecognizeClient {
	return &RecognizeClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: 30 * time.Second,
		http:    httpc.Client,
	}
}

type recognizeResponse struct {
	Success bool     `json:"success"`
	Objects []string `json:"objects"`
	Message string   `json:"message"`
	Error   string   `json:"error"`
}

// Recognize implements Recognizer.
func (c *RecognizeClient) Recognize(ctx context.Context, jpeg []byte) (*Recognition, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", "capture.jpg")
	if err != nil {
		return nil, fmt.Errorf("building upload: %w", err)
	}
	if _, err := part.Write(jpeg); err != nil {
		return nil, fmt.Errorf("building upload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("building upload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+RecognizePath, &body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("uploading image: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var out recognizeResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, &RecognitionError{StatusCode: resp.StatusCode, Message: RecognizeErrorText}
	}
	if !out.Success {
		msg := out.Error
		if msg == "" {
			msg = RecognizeErrorText
		}
		return nil, &RecognitionError{StatusCode: resp.StatusCode, Message: msg}
	}
	return &Recognition{Objects: out.Objects, Message: out.Message}, nil
}

var _ Recognizer = (*RecognizeClient)(nil)
