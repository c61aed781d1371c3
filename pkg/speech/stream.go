package speech

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/linalabs/go-lina/internal/log"
)

const handshakeTimeout = 10 * time.Second

// StreamRecognizer implements Recognizer against a streaming
// speech-to-text service over WebSocket. The service contract: the
// client sends a start frame, then binary audio chunks; the service
// answers with JSON frames {"type": "transcript"|"error"|"end", ...}.
type StreamRecognizer struct {
	url string

	connMu sync.Mutex
	conn   *websocket.Conn

	mu       sync.Mutex
	active   bool
	onResult func(transcript string)
	onError  func(err error)
	onEnd    func()
}

// NewStreamRecognizer creates a recognizer for the given WebSocket URL.
func NewStreamRecognizer(url string) *StreamRecognizer {
	return &StreamRecognizer{url: url}
}

type sttFrame struct {
	Type  string `json:"type"`
	Text  string `json:"text,omitempty"`
	Error string `json:"error,omitempty"`
	Final bool   `json:"final,omitempty"`
}

// Start dials the service and begins a recognition session.
func (r *StreamRecognizer) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.active {
		r.mu.Unlock()
		return ErrAlreadyListening
	}
	r.active = true
	r.mu.Unlock()

	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	conn, resp, err := dialer.DialContext(ctx, r.url, nil)
	if err != nil {
		r.setActive(false)
		if resp != nil {
			return fmt.Errorf("speech: dial failed (status %d): %w", resp.StatusCode, err)
		}
		return fmt.Errorf("speech: dial failed: %w", err)
	}

	start := map[string]any{
		"type":   "start",
		"locale": Locale,
	}
	if err := conn.WriteJSON(start); err != nil {
		conn.Close()
		r.setActive(false)
		return fmt.Errorf("speech: send start frame: %w", err)
	}

	r.connMu.Lock()
	r.conn = conn
	r.connMu.Unlock()

	go r.readLoop(conn)
	return nil
}

// SendAudio forwards a PCM16 audio chunk to the service.
func (r *StreamRecognizer) SendAudio(pcm16 []byte) error {
	r.connMu.Lock()
	conn := r.conn
	r.connMu.Unlock()

	if conn == nil {
		return ErrNoVoiceInput
	}
	return conn.WriteMessage(websocket.BinaryMessage, pcm16)
}

// Stop cancels the session. The service's own close suppresses any
// pending transcript.
func (r *StreamRecognizer) Stop() {
	r.setActive(false)
	r.closeConn()
}

// OnResult sets the final-transcript callback.
func (r *StreamRecognizer) OnResult(fn func(transcript string)) {
	r.mu.Lock()
	r.onResult = fn
	r.mu.Unlock()
}

// OnError sets the error callback.
func (r *StreamRecognizer) OnError(fn func(err error)) {
	r.mu.Lock()
	r.onError = fn
	r.mu.Unlock()
}

// OnEnd sets the session-end callback.
func (r *StreamRecognizer) OnEnd(fn func()) {
	r.mu.Lock()
	r.onEnd = fn
	r.mu.Unlock()
}

// Close releases the connection.
func (r *StreamRecognizer) Close() error {
	r.Stop()
	return nil
}

func (r *StreamRecognizer) readLoop(conn *websocket.Conn) {
	defer r.closeConn()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			// A deliberate Stop closes the connection; only surface
			// errors from sessions that were still active.
			if r.isActive() {
				r.setActive(false)
				r.emitError(fmt.Errorf("speech: read: %w", err))
			}
			return
		}

		var frame sttFrame
		if err := json.Unmarshal(msg, &frame); err != nil {
			log.Warn("unparseable speech frame", "error", err)
			continue
		}

		switch frame.Type {
		case "transcript":
			if !frame.Final {
				continue
			}
			if !r.isActive() {
				return
			}
			r.setActive(false)
			r.emitResult(frame.Text)
			return

		case "error":
			if r.isActive() {
				r.setActive(false)
				r.emitError(fmt.Errorf("speech: service error: %s", frame.Error))
			}
			return

		case "end":
			if r.isActive() {
				r.setActive(false)
				r.emitEnd()
			}
			return
		}
	}
}

func (r *StreamRecognizer) closeConn() {
	r.connMu.Lock()
	if r.conn != nil {
		r.conn.Close()
		r.conn = nil
	}
	r.connMu.Unlock()
}

func (r *StreamRecognizer) isActive() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

func (r *StreamRecognizer) setActive(v bool) {
	r.mu.Lock()
	r.active = v
	r.mu.Unlock()
}

func (r *StreamRecognizer) emitResult(text string) {
	r.mu.Lock()
	fn := r.onResult
	r.mu.Unlock()
	if fn != nil {
		fn(text)
	}
}

func (r *StreamRecognizer) emitError(err error) {
	r.mu.Lock()
	fn := r.onError
	r.mu.Unlock()
	if fn != nil {
		fn(err)
	}
}

func (r *StreamRecognizer) emitEnd() {
	r.mu.Lock()
	fn := r.onEnd
	r.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Verify StreamRecognizer implements Recognizer at compile time.
var _ Recognizer = (*StreamRecognizer)(nil)
