package speech

import (
	"context"
	"sync"
)

// MockRecognizer implements Recognizer for testing. Tests drive it by
// calling EmitResult, EmitError, or EmitEnd after Start.
type MockRecognizer struct {
	// StartFunc overrides Start when set.
	StartFunc func(ctx context.Context) error

	mu       sync.Mutex
	started  int
	stopped  int
	onResult func(transcript string)
	onError  func(err error)
	onEnd    func()
}

// NewMockRecognizer creates a mock recognizer.
func NewMockRecognizer() *MockRecognizer {
	return &MockRecognizer{}
}

// Start records the call.
func (m *MockRecognizer) Start(ctx context.Context) error {
	m.mu.Lock()
	m.started++
	m.mu.Unlock()
	if m.StartFunc != nil {
		return m.StartFunc(ctx)
	}
	return nil
}

// Stop records the call.
func (m *MockRecognizer) Stop() {
	m.mu.Lock()
	m.stopped++
	m.mu.Unlock()
}

// OnResult stores the result callback.
func (m *MockRecognizer) OnResult(fn func(transcript string)) {
	m.mu.Lock()
	m.onResult = fn
	m.mu.Unlock()
}

// OnError stores the error callback.
func (m *MockRecognizer) OnError(fn func(err error)) {
	m.mu.Lock()
	m.onError = fn
	m.mu.Unlock()
}

// OnEnd stores the end callback.
func (m *MockRecognizer) OnEnd(fn func()) {
	m.mu.Lock()
	m.onEnd = fn
	m.mu.Unlock()
}

// Close is a no-op.
func (m *MockRecognizer) Close() error { return nil }

// EmitResult simulates a final transcript from the capability.
func (m *MockRecognizer) EmitResult(transcript string) {
	m.mu.Lock()
	fn := m.onResult
	m.mu.Unlock()
	if fn != nil {
		fn(transcript)
	}
}

// EmitError simulates a recognition error.
func (m *MockRecognizer) EmitError(err error) {
	m.mu.Lock()
	fn := m.onError
	m.mu.Unlock()
	if fn != nil {
		fn(err)
	}
}

// EmitEnd simulates a session ending without a result.
func (m *MockRecognizer) EmitEnd() {
	m.mu.Lock()
	fn := m.onEnd
	m.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// StartCount returns how many times Start was called.
func (m *MockRecognizer) StartCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.started
}

// StopCount returns how many times Stop was called.
func (m *MockRecognizer) StopCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopped
}

// MockSynthesizer implements Synthesizer for testing, recording every
// utterance and cancellation.
type MockSynthesizer struct {
	// SpeakFunc overrides Speak when set.
	SpeakFunc func(ctx context.Context, text string) error

	mu      sync.Mutex
	spoken  []string
	cancels int
}

// NewMockSynthesizer creates a mock synthesizer.
func NewMockSynthesizer() *MockSynthesizer {
	return &MockSynthesizer{}
}

// Speak records the utterance.
func (m *MockSynthesizer) Speak(ctx context.Context, text string) error {
	m.mu.Lock()
	m.spoken = append(m.spoken, text)
	m.mu.Unlock()
	if m.SpeakFunc != nil {
		return m.SpeakFunc(ctx, text)
	}
	return nil
}

// Cancel records the cancellation.
func (m *MockSynthesizer) Cancel() {
	m.mu.Lock()
	m.cancels++
	m.mu.Unlock()
}

// Close is a no-op.
func (m *MockSynthesizer) Close() error { return nil }

// Spoken returns every utterance passed to Speak, in order.
func (m *MockSynthesizer) Spoken() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.spoken))
	copy(out, m.spoken)
	return out
}

// CancelCount returns how many times Cancel was called.
func (m *MockSynthesizer) CancelCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cancels
}

// Verify mocks implement the capabilities at compile time.
var (
	_ Recognizer  = (*MockRecognizer)(nil)
	_ Synthesizer = (*MockSynthesizer)(nil)
)
