package camera

import (
	"context"
	"sync"

	"github.com/linalabs/go-lina/pkg/detect"
)

// MockStream is a Stream for testing.
type MockStream struct {
	mu sync.Mutex

	// FrameData is returned by Frame when FrameFunc is nil.
	FrameData []byte

	// FrameFunc overrides Frame behavior.
	FrameFunc func() ([]byte, error)

	// FrameCount tracks Frame calls.
	FrameCount int

	// Closed reports whether Close was called.
	Closed bool
}

// Frame implements Stream.
func (m *MockStream) Frame() ([]byte, error) {
	m.mu.Lock()
	m.FrameCount++
	fn := m.FrameFunc
	data := m.FrameData
	m.mu.Unlock()

	if fn != nil {
		return fn()
	}
	return data, nil
}

// Close implements Stream.
func (m *MockStream) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}

// MockSource is a Source for testing.
type MockSource struct {
	// Stream is handed out by Open.
	Stream *MockStream

	// OpenErr makes Open fail.
	OpenErr error

	// OpenCount tracks Open calls.
	OpenCount int
}

// Open implements Source.
func (m *MockSource) Open() (Stream, error) {
	m.OpenCount++
	if m.OpenErr != nil {
		return nil, m.OpenErr
	}
	if m.Stream == nil {
		m.Stream = &MockStream{FrameData: []byte("frame")}
	}
	return m.Stream, nil
}

// MockOverlay records rendered objects for testing.
type MockOverlay struct {
	mu      sync.Mutex
	objects []detect.Object

	// RenderCount and ClearCount track calls.
	RenderCount int
	ClearCount  int
}

// Render implements Overlay.
func (m *MockOverlay) Render(objects []detect.Object) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RenderCount++
	m.objects = append([]detect.Object(nil), objects...)
}

// Clear implements Overlay.
func (m *MockOverlay) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ClearCount++
	m.objects = nil
}

// Objects returns the objects currently on the overlay.
func (m *MockOverlay) Objects() []detect.Object {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]detect.Object(nil), m.objects...)
}

// MockRecognizer is a Recognizer for testing.
type MockRecognizer struct {
	// Result is returned by Recognize when Err is nil.
	Result *Recognition

	// Err makes Recognize fail.
	Err error

	// Calls tracks Recognize invocations.
	Calls int
}

// Recognize implements Recognizer.
func (m *MockRecognizer) Recognize(_ context.Context, _ []byte) (*Recognition, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Result, nil
}

var (
	_ Stream     = (*MockStream)(nil)
	_ Source     = (*MockSource)(nil)
	_ Overlay    = (*MockOverlay)(nil)
	_ Recognizer = (*MockRecognizer)(nil)
)
