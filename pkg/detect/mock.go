package detect

import "sync"

// Mock implements Detector for testing.
// DetectFunc can be customized; if nil, Detect returns Objects as-is.
type Mock struct {
	// Objects is returned by Detect when DetectFunc is nil.
	Objects []Object

	// DetectFunc overrides the default behavior when set.
	DetectFunc func(jpeg []byte) ([]Object, error)

	mu      sync.Mutex
	detects int
}

// NewMock creates a mock detector returning the given objects.
func NewMock(objects ...Object) *Mock {
	return &Mock{Objects: objects}
}

// Detect returns the configured objects and records the call.
func (m *Mock) Detect(jpeg []byte) ([]Object, error) {
	m.mu.Lock()
	m.detects++
	m.mu.Unlock()

	if m.DetectFunc != nil {
		return m.DetectFunc(jpeg)
	}
	out := make([]Object, len(m.Objects))
	copy(out, m.Objects)
	return out, nil
}

// Close is a no-op.
func (m *Mock) Close() error { return nil }

// DetectCount returns how many times Detect was called.
func (m *Mock) DetectCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.detects
}

// Verify Mock implements Detector at compile time.
var _ Detector = (*Mock)(nil)
