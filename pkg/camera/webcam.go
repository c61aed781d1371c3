package camera

import (
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// WebcamConfig holds local webcam settings.
type WebcamConfig struct {
	// DeviceID is the V4L2 / system camera index.
	DeviceID int

	// Width and Height request a capture resolution. Zero leaves the
	// device default.
	Width  int
	Height int
}

// DefaultWebcamConfig returns settings for the first system camera.
func DefaultWebcamConfig() WebcamConfig {
	return WebcamConfig{DeviceID: 0, Width: 640, Height: 480}
}

// WebcamSource opens a local camera device through OpenCV.
type WebcamSource struct {
	config WebcamConfig
}

// NewWebcamSource creates a source for the given device.
func NewWebcamSource(config WebcamConfig) *WebcamSource {
	return &WebcamSource{config: config}
}

// Open implements Source.
func (s *WebcamSource) Open() (Stream, error) {
	capture, err := gocv.OpenVideoCapture(s.config.DeviceID)
	if err != nil {
		return nil, fmt.Errorf("opening camera %d: %w", s.config.DeviceID, err)
	}
	if s.config.Width > 0 {
		capture.Set(gocv.VideoCaptureFrameWidth, float64(s.config.Width))
	}
	if s.config.Height > 0 {
		capture.Set(gocv.VideoCaptureFrameHeight, float64(s.config.Height))
	}
	return &webcamStream{capture: capture, mat: gocv.NewMat()}, nil
}

var _ Source = (*WebcamSource)(nil)

type webcamStream struct {
	mu      sync.Mutex
	capture *gocv.VideoCapture
	mat     gocv.Mat
}

// Frame reads one frame and encodes it as JPEG. Safe for concurrent use.
func (w *webcamStream) Frame() ([]byte, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if ok := w.capture.Read(&w.mat); !ok || w.mat.Empty() {
		return nil, ErrNoFrame
	}
	buf, err := gocv.IMEncode(gocv.JPEGFileExt, w.mat)
	if err != nil {
		return nil, fmt.Errorf("encoding frame: %w", err)
	}
	defer buf.Close()

	out := make([]byte, len(buf.GetBytes()))
	copy(out, buf.GetBytes())
	return out, nil
}

func (w *webcamStream) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.mat.Close()
	return w.capture.Close()
}
