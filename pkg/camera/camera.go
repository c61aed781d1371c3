// Package camera runs the live camera: activation, a periodic object
// detection loop that paints boxes on an overlay, and one-shot capture
// for image recognition.
package camera

import (
	"errors"

	"github.com/linalabs/go-lina/pkg/detect"
)

// User-facing texts.
const (
	ActivatingText        = "Activando cámara..."
	CameraErrorText       = "No se pudo acceder a la cámara. Por favor, permite el acceso."
	NoCameraText          = "Primero activa la cámara"
	ProcessingText        = "Procesando imagen..."
	DetectionActiveText   = "Detección en tiempo real activada"
	DetectionInactiveText = "Detección en tiempo real desactivada"
	RecognizeErrorText    = "Error al reconocer la imagen"
	CaptureErrorText      = "No se pudo capturar la imagen"
	NoDetectorText        = "La detección de objetos no está disponible"
)

// DetectionThreshold is the minimum confidence for an object to be
// drawn on the overlay.
const DetectionThreshold = 0.5

// Sentinel errors.
var (
	// ErrCameraInactive is returned when an operation needs an active camera.
	ErrCameraInactive = errors.New("camera: not active")

	// ErrAlreadyActive is returned by Activate when the camera is already on.
	ErrAlreadyActive = errors.New("camera: already active")

	// ErrNoFrame is returned when the stream produced no frame.
	ErrNoFrame = errors.New("camera: no frame available")

	// ErrNoDetector is returned by ToggleDetection when no detector
	// was configured.
	ErrNoDetector = errors.New("camera: no detector configured")
)

// Stream delivers frames from an open camera.
type Stream interface {
	// Frame returns the current frame encoded as JPEG.
	Frame() ([]byte, error)

	// Close releases the camera device.
	Close() error
}

// Source opens a camera stream. Implemented by WebcamSource.
type Source interface {
	Open() (Stream, error)
}

// Overlay draws detection results over the live video.
type Overlay interface {
	// Render replaces the visible boxes and labels with the given objects.
	Render(objects []detect.Object)

	// Clear removes everything from the overlay.
	Clear()
}
