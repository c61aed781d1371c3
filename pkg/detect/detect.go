// Package detect provides object detection over captured camera frames.
package detect

import "fmt"

// Box is an axis-aligned bounding box in frame pixel coordinates.
type Box struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Object represents one detected object.
type Object struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"` // 0-1
	Box        Box     `json:"box"`
}

// String renders the object the way overlay labels display it.
func (o Object) String() string {
	return fmt.Sprintf("%s (%d%%)", o.Label, int(o.Confidence*100+0.5))
}

// Detector is the interface for object detection backends.
type Detector interface {
	// Detect finds objects in the JPEG frame and returns them with
	// bounding boxes in the frame's pixel coordinate space.
	Detect(jpeg []byte) ([]Object, error)

	// Close releases resources.
	Close() error
}

// Filter returns the objects at or above the given confidence.
// The order of the input is preserved.
func Filter(objects []Object, minConfidence float64) []Object {
	var out []Object
	for _, o := range objects {
		if o.Confidence >= minConfidence {
			out = append(out, o)
		}
	}
	return out
}

// Labels returns the object labels in detection order.
func Labels(objects []Object) []string {
	labels := make([]string, len(objects))
	for i, o := range objects {
		labels[i] = o.Label
	}
	return labels
}
