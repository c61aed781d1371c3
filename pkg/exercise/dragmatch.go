package exercise

import "sync"

// DragMatch asks the learner to drag letters onto their matching
// zones. It mirrors drag and drop: a drag starts, then a drop places
// the dragged letter into a zone, replacing whatever was there.
type DragMatch struct {
	mu       sync.Mutex
	expected []string
	placed   map[string]string

	dragged    string
	hasDragged bool
}

// NewDragMatch creates a matching exercise with the default letters.
func NewDragMatch() *DragMatch {
	return NewDragMatchFor("A", "E", "M")
}

// NewDragMatchFor creates a matching exercise with one zone per letter.
func NewDragMatchFor(letters ...string) *DragMatch {
	return &DragMatch{
		expected: append([]string(nil), letters...),
		placed:   make(map[string]string),
	}
}

// Zones returns the zone letters in order.
func (e *DragMatch) Zones() []string {
	return append([]string(nil), e.expected...)
}

// DragStart records the letter being dragged.
func (e *DragMatch) DragStart(letter string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.dragged = letter
	e.hasDragged = true
}

// Drop places the dragged letter into a zone and ends the drag. A
// drop with no drag in progress does nothing. It returns true when a
// letter was placed.
func (e *DragMatch) Drop(zone string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.hasDragged {
		return false
	}
	letter := e.dragged
	e.dragged = ""
	e.hasDragged = false

	for _, z := range e.expected {
		if z == zone {
			e.placed[zone] = letter
			return true
		}
	}
	return false
}

// DragEnd clears the dragged letter without placing it, as when the
// gesture ends outside every zone.
func (e *DragMatch) DragEnd() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.dragged = ""
	e.hasDragged = false
}

// Placed returns the letter currently in a zone, if any.
func (e *DragMatch) Placed(zone string) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	letter, ok := e.placed[zone]
	return letter, ok
}

// Check grades the board: every zone must hold its own letter.
func (e *DragMatch) Check() Result {
	e.mu.Lock()
	allCorrect := true
	for _, zone := range e.expected {
		if e.placed[zone] != zone {
			allCorrect = false
			break
		}
	}
	e.mu.Unlock()

	if allCorrect {
		return Result{
			Correct:   true,
			Feedback:  "¡Perfecto! Has emparejado todas las letras correctamente.",
			Utterance: "¡Perfecto! Todas las letras están emparejadas correctamente.",
		}
	}
	return Result{
		Correct:   false,
		Feedback:  "Algunas letras no están emparejadas correctamente. Intenta nuevamente.",
		Utterance: "Algunas letras no están correctas. Intenta nuevamente.",
	}
}
