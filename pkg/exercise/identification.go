package exercise

import (
	"fmt"
	"strings"
)

// Identification asks which of several words starts with a target
// letter.
type Identification struct {
	word    string
	letter  string
	options []string
}

// NewIdentification creates the default exercise: which word starts
// with M, answer "Manzana".
func NewIdentification() *Identification {
	return &Identification{
		word:    "Manzana",
		letter:  "M",
		options: []string{"Manzana", "Pera", "Uva"},
	}
}

// NewIdentificationFor builds an identification exercise around the
// given word, using its first letter as the target.
func NewIdentificationFor(word string, options ...string) *Identification {
	letter := ""
	if word != "" {
		letter = strings.ToUpper(word[:1])
	}
	return &Identification{word: word, letter: letter, options: options}
}

// Options returns the selectable words.
func (e *Identification) Options() []string {
	return append([]string(nil), e.options...)
}

// Letter returns the target letter.
func (e *Identification) Letter() string {
	return e.letter
}

// Check grades a chosen word.
func (e *Identification) Check(choice string) Result {
	if strings.HasPrefix(strings.ToUpper(choice), e.letter) {
		return Result{
			Correct:   true,
			Feedback:  fmt.Sprintf("¡Correcto! %q empieza con %s.", e.word, e.letter),
			Utterance: fmt.Sprintf("¡Correcto! %s empieza con la letra %s.", e.word, e.letter),
		}
	}
	return Result{
		Correct:   false,
		Feedback:  fmt.Sprintf("Intenta nuevamente. Busca una palabra que empiece con %s.", e.letter),
		Utterance: "No es correcto. Intenta de nuevo.",
	}
}
