package exercise

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Spelling asks the learner to spell a word letter by letter.
type Spelling struct {
	word string
}

// NewSpelling creates the default spelling exercise for "Sol".
func NewSpelling() *Spelling {
	return NewSpellingFor("sol")
}

// NewSpellingFor creates a spelling exercise for the given word.
func NewSpellingFor(word string) *Spelling {
	return &Spelling{word: strings.ToUpper(strings.TrimSpace(word))}
}

// Word returns the target word in upper case.
func (e *Spelling) Word() string {
	return e.word
}

// Length returns how many letters the answer takes.
func (e *Spelling) Length() int {
	return len([]rune(e.word))
}

// Check grades the entered letters. Case does not matter.
func (e *Spelling) Check(letters []string) Result {
	var b strings.Builder
	for _, l := range letters {
		b.WriteString(strings.ToUpper(strings.TrimSpace(l)))
	}

	display := cases.Title(language.Spanish).String(strings.ToLower(e.word))
	spelled := e.spelled()

	if b.String() == e.word {
		return Result{
			Correct:   true,
			Feedback:  fmt.Sprintf("¡Excelente! %s es %q.", spelled, display),
			Utterance: fmt.Sprintf("¡Excelente! %s se deletrea %s.", display, spelled),
		}
	}
	return Result{
		Correct:   false,
		Feedback:  fmt.Sprintf("La palabra %q se escribe %s. Intenta nuevamente.", display, spelled),
		Utterance: fmt.Sprintf("No es correcto. %s se deletrea %s.", display, spelled),
	}
}

// spelled renders the word letter by letter, "S-O-L".
func (e *Spelling) spelled() string {
	letters := strings.Split(e.word, "")
	return strings.Join(letters, "-")
}
