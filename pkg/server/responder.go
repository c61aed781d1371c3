package server

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"unicode"
)

// Reply is the JSON answer for the chat endpoints.
type Reply struct {
	Reply  string `json:"reply"`
	Status string `json:"status"`
	Type   string `json:"type,omitempty"`
	Letter string `json:"letter,omitempty"`
	Word   string `json:"word,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Reply types tagged onto certain answers so the client can attach
// follow-up actions.
const (
	TypeSaludo          = "saludo"
	TypeDespedida       = "despedida"
	TypeVocalesInfo     = "vocales_info"
	TypeVocalesDetalle  = "vocales_detalle"
	TypeVocalEspecifica = "vocal_especifica"
	TypeAlfabetoInfo    = "alfabeto_info"
	TypeAlfabetoPract   = "alfabeto_practica"
	TypeLetraInfo       = "letra_info"
	TypePalabraInfo     = "palabra_info"
)

var responses = map[string][]string{
	"saludo": {
		"¡Hola! Soy tu asistente para aprender a leer y escribir. ¿En qué puedo ayudarte hoy?",
		"¡Hola! ¿Qué te gustaría aprender hoy? Podemos practicar letras o palabras.",
	},
	"despedida": {
		"¡Hasta luego! Recuerda practicar lo aprendido.",
		"¡Adiós! Siempre estoy aquí para ayudarte a aprender.",
	},
	"alfabeto": {
		"Vamos a aprender el alfabeto. Las letras son: A-B-C-D-E-F-G-H-I-J-K-L-M-N-Ñ-O-P-Q-R-S-T-U-V-W-X-Y-Z",
		"El alfabeto tiene 27 letras. ¿Quieres practicar alguna en particular?",
	},
	"vocales": {
		"Las vocales son: A, E, I, O, U. ¿Quieres que te enseñe a escribir alguna?",
		"A-E-I-O-U. Las vocales son la base de todas las palabras.",
	},
	"letra": {
		"¡Excelente elección! La letra %s se escribe así: %s",
		"Para escribir la letra %s: %s",
	},
	"palabra": {
		"La palabra '%s' se escribe así: %s",
		"¡Vamos a deletrear '%s': %s",
	},
	"default": {
		"No estoy seguro de entender. ¿Podrías preguntarme sobre letras o palabras?",
		"Todavía estoy aprendiendo. ¿Quieres practicar el abecedario o alguna palabra?",
	},
}

var letterExamples = map[string]string{
	"A": `como en "Avión" (A-V-I-Ó-N) o "Árbol" (Á-R-B-O-L)`,
	"B": `como en "Barco" (B-A-R-C-O) o "Bota" (B-O-T-A)`,
	"C": `como en "Casa" (C-A-S-A) o "Coche" (C-O-C-H-E)`,
	"M": `como en "Manzana" (M-A-N-Z-A-N-A)`,
	"P": `como en "Perro" (P-E-R-R-O)`,
	"S": `como en "Sol" (S-O-L)`,
}

var vowelShapes = map[string]string{
	"A": "La A se escribe como un triángulo con una línea horizontal en el medio",
	"E": "La E se escribe con una línea vertical y tres líneas horizontales",
	"I": "La I es una línea vertical con un punto arriba",
	"O": "La O es un círculo completo",
	"U": "La U es una curva hacia abajo y luego hacia arriba",
}

const vowelDetail = "¡Perfecto! Las vocales son: A (se escribe como un triángulo), E (línea horizontal con una curva), I (línea vertical), O (círculo), U (línea curva). ¿Quieres practicar escribir alguna en particular?"

const alphabetPractice = "Vamos a practicar. ¿Qué letra te gustaría aprender primero? Puedes decirme una letra como 'A', 'B', 'M', etc."

const menuReply = "¿Te gustaría aprender sobre: 1) Las vocales, 2) El alfabeto completo, o 3) Cómo se escribe una palabra específica?"

// Responder answers chat messages with the rule-based knowledge base
// and remembers the last reply type per user for follow-up questions.
type Responder struct {
	mu       sync.Mutex
	lastType map[string]string

	// pick selects among response variants; replaceable in tests.
	pick func(n int) int
}

// NewResponder creates an empty responder.
func NewResponder() *Responder {
	return &Responder{
		lastType: make(map[string]string),
		pick:     rand.Intn,
	}
}

func (r *Responder) choose(key string) string {
	variants := responses[key]
	return variants[r.pick(len(variants))]
}

func (r *Responder) context(userID string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastType[userID]
}

func (r *Responder) remember(userID string, reply Reply) Reply {
	if reply.Type != "" {
		r.mu.Lock()
		r.lastType[userID] = reply.Type
		r.mu.Unlock()
	}
	return reply
}

func (r *Responder) clearContext(userID string) {
	r.mu.Lock()
	delete(r.lastType, userID)
	r.mu.Unlock()
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return s != ""
}

// spellOut renders a word as 'S'-'O'-'L'.
func spellOut(word string) string {
	letters := strings.Split(strings.ToUpper(word), "")
	for i, l := range letters {
		letters[i] = "'" + l + "'"
	}
	return strings.Join(letters, "-")
}

func letterReply(r *Responder, letter string) (string, string) {
	example, ok := letterExamples[letter]
	if !ok {
		example = fmt.Sprintf("La letra %s aparece en muchas palabras", letter)
	}
	return fmt.Sprintf(r.choose("letra"), letter, example), example
}

// Basic answers a message with the rule engine alone.
func (r *Responder) Basic(message, userID string) Reply {
	msg := strings.ToLower(strings.TrimSpace(message))

	if containsAny(msg, "hola", "hi", "buenos días", "buenas tardes") {
		r.clearContext(userID)
		return r.remember(userID, Reply{Reply: r.choose("saludo"), Status: "success", Type: TypeSaludo})
	}

	if containsAny(msg, "adiós", "chao", "hasta luego", "nos vemos") {
		r.clearContext(userID)
		return r.remember(userID, Reply{Reply: r.choose("despedida"), Status: "success", Type: TypeDespedida})
	}

	if containsAny(msg, "vocales", "a e i o u") {
		return r.remember(userID, Reply{Reply: r.choose("vocales"), Status: "success", Type: TypeVocalesInfo})
	}

	if containsAny(msg, "alfabeto", "abecedario", "letras") {
		return r.remember(userID, Reply{Reply: r.choose("alfabeto"), Status: "success", Type: TypeAlfabetoInfo})
	}

	// Single letters.
	if len([]rune(msg)) == 1 && isAlpha(msg) {
		letter := strings.ToUpper(msg)
		text, _ := letterReply(r, letter)
		return r.remember(userID, Reply{Reply: text, Status: "success", Type: TypeLetraInfo, Letter: letter})
	}

	// Single words get spelled out.
	if len(strings.Fields(msg)) == 1 && isAlpha(msg) && len([]rune(msg)) > 1 &&
		!containsAny(msg, "hola", "adios") {
		return r.remember(userID, Reply{
			Reply:  fmt.Sprintf(r.choose("palabra"), msg, spellOut(msg)),
			Status: "success",
			Type:   TypePalabraInfo,
			Word:   msg,
		})
	}

	// Follow-ups depend on what was last offered.
	switch r.context(userID) {
	case TypeVocalesInfo:
		if containsAny(msg, "sí", "si", "claro", "por favor") {
			return r.remember(userID, Reply{Reply: vowelDetail, Status: "success", Type: TypeVocalesDetalle})
		}
		if containsAny(msg, "a", "e", "i", "o", "u") {
			vowel := strings.ToUpper(msg)
			text, ok := vowelShapes[vowel]
			if !ok {
				text = fmt.Sprintf("La vocal %s es importante. ¿Quieres practicar escribirla?", vowel)
			}
			return r.remember(userID, Reply{Reply: text, Status: "success", Type: TypeVocalEspecifica})
		}

	case TypeAlfabetoInfo:
		if containsAny(msg, "sí", "si", "claro", "por favor") {
			return r.remember(userID, Reply{Reply: alphabetPractice, Status: "success", Type: TypeAlfabetoPract})
		}
	}

	if r.context(userID) == "" {
		return Reply{Reply: menuReply, Status: "success"}
	}
	return Reply{Reply: r.choose("default"), Status: "success"}
}

// FromIntent answers from an intent detected by the language service.
func (r *Responder) FromIntent(intent string, entities map[string][]WitEntity, userID string) Reply {
	switch intent {
	case "saludo":
		return r.remember(userID, Reply{Reply: r.choose("saludo"), Status: "success", Type: TypeSaludo})

	case "despedida":
		return r.remember(userID, Reply{Reply: r.choose("despedida"), Status: "success", Type: TypeDespedida})

	case "learn_letter":
		if ents := entities["letra"]; len(ents) > 0 {
			letter := strings.ToUpper(ents[0].Body)
			text, _ := letterReply(r, letter)
			return r.remember(userID, Reply{Reply: text, Status: "success", Type: TypeLetraInfo, Letter: letter})
		}

	case "learn_word":
		if ents := entities["palabra"]; len(ents) > 0 {
			word := ents[0].Body
			return r.remember(userID, Reply{
				Reply:  fmt.Sprintf(r.choose("palabra"), word, spellOut(word)),
				Status: "success",
				Type:   TypePalabraInfo,
				Word:   word,
			})
		}
	}

	return Reply{Reply: r.choose("default"), Status: "success"}
}
