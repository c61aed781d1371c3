// Package msglog implements the append-only chat message log.
//
// The log is the one structure every controller writes to: user messages,
// bot replies, system notices, and transient placeholders all land here in
// insertion order. Entries are immutable once appended; a Handle lets the
// appender remove its own transient entries ("Pensando...", "Procesando
// imagen...") once the real result arrives.
package msglog

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Sender identifies who produced a message.
type Sender string

const (
	SenderUser   Sender = "user"
	SenderBot    Sender = "bot"
	SenderSystem Sender = "system"
)

// Message is one entry in the log. Image optionally holds a captured
// JPEG frame shown alongside the text.
type Message struct {
	ID     string    `json:"id"`
	Text   string    `json:"text"`
	Sender Sender    `json:"sender"`
	Image  []byte    `json:"image,omitempty"`
	Time   time.Time `json:"time"`
}

// Handle references a previously appended message so the caller can
// remove it later. The zero Handle references nothing.
type Handle struct {
	id string
}

// Sink receives log mutations, typically to render them somewhere.
type Sink interface {
	MessageAppended(msg Message)
	MessageRemoved(id string)
}

// Log is an ordered, append-only message sequence.
// All methods are safe for concurrent use.
type Log struct {
	mu      sync.Mutex
	entries []Message
	sinks   []Sink
}

// New creates an empty log.
func New() *Log {
	return &Log{}
}

// AddSink registers a render target. Sinks are notified after each
// mutation, in registration order.
func (l *Log) AddSink(s Sink) {
	l.mu.Lock()
	l.sinks = append(l.sinks, s)
	l.mu.Unlock()
}

// Append adds a text message and returns a handle for later removal.
func (l *Log) Append(text string, sender Sender) Handle {
	return l.append(Message{Text: text, Sender: sender})
}

// AppendImage adds a message carrying a captured frame.
func (l *Log) AppendImage(text string, sender Sender, image []byte) Handle {
	return l.append(Message{Text: text, Sender: sender, Image: image})
}

func (l *Log) append(msg Message) Handle {
	msg.ID = uuid.NewString()
	msg.Time = time.Now()

	l.mu.Lock()
	l.entries = append(l.entries, msg)
	sinks := append([]Sink(nil), l.sinks...)
	l.mu.Unlock()

	for _, s := range sinks {
		s.MessageAppended(msg)
	}
	return Handle{id: msg.ID}
}

// Remove deletes the entry the handle refers to. Removing an entry that
// was already removed, or a zero handle, is a no-op and returns false.
func (l *Log) Remove(h Handle) bool {
	if h.id == "" {
		return false
	}

	l.mu.Lock()
	idx := -1
	for i, m := range l.entries {
		if m.ID == h.id {
			idx = i
			break
		}
	}
	if idx < 0 {
		l.mu.Unlock()
		return false
	}
	l.entries = append(l.entries[:idx], l.entries[idx+1:]...)
	sinks := append([]Sink(nil), l.sinks...)
	l.mu.Unlock()

	for _, s := range sinks {
		s.MessageRemoved(h.id)
	}
	return true
}

// Messages returns a snapshot of all entries in insertion order.
func (l *Log) Messages() []Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Message, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Last returns the newest entry, if any.
func (l *Log) Last() (Message, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.entries) == 0 {
		return Message{}, false
	}
	return l.entries[len(l.entries)-1], true
}
