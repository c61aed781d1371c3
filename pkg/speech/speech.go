// Package speech provides the voice channel: speech-to-text and
// text-to-speech capabilities composed behind a single Channel.
//
// Both capabilities are optional. Their presence is negotiated once at
// startup and consumed thereafter as read-only configuration; call sites
// never re-probe.
package speech

import (
	"context"
	"errors"
)

// Fixed voice configuration, matching the assistant's audience.
const (
	// Locale is the recognition and synthesis language.
	Locale = "es-ES"

	// Rate is the synthesis speaking rate. Slower than natural speech
	// so early readers can follow along.
	Rate = 0.8
)

// Common errors returned by the voice channel.
var (
	ErrNoVoiceInput     = errors.New("speech: voice input not available")
	ErrNoVoiceOutput    = errors.New("speech: voice output not available")
	ErrAlreadyListening = errors.New("speech: recognition already in progress")
)

// Recognizer is the speech-to-text capability. Implementations emit at
// most one result per Start; Stop cancels an in-progress session early.
type Recognizer interface {
	// Start begins a recognition session.
	Start(ctx context.Context) error

	// Stop cancels the current session. Safe to call when idle.
	Stop()

	// OnResult sets the callback receiving the final transcript.
	OnResult(fn func(transcript string))

	// OnError sets the callback for recognition errors.
	OnError(fn func(err error))

	// OnEnd sets the callback invoked when a session ends without a
	// result (natural end or cancellation).
	OnEnd(fn func())

	// Close releases resources.
	Close() error
}

// Synthesizer is the text-to-speech capability.
type Synthesizer interface {
	// Speak voices the text. Implementations must not queue: a new
	// utterance replaces whatever is currently playing.
	Speak(ctx context.Context, text string) error

	// Cancel stops the current utterance, if any.
	Cancel()

	// Close releases resources.
	Close() error
}

// Capabilities is the fixed set of voice features available for the
// session, decided once by Negotiate.
type Capabilities struct {
	VoiceInput  bool
	VoiceOutput bool
}

// Negotiate probes capability presence. A nil capability is absent.
func Negotiate(rec Recognizer, syn Synthesizer) Capabilities {
	return Capabilities{
		VoiceInput:  rec != nil,
		VoiceOutput: syn != nil,
	}
}
