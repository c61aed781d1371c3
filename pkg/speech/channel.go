package speech

import (
	"context"
	"sync"

	"github.com/linalabs/go-lina/internal/log"
)

// Channel composes a Recognizer and a Synthesizer into the session's
// voice channel. It owns the recognizing flag: true only between Start
// and a result, an error, an explicit stop, or natural end.
//
// Policy: starting to listen cancels any utterance in progress, so the
// microphone never captures the assistant's own voice. The reverse is
// allowed: Speak during an active recognition proceeds but is logged.
type Channel struct {
	rec  Recognizer
	syn  Synthesizer
	caps Capabilities

	mu          sync.Mutex
	recognizing bool

	onTranscript func(transcript string)
	onError      func(err error)
}

// NewChannel builds a voice channel from the negotiated capabilities.
// Either capability may be nil.
func NewChannel(rec Recognizer, syn Synthesizer) *Channel {
	c := &Channel{
		rec:  rec,
		syn:  syn,
		caps: Negotiate(rec, syn),
	}

	if rec != nil {
		rec.OnResult(c.handleResult)
		rec.OnError(c.handleError)
		rec.OnEnd(c.handleEnd)
	}
	if syn == nil {
		log.Warn("text-to-speech not available, speak calls will no-op")
	}

	return c
}

// Capabilities returns the fixed feature set negotiated at setup.
func (c *Channel) Capabilities() Capabilities {
	return c.caps
}

// OnTranscript sets the callback receiving final transcripts. The chat
// controller registers here so voice input flows like typed input.
func (c *Channel) OnTranscript(fn func(transcript string)) {
	c.mu.Lock()
	c.onTranscript = fn
	c.mu.Unlock()
}

// OnError sets the callback for recognition failures.
func (c *Channel) OnError(fn func(err error)) {
	c.mu.Lock()
	c.onError = fn
	c.mu.Unlock()
}

// StartListening begins a recognition session.
func (c *Channel) StartListening(ctx context.Context) error {
	if !c.caps.VoiceInput {
		return ErrNoVoiceInput
	}

	c.mu.Lock()
	if c.recognizing {
		c.mu.Unlock()
		return ErrAlreadyListening
	}
	c.recognizing = true
	c.mu.Unlock()

	// Never listen to ourselves.
	if c.syn != nil {
		c.syn.Cancel()
	}

	if err := c.rec.Start(ctx); err != nil {
		c.mu.Lock()
		c.recognizing = false
		c.mu.Unlock()
		return err
	}
	return nil
}

// StopListening cancels an in-progress recognition session early.
// Safe to call when idle.
func (c *Channel) StopListening() {
	c.mu.Lock()
	active := c.recognizing
	c.recognizing = false
	c.mu.Unlock()

	if active && c.rec != nil {
		c.rec.Stop()
	}
}

// IsRecognizing reports whether a recognition session is in progress.
func (c *Channel) IsRecognizing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recognizing
}

// Speak voices the text, cancelling any current utterance first.
// Last write wins; there is no queue. Without a synthesizer this is a
// logged no-op.
func (c *Channel) Speak(ctx context.Context, text string) {
	if !c.caps.VoiceOutput {
		log.Debug("speak skipped, no synthesizer", "text", text)
		return
	}

	if c.IsRecognizing() {
		log.Warn("speaking while microphone is active", "text", text)
	}

	c.syn.Cancel()
	if err := c.syn.Speak(ctx, text); err != nil {
		log.Error("speech synthesis failed", "error", err)
	}
}

// Close releases both capabilities.
func (c *Channel) Close() error {
	c.StopListening()
	var err error
	if c.rec != nil {
		err = c.rec.Close()
	}
	if c.syn != nil {
		if cerr := c.syn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func (c *Channel) handleResult(transcript string) {
	c.mu.Lock()
	c.recognizing = false
	fn := c.onTranscript
	c.mu.Unlock()

	if fn != nil {
		fn(transcript)
	}
}

func (c *Channel) handleError(err error) {
	c.mu.Lock()
	c.recognizing = false
	fn := c.onError
	c.mu.Unlock()

	log.Error("speech recognition error", "error", err)
	if fn != nil {
		fn(err)
	}
}

func (c *Channel) handleEnd() {
	c.mu.Lock()
	c.recognizing = false
	c.mu.Unlock()
}
