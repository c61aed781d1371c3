// Package exercise implements the interactive literacy exercises:
// letter identification, word spelling and letter matching.
package exercise

import "context"

// Result is the outcome of checking an exercise attempt.
type Result struct {
	// Correct reports whether the attempt was right.
	Correct bool

	// Feedback is the text shown on the exercise panel.
	Feedback string

	// Utterance is the text spoken aloud.
	Utterance string
}

// Speaker voices exercise feedback. Implemented by *speech.Channel.
type Speaker interface {
	Speak(ctx context.Context, text string)
}

// Announce voices a result's utterance. A nil speaker is a no-op.
func Announce(ctx context.Context, speaker Speaker, result Result) {
	if speaker == nil || result.Utterance == "" {
		return
	}
	speaker.Speak(ctx, result.Utterance)
}
