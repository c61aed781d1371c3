package assistant

// Event is one user interaction handled by the app loop. Events are
// processed one at a time, in arrival order.
type Event interface {
	isEvent()
}

// SubmitText is typed input sent to the chat.
type SubmitText struct {
	Text string
}

// QuickReplySelected is a tap on a suggestion chip; it resubmits the
// chip's label as chat input.
type QuickReplySelected struct {
	Label string
}

// TranscriptReceived is a final voice recognition transcript.
type TranscriptReceived struct {
	Text string
}

// VoiceToggled starts or stops listening.
type VoiceToggled struct{}

// ModeToggled switches between the basic and advanced backends.
type ModeToggled struct {
	Advanced bool
}

// CameraToggled activates or deactivates the camera.
type CameraToggled struct{}

// DetectionToggled starts or stops the live detection loop.
type DetectionToggled struct{}

// CaptureRequested captures a frame for recognition.
type CaptureRequested struct{}

// LearnWordOffered arms the spelling exercise with a recognized word.
type LearnWordOffered struct {
	Word string
}

// IdentificationChosen is an answer to the letter identification
// exercise.
type IdentificationChosen struct {
	Word string
}

// SpellingChecked grades the spelling exercise inputs.
type SpellingChecked struct {
	Letters []string
}

// MatchChecked grades the letter matching board.
type MatchChecked struct{}

// funcEvent runs a function on the loop goroutine. Flush uses it as a
// barrier.
type funcEvent struct {
	fn func()
}

func (SubmitText) isEvent()           {}
func (QuickReplySelected) isEvent()   {}
func (TranscriptReceived) isEvent()   {}
func (VoiceToggled) isEvent()         {}
func (ModeToggled) isEvent()          {}
func (CameraToggled) isEvent()        {}
func (DetectionToggled) isEvent()     {}
func (CaptureRequested) isEvent()     {}
func (LearnWordOffered) isEvent()     {}
func (IdentificationChosen) isEvent() {}
func (SpellingChecked) isEvent()      {}
func (MatchChecked) isEvent()         {}
func (funcEvent) isEvent()            {}
