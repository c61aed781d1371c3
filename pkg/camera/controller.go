package camera

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/linalabs/go-lina/internal/log"
	"github.com/linalabs/go-lina/pkg/detect"
	"github.com/linalabs/go-lina/pkg/msglog"
)

// State is the camera controller's lifecycle state.
type State int

const (
	// StateInactive means no camera stream is open.
	StateInactive State = iota

	// StateActive means the stream is open but detection is off.
	StateActive

	// StateActiveDetecting means the stream is open and the periodic
	// detection loop is running.
	StateActiveDetecting
)

// String returns a readable state name.
func (s State) String() string {
	switch s {
	case StateInactive:
		return "inactive"
	case StateActive:
		return "active"
	case StateActiveDetecting:
		return "detecting"
	default:
		return "unknown"
	}
}

// DefaultDetectionInterval is how often the detection loop samples a frame.
const DefaultDetectionInterval = time.Second

// DefaultPromptDelay is how long after a recognition result the
// learn-to-write prompt appears.
const DefaultPromptDelay = time.Second

// Speaker voices camera announcements. Implemented by *speech.Channel.
type Speaker interface {
	Speak(ctx context.Context, text string)
}

// Controller owns the camera lifecycle. All transitions hold the
// controller mutex; detection runs on its own goroutine and a
// generation counter makes results from a torn-down loop invisible.
type Controller struct {
	source     Source
	detector   detect.Detector
	overlay    Overlay
	msgs       *msglog.Log
	speaker    Speaker
	recognizer Recognizer

	interval    time.Duration
	promptDelay time.Duration

	// onResults receives the recognized labels for the results panel.
	onResults func(objects []string)

	// onLearnWord fires when the learn-to-write prompt is shown, with
	// the word the prompt offers.
	onLearnWord func(word string)

	mu         sync.Mutex
	state      State
	stream     Stream
	busy       bool
	generation uint64
	stop       chan struct{}
}

// ControllerConfig wires a camera Controller.
type ControllerConfig struct {
	Source   Source
	Detector detect.Detector
	Overlay  Overlay
	Log      *msglog.Log

	// Speaker is optional.
	Speaker Speaker

	// Recognizer is optional; CaptureAndRecognize fails without one.
	Recognizer Recognizer

	// Interval defaults to DefaultDetectionInterval when zero.
	Interval time.Duration

	// PromptDelay defaults to DefaultPromptDelay when zero. A negative
	// value shows the prompt synchronously.
	PromptDelay time.Duration

	OnResults   func(objects []string)
	OnLearnWord func(word string)
}

// NewController creates a camera controller in the inactive state.
func NewController(cfg ControllerConfig) *Controller {
	interval := cfg.Interval
	if interval == 0 {
		interval = DefaultDetectionInterval
	}
	promptDelay := cfg.PromptDelay
	if promptDelay == 0 {
		promptDelay = DefaultPromptDelay
	}
	return &Controller{
		source:      cfg.Source,
		detector:    cfg.Detector,
		overlay:     cfg.Overlay,
		msgs:        cfg.Log,
		speaker:     cfg.Speaker,
		recognizer:  cfg.Recognizer,
		interval:    interval,
		promptDelay: promptDelay,
		onResults:   cfg.OnResults,
		onLearnWord: cfg.OnLearnWord,
		state:       StateInactive,
	}
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Activate opens the camera stream. The detection loop stays off
// until ToggleDetection is called.
func (c *Controller) Activate() error {
	c.mu.Lock()
	if c.state != StateInactive {
		c.mu.Unlock()
		return ErrAlreadyActive
	}
	c.mu.Unlock()

	c.msgs.Append(ActivatingText, msglog.SenderBot)

	stream, err := c.source.Open()
	if err != nil {
		log.Error("camera activation failed", "error", err)
		c.msgs.Append(CameraErrorText, msglog.SenderBot)
		return err
	}

	c.mu.Lock()
	c.stream = stream
	c.state = StateActive
	c.mu.Unlock()

	log.Info("camera activated")
	return nil
}

// Deactivate tears everything down: the detection loop if running,
// the overlay, and the stream. Safe to call when already inactive.
func (c *Controller) Deactivate() {
	c.mu.Lock()
	if c.state == StateInactive {
		c.mu.Unlock()
		return
	}
	if c.state == StateActiveDetecting {
		c.stopDetectionLocked()
	}
	stream := c.stream
	c.stream = nil
	c.state = StateInactive
	c.mu.Unlock()

	if stream != nil {
		if err := stream.Close(); err != nil {
			log.Warn("closing camera stream", "error", err)
		}
	}
	log.Info("camera deactivated")
}

// ToggleDetection starts or stops the periodic detection loop. When
// the camera is inactive it only reports that and changes nothing.
func (c *Controller) ToggleDetection() error {
	c.mu.Lock()
	switch c.state {
	case StateInactive:
		c.mu.Unlock()
		c.msgs.Append(NoCameraText, msglog.SenderBot)
		return ErrCameraInactive

	case StateActive:
		if c.detector == nil {
			c.mu.Unlock()
			c.msgs.Append(NoDetectorText, msglog.SenderBot)
			return ErrNoDetector
		}
		c.state = StateActiveDetecting
		c.overlay.Clear()
		stop := make(chan struct{})
		c.stop = stop
		gen := c.generation
		c.mu.Unlock()

		c.msgs.Append(DetectionActiveText, msglog.SenderSystem)
		go c.detectLoop(stop, gen)
		return nil

	default: // StateActiveDetecting
		c.stopDetectionLocked()
		c.state = StateActive
		c.mu.Unlock()

		c.msgs.Append(DetectionInactiveText, msglog.SenderSystem)
		return nil
	}
}

// stopDetectionLocked shuts the loop down and invalidates any tick
// still in flight. Caller holds c.mu.
func (c *Controller) stopDetectionLocked() {
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
	c.generation++
	c.overlay.Clear()
}

func (c *Controller) detectLoop(stop chan struct{}, gen uint64) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			c.tick(gen)
		}
	}
}

// tick samples one frame and repaints the overlay. A tick that
// overlaps a previous one is skipped, and a result arriving after the
// loop was torn down is discarded.
func (c *Controller) tick(gen uint64) {
	c.mu.Lock()
	if c.busy || c.generation != gen || c.state != StateActiveDetecting {
		c.mu.Unlock()
		return
	}
	c.busy = true
	stream := c.stream
	c.mu.Unlock()

	frame, err := stream.Frame()
	var objects []detect.Object
	if err == nil {
		objects, err = c.detector.Detect(frame)
	}

	c.mu.Lock()
	c.busy = false
	if err != nil || c.generation != gen || c.state != StateActiveDetecting {
		c.mu.Unlock()
		if err != nil {
			log.Debug("detection tick failed", "error", err)
		}
		return
	}
	c.overlay.Clear()
	c.overlay.Render(detect.Filter(objects, DetectionThreshold))
	c.mu.Unlock()
}

// CaptureAndRecognize grabs the current frame and sends it to the
// recognition backend. The captured photo lands in the message log
// together with the backend's summary, and shortly afterwards the
// learn-to-write prompt offers the first recognized word.
func (c *Controller) CaptureAndRecognize(ctx context.Context) error {
	c.mu.Lock()
	stream := c.stream
	active := c.state != StateInactive
	c.mu.Unlock()

	if !active || stream == nil {
		c.msgs.Append(NoCameraText, msglog.SenderBot)
		return ErrCameraInactive
	}

	frame, err := stream.Frame()
	if err != nil {
		log.Error("frame capture failed", "error", err)
		c.msgs.Append(fmt.Sprintf("Error: %s", CaptureErrorText), msglog.SenderBot)
		return err
	}

	processing := c.msgs.Append(ProcessingText, msglog.SenderBot)
	rec, err := c.recognize(ctx, frame)
	c.msgs.Remove(processing)
	if err != nil {
		log.Error("recognition failed", "error", err)
		text := RecognizeErrorText
		if rerr, ok := err.(*RecognitionError); ok && rerr.Message != "" {
			text = rerr.Message
		}
		c.msgs.Append(text, msglog.SenderBot)
		return err
	}

	c.msgs.AppendImage(rec.Message, msglog.SenderBot, frame)
	if c.speaker != nil {
		c.speaker.Speak(ctx, rec.Message)
	}
	if c.onResults != nil {
		c.onResults(rec.Objects)
	}

	if len(rec.Objects) > 0 {
		word := rec.Objects[0]
		if c.promptDelay < 0 {
			c.showLearnPrompt(ctx, word)
		} else {
			time.AfterFunc(c.promptDelay, func() {
				c.showLearnPrompt(context.Background(), word)
			})
		}
	}
	return nil
}

func (c *Controller) recognize(ctx context.Context, frame []byte) (*Recognition, error) {
	if c.recognizer == nil {
		return nil, &RecognitionError{Message: RecognizeErrorText}
	}
	return c.recognizer.Recognize(ctx, frame)
}

func (c *Controller) showLearnPrompt(ctx context.Context, word string) {
	prompt := fmt.Sprintf("¿Quieres aprender a escribir %q?", word)
	c.msgs.Append(prompt, msglog.SenderBot)
	if c.speaker != nil {
		c.speaker.Speak(ctx, prompt)
	}
	if c.onLearnWord != nil {
		c.onLearnWord(word)
	}
}
