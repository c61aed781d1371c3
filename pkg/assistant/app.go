// Package assistant wires the controllers into one application: a
// single event loop owns the chat, voice, camera and exercise state,
// so every interaction runs to completion before the next one starts.
package assistant

import (
	"context"
	"time"

	"github.com/linalabs/go-lina/internal/log"
	"github.com/linalabs/go-lina/pkg/camera"
	"github.com/linalabs/go-lina/pkg/chat"
	"github.com/linalabs/go-lina/pkg/detect"
	"github.com/linalabs/go-lina/pkg/exercise"
	"github.com/linalabs/go-lina/pkg/msglog"
	"github.com/linalabs/go-lina/pkg/speech"
)

// User-facing texts owned by the app shell.
const (
	WelcomeText   = "¡Hola! Soy tu asistente para aprender a leer y escribir. ¿En qué puedo ayudarte hoy?"
	ListeningText = "Escuchando... habla ahora."
	MicErrorText  = "Error al acceder al micrófono. Asegúrate de permitir los permisos."
)

// Features is what the runtime turned out to support. Negotiated once
// at startup; controls which toggles do anything.
type Features struct {
	VoiceInput  bool
	VoiceOutput bool
	Camera      bool
}

// Deps are the capabilities the app is built from. Nil entries mean
// the capability is absent and its feature is disabled.
type Deps struct {
	Log *msglog.Log

	// Recognizer and Synthesizer form the voice channel.
	Recognizer  speech.Recognizer
	Synthesizer speech.Synthesizer

	// Client answers chat messages.
	Client chat.Asker

	// CameraSource, Detector, Overlay and ImageRecognizer form the
	// camera controller. CameraSource nil disables the camera.
	CameraSource    camera.Source
	Detector        detect.Detector
	Overlay         camera.Overlay
	ImageRecognizer camera.Recognizer

	// OnQuickReplies shows suggestion chips. May be nil.
	OnQuickReplies func(labels []string)

	// OnResults receives recognized object labels. May be nil.
	OnResults func(objects []string)

	// OnExerciseResult shows exercise feedback. May be nil.
	OnExerciseResult func(result exercise.Result)

	// QuickReplyDelay and PromptDelay pass through to the chat and
	// camera controllers. Zero keeps the defaults; negative values
	// fire synchronously.
	QuickReplyDelay time.Duration
	PromptDelay     time.Duration
}

// App is the assistant shell.
type App struct {
	msgs     *msglog.Log
	voice    *speech.Channel
	chat     *chat.Controller
	cam      *camera.Controller
	features Features

	ident    *exercise.Identification
	spelling *exercise.Spelling
	match    *exercise.DragMatch

	onExerciseResult func(exercise.Result)

	events chan Event
	stop   chan struct{}
	done   chan struct{}
}

// New negotiates features and wires the controllers together.
func New(deps Deps) *App {
	a := &App{
		msgs:             deps.Log,
		ident:            exercise.NewIdentification(),
		spelling:         exercise.NewSpelling(),
		match:            exercise.NewDragMatch(),
		onExerciseResult: deps.OnExerciseResult,
		events:           make(chan Event, 64),
		stop:             make(chan struct{}),
		done:             make(chan struct{}),
	}

	caps := speech.Negotiate(deps.Recognizer, deps.Synthesizer)
	a.voice = speech.NewChannel(deps.Recognizer, deps.Synthesizer)
	a.voice.OnTranscript(func(transcript string) {
		a.Dispatch(TranscriptReceived{Text: transcript})
	})
	a.voice.OnError(func(err error) {
		log.Warn("voice recognition error", "error", err)
		a.msgs.Append(chat.ErrorText, msglog.SenderBot)
	})

	a.chat = chat.NewController(chat.ControllerConfig{
		Session:         chat.NewSession(),
		Client:          deps.Client,
		Log:             deps.Log,
		Speaker:         a.voice,
		OnQuickReplies:  deps.OnQuickReplies,
		QuickReplyDelay: deps.QuickReplyDelay,
	})

	hasCamera := deps.CameraSource != nil
	if hasCamera {
		a.cam = camera.NewController(camera.ControllerConfig{
			Source:      deps.CameraSource,
			Detector:    deps.Detector,
			Overlay:     deps.Overlay,
			Log:         deps.Log,
			Speaker:     a.voice,
			Recognizer:  deps.ImageRecognizer,
			PromptDelay: deps.PromptDelay,
			OnResults:   deps.OnResults,
			OnLearnWord: func(word string) {
				a.Dispatch(LearnWordOffered{Word: word})
			},
		})
	}

	a.features = Features{
		VoiceInput:  caps.VoiceInput,
		VoiceOutput: caps.VoiceOutput,
		Camera:      hasCamera,
	}
	return a
}

// Features returns what was negotiated at startup.
func (a *App) Features() Features {
	return a.features
}

// Chat exposes the chat controller.
func (a *App) Chat() *chat.Controller {
	return a.chat
}

// Camera exposes the camera controller; nil without a camera.
func (a *App) Camera() *camera.Controller {
	return a.cam
}

// Spelling returns the currently armed spelling exercise.
func (a *App) Spelling() *exercise.Spelling {
	return a.spelling
}

// Dispatch queues an event for the loop. Events arriving after Stop
// are dropped.
func (a *App) Dispatch(ev Event) {
	select {
	case a.events <- ev:
	case <-a.stop:
	}
}

// Run greets the user and processes events until the context ends or
// Stop is called.
func (a *App) Run(ctx context.Context) {
	defer close(a.done)

	log.Info("assistant started",
		"voice_input", a.features.VoiceInput,
		"voice_output", a.features.VoiceOutput,
		"camera", a.features.Camera,
	)
	a.msgs.Append(WelcomeText, msglog.SenderBot)
	a.voice.Speak(ctx, WelcomeText)

	for {
		select {
		case <-ctx.Done():
			a.teardown()
			return
		case <-a.stop:
			a.drain(ctx)
			a.teardown()
			return
		case ev := <-a.events:
			a.handle(ctx, ev)
		}
	}
}

// Stop ends the event loop and waits for it to finish. Events already
// queued are handled before teardown.
func (a *App) Stop() {
	close(a.stop)
	<-a.done
}

// Flush blocks until every previously dispatched event has been
// handled.
func (a *App) Flush() {
	handled := make(chan struct{})
	a.Dispatch(funcEvent{fn: func() { close(handled) }})
	select {
	case <-handled:
	case <-a.done:
	}
}

// drain handles events already queued when Stop was called.
func (a *App) drain(ctx context.Context) {
	for {
		select {
		case ev := <-a.events:
			a.handle(ctx, ev)
		default:
			return
		}
	}
}

func (a *App) teardown() {
	if a.cam != nil {
		a.cam.Deactivate()
	}
	a.voice.Close()
	log.Info("assistant stopped")
}

func (a *App) handle(ctx context.Context, ev Event) {
	switch ev := ev.(type) {
	case SubmitText:
		a.chat.Submit(ctx, ev.Text)

	case QuickReplySelected:
		a.chat.Submit(ctx, ev.Label)

	case TranscriptReceived:
		a.chat.Submit(ctx, ev.Text)

	case VoiceToggled:
		a.toggleVoice(ctx)

	case ModeToggled:
		a.chat.SetAdvancedMode(ev.Advanced)

	case CameraToggled:
		if a.cam == nil {
			a.msgs.Append(camera.CameraErrorText, msglog.SenderBot)
			return
		}
		if a.cam.State() == camera.StateInactive {
			a.cam.Activate()
		} else {
			a.cam.Deactivate()
		}

	case DetectionToggled:
		if a.cam == nil {
			a.msgs.Append(camera.NoCameraText, msglog.SenderBot)
			return
		}
		a.cam.ToggleDetection()

	case CaptureRequested:
		if a.cam == nil {
			a.msgs.Append(camera.NoCameraText, msglog.SenderBot)
			return
		}
		a.cam.CaptureAndRecognize(ctx)

	case LearnWordOffered:
		a.spelling = exercise.NewSpellingFor(ev.Word)
		log.Info("spelling exercise armed", "word", ev.Word)

	case IdentificationChosen:
		a.finishExercise(ctx, a.ident.Check(ev.Word))

	case SpellingChecked:
		a.finishExercise(ctx, a.spelling.Check(ev.Letters))

	case MatchChecked:
		a.finishExercise(ctx, a.match.Check())

	case funcEvent:
		ev.fn()

	default:
		log.Warn("unhandled event", "event", ev)
	}
}

func (a *App) toggleVoice(ctx context.Context) {
	if a.voice.IsRecognizing() {
		a.voice.StopListening()
		return
	}
	if err := a.voice.StartListening(ctx); err != nil {
		log.Warn("voice input unavailable", "error", err)
		a.msgs.Append(MicErrorText, msglog.SenderBot)
		return
	}
	a.msgs.Append(ListeningText, msglog.SenderBot)
}

func (a *App) finishExercise(ctx context.Context, result exercise.Result) {
	exercise.Announce(ctx, a.voice, result)
	if a.onExerciseResult != nil {
		a.onExerciseResult(result)
	}
}
