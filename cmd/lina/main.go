// lina is the assistant shell. It runs the conversation loop against
// the backend, drives the webcam and detection overlay, and serves the
// dashboard that browsers connect to for the transcript, the overlay
// and speech synthesis.
package main

import (
	"bufio"
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/linalabs/go-lina/internal/config"
	"github.com/linalabs/go-lina/internal/log"
	"github.com/linalabs/go-lina/pkg/assistant"
	"github.com/linalabs/go-lina/pkg/camera"
	"github.com/linalabs/go-lina/pkg/chat"
	"github.com/linalabs/go-lina/pkg/detect"
	"github.com/linalabs/go-lina/pkg/msglog"
	"github.com/linalabs/go-lina/pkg/panel"
	"github.com/linalabs/go-lina/pkg/speech"
)

func main() {
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	panelPort := flag.String("panel-port", "5002", "Dashboard listen port")
	serverURL := flag.String("server-url", "", "Backend base URL (overrides LINA_SERVER_URL)")
	speechURL := flag.String("speech-url", "", "Speech recognition WebSocket URL (overrides LINA_SPEECH_URL)")
	cameraID := flag.Int("camera", 0, "Webcam device ID, -1 disables the camera")
	modelPath := flag.String("model", "", "YOLO model path, empty uses the default")
	flag.Parse()

	log.Init(*logLevel)

	backend := *serverURL
	if backend == "" {
		backend = config.ServerURL()
	}
	sttURL := *speechURL
	if sttURL == "" {
		sttURL = config.SpeechURL()
	}

	msgs := msglog.New()
	dash := panel.New(*panelPort, msgs)
	msgs.AddSink(dash)

	var recognizer speech.Recognizer
	if sttURL != "" {
		recognizer = speech.NewStreamRecognizer(sttURL)
	} else {
		log.Warn("no speech service configured, voice input disabled")
	}

	var source camera.Source
	var detector detect.Detector
	if *cameraID >= 0 {
		camCfg := camera.DefaultWebcamConfig()
		camCfg.DeviceID = *cameraID
		source = camera.NewWebcamSource(camCfg)

		yoloCfg := detect.DefaultYOLOConfig()
		if *modelPath != "" {
			yoloCfg.ModelPath = *modelPath
		}
		yolo, err := detect.NewYOLO(yoloCfg)
		if err != nil {
			log.Warn("object detection disabled", "error", err)
		} else {
			detector = yolo
			defer yolo.Close()
		}
	}

	app := assistant.New(assistant.Deps{
		Log:             msgs,
		Recognizer:      recognizer,
		Synthesizer:     dash,
		Client:          chat.NewClient(chat.WithBaseURL(backend)),
		CameraSource:    source,
		Detector:        detector,
		Overlay:         dash,
		ImageRecognizer: camera.NewRecognizeClient(backend),
		OnQuickReplies:  dash.QuickReplies,
		OnResults: dash.ShowResults,
	})

	features := app.Features()
	dash.UpdateStatus(func(s *panel.Status) {
		s.VoiceInput = features.VoiceInput
		s.VoiceOutput = features.VoiceOutput
		s.Camera = camera.StateInactive.String()
	})

	dash.OnCommand(func(cmd panel.Command) {
		if ev := commandEvent(cmd); ev != nil {
			app.Dispatch(ev)
		}
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	dash.StartAsync()
	go readInput(app)
	app.Run(ctx)

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := dash.Shutdown(shutdownCtx); err != nil {
		log.Error("panel shutdown incomplete", "error", err)
	}
}

// readInput treats stdin lines as typed chat messages.
func readInput(app *assistant.App) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		app.Dispatch(assistant.SubmitText{Text: line})
	}
}

// commandEvent maps a dashboard command onto an assistant event.
// Unknown commands map to nil.
func commandEvent(cmd panel.Command) assistant.Event {
	switch cmd.Type {
	case "submit":
		return assistant.SubmitText{Text: cmd.Text}
	case "quick_reply":
		return assistant.QuickReplySelected{Label: cmd.Text}
	case "voice":
		return assistant.VoiceToggled{}
	case "mode":
		return assistant.ModeToggled{Advanced: cmd.Advanced}
	case "camera":
		return assistant.CameraToggled{}
	case "detection":
		return assistant.DetectionToggled{}
	case "capture":
		return assistant.CaptureRequested{}
	case "identify":
		return assistant.IdentificationChosen{Word: cmd.Word}
	case "spell":
		return assistant.SpellingChecked{Letters: cmd.Letters}
	case "match":
		return assistant.MatchChecked{}
	default:
		log.Warn("unknown dashboard command", "type", cmd.Type)
		return nil
	}
}
