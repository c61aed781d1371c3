// Package panel serves the live dashboard: the chat transcript, the
// detection overlay, the listening state and speech synthesis requests
// stream to browsers over websockets.
package panel

import (
	"context"
	"strings"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/linalabs/go-lina/internal/log"
	"github.com/linalabs/go-lina/pkg/camera"
	"github.com/linalabs/go-lina/pkg/detect"
	"github.com/linalabs/go-lina/pkg/hub"
	"github.com/linalabs/go-lina/pkg/msglog"
	"github.com/linalabs/go-lina/pkg/speech"
)

// ChatEvent is one transcript mutation streamed to the dashboard.
type ChatEvent struct {
	// Event is "append", "remove" or "quick_replies".
	Event string `json:"event"`

	// Message is set on append events.
	Message *msglog.Message `json:"message,omitempty"`

	// ID is set on remove events.
	ID string `json:"id,omitempty"`

	// Labels is set on quick_replies events.
	Labels []string `json:"labels,omitempty"`
}

// OverlayEvent carries the current detection boxes. An empty Objects
// slice clears the overlay.
type OverlayEvent struct {
	Objects []detect.Object `json:"objects"`
}

// SpeechEvent asks connected browsers to voice or silence an
// utterance through their speech synthesis engine.
type SpeechEvent struct {
	// Action is "speak" or "cancel".
	Action string `json:"action"`

	Text   string  `json:"text,omitempty"`
	Locale string  `json:"locale,omitempty"`
	Rate   float64 `json:"rate,omitempty"`
}

// Command is a user action posted by the dashboard.
type Command struct {
	// Type names the action: "submit", "quick_reply", "voice",
	// "mode", "camera", "detection", "capture", "identify", "spell"
	// or "match".
	Type string `json:"type"`

	Text     string   `json:"text,omitempty"`
	Word     string   `json:"word,omitempty"`
	Letters  []string `json:"letters,omitempty"`
	Advanced bool     `json:"advanced,omitempty"`
}

// Status is the assistant state shown on the dashboard.
type Status struct {
	Listening   bool     `json:"listening"`
	VoiceInput  bool     `json:"voice_input"`
	VoiceOutput bool     `json:"voice_output"`
	Camera      string   `json:"camera"`
	Results     []string `json:"results"`
	ResultsText string   `json:"results_text"`
}

// Panel is the dashboard server. It renders the message log as a
// msglog.Sink and the detections as a camera.Overlay.
type Panel struct {
	app  *fiber.App
	port string

	msgs *msglog.Log

	chatHub    *hub.Hub
	overlayHub *hub.Hub
	statusHub  *hub.Hub
	speechHub  *hub.Hub

	mu        sync.RWMutex
	objects   []detect.Object
	status    Status
	onCommand func(cmd Command)
}

// New creates the dashboard server.
func New(port string, msgs *msglog.Log) *Panel {
	p := &Panel{
		port:       port,
		msgs:       msgs,
		chatHub:    hub.New("chat"),
		overlayHub: hub.New("overlay"),
		statusHub:  hub.New("status"),
		speechHub:  hub.New("speech"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "go-lina panel",
		DisableStartupMessage: true,
	})
	app.Use(cors.New())

	api := app.Group("/api")
	api.Get("/transcript", p.handleTranscript)
	api.Get("/overlay", p.handleOverlay)
	api.Get("/status", p.handleStatus)
	api.Post("/command", p.handleCommand)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/chat", websocket.New(p.serveHub(p.chatHub)))
	app.Get("/ws/overlay", websocket.New(p.serveHub(p.overlayHub)))
	app.Get("/ws/status", websocket.New(p.serveHub(p.statusHub)))
	app.Get("/ws/speech", websocket.New(p.serveHub(p.speechHub)))

	p.app = app
	return p
}

func (p *Panel) serveHub(h *hub.Hub) func(*websocket.Conn) {
	return func(conn *websocket.Conn) {
		hub.NewClient(h, conn).Run()
	}
}

// Start serves the dashboard. Blocks.
func (p *Panel) Start() error {
	go p.chatHub.Run()
	go p.overlayHub.Run()
	go p.statusHub.Run()
	go p.speechHub.Run()
	log.Info("panel listening", "port", p.port)
	return p.app.Listen(":" + p.port)
}

// Shutdown stops the server and disconnects every dashboard client.
func (p *Panel) Shutdown(ctx context.Context) error {
	err := p.app.ShutdownWithContext(ctx)
	p.chatHub.Stop()
	p.overlayHub.Stop()
	p.statusHub.Stop()
	p.speechHub.Stop()
	return err
}

// StartAsync serves the dashboard in a goroutine.
func (p *Panel) StartAsync() {
	go func() {
		if err := p.Start(); err != nil {
			log.Error("panel server stopped", "error", err)
		}
	}()
}

func (p *Panel) handleTranscript(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"messages": p.msgs.Messages()})
}

func (p *Panel) handleOverlay(c *fiber.Ctx) error {
	p.mu.RLock()
	objects := append([]detect.Object(nil), p.objects...)
	p.mu.RUnlock()
	return c.JSON(OverlayEvent{Objects: objects})
}

// OnCommand sets the callback receiving dashboard user actions.
func (p *Panel) OnCommand(fn func(cmd Command)) {
	p.mu.Lock()
	p.onCommand = fn
	p.mu.Unlock()
}

func (p *Panel) handleCommand(c *fiber.Ctx) error {
	var cmd Command
	if err := c.BodyParser(&cmd); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "comando no válido"})
	}

	p.mu.RLock()
	fn := p.onCommand
	p.mu.RUnlock()
	if fn == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "asistente no disponible"})
	}
	fn(cmd)
	return c.JSON(fiber.Map{"ok": true})
}

func (p *Panel) handleStatus(c *fiber.Ctx) error {
	p.mu.RLock()
	status := p.status
	p.mu.RUnlock()
	return c.JSON(status)
}

// MessageAppended implements msglog.Sink.
func (p *Panel) MessageAppended(msg msglog.Message) {
	p.chatHub.BroadcastJSON(ChatEvent{Event: "append", Message: &msg})
}

// MessageRemoved implements msglog.Sink.
func (p *Panel) MessageRemoved(id string) {
	p.chatHub.BroadcastJSON(ChatEvent{Event: "remove", ID: id})
}

// QuickReplies shows suggestion chips under the transcript.
func (p *Panel) QuickReplies(labels []string) {
	p.chatHub.BroadcastJSON(ChatEvent{Event: "quick_replies", Labels: labels})
}

// Render implements camera.Overlay.
func (p *Panel) Render(objects []detect.Object) {
	p.mu.Lock()
	p.objects = append([]detect.Object(nil), objects...)
	p.mu.Unlock()
	p.overlayHub.BroadcastJSON(OverlayEvent{Objects: objects})
}

// Clear implements camera.Overlay.
func (p *Panel) Clear() {
	p.mu.Lock()
	p.objects = nil
	p.mu.Unlock()
	p.overlayHub.BroadcastJSON(OverlayEvent{Objects: []detect.Object{}})
}

// Speak implements speech.Synthesizer by asking connected browsers to
// voice the text with their synthesis engine.
func (p *Panel) Speak(_ context.Context, text string) error {
	return p.speechHub.BroadcastJSON(SpeechEvent{
		Action: "speak",
		Text:   text,
		Locale: speech.Locale,
		Rate:   speech.Rate,
	})
}

// Cancel implements speech.Synthesizer.
func (p *Panel) Cancel() {
	p.speechHub.BroadcastJSON(SpeechEvent{Action: "cancel"})
}

// Close implements speech.Synthesizer. Hub teardown happens in
// Shutdown.
func (p *Panel) Close() error {
	return nil
}

// ShowResults publishes recognized object labels on the results panel.
func (p *Panel) ShowResults(objects []string) {
	p.UpdateStatus(func(s *Status) {
		s.Results = append([]string(nil), objects...)
		s.ResultsText = ""
		if len(objects) > 0 {
			s.ResultsText = "Objetos detectados: " + strings.Join(objects, ", ")
		}
	})
}

// UpdateStatus mutates the dashboard status and broadcasts it.
func (p *Panel) UpdateStatus(update func(*Status)) {
	p.mu.Lock()
	update(&p.status)
	status := p.status
	p.mu.Unlock()
	p.statusHub.BroadcastJSON(status)
}

// Objects returns the overlay contents, mainly for tests.
func (p *Panel) Objects() []detect.Object {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]detect.Object(nil), p.objects...)
}

// App exposes the fiber app, mainly for tests.
func (p *Panel) App() *fiber.App {
	return p.app
}

var (
	_ msglog.Sink        = (*Panel)(nil)
	_ camera.Overlay     = (*Panel)(nil)
	_ speech.Synthesizer = (*Panel)(nil)
)
