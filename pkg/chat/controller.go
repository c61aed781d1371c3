package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/linalabs/go-lina/internal/log"
	"github.com/linalabs/go-lina/pkg/msglog"
)

// User-facing texts. The assistant speaks Spanish.
const (
	ThinkingText     = "Pensando..."
	ErrorText        = "Ocurrió un error. Por favor, inténtalo de nuevo."
	NoReplyText      = "No recibí una respuesta válida"
	AdvancedModeText = "Modo avanzado activado"
	BasicModeText    = "Modo básico activado"
)

// Vowels are offered as quick replies after a vowel lesson.
var Vowels = []string{"A", "E", "I", "O", "U"}

// DefaultQuickReplyDelay is how long after a tagged reply the quick
// reply chips appear.
const DefaultQuickReplyDelay = 300 * time.Millisecond

// Asker answers a user message. Implemented by *Client.
type Asker interface {
	Ask(ctx context.Context, advanced bool, message, userID string) (*AskResponse, error)
}

// Speaker voices assistant replies. Implemented by *speech.Channel.
type Speaker interface {
	Speak(ctx context.Context, text string)
}

// Controller runs the chat conversation. It owns the submit flow:
// append the user's message, show a thinking placeholder, query the
// backend, then replace the placeholder with the reply and voice it.
type Controller struct {
	session *Session
	client  Asker
	log     *msglog.Log
	speaker Speaker

	// onQuickReplies is invoked with suggestion labels after replies
	// that carry follow-up options. May be nil.
	onQuickReplies func(labels []string)
	quickDelay     time.Duration
}

// ControllerConfig wires a Controller's collaborators.
type ControllerConfig struct {
	Session *Session
	Client  Asker
	Log     *msglog.Log

	// Speaker is optional. When nil replies are not voiced.
	Speaker Speaker

	// OnQuickReplies is optional.
	OnQuickReplies func(labels []string)

	// QuickReplyDelay defaults to DefaultQuickReplyDelay when zero.
	// A negative value fires the callback synchronously.
	QuickReplyDelay time.Duration
}

// NewController creates a chat controller.
func NewController(cfg ControllerConfig) *Controller {
	delay := cfg.QuickReplyDelay
	if delay == 0 {
		delay = DefaultQuickReplyDelay
	}
	return &Controller{
		session:        cfg.Session,
		client:         cfg.Client,
		log:            cfg.Log,
		speaker:        cfg.Speaker,
		onQuickReplies: cfg.OnQuickReplies,
		quickDelay:     delay,
	}
}

// Session returns the controller's conversation session.
func (c *Controller) Session() *Session {
	return c.session
}

// Submit sends a user message through the full conversation flow.
// Empty or whitespace-only input is rejected before anything is
// appended or sent.
func (c *Controller) Submit(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyMessage
	}

	c.log.Append(text, msglog.SenderUser)
	thinking := c.log.Append(ThinkingText, msglog.SenderBot)

	resp, err := c.client.Ask(ctx, c.session.Advanced(), text, c.session.UserID())
	c.log.Remove(thinking)
	if err != nil {
		log.Error("chat request failed", "error", err)
		c.log.Append(fmt.Sprintf("Error: %v", err), msglog.SenderBot)
		return err
	}

	if resp.Reply == "" {
		c.log.Append(NoReplyText, msglog.SenderBot)
		return ErrNoReply
	}

	c.log.Append(resp.Reply, msglog.SenderBot)
	if c.speaker != nil {
		c.speaker.Speak(ctx, resp.Reply)
	}

	if resp.Type == "vocales_info" && c.onQuickReplies != nil {
		if c.quickDelay <= 0 {
			c.onQuickReplies(Vowels)
		} else {
			time.AfterFunc(c.quickDelay, func() {
				c.onQuickReplies(Vowels)
			})
		}
	}
	return nil
}

// SetAdvancedMode switches between the basic and advanced backends.
// A mode notice is appended only when the mode actually changes.
func (c *Controller) SetAdvancedMode(enabled bool) {
	if !c.session.SetAdvanced(enabled) {
		return
	}
	notice := BasicModeText
	if enabled {
		notice = AdvancedModeText
	}
	c.log.Append(notice, msglog.SenderSystem)
	log.Info("chat mode changed", "advanced", enabled)
}
