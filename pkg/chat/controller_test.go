package chat_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/linalabs/go-lina/pkg/chat"
	"github.com/linalabs/go-lina/pkg/msglog"
)

type fakeAsker struct {
	resp     *chat.AskResponse
	err      error
	calls    int
	advanced []bool
	messages []string
}

func (f *fakeAsker) Ask(_ context.Context, advanced bool, message, _ string) (*chat.AskResponse, error) {
	f.calls++
	f.advanced = append(f.advanced, advanced)
	f.messages = append(f.messages, message)
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

type fakeSpeaker struct {
	spoken []string
}

func (f *fakeSpeaker) Speak(_ context.Context, text string) {
	f.spoken = append(f.spoken, text)
}

func newController(asker *fakeAsker) (*chat.Controller, *msglog.Log, *fakeSpeaker) {
	log := msglog.New()
	speaker := &fakeSpeaker{}
	ctrl := chat.NewController(chat.ControllerConfig{
		Session:         chat.NewSession(),
		Client:          asker,
		Log:             log,
		Speaker:         speaker,
		QuickReplyDelay: -1,
	})
	return ctrl, log, speaker
}

func TestSubmit(t *testing.T) {
	t.Run("rejects empty input without side effects", func(t *testing.T) {
		asker := &fakeAsker{resp: &chat.AskResponse{Reply: "hola"}}
		ctrl, log, _ := newController(asker)

		for _, input := range []string{"", "   ", "\n\t"} {
			if err := ctrl.Submit(context.Background(), input); !errors.Is(err, chat.ErrEmptyMessage) {
				t.Errorf("Submit(%q) error = %v, want ErrEmptyMessage", input, err)
			}
		}
		if log.Len() != 0 {
			t.Errorf("log has %d messages, want 0", log.Len())
		}
		if asker.calls != 0 {
			t.Errorf("backend called %d times, want 0", asker.calls)
		}
	})

	t.Run("appends user message then spoken reply", func(t *testing.T) {
		asker := &fakeAsker{resp: &chat.AskResponse{Reply: "¡Hola! Soy Lina."}}
		ctrl, log, speaker := newController(asker)

		if err := ctrl.Submit(context.Background(), "hola"); err != nil {
			t.Fatalf("Submit: %v", err)
		}

		msgs := log.Messages()
		if len(msgs) != 2 {
			t.Fatalf("log has %d messages, want 2", len(msgs))
		}
		if msgs[0].Text != "hola" || msgs[0].Sender != msglog.SenderUser {
			t.Errorf("first message = %q from %s", msgs[0].Text, msgs[0].Sender)
		}
		if msgs[1].Text != "¡Hola! Soy Lina." || msgs[1].Sender != msglog.SenderBot {
			t.Errorf("second message = %q from %s", msgs[1].Text, msgs[1].Sender)
		}
		if len(speaker.spoken) != 1 || speaker.spoken[0] != "¡Hola! Soy Lina." {
			t.Errorf("spoken = %v, want the reply once", speaker.spoken)
		}
	})

	t.Run("thinking placeholder is removed on failure", func(t *testing.T) {
		asker := &fakeAsker{err: errors.New("connection refused")}
		ctrl, log, speaker := newController(asker)

		if err := ctrl.Submit(context.Background(), "hola"); err == nil {
			t.Fatal("Submit returned nil, want error")
		}

		msgs := log.Messages()
		if len(msgs) != 2 {
			t.Fatalf("log has %d messages, want 2", len(msgs))
		}
		for _, m := range msgs {
			if m.Text == chat.ThinkingText {
				t.Errorf("placeholder %q still in log", chat.ThinkingText)
			}
		}
		if msgs[1].Text != "Error: connection refused" {
			t.Errorf("last message = %q, want the failure detail", msgs[1].Text)
		}
		if len(speaker.spoken) != 0 {
			t.Errorf("spoken = %v, want nothing", speaker.spoken)
		}
	})

	t.Run("error message carries the backend status", func(t *testing.T) {
		asker := &fakeAsker{err: &chat.APIError{
			StatusCode: 503,
			Message:    "Service Unavailable",
			Endpoint:   chat.BasicPath,
		}}
		ctrl, log, _ := newController(asker)

		if err := ctrl.Submit(context.Background(), "hola"); err == nil {
			t.Fatal("Submit returned nil, want error")
		}

		last, _ := log.Last()
		if !strings.HasPrefix(last.Text, "Error: ") {
			t.Fatalf("last message = %q, want an Error: prefix", last.Text)
		}
		if !strings.Contains(last.Text, "503") {
			t.Errorf("last message = %q, want the status code in the detail", last.Text)
		}
	})

	t.Run("empty reply is reported without speech", func(t *testing.T) {
		asker := &fakeAsker{resp: &chat.AskResponse{}}
		ctrl, log, speaker := newController(asker)

		if err := ctrl.Submit(context.Background(), "hola"); !errors.Is(err, chat.ErrNoReply) {
			t.Fatalf("Submit error = %v, want ErrNoReply", err)
		}
		last, _ := log.Last()
		if last.Text != chat.NoReplyText {
			t.Errorf("last message = %q, want %q", last.Text, chat.NoReplyText)
		}
		if len(speaker.spoken) != 0 {
			t.Errorf("spoken = %v, want nothing", speaker.spoken)
		}
	})

	t.Run("vowel lesson offers quick replies", func(t *testing.T) {
		asker := &fakeAsker{resp: &chat.AskResponse{Reply: "Las vocales son A, E, I, O, U.", Type: "vocales_info"}}
		var offered []string
		ctrl := chat.NewController(chat.ControllerConfig{
			Session:         chat.NewSession(),
			Client:          asker,
			Log:             msglog.New(),
			OnQuickReplies:  func(labels []string) { offered = labels },
			QuickReplyDelay: -1,
		})

		if err := ctrl.Submit(context.Background(), "vocales"); err != nil {
			t.Fatalf("Submit: %v", err)
		}
		if len(offered) != 5 {
			t.Fatalf("offered %v, want the five vowels", offered)
		}
		for i, want := range []string{"A", "E", "I", "O", "U"} {
			if offered[i] != want {
				t.Errorf("offered[%d] = %q, want %q", i, offered[i], want)
			}
		}
	})
}

func TestSetAdvancedMode(t *testing.T) {
	t.Run("notice appears once per change", func(t *testing.T) {
		asker := &fakeAsker{resp: &chat.AskResponse{Reply: "ok"}}
		ctrl, log, _ := newController(asker)

		ctrl.SetAdvancedMode(true)
		ctrl.SetAdvancedMode(true)
		if log.Len() != 1 {
			t.Fatalf("log has %d messages after repeated enable, want 1", log.Len())
		}
		last, _ := log.Last()
		if last.Text != chat.AdvancedModeText || last.Sender != msglog.SenderSystem {
			t.Errorf("notice = %q from %s", last.Text, last.Sender)
		}

		ctrl.SetAdvancedMode(false)
		last, _ = log.Last()
		if last.Text != chat.BasicModeText {
			t.Errorf("notice = %q, want %q", last.Text, chat.BasicModeText)
		}
	})

	t.Run("routes to advanced endpoint when enabled", func(t *testing.T) {
		asker := &fakeAsker{resp: &chat.AskResponse{Reply: "ok"}}
		ctrl, _, _ := newController(asker)

		if err := ctrl.Submit(context.Background(), "uno"); err != nil {
			t.Fatal(err)
		}
		ctrl.SetAdvancedMode(true)
		if err := ctrl.Submit(context.Background(), "dos"); err != nil {
			t.Fatal(err)
		}

		if len(asker.advanced) != 2 || asker.advanced[0] || !asker.advanced[1] {
			t.Errorf("advanced flags = %v, want [false true]", asker.advanced)
		}
	})
}
