package msglog_test

import (
	"testing"

	"github.com/linalabs/go-lina/pkg/msglog"
)

type recordingSink struct {
	appended []string
	removed  []string
}

func (s *recordingSink) MessageAppended(msg msglog.Message) {
	s.appended = append(s.appended, msg.Text)
}

func (s *recordingSink) MessageRemoved(id string) {
	s.removed = append(s.removed, id)
}

func TestAppendOrder(t *testing.T) {
	log := msglog.New()

	log.Append("hola", msglog.SenderUser)
	log.Append("¡Hola!", msglog.SenderBot)
	log.Append("Modo avanzado activado", msglog.SenderSystem)

	msgs := log.Messages()
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}
	if msgs[0].Text != "hola" || msgs[0].Sender != msglog.SenderUser {
		t.Errorf("unexpected first message: %+v", msgs[0])
	}
	if msgs[2].Sender != msglog.SenderSystem {
		t.Errorf("expected system sender, got %s", msgs[2].Sender)
	}
}

func TestRemoveRestoresLength(t *testing.T) {
	log := msglog.New()

	log.Append("permanent", msglog.SenderBot)
	before := log.Len()

	h := log.Append("Pensando...", msglog.SenderBot)
	if log.Len() != before+1 {
		t.Fatalf("expected length %d after append, got %d", before+1, log.Len())
	}

	if !log.Remove(h) {
		t.Error("expected first Remove to report removal")
	}
	if log.Len() != before {
		t.Errorf("expected length %d after remove, got %d", before, log.Len())
	}
}

func TestRemoveTwiceIsNoOp(t *testing.T) {
	log := msglog.New()
	h := log.Append("Procesando imagen...", msglog.SenderBot)

	log.Remove(h)
	if log.Remove(h) {
		t.Error("expected second Remove to be a no-op")
	}
	if log.Len() != 0 {
		t.Errorf("expected empty log, got %d entries", log.Len())
	}
}

func TestRemoveZeroHandle(t *testing.T) {
	log := msglog.New()
	log.Append("kept", msglog.SenderBot)

	if log.Remove(msglog.Handle{}) {
		t.Error("expected zero handle removal to be a no-op")
	}
	if log.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", log.Len())
	}
}

func TestRemoveMiddlePreservesOrder(t *testing.T) {
	log := msglog.New()
	log.Append("first", msglog.SenderUser)
	h := log.Append("placeholder", msglog.SenderBot)
	log.Append("last", msglog.SenderBot)

	log.Remove(h)

	msgs := log.Messages()
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Text != "first" || msgs[1].Text != "last" {
		t.Errorf("unexpected order: %q, %q", msgs[0].Text, msgs[1].Text)
	}
}

func TestSinkNotifications(t *testing.T) {
	log := msglog.New()
	sink := &recordingSink{}
	log.AddSink(sink)

	h := log.Append("hello", msglog.SenderUser)
	log.Remove(h)

	if len(sink.appended) != 1 || sink.appended[0] != "hello" {
		t.Errorf("unexpected appended notifications: %v", sink.appended)
	}
	if len(sink.removed) != 1 {
		t.Errorf("expected 1 removed notification, got %d", len(sink.removed))
	}
}

func TestAppendImage(t *testing.T) {
	log := msglog.New()
	frame := []byte{0xff, 0xd8, 0xff}

	log.AppendImage("Reconocí estos objetos: manzana", msglog.SenderBot, frame)

	last, ok := log.Last()
	if !ok {
		t.Fatal("expected an entry")
	}
	if len(last.Image) != 3 {
		t.Errorf("expected image bytes to be kept, got %d bytes", len(last.Image))
	}
}
