package speech_test

import (
	"context"
	"errors"
	"testing"

	"github.com/linalabs/go-lina/pkg/speech"
)

func TestNegotiate(t *testing.T) {
	t.Run("both absent", func(t *testing.T) {
		caps := speech.Negotiate(nil, nil)
		if caps.VoiceInput || caps.VoiceOutput {
			t.Errorf("expected no capabilities, got %+v", caps)
		}
	})

	t.Run("both present", func(t *testing.T) {
		caps := speech.Negotiate(speech.NewMockRecognizer(), speech.NewMockSynthesizer())
		if !caps.VoiceInput || !caps.VoiceOutput {
			t.Errorf("expected full capabilities, got %+v", caps)
		}
	})
}

func TestStartListening(t *testing.T) {
	ctx := context.Background()

	t.Run("without recognizer", func(t *testing.T) {
		ch := speech.NewChannel(nil, nil)
		if err := ch.StartListening(ctx); !errors.Is(err, speech.ErrNoVoiceInput) {
			t.Errorf("expected ErrNoVoiceInput, got %v", err)
		}
	})

	t.Run("sets recognizing", func(t *testing.T) {
		rec := speech.NewMockRecognizer()
		ch := speech.NewChannel(rec, nil)

		if err := ch.StartListening(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ch.IsRecognizing() {
			t.Error("expected recognizing after start")
		}
		if rec.StartCount() != 1 {
			t.Errorf("expected 1 Start call, got %d", rec.StartCount())
		}
	})

	t.Run("rejects concurrent sessions", func(t *testing.T) {
		ch := speech.NewChannel(speech.NewMockRecognizer(), nil)
		ch.StartListening(ctx)

		if err := ch.StartListening(ctx); !errors.Is(err, speech.ErrAlreadyListening) {
			t.Errorf("expected ErrAlreadyListening, got %v", err)
		}
	})

	t.Run("cancels speech first", func(t *testing.T) {
		syn := speech.NewMockSynthesizer()
		ch := speech.NewChannel(speech.NewMockRecognizer(), syn)

		ch.StartListening(ctx)
		if syn.CancelCount() != 1 {
			t.Errorf("expected speech cancelled on listen, got %d cancels", syn.CancelCount())
		}
	})

	t.Run("start failure clears recognizing", func(t *testing.T) {
		rec := speech.NewMockRecognizer()
		rec.StartFunc = func(ctx context.Context) error {
			return errors.New("mic busy")
		}
		ch := speech.NewChannel(rec, nil)

		if err := ch.StartListening(ctx); err == nil {
			t.Fatal("expected error")
		}
		if ch.IsRecognizing() {
			t.Error("expected recognizing cleared after failed start")
		}
	})
}

func TestRecognizingLifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("result clears recognizing and delivers transcript", func(t *testing.T) {
		rec := speech.NewMockRecognizer()
		ch := speech.NewChannel(rec, nil)

		var got string
		ch.OnTranscript(func(transcript string) { got = transcript })

		ch.StartListening(ctx)
		rec.EmitResult("quiero aprender las vocales")

		if ch.IsRecognizing() {
			t.Error("expected recognizing cleared after result")
		}
		if got != "quiero aprender las vocales" {
			t.Errorf("unexpected transcript: %q", got)
		}
	})

	t.Run("error clears recognizing", func(t *testing.T) {
		rec := speech.NewMockRecognizer()
		ch := speech.NewChannel(rec, nil)

		var got error
		ch.OnError(func(err error) { got = err })

		ch.StartListening(ctx)
		rec.EmitError(errors.New("no-speech"))

		if ch.IsRecognizing() {
			t.Error("expected recognizing cleared after error")
		}
		if got == nil {
			t.Error("expected error delivered")
		}
	})

	t.Run("natural end clears recognizing", func(t *testing.T) {
		rec := speech.NewMockRecognizer()
		ch := speech.NewChannel(rec, nil)

		ch.StartListening(ctx)
		rec.EmitEnd()

		if ch.IsRecognizing() {
			t.Error("expected recognizing cleared after end")
		}
	})

	t.Run("stop cancels early", func(t *testing.T) {
		rec := speech.NewMockRecognizer()
		ch := speech.NewChannel(rec, nil)

		ch.StartListening(ctx)
		ch.StopListening()

		if ch.IsRecognizing() {
			t.Error("expected recognizing cleared after stop")
		}
		if rec.StopCount() != 1 {
			t.Errorf("expected 1 Stop call, got %d", rec.StopCount())
		}
	})

	t.Run("stop when idle is safe", func(t *testing.T) {
		rec := speech.NewMockRecognizer()
		ch := speech.NewChannel(rec, nil)

		ch.StopListening()
		if rec.StopCount() != 0 {
			t.Errorf("expected no Stop call when idle, got %d", rec.StopCount())
		}
	})
}

func TestSpeak(t *testing.T) {
	ctx := context.Background()

	t.Run("last write wins", func(t *testing.T) {
		syn := speech.NewMockSynthesizer()
		ch := speech.NewChannel(nil, syn)

		ch.Speak(ctx, "primero")
		ch.Speak(ctx, "segundo")

		spoken := syn.Spoken()
		if len(spoken) != 2 {
			t.Fatalf("expected 2 utterances, got %d", len(spoken))
		}
		// Each Speak cancels whatever came before it.
		if syn.CancelCount() != 2 {
			t.Errorf("expected 2 cancels, got %d", syn.CancelCount())
		}
	})

	t.Run("no synthesizer is a no-op", func(t *testing.T) {
		ch := speech.NewChannel(nil, nil)
		ch.Speak(ctx, "hola") // must not panic
	})
}
