package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/linalabs/go-lina/pkg/store"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("save user is idempotent", func(t *testing.T) {
		st := store.NewMemoryStore()
		created, err := st.SaveUser(ctx, "user_1", "ana")
		if err != nil || !created {
			t.Fatalf("first SaveUser = (%v, %v), want (true, nil)", created, err)
		}
		created, err = st.SaveUser(ctx, "user_1", "ana")
		if err != nil || created {
			t.Fatalf("second SaveUser = (%v, %v), want (false, nil)", created, err)
		}
		if st.UserCount() != 1 {
			t.Errorf("UserCount = %d, want 1", st.UserCount())
		}
	})

	t.Run("messages come back newest first", func(t *testing.T) {
		st := store.NewMemoryStore()
		for _, content := range []string{"hola", "adiós", "gracias"} {
			if err := st.SaveMessage(ctx, "user_1", store.SenderUsuario, content); err != nil {
				t.Fatal(err)
			}
		}
		msgs, err := st.Messages(ctx, "user_1", 2)
		if err != nil {
			t.Fatal(err)
		}
		if len(msgs) != 2 {
			t.Fatalf("got %d messages, want 2", len(msgs))
		}
		if msgs[0].Content != "gracias" || msgs[1].Content != "adiós" {
			t.Errorf("order = [%s, %s], want newest first", msgs[0].Content, msgs[1].Content)
		}
	})

	t.Run("unknown user has no history", func(t *testing.T) {
		st := store.NewMemoryStore()
		msgs, err := st.Messages(ctx, "nobody", 10)
		if err != nil {
			t.Fatal(err)
		}
		if len(msgs) != 0 {
			t.Errorf("got %d messages, want 0", len(msgs))
		}
	})
}

func TestQueue(t *testing.T) {
	ctx := context.Background()

	t.Run("reads observe earlier queued writes", func(t *testing.T) {
		q := store.NewQueue(store.NewMemoryStore())
		defer q.Stop(ctx)

		if err := q.SaveUser("user_1", ""); err != nil {
			t.Fatal(err)
		}
		if err := q.SaveMessage("user_1", store.SenderUsuario, "hola"); err != nil {
			t.Fatal(err)
		}
		if err := q.SaveMessage("user_1", store.SenderBot, "¡Hola!"); err != nil {
			t.Fatal(err)
		}

		msgs, err := q.Messages(ctx, "user_1", 10)
		if err != nil {
			t.Fatal(err)
		}
		if len(msgs) != 2 {
			t.Fatalf("got %d messages, want 2", len(msgs))
		}
		if msgs[0].Content != "¡Hola!" || msgs[0].Sender != store.SenderBot {
			t.Errorf("newest = %+v", msgs[0])
		}
	})

	t.Run("stop drains queued saves", func(t *testing.T) {
		st := store.NewMemoryStore()
		q := store.NewQueue(st)

		for i := 0; i < 50; i++ {
			if err := q.SaveMessage("user_1", store.SenderUsuario, "msg"); err != nil {
				t.Fatal(err)
			}
		}
		if err := q.Stop(ctx); err != nil {
			t.Fatalf("Stop: %v", err)
		}

		msgs, err := st.Messages(ctx, "user_1", 100)
		if err != nil {
			t.Fatal(err)
		}
		if len(msgs) != 50 {
			t.Errorf("got %d messages after drain, want 50", len(msgs))
		}
	})

	t.Run("rejects work after stop", func(t *testing.T) {
		q := store.NewQueue(store.NewMemoryStore())
		if err := q.Stop(ctx); err != nil {
			t.Fatal(err)
		}
		if err := q.SaveUser("user_1", ""); !errors.Is(err, store.ErrClosed) {
			t.Errorf("SaveUser after Stop = %v, want ErrClosed", err)
		}
		if _, err := q.Messages(ctx, "user_1", 1); !errors.Is(err, store.ErrClosed) {
			t.Errorf("Messages after Stop = %v, want ErrClosed", err)
		}
		// Stop twice is fine.
		if err := q.Stop(ctx); err != nil {
			t.Errorf("second Stop = %v", err)
		}
	})
}
