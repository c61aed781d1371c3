package chat_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/linalabs/go-lina/pkg/chat"
)

func TestClientAsk(t *testing.T) {
	t.Run("posts to the basic endpoint", func(t *testing.T) {
		var gotPath string
		var gotBody chat.AskRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
				t.Errorf("decoding request: %v", err)
			}
			json.NewEncoder(w).Encode(chat.AskResponse{Reply: "¡Hola!"})
		}))
		defer srv.Close()

		client := chat.NewClient(chat.WithBaseURL(srv.URL))
		resp, err := client.Ask(context.Background(), false, "hola", "user_1")
		if err != nil {
			t.Fatalf("Ask: %v", err)
		}
		if gotPath != chat.BasicPath {
			t.Errorf("path = %q, want %q", gotPath, chat.BasicPath)
		}
		if gotBody.Message != "hola" || gotBody.UserID != "user_1" {
			t.Errorf("request body = %+v", gotBody)
		}
		if resp.Reply != "¡Hola!" {
			t.Errorf("reply = %q", resp.Reply)
		}
	})

	t.Run("posts to the advanced endpoint", func(t *testing.T) {
		var gotPath string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			json.NewEncoder(w).Encode(chat.AskResponse{Reply: "ok"})
		}))
		defer srv.Close()

		client := chat.NewClient(chat.WithBaseURL(srv.URL))
		if _, err := client.Ask(context.Background(), true, "hola", "user_1"); err != nil {
			t.Fatalf("Ask: %v", err)
		}
		if gotPath != chat.AdvancedPath {
			t.Errorf("path = %q, want %q", gotPath, chat.AdvancedPath)
		}
	})

	t.Run("returns APIError on server failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer srv.Close()

		client := chat.NewClient(chat.WithBaseURL(srv.URL))
		_, err := client.Ask(context.Background(), false, "hola", "user_1")
		var apiErr *chat.APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("error = %v, want APIError", err)
		}
		if apiErr.StatusCode != http.StatusInternalServerError || !apiErr.IsServerError() {
			t.Errorf("APIError = %+v", apiErr)
		}
	})

	t.Run("rejects empty message locally", func(t *testing.T) {
		client := chat.NewClient(chat.WithBaseURL("http://localhost:1"))
		if _, err := client.Ask(context.Background(), false, "  ", "user_1"); !errors.Is(err, chat.ErrEmptyMessage) {
			t.Errorf("error = %v, want ErrEmptyMessage", err)
		}
	})
}
