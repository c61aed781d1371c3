package server_test

import (
	"strings"
	"testing"

	"github.com/linalabs/go-lina/pkg/server"
)

func TestResponderBasic(t *testing.T) {
	t.Run("greeting", func(t *testing.T) {
		r := server.NewResponder()
		reply := r.Basic("hola", "u1")
		if reply.Type != server.TypeSaludo {
			t.Errorf("type = %q, want saludo", reply.Type)
		}
		if !strings.Contains(reply.Reply, "Hola") {
			t.Errorf("reply = %q", reply.Reply)
		}
		if reply.Status != "success" {
			t.Errorf("status = %q", reply.Status)
		}
	})

	t.Run("farewell", func(t *testing.T) {
		r := server.NewResponder()
		reply := r.Basic("adiós", "u1")
		if reply.Type != server.TypeDespedida {
			t.Errorf("type = %q, want despedida", reply.Type)
		}
	})

	t.Run("vowels", func(t *testing.T) {
		r := server.NewResponder()
		reply := r.Basic("quiero ver las vocales", "u1")
		if reply.Type != server.TypeVocalesInfo {
			t.Errorf("type = %q, want vocales_info", reply.Type)
		}
	})

	t.Run("single letter", func(t *testing.T) {
		r := server.NewResponder()
		reply := r.Basic("m", "u1")
		if reply.Type != server.TypeLetraInfo {
			t.Errorf("type = %q, want letra_info", reply.Type)
		}
		if reply.Letter != "M" {
			t.Errorf("letter = %q, want M", reply.Letter)
		}
		if !strings.Contains(reply.Reply, "Manzana") {
			t.Errorf("reply %q does not use the M example", reply.Reply)
		}
	})

	t.Run("unknown letter still answers", func(t *testing.T) {
		r := server.NewResponder()
		reply := r.Basic("z", "u1")
		if reply.Letter != "Z" {
			t.Errorf("letter = %q, want Z", reply.Letter)
		}
		if !strings.Contains(reply.Reply, "La letra Z aparece en muchas palabras") {
			t.Errorf("reply = %q", reply.Reply)
		}
	})

	t.Run("single word is spelled out", func(t *testing.T) {
		r := server.NewResponder()
		reply := r.Basic("sol", "u1")
		if reply.Type != server.TypePalabraInfo {
			t.Errorf("type = %q, want palabra_info", reply.Type)
		}
		if reply.Word != "sol" {
			t.Errorf("word = %q, want sol", reply.Word)
		}
		if !strings.Contains(reply.Reply, "'S'-'O'-'L'") {
			t.Errorf("reply %q does not spell the word", reply.Reply)
		}
	})

	t.Run("accented word is spelled out", func(t *testing.T) {
		r := server.NewResponder()
		reply := r.Basic("árbol", "u1")
		if reply.Type != server.TypePalabraInfo {
			t.Errorf("type = %q, want palabra_info", reply.Type)
		}
		if reply.Word != "árbol" {
			t.Errorf("word = %q, want árbol", reply.Word)
		}
		if !strings.Contains(reply.Reply, "'Á'-'R'-'B'-'O'-'L'") {
			t.Errorf("reply %q does not spell the word", reply.Reply)
		}
	})

	t.Run("vowel follow-up uses context", func(t *testing.T) {
		r := server.NewResponder()
		if reply := r.Basic("vocales", "u1"); reply.Type != server.TypeVocalesInfo {
			t.Fatalf("setup reply type = %q", reply.Type)
		}
		reply := r.Basic("sí, por favor", "u1")
		if reply.Type != server.TypeVocalesDetalle {
			t.Errorf("type = %q, want vocales_detalle", reply.Type)
		}
	})

	t.Run("context is per user", func(t *testing.T) {
		r := server.NewResponder()
		r.Basic("vocales", "u1")
		reply := r.Basic("sí, por favor", "u2")
		if reply.Type == server.TypeVocalesDetalle {
			t.Error("second user inherited the first user's context")
		}
	})

	t.Run("greeting clears context", func(t *testing.T) {
		r := server.NewResponder()
		r.Basic("el alfabeto", "u1")
		r.Basic("hola", "u1")
		reply := r.Basic("sí, claro", "u1")
		if reply.Type == server.TypeAlfabetoPract {
			t.Error("alphabet context survived a greeting")
		}
	})

	t.Run("first contact offers the menu", func(t *testing.T) {
		r := server.NewResponder()
		reply := r.Basic("no entiendo qué hacer 123", "u1")
		if !strings.Contains(reply.Reply, "1) Las vocales") {
			t.Errorf("reply = %q, want the learning menu", reply.Reply)
		}
	})
}

func TestResponderFromIntent(t *testing.T) {
	t.Run("letter intent", func(t *testing.T) {
		r := server.NewResponder()
		reply := r.FromIntent("learn_letter", map[string][]server.WitEntity{
			"letra": {{Body: "s"}},
		}, "u1")
		if reply.Type != server.TypeLetraInfo || reply.Letter != "S" {
			t.Errorf("reply = %+v", reply)
		}
		if !strings.Contains(reply.Reply, "Sol") {
			t.Errorf("reply %q does not use the S example", reply.Reply)
		}
	})

	t.Run("word intent", func(t *testing.T) {
		r := server.NewResponder()
		reply := r.FromIntent("learn_word", map[string][]server.WitEntity{
			"palabra": {{Body: "mesa"}},
		}, "u1")
		if reply.Type != server.TypePalabraInfo || reply.Word != "mesa" {
			t.Errorf("reply = %+v", reply)
		}
		if !strings.Contains(reply.Reply, "'M'-'E'-'S'-'A'") {
			t.Errorf("reply = %q", reply.Reply)
		}
	})

	t.Run("unknown intent falls back", func(t *testing.T) {
		r := server.NewResponder()
		reply := r.FromIntent("weather", nil, "u1")
		if reply.Type != "" || reply.Status != "success" {
			t.Errorf("reply = %+v", reply)
		}
	})
}
