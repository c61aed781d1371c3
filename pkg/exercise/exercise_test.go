package exercise_test

import (
	"context"
	"testing"

	"github.com/linalabs/go-lina/pkg/exercise"
)

type recordingSpeaker struct {
	spoken []string
}

func (r *recordingSpeaker) Speak(_ context.Context, text string) {
	r.spoken = append(r.spoken, text)
}

func TestIdentification(t *testing.T) {
	ex := exercise.NewIdentification()

	t.Run("correct choice", func(t *testing.T) {
		res := ex.Check("Manzana")
		if !res.Correct {
			t.Fatal("Manzana judged incorrect")
		}
		if res.Utterance != "¡Correcto! Manzana empieza con la letra M." {
			t.Errorf("utterance = %q", res.Utterance)
		}
	})

	t.Run("wrong choice", func(t *testing.T) {
		res := ex.Check("Pera")
		if res.Correct {
			t.Fatal("Pera judged correct")
		}
		if res.Utterance != "No es correcto. Intenta de nuevo." {
			t.Errorf("utterance = %q", res.Utterance)
		}
	})

	t.Run("case insensitive", func(t *testing.T) {
		if res := ex.Check("manzana"); !res.Correct {
			t.Error("lowercase answer judged incorrect")
		}
	})
}

func TestSpelling(t *testing.T) {
	ex := exercise.NewSpelling()

	t.Run("correct spelling is praised and spoken once", func(t *testing.T) {
		res := ex.Check([]string{"S", "O", "L"})
		if !res.Correct {
			t.Fatal("S-O-L judged incorrect")
		}
		if res.Utterance != "¡Excelente! Sol se deletrea S-O-L." {
			t.Errorf("utterance = %q", res.Utterance)
		}
		if res.Feedback != `¡Excelente! S-O-L es "Sol".` {
			t.Errorf("feedback = %q", res.Feedback)
		}

		speaker := &recordingSpeaker{}
		exercise.Announce(context.Background(), speaker, res)
		if len(speaker.spoken) != 1 || speaker.spoken[0] != "¡Excelente! Sol se deletrea S-O-L." {
			t.Errorf("spoken = %v, want the praise exactly once", speaker.spoken)
		}
	})

	t.Run("lowercase letters are accepted", func(t *testing.T) {
		if res := ex.Check([]string{"s", "o", "l"}); !res.Correct {
			t.Error("lowercase spelling judged incorrect")
		}
	})

	t.Run("wrong spelling corrects the learner", func(t *testing.T) {
		res := ex.Check([]string{"S", "A", "L"})
		if res.Correct {
			t.Fatal("S-A-L judged correct")
		}
		if res.Utterance != "No es correcto. Sol se deletrea S-O-L." {
			t.Errorf("utterance = %q", res.Utterance)
		}
	})

	t.Run("custom word", func(t *testing.T) {
		ex := exercise.NewSpellingFor("mesa")
		if got := ex.Word(); got != "MESA" {
			t.Errorf("Word = %q", got)
		}
		if got := ex.Length(); got != 4 {
			t.Errorf("Length = %d", got)
		}
		res := ex.Check([]string{"m", "e", "s", "a"})
		if !res.Correct {
			t.Fatal("correct spelling judged incorrect")
		}
		if res.Utterance != "¡Excelente! Mesa se deletrea M-E-S-A." {
			t.Errorf("utterance = %q", res.Utterance)
		}
	})
}

func TestDragMatch(t *testing.T) {
	t.Run("all zones matched", func(t *testing.T) {
		ex := exercise.NewDragMatch()
		for _, letter := range ex.Zones() {
			ex.DragStart(letter)
			if !ex.Drop(letter) {
				t.Fatalf("Drop(%q) failed", letter)
			}
		}
		res := ex.Check()
		if !res.Correct {
			t.Fatal("full match judged incorrect")
		}
		if res.Utterance != "¡Perfecto! Todas las letras están emparejadas correctamente." {
			t.Errorf("utterance = %q", res.Utterance)
		}
	})

	t.Run("misplaced letter fails", func(t *testing.T) {
		ex := exercise.NewDragMatchFor("A", "B")
		ex.DragStart("B")
		ex.Drop("A")
		ex.DragStart("A")
		ex.Drop("B")
		if res := ex.Check(); res.Correct {
			t.Error("swapped letters judged correct")
		}
	})

	t.Run("drop replaces the previous letter", func(t *testing.T) {
		ex := exercise.NewDragMatchFor("A", "B")
		ex.DragStart("B")
		ex.Drop("A")
		ex.DragStart("A")
		ex.Drop("A")
		if letter, _ := ex.Placed("A"); letter != "A" {
			t.Errorf("zone A holds %q, want A", letter)
		}
	})

	t.Run("drop ends the drag", func(t *testing.T) {
		ex := exercise.NewDragMatchFor("A", "E")
		ex.DragStart("A")
		if !ex.Drop("A") {
			t.Fatal("Drop(A) failed")
		}
		if ex.Drop("E") {
			t.Error("second Drop succeeded without a new drag")
		}
		if _, ok := ex.Placed("E"); ok {
			t.Error("zone E holds a letter without a new drag")
		}
	})

	t.Run("drag end clears the dragged letter", func(t *testing.T) {
		ex := exercise.NewDragMatchFor("A")
		ex.DragStart("A")
		ex.DragEnd()
		if ex.Drop("A") {
			t.Error("Drop succeeded after the drag ended")
		}
	})

	t.Run("drop outside every zone ends the drag", func(t *testing.T) {
		ex := exercise.NewDragMatchFor("A")
		ex.DragStart("A")
		if ex.Drop("Z") {
			t.Error("Drop into an unknown zone succeeded")
		}
		if ex.Drop("A") {
			t.Error("Drop succeeded after the gesture already ended")
		}
	})

	t.Run("drop without a drag does nothing", func(t *testing.T) {
		ex := exercise.NewDragMatchFor("A")
		if ex.Drop("A") {
			t.Error("Drop succeeded with no drag in progress")
		}
		if _, ok := ex.Placed("A"); ok {
			t.Error("zone A holds a letter with no drag in progress")
		}
	})

	t.Run("empty board fails", func(t *testing.T) {
		ex := exercise.NewDragMatch()
		if res := ex.Check(); res.Correct {
			t.Error("empty board judged correct")
		}
	})
}
