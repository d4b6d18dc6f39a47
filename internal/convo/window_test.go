package convo

import (
	"fmt"
	"testing"
)

func TestWindowTrimsOldestFirst(t *testing.T) {
	w := NewWindow(3)
	for i := 0; i < 5; i++ {
		w.Append(Turn{Role: RoleUser, Content: fmt.Sprintf("turn %d", i)})
	}

	turns := w.Turns()
	if len(turns) != 3 {
		t.Fatalf("Len() = %d, want 3", len(turns))
	}
	if turns[0].Content != "turn 2" || turns[2].Content != "turn 4" {
		t.Fatalf("window contents = %+v, want turns 2..4", turns)
	}
}

func TestWindowDefaultSize(t *testing.T) {
	w := NewWindow(0)
	for i := 0; i < DefaultWindowSize+4; i++ {
		w.Append(Turn{Role: RoleAssistant, Content: "x"})
	}
	if w.Len() != DefaultWindowSize {
		t.Fatalf("Len() = %d, want %d", w.Len(), DefaultWindowSize)
	}
}

func TestWindowTurnsReturnsCopy(t *testing.T) {
	w := NewWindow(2)
	w.Append(Turn{Role: RoleUser, Content: "original"})
	turns := w.Turns()
	turns[0].Content = "mutated"
	if w.Turns()[0].Content != "original" {
		t.Fatalf("Turns() must return a copy")
	}
}
