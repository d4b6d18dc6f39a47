package convo

import "sync"

// Role identifies who produced a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// DefaultWindowSize bounds conversation memory to the most recent turns.
const DefaultWindowSize = 10

// Turn is a single conversational exchange half. Timestamp is epoch millis.
// Learned counts knowledge entries extracted from this turn.
type Turn struct {
	Role       Role    `json:"role"`
	Content    string  `json:"content"`
	Timestamp  int64   `json:"timestamp"`
	Confidence float64 `json:"confidence,omitempty"`
	Source     string  `json:"source,omitempty"`
	Learned    int     `json:"learned,omitempty"`
}

// Window is a bounded sliding window over recent turns. Oldest turns are
// dropped first. No persistence beyond process lifetime.
type Window struct {
	mu    sync.RWMutex
	turns []Turn
	size  int
}

func NewWindow(size int) *Window {
	if size <= 0 {
		size = DefaultWindowSize
	}
	return &Window{size: size}
}

func (w *Window) Append(t Turn) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.turns = append(w.turns, t)
	if over := len(w.turns) - w.size; over > 0 {
		w.turns = append([]Turn(nil), w.turns[over:]...)
	}
}

// Turns returns a copy of the window, oldest first.
func (w *Window) Turns() []Turn {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]Turn, len(w.turns))
	copy(out, w.turns)
	return out
}

func (w *Window) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.turns)
}

func (w *Window) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.turns = nil
}
