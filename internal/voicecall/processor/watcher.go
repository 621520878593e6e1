package processor

import (
	"encoding/json"
	"regexp"
	"sync"
)

// questionPattern matches a completed proxima_pregunta_agente string value
// inside the partial JSON accumulated so far. The value group is a full JSON
// string literal, escapes included, so it only matches once the closing
// quote has streamed in.
var questionPattern = regexp.MustCompile(`"proxima_pregunta_agente"\s*:\s*("(?:[^"\\]|\\.)*")`)

// FieldWatcher scans a streamed JSON response for the agent's next question
// and fires the callback exactly once per turn, as soon as the field value is
// complete. The stream keeps flowing afterwards; Reset rearms it for the next
// turn.
type FieldWatcher struct {
	mu      sync.Mutex
	buf     []byte
	fired   bool
	onFound func(question string)
}

func NewFieldWatcher(onFound func(question string)) *FieldWatcher {
	return &FieldWatcher{onFound: onFound}
}

// Feed appends one stream chunk, which may be as small as a single
// character, and checks whether the watched field has completed.
func (w *FieldWatcher) Feed(chunk string) {
	w.mu.Lock()
	if w.fired {
		w.mu.Unlock()
		return
	}
	w.buf = append(w.buf, chunk...)

	match := questionPattern.FindSubmatch(w.buf)
	if match == nil {
		w.mu.Unlock()
		return
	}

	var question string
	if err := json.Unmarshal(match[1], &question); err != nil {
		w.mu.Unlock()
		return
	}
	w.fired = true
	onFound := w.onFound
	w.mu.Unlock()

	if question != "" && onFound != nil {
		onFound(question)
	}
}

// Reset clears the accumulator and rearms the watcher for the next turn.
func (w *FieldWatcher) Reset() {
	w.mu.Lock()
	w.buf = w.buf[:0]
	w.fired = false
	w.mu.Unlock()
}
