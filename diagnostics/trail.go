// Package diagnostics keeps the trail of queries a search attempted, so a
// user can see what was tried when nothing was found.
package diagnostics

import "sync"

// DefaultLast is how many entries Last returns when n is not positive.
const DefaultLast = 6

// Recorder receives one entry per attempted query.
type Recorder interface {
	Record(entry string)
}

// Log is a Recorder that can be read back and cleared.
type Log interface {
	Recorder
	Last(n int) []string
	Reset()
}

// Discard is a Recorder that drops every entry.
var Discard Recorder = discard{}

type discard struct{}

func (discard) Record(string) {}

// Trail is an append-only in-memory Log. It is safe for concurrent use.
type Trail struct {
	mu      sync.Mutex
	entries []string
}

// NewTrail creates an empty trail.
func NewTrail() *Trail {
	return &Trail{}
}

// Record appends entry to the trail.
func (t *Trail) Record(entry string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(t.entries, entry)
}

// Last returns up to n of the most recent entries, oldest first.
func (t *Trail) Last(n int) []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return tail(t.entries, n)
}

// Len returns the number of recorded entries.
func (t *Trail) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// Reset clears the trail.
func (t *Trail) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = nil
}

func tail(entries []string, n int) []string {
	if n <= 0 {
		n = DefaultLast
	}
	if len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	out := make([]string, len(entries))
	copy(out, entries)
	return out
}
