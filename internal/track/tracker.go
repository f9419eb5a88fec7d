package track

import (
	"sync"
	"time"
)

// Entry records one in-flight generation job.
type Entry struct {
	JobID     string
	Prompt    string
	StartTime time.Time
}

// Tracker is an in-memory map of in-flight job identifiers. It exists for
// introspection and user-initiated cancellation only and is at most weakly
// consistent with the job client: forgetting an entry stops local tracking
// but the remote service has no abort endpoint, so the job still runs to
// completion server-side.
type Tracker struct {
	mu      sync.Mutex
	entries map[string]Entry
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{entries: make(map[string]Entry)}
}

// Track registers a job. The entry lives at most until the generate call
// that issued the job returns.
func (t *Tracker) Track(jobID, prompt string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[jobID] = Entry{JobID: jobID, Prompt: prompt, StartTime: time.Now()}
}

// Forget drops a job from tracking and reports whether it was present.
func (t *Tracker) Forget(jobID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.entries[jobID]; !ok {
		return false
	}
	delete(t.entries, jobID)
	return true
}

// Count returns the number of in-flight entries.
func (t *Tracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// Active returns a snapshot of the tracked entries.
func (t *Tracker) Active() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Entry, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, e)
	}
	return out
}
