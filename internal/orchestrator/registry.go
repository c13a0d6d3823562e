package orchestrator

import (
	"sync"

	"github.com/revenueguard/analyzer/internal/domain"
)

// Registry is the single mutual-exclusion point for the process's mutable
// in-flight state: which session ids currently have a background task
// running, and appending to a session's durable message log. Grounded on
// the teacher's mutex-guarded-map pattern (ProjectionWorker's running flag,
// RateLimiter's per-token map), generalized to a per-session claim set.
type Registry struct {
	mu       sync.Mutex
	claims   map[string]bool
	messages domain.MessageRepository
}

// NewRegistry creates a Registry backed by the given message store.
func NewRegistry(messages domain.MessageRepository) *Registry {
	return &Registry{
		claims:   make(map[string]bool),
		messages: messages,
	}
}

// Claim reserves sessionID for exclusive background processing. It returns
// false if a task for that id is already running.
func (r *Registry) Claim(sessionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.claims[sessionID] {
		return false
	}
	r.claims[sessionID] = true
	return true
}

// Release frees sessionID for a future submission. Safe to call more than
// once or for an id never claimed.
func (r *Registry) Release(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.claims, sessionID)
}

// IsRunning reports whether sessionID currently has a claimed background
// task, used by Refresh to leave sessions with a live task untouched.
func (r *Registry) IsRunning(sessionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.claims[sessionID]
}

// AppendMessage durably appends to a session's message log. Conversation
// history is not held in-process; the durable store is the registry's
// "conversation-history map" per the process-wide-state design note.
func (r *Registry) AppendMessage(sessionID string, role domain.MessageRole, content string) error {
	_, err := r.messages.Append(sessionID, role, content)
	return err
}

// Snapshot returns the session ids currently claimed, for diagnostics.
func (r *Registry) Snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.claims))
	for id := range r.claims {
		ids = append(ids, id)
	}
	return ids
}
