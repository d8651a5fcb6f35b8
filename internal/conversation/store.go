package conversation

import "sync"

// SessionStore keeps per-contact conversation state. Implementations must be
// safe for concurrent use; concurrent writes for the same contact are
// last-writer-wins (there is no per-contact locking).
type SessionStore interface {
	Get(contactID string) (Session, bool)
	Set(contactID string, sess Session)
	Clear(contactID string)
	Len() int
}

type memoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewMemoryStore creates an in-memory session store. State is lost on
// restart, which is acceptable for this bot.
func NewMemoryStore() SessionStore {
	return &memoryStore{sessions: make(map[string]Session)}
}

func (m *memoryStore) Get(contactID string) (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sess, ok := m.sessions[contactID]
	return sess, ok
}

func (m *memoryStore) Set(contactID string, sess Session) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[contactID] = sess
}

func (m *memoryStore) Clear(contactID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, contactID)
}

// Len returns the number of active sessions (for monitoring).
func (m *memoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.sessions)
}
