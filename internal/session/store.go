package session

import "sync"

// Store holds exactly one Session per user id. Get never fails: unknown users
// get New(). Set replaces the whole session.
type Store interface {
	Get(userID int64) Session
	Set(userID int64, s Session)
}

// MemoryStore keeps sessions in a map for the life of the process.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[int64]Session)}
}

func (m *MemoryStore) Get(userID int64) Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[userID]; ok {
		return s
	}
	return New()
}

func (m *MemoryStore) Set(userID int64, s Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[userID] = s
}

func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
