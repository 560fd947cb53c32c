package session

import (
	"sync"
	"time"
)

// Manager serializes read-compute-write cycles per user id. Cycles for
// different users run in parallel.
type Manager struct {
	store Store
	now   func() time.Time

	mu    sync.Mutex
	locks map[int64]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

func NewManager(store Store) *Manager {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Manager{
		store: store,
		now:   time.Now,
		locks: make(map[int64]*userLock),
	}
}

// Do runs fn with the user's current session while holding that user's lock
// and stores what fn returns. Nothing is stored when fn returns an error or
// panics; the panic is re-raised after the lock is released.
func (m *Manager) Do(userID int64, fn func(Session) (Session, error)) error {
	unlock := m.lock(userID)
	defer unlock()

	cur := m.store.Get(userID)
	next, err := fn(cur)
	if err != nil {
		return err
	}
	now := m.now().UTC()
	if next.CreatedAt.IsZero() {
		next.CreatedAt = now
	}
	next.UpdatedAt = now
	m.store.Set(userID, next)
	return nil
}

// Peek returns the stored session without taking the user's lock.
func (m *Manager) Peek(userID int64) Session {
	return m.store.Get(userID)
}

func (m *Manager) lock(userID int64) func() {
	m.mu.Lock()
	l, ok := m.locks[userID]
	if !ok {
		l = &userLock{}
		m.locks[userID] = l
	}
	l.refs++
	m.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		m.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(m.locks, userID)
		}
		m.mu.Unlock()
	}
}
