package session

import (
	"context"
	"sync"
	"time"

	"github.com/conorfennell/trivia/internal/view"
)

type entry struct {
	state   view.State
	touched time.Time
}

// MemoryStore keeps view state in process memory.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*entry
	now      func() time.Time
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*entry),
		now:      time.Now,
	}
}

// Get returns a copy of the session's state, or a fresh state. Reading a
// session counts as activity.
func (m *MemoryStore) Get(_ context.Context, id string) (view.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.sessions[id]; ok {
		e.touched = m.now()
		return e.state.Clone(), nil
	}
	return view.NewState(), nil
}

// Update applies fn to a copy of the state and keeps the copy if fn succeeds.
func (m *MemoryStore) Update(_ context.Context, id string, fn func(*view.State) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := view.NewState()
	if e, ok := m.sessions[id]; ok {
		st = e.state.Clone()
	}
	if err := fn(&st); err != nil {
		return err
	}
	m.sessions[id] = &entry{state: st, touched: m.now()}
	return nil
}

// Expire removes sessions last used before cutoff.
func (m *MemoryStore) Expire(_ context.Context, cutoff time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for id, e := range m.sessions {
		if e.touched.Before(cutoff) {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}

// Len returns the number of live sessions.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
