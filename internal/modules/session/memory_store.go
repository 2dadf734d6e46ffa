// README: In-memory session store (single process, tests, CLI REPL).
package session

import (
	"context"
	"sync"
)

type MemoryStore struct {
	mu       sync.RWMutex
	opts     Options
	sessions map[string]*Session
}

func NewMemoryStore(opts Options) *MemoryStore {
	return &MemoryStore{
		opts:     opts.withDefaults(),
		sessions: make(map[string]*Session),
	}
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok || m.opts.expired(s, m.opts.Now()) {
		return nil, ErrNotFound
	}
	return s.Clone(), nil
}

func (m *MemoryStore) Set(ctx context.Context, s *Session) error {
	if err := s.Validate(); err != nil {
		return err
	}
	stored := s.Clone()
	stored.Trim(m.opts.MaxTurns, m.opts.MaxPlans)

	m.mu.Lock()
	m.sessions[s.ID] = stored
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) SweepExpired(ctx context.Context) (int, error) {
	now := m.opts.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if m.opts.expired(s, now) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed, nil
}

func (m *MemoryStore) Stats(ctx context.Context) (Stats, error) {
	now := m.opts.Now()

	m.mu.RLock()
	defer m.mu.RUnlock()

	active := 0
	for _, s := range m.sessions {
		if !m.opts.expired(s, now) {
			active++
		}
	}
	return Stats{ActiveSessions: active, IdleTimeout: m.opts.IdleTimeout}, nil
}
