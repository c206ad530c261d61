package session

import (
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"dishswipe/internal/dish"
)

// Manager keeps the live sessions of the process, keyed by ID.
type Manager struct {
	catalog *dish.Catalog
	lookup  PriceLookup
	opts    Options

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a Manager whose sessions browse catalog and price
// ingredients with lookup.
func NewManager(catalog *dish.Catalog, lookup PriceLookup, opts Options) *Manager {
	return &Manager{
		catalog:  catalog,
		lookup:   lookup,
		opts:     opts,
		sessions: make(map[string]*Session),
	}
}

// Catalog returns the catalog shared by all sessions.
func (m *Manager) Catalog() *dish.Catalog {
	return m.catalog
}

// Create starts a new session.
func (m *Manager) Create() *Session {
	s := New(uuid.NewString(), m.catalog, m.lookup, m.opts)

	m.mu.Lock()
	m.sessions[s.ID()] = s
	m.mu.Unlock()

	log.Printf("session %s created", s.ID())
	return s
}

// Get returns the session with the given ID.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s, nil
}

// Delete ends a session. Its pending price lookup, if any, is discarded.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	s.DismissDetail()
	log.Printf("session %s deleted", id)
	return nil
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Shutdown discards every pending price lookup and waits for them to return.
func (m *Manager) Shutdown() {
	m.mu.RLock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.RUnlock()

	for _, s := range sessions {
		s.DismissDetail()
		s.Wait()
	}
}
