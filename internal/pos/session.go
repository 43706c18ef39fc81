package pos

import (
	"sync"

	"github.com/google/uuid"
	"github.com/ndavydov/gopos/internal/cart"
	"github.com/ndavydov/gopos/internal/catalog"
)

// Session is one operator's POS state: catalog snapshot, bill in
// progress and the pending quantity prompt. The browser's UI event loop
// becomes a per-session mutex here: operations on a session are
// serialized, so every mutation is atomic from the caller's view.
type Session struct {
	mu sync.Mutex

	ID       string
	Username string

	Catalog *catalog.Catalog
	Cart    *cart.Cart
	Prompt  *cart.Prompt

	checkoutInFlight bool
}

func newSession(username string) *Session {
	return &Session{
		ID:       uuid.NewString(),
		Username: username,
		Catalog:  catalog.New(),
		Cart:     cart.New(),
		Prompt:   cart.NewPrompt(),
	}
}

// Manager is the in-memory session registry. Sessions are created at
// login and dropped at logout; nothing survives a restart, all durable
// state lives behind the billing API.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Create starts a session for an authenticated user.
func (m *Manager) Create(username string) *Session {
	s := newSession(username)
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// Get returns the session with the given ID.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Delete removes a session. Deleting an unknown ID is a no-op.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}
