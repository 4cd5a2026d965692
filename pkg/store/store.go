// Package store provides the in-memory state kept by agents: checkout
// sessions on the shopping side and the settlement ledger on the payment
// side. Both are safe for concurrent use and injected as interfaces so a
// durable backend can replace them without touching agent code.
package store

import (
	"sync"

	"github.com/voyagerlabs/ap2-go/pkg/catalog"
	"github.com/voyagerlabs/ap2-go/pkg/mandate"
)

// Session is the shopping agent's view of one checkout in flight. Mandates
// are attached as the flow progresses; a session is complete once it holds a
// confirmation.
type Session struct {
	SessionID      string
	UserID         string
	Intent         *mandate.IntentMandate
	Packages       []catalog.TravelPackage
	Merchant       mandate.Payee
	SelectedOption int
	Cart           *mandate.CartMandate
	Payment        *mandate.PaymentMandate
	Confirmation   *mandate.PaymentConfirmation
}

// SessionStore holds checkout sessions keyed by session id.
type SessionStore interface {
	// Put stores or replaces a session.
	Put(session *Session)

	// Get returns the session for id, or false when absent.
	Get(id string) (*Session, bool)

	// Delete removes a session. Deleting an absent id is a no-op.
	Delete(id string)
}

// MemorySessionStore is a map-backed SessionStore.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemorySessionStore creates an empty session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]*Session)}
}

func (s *MemorySessionStore) Put(session *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.SessionID] = session
}

func (s *MemorySessionStore) Get(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	return session, ok
}

func (s *MemorySessionStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}
