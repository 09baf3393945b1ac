package cart

import "sync"

// Store keeps one cart per browsing session. Carts were purely client-side
// state in earlier revisions of the shop; server-side the session map lives
// behind this mutex and each Cart synchronizes its own mutations.
type Store struct {
	mu          sync.Mutex
	defaultStep float64
	carts       map[string]*Cart
}

func NewStore(defaultStep float64) *Store {
	return &Store{
		defaultStep: defaultStep,
		carts:       make(map[string]*Cart),
	}
}

// Get returns the session's cart, creating an empty one on first use.
func (s *Store) Get(sessionID string) *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[sessionID]
	if !ok {
		c = New(s.defaultStep)
		s.carts[sessionID] = c
	}
	return c
}

// Drop discards a session's cart after a completed checkout, so the session
// starts fresh without carrying the old ledger around.
func (s *Store) Drop(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
}
