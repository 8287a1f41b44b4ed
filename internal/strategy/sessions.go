package strategy

import (
	"context"
	"sync"
)

// Sessions hands out one Store per session id. Each browser session gets its
// own active document; persisted records are shared, keyed by profile id.
type Sessions struct {
	mu     sync.Mutex
	repo   Repo
	stores map[string]*Store
}

// NewSessions constructs a Sessions registry over repo.
func NewSessions(repo Repo) *Sessions {
	return &Sessions{
		repo:   repo,
		stores: make(map[string]*Store),
	}
}

// For returns the Store for a session id, creating it on first use.
func (s *Sessions) For(sessionID string) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.stores[sessionID]
	if !ok {
		st = NewStore(s.repo)
		s.stores[sessionID] = st
	}
	return st
}

// Reset removes every persisted strategy record and detaches all sessions.
// Used for the full demo reset.
func (s *Sessions) Reset(ctx context.Context) error {
	if err := s.repo.ClearAll(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range s.stores {
		st.Detach()
	}
	return nil
}
