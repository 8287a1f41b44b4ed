package evidence

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of EvidenceRepo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string][]Evidence // sessionId -> evidence
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string][]Evidence),
	}
}

// Create records a new evidence entry for a session.
func (r *MemoryRepo) Create(ctx context.Context, ev Evidence) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[ev.SessionID] = append(r.data[ev.SessionID], ev)
	return nil
}

// GetByID returns a piece of evidence by ID for a session.
func (r *MemoryRepo) GetByID(ctx context.Context, sessionID, evidenceID string) (Evidence, error) {
	if err := ctx.Err(); err != nil {
		return Evidence{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	evs := r.data[sessionID]
	for i := range evs {
		if evs[i].ID == evidenceID {
			return evs[i], nil
		}
	}
	return Evidence{}, ErrNotFound
}

// ListBySession returns all evidence for a session, newest first.
func (r *MemoryRepo) ListBySession(ctx context.Context, sessionID string) ([]Evidence, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	sessionEvs := r.data[sessionID]
	r.mu.RUnlock()

	evs := make([]Evidence, len(sessionEvs))
	copy(evs, sessionEvs)
	sort.Slice(evs, func(i, j int) bool {
		return evs[i].CreatedAt.After(evs[j].CreatedAt)
	})

	return evs, nil
}
