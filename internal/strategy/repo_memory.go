package strategy

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo. Records are held in
// serialized form so callers never share structure with the stored copy.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string][]byte // profileID -> JSON blob
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string][]byte),
	}
}

// Get returns the persisted strategy for a profile id.
func (r *MemoryRepo) Get(ctx context.Context, profileID string) (*CaseStrategy, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	blob, ok := r.data[profileID]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	var s CaseStrategy
	if err := json.Unmarshal(blob, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Save serializes and overwrites the record for a profile id.
func (r *MemoryRepo) Save(ctx context.Context, profileID string, s *CaseStrategy) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	blob, err := json.Marshal(s)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[profileID] = blob
	return nil
}

// Clear removes the record for a profile id.
func (r *MemoryRepo) Clear(ctx context.Context, profileID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, profileID)
	return nil
}

// ClearAll removes every record.
func (r *MemoryRepo) ClearAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data = make(map[string][]byte)
	return nil
}

// List returns all persisted profile ids, sorted.
func (r *MemoryRepo) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.data))
	for id := range r.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
