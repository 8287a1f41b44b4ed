package strategy

import "context"

// KeyPrefix namespaces persisted strategy records in the underlying store.
const KeyPrefix = "strategy_"

// Repo defines persistence operations for case strategies. One record per
// profile id, stored as a single JSON blob.
type Repo interface {
	// Get returns the persisted strategy for a profile id, or ErrNotFound.
	Get(ctx context.Context, profileID string) (*CaseStrategy, error)
	// Save overwrites the record for a profile id unconditionally.
	Save(ctx context.Context, profileID string, s *CaseStrategy) error
	// Clear removes the record for a profile id. Missing records are not an
	// error.
	Clear(ctx context.Context, profileID string) error
	// ClearAll removes every strategy record.
	ClearAll(ctx context.Context) error
	// List returns the profile ids of all persisted strategies.
	List(ctx context.Context) ([]string, error)
}
