package evidence

import "context"

// EvidenceRepo defines persistence operations for uploaded evidence.
type EvidenceRepo interface {
	Create(ctx context.Context, ev Evidence) error
	GetByID(ctx context.Context, sessionID, evidenceID string) (Evidence, error)
	ListBySession(ctx context.Context, sessionID string) ([]Evidence, error)
}
