package evidence

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"lighthouse-backend/internal/shared/storage/object"
)

// Service contains business logic for evidence uploads.
type Service struct {
	Store object.ObjectStore
	Repo  EvidenceRepo
}

// Upload saves the file to object storage and records the evidence entry.
func (s *Service) Upload(ctx context.Context, sessionID, fileName string, r io.Reader) (Evidence, error) {
	if fileName == "" {
		return Evidence{}, ErrInvalidInput
	}

	storageKey, size, mimeType, err := s.Store.Save(ctx, sessionID, fileName, r)
	if err != nil {
		return Evidence{}, err
	}

	ev := Evidence{
		ID:         uuid.NewString(),
		SessionID:  sessionID,
		FileName:   fileName,
		MimeType:   mimeType,
		SizeBytes:  size,
		StorageKey: storageKey,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.Repo.Create(ctx, ev); err != nil {
		return Evidence{}, err
	}

	return ev, nil
}

// Get returns evidence metadata and an open stream over its bytes.
// The caller owns closing the returned reader.
func (s *Service) Get(ctx context.Context, sessionID, evidenceID string) (Evidence, io.ReadCloser, error) {
	ev, err := s.Repo.GetByID(ctx, sessionID, evidenceID)
	if err != nil {
		return Evidence{}, nil, err
	}

	rc, err := s.Store.Open(ctx, ev.StorageKey)
	if err != nil {
		return Evidence{}, nil, err
	}

	return ev, rc, nil
}

// List returns all evidence metadata for a session.
func (s *Service) List(ctx context.Context, sessionID string) ([]Evidence, error) {
	return s.Repo.ListBySession(ctx, sessionID)
}
