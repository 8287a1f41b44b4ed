package strategy

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// PGRepo implements Repo using Postgres. Each strategy is one row holding
// the full document as jsonb; the table is the key namespace, so no key
// prefix is needed here.
type PGRepo struct {
	DB *sql.DB
}

// Get returns the persisted strategy for a profile id.
func (r *PGRepo) Get(ctx context.Context, profileID string) (*CaseStrategy, error) {
	const query = `
SELECT document
FROM strategies
WHERE profile_id = $1`
	var blob []byte
	err := r.DB.QueryRowContext(ctx, query, profileID).Scan(&blob)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var s CaseStrategy
	if err := json.Unmarshal(blob, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Save upserts the record for a profile id.
func (r *PGRepo) Save(ctx context.Context, profileID string, s *CaseStrategy) error {
	const query = `
INSERT INTO strategies (profile_id, document, updated_at)
VALUES ($1, $2, $3)
ON CONFLICT (profile_id)
DO UPDATE SET document = EXCLUDED.document, updated_at = EXCLUDED.updated_at`
	blob, err := json.Marshal(s)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query, profileID, blob, time.Now().UTC())
	return err
}

// Clear removes the record for a profile id.
func (r *PGRepo) Clear(ctx context.Context, profileID string) error {
	const query = `DELETE FROM strategies WHERE profile_id = $1`
	_, err := r.DB.ExecContext(ctx, query, profileID)
	return err
}

// ClearAll removes every strategy record.
func (r *PGRepo) ClearAll(ctx context.Context) error {
	const query = `DELETE FROM strategies`
	_, err := r.DB.ExecContext(ctx, query)
	return err
}

// List returns all persisted profile ids.
func (r *PGRepo) List(ctx context.Context) ([]string, error) {
	const query = `SELECT profile_id FROM strategies ORDER BY profile_id`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

var _ Repo = (*PGRepo)(nil)
