package kv

import (
	"fmt"
	"os"

	badger "github.com/dgraph-io/badger/v4"
)

// Open opens a persistent Badger database at dir, creating the directory if
// needed. The returned *badger.DB is safe for concurrent use; the caller owns
// closing it.
func Open(dir string) (*badger.DB, error) {
	if dir == "" {
		return nil, fmt.Errorf("badger dir is empty")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create badger dir %s: %w", dir, err)
	}
	opts := badger.DefaultOptions(dir).
		WithSyncWrites(true).
		WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return db, nil
}

// OpenInMemory opens a non-persistent database, useful for tests and the
// memory store mode.
func OpenInMemory() (*badger.DB, error) {
	opts := badger.DefaultOptions("").
		WithInMemory(true).
		WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return db, nil
}
