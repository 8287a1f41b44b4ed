package strategy

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/dgraph-io/badger/v4"
)

// BadgerRepo implements Repo on an embedded BadgerDB, the server-side
// counterpart of the browser's local storage: durable, local, key-value.
type BadgerRepo struct {
	DB *badger.DB
}

func (r *BadgerRepo) key(profileID string) []byte {
	return []byte(KeyPrefix + profileID)
}

// Get returns the persisted strategy for a profile id.
func (r *BadgerRepo) Get(ctx context.Context, profileID string) (*CaseStrategy, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var s CaseStrategy
	err := r.DB.View(func(txn *badger.Txn) error {
		item, err := txn.Get(r.key(profileID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &s)
		})
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Save serializes and overwrites the record for a profile id.
func (r *BadgerRepo) Save(ctx context.Context, profileID string, s *CaseStrategy) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	blob, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.DB.Update(func(txn *badger.Txn) error {
		return txn.Set(r.key(profileID), blob)
	})
}

// Clear removes the record for a profile id.
func (r *BadgerRepo) Clear(ctx context.Context, profileID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.DB.Update(func(txn *badger.Txn) error {
		err := txn.Delete(r.key(profileID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
}

// ClearAll removes every record under the strategy key prefix.
func (r *BadgerRepo) ClearAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	prefix := []byte(KeyPrefix)
	return r.DB.Update(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		var keys [][]byte
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		for _, k := range keys {
			if err := txn.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

// List returns all persisted profile ids in key order.
func (r *BadgerRepo) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	prefix := []byte(KeyPrefix)
	ids := []string{}
	err := r.DB.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := it.Item().Key()
			ids = append(ids, string(key[len(prefix):]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

var _ Repo = (*BadgerRepo)(nil)
