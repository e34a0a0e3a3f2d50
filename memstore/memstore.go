// Package memstore provides an in-memory credstore resolver.
//
// It is the reference resolver for tests, examples, and single-process tools:
// a mutex-guarded map with a real uniqueness guarantee on the identity key,
// so even the engine's documented check-then-insert registration race
// resolves to a duplicate error here rather than a double insert.
//
// Records are cloned on the way in and out; callers never alias store-owned
// state. Nothing is persisted across process restarts.
package memstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/lockbay/credstore"
)

// Store is an in-memory [credstore.Resolver]. The zero value is not usable;
// construct with [New].
type Store struct {
	mu      sync.RWMutex
	records map[credstore.Lookup]*credstore.Record
}

var _ credstore.Resolver = (*Store)(nil)

func New() *Store {
	return &Store{
		records: make(map[credstore.Lookup]*credstore.Record),
	}
}

// Find returns the stored record for lookup, or (nil, nil) when absent.
func (s *Store) Find(ctx context.Context, lookup credstore.Lookup) (*credstore.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[lookup]
	if !ok {
		return nil, nil
	}
	return rec.Clone(), nil
}

// Insert stores a new record, failing when the identity key is occupied.
func (s *Store) Insert(ctx context.Context, record credstore.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := record.Key()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[key]; ok {
		return fmt.Errorf("memstore: insert %s/%s: %w", key.Realm, key.Username, credstore.ErrResolverDuplicate)
	}

	s.records[key] = record.Clone()
	return nil
}

// UpdateHash replaces the digest of an existing record.
func (s *Store) UpdateHash(ctx context.Context, lookup credstore.Lookup, digest string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[lookup]
	if !ok {
		return fmt.Errorf("memstore: update %s/%s: %w", lookup.Realm, lookup.Username, credstore.ErrResolverNoRecord)
	}

	rec.Digest = digest
	return nil
}

// Len reports the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
