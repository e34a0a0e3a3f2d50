// Package redistore provides a Redis-backed credstore resolver.
//
// # Layout
//
// Each credential record is one JSON-encoded value at
//
//	<prefix>:<realm>:<username>
//
// Insert uses SETNX so the identity-key uniqueness constraint holds even
// under concurrent registration; UpdateHash runs a WATCH/MULTI optimistic
// transaction so the existence check and the write are atomic with respect
// to concurrent writers, retrying a few times on contention.
//
// # Architecture boundaries
//
// The package owns the key layout and encoding only. It never interprets the
// digest and stores caller-defined fields verbatim.
package redistore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/lockbay/credstore"
)

const defaultPrefix = "cred"

// Store is a Redis-backed [credstore.Resolver].
type Store struct {
	redis  redis.UniversalClient
	prefix string
}

var _ credstore.Resolver = (*Store)(nil)

// New wraps a Redis client. An empty prefix falls back to "cred".
func New(client redis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &Store{
		redis:  client,
		prefix: prefix,
	}
}

func (s *Store) key(lookup credstore.Lookup) string {
	return s.prefix + ":" + lookup.Realm + ":" + lookup.Username
}

// storedRecord is the wire shape. The identity key is redundantly encoded in
// the value so records survive prefix migrations and external inspection.
type storedRecord struct {
	Realm    string            `json:"realm"`
	Username string            `json:"username"`
	Digest   string            `json:"digest,omitempty"`
	Fields   map[string]string `json:"fields,omitempty"`
}

func encodeRecord(rec credstore.Record) ([]byte, error) {
	return json.Marshal(storedRecord{
		Realm:    rec.Realm,
		Username: rec.Username,
		Digest:   rec.Digest,
		Fields:   rec.Fields,
	})
}

func decodeRecord(data []byte) (*credstore.Record, error) {
	var stored storedRecord
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("redistore: decode record: %w", err)
	}
	return &credstore.Record{
		Realm:    stored.Realm,
		Username: stored.Username,
		Digest:   stored.Digest,
		Fields:   stored.Fields,
	}, nil
}

// Find returns the record at the lookup key, or (nil, nil) when absent.
func (s *Store) Find(ctx context.Context, lookup credstore.Lookup) (*credstore.Record, error) {
	data, err := s.redis.Get(ctx, s.key(lookup)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redistore: find: %w", err)
	}

	return decodeRecord(data)
}

// Insert stores a new record. SETNX enforces the uniqueness constraint.
func (s *Store) Insert(ctx context.Context, record credstore.Record) error {
	encoded, err := encodeRecord(record)
	if err != nil {
		return fmt.Errorf("redistore: encode record: %w", err)
	}

	set, err := s.redis.SetNX(ctx, s.key(record.Key()), encoded, 0).Result()
	if err != nil {
		return fmt.Errorf("redistore: insert: %w", err)
	}
	if !set {
		return fmt.Errorf("redistore: insert %s/%s: %w", record.Realm, record.Username, credstore.ErrResolverDuplicate)
	}
	return nil
}

// UpdateHash replaces the digest of an existing record, preserving its
// caller-defined fields.
func (s *Store) UpdateHash(ctx context.Context, lookup credstore.Lookup, digest string) error {
	const maxRetries = 4
	key := s.key(lookup)

	for i := 0; i < maxRetries; i++ {
		err := s.redis.Watch(ctx, func(tx *redis.Tx) error {
			data, err := tx.Get(ctx, key).Bytes()
			if errors.Is(err, redis.Nil) {
				return fmt.Errorf("redistore: update %s/%s: %w", lookup.Realm, lookup.Username, credstore.ErrResolverNoRecord)
			}
			if err != nil {
				return err
			}

			rec, err := decodeRecord(data)
			if err != nil {
				return err
			}
			rec.Digest = digest

			encoded, err := encodeRecord(*rec)
			if err != nil {
				return err
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, encoded, 0)
				return nil
			})
			return err
		}, key)

		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			if errors.Is(err, credstore.ErrResolverNoRecord) {
				return err
			}
			return fmt.Errorf("redistore: update: %w", err)
		}
		return nil
	}

	return fmt.Errorf("redistore: update %s/%s: transaction contention exhausted retries", lookup.Realm, lookup.Username)
}
