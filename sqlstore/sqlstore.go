// Package sqlstore provides a SQLite-backed credstore resolver over
// database/sql, using the pure-Go modernc.org/sqlite driver.
//
// The credentials table carries a (realm, username) primary key, so the
// identity-key uniqueness constraint that the engine's registration sequence
// relies on is enforced by the database itself. Caller-defined fields are
// stored as a JSON object column; each row additionally gets a surrogate
// UUID for external referencing and log correlation.
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/lockbay/credstore"
)

const schema = `
CREATE TABLE IF NOT EXISTS credentials (
	id         TEXT    NOT NULL,
	realm      TEXT    NOT NULL,
	username   TEXT    NOT NULL,
	digest     TEXT    NOT NULL DEFAULT '',
	fields     TEXT    NOT NULL DEFAULT '{}',
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL,
	PRIMARY KEY (realm, username)
);
`

// Store persists credential records in SQLite.
type Store struct {
	sqlDB *sql.DB
}

var _ credstore.Resolver = (*Store)(nil)

// Open opens (or creates) the database at path and ensures the schema.
// Use ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlstore: storage path is required")
	}

	dsn := path
	if path != ":memory:" {
		dsn = path + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	}

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open db: %w", err)
	}
	if path == ":memory:" {
		// Each pooled connection would otherwise see its own empty database.
		sqlDB.SetMaxOpenConns(1)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("sqlstore: ping db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("sqlstore: ensure schema: %w", err)
	}

	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// Find returns the record for lookup, or (nil, nil) when no row matches.
func (s *Store) Find(ctx context.Context, lookup credstore.Lookup) (*credstore.Record, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("sqlstore: store is not open")
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT realm, username, digest, fields
FROM credentials
WHERE realm = ? AND username = ?
`, lookup.Realm, lookup.Username)

	var (
		rec        credstore.Record
		fieldsJSON string
	)
	err := row.Scan(&rec.Realm, &rec.Username, &rec.Digest, &fieldsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sqlstore: find: %w", err)
	}

	if fieldsJSON != "" && fieldsJSON != "{}" {
		if err := json.Unmarshal([]byte(fieldsJSON), &rec.Fields); err != nil {
			return nil, fmt.Errorf("sqlstore: decode fields: %w", err)
		}
	}

	return &rec, nil
}

// Insert stores a new record; the primary key rejects duplicates.
func (s *Store) Insert(ctx context.Context, record credstore.Record) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("sqlstore: store is not open")
	}

	fieldsJSON := "{}"
	if len(record.Fields) > 0 {
		encoded, err := json.Marshal(record.Fields)
		if err != nil {
			return fmt.Errorf("sqlstore: encode fields: %w", err)
		}
		fieldsJSON = string(encoded)
	}

	now := toMillis(time.Now())
	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO credentials (id, realm, username, digest, fields, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`,
		uuid.NewString(),
		record.Realm,
		record.Username,
		record.Digest,
		fieldsJSON,
		now,
		now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("sqlstore: insert %s/%s: %w", record.Realm, record.Username, credstore.ErrResolverDuplicate)
		}
		return fmt.Errorf("sqlstore: insert: %w", err)
	}
	return nil
}

// UpdateHash replaces the digest of an existing row. Zero affected rows means
// the identity does not exist.
func (s *Store) UpdateHash(ctx context.Context, lookup credstore.Lookup, digest string) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("sqlstore: store is not open")
	}

	res, err := s.sqlDB.ExecContext(ctx, `
UPDATE credentials
SET digest = ?, updated_at = ?
WHERE realm = ? AND username = ?
`, digest, toMillis(time.Now()), lookup.Realm, lookup.Username)
	if err != nil {
		return fmt.Errorf("sqlstore: update: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlstore: update rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("sqlstore: update %s/%s: %w", lookup.Realm, lookup.Username, credstore.ErrResolverNoRecord)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
