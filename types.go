package credstore

import "context"

const (
	// DefaultRealm is the realm used when an operation is invoked without an
	// explicit realm option. It partitions usernames that never opted into
	// namespacing into a single well-known identity space.
	DefaultRealm = "_default"

	// MinUsernameLength and MaxUsernameLength bound the accepted username size.
	MinUsernameLength = 2
	MaxUsernameLength = 128

	// MinPasswordLength is the minimum accepted plaintext password size.
	// It is a structural floor, not a password policy; host applications are
	// expected to enforce their own policy upstream.
	MinPasswordLength = 6

	// MinRealmLength and MaxRealmLength bound the accepted realm size.
	MinRealmLength = 1
	MaxRealmLength = 128
)

// Lookup is the identity key: a (realm, username) pair uniquely identifying
// one account within a realm.
type Lookup struct {
	Realm    string
	Username string
}

// Record is the persisted credential record for one identity key. Digest is
// the opaque salted output of the [Hasher]; Fields carries any additional
// caller-defined state stored alongside the credential.
//
// Fields keys must not collide with the reserved names "realm", "username",
// and "digest". A resolver returning such a record is treated as misbehaving
// and the operation fails with [ErrReservedField].
//
// Record is the low-level surface: code holding a Record can read the raw
// digest. The primary verification API ([Engine.VerifyPassword]) never exposes
// it, only the boolean compare outcome.
type Record struct {
	Realm    string
	Username string
	Digest   string
	Fields   map[string]string
}

// Key returns the record's identity key.
func (r *Record) Key() Lookup {
	return Lookup{Realm: r.Realm, Username: r.Username}
}

// Clone returns a deep copy of the record. Resolvers backed by shared memory
// should return clones so callers never alias store-owned state.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	out := &Record{
		Realm:    r.Realm,
		Username: r.Username,
		Digest:   r.Digest,
	}
	if r.Fields != nil {
		out.Fields = make(map[string]string, len(r.Fields))
		for k, v := range r.Fields {
			out.Fields[k] = v
		}
	}
	return out
}

// Found is the boolean projection over Find's nullable-record contract.
// It exists so callers migrating from a found-flag API do not re-implement
// the mapping.
func Found(rec *Record) bool {
	return rec != nil
}

// Resolver is the storage capability set that host applications must supply.
// Implementations may be backed by anything from an in-process slice to a
// networked database; all engine I/O flows through these three calls.
//
// Contract:
//
//   - Find returns (nil, nil) when no record matches the lookup. Any non-nil
//     error is an infrastructure failure, never a not-found signal.
//   - Insert persists a new record and should return an error wrapping
//     [ErrResolverDuplicate] when a uniqueness constraint on the identity key
//     is violated. Resolvers without such a constraint simply cannot protect
//     concurrent registrations; see [Engine.Register].
//   - UpdateHash replaces the stored digest for an existing record and must
//     return an error wrapping [ErrResolverNoRecord] when no record matches.
type Resolver interface {
	Find(ctx context.Context, lookup Lookup) (*Record, error)
	Insert(ctx context.Context, record Record) error
	UpdateHash(ctx context.Context, lookup Lookup, digest string) error
}

// Hasher is the adaptive hash capability set. Hash must salt freshly on every
// call, so hashing the same plaintext twice yields different digests. Compare
// reports whether plaintext matches a previously produced digest.
//
// The work factor is fixed by the Hasher implementation ([password.Bcrypt]
// defaults to cost 10) and is deliberately not tunable through the engine.
type Hasher interface {
	Hash(password string) (string, error)
	Compare(password, digest string) (bool, error)
}
