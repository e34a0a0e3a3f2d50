package credstore

import "errors"

// Structural precondition errors. These indicate programmer error or broken
// collaborator wiring and are returned synchronously, before any resolver or
// hasher call. They are checked in a fixed precedence order so a call with
// several bad inputs always fails the same way; see validate.go.
var (
	// ErrNilResolver is returned when neither the call nor the engine supplies
	// a storage resolver.
	ErrNilResolver = errors.New("credstore: resolver is nil")
	// ErrUsernameTooShort is returned for usernames under MinUsernameLength.
	ErrUsernameTooShort = errors.New("credstore: username too short")
	// ErrUsernameTooLong is returned for usernames over MaxUsernameLength.
	ErrUsernameTooLong = errors.New("credstore: username too long")
	// ErrPasswordTooShort is returned for passwords under MinPasswordLength.
	ErrPasswordTooShort = errors.New("credstore: password too short")
	// ErrRealmTooShort is returned for realms under MinRealmLength.
	ErrRealmTooShort = errors.New("credstore: realm too short")
	// ErrRealmTooLong is returned for realms over MaxRealmLength.
	ErrRealmTooLong = errors.New("credstore: realm too long")
)

// Business-rule errors. Delivered after I/O and expected to be handled by
// ordinary caller control flow.
var (
	// ErrIdentityExists is returned by Register when the identity key is
	// already occupied. The stored record is left untouched.
	ErrIdentityExists = errors.New("credstore: identity already exists")
)

// Structural integrity errors. Non-recoverable; they indicate a misbehaving
// storage resolver rather than bad caller input.
var (
	// ErrReservedField is returned when a fetched record carries a Fields key
	// colliding with a reserved name ("realm", "username", "digest").
	ErrReservedField = errors.New("credstore: record contains reserved field name")
)

// Resolver sentinel errors. Resolver implementations wrap these so the engine
// and callers can classify storage outcomes with errors.Is without depending
// on a concrete store package.
var (
	// ErrResolverDuplicate is wrapped by Insert on identity-key uniqueness
	// violations.
	ErrResolverDuplicate = errors.New("credstore: duplicate identity key")
	// ErrResolverNoRecord is wrapped by UpdateHash when no record matches the
	// lookup. SetPassword surfaces it verbatim: the engine does not pre-check
	// existence.
	ErrResolverNoRecord = errors.New("credstore: no record matches lookup")
)

// Engine lifecycle errors.
var (
	// ErrEngineNotReady is returned when an operation runs against an engine
	// missing a hasher, which can only happen through misuse of the zero value.
	ErrEngineNotReady = errors.New("credstore: engine not ready")
	// ErrBuilderUsed is returned by Build on a builder that already built.
	ErrBuilderUsed = errors.New("credstore: builder already used")
	// ErrNilHasher is returned by Build when the hasher was explicitly set
	// to nil.
	ErrNilHasher = errors.New("credstore: hasher is nil")
)
