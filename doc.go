// Package credstore provides a small credential lifecycle layer (find, exists,
// register, verify-password, set-password) for realm-scoped username/password
// accounts backed by a pluggable storage resolver.
//
// The package owns no durable state. All persistence belongs to a [Resolver]
// supplied by the host application (see memstore, redistore, and sqlstore for
// reference implementations), and password hashing is delegated to a [Hasher]
// (see the password sub-package). What credstore contributes is the state
// machine between the two: input validation that fails before any I/O,
// duplicate-account protection on registration, anti-enumeration behavior on
// verification, and a defensive contract against misbehaving resolvers.
//
// # Architecture boundaries
//
// credstore is the public surface. It exposes [Engine], [Builder], [Config],
// the [Identity] handle, and value types ([Record], [Lookup], [AuditEvent],
// [MetricsSnapshot]). Operations come in two forms that share one code path:
// stateless Engine methods taking an explicit resolver, and [Identity] handle
// methods bound once to a (resolver, username, realm) triple.
//
// # What this package must NOT do
//
//   - Implement storage or indexing. Uniqueness under concurrent registration
//     can only be guaranteed by a resolver-level constraint; the engine's
//     check-then-insert sequence in [Engine.Register] is a documented race.
//   - Implement password hashing. The work factor and digest format belong to
//     the [Hasher].
//   - Manage sessions, tokens, or transport security.
//
// # Error contract
//
// Structural precondition failures (nil resolver, out-of-range username,
// password, or realm lengths) are returned synchronously before any resolver
// or hasher call. Business-rule failures ([ErrIdentityExists]) and collaborator
// failures arrive from the same call but after I/O; collaborator errors pass
// through verbatim so callers can tell infrastructure failure from a business
// outcome. No error is ever swallowed: the quiet call option only suppresses
// diagnostic audit emission.
package credstore
