// Package password implements the adaptive hash primitives consumed by the
// credstore engine: bcrypt (the default) and Argon2id.
//
// Both hashers satisfy the engine's Hasher capability set, produce a fresh
// random salt on every Hash call, and verify in constant time relative to the
// digest contents.
//
// # Output formats
//
// Bcrypt digests use the standard modular crypt encoding produced by
// golang.org/x/crypto/bcrypt. Argon2id digests use the PHC string format:
//
//	$argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<hash>
//
// The Argon2 hasher supports transparent parameter upgrades: when a stored
// digest was produced with weaker parameters, [Argon2.NeedsUpgrade] reports
// true so the caller can re-hash after the next successful verification.
//
// # What this package must NOT do
//
//   - Enforce password policy. Length floors and validation order belong to
//     the engine.
//   - Store or retrieve digests.
//   - Log plaintext passwords or hash parameters at runtime.
package password
