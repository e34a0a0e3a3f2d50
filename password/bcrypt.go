package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used when the host application does
// not choose one. Matches the conventional cost 10 baseline; the engine
// deliberately does not expose this as a per-call knob.
const DefaultCost = 10

// Bcrypt hashes passwords with bcrypt at a fixed cost. The zero value is not
// usable; construct with [NewBcrypt].
type Bcrypt struct {
	cost int
}

// NewBcrypt validates the cost against the bcrypt allowed range and returns
// a hasher.
func NewBcrypt(cost int) (*Bcrypt, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d outside [%d,%d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &Bcrypt{cost: cost}, nil
}

// Hash produces a salted digest. Salting is internal to bcrypt, so hashing
// the same plaintext twice yields different digests.
func (b *Bcrypt) Hash(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Compare reports whether password matches digest. A mismatch is a false
// result, not an error; errors are reserved for malformed digests.
func (b *Bcrypt) Compare(password, digest string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, err
}

// Cost returns the configured work factor.
func (b *Bcrypt) Cost() int {
	return b.cost
}
