package password

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

// Cost 4 (bcrypt.MinCost) keeps the test suite fast; DefaultCost is covered
// by the constructor range check only.
func newFastBcrypt(t *testing.T) *Bcrypt {
	t.Helper()
	hasher, err := NewBcrypt(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewBcrypt error: %v", err)
	}
	return hasher
}

func TestBcryptHashAndCompare(t *testing.T) {
	hasher := newFastBcrypt(t)

	digest, err := hasher.Hash("secr3t-value")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	ok, err := hasher.Compare("secr3t-value", digest)
	if err != nil {
		t.Fatalf("Compare error: %v", err)
	}
	if !ok {
		t.Fatal("expected match")
	}

	ok, err = hasher.Compare("wrong-value", digest)
	if err != nil {
		t.Fatalf("Compare error on mismatch: %v", err)
	}
	if ok {
		t.Fatal("expected mismatch to report false")
	}
}

func TestBcryptSaltFreshness(t *testing.T) {
	hasher := newFastBcrypt(t)

	first, err := hasher.Hash("same-plaintext")
	if err != nil {
		t.Fatalf("first Hash error: %v", err)
	}
	second, err := hasher.Hash("same-plaintext")
	if err != nil {
		t.Fatalf("second Hash error: %v", err)
	}

	if first == second {
		t.Fatal("expected different digests for the same plaintext")
	}
}

func TestBcryptCompareMalformedDigest(t *testing.T) {
	hasher := newFastBcrypt(t)

	if _, err := hasher.Compare("anything", "not-a-bcrypt-digest"); err == nil {
		t.Fatal("expected error for malformed digest")
	}
}

func TestNewBcryptRejectsOutOfRangeCost(t *testing.T) {
	if _, err := NewBcrypt(bcrypt.MaxCost + 1); err == nil {
		t.Fatal("expected error for cost above range")
	}
	if _, err := NewBcrypt(-1); err == nil {
		t.Fatal("expected error for negative cost")
	}

	hasher, err := NewBcrypt(DefaultCost)
	if err != nil {
		t.Fatalf("NewBcrypt(DefaultCost) error: %v", err)
	}
	if hasher.Cost() != DefaultCost {
		t.Fatalf("Cost() = %d, want %d", hasher.Cost(), DefaultCost)
	}
}
