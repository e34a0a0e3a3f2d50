package credstore

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestRegisterSuccess(t *testing.T) {
	res := newMockResolver()
	engine, _ := newTestEngine(t, res)
	ctx := context.Background()

	rec, err := engine.Register(ctx, res, "alice", "first password")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if rec == nil {
		t.Fatal("expected confirmed record")
	}
	if rec.Realm != DefaultRealm || rec.Username != "alice" {
		t.Fatalf("unexpected identity: %+v", rec)
	}
	if rec.Digest == "" || rec.Digest == "first password" {
		t.Fatalf("digest missing or unhashed: %q", rec.Digest)
	}

	ok, err := engine.VerifyPassword(ctx, res, "alice", "first password")
	if err != nil || !ok {
		t.Fatalf("registered password does not verify: ok=%v err=%v", ok, err)
	}

	find, insert, update := res.counts()
	if insert != 1 || update != 1 {
		t.Fatalf("insert=%d update=%d, want 1/1", insert, update)
	}
	// Existence check, re-fetch, then the VerifyPassword lookup.
	if find != 3 {
		t.Fatalf("find calls = %d, want 3", find)
	}
}

func TestRegisterDuplicateLeavesRecordUntouched(t *testing.T) {
	res := newMockResolver()
	res.put(&Record{
		Realm:    DefaultRealm,
		Username: "alice",
		Digest:   "stub$1$original",
		Fields:   map[string]string{"email": "alice@example.com"},
	})
	engine, _ := newTestEngine(t, res)

	rec, err := engine.Register(context.Background(), res, "alice", "attacker password")
	if !errors.Is(err, ErrIdentityExists) {
		t.Fatalf("Register = %v, want ErrIdentityExists", err)
	}
	if rec != nil {
		t.Fatalf("expected nil record on duplicate, got %+v", rec)
	}

	stored := res.get(Lookup{Realm: DefaultRealm, Username: "alice"})
	if stored.Digest != "stub$1$original" {
		t.Fatalf("stored digest changed: %q", stored.Digest)
	}
	if stored.Fields["email"] != "alice@example.com" {
		t.Fatalf("stored fields changed: %+v", stored.Fields)
	}

	_, insert, update := res.counts()
	if insert != 0 || update != 0 {
		t.Fatalf("duplicate register wrote: insert=%d update=%d", insert, update)
	}
	if got := engine.MetricsSnapshot().Counters[MetricRegisterDuplicate]; got != 1 {
		t.Fatalf("register duplicates = %d, want 1", got)
	}
}

// When the existence check passes but the insert loses to a concurrent
// registration, a constrained resolver reports the duplicate and the caller
// still sees ErrIdentityExists.
func TestRegisterRaceLossMapsToIdentityExists(t *testing.T) {
	res := newMockResolver()
	res.insertErr = fmt.Errorf("unique constraint: %w", ErrResolverDuplicate)
	engine, _ := newTestEngine(t, res)

	_, err := engine.Register(context.Background(), res, "alice", "password1")
	if !errors.Is(err, ErrIdentityExists) {
		t.Fatalf("Register = %v, want ErrIdentityExists", err)
	}
	if got := engine.MetricsSnapshot().Counters[MetricRegisterDuplicate]; got != 1 {
		t.Fatalf("register duplicates = %d, want 1", got)
	}
}

func TestRegisterInsertFailurePropagates(t *testing.T) {
	res := newMockResolver()
	res.insertErr = errors.New("disk full")
	engine, _ := newTestEngine(t, res)

	_, err := engine.Register(context.Background(), res, "alice", "password1")
	if err == nil || errors.Is(err, ErrIdentityExists) {
		t.Fatalf("expected raw insert error, got %v", err)
	}
	if got := engine.MetricsSnapshot().Counters[MetricRegisterFailure]; got != 1 {
		t.Fatalf("register failures = %d, want 1", got)
	}
}

// A failure between insert and set-password leaves the bare record behind.
// There is no rollback: the identity is now occupied without a digest and a
// retry fails as a duplicate.
func TestRegisterStuckAfterSetPasswordFailure(t *testing.T) {
	res := newMockResolver()
	res.updateErr = errors.New("store went away")
	engine, _ := newTestEngine(t, res)
	ctx := context.Background()

	_, err := engine.Register(ctx, res, "alice", "password1")
	if err == nil || errors.Is(err, ErrIdentityExists) {
		t.Fatalf("expected update error, got %v", err)
	}

	stuck := res.get(Lookup{Realm: DefaultRealm, Username: "alice"})
	if stuck == nil {
		t.Fatal("bare record should remain after set-password failure")
	}
	if stuck.Digest != "" {
		t.Fatalf("unexpected digest on stuck record: %q", stuck.Digest)
	}

	res.updateErr = nil
	if _, err := engine.Register(ctx, res, "alice", "password1"); !errors.Is(err, ErrIdentityExists) {
		t.Fatalf("retry = %v, want ErrIdentityExists", err)
	}
}

func TestRegisterRealmScoped(t *testing.T) {
	res := newMockResolver()
	engine, _ := newTestEngine(t, res)
	ctx := context.Background()

	if _, err := engine.Register(ctx, res, "alice", "password1", WithRealm("tenant-a")); err != nil {
		t.Fatalf("tenant-a Register failed: %v", err)
	}

	// Same username in another realm is a fresh key.
	if _, err := engine.Register(ctx, res, "alice", "password2", WithRealm("tenant-b")); err != nil {
		t.Fatalf("tenant-b Register failed: %v", err)
	}
	if _, err := engine.Register(ctx, res, "alice", "password3", WithRealm("tenant-a")); !errors.Is(err, ErrIdentityExists) {
		t.Fatalf("tenant-a re-register = %v, want ErrIdentityExists", err)
	}

	ok, err := engine.VerifyPassword(ctx, res, "alice", "password2", WithRealm("tenant-b"))
	if err != nil || !ok {
		t.Fatalf("tenant-b verify = (%v, %v), want (true, nil)", ok, err)
	}
}

func TestRegisterConcurrentSameKey(t *testing.T) {
	res := newMockResolver()
	engine, _ := newTestEngine(t, res)
	ctx := context.Background()

	const attempts = 8
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		go func(n int) {
			_, err := engine.Register(ctx, res, "alice", fmt.Sprintf("password-%d", n))
			errs <- err
		}(i)
	}

	var wins, dups int
	for i := 0; i < attempts; i++ {
		switch err := <-errs; {
		case err == nil:
			wins++
		case errors.Is(err, ErrIdentityExists):
			dups++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	// The mock enforces key uniqueness on insert, so exactly one wins.
	if wins != 1 || dups != attempts-1 {
		t.Fatalf("wins=%d dups=%d, want 1/%d", wins, dups, attempts-1)
	}
}
