package credstore

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestBuildDefaults(t *testing.T) {
	engine, err := New().WithResolver(newMockResolver()).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	if engine.hasher == nil {
		t.Fatal("expected default bcrypt hasher")
	}

	// The default hasher must produce verifiable salted digests.
	digest, err := engine.hasher.Hash("password1")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if !strings.HasPrefix(digest, "$2") {
		t.Fatalf("expected bcrypt digest, got %q", digest)
	}
	ok, err := engine.hasher.Compare("password1", digest)
	if err != nil || !ok {
		t.Fatalf("Compare = (%v, %v), want (true, nil)", ok, err)
	}
}

func TestBuildOnce(t *testing.T) {
	b := New().WithResolver(newMockResolver())

	engine, err := b.Build()
	if err != nil {
		t.Fatalf("first Build failed: %v", err)
	}
	defer engine.Close()

	if _, err := b.Build(); !errors.Is(err, ErrBuilderUsed) {
		t.Fatalf("second Build = %v, want ErrBuilderUsed", err)
	}
}

func TestBuildExplicitNilHasherRejected(t *testing.T) {
	_, err := New().WithHasher(nil).Build()
	if !errors.Is(err, ErrNilHasher) {
		t.Fatalf("Build = %v, want ErrNilHasher", err)
	}
}

func TestBuildConfigIsolatedFromCaller(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Audit.Enabled = false

	b := New().WithConfig(cfg).WithResolver(newMockResolver()).WithHasher(&stubHasher{})

	// Caller mutation after WithConfig must not leak into the engine.
	cfg.Metrics.Enabled = false

	engine, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	if _, err := engine.Register(context.Background(), nil, "alice", "password1"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if got := engine.MetricsSnapshot().Counters[MetricRegisterSuccess]; got != 1 {
		t.Fatalf("register successes = %d, want 1", got)
	}
}

func TestWithMetricsEnabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Audit.Enabled = false

	engine, err := New().
		WithConfig(cfg).
		WithResolver(newMockResolver()).
		WithHasher(&stubHasher{}).
		WithMetricsEnabled(false).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	if _, err := engine.Register(context.Background(), nil, "alice", "password1"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if snap := engine.MetricsSnapshot(); len(snap.Counters) != 0 {
		t.Fatalf("metrics disabled but snapshot has %d counters", len(snap.Counters))
	}
}
