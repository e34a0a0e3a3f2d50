//go:build integration
// +build integration

package test

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/lockbay/credstore"
	"github.com/lockbay/credstore/memstore"
	"github.com/lockbay/credstore/password"
	"github.com/lockbay/credstore/redistore"
	"github.com/lockbay/credstore/sqlstore"
)

// resolverUnderTest names one storage backend for the cross-backend suite.
type resolverUnderTest struct {
	name string
	make func(t *testing.T) credstore.Resolver
}

func allResolvers() []resolverUnderTest {
	return []resolverUnderTest{
		{name: "memstore", make: newMemResolver},
		{name: "redistore", make: newRedisResolver},
		{name: "sqlstore", make: newSQLResolver},
	}
}

func newMemResolver(t *testing.T) credstore.Resolver {
	t.Helper()
	return memstore.New()
}

func newRedisResolver(t *testing.T) credstore.Resolver {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = rdb.Close()
		mr.Close()
	})

	return redistore.New(rdb, "cred")
}

func newSQLResolver(t *testing.T) credstore.Resolver {
	t.Helper()

	store, err := sqlstore.Open(":memory:")
	if err != nil {
		t.Fatalf("sqlstore open failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	return store
}

// newIntegrationEngine builds a real engine with low-cost bcrypt so the suite
// exercises the actual hash primitive without paying production work factors.
func newIntegrationEngine(t *testing.T, res credstore.Resolver) *credstore.Engine {
	t.Helper()

	hasher, err := password.NewBcrypt(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewBcrypt failed: %v", err)
	}

	cfg := credstore.DefaultConfig()
	cfg.Audit.Enabled = false

	engine, err := credstore.New().
		WithConfig(cfg).
		WithResolver(res).
		WithHasher(hasher).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	return engine
}
