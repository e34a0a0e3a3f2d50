package password

import (
	"strings"
	"testing"
)

func secureConfig() Config {
	return Config{
		Memory:      65536,
		Time:        3,
		Parallelism: 2,
		SaltLength:  16,
		KeyLength:   32,
	}
}

func TestArgon2HashAndCompare(t *testing.T) {
	hasher, err := NewArgon2(secureConfig())
	if err != nil {
		t.Fatalf("NewArgon2 error: %v", err)
	}

	digest, err := hasher.Hash("P@ssw0rd-Ascii")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	if !strings.HasPrefix(digest, "$argon2id$v=19$m=65536,t=3,p=2$") {
		t.Fatalf("unexpected PHC prefix: %s", digest)
	}

	ok, err := hasher.Compare("P@ssw0rd-Ascii", digest)
	if err != nil {
		t.Fatalf("Compare error: %v", err)
	}
	if !ok {
		t.Fatal("expected password verification to succeed")
	}
}

func TestArgon2CompareWrongPassword(t *testing.T) {
	hasher, err := NewArgon2(secureConfig())
	if err != nil {
		t.Fatalf("NewArgon2 error: %v", err)
	}

	digest, err := hasher.Hash("correct-password")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	ok, err := hasher.Compare("wrong-password", digest)
	if err != nil {
		t.Fatalf("Compare error: %v", err)
	}
	if ok {
		t.Fatal("expected wrong password verification to fail")
	}
}

func TestArgon2SaltFreshness(t *testing.T) {
	hasher, err := NewArgon2(secureConfig())
	if err != nil {
		t.Fatalf("NewArgon2 error: %v", err)
	}

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

func TestArgon2RejectsWeakConfig(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"memory", func(c *Config) { c.Memory = 1024 }},
		{"time", func(c *Config) { c.Time = 0 }},
		{"parallelism", func(c *Config) { c.Parallelism = 0 }},
		{"salt", func(c *Config) { c.SaltLength = 8 }},
		{"key", func(c *Config) { c.KeyLength = 8 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := secureConfig()
			tc.mutate(&cfg)
			if _, err := NewArgon2(cfg); err == nil {
				t.Fatal("expected config validation error")
			}
		})
	}
}

func TestArgon2CompareMalformedDigest(t *testing.T) {
	hasher, err := NewArgon2(secureConfig())
	if err != nil {
		t.Fatalf("NewArgon2 error: %v", err)
	}

	for _, digest := range []string{
		"",
		"not-a-phc-string",
		"$argon2id$v=19$m=65536,t=3$short$parts",
		"$scrypt$v=19$m=65536,t=3,p=2$AAAA$BBBB",
	} {
		if _, err := hasher.Compare("anything", digest); err == nil {
			t.Fatalf("expected error for digest %q", digest)
		}
	}
}

func TestArgon2NeedsUpgrade(t *testing.T) {
	weak := Config{
		Memory:      8192,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}

	weakHasher, err := NewArgon2(weak)
	if err != nil {
		t.Fatalf("NewArgon2 weak error: %v", err)
	}
	digest, err := weakHasher.Hash("upgrade-me")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	strongHasher, err := NewArgon2(secureConfig())
	if err != nil {
		t.Fatalf("NewArgon2 strong error: %v", err)
	}

	needs, err := strongHasher.NeedsUpgrade(digest)
	if err != nil {
		t.Fatalf("NeedsUpgrade error: %v", err)
	}
	if !needs {
		t.Fatal("expected weak digest to need upgrade")
	}

	fresh, err := strongHasher.Hash("upgrade-me")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	needs, err = strongHasher.NeedsUpgrade(fresh)
	if err != nil {
		t.Fatalf("NeedsUpgrade error: %v", err)
	}
	if needs {
		t.Fatal("expected current-parameter digest to not need upgrade")
	}
}
