package crypto_test

import (
	"strings"
	"testing"

	"king/internal/crypto"
)

func cheapParams() crypto.Argon2Params {
	return crypto.Argon2Params{MemoryKiB: 64, Time: 1, Threads: 1, SaltLen: 16, KeyLen: 32}
}

func newHasher(t *testing.T) *crypto.PasswordHasher {
	t.Helper()
	h, err := crypto.NewPasswordHasher(cheapParams())
	if err != nil {
		t.Fatalf("NewPasswordHasher: %v", err)
	}
	return h
}

func TestPasswordHasher_VerifyOwnHash(t *testing.T) {
	h := newHasher(t)
	for _, pw := range []string{"pw1", "", "correct horse battery staple", "ünïcødé"} {
		hash, err := h.Hash(pw)
		if err != nil {
			t.Fatalf("Hash(%q): %v", pw, err)
		}
		if !strings.HasPrefix(hash, "$argon2id$v=19$m=64,t=1,p=1$") {
			t.Fatalf("unexpected hash format %q", hash)
		}
		if !h.Verify(pw, hash) {
			t.Fatalf("Verify(%q) failed on own hash", pw)
		}
	}
}

func TestPasswordHasher_WrongPasswordFails(t *testing.T) {
	h := newHasher(t)
	hash, err := h.Hash("pw1")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if h.Verify("pw2", hash) {
		t.Fatal("Verify accepted a different password")
	}
}

func TestPasswordHasher_SaltIsFreshPerCall(t *testing.T) {
	h := newHasher(t)
	a, _ := h.Hash("same")
	b, _ := h.Hash("same")
	if a == b {
		t.Fatal("two hashes of the same password are identical")
	}
}

func TestPasswordHasher_VerifyUsesEmbeddedParams(t *testing.T) {
	old := newHasher(t)
	hash, err := old.Hash("pw")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	p := cheapParams()
	p.Time = 2
	p.MemoryKiB = 128
	current, err := crypto.NewPasswordHasher(p)
	if err != nil {
		t.Fatalf("NewPasswordHasher: %v", err)
	}
	if !current.Verify("pw", hash) {
		t.Fatal("hash created with older params no longer verifies")
	}
}

func TestPasswordHasher_MalformedHashes(t *testing.T) {
	h := newHasher(t)
	good, _ := h.Hash("pw")
	parts := strings.Split(good, "$")

	cases := map[string]string{
		"empty":         "",
		"plaintext":     "pw",
		"bcrypt":        "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy",
		"missing field": strings.Join(parts[:5], "$"),
		"bad version":   strings.Replace(good, "v=19", "v=16", 1),
		"bad params":    strings.Replace(good, "m=64,t=1,p=1", "m=x,t=1,p=1", 1),
		"huge memory":   strings.Replace(good, "m=64", "m=99999999", 1),
		"zero time":     strings.Replace(good, "t=1", "t=0", 1),
		"version tail":  strings.Replace(good, "v=19", "v=19junk", 1),
		"params tail":   strings.Replace(good, "m=64,t=1,p=1", "m=64,t=1,p=1junk", 1),
		"extra param":   strings.Replace(good, "m=64,t=1,p=1", "m=64,t=1,p=1,x=2", 1),
		"leading zero":  strings.Replace(good, "m=64", "m=064", 1),
		"signed param":  strings.Replace(good, "t=1", "t=+1", 1),
		"reordered":     strings.Replace(good, "m=64,t=1,p=1", "t=1,m=64,p=1", 1),
		"threads wrap":  strings.Replace(good, "p=1", "p=257", 1),
		"bad salt":      strings.Join(append(append([]string{}, parts[:4]...), "!!!!", parts[5]), "$"),
		"bad digest":    strings.Join(append(append([]string{}, parts[:5]...), "***"), "$"),
	}
	for name, hash := range cases {
		t.Run(name, func(t *testing.T) {
			if h.Verify("pw", hash) {
				t.Fatalf("Verify accepted malformed hash %q", hash)
			}
		})
	}
}

func TestPasswordHasher_DecoyIsWellFormed(t *testing.T) {
	h := newHasher(t)
	d := h.Decoy()
	if !strings.HasPrefix(d, "$argon2id$v=19$m=64,t=1,p=1$") {
		t.Fatalf("decoy hash %q does not use the hasher params", d)
	}
	if h.Verify("", d) {
		t.Fatal("decoy verified an empty password")
	}
}

func TestNewPasswordHasher_RejectsBadParams(t *testing.T) {
	bad := []crypto.Argon2Params{
		{MemoryKiB: 64, Time: 0, Threads: 1, SaltLen: 16, KeyLen: 32},
		{MemoryKiB: 64, Time: 1, Threads: 0, SaltLen: 16, KeyLen: 32},
		{MemoryKiB: 64, Time: 1, Threads: 1, SaltLen: 4, KeyLen: 32},
		{MemoryKiB: 64, Time: 1, Threads: 1, SaltLen: 16, KeyLen: 8},
		{MemoryKiB: 4, Time: 1, Threads: 1, SaltLen: 16, KeyLen: 32},
	}
	for _, p := range bad {
		if _, err := crypto.NewPasswordHasher(p); err == nil {
			t.Fatalf("expected error for params %+v", p)
		}
	}
	if err := crypto.DefaultArgon2Params().Validate(); err != nil {
		t.Fatalf("default params invalid: %v", err)
	}
}

func TestPasswordHasher_DecoyFollowsStoredParams(t *testing.T) {
	stored := cheapParams()
	stored.MemoryKiB = 256
	stored.Time = 2
	old, err := crypto.NewPasswordHasher(stored)
	if err != nil {
		t.Fatalf("NewPasswordHasher: %v", err)
	}
	hash, _ := old.Hash("pw")

	h := newHasher(t)
	got, err := crypto.ParamsOf(hash)
	if err != nil {
		t.Fatalf("ParamsOf: %v", err)
	}
	if got != stored {
		t.Fatalf("ParamsOf = %+v, want %+v", got, stored)
	}
	if err := h.UseDecoyParams(got); err != nil {
		t.Fatalf("UseDecoyParams: %v", err)
	}
	if p, _ := crypto.ParamsOf(h.Decoy()); p != stored {
		t.Fatalf("decoy params %+v, want %+v", p, stored)
	}
	if h.Params() != cheapParams() {
		t.Fatalf("new-hash params changed to %+v", h.Params())
	}
	if err := h.UseDecoyParams(crypto.Argon2Params{}); err == nil {
		t.Fatal("UseDecoyParams accepted zero params")
	}
	if _, err := crypto.ParamsOf("pw"); err == nil {
		t.Fatal("ParamsOf accepted a plaintext string")
	}
}
