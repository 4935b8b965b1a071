package app_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"king/internal/app"
	"king/internal/crypto"
	"king/internal/domain"
	"king/internal/store"
)

const (
	testSecret = "7ed049e344f73f399ba1f7868cf9494f"
	testNonce  = "7ed049e344f73f399ba1f786"
)

func testConfig(t *testing.T) app.Config {
	t.Helper()
	cfg, err := app.ParseConfig(map[string]string{
		"SECRET":                 testSecret,
		"NONCE":                  testNonce,
		"DATABASE_FILE":          filepath.Join(t.TempDir(), "db.json"),
		"KING_ARGON2_MEMORY_KIB": "64",
		"KING_ARGON2_TIME":       "1",
		"KING_ARGON2_THREADS":    "1",
	})
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	return cfg
}

func seedLookup(m map[string]string) store.LookupFunc {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

var seedEnv = map[string]string{
	"TEACHER_USERNAME_1": "Ann",
	"TEACHER_PASSWORD_1": "pw1",
	"STUDENT_USERNAME_1": "Bo",
	"STUDENT_PASSWORD_1": "pw2",
}

func TestParseConfig_Defaults(t *testing.T) {
	cfg, err := app.ParseConfig(map[string]string{"SECRET": testSecret, "NONCE": testNonce})
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.DatabaseFile != "db.json" || cfg.GradeMin != 0 || cfg.GradeMax != 6 || cfg.Cipher != "xchacha20poly1305" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestConfig_ValidateRejects(t *testing.T) {
	base := map[string]string{"SECRET": testSecret, "NONCE": testNonce}
	cases := map[string]map[string]string{
		"missing secret": {"NONCE": testNonce},
		"missing nonce":  {"SECRET": testSecret},
		"short secret":   {"SECRET": testSecret[:31], "NONCE": testNonce},
		"long nonce":     {"SECRET": testSecret, "NONCE": testNonce + "x"},
		"bad cipher":     merge(base, map[string]string{"KING_CIPHER": "rot13"}),
		"bad bounds":     merge(base, map[string]string{"KING_GRADE_MIN": "7"}),
		"bad argon":      merge(base, map[string]string{"KING_ARGON2_TIME": "0"}),
	}
	for name, environ := range cases {
		cfg, err := app.ParseConfig(environ)
		if err != nil {
			t.Fatalf("%s: ParseConfig: %v", name, err)
		}
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: Validate accepted %+v", name, cfg)
		}
		if _, err := app.Open(cfg, app.Options{}); err == nil {
			t.Fatalf("%s: Open accepted invalid config", name)
		}
	}
}

func merge(a, b map[string]string) map[string]string {
	out := map[string]string{}
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

func TestOpen_NoFileSeedsWithoutWriting(t *testing.T) {
	cfg := testConfig(t)
	a, err := app.Open(cfg, app.Options{Lookup: seedLookup(seedEnv)})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !a.Fallback {
		t.Fatal("expected fallback store")
	}
	if _, err := os.Stat(cfg.DatabaseFile); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("store file written before shutdown: %v", err)
	}
	if err := a.Auth.Authenticate(domain.RoleTeacher, "Ann", "pw1"); err != nil {
		t.Fatalf("seeded teacher login: %v", err)
	}
}

func TestOpen_SaveAndReload(t *testing.T) {
	cfg := testConfig(t)
	a, err := app.Open(cfg, app.Options{Lookup: seedLookup(seedEnv)})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := a.Grades.RecordGrade("Bo", 5.5); err != nil {
		t.Fatalf("RecordGrade: %v", err)
	}
	if err := a.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if err := a.Shutdown(); err != nil {
		t.Fatalf("second Shutdown: %v", err)
	}

	b, err := app.Open(cfg, app.Options{Lookup: seedLookup(nil)})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if b.Fallback {
		t.Fatal("reopen used fallback")
	}
	g, err := b.Grades.Grades("Bo")
	if err != nil || len(g) != 1 || g[0] != 5.5 {
		t.Fatalf("grades after reload = %v, %v", g, err)
	}
	if err := b.Auth.Authenticate(domain.RoleStudent, "Bo", "pw2"); err != nil {
		t.Fatalf("login after reload: %v", err)
	}
}

func TestOpen_CorruptFileFallsBackAndIsPreserved(t *testing.T) {
	cfg := testConfig(t)
	if err := os.WriteFile(cfg.DatabaseFile, []byte("KING\x01\x01broken"), 0o600); err != nil {
		t.Fatal(err)
	}
	a, err := app.Open(cfg, app.Options{Lookup: seedLookup(seedEnv)})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !a.Fallback || a.Store.Len(domain.RoleStudent) != 1 {
		t.Fatal("expected seeded fallback store")
	}
	raw, _ := os.ReadFile(cfg.DatabaseFile)
	if string(raw) != "KING\x01\x01broken" {
		t.Fatal("corrupt file touched before save")
	}
	if err := a.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	kept, _ := filepath.Glob(cfg.DatabaseFile + ".unreadable-*")
	if len(kept) != 1 {
		t.Fatalf("unreadable file not preserved: %v", kept)
	}
}

func TestOpen_BadSeedsStartEmpty(t *testing.T) {
	cfg := testConfig(t)
	a, err := app.Open(cfg, app.Options{Lookup: seedLookup(map[string]string{"TEACHER_USERNAME_1": "Ann"})})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if a.Store.Len(domain.RoleTeacher) != 0 || a.Store.Len(domain.RoleStudent) != 0 {
		t.Fatal("expected empty store")
	}
}

func TestBootstrapSeeds_YAMLFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.SeedFile = filepath.Join(t.TempDir(), "seed.yaml")
	doc := "accounts:\n  - role: student\n    username: Cy\n    password: pw3\n"
	if err := os.WriteFile(cfg.SeedFile, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}
	seeds, err := app.BootstrapSeeds(cfg, seedLookup(seedEnv))
	if err != nil {
		t.Fatalf("BootstrapSeeds: %v", err)
	}
	if len(seeds) != 3 || seeds[2].Username != "Cy" {
		t.Fatalf("seeds = %+v", seeds)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	if err := app.LoadDotEnv(filepath.Join(dir, "missing.env"), false); err != nil {
		t.Fatalf("optional missing file: %v", err)
	}
	if err := app.LoadDotEnv(filepath.Join(dir, "missing.env"), true); err == nil {
		t.Fatal("required missing file accepted")
	}

	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("KING_DOTENV_TEST=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Unsetenv("KING_DOTENV_TEST") })
	if err := app.LoadDotEnv(path, true); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv("KING_DOTENV_TEST"); got != "from-file" {
		t.Fatalf("KING_DOTENV_TEST = %q", got)
	}
}

func TestOpen_DecoyMatchesStoredHashParams(t *testing.T) {
	cfg := testConfig(t)
	cfg.Argon2MemoryKiB = 256
	cfg.Argon2Time = 2
	a, err := app.Open(cfg, app.Options{Lookup: seedLookup(seedEnv)})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := a.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	stored := a.Hasher.Params()

	// Reopen with cheaper settings for new hashes.
	cfg.Argon2MemoryKiB = 64
	cfg.Argon2Time = 1
	b, err := app.Open(cfg, app.Options{Lookup: seedLookup(nil)})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if b.Fallback {
		t.Fatal("reopen used fallback")
	}
	if b.Hasher.Params() == stored {
		t.Fatal("new-hash params did not change")
	}
	decoy, err := crypto.ParamsOf(b.Hasher.Decoy())
	if err != nil {
		t.Fatalf("ParamsOf(decoy): %v", err)
	}
	if decoy != stored {
		t.Fatalf("decoy params %+v, want stored %+v", decoy, stored)
	}
	if err := b.Auth.Authenticate(domain.RoleTeacher, "Nobody", "pw"); !errors.Is(err, domain.ErrUserDoesNotExist) {
		t.Fatalf("want ErrUserDoesNotExist, got %v", err)
	}
}
