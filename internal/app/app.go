package app

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"k8s.io/klog/v2"

	"king/internal/crypto"
	"king/internal/domain"
	"king/internal/services/auth"
	"king/internal/services/grades"
	"king/internal/store"
)

// Options adjust how Open finds bootstrap accounts.
type Options struct {
	// Lookup reads seed variables; defaults to os.LookupEnv.
	Lookup store.LookupFunc
}

// App bundles the store and services for the console.
type App struct {
	Config Config
	Hasher *crypto.PasswordHasher
	Store  *store.Store
	Files  *store.FileStore
	Auth   domain.AuthService
	Grades *grades.Service

	// Fallback is true when the store did not come from the store file.
	Fallback bool

	lookup      store.LookupFunc
	shutdown    sync.Once
	shutdownErr error
}

// Open validates cfg, loads the store file and builds the services. When the
// file cannot be loaded the store is seeded from bootstrap accounts, or left
// empty if seeding fails too. Nothing is written until Shutdown.
func Open(cfg Config, opts Options) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if opts.Lookup == nil {
		opts.Lookup = os.LookupEnv
	}

	hasher, err := crypto.NewPasswordHasher(cfg.Argon2Params())
	if err != nil {
		return nil, err
	}
	files, err := store.NewFileStore(cfg.DatabaseFile, cfg.Key(), cfg.NonceBytes(), cfg.CipherID())
	if err != nil {
		return nil, err
	}

	a := &App{Config: cfg, Hasher: hasher, Files: files, lookup: opts.Lookup}

	s, err := files.Load()
	switch {
	case err == nil:
		klog.InfoS("Loaded store", "path", files.Path(),
			"teachers", s.Len(domain.RoleTeacher), "students", s.Len(domain.RoleStudent))
		if err := matchDecoy(hasher, s); err != nil {
			return nil, fmt.Errorf("decoy hash: %w", err)
		}
	case errors.Is(err, store.ErrNoStoreFile):
		klog.InfoS("No store file, using bootstrap accounts", "path", files.Path())
		s = a.fallbackStore()
	default:
		klog.ErrorS(err, "Error while reading store file, using bootstrap accounts", "path", files.Path())
		s = a.fallbackStore()
	}

	a.Store = s
	a.Auth = auth.New(s, hasher)
	a.Grades = grades.New(s, cfg.Bounds())
	return a, nil
}

func (a *App) fallbackStore() *store.Store {
	a.Fallback = true
	seeds, err := BootstrapSeeds(a.Config, a.lookup)
	if err == nil {
		var s *store.Store
		if s, err = store.NewSeededStore(a.Hasher, seeds); err == nil {
			klog.InfoS("Seeded store", "accounts", len(seeds))
			return s
		}
	}
	klog.ErrorS(err, "Cannot seed store, starting empty")
	return store.New()
}

// matchDecoy moves the decoy hash to the parameters most stored hashes were
// created with, so a missing user costs as much as a wrong password even
// after the hashing parameters are changed.
func matchDecoy(h *crypto.PasswordHasher, s *store.Store) error {
	snap := s.Snapshot()
	counts := make(map[crypto.Argon2Params]int)
	count := func(hash string) {
		if p, err := crypto.ParamsOf(hash); err == nil {
			counts[p]++
		}
	}
	for _, t := range snap.Teachers {
		count(t.Credentials.PasswordHash)
	}
	for _, st := range snap.Students {
		count(st.Credentials.PasswordHash)
	}

	best, n := h.Params(), counts[h.Params()]
	for p, c := range counts {
		if c > n {
			best, n = p, c
		}
	}
	if best == h.Params() {
		return nil
	}
	klog.InfoS("Stored hashes use other argon2 parameters, matching decoy",
		"memoryKiB", best.MemoryKiB, "time", best.Time, "threads", best.Threads)
	return h.UseDecoyParams(best)
}

// BootstrapSeeds collects seed accounts from lookup and, when configured,
// from the YAML seed file.
func BootstrapSeeds(cfg Config, lookup store.LookupFunc) ([]domain.Seed, error) {
	seeds, err := store.SeedsFromEnv(lookup)
	if err != nil {
		return nil, err
	}
	if cfg.SeedFile == "" {
		return seeds, nil
	}
	f, err := os.Open(cfg.SeedFile)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()
	fromFile, err := store.SeedsFromYAML(f)
	if err != nil {
		return nil, err
	}
	return append(seeds, fromFile...), nil
}

// Save writes the store file.
func (a *App) Save() error {
	if err := a.Files.Save(a.Store); err != nil {
		klog.ErrorS(err, "Saving store failed", "path", a.Files.Path())
		return err
	}
	klog.InfoS("Saved store", "path", a.Files.Path())
	return nil
}

// Shutdown saves the store once; later calls return the first result.
func (a *App) Shutdown() error {
	a.shutdown.Do(func() { a.shutdownErr = a.Save() })
	return a.shutdownErr
}
