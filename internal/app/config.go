package app

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"king/internal/crypto"
	"king/internal/services/grades"
)

// DefaultEnvFile is loaded when present; a missing default file is ignored.
const DefaultEnvFile = ".env"

// Config holds runtime options, read from the environment.
type Config struct {
	Secret string `env:"SECRET,unset"` // 32-byte store key
	Nonce  string `env:"NONCE,unset"`  // 24-byte store nonce

	DatabaseFile string `env:"DATABASE_FILE" envDefault:"db.json"`
	SeedFile     string `env:"KING_SEED_FILE"` // optional YAML bootstrap accounts
	Cipher       string `env:"KING_CIPHER" envDefault:"xchacha20poly1305"`

	GradeMin float64 `env:"KING_GRADE_MIN" envDefault:"0"`
	GradeMax float64 `env:"KING_GRADE_MAX" envDefault:"6"`

	Argon2MemoryKiB uint32 `env:"KING_ARGON2_MEMORY_KIB" envDefault:"65536"`
	Argon2Time      uint32 `env:"KING_ARGON2_TIME" envDefault:"3"`
	Argon2Threads   uint8  `env:"KING_ARGON2_THREADS" envDefault:"2"`
}

// LoadDotEnv loads variables from path without overriding ones already set.
// A missing file is an error only when mustExist is true.
func LoadDotEnv(path string, mustExist bool) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) && !mustExist {
			return nil
		}
		return fmt.Errorf("env file %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// ParseConfig reads Config from environ, or from the process environment
// when environ is nil. It does not validate.
func ParseConfig(environ map[string]string) (Config, error) {
	var cfg Config
	opts := env.Options{}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate rejects configurations the app must not start with.
func (c Config) Validate() error {
	if c.Secret == "" {
		return errors.New("SECRET is not set")
	}
	if c.Nonce == "" {
		return errors.New("NONCE is not set")
	}
	if err := crypto.CheckKeyNonce([]byte(c.Secret), []byte(c.Nonce)); err != nil {
		return err
	}
	if c.DatabaseFile == "" {
		return errors.New("DATABASE_FILE is empty")
	}
	if _, err := crypto.ParseCipher(c.Cipher); err != nil {
		return err
	}
	if err := c.Bounds().Validate(); err != nil {
		return err
	}
	return c.Argon2Params().Validate()
}

// Key returns the store encryption key.
func (c Config) Key() []byte { return []byte(c.Secret) }

// NonceBytes returns the store nonce.
func (c Config) NonceBytes() []byte { return []byte(c.Nonce) }

// CipherID returns the configured cipher; call Validate first.
func (c Config) CipherID() crypto.Cipher {
	ci, _ := crypto.ParseCipher(c.Cipher)
	return ci
}

// Bounds returns the accepted grade range.
func (c Config) Bounds() grades.Bounds {
	return grades.Bounds{Min: c.GradeMin, Max: c.GradeMax}
}

// Argon2Params returns the password hashing parameters.
func (c Config) Argon2Params() crypto.Argon2Params {
	p := crypto.DefaultArgon2Params()
	p.MemoryKiB = c.Argon2MemoryKiB
	p.Time = c.Argon2Time
	p.Threads = c.Argon2Threads
	return p
}
