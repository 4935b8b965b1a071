package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

const phcPrefix = "$argon2id$"

// Upper bounds accepted when parsing a stored hash. A hash string carrying
// larger parameters is rejected instead of being run.
const (
	maxMemoryKiB = 1 << 21 // 2 GiB
	maxTime      = 64
	maxKeyLen    = 128
	minSaltLen   = 8
)

// ErrInvalidHash is returned when a stored hash cannot be parsed.
var ErrInvalidHash = errors.New("invalid argon2id hash")

// Argon2Params tune the argon2id password hash.
type Argon2Params struct {
	MemoryKiB uint32
	Time      uint32
	Threads   uint8
	SaltLen   int
	KeyLen    uint32
}

// DefaultArgon2Params returns the production hashing parameters.
func DefaultArgon2Params() Argon2Params {
	return Argon2Params{
		MemoryKiB: 64 * 1024,
		Time:      3,
		Threads:   2,
		SaltLen:   SaltBytes,
		KeyLen:    KeyBytes,
	}
}

// Validate checks that p can be used to hash.
func (p Argon2Params) Validate() error {
	switch {
	case p.MemoryKiB < 8*uint32(p.Threads) || p.MemoryKiB > maxMemoryKiB:
		return fmt.Errorf("argon2 memory %d KiB out of range", p.MemoryKiB)
	case p.Time == 0 || p.Time > maxTime:
		return fmt.Errorf("argon2 time %d out of range", p.Time)
	case p.Threads == 0:
		return errors.New("argon2 threads must be positive")
	case p.SaltLen < minSaltLen:
		return fmt.Errorf("argon2 salt length %d too short", p.SaltLen)
	case p.KeyLen < 16 || p.KeyLen > maxKeyLen:
		return fmt.Errorf("argon2 key length %d out of range", p.KeyLen)
	}
	return nil
}

// PasswordHasher produces and checks PHC-formatted argon2id hashes:
//
//	$argon2id$v=19$m=65536,t=3,p=2$<salt>$<hash>
//
// Salt and hash use unpadded standard base64.
type PasswordHasher struct {
	params Argon2Params
	decoy  string
}

// NewPasswordHasher validates params and precomputes the decoy hash.
func NewPasswordHasher(params Argon2Params) (*PasswordHasher, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	h := &PasswordHasher{params: params}
	if err := h.UseDecoyParams(params); err != nil {
		return nil, err
	}
	return h, nil
}

// Params returns the parameters used for new hashes.
func (h *PasswordHasher) Params() Argon2Params { return h.params }

// UseDecoyParams regenerates the decoy with params. Stored hashes keep the
// parameters they were created with, so the decoy must follow the store
// rather than the parameters used for new hashes. Not safe to call while
// the hasher is in use.
func (h *PasswordHasher) UseDecoyParams(params Argon2Params) error {
	if err := params.Validate(); err != nil {
		return err
	}
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return err
	}
	defer Wipe(secret)
	decoy, err := hashWith(params, secret)
	if err != nil {
		return err
	}
	h.decoy = decoy
	return nil
}

// Hash returns a fresh salted hash of password.
func (h *PasswordHasher) Hash(password string) (string, error) {
	return hashWith(h.params, []byte(password))
}

// Verify reports whether password matches hash. Malformed hashes never match.
func (h *PasswordHasher) Verify(password, hash string) bool {
	p, salt, want, err := parsePHC(hash)
	if err != nil {
		return false
	}
	got := argon2.IDKey([]byte(password), salt, p.Time, p.MemoryKiB, p.Threads, p.KeyLen)
	defer Wipe(got)
	return subtle.ConstantTimeCompare(got, want) == 1
}

// Decoy returns a valid hash whose password is unknown. Verifying against it
// costs the same as verifying an account hashed with the decoy's parameters.
func (h *PasswordHasher) Decoy() string { return h.decoy }

// ParamsOf returns the parameters encoded in a stored hash.
func ParamsOf(hash string) (Argon2Params, error) {
	p, _, _, err := parsePHC(hash)
	return p, err
}

func hashWith(p Argon2Params, password []byte) (string, error) {
	salt := make([]byte, p.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	key := argon2.IDKey(password, salt, p.Time, p.MemoryKiB, p.Threads, p.KeyLen)
	defer Wipe(key)
	return fmt.Sprintf(
		"%sv=%d$m=%d,t=%d,p=%d$%s$%s",
		phcPrefix, argon2.Version,
		p.MemoryKiB, p.Time, p.Threads,
		B64(salt), B64(key),
	), nil
}

func parsePHC(s string) (p Argon2Params, salt, key []byte, err error) {
	if !strings.HasPrefix(s, phcPrefix) {
		return p, nil, nil, ErrInvalidHash
	}
	parts := strings.Split(strings.TrimPrefix(s, phcPrefix), "$")
	if len(parts) != 4 {
		return p, nil, nil, ErrInvalidHash
	}

	version, ok := phcField(parts[0], "v", 32)
	if !ok || version != argon2.Version {
		return p, nil, nil, ErrInvalidHash
	}
	fields := strings.Split(parts[1], ",")
	if len(fields) != 3 {
		return p, nil, nil, ErrInvalidHash
	}
	m, okM := phcField(fields[0], "m", 32)
	t, okT := phcField(fields[1], "t", 32)
	th, okP := phcField(fields[2], "p", 8)
	if !okM || !okT || !okP {
		return p, nil, nil, ErrInvalidHash
	}
	p.MemoryKiB, p.Time, p.Threads = uint32(m), uint32(t), uint8(th)

	if salt, err = UnB64(parts[2]); err != nil {
		return p, nil, nil, ErrInvalidHash
	}
	if key, err = UnB64(parts[3]); err != nil {
		return p, nil, nil, ErrInvalidHash
	}
	p.SaltLen = len(salt)
	p.KeyLen = uint32(len(key))
	if p.Validate() != nil {
		return p, nil, nil, ErrInvalidHash
	}
	return p, salt, key, nil
}

// phcField parses "<name>=<decimal>" with nothing before or after and no
// leading zeros.
func phcField(s, name string, bits int) (uint64, bool) {
	v, found := strings.CutPrefix(s, name+"=")
	if !found || v == "" || (len(v) > 1 && v[0] == '0') {
		return 0, false
	}
	n, err := strconv.ParseUint(v, 10, bits)
	return n, err == nil
}
