package store

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"king/internal/crypto"
)

var (
	// ErrLoadFailed wraps every failure of the read, open and decode chain.
	ErrLoadFailed = errors.New("load store")
	// ErrNoStoreFile is joined into ErrLoadFailed when the file does not exist.
	ErrNoStoreFile = errors.New("store file does not exist")
)

// FileStore reads and writes the sealed store file.
type FileStore struct {
	path   string
	key    []byte
	nonce  []byte
	cipher crypto.Cipher

	mu sync.Mutex
	// unreadable is set when an existing file failed to load; the next
	// successful Save moves it aside instead of overwriting it.
	unreadable bool
}

// NewFileStore returns a FileStore for path. key and nonce must be exactly
// 32 and 24 bytes; they are copied.
func NewFileStore(path string, key, nonce []byte, c crypto.Cipher) (*FileStore, error) {
	if err := crypto.CheckKeyNonce(key, nonce); err != nil {
		return nil, err
	}
	if !c.Known() {
		return nil, fmt.Errorf("unsupported %s", c)
	}
	return &FileStore{
		path:   path,
		key:    append([]byte(nil), key...),
		nonce:  append([]byte(nil), nonce...),
		cipher: c,
	}, nil
}

// Path returns the file location.
func (f *FileStore) Path() string { return f.path }

// Load reads, opens and decodes the store file. Any failure is returned as
// a single ErrLoadFailed and no partial store is produced.
func (f *FileStore) Load() (*Store, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	blob, exists, err := readFile(f.path)
	if !exists {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, ErrNoStoreFile)
	}
	if err != nil {
		f.unreadable = true
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	pt, err := Open(blob, f.key, f.nonce)
	if err != nil {
		f.unreadable = true
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	defer crypto.Wipe(pt)
	s, err := Decode(pt)
	if err != nil {
		f.unreadable = true
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	f.unreadable = false
	return s, nil
}

// Save encodes and seals s, then atomically replaces the file. Role maps are
// locked only while being copied; no lock of s is held during I/O.
func (f *FileStore) Save(s *Store) error {
	raw, err := Encode(s)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSealFailed, err)
	}
	defer crypto.Wipe(raw)
	blob, err := Seal(raw, f.key, f.nonce, f.cipher)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.unreadable {
		aside := fmt.Sprintf("%s.unreadable-%d", f.path, time.Now().Unix())
		if err := os.Rename(f.path, aside); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("preserve unreadable store: %w", err)
		}
		f.unreadable = false
	}
	if err := writeFile(f.path, blob, 0o600); err != nil {
		return fmt.Errorf("write store: %w", err)
	}
	return nil
}

// Unreadable reports whether the last Load found a file it could not use.
func (f *FileStore) Unreadable() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.unreadable
}
