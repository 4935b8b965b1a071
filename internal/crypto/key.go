package crypto

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

const (
	KeyBytes   = chacha20poly1305.KeySize    // 32
	NonceBytes = chacha20poly1305.NonceSizeX // 24
	SaltBytes  = 16
)

var (
	// ErrKeySize is returned for a key that is not exactly KeyBytes long.
	ErrKeySize = fmt.Errorf("encryption key must be exactly %d bytes", KeyBytes)
	// ErrNonceSize is returned for a nonce that is not exactly NonceBytes long.
	ErrNonceSize = fmt.Errorf("nonce must be exactly %d bytes", NonceBytes)
	// ErrDecrypt is returned when a ciphertext fails authentication.
	ErrDecrypt = errors.New("message authentication failed")
)

// CheckKeyNonce rejects a key or nonce of the wrong length. Inputs are never
// truncated or padded.
func CheckKeyNonce(key, nonce []byte) error {
	if len(key) != KeyBytes {
		return fmt.Errorf("%w: got %d", ErrKeySize, len(key))
	}
	if len(nonce) != NonceBytes {
		return fmt.Errorf("%w: got %d", ErrNonceSize, len(nonce))
	}
	return nil
}
