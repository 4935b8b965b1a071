package store

import (
	"errors"
	"fmt"

	"king/internal/crypto"
)

const (
	envelopeMagic = "KING"
	// The current supported version of the sealed blob format stored on disk.
	envelopeVersion = 1
	headerLen       = len(envelopeMagic) + 2
)

var (
	// ErrSealFailed is returned when the store cannot be encrypted.
	ErrSealFailed = errors.New("seal store")
	// ErrOpenFailed is returned when a sealed blob is malformed, truncated,
	// tampered with, or was sealed under a different key or nonce.
	ErrOpenFailed = errors.New("open store")
)

// Seal encrypts plaintext under key and nonce and prefixes the envelope
// header:
//
//	"KING" | version (1 byte) | cipher id (1 byte) | ciphertext+tag
//
// The header is authenticated as associated data where the cipher allows it.
func Seal(plaintext, key, nonce []byte, c crypto.Cipher) ([]byte, error) {
	if !c.Known() {
		return nil, fmt.Errorf("%w: unsupported %s", ErrSealFailed, c)
	}
	hdr := header(c)
	ct, err := crypto.Seal(c, key, nonce, plaintext, hdr)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSealFailed, err)
	}
	return append(hdr, ct...), nil
}

// Open checks the envelope header and authenticates and decrypts the payload.
func Open(blob, key, nonce []byte) ([]byte, error) {
	if err := crypto.CheckKeyNonce(key, nonce); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpenFailed, err)
	}
	if len(blob) < headerLen {
		return nil, fmt.Errorf("%w: truncated header", ErrOpenFailed)
	}
	if string(blob[:len(envelopeMagic)]) != envelopeMagic {
		return nil, fmt.Errorf("%w: not a store file", ErrOpenFailed)
	}
	if v := blob[len(envelopeMagic)]; v != envelopeVersion {
		return nil, fmt.Errorf("%w: unsupported format version %d", ErrOpenFailed, v)
	}
	c := crypto.Cipher(blob[len(envelopeMagic)+1])
	if !c.Known() {
		return nil, fmt.Errorf("%w: unsupported %s", ErrOpenFailed, c)
	}
	pt, err := crypto.Open(c, key, nonce, blob[headerLen:], blob[:headerLen])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpenFailed, err)
	}
	return pt, nil
}

func header(c crypto.Cipher) []byte {
	h := make([]byte, 0, headerLen)
	h = append(h, envelopeMagic...)
	return append(h, envelopeVersion, byte(c))
}
