package crypto

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/nacl/secretbox"
)

// Cipher names an authenticated encryption scheme with a 32-byte key and a
// 24-byte nonce.
type Cipher uint8

const (
	// XChaCha20Poly1305 is the IETF AEAD with extended nonce. Supports
	// associated data.
	XChaCha20Poly1305 Cipher = 1
	// Secretbox is NaCl XSalsa20-Poly1305. Associated data is ignored.
	Secretbox Cipher = 2
)

// String returns the configuration name of c.
func (c Cipher) String() string {
	switch c {
	case XChaCha20Poly1305:
		return "xchacha20poly1305"
	case Secretbox:
		return "secretbox"
	default:
		return fmt.Sprintf("cipher(%d)", uint8(c))
	}
}

// Known reports whether c is a supported cipher.
func (c Cipher) Known() bool { return c == XChaCha20Poly1305 || c == Secretbox }

// ParseCipher maps a configuration name to a Cipher.
func ParseCipher(s string) (Cipher, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "xchacha20poly1305", "xchacha20-poly1305":
		return XChaCha20Poly1305, nil
	case "secretbox", "xsalsa20poly1305":
		return Secretbox, nil
	}
	return 0, fmt.Errorf("unknown cipher %q", s)
}

// Seal encrypts and authenticates plaintext.
func Seal(c Cipher, key, nonce, plaintext, ad []byte) ([]byte, error) {
	if err := CheckKeyNonce(key, nonce); err != nil {
		return nil, err
	}
	switch c {
	case XChaCha20Poly1305:
		aead, err := chacha20poly1305.NewX(key)
		if err != nil {
			return nil, err
		}
		return aead.Seal(nil, nonce, plaintext, ad), nil
	case Secretbox:
		var k [KeyBytes]byte
		var n [NonceBytes]byte
		copy(k[:], key)
		copy(n[:], nonce)
		defer Wipe(k[:])
		return secretbox.Seal(nil, plaintext, &n, &k), nil
	}
	return nil, fmt.Errorf("seal: unsupported %s", c)
}

// Open authenticates and decrypts ciphertext produced by Seal with the same
// cipher, key, nonce and associated data.
func Open(c Cipher, key, nonce, ciphertext, ad []byte) ([]byte, error) {
	if err := CheckKeyNonce(key, nonce); err != nil {
		return nil, err
	}
	switch c {
	case XChaCha20Poly1305:
		aead, err := chacha20poly1305.NewX(key)
		if err != nil {
			return nil, err
		}
		pt, err := aead.Open(nil, nonce, ciphertext, ad)
		if err != nil {
			return nil, ErrDecrypt
		}
		return pt, nil
	case Secretbox:
		var k [KeyBytes]byte
		var n [NonceBytes]byte
		copy(k[:], key)
		copy(n[:], nonce)
		defer Wipe(k[:])
		pt, ok := secretbox.Open(nil, ciphertext, &n, &k)
		if !ok {
			return nil, ErrDecrypt
		}
		return pt, nil
	}
	return nil, fmt.Errorf("open: unsupported %s", c)
}
