// Package crypto exposes the primitives used by king.
//
// Contents
//
//   - argon2id password hashing in PHC string form, with a precomputed decoy
//     hash for equal-cost verification of unknown users (PasswordHasher)
//   - Authenticated symmetric encryption with a 32-byte key and a 24-byte
//     nonce: XChaCha20-Poly1305 and NaCl secretbox (Seal, Open)
//   - Best-effort memory wiping for sensitive byte slices (Wipe)
//
// # Notes
//
// Key and nonce lengths are checked on every call. A wrong length is a
// configuration error (ErrKeySize, ErrNonceSize) and is never truncated.
package crypto
