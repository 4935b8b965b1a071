package crypto

import "runtime"

// Wipe zeroes b. Used on copies of the store key, decrypted store documents
// and derived password keys once they are no longer needed.
//
//go:noinline
func Wipe(b []byte) {
	clear(b)
	runtime.KeepAlive(b)
}
