package crypto

import "encoding/base64"

// B64 returns unpadded standard base64, as used inside PHC hash strings.
func B64(b []byte) string { return base64.RawStdEncoding.EncodeToString(b) }

// UnB64 decodes the output of B64, rejecting non-canonical input.
func UnB64(s string) ([]byte, error) { return base64.RawStdEncoding.Strict().DecodeString(s) }
