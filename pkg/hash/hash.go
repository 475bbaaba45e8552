package hash

import (
	"crypto/sha256"
	"encoding/hex"
)

// SHA256Hex returns the hex-encoded SHA256 hash of the input string.
func SHA256Hex(input string) string {
	h := sha256.Sum256([]byte(input))
	return hex.EncodeToString(h[:])
}

// TokenFingerprint returns a short, irreversible prefix of SHA256(token) so
// that credential rotation can be logged and compared without ever writing
// an OAuth token to the logs.
func TokenFingerprint(token string) string {
	if token == "" {
		return ""
	}
	return SHA256Hex(token)[:12]
}
