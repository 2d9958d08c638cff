package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash returns the hex SHA-256 digest of the payload. Used for
// content-addressed object keys.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
