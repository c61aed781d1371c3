package server

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashPassword hashes a password for storage and comparison.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
