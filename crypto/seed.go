package crypto

import (
	"crypto/sha256"
	"encoding/binary"
	"math/rand"
)

// KeyToSeed hashes the key and takes the first 4 bytes of the digest as a
// big-endian unsigned integer. The seed drives start-offset selection only,
// never the cipher keystream.
func KeyToSeed(key string) uint32 {
	hash := sha256.Sum256([]byte(key))
	return binary.BigEndian.Uint32(hash[:4])
}

// NewKeyedRand returns a locally scoped generator seeded from the key.
// Callers must not share one generator across operations.
func NewKeyedRand(key string) *rand.Rand {
	return rand.New(rand.NewSource(int64(KeyToSeed(key))))
}
