// Package crypto contains the extended Vigenère cipher and key-derived seeding
package crypto

import (
	"fmt"
	"unicode/utf8"
)

type ExtendedVigenere struct {
	key []byte
}

func NewExtendedVigenere(key string) *ExtendedVigenere {
	return &ExtendedVigenere{
		key: []byte(key),
	}
}

func (ev *ExtendedVigenere) Encrypt(plaintext []byte) []byte {
	return ev.EncryptAt(plaintext, 0)
}

func (ev *ExtendedVigenere) Decrypt(ciphertext []byte) []byte {
	return ev.DecryptAt(ciphertext, 0)
}

// EncryptAt encrypts a chunk whose first byte sits at absolute stream
// offset, keeping keystream phase stable across chunk boundaries.
func (ev *ExtendedVigenere) EncryptAt(plaintext []byte, offset int) []byte {
	if len(ev.key) == 0 {
		return plaintext
	}

	ciphertext := make([]byte, len(plaintext))
	keyLen := len(ev.key)

	for i, char := range plaintext {
		keyChar := ev.key[(offset+i)%keyLen]
		// Extended Vigenère: (P + K) mod 256
		ciphertext[i] = byte((int(char) + int(keyChar)) % 256)
	}

	return ciphertext
}

// DecryptAt is the inverse of EncryptAt for the same absolute offset.
func (ev *ExtendedVigenere) DecryptAt(ciphertext []byte, offset int) []byte {
	if len(ev.key) == 0 {
		return ciphertext
	}

	plaintext := make([]byte, len(ciphertext))
	keyLen := len(ev.key)

	for i, char := range ciphertext {
		keyChar := ev.key[(offset+i)%keyLen]
		// Extended Vigenère: (C - K + 256) mod 256
		plaintext[i] = byte((int(char) - int(keyChar) + 256) % 256)
	}

	return plaintext
}

// ValidateKey validates if the key is suitable for Extended Vigenère.
// Any valid UTF-8 string is accepted, with no length bound; an empty key
// is allowed and makes the cipher the identity transform.
func ValidateKey(key string) error {
	if !utf8.ValidString(key) {
		return fmt.Errorf("key must be a valid UTF-8 string")
	}
	return nil
}
