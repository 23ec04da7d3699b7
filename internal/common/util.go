package common

import (
	"crypto/rand"
)

// GenerateRandByteArray returns a slice of n cryptographically random bytes.
// crypto/rand.Read never fails on supported platforms; a failure here is
// unrecoverable and panics.
func GenerateRandByteArray(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return b
}

// WipeByteArray overwrites the contents of the provided byte slice with zeros.
// This is useful for removing sensitive data such as passwords or derived
// keys from memory after use.
//
// If the slice is nil, the function does nothing.
func WipeByteArray(b []byte) {
	if b == nil {
		return
	}
	for i := range b {
		b[i] = 0
	}
}
