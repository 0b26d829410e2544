package otp

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"strings"
)

// Algorithm represents the hash algorithm used for OTP generation.
type Algorithm string

const (
	// AlgorithmSHA1 uses SHA1 hash algorithm.
	AlgorithmSHA1 Algorithm = "SHA1"
	// AlgorithmSHA256 uses SHA256 hash algorithm.
	AlgorithmSHA256 Algorithm = "SHA256"
	// AlgorithmSHA512 uses SHA512 hash algorithm.
	AlgorithmSHA512 Algorithm = "SHA512"
)

// minHashSize is the shortest digest dynamic truncation can address:
// the offset nibble reaches index 15 and four bytes are read from there.
const minHashSize = 20

// ParseAlgorithm maps a case-insensitive name to an Algorithm.
// The empty string selects SHA1.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "", "SHA1", "SHA-1":
		return AlgorithmSHA1, nil
	case "SHA256", "SHA-256":
		return AlgorithmSHA256, nil
	case "SHA512", "SHA-512":
		return AlgorithmSHA512, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidAlgorithm, name)
}

// Hash returns the constructor of the hash function backing a.
// It returns nil for unknown algorithms.
func (a Algorithm) Hash() func() hash.Hash {
	switch a {
	case AlgorithmSHA1:
		return sha1.New
	case AlgorithmSHA256:
		return sha256.New
	case AlgorithmSHA512:
		return sha512.New
	}
	return nil
}

// Size returns the digest length in bytes, or 0 for unknown algorithms.
func (a Algorithm) Size() int {
	switch a {
	case AlgorithmSHA1:
		return sha1.Size
	case AlgorithmSHA256:
		return sha256.Size
	case AlgorithmSHA512:
		return sha512.Size
	}
	return 0
}

// Valid reports whether a is a supported algorithm.
func (a Algorithm) Valid() bool {
	return a.Hash() != nil && a.Size() >= minHashSize
}

func (a Algorithm) String() string {
	return string(a)
}

func (a Algorithm) check() error {
	if !a.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidAlgorithm, string(a))
	}
	return nil
}
