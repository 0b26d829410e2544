// Package keystore keeps an OTP shared secret encrypted at rest.
//
// A sealed key is a small binary blob:
//
//	magic (6) | salt (16) | nonce (24) | XChaCha20-Poly1305 ciphertext
//
// The AEAD key is derived from a passphrase with Argon2id. The magic header
// is authenticated as additional data, so a blob cannot be replayed under
// a different format version.
package keystore

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

// MinHexKeyLength is the minimum number of hexadecimal characters accepted
// by ParseHexKey.
const MinHexKeyLength = 64

// DefaultFile is the conventional name of a sealed key file.
const DefaultFile = "ft_otp.key"

const (
	saltSize = 16
	keySize  = chacha20poly1305.KeySize

	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
)

var magic = []byte("FTOTP\x01")

var (
	// ErrKeyTooShort indicates a hex key below MinHexKeyLength characters.
	ErrKeyTooShort = errors.New("keystore: key must be at least 64 hexadecimal characters")
	// ErrKeyNotHex indicates a key containing non-hexadecimal characters.
	ErrKeyNotHex = errors.New("keystore: key is not valid hexadecimal")
	// ErrEmptyPassphrase indicates a missing passphrase.
	ErrEmptyPassphrase = errors.New("keystore: passphrase must not be empty")
	// ErrEmptySecret indicates there is nothing to seal.
	ErrEmptySecret = errors.New("keystore: secret must not be empty")
	// ErrCorrupt indicates a blob that is not a sealed key.
	ErrCorrupt = errors.New("keystore: corrupt key file")
	// ErrDecrypt indicates a wrong passphrase or a tampered blob.
	ErrDecrypt = errors.New("keystore: unable to decrypt key, wrong passphrase?")
)

// ParseHexKey decodes a hexadecimal key of at least MinHexKeyLength
// characters. Surrounding whitespace is ignored.
func ParseHexKey(text string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if len(text) < MinHexKeyLength {
		return nil, fmt.Errorf("%w: got %d", ErrKeyTooShort, len(text))
	}
	key, err := hex.DecodeString(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyNotHex, err)
	}
	return key, nil
}

// Seal encrypts secret under passphrase.
func Seal(secret, passphrase []byte) ([]byte, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	if len(passphrase) == 0 {
		return nil, ErrEmptyPassphrase
	}

	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("keystore: generate salt: %w", err)
	}
	aead, err := chacha20poly1305.NewX(deriveKey(passphrase, salt))
	if err != nil {
		return nil, fmt.Errorf("keystore: init cipher: %w", err)
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("keystore: generate nonce: %w", err)
	}

	out := make([]byte, 0, len(magic)+saltSize+len(nonce)+len(secret)+aead.Overhead())
	out = append(out, magic...)
	out = append(out, salt...)
	out = append(out, nonce...)
	return aead.Seal(out, nonce, secret, magic), nil
}

// Open decrypts a blob produced by Seal.
func Open(blob, passphrase []byte) ([]byte, error) {
	if len(passphrase) == 0 {
		return nil, ErrEmptyPassphrase
	}
	header := len(magic) + saltSize + chacha20poly1305.NonceSizeX
	if len(blob) < header+chacha20poly1305.Overhead || string(blob[:len(magic)]) != string(magic) {
		return nil, ErrCorrupt
	}

	salt := blob[len(magic) : len(magic)+saltSize]
	nonce := blob[len(magic)+saltSize : header]

	aead, err := chacha20poly1305.NewX(deriveKey(passphrase, salt))
	if err != nil {
		return nil, fmt.Errorf("keystore: init cipher: %w", err)
	}
	secret, err := aead.Open(nil, nonce, blob[header:], magic)
	if err != nil {
		return nil, ErrDecrypt
	}
	return secret, nil
}

// SaveFile seals secret and writes it to path with owner-only permissions.
func SaveFile(path string, secret, passphrase []byte) error {
	blob, err := Seal(secret, passphrase)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, blob, 0o600); err != nil {
		return fmt.Errorf("keystore: write %s: %w", path, err)
	}
	return nil
}

// LoadFile reads and opens a sealed key file.
func LoadFile(path string, passphrase []byte) ([]byte, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("keystore: read %s: %w", path, err)
	}
	return Open(blob, passphrase)
}

func deriveKey(passphrase, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, argonTime, argonMemory, argonThreads, keySize)
}
