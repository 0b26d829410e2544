package otp

import (
	"crypto/hmac"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

const (
	// MinDigits is the shortest supported code length.
	MinDigits = 6
	// MaxDigits is the longest supported code length.
	MaxDigits = 10
)

var pow10 = [...]uint64{
	1, 10, 100, 1000, 10000, 100000, 1000000, 10000000,
	100000000, 1000000000, 10000000000,
}

func checkDigits(digits int) error {
	if digits < MinDigits || digits > MaxDigits {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidDigits, digits, MinDigits, MaxDigits)
	}
	return nil
}

// ComputeHOTP derives an RFC 4226 code from secret and the serialized
// moving factor. The result is exactly digits characters long.
func ComputeHOTP(secret []byte, counter [8]byte, alg Algorithm, digits int) (string, error) {
	if len(secret) == 0 {
		return "", fmt.Errorf("%w: empty key", ErrInvalidSecret)
	}
	if err := checkDigits(digits); err != nil {
		return "", err
	}
	if err := alg.check(); err != nil {
		return "", err
	}

	mac := hmac.New(alg.Hash(), secret)
	mac.Write(counter[:])
	sum := mac.Sum(nil)

	code, err := truncate(sum)
	if err != nil {
		return "", err
	}

	token := uint64(code) % pow10[digits]
	return pad(token, digits), nil
}

// HOTP is ComputeHOTP with the counter given as an integer.
func HOTP(secret []byte, counter uint64, alg Algorithm, digits int) (string, error) {
	return ComputeHOTP(secret, CounterBytes(counter), alg, digits)
}

// truncate performs RFC 4226 dynamic truncation, returning a 31-bit value.
func truncate(sum []byte) (uint32, error) {
	if len(sum) == 0 {
		return 0, ErrTruncationOutOfRange
	}
	offset := int(sum[len(sum)-1] & 0x0f)
	if offset+4 > len(sum) {
		return 0, fmt.Errorf("%w: offset %d, digest length %d", ErrTruncationOutOfRange, offset, len(sum))
	}
	return binary.BigEndian.Uint32(sum[offset:offset+4]) & 0x7fffffff, nil
}

func pad(token uint64, digits int) string {
	s := strconv.FormatUint(token, 10)
	if len(s) >= digits {
		return s
	}
	return strings.Repeat("0", digits-len(s)) + s
}
