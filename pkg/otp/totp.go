package otp

import (
	"crypto/subtle"
	"math"
)

// DefaultPeriod is the RFC 6238 time step in seconds.
const DefaultPeriod = 30

// DefaultDigits is the default code length.
const DefaultDigits = 6

// Generate returns the TOTP code for the Unix time now.
func Generate(secret []byte, now, period int64, alg Algorithm, digits int) (string, error) {
	counter, err := DeriveCounter(now, period)
	if err != nil {
		return "", err
	}
	return HOTP(secret, counter, alg, digits)
}

// Validate reports whether candidate matches the code of any counter in
// [c-window, c+window], where c is the counter for now. Every counter in
// the window is computed and compared in constant time before returning.
func Validate(secret []byte, candidate string, now, period int64, alg Algorithm, digits int, window uint) (bool, error) {
	counter, err := DeriveCounter(now, period)
	if err != nil {
		return false, err
	}
	return validateWindow(secret, candidate, counter, alg, digits, uint64(window))
}

func validateWindow(secret []byte, candidate string, counter uint64, alg Algorithm, digits int, window uint64) (bool, error) {
	// Surface parameter errors even when the whole window is clipped.
	expected, err := HOTP(secret, counter, alg, digits)
	if err != nil {
		return false, err
	}
	want := []byte(candidate)
	match := subtle.ConstantTimeCompare([]byte(expected), want)

	lo := uint64(0)
	if counter > window {
		lo = counter - window
	}
	hi := uint64(math.MaxUint64)
	if counter < math.MaxUint64-window {
		hi = counter + window
	}

	for c := lo; ; c++ {
		if c != counter {
			code, err := HOTP(secret, c, alg, digits)
			if err != nil {
				return false, err
			}
			match |= subtle.ConstantTimeCompare([]byte(code), want)
		}
		if c == hi {
			break
		}
	}
	return match == 1, nil
}
