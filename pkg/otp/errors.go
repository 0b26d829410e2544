package otp

import "errors"

// Errors returned by the derivation pipeline.
var (
	// ErrInvalidSecret indicates an empty or malformed shared secret.
	ErrInvalidSecret = errors.New("otp: invalid secret")
	// ErrInvalidPeriod indicates a non-positive time step.
	ErrInvalidPeriod = errors.New("otp: invalid period")
	// ErrInvalidTime indicates a timestamp before the Unix epoch.
	ErrInvalidTime = errors.New("otp: invalid time")
	// ErrInvalidDigits indicates a digit count outside [MinDigits, MaxDigits].
	ErrInvalidDigits = errors.New("otp: invalid digits")
	// ErrInvalidEncoding indicates malformed Base32 input.
	ErrInvalidEncoding = errors.New("otp: invalid base32 encoding")
	// ErrInvalidLabel indicates an empty account label for a provisioning URI.
	ErrInvalidLabel = errors.New("otp: invalid account label")
	// ErrInvalidAlgorithm indicates an unsupported hash algorithm.
	ErrInvalidAlgorithm = errors.New("otp: invalid algorithm")
	// ErrTruncationOutOfRange indicates dynamic truncation would read past
	// the end of the digest. Unreachable for supported algorithms.
	ErrTruncationOutOfRange = errors.New("otp: truncation offset out of range")
	// ErrInvalidURI indicates a provisioning URI that cannot be imported.
	ErrInvalidURI = errors.New("otp: invalid provisioning uri")
)

// Errors returned by the Authenticator.
var (
	// ErrInvalidCode indicates the provided OTP code is invalid.
	ErrInvalidCode = errors.New("otp: invalid code")
	// ErrInvalidConfig indicates the configuration is invalid.
	ErrInvalidConfig = errors.New("otp: invalid configuration")
	// ErrNilAuthenticator indicates a nil authenticator was used.
	ErrNilAuthenticator = errors.New("otp: authenticator is nil")
)
