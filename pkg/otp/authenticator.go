package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"
	"time"
)

// Type represents the OTP algorithm type.
type Type string

const (
	// TypeTOTP represents Time-based OTP (RFC 6238).
	TypeTOTP Type = "totp"
	// TypeHOTP represents Counter-based OTP (RFC 4226).
	TypeHOTP Type = "hotp"
)

// DefaultSecretSize is the RFC 4226 recommended key length in bytes.
const DefaultSecretSize = 20

// Observer receives a notification after each generation and validation.
// Implementations must be safe for concurrent use. Secrets and codes are
// never passed to an Observer.
type Observer interface {
	Generated(alg Algorithm)
	Validated(alg Algorithm, ok bool)
}

// Config holds OTP authenticator configuration.
type Config struct {
	// Type specifies the OTP type (TOTP or HOTP).
	// Default: TOTP
	Type Type
	// Secret is the raw shared secret key (required).
	Secret []byte
	// Issuer is the name of the issuing organization (e.g., "MyApp").
	Issuer string
	// AccountName is the account identifier (e.g., "user@example.com").
	AccountName string
	// Digits specifies the number of digits in the OTP code (6 to 10).
	// Default: 6
	Digits uint
	// Period specifies the time step in seconds for TOTP.
	// Default: 30
	Period uint
	// Counter specifies the initial counter value for HOTP.
	// Default: 0
	Counter uint64
	// Algorithm specifies the hash algorithm to use.
	// Default: SHA1
	Algorithm Algorithm
	// Skew specifies the number of time periods to check before and after
	// the current time for TOTP validation (tolerance for clock skew).
	// Default: 0
	Skew uint
	// Clock returns the current time. Default: time.Now
	Clock func() time.Time
	// Observer is notified of generations and validations. Optional.
	Observer Observer
}

// validate checks that the configuration is valid.
func (c Config) validate() error {
	if c.Type != "" && c.Type != TypeTOTP && c.Type != TypeHOTP {
		return fmt.Errorf("%w: type must be 'totp' or 'hotp'", ErrInvalidConfig)
	}

	if len(c.Secret) == 0 {
		return fmt.Errorf("%w: %w: secret must not be empty", ErrInvalidConfig, ErrInvalidSecret)
	}

	if c.Digits != 0 && (c.Digits < MinDigits || c.Digits > MaxDigits) {
		return fmt.Errorf("%w: %w: digits must be between %d and %d", ErrInvalidConfig, ErrInvalidDigits, MinDigits, MaxDigits)
	}

	if c.Algorithm != "" && !c.Algorithm.Valid() {
		return fmt.Errorf("%w: %w: algorithm must be SHA1, SHA256, or SHA512", ErrInvalidConfig, ErrInvalidAlgorithm)
	}

	if c.Period > 1<<31 {
		return fmt.Errorf("%w: %w: period %d is too large", ErrInvalidConfig, ErrInvalidPeriod, c.Period)
	}

	return nil
}

// Authenticator generates and validates OTP codes for one secret.
// It is safe for concurrent use.
type Authenticator struct {
	cfg Config
}

// NewAuthenticator creates a new OTP authenticator.
// The configuration is validated and an error is returned if invalid.
func NewAuthenticator(cfg Config) (*Authenticator, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// Apply defaults
	if cfg.Type == "" {
		cfg.Type = TypeTOTP
	}
	if cfg.Digits == 0 {
		cfg.Digits = DefaultDigits
	}
	if cfg.Period == 0 {
		cfg.Period = DefaultPeriod
	}
	if cfg.Algorithm == "" {
		cfg.Algorithm = AlgorithmSHA1
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}

	// The secret is owned by the authenticator from here on.
	cfg.Secret = append([]byte(nil), cfg.Secret...)

	return &Authenticator{cfg: cfg}, nil
}

// Authenticate validates an OTP code.
// For TOTP, it validates against the current time with skew tolerance.
// For HOTP, it validates against the configured counter value.
func (a *Authenticator) Authenticate(ctx context.Context, code string) error {
	if a == nil {
		return ErrNilAuthenticator
	}

	if ctx == nil {
		ctx = context.Background()
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if strings.TrimSpace(code) == "" {
		return fmt.Errorf("%w: code must not be empty", ErrInvalidCode)
	}

	var (
		valid bool
		err   error
	)
	if a.cfg.Type == TypeTOTP {
		valid, err = Validate(a.cfg.Secret, code, a.cfg.Clock().Unix(), int64(a.cfg.Period),
			a.cfg.Algorithm, int(a.cfg.Digits), a.cfg.Skew)
	} else {
		valid, err = validateWindow(a.cfg.Secret, code, a.cfg.Counter, a.cfg.Algorithm, int(a.cfg.Digits), 0)
	}
	if err != nil {
		return fmt.Errorf("%w: validation failed: %w", ErrInvalidCode, err)
	}

	a.validated(valid)
	if !valid {
		return ErrInvalidCode
	}
	return nil
}

// ValidateCounter validates an HOTP code and returns the new counter value.
// This method is only valid for HOTP authenticators.
// The returned counter should be stored and used for the next validation.
func (a *Authenticator) ValidateCounter(ctx context.Context, code string, counter uint64) (uint64, error) {
	if a == nil {
		return 0, ErrNilAuthenticator
	}

	if ctx == nil {
		ctx = context.Background()
	}

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	if a.cfg.Type != TypeHOTP {
		return 0, fmt.Errorf("%w: ValidateCounter is only valid for HOTP", ErrInvalidConfig)
	}

	if strings.TrimSpace(code) == "" {
		return 0, fmt.Errorf("%w: code must not be empty", ErrInvalidCode)
	}

	valid, err := validateWindow(a.cfg.Secret, code, counter, a.cfg.Algorithm, int(a.cfg.Digits), 0)
	if err != nil {
		return 0, fmt.Errorf("%w: validation failed: %w", ErrInvalidCode, err)
	}
	a.validated(valid)
	if !valid {
		return 0, ErrInvalidCode
	}

	// Return incremented counter
	return counter + 1, nil
}

// Generate generates an OTP code.
// For TOTP, it generates the code for the current time.
// For HOTP, a counter value must be provided.
func (a *Authenticator) Generate(counter ...uint64) (string, error) {
	if a == nil {
		return "", ErrNilAuthenticator
	}

	if a.cfg.Type == TypeTOTP {
		return a.GenerateAt(a.cfg.Clock())
	}

	// HOTP requires counter
	if len(counter) == 0 {
		return "", fmt.Errorf("otp: counter required for HOTP generation")
	}

	code, err := HOTP(a.cfg.Secret, counter[0], a.cfg.Algorithm, int(a.cfg.Digits))
	if err != nil {
		return "", fmt.Errorf("otp: failed to generate HOTP code: %w", err)
	}
	a.generated()
	return code, nil
}

// GenerateAt generates the TOTP code for t.
func (a *Authenticator) GenerateAt(t time.Time) (string, error) {
	if a == nil {
		return "", ErrNilAuthenticator
	}

	if a.cfg.Type != TypeTOTP {
		return "", fmt.Errorf("%w: GenerateAt is only valid for TOTP", ErrInvalidConfig)
	}

	code, err := Generate(a.cfg.Secret, t.Unix(), int64(a.cfg.Period), a.cfg.Algorithm, int(a.cfg.Digits))
	if err != nil {
		return "", fmt.Errorf("otp: failed to generate TOTP code: %w", err)
	}
	a.generated()
	return code, nil
}

// Remaining returns how long the current TOTP code stays valid. It is 0
// for HOTP and for clocks before the unix epoch, where no code exists.
func (a *Authenticator) Remaining() time.Duration {
	if a == nil || a.cfg.Type != TypeTOTP {
		return 0
	}
	period := int64(a.cfg.Period)
	now := a.cfg.Clock().Unix()
	if now < 0 {
		return 0
	}
	return time.Duration(period-now%period) * time.Second
}

// Descriptor returns the provisioning parameters of a TOTP authenticator.
// The returned secret is a copy.
func (a *Authenticator) Descriptor() Descriptor {
	if a == nil {
		return Descriptor{}
	}
	return Descriptor{
		Issuer:      a.cfg.Issuer,
		AccountName: a.cfg.AccountName,
		Secret:      append([]byte(nil), a.cfg.Secret...),
		Algorithm:   a.cfg.Algorithm,
		Digits:      int(a.cfg.Digits),
		Period:      int64(a.cfg.Period),
	}
}

// GetProvisioningURI returns the otpauth:// URI for QR code generation.
// This URI can be encoded as a QR code and scanned by authenticator apps.
func (a *Authenticator) GetProvisioningURI() (string, error) {
	if a == nil {
		return "", ErrNilAuthenticator
	}

	if a.cfg.Type == TypeTOTP {
		return a.Descriptor().URI()
	}
	return BuildHOTPURI(a.cfg.Issuer, a.cfg.AccountName, a.cfg.Secret,
		a.cfg.Algorithm, int(a.cfg.Digits), a.cfg.Counter)
}

func (a *Authenticator) generated() {
	if a.cfg.Observer != nil {
		a.cfg.Observer.Generated(a.cfg.Algorithm)
	}
}

func (a *Authenticator) validated(ok bool) {
	if a.cfg.Observer != nil {
		a.cfg.Observer.Validated(a.cfg.Algorithm, ok)
	}
}

// GenerateSecret generates a cryptographically random secret key of size
// bytes. Sizes below 16 bytes are raised to DefaultSecretSize.
func GenerateSecret(size int) ([]byte, error) {
	if size < 16 {
		size = DefaultSecretSize
	}
	secret := make([]byte, size)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("otp: failed to generate random secret: %w", err)
	}
	return secret, nil
}
