package otp

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	pqotp "github.com/pquerna/otp"
)

// Descriptor holds every parameter an authenticator app needs to
// reproduce code generation. It is a view over generator configuration.
type Descriptor struct {
	Issuer      string
	AccountName string
	Secret      []byte
	Algorithm   Algorithm
	Digits      int
	Period      int64
}

// URI formats d as an otpauth:// provisioning URI.
func (d Descriptor) URI() (string, error) {
	return BuildURI(d.Issuer, d.AccountName, d.Secret, d.Algorithm, d.Digits, d.Period)
}

// String identifies the descriptor without exposing the secret.
func (d Descriptor) String() string {
	if d.Issuer == "" {
		return fmt.Sprintf("totp %s (%s, %d digits, %ds)", d.AccountName, d.Algorithm, d.Digits, d.Period)
	}
	return fmt.Sprintf("totp %s:%s (%s, %d digits, %ds)", d.Issuer, d.AccountName, d.Algorithm, d.Digits, d.Period)
}

// BuildURI returns
//
//	otpauth://totp/<issuer>:<label>?secret=<B32>&issuer=<issuer>&algorithm=<ALG>&digits=<n>&period=<s>
//
// with parameters in that order. When issuer is empty the label prefix and
// the issuer parameter are omitted.
func BuildURI(issuer, accountLabel string, secret []byte, alg Algorithm, digits int, period int64) (string, error) {
	if period <= 0 && accountLabel != "" {
		return "", fmt.Errorf("%w: %d", ErrInvalidPeriod, period)
	}
	return formatURI("totp", issuer, accountLabel, secret, alg, digits, "period", strconv.FormatInt(period, 10))
}

// BuildHOTPURI returns the otpauth://hotp form, carrying the initial
// counter in place of the period.
func BuildHOTPURI(issuer, accountLabel string, secret []byte, alg Algorithm, digits int, counter uint64) (string, error) {
	return formatURI("hotp", issuer, accountLabel, secret, alg, digits, "counter", strconv.FormatUint(counter, 10))
}

func formatURI(kind, issuer, accountLabel string, secret []byte, alg Algorithm, digits int, lastKey, lastValue string) (string, error) {
	if accountLabel == "" {
		return "", fmt.Errorf("%w: account label must not be empty", ErrInvalidLabel)
	}
	if len(secret) == 0 {
		return "", fmt.Errorf("%w: empty key", ErrInvalidSecret)
	}
	if err := alg.check(); err != nil {
		return "", err
	}
	if err := checkDigits(digits); err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("otpauth://")
	b.WriteString(kind)
	b.WriteByte('/')
	if issuer != "" {
		b.WriteString(escapeLabel(issuer))
		b.WriteByte(':')
	}
	b.WriteString(escapeLabel(accountLabel))

	b.WriteString("?secret=")
	b.WriteString(EncodeSecretNoPadding(secret))
	if issuer != "" {
		b.WriteString("&issuer=")
		b.WriteString(escapeQuery(issuer))
	}
	b.WriteString("&algorithm=")
	b.WriteString(alg.String())
	b.WriteString("&digits=")
	b.WriteString(strconv.Itoa(digits))
	b.WriteString("&")
	b.WriteString(lastKey)
	b.WriteString("=")
	b.WriteString(lastValue)
	return b.String(), nil
}

// escapeLabel escapes a path segment; ':' separates issuer from account
// and is escaped inside either part.
func escapeLabel(s string) string {
	return strings.ReplaceAll(url.PathEscape(s), ":", "%3A")
}

func escapeQuery(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// ParseURI imports an otpauth://totp provisioning URI. Missing optional
// parameters take the RFC 6238 defaults; present but malformed ones are
// rejected rather than replaced by a default.
func ParseURI(uri string) (Descriptor, error) {
	uri = strings.TrimSpace(uri)
	key, err := pqotp.NewKeyFromURL(uri)
	if err != nil {
		return Descriptor{}, fmt.Errorf("%w: %v", ErrInvalidURI, err)
	}
	if key.Type() != "totp" {
		return Descriptor{}, fmt.Errorf("%w: unsupported type %q", ErrInvalidURI, key.Type())
	}
	u, err := url.Parse(uri)
	if err != nil {
		return Descriptor{}, fmt.Errorf("%w: %v", ErrInvalidURI, err)
	}

	secret, err := DecodeSecret(key.Secret())
	if err != nil {
		return Descriptor{}, err
	}
	if len(secret) == 0 {
		return Descriptor{}, fmt.Errorf("%w: missing secret parameter", ErrInvalidSecret)
	}

	// Key.Algorithm, Key.Digits and Key.Period fall back to defaults on
	// values they do not recognize, so the query is read directly.
	q := u.Query()

	alg, err := ParseAlgorithm(q.Get("algorithm"))
	if err != nil {
		return Descriptor{}, err
	}

	digits := DefaultDigits
	if raw := q.Get("digits"); raw != "" {
		digits, err = strconv.Atoi(raw)
		if err != nil {
			return Descriptor{}, fmt.Errorf("%w: %q", ErrInvalidDigits, raw)
		}
	}
	if err := checkDigits(digits); err != nil {
		return Descriptor{}, err
	}

	period := uint64(DefaultPeriod)
	if raw := q.Get("period"); raw != "" {
		period, err = strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return Descriptor{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, raw)
		}
	}
	if period == 0 || period > uint64(1<<62) {
		return Descriptor{}, fmt.Errorf("%w: %d", ErrInvalidPeriod, period)
	}

	issuer, account, err := parseLabel(u)
	if err != nil {
		return Descriptor{}, err
	}
	if q.Has("issuer") {
		issuer = q.Get("issuer")
	}
	if account == "" {
		return Descriptor{}, fmt.Errorf("%w: account label must not be empty", ErrInvalidLabel)
	}

	return Descriptor{
		Issuer:      issuer,
		AccountName: account,
		Secret:      secret,
		Algorithm:   alg,
		Digits:      digits,
		Period:      int64(period),
	}, nil
}

// parseLabel splits the escaped path at the first literal ':' so that
// escaped colons stay inside the issuer or account they belong to.
func parseLabel(u *url.URL) (issuer, account string, err error) {
	label := strings.TrimPrefix(u.EscapedPath(), "/")
	rawIssuer, rawAccount, found := strings.Cut(label, ":")
	if !found {
		rawIssuer, rawAccount = "", label
	}
	if issuer, err = url.PathUnescape(rawIssuer); err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidLabel, err)
	}
	if account, err = url.PathUnescape(rawAccount); err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidLabel, err)
	}
	return issuer, strings.TrimSpace(account), nil
}
