package otp_test

import (
	"testing"
	"time"

	pqotp "github.com/pquerna/otp"
	"github.com/pquerna/otp/hotp"
	"github.com/pquerna/otp/totp"

	"github.com/jeremyhahn/go-totp/pkg/otp"
)

// TestInteropPquerna cross-checks generation against github.com/pquerna/otp,
// the library most Go authenticator backends validate with.
func TestInteropPquerna(t *testing.T) {
	secret := []byte("interop-secret-0123456789")
	b32 := otp.EncodeSecretNoPadding(secret)

	algs := map[otp.Algorithm]pqotp.Algorithm{
		otp.AlgorithmSHA1:   pqotp.AlgorithmSHA1,
		otp.AlgorithmSHA256: pqotp.AlgorithmSHA256,
		otp.AlgorithmSHA512: pqotp.AlgorithmSHA512,
	}
	times := []int64{0, 59, 1111111109, 1700000000, 2000000000}

	for alg, pqAlg := range algs {
		for _, digits := range []int{6, 7, 8} {
			for _, ts := range times {
				want, err := totp.GenerateCodeCustom(b32, time.Unix(ts, 0).UTC(), totp.ValidateOpts{
					Period:    30,
					Digits:    pqotp.Digits(digits),
					Algorithm: pqAlg,
				})
				if err != nil {
					t.Fatalf("pquerna totp: %v", err)
				}
				got, err := otp.Generate(secret, ts, 30, alg, digits)
				if err != nil {
					t.Fatalf("Generate: %v", err)
				}
				if got != want {
					t.Errorf("%s/%d/t=%d: got %q, pquerna %q", alg, digits, ts, got, want)
				}
			}

			for counter := uint64(0); counter < 5; counter++ {
				want, err := hotp.GenerateCodeCustom(b32, counter, hotp.ValidateOpts{
					Digits:    pqotp.Digits(digits),
					Algorithm: pqAlg,
				})
				if err != nil {
					t.Fatalf("pquerna hotp: %v", err)
				}
				got, err := otp.HOTP(secret, counter, alg, digits)
				if err != nil {
					t.Fatalf("HOTP: %v", err)
				}
				if got != want {
					t.Errorf("%s/%d/counter=%d: got %q, pquerna %q", alg, digits, counter, got, want)
				}
			}
		}
	}
}

// TestInteropPquernaValidatesOurURI imports our provisioning URI with
// pquerna and validates our code with it.
func TestInteropPquernaValidatesOurURI(t *testing.T) {
	secret := []byte("12345678901234567890")
	uri, err := otp.BuildURI("Example", "alice@example.com", secret, otp.AlgorithmSHA1, 6, 30)
	if err != nil {
		t.Fatalf("BuildURI: %v", err)
	}

	key, err := pqotp.NewKeyFromURL(uri)
	if err != nil {
		t.Fatalf("NewKeyFromURL: %v", err)
	}
	if key.Issuer() != "Example" || key.AccountName() != "alice@example.com" {
		t.Errorf("pquerna read label %q:%q", key.Issuer(), key.AccountName())
	}

	now := time.Unix(1700000000, 0).UTC()
	code, err := otp.Generate(secret, now.Unix(), 30, otp.AlgorithmSHA1, 6)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	ok, err := totp.ValidateCustom(code, key.Secret(), now, totp.ValidateOpts{
		Period:    uint(key.Period()),
		Digits:    key.Digits(),
		Algorithm: key.Algorithm(),
	})
	if err != nil {
		t.Fatalf("ValidateCustom: %v", err)
	}
	if !ok {
		t.Error("pquerna rejected our code")
	}
}
