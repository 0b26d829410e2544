package otp

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestBuildURI(t *testing.T) {
	secret := []byte("12345678901234567890")

	tests := []struct {
		name    string
		issuer  string
		label   string
		alg     Algorithm
		digits  int
		period  int64
		want    string
	}{
		{
			name:   "canonical",
			issuer: "Example",
			label:  "alice@example.com",
			alg:    AlgorithmSHA1,
			digits: 6,
			period: 30,
			want: "otpauth://totp/Example:alice@example.com" +
				"?secret=GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ&issuer=Example&algorithm=SHA1&digits=6&period=30",
		},
		{
			name:   "escaped issuer and label",
			issuer: "ACME Co",
			label:  "john doe/ops",
			alg:    AlgorithmSHA256,
			digits: 8,
			period: 60,
			want: "otpauth://totp/ACME%20Co:john%20doe%2Fops" +
				"?secret=GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ&issuer=ACME%20Co&algorithm=SHA256&digits=8&period=60",
		},
		{
			name:   "colon and ampersand",
			issuer: "A&B:C",
			label:  "x:y",
			alg:    AlgorithmSHA512,
			digits: 10,
			period: 30,
			want: "otpauth://totp/A&B%3AC:x%3Ay" +
				"?secret=GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ&issuer=A%26B%3AC&algorithm=SHA512&digits=10&period=30",
		},
		{
			name:   "no issuer",
			label:  "alice",
			alg:    AlgorithmSHA1,
			digits: 6,
			period: 30,
			want:   "otpauth://totp/alice?secret=GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ&algorithm=SHA1&digits=6&period=30",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildURI(tt.issuer, tt.label, secret, tt.alg, tt.digits, tt.period)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("BuildURI() =\n  %s\nwant\n  %s", got, tt.want)
			}
		})
	}
}

func TestBuildURIErrors(t *testing.T) {
	secret := []byte("12345678901234567890")

	tests := []struct {
		name    string
		label   string
		secret  []byte
		alg     Algorithm
		digits  int
		period  int64
		wantErr error
	}{
		{"empty label", "", secret, AlgorithmSHA1, 6, 30, ErrInvalidLabel},
		{"empty label and bad period", "", secret, AlgorithmSHA1, 6, 0, ErrInvalidLabel},
		{"empty secret", "alice", nil, AlgorithmSHA1, 6, 30, ErrInvalidSecret},
		{"bad algorithm", "alice", secret, "MD5", 6, 30, ErrInvalidAlgorithm},
		{"bad digits", "alice", secret, AlgorithmSHA1, 11, 30, ErrInvalidDigits},
		{"bad period", "alice", secret, AlgorithmSHA1, 6, 0, ErrInvalidPeriod},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uri, err := BuildURI("Example", tt.label, tt.secret, tt.alg, tt.digits, tt.period)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
			if uri != "" {
				t.Errorf("expected empty uri on error, got %q", uri)
			}
		})
	}
}

func TestBuildHOTPURI(t *testing.T) {
	got, err := BuildHOTPURI("Example", "alice", []byte("12345678901234567890"), AlgorithmSHA1, 6, 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "otpauth://hotp/Example:alice?secret=GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ&issuer=Example&algorithm=SHA1&digits=6&counter=42"
	if got != want {
		t.Errorf("BuildHOTPURI() = %s, want %s", got, want)
	}
}

func TestParseURIRoundTrip(t *testing.T) {
	in := Descriptor{
		Issuer:      "ACME Co",
		AccountName: "alice@example.com",
		Secret:      []byte("12345678901234567890123456789012"),
		Algorithm:   AlgorithmSHA256,
		Digits:      7,
		Period:      45,
	}
	uri, err := in.URI()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, err := ParseURI(uri)
	if err != nil {
		t.Fatalf("ParseURI(%s): unexpected error: %v", uri, err)
	}
	if out.Issuer != in.Issuer || out.AccountName != in.AccountName {
		t.Errorf("label = %q:%q, want %q:%q", out.Issuer, out.AccountName, in.Issuer, in.AccountName)
	}
	if !bytes.Equal(out.Secret, in.Secret) {
		t.Errorf("secret = %x, want %x", out.Secret, in.Secret)
	}
	if out.Algorithm != in.Algorithm || out.Digits != in.Digits || out.Period != in.Period {
		t.Errorf("params = %s/%d/%d, want %s/%d/%d",
			out.Algorithm, out.Digits, out.Period, in.Algorithm, in.Digits, in.Period)
	}
}

func TestParseURIAlgorithmNames(t *testing.T) {
	tests := []struct {
		name string
		want Algorithm
	}{
		{"SHA-256", AlgorithmSHA256},
		{"sha512", AlgorithmSHA512},
		{"SHA-1", AlgorithmSHA1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseURI("otpauth://totp/X:a?secret=GEZDGNBVGY3TQOJQ&algorithm=" + tt.name)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if d.Algorithm != tt.want {
				t.Errorf("algorithm = %s, want %s", d.Algorithm, tt.want)
			}
		})
	}
}

func TestParseURIEscapedColons(t *testing.T) {
	in := Descriptor{
		Issuer:      "Ex:ample",
		AccountName: "alice:admin",
		Secret:      []byte("12345678901234567890"),
		Algorithm:   AlgorithmSHA1,
		Digits:      6,
		Period:      30,
	}
	uri, err := in.URI()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, err := ParseURI(uri)
	if err != nil {
		t.Fatalf("ParseURI(%s): unexpected error: %v", uri, err)
	}
	if out.Issuer != in.Issuer || out.AccountName != in.AccountName {
		t.Errorf("label = %q:%q, want %q:%q", out.Issuer, out.AccountName, in.Issuer, in.AccountName)
	}

	// Without an issuer parameter the label prefix names the issuer.
	out, err = ParseURI("otpauth://totp/Ex%3Aample:alice?secret=GEZDGNBV")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Issuer != "Ex:ample" || out.AccountName != "alice" {
		t.Errorf("label = %q:%q, want %q:%q", out.Issuer, out.AccountName, "Ex:ample", "alice")
	}
}

func TestParseURIDefaults(t *testing.T) {
	d, err := ParseURI("otpauth://totp/Example:alice?secret=gezdgnbvgy3tqojqgezdgnbvgy3tqojq")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Issuer != "Example" || d.AccountName != "alice" {
		t.Errorf("label = %q:%q", d.Issuer, d.AccountName)
	}
	if d.Algorithm != AlgorithmSHA1 || d.Digits != DefaultDigits || d.Period != DefaultPeriod {
		t.Errorf("defaults = %s/%d/%d", d.Algorithm, d.Digits, d.Period)
	}
	if string(d.Secret) != "12345678901234567890" {
		t.Errorf("secret = %q", d.Secret)
	}
}

func TestParseURIErrors(t *testing.T) {
	tests := []struct {
		name    string
		uri     string
		wantErr error
	}{
		{"hotp", "otpauth://hotp/alice?secret=GEZDGNBV&counter=1", ErrInvalidURI},
		{"not a uri", "otpauth://totp/%zz", ErrInvalidURI},
		{"missing secret", "otpauth://totp/alice", ErrInvalidSecret},
		{"bad secret", "otpauth://totp/alice?secret=GE1", ErrInvalidEncoding},
		{"md5", "otpauth://totp/alice?secret=GEZDGNBV&algorithm=MD5", ErrInvalidAlgorithm},
		{"five digits", "otpauth://totp/alice?secret=GEZDGNBV&digits=5", ErrInvalidDigits},
		{"text digits", "otpauth://totp/alice?secret=GEZDGNBV&digits=six", ErrInvalidDigits},
		{"zero period", "otpauth://totp/alice?secret=GEZDGNBV&period=0", ErrInvalidPeriod},
		{"text period", "otpauth://totp/alice?secret=GEZDGNBV&period=abc", ErrInvalidPeriod},
		{"negative period", "otpauth://totp/alice?secret=GEZDGNBV&period=-30", ErrInvalidPeriod},
		{"sha3", "otpauth://totp/alice?secret=GEZDGNBV&algorithm=SHA3", ErrInvalidAlgorithm},
		{"misspelled algorithm", "otpauth://totp/alice?secret=GEZDGNBV&algorithm=SHA265", ErrInvalidAlgorithm},
		{"missing label", "otpauth://totp/?secret=GEZDGNBV", ErrInvalidLabel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseURI(tt.uri); !errors.Is(err, tt.wantErr) {
				t.Errorf("ParseURI(%q): expected error %v, got %v", tt.uri, tt.wantErr, err)
			}
		})
	}
}

func TestDescriptorStringHidesSecret(t *testing.T) {
	d := Descriptor{
		Issuer:      "Example",
		AccountName: "alice",
		Secret:      []byte("12345678901234567890"),
		Algorithm:   AlgorithmSHA1,
		Digits:      6,
		Period:      30,
	}
	s := d.String()
	if strings.Contains(s, "GEZDGNBV") || strings.Contains(s, "1234567890") {
		t.Errorf("String() leaks the secret: %s", s)
	}
	if !strings.Contains(s, "Example:alice") {
		t.Errorf("String() = %q, want it to name the account", s)
	}
}
