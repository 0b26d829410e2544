package otp

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncodeSecret(t *testing.T) {
	// RFC 4648 section 10 vectors.
	tests := []struct {
		in     string
		padded string
		raw    string
	}{
		{"", "", ""},
		{"f", "MY======", "MY"},
		{"fo", "MZXQ====", "MZXQ"},
		{"foo", "MZXW6===", "MZXW6"},
		{"foob", "MZXW6YQ=", "MZXW6YQ"},
		{"fooba", "MZXW6YTB", "MZXW6YTB"},
		{"foobar", "MZXW6YTBOI======", "MZXW6YTBOI"},
		{"12345678901234567890", "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ", "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ"},
	}

	for _, tt := range tests {
		if got := EncodeSecret([]byte(tt.in)); got != tt.padded {
			t.Errorf("EncodeSecret(%q) = %q, want %q", tt.in, got, tt.padded)
		}
		if got := EncodeSecretNoPadding([]byte(tt.in)); got != tt.raw {
			t.Errorf("EncodeSecretNoPadding(%q) = %q, want %q", tt.in, got, tt.raw)
		}
		if got := StripPadding(tt.padded); got != tt.raw {
			t.Errorf("StripPadding(%q) = %q, want %q", tt.padded, got, tt.raw)
		}
	}
}

func TestDecodeSecret(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"padded", "MZXW6YQ=", "foob"},
		{"padded three", "MZXW6===", "foo"},
		{"padded four", "MZXQ====", "fo"},
		{"padded six", "MY======", "f"},
		{"unpadded", "MZXW6YQ", "foob"},
		{"lowercase", "mzxw6ytboi", "foobar"},
		{"mixed case padded", "MzXw6YtBoI======", "foobar"},
		{"grouped with spaces", "GEZD GNBV GY3T QOJQ GEZD GNBV GY3T QOJQ", "12345678901234567890"},
		{"grouped with hyphens", "mzxw-6ytb-oi", "foobar"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeSecret(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !bytes.Equal(got, []byte(tt.want)) {
				t.Errorf("DecodeSecret(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDecodeSecretInvalid(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"digit outside alphabet", "GEZDGNB1"},
		{"symbol", "invalid@secret!"},
		{"padding in the middle", "MY==MZXQ"},
		{"impossible length", "MZX"},
		{"single character", "M"},
		{"short padding", "GE="},
		{"padding after full quantum", "GEZDGNBV="},
		{"too much padding", "MZXW6YQ=="},
		{"padding only", "===="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeSecret(tt.in); !errors.Is(err, ErrInvalidEncoding) {
				t.Errorf("DecodeSecret(%q): expected ErrInvalidEncoding, got %v", tt.in, err)
			}
		})
	}
}
