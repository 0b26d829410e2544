package otp

import (
	"encoding/base32"
	"fmt"
	"strings"
)

var rawEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// padding holds the '=' count that completes a quantum, indexed by the
// number of symbols in the final quantum. -1 marks impossible lengths.
var padding = [8]int{0, -1, 6, -1, 4, 3, -1, 1}

// EncodeSecret returns the padded, uppercase RFC 4648 Base32 form of secret.
func EncodeSecret(secret []byte) string {
	return base32.StdEncoding.EncodeToString(secret)
}

// EncodeSecretNoPadding returns the Base32 form of secret without trailing
// '=' characters, as embedded in provisioning URIs.
func EncodeSecretNoPadding(secret []byte) string {
	return rawEncoding.EncodeToString(secret)
}

// StripPadding removes trailing '=' characters from a Base32 string.
func StripPadding(s string) string {
	return strings.TrimRight(s, "=")
}

// DecodeSecret decodes a Base32 secret. Decoding is case-insensitive,
// ignores spaces and hyphens used to group characters for display,
// and accepts the input either unpadded or with exactly the padding
// RFC 4648 prescribes.
func DecodeSecret(s string) ([]byte, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', '-':
			return -1
		}
		return r
	}, s)
	cleaned = strings.ToUpper(cleaned)
	data := StripPadding(cleaned)
	if pad := len(cleaned) - len(data); pad > 0 && pad != padding[len(data)%8] {
		return nil, fmt.Errorf("%w: %d padding characters after %d symbols", ErrInvalidEncoding, pad, len(data))
	}
	cleaned = data

	for i := 0; i < len(cleaned); i++ {
		c := cleaned[i]
		if (c < 'A' || c > 'Z') && (c < '2' || c > '7') {
			return nil, fmt.Errorf("%w: illegal character %q at offset %d", ErrInvalidEncoding, c, i)
		}
	}

	// 1, 3 or 6 trailing characters cannot carry a whole byte.
	switch len(cleaned) % 8 {
	case 1, 3, 6:
		return nil, fmt.Errorf("%w: invalid length %d", ErrInvalidEncoding, len(cleaned))
	}

	out, err := rawEncoding.DecodeString(cleaned)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	return out, nil
}
