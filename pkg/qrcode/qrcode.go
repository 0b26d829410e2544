// Package qrcode renders provisioning URIs as QR codes for authenticator
// apps to scan. The URI is treated as opaque content.
package qrcode

import (
	"errors"
	"fmt"
	"image"
	"strings"

	pqotp "github.com/pquerna/otp"
	goqrcode "github.com/skip2/go-qrcode"
)

// DefaultSize is the PNG edge length in pixels.
const DefaultSize = 256

var (
	// ErrEmptyContent indicates there is nothing to encode.
	ErrEmptyContent = errors.New("qrcode: content must not be empty")
	// ErrInvalidSize indicates a non-positive image dimension.
	ErrInvalidSize = errors.New("qrcode: invalid size")
)

// ASCII renders content with half-height block characters for terminal
// display. invert swaps dark and light modules, which suits dark
// terminal backgrounds.
func ASCII(content string, invert bool) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyContent
	}
	q, err := goqrcode.New(content, goqrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("qrcode: encode: %w", err)
	}
	return q.ToSmallString(invert), nil
}

// PNG renders content as a size x size PNG with medium error correction.
// A size of 0 selects DefaultSize.
func PNG(content string, size int) ([]byte, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	if size == 0 {
		size = DefaultSize
	}
	if size < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	png, err := goqrcode.Encode(content, goqrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("qrcode: encode: %w", err)
	}
	return png, nil
}

// Image renders an otpauth:// URI as a scaled image.Image, for callers
// that compose the code into their own graphics.
func Image(uri string, width, height int) (image.Image, error) {
	if strings.TrimSpace(uri) == "" {
		return nil, ErrEmptyContent
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	key, err := pqotp.NewKeyFromURL(uri)
	if err != nil {
		return nil, fmt.Errorf("qrcode: parse uri: %w", err)
	}
	img, err := key.Image(width, height)
	if err != nil {
		return nil, fmt.Errorf("qrcode: encode: %w", err)
	}
	return img, nil
}
