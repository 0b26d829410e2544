package otp

import (
	"encoding/binary"
	"fmt"
)

// DeriveCounter returns the RFC 6238 moving factor floor(unixSeconds/period).
func DeriveCounter(unixSeconds, period int64) (uint64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidPeriod, period)
	}
	if unixSeconds < 0 {
		return 0, fmt.Errorf("%w: %d is before the unix epoch", ErrInvalidTime, unixSeconds)
	}
	return uint64(unixSeconds) / uint64(period), nil
}

// CounterBytes serializes counter as the 8-byte big-endian HMAC message.
func CounterBytes(counter uint64) [8]byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], counter)
	return buf
}
