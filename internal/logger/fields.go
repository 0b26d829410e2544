package logger

import (
	"go.uber.org/zap"

	"github.com/jeremyhahn/go-totp/pkg/otp"
)

// Field helpers for OTP parameters. Secrets and codes are never logged.

// Algorithm records the HMAC hash function.
func Algorithm(a otp.Algorithm) zap.Field {
	return zap.String("algorithm", a.String())
}

// Digits records the code length.
func Digits(v int) zap.Field {
	return zap.Int("digits", v)
}

// Period records the time step in seconds.
func Period(v int64) zap.Field {
	return zap.Int64("period", v)
}

// KeyFile records the path of a sealed key file.
func KeyFile(path string) zap.Field {
	return zap.String("key_file", path)
}

// Account records the provisioning label as issuer:account, or the
// account alone when there is no issuer.
func Account(issuer, account string) zap.Field {
	if issuer == "" {
		return zap.String("account", account)
	}
	return zap.String("account", issuer+":"+account)
}
