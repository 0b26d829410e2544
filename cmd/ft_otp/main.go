// Command ft_otp stores an encrypted TOTP key and derives one-time
// passwords from it.
//
//	ft_otp -g key.hex        # encrypt a >= 64 hex character key into ft_otp.key
//	ft_otp -k ft_otp.key     # print the current code
//	ft_otp -k ft_otp.key --qr
//
// The passphrase is read from FT_OTP_PASSPHRASE or prompted for.
package main

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	a := newApp()
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		a.envErr = err
	}

	if err := newRootCmd(a).Execute(); err != nil {
		os.Exit(1)
	}
}
