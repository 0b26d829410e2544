// Package otp provides TOTP (RFC 6238) and HOTP (RFC 4226) generation,
// validation and provisioning.
//
// The derivation pipeline is exposed as pure functions so that every
// stage can be exercised with an injected clock:
//
//	counter, _ := otp.DeriveCounter(now, 30)      // floor(now / 30)
//	msg := otp.CounterBytes(counter)              // 8 bytes, big-endian
//	code, _ := otp.ComputeHOTP(secret, msg, otp.AlgorithmSHA1, 6)
//
// Generate and Validate wrap those steps for the time-based case:
//
//	code, err := otp.Generate(secret, time.Now().Unix(), 30, otp.AlgorithmSHA1, 6)
//	ok, err := otp.Validate(secret, code, time.Now().Unix(), 30, otp.AlgorithmSHA1, 6, 1)
//
// Validate computes every counter in the tolerance window and compares
// them in constant time, so timing does not reveal which offset matched.
//
// # TOTP Example
//
// Time-based OTP for use with authenticator apps:
//
//	config := otp.Config{
//	    Type:        otp.TypeTOTP,
//	    Secret:      []byte("12345678901234567890"),
//	    Issuer:      "MyApp",
//	    AccountName: "user@example.com",
//	    Digits:      6,
//	    Period:      30,
//	    Algorithm:   otp.AlgorithmSHA1,
//	    Skew:        1, // Allow 1 period of clock skew
//	}
//
//	auth, err := otp.NewAuthenticator(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Validate a code from user's authenticator app
//	err = auth.Authenticate(ctx, "123456")
//
//	// Generate provisioning URI for QR code
//	uri, err := auth.GetProvisioningURI()
//
// # Provisioning
//
// BuildURI emits parameters in a fixed order so the output is
// reproducible:
//
//	otpauth://totp/MyApp:user@example.com?secret=GEZDGNBV...&issuer=MyApp&algorithm=SHA1&digits=6&period=30
//
// The secret is Base32 without padding. DecodeSecret accepts both padded
// and unpadded forms, in any case. ParseURI imports an existing URI.
//
// # Hash Algorithms
//
// The package supports multiple hash algorithms:
//   - AlgorithmSHA1 (default, widely supported)
//   - AlgorithmSHA256
//   - AlgorithmSHA512
//
// Note that not all authenticator apps support SHA256 and SHA512.
//
// # Thread Safety
//
// All functions are free of shared state. The Authenticator type is
// immutable after construction and safe for concurrent use.
package otp
