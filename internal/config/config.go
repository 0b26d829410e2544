// Package config loads command line configuration from flags, FT_OTP_*
// environment variables and an optional config file, in that order of
// precedence, using viper.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/jeremyhahn/go-totp/internal/logger"
	"github.com/jeremyhahn/go-totp/pkg/keystore"
	"github.com/jeremyhahn/go-totp/pkg/otp"
)

// EnvPrefix prefixes every environment variable, e.g. FT_OTP_DIGITS.
const EnvPrefix = "FT_OTP"

// Secret encodings accepted by the key generation command.
const (
	// EncodingHex decodes the hexadecimal key file into raw key bytes.
	EncodingHex = "hex"
	// EncodingText uses the hexadecimal text itself as the key bytes.
	EncodingText = "text"
)

// ErrInvalid indicates a configuration value outside its allowed range.
var ErrInvalid = errors.New("config: invalid value")

// Config is the resolved command line configuration.
type Config struct {
	Issuer          string        `mapstructure:"issuer"`
	Account         string        `mapstructure:"account"`
	Algorithm       string        `mapstructure:"algorithm"`
	Digits          int           `mapstructure:"digits"`
	Period          int64         `mapstructure:"period"`
	Window          uint          `mapstructure:"window"`
	KeyFile         string        `mapstructure:"key_file"`
	SecretEncoding  string        `mapstructure:"secret_encoding"`
	MetricsTextfile string        `mapstructure:"metrics_textfile"`
	Log             logger.Config `mapstructure:"log"`
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("issuer", "ft_otp")
	v.SetDefault("account", "user@example.com")
	v.SetDefault("algorithm", string(otp.AlgorithmSHA1))
	v.SetDefault("digits", otp.DefaultDigits)
	v.SetDefault("period", otp.DefaultPeriod)
	v.SetDefault("window", 0)
	v.SetDefault("key_file", keystore.DefaultFile)
	v.SetDefault("secret_encoding", EncodingHex)
	v.SetDefault("metrics_textfile", "")
	v.SetDefault("log.env", "dev")
	v.SetDefault("log.level", "warn")
}

// Load resolves the configuration held by v. When file is not empty it is
// read first; its type is inferred from the extension.
func Load(v *viper.Viper, file string) (Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every OTP parameter so that errors surface before any
// key material is touched.
func (c Config) Validate() error {
	if _, err := otp.ParseAlgorithm(c.Algorithm); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if c.Digits < otp.MinDigits || c.Digits > otp.MaxDigits {
		return fmt.Errorf("%w: %w: digits must be between %d and %d", ErrInvalid, otp.ErrInvalidDigits, otp.MinDigits, otp.MaxDigits)
	}
	if c.Period <= 0 {
		return fmt.Errorf("%w: %w: period must be positive", ErrInvalid, otp.ErrInvalidPeriod)
	}
	switch c.SecretEncoding {
	case EncodingHex, EncodingText:
	default:
		return fmt.Errorf("%w: secret_encoding must be %q or %q", ErrInvalid, EncodingHex, EncodingText)
	}
	return nil
}

// OTPAlgorithm returns the configured hash algorithm.
func (c Config) OTPAlgorithm() otp.Algorithm {
	alg, err := otp.ParseAlgorithm(c.Algorithm)
	if err != nil {
		return otp.AlgorithmSHA1
	}
	return alg
}
