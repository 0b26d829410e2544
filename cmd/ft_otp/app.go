package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/jeremyhahn/go-totp/internal/config"
	"github.com/jeremyhahn/go-totp/internal/logger"
	"github.com/jeremyhahn/go-totp/pkg/keystore"
	"github.com/jeremyhahn/go-totp/pkg/metrics"
	"github.com/jeremyhahn/go-totp/pkg/otp"
)

// passphraseEnv holds the key file passphrase for non-interactive use.
const passphraseEnv = "FT_OTP_PASSPHRASE"

var errPassphraseMismatch = errors.New("passphrases do not match")

type app struct {
	v       *viper.Viper
	cfg     config.Config
	log     *zap.Logger
	metrics *metrics.Metrics

	stdin io.Reader
	now   func() time.Time

	// envErr is a .env load failure, reported once the logger exists.
	envErr error
}

func newApp() *app {
	return &app{
		v:     viper.New(),
		log:   zap.NewNop(),
		stdin: os.Stdin,
		now:   time.Now,
	}
}

// setup resolves configuration once flags are parsed.
func (a *app) setup(cmd *cobra.Command) error {
	file, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(a.v, file)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = logger.New(cfg.Log)
	if a.envErr != nil {
		a.log.Warn("ignoring .env", zap.Error(a.envErr))
	}

	if cfg.MetricsTextfile != "" {
		a.metrics = metrics.New()
	}

	if cmd.Flags().Changed("time") {
		at, _ := cmd.Flags().GetInt64("time")
		a.now = func() time.Time { return time.Unix(at, 0) }
	}
	return nil
}

func (a *app) teardown() error {
	defer a.log.Sync() //nolint:errcheck

	if a.metrics == nil {
		return nil
	}
	if err := a.metrics.WriteTextfile(a.cfg.MetricsTextfile); err != nil {
		return err
	}
	a.log.Debug("metrics written", zap.String("path", a.cfg.MetricsTextfile))
	return nil
}

// passphrase returns the key file passphrase from the environment, a
// terminal prompt, or the first line of stdin. confirm asks twice on a
// terminal.
func (a *app) passphrase(cmd *cobra.Command, confirm bool) ([]byte, error) {
	if p, ok := os.LookupEnv(passphraseEnv); ok && p != "" {
		return []byte(p), nil
	}

	if f, ok := a.stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p, err := prompt(cmd.ErrOrStderr(), f, "Passphrase: ")
		if err != nil {
			return nil, err
		}
		if confirm {
			again, err := prompt(cmd.ErrOrStderr(), f, "Confirm passphrase: ")
			if err != nil {
				return nil, err
			}
			if string(p) != string(again) {
				return nil, errPassphraseMismatch
			}
		}
		return p, nil
	}

	line, err := bufio.NewReader(a.stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read passphrase: %w", err)
	}
	return []byte(strings.TrimRight(line, "\r\n")), nil
}

func prompt(w io.Writer, f *os.File, label string) ([]byte, error) {
	fmt.Fprint(w, label)
	p, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, fmt.Errorf("read passphrase: %w", err)
	}
	return p, nil
}

// keyPath returns the sealed key location: -k when given, else key_file.
func (a *app) keyPath(cmd *cobra.Command) string {
	if p, _ := cmd.Flags().GetString("key"); p != "" {
		return p
	}
	return a.cfg.KeyFile
}

func (a *app) loadSecret(cmd *cobra.Command) ([]byte, error) {
	path := a.keyPath(cmd)
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("key file does not exist: %s", path)
	}

	pass, err := a.passphrase(cmd, false)
	if err != nil {
		return nil, err
	}
	secret, err := keystore.LoadFile(path, pass)
	if err != nil {
		return nil, err
	}
	a.log.Debug("key loaded", logger.KeyFile(path))
	return secret, nil
}

func (a *app) authenticator(secret []byte) (*otp.Authenticator, error) {
	auth, err := otp.NewAuthenticator(otp.Config{
		Type:        otp.TypeTOTP,
		Secret:      secret,
		Issuer:      a.cfg.Issuer,
		AccountName: a.cfg.Account,
		Digits:      uint(a.cfg.Digits),
		Period:      uint(a.cfg.Period),
		Algorithm:   a.cfg.OTPAlgorithm(),
		Skew:        a.cfg.Window,
		Clock:       a.now,
		Observer:    a.observer(),
	})
	if err != nil {
		return nil, err
	}
	a.log.Debug("authenticator ready",
		logger.Account(a.cfg.Issuer, a.cfg.Account),
		logger.Algorithm(a.cfg.OTPAlgorithm()),
		logger.Digits(a.cfg.Digits),
		logger.Period(a.cfg.Period),
	)
	return auth, nil
}

func (a *app) observer() otp.Observer {
	if a.metrics == nil {
		return nil
	}
	return a.metrics
}
