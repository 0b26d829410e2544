package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jeremyhahn/go-totp/internal/config"
	"github.com/jeremyhahn/go-totp/internal/logger"
	"github.com/jeremyhahn/go-totp/pkg/keystore"
	"github.com/jeremyhahn/go-totp/pkg/otp"
	"github.com/jeremyhahn/go-totp/pkg/qrcode"
)

func newRootCmd(a *app) *cobra.Command {
	var (
		generate string
		showQR   bool
	)

	root := &cobra.Command{
		Use:   "ft_otp",
		Short: "Store an encrypted TOTP key and generate one-time passwords",
		Example: "  ft_otp -g key.hex\n" +
			"  ft_otp -k ft_otp.key\n" +
			"  ft_otp -k ft_otp.key --qr",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := bindFlags(a.v, cmd.Root().PersistentFlags()); err != nil {
				return err
			}
			return a.setup(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.teardown()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch {
			case generate != "":
				return a.storeKey(cmd, generate)
			case cmd.Flags().Changed("key"):
				return a.printToken(cmd, showQR)
			}
			return cmd.Help()
		},
	}

	root.Flags().StringVarP(&generate, "generate", "g", "", "encrypt the hexadecimal key in `file` (at least 64 characters) into the key file")
	root.Flags().BoolVar(&showQR, "qr", false, "also print the provisioning URI and a QR code")

	pf := root.PersistentFlags()
	pf.StringP("key", "k", "", "encrypted key `file` to read (default from key_file)")
	pf.String("config", "", "config `file` (yaml, json or toml)")
	pf.Int64("time", 0, "use this unix time instead of the system clock")
	pf.String("issuer", "", "issuer shown by authenticator apps")
	pf.String("account", "", "account label shown by authenticator apps")
	pf.String("algorithm", "", "HMAC algorithm: SHA1, SHA256 or SHA512")
	pf.Int("digits", 0, "code length (6-10)")
	pf.Int64("period", 0, "time step in seconds")
	pf.Uint("window", 0, "accepted clock drift in time steps")
	pf.String("out", "", "key `file` written by -g")
	pf.String("secret-encoding", "", "how -g turns the key file into a secret: hex or text")
	pf.String("metrics-textfile", "", "write Prometheus metrics to `file` on exit")
	pf.String("log-level", "", "debug, info, warn or error")
	pf.String("log-env", "", "dev (console) or prod (json)")

	root.MarkFlagsMutuallyExclusive("generate", "key")

	root.AddCommand(
		newSecretCmd(a),
		newURICmd(a),
		newQRCmd(a),
		newValidateCmd(a),
		newInspectCmd(a),
	)
	return root
}

// flagKeys maps config keys to the persistent flags that override them.
var flagKeys = map[string]string{
	"issuer":           "issuer",
	"account":          "account",
	"algorithm":        "algorithm",
	"digits":           "digits",
	"period":           "period",
	"window":           "window",
	"key_file":         "out",
	"secret_encoding":  "secret-encoding",
	"metrics_textfile": "metrics-textfile",
	"log.level":        "log-level",
	"log.env":          "log-env",
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for key, name := range flagKeys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return fmt.Errorf("bind --%s: %w", name, err)
		}
	}
	return nil
}

// storeKey validates the hexadecimal key in path and seals it into the
// key file.
func (a *app) storeKey(cmd *cobra.Command, path string) error {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("key file does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	key, err := keystore.ParseHexKey(string(raw))
	if err != nil {
		return err
	}

	secret := key
	if a.cfg.SecretEncoding == config.EncodingText {
		secret = []byte(strings.TrimSpace(string(raw)))
	}

	pass, err := a.passphrase(cmd, true)
	if err != nil {
		return err
	}
	if err := keystore.SaveFile(a.cfg.KeyFile, secret, pass); err != nil {
		return err
	}

	a.log.Info("key stored", logger.KeyFile(a.cfg.KeyFile))
	fmt.Fprintf(cmd.OutOrStdout(), "Key was successfully saved in %s.\n", a.cfg.KeyFile)
	return nil
}

func (a *app) printToken(cmd *cobra.Command, showQR bool) error {
	secret, err := a.loadSecret(cmd)
	if err != nil {
		return err
	}
	auth, err := a.authenticator(secret)
	if err != nil {
		return err
	}
	code, err := auth.Generate()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), code)

	if !showQR {
		return nil
	}
	return a.printProvisioning(cmd, auth)
}

func (a *app) printProvisioning(cmd *cobra.Command, auth *otp.Authenticator) error {
	uri, err := auth.GetProvisioningURI()
	if err != nil {
		return err
	}
	art, err := qrcode.ASCII(uri, true)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nProvisioning URI:\n%s\n\n", uri)
	fmt.Fprintf(out, "Scan this QR code with your authenticator app:\n%s", art)
	return nil
}
