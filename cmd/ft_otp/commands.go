package main

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jeremyhahn/go-totp/pkg/keystore"
	"github.com/jeremyhahn/go-totp/pkg/otp"
	"github.com/jeremyhahn/go-totp/pkg/qrcode"
)

func newSecretCmd(a *app) *cobra.Command {
	var size int
	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Print a random hexadecimal key suitable for -g",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if size*2 < keystore.MinHexKeyLength {
				return fmt.Errorf("--bytes must be at least %d", keystore.MinHexKeyLength/2)
			}
			secret, err := otp.GenerateSecret(size)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(secret))
			return nil
		},
	}
	cmd.Flags().IntVar(&size, "bytes", keystore.MinHexKeyLength/2, "key size in bytes")
	return cmd
}

func newURICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "uri",
		Short: "Print the otpauth:// provisioning URI for the stored key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			auth, err := a.storedAuthenticator(cmd)
			if err != nil {
				return err
			}
			uri, err := auth.GetProvisioningURI()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), uri)
			return nil
		},
	}
}

func newQRCmd(a *app) *cobra.Command {
	var (
		pngPath string
		size    int
		invert  bool
	)
	cmd := &cobra.Command{
		Use:   "qr",
		Short: "Render the provisioning URI as a QR code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			auth, err := a.storedAuthenticator(cmd)
			if err != nil {
				return err
			}
			uri, err := auth.GetProvisioningURI()
			if err != nil {
				return err
			}

			if pngPath == "" {
				art, err := qrcode.ASCII(uri, invert)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), art)
				return nil
			}

			png, err := qrcode.PNG(uri, size)
			if err != nil {
				return err
			}
			if err := os.WriteFile(pngPath, png, 0o600); err != nil {
				return fmt.Errorf("write %s: %w", pngPath, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "QR code written to %s\n", pngPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&pngPath, "png", "", "write a PNG image to `file` instead of printing")
	cmd.Flags().IntVar(&size, "size", qrcode.DefaultSize, "PNG size in pixels")
	cmd.Flags().BoolVar(&invert, "invert", true, "invert colors for dark terminals")
	return cmd
}

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate CODE",
		Short: "Check a code against the stored key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			auth, err := a.storedAuthenticator(cmd)
			if err != nil {
				return err
			}
			err = auth.Authenticate(context.Background(), args[0])
			if errors.Is(err, otp.ErrInvalidCode) {
				fmt.Fprintln(cmd.OutOrStdout(), "invalid")
				return err
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "valid")
			return nil
		},
	}
}

func newInspectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect URI",
		Short: "Show the parameters and current code of an otpauth:// URI",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := otp.ParseURI(args[0])
			if err != nil {
				return err
			}
			code, err := otp.Generate(d.Secret, a.now().Unix(), d.Period, d.Algorithm, d.Digits)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "issuer:    %s\n", d.Issuer)
			fmt.Fprintf(out, "account:   %s\n", d.AccountName)
			fmt.Fprintf(out, "algorithm: %s\n", d.Algorithm)
			fmt.Fprintf(out, "digits:    %d\n", d.Digits)
			fmt.Fprintf(out, "period:    %d\n", d.Period)
			fmt.Fprintf(out, "code:      %s\n", code)
			return nil
		},
	}
}

func (a *app) storedAuthenticator(cmd *cobra.Command) (*otp.Authenticator, error) {
	secret, err := a.loadSecret(cmd)
	if err != nil {
		return nil, err
	}
	return a.authenticator(secret)
}
