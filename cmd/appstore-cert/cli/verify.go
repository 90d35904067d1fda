// Copyright 2025 The Nextcloud App Store Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/osisa/nextcloud-appstore/cmd/appstore-cert/cli/options"
	"github.com/osisa/nextcloud-appstore/pkg/certificate"
	"github.com/osisa/nextcloud-appstore/pkg/logging"
	"github.com/osisa/nextcloud-appstore/pkg/tracing"
	"github.com/osisa/nextcloud-appstore/pkg/utils"
)

// runCertificateVerify performs chain-of-trust validation with tracing.
// Shared by NewCertificateVerifier (explicit subcommand) and Verify (default).
func runCertificateVerify(ctx context.Context, o *options.CertificateVerifyOptions, certPath string) error {
	if err := utils.ValidateFileExists("certificate", certPath); err != nil {
		return err
	}
	if err := utils.ValidateFileExists("certificate chain", o.ChainPath); err != nil {
		return err
	}
	if err := utils.ValidateOptionalFile("certificate revocation list", o.CRLPath); err != nil {
		return err
	}

	attrs := map[string]interface{}{
		"appstore_cert.method":      "certificate",
		"appstore_cert.certificate": certPath,
		"appstore_cert.chain":       o.ChainPath,
		"appstore_cert.crl":         o.CRLPath,
		"appstore_cert.digest":      ro.DigestAlgorithm,
	}
	return tracing.Run(ctx, "Validate", attrs, func(_ context.Context) error {
		logger := ro.NewObservability().Logger

		validator, err := certificate.NewCertificateValidator(ro.NewCertificateConfig())
		if err != nil {
			return err
		}

		cert, err := os.ReadFile(certPath)
		if err != nil {
			return fmt.Errorf("error reading certificate %s: %w", certPath, err)
		}
		chain, err := os.ReadFile(o.ChainPath)
		if err != nil {
			return fmt.Errorf("error reading certificate chain %s: %w", o.ChainPath, err)
		}
		var crl []byte
		if o.CRLPath != "" {
			crl, err = os.ReadFile(o.CRLPath)
			if err != nil {
				return fmt.Errorf("error reading certificate revocation list %s: %w", o.CRLPath, err)
			}
		}

		logger.Debug("validating certificate %s against chain %s", certPath, o.ChainPath)
		if err := validator.ValidateCertificate(string(cert), string(chain), string(crl)); err != nil {
			return err
		}

		if ro.GetLogLevel() < logging.LevelSilent {
			fmt.Println("Certificate is valid")
		}
		return nil
	})
}

// NewCertificateVerifier creates the certificate subcommand. It validates a
// publisher certificate against a bundle of trust anchors, optionally
// checking a certificate revocation list.
//
// Returns a *cobra.Command configured for certificate validation.
func NewCertificateVerifier() *cobra.Command {
	o := &options.CertificateVerifyOptions{}

	long := `Validate a certificate against a chain of trust (DEFAULT).

Validates the publisher certificate at CERTIFICATE_PATH against the trust
anchors in the PEM bundle given via --chain. Every certificate in the bundle
is trusted in its own right, so the bundle may hold the root alone or the
root plus intermediates.

When --crl is given, every certificate on the validated path is additionally
checked against the revocation list. Without --crl no revocation checking is
performed.`

	cmd := &cobra.Command{
		Use:   "certificate [OPTIONS] CERTIFICATE_PATH",
		Short: "Validate a certificate against a chain of trust (DEFAULT).",
		Long:  long,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCertificateVerify(cmd.Context(), o, args[0])
		},
	}

	o.AddFlags(cmd)
	return cmd
}

// NewSignatureVerifier creates the signature subcommand. It checks a
// detached, base64-encoded signature over a file against the public key of a
// publisher certificate.
//
// Returns a *cobra.Command configured for signature verification.
func NewSignatureVerifier() *cobra.Command {
	o := &options.SignatureVerifyOptions{}

	long := `Verify a detached signature over a file.

Verifies that the base64-encoded signature from SIGNATURE_PATH (given via
--signature) is a valid signature over the file at DATA_PATH under the
public key of the certificate given via --certificate, using the configured
digest algorithm (--digest).

Note that this checks the signature only. The certificate's own chain of
trust is validated separately with the certificate subcommand.`

	cmd := &cobra.Command{
		Use:   "signature [OPTIONS] DATA_PATH",
		Short: "Verify a detached signature over a file.",
		Long:  long,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dataPath := args[0]
			if err := utils.ValidateFileExists("data file", dataPath); err != nil {
				return err
			}
			if err := utils.ValidateFileExists("certificate", o.CertificatePath); err != nil {
				return err
			}
			if err := utils.ValidateFileExists("signature", o.SignaturePath); err != nil {
				return err
			}

			attrs := map[string]interface{}{
				"appstore_cert.method":      "signature",
				"appstore_cert.data_path":   dataPath,
				"appstore_cert.certificate": o.CertificatePath,
				"appstore_cert.signature":   o.SignaturePath,
				"appstore_cert.digest":      ro.DigestAlgorithm,
			}
			return tracing.Run(cmd.Context(), "Verify", attrs, func(_ context.Context) error {
				logger := ro.NewObservability().Logger

				validator, err := certificate.NewCertificateValidator(ro.NewCertificateConfig())
				if err != nil {
					return err
				}

				cert, err := os.ReadFile(o.CertificatePath)
				if err != nil {
					return fmt.Errorf("error reading certificate %s: %w", o.CertificatePath, err)
				}
				signature, err := os.ReadFile(o.SignaturePath)
				if err != nil {
					return fmt.Errorf("error reading signature %s: %w", o.SignaturePath, err)
				}
				data, err := os.ReadFile(dataPath)
				if err != nil {
					return fmt.Errorf("error reading data file %s: %w", dataPath, err)
				}

				logger.Debug("verifying signature %s over %s", o.SignaturePath, dataPath)
				// Signature files commonly end with a trailing newline.
				if err := validator.VerifySignature(string(cert), strings.TrimSpace(string(signature)), data); err != nil {
					return err
				}

				if ro.GetLogLevel() < logging.LevelSilent {
					fmt.Println("Signature is valid")
				}
				return nil
			})
		},
	}

	o.AddFlags(cmd)
	return cmd
}

// NewAppIDVerifier creates the app-id subcommand. It checks that an app id
// matches the subject CN of a publisher certificate, honoring the master-CN
// allowlist from the root flags.
//
// Returns a *cobra.Command configured for app-id verification.
func NewAppIDVerifier() *cobra.Command {
	o := &options.AppIDVerifyOptions{}

	long := `Verify that an app id matches a certificate.

Verifies that APP_ID equals the subject CN of the certificate given via
--certificate. A certificate whose CN is listed via --master-cn passes for
any app id.`

	cmd := &cobra.Command{
		Use:   "app-id [OPTIONS] APP_ID",
		Short: "Verify that an app id matches a certificate.",
		Long:  long,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			appID := args[0]
			if err := utils.ValidateFileExists("certificate", o.CertificatePath); err != nil {
				return err
			}

			attrs := map[string]interface{}{
				"appstore_cert.method":      "app-id",
				"appstore_cert.app_id":      appID,
				"appstore_cert.certificate": o.CertificatePath,
			}
			return tracing.Run(cmd.Context(), "Verify", attrs, func(_ context.Context) error {
				validator, err := certificate.NewCertificateValidator(ro.NewCertificateConfig())
				if err != nil {
					return err
				}

				cert, err := os.ReadFile(o.CertificatePath)
				if err != nil {
					return fmt.Errorf("error reading certificate %s: %w", o.CertificatePath, err)
				}

				if err := validator.ValidateAppID(string(cert), appID); err != nil {
					return err
				}

				if ro.GetLogLevel() < logging.LevelSilent {
					fmt.Printf("App id %s matches the certificate\n", appID)
				}
				return nil
			})
		},
	}

	o.AddFlags(cmd)
	return cmd
}

// Verify creates the verify command with all verification subcommands.
// It serves as the parent command for the verification methods (certificate,
// signature, app-id) and defaults to certificate validation when no
// subcommand is specified.
//
// Returns a *cobra.Command with all verification subcommands registered.
func Verify() *cobra.Command {
	o := &options.CertificateVerifyOptions{}

	cmd := &cobra.Command{
		Use:   "verify [OPTIONS] CERTIFICATE_PATH",
		Short: "Verify certificates, signatures and app ids.",
		Long: `Verify certificates, signatures and app ids.

Given a publisher certificate, this call checks its chain of trust against a
PEM bundle of trust anchors, optionally enforcing a certificate revocation
list.

By default the certificate's chain of trust is validated. Specify a
subcommand (certificate, signature, app-id) for other verification methods.

Use each subcommand's --help option for details on each mode.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCertificateVerify(cmd.Context(), o, args[0])
		},
	}

	// Register certificate flags on the parent so that
	// `verify CERTIFICATE_PATH --chain ...` works without specifying the
	// certificate subcommand explicitly.
	o.AddFlags(cmd)

	// Add verification subcommands. Each owns its own flags.
	cmd.AddCommand(NewCertificateVerifier())
	cmd.AddCommand(NewSignatureVerifier())
	cmd.AddCommand(NewAppIDVerifier())

	return cmd
}
