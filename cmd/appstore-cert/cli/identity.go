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

	"github.com/spf13/cobra"

	"github.com/osisa/nextcloud-appstore/pkg/certificate"
	"github.com/osisa/nextcloud-appstore/pkg/tracing"
	"github.com/osisa/nextcloud-appstore/pkg/utils"
)

// Identity creates the identity command. It extracts and prints the subject
// CN of a publisher certificate, the identity an app id is matched against.
//
// Returns a *cobra.Command configured for identity extraction.
func Identity() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "identity CERTIFICATE_PATH",
		Short: "Print the subject CN of a certificate.",
		Long: `Print the subject CN of a certificate.

Extracts the subject Common Name from the PEM-encoded certificate at
CERTIFICATE_PATH and prints it verbatim. The CN is the identity that app ids
are matched against during app-id verification.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			certPath := args[0]
			if err := utils.ValidateFileExists("certificate", certPath); err != nil {
				return err
			}

			attrs := map[string]interface{}{
				"appstore_cert.method":      "identity",
				"appstore_cert.certificate": certPath,
			}
			return tracing.Run(cmd.Context(), "Identity", attrs, func(_ context.Context) error {
				validator, err := certificate.NewCertificateValidator(ro.NewCertificateConfig())
				if err != nil {
					return err
				}

				cert, err := os.ReadFile(certPath)
				if err != nil {
					return fmt.Errorf("error reading certificate %s: %w", certPath, err)
				}

				cn, err := validator.GetCN(string(cert))
				if err != nil {
					return err
				}

				fmt.Println(cn)
				return nil
			})
		},
	}

	return cmd
}
