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

package options

import (
	"github.com/spf13/cobra"
)

// ChainFlags contains the trust bundle flags shared by certificate
// validation commands.
type ChainFlags struct {
	// ChainPath locates the PEM bundle of trust anchors.
	ChainPath string
	// CRLPath optionally locates a PEM-encoded certificate revocation list.
	// Revocation checking is enforced only when this is set.
	CRLPath string
}

// AddFlags adds the trust bundle flags to the cobra command.
func (o *ChainFlags) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.ChainPath, "chain", "",
		"Location of the PEM bundle holding the trust anchors. [required]")
	_ = cmd.MarkFlagRequired("chain")
	_ = cmd.MarkFlagFilename("chain", pemExts...)

	cmd.Flags().StringVar(&o.CRLPath, "crl", "",
		"Location of a PEM-encoded certificate revocation list. Enables revocation checking.")
	_ = cmd.MarkFlagFilename("crl", pemExts...)
}

// CertificateFlags contains the publisher certificate flag shared by
// signature and app-id verification commands.
type CertificateFlags struct {
	// CertificatePath locates the PEM-encoded publisher certificate.
	CertificatePath string
}

// AddFlags adds the certificate flag to the cobra command.
func (o *CertificateFlags) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.CertificatePath, "certificate", "",
		"Location of the PEM-encoded publisher certificate. [required]")
	_ = cmd.MarkFlagRequired("certificate")
	_ = cmd.MarkFlagFilename("certificate", pemExts...)
}

// SignatureInputFlags contains the signature path flag for signature
// verification.
type SignatureInputFlags struct {
	// SignaturePath locates the base64-encoded detached signature file.
	SignaturePath string
}

// AddFlags adds the signature input flag to the cobra command.
func (o *SignatureInputFlags) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.SignaturePath, "signature", "",
		"Location of the base64-encoded detached signature. [required]")
	_ = cmd.MarkFlagRequired("signature")
}

// CertificateVerifyOptions holds the flags of the certificate validation
// command.
type CertificateVerifyOptions struct {
	ChainFlags
}

var _ Interface = (*CertificateVerifyOptions)(nil)

// AddFlags adds the certificate validation flags to the cobra command.
func (o *CertificateVerifyOptions) AddFlags(cmd *cobra.Command) {
	o.ChainFlags.AddFlags(cmd)
}

// SignatureVerifyOptions holds the flags of the signature verification
// command.
type SignatureVerifyOptions struct {
	CertificateFlags
	SignatureInputFlags
}

var _ Interface = (*SignatureVerifyOptions)(nil)

// AddFlags adds the signature verification flags to the cobra command.
func (o *SignatureVerifyOptions) AddFlags(cmd *cobra.Command) {
	o.CertificateFlags.AddFlags(cmd)
	o.SignatureInputFlags.AddFlags(cmd)
}

// AppIDVerifyOptions holds the flags of the app-id verification command.
type AppIDVerifyOptions struct {
	CertificateFlags
}

var _ Interface = (*AppIDVerifyOptions)(nil)

// AddFlags adds the app-id verification flags to the cobra command.
func (o *AppIDVerifyOptions) AddFlags(cmd *cobra.Command) {
	o.CertificateFlags.AddFlags(cmd)
}
