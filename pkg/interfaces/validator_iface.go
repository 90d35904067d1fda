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

// Package interfaces defines the contracts between the validation core and
// its consumers (the CLI and any request-handling layer built on top).
package interfaces

import (
	"crypto/x509"
)

// CertificateValidator is the validation core consumed by outer layers.
//
// Certificates, chains and CRLs are passed as PEM text; signatures as base64
// strings; signed content as raw bytes. Implementations are stateless apart
// from immutable configuration and must be safe for concurrent use.
type CertificateValidator interface {
	// ParseCertificate decodes a PEM-encoded X.509 certificate.
	ParseCertificate(pemText string) (*x509.Certificate, error)

	// ValidateCertificate runs path validation of the certificate against
	// the trust anchors in chain, with opt-in CRL revocation checking.
	// An empty crl skips revocation checking entirely.
	ValidateCertificate(certificate, chain, crl string) error

	// VerifySignature checks a base64-encoded detached signature over data
	// using the certificate's public key and the configured digest.
	VerifySignature(certificate, signature string, data []byte) error

	// GetCN extracts the certificate's subject Common Name verbatim.
	GetCN(certificate string) (string, error)

	// ValidateAppID checks that the certificate CN matches the app id or is
	// on the master allowlist.
	ValidateAppID(certificate, appID string) error
}
