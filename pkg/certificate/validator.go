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

// Package certificate validates app publisher certificates and the detached
// signatures they produce: chain-of-trust validation against a caller-supplied
// PEM bundle (with opt-in CRL revocation checking), detached-signature
// verification under the configured digest, and subject-CN identity matching
// with a master-CN bypass.
//
// All operations are pure functions of their inputs plus the immutable
// configuration passed at construction; a CertificateValidator is safe for
// concurrent use.
package certificate

import (
	"crypto"
	"crypto/x509"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/sigstore/sigstore/pkg/cryptoutils"

	internalcrypto "github.com/osisa/nextcloud-appstore/internal/crypto"
	"github.com/osisa/nextcloud-appstore/pkg/config"
	"github.com/osisa/nextcloud-appstore/pkg/interfaces"
)

// Caller-facing diagnostic prefixes. The underlying cause is appended by
// ValidationError.Error.
const (
	invalidCertificateMsg = "Invalid certificate"
	certificateInvalidMsg = "Certificate is invalid"
	signatureInvalidMsg   = "Signature is invalid"
)

// Ensure CertificateValidator implements interfaces.CertificateValidator at compile time.
var _ interfaces.CertificateValidator = (*CertificateValidator)(nil)

// CertificateValidator validates certificates, detached signatures and
// app-id identity claims.
//
// The validator holds only the immutable process configuration (digest
// algorithm and master-CN allowlist); every call builds its own transient
// state, so no locking is needed for concurrent use.
type CertificateValidator struct {
	config *config.CertificateConfig
	digest crypto.Hash
}

// NewCertificateValidator creates a validator from the given configuration.
// A nil configuration uses the defaults. Returns an error if the configured
// digest algorithm is not supported.
func NewCertificateValidator(cfg *config.CertificateConfig) (*CertificateValidator, error) {
	if cfg == nil {
		cfg = config.NewCertificateConfig()
	}

	digest, err := cfg.Digest()
	if err != nil {
		return nil, fmt.Errorf("invalid certificate configuration: %w", err)
	}

	return &CertificateValidator{
		config: cfg,
		digest: digest,
	}, nil
}

// Config returns the configuration the validator was built with.
func (v *CertificateValidator) Config() *config.CertificateConfig {
	return v.config
}

// ParseCertificate decodes a PEM-encoded X.509 certificate.
// When the text holds more than one block, the first certificate is used.
// Fails with an ErrTypeInvalidCertificate ValidationError on malformed
// encoding or empty input, propagating the parser's cause for diagnosability.
func (v *CertificateValidator) ParseCertificate(pemText string) (*x509.Certificate, error) {
	certs, err := cryptoutils.UnmarshalCertificatesFromPEM([]byte(pemText))
	if err != nil {
		return nil, NewValidationError(ErrTypeInvalidCertificate, invalidCertificateMsg, err)
	}
	if len(certs) == 0 {
		return nil, NewValidationError(ErrTypeInvalidCertificate, invalidCertificateMsg,
			errors.New("no PEM-encoded certificate found"))
	}
	return certs[0], nil
}

// ValidateCertificate tests that the certificate chains to a trust anchor in
// the given PEM bundle, that no certificate on the path is outside its
// validity period, and, when crlText is non-empty, that no certificate on
// the path has been revoked.
//
// All failure causes (untrusted chain, expiry, revocation, unparsable CRL)
// collapse into ErrTypeInvalidCertificate with the cause in the message;
// unparsable certificate text fails with the parser's own diagnostic.
// Success asserts validity at evaluation time only; nothing is cached.
func (v *CertificateValidator) ValidateCertificate(certificate, chain, crlText string) error {
	anchors, err := parseAnchors(chain)
	if err != nil {
		return err
	}
	store := &trustStore{anchors: anchors}

	cert, err := v.ParseCertificate(certificate)
	if err != nil {
		return err
	}

	if crlText != "" {
		crl, err := parseCRL(crlText)
		if err != nil {
			return NewValidationError(ErrTypeInvalidCertificate, certificateInvalidMsg, err)
		}
		store.setCRL(crl)
	}

	if err := store.verifyChain(cert); err != nil {
		return NewValidationError(ErrTypeInvalidCertificate, certificateInvalidMsg, err)
	}
	return nil
}

// VerifySignature tests that signature (a base64 string) is a valid detached
// signature over data under the certificate's public key, using the
// configured digest algorithm.
//
// Any verification failure (malformed base64, digest mismatch, unsupported
// key type) is reported uniformly as ErrTypeInvalidSignature. The
// certificate's own trust and validity are deliberately not checked here;
// callers that need both properties must also call ValidateCertificate.
func (v *CertificateValidator) VerifySignature(certificate, signature string, data []byte) error {
	cert, err := v.ParseCertificate(certificate)
	if err != nil {
		return err
	}

	rawSignature, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return NewValidationError(ErrTypeInvalidSignature, signatureInvalidMsg, err)
	}

	if err := internalcrypto.VerifySignature(cert.PublicKey, v.digest, data, rawSignature); err != nil {
		return NewValidationError(ErrTypeInvalidSignature, signatureInvalidMsg, err)
	}
	return nil
}

// GetCN extracts the subject Common Name from the certificate, verbatim as
// encoded: no normalization and no stripping of a leading separator that
// legacy subject-string renderings may show.
func (v *CertificateValidator) GetCN(certificate string) (string, error) {
	cert, err := v.ParseCertificate(certificate)
	if err != nil {
		return "", err
	}
	return cert.Subject.CommonName, nil
}

// ValidateAppID tests that the certificate's subject CN matches the app id
// exactly (case-sensitive, byte-exact), or that the CN is on the configured
// master allowlist. Master CNs are trusted to publish under any app id.
// Fails with ErrTypeAppIDMismatch otherwise.
func (v *CertificateValidator) ValidateAppID(certificate, appID string) error {
	cn, err := v.GetCN(certificate)
	if err != nil {
		return err
	}

	if cn == appID {
		return nil
	}
	if v.config.IsMasterCN(cn) {
		return nil
	}

	return NewValidationError(ErrTypeAppIDMismatch,
		fmt.Sprintf("App id %s does not match cert CN %s", appID, cn), nil)
}
