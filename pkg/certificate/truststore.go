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

package certificate

import (
	"bytes"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"time"
)

// trustStore is the transient verification store for one validation call:
// the trust anchors extracted from a chain bundle, plus an optional CRL with
// its enforcement flag. It is built fresh per call and never shared.
type trustStore struct {
	anchors []*x509.Certificate

	crl               *x509.RevocationList
	enforceRevocation bool
}

// parseAnchors splits a PEM bundle into individual blocks and parses each as
// a trust-anchor certificate. Text surrounding the blocks is skipped, so a
// bundle with zero blocks yields zero anchors rather than an error; the
// resulting empty store then rejects every leaf at validation time. A block
// that is present but does not hold a parsable certificate is an error.
func parseAnchors(chain string) ([]*x509.Certificate, error) {
	var anchors []*x509.Certificate

	rest := []byte(chain)
	for {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			break
		}

		anchor, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, NewValidationError(ErrTypeInvalidCertificate, invalidCertificateMsg, err)
		}
		anchors = append(anchors, anchor)
	}

	return anchors, nil
}

// parseCRL parses a PEM-encoded certificate revocation list. The returned
// error carries the raw parser cause; callers wrap it into the collapsed
// InvalidCertificate kind.
func parseCRL(crlText string) (*x509.RevocationList, error) {
	block, _ := pem.Decode([]byte(crlText))
	if block == nil {
		return nil, errors.New("no PEM-encoded CRL found")
	}

	crl, err := x509.ParseRevocationList(block.Bytes)
	if err != nil {
		return nil, err
	}
	return crl, nil
}

// setCRL attaches a revocation list to the store and turns on revocation
// enforcement for subsequent path validation.
func (s *trustStore) setCRL(crl *x509.RevocationList) {
	s.crl = crl
	s.enforceRevocation = true
}

// verifyChain runs path validation of leaf against the store's anchors:
// signature chaining to an anchor and validity periods for every certificate
// in the path, plus revocation checks when a CRL is attached. Every anchor
// in the bundle is a trust anchor in its own right, matching the semantics
// of an OpenSSL X509Store holding roots and intermediates alike.
func (s *trustStore) verifyChain(leaf *x509.Certificate) error {
	roots := x509.NewCertPool()
	intermediates := x509.NewCertPool()
	for _, anchor := range s.anchors {
		roots.AddCert(anchor)
		intermediates.AddCert(anchor)
	}

	chains, err := leaf.Verify(x509.VerifyOptions{
		Roots:         roots,
		Intermediates: intermediates,
		KeyUsages:     []x509.ExtKeyUsage{x509.ExtKeyUsageAny},
	})
	if err != nil {
		return err
	}

	if !s.enforceRevocation {
		return nil
	}
	return s.checkRevocation(chains[0])
}

// checkRevocation verifies the attached CRL against the validated path and
// rejects the path if any certificate on it has been revoked. The CRL must
// be issued and signed by a certificate in the store, and must not be stale.
func (s *trustStore) checkRevocation(chain []*x509.Certificate) error {
	// The issuer may be on the path itself or be one of the anchors (the
	// path is the shortest chain found and can stop below the CRL issuer).
	var issuer *x509.Certificate
	for _, cert := range append(append([]*x509.Certificate{}, chain...), s.anchors...) {
		if bytes.Equal(cert.RawSubject, s.crl.RawIssuer) {
			issuer = cert
			break
		}
	}
	if issuer == nil {
		return errors.New("unable to get certificate CRL: issuer is not in the trust store")
	}

	if err := s.crl.CheckSignatureFrom(issuer); err != nil {
		return fmt.Errorf("CRL signature verification failed: %w", err)
	}

	if !s.crl.NextUpdate.IsZero() && time.Now().After(s.crl.NextUpdate) {
		return errors.New("CRL has expired")
	}

	for _, cert := range chain {
		for _, revoked := range s.crl.RevokedCertificateEntries {
			if revoked.SerialNumber != nil && revoked.SerialNumber.Cmp(cert.SerialNumber) == 0 {
				return fmt.Errorf("certificate with serial number %v is revoked", cert.SerialNumber)
			}
		}
	}

	return nil
}
