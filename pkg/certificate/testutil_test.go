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
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/base64"
	"encoding/pem"
	"math/big"
	"testing"
	"time"

	"github.com/sigstore/sigstore/pkg/cryptoutils"

	"github.com/osisa/nextcloud-appstore/pkg/config"
)

// testIdentity is a CA or end-entity certificate with its private key,
// generated fresh per test.
type testIdentity struct {
	cert *x509.Certificate
	key  *ecdsa.PrivateKey
	pem  string
}

var testSerial int64 = 1000

func nextSerial() *big.Int {
	testSerial++
	return big.NewInt(testSerial)
}

// newTestCA generates a self-signed CA certificate.
func newTestCA(t *testing.T, cn string) *testIdentity {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generating CA key: %v", err)
	}

	template := &x509.Certificate{
		SerialNumber:          nextSerial(),
		Subject:               pkix.Name{CommonName: cn},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(24 * time.Hour),
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageCRLSign | x509.KeyUsageDigitalSignature,
		BasicConstraintsValid: true,
		IsCA:                  true,
	}

	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("creating CA certificate: %v", err)
	}

	return identityFromDER(t, der, key)
}

// issueCert issues a certificate signed by the given issuer. For
// intermediates set isCA; notBefore/notAfter control the validity window.
func issueCert(t *testing.T, issuer *testIdentity, cn string, isCA bool, notBefore, notAfter time.Time) *testIdentity {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generating key for %q: %v", cn, err)
	}

	template := &x509.Certificate{
		SerialNumber:          nextSerial(),
		Subject:               pkix.Name{CommonName: cn},
		NotBefore:             notBefore,
		NotAfter:              notAfter,
		KeyUsage:              x509.KeyUsageDigitalSignature,
		BasicConstraintsValid: true,
		IsCA:                  isCA,
	}
	if isCA {
		template.KeyUsage |= x509.KeyUsageCertSign | x509.KeyUsageCRLSign
	}

	der, err := x509.CreateCertificate(rand.Reader, template, issuer.cert, &key.PublicKey, issuer.key)
	if err != nil {
		t.Fatalf("issuing certificate for %q: %v", cn, err)
	}

	return identityFromDER(t, der, key)
}

// issueLeaf issues a currently-valid end-entity certificate.
func issueLeaf(t *testing.T, issuer *testIdentity, cn string) *testIdentity {
	t.Helper()
	return issueCert(t, issuer, cn, false,
		time.Now().Add(-time.Hour), time.Now().Add(24*time.Hour))
}

func identityFromDER(t *testing.T, der []byte, key *ecdsa.PrivateKey) *testIdentity {
	t.Helper()

	cert, err := x509.ParseCertificate(der)
	if err != nil {
		t.Fatalf("parsing generated certificate: %v", err)
	}

	pemBytes, err := cryptoutils.MarshalCertificateToPEM(cert)
	if err != nil {
		t.Fatalf("encoding generated certificate: %v", err)
	}

	return &testIdentity{cert: cert, key: key, pem: string(pemBytes)}
}

// buildCRL creates a PEM-encoded CRL issued by the given CA, revoking the
// given serial numbers.
func buildCRL(t *testing.T, issuer *testIdentity, revoked ...*big.Int) string {
	t.Helper()

	entries := make([]x509.RevocationListEntry, 0, len(revoked))
	for _, serial := range revoked {
		entries = append(entries, x509.RevocationListEntry{
			SerialNumber:   serial,
			RevocationTime: time.Now().Add(-time.Minute),
		})
	}

	template := &x509.RevocationList{
		Number:                    big.NewInt(1),
		ThisUpdate:                time.Now().Add(-time.Minute),
		NextUpdate:                time.Now().Add(24 * time.Hour),
		RevokedCertificateEntries: entries,
	}

	der, err := x509.CreateRevocationList(rand.Reader, template, issuer.cert, issuer.key)
	if err != nil {
		t.Fatalf("creating CRL: %v", err)
	}

	return string(pem.EncodeToMemory(&pem.Block{Type: "X509 CRL", Bytes: der}))
}

// signDetached produces a base64 detached ECDSA signature over data with the
// identity's key, hashed with SHA-256 to match the test validator config.
func signDetached(t *testing.T, id *testIdentity, data []byte) string {
	t.Helper()

	digest := sha256.Sum256(data)
	sig, err := ecdsa.SignASN1(rand.Reader, id.key, digest[:])
	if err != nil {
		t.Fatalf("signing test data: %v", err)
	}
	return base64.StdEncoding.EncodeToString(sig)
}

// newTestValidator builds a validator with a sha256 digest (matching
// signDetached) and the given master CNs.
func newTestValidator(t *testing.T, masterCNs ...string) *CertificateValidator {
	t.Helper()

	cfg := config.NewCertificateConfig().
		UseDigestAlgorithm("sha256").
		SetMasterCNs(masterCNs)

	validator, err := NewCertificateValidator(cfg)
	if err != nil {
		t.Fatalf("creating validator: %v", err)
	}
	return validator
}
