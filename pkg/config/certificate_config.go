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

// Package config holds the process-wide, read-only configuration consumed by
// the certificate validator: the digest algorithm used for detached-signature
// verification and the master-CN allowlist. Both are loaded once at startup
// and passed explicitly into the validator constructor; there is no ambient
// global state.
package config

import (
	"crypto"
	"fmt"
	"sort"
	"strings"

	// Register the SHA-1 and SHA-2 families with crypto.Hash so every
	// digest name in digestAlgorithms resolves to a usable hasher.
	_ "crypto/sha1"
	_ "crypto/sha256"
	_ "crypto/sha512"

	// Register the BLAKE2b family with crypto.Hash so the "blake2b512"
	// digest name resolves to a usable hasher.
	_ "golang.org/x/crypto/blake2b"
)

// DefaultDigestAlgorithm is the digest used when none is configured. It
// matches the production app store deployment (CERTIFICATE_DIGEST=sha512).
const DefaultDigestAlgorithm = "sha512"

// digestAlgorithms maps configuration names to registered hash functions.
var digestAlgorithms = map[string]crypto.Hash{
	"sha1":       crypto.SHA1,
	"sha224":     crypto.SHA224,
	"sha256":     crypto.SHA256,
	"sha384":     crypto.SHA384,
	"sha512":     crypto.SHA512,
	"blake2b512": crypto.BLAKE2b_512,
}

// DigestAlgorithms returns the sorted list of supported digest names.
func DigestAlgorithms() []string {
	names := make([]string, 0, len(digestAlgorithms))
	for name := range digestAlgorithms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseDigestAlgorithm resolves a digest name (e.g. "sha256") to a
// crypto.Hash. Returns an error naming the supported algorithms when the
// name is unknown.
func ParseDigestAlgorithm(name string) (crypto.Hash, error) {
	hash, ok := digestAlgorithms[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("unsupported digest algorithm %q (supported: %s)",
			name, strings.Join(DigestAlgorithms(), ", "))
	}
	return hash, nil
}

// CertificateConfig holds configuration for certificate and signature
// validation.
//
// It is immutable after construction: the setters return the config for
// chaining during startup, and the validator only reads from it afterwards.
type CertificateConfig struct {
	// Digest algorithm name (e.g. "sha512")
	digestAlgorithm string

	// CNs trusted to publish under any app id
	masterCNs []string
}

// NewCertificateConfig creates a new certificate configuration with defaults.
//
// Defaults: sha512 digest, empty master-CN allowlist.
//
// Returns a CertificateConfig ready for customization via method chaining.
func NewCertificateConfig() *CertificateConfig {
	return &CertificateConfig{
		digestAlgorithm: DefaultDigestAlgorithm,
		masterCNs:       []string{},
	}
}

// UseDigestAlgorithm sets the digest algorithm used for detached-signature
// verification.
//
// The name is validated lazily by Digest (and by the validator constructor),
// not here, so configuration loading stays infallible.
//
// Returns the CertificateConfig for method chaining.
func (c *CertificateConfig) UseDigestAlgorithm(name string) *CertificateConfig {
	c.digestAlgorithm = name
	return c
}

// SetMasterCNs sets the certificate CNs that bypass the app-id match.
//
// Certificates whose CN is on this list are treated as authorized to publish
// under any app identifier. This is a deliberate trust escalation and should
// be configured restrictively by the operator.
//
// Returns the CertificateConfig for method chaining.
func (c *CertificateConfig) SetMasterCNs(cns []string) *CertificateConfig {
	c.masterCNs = append([]string{}, cns...)
	return c
}

// DigestAlgorithm returns the configured digest algorithm name.
func (c *CertificateConfig) DigestAlgorithm() string {
	return c.digestAlgorithm
}

// Digest resolves the configured digest name to a crypto.Hash.
// Returns an error if the name is not a supported algorithm.
func (c *CertificateConfig) Digest() (crypto.Hash, error) {
	return ParseDigestAlgorithm(c.digestAlgorithm)
}

// MasterCNs returns a copy of the master-CN allowlist.
func (c *CertificateConfig) MasterCNs() []string {
	return append([]string{}, c.masterCNs...)
}

// IsMasterCN reports whether cn is on the master allowlist. The comparison
// is case-sensitive and byte-exact, like the app-id match itself.
func (c *CertificateConfig) IsMasterCN(cn string) bool {
	for _, master := range c.masterCNs {
		if cn == master {
			return true
		}
	}
	return false
}

// Validate checks that the configuration is usable.
// Returns an error if the digest algorithm is unknown.
func (c *CertificateConfig) Validate() error {
	if _, err := c.Digest(); err != nil {
		return err
	}
	return nil
}
